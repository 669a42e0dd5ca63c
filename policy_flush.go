// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"

	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// PolicyFlushRequest is a draft removing every SPD entry.
type PolicyFlushRequest struct {
	h   *Handle
	msg xfrmmsg.PolicyFlush
}

func newPolicyFlushRequest(h *Handle) *PolicyFlushRequest {
	return &PolicyFlushRequest{h: h}
}

// Execute submits the flush and succeeds once the reply sequence ends
// without a kernel error. Flushing an already empty SPD succeeds.
func (r *PolicyFlushRequest) Execute(ctx context.Context) error {
	return executeAck(ctx, r.h, "policyFlush", xfrmmsg.MsgFlushPolicy, &r.msg)
}

// ExecuteNoAck submits the flush without requesting an acknowledgement.
func (r *PolicyFlushRequest) ExecuteNoAck(ctx context.Context) error {
	return executeNoAck(ctx, r.h, "policyFlush", xfrmmsg.MsgFlushPolicy, &r.msg)
}
