// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"

	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// StateFlushRequest is a draft removing every SA, optionally restricted
// to one IPsec protocol.
type StateFlushRequest struct {
	h   *Handle
	msg xfrmmsg.SAFlush
}

func newStateFlushRequest(h *Handle) *StateFlushRequest {
	return &StateFlushRequest{h: h}
}

// Protocol restricts the flush to one IPsec protocol. Zero, the
// default, flushes all protocols.
func (r *StateFlushRequest) Protocol(proto uint8) *StateFlushRequest {
	r.msg.Proto = proto
	return r
}

// Execute submits the flush and succeeds once the reply sequence ends
// without a kernel error. Flushing an already empty SAD succeeds.
func (r *StateFlushRequest) Execute(ctx context.Context) error {
	return executeAck(ctx, r.h, "stateFlush", xfrmmsg.MsgFlushSA, &r.msg)
}

// ExecuteNoAck submits the flush without requesting an acknowledgement.
func (r *StateFlushRequest) ExecuteNoAck(ctx context.Context) error {
	return executeNoAck(ctx, r.h, "stateFlush", xfrmmsg.MsgFlushSA, &r.msg)
}
