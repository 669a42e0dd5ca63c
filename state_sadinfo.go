// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"

	"github.com/ipnet-go/xfrm/xfrmmsg"
	"github.com/mdlayher/netlink"
)

// StateGetSadInfoRequest is a draft reading the SAD entry count and hash
// table information.
type StateGetSadInfoRequest struct {
	h   *Handle
	msg xfrmmsg.SADInfo
}

func newStateGetSadInfoRequest(h *Handle) *StateGetSadInfoRequest {
	r := &StateGetSadInfoRequest{h: h}
	r.msg.Flags = ^uint32(0)
	return r
}

// Execute submits the read and returns the decoded SAD information.
func (r *StateGetSadInfoRequest) Execute(ctx context.Context) (*xfrmmsg.SADInfo, error) {
	return executeGet[xfrmmsg.SADInfo](
		ctx, r.h, "sadInfoGet", xfrmmsg.MsgGetSADInfo,
		netlink.Request|netlink.Acknowledge, &r.msg, xfrmmsg.MsgNewSADInfo)
}

// StateSetSadInfoRequest is a draft submitting a new-SAD-info request.
// The SAD exposes no tunable thresholds, so the kernel acknowledges the
// request without changing anything; the draft exists for symmetry with
// the SPD side and as a liveness probe.
type StateSetSadInfoRequest struct {
	h   *Handle
	msg xfrmmsg.SADInfo
}

func newStateSetSadInfoRequest(h *Handle) *StateSetSadInfoRequest {
	return &StateSetSadInfoRequest{h: h}
}

// Execute submits the request and succeeds once the reply sequence ends
// without a kernel error.
func (r *StateSetSadInfoRequest) Execute(ctx context.Context) error {
	return executeAck(ctx, r.h, "sadInfoSet", xfrmmsg.MsgNewSADInfo, &r.msg)
}
