// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"

	"github.com/ipnet-go/xfrm/xfrmmsg"
	"github.com/mdlayher/netlink"
)

// PolicyGetSpdInfoRequest is a draft reading the SPD statistics and hash
// table information.
type PolicyGetSpdInfoRequest struct {
	h   *Handle
	msg xfrmmsg.SPDInfo
}

func newPolicyGetSpdInfoRequest(h *Handle) *PolicyGetSpdInfoRequest {
	r := &PolicyGetSpdInfoRequest{h: h}
	r.msg.Flags = ^uint32(0)
	return r
}

// Execute submits the read and returns the decoded SPD information.
func (r *PolicyGetSpdInfoRequest) Execute(ctx context.Context) (*xfrmmsg.SPDInfo, error) {
	return executeGet[xfrmmsg.SPDInfo](
		ctx, r.h, "spdInfoGet", xfrmmsg.MsgGetSPDInfo,
		netlink.Request|netlink.Acknowledge, &r.msg, xfrmmsg.MsgNewSPDInfo)
}

// PolicySetSpdInfoRequest is a draft tuning the SPD hash thresholds.
type PolicySetSpdInfoRequest struct {
	h   *Handle
	msg xfrmmsg.SPDInfo
}

func newPolicySetSpdInfoRequest(h *Handle) *PolicySetSpdInfoRequest {
	r := &PolicySetSpdInfoRequest{h: h}
	r.msg.Flags = ^uint32(0)
	return r
}

// HThresh4 sets the IPv4 hash threshold prefix lengths. Values above 32
// bits are out of range and leave the draft unchanged.
func (r *PolicySetSpdInfoRequest) HThresh4(lbits, rbits uint8) *PolicySetSpdInfoRequest {
	if lbits <= 32 && rbits <= 32 {
		r.msg.Thresh4 = &xfrmmsg.SPDHThresh{LBits: lbits, RBits: rbits}
	}
	return r
}

// HThresh6 sets the IPv6 hash threshold prefix lengths. Values above 128
// bits are out of range and leave the draft unchanged.
func (r *PolicySetSpdInfoRequest) HThresh6(lbits, rbits uint8) *PolicySetSpdInfoRequest {
	if lbits <= 128 && rbits <= 128 {
		r.msg.Thresh6 = &xfrmmsg.SPDHThresh{LBits: lbits, RBits: rbits}
	}
	return r
}

// Execute submits the tuning request and succeeds once the reply
// sequence ends without a kernel error. With neither threshold recorded
// the request is still sent and the kernel acknowledges it as a no-op.
func (r *PolicySetSpdInfoRequest) Execute(ctx context.Context) error {
	return executeAck(ctx, r.h, "spdInfoSet", xfrmmsg.MsgNewSPDInfo, &r.msg)
}
