// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
	"github.com/mdlayher/netlink"
)

// StateAllocSPIRequest is a draft asking the kernel to reserve an SPI.
// The kernel picks a free value in the configured range, installs a
// larval SA holding it, and replies with that SA.
type StateAllocSPIRequest struct {
	h   *Handle
	msg xfrmmsg.SPIInfo
}

func newStateAllocSPIRequest(h *Handle, src, dst netip.Addr) (*StateAllocSPIRequest, error) {
	if err := checkAddr(src); err != nil {
		return nil, err
	}
	if err := checkAddr(dst); err != nil {
		return nil, err
	}
	r := &StateAllocSPIRequest{h: h}
	r.msg.Info.Info.Saddr = xfrmmsg.AddressOf(src)
	r.msg.Info.Info.ID.Daddr = xfrmmsg.AddressOf(dst)
	r.msg.Info.Info.Family = xfrmmsg.FamilyOf(dst)
	r.msg.Info.Min = 0x100
	r.msg.Info.Max = 0x0fffffff
	return r, nil
}

// Protocol sets the IPsec protocol of the larval SA.
func (r *StateAllocSPIRequest) Protocol(proto uint8) *StateAllocSPIRequest {
	r.msg.Info.Info.ID.Proto = proto
	return r
}

// SPIRange narrows the range the kernel picks the SPI from. The default
// range is 0x100 through 0x0fffffff, matching `ip xfrm`.
func (r *StateAllocSPIRequest) SPIRange(min, max uint32) *StateAllocSPIRequest {
	r.msg.Info.Min = min
	r.msg.Info.Max = max
	return r
}

// Mode sets the encapsulation mode of the larval SA.
func (r *StateAllocSPIRequest) Mode(mode xfrmmsg.Mode) *StateAllocSPIRequest {
	r.msg.Info.Info.Mode = mode
	return r
}

// Reqid sets the request id of the larval SA.
func (r *StateAllocSPIRequest) Reqid(reqid uint32) *StateAllocSPIRequest {
	r.msg.Info.Info.Reqid = reqid
	return r
}

// Seq sets the sequence number of the larval SA.
func (r *StateAllocSPIRequest) Seq(seq uint32) *StateAllocSPIRequest {
	r.msg.Info.Info.Seq = seq
	return r
}

// Mark sets the mark and mask attribute.
func (r *StateAllocSPIRequest) Mark(mark, mask uint32) *StateAllocSPIRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// IfID sets the interface id attribute.
func (r *StateAllocSPIRequest) IfID(ifid uint32) *StateAllocSPIRequest {
	r.msg.IfID = &ifid
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *StateAllocSPIRequest) Message() *xfrmmsg.SPIInfo {
	return &r.msg
}

// Execute submits the reservation and returns the larval SA carrying
// the allocated SPI. An exhausted range fails with ENOENT.
func (r *StateAllocSPIRequest) Execute(ctx context.Context) (*xfrmmsg.SA, error) {
	return executeGet[xfrmmsg.SA](
		ctx, r.h, "stateAllocSPI", xfrmmsg.MsgAllocSPI, netlink.Request, &r.msg, xfrmmsg.MsgNewSA)
}
