// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// StateDeleteRequest is a draft removing one SA.
type StateDeleteRequest struct {
	h   *Handle
	msg xfrmmsg.SAID
}

func newStateDeleteRequest(h *Handle, src, dst netip.Addr) (*StateDeleteRequest, error) {
	if err := checkAddr(src); err != nil {
		return nil, err
	}
	if err := checkAddr(dst); err != nil {
		return nil, err
	}
	r := &StateDeleteRequest{h: h}
	saddr := xfrmmsg.AddressOf(src)
	r.msg.SourceAddress = &saddr
	r.msg.ID.Daddr = xfrmmsg.AddressOf(dst)
	r.msg.ID.Family = xfrmmsg.FamilyOf(dst)
	return r, nil
}

// SPI sets the security parameter index of the SA to remove.
func (r *StateDeleteRequest) SPI(spi uint32) *StateDeleteRequest {
	r.msg.ID.SPI = spi
	return r
}

// Protocol sets the IPsec protocol of the SA to remove.
func (r *StateDeleteRequest) Protocol(proto uint8) *StateDeleteRequest {
	r.msg.ID.Proto = proto
	return r
}

// Mark sets the mark and mask attribute.
func (r *StateDeleteRequest) Mark(mark, mask uint32) *StateDeleteRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// IfID sets the interface id attribute.
func (r *StateDeleteRequest) IfID(ifid uint32) *StateDeleteRequest {
	r.msg.IfID = &ifid
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *StateDeleteRequest) Message() *xfrmmsg.SAID {
	return &r.msg
}

// Execute submits the removal and succeeds once the reply sequence ends
// without a kernel error. Removing an SA that does not exist fails with
// ESRCH.
func (r *StateDeleteRequest) Execute(ctx context.Context) error {
	return executeAck(ctx, r.h, "stateDelete", xfrmmsg.MsgDelSA, &r.msg)
}

// ExecuteNoAck submits the removal without requesting an
// acknowledgement. It cannot observe kernel rejections.
func (r *StateDeleteRequest) ExecuteNoAck(ctx context.Context) error {
	return executeNoAck(ctx, r.h, "stateDelete", xfrmmsg.MsgDelSA, &r.msg)
}
