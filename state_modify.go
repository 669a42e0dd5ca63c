// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// StateModifyRequest is a draft adding or updating SAs.
//
// Configuration methods mutate the draft and return it for chaining;
// they never fail. Malformed combinations (for example an ESP SA with
// no algorithm) surface as a [*NetlinkError] at execute time only.
// A draft is consumed by its terminal operation and must not be reused
// afterwards.
type StateModifyRequest struct {
	h      *Handle
	msg    xfrmmsg.SA
	update bool
}

func newStateModifyRequest(h *Handle, update bool, src, dst netip.Addr) (*StateModifyRequest, error) {
	if err := checkAddr(src); err != nil {
		return nil, err
	}
	if err := checkAddr(dst); err != nil {
		return nil, err
	}
	r := &StateModifyRequest{h: h, update: update}
	r.msg.Info.Saddr = xfrmmsg.AddressOf(src)
	r.msg.Info.ID.Daddr = xfrmmsg.AddressOf(dst)
	r.msg.Info.Family = xfrmmsg.FamilyOf(dst)
	return r, nil
}

// SPI sets the security parameter index of the SA.
func (r *StateModifyRequest) SPI(spi uint32) *StateModifyRequest {
	r.msg.Info.ID.SPI = spi
	return r
}

// Protocol sets the IPsec protocol of the SA, one of the Proto
// constants such as [xfrmmsg.ProtoESP].
func (r *StateModifyRequest) Protocol(proto uint8) *StateModifyRequest {
	r.msg.Info.ID.Proto = proto
	return r
}

// Mode sets the encapsulation mode.
func (r *StateModifyRequest) Mode(mode xfrmmsg.Mode) *StateModifyRequest {
	r.msg.Info.Mode = mode
	return r
}

// Reqid sets the request id linking the SA to its policies.
func (r *StateModifyRequest) Reqid(reqid uint32) *StateModifyRequest {
	r.msg.Info.Reqid = reqid
	return r
}

// Seq sets the sequence number of the SA.
func (r *StateModifyRequest) Seq(seq uint32) *StateModifyRequest {
	r.msg.Info.Seq = seq
	return r
}

// ReplayWindow sets the anti-replay window size.
func (r *StateModifyRequest) ReplayWindow(window uint8) *StateModifyRequest {
	r.msg.Info.ReplayWindow = window
	return r
}

// Flags sets the SA flags, a combination of the State constants such as
// [xfrmmsg.StateNoECN].
func (r *StateModifyRequest) Flags(flags uint8) *StateModifyRequest {
	r.msg.Info.Flags = flags
	return r
}

// Auth sets the authentication algorithm.
func (r *StateModifyRequest) Auth(a *xfrmmsg.Algo) *StateModifyRequest {
	r.msg.Auth = a
	return r
}

// AuthTrunc sets the truncated authentication algorithm.
func (r *StateModifyRequest) AuthTrunc(a *xfrmmsg.AlgoAuth) *StateModifyRequest {
	r.msg.AuthTrunc = a
	return r
}

// Crypt sets the encryption algorithm.
func (r *StateModifyRequest) Crypt(a *xfrmmsg.Algo) *StateModifyRequest {
	r.msg.Crypt = a
	return r
}

// Comp sets the compression algorithm.
func (r *StateModifyRequest) Comp(a *xfrmmsg.Algo) *StateModifyRequest {
	r.msg.Comp = a
	return r
}

// AEAD sets the combined-mode algorithm.
func (r *StateModifyRequest) AEAD(a *xfrmmsg.AlgoAEAD) *StateModifyRequest {
	r.msg.AEAD = a
	return r
}

// Encap sets the NAT traversal encapsulation template.
func (r *StateModifyRequest) Encap(e xfrmmsg.EncapTmpl) *StateModifyRequest {
	r.msg.Encap = &e
	return r
}

// Mark sets the mark and mask attribute.
func (r *StateModifyRequest) Mark(mark, mask uint32) *StateModifyRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// SecurityContext attaches an opaque security context blob.
func (r *StateModifyRequest) SecurityContext(secctx []byte) *StateModifyRequest {
	r.msg.SecCtx = &xfrmmsg.SecurityCtx{Context: append([]byte(nil), secctx...)}
	return r
}

// IfID sets the interface id attribute.
func (r *StateModifyRequest) IfID(ifid uint32) *StateModifyRequest {
	r.msg.IfID = &ifid
	return r
}

// SelectorSource restricts the SA selector to one source prefix.
func (r *StateModifyRequest) SelectorSource(p netip.Prefix) *StateModifyRequest {
	r.msg.Info.Sel.SetSource(p)
	return r
}

// SelectorDestination restricts the SA selector to one destination
// prefix.
func (r *StateModifyRequest) SelectorDestination(p netip.Prefix) *StateModifyRequest {
	r.msg.Info.Sel.SetDestination(p)
	return r
}

// SelectorProtocol restricts the SA selector to one transport protocol.
func (r *StateModifyRequest) SelectorProtocol(proto uint8) *StateModifyRequest {
	r.msg.Info.Sel.Proto = proto
	return r
}

// SelectorSourcePort restricts the SA selector to one source port.
func (r *StateModifyRequest) SelectorSourcePort(port uint16) *StateModifyRequest {
	r.msg.Info.Sel.SetSourcePort(port)
	return r
}

// SelectorDestinationPort restricts the SA selector to one destination
// port.
func (r *StateModifyRequest) SelectorDestinationPort(port uint16) *StateModifyRequest {
	r.msg.Info.Sel.SetDestinationPort(port)
	return r
}

// SelectorDev restricts the SA selector to one network device.
func (r *StateModifyRequest) SelectorDev(ifindex uint32) *StateModifyRequest {
	r.msg.Info.Sel.IfIndex = int32(ifindex)
	return r
}

// TimeLimit sets the soft and hard add-expiry times, in seconds.
func (r *StateModifyRequest) TimeLimit(soft, hard uint64) *StateModifyRequest {
	r.msg.Info.Lft.SoftAddExpiresSeconds = soft
	r.msg.Info.Lft.HardAddExpiresSeconds = hard
	return r
}

// TimeUseLimit sets the soft and hard use-expiry times, in seconds.
func (r *StateModifyRequest) TimeUseLimit(soft, hard uint64) *StateModifyRequest {
	r.msg.Info.Lft.SoftUseExpiresSeconds = soft
	r.msg.Info.Lft.HardUseExpiresSeconds = hard
	return r
}

// ByteLimit sets the soft and hard byte limits.
func (r *StateModifyRequest) ByteLimit(soft, hard uint64) *StateModifyRequest {
	r.msg.Info.Lft.SoftByteLimit = soft
	r.msg.Info.Lft.HardByteLimit = hard
	return r
}

// PacketLimit sets the soft and hard packet limits.
func (r *StateModifyRequest) PacketLimit(soft, hard uint64) *StateModifyRequest {
	r.msg.Info.Lft.SoftPacketLimit = soft
	r.msg.Info.Lft.HardPacketLimit = hard
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *StateModifyRequest) Message() *xfrmmsg.SA {
	return &r.msg
}

func (r *StateModifyRequest) finalize() (op string, typ uint16) {
	if r.update {
		return "stateUpdate", xfrmmsg.MsgUpdSA
	}
	return "stateAdd", xfrmmsg.MsgNewSA
}

// Execute submits the draft with an acknowledgement request and succeeds
// once the reply sequence ends without a kernel error.
func (r *StateModifyRequest) Execute(ctx context.Context) error {
	op, typ := r.finalize()
	return executeAck(ctx, r.h, op, typ, &r.msg)
}

// ExecuteNoAck submits the draft without requesting an acknowledgement.
// It cannot observe kernel rejections and gives no confirmation that the
// kernel installed the SA.
func (r *StateModifyRequest) ExecuteNoAck(ctx context.Context) error {
	op, typ := r.finalize()
	return executeNoAck(ctx, r.h, op, typ, &r.msg)
}
