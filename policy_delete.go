// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// PolicyDeleteRequest is a draft removing one SPD entry, identified
// either by its selector or by its kernel index.
type PolicyDeleteRequest struct {
	h   *Handle
	msg xfrmmsg.PolicyID
}

func newPolicyDeleteRequest(h *Handle, src, dst netip.Prefix) (*PolicyDeleteRequest, error) {
	if err := checkPrefix(src); err != nil {
		return nil, err
	}
	if err := checkPrefix(dst); err != nil {
		return nil, err
	}
	r := &PolicyDeleteRequest{h: h}
	r.msg.ID.Sel.SetSource(src)
	r.msg.ID.Sel.SetDestination(dst)
	return r, nil
}

func newPolicyDeleteIndexRequest(h *Handle, index uint32) *PolicyDeleteRequest {
	r := &PolicyDeleteRequest{h: h}
	r.msg.ID.Index = index
	return r
}

// Direction sets the direction of the entry to remove.
func (r *PolicyDeleteRequest) Direction(dir xfrmmsg.Dir) *PolicyDeleteRequest {
	r.msg.ID.Dir = dir
	return r
}

// Index sets the kernel index of the entry to remove.
func (r *PolicyDeleteRequest) Index(index uint32) *PolicyDeleteRequest {
	r.msg.ID.Index = index
	return r
}

// SelectorProtocol restricts the selector to one transport protocol.
func (r *PolicyDeleteRequest) SelectorProtocol(proto uint8) *PolicyDeleteRequest {
	r.msg.ID.Sel.Proto = proto
	return r
}

// SelectorSourcePort restricts the selector to one source port.
func (r *PolicyDeleteRequest) SelectorSourcePort(port uint16) *PolicyDeleteRequest {
	r.msg.ID.Sel.SetSourcePort(port)
	return r
}

// SelectorDestinationPort restricts the selector to one destination port.
func (r *PolicyDeleteRequest) SelectorDestinationPort(port uint16) *PolicyDeleteRequest {
	r.msg.ID.Sel.SetDestinationPort(port)
	return r
}

// SelectorDev restricts the selector to one network device.
func (r *PolicyDeleteRequest) SelectorDev(ifindex uint32) *PolicyDeleteRequest {
	r.msg.ID.Sel.IfIndex = int32(ifindex)
	return r
}

// Mark sets the mark and mask attribute.
func (r *PolicyDeleteRequest) Mark(mark, mask uint32) *PolicyDeleteRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// PolicyType sets the policy type (main or sub).
func (r *PolicyDeleteRequest) PolicyType(ptype uint8) *PolicyDeleteRequest {
	r.msg.PolicyType = &xfrmmsg.UserPolicyType{Type: ptype}
	return r
}

// SecurityContext attaches an opaque security context blob.
func (r *PolicyDeleteRequest) SecurityContext(secctx []byte) *PolicyDeleteRequest {
	r.msg.SecCtx = &xfrmmsg.SecurityCtx{Context: append([]byte(nil), secctx...)}
	return r
}

// IfID sets the interface id attribute.
func (r *PolicyDeleteRequest) IfID(ifid uint32) *PolicyDeleteRequest {
	r.msg.IfID = &ifid
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *PolicyDeleteRequest) Message() *xfrmmsg.PolicyID {
	return &r.msg
}

// Execute submits the removal and succeeds once the reply sequence ends
// without a kernel error. Removing an entry that does not exist fails
// with ENOENT.
func (r *PolicyDeleteRequest) Execute(ctx context.Context) error {
	return executeAck(ctx, r.h, "policyDelete", xfrmmsg.MsgDelPolicy, &r.msg)
}

// ExecuteNoAck submits the removal without requesting an acknowledgement.
// It cannot observe kernel rejections.
func (r *PolicyDeleteRequest) ExecuteNoAck(ctx context.Context) error {
	return executeNoAck(ctx, r.h, "policyDelete", xfrmmsg.MsgDelPolicy, &r.msg)
}
