// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// PolicyModifyRequest is a draft adding or updating SPD entries.
//
// Configuration methods mutate the draft and return it for chaining; they
// never fail. Combinations the kernel rejects (for example an index not
// matching its direction under the kernel's index&7 == direction rule)
// surface as a [*NetlinkError] at execute time only. A draft is consumed
// by its terminal operation and must not be reused afterwards.
type PolicyModifyRequest struct {
	h      *Handle
	msg    xfrmmsg.Policy
	update bool
	tmpls  []xfrmmsg.UserTemplate
}

func newPolicyModifyRequest(h *Handle, update bool, src, dst netip.Prefix) (*PolicyModifyRequest, error) {
	if err := checkPrefix(src); err != nil {
		return nil, err
	}
	if err := checkPrefix(dst); err != nil {
		return nil, err
	}
	r := &PolicyModifyRequest{h: h, update: update}
	r.msg.Info.Sel.SetSource(src)
	r.msg.Info.Sel.SetDestination(dst)
	return r, nil
}

// Direction sets the policy direction.
func (r *PolicyModifyRequest) Direction(dir xfrmmsg.Dir) *PolicyModifyRequest {
	r.msg.Info.Dir = dir
	return r
}

// Action sets the policy action.
func (r *PolicyModifyRequest) Action(action xfrmmsg.Action) *PolicyModifyRequest {
	r.msg.Info.Action = action
	return r
}

// PolicyType sets the policy type (main or sub).
func (r *PolicyModifyRequest) PolicyType(ptype uint8) *PolicyModifyRequest {
	r.msg.PolicyType = &xfrmmsg.UserPolicyType{Type: ptype}
	return r
}

// SecurityContext attaches an opaque security context blob.
func (r *PolicyModifyRequest) SecurityContext(secctx []byte) *PolicyModifyRequest {
	r.msg.SecCtx = &xfrmmsg.SecurityCtx{Context: append([]byte(nil), secctx...)}
	return r
}

// Index manually chooses the policy index instead of letting the kernel
// pick one. Only certain values work, depending on the direction: the
// kernel requires index&7 == direction, e.g. direction in (0) accepts
// 8, 16, 24, ...; direction out (1) accepts 1, 9, 17, ...; direction
// fwd (2) accepts 2, 10, 18, ... Other values come back as EINVAL.
func (r *PolicyModifyRequest) Index(index uint32) *PolicyModifyRequest {
	r.msg.Info.Index = index
	return r
}

// Priority sets the policy priority.
func (r *PolicyModifyRequest) Priority(priority uint32) *PolicyModifyRequest {
	r.msg.Info.Priority = priority
	return r
}

// IfID sets the interface id attribute.
func (r *PolicyModifyRequest) IfID(ifid uint32) *PolicyModifyRequest {
	r.msg.IfID = &ifid
	return r
}

// Flags sets the policy flags.
func (r *PolicyModifyRequest) Flags(flags uint8) *PolicyModifyRequest {
	r.msg.Info.Flags = flags
	return r
}

// Mark sets the mark and mask attribute.
func (r *PolicyModifyRequest) Mark(mark, mask uint32) *PolicyModifyRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// TimeLimit sets the soft and hard add-expiry times, in seconds.
func (r *PolicyModifyRequest) TimeLimit(soft, hard uint64) *PolicyModifyRequest {
	r.msg.Info.Lft.SoftAddExpiresSeconds = soft
	r.msg.Info.Lft.HardAddExpiresSeconds = hard
	return r
}

// TimeUseLimit sets the soft and hard use-expiry times, in seconds.
func (r *PolicyModifyRequest) TimeUseLimit(soft, hard uint64) *PolicyModifyRequest {
	r.msg.Info.Lft.SoftUseExpiresSeconds = soft
	r.msg.Info.Lft.HardUseExpiresSeconds = hard
	return r
}

// ByteLimit sets the soft and hard byte limits.
func (r *PolicyModifyRequest) ByteLimit(soft, hard uint64) *PolicyModifyRequest {
	r.msg.Info.Lft.SoftByteLimit = soft
	r.msg.Info.Lft.HardByteLimit = hard
	return r
}

// PacketLimit sets the soft and hard packet limits.
func (r *PolicyModifyRequest) PacketLimit(soft, hard uint64) *PolicyModifyRequest {
	r.msg.Info.Lft.SoftPacketLimit = soft
	r.msg.Info.Lft.HardPacketLimit = hard
	return r
}

// SelectorProtocol restricts the selector to one transport protocol.
func (r *PolicyModifyRequest) SelectorProtocol(proto uint8) *PolicyModifyRequest {
	r.msg.Info.Sel.Proto = proto
	return r
}

// SelectorSourcePort restricts the selector to one source port.
func (r *PolicyModifyRequest) SelectorSourcePort(port uint16) *PolicyModifyRequest {
	r.msg.Info.Sel.SetSourcePort(port)
	return r
}

// SelectorDestinationPort restricts the selector to one destination port.
func (r *PolicyModifyRequest) SelectorDestinationPort(port uint16) *PolicyModifyRequest {
	r.msg.Info.Sel.SetDestinationPort(port)
	return r
}

// SelectorProtocolType restricts the selector to one ICMP type, which the
// kernel overlays on the source port field.
func (r *PolicyModifyRequest) SelectorProtocolType(typ uint8) *PolicyModifyRequest {
	r.msg.Info.Sel.SetSourcePort(uint16(typ))
	return r
}

// SelectorProtocolCode restricts the selector to one ICMP code, which the
// kernel overlays on the destination port field.
func (r *PolicyModifyRequest) SelectorProtocolCode(code uint8) *PolicyModifyRequest {
	r.msg.Info.Sel.SetDestinationPort(uint16(code))
	return r
}

// SelectorGREKey restricts the selector to one GRE key, which the kernel
// overlays on the port pair.
func (r *PolicyModifyRequest) SelectorGREKey(key uint32) *PolicyModifyRequest {
	r.msg.Info.Sel.SetGREKey(key)
	return r
}

// SelectorDev restricts the selector to one network device.
func (r *PolicyModifyRequest) SelectorDev(ifindex uint32) *PolicyModifyRequest {
	r.msg.Info.Sel.IfIndex = int32(ifindex)
	return r
}

// AddTemplate appends a template to the draft's accumulation list. The
// list is merged into a single multi-entry template attribute when the
// frame is finalized, because the kernel accepts one attribute carrying
// an array rather than repeated attributes.
func (r *PolicyModifyRequest) AddTemplate(t xfrmmsg.UserTemplate) *PolicyModifyRequest {
	r.tmpls = append(r.tmpls, t)
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *PolicyModifyRequest) Message() *xfrmmsg.Policy {
	return &r.msg
}

func (r *PolicyModifyRequest) finalize() (op string, typ uint16, body *xfrmmsg.Policy) {
	if len(r.tmpls) > 0 {
		r.msg.Templates = append(r.msg.Templates, r.tmpls...)
		r.tmpls = nil
	}
	if r.update {
		return "policyUpdate", xfrmmsg.MsgUpdPolicy, &r.msg
	}
	return "policyAdd", xfrmmsg.MsgNewPolicy, &r.msg
}

// Execute finalizes the draft, submits it with an acknowledgement
// request, and succeeds once the reply sequence ends without a kernel
// error.
func (r *PolicyModifyRequest) Execute(ctx context.Context) error {
	op, typ, body := r.finalize()
	return executeAck(ctx, r.h, op, typ, body)
}

// ExecuteNoAck finalizes and submits the draft without requesting an
// acknowledgement. It cannot observe kernel rejections and gives no
// confirmation that the kernel applied the change.
func (r *PolicyModifyRequest) ExecuteNoAck(ctx context.Context) error {
	op, typ, body := r.finalize()
	return executeNoAck(ctx, r.h, op, typ, body)
}
