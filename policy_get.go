// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
	"github.com/mdlayher/netlink"
)

// PolicyGetRequest is a draft reading one SPD entry, identified either
// by its selector or by its kernel index.
type PolicyGetRequest struct {
	h   *Handle
	msg xfrmmsg.PolicyID
}

func newPolicyGetRequest(h *Handle, src, dst netip.Prefix) (*PolicyGetRequest, error) {
	if err := checkPrefix(src); err != nil {
		return nil, err
	}
	if err := checkPrefix(dst); err != nil {
		return nil, err
	}
	r := &PolicyGetRequest{h: h}
	r.msg.ID.Sel.SetSource(src)
	r.msg.ID.Sel.SetDestination(dst)
	return r, nil
}

func newPolicyGetIndexRequest(h *Handle, index uint32) *PolicyGetRequest {
	r := &PolicyGetRequest{h: h}
	r.msg.ID.Index = index
	return r
}

// Direction sets the direction of the entry to read.
func (r *PolicyGetRequest) Direction(dir xfrmmsg.Dir) *PolicyGetRequest {
	r.msg.ID.Dir = dir
	return r
}

// Mark sets the mark and mask attribute.
func (r *PolicyGetRequest) Mark(mark, mask uint32) *PolicyGetRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// PolicyType sets the policy type (main or sub).
func (r *PolicyGetRequest) PolicyType(ptype uint8) *PolicyGetRequest {
	r.msg.PolicyType = &xfrmmsg.UserPolicyType{Type: ptype}
	return r
}

// IfID sets the interface id attribute.
func (r *PolicyGetRequest) IfID(ifid uint32) *PolicyGetRequest {
	r.msg.IfID = &ifid
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *PolicyGetRequest) Message() *xfrmmsg.PolicyID {
	return &r.msg
}

// Execute submits the read and returns the decoded entry. A missing
// entry fails with ENOENT.
func (r *PolicyGetRequest) Execute(ctx context.Context) (*xfrmmsg.Policy, error) {
	return executeGet[xfrmmsg.Policy](
		ctx, r.h, "policyGet", xfrmmsg.MsgGetPolicy, netlink.Request, &r.msg, xfrmmsg.MsgNewPolicy)
}

// PolicyGetDumpRequest is a draft enumerating every SPD entry.
type PolicyGetDumpRequest struct {
	h   *Handle
	msg xfrmmsg.PolicyDump
}

func newPolicyGetDumpRequest(h *Handle) *PolicyGetDumpRequest {
	return &PolicyGetDumpRequest{h: h}
}

// Message returns the underlying message for attaching extra dump
// attributes.
func (r *PolicyGetDumpRequest) Message() *xfrmmsg.PolicyDump {
	return &r.msg
}

// Execute submits the dump and returns a stream of decoded entries. An
// empty SPD yields a stream that is immediately exhausted, which is not
// an error.
func (r *PolicyGetDumpRequest) Execute(ctx context.Context) (*DumpStream[xfrmmsg.Policy], error) {
	return executeDump[xfrmmsg.Policy](
		ctx, r.h, "policyDump", xfrmmsg.MsgGetPolicy, &r.msg, xfrmmsg.MsgNewPolicy)
}
