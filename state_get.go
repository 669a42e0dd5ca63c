// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"net/netip"

	"github.com/ipnet-go/xfrm/xfrmmsg"
	"github.com/mdlayher/netlink"
)

// StateGetRequest is a draft reading one SA.
type StateGetRequest struct {
	h   *Handle
	msg xfrmmsg.SAID
}

func newStateGetRequest(h *Handle, src, dst netip.Addr) (*StateGetRequest, error) {
	if err := checkAddr(src); err != nil {
		return nil, err
	}
	if err := checkAddr(dst); err != nil {
		return nil, err
	}
	r := &StateGetRequest{h: h}
	saddr := xfrmmsg.AddressOf(src)
	r.msg.SourceAddress = &saddr
	r.msg.ID.Daddr = xfrmmsg.AddressOf(dst)
	r.msg.ID.Family = xfrmmsg.FamilyOf(dst)
	return r, nil
}

// SPI sets the security parameter index of the SA to read.
func (r *StateGetRequest) SPI(spi uint32) *StateGetRequest {
	r.msg.ID.SPI = spi
	return r
}

// Protocol sets the IPsec protocol of the SA to read.
func (r *StateGetRequest) Protocol(proto uint8) *StateGetRequest {
	r.msg.ID.Proto = proto
	return r
}

// Mark sets the mark and mask attribute.
func (r *StateGetRequest) Mark(mark, mask uint32) *StateGetRequest {
	r.msg.Mark = &xfrmmsg.Mark{Value: mark, Mask: mask}
	return r
}

// IfID sets the interface id attribute.
func (r *StateGetRequest) IfID(ifid uint32) *StateGetRequest {
	r.msg.IfID = &ifid
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *StateGetRequest) Message() *xfrmmsg.SAID {
	return &r.msg
}

// Execute submits the read and returns the decoded SA. A missing SA
// fails with ESRCH.
func (r *StateGetRequest) Execute(ctx context.Context) (*xfrmmsg.SA, error) {
	return executeGet[xfrmmsg.SA](
		ctx, r.h, "stateGet", xfrmmsg.MsgGetSA, netlink.Request, &r.msg, xfrmmsg.MsgNewSA)
}

// StateGetDumpRequest is a draft enumerating every SA.
type StateGetDumpRequest struct {
	h   *Handle
	msg xfrmmsg.SADump
}

func newStateGetDumpRequest(h *Handle) *StateGetDumpRequest {
	return &StateGetDumpRequest{h: h}
}

// SourceFilter restricts the dump to SAs whose source matches the given
// prefix.
func (r *StateGetDumpRequest) SourceFilter(p netip.Prefix) *StateGetDumpRequest {
	if r.msg.Filter == nil {
		r.msg.Filter = &xfrmmsg.AddressFilter{}
	}
	r.msg.Filter.SetSource(p)
	return r
}

// DestinationFilter restricts the dump to SAs whose destination matches
// the given prefix.
func (r *StateGetDumpRequest) DestinationFilter(p netip.Prefix) *StateGetDumpRequest {
	if r.msg.Filter == nil {
		r.msg.Filter = &xfrmmsg.AddressFilter{}
	}
	r.msg.Filter.SetDestination(p)
	return r
}

// Protocol restricts the dump to SAs of one IPsec protocol.
func (r *StateGetDumpRequest) Protocol(proto uint8) *StateGetDumpRequest {
	r.msg.Proto = &proto
	return r
}

// Message returns the underlying message for advanced fields not covered
// by the named setters.
func (r *StateGetDumpRequest) Message() *xfrmmsg.SADump {
	return &r.msg
}

// Execute submits the dump and returns a stream of decoded SAs. An
// empty SAD yields a stream that is immediately exhausted, which is not
// an error.
func (r *StateGetDumpRequest) Execute(ctx context.Context) (*DumpStream[xfrmmsg.SA], error) {
	return executeDump[xfrmmsg.SA](
		ctx, r.h, "stateDump", xfrmmsg.MsgGetSA, &r.msg, xfrmmsg.MsgNewSA)
}
