// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"io"
	"net/netip"
	"testing"

	"github.com/ipnet-go/xfrm/xfrmmsg"
	"github.com/mdlayher/netlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// newTestPolicy returns a policy payload the fake kernel can reply with.
func newTestPolicy(priority uint32) *xfrmmsg.Policy {
	p := &xfrmmsg.Policy{}
	p.Info.Sel.SetSource(netip.MustParsePrefix("10.0.0.0/24"))
	p.Info.Sel.SetDestination(netip.MustParsePrefix("10.0.1.0/24"))
	p.Info.Dir = xfrmmsg.DirOut
	p.Info.Action = xfrmmsg.ActionAllow
	p.Info.Priority = priority
	return p
}

func TestPolicyGetExecute(t *testing.T) {
	want := newTestPolicy(42)
	data, err := want.MarshalBinary()
	require.NoError(t, err)

	// A trailing frame that a correct extractor must never observe
	stream := &stubStream{frames: []netlink.Message{
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
	}}
	h, tr := newTestHandle(stream)

	req, err := h.Policy().Get(
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("10.0.1.0/24"))
	require.NoError(t, err)

	got, err := req.Direction(xfrmmsg.DirOut).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Should send a read without requesting an acknowledgement
	require.Len(t, tr.submitted, 1)
	assert.Equal(t, netlink.HeaderType(xfrmmsg.MsgGetPolicy), tr.submitted[0].Header.Type)
	assert.Equal(t, netlink.Request, tr.submitted[0].Header.Flags)

	// Should decide on the first frame and release the stream
	assert.Equal(t, 1, stream.pos)
	assert.True(t, stream.closed)
}

func TestPolicyGetEmptyReply(t *testing.T) {
	h, _ := newTestHandle(&stubStream{})

	req, err := h.Policy().Get(
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("10.0.1.0/24"))
	require.NoError(t, err)

	// A reply sequence ending before any frame is a failed request
	got, err := req.Execute(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestPolicyGetTruncatedAttribute(t *testing.T) {
	// A reply whose mark attribute is shorter than the kernel struct
	data := make([]byte, xfrmmsg.SizeofUserPolicyInfo)
	ab, err := netlink.MarshalAttributes([]netlink.Attribute{
		{Type: xfrmmsg.AttrMark, Data: []byte{1, 2}},
	})
	require.NoError(t, err)
	stream := &stubStream{frames: []netlink.Message{
		payloadFrame(xfrmmsg.MsgNewPolicy, append(data, ab...)),
	}}
	h, _ := newTestHandle(stream)

	req, err := h.Policy().Get(
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("10.0.1.0/24"))
	require.NoError(t, err)

	// The malformed frame should surface as a decode error
	got, err := req.Execute(context.Background())
	assert.Nil(t, got)
	assert.Error(t, err)
	assert.True(t, stream.closed)
}

func TestPolicyGetKernelError(t *testing.T) {
	stream := &stubStream{frames: []netlink.Message{errnoFrame(unix.ENOENT, nil)}}
	h, _ := newTestHandle(stream)

	req, err := h.Policy().Get(
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("10.0.1.0/24"))
	require.NoError(t, err)

	got, err := req.Execute(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, unix.ENOENT)
}

func TestPolicyGetUnexpectedFrame(t *testing.T) {
	// Both a wrong content type and a bare acknowledgement are
	// unexpected in a single-payload read
	frames := []netlink.Message{
		payloadFrame(xfrmmsg.MsgNewSA, nil),
		ackFrame(),
	}
	for _, odd := range frames {
		h, _ := newTestHandle(&stubStream{frames: []netlink.Message{odd}})

		req, err := h.Policy().Get(
			netip.MustParsePrefix("10.0.0.0/24"),
			netip.MustParsePrefix("10.0.1.0/24"))
		require.NoError(t, err)

		got, err := req.Execute(context.Background())
		assert.Nil(t, got)
		var unexpErr *UnexpectedMessageError
		require.ErrorAs(t, err, &unexpErr)
		assert.Equal(t, odd, unexpErr.Message)
	}
}

func TestPolicyGetIndex(t *testing.T) {
	want := newTestPolicy(7)
	data, err := want.MarshalBinary()
	require.NoError(t, err)
	h, tr := newTestHandle(&stubStream{frames: []netlink.Message{
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
	}})

	got, err := h.Policy().GetIndex(16).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Should carry the index in the fixed body
	var id xfrmmsg.PolicyID
	require.NoError(t, id.UnmarshalBinary(tr.submitted[0].Data))
	assert.Equal(t, uint32(16), id.ID.Index)
}

func TestPolicyGetDump(t *testing.T) {
	var frames []netlink.Message
	for i := uint32(1); i <= 3; i++ {
		data, err := newTestPolicy(i).MarshalBinary()
		require.NoError(t, err)
		frames = append(frames, payloadFrame(xfrmmsg.MsgNewPolicy, data))
	}
	stream := &stubStream{frames: frames}
	h, tr := newTestHandle(stream)

	ds, err := h.Policy().GetDump().Execute(context.Background())
	require.NoError(t, err)

	// Should request a dump
	require.Len(t, tr.submitted, 1)
	assert.Equal(t, netlink.HeaderType(xfrmmsg.MsgGetPolicy), tr.submitted[0].Header.Type)
	assert.Equal(t, netlink.Request|netlink.Dump, tr.submitted[0].Header.Flags)

	// Should yield every entry in arrival order and then end
	for i := uint32(1); i <= 3; i++ {
		p, err := ds.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, p.Info.Priority)
	}
	_, err = ds.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	// Close should be idempotent
	assert.NoError(t, ds.Close())
	assert.NoError(t, ds.Close())
	assert.True(t, stream.closed)
}

func TestPolicyGetDumpItemError(t *testing.T) {
	data, err := newTestPolicy(1).MarshalBinary()
	require.NoError(t, err)
	stream := &stubStream{frames: []netlink.Message{
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
		errnoFrame(unix.EINVAL, nil),
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
	}}
	h, _ := newTestHandle(stream)

	ds, err := h.Policy().GetDump().Execute(context.Background())
	require.NoError(t, err)
	defer ds.Close()

	// An item-level error should not end the stream
	_, err = ds.Next(context.Background())
	assert.NoError(t, err)
	_, err = ds.Next(context.Background())
	assert.ErrorIs(t, err, unix.EINVAL)
	_, err = ds.Next(context.Background())
	assert.NoError(t, err)
	_, err = ds.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPolicyGetDumpClosedEarly(t *testing.T) {
	data, err := newTestPolicy(1).MarshalBinary()
	require.NoError(t, err)
	stream := &stubStream{frames: []netlink.Message{
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
		payloadFrame(xfrmmsg.MsgNewPolicy, data),
	}}
	h, _ := newTestHandle(stream)

	ds, err := h.Policy().GetDump().Execute(context.Background())
	require.NoError(t, err)

	// Closing early should silently drop interest in further frames
	_, err = ds.Next(context.Background())
	require.NoError(t, err)
	require.NoError(t, ds.Close())
	_, err = ds.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, stream.pos)
}
