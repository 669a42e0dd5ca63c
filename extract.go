// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// finalizeFrame assembles the single outbound frame for a request.
// The body may be nil for operations without a message body.
func finalizeFrame(typ uint16, flags netlink.HeaderFlags, body encoding.BinaryMarshaler) (netlink.Message, error) {
	var data []byte
	if body != nil {
		b, err := body.MarshalBinary()
		if err != nil {
			return netlink.Message{}, err
		}
		data = b
	}
	return netlink.Message{
		Header: netlink.Header{
			Type:  netlink.HeaderType(typ),
			Flags: flags,
		},
		Data: data,
	}, nil
}

// kernelError decodes an NLMSG_ERROR frame. A zero code is an
// acknowledgement and yields ack=true with a nil error; a malformed
// frame yields an [*UnexpectedMessageError].
func kernelError(m netlink.Message) (err error, ack bool) {
	if len(m.Data) < 4 {
		return &UnexpectedMessageError{Message: m}, false
	}
	code := nlenc.Int32(m.Data[:4])
	if code == 0 {
		return nil, true
	}
	return &NetlinkError{Errno: unix.Errno(-code), Data: m.Data[4:]}, false
}

// awaitAck consumes an ack-stream reply: acknowledgement frames are
// discarded, the first kernel error ends the operation with that error,
// and any other frame is unexpected. A stream that ends without a kernel
// error means success.
func awaitAck(ctx context.Context, h *Handle, op string, rs ReplyStream) error {
	defer rs.Close()
	for {
		m, err := rs.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		h.logReplyFrame(op, m)
		if m.Header.Type != netlink.Error {
			return &UnexpectedMessageError{Message: m}
		}
		kerr, ack := kernelError(m)
		if ack {
			continue
		}
		return kerr
	}
}

// decodeFrame applies the single-payload matching rule to one frame: a
// frame of the expected type decodes into M, a kernel error frame decodes
// into its [*NetlinkError], and anything else (acknowledgements included)
// is unexpected.
func decodeFrame[M any, PM interface {
	*M
	encoding.BinaryUnmarshaler
}](m netlink.Message, want netlink.HeaderType) (*M, error) {
	switch m.Header.Type {
	case netlink.Error:
		kerr, ack := kernelError(m)
		if ack {
			return nil, &UnexpectedMessageError{Message: m}
		}
		return nil, kerr
	case want:
		pm := PM(new(M))
		if err := pm.UnmarshalBinary(m.Data); err != nil {
			return nil, fmt.Errorf("xfrm: decode reply: %w", err)
		}
		return (*M)(pm), nil
	default:
		return nil, &UnexpectedMessageError{Message: m}
	}
}

// awaitReply consumes a single-payload reply: the first frame alone
// decides the outcome and the stream is released immediately after, so
// any later frame is never observed. An empty stream is a failed request.
func awaitReply[M any, PM interface {
	*M
	encoding.BinaryUnmarshaler
}](ctx context.Context, h *Handle, op string, rs ReplyStream, want netlink.HeaderType) (*M, error) {
	defer rs.Close()
	m, err := rs.Next(ctx)
	if errors.Is(err, io.EOF) {
		return nil, ErrRequestFailed
	}
	if err != nil {
		return nil, err
	}
	h.logReplyFrame(op, m)
	return decodeFrame[M, PM](m, want)
}

// executeAck finalizes, submits and awaits an ack-stream operation.
func executeAck(ctx context.Context, h *Handle, op string, typ uint16, body encoding.BinaryMarshaler) error {
	t0 := h.TimeNow()
	frame, err := finalizeFrame(typ, netlink.Request|netlink.Acknowledge, body)
	if err != nil {
		return err
	}
	h.logRequestStart(op, frame, t0)
	rs, err := h.Transport.Submit(ctx, frame)
	if err == nil {
		err = awaitAck(ctx, h, op, rs)
	}
	h.logRequestDone(op, t0, err)
	return err
}

// executeNoAck finalizes and submits without requesting an
// acknowledgement. It returns as soon as the transport accepts the frame
// and never inspects a reply, so it cannot observe kernel rejections and
// gives no confirmation that the kernel applied the change.
func executeNoAck(ctx context.Context, h *Handle, op string, typ uint16, body encoding.BinaryMarshaler) error {
	t0 := h.TimeNow()
	frame, err := finalizeFrame(typ, netlink.Request, body)
	if err != nil {
		return err
	}
	h.logRequestStart(op, frame, t0)
	rs, err := h.Transport.Submit(ctx, frame)
	if err == nil {
		rs.Close()
	}
	h.logRequestDone(op, t0, err)
	return err
}

// executeGet finalizes, submits and awaits a single-payload operation.
func executeGet[M any, PM interface {
	*M
	encoding.BinaryUnmarshaler
}](ctx context.Context, h *Handle, op string, typ uint16, flags netlink.HeaderFlags, body encoding.BinaryMarshaler, want uint16) (*M, error) {
	t0 := h.TimeNow()
	frame, err := finalizeFrame(typ, flags, body)
	if err != nil {
		return nil, err
	}
	h.logRequestStart(op, frame, t0)
	rs, err := h.Transport.Submit(ctx, frame)
	var res *M
	if err == nil {
		res, err = awaitReply[M, PM](ctx, h, op, rs, netlink.HeaderType(want))
	}
	h.logRequestDone(op, t0, err)
	return res, err
}

// executeDump finalizes and submits a dump operation, returning the
// consumer-paced stream of decoded payloads.
func executeDump[M any, PM interface {
	*M
	encoding.BinaryUnmarshaler
}](ctx context.Context, h *Handle, op string, typ uint16, body encoding.BinaryMarshaler, want uint16) (*DumpStream[M], error) {
	t0 := h.TimeNow()
	frame, err := finalizeFrame(typ, netlink.Request|netlink.Dump, body)
	if err != nil {
		return nil, err
	}
	h.logRequestStart(op, frame, t0)
	rs, err := h.Transport.Submit(ctx, frame)
	if err != nil {
		h.logRequestDone(op, t0, err)
		return nil, err
	}
	return &DumpStream[M]{
		h:    h,
		op:   op,
		t0:   t0,
		rs:   rs,
		want: netlink.HeaderType(want),
		decode: func(m netlink.Message) (*M, error) {
			return decodeFrame[M, PM](m, netlink.HeaderType(want))
		},
	}, nil
}

// DumpStream is the lazy, consumer-paced sequence of decoded payloads
// produced by a dump operation.
//
// Each pulled frame is matched independently: an item-level error (for
// example a kernel error frame mid-dump) does not end the stream, which
// runs until the connection closes the reply sequence. The stream is not
// restartable. Callers must Close it when done; closing early silently
// drops interest in further frames.
type DumpStream[M any] struct {
	h      *Handle
	op     string
	t0     time.Time
	rs     ReplyStream
	want   netlink.HeaderType
	decode func(netlink.Message) (*M, error)
	closed bool
}

// Next returns the next decoded payload. It returns [io.EOF] once the
// dump has ended or the stream has been closed.
func (d *DumpStream[M]) Next(ctx context.Context) (*M, error) {
	if d.closed {
		return nil, io.EOF
	}
	m, err := d.rs.Next(ctx)
	if err != nil {
		return nil, err
	}
	d.h.logReplyFrame(d.op, m)
	return d.decode(m)
}

// Close releases the stream. It is idempotent.
func (d *DumpStream[M]) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := d.rs.Close()
	d.h.logRequestDone(d.op, d.t0, nil)
	return err
}
