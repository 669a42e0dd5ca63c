// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"io"
	"log/slog"

	"github.com/bassosimone/slogstub"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// stubStream is a scripted [ReplyStream] that yields its frames in order
// and then [io.EOF]. It records how far the code under test consumed it.
type stubStream struct {
	frames []netlink.Message
	pos    int
	closed bool
}

var _ ReplyStream = &stubStream{}

// Next implements [ReplyStream].
func (s *stubStream) Next(ctx context.Context) (netlink.Message, error) {
	if s.closed || s.pos >= len(s.frames) {
		return netlink.Message{}, io.EOF
	}
	m := s.frames[s.pos]
	s.pos++
	return m, nil
}

// Close implements [ReplyStream].
func (s *stubStream) Close() error {
	s.closed = true
	return nil
}

// stubTransport is a scripted [Transport] that records submitted frames
// and hands out the configured streams in order. Once the streams run
// out it hands out empty ones.
type stubTransport struct {
	submitted []netlink.Message
	streams   []*stubStream
	err       error
}

var _ Transport = &stubTransport{}

// Submit implements [Transport].
func (t *stubTransport) Submit(ctx context.Context, m netlink.Message) (ReplyStream, error) {
	if t.err != nil {
		return nil, t.err
	}
	t.submitted = append(t.submitted, m)
	if len(t.streams) == 0 {
		return &stubStream{}, nil
	}
	s := t.streams[0]
	t.streams = t.streams[1:]
	return s, nil
}

// newTestHandle returns a [*Handle] wired to a [*stubTransport] that
// replies with the given streams in order.
func newTestHandle(streams ...*stubStream) (*Handle, *stubTransport) {
	tr := &stubTransport{streams: streams}
	return New(tr), tr
}

// ackFrame returns an NLMSG_ERROR frame with a zero code, which is the
// kernel's acknowledgement.
func ackFrame() netlink.Message {
	return netlink.Message{
		Header: netlink.Header{Type: netlink.Error},
		Data:   make([]byte, 4),
	}
}

// errnoFrame returns an NLMSG_ERROR frame rejecting the request with the
// given errno and echoing the given request bytes.
func errnoFrame(errno unix.Errno, echo []byte) netlink.Message {
	data := make([]byte, 4, 4+len(echo))
	nlenc.PutInt32(data, -int32(errno))
	return netlink.Message{
		Header: netlink.Header{Type: netlink.Error},
		Data:   append(data, echo...),
	}
}

// payloadFrame returns a content frame of the given type.
func payloadFrame(typ uint16, data []byte) netlink.Message {
	return netlink.Message{
		Header: netlink.Header{Type: netlink.HeaderType(typ)},
		Data:   data,
	}
}
