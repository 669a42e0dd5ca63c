// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

// Transport abstracts the XFRM netlink connection.
//
// By making the request builders depend on an abstract implementation we
// allow for unit testing and for alternative connection managers.
//
// Submit sends one finalized frame and returns the [ReplyStream] carrying
// the frames the connection correlates to it by sequence number. Submit
// performs no retry and no caching.
type Transport interface {
	Submit(ctx context.Context, m netlink.Message) (ReplyStream, error)
}

// ReplyStream yields the reply frames for one request, in arrival order.
//
// Next returns [io.EOF] once the connection has closed the sequence.
// Close releases interest in further frames; it has no side effect beyond
// that and in particular never notifies the kernel, preserving the
// fire-and-forget cancellation contract. Closing an exhausted stream is a
// no-op. A ReplyStream is owned by a single caller and is not safe for
// concurrent use.
type ReplyStream interface {
	Next(ctx context.Context) (netlink.Message, error)
	Close() error
}

// Conn is a [Transport] backed by a NETLINK_XFRM socket.
//
// A Conn is safe for concurrent use: each exchange (submit through the
// final reply frame) holds the connection exclusively, so concurrent
// requests serialize rather than interleave. Frames left unread by a
// closed [ReplyStream] are discarded when the next exchange filters its
// own sequence number.
type Conn struct {
	mu sync.Mutex
	c  *netlink.Conn
}

// DialConn opens a NETLINK_XFRM socket.
//
// The config argument may be nil, which is equivalent to a zero
// [netlink.Config].
func DialConn(config *netlink.Config) (*Conn, error) {
	c, err := netlink.Dial(unix.NETLINK_XFRM, config)
	if err != nil {
		return nil, fmt.Errorf("xfrm: dial netlink: %w", err)
	}
	return &Conn{c: c}, nil
}

// Close closes the underlying socket. Any in-flight exchange fails.
func (c *Conn) Close() error {
	return c.c.Close()
}

// Submit implements [Transport].
func (c *Conn) Submit(ctx context.Context, m netlink.Message) (ReplyStream, error) {
	c.mu.Lock()
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	req, err := c.c.Send(m)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("xfrm: netlink send: %w", err)
	}
	return &connStream{conn: c, seq: req.Header.Sequence}, nil
}

// connStream is the [ReplyStream] of one exchange on a [*Conn].
//
// The underlying receive already gathers a complete response (multi-part
// dumps included), so the stream fills its buffer from a single receive
// and then ends. Frames whose sequence number belongs to an earlier,
// abandoned exchange are dropped while filling.
type connStream struct {
	conn     *Conn
	seq      uint32
	buf      []netlink.Message
	received bool
	closed   bool
}

var _ ReplyStream = &connStream{}

// Next implements [ReplyStream].
func (s *connStream) Next(ctx context.Context) (netlink.Message, error) {
	for {
		if s.closed {
			return netlink.Message{}, io.EOF
		}
		if len(s.buf) > 0 {
			m := s.buf[0]
			s.buf = s.buf[1:]
			if m.Header.Type == netlink.Done {
				// Dump completion marker, not content.
				continue
			}
			return m, nil
		}
		if s.received {
			return netlink.Message{}, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return netlink.Message{}, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			if err := s.conn.c.SetReadDeadline(deadline); err != nil {
				return netlink.Message{}, fmt.Errorf("xfrm: set read deadline: %w", err)
			}
		}
		msgs, err := s.conn.c.Receive()
		if err != nil {
			return netlink.Message{}, fmt.Errorf("xfrm: netlink receive: %w", err)
		}
		for _, m := range msgs {
			if m.Header.Sequence == s.seq {
				s.buf = append(s.buf, m)
			}
		}
		if len(s.buf) > 0 {
			s.received = true
		}
	}
}

// Close implements [ReplyStream].
func (s *connStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.buf = nil
	s.conn.mu.Unlock()
	return nil
}
