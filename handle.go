// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"log/slog"
	"time"

	"github.com/mdlayher/netlink"
)

// Handle is a cheap, shareable handle for submitting XFRM requests.
//
// Obtain one with [New] or [Dial], then use [Handle.Policy] and
// [Handle.State] to build requests. Sharing a Handle across goroutines is
// safe: each request draft and its reply stream are owned by a single
// caller, and the [Transport] is responsible for keeping concurrent
// exchanges apart.
//
// All fields are safe to modify after construction but before first use.
type Handle struct {
	// Transport is the [Transport] to submit frames on.
	//
	// Set by [New] to the user-provided value.
	Transport Transport

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [New] to [DefaultSLogger].
	Logger SLogger

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [New] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [New] to [time.Now].
	TimeNow func() time.Time
}

// New returns a [*Handle] using the given [Transport].
func New(t Transport) *Handle {
	return &Handle{
		Transport:     t,
		Logger:        DefaultSLogger(),
		ErrClassifier: DefaultErrClassifier,
		TimeNow:       time.Now,
	}
}

// Dial opens a NETLINK_XFRM socket and returns a [*Handle] bound to it
// along with the [*Conn] the caller must eventually close.
//
// The config argument may be nil, which is equivalent to a zero
// [netlink.Config].
func Dial(config *netlink.Config) (*Handle, *Conn, error) {
	conn, err := DialConn(config)
	if err != nil {
		return nil, nil, err
	}
	return New(conn), conn, nil
}

// Policy returns the policy (SPD) request builders.
func (h *Handle) Policy() *PolicyHandle {
	return &PolicyHandle{h}
}

// State returns the state (SA) request builders.
func (h *Handle) State() *StateHandle {
	return &StateHandle{h}
}

// logRequestStart logs the dispatch of one finalized frame.
func (h *Handle) logRequestStart(op string, m netlink.Message, t0 time.Time) {
	h.Logger.Info(
		"xfrmRequestStart",
		slog.String("op", op),
		slog.Uint64("msgType", uint64(m.Header.Type)),
		slog.Uint64("flags", uint64(m.Header.Flags)),
		slog.Int("payloadSize", len(m.Data)),
		slog.Time("t", t0),
	)
}

// logRequestDone logs the terminal result of one request.
func (h *Handle) logRequestDone(op string, t0 time.Time, err error) {
	h.Logger.Info(
		"xfrmRequestDone",
		slog.String("op", op),
		slog.Any("err", err),
		slog.String("errClass", h.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", h.TimeNow()),
	)
}

// logReplyFrame logs one consumed reply frame.
func (h *Handle) logReplyFrame(op string, m netlink.Message) {
	h.Logger.Debug(
		"xfrmReplyFrame",
		slog.String("op", op),
		slog.Uint64("msgType", uint64(m.Header.Type)),
		slog.Uint64("flags", uint64(m.Header.Flags)),
		slog.Int("payloadSize", len(m.Data)),
	)
}
