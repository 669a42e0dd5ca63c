// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"context"
	"errors"
	"log/slog"
	"net/netip"
	"testing"

	"github.com/mdlayher/netlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	tr := &stubTransport{}
	h := New(tr)

	// Should wire the transport and usable defaults for everything else
	assert.Same(t, Transport(tr), h.Transport)
	assert.NotNil(t, h.Logger)
	assert.NotNil(t, h.ErrClassifier)
	assert.NotNil(t, h.TimeNow)
	assert.False(t, h.TimeNow().IsZero())
}

func TestHandleBuilders(t *testing.T) {
	h, _ := newTestHandle()
	assert.NotNil(t, h.Policy())
	assert.NotNil(t, h.State())
}

func TestHandleSubmitError(t *testing.T) {
	submitErr := errors.New("socket closed")
	h := New(&stubTransport{err: submitErr})

	// A transport failure should propagate through every shape
	req, err := h.Policy().Add(
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("10.0.1.0/24"))
	require.NoError(t, err)
	assert.ErrorIs(t, req.Execute(context.Background()), submitErr)

	getReq, err := h.State().Get(
		netip.MustParseAddr("10.0.0.1"),
		netip.MustParseAddr("10.0.1.1"))
	require.NoError(t, err)
	_, err = getReq.Execute(context.Background())
	assert.ErrorIs(t, err, submitErr)

	_, err = h.State().GetDump().Execute(context.Background())
	assert.ErrorIs(t, err, submitErr)
}

func TestHandleLogsReplyFrames(t *testing.T) {
	h, _ := newTestHandle(&stubStream{frames: []netlink.Message{ackFrame()}})
	logger, records := newCapturingLogger()
	h.Logger = logger

	require.NoError(t, h.Policy().Flush().Execute(context.Background()))

	// Should have logged the consumed acknowledgement at debug level
	var sawFrame bool
	for _, r := range *records {
		if r.Message == "xfrmReplyFrame" {
			sawFrame = true
			assert.Equal(t, slog.LevelDebug, r.Level)
		}
	}
	assert.True(t, sawFrame)
}
