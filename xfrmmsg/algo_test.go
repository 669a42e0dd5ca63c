// SPDX-License-Identifier: GPL-3.0-or-later

package xfrmmsg

import (
	"strings"
	"testing"

	"github.com/mdlayher/netlink/nlenc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlgo(t *testing.T) {
	// Should accept a regular kernel algorithm name
	a, err := NewAlgo("cbc(aes)", make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, "cbc(aes)", a.Name)

	// Should reject the empty name
	_, err = NewAlgo("", nil)
	var nameErr *AlgNameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "", nameErr.Name)

	// Should reject a name that cannot fit with its terminating NUL
	long := strings.Repeat("x", 64)
	_, err = NewAlgo(long, nil)
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, long, nameErr.Name)

	// The longest representable name is 63 bytes
	_, err = NewAlgo(strings.Repeat("x", 63), nil)
	assert.NoError(t, err)
}

func TestAlgoMarshal(t *testing.T) {
	a, err := NewAlgo("cbc(aes)", make([]byte, 16))
	require.NoError(t, err)

	b, err := a.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 64+4+16)

	// The name field is NUL padded and the key length travels in bits
	assert.Equal(t, byte(0), b[8])
	assert.Equal(t, uint32(128), nlenc.Uint32(b[64:68]))

	var got Algo
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, a, &got)
}

func TestAlgoMarshalRejectsBadName(t *testing.T) {
	a := &Algo{Name: "", Key: nil}
	_, err := a.MarshalBinary()
	var nameErr *AlgNameError
	assert.ErrorAs(t, err, &nameErr)
}

func TestAlgoAuthRoundTrip(t *testing.T) {
	a, err := NewAlgoAuth("hmac(sha256)", make([]byte, 32), 128)
	require.NoError(t, err)

	b, err := a.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 64+8+32)
	assert.Equal(t, uint32(256), nlenc.Uint32(b[64:68]))
	assert.Equal(t, uint32(128), nlenc.Uint32(b[68:72]))

	var got AlgoAuth
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, a, &got)
}

func TestAlgoAEADRoundTrip(t *testing.T) {
	a, err := NewAlgoAEAD("rfc4106(gcm(aes))", make([]byte, 20), 128)
	require.NoError(t, err)

	b, err := a.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 64+8+20)

	var got AlgoAEAD
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, a, &got)
}

func TestAlgoUnmarshalShortPayload(t *testing.T) {
	var a Algo
	assert.Error(t, a.UnmarshalBinary(make([]byte, 10)))

	// A declared key length beyond the payload is an error too
	b := make([]byte, 68)
	copy(b, "comp")
	nlenc.PutUint32(b[64:68], 1024)
	assert.Error(t, a.UnmarshalBinary(b))
}

func TestAlgoUnmarshalHugeKeyLength(t *testing.T) {
	// A key length near the uint32 maximum must not wrap around the
	// rounding to bytes and decode as an empty key
	b := make([]byte, 68)
	copy(b, "cbc(aes)")
	nlenc.PutUint32(b[64:68], ^uint32(0))

	var a Algo
	assert.Error(t, a.UnmarshalBinary(b))

	ba := make([]byte, 72)
	copy(ba, "hmac(sha256)")
	nlenc.PutUint32(ba[64:68], ^uint32(0))

	var auth AlgoAuth
	assert.Error(t, auth.UnmarshalBinary(ba))
	var aead AlgoAEAD
	assert.Error(t, aead.UnmarshalBinary(ba))
}
