// SPDX-License-Identifier: GPL-3.0-or-later

package xfrmmsg

import (
	"fmt"

	"github.com/mdlayher/netlink/nlenc"
)

// algNameSize is the size of the fixed name field shared by all kernel
// algorithm structures, including the terminating NUL.
const algNameSize = 64

// AlgNameError reports an algorithm or compression name that cannot be
// represented in the kernel's fixed-width name field.
type AlgNameError struct {
	// Name is the offending name string.
	Name string
}

// Error implements the error interface.
func (e *AlgNameError) Error() string {
	return fmt.Sprintf("invalid algorithm name %q", e.Name)
}

func checkAlgName(name string) error {
	if len(name) == 0 || len(name) >= algNameSize {
		return &AlgNameError{Name: name}
	}
	return nil
}

func putAlgName(b []byte, name string) {
	copy(b[:algNameSize-1], name)
}

func algName(b []byte) string {
	for i, c := range b[:algNameSize] {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b[:algNameSize])
}

// Algo is struct xfrm_algo, an authentication, encryption or compression
// algorithm with its key (XFRMA_ALG_AUTH, XFRMA_ALG_CRYPT, XFRMA_ALG_COMP).
type Algo struct {
	// Name is the kernel algorithm name, e.g. "hmac(sha256)".
	Name string

	// Key is the raw key material. The key length communicated to the
	// kernel is derived from it, in bits.
	Key []byte
}

// NewAlgo returns an [*Algo], validating that the name fits the kernel's
// fixed-width name field. Returns an [*AlgNameError] otherwise.
func NewAlgo(name string, key []byte) (*Algo, error) {
	if err := checkAlgName(name); err != nil {
		return nil, err
	}
	return &Algo{Name: name, Key: key}, nil
}

// MarshalBinary encodes the algorithm into the kernel layout.
func (a *Algo) MarshalBinary() ([]byte, error) {
	if err := checkAlgName(a.Name); err != nil {
		return nil, err
	}
	b := make([]byte, algNameSize+4+len(a.Key))
	putAlgName(b, a.Name)
	nlenc.PutUint32(b[algNameSize:algNameSize+4], uint32(len(a.Key)*8))
	copy(b[algNameSize+4:], a.Key)
	return b, nil
}

// UnmarshalBinary decodes the kernel layout.
func (a *Algo) UnmarshalBinary(b []byte) error {
	if len(b) < algNameSize+4 {
		return fmt.Errorf("xfrmmsg: short algorithm payload: %d bytes", len(b))
	}
	a.Name = algName(b)
	bits := nlenc.Uint32(b[algNameSize : algNameSize+4])
	n := int((int64(bits) + 7) / 8)
	if algNameSize+4+n > len(b) {
		return fmt.Errorf("xfrmmsg: algorithm key length %d bits exceeds payload", bits)
	}
	a.Key = append([]byte(nil), b[algNameSize+4:algNameSize+4+n]...)
	return nil
}

// AlgoAuth is struct xfrm_algo_auth, an authentication algorithm with an
// explicit truncation length (XFRMA_ALG_AUTH_TRUNC).
type AlgoAuth struct {
	Name string
	Key  []byte

	// TruncLen is the ICV truncation length in bits.
	TruncLen uint32
}

// NewAlgoAuth returns an [*AlgoAuth], validating the name like [NewAlgo].
func NewAlgoAuth(name string, key []byte, truncLen uint32) (*AlgoAuth, error) {
	if err := checkAlgName(name); err != nil {
		return nil, err
	}
	return &AlgoAuth{Name: name, Key: key, TruncLen: truncLen}, nil
}

// MarshalBinary encodes the algorithm into the kernel layout.
func (a *AlgoAuth) MarshalBinary() ([]byte, error) {
	if err := checkAlgName(a.Name); err != nil {
		return nil, err
	}
	b := make([]byte, algNameSize+8+len(a.Key))
	putAlgName(b, a.Name)
	nlenc.PutUint32(b[algNameSize:algNameSize+4], uint32(len(a.Key)*8))
	nlenc.PutUint32(b[algNameSize+4:algNameSize+8], a.TruncLen)
	copy(b[algNameSize+8:], a.Key)
	return b, nil
}

// UnmarshalBinary decodes the kernel layout.
func (a *AlgoAuth) UnmarshalBinary(b []byte) error {
	if len(b) < algNameSize+8 {
		return fmt.Errorf("xfrmmsg: short algorithm payload: %d bytes", len(b))
	}
	a.Name = algName(b)
	bits := nlenc.Uint32(b[algNameSize : algNameSize+4])
	a.TruncLen = nlenc.Uint32(b[algNameSize+4 : algNameSize+8])
	n := int((int64(bits) + 7) / 8)
	if algNameSize+8+n > len(b) {
		return fmt.Errorf("xfrmmsg: algorithm key length %d bits exceeds payload", bits)
	}
	a.Key = append([]byte(nil), b[algNameSize+8:algNameSize+8+n]...)
	return nil
}

// AlgoAEAD is struct xfrm_algo_aead, a combined-mode algorithm with its
// ICV length (XFRMA_ALG_AEAD).
type AlgoAEAD struct {
	Name string
	Key  []byte

	// ICVLen is the integrity check value length in bits.
	ICVLen uint32
}

// NewAlgoAEAD returns an [*AlgoAEAD], validating the name like [NewAlgo].
func NewAlgoAEAD(name string, key []byte, icvLen uint32) (*AlgoAEAD, error) {
	if err := checkAlgName(name); err != nil {
		return nil, err
	}
	return &AlgoAEAD{Name: name, Key: key, ICVLen: icvLen}, nil
}

// MarshalBinary encodes the algorithm into the kernel layout.
func (a *AlgoAEAD) MarshalBinary() ([]byte, error) {
	if err := checkAlgName(a.Name); err != nil {
		return nil, err
	}
	b := make([]byte, algNameSize+8+len(a.Key))
	putAlgName(b, a.Name)
	nlenc.PutUint32(b[algNameSize:algNameSize+4], uint32(len(a.Key)*8))
	nlenc.PutUint32(b[algNameSize+4:algNameSize+8], a.ICVLen)
	copy(b[algNameSize+8:], a.Key)
	return b, nil
}

// UnmarshalBinary decodes the kernel layout.
func (a *AlgoAEAD) UnmarshalBinary(b []byte) error {
	if len(b) < algNameSize+8 {
		return fmt.Errorf("xfrmmsg: short algorithm payload: %d bytes", len(b))
	}
	a.Name = algName(b)
	bits := nlenc.Uint32(b[algNameSize : algNameSize+4])
	a.ICVLen = nlenc.Uint32(b[algNameSize+4 : algNameSize+8])
	n := int((int64(bits) + 7) / 8)
	if algNameSize+8+n > len(b) {
		return fmt.Errorf("xfrmmsg: algorithm key length %d bits exceeds payload", bits)
	}
	a.Key = append([]byte(nil), b[algNameSize+8:algNameSize+8+n]...)
	return nil
}
