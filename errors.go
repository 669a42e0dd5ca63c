// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

// ErrRequestFailed means a request that requires exactly one reply saw
// its reply sequence end before any frame arrived.
var ErrRequestFailed = errors.New("xfrm: netlink request failed")

// NetlinkError is an explicit rejection decoded from a kernel error frame.
type NetlinkError struct {
	// Errno is the (positive) error code reported by the kernel.
	Errno unix.Errno

	// Data is the portion of the offending request the kernel echoed
	// back, useful to reconstruct what went wrong without re-querying.
	Data []byte
}

// Error implements the error interface.
func (e *NetlinkError) Error() string {
	return fmt.Sprintf("xfrm: netlink error: %s", e.Errno)
}

// Unwrap returns the underlying [unix.Errno] so callers can match with
// [errors.Is] and error classifiers can label the errno.
func (e *NetlinkError) Unwrap() error {
	return e.Errno
}

// UnexpectedMessageError means a reply frame did not match the shape the
// operation expected. The full offending frame is retained for diagnostics.
type UnexpectedMessageError struct {
	// Message is the offending netlink frame.
	Message netlink.Message
}

// Error implements the error interface.
func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("xfrm: received an unexpected message of type %#x", uint16(e.Message.Header.Type))
}

// InvalidIPError means an address could not be converted to the kernel's
// fixed-width binary representation.
type InvalidIPError struct {
	// IP is the offending address.
	IP netip.Addr
}

// Error implements the error interface.
func (e *InvalidIPError) Error() string {
	return fmt.Sprintf("xfrm: invalid IP address: %v", e.IP)
}

// InvalidAddressError means an address and prefix length pair could not
// be converted to the kernel's binary representation.
type InvalidAddressError struct {
	// Prefix is the offending address and prefix length pair.
	Prefix netip.Prefix
}

// Error implements the error interface.
func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("xfrm: invalid network address: %v", e.Prefix)
}

// checkPrefix validates a selector prefix at draft construction time.
func checkPrefix(p netip.Prefix) error {
	if !p.IsValid() {
		return &InvalidAddressError{Prefix: p}
	}
	return nil
}

// checkAddr validates an address at draft construction time.
func checkAddr(a netip.Addr) error {
	if !a.IsValid() {
		return &InvalidIPError{IP: a}
	}
	return nil
}
