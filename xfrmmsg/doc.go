// SPDX-License-Identifier: GPL-3.0-or-later

// Package xfrmmsg encodes and decodes the message bodies exchanged over
// the Linux NETLINK_XFRM protocol.
//
// Each exported message type mirrors one kernel message body: a fixed
// C-layout structure optionally followed by netlink attributes. Message
// types implement [encoding.BinaryMarshaler] and, for bodies the kernel
// sends back, [encoding.BinaryUnmarshaler]. Attributes the package does
// not model by name round-trip through each message's Extra field, so
// callers can reach kernel features this package has no setter for.
//
// The fixed structures keep their fields in host byte order; the
// wire's big-endian fields (ports, SPIs, GRE keys) are converted during
// marshaling. Sizes and offsets follow the kernel uapi definitions and
// are asserted by the package tests.
//
// This package is deliberately free of I/O and of request/response
// policy: framing, flags and reply interpretation belong to the parent
// package.
package xfrmmsg
