// SPDX-License-Identifier: GPL-3.0-or-later

// Package xfrm manages the Linux kernel IPsec subsystem over netlink.
//
// # Core Abstraction
//
// The package is built around typed request drafts. A [*Handle] hands
// out builders for the two kernel databases:
//
//	h.Policy()  // SPD: security policy entries
//	h.State()   // SAD: security associations
//
// Each builder method creates a draft (for example
// [*PolicyModifyRequest] or [*StateGetRequest]) that is configured
// through chainable setters and consumed by a terminal Execute method.
// Finalizing a draft produces exactly one netlink frame; the terminal
// method then interprets the reply sequence for that frame and nothing
// else.
//
// # Reply Shapes
//
// Operations come in three shapes, visible in their signatures:
//
//   - acknowledged writes (add, update, delete, flush, threshold
//     tuning) return error
//   - single-payload reads (get, SPI allocation, info queries) return
//     the decoded payload
//   - dumps return a [*DumpStream] that the caller drains at its own
//     pace and must Close
//
// Kernel rejections surface as [*NetlinkError] wrapping the
// [unix.Errno], unexpected reply frames as [*UnexpectedMessageError],
// and an empty single-payload reply as [ErrRequestFailed].
//
// # Wire Codec
//
// The [github.com/ipnet-go/xfrm/xfrmmsg] subpackage holds the message
// bodies and attribute codecs; this package adds transport, dispatch
// and reply extraction. Advanced fields not covered by the named
// setters are reachable through each draft's Message method.
//
// # Quick Start
//
//	h, conn, err := xfrm.Dial(nil)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	req, err := h.Policy().Add(src, dst)
//	if err != nil {
//		return err
//	}
//	err = req.
//		Direction(xfrmmsg.DirOut).
//		Action(xfrmmsg.ActionAllow).
//		Execute(ctx)
//
// # Design Philosophy
//
// Drafts validate addresses at construction and nothing else: the
// kernel is the authority on semantic validity, and its verdicts come
// back as errors from Execute. Collaborators ([SLogger],
// [ErrClassifier], the [Transport]) are exported fields on [*Handle]
// with working defaults; replace them before first use for testing or
// structured logging.
package xfrm
