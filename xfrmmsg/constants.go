// SPDX-License-Identifier: GPL-3.0-or-later

package xfrmmsg

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Message type codes for the XFRM netlink family (nlmsg_type values).
const (
	MsgBase        = 0x10
	MsgNewSA       = 0x10
	MsgDelSA       = 0x11
	MsgGetSA       = 0x12
	MsgNewPolicy   = 0x13
	MsgDelPolicy   = 0x14
	MsgGetPolicy   = 0x15
	MsgAllocSPI    = 0x16
	MsgAcquire     = 0x17
	MsgExpire      = 0x18
	MsgUpdPolicy   = 0x19
	MsgUpdSA       = 0x1a
	MsgPolExpire   = 0x1b
	MsgFlushSA     = 0x1c
	MsgFlushPolicy = 0x1d
	MsgNewAE       = 0x1e
	MsgGetAE       = 0x1f
	MsgReport      = 0x20
	MsgMigrate     = 0x21
	MsgNewSADInfo  = 0x22
	MsgGetSADInfo  = 0x23
	MsgNewSPDInfo  = 0x24
	MsgGetSPDInfo  = 0x25
	MsgMapping     = 0x26
)

// Attribute type codes (XFRMA_* values).
const (
	AttrUnspec        = 0
	AttrAlgAuth       = 1
	AttrAlgCrypt      = 2
	AttrAlgComp       = 3
	AttrEncap         = 4
	AttrTmpl          = 5
	AttrSA            = 6
	AttrPolicy        = 7
	AttrSecCtx        = 8
	AttrLtimeVal      = 9
	AttrReplayVal     = 10
	AttrReplayThresh  = 11
	AttrEtimerThresh  = 12
	AttrSrcAddr       = 13
	AttrCoAddr        = 14
	AttrLastUsed      = 15
	AttrPolicyType    = 16
	AttrMigrate       = 17
	AttrAlgAEAD       = 18
	AttrKMAddress     = 19
	AttrAlgAuthTrunc  = 20
	AttrMark          = 21
	AttrTFCPad        = 22
	AttrReplayESNVal  = 23
	AttrSAExtraFlags  = 24
	AttrProto         = 25
	AttrAddressFilter = 26
	AttrPad           = 27
	AttrOffloadDev    = 28
	AttrSetMark       = 29
	AttrSetMarkMask   = 30
	AttrIfID          = 31
)

// Attribute type codes for SPD info messages (XFRMA_SPD_* values).
const (
	AttrSPDUnspec      = 0
	AttrSPDInfo        = 1
	AttrSPDHInfo       = 2
	AttrSPDIPv4HThresh = 3
	AttrSPDIPv6HThresh = 4
)

// Attribute type codes for SAD info messages (XFRMA_SAD_* values).
const (
	AttrSADUnspec = 0
	AttrSADCnt    = 1
	AttrSADHInfo  = 2
)

// Infinity is the kernel's "no limit" value for lifetime configuration
// fields (XFRM_INF).
const Infinity = ^uint64(0)

// Dir is the direction of an SPD entry.
type Dir uint8

const (
	DirIn Dir = iota
	DirOut
	DirFwd
)

// String implements [fmt.Stringer].
func (d Dir) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirFwd:
		return "fwd"
	}
	return fmt.Sprintf("dir %d", uint8(d))
}

// Action tells the kernel what to do with traffic matching a policy.
type Action uint8

const (
	ActionAllow Action = iota
	ActionBlock
)

// String implements [fmt.Stringer].
func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionBlock:
		return "block"
	}
	return fmt.Sprintf("action %d", uint8(a))
}

// Mode is the encapsulation mode of an SA or template.
type Mode uint8

const (
	ModeTransport Mode = iota
	ModeTunnel
	ModeRouteOptimization
	ModeInTrigger
	ModeBEET
)

// String implements [fmt.Stringer].
func (m Mode) String() string {
	switch m {
	case ModeTransport:
		return "transport"
	case ModeTunnel:
		return "tunnel"
	case ModeRouteOptimization:
		return "ro"
	case ModeInTrigger:
		return "in_trigger"
	case ModeBEET:
		return "beet"
	}
	return fmt.Sprintf("mode %d", uint8(m))
}

// Policy types carried by the XFRMA_POLICY_TYPE attribute.
const (
	PolicyTypeMain uint8 = 0
	PolicyTypeSub  uint8 = 1
)

// Policy flags (xfrm_userpolicy_info.flags).
const (
	PolicyLocalOK uint8 = 1
	PolicyICMP    uint8 = 2
)

// SA flags (xfrm_usersa_info.flags).
const (
	StateNoECN      uint8 = 1
	StateDecapDSCP  uint8 = 2
	StateNoPMTUDisc uint8 = 4
	StateWildRecv   uint8 = 8
	StateICMP       uint8 = 16
	StateAFUnspec   uint8 = 32
	StateAlign4     uint8 = 64
	StateESN        uint8 = 128
)

// IPsec protocol numbers commonly carried in selectors and SA identifiers.
const (
	ProtoESP     uint8 = unix.IPPROTO_ESP
	ProtoAH      uint8 = unix.IPPROTO_AH
	ProtoComp    uint8 = unix.IPPROTO_COMP
	ProtoRouting uint8 = unix.IPPROTO_ROUTING
	ProtoDstOpts uint8 = unix.IPPROTO_DSTOPTS
)
