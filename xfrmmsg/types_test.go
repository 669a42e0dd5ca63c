// SPDX-License-Identifier: GPL-3.0-or-later

package xfrmmsg

import (
	"encoding/binary"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestAddressOf(t *testing.T) {
	// IPv4 addresses should occupy the first four bytes
	a := AddressOf(netip.MustParseAddr("192.0.2.1"))
	assert.Equal(t, []byte{192, 0, 2, 1}, a[:4])
	assert.Equal(t, make([]byte, 12), a[4:16])
	assert.Equal(t, netip.MustParseAddr("192.0.2.1"), a.Addr(unix.AF_INET))

	// IPv6 addresses should fill the whole field
	a = AddressOf(netip.MustParseAddr("2001:db8::1"))
	assert.Equal(t, []byte{0x20, 0x01, 0x0d, 0xb8}, a[:4])
	assert.Equal(t, netip.MustParseAddr("2001:db8::1"), a.Addr(unix.AF_INET6))
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, uint16(unix.AF_INET), FamilyOf(netip.MustParseAddr("192.0.2.1")))
	assert.Equal(t, uint16(unix.AF_INET6), FamilyOf(netip.MustParseAddr("2001:db8::1")))
}

func TestSelectorLayout(t *testing.T) {
	var s Selector
	s.SetSource(netip.MustParsePrefix("10.1.0.0/16"))
	s.SetDestination(netip.MustParsePrefix("10.2.0.0/24"))
	s.SetSourcePort(4500)
	s.SetDestinationPort(500)
	s.Proto = unix.IPPROTO_UDP
	s.IfIndex = 3

	b := s.marshal()
	require.Len(t, b, SizeofSelector)

	// Addresses first, destination before source
	assert.Equal(t, []byte{10, 2, 0, 0}, b[0:4])
	assert.Equal(t, []byte{10, 1, 0, 0}, b[16:20])

	// Ports and masks on the wire are big endian
	assert.Equal(t, uint16(500), binary.BigEndian.Uint16(b[32:34]))
	assert.Equal(t, uint16(0xffff), binary.BigEndian.Uint16(b[34:36]))
	assert.Equal(t, uint16(4500), binary.BigEndian.Uint16(b[36:38]))
	assert.Equal(t, uint16(0xffff), binary.BigEndian.Uint16(b[38:40]))

	// Family, prefix lengths and protocol
	assert.Equal(t, uint8(24), b[42])
	assert.Equal(t, uint8(16), b[43])
	assert.Equal(t, uint8(unix.IPPROTO_UDP), b[44])

	var got Selector
	got.unmarshal(b)
	assert.Equal(t, s, got)
}

func TestSelectorGREKey(t *testing.T) {
	var s Selector
	s.SetGREKey(0xcafe1234)

	// The key should be spread over the port pair with exact-match masks
	assert.Equal(t, uint16(0xcafe), s.SPort)
	assert.Equal(t, uint16(0x1234), s.DPort)
	assert.Equal(t, uint16(0xffff), s.SPortMask)
	assert.Equal(t, uint16(0xffff), s.DPortMask)
}

func TestIDLayout(t *testing.T) {
	id := ID{
		Daddr: AddressOf(netip.MustParseAddr("10.0.1.1")),
		SPI:   0xc0ffee,
		Proto: ProtoESP,
	}

	b := id.marshal()
	require.Len(t, b, SizeofID)

	// The SPI travels big endian
	assert.Equal(t, uint32(0xc0ffee), binary.BigEndian.Uint32(b[16:20]))

	var got ID
	got.unmarshal(b)
	assert.Equal(t, id, got)
}

func TestUserPolicyInfoRoundTrip(t *testing.T) {
	var p UserPolicyInfo
	p.Sel.SetSource(netip.MustParsePrefix("10.0.0.0/24"))
	p.Sel.SetDestination(netip.MustParsePrefix("10.0.1.0/24"))
	p.Lft.SoftByteLimit = Infinity
	p.Lft.HardByteLimit = Infinity
	p.Priority = 1000
	p.Index = 8
	p.Dir = DirIn
	p.Action = ActionBlock

	b := p.marshal()
	require.Len(t, b, SizeofUserPolicyInfo)

	var got UserPolicyInfo
	got.unmarshal(b)
	assert.Equal(t, p, got)
}

func TestUserSAInfoRoundTrip(t *testing.T) {
	var s UserSAInfo
	s.Saddr = AddressOf(netip.MustParseAddr("10.0.0.1"))
	s.ID.Daddr = AddressOf(netip.MustParseAddr("10.0.1.1"))
	s.ID.SPI = 0x100
	s.ID.Proto = ProtoAH
	s.Family = unix.AF_INET
	s.Mode = ModeTunnel
	s.Reqid = 42
	s.ReplayWindow = 32
	s.Flags = StateESN

	b := s.marshal()
	require.Len(t, b, SizeofUserSAInfo)

	var got UserSAInfo
	got.unmarshal(b)
	assert.Equal(t, s, got)
}

func TestUserTemplateRoundTrip(t *testing.T) {
	tmpl := UserTemplate{
		Family:   unix.AF_INET,
		Reqid:    7,
		Mode:     ModeTunnel,
		Optional: 1,
		AAlgos:   ^uint32(0),
		EAlgos:   ^uint32(0),
		CAlgos:   ^uint32(0),
	}
	tmpl.ID.Daddr = AddressOf(netip.MustParseAddr("10.0.1.1"))
	tmpl.ID.Proto = ProtoESP
	tmpl.SetSource(netip.MustParseAddr("10.0.0.1"))

	b := tmpl.marshal()
	require.Len(t, b, SizeofUserTemplate)

	var got UserTemplate
	got.unmarshal(b)
	assert.Equal(t, tmpl, got)
}

func TestEncapTmplPorts(t *testing.T) {
	e := EncapTmpl{
		Type:  unix.UDP_ENCAP_ESPINUDP,
		SPort: 4500,
		DPort: 4500,
		OA:    AddressOf(netip.MustParseAddr("10.0.0.1")),
	}

	b := e.marshal()
	require.Len(t, b, SizeofEncapTmpl)

	// Encap ports travel big endian
	assert.Equal(t, uint16(4500), binary.BigEndian.Uint16(b[2:4]))
	assert.Equal(t, uint16(4500), binary.BigEndian.Uint16(b[4:6]))

	var got EncapTmpl
	require.NoError(t, got.unmarshal(b))
	assert.Equal(t, e, got)
}

func TestDirString(t *testing.T) {
	assert.Equal(t, "in", DirIn.String())
	assert.Equal(t, "out", DirOut.String())
	assert.Equal(t, "fwd", DirFwd.String())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "allow", ActionAllow.String())
	assert.Equal(t, "block", ActionBlock.String())
}
