// SPDX-License-Identifier: GPL-3.0-or-later

package xfrmmsg

import (
	"fmt"

	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
)

// marshalAttrs encodes the given attributes after the fixed message body,
// returning body unchanged when there are no attributes.
func marshalAttrs(body []byte, attrs []netlink.Attribute) ([]byte, error) {
	if len(attrs) == 0 {
		return body, nil
	}
	ab, err := netlink.MarshalAttributes(attrs)
	if err != nil {
		return nil, fmt.Errorf("xfrmmsg: marshal attributes: %w", err)
	}
	return append(body, ab...), nil
}

// marshalTemplates encodes templates as one XFRMA_TMPL attribute holding
// the concatenated fixed-size entries. The kernel accepts a single
// attribute carrying an array, not repeated attributes.
func marshalTemplates(tmpls []UserTemplate) netlink.Attribute {
	b := make([]byte, 0, len(tmpls)*SizeofUserTemplate)
	for i := range tmpls {
		b = append(b, tmpls[i].marshal()...)
	}
	return netlink.Attribute{Type: AttrTmpl, Data: b}
}

func unmarshalTemplates(b []byte) ([]UserTemplate, error) {
	if len(b)%SizeofUserTemplate != 0 {
		return nil, fmt.Errorf("xfrmmsg: template attribute length %d is not a multiple of %d", len(b), SizeofUserTemplate)
	}
	tmpls := make([]UserTemplate, len(b)/SizeofUserTemplate)
	for i := range tmpls {
		tmpls[i].unmarshal(b[i*SizeofUserTemplate:])
	}
	return tmpls, nil
}

func uint32Attr(typ uint16, v uint32) netlink.Attribute {
	return netlink.Attribute{Type: typ, Data: nlenc.Uint32Bytes(v)}
}

// Policy is the xfrm_userpolicy_info message body: the request body of
// the new-policy and update-policy operations and the reply body of
// policy reads and dumps.
type Policy struct {
	// Info is the fixed part of the message.
	Info UserPolicyInfo

	// Templates go to a single XFRMA_TMPL attribute, present iff the
	// slice is non-empty.
	Templates []UserTemplate

	// Optional attributes; nil means absent.
	Mark       *Mark
	SecCtx     *SecurityCtx
	PolicyType *UserPolicyType
	IfID       *uint32

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *Policy) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if len(m.Templates) > 0 {
		attrs = append(attrs, marshalTemplates(m.Templates))
	}
	if m.Mark != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrMark, Data: m.Mark.marshal()})
	}
	if m.SecCtx != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSecCtx, Data: m.SecCtx.marshal()})
	}
	if m.PolicyType != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrPolicyType, Data: m.PolicyType.marshal()})
	}
	if m.IfID != nil {
		attrs = append(attrs, uint32Attr(AttrIfID, *m.IfID))
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(m.Info.marshal(), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *Policy) UnmarshalBinary(b []byte) error {
	if len(b) < SizeofUserPolicyInfo {
		return fmt.Errorf("xfrmmsg: short policy payload: %d bytes", len(b))
	}
	m.Info.unmarshal(b[:SizeofUserPolicyInfo])
	ad, err := netlink.NewAttributeDecoder(b[SizeofUserPolicyInfo:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode policy attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrTmpl:
			tmpls, err := unmarshalTemplates(ad.Bytes())
			if err != nil {
				return err
			}
			m.Templates = tmpls
		case AttrMark:
			m.Mark = new(Mark)
			if err := m.Mark.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrSecCtx:
			m.SecCtx = new(SecurityCtx)
			if err := m.SecCtx.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrPolicyType:
			m.PolicyType = new(UserPolicyType)
			if err := m.PolicyType.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrIfID:
			v := ad.Uint32()
			m.IfID = &v
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}

// PolicyID is the xfrm_userpolicy_id message body used by the
// delete-policy and get-policy operations.
type PolicyID struct {
	ID UserPolicyID

	Mark       *Mark
	SecCtx     *SecurityCtx
	PolicyType *UserPolicyType
	IfID       *uint32

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *PolicyID) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if m.Mark != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrMark, Data: m.Mark.marshal()})
	}
	if m.SecCtx != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSecCtx, Data: m.SecCtx.marshal()})
	}
	if m.PolicyType != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrPolicyType, Data: m.PolicyType.marshal()})
	}
	if m.IfID != nil {
		attrs = append(attrs, uint32Attr(AttrIfID, *m.IfID))
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(m.ID.marshal(), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *PolicyID) UnmarshalBinary(b []byte) error {
	if len(b) < SizeofUserPolicyID {
		return fmt.Errorf("xfrmmsg: short policy id payload: %d bytes", len(b))
	}
	m.ID.unmarshal(b[:SizeofUserPolicyID])
	ad, err := netlink.NewAttributeDecoder(b[SizeofUserPolicyID:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode policy id attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrMark:
			m.Mark = new(Mark)
			if err := m.Mark.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrSecCtx:
			m.SecCtx = new(SecurityCtx)
			if err := m.SecCtx.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrPolicyType:
			m.PolicyType = new(UserPolicyType)
			if err := m.PolicyType.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrIfID:
			v := ad.Uint32()
			m.IfID = &v
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}

// PolicyDump is the (empty) request body of a policy dump.
type PolicyDump struct {
	// Extra holds attributes to attach to the dump request.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *PolicyDump) MarshalBinary() ([]byte, error) {
	return marshalAttrs(nil, m.Extra)
}

// PolicyFlush is the (empty) request body of a policy flush.
type PolicyFlush struct{}

// MarshalBinary encodes the message body.
func (m *PolicyFlush) MarshalBinary() ([]byte, error) {
	return nil, nil
}

// SA is the xfrm_usersa_info message body: the request body of the
// new-SA and update-SA operations and the reply body of SA reads,
// SPI allocation and dumps.
type SA struct {
	// Info is the fixed part of the message.
	Info UserSAInfo

	// Optional attributes; nil means absent.
	Auth      *Algo
	AuthTrunc *AlgoAuth
	Crypt     *Algo
	Comp      *Algo
	AEAD      *AlgoAEAD
	Encap     *EncapTmpl
	Mark      *Mark
	SecCtx    *SecurityCtx
	IfID      *uint32

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *SA) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	appendAlg := func(typ uint16, alg interface{ MarshalBinary() ([]byte, error) }) error {
		b, err := alg.MarshalBinary()
		if err != nil {
			return err
		}
		attrs = append(attrs, netlink.Attribute{Type: typ, Data: b})
		return nil
	}
	if m.Auth != nil {
		if err := appendAlg(AttrAlgAuth, m.Auth); err != nil {
			return nil, err
		}
	}
	if m.AuthTrunc != nil {
		if err := appendAlg(AttrAlgAuthTrunc, m.AuthTrunc); err != nil {
			return nil, err
		}
	}
	if m.Crypt != nil {
		if err := appendAlg(AttrAlgCrypt, m.Crypt); err != nil {
			return nil, err
		}
	}
	if m.Comp != nil {
		if err := appendAlg(AttrAlgComp, m.Comp); err != nil {
			return nil, err
		}
	}
	if m.AEAD != nil {
		if err := appendAlg(AttrAlgAEAD, m.AEAD); err != nil {
			return nil, err
		}
	}
	if m.Encap != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrEncap, Data: m.Encap.marshal()})
	}
	if m.Mark != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrMark, Data: m.Mark.marshal()})
	}
	if m.SecCtx != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSecCtx, Data: m.SecCtx.marshal()})
	}
	if m.IfID != nil {
		attrs = append(attrs, uint32Attr(AttrIfID, *m.IfID))
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(m.Info.marshal(), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *SA) UnmarshalBinary(b []byte) error {
	if len(b) < SizeofUserSAInfo {
		return fmt.Errorf("xfrmmsg: short SA payload: %d bytes", len(b))
	}
	m.Info.unmarshal(b[:SizeofUserSAInfo])
	ad, err := netlink.NewAttributeDecoder(b[SizeofUserSAInfo:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode SA attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrAlgAuth:
			m.Auth = new(Algo)
			if err := m.Auth.UnmarshalBinary(ad.Bytes()); err != nil {
				return err
			}
		case AttrAlgAuthTrunc:
			m.AuthTrunc = new(AlgoAuth)
			if err := m.AuthTrunc.UnmarshalBinary(ad.Bytes()); err != nil {
				return err
			}
		case AttrAlgCrypt:
			m.Crypt = new(Algo)
			if err := m.Crypt.UnmarshalBinary(ad.Bytes()); err != nil {
				return err
			}
		case AttrAlgComp:
			m.Comp = new(Algo)
			if err := m.Comp.UnmarshalBinary(ad.Bytes()); err != nil {
				return err
			}
		case AttrAlgAEAD:
			m.AEAD = new(AlgoAEAD)
			if err := m.AEAD.UnmarshalBinary(ad.Bytes()); err != nil {
				return err
			}
		case AttrEncap:
			m.Encap = new(EncapTmpl)
			if err := m.Encap.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrMark:
			m.Mark = new(Mark)
			if err := m.Mark.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrSecCtx:
			m.SecCtx = new(SecurityCtx)
			if err := m.SecCtx.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrIfID:
			v := ad.Uint32()
			m.IfID = &v
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}

// SAID is the xfrm_usersa_id message body used by the delete-SA and
// get-SA operations.
type SAID struct {
	ID UserSAID

	// SourceAddress goes to the XFRMA_SRCADDR attribute; nil means absent.
	SourceAddress *Address
	Mark          *Mark
	IfID          *uint32

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *SAID) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if m.SourceAddress != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSrcAddr, Data: m.SourceAddress[:]})
	}
	if m.Mark != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrMark, Data: m.Mark.marshal()})
	}
	if m.IfID != nil {
		attrs = append(attrs, uint32Attr(AttrIfID, *m.IfID))
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(m.ID.marshal(), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *SAID) UnmarshalBinary(b []byte) error {
	if len(b) < SizeofUserSAID {
		return fmt.Errorf("xfrmmsg: short SA id payload: %d bytes", len(b))
	}
	m.ID.unmarshal(b[:SizeofUserSAID])
	ad, err := netlink.NewAttributeDecoder(b[SizeofUserSAID:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode SA id attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrSrcAddr:
			var a Address
			copy(a[:], ad.Bytes())
			m.SourceAddress = &a
		case AttrMark:
			m.Mark = new(Mark)
			if err := m.Mark.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrIfID:
			v := ad.Uint32()
			m.IfID = &v
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}

// SADump is the request body of an SA dump.
type SADump struct {
	// Filter constrains the dump to matching prefixes; nil dumps all.
	Filter *AddressFilter

	// Proto constrains the dump to one IPsec protocol; nil dumps all.
	Proto *uint8

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *SADump) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if m.Filter != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrAddressFilter, Data: m.Filter.marshal()})
	}
	if m.Proto != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrProto, Data: []byte{*m.Proto}})
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(nil, attrs)
}

// SAFlush is the xfrm_usersa_flush message body.
type SAFlush struct {
	// Proto restricts the flush to one IPsec protocol; zero flushes all.
	Proto uint8
}

// MarshalBinary encodes the message body.
func (m *SAFlush) MarshalBinary() ([]byte, error) {
	return []byte{m.Proto}, nil
}

// SPIInfo is the xfrm_userspi_info message body, the request body of
// SPI allocation.
type SPIInfo struct {
	Info UserSPIInfo

	Mark *Mark
	IfID *uint32

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *SPIInfo) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if m.Mark != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrMark, Data: m.Mark.marshal()})
	}
	if m.IfID != nil {
		attrs = append(attrs, uint32Attr(AttrIfID, *m.IfID))
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(m.Info.marshal(), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *SPIInfo) UnmarshalBinary(b []byte) error {
	if len(b) < SizeofUserSPIInfo {
		return fmt.Errorf("xfrmmsg: short SPI info payload: %d bytes", len(b))
	}
	m.Info.unmarshal(b[:SizeofUserSPIInfo])
	ad, err := netlink.NewAttributeDecoder(b[SizeofUserSPIInfo:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode SPI info attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrMark:
			m.Mark = new(Mark)
			if err := m.Mark.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrIfID:
			v := ad.Uint32()
			m.IfID = &v
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}

// SPDInfo is the SPD statistics message body: a 32-bit flags word
// followed by attributes. Requests carry flags (and thresholds for set
// operations); replies carry the counters.
type SPDInfo struct {
	Flags uint32

	// Reply attributes.
	Stats *SPDStats
	HInfo *SPDHInfo

	// Hash thresholds, set requests and replies.
	Thresh4 *SPDHThresh
	Thresh6 *SPDHThresh

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *SPDInfo) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if m.Stats != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSPDInfo, Data: m.Stats.marshal()})
	}
	if m.HInfo != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSPDHInfo, Data: m.HInfo.marshal()})
	}
	if m.Thresh4 != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSPDIPv4HThresh, Data: m.Thresh4.marshal()})
	}
	if m.Thresh6 != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSPDIPv6HThresh, Data: m.Thresh6.marshal()})
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(nlenc.Uint32Bytes(m.Flags), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *SPDInfo) UnmarshalBinary(b []byte) error {
	if len(b) < 4 {
		return fmt.Errorf("xfrmmsg: short SPD info payload: %d bytes", len(b))
	}
	m.Flags = nlenc.Uint32(b[:4])
	ad, err := netlink.NewAttributeDecoder(b[4:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode SPD info attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrSPDInfo:
			m.Stats = new(SPDStats)
			if err := m.Stats.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrSPDHInfo:
			m.HInfo = new(SPDHInfo)
			if err := m.HInfo.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrSPDIPv4HThresh:
			m.Thresh4 = new(SPDHThresh)
			if err := m.Thresh4.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		case AttrSPDIPv6HThresh:
			m.Thresh6 = new(SPDHThresh)
			if err := m.Thresh6.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}

// SADInfo is the SAD statistics message body: a 32-bit flags word
// followed by attributes.
type SADInfo struct {
	Flags uint32

	// Count is the number of SAD entries (XFRMA_SAD_CNT).
	Count *uint32
	HInfo *SADHInfo

	// Extra holds attributes not covered by the named fields.
	Extra []netlink.Attribute
}

// MarshalBinary encodes the message body.
func (m *SADInfo) MarshalBinary() ([]byte, error) {
	var attrs []netlink.Attribute
	if m.Count != nil {
		attrs = append(attrs, uint32Attr(AttrSADCnt, *m.Count))
	}
	if m.HInfo != nil {
		attrs = append(attrs, netlink.Attribute{Type: AttrSADHInfo, Data: m.HInfo.marshal()})
	}
	attrs = append(attrs, m.Extra...)
	return marshalAttrs(nlenc.Uint32Bytes(m.Flags), attrs)
}

// UnmarshalBinary decodes the message body.
func (m *SADInfo) UnmarshalBinary(b []byte) error {
	if len(b) < 4 {
		return fmt.Errorf("xfrmmsg: short SAD info payload: %d bytes", len(b))
	}
	m.Flags = nlenc.Uint32(b[:4])
	ad, err := netlink.NewAttributeDecoder(b[4:])
	if err != nil {
		return fmt.Errorf("xfrmmsg: decode SAD info attributes: %w", err)
	}
	for ad.Next() {
		switch ad.Type() {
		case AttrSADCnt:
			v := ad.Uint32()
			m.Count = &v
		case AttrSADHInfo:
			m.HInfo = new(SADHInfo)
			if err := m.HInfo.unmarshal(ad.Bytes()); err != nil {
				return err
			}
		default:
			m.Extra = append(m.Extra, netlink.Attribute{Type: ad.Type(), Data: ad.Bytes()})
		}
	}
	return ad.Err()
}
