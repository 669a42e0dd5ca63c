// SPDX-License-Identifier: GPL-3.0-or-later

package xfrmmsg

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/mdlayher/netlink/nlenc"
	"golang.org/x/sys/unix"
)

// Sizes of the fixed-layout kernel structures, in bytes.
const (
	SizeofAddress        = 0x10
	SizeofSelector       = 0x38
	SizeofLifetimeCfg    = 0x40
	SizeofLifetimeCur    = 0x20
	SizeofID             = 0x18
	SizeofStats          = 0x0c
	SizeofUserPolicyInfo = 0xa8
	SizeofUserPolicyID   = 0x40
	SizeofUserSAInfo     = 0xe0
	SizeofUserSAID       = 0x18
	SizeofUserSPIInfo    = 0xe8
	SizeofUserTemplate   = 0x40
	SizeofMark           = 0x08
	SizeofUserPolicyType = 0x06
	SizeofAddressFilter  = 0x24
	SizeofEncapTmpl      = 0x18
	SizeofSPDHThresh     = 0x02
	SizeofSPDStats       = 0x18
	SizeofSPDHInfo       = 0x08
	SizeofSADHInfo       = 0x08
)

// Address is the kernel's fixed-width address representation
// (xfrm_address_t). IPv4 addresses occupy the first four bytes.
type Address [SizeofAddress]byte

// AddressOf converts a [netip.Addr] to the kernel representation.
func AddressOf(a netip.Addr) Address {
	var out Address
	if a.Is4() {
		v4 := a.As4()
		copy(out[:4], v4[:])
		return out
	}
	v16 := a.As16()
	copy(out[:], v16[:])
	return out
}

// FamilyOf returns the kernel address family for a [netip.Addr].
func FamilyOf(a netip.Addr) uint16 {
	if a.Is4() {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

// Addr converts the kernel representation back to a [netip.Addr]
// interpreted according to the given address family.
func (a Address) Addr(family uint16) netip.Addr {
	if family == unix.AF_INET {
		return netip.AddrFrom4([4]byte(a[:4]))
	}
	return netip.AddrFrom16([16]byte(a))
}

// Selector is the kernel traffic selector (struct xfrm_selector).
//
// Ports are stored in host order here; the codec converts to the wire's
// big-endian representation during marshaling.
type Selector struct {
	Daddr      Address
	Saddr      Address
	DPort      uint16
	DPortMask  uint16
	SPort      uint16
	SPortMask  uint16
	Family     uint16
	PrefixlenD uint8
	PrefixlenS uint8
	Proto      uint8
	IfIndex    int32
	User       uint32
}

// SetSource fills the source address, prefix length and family.
func (s *Selector) SetSource(p netip.Prefix) {
	s.Saddr = AddressOf(p.Addr())
	s.PrefixlenS = uint8(p.Bits())
	s.Family = FamilyOf(p.Addr())
}

// SetDestination fills the destination address, prefix length and family.
func (s *Selector) SetDestination(p netip.Prefix) {
	s.Daddr = AddressOf(p.Addr())
	s.PrefixlenD = uint8(p.Bits())
	s.Family = FamilyOf(p.Addr())
}

// SetSourcePort sets the source port with an exact-match mask.
func (s *Selector) SetSourcePort(port uint16) {
	s.SPort = port
	s.SPortMask = ^uint16(0)
}

// SetDestinationPort sets the destination port with an exact-match mask.
func (s *Selector) SetDestinationPort(port uint16) {
	s.DPort = port
	s.DPortMask = ^uint16(0)
}

// SetGREKey spreads a 32-bit GRE key over the source and destination
// port fields, the overlay the kernel expects for GRE selectors.
func (s *Selector) SetGREKey(key uint32) {
	s.SPort = uint16(key >> 16)
	s.SPortMask = ^uint16(0)
	s.DPort = uint16(key & 0xffff)
	s.DPortMask = ^uint16(0)
}

func (s *Selector) marshal() []byte {
	b := make([]byte, SizeofSelector)
	copy(b[0:16], s.Daddr[:])
	copy(b[16:32], s.Saddr[:])
	binary.BigEndian.PutUint16(b[32:34], s.DPort)
	binary.BigEndian.PutUint16(b[34:36], s.DPortMask)
	binary.BigEndian.PutUint16(b[36:38], s.SPort)
	binary.BigEndian.PutUint16(b[38:40], s.SPortMask)
	nlenc.PutUint16(b[40:42], s.Family)
	b[42] = s.PrefixlenD
	b[43] = s.PrefixlenS
	b[44] = s.Proto
	nlenc.PutUint32(b[48:52], uint32(s.IfIndex))
	nlenc.PutUint32(b[52:56], s.User)
	return b
}

func (s *Selector) unmarshal(b []byte) {
	copy(s.Daddr[:], b[0:16])
	copy(s.Saddr[:], b[16:32])
	s.DPort = binary.BigEndian.Uint16(b[32:34])
	s.DPortMask = binary.BigEndian.Uint16(b[34:36])
	s.SPort = binary.BigEndian.Uint16(b[36:38])
	s.SPortMask = binary.BigEndian.Uint16(b[38:40])
	s.Family = nlenc.Uint16(b[40:42])
	s.PrefixlenD = b[42]
	s.PrefixlenS = b[43]
	s.Proto = b[44]
	s.IfIndex = int32(nlenc.Uint32(b[48:52]))
	s.User = nlenc.Uint32(b[52:56])
}

// LifetimeCfg is struct xfrm_lifetime_cfg. [Infinity] means no limit.
type LifetimeCfg struct {
	SoftByteLimit         uint64
	HardByteLimit         uint64
	SoftPacketLimit       uint64
	HardPacketLimit       uint64
	SoftAddExpiresSeconds uint64
	HardAddExpiresSeconds uint64
	SoftUseExpiresSeconds uint64
	HardUseExpiresSeconds uint64
}

func (c *LifetimeCfg) marshal() []byte {
	b := make([]byte, SizeofLifetimeCfg)
	nlenc.PutUint64(b[0:8], c.SoftByteLimit)
	nlenc.PutUint64(b[8:16], c.HardByteLimit)
	nlenc.PutUint64(b[16:24], c.SoftPacketLimit)
	nlenc.PutUint64(b[24:32], c.HardPacketLimit)
	nlenc.PutUint64(b[32:40], c.SoftAddExpiresSeconds)
	nlenc.PutUint64(b[40:48], c.HardAddExpiresSeconds)
	nlenc.PutUint64(b[48:56], c.SoftUseExpiresSeconds)
	nlenc.PutUint64(b[56:64], c.HardUseExpiresSeconds)
	return b
}

func (c *LifetimeCfg) unmarshal(b []byte) {
	c.SoftByteLimit = nlenc.Uint64(b[0:8])
	c.HardByteLimit = nlenc.Uint64(b[8:16])
	c.SoftPacketLimit = nlenc.Uint64(b[16:24])
	c.HardPacketLimit = nlenc.Uint64(b[24:32])
	c.SoftAddExpiresSeconds = nlenc.Uint64(b[32:40])
	c.HardAddExpiresSeconds = nlenc.Uint64(b[40:48])
	c.SoftUseExpiresSeconds = nlenc.Uint64(b[48:56])
	c.HardUseExpiresSeconds = nlenc.Uint64(b[56:64])
}

// LifetimeCur is struct xfrm_lifetime_cur.
type LifetimeCur struct {
	Bytes   uint64
	Packets uint64
	AddTime uint64
	UseTime uint64
}

func (c *LifetimeCur) marshal() []byte {
	b := make([]byte, SizeofLifetimeCur)
	nlenc.PutUint64(b[0:8], c.Bytes)
	nlenc.PutUint64(b[8:16], c.Packets)
	nlenc.PutUint64(b[16:24], c.AddTime)
	nlenc.PutUint64(b[24:32], c.UseTime)
	return b
}

func (c *LifetimeCur) unmarshal(b []byte) {
	c.Bytes = nlenc.Uint64(b[0:8])
	c.Packets = nlenc.Uint64(b[8:16])
	c.AddTime = nlenc.Uint64(b[16:24])
	c.UseTime = nlenc.Uint64(b[24:32])
}

// ID identifies an SA (struct xfrm_id). The SPI is stored in host order.
type ID struct {
	Daddr Address
	SPI   uint32
	Proto uint8
}

func (id *ID) marshal() []byte {
	b := make([]byte, SizeofID)
	copy(b[0:16], id.Daddr[:])
	binary.BigEndian.PutUint32(b[16:20], id.SPI)
	b[20] = id.Proto
	return b
}

func (id *ID) unmarshal(b []byte) {
	copy(id.Daddr[:], b[0:16])
	id.SPI = binary.BigEndian.Uint32(b[16:20])
	id.Proto = b[20]
}

// Stats is struct xfrm_stats.
type Stats struct {
	ReplayWindow    uint32
	Replay          uint32
	IntegrityFailed uint32
}

func (s *Stats) marshal() []byte {
	b := make([]byte, SizeofStats)
	nlenc.PutUint32(b[0:4], s.ReplayWindow)
	nlenc.PutUint32(b[4:8], s.Replay)
	nlenc.PutUint32(b[8:12], s.IntegrityFailed)
	return b
}

func (s *Stats) unmarshal(b []byte) {
	s.ReplayWindow = nlenc.Uint32(b[0:4])
	s.Replay = nlenc.Uint32(b[4:8])
	s.IntegrityFailed = nlenc.Uint32(b[8:12])
}

// UserPolicyInfo is struct xfrm_userpolicy_info, the fixed part of policy
// modify messages and policy replies.
type UserPolicyInfo struct {
	Sel      Selector
	Lft      LifetimeCfg
	Curlft   LifetimeCur
	Priority uint32
	Index    uint32
	Dir      Dir
	Action   Action
	Flags    uint8
	Share    uint8
}

func (p *UserPolicyInfo) marshal() []byte {
	b := make([]byte, SizeofUserPolicyInfo)
	copy(b[0:56], p.Sel.marshal())
	copy(b[56:120], p.Lft.marshal())
	copy(b[120:152], p.Curlft.marshal())
	nlenc.PutUint32(b[152:156], p.Priority)
	nlenc.PutUint32(b[156:160], p.Index)
	b[160] = uint8(p.Dir)
	b[161] = uint8(p.Action)
	b[162] = p.Flags
	b[163] = p.Share
	return b
}

func (p *UserPolicyInfo) unmarshal(b []byte) {
	p.Sel.unmarshal(b[0:56])
	p.Lft.unmarshal(b[56:120])
	p.Curlft.unmarshal(b[120:152])
	p.Priority = nlenc.Uint32(b[152:156])
	p.Index = nlenc.Uint32(b[156:160])
	p.Dir = Dir(b[160])
	p.Action = Action(b[161])
	p.Flags = b[162]
	p.Share = b[163]
}

// UserPolicyID is struct xfrm_userpolicy_id, the fixed part of policy
// delete and get messages.
type UserPolicyID struct {
	Sel   Selector
	Index uint32
	Dir   Dir
}

func (p *UserPolicyID) marshal() []byte {
	b := make([]byte, SizeofUserPolicyID)
	copy(b[0:56], p.Sel.marshal())
	nlenc.PutUint32(b[56:60], p.Index)
	b[60] = uint8(p.Dir)
	return b
}

func (p *UserPolicyID) unmarshal(b []byte) {
	p.Sel.unmarshal(b[0:56])
	p.Index = nlenc.Uint32(b[56:60])
	p.Dir = Dir(b[60])
}

// UserSAInfo is struct xfrm_usersa_info, the fixed part of SA modify
// messages and of SA replies (get, alloc-SPI, dumps).
type UserSAInfo struct {
	Sel          Selector
	ID           ID
	Saddr        Address
	Lft          LifetimeCfg
	Curlft       LifetimeCur
	Stats        Stats
	Seq          uint32
	Reqid        uint32
	Family       uint16
	Mode         Mode
	ReplayWindow uint8
	Flags        uint8
}

func (s *UserSAInfo) marshal() []byte {
	b := make([]byte, SizeofUserSAInfo)
	copy(b[0:56], s.Sel.marshal())
	copy(b[56:80], s.ID.marshal())
	copy(b[80:96], s.Saddr[:])
	copy(b[96:160], s.Lft.marshal())
	copy(b[160:192], s.Curlft.marshal())
	copy(b[192:204], s.Stats.marshal())
	nlenc.PutUint32(b[204:208], s.Seq)
	nlenc.PutUint32(b[208:212], s.Reqid)
	nlenc.PutUint16(b[212:214], s.Family)
	b[214] = uint8(s.Mode)
	b[215] = s.ReplayWindow
	b[216] = s.Flags
	return b
}

func (s *UserSAInfo) unmarshal(b []byte) {
	s.Sel.unmarshal(b[0:56])
	s.ID.unmarshal(b[56:80])
	copy(s.Saddr[:], b[80:96])
	s.Lft.unmarshal(b[96:160])
	s.Curlft.unmarshal(b[160:192])
	s.Stats.unmarshal(b[192:204])
	s.Seq = nlenc.Uint32(b[204:208])
	s.Reqid = nlenc.Uint32(b[208:212])
	s.Family = nlenc.Uint16(b[212:214])
	s.Mode = Mode(b[214])
	s.ReplayWindow = b[215]
	s.Flags = b[216]
}

// UserSAID is struct xfrm_usersa_id, the fixed part of SA delete and get
// messages.
type UserSAID struct {
	Daddr  Address
	SPI    uint32
	Family uint16
	Proto  uint8
}

func (s *UserSAID) marshal() []byte {
	b := make([]byte, SizeofUserSAID)
	copy(b[0:16], s.Daddr[:])
	binary.BigEndian.PutUint32(b[16:20], s.SPI)
	nlenc.PutUint16(b[20:22], s.Family)
	b[22] = s.Proto
	return b
}

func (s *UserSAID) unmarshal(b []byte) {
	copy(s.Daddr[:], b[0:16])
	s.SPI = binary.BigEndian.Uint32(b[16:20])
	s.Family = nlenc.Uint16(b[20:22])
	s.Proto = b[22]
}

// UserSPIInfo is struct xfrm_userspi_info, the alloc-SPI request body.
type UserSPIInfo struct {
	Info UserSAInfo
	Min  uint32
	Max  uint32
}

func (s *UserSPIInfo) marshal() []byte {
	b := make([]byte, SizeofUserSPIInfo)
	copy(b[0:224], s.Info.marshal())
	nlenc.PutUint32(b[224:228], s.Min)
	nlenc.PutUint32(b[228:232], s.Max)
	return b
}

func (s *UserSPIInfo) unmarshal(b []byte) {
	s.Info.unmarshal(b[0:224])
	s.Min = nlenc.Uint32(b[224:228])
	s.Max = nlenc.Uint32(b[228:232])
}

// UserTemplate is struct xfrm_user_tmpl, one entry of the XFRMA_TMPL
// attribute on policy modify messages.
type UserTemplate struct {
	ID       ID
	Family   uint16
	Saddr    Address
	Reqid    uint32
	Mode     Mode
	Share    uint8
	Optional uint8
	AAlgos   uint32
	EAlgos   uint32
	CAlgos   uint32
}

// SetSource fills the template source address and family.
func (t *UserTemplate) SetSource(a netip.Addr) {
	t.Saddr = AddressOf(a)
	t.Family = FamilyOf(a)
}

// SetDestination fills the template destination address and family.
func (t *UserTemplate) SetDestination(a netip.Addr) {
	t.ID.Daddr = AddressOf(a)
	t.Family = FamilyOf(a)
}

func (t *UserTemplate) marshal() []byte {
	b := make([]byte, SizeofUserTemplate)
	copy(b[0:24], t.ID.marshal())
	nlenc.PutUint16(b[24:26], t.Family)
	copy(b[28:44], t.Saddr[:])
	nlenc.PutUint32(b[44:48], t.Reqid)
	b[48] = uint8(t.Mode)
	b[49] = t.Share
	b[50] = t.Optional
	nlenc.PutUint32(b[52:56], t.AAlgos)
	nlenc.PutUint32(b[56:60], t.EAlgos)
	nlenc.PutUint32(b[60:64], t.CAlgos)
	return b
}

func (t *UserTemplate) unmarshal(b []byte) {
	t.ID.unmarshal(b[0:24])
	t.Family = nlenc.Uint16(b[24:26])
	copy(t.Saddr[:], b[28:44])
	t.Reqid = nlenc.Uint32(b[44:48])
	t.Mode = Mode(b[48])
	t.Share = b[49]
	t.Optional = b[50]
	t.AAlgos = nlenc.Uint32(b[52:56])
	t.EAlgos = nlenc.Uint32(b[56:60])
	t.CAlgos = nlenc.Uint32(b[60:64])
}

// Mark is struct xfrm_mark, a 32-bit mark plus mask.
type Mark struct {
	Value uint32
	Mask  uint32
}

func (m *Mark) marshal() []byte {
	b := make([]byte, SizeofMark)
	nlenc.PutUint32(b[0:4], m.Value)
	nlenc.PutUint32(b[4:8], m.Mask)
	return b
}

func (m *Mark) unmarshal(b []byte) error {
	if len(b) < SizeofMark {
		return fmt.Errorf("xfrmmsg: short mark attribute: %d bytes", len(b))
	}
	m.Value = nlenc.Uint32(b[0:4])
	m.Mask = nlenc.Uint32(b[4:8])
	return nil
}

// UserPolicyType is struct xfrm_userpolicy_type (XFRMA_POLICY_TYPE).
type UserPolicyType struct {
	Type uint8
}

func (p *UserPolicyType) marshal() []byte {
	b := make([]byte, SizeofUserPolicyType)
	b[0] = p.Type
	return b
}

func (p *UserPolicyType) unmarshal(b []byte) error {
	if len(b) < 1 {
		return fmt.Errorf("xfrmmsg: short policy type attribute: %d bytes", len(b))
	}
	p.Type = b[0]
	return nil
}

// SecurityCtx is struct xfrm_user_sec_ctx followed by the opaque context
// string (XFRMA_SEC_CTX).
type SecurityCtx struct {
	Alg     uint8
	DOI     uint8
	Context []byte
}

func (c *SecurityCtx) marshal() []byte {
	b := make([]byte, 8+len(c.Context))
	nlenc.PutUint16(b[0:2], uint16(len(b)))
	nlenc.PutUint16(b[2:4], AttrSecCtx)
	b[4] = c.Alg
	b[5] = c.DOI
	nlenc.PutUint16(b[6:8], uint16(len(c.Context)))
	copy(b[8:], c.Context)
	return b
}

func (c *SecurityCtx) unmarshal(b []byte) error {
	if len(b) < 8 {
		return fmt.Errorf("xfrmmsg: short security context: %d bytes", len(b))
	}
	c.Alg = b[4]
	c.DOI = b[5]
	n := int(nlenc.Uint16(b[6:8]))
	if 8+n > len(b) {
		return fmt.Errorf("xfrmmsg: security context length %d exceeds payload", n)
	}
	c.Context = append([]byte(nil), b[8:8+n]...)
	return nil
}

// EncapTmpl is struct xfrm_encap_tmpl (XFRMA_ENCAP), configuring UDP
// encapsulation of ESP. Ports are stored in host order.
type EncapTmpl struct {
	Type  uint16
	SPort uint16
	DPort uint16
	OA    Address
}

func (e *EncapTmpl) marshal() []byte {
	b := make([]byte, SizeofEncapTmpl)
	nlenc.PutUint16(b[0:2], e.Type)
	binary.BigEndian.PutUint16(b[2:4], e.SPort)
	binary.BigEndian.PutUint16(b[4:6], e.DPort)
	copy(b[8:24], e.OA[:])
	return b
}

func (e *EncapTmpl) unmarshal(b []byte) error {
	if len(b) < SizeofEncapTmpl {
		return fmt.Errorf("xfrmmsg: short encap attribute: %d bytes", len(b))
	}
	e.Type = nlenc.Uint16(b[0:2])
	e.SPort = binary.BigEndian.Uint16(b[2:4])
	e.DPort = binary.BigEndian.Uint16(b[4:6])
	copy(e.OA[:], b[8:24])
	return nil
}

// AddressFilter is struct xfrm_address_filter (XFRMA_ADDRESS_FILTER),
// constraining dump requests to matching source/destination prefixes.
type AddressFilter struct {
	Saddr      Address
	Daddr      Address
	Family     uint16
	SPrefixLen uint8
	DPrefixLen uint8
}

// SetSource fills the source prefix of the filter.
func (f *AddressFilter) SetSource(p netip.Prefix) {
	f.Saddr = AddressOf(p.Addr())
	f.SPrefixLen = uint8(p.Bits())
	f.Family = FamilyOf(p.Addr())
}

// SetDestination fills the destination prefix of the filter.
func (f *AddressFilter) SetDestination(p netip.Prefix) {
	f.Daddr = AddressOf(p.Addr())
	f.DPrefixLen = uint8(p.Bits())
	f.Family = FamilyOf(p.Addr())
}

func (f *AddressFilter) marshal() []byte {
	b := make([]byte, SizeofAddressFilter)
	copy(b[0:16], f.Saddr[:])
	copy(b[16:32], f.Daddr[:])
	nlenc.PutUint16(b[32:34], f.Family)
	b[34] = f.SPrefixLen
	b[35] = f.DPrefixLen
	return b
}

func (f *AddressFilter) unmarshal(b []byte) error {
	if len(b) < SizeofAddressFilter {
		return fmt.Errorf("xfrmmsg: short address filter attribute: %d bytes", len(b))
	}
	copy(f.Saddr[:], b[0:16])
	copy(f.Daddr[:], b[16:32])
	f.Family = nlenc.Uint16(b[32:34])
	f.SPrefixLen = b[34]
	f.DPrefixLen = b[35]
	return nil
}

// SPDHThresh is struct xfrmu_spdhthresh, an SPD hash threshold pair.
type SPDHThresh struct {
	LBits uint8
	RBits uint8
}

func (t *SPDHThresh) marshal() []byte {
	return []byte{t.LBits, t.RBits}
}

func (t *SPDHThresh) unmarshal(b []byte) error {
	if len(b) < SizeofSPDHThresh {
		return fmt.Errorf("xfrmmsg: short hash threshold attribute: %d bytes", len(b))
	}
	t.LBits = b[0]
	t.RBits = b[1]
	return nil
}

// SPDStats is struct xfrmu_spdinfo, the SPD entry counters.
type SPDStats struct {
	InCnt        uint32
	OutCnt       uint32
	FwdCnt       uint32
	InSocketCnt  uint32
	OutSocketCnt uint32
	FwdSocketCnt uint32
}

func (s *SPDStats) marshal() []byte {
	b := make([]byte, SizeofSPDStats)
	nlenc.PutUint32(b[0:4], s.InCnt)
	nlenc.PutUint32(b[4:8], s.OutCnt)
	nlenc.PutUint32(b[8:12], s.FwdCnt)
	nlenc.PutUint32(b[12:16], s.InSocketCnt)
	nlenc.PutUint32(b[16:20], s.OutSocketCnt)
	nlenc.PutUint32(b[20:24], s.FwdSocketCnt)
	return b
}

func (s *SPDStats) unmarshal(b []byte) error {
	if len(b) < SizeofSPDStats {
		return fmt.Errorf("xfrmmsg: short SPD stats attribute: %d bytes", len(b))
	}
	s.InCnt = nlenc.Uint32(b[0:4])
	s.OutCnt = nlenc.Uint32(b[4:8])
	s.FwdCnt = nlenc.Uint32(b[8:12])
	s.InSocketCnt = nlenc.Uint32(b[12:16])
	s.OutSocketCnt = nlenc.Uint32(b[16:20])
	s.FwdSocketCnt = nlenc.Uint32(b[20:24])
	return nil
}

// SPDHInfo is struct xfrmu_spdhinfo, the SPD hash table geometry.
type SPDHInfo struct {
	HashCnt    uint32
	HashMaxCnt uint32
}

func (s *SPDHInfo) marshal() []byte {
	b := make([]byte, SizeofSPDHInfo)
	nlenc.PutUint32(b[0:4], s.HashCnt)
	nlenc.PutUint32(b[4:8], s.HashMaxCnt)
	return b
}

func (s *SPDHInfo) unmarshal(b []byte) error {
	if len(b) < SizeofSPDHInfo {
		return fmt.Errorf("xfrmmsg: short SPD hash info attribute: %d bytes", len(b))
	}
	s.HashCnt = nlenc.Uint32(b[0:4])
	s.HashMaxCnt = nlenc.Uint32(b[4:8])
	return nil
}

// SADHInfo is struct xfrmu_sadhinfo, the SAD hash table geometry.
type SADHInfo struct {
	HashCnt    uint32
	HashMaxCnt uint32
}

func (s *SADHInfo) marshal() []byte {
	b := make([]byte, SizeofSADHInfo)
	nlenc.PutUint32(b[0:4], s.HashCnt)
	nlenc.PutUint32(b[4:8], s.HashMaxCnt)
	return b
}

func (s *SADHInfo) unmarshal(b []byte) error {
	if len(b) < SizeofSADHInfo {
		return fmt.Errorf("xfrmmsg: short SAD hash info attribute: %d bytes", len(b))
	}
	s.HashCnt = nlenc.Uint32(b[0:4])
	s.HashMaxCnt = nlenc.Uint32(b[4:8])
	return nil
}
