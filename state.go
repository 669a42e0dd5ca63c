// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import "net/netip"

// StateHandle builds state (SA) requests. Obtain one through
// [Handle.State].
type StateHandle struct {
	h *Handle
}

// Add creates a draft adding an SA between the given source and
// destination addresses (equivalent to `ip xfrm state add`).
func (sh *StateHandle) Add(src, dst netip.Addr) (*StateModifyRequest, error) {
	return newStateModifyRequest(sh.h, false, src, dst)
}

// Update creates a draft updating an existing SA (equivalent to
// `ip xfrm state update`).
func (sh *StateHandle) Update(src, dst netip.Addr) (*StateModifyRequest, error) {
	return newStateModifyRequest(sh.h, true, src, dst)
}

// Delete creates a draft removing the SA between the given source and
// destination addresses (equivalent to `ip xfrm state delete`).
func (sh *StateHandle) Delete(src, dst netip.Addr) (*StateDeleteRequest, error) {
	return newStateDeleteRequest(sh.h, src, dst)
}

// Get creates a draft reading the SA between the given source and
// destination addresses (equivalent to `ip xfrm state get`).
func (sh *StateHandle) Get(src, dst netip.Addr) (*StateGetRequest, error) {
	return newStateGetRequest(sh.h, src, dst)
}

// GetDump creates a draft enumerating every SA (equivalent to
// `ip xfrm state list`).
func (sh *StateHandle) GetDump() *StateGetDumpRequest {
	return newStateGetDumpRequest(sh.h)
}

// AllocSPI creates a draft asking the kernel to reserve an SPI for a
// new SA between the given addresses.
func (sh *StateHandle) AllocSPI(src, dst netip.Addr) (*StateAllocSPIRequest, error) {
	return newStateAllocSPIRequest(sh.h, src, dst)
}

// Flush creates a draft removing every SA (equivalent to
// `ip xfrm state flush`).
func (sh *StateHandle) Flush() *StateFlushRequest {
	return newStateFlushRequest(sh.h)
}

// GetSadInfo creates a draft reading the SAD statistics (equivalent to
// `ip xfrm state count`).
func (sh *StateHandle) GetSadInfo() *StateGetSadInfoRequest {
	return newStateGetSadInfoRequest(sh.h)
}

// SetSadInfo creates a draft probing the SAD information service;
// like threshold tuning on the policy side, it sends a new-SAD-info
// request and awaits the acknowledgement.
func (sh *StateHandle) SetSadInfo() *StateSetSadInfoRequest {
	return newStateSetSadInfoRequest(sh.h)
}
