// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import "net/netip"

// PolicyHandle builds requests against the kernel's security policy
// database (SPD). Obtain one with [Handle.Policy].
type PolicyHandle struct {
	h *Handle
}

// Add creates a draft adding an SPD entry selecting traffic between the
// given source and destination prefixes (equivalent to `ip xfrm policy add`).
func (ph *PolicyHandle) Add(src, dst netip.Prefix) (*PolicyModifyRequest, error) {
	return newPolicyModifyRequest(ph.h, false, src, dst)
}

// Update creates a draft adding or replacing an SPD entry (equivalent to
// `ip xfrm policy update`).
func (ph *PolicyHandle) Update(src, dst netip.Prefix) (*PolicyModifyRequest, error) {
	return newPolicyModifyRequest(ph.h, true, src, dst)
}

// Delete creates a draft deleting the SPD entry matching the given
// selector (equivalent to `ip xfrm policy delete`).
func (ph *PolicyHandle) Delete(src, dst netip.Prefix) (*PolicyDeleteRequest, error) {
	return newPolicyDeleteRequest(ph.h, src, dst)
}

// DeleteIndex creates a draft deleting the SPD entry with the given
// kernel index.
func (ph *PolicyHandle) DeleteIndex(index uint32) *PolicyDeleteRequest {
	return newPolicyDeleteIndexRequest(ph.h, index)
}

// Get creates a draft retrieving the SPD entry matching the given
// selector (equivalent to `ip xfrm policy get`).
func (ph *PolicyHandle) Get(src, dst netip.Prefix) (*PolicyGetRequest, error) {
	return newPolicyGetRequest(ph.h, src, dst)
}

// GetIndex creates a draft retrieving the SPD entry with the given
// kernel index.
func (ph *PolicyHandle) GetIndex(index uint32) *PolicyGetRequest {
	return newPolicyGetIndexRequest(ph.h, index)
}

// GetDump creates a draft listing all SPD entries (equivalent to
// `ip xfrm policy list`).
func (ph *PolicyHandle) GetDump() *PolicyGetDumpRequest {
	return newPolicyGetDumpRequest(ph.h)
}

// Flush creates a draft removing all SPD entries (equivalent to
// `ip xfrm policy flush`).
func (ph *PolicyHandle) Flush() *PolicyFlushRequest {
	return newPolicyFlushRequest(ph.h)
}

// GetSpdInfo creates a draft retrieving SPD statistics (equivalent to
// `ip xfrm policy count`).
func (ph *PolicyHandle) GetSpdInfo() *PolicyGetSpdInfoRequest {
	return newPolicyGetSpdInfoRequest(ph.h)
}

// SetSpdInfo creates a draft configuring SPD hash thresholds (equivalent
// to `ip xfrm policy set`).
func (ph *PolicyHandle) SetSpdInfo() *PolicySetSpdInfoRequest {
	return newPolicySetSpdInfoRequest(ph.h)
}
