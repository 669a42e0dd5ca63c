// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm

import "github.com/bassosimone/errclass"

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short, descriptive labels (e.g., "ETIMEDOUT",
// "ECONNRESET") that facilitate systematic analysis of failed kernel requests.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
// This allows using simple functions as classifiers:
//
//	h.ErrClassifier = ErrClassifierFunc(errclass.New)
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier labels errors using errclass. [*NetlinkError]
// unwraps to its [unix.Errno], so kernel rejections carrying an errno
// that errclass knows about classify to the errno name.
var DefaultErrClassifier = ErrClassifierFunc(errclass.New)
