// Package memzero scrubs key material once it is no longer needed.
package memzero

import "crypto/subtle"

// Zero clears every buffer passed in.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) > 0 {
			subtle.XORBytes(b, b, b)
		}
	}
}
