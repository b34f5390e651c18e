// Package hash computes xxHash64 fingerprints of patches and archive payloads.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
