package storage

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashContent returns the hex xxhash64 of data, used to skip files that did
// not change since the last scan.
func HashContent(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
