package compiler

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a stable hex digest of the source and of every
// option that changes the generated text. Callers use it as a cache key.
func Fingerprint(source string, opts Options) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only a key longer than 64 bytes fails
		panic(err)
	}
	h.Write([]byte(source))
	fmt.Fprintf(h, "\x00trace=%t frame=%t direct=%t strict=%t merge=%t",
		opts.Trace, !opts.NoOuterFrame, opts.AllowDirectLines, opts.Strict, opts.DynamicMerge)
	return hex.EncodeToString(h.Sum(nil))
}
