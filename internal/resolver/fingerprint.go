package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// fingerprint hashes the ordered resolved tree down to the fields whose change
// must invalidate conditional caches: (id, version) per category and
// (id, version, price, snooze state) per item. Two resolutions with identical
// inputs produce identical fingerprints.
func fingerprint(categories []ResolvedCategory, items []ResolvedItem) string {
	h := sha256.New()
	for _, c := range categories {
		fmt.Fprintf(h, "c:%s:%d\n", c.DocumentID, c.Version)
	}
	for _, i := range items {
		fmt.Fprintf(h, "i:%s:%d:%d:%t\n", i.DocumentID, i.Version, i.PriceCents, i.Snoozed)
	}
	return hex.EncodeToString(h.Sum(nil))
}
