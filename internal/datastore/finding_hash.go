package datastore

import "github.com/spaolacci/murmur3"

// FindingKey hashes a finding's name and detail for the issue store index.
// Collisions are resolved by comparing the full strings.
func FindingKey(name, detail string) int64 {
	h := murmur3.New32()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(detail))
	return int64(h.Sum32())
}
