package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey namespaces the digest of the JSON encoding of parts under prefix.
// Struct fields marshal in declaration order, so equal options give equal keys.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Only reachable with channel or func values in parts.
		panic("cache: unhashable key part: " + err.Error())
	}
	return prefix + ":" + Hash(data)
}
