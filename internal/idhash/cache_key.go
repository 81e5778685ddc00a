package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ComputeCacheKeyID computes a deterministic cache key id using SHA256.
// Formula: SHA256(shape|len(arg1):arg1|len(arg2):arg2|...)
// Arguments are length-prefixed so ("a|b") and ("a", "b") never collide.
// Returns hex-encoded hash (64 characters).
func ComputeCacheKeyID(shape string, args ...string) string {
	var b strings.Builder
	b.WriteString(shape)
	for _, a := range args {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(a)))
		b.WriteByte(':')
		b.WriteString(a)
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}

// ComputeSessionKey namespaces a cache key id under a session.
// Formula: prefix:session:key_id
func ComputeSessionKey(prefix, session, keyID string) string {
	return prefix + ":" + session + ":" + keyID
}
