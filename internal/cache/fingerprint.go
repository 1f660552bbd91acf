package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Operation namespaces. Distinct prefixes keep the TTL pools disjoint even
// in the (impossible by construction) event of a digest collision across
// operations.
const (
	OpDetect    = "det"
	OpTranslate = "tr"
	OpLocalize  = "loc"
	OpQuiz      = "quiz"
	OpFeedback  = "fb"
	OpRecommend = "rec"
)

// Fingerprint derives the deterministic cache key for an operation over its
// semantic inputs. Each part is length-prefixed before hashing so that
// ("ab","c") and ("a","bc") cannot collide.
func Fingerprint(op string, parts ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		p = normalize(p)
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return op + ":" + hex.EncodeToString(h.Sum(nil))
}

// normalize collapses whitespace so trivially reformatted input hits the
// same entry.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
