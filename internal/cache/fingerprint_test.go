package cache

import (
	"strings"
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint(OpTranslate, "hello world", "km", "vi")
	b := Fingerprint(OpTranslate, "hello world", "km", "vi")
	if a != b {
		t.Fatalf("same inputs produced different keys: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, OpTranslate+":") {
		t.Fatalf("key missing operation namespace: %s", a)
	}
}

func TestFingerprintDistinguishesOperations(t *testing.T) {
	a := Fingerprint(OpTranslate, "hello")
	b := Fingerprint(OpLocalize, "hello")
	if a == b {
		t.Fatalf("different operations produced the same key: %s", a)
	}
}

func TestFingerprintPartBoundaries(t *testing.T) {
	a := Fingerprint(OpTranslate, "ab", "c")
	b := Fingerprint(OpTranslate, "a", "bc")
	if a == b {
		t.Fatalf("shifted part boundaries collided: %s", a)
	}
}

func TestFingerprintNormalizesWhitespace(t *testing.T) {
	a := Fingerprint(OpQuiz, "some   content\n\twith spacing", "en")
	b := Fingerprint(OpQuiz, "some content with spacing", "en")
	if a != b {
		t.Fatalf("reformatted input missed the cache key: %s vs %s", a, b)
	}
}
