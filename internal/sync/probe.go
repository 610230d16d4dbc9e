package sync

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	probePrefix    = "GHENV_TEST_"
	probeValue     = "test_value_12345"
	probeSuffixLen = 8
	probeCharset   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// newProbeName returns the fixed prefix plus a random lowercase
// alphanumeric suffix. The suffix avoids collisions between concurrent
// runs; it is not a security token. GitHub upper-cases the stored name,
// which is why probe lookups are case-insensitive.
func newProbeName(random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}

	randomBytes := make([]byte, probeSuffixLen)
	if _, err := io.ReadFull(random, randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate probe suffix: %w", err)
	}

	suffix := make([]byte, probeSuffixLen)
	for i, b := range randomBytes {
		suffix[i] = probeCharset[int(b)%len(probeCharset)]
	}

	return probePrefix + string(suffix), nil
}
