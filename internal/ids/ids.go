// Package ids generates identifiers for items, bugs and projects.
package ids

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Generator returns a new identifier on every call.
type Generator func() string

const randomLen = 5

var (
	base36   = big.NewInt(36)
	fallback atomic.Uint64
)

// New returns base36(unix millis) followed by 5 random base36 chars.
// Unique in practice for a single document; not a security token.
func New() string {
	return newAt(time.Now())
}

func newAt(now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	suffix, err := randomSuffix(randomLen)
	if err != nil {
		// crypto/rand should not fail; keep ids unique within the process anyway.
		n := fallback.Add(1)
		suffix = strconv.FormatUint(n, 36)
		for len(suffix) < randomLen {
			suffix = "0" + suffix
		}
	}
	b.WriteString(suffix)
	return b.String()
}

func randomSuffix(n int) (string, error) {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, base36)
		if err != nil {
			return "", err
		}
		out = append(out, strconv.FormatInt(d.Int64(), 36)[0])
	}
	return string(out), nil
}

// Sequence returns a deterministic generator (prefix-1, prefix-2, ...) for tests and fixtures.
func Sequence(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return prefix + "-" + strconv.FormatUint(n.Add(1), 10)
	}
}
