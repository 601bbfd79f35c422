package valueobject

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const (
	loanNumberPrefix    = "LN"
	receiptNumberPrefix = "RCP"

	suffixLength  = 5
	suffixCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewLoanNumber produces a human-readable loan identifier of the form
// LN-<base36 timestamp>-<5 random chars>, uppercase. The millisecond
// timestamp plus the random suffix makes collisions astronomically unlikely
// under concurrent callers; the persistence layer's unique constraint is the
// backstop, and a constraint violation should be treated as a retry trigger.
func NewLoanNumber() string {
	return newReference(loanNumberPrefix)
}

// NewReceiptNumber produces a payment receipt identifier of the form
// RCP-<base36 timestamp>-<5 random chars>, uppercase.
func NewReceiptNumber() string {
	return newReference(receiptNumberPrefix)
}

func newReference(prefix string) string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return prefix + "-" + ts + "-" + randomSuffix(suffixLength)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(buf)
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = suffixCharset[int(b)%len(suffixCharset)]
	}
	return string(out)
}
