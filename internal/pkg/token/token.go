package token

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"

	"slotlink/internal/pkg/errs"
)

// Booking link tokens carry 256 bits of entropy; uniqueness is enforced by
// the database constraint, not by the generator.
const byteLength = 32

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

var ErrMalformedToken = errs.New("malformed booking token")

func New() (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errs.Wrap(err, "failed to generate booking token")
	}
	return hex.EncodeToString(buf), nil
}

// Validate rejects anything that cannot have been produced by New, so
// malformed public URLs never reach the database.
func Validate(s string) error {
	if !tokenPattern.MatchString(s) {
		return ErrMalformedToken
	}
	return nil
}
