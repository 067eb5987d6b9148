package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Separator replaces whitespace inside identity keys.
const Separator = "_"

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Key derives the deduplication key of a contact from its name (or company)
// and street address. Two contacts with the same key are the same entry.
func Key(nameOrCompany, address string) string {
	raw := strings.TrimSpace(nameOrCompany) + Separator + strings.TrimSpace(address)
	raw = strings.ToLower(raw)
	return whitespaceRegex.ReplaceAllString(raw, Separator)
}

// Fingerprint is a fixed-width hash of a key, used where keys are stored as
// indexed columns.
func Fingerprint(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
