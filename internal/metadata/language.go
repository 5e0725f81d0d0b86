package metadata

import "golang.org/x/text/language"

// ValidateLanguage reports whether tag parses as a BCP 47 language tag.
// Stored language values are never rewritten; this exists so callers can
// warn about suspect tags without changing what round-trips to disk.
func ValidateLanguage(tag string) bool {
	if tag == "" {
		return true
	}
	_, err := language.Parse(tag)
	return err == nil
}
