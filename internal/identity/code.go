package identity

import "github.com/goliatone/go-slug"

// CodeNormalizer exposes the slug normalizer used for document codes.
type CodeNormalizer = slug.Normalizer

// DefaultCodeNormalizer returns the default document-code normalizer.
func DefaultCodeNormalizer() CodeNormalizer {
	return slug.Default()
}

// NormalizeCode applies the default slug normalization rules to a document code.
func NormalizeCode(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidCode reports whether the code matches the default slug rules.
func IsValidCode(value string) bool {
	return slug.IsValid(value)
}
