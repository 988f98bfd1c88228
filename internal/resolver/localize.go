package resolver

import (
	"sort"

	"github.com/goliatone/go-catalog/internal/document"
)

// localize picks the display strings for a locale with the fallback chain
// requested locale, then the document's default locale, then the first
// available translation in locale order.
func localize(translations document.Translations, locale, defaultLocale string) document.LocalizedText {
	if len(translations) == 0 {
		return document.LocalizedText{}
	}
	if text, ok := translations[locale]; ok {
		return text
	}
	if text, ok := translations[defaultLocale]; ok {
		return text
	}
	locales := make([]string, 0, len(translations))
	for code := range translations {
		locales = append(locales, code)
	}
	sort.Strings(locales)
	return translations[locales[0]]
}

// localizeName applies the same fallback chain to a plain locale-to-name map.
func localizeName(names map[string]string, locale, defaultLocale string) string {
	if len(names) == 0 {
		return ""
	}
	if name, ok := names[locale]; ok {
		return name
	}
	if name, ok := names[defaultLocale]; ok {
		return name
	}
	locales := make([]string, 0, len(names))
	for code := range names {
		locales = append(locales, code)
	}
	sort.Strings(locales)
	return names[locales[0]]
}
