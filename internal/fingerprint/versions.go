package fingerprint

import "regexp"

// versionPatterns recognize assignment-style version declarations embedded
// in library source, e.g. `jQuery.fn.jquery = "3.6.0";`. Keyed by the
// library whose namespace carries the marker; jquery-ui and react-dom reuse
// the jquery and react markers respectively.
var versionPatterns = map[string]*regexp.Regexp{
	LibraryReact:      regexp.MustCompile(`(?i)React\.version\s*=\s*["']([^"']+)["']`),
	LibraryJQuery:     regexp.MustCompile(`(?i)jQuery\.fn\.jquery\s*=\s*["']([^"']+)["']`),
	LibraryVue:        regexp.MustCompile(`(?i)Vue\.version\s*=\s*["']([^"']+)["']`),
	LibraryAngular:    regexp.MustCompile(`(?i)angular\.version\.full\s*=\s*["']([^"']+)["']`),
	LibraryUnderscore: regexp.MustCompile(`(?i)_\.version\s*=\s*["']([^"']+)["']`),
}

// ExtractVersion applies the library's version marker pattern against
// content and returns the first captured value, or "" when the library has
// no registered pattern or no marker matches. Pure and deterministic.
func ExtractVersion(content, library string) string {
	pattern, ok := versionPatterns[library]
	if !ok {
		return ""
	}
	if m := pattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}
