package scanner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PatternMatcher applies include and exclude globs to slash-separated
// relative paths.
type PatternMatcher struct{}

// NewPatternMatcher creates a new pattern matcher.
func NewPatternMatcher() *PatternMatcher {
	return &PatternMatcher{}
}

// ShouldIncludeFile reports whether a file passes the configured patterns.
// Exclude patterns take precedence; when include patterns are present a
// file must match at least one of them.
func (pm *PatternMatcher) ShouldIncludeFile(
	relPath string,
	includePatterns []string,
	excludePatterns []string,
) bool {
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range excludePatterns {
		if pm.matchesPattern(relPath, pattern) {
			return false
		}
	}

	if len(includePatterns) > 0 {
		for _, pattern := range includePatterns {
			if pm.matchesPattern(relPath, pattern) {
				return true
			}
		}
		return false
	}

	return true
}

// matchesPattern checks a slash path against a single glob pattern.
// A trailing slash matches the directory and everything under it; a **
// segment crosses directory boundaries.
func (pm *PatternMatcher) matchesPattern(path, pattern string) bool {
	if strings.HasSuffix(pattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/")
		return path == pattern || strings.HasPrefix(path, pattern+"/")
	}

	if strings.Contains(pattern, "**") {
		return matchSegments(strings.Split(pattern, "/"), strings.Split(path, "/"))
	}

	match, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	return match
}

// matchSegments matches path segments against pattern segments. A **
// segment consumes any number of path segments, including none.
func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	if pattern[0] == "**" {
		for skip := 0; skip <= len(path); skip++ {
			if matchSegments(pattern[1:], path[skip:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}

	match, err := filepath.Match(pattern[0], path[0])
	if err != nil || !match {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

// ValidatePatterns checks the given patterns for glob syntax errors.
// The returned slice is empty when every pattern is well formed.
func (pm *PatternMatcher) ValidatePatterns(patterns []string) []error {
	var errs []error

	for i, pattern := range patterns {
		probe := strings.TrimSuffix(pattern, "/")
		probe = strings.ReplaceAll(probe, "**", "*")
		for _, segment := range strings.Split(probe, "/") {
			if _, err := filepath.Match(segment, "probe"); err != nil {
				errs = append(errs, &PatternError{
					Pattern: pattern,
					Index:   i,
					Err:     err,
				})
				break
			}
		}
	}

	return errs
}

// PatternError reports a malformed include or exclude pattern.
type PatternError struct {
	Pattern string
	Index   int
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern at index %d %q: %v", e.Index, e.Pattern, e.Err)
}
