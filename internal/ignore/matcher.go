// Package ignore evaluates gitignore-style exclusion patterns against project paths.
//
// Patterns are globs in doublestar syntax. A pattern without an inner slash is
// compared with every segment of a path; a pattern with an inner or leading slash
// is anchored at the project root and compared with the path and each of its
// ancestors. A trailing slash limits a pattern to directories. Negated patterns
// ("!pattern") are not supported and are skipped.
package ignore

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/temirov/flatten/internal/utils"
)

const (
	negationPrefix   = "!"
	anchorPrefix     = "/"
	directorySuffix  = "/"
	escapedHash      = `\#`
	escapedNegation  = `\!`
	segmentSeparator = "/"

	logNegationUnsupported = "Negated ignore patterns are not supported; skipping"
	logInvalidPattern      = "Invalid ignore pattern; skipping"
)

// Rule is one compiled ignore pattern.
type Rule struct {
	// Source is the pattern as written.
	Source string
	// Glob is the doublestar expression evaluated against paths.
	Glob string
	// DirectoryOnly is set for patterns ending in a slash.
	DirectoryOnly bool
	// Anchored is set for patterns matched against whole root-relative paths.
	Anchored bool
}

// Matcher decides whether root-relative paths are excluded.
type Matcher struct {
	rules []Rule
}

// NewMatcher compiles patterns in order. Empty, comment, negated and invalid
// patterns are dropped; the last two are logged as warnings.
func NewMatcher(patterns []string, logger *zap.Logger) *Matcher {
	logger = utils.LoggerOrNop(logger)
	matcher := &Matcher{}
	for _, pattern := range patterns {
		rule, compiled := compileRule(pattern, logger)
		if compiled {
			matcher.rules = append(matcher.rules, rule)
		}
	}
	return matcher
}

// Rules returns the compiled rules in evaluation order.
func (matcher *Matcher) Rules() []Rule {
	return append([]Rule(nil), matcher.rules...)
}

// Matches reports whether relativePath, a path relative to the project root, is
// excluded. isDirectory describes the entry named by the final segment.
func (matcher *Matcher) Matches(relativePath string, isDirectory bool) bool {
	if matcher == nil || len(matcher.rules) == 0 {
		return false
	}
	pathSegments := utils.SplitSegments(utils.NormalizeSlashes(relativePath))
	if len(pathSegments) == 0 {
		return false
	}
	for _, rule := range matcher.rules {
		if rule.matches(pathSegments, isDirectory) {
			return true
		}
	}
	return false
}

func (rule Rule) matches(pathSegments []string, isDirectory bool) bool {
	lastIndex := len(pathSegments) - 1
	for segmentIndex := range pathSegments {
		segmentIsDirectory := segmentIndex < lastIndex || isDirectory
		if rule.DirectoryOnly && !segmentIsDirectory {
			continue
		}
		candidate := pathSegments[segmentIndex]
		if rule.Anchored {
			candidate = strings.Join(pathSegments[:segmentIndex+1], segmentSeparator)
		}
		if isMatched, matchError := doublestar.Match(rule.Glob, candidate); matchError == nil && isMatched {
			return true
		}
	}
	return false
}

func compileRule(pattern string, logger *zap.Logger) (Rule, bool) {
	trimmedPattern := strings.TrimSpace(pattern)
	if trimmedPattern == "" || strings.HasPrefix(trimmedPattern, "#") {
		return Rule{}, false
	}
	if strings.HasPrefix(trimmedPattern, negationPrefix) {
		logger.Warn(logNegationUnsupported, zap.String("pattern", trimmedPattern))
		return Rule{}, false
	}

	glob := trimmedPattern
	if strings.HasPrefix(trimmedPattern, escapedHash) || strings.HasPrefix(trimmedPattern, escapedNegation) {
		glob = trimmedPattern[1:]
	}

	rule := Rule{Source: trimmedPattern}
	if strings.HasSuffix(glob, directorySuffix) {
		rule.DirectoryOnly = true
		glob = strings.TrimRight(glob, directorySuffix)
	}
	if strings.HasPrefix(glob, anchorPrefix) {
		rule.Anchored = true
		glob = strings.TrimLeft(glob, anchorPrefix)
	}
	if strings.Contains(glob, segmentSeparator) {
		rule.Anchored = true
	}
	if glob == "" || !doublestar.ValidatePattern(glob) {
		logger.Warn(logInvalidPattern, zap.String("pattern", trimmedPattern))
		return Rule{}, false
	}
	rule.Glob = glob
	return rule, true
}
