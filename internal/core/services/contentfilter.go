package services

import (
	"sort"
	"strings"
)

// defaultTraceReplacements rewrites the stock phrases that mark generated
// prose. Ordered: longer phrases first so "In conclusion," wins over a
// shorter overlapping rule.
var defaultTraceReplacements = []ReplacementRule{
	{"It goes without saying that ", ""},
	{"It is worth noting that ", "Notably, "},
	{"It is important to note that ", ""},
	{"In today's fast-paced world, ", ""},
	{"In the ever-evolving landscape of ", "In "},
	{"In conclusion, ", ""},
	{"In summary, ", ""},
	{"To summarize, ", ""},
	{"Furthermore, ", "And "},
	{"Moreover, ", "Also, "},
	{"Firstly, ", ""},
	{"Secondly, ", ""},
	{"Lastly, ", ""},
	{"delve into", "dig into"},
	{"a testament to", "proof of"},
}

// defaultBannedPhrases are clickbait and false-promise phrases that must
// not reach a published article. Matched case-insensitively.
var defaultBannedPhrases = []string{
	"you won't believe",
	"doctors hate",
	"100% guaranteed",
	"this one weird trick",
	"number 7 will shock you",
	"act now",
	"limited time offer",
	"last chance",
	"scientifically proven",
	"experts agree",
	"secret formula",
	"will change your life",
}

// ReplacementRule rewrites one phrase to another during cleanup.
type ReplacementRule struct {
	Old string
	New string
}

// FilterReport is the outcome of a banned-phrase check.
type FilterReport struct {
	// Passed is true when no banned phrase remains.
	Passed bool

	// Found lists the banned phrases present, sorted.
	Found []string

	// Replaced lists the trace phrases that were rewritten, in rule order.
	Replaced []string
}

// ContentFilter refines packaged articles before publication: generated
// trace phrases are rewritten to natural ones, and banned clickbait
// phrases block the push.
type ContentFilter struct {
	banned       []string
	replacements []ReplacementRule
}

// NewContentFilter builds a filter. Nil banned or replacements select the
// built-in defaults.
func NewContentFilter(banned []string, replacements []ReplacementRule) *ContentFilter {
	if banned == nil {
		banned = defaultBannedPhrases
	}
	if replacements == nil {
		replacements = defaultTraceReplacements
	}
	return &ContentFilter{banned: banned, replacements: replacements}
}

// Clean rewrites trace phrases and returns the cleaned text plus the list
// of phrases that were replaced.
func (f *ContentFilter) Clean(content string) (string, []string) {
	var replaced []string
	for _, rule := range f.replacements {
		if strings.Contains(content, rule.Old) {
			replaced = append(replaced, rule.Old)
			content = strings.ReplaceAll(content, rule.Old, rule.New)
		}
	}
	return content, replaced
}

// Check reports any banned phrases in the content, case-insensitively.
func (f *ContentFilter) Check(content string) FilterReport {
	lower := strings.ToLower(content)
	var found []string
	for _, phrase := range f.banned {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			found = append(found, phrase)
		}
	}
	sort.Strings(found)
	return FilterReport{Passed: len(found) == 0, Found: found}
}

// CheckAndClean rewrites trace phrases first, then checks what remains.
func (f *ContentFilter) CheckAndClean(content string) (string, FilterReport) {
	cleaned, replaced := f.Clean(content)
	report := f.Check(cleaned)
	report.Replaced = replaced
	return cleaned, report
}
