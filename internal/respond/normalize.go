// Package respond resolves free-text queries against the training pairs
// embedded in stored reflections. Retrieval is a deliberate linear scan over
// every stored pair at query time; no index is built. The query rate of a
// personal agent is low enough that scanning wins over index maintenance.
package respond

import "strings"

// Normalize lowercases, trims, and strips question/sentence punctuation.
// It is idempotent.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "?", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	return s
}

// synonymRule rewrites a leading phrase to its canonical form.
type synonymRule struct {
	prefix    string
	canonical string
}

// Declared order matters: the first matching prefix wins and at most one
// substitution is applied.
var synonymRules = []synonymRule{
	{"define", "what is"},
	{"explain", "what is"},
	{"describe", "what is"},
	{"meaning of", "what is"},
	{"purpose of", "what is"},
	{"how do i", "how to"},
	{"how can i", "how to"},
	{"tell me about", "what is"},
	{"who is", "what is"},
	{"what's", "what is"},
	{"whats", "what is"},
}

// Fold replaces a leading synonym phrase with its canonical form. Text not
// starting with a known phrase is returned unchanged.
func Fold(text string) string {
	for _, rule := range synonymRules {
		if strings.HasPrefix(text, rule.prefix) {
			return rule.canonical + text[len(rule.prefix):]
		}
	}
	return text
}
