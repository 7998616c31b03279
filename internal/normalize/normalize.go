// Package normalize rewrites the informal model document shorthand into
// strict YAML.
//
// The document is treated as one string and a fixed, ordered list of rules
// is applied to every match. Each rule always runs and sees the output of
// the previous one.
package normalize

import "regexp"

// Rule is a single global rewrite.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Apply rewrites every match of the rule in s.
func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replace)
}

// Rules is the rewrite chain in the order it is applied.
var Rules = []Rule{
	{
		// "  author" becomes "  author:" so bare names are mapping keys.
		Name:    "colon",
		Pattern: regexp.MustCompile(`(?m)^((\s|-)*\w[^:]+?)$`),
		Replace: "${1}:",
	},
	{
		// "price: integer, default: 0", "price: integer: 0" and
		// "price: integer 0" all become "price: integer(0)". Only a single
		// character is captured as the default.
		Name:    "default",
		Pattern: regexp.MustCompile(`(?m),?\s*(default)?:?\s(\S)\s*$`),
		Replace: "(${2})",
	},
	{
		// Legacy "- column: type" bullets.
		Name:    "bullet",
		Pattern: regexp.MustCompile(`(?m)^(\s*)-\s*`),
		Replace: "${1}",
	},
}

// String applies Rules to the document.
func String(doc string) string {
	for _, r := range Rules {
		doc = r.Apply(doc)
	}
	return doc
}
