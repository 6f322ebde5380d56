// Package redact strips personally identifying text before it is stored in
// derived artifacts or shown outside the secured path.
package redact

import "regexp"

// Token is the fixed literal substituted for every match. It contains no
// digits or @ so repeated passes cannot re-tokenize earlier output.
const Token = "[REDACTED]"

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}`)

	// Optional country code, optional parenthesized area code, 3-3-4 grouping
	// with space, dot, or dash separators.
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}`)

	streetPattern = regexp.MustCompile(`(?i)\d+\s+(?:[A-Za-z]+\s+)*?(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way|Circle|Cir|Parkway|Pkwy|Terrace|Ter)\b`)
)

// Redact replaces email addresses, phone numbers, and street addresses with
// Token. It is pure, total, and idempotent; the passes run in that order
// because later patterns operate on the output of earlier ones.
func Redact(text string) string {
	if text == "" {
		return text
	}

	text = emailPattern.ReplaceAllString(text, Token)
	text = phonePattern.ReplaceAllString(text, Token)
	text = streetPattern.ReplaceAllString(text, Token)

	return text
}
