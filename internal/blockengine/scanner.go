package blockengine

import "regexp"

// placeholderRe matches {{NAME}} or {{NAME=VALUE}}. NAME is restricted to
// word characters plus dash; VALUE runs to the first closing brace, so
// placeholders never nest.
var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_-]+)(=([^}]*))?\}\}`)

// Token is one placeholder occurrence together with the literal text that
// precedes it.
type Token struct {
	// LiteralBefore is the raw text between the previous placeholder (or
	// the start of input) and this one.
	LiteralBefore string
	// Name is the placeholder name.
	Name string
	// Value is the text after '='; empty when HasValue is false.
	Value string
	// HasValue reports whether the placeholder used the NAME=VALUE form.
	HasValue bool
	// Raw is the placeholder exactly as written, braces included.
	Raw string
	// Start and End are byte offsets of Raw within the scanned text.
	Start int
	End   int
}

// ScanResult is the ordered token stream for one input string.
type ScanResult struct {
	Tokens []Token
	// Trailing is the literal text after the final placeholder.
	Trailing string
}

// Scan tokenizes text into literal spans and placeholder tokens in a single
// left-to-right pass. Malformed placeholder syntax is left inside the
// surrounding literal spans untouched.
func Scan(text string) ScanResult {
	var res ScanResult
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		tok := Token{
			LiteralBefore: text[last:start],
			Name:          text[m[2]:m[3]],
			Raw:           text[start:end],
			Start:         start,
			End:           end,
		}
		if m[4] != -1 {
			tok.HasValue = true
			tok.Value = text[m[6]:m[7]]
		}
		res.Tokens = append(res.Tokens, tok)
		last = end
	}
	res.Trailing = text[last:]
	return res
}
