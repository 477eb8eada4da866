package types

import "strings"

// Script is sanitized narration text. It is never modified once produced.
type Script string

// Words returns the whitespace-delimited tokens of the script.
func (s Script) Words() []string {
	return strings.Fields(string(s))
}

// String implements fmt.Stringer.
func (s Script) String() string { return string(s) }
