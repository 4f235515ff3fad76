package sfv

import "fmt"

// ParseError describes malformed structured field text. Offset is the
// byte position in the input at which parsing failed.
type ParseError struct {
	Offset int
	Msg    string
}

// Error returns the formatted error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("sfv: parse error at offset %d: %s", e.Offset, e.Msg)
}
