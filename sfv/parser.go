package sfv

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// ParseItem parses a complete header field value as an RFC 8941 item with
// parameters. Leading and trailing spaces are discarded; any other
// trailing input is an error.
func ParseItem(s string) (Item, error) {
	p := &parser{data: s}
	p.skipSP()

	item, err := p.parseItem()
	if err != nil {
		return nil, err
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}

	return item, nil
}

// ParseList parses a complete header field value as an RFC 8941 list.
// An empty input yields an empty list.
func ParseList(s string) (List, error) {
	p := &parser{data: s}
	p.skipSP()

	var list List

	for !p.eof() {
		member, err := p.parseMember()
		if err != nil {
			return nil, err
		}

		list = append(list, member)

		p.skipOWS()
		if p.eof() {
			break
		}

		if !p.consume(',') {
			return nil, p.errorf("expected ',' between list members")
		}

		p.skipOWS()
		if p.eof() {
			return nil, p.errorf("trailing comma in list")
		}
	}

	return list, nil
}

// ParseDictionary parses a complete header field value as an RFC 8941
// dictionary. A key occurring more than once keeps its first position and
// takes the last value. An empty input yields an empty dictionary.
func ParseDictionary(s string) (*Dictionary, error) {
	p := &parser{data: s}
	p.skipSP()

	dict := NewDictionary()

	for !p.eof() {
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		var member Member

		if p.consume('=') {
			member, err = p.parseMember()
		} else {
			// A bare key is boolean true; parameters still attach to it.
			var params *Parameters
			params, err = p.parseParameters()
			member = NewBoolean(true).WithParams(params)
		}

		if err != nil {
			return nil, err
		}

		dict.Set(key, member)

		p.skipOWS()
		if p.eof() {
			break
		}

		if !p.consume(',') {
			return nil, p.errorf("expected ',' between dictionary entries")
		}

		p.skipOWS()
		if p.eof() {
			return nil, p.errorf("trailing comma in dictionary")
		}
	}

	return dict, nil
}

// parser is an offset-based scanner over a single header field value.
type parser struct {
	data   string
	offset int
}

func (p *parser) peek() byte {
	if p.offset >= len(p.data) {
		return 0
	}

	return p.data[p.offset]
}

func (p *parser) eof() bool {
	return p.offset >= len(p.data)
}

func (p *parser) consume(expected byte) bool {
	if p.peek() == expected {
		p.offset++
		return true
	}

	return false
}

// skipSP skips space characters, used at field value boundaries and
// between inner list items.
func (p *parser) skipSP() {
	for p.offset < len(p.data) && p.data[p.offset] == ' ' {
		p.offset++
	}
}

// skipOWS skips optional whitespace (space or horizontal tab), used around
// the commas separating list and dictionary members.
func (p *parser) skipOWS() {
	for p.offset < len(p.data) && (p.data[p.offset] == ' ' || p.data[p.offset] == '\t') {
		p.offset++
	}
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Offset: p.offset, Msg: fmt.Sprintf(format, args...)}
}

// expectEnd skips trailing spaces and fails if any input remains.
func (p *parser) expectEnd() error {
	p.skipSP()

	if !p.eof() {
		return p.errorf("unexpected trailing characters")
	}

	return nil
}

// parseMember parses a list or dictionary member: an inner list when the
// input starts with "(", otherwise an item with parameters.
func (p *parser) parseMember() (Member, error) {
	if p.peek() == '(' {
		return p.parseInnerList()
	}

	return p.parseItem()
}

// parseItem parses a bare item followed by its parameters.
func (p *parser) parseItem() (Item, error) {
	bare, err := p.parseBareItem()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}

	return withParams(bare, params), nil
}

// parseBareItem determines the item type from one character of lookahead
// per RFC 8941 Section 4.2.3.1.
func (p *parser) parseBareItem() (Item, error) {
	if p.eof() {
		return nil, p.errorf("expected item, got end of input")
	}

	c := p.peek()

	switch {
	case c == '?':
		return p.parseBoolean()
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case c == '"':
		return p.parseString()
	case c == ':':
		return p.parseByteSequence()
	case c == '*' || isAlpha(c):
		return p.parseToken()
	default:
		return nil, p.errorf("invalid item start character %q", c)
	}
}

func (p *parser) parseBoolean() (Item, error) {
	if !p.consume('?') {
		return nil, p.errorf("expected '?' at start of boolean")
	}

	switch {
	case p.consume('1'):
		return NewBoolean(true), nil
	case p.consume('0'):
		return NewBoolean(false), nil
	default:
		return nil, p.errorf("expected '0' or '1' after '?'")
	}
}

// parseNumber parses an integer or decimal per RFC 8941 Section 4.2.4.
// Integers carry at most 15 digits; decimals at most 12 integer digits and
// 1-3 fractional digits.
func (p *parser) parseNumber() (Item, error) {
	negative := p.consume('-')

	intStart := p.offset
	for isDigit(p.peek()) {
		p.offset++
	}

	intDigits := p.offset - intStart
	if intDigits == 0 {
		return nil, p.errorf("expected digit in number")
	}

	if !p.consume('.') {
		if intDigits > 15 {
			return nil, p.errorf("integer has more than 15 digits")
		}

		value, err := strconv.ParseInt(p.data[intStart:p.offset], 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer: %v", err)
		}

		if negative {
			value = -value
		}

		return NewInteger(value), nil
	}

	if intDigits > 12 {
		return nil, p.errorf("decimal has more than 12 integer digits")
	}

	fracStart := p.offset
	for isDigit(p.peek()) {
		p.offset++
	}

	fracDigits := p.offset - fracStart
	if fracDigits == 0 {
		return nil, p.errorf("decimal has no fractional digits")
	}

	if fracDigits > 3 {
		return nil, p.errorf("decimal has more than 3 fractional digits")
	}

	intPart, err := strconv.ParseInt(p.data[fracStart-1-intDigits:fracStart-1], 10, 64)
	if err != nil {
		return nil, p.errorf("invalid decimal: %v", err)
	}

	fracPart, err := strconv.ParseInt(p.data[fracStart:p.offset], 10, 64)
	if err != nil {
		return nil, p.errorf("invalid decimal: %v", err)
	}

	for i := fracDigits; i < 3; i++ {
		fracPart *= 10
	}

	thousandths := intPart*1000 + fracPart
	if negative {
		thousandths = -thousandths
	}

	return NewDecimal(thousandths), nil
}

// parseString parses a double-quoted string. Only \" and \\ are valid
// escapes; bytes outside visible ASCII are invalid.
func (p *parser) parseString() (Item, error) {
	if !p.consume('"') {
		return nil, p.errorf("expected '\"' at start of string")
	}

	var buf []byte

	for {
		if p.eof() {
			return nil, p.errorf("unterminated string")
		}

		c := p.data[p.offset]
		p.offset++

		switch {
		case c == '"':
			return NewString(string(buf)), nil
		case c == '\\':
			if p.eof() {
				return nil, p.errorf("unterminated escape in string")
			}

			escaped := p.data[p.offset]
			p.offset++

			if escaped != '"' && escaped != '\\' {
				return nil, p.errorf("invalid escape sequence in string")
			}

			buf = append(buf, escaped)
		case c < 0x20 || c > 0x7e:
			return nil, p.errorf("invalid character in string")
		default:
			buf = append(buf, c)
		}
	}
}

func (p *parser) parseToken() (Item, error) {
	start := p.offset

	c := p.peek()
	if c != '*' && !isAlpha(c) {
		return nil, p.errorf("token must start with a letter or '*'")
	}
	p.offset++

	for isTokenChar(p.peek()) {
		p.offset++
	}

	return NewToken(p.data[start:p.offset]), nil
}

func (p *parser) parseByteSequence() (Item, error) {
	if !p.consume(':') {
		return nil, p.errorf("expected ':' at start of byte sequence")
	}

	start := p.offset

	for !p.eof() && p.data[p.offset] != ':' {
		if !isBase64Char(p.data[p.offset]) {
			return nil, p.errorf("invalid character in byte sequence")
		}

		p.offset++
	}

	if !p.consume(':') {
		return nil, p.errorf("unterminated byte sequence")
	}

	encoded := p.data[start : p.offset-1]

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Accept unpadded input; serialization always re-pads.
		decoded, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, p.errorf("invalid base64 in byte sequence")
		}
	}

	return NewByteSequence(decoded), nil
}

// parseParameters parses zero or more ";key" or ";key=value" pairs in
// encountered order. A bare key carries boolean true. Returns nil when no
// parameters are present.
func (p *parser) parseParameters() (*Parameters, error) {
	var params *Parameters

	for p.consume(';') {
		p.skipSP()

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		var value Item = NewBoolean(true)

		if p.consume('=') {
			value, err = p.parseBareItem()
			if err != nil {
				return nil, err
			}
		}

		if params == nil {
			params = NewParameters()
		}

		params.Add(key, value)
	}

	return params, nil
}

// parseKey parses a parameter or dictionary key: lowercase letter or "*"
// first, then lowercase letters, digits, "_", "-", "." or "*".
func (p *parser) parseKey() (string, error) {
	start := p.offset

	c := p.peek()
	if c != '*' && !isLowerAlpha(c) {
		return "", p.errorf("key must start with a lowercase letter or '*'")
	}
	p.offset++

	for isKeyChar(p.peek()) {
		p.offset++
	}

	return p.data[start:p.offset], nil
}

// parseInnerList parses "(" items ")" plus the list's own parameters.
func (p *parser) parseInnerList() (Member, error) {
	if !p.consume('(') {
		return InnerList{}, p.errorf("expected '(' at start of inner list")
	}

	var items []Item

	for {
		p.skipSP()

		if p.consume(')') {
			break
		}

		if p.eof() {
			return InnerList{}, p.errorf("unterminated inner list")
		}

		item, err := p.parseItem()
		if err != nil {
			return InnerList{}, err
		}

		if c := p.peek(); c != ' ' && c != ')' {
			return InnerList{}, p.errorf("expected space or ')' after inner list item")
		}

		items = append(items, item)
	}

	params, err := p.parseParameters()
	if err != nil {
		return InnerList{}, err
	}

	return NewInnerList(items...).WithParams(params), nil
}

// withParams attaches parameters to an item, dispatching over the closed
// set of item types.
func withParams(item Item, params *Parameters) Item {
	if params.Len() == 0 {
		return item
	}

	switch it := item.(type) {
	case IntegerItem:
		return it.WithParams(params)
	case DecimalItem:
		return it.WithParams(params)
	case StringItem:
		return it.WithParams(params)
	case TokenItem:
		return it.WithParams(params)
	case BooleanItem:
		return it.WithParams(params)
	case ByteSequenceItem:
		return it.WithParams(params)
	default:
		panic(fmt.Sprintf("sfv: unknown item type %T", item))
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLowerAlpha(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isTokenChar reports an RFC 8941 token character: tchar per RFC 7230
// plus ":" and "/".
func isTokenChar(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}

	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~', ':', '/':
		return true
	default:
		return false
	}
}

func isKeyChar(c byte) bool {
	return isLowerAlpha(c) || isDigit(c) || c == '_' || c == '-' || c == '.' || c == '*'
}

func isBase64Char(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '+' || c == '/' || c == '='
}
