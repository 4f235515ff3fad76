package sfv

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Member is a value that can appear in a List or as a Dictionary entry:
// either an Item or an InnerList.
type Member interface {
	// Params returns the member's parameters. The result may be nil when
	// the member carries no parameters.
	Params() *Parameters

	// Serialize returns the canonical RFC 8941 text for the member.
	Serialize() string

	serializeTo(b *strings.Builder)
}

// Item is an RFC 8941 item: one of the six bare value types plus
// parameters. The concrete types are IntegerItem, DecimalItem, StringItem,
// TokenItem, BooleanItem and ByteSequenceItem.
//
// Items are immutable: WithParams on each concrete type returns a new item
// and never modifies the receiver.
type Item interface {
	Member

	// serializeBareTo writes the bare value without parameters. Parameter
	// values are bare items, so this is what parameter serialization uses.
	serializeBareTo(b *strings.Builder)
}

// IntegerItem is an RFC 8941 integer (Section 3.3.1), at most 15 decimal
// digits with an optional leading minus.
type IntegerItem struct {
	value  int64
	params *Parameters
}

// NewInteger creates an integer item.
func NewInteger(v int64) IntegerItem {
	return IntegerItem{value: v}
}

// Value returns the integer value.
func (i IntegerItem) Value() int64 { return i.value }

// Params returns the item's parameters.
func (i IntegerItem) Params() *Parameters { return i.params }

// WithParams returns a copy of the item carrying the given parameters.
func (i IntegerItem) WithParams(params *Parameters) IntegerItem {
	i.params = params
	return i
}

// Serialize returns the canonical text for the item.
func (i IntegerItem) Serialize() string { return serialize(i) }

func (i IntegerItem) serializeBareTo(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(i.value, 10))
}

func (i IntegerItem) serializeTo(b *strings.Builder) {
	i.serializeBareTo(b)
	i.params.serializeTo(b)
}

// DecimalItem is an RFC 8941 decimal (Section 3.3.2): at most 12 integer
// digits and 1-3 fractional digits. The value is held exactly as a count
// of thousandths, so serialization never suffers binary rounding.
type DecimalItem struct {
	thousandths int64
	params      *Parameters
}

// NewDecimal creates a decimal item from a count of thousandths. For
// example, NewDecimal(1250) serializes as "1.25".
func NewDecimal(thousandths int64) DecimalItem {
	return DecimalItem{thousandths: thousandths}
}

// NewDecimalFromFloat creates a decimal item from a float, rounding to
// three fractional digits using round-half-even per RFC 8941 Section
// 4.1.5.
func NewDecimalFromFloat(v float64) DecimalItem {
	scaled := v * 1000
	rounded := int64(scaled)

	frac := scaled - float64(rounded)
	switch {
	case frac > 0.5 || (frac == 0.5 && rounded%2 != 0):
		rounded++
	case frac < -0.5 || (frac == -0.5 && rounded%2 != 0):
		rounded--
	}

	return DecimalItem{thousandths: rounded}
}

// Thousandths returns the exact value as a count of thousandths.
func (i DecimalItem) Thousandths() int64 { return i.thousandths }

// Value returns the decimal value as a float64.
func (i DecimalItem) Value() float64 { return float64(i.thousandths) / 1000 }

// Params returns the item's parameters.
func (i DecimalItem) Params() *Parameters { return i.params }

// WithParams returns a copy of the item carrying the given parameters.
func (i DecimalItem) WithParams(params *Parameters) DecimalItem {
	i.params = params
	return i
}

// Serialize returns the canonical text for the item.
func (i DecimalItem) Serialize() string { return serialize(i) }

func (i DecimalItem) serializeBareTo(b *strings.Builder) {
	t := i.thousandths
	if t < 0 {
		b.WriteByte('-')
		t = -t
	}

	b.WriteString(strconv.FormatInt(t/1000, 10))
	b.WriteByte('.')

	// Fractional part: strip trailing zeros but keep at least one digit.
	frac := strconv.FormatInt(t%1000+1000, 10)[1:] // zero-padded to 3 digits
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	b.WriteString(frac)
}

func (i DecimalItem) serializeTo(b *strings.Builder) {
	i.serializeBareTo(b)
	i.params.serializeTo(b)
}

// StringItem is an RFC 8941 string (Section 3.3.3): printable ASCII,
// double-quoted on the wire with backslash and double-quote escaped.
type StringItem struct {
	value  string
	params *Parameters
}

// NewString creates a string item. RFC 8941 strings can only carry
// printable ASCII (0x20 to 0x7e); NewString panics on any other byte,
// since the value could never survive a serialize/parse round trip. Use
// AsItem for a checked conversion of untrusted input.
func NewString(v string) StringItem {
	if !isPrintableASCII(v) {
		panic("sfv: string value must be printable ASCII")
	}

	return StringItem{value: v}
}

// isPrintableASCII reports whether s contains only bytes in the visible
// ASCII range plus space.
func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}

	return true
}

// Value returns the string value without quoting.
func (i StringItem) Value() string { return i.value }

// Params returns the item's parameters.
func (i StringItem) Params() *Parameters { return i.params }

// WithParams returns a copy of the item carrying the given parameters.
func (i StringItem) WithParams(params *Parameters) StringItem {
	i.params = params
	return i
}

// Serialize returns the canonical text for the item.
func (i StringItem) Serialize() string { return serialize(i) }

func (i StringItem) serializeBareTo(b *strings.Builder) {
	b.WriteByte('"')

	for j := 0; j < len(i.value); j++ {
		c := i.value[j]
		if c == '\\' || c == '"' {
			b.WriteByte('\\')
		}

		b.WriteByte(c)
	}

	b.WriteByte('"')
}

func (i StringItem) serializeTo(b *strings.Builder) {
	i.serializeBareTo(b)
	i.params.serializeTo(b)
}

// TokenItem is an RFC 8941 token (Section 3.3.4): an unquoted identifier
// starting with a letter or "*".
type TokenItem struct {
	value  string
	params *Parameters
}

// NewToken creates a token item.
func NewToken(v string) TokenItem {
	return TokenItem{value: v}
}

// Value returns the token text.
func (i TokenItem) Value() string { return i.value }

// Params returns the item's parameters.
func (i TokenItem) Params() *Parameters { return i.params }

// WithParams returns a copy of the item carrying the given parameters.
func (i TokenItem) WithParams(params *Parameters) TokenItem {
	i.params = params
	return i
}

// Serialize returns the canonical text for the item.
func (i TokenItem) Serialize() string { return serialize(i) }

func (i TokenItem) serializeBareTo(b *strings.Builder) {
	b.WriteString(i.value)
}

func (i TokenItem) serializeTo(b *strings.Builder) {
	i.serializeBareTo(b)
	i.params.serializeTo(b)
}

// BooleanItem is an RFC 8941 boolean (Section 3.3.6): ?0 or ?1 on the
// wire.
type BooleanItem struct {
	value  bool
	params *Parameters
}

// NewBoolean creates a boolean item.
func NewBoolean(v bool) BooleanItem {
	return BooleanItem{value: v}
}

// Value returns the boolean value.
func (i BooleanItem) Value() bool { return i.value }

// Params returns the item's parameters.
func (i BooleanItem) Params() *Parameters { return i.params }

// WithParams returns a copy of the item carrying the given parameters.
func (i BooleanItem) WithParams(params *Parameters) BooleanItem {
	i.params = params
	return i
}

// Serialize returns the canonical text for the item.
func (i BooleanItem) Serialize() string { return serialize(i) }

func (i BooleanItem) serializeBareTo(b *strings.Builder) {
	if i.value {
		b.WriteString("?1")
	} else {
		b.WriteString("?0")
	}
}

func (i BooleanItem) serializeTo(b *strings.Builder) {
	i.serializeBareTo(b)
	i.params.serializeTo(b)
}

// ByteSequenceItem is an RFC 8941 byte sequence (Section 3.3.5):
// base64-encoded bytes delimited by colons on the wire.
type ByteSequenceItem struct {
	value  []byte
	params *Parameters
}

// NewByteSequence creates a byte sequence item holding a copy of the
// given bytes.
func NewByteSequence(v []byte) ByteSequenceItem {
	cp := make([]byte, len(v))
	copy(cp, v)

	return ByteSequenceItem{value: cp}
}

// Value returns a copy of the byte sequence.
func (i ByteSequenceItem) Value() []byte {
	cp := make([]byte, len(i.value))
	copy(cp, i.value)

	return cp
}

// Params returns the item's parameters.
func (i ByteSequenceItem) Params() *Parameters { return i.params }

// WithParams returns a copy of the item carrying the given parameters.
func (i ByteSequenceItem) WithParams(params *Parameters) ByteSequenceItem {
	i.params = params
	return i
}

// Serialize returns the canonical text for the item.
func (i ByteSequenceItem) Serialize() string { return serialize(i) }

func (i ByteSequenceItem) serializeBareTo(b *strings.Builder) {
	b.WriteByte(':')
	b.WriteString(base64.StdEncoding.EncodeToString(i.value))
	b.WriteByte(':')
}

func (i ByteSequenceItem) serializeTo(b *strings.Builder) {
	i.serializeBareTo(b)
	i.params.serializeTo(b)
}

// AsItem converts a plain Go value into the corresponding Item. Supported
// types are Item (returned as-is), int, int64, string, bool, []byte and
// float64. The second return value reports whether the conversion was
// possible; strings with bytes outside printable ASCII are not
// representable and report false.
func AsItem(v any) (Item, bool) {
	switch v := v.(type) {
	case Item:
		return v, true
	case int:
		return NewInteger(int64(v)), true
	case int64:
		return NewInteger(v), true
	case string:
		if !isPrintableASCII(v) {
			return nil, false
		}

		return NewString(v), true
	case bool:
		return NewBoolean(v), true
	case []byte:
		return NewByteSequence(v), true
	case float64:
		return NewDecimalFromFloat(v), true
	default:
		return nil, false
	}
}

// serialize renders any member through its serializeTo method.
func serialize(m Member) string {
	var b strings.Builder
	m.serializeTo(&b)

	return b.String()
}
