package sfv

import "strings"

// InnerList is an RFC 8941 inner list (Section 3.1.1): an ordered sequence
// of items wrapped in parentheses, carrying its own parameters. Inner
// lists appear as members of Lists and Dictionaries; the signature-params
// value of an HTTP message signature is an inner list.
type InnerList struct {
	items  []Item
	params *Parameters
}

// NewInnerList creates an inner list of the given items.
func NewInnerList(items ...Item) InnerList {
	cp := make([]Item, len(items))
	copy(cp, items)

	return InnerList{items: cp}
}

// Items returns the list's items in order.
func (l InnerList) Items() []Item {
	cp := make([]Item, len(l.items))
	copy(cp, l.items)

	return cp
}

// Params returns the inner list's own parameters.
func (l InnerList) Params() *Parameters { return l.params }

// WithParams returns a copy of the inner list carrying the given
// parameters.
func (l InnerList) WithParams(params *Parameters) InnerList {
	l.params = params
	return l
}

// Serialize returns the canonical text for the inner list.
func (l InnerList) Serialize() string { return serialize(l) }

func (l InnerList) serializeTo(b *strings.Builder) {
	b.WriteByte('(')

	for i, item := range l.items {
		if i > 0 {
			b.WriteByte(' ')
		}

		item.serializeTo(b)
	}

	b.WriteByte(')')

	l.params.serializeTo(b)
}
