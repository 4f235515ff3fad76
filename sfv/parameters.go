package sfv

import "strings"

// Parameters is an ordered association of key to bare item attached to an
// Item, InnerList or Dictionary member. Insertion order is preserved and
// is significant for serialization. Writing an existing key replaces its
// value but keeps the original position.
//
// The zero value and a nil *Parameters are both empty and safe to read.
type Parameters struct {
	keys   []string
	values map[string]Item
}

// NewParameters creates an empty parameter set.
func NewParameters() *Parameters {
	return &Parameters{values: make(map[string]Item)}
}

// Add sets the value for a key, appending the key when it is new. It
// returns the receiver to allow chaining.
func (p *Parameters) Add(key string, value Item) *Parameters {
	if p.values == nil {
		p.values = make(map[string]Item)
	}

	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}

	p.values[key] = value

	return p
}

// Get returns the value for a key and whether it is present.
func (p *Parameters) Get(key string) (Item, bool) {
	if p == nil {
		return nil, false
	}

	v, ok := p.values[key]

	return v, ok
}

// Has reports whether a key is present.
func (p *Parameters) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Keys returns the parameter keys in insertion order.
func (p *Parameters) Keys() []string {
	if p == nil {
		return nil
	}

	keys := make([]string, len(p.keys))
	copy(keys, p.keys)

	return keys
}

// Len returns the number of parameters.
func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}

	return len(p.keys)
}

// serializeTo writes the parameters per RFC 8941 Section 4.1.1.2: each
// entry as ";key" for a bare boolean true value, else ";key=value". An
// empty or nil parameter set writes nothing.
func (p *Parameters) serializeTo(b *strings.Builder) {
	if p == nil {
		return
	}

	for _, key := range p.keys {
		b.WriteByte(';')
		b.WriteString(key)

		value := p.values[key]

		// Boolean true renders as a bare key.
		if boolean, ok := value.(BooleanItem); ok && boolean.Value() {
			continue
		}

		b.WriteByte('=')
		value.serializeBareTo(b)
	}
}
