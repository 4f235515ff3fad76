package sfv

import "strings"

// Dictionary is an RFC 8941 dictionary (Section 3.2): an ordered map of
// key to member, where a member is an Item or an InnerList. Keys are
// unique; writing an existing key replaces its value but keeps the
// original insertion position.
type Dictionary struct {
	keys   []string
	values map[string]Member
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]Member)}
}

// Set sets the member for a key, appending the key when it is new. It
// returns the receiver to allow chaining.
func (d *Dictionary) Set(key string, value Member) *Dictionary {
	if d.values == nil {
		d.values = make(map[string]Member)
	}

	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}

	d.values[key] = value

	return d
}

// Get returns the member for a key and whether it is present.
func (d *Dictionary) Get(key string) (Member, bool) {
	if d == nil {
		return nil, false
	}

	v, ok := d.values[key]

	return v, ok
}

// Has reports whether a key is present.
func (d *Dictionary) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the dictionary keys in insertion order.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}

	keys := make([]string, len(d.keys))
	copy(keys, d.keys)

	return keys
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}

	return len(d.keys)
}

// Serialize returns the canonical text for the dictionary per RFC 8941
// Section 4.1.2. An entry whose value is a boolean true item without
// parameters renders as the bare key; every other entry renders as
// key=value. Entries are joined with ", ".
func (d *Dictionary) Serialize() string {
	var b strings.Builder

	for i, key := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(key)

		value := d.values[key]

		// Boolean true with no parameters renders as a bare flag, but its
		// parameters still follow the key when present.
		if boolean, ok := value.(BooleanItem); ok && boolean.Value() {
			boolean.Params().serializeTo(&b)
			continue
		}

		b.WriteByte('=')
		value.serializeTo(&b)
	}

	return b.String()
}
