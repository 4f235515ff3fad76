package sfv

import "strings"

// List is an RFC 8941 list (Section 3.1): an ordered sequence of members,
// each an Item or an InnerList. An empty list serializes to the empty
// string, since RFC 8941 represents empty lists by omitting the field.
type List []Member

// Serialize returns the canonical text for the list, joining members with
// ", " per RFC 8941 Section 4.1.1.
func (l List) Serialize() string {
	var b strings.Builder

	for i, member := range l {
		if i > 0 {
			b.WriteString(", ")
		}

		member.serializeTo(&b)
	}

	return b.String()
}
