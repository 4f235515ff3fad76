// Package sfv implements RFC 8941 Structured Field Values for HTTP.
//
// Structured Field Values are the compact text encoding used by headers
// such as Signature, Signature-Input and Content-Digest. The package
// provides the three top-level types of the RFC — Item, List and
// Dictionary — together with Parameters and Inner Lists, and a parser and
// serializer for each.
//
// # Data Model
//
// An Item is one of six bare value types, each carrying an ordered set of
// Parameters:
//
//   - IntegerItem (up to 15 decimal digits)
//   - DecimalItem (up to 12 integer digits, 1-3 fractional digits)
//   - StringItem (printable ASCII, double-quoted on the wire)
//   - TokenItem (unquoted identifier)
//   - BooleanItem (?0 / ?1)
//   - ByteSequenceItem (:base64:)
//
// Items are immutable values: WithParams returns a new item rather than
// mutating the receiver. Parameters and Dictionary preserve insertion
// order, which is semantically significant for serialization.
//
// # Parsing
//
// ParseItem, ParseList and ParseDictionary each consume a complete header
// field value. Malformed input fails with a *ParseError carrying the byte
// offset of the offending character; no partial results are returned.
//
//	dict, err := sfv.ParseDictionary(`sig1=("@method" "@path");created=1618884473`)
//
// # Serialization
//
// Serialize produces the canonical text for any value. For every value v
// constructible by this package, ParseX(v.Serialize()) reproduces an
// identical structure, and Serialize after a parse is canonical regardless
// of incidental whitespace in the input.
package sfv
