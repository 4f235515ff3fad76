package httpsig

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/talonsec/httpsig/sfv"
)

// Derived component identifiers per RFC 9421 Section 2.2.
const (
	ComponentMethod        = "@method"
	ComponentAuthority     = "@authority"
	ComponentScheme        = "@scheme"
	ComponentTargetURI     = "@target-uri"
	ComponentRequestTarget = "@request-target"
	ComponentPath          = "@path"
	ComponentQuery         = "@query"
	ComponentQueryParam    = "@query-param"
	ComponentStatus        = "@status"

	// ComponentSignatureParams labels the final line of every signature
	// base (RFC 9421 Section 2.3).
	ComponentSignatureParams = "@signature-params"
)

// ComponentProvider exposes the pieces of an HTTP message that a component
// identifier can select. Implementations hold a read-only view of a single
// request or response; they perform no I/O.
//
// QueryParam distinguishes three outcomes: a single value (value, true,
// nil), a name absent from the query (error), and a name occurring more
// than once ("", false, nil) — the last is the RFC 9421 Section 2.2.8
// omission policy, not an error.
type ComponentProvider interface {
	Method() string
	Authority() string
	Scheme() string
	TargetURI() string
	RequestTarget() string
	Path() string

	// Query returns the raw query and whether the target URI has one.
	Query() (string, bool)

	// QueryParam returns the decoded value of the named query parameter.
	QueryParam(name string) (string, bool, error)

	// Status returns the response status code. Request providers return
	// ErrResponseOnlyComponent.
	Status() (string, error)

	// HasField reports whether the named field is present.
	HasField(name string) bool

	// Field returns the combined value of the named field, per
	// CombineFieldValues, and whether the field produced a value.
	Field(name string) (string, bool)

	// HasBody reports whether the message carries a body.
	HasBody() bool
}

// foldedWhitespace matches obsolete header line folding: any whitespace
// run containing an embedded CRLF.
var foldedWhitespace = regexp.MustCompile(`\s*\r\n\s*`)

// CombineFieldValues canonicalizes raw field values per RFC 9421 Section
// 2.1: trim each value, collapse folded-line whitespace to a single space,
// and join distinct values with ", ". It returns false when the values
// combine to nothing.
func CombineFieldValues(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = foldedWhitespace.ReplaceAllString(strings.TrimSpace(v), " ")
	}

	combined := strings.Join(parts, ", ")

	return combined, combined != ""
}

// ResolveComponent resolves a component identifier against a provider per
// RFC 9421 Section 2. The identifier's base value is either one of the
// nine derived component names or a (lowercase) field name, optionally
// modified by the "sf", "key" or "name" parameters.
//
// The boolean result is false with a nil error in exactly two cases: a
// plain field with no value, and a multi-valued @query-param (the RFC
// 9421 Section 2.2.8 omission policy). Every other failure is an error.
func ResolveComponent(p ComponentProvider, id sfv.StringItem) (string, bool, error) {
	name := id.Value()

	if strings.HasPrefix(name, "@") {
		return resolveDerived(p, id)
	}

	params := id.Params()

	if key, ok := params.Get("key"); ok {
		value, err := resolveDictionaryMember(p, name, key)
		return value, err == nil, err
	}

	if params.Has("sf") {
		value, err := resolveStructuredField(p, name)
		return value, err == nil, err
	}

	value, ok := p.Field(name)

	return value, ok, nil
}

// resolveDerived dispatches over the fixed vocabulary of derived
// components.
func resolveDerived(p ComponentProvider, id sfv.StringItem) (string, bool, error) {
	switch id.Value() {
	case ComponentMethod:
		return p.Method(), true, nil

	case ComponentAuthority:
		return p.Authority(), true, nil

	case ComponentScheme:
		return p.Scheme(), true, nil

	case ComponentTargetURI:
		return p.TargetURI(), true, nil

	case ComponentRequestTarget:
		return p.RequestTarget(), true, nil

	case ComponentPath:
		return p.Path(), true, nil

	case ComponentQuery:
		query, ok := p.Query()
		return query, ok, nil

	case ComponentStatus:
		status, err := p.Status()
		return status, err == nil, err

	case ComponentQueryParam:
		nameParam, ok := id.Params().Get("name")
		if !ok {
			return "", false, fmt.Errorf("%w: %s requires a 'name' parameter", ErrInvalidComponentParameter, ComponentQueryParam)
		}

		nameItem, ok := nameParam.(sfv.StringItem)
		if !ok {
			return "", false, fmt.Errorf("%w: 'name' parameter of %s must be a string", ErrInvalidComponentParameter, ComponentQueryParam)
		}

		return p.QueryParam(nameItem.Value())

	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnknownComponent, id.Value())
	}
}

// resolveDictionaryMember handles a "key"-qualified field: the raw field
// value must parse as a dictionary, and the named member is re-serialized
// rather than passed through raw.
func resolveDictionaryMember(p ComponentProvider, field string, key sfv.Item) (string, error) {
	keyItem, ok := key.(sfv.StringItem)
	if !ok {
		return "", fmt.Errorf("%w: 'key' parameter of field %q must be a string", ErrInvalidComponentParameter, field)
	}

	raw, ok := p.Field(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingComponent, field)
	}

	dict, err := sfv.ParseDictionary(raw)
	if err != nil {
		return "", fmt.Errorf("%w: field %q is not a dictionary field", ErrNotStructuredField, field)
	}

	member, ok := dict.Get(keyItem.Value())
	if !ok {
		return "", fmt.Errorf("%w: key %q of dictionary field %q", ErrDictionaryKeyNotFound, keyItem.Value(), field)
	}

	return member.Serialize(), nil
}

// structuredFieldType is the canonical RFC 8941 type of a known structured
// field, used by the "sf" component modifier.
type structuredFieldType int

const (
	structuredList structuredFieldType = iota
	structuredDictionary
	structuredItem
)

// structuredFields maps known field names to their canonical structured
// type per the HTTP field name registry.
var structuredFields = map[string]structuredFieldType{
	"accept":                         structuredList,
	"accept-ch":                      structuredList,
	"accept-encoding":                structuredList,
	"accept-language":                structuredList,
	"accept-patch":                   structuredList,
	"accept-ranges":                  structuredList,
	"access-control-allow-headers":   structuredList,
	"access-control-allow-methods":   structuredList,
	"access-control-expose-headers":  structuredList,
	"access-control-request-headers": structuredList,
	"allow":                          structuredList,
	"alpn":                           structuredList,
	"connection":                     structuredList,
	"content-encoding":               structuredList,
	"content-language":               structuredList,
	"content-length":                 structuredList,
	"te":                             structuredList,
	"timing-allow-origin":            structuredList,
	"trailer":                        structuredList,
	"transfer-encoding":              structuredList,
	"variant-key":                    structuredList,
	"vary":                           structuredList,
	"x-list":                         structuredList,
	"x-list-a":                       structuredList,
	"x-list-b":                       structuredList,
	"x-xss-protection":               structuredList,
	"cache-status":                   structuredList,
	"proxy-status":                   structuredList,
	"example-list":                   structuredList,

	"alt-svc":            structuredDictionary,
	"cache-control":      structuredDictionary,
	"cdn-cache-control":  structuredDictionary,
	"expect-ct":          structuredDictionary,
	"keep-alive":         structuredDictionary,
	"pragma":             structuredDictionary,
	"prefer":             structuredDictionary,
	"preference-applied": structuredDictionary,
	"priority":           structuredDictionary,
	"signature":          structuredDictionary,
	"signature-input":    structuredDictionary,
	"surrogate-control":  structuredDictionary,
	"variants":           structuredDictionary,
	"x-dictionary":       structuredDictionary,
	"example-dict":       structuredDictionary,

	"access-control-allow-credentials": structuredItem,
	"access-control-allow-origin":      structuredItem,
	"access-control-max-age":           structuredItem,
	"access-control-request-method":    structuredItem,
	"age":                              structuredItem,
	"alt-used":                         structuredItem,
	"content-type":                     structuredItem,
	"cross-origin-resource-policy":     structuredItem,
	"expect":                           structuredItem,
	"host":                             structuredItem,
	"origin":                           structuredItem,
	"retry-after":                      structuredItem,
	"x-content-type-options":           structuredItem,
	"x-frame-options":                  structuredItem,
	"example-integer":                  structuredItem,
	"example-decimal":                  structuredItem,
	"example-string":                   structuredItem,
	"example-token":                    structuredItem,
	"example-bytesequence":             structuredItem,
	"example-boolean":                  structuredItem,
}

// resolveStructuredField handles an "sf"-qualified field: the raw value is
// parsed as its canonical structured type and re-serialized, normalizing
// quoting and whitespace.
func resolveStructuredField(p ComponentProvider, field string) (string, error) {
	fieldType, known := structuredFields[field]
	if !known {
		return "", fmt.Errorf("%w: field %q has no known structured type", ErrNotStructuredField, field)
	}

	raw, ok := p.Field(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingComponent, field)
	}

	var (
		value string
		err   error
	)

	switch fieldType {
	case structuredList:
		var list sfv.List
		if list, err = sfv.ParseList(raw); err == nil {
			value = list.Serialize()
		}

	case structuredDictionary:
		var dict *sfv.Dictionary
		if dict, err = sfv.ParseDictionary(raw); err == nil {
			value = dict.Serialize()
		}

	case structuredItem:
		var item sfv.Item
		if item, err = sfv.ParseItem(raw); err == nil {
			value = item.Serialize()
		}
	}

	if err != nil {
		return "", fmt.Errorf("%w: field %q: %v", ErrNotStructuredField, field, err)
	}

	return value, nil
}
