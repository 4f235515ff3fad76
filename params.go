package httpsig

import (
	"fmt"
	"strings"

	"github.com/talonsec/httpsig/sfv"
)

// Metadata parameter names defined by RFC 9421 Section 2.3.
const (
	paramAlg     = "alg"
	paramCreated = "created"
	paramExpires = "expires"
	paramKeyID   = "keyid"
	paramNonce   = "nonce"
	paramTag     = "tag"
)

// SignatureParameters carries the ordered list of covered component
// identifiers and the ordered signature metadata of one signature. The
// metadata insertion order is preserved exactly in the serialized
// @signature-params value, so the order of setter calls governs the wire
// order of ";created=...;keyid=..." and so on.
//
// A SignatureParameters is typically built per request as a copy of a
// shared base template (see NewSignatureParametersFrom); it must not be
// shared mutably across concurrent requests.
type SignatureParameters struct {
	identifiers []sfv.StringItem

	// keys/values form an ordered map of metadata parameters. Values are
	// int64 for created/expires and item-representable Go values
	// otherwise.
	keys   []string
	values map[string]any
}

// NewSignatureParameters creates an empty SignatureParameters.
func NewSignatureParameters() *SignatureParameters {
	return &SignatureParameters{values: make(map[string]any)}
}

// NewSignatureParametersFrom creates a SignatureParameters pre-populated
// with a copy of the component identifiers and metadata of base. Mutating
// the copy never affects base. A nil base yields an empty instance.
func NewSignatureParametersFrom(base *SignatureParameters) *SignatureParameters {
	params := NewSignatureParameters()
	if base == nil {
		return params
	}

	params.identifiers = append(params.identifiers, base.identifiers...)
	params.keys = append(params.keys, base.keys...)
	for k, v := range base.values {
		params.values[k] = v
	}

	return params
}

// set stores a metadata value, appending the key when it is new so
// insertion order survives overwrites.
func (p *SignatureParameters) set(key string, value any) {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}

	p.values[key] = value
}

// SetAlg sets the alg parameter.
func (p *SignatureParameters) SetAlg(alg string) *SignatureParameters {
	p.set(paramAlg, alg)
	return p
}

// Alg returns the alg parameter, or the empty string when unset.
func (p *SignatureParameters) Alg() string {
	v, _ := p.values[paramAlg].(string)
	return v
}

// SetCreated sets the created parameter (Unix seconds).
func (p *SignatureParameters) SetCreated(created int64) *SignatureParameters {
	p.set(paramCreated, created)
	return p
}

// Created returns the created parameter and whether it is set.
func (p *SignatureParameters) Created() (int64, bool) {
	v, ok := p.values[paramCreated].(int64)
	return v, ok
}

// SetExpires sets the expires parameter (Unix seconds).
func (p *SignatureParameters) SetExpires(expires int64) *SignatureParameters {
	p.set(paramExpires, expires)
	return p
}

// Expires returns the expires parameter and whether it is set.
func (p *SignatureParameters) Expires() (int64, bool) {
	v, ok := p.values[paramExpires].(int64)
	return v, ok
}

// SetKeyID sets the keyid parameter.
func (p *SignatureParameters) SetKeyID(keyID string) *SignatureParameters {
	p.set(paramKeyID, keyID)
	return p
}

// KeyID returns the keyid parameter, or the empty string when unset.
func (p *SignatureParameters) KeyID() string {
	v, _ := p.values[paramKeyID].(string)
	return v
}

// SetNonce sets the nonce parameter.
func (p *SignatureParameters) SetNonce(nonce string) *SignatureParameters {
	p.set(paramNonce, nonce)
	return p
}

// Nonce returns the nonce parameter, or the empty string when unset.
func (p *SignatureParameters) Nonce() string {
	v, _ := p.values[paramNonce].(string)
	return v
}

// SetTag sets the tag parameter.
func (p *SignatureParameters) SetTag(tag string) *SignatureParameters {
	p.set(paramTag, tag)
	return p
}

// Tag returns the tag parameter, or the empty string when unset.
func (p *SignatureParameters) Tag() string {
	v, _ := p.values[paramTag].(string)
	return v
}

// SetCustomParameter sets a metadata parameter by name. Known parameter
// names are checked against their defined types; unknown names accept any
// item-representable value and are otherwise rejected with
// ErrUnsupportedParameterType.
func (p *SignatureParameters) SetCustomParameter(key string, value any) error {
	switch key {
	case paramAlg, paramKeyID, paramNonce, paramTag:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q must be a string, got %T", ErrUnsupportedParameterType, key, value)
		}

		p.set(key, s)

	case paramCreated, paramExpires:
		n, ok := value.(int64)
		if !ok {
			return fmt.Errorf("%w: %q must be an int64, got %T", ErrUnsupportedParameterType, key, value)
		}

		p.set(key, n)

	default:
		if _, ok := sfv.AsItem(value); !ok {
			return fmt.Errorf("%w: %T", ErrUnsupportedParameterType, value)
		}

		p.set(key, value)
	}

	return nil
}

// CustomParameter returns the metadata value for a key and whether it is
// set.
func (p *SignatureParameters) CustomParameter(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// AddComponent appends a covered component by name. Field names are
// lowercased; derived names (starting with "@") are kept as-is.
func (p *SignatureParameters) AddComponent(name string) *SignatureParameters {
	if !strings.HasPrefix(name, "@") {
		name = strings.ToLower(name)
	}

	p.identifiers = append(p.identifiers, sfv.NewString(name))

	return p
}

// AddComponentIdentifier appends a covered component identifier carrying
// modifier parameters, such as @query-param;name="id". Field identifiers
// are assumed to be already lowercase.
func (p *SignatureParameters) AddComponentIdentifier(id sfv.StringItem) *SignatureParameters {
	p.identifiers = append(p.identifiers, id)
	return p
}

// ContainsComponent reports whether a component with the given base name
// is covered, ignoring modifier parameters.
func (p *SignatureParameters) ContainsComponent(name string) bool {
	for _, id := range p.identifiers {
		if id.Value() == name {
			return true
		}
	}

	return false
}

// ComponentIdentifiers returns the covered component identifiers in
// order.
func (p *SignatureParameters) ComponentIdentifiers() []sfv.StringItem {
	ids := make([]sfv.StringItem, len(p.identifiers))
	copy(ids, p.identifiers)

	return ids
}

// ComponentIdentifier returns the @signature-params identifier labeling
// the final line of the signature base.
func (p *SignatureParameters) ComponentIdentifier() sfv.StringItem {
	return sfv.NewString(ComponentSignatureParams)
}

// ToComponentValue builds the inner list form of the parameters: the
// covered component identifiers in order, with the metadata map attached
// as the list's parameters in exact insertion order.
func (p *SignatureParameters) ToComponentValue() sfv.InnerList {
	items := make([]sfv.Item, len(p.identifiers))
	for i, id := range p.identifiers {
		items[i] = id
	}

	list := sfv.NewInnerList(items...)

	if len(p.keys) > 0 {
		params := sfv.NewParameters()
		for _, key := range p.keys {
			item, ok := sfv.AsItem(p.values[key])
			if !ok {
				// SetCustomParameter validated on the way in.
				continue
			}

			params.Add(key, item)
		}

		list = list.WithParams(params)
	}

	return list
}

// withIdentifiers returns a copy of the parameters with the covered
// component list replaced. The signature base builder uses this to prune
// omitted @query-param components.
func (p *SignatureParameters) withIdentifiers(ids []sfv.StringItem) *SignatureParameters {
	pruned := NewSignatureParametersFrom(p)
	pruned.identifiers = ids

	return pruned
}

// SignatureParametersFromDictionary reconstructs the parameters of the
// signature labeled sigID from a parsed Signature-Input dictionary. The
// entry must exist and be an inner list. The created and expires
// parameters are read as integers, the other defined parameters as
// strings; custom parameters are preserved opaquely.
func SignatureParametersFromDictionary(dict *sfv.Dictionary, sigID string) (*SignatureParameters, error) {
	member, ok := dict.Get(sigID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSignatureNotFound, sigID)
	}

	inner, ok := member.(sfv.InnerList)
	if !ok {
		return nil, fmt.Errorf("%w: entry %q must be an inner list", ErrMalformedHeader, sigID)
	}

	params := NewSignatureParameters()

	for _, item := range inner.Items() {
		id, ok := item.(sfv.StringItem)
		if !ok {
			return nil, fmt.Errorf("%w: covered components must be strings", ErrMalformedHeader)
		}

		params.AddComponentIdentifier(id)
	}

	meta := inner.Params()
	for _, key := range meta.Keys() {
		item, _ := meta.Get(key)

		switch key {
		case paramCreated, paramExpires:
			integer, ok := item.(sfv.IntegerItem)
			if !ok {
				return nil, fmt.Errorf("%w: %q parameter must be an integer", ErrMalformedHeader, key)
			}

			params.set(key, integer.Value())

		case paramAlg, paramKeyID, paramNonce, paramTag:
			str, ok := item.(sfv.StringItem)
			if !ok {
				return nil, fmt.Errorf("%w: %q parameter must be a string", ErrMalformedHeader, key)
			}

			params.set(key, str.Value())

		default:
			params.set(key, bareValue(item))
		}
	}

	return params, nil
}

// bareValue extracts the plain Go value of an item, dispatching over the
// closed set of item types.
func bareValue(item sfv.Item) any {
	switch it := item.(type) {
	case sfv.IntegerItem:
		return it.Value()
	case sfv.DecimalItem:
		return it.Value()
	case sfv.StringItem:
		return it.Value()
	case sfv.TokenItem:
		return it.Value()
	case sfv.BooleanItem:
		return it.Value()
	case sfv.ByteSequenceItem:
		return it.Value()
	default:
		return nil
	}
}
