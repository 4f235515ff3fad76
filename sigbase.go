package httpsig

import (
	"fmt"
	"strings"

	"github.com/talonsec/httpsig/sfv"
)

// BuildSignatureBase constructs the signature base string per RFC 9421
// Section 2.5. Each covered component of params resolves against the
// provider and produces a line
//
//	"<component-id>": <value>\n
//
// and the final line, with no trailing newline, is
//
//	"@signature-params": <inner list>
//
// The returned inner list is the @signature-params value actually signed;
// callers use it verbatim as the Signature-Input entry.
//
// A @query-param component naming a repeated query parameter is omitted
// from both the base body and the returned inner list, per RFC 9421
// Section 2.2.8. Any other component without a value fails with
// ErrMissingComponent.
//
// The builder has no state: equal inputs produce byte-identical output.
func BuildSignatureBase(params *SignatureParameters, provider ComponentProvider) (string, sfv.InnerList, error) {
	var base strings.Builder

	kept := make([]sfv.StringItem, 0, len(params.identifiers))

	for _, id := range params.identifiers {
		value, ok, err := ResolveComponent(provider, id)
		if err != nil {
			return "", sfv.InnerList{}, err
		}

		if !ok {
			if id.Value() == ComponentQueryParam {
				// Repeated query parameter: the omission must also reach
				// the signed parameter list, so the identifier is dropped
				// here rather than only from the body.
				continue
			}

			return "", sfv.InnerList{}, fmt.Errorf("%w: %s", ErrMissingComponent, id.Serialize())
		}

		kept = append(kept, id)

		base.WriteString(id.Serialize())
		base.WriteString(": ")
		base.WriteString(value)
		base.WriteByte('\n')
	}

	input := params.withIdentifiers(kept).ToComponentValue()

	base.WriteString(params.ComponentIdentifier().Serialize())
	base.WriteString(": ")
	base.WriteString(input.Serialize())

	return base.String(), input, nil
}
