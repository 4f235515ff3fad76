package httpsig

import (
	"fmt"
	"net/http"

	"github.com/talonsec/httpsig/sfv"
)

// SignConfig configures HTTP request signing per RFC 9421.
type SignConfig struct {
	// Signer produces signatures. Required.
	Signer Signer

	// Label identifies the signature in the Signature and Signature-Input
	// dictionaries. Defaults to "sig1".
	Label string

	// Factory produces the per-request signature parameters. Defaults to
	// DefaultFactory().
	Factory *Factory
}

// SignRequest signs an HTTP request in-place per RFC 9421: it builds the
// per-request signature parameters, resolves the signature base, invokes
// the Signer, and merges the result into the Signature and
// Signature-Input dictionary headers. Existing signatures under other
// labels are preserved.
func SignRequest(r *http.Request, cfg SignConfig) error {
	if cfg.Signer == nil {
		return ErrNoSigner
	}

	label := cfg.Label
	if label == "" {
		label = "sig1"
	}

	factory := cfg.Factory
	if factory == nil {
		factory = DefaultFactory()
	}

	params, err := factory.Build(r, cfg.Signer)
	if err != nil {
		return err
	}

	base, input, err := BuildSignatureBase(params, NewRequestProvider(r))
	if err != nil {
		return err
	}

	signature, err := cfg.Signer.Sign([]byte(base))
	if err != nil {
		return err
	}

	if err := setDictionaryEntry(r.Header, "Signature-Input", label, input); err != nil {
		return err
	}

	return setDictionaryEntry(r.Header, "Signature", label, sfv.NewByteSequence(signature))
}

// setDictionaryEntry merges one entry into an RFC 8941 dictionary header,
// preserving existing entries and their order.
func setDictionaryEntry(h http.Header, header, key string, value sfv.Member) error {
	dict := sfv.NewDictionary()

	if existing := h.Get(header); existing != "" {
		var err error

		dict, err = sfv.ParseDictionary(existing)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedHeader, header, err)
		}
	}

	dict.Set(key, value)
	h.Set(header, dict.Serialize())

	return nil
}
