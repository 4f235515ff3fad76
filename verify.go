package httpsig

import (
	"fmt"
	"net/http"
	"time"

	"github.com/talonsec/httpsig/sfv"
)

// KeyResolver returns a Verifier for the given key ID and algorithm. It
// is called during request verification to look up the appropriate key.
// The request is provided for context (e.g. to select keys based on the
// request host or path). Resolvers should return ErrUnsupportedAlgorithm
// for algorithm identifiers they do not handle.
type KeyResolver func(r *http.Request, keyID string, alg Algorithm) (Verifier, error)

// VerifyConfig configures HTTP request signature verification per RFC
// 9421.
type VerifyConfig struct {
	// Resolver looks up a Verifier for a given key ID and algorithm.
	// Required.
	Resolver KeyResolver

	// Label identifies which signature to verify. When empty, the first
	// entry of the Signature-Input dictionary is used.
	Label string

	// RequiredComponents lists component base names that must be covered
	// by the signature. Verification fails if any is missing.
	RequiredComponents []string

	// MaxAge is the maximum acceptable age of the signature. When
	// non-zero, signatures older than MaxAge are rejected. Requires the
	// created parameter in the signature.
	MaxAge time.Duration

	// RequireDigest, when true, requires a Content-Digest header and
	// verifies it against the request body before signature verification.
	RequireDigest bool
}

// VerifyRequest verifies an HTTP request signature per RFC 9421. The
// Signature-Input entry is parsed back into SignatureParameters, the
// signature base is rebuilt from the received request, and the result is
// checked by the Verifier the resolver supplies.
func VerifyRequest(r *http.Request, cfg VerifyConfig) error {
	if cfg.Resolver == nil {
		return ErrNoResolver
	}

	if cfg.RequireDigest {
		if err := VerifyContentDigest(r); err != nil {
			return err
		}
	}

	inputHeader := r.Header.Get("Signature-Input")
	if inputHeader == "" {
		return ErrSignatureNotFound
	}

	inputDict, err := sfv.ParseDictionary(inputHeader)
	if err != nil {
		return fmt.Errorf("%w: Signature-Input: %v", ErrMalformedHeader, err)
	}

	label := cfg.Label
	if label == "" {
		keys := inputDict.Keys()
		if len(keys) == 0 {
			return ErrSignatureNotFound
		}

		label = keys[0]
	}

	params, err := SignatureParametersFromDictionary(inputDict, label)
	if err != nil {
		return err
	}

	for _, required := range cfg.RequiredComponents {
		if !params.ContainsComponent(required) {
			return fmt.Errorf("%w: %s", ErrMissingComponent, required)
		}
	}

	now := time.Now()

	if expires, ok := params.Expires(); ok && now.After(time.Unix(expires, 0)) {
		return ErrSignatureExpired
	}

	if cfg.MaxAge > 0 {
		created, ok := params.Created()
		if !ok {
			return ErrCreatedRequired
		}

		age := now.Sub(time.Unix(created, 0))
		if age < 0 || age > cfg.MaxAge {
			return ErrSignatureExpired
		}
	}

	verifier, err := cfg.Resolver(r, params.KeyID(), Algorithm(params.Alg()))
	if err != nil {
		return err
	}

	base, _, err := BuildSignatureBase(params, NewRequestProvider(r))
	if err != nil {
		return err
	}

	signature, err := extractSignature(r.Header.Get("Signature"), label)
	if err != nil {
		return err
	}

	return verifier.Verify([]byte(base), signature)
}

// extractSignature returns the signature bytes for the given label from
// the Signature dictionary header.
func extractSignature(header, label string) ([]byte, error) {
	if header == "" {
		return nil, ErrSignatureNotFound
	}

	dict, err := sfv.ParseDictionary(header)
	if err != nil {
		return nil, fmt.Errorf("%w: Signature: %v", ErrMalformedHeader, err)
	}

	member, ok := dict.Get(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSignatureNotFound, label)
	}

	seq, ok := member.(sfv.ByteSequenceItem)
	if !ok {
		return nil, fmt.Errorf("%w: signature value must be a byte sequence", ErrMalformedHeader)
	}

	return seq.Value(), nil
}
