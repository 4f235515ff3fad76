package httpsig

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateNonce returns a random nonce suitable for the nonce signature
// parameter.
func GenerateNonce() string {
	return uuid.NewString()
}

// Factory produces per-request SignatureParameters from a shared base
// template. The template is defensively copied for every request, so a
// single Factory is safe for concurrent use while the produced parameters
// are not.
type Factory struct {
	base            *SignatureParameters
	addCreated      bool
	expiresLifetime time.Duration
	addNonce        bool
	tag             string
	optionalHeaders []string
	digestAlgorithm DigestAlgorithm
	digestRequired  bool
}

// NewFactory creates a factory around the given base parameters. A nil
// base yields empty per-request parameters.
func NewFactory(base *SignatureParameters) *Factory {
	return &Factory{base: base}
}

// DefaultFactory returns a factory covering @method and @target-uri,
// stamping created and a five second expiry, covering Content-Length and
// Content-Type when present, and adding a SHA-256 content digest for
// requests with a body.
func DefaultFactory() *Factory {
	base := NewSignatureParameters().
		AddComponent(ComponentMethod).
		AddComponent(ComponentTargetURI)

	return NewFactory(base).
		SetAddCreated(true).
		SetExpiresLifetime(5 * time.Second).
		AddOptionalHeaders("Content-Length", "Content-Type").
		SetDigest(DigestSHA256, false)
}

// SetAddCreated controls whether produced parameters carry a created
// timestamp.
func (f *Factory) SetAddCreated(add bool) *Factory {
	f.addCreated = add
	return f
}

// SetExpiresLifetime sets the expires parameter to the creation time plus
// the given lifetime. A zero lifetime disables expires.
func (f *Factory) SetExpiresLifetime(lifetime time.Duration) *Factory {
	f.expiresLifetime = lifetime
	return f
}

// SetAddNonce controls whether produced parameters carry a fresh random
// nonce.
func (f *Factory) SetAddNonce(add bool) *Factory {
	f.addNonce = add
	return f
}

// SetTag sets an application tag added to every produced parameter set.
func (f *Factory) SetTag(tag string) *Factory {
	f.tag = tag
	return f
}

// AddOptionalHeaders appends header fields that are covered only when
// present on the request.
func (f *Factory) AddOptionalHeaders(headers ...string) *Factory {
	f.optionalHeaders = append(f.optionalHeaders, headers...)
	return f
}

// SetDigest configures Content-Digest generation. When alg is non-empty,
// Build computes the digest of the request body, sets the Content-Digest
// header, and covers it. When required is true, a request whose digest
// cannot be generated (no body) fails with ErrDigestRequired.
func (f *Factory) SetDigest(alg DigestAlgorithm, required bool) *Factory {
	f.digestAlgorithm = alg
	f.digestRequired = required && alg != ""

	return f
}

// Build produces the SignatureParameters for one request. It copies the
// base template, stamps algorithm and key metadata from the signer, adds
// timestamps, nonce and tag per the factory configuration, covers the
// optional headers present on the request, and generates the content
// digest when configured. Build may set the Content-Digest header on r.
func (f *Factory) Build(r *http.Request, signer Signer) (*SignatureParameters, error) {
	params := NewSignatureParametersFrom(f.base)

	params.SetAlg(signer.Algorithm().String())
	if keyID := signer.KeyID(); keyID != "" {
		params.SetKeyID(keyID)
	}

	if f.addCreated || f.expiresLifetime > 0 {
		now := time.Now().Unix()

		if f.addCreated {
			params.SetCreated(now)
		}

		if f.expiresLifetime > 0 {
			params.SetExpires(now + int64(f.expiresLifetime/time.Second))
		}
	}

	if f.addNonce {
		params.SetNonce(GenerateNonce())
	}

	if f.tag != "" {
		params.SetTag(f.tag)
	}

	for _, header := range f.optionalHeaders {
		if len(r.Header.Values(header)) > 0 {
			params.AddComponent(header)
		}
	}

	if f.digestAlgorithm != "" {
		if err := f.generateDigest(r, params); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// generateDigest adds a Content-Digest header and covers it. Requests
// without a usable body are skipped unless the digest is required.
func (f *Factory) generateDigest(r *http.Request, params *SignatureParameters) error {
	if r.Body == nil || r.ContentLength == 0 {
		if f.digestRequired {
			return ErrDigestRequired
		}

		return nil
	}

	if err := SetContentDigest(r, f.digestAlgorithm); err != nil {
		return err
	}

	params.AddComponent("Content-Digest")

	return nil
}
