package httpsig

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
	"gopkg.in/yaml.v3"
)

// Profile is a declarative signing profile, typically loaded from YAML
// configuration. It describes which components a signature covers and how
// the per-request parameters are stamped:
//
//	label: device
//	components:
//	  - "@method"
//	  - "@target-uri"
//	optional_headers:
//	  - content-type
//	  - content-length
//	add_created: true
//	expires_lifetime: 5
//	digest: sha-256
type Profile struct {
	// Label identifies the signature in the Signature and Signature-Input
	// dictionaries.
	Label string `yaml:"label"`

	// Components are the covered component names: derived names starting
	// with "@" or header field names.
	Components []string `yaml:"components"`

	// OptionalHeaders are covered only when present on the request.
	OptionalHeaders []string `yaml:"optional_headers"`

	// AddCreated stamps the created parameter on every signature.
	AddCreated bool `yaml:"add_created"`

	// ExpiresLifetime sets the expires parameter to created plus this many
	// seconds. Zero disables expires.
	ExpiresLifetime int64 `yaml:"expires_lifetime"`

	// AddNonce stamps a fresh random nonce on every signature.
	AddNonce bool `yaml:"add_nonce"`

	// Tag is an application tag added to every signature.
	Tag string `yaml:"tag"`

	// Digest names the Content-Digest algorithm (sha-256 or sha-512).
	// Empty disables digest generation.
	Digest string `yaml:"digest"`

	// DigestRequired fails signing when the digest cannot be generated.
	DigestRequired bool `yaml:"digest_required"`
}

// derivedComponents is the fixed vocabulary of RFC 9421 Section 2.2.
var derivedComponents = map[string]bool{
	ComponentMethod:        true,
	ComponentAuthority:     true,
	ComponentScheme:        true,
	ComponentTargetURI:     true,
	ComponentRequestTarget: true,
	ComponentPath:          true,
	ComponentQuery:         true,
	ComponentQueryParam:    true,
	ComponentStatus:        true,
}

// ParseProfile parses and validates a YAML signing profile.
func ParseProfile(data []byte) (*Profile, error) {
	var profile Profile

	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("httpsig: parsing profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Validate checks the profile's component names, header names, and digest
// algorithm.
func (p *Profile) Validate() error {
	for _, name := range p.Components {
		if strings.HasPrefix(name, "@") {
			if !derivedComponents[name] {
				return fmt.Errorf("%w: %s", ErrUnknownComponent, name)
			}

			continue
		}

		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
		}
	}

	for _, name := range p.OptionalHeaders {
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
		}
	}

	switch DigestAlgorithm(p.Digest) {
	case "", DigestSHA256, DigestSHA512:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDigest, p.Digest)
	}

	return nil
}

// Factory builds the parameter factory described by the profile.
func (p *Profile) Factory() *Factory {
	base := NewSignatureParameters()
	for _, name := range p.Components {
		base.AddComponent(name)
	}

	factory := NewFactory(base).
		SetAddCreated(p.AddCreated).
		SetExpiresLifetime(time.Duration(p.ExpiresLifetime) * time.Second).
		SetAddNonce(p.AddNonce).
		SetTag(p.Tag).
		SetDigest(DigestAlgorithm(p.Digest), p.DigestRequired)

	if len(p.OptionalHeaders) > 0 {
		factory.AddOptionalHeaders(p.OptionalHeaders...)
	}

	return factory
}

// SignConfig builds the signing configuration described by the profile.
func (p *Profile) SignConfig(signer Signer) SignConfig {
	return SignConfig{
		Signer:  signer,
		Label:   p.Label,
		Factory: p.Factory(),
	}
}
