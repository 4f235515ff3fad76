package httpsig

import "net/http"

// Transport is an http.RoundTripper that signs every outgoing request
// before delegating to a base transport. Each request is signed the way
// SignRequest signs it: the SignConfig's Factory produces the
// per-request parameters (created, expires, nonce, content digest) and
// the result is written to the Signature and Signature-Input
// dictionaries under the SignConfig's Label.
type Transport struct {
	base   http.RoundTripper
	config SignConfig
}

// NewTransport creates a signing Transport that delegates to base. It
// returns ErrNoSigner when cfg.Signer is nil, so a misconfigured client
// fails at construction rather than on the first request.
//
// When base is nil, a clone of http.DefaultTransport is used, giving an
// independent connection pool with default proxy, TLS, and timeout
// settings. Pass a configured *http.Transport for custom behavior:
//
//	base := &http.Transport{
//	    Proxy:           http.ProxyFromEnvironment,
//	    TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS13},
//	    IdleConnTimeout: 90 * time.Second,
//	}
//	transport, err := httpsig.NewTransport(base, httpsig.SignConfig{Signer: signer})
func NewTransport(base *http.Transport, cfg SignConfig) (*Transport, error) {
	if cfg.Signer == nil {
		return nil, ErrNoSigner
	}

	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:   rt,
		config: cfg,
	}, nil
}

// RoundTrip signs a clone of the request and forwards the clone, so the
// caller's request never gains signature headers. When GetBody is
// available the clone receives a fresh body copy, letting the Factory's
// digest generation read the body without consuming the one the base
// transport sends.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	if err := SignRequest(clone, t.config); err != nil {
		return nil, err
	}

	return t.base.RoundTrip(clone)
}
