// Package httpsig implements HTTP Message Signatures per RFC 9421 with
// optional Content-Digest support per RFC 9530.
//
// The package is organized around the signature base, the canonical byte
// string both signing and verification operate on. SignatureParameters
// describes which message components a signature covers and carries the
// signature metadata (created, expires, keyid, alg, nonce, tag), a
// ComponentProvider resolves component values from a concrete request or
// response, and BuildSignatureBase combines the two.
//
// # Signing Requests
//
// Use SignRequest to add Signature and Signature-Input headers to an HTTP
// request:
//
//	err := httpsig.SignRequest(req, httpsig.SignConfig{
//	    Signer: signer,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The covered components and parameter stamping are controlled by a
// Factory. The default factory covers @method and @target-uri, stamps
// created plus a five second expiry, covers Content-Length and
// Content-Type when present, and adds a SHA-256 Content-Digest for
// requests with a body. Build a custom one for different coverage:
//
//	base := httpsig.NewSignatureParameters().
//	    AddComponent("@method").
//	    AddComponent("@authority").
//	    AddComponent("@path")
//
//	factory := httpsig.NewFactory(base).
//	    SetAddCreated(true).
//	    SetAddNonce(true).
//	    SetTag("app-v1")
//
//	err := httpsig.SignRequest(req, httpsig.SignConfig{
//	    Signer:  signer,
//	    Factory: factory,
//	})
//
// Factories can also be loaded from YAML with ParseProfile.
//
// # Verifying Requests
//
// Use VerifyRequest to verify the signature on an incoming request:
//
//	resolver := func(r *http.Request, keyID string, alg httpsig.Algorithm) (httpsig.Verifier, error) {
//	    // Look up the verifier for the given key ID and algorithm.
//	    return verifier, nil
//	}
//
//	err := httpsig.VerifyRequest(req, httpsig.VerifyConfig{
//	    Resolver:           resolver,
//	    RequiredComponents: []string{httpsig.ComponentMethod, httpsig.ComponentAuthority},
//	    MaxAge:             5 * time.Minute,
//	})
//
// # Client Transport
//
// NewTransport creates an http.RoundTripper that automatically signs all
// outgoing requests. Pass an *http.Transport to configure proxy, TLS, and
// timeout settings. Pass nil for sensible defaults:
//
//	transport, err := httpsig.NewTransport(nil, httpsig.SignConfig{
//	    Signer: signer,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := &http.Client{Transport: transport}
//	resp, err := client.Get("https://api.example.com/resource")
//
// # Server Middleware
//
// Middleware returns a net/http middleware that verifies signatures on
// incoming requests:
//
//	mw, err := httpsig.Middleware(httpsig.MiddlewareConfig{
//	    Verify: httpsig.VerifyConfig{
//	        Resolver: resolver,
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = mw(handler)
//
// # Content-Digest
//
// Optional Content-Digest support (RFC 9530) can be used standalone or
// through a Factory:
//
//	// Standalone usage:
//	err := httpsig.SetContentDigest(req, httpsig.DigestSHA256)
//
//	// Through a factory (adds Content-Digest and covers it
//	// automatically):
//	factory := httpsig.NewFactory(base).SetDigest(httpsig.DigestSHA256, false)
package httpsig
