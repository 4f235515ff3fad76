package httpsig

import "errors"

// Component resolution errors.
var (
	// ErrUnknownComponent is returned when an unrecognized derived component
	// identifier is used.
	ErrUnknownComponent = errors.New("httpsig: unknown derived component")

	// ErrInvalidComponentParameter is returned when a component identifier
	// modifier parameter is missing or of the wrong type, such as
	// @query-param without a string "name" parameter.
	ErrInvalidComponentParameter = errors.New("httpsig: invalid component identifier parameter")

	// ErrNotStructuredField is returned when a component identifier carries
	// the "sf" or "key" parameter but the field is not a structured field of
	// the expected type.
	ErrNotStructuredField = errors.New("httpsig: field is not a structured field")

	// ErrDictionaryKeyNotFound is returned when a component identifier
	// carries a "key" parameter naming an entry the dictionary field does
	// not contain.
	ErrDictionaryKeyNotFound = errors.New("httpsig: dictionary key not found")

	// ErrQueryParamNotFound is returned when @query-param names a query
	// parameter absent from the target URI.
	ErrQueryParamNotFound = errors.New("httpsig: query parameter not found")

	// ErrResponseOnlyComponent is returned when @status is resolved against
	// a request provider.
	ErrResponseOnlyComponent = errors.New("httpsig: component is only valid for responses")

	// ErrMissingComponent is returned when a covered component other than a
	// multi-valued @query-param resolves to no value, so the signature base
	// cannot be built.
	ErrMissingComponent = errors.New("httpsig: missing covered component")
)

// Signature parameter errors.
var (
	// ErrUnsupportedParameterType is returned when a custom signature
	// parameter value is not an item-representable type.
	ErrUnsupportedParameterType = errors.New("httpsig: unsupported parameter value type")

	// ErrUnsupportedAlgorithm is returned when an algorithm identifier is
	// not known to the signer or verifier dispatch.
	ErrUnsupportedAlgorithm = errors.New("httpsig: unsupported algorithm")
)

// Signing errors.
var (
	// ErrNoSigner is returned when SignConfig has no Signer configured.
	ErrNoSigner = errors.New("httpsig: signer must not be nil")
)

// Verification errors.
var (
	// ErrNoResolver is returned when VerifyConfig has no KeyResolver
	// configured.
	ErrNoResolver = errors.New("httpsig: key resolver must not be nil")

	// ErrSignatureNotFound is returned when the expected signature label is
	// not present in the Signature or Signature-Input header.
	ErrSignatureNotFound = errors.New("httpsig: signature not found")

	// ErrSignatureExpired is returned when the signature has exceeded its
	// expires parameter or maximum allowed age.
	ErrSignatureExpired = errors.New("httpsig: signature expired")

	// ErrCreatedRequired is returned when MaxAge is set but the signature
	// does not contain a created parameter.
	ErrCreatedRequired = errors.New("httpsig: created parameter required when MaxAge is set")

	// ErrMalformedHeader is returned when Signature or Signature-Input
	// headers cannot be parsed.
	ErrMalformedHeader = errors.New("httpsig: malformed signature header")
)

// Digest errors.
var (
	// ErrDigestMismatch is returned when Content-Digest verification fails.
	ErrDigestMismatch = errors.New("httpsig: content digest mismatch")

	// ErrDigestNotFound is returned when a Content-Digest header is required
	// but not present.
	ErrDigestNotFound = errors.New("httpsig: content digest not found")

	// ErrDigestRequired is returned when a required content digest could not
	// be generated, for example because the request has no body.
	ErrDigestRequired = errors.New("httpsig: required content digest could not be generated")

	// ErrUnsupportedDigest is returned when the digest algorithm is not
	// supported.
	ErrUnsupportedDigest = errors.New("httpsig: unsupported digest algorithm")
)

// Configuration errors.
var (
	// ErrInvalidFieldName is returned when a signing profile names a header
	// field that is not a valid HTTP field name.
	ErrInvalidFieldName = errors.New("httpsig: invalid header field name")
)
