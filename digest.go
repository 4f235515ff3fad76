package httpsig

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"io"
	"net/http"

	"github.com/talonsec/httpsig/sfv"
)

// DigestAlgorithm identifies the hash algorithm for Content-Digest per
// RFC 9530.
type DigestAlgorithm string

const (
	// DigestSHA256 uses SHA-256 for content digest.
	DigestSHA256 DigestAlgorithm = "sha-256"

	// DigestSHA512 uses SHA-512 for content digest.
	DigestSHA512 DigestAlgorithm = "sha-512"
)

// SetContentDigest reads the request body, computes the digest using the
// specified algorithm, sets the Content-Digest header per RFC 9530, and
// replaces the body so it can be read again. The header value is an RFC
// 8941 dictionary with one byte-sequence entry.
func SetContentDigest(r *http.Request, alg DigestAlgorithm) error {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return err
	}

	digest, err := computeDigest(body, alg)
	if err != nil {
		return err
	}

	header := sfv.NewDictionary().Set(string(alg), sfv.NewByteSequence(digest))
	r.Header.Set("Content-Digest", header.Serialize())

	return nil
}

// VerifyContentDigest verifies the Content-Digest header against the
// request body per RFC 9530. The header may carry multiple digest
// entries; every entry with a recognized algorithm is verified and all
// of them must match. Entries with unrecognized algorithms are ignored,
// but at least one recognized entry must be present.
func VerifyContentDigest(r *http.Request) error {
	header := r.Header.Get("Content-Digest")
	if header == "" {
		return ErrDigestNotFound
	}

	dict, err := sfv.ParseDictionary(header)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	body, err := readAndRestoreBody(r)
	if err != nil {
		return err
	}

	verified := false

	for _, key := range dict.Keys() {
		alg := DigestAlgorithm(key)
		if alg != DigestSHA256 && alg != DigestSHA512 {
			continue
		}

		member, _ := dict.Get(key)

		seq, ok := member.(sfv.ByteSequenceItem)
		if !ok {
			return fmt.Errorf("%w: digest value must be a byte sequence", ErrMalformedHeader)
		}

		expected, err := computeDigest(body, alg)
		if err != nil {
			return err
		}

		if !bytes.Equal(expected, seq.Value()) {
			return ErrDigestMismatch
		}

		verified = true
	}

	if !verified {
		return ErrUnsupportedDigest
	}

	return nil
}

// computeDigest computes the hash of data using the specified algorithm.
func computeDigest(data []byte, alg DigestAlgorithm) ([]byte, error) {
	switch alg {
	case DigestSHA256:
		h := sha256.Sum256(data)
		return h[:], nil
	case DigestSHA512:
		h := sha512.Sum512(data)
		return h[:], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDigest, alg)
	}
}

// readAndRestoreBody reads the entire request body and replaces it with a
// new reader so the body can be consumed again by downstream handlers.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
