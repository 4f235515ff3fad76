package httpsig

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `
label: device
components:
  - "@method"
  - "@target-uri"
  - content-type
optional_headers:
  - content-length
add_created: true
expires_lifetime: 30
add_nonce: true
tag: app-v1
digest: sha-256
digest_required: true
`

func TestParseProfile(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		profile, err := ParseProfile([]byte(profileYAML))
		require.NoError(t, err)

		assert.Equal(t, "device", profile.Label)
		assert.Equal(t, []string{"@method", "@target-uri", "content-type"}, profile.Components)
		assert.Equal(t, []string{"content-length"}, profile.OptionalHeaders)
		assert.True(t, profile.AddCreated)
		assert.Equal(t, int64(30), profile.ExpiresLifetime)
		assert.True(t, profile.AddNonce)
		assert.Equal(t, "app-v1", profile.Tag)
		assert.Equal(t, "sha-256", profile.Digest)
		assert.True(t, profile.DigestRequired)
	})

	t.Run("unknown derived component", func(t *testing.T) {
		_, err := ParseProfile([]byte("components: [\"@bogus\"]"))
		assert.ErrorIs(t, err, ErrUnknownComponent)
	})

	t.Run("invalid header field name", func(t *testing.T) {
		_, err := ParseProfile([]byte(`components: ["bad header"]`))
		assert.ErrorIs(t, err, ErrInvalidFieldName)
	})

	t.Run("invalid optional header name", func(t *testing.T) {
		_, err := ParseProfile([]byte(`optional_headers: ["x y"]`))
		assert.ErrorIs(t, err, ErrInvalidFieldName)
	})

	t.Run("unsupported digest", func(t *testing.T) {
		_, err := ParseProfile([]byte("digest: md5"))
		assert.ErrorIs(t, err, ErrUnsupportedDigest)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseProfile([]byte("components: ["))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "parsing profile")
	})

	t.Run("empty profile is valid", func(t *testing.T) {
		profile, err := ParseProfile([]byte(""))
		require.NoError(t, err)
		assert.Empty(t, profile.Components)
	})
}

func TestProfileFactory(t *testing.T) {
	profile, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "https://example.com/api", strings.NewReader("payload"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Length", "7")

	params, err := profile.Factory().Build(req, testSigner{keyID: "device-key"})
	require.NoError(t, err)

	assert.True(t, params.ContainsComponent(ComponentMethod))
	assert.True(t, params.ContainsComponent(ComponentTargetURI))
	assert.True(t, params.ContainsComponent("content-type"))
	assert.True(t, params.ContainsComponent("content-length"))
	assert.True(t, params.ContainsComponent("content-digest"))

	created, ok := params.Created()
	require.True(t, ok)

	expires, ok := params.Expires()
	require.True(t, ok)
	assert.Equal(t, created+30, expires)

	assert.NotEmpty(t, params.Nonce())
	assert.Equal(t, "app-v1", params.Tag())
}

func TestProfileSignConfig(t *testing.T) {
	profile, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "https://example.com/api", strings.NewReader("payload"))
	req.Header.Set("Content-Type", "application/json")

	cfg := profile.SignConfig(testSigner{keyID: "device-key"})
	require.NoError(t, SignRequest(req, cfg))

	input := req.Header.Get("Signature-Input")
	assert.Contains(t, input, "device=(")
	assert.Contains(t, input, `tag="app-v1"`)

	err = VerifyRequest(req, VerifyConfig{
		Resolver: testResolver(t),
		Label:    "device",
	})
	assert.NoError(t, err)
}
