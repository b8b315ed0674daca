package oidcrp

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/oidcrp/oidcrp/pkg/jose"
)

// testKeyPair bundles an RSA key with the wire JWKS entry for its public half.
type testKeyPair struct {
	private *rsa.PrivateKey
	kid     string
	jwk     json.RawMessage
}

func generateTestRSAKeyPair(t *testing.T, kid string) testKeyPair {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwk, err := jose.PublicJWK(&key.PublicKey, kid, "sig", "RS256")
	require.NoError(t, err)

	return testKeyPair{private: key, kid: kid, jwk: jwk}
}

func buildJWKSDocument(t *testing.T, pairs ...testKeyPair) []byte {
	t.Helper()
	keys := make([]json.RawMessage, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, p.jwk)
	}
	doc, err := json.Marshal(map[string]any{"keys": keys})
	require.NoError(t, err)
	return doc
}

func parseJWKSDocument(t *testing.T, doc []byte) *JsonWebKeySet {
	t.Helper()
	var raw struct {
		Keys []rawJWK `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(doc, &raw))
	set := &JsonWebKeySet{}
	for _, k := range raw.Keys {
		set.Keys = append(set.Keys, k.toJsonWebKey())
	}
	return set
}

// signTestIDToken builds and signs an ID Token with the given claims,
// defaulting iss/aud/exp/iat/sub when not already present in extraClaims.
func signTestIDToken(t *testing.T, method jwt.SigningMethod, key any, kid string, extraClaims jwt.MapClaims) string {
	t.Helper()

	claims := jwt.MapClaims{
		"iss": "https://idp.example.com",
		"aud": "test-client",
		"sub": "subject-1",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	for k, v := range extraClaims {
		claims[k] = v
	}

	header := jwt.MapClaims{}
	if kid != "" {
		header["kid"] = kid
	}

	token, err := jose.MakeJWT(header, claims, method, key)
	require.NoError(t, err)
	return token
}
