package oidcrp

import (
	"context"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectKey_ExactKidMatch(t *testing.T) {
	key1 := generateTestRSAKeyPair(t, "key-1")
	key2 := generateTestRSAKeyPair(t, "key-2")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key1, key2))

	got, err := SelectKey(jwks, "RSA", "key-2")
	require.NoError(t, err)
	assert.Equal(t, "key-2", got.Kid)
}

func TestSelectKey_KidNotFound(t *testing.T) {
	key1 := generateTestRSAKeyPair(t, "key-1")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key1))

	_, err := SelectKey(jwks, "RSA", "nonexistent")
	require.Error(t, err)
	var cErr *ClaimsVerificationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ClaimsErrorSignatureNoMatchingKey, cErr.Kind)
}

func TestSelectKey_NoKidSingleCandidate(t *testing.T) {
	key1 := generateTestRSAKeyPair(t, "key-1")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key1))

	got, err := SelectKey(jwks, "RSA", "")
	require.NoError(t, err)
	assert.Equal(t, "key-1", got.Kid)
}

func TestSelectKey_NoKidMultipleCandidatesAmbiguous(t *testing.T) {
	key1 := generateTestRSAKeyPair(t, "key-1")
	key2 := generateTestRSAKeyPair(t, "key-2")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key1, key2))

	_, err := SelectKey(jwks, "RSA", "")
	require.Error(t, err)
	var cErr *ClaimsVerificationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ClaimsErrorSignatureAmbiguousKeyID, cErr.Kind)
}

func TestSelectKey_NoCandidatesWrongKty(t *testing.T) {
	key1 := generateTestRSAKeyPair(t, "key-1")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key1))

	_, err := SelectKey(jwks, "EC", "")
	require.Error(t, err)
	var cErr *ClaimsVerificationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ClaimsErrorSignatureNoMatchingKey, cErr.Kind)
}

func TestSelectKey_SkipsEncryptionKeys(t *testing.T) {
	key1 := generateTestRSAKeyPair(t, "key-1")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key1))
	jwks.Keys[0].Use = "enc"

	_, err := SelectKey(jwks, "RSA", "")
	require.Error(t, err)
	var cErr *ClaimsVerificationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ClaimsErrorSignatureNoMatchingKey, cErr.Kind)
}

func TestExportPublicKey_RoundTrip(t *testing.T) {
	key := generateTestRSAKeyPair(t, "key-1")
	jwks := parseJWKSDocument(t, buildJWKSDocument(t, key))

	selected, err := SelectKey(jwks, "RSA", "key-1")
	require.NoError(t, err)

	pub, err := ExportPublicKey(selected)
	require.NoError(t, err)

	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, key.private.PublicKey.N, rsaPub.N)
	assert.Equal(t, key.private.PublicKey.E, rsaPub.E)
}

func TestFetchJWKS_HTTP(t *testing.T) {
	key := generateTestRSAKeyPair(t, "key-1")
	doc := buildJWKSDocument(t, key)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc)
	}))
	defer srv.Close()

	set, err := FetchJWKS(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Len(t, set.Keys, 1)
	assert.Equal(t, "key-1", set.Keys[0].Kid)
	assert.Equal(t, "RSA", set.Keys[0].Kty)
}
