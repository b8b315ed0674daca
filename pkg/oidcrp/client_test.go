package oidcrp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProvider wires up an httptest.Server that answers discovery,
// registration, token and userinfo requests for one signing key.
type testProvider struct {
	srv   *httptest.Server
	key   testKeyPair
	nonce string // set by the test after StartAuthorization, echoed into the minted ID Token
}

func newTestProvider(t *testing.T) *testProvider {
	t.Helper()
	tp := &testProvider{key: generateTestRSAKeyPair(t, "key-1")}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                tp.srv.URL,
			"authorization_endpoint":                tp.srv.URL + "/authorize",
			"token_endpoint":                        tp.srv.URL + "/token",
			"userinfo_endpoint":                     tp.srv.URL + "/userinfo",
			"jwks_uri":                              tp.srv.URL + "/jwks",
			"registration_endpoint":                 tp.srv.URL + "/register",
			"response_types_supported":              []string{"code"},
			"subject_types_supported":               []string{"public"},
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(buildJWKSDocument(t, tp.key))
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		var metadata ClientMetadata
		require.NoError(t, json.NewDecoder(r.Body).Decode(&metadata))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ClientRegistrationResponse{
			ClientMetadata: metadata,
			ClientID:       "registered-client",
			ClientSecret:   "registered-secret",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		idToken := signTestIDToken(t, jwt.SigningMethodRS256, tp.key.private, "key-1", jwt.MapClaims{
			"iss":   tp.srv.URL,
			"nonce": tp.nonce,
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-token-xyz",
			"token_type":   "Bearer",
			"id_token":     idToken,
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token-xyz", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"sub": "subject-1", "email": "user@example.com"})
	})

	tp.srv = httptest.NewServer(mux)
	return tp
}

func TestRelyingParty_DiscoverAndRegister(t *testing.T) {
	tp := newTestProvider(t)
	defer tp.srv.Close()

	rp, err := NewRelyingParty(context.Background(), tp.srv.URL, tp.srv.Client(), nil)
	require.NoError(t, err)
	assert.Equal(t, tp.srv.URL, rp.Metadata.Issuer)

	err = rp.RegisterClient(context.Background(), ClientMetadata{
		RedirectURIs: []string{"https://client.example.com/cb"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "registered-client", rp.Client.ClientID)
	assert.Equal(t, "registered-secret", rp.Client.ClientSecret)
}

func TestRelyingParty_CredentialsCacheRoundTrip(t *testing.T) {
	tp := newTestProvider(t)
	defer tp.srv.Close()

	cachePath := filepath.Join(t.TempDir(), "credentials.json")

	rp, err := NewRelyingParty(context.Background(), tp.srv.URL, tp.srv.Client(), nil)
	require.NoError(t, err)
	rp.CredentialsCachePath = cachePath

	require.NoError(t, rp.RegisterClient(context.Background(), ClientMetadata{
		RedirectURIs: []string{"https://client.example.com/cb"},
	}, ""))
	_, err = os.Stat(cachePath)
	require.NoError(t, err)

	restored, err := NewRelyingParty(context.Background(), tp.srv.URL, tp.srv.Client(), nil)
	require.NoError(t, err)
	restored.CredentialsCachePath = cachePath
	require.NoError(t, restored.LoadCachedClient())
	assert.Equal(t, rp.Client.ClientID, restored.Client.ClientID)
	assert.Equal(t, rp.Client.ClientSecret, restored.Client.ClientSecret)
}

func TestRelyingParty_StartAuthorizationBuildsURL(t *testing.T) {
	tp := newTestProvider(t)
	defer tp.srv.Close()

	rp, err := NewRelyingParty(context.Background(), tp.srv.URL, tp.srv.Client(), nil)
	require.NoError(t, err)
	rp.Client.ClientID = "client-1"

	authURL, state, err := rp.StartAuthorization("https://client.example.com/cb", []string{"profile"})
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.Contains(t, authURL, tp.srv.URL+"/authorize")
	assert.Contains(t, authURL, "state="+state)
}

func TestRelyingParty_FinishAuthorizationVerifiesIDToken(t *testing.T) {
	tp := newTestProvider(t)
	defer tp.srv.Close()

	rp, err := NewRelyingParty(context.Background(), tp.srv.URL, tp.srv.Client(), nil)
	require.NoError(t, err)
	rp.Client.ClientID = "test-client"

	_, state, err := rp.StartAuthorization("https://client.example.com/cb", nil)
	require.NoError(t, err)

	session, err := rp.sessions.Get(state)
	require.NoError(t, err)
	tp.nonce = session.Nonce

	_, claims, err := rp.FinishAuthorization(context.Background(), state, "auth-code", "https://client.example.com/cb", AuthMethodClientSecretBasic)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.Subject)
}

func TestRelyingParty_GetUserInfo(t *testing.T) {
	tp := newTestProvider(t)
	defer tp.srv.Close()

	rp, err := NewRelyingParty(context.Background(), tp.srv.URL, tp.srv.Client(), nil)
	require.NoError(t, err)
	rp.Client.ClientID = "test-client"

	claims, err := rp.GetUserInfo(context.Background(), "access-token-xyz", "subject-1")
	require.NoError(t, err)
	assert.Equal(t, "subject-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Extra["email"])
}
