package oidcrp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthorizationURL_PrependsOpenIDScope(t *testing.T) {
	req := &AuthRequest{
		ResponseTypes: ResponseTypeSet{ResponseTypeCode},
		ClientID:      "client-1",
		RedirectURI:   "https://client.example.com/cb",
		Scopes:        []string{"profile", "email"},
		State:         "fixed-state",
		Nonce:         "fixed-nonce",
	}

	raw, err := BuildAuthorizationURL("https://idp.example.com/authorize", req)
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "fixed-state", q.Get("state"))
	assert.Equal(t, "fixed-nonce", q.Get("nonce"))
}

func TestBuildAuthorizationURL_DoesNotDuplicateOpenIDScope(t *testing.T) {
	req := &AuthRequest{
		ResponseTypes: ResponseTypeSet{ResponseTypeCode},
		ClientID:      "client-1",
		RedirectURI:   "https://client.example.com/cb",
		Scopes:        []string{"openid", "profile"},
		State:         "s",
		Nonce:         "n",
	}

	raw, err := BuildAuthorizationURL("https://idp.example.com/authorize", req)
	require.NoError(t, err)
	parsed, _ := url.Parse(raw)
	assert.Equal(t, "openid profile", parsed.Query().Get("scope"))
}

func TestBuildAuthorizationURL_GeneratesStateAndNonceWhenEmpty(t *testing.T) {
	req := &AuthRequest{
		ResponseTypes: ResponseTypeSet{ResponseTypeCode},
		ClientID:      "client-1",
		RedirectURI:   "https://client.example.com/cb",
	}

	raw, err := BuildAuthorizationURL("https://idp.example.com/authorize", req)
	require.NoError(t, err)
	parsed, _ := url.Parse(raw)
	assert.NotEmpty(t, parsed.Query().Get("state"))
	assert.NotEmpty(t, parsed.Query().Get("nonce"))
}

func TestBuildAuthorizationURL_PKCEChallenge(t *testing.T) {
	req := &AuthRequest{
		ResponseTypes: ResponseTypeSet{ResponseTypeCode},
		ClientID:      "client-1",
		RedirectURI:   "https://client.example.com/cb",
		State:         "s",
		Nonce:         "n",
		CodeChallenge: "abc123",
	}

	raw, err := BuildAuthorizationURL("https://idp.example.com/authorize", req)
	require.NoError(t, err)
	parsed, _ := url.Parse(raw)
	assert.Equal(t, "abc123", parsed.Query().Get("code_challenge"))
	assert.Equal(t, "S256", parsed.Query().Get("code_challenge_method"))
}

func TestBuildAuthorizationURL_PreservesExistingQueryParams(t *testing.T) {
	req := &AuthRequest{
		ResponseTypes: ResponseTypeSet{ResponseTypeCode},
		ClientID:      "client-1",
		RedirectURI:   "https://client.example.com/cb",
		State:         "s",
		Nonce:         "n",
	}

	raw, err := BuildAuthorizationURL("https://idp.example.com/authorize?tenant=acme", req)
	require.NoError(t, err)
	parsed, _ := url.Parse(raw)
	assert.Equal(t, "acme", parsed.Query().Get("tenant"))
}

func TestBuildAuthorizationURL_InvalidEndpoint(t *testing.T) {
	req := &AuthRequest{ResponseTypes: ResponseTypeSet{ResponseTypeCode}}
	_, err := BuildAuthorizationURL("://not-a-url", req)
	require.Error(t, err)
	var dErr *DiscoveryError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, DiscoveryErrorUrlParse, dErr.Kind)
}
