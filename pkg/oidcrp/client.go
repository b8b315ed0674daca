package oidcrp

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/oidcrp/oidcrp/pkg/logger"
	oidcoauth2 "github.com/oidcrp/oidcrp/pkg/oauth2"
)

// RelyingParty is the facade combining discovery, registration, the
// authorization URL builder, token exchange, and verification into the
// single object most callers construct.
type RelyingParty struct {
	Metadata *ProviderMetadata
	Client   ClientRegistrationResponse

	// CredentialsCachePath, when set, persists RegisterClient's result to
	// disk (cache.go) so a later process can reuse the registration
	// instead of re-registering on every run.
	CredentialsCachePath string

	httpClient *http.Client
	sessions   *SessionStore
	log        *logger.Log
}

// NewRelyingParty discovers issuer's provider metadata and returns a
// RelyingParty ready for registration or, if clientID/clientSecret are
// already known, for StartAuthorization/FinishAuthorization/GetUserInfo.
func NewRelyingParty(ctx context.Context, issuer string, httpClient *http.Client, log *logger.Log) (*RelyingParty, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.NewSimple("oidcrp")
	}

	meta, err := Discover(ctx, httpClient, issuer)
	if err != nil {
		return nil, err
	}

	return &RelyingParty{
		Metadata:   meta,
		httpClient: httpClient,
		sessions:   NewSessionStore(10*time.Minute, log),
		log:        log.New("oidcrp"),
	}, nil
}

// RegisterClient performs dynamic client registration against the
// discovered registration_endpoint and records the result on rp.Client.
func (rp *RelyingParty) RegisterClient(ctx context.Context, metadata ClientMetadata, initialAccessToken string) error {
	if rp.Metadata.RegistrationEndpoint == "" {
		return newValidationError("provider does not advertise a registration_endpoint")
	}

	resp, err := Register(ctx, rp.httpClient, rp.Metadata.RegistrationEndpoint, metadata, initialAccessToken)
	if err != nil {
		return err
	}

	rp.Client = *resp
	rp.log.Info("registered client", "client_id", resp.ClientID)

	if rp.CredentialsCachePath != "" {
		if err := saveCachedCredentials(rp.CredentialsCachePath, resp); err != nil {
			rp.log.Info("failed to cache registered client credentials", "error", err.Error())
		}
	}

	return nil
}

// LoadCachedClient restores a previously registered client's credentials
// from CredentialsCachePath, skipping a fresh RegisterClient call.
func (rp *RelyingParty) LoadCachedClient() error {
	if rp.CredentialsCachePath == "" {
		return newValidationError("no credentials cache path configured")
	}

	creds, err := loadCachedCredentials(rp.CredentialsCachePath)
	if err != nil {
		return newValidationError(err.Error())
	}

	rp.Client = ClientRegistrationResponse{
		ClientID:                creds.ClientID,
		ClientSecret:            creds.ClientSecret,
		RegistrationAccessToken: creds.RegistrationAccessToken,
		RegistrationClientURI:   creds.RegistrationClientURI,
		ClientSecretExpiresAt:   creds.ClientSecretExpiresAt,
	}
	return nil
}

// StartAuthorization creates a session (state/nonce/PKCE verifier) and
// returns the authorization URL the caller should redirect the user-agent
// to, plus the state value needed to retrieve the session in
// FinishAuthorization.
func (rp *RelyingParty) StartAuthorization(redirectURI string, scopes []string) (authURL, state string, err error) {
	session, err := rp.sessions.Create("", rp.Metadata.Issuer)
	if err != nil {
		return "", "", err
	}

	challenge := oidcoauth2.CreateCodeChallenge(oidcoauth2.CodeChallengeMethodS256, session.CodeVerifier)

	req := &AuthRequest{
		ResponseTypes: ResponseTypeSet{ResponseTypeCode},
		ClientID:      rp.Client.ClientID,
		RedirectURI:   redirectURI,
		Scopes:        scopes,
		State:         session.State,
		Nonce:         session.Nonce,
		CodeChallenge: challenge,
	}

	url, err := BuildAuthorizationURL(rp.Metadata.AuthorizationEndpoint, req)
	if err != nil {
		return "", "", err
	}

	return url, session.State, nil
}

// FinishAuthorization exchanges an authorization code for tokens and
// verifies the resulting ID Token, consuming the session created by
// StartAuthorization.
func (rp *RelyingParty) FinishAuthorization(ctx context.Context, state, code, redirectURI string, authMethod TokenEndpointAuthMethod) (*oauth2.Token, *IDTokenClaims, error) {
	session, err := rp.sessions.Get(state)
	if err != nil {
		return nil, nil, newValidationError(err.Error())
	}
	defer rp.sessions.Delete(state)

	cfg := NewOAuth2Config(rp.Metadata, rp.Client.ClientID, rp.Client.ClientSecret, redirectURI, authMethod, nil)

	token, idToken, err := ExchangeCode(ctx, cfg, code, session.CodeVerifier, rp.httpClient)
	if err != nil {
		return nil, nil, err
	}
	if idToken == "" {
		return nil, nil, newValidationError("token response did not include an id_token")
	}

	verifier := rp.Verifier()
	claims, err := verifier.VerifyIDToken(ctx, idToken, session.Nonce)
	if err != nil {
		return nil, nil, err
	}

	return token, claims, nil
}

// Verifier builds a Verifier scoped to this relying party's issuer, client,
// and discovered jwks_uri.
func (rp *RelyingParty) Verifier() *Verifier {
	v := NewVerifier(rp.Metadata.Issuer, rp.Client.ClientID)
	v.ClientSecret = rp.Client.ClientSecret
	v.JWKSURI = rp.Metadata.JWKSURI
	v.HTTPClient = rp.httpClient
	return v
}

// GetUserInfo fetches and verifies the UserInfo response for accessToken.
// idTokenSubject must be the Subject from the ID Token issued alongside
// accessToken; the UserInfo response is rejected with ClaimsErrorInvalidSubject
// if its own "sub" claim does not match.
func (rp *RelyingParty) GetUserInfo(ctx context.Context, accessToken, idTokenSubject string) (*UserInfoClaims, error) {
	if rp.Metadata.UserinfoEndpoint == "" {
		return nil, newValidationError("provider does not advertise a userinfo_endpoint")
	}
	return GetUserInfo(ctx, rp.httpClient, rp.Metadata.UserinfoEndpoint, accessToken, idTokenSubject, rp.Verifier())
}
