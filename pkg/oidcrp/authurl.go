package oidcrp

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	oidcoauth2 "github.com/oidcrp/oidcrp/pkg/oauth2"
)

// AuthRequest describes an authorization request to be rendered into a URL
// by BuildAuthorizationURL. State and Nonce are generated with google/uuid
// when left empty; a caller that needs a known value sets it explicitly
// beforehand.
type AuthRequest struct {
	ResponseTypes ResponseTypeSet
	ClientID      string
	RedirectURI   string
	Scopes        []string
	State         string
	Nonce         string
	Display       DisplayValue
	Prompt        []string
	CodeChallenge string
	CodeChallengeMethod string
}

// BuildAuthorizationURL renders req into a full authorization request URL
// against authEndpoint, generating state/nonce via google/uuid when unset
// and prepending the "openid" scope when the caller omitted it.
func BuildAuthorizationURL(authEndpoint string, req *AuthRequest) (string, error) {
	base, err := url.Parse(authEndpoint)
	if err != nil {
		return "", newURLParseError(err)
	}

	if req.State == "" {
		req.State = uuid.NewString()
	}
	if req.Nonce == "" {
		req.Nonce = uuid.NewString()
	}

	scopes := req.Scopes
	if !containsScope(scopes, "openid") {
		scopes = append([]string{"openid"}, scopes...)
	}

	responseTypeStrs := make([]string, 0, len(req.ResponseTypes))
	for _, rt := range req.ResponseTypes {
		responseTypeStrs = append(responseTypeStrs, string(rt))
	}

	q := base.Query()
	q.Set("response_type", strings.Join(responseTypeStrs, " "))
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", req.RedirectURI)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("state", req.State)
	q.Set("nonce", req.Nonce)
	if req.Display != "" {
		q.Set("display", string(req.Display))
	}
	if len(req.Prompt) > 0 {
		q.Set("prompt", strings.Join(req.Prompt, " "))
	}
	if req.CodeChallenge != "" {
		q.Set("code_challenge", req.CodeChallenge)
		method := req.CodeChallengeMethod
		if method == "" {
			method = oidcoauth2.CodeChallengeMethodS256
		}
		q.Set("code_challenge_method", method)
	}
	base.RawQuery = q.Encode()

	return base.String(), nil
}

func containsScope(scopes []string, want string) bool {
	for _, s := range scopes {
		if s == want {
			return true
		}
	}
	return false
}
