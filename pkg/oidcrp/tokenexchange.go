package oidcrp

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// NewOAuth2Config builds a golang.org/x/oauth2 config for the Authorization
// Code grant against the provider named by meta, authenticating with the
// method the client registered with. client_secret_basic and
// client_secret_post select oauth2's AuthStyleInHeader/AuthStyleInParams;
// "none" omits client authentication by leaving ClientSecret empty.
func NewOAuth2Config(meta *ProviderMetadata, clientID, clientSecret, redirectURI string, authMethod TokenEndpointAuthMethod, scopes []string) *oauth2.Config {
	endpoint := oauth2.Endpoint{
		AuthURL:  meta.AuthorizationEndpoint,
		TokenURL: meta.TokenEndpoint,
	}

	switch authMethod {
	case AuthMethodClientSecretPost:
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	case AuthMethodNone:
		clientSecret = ""
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	default:
		endpoint.AuthStyle = oauth2.AuthStyleInHeader
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
}

// ExchangeCode trades an authorization code for tokens, returning the raw
// *oauth2.Token plus the ID Token string pulled from its "id_token" extra
// field.
func ExchangeCode(ctx context.Context, cfg *oauth2.Config, code, codeVerifier string, httpClient *http.Client) (*oauth2.Token, string, error) {
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	opts := []oauth2.AuthCodeOption{}
	if codeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}

	token, err := cfg.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, "", newRequestError(err)
	}

	idToken, _ := token.Extra("id_token").(string)
	return token, idToken, nil
}
