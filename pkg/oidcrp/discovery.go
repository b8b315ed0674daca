package oidcrp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// wellKnownSuffix is appended to the issuer URL to build the discovery
// document location (OpenID Connect Discovery 1.0 §4).
const wellKnownSuffix = "/.well-known/openid-configuration"

// Discover fetches and validates the provider metadata document for issuer.
// It requires the metadata's own "issuer" member to exactly match issuer: a
// provider metadata that was fetched from one issuer's well-known URL but
// claims to speak for another issuer is rejected, never silently trusted.
func Discover(ctx context.Context, client *http.Client, issuer string) (*ProviderMetadata, error) {
	if client == nil {
		client = http.DefaultClient
	}

	discoveryURL := strings.TrimSuffix(issuer, "/") + wellKnownSuffix

	var raw map[string]any
	if err := httpGetJSON(ctx, client, discoveryURL, &raw); err != nil {
		return nil, err
	}

	meta, err := decodeProviderMetadata(raw)
	if err != nil {
		return nil, err
	}

	if meta.Issuer != issuer {
		return nil, newValidationError(
			"unexpected issuer URI in provider metadata, expected " + issuer + ", got " + meta.Issuer +
				" (possible OpenID Provider impersonation attack)")
	}

	return meta, nil
}

// knownProviderMetadataFields are the struct-tag JSON keys populated by
// decodeProviderMetadata; anything else goes into ExtraFields.
var knownProviderMetadataFields = map[string]bool{
	"issuer": true, "authorization_endpoint": true, "token_endpoint": true,
	"userinfo_endpoint": true, "jwks_uri": true, "registration_endpoint": true,
	"scopes_supported": true, "response_types_supported": true, "response_modes_supported": true,
	"grant_types_supported": true, "subject_types_supported": true,
	"id_token_signing_alg_values_supported": true, "userinfo_signing_alg_values_supported": true,
	"token_endpoint_auth_methods_supported": true, "claims_supported": true,
	"claim_types_supported": true, "display_values_supported": true, "acr_values_supported": true,
	"service_documentation": true, "claims_parameter_supported": true,
	"request_parameter_supported": true, "request_uri_parameter_supported": true,
	"require_request_uri_registration": true,
}

func decodeProviderMetadata(raw map[string]any) (*ProviderMetadata, error) {
	reencoded, err := json.Marshal(raw)
	if err != nil {
		return nil, newJSONError(err)
	}

	meta := &ProviderMetadata{}
	if err := json.Unmarshal(reencoded, meta); err != nil {
		return nil, newJSONError(err)
	}

	meta.ExtraFields = make(map[string]any)
	for k, v := range raw {
		if !knownProviderMetadataFields[k] {
			meta.ExtraFields[k] = v
		}
	}

	if meta.Issuer == "" {
		return nil, newValidationError("provider metadata missing required \"issuer\"")
	}
	if meta.AuthorizationEndpoint == "" {
		return nil, newValidationError("provider metadata missing required \"authorization_endpoint\"")
	}
	if len(meta.ResponseTypesSupported) == 0 {
		return nil, newValidationError("provider metadata missing required non-empty \"response_types_supported\"")
	}
	if len(meta.SubjectTypesSupported) == 0 {
		return nil, newValidationError("provider metadata missing required non-empty \"subject_types_supported\"")
	}
	if len(meta.IDTokenSigningAlgValuesSupported) == 0 {
		return nil, newValidationError("provider metadata missing required non-empty \"id_token_signing_alg_values_supported\"")
	}

	return meta, nil
}
