package oidcrp

import "time"

// ProviderMetadata is the OpenID Provider Configuration document returned by
// discovery (OpenID Connect Discovery 1.0 §3). REQUIRED fields are checked by
// decodeProviderMetadata; OPTIONAL fields are plain values, so an absent
// field decodes to its zero value and is not distinguishable from one.
type ProviderMetadata struct {
	Issuer                              string                    `json:"issuer"`
	AuthorizationEndpoint               string                    `json:"authorization_endpoint"`
	TokenEndpoint                       string                    `json:"token_endpoint,omitempty"`
	UserinfoEndpoint                    string                    `json:"userinfo_endpoint,omitempty"`
	JWKSURI                             string                    `json:"jwks_uri"`
	RegistrationEndpoint                string                    `json:"registration_endpoint,omitempty"`
	ScopesSupported                     []string                  `json:"scopes_supported,omitempty"`
	ResponseTypesSupported              []ResponseType            `json:"response_types_supported"`
	ResponseModesSupported              []string                  `json:"response_modes_supported,omitempty"`
	GrantTypesSupported                 []GrantType               `json:"grant_types_supported,omitempty"`
	SubjectTypesSupported               []SubjectType             `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported    []SigningAlgorithm        `json:"id_token_signing_alg_values_supported"`
	UserinfoSigningAlgValuesSupported   []SigningAlgorithm        `json:"userinfo_signing_alg_values_supported,omitempty"`
	TokenEndpointAuthMethodsSupported   []TokenEndpointAuthMethod `json:"token_endpoint_auth_methods_supported,omitempty"`
	ClaimsSupported                     []string                  `json:"claims_supported,omitempty"`
	ClaimTypesSupported                 []ClaimType               `json:"claim_types_supported,omitempty"`
	DisplayValuesSupported              []DisplayValue            `json:"display_values_supported,omitempty"`
	AcrValuesSupported                  []string                  `json:"acr_values_supported,omitempty"`
	ServiceDocumentation                string                    `json:"service_documentation,omitempty"`
	ClaimsParameterSupported            bool                      `json:"claims_parameter_supported,omitempty"`
	RequestParameterSupported           bool                      `json:"request_parameter_supported,omitempty"`
	RequestURIParameterSupported        bool                      `json:"request_uri_parameter_supported,omitempty"`
	RequireRequestURIRegistration       bool                      `json:"require_request_uri_registration,omitempty"`

	// ExtraFields captures any top-level JSON member this struct does not
	// name.
	ExtraFields map[string]any `json:"-"`
}

// JsonWebKey is a single entry of a JSON Web Key Set (RFC 7517 §4). Only the
// fields the key-selection algorithm and verifier need are named; the rest
// of the raw key material is kept in Raw for export via lestrrat-go/jwx.
type JsonWebKey struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`

	Raw []byte `json:"-"` // the full per-key JSON, re-parsed by jwk.ParseKey for export
}

// JsonWebKeySet is a JWKS document (RFC 7517 §5).
type JsonWebKeySet struct {
	Keys []JsonWebKey `json:"keys"`
}

// LocalizedString is a BCP-47-tagged map of values for a ClientMetadata
// field such as client_name: the zero-value key (empty LanguageTag) is the
// untagged default.
type LocalizedString map[LanguageTag]string

// LanguageTag is an RFC 5646/BCP-47 language tag, or "" for "no tag" (the
// field's base, untagged value).
type LanguageTag string

// ClientMetadata is the registration request / response body shared by
// dynamic client registration (RFC 7591) and the registered-client view of
// a provider. JSON (de)serialization for the language-tagged fields is
// handled by MarshalJSON/UnmarshalJSON in langtag.go, not struct tags.
type ClientMetadata struct {
	RedirectURIs            []string                  `json:"redirect_uris"`
	ResponseTypes           ResponseTypeSet            `json:"response_types,omitempty"`
	GrantTypes              []GrantType               `json:"grant_types,omitempty"`
	ApplicationType          ApplicationType           `json:"application_type,omitempty"`
	Contacts                []string                  `json:"contacts,omitempty"`
	TokenEndpointAuthMethod TokenEndpointAuthMethod    `json:"token_endpoint_auth_method,omitempty"`
	JWKSURI                 string                     `json:"jwks_uri,omitempty"`
	JWKS                    *JsonWebKeySet             `json:"jwks,omitempty"`
	SubjectType             SubjectType                `json:"subject_type,omitempty"`
	IDTokenSignedResponseAlg SigningAlgorithm          `json:"id_token_signed_response_alg,omitempty"`

	// Language-tagged fields: ClientName, LogoURI, ClientURI, PolicyURI and
	// TosURI. Encoded as "<field>" and "<field>#<tag>" keys on the wire by
	// langtag.go.
	ClientName map[LanguageTag]string `json:"-"`
	LogoURI    map[LanguageTag]string `json:"-"`
	ClientURI  map[LanguageTag]string `json:"-"`
	PolicyURI  map[LanguageTag]string `json:"-"`
	TosURI     map[LanguageTag]string `json:"-"`
}

// ClientRegistrationResponse is the 201 body of a dynamic registration
// request: the provider's view of the registered client plus credentials.
type ClientRegistrationResponse struct {
	ClientMetadata

	ClientID                string `json:"client_id"`
	ClientSecret             string `json:"client_secret,omitempty"`
	ClientIDIssuedAt         int64  `json:"client_id_issued_at,omitempty"`
	ClientSecretExpiresAt    int64  `json:"client_secret_expires_at"`
	RegistrationAccessToken string `json:"registration_access_token,omitempty"`
	RegistrationClientURI    string `json:"registration_client_uri,omitempty"`
}

// SecretExpired reports whether the client secret has expired as of now.
// A ClientSecretExpiresAt of 0 means "never expires" (RFC 7591 §3.2.1).
func (r *ClientRegistrationResponse) SecretExpired(now time.Time) bool {
	if r.ClientSecretExpiresAt == 0 {
		return false
	}
	return now.After(time.Unix(r.ClientSecretExpiresAt, 0))
}

// TokenResponse is the Authorization Code grant's token endpoint response
// (component G), carrying the fields oauth2.Token does not expose directly.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// IDTokenClaims is the verified, typed view of an ID Token's payload.
// Extra claims beyond the REQUIRED set are in Extra.
type IDTokenClaims struct {
	Issuer          string
	Subject         string
	Audience        []string
	ExpiresAt       time.Time
	IssuedAt        time.Time
	Nonce           string
	AuthorizedParty string
	Extra           map[string]any
}

// UserInfoClaims is the verified claim set returned by the UserInfo
// endpoint (component H). Subject is REQUIRED by Core §5.3.2; everything
// else is opaque to this library.
type UserInfoClaims struct {
	Subject string
	Extra   map[string]any
}
