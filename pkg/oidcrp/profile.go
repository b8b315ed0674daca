package oidcrp

import (
	"github.com/golang-jwt/jwt/v5"
)

// ResponseType is an OAuth2/OIDC response_type value ("code", "id_token", ...).
type ResponseType string

const (
	ResponseTypeCode          ResponseType = "code"
	ResponseTypeIDToken       ResponseType = "id_token"
	ResponseTypeToken         ResponseType = "token"
	ResponseTypeCodeIDToken   ResponseType = "code id_token"
	ResponseTypeCodeToken     ResponseType = "code token"
	ResponseTypeTokenIDToken  ResponseType = "token id_token"
)

// ResponseTypeSet is an ordered, space-joined set of ResponseType values as
// they appear on the wire in response_types_supported / the authorization
// request's response_type parameter.
type ResponseTypeSet []ResponseType

// GrantType is an OAuth2 grant_type value.
type GrantType string

const (
	GrantTypeAuthorizationCode GrantType = "authorization_code"
	GrantTypeImplicit          GrantType = "implicit"
	GrantTypeRefreshToken      GrantType = "refresh_token"
	GrantTypeClientCredentials GrantType = "client_credentials"
)

// SubjectType is a subject_types_supported value.
type SubjectType string

const (
	SubjectTypePublic   SubjectType = "public"
	SubjectTypePairwise SubjectType = "pairwise"
)

// ClaimType is a claim_types_supported value.
type ClaimType string

const (
	ClaimTypeNormal      ClaimType = "normal"
	ClaimTypeAggregated  ClaimType = "aggregated"
	ClaimTypeDistributed ClaimType = "distributed"
)

// DisplayValue is a display query parameter / display_values_supported value.
type DisplayValue string

const (
	DisplayPage  DisplayValue = "page"
	DisplayPopup DisplayValue = "popup"
	DisplayTouch DisplayValue = "touch"
	DisplayWAP   DisplayValue = "wap"
)

// ApplicationType is an application_type registration metadata value.
type ApplicationType string

const (
	ApplicationTypeWeb    ApplicationType = "web"
	ApplicationTypeNative ApplicationType = "native"
)

// TokenEndpointAuthMethod is a token_endpoint_auth_methods_supported /
// token_endpoint_auth_method value.
type TokenEndpointAuthMethod string

const (
	AuthMethodClientSecretBasic TokenEndpointAuthMethod = "client_secret_basic"
	AuthMethodClientSecretPost  TokenEndpointAuthMethod = "client_secret_post"
	AuthMethodClientSecretJWT   TokenEndpointAuthMethod = "client_secret_jwt"
	AuthMethodPrivateKeyJWT     TokenEndpointAuthMethod = "private_key_jwt"
	AuthMethodNone              TokenEndpointAuthMethod = "none"
)

// SigningAlgorithm identifies a JWS algorithm, e.g. "RS256". "none" is a
// valid wire value (used to test alg=none rejection) but is never an entry
// of CoreProfile's algorithm table, since it has no signature to verify.
type SigningAlgorithm string

const (
	AlgRS256 SigningAlgorithm = "RS256"
	AlgRS384 SigningAlgorithm = "RS384"
	AlgRS512 SigningAlgorithm = "RS512"
	AlgPS256 SigningAlgorithm = "PS256"
	AlgPS384 SigningAlgorithm = "PS384"
	AlgPS512 SigningAlgorithm = "PS512"
	AlgES256 SigningAlgorithm = "ES256"
	AlgES384 SigningAlgorithm = "ES384"
	AlgES512 SigningAlgorithm = "ES512"
	AlgHS256 SigningAlgorithm = "HS256"
	AlgHS384 SigningAlgorithm = "HS384"
	AlgHS512 SigningAlgorithm = "HS512"
	AlgNone  SigningAlgorithm = "none"
)

// algSpec binds a SigningAlgorithm to the golang-jwt SigningMethod that
// verifies it and the JWK "kty" it requires a key of.
type algSpec struct {
	method      jwt.SigningMethod
	keyType     string
	needsHMAC   bool
	description string
}

// CoreProfile bundles the enumeration catalogue of supported signing
// algorithms together with the key-shape metadata each one needs, so the
// rest of the package never assumes algorithm-set membership on its own.
type CoreProfile struct {
	algorithms map[SigningAlgorithm]algSpec
}

// NewCoreProfile builds the default profile covering every algorithm the
// Core/JWS specs name. Callers never construct algSpec directly; they
// restrict or extend what a Verifier accepts via Verifier.AllowedAlgs
// (see verifier.go), which is checked against this profile's registry.
func NewCoreProfile() *CoreProfile {
	return &CoreProfile{
		algorithms: map[SigningAlgorithm]algSpec{
			AlgRS256: {method: jwt.SigningMethodRS256, keyType: "RSA", description: "RSASSA-PKCS1-v1_5 using SHA-256"},
			AlgRS384: {method: jwt.SigningMethodRS384, keyType: "RSA", description: "RSASSA-PKCS1-v1_5 using SHA-384"},
			AlgRS512: {method: jwt.SigningMethodRS512, keyType: "RSA", description: "RSASSA-PKCS1-v1_5 using SHA-512"},
			AlgPS256: {method: jwt.SigningMethodPS256, keyType: "RSA", description: "RSASSA-PSS using SHA-256"},
			AlgPS384: {method: jwt.SigningMethodPS384, keyType: "RSA", description: "RSASSA-PSS using SHA-384"},
			AlgPS512: {method: jwt.SigningMethodPS512, keyType: "RSA", description: "RSASSA-PSS using SHA-512"},
			AlgES256: {method: jwt.SigningMethodES256, keyType: "EC", description: "ECDSA using P-256 and SHA-256"},
			AlgES384: {method: jwt.SigningMethodES384, keyType: "EC", description: "ECDSA using P-384 and SHA-384"},
			AlgES512: {method: jwt.SigningMethodES512, keyType: "EC", description: "ECDSA using P-521 and SHA-512"},
			AlgHS256: {method: jwt.SigningMethodHS256, needsHMAC: true, description: "HMAC using SHA-256"},
			AlgHS384: {method: jwt.SigningMethodHS384, needsHMAC: true, description: "HMAC using SHA-384"},
			AlgHS512: {method: jwt.SigningMethodHS512, needsHMAC: true, description: "HMAC using SHA-512"},
		},
	}
}

// Lookup returns the algSpec for alg and whether it is known to this profile.
func (p *CoreProfile) Lookup(alg SigningAlgorithm) (algSpec, bool) {
	spec, ok := p.algorithms[alg]
	return spec, ok
}
