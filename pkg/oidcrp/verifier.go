package oidcrp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Verifier checks the JWS signature and claims of an ID Token or a signed
// UserInfo response. The zero value is not usable; construct one with
// NewVerifier.
type Verifier struct {
	Issuer       string
	ClientID     string
	ClientSecret string // required only when AllowedAlgs includes an HMAC algorithm

	// AllowedAlgs restricts which JWS algorithms are accepted. A nil slice
	// defaults to only RS256; HMAC algorithms must be added explicitly via
	// SetAllowedAlgs, never assumed.
	AllowedAlgs []SigningAlgorithm

	// InsecureDisableSignatureCheck skips signature verification entirely
	// when true. Its name is deliberately loud: it exists so certification
	// tests can exercise claims validation in isolation, and so that
	// alg=none rejection (which is unconditional, see verifyAndDecode) can
	// be tested against a verifier that would otherwise accept anything.
	InsecureDisableSignatureCheck bool

	JWKS       *JsonWebKeySet // inline keys, takes priority over JWKSURI when set
	JWKSURI    string
	HTTPClient *http.Client

	profile *CoreProfile
}

// NewVerifier builds a Verifier for issuer/clientID defaulting to RS256-only.
func NewVerifier(issuer, clientID string) *Verifier {
	return &Verifier{
		Issuer:      issuer,
		ClientID:    clientID,
		AllowedAlgs: []SigningAlgorithm{AlgRS256},
		profile:     NewCoreProfile(),
	}
}

// SetAllowedAlgs overrides the set of JWS algorithms this verifier accepts.
func (v *Verifier) SetAllowedAlgs(algs ...SigningAlgorithm) {
	v.AllowedAlgs = algs
}

func (v *Verifier) allows(alg SigningAlgorithm) bool {
	if v.AllowedAlgs == nil {
		return alg == AlgRS256
	}
	for _, a := range v.AllowedAlgs {
		if a == alg {
			return true
		}
	}
	return false
}

func (v *Verifier) profileOrDefault() *CoreProfile {
	if v.profile == nil {
		v.profile = NewCoreProfile()
	}
	return v.profile
}

// VerifyIDToken verifies idToken's signature and REQUIRED claims (iss, aud,
// exp, iat, sub) and, when expectedNonce is non-empty, the nonce claim.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken, expectedNonce string) (*IDTokenClaims, error) {
	claims, err := v.verifyAndDecode(ctx, idToken)
	if err != nil {
		return nil, err
	}

	parsed, err := decodeIDTokenClaims(claims)
	if err != nil {
		return nil, err
	}

	if parsed.Issuer != v.Issuer {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorInvalidIssuer, Msg: parsed.Issuer}
	}
	if !containsScope(parsed.Audience, v.ClientID) {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorInvalidAudience, Msg: strings.Join(parsed.Audience, ",")}
	}
	if len(parsed.Audience) > 1 && parsed.AuthorizedParty != v.ClientID {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorInvalidAudience, Msg: "multiple audiences require azp to equal client_id"}
	}
	if time.Now().After(parsed.ExpiresAt) {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorExpired}
	}
	if parsed.Subject == "" {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorInvalidSubject, Msg: "empty subject"}
	}
	if expectedNonce != "" && parsed.Nonce != expectedNonce {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorInvalidNonce, Msg: parsed.Nonce}
	}

	return parsed, nil
}

// verifyAndDecode splits token into its three segments, checks the JWS
// algorithm against policy, verifies the signature (unless
// InsecureDisableSignatureCheck is set), and returns the decoded payload as
// a generic claim map.
func (v *Verifier) verifyAndDecode(ctx context.Context, token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, parseClaimsError(errNotAJWS)
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, parseClaimsError(err)
	}
	var header struct {
		Alg string `json:"alg"`
		Kid string `json:"kid"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, parseClaimsError(err)
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, parseClaimsError(err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, parseClaimsError(err)
	}

	// alg=none is rejected unconditionally: the insecure switch exists to
	// test claims handling in isolation, not to admit unsigned tokens.
	if header.Alg == "" || SigningAlgorithm(header.Alg) == AlgNone {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureDisallowedAlg, Msg: "alg=none is never accepted"}
	}

	if v.InsecureDisableSignatureCheck {
		return claims, nil
	}

	alg := SigningAlgorithm(header.Alg)
	if !v.allows(alg) {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureDisallowedAlg, Msg: string(alg)}
	}

	spec, ok := v.profileOrDefault().Lookup(alg)
	if !ok {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureDisallowedAlg, Msg: string(alg)}
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, parseClaimsError(err)
	}
	signingInput := parts[0] + "." + parts[1]

	var verifyKey any
	if spec.needsHMAC {
		if v.ClientSecret == "" {
			return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureCryptoError, Msg: "HMAC algorithm requires a client secret"}
		}
		verifyKey = []byte(v.ClientSecret)
	} else {
		set, err := v.resolveJWKS(ctx)
		if err != nil {
			return nil, err
		}
		key, err := SelectKey(set, spec.keyType, header.Kid)
		if err != nil {
			return nil, err
		}
		pub, err := ExportPublicKey(key)
		if err != nil {
			return nil, err
		}
		verifyKey = pub
	}

	if err := spec.method.Verify(signingInput, sig, verifyKey); err != nil {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureCryptoError, Err: err}
	}

	return claims, nil
}

func (v *Verifier) resolveJWKS(ctx context.Context) (*JsonWebKeySet, error) {
	if v.JWKS != nil {
		return v.JWKS, nil
	}
	if v.JWKSURI == "" {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureNoMatchingKey, Msg: "no JWKS configured"}
	}
	set, err := FetchJWKS(ctx, v.HTTPClient, v.JWKSURI)
	if err != nil {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureCryptoError, Err: err}
	}
	v.JWKS = set
	return set, nil
}

var errNotAJWS = &ClaimsVerificationError{Kind: ClaimsErrorParse, Msg: "token is not a three-part JWS"}

func decodeIDTokenClaims(raw map[string]any) (*IDTokenClaims, error) {
	claims := &IDTokenClaims{Extra: map[string]any{}}

	iss, ok := raw["iss"].(string)
	if !ok {
		return nil, missingClaimError("iss")
	}
	claims.Issuer = iss

	sub, ok := raw["sub"].(string)
	if !ok {
		return nil, missingClaimError("sub")
	}
	claims.Subject = sub

	switch aud := raw["aud"].(type) {
	case string:
		claims.Audience = []string{aud}
	case []any:
		for _, a := range aud {
			if s, ok := a.(string); ok {
				claims.Audience = append(claims.Audience, s)
			}
		}
	default:
		return nil, missingClaimError("aud")
	}

	exp, ok := raw["exp"].(float64)
	if !ok {
		return nil, missingClaimError("exp")
	}
	claims.ExpiresAt = time.Unix(int64(exp), 0)

	iat, ok := raw["iat"].(float64)
	if !ok {
		return nil, missingClaimError("iat")
	}
	claims.IssuedAt = time.Unix(int64(iat), 0)

	if nonce, ok := raw["nonce"].(string); ok {
		claims.Nonce = nonce
	}
	if azp, ok := raw["azp"].(string); ok {
		claims.AuthorizedParty = azp
	}

	for k, val := range raw {
		switch k {
		case "iss", "sub", "aud", "exp", "iat", "nonce", "azp":
		default:
			claims.Extra[k] = val
		}
	}

	return claims, nil
}
