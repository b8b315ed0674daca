package oidcrp

import (
	"context"
	"crypto"
	"encoding/json"
	"net/http"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// FetchJWKS retrieves and decodes the JSON Web Key Set at jwksURI, applying
// the same HTTP envelope (200 + application/json) as discovery.
func FetchJWKS(ctx context.Context, client *http.Client, jwksURI string) (*JsonWebKeySet, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var raw struct {
		Keys []rawJWK `json:"keys"`
	}
	if err := httpGetJSON(ctx, client, jwksURI, &raw); err != nil {
		return nil, err
	}

	set := &JsonWebKeySet{Keys: make([]JsonWebKey, 0, len(raw.Keys))}
	for _, k := range raw.Keys {
		set.Keys = append(set.Keys, k.toJsonWebKey())
	}
	return set, nil
}

// rawJWK captures a key's full JSON alongside the few fields key selection
// needs, so the raw bytes survive for later export via lestrrat-go/jwx.
type rawJWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	raw []byte
}

func (k *rawJWK) UnmarshalJSON(data []byte) error {
	type alias rawJWK
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	a.raw = append([]byte(nil), data...)
	*k = rawJWK(a)
	return nil
}

func (k rawJWK) toJsonWebKey() JsonWebKey {
	return JsonWebKey{Kty: k.Kty, Use: k.Use, Alg: k.Alg, Kid: k.Kid, Raw: k.raw}
}

// SelectKey implements the §4.3 key-selection algorithm: filter by usage
// (absent or "sig") and by kty; if the header names a kid, match it
// exactly; otherwise more than one surviving candidate is ambiguous, and
// zero candidates means no matching key.
func SelectKey(set *JsonWebKeySet, kty, kid string) (*JsonWebKey, error) {
	candidates := make([]*JsonWebKey, 0, len(set.Keys))
	for i := range set.Keys {
		k := &set.Keys[i]
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		if k.Kty != kty {
			continue
		}
		candidates = append(candidates, k)
	}

	if kid != "" {
		for _, k := range candidates {
			if k.Kid == kid {
				return k, nil
			}
		}
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureNoMatchingKey, Msg: "no key with matching kid"}
	}

	switch len(candidates) {
	case 0:
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureNoMatchingKey, Msg: "no candidate keys"}
	case 1:
		return candidates[0], nil
	default:
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureAmbiguousKeyID, Msg: "multiple candidate keys and no kid in header"}
	}
}

// ExportPublicKey converts a selected JsonWebKey's raw JSON into a native
// crypto.PublicKey via lestrrat-go/jwx/v3, the bridge stacklok-toolhive's
// token validator uses between a wire JWK and golang-jwt's Verify API.
func ExportPublicKey(key *JsonWebKey) (crypto.PublicKey, error) {
	parsed, err := jwk.ParseKey(key.Raw)
	if err != nil {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureCryptoError, Err: err}
	}

	var raw any
	if err := jwk.Export(parsed, &raw); err != nil {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureCryptoError, Err: err}
	}

	return raw, nil
}
