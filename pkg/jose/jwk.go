package jose

import (
	"crypto"
	"encoding/json"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// PublicJWK renders the public half of key as a JSON Web Key document
// (RFC 7517), stamping the given kid/use/alg onto it. It is used to build
// JWKS fixtures for tests and for any caller assembling an inline
// ClientMetadata.JWKS from key material it manages itself.
func PublicJWK(key crypto.PublicKey, kid, use, alg string) (json.RawMessage, error) {
	k, err := jwk.Import(key)
	if err != nil {
		return nil, err
	}

	if kid != "" {
		if err := k.Set(jwk.KeyIDKey, kid); err != nil {
			return nil, err
		}
	}
	if use != "" {
		if err := k.Set(jwk.KeyUsageKey, use); err != nil {
			return nil, err
		}
	}
	if alg != "" {
		if err := k.Set(jwk.AlgorithmKey, alg); err != nil {
			return nil, err
		}
	}

	return json.Marshal(k)
}
