package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/oidcrp/oidcrp/pkg/jose"
	"github.com/oidcrp/oidcrp/pkg/oidcrp"
)

// scenario is one named conformance check from the rp_* certification
// battery: it builds its own token/key material and reports whether
// VerifyIDToken behaved as expected, independent of any live provider.
type scenario struct {
	name string
	run  func() error
}

func newCertifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certify",
		Short: "Run the ID Token verification certification battery against synthetic tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderCertifyResults(certificationScenarios())
		},
	}
	return cmd
}

const (
	certIssuer   = "https://harness.invalid"
	certClientID = "harness-client"
)

func newCertKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}

func signedIDToken(key *rsa.PrivateKey, kid string, overrides jwt.MapClaims) (string, error) {
	claims := jwt.MapClaims{
		"iss": certIssuer,
		"aud": certClientID,
		"sub": "harness-subject",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	for k, v := range overrides {
		claims[k] = v
	}
	header := jwt.MapClaims{}
	if kid != "" {
		header["kid"] = kid
	}
	return jose.MakeJWT(header, claims, jwt.SigningMethodRS256, key)
}

func verifierWithKey(key *rsa.PrivateKey, kid string) (*oidcrp.Verifier, error) {
	pubJWK, err := jose.PublicJWK(&key.PublicKey, kid, "sig", "RS256")
	if err != nil {
		return nil, err
	}
	v := oidcrp.NewVerifier(certIssuer, certClientID)
	v.JWKS = &oidcrp.JsonWebKeySet{Keys: []oidcrp.JsonWebKey{{Kty: "RSA", Use: "sig", Alg: "RS256", Kid: kid, Raw: pubJWK}}}
	return v, nil
}

func certificationScenarios() []scenario {
	return []scenario{
		{"rp_id_token_sig_rs256", func() error {
			key, err := newCertKey()
			if err != nil {
				return err
			}
			v, err := verifierWithKey(key, "key-1")
			if err != nil {
				return err
			}
			token, err := signedIDToken(key, "key-1", nil)
			if err != nil {
				return err
			}
			_, err = v.VerifyIDToken(context.Background(), token, "")
			return err
		}},
		{"rp_id_token_bad_sig_rs256", func() error {
			signingKey, err := newCertKey()
			if err != nil {
				return err
			}
			otherKey, err := newCertKey()
			if err != nil {
				return err
			}
			v, err := verifierWithKey(otherKey, "key-1")
			if err != nil {
				return err
			}
			token, err := signedIDToken(signingKey, "key-1", nil)
			if err != nil {
				return err
			}
			if _, err := v.VerifyIDToken(context.Background(), token, ""); err == nil {
				return errExpectedFailure
			}
			return nil
		}},
		{"rp_id_token_sig_none", func() error {
			key, err := newCertKey()
			if err != nil {
				return err
			}
			v, err := verifierWithKey(key, "key-1")
			if err != nil {
				return err
			}
			token, err := jose.MakeJWT(jwt.MapClaims{}, jwt.MapClaims{
				"iss": certIssuer, "aud": certClientID, "sub": "s", "exp": time.Now().Add(time.Hour).Unix(), "iat": time.Now().Unix(),
			}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)
			if err != nil {
				return err
			}
			if _, err := v.VerifyIDToken(context.Background(), token, ""); err == nil {
				return errExpectedFailure
			}
			return nil
		}},
		{"rp_id_token_issuer_mismatch", func() error {
			key, err := newCertKey()
			if err != nil {
				return err
			}
			v, err := verifierWithKey(key, "key-1")
			if err != nil {
				return err
			}
			token, err := signedIDToken(key, "key-1", jwt.MapClaims{"iss": "https://wrong.invalid"})
			if err != nil {
				return err
			}
			if _, err := v.VerifyIDToken(context.Background(), token, ""); err == nil {
				return errExpectedFailure
			}
			return nil
		}},
		{"rp_nonce_invalid", func() error {
			key, err := newCertKey()
			if err != nil {
				return err
			}
			v, err := verifierWithKey(key, "key-1")
			if err != nil {
				return err
			}
			token, err := signedIDToken(key, "key-1", jwt.MapClaims{"nonce": "actual"})
			if err != nil {
				return err
			}
			if _, err := v.VerifyIDToken(context.Background(), token, "expected"); err == nil {
				return errExpectedFailure
			}
			return nil
		}},
	}
}

var errExpectedFailure = &scenarioError{"verification unexpectedly succeeded"}

type scenarioError struct{ msg string }

func (e *scenarioError) Error() string { return e.msg }

func renderCertifyResults(scenarios []scenario) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader([]string{"Scenario", "Result", "Detail"}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.State(1), Top: tw.State(1), Right: tw.State(1), Bottom: tw.State(1)},
		}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
	)

	failures := 0
	for _, s := range scenarios {
		result := "PASS"
		detail := ""
		if err := s.run(); err != nil {
			result = "FAIL"
			detail = err.Error()
			failures++
		}
		if err := table.Append([]string{s.name, result, detail}); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}
	if failures > 0 {
		os.Exit(1)
	}
	return nil
}
