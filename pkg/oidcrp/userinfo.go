package oidcrp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetUserInfo fetches the UserInfo endpoint with accessToken as a Bearer
// credential, never as a query parameter, and returns the decoded claims. If the
// response's Content-Type is application/jwt, verifier is used to check its
// signature before the claims are trusted; any other Content-Type is decoded
// as plain JSON. A nil verifier accepts an unsigned JSON response only.
// expectedSubject, when non-empty, must equal the response's "sub" claim —
// the caller passes the ID Token's verified Subject so a UserInfo response
// describing a different end-user is rejected rather than silently trusted.
func GetUserInfo(ctx context.Context, client *http.Client, userinfoEndpoint, accessToken, expectedSubject string, verifier *Verifier) (*UserInfoClaims, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return nil, newRequestError(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", mimeTypeJSON)

	resp, err := client.Do(req)
	if err != nil {
		return nil, newRequestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newResponseError(resp.StatusCode, "userinfo request failed")
	}

	contentType := resp.Header.Get("Content-Type")
	var claims map[string]any

	if isSignedResponse(contentType) {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, newRequestError(err)
		}
		if verifier == nil {
			return nil, &ClaimsVerificationError{Kind: ClaimsErrorSignatureNoMatchingKey, Msg: "signed userinfo response but no verifier configured"}
		}
		decoded, err := verifier.verifyAndDecode(ctx, string(body))
		if err != nil {
			return nil, err
		}
		claims = decoded
	} else {
		if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
			return nil, newJSONError(err)
		}
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, missingClaimError("sub")
	}
	if expectedSubject != "" && sub != expectedSubject {
		return nil, &ClaimsVerificationError{Kind: ClaimsErrorInvalidSubject, Msg: fmt.Sprintf("userinfo sub %q does not match id_token sub %q", sub, expectedSubject)}
	}

	result := &UserInfoClaims{Subject: sub, Extra: map[string]any{}}
	for k, v := range claims {
		if k != "sub" {
			result.Extra[k] = v
		}
	}

	return result, nil
}

func isSignedResponse(contentType string) bool {
	return contentType == "application/jwt" || contentType == "application/jwt; charset=UTF-8"
}
