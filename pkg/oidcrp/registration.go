package oidcrp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Register performs dynamic client registration (RFC 7591) against
// endpoint. Only 201 (success) and 400 (typed registration error) are
// treated as meaningful responses; anything else is reported as a generic
// DiscoveryErrorResponse-shaped RegistrationError.
func Register(ctx context.Context, client *http.Client, endpoint string, metadata ClientMetadata, initialAccessToken string) (*ClientRegistrationResponse, error) {
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(metadata)
	if err != nil {
		return nil, &RegistrationError{Kind: DiscoveryErrorJson, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RegistrationError{Kind: DiscoveryErrorRequest, Err: errors.Wrap(err, "building request")}
	}
	req.Header.Set("Content-Type", mimeTypeJSON)
	req.Header.Set("Accept", mimeTypeJSON)
	if initialAccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+initialAccessToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &RegistrationError{Kind: DiscoveryErrorRequest, Err: errors.Wrap(err, "performing request")}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RegistrationError{Kind: DiscoveryErrorRequest, Err: errors.Wrap(err, "reading response body")}
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		if err := checkContentType(resp.Header.Get("Content-Type"), mimeTypeJSON); err != nil {
			return nil, &RegistrationError{Kind: DiscoveryErrorResponse, StatusCode: resp.StatusCode, Description: err.Error()}
		}
		var out ClientRegistrationResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return nil, &RegistrationError{Kind: DiscoveryErrorJson, Err: err}
		}
		return &out, nil

	case http.StatusBadRequest:
		if err := checkContentType(resp.Header.Get("Content-Type"), mimeTypeJSON); err != nil {
			return nil, &RegistrationError{Kind: DiscoveryErrorResponse, StatusCode: resp.StatusCode, Description: err.Error()}
		}
		var serverErr RegistrationServerError
		if err := json.Unmarshal(respBody, &serverErr); err != nil {
			return nil, &RegistrationError{Kind: DiscoveryErrorJson, Err: err}
		}
		return nil, &RegistrationError{ServerError: &serverErr}

	default:
		return nil, &RegistrationError{Kind: DiscoveryErrorResponse, StatusCode: resp.StatusCode, Description: string(respBody)}
	}
}
