package oidcrp

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const mimeTypeJSON = "application/json"

// httpGetJSON performs a GET request against rawURL, requires a 200 status
// and a JSON content type, and decodes the body into out. It is the shared
// envelope used by both discovery and JWKS fetches.
func httpGetJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return newURLParseError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return newRequestError(errors.Wrap(err, "building request"))
	}
	req.Header.Set("Accept", mimeTypeJSON)

	resp, err := client.Do(req)
	if err != nil {
		return newRequestError(errors.Wrap(err, "performing request"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newRequestError(errors.Wrap(err, "reading response body"))
	}

	if resp.StatusCode != http.StatusOK {
		return newResponseError(resp.StatusCode, string(body))
	}

	if err := checkContentType(resp.Header.Get("Content-Type"), mimeTypeJSON); err != nil {
		return newResponseError(resp.StatusCode, err.Error())
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newJSONError(err)
	}

	return nil
}

// checkContentType compares a response's Content-Type header against want,
// ignoring parameters (charset=...) and case.
func checkContentType(header, want string) error {
	if header == "" {
		return errors.Errorf("missing content-type header, expected %s", want)
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return errors.Wrapf(err, "invalid content-type header %q", header)
	}
	if mediaType != want {
		return errors.Errorf("unexpected content-type %q, expected %q", mediaType, want)
	}
	return nil
}
