package oidcrp

import "fmt"

// DiscoveryError is returned by Discover and JsonWebKeySet fetches.
type DiscoveryError struct {
	// Kind selects which variant of the error this is.
	Kind DiscoveryErrorKind

	// StatusCode and Description are set when Kind is DiscoveryErrorResponse.
	StatusCode  int
	Description string

	// Msg carries the message for Validation/Other.
	Msg string

	// Err wraps the underlying cause for UrlParse/Request/Json.
	Err error
}

// DiscoveryErrorKind enumerates the taxonomy in discovery.rs's DiscoveryError.
type DiscoveryErrorKind string

const (
	DiscoveryErrorUrlParse  DiscoveryErrorKind = "url_parse"
	DiscoveryErrorRequest   DiscoveryErrorKind = "request"
	DiscoveryErrorResponse  DiscoveryErrorKind = "response"
	DiscoveryErrorJson      DiscoveryErrorKind = "json"
	DiscoveryErrorValidate  DiscoveryErrorKind = "validation"
	DiscoveryErrorOther     DiscoveryErrorKind = "other"
)

func (e *DiscoveryError) Error() string {
	switch e.Kind {
	case DiscoveryErrorUrlParse:
		return fmt.Sprintf("failed to parse url: %v", e.Err)
	case DiscoveryErrorRequest:
		return fmt.Sprintf("request failed: %v", e.Err)
	case DiscoveryErrorResponse:
		return fmt.Sprintf("server returned unexpected status %d: %s", e.StatusCode, e.Description)
	case DiscoveryErrorJson:
		return fmt.Sprintf("failed to parse response json: %v", e.Err)
	case DiscoveryErrorValidate:
		return fmt.Sprintf("validation failed: %s", e.Msg)
	default:
		return fmt.Sprintf("discovery error: %s", e.Msg)
	}
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

func newURLParseError(err error) *DiscoveryError {
	return &DiscoveryError{Kind: DiscoveryErrorUrlParse, Err: err}
}

func newRequestError(err error) *DiscoveryError {
	return &DiscoveryError{Kind: DiscoveryErrorRequest, Err: err}
}

func newResponseError(status int, description string) *DiscoveryError {
	return &DiscoveryError{Kind: DiscoveryErrorResponse, StatusCode: status, Description: description}
}

func newJSONError(err error) *DiscoveryError {
	return &DiscoveryError{Kind: DiscoveryErrorJson, Err: err}
}

func newValidationError(msg string) *DiscoveryError {
	return &DiscoveryError{Kind: DiscoveryErrorValidate, Msg: msg}
}

// RegistrationErrorCode is the error_code value in a dynamic client
// registration error response (RFC 7591 §3.2.2). It is an open string type:
// the Core constants below are the ones the specification names, but a
// provider may return any value.
type RegistrationErrorCode string

const (
	RegistrationErrorInvalidRedirectURI             RegistrationErrorCode = "invalid_redirect_uri"
	RegistrationErrorInvalidClientMetadata          RegistrationErrorCode = "invalid_client_metadata"
	RegistrationErrorInvalidSoftwareStatement        RegistrationErrorCode = "invalid_software_statement"
	RegistrationErrorUnapprovedSoftwareStatement     RegistrationErrorCode = "unapproved_software_statement"
)

// RegistrationServerError is the decoded body of a 400 registration response.
type RegistrationServerError struct {
	ErrorCode        RegistrationErrorCode `json:"error"`
	ErrorDescription string                `json:"error_description,omitempty"`
}

// RegistrationError mirrors DiscoveryError's taxonomy plus a ServerResponse
// variant carrying the typed 400 body.
type RegistrationError struct {
	Kind        DiscoveryErrorKind
	StatusCode  int
	Description string
	Msg         string
	Err         error
	ServerError *RegistrationServerError
}

func (e *RegistrationError) Error() string {
	if e.ServerError != nil {
		return fmt.Sprintf("registration rejected: %s: %s", e.ServerError.ErrorCode, e.ServerError.ErrorDescription)
	}
	switch e.Kind {
	case DiscoveryErrorUrlParse:
		return fmt.Sprintf("failed to parse url: %v", e.Err)
	case DiscoveryErrorRequest:
		return fmt.Sprintf("request failed: %v", e.Err)
	case DiscoveryErrorResponse:
		return fmt.Sprintf("server returned unexpected status %d: %s", e.StatusCode, e.Description)
	case DiscoveryErrorJson:
		return fmt.Sprintf("failed to parse response json: %v", e.Err)
	case DiscoveryErrorValidate:
		return fmt.Sprintf("validation failed: %s", e.Msg)
	default:
		return fmt.Sprintf("registration error: %s", e.Msg)
	}
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// ClaimsVerificationErrorKind enumerates the ID Token / UserInfo claims
// verification failures.
type ClaimsVerificationErrorKind string

const (
	ClaimsErrorInvalidIssuer             ClaimsVerificationErrorKind = "invalid_issuer"
	ClaimsErrorInvalidAudience           ClaimsVerificationErrorKind = "invalid_audience"
	ClaimsErrorInvalidNonce              ClaimsVerificationErrorKind = "invalid_nonce"
	ClaimsErrorInvalidSubject            ClaimsVerificationErrorKind = "invalid_subject"
	ClaimsErrorExpired                   ClaimsVerificationErrorKind = "expired"
	ClaimsErrorSignatureNoMatchingKey    ClaimsVerificationErrorKind = "signature_no_matching_key"
	ClaimsErrorSignatureAmbiguousKeyID   ClaimsVerificationErrorKind = "signature_ambiguous_key_id"
	ClaimsErrorSignatureDisallowedAlg    ClaimsVerificationErrorKind = "signature_disallowed_alg"
	ClaimsErrorSignatureCryptoError      ClaimsVerificationErrorKind = "signature_crypto_error"
	ClaimsErrorMissingClaim              ClaimsVerificationErrorKind = "missing_claim"
	ClaimsErrorParse                     ClaimsVerificationErrorKind = "parse"
)

// ClaimsVerificationError is returned by VerifyIDToken and GetUserInfo.
type ClaimsVerificationError struct {
	Kind  ClaimsVerificationErrorKind
	Claim string // set for MissingClaim
	Msg   string
	Err   error
}

func (e *ClaimsVerificationError) Error() string {
	switch e.Kind {
	case ClaimsErrorMissingClaim:
		return fmt.Sprintf("claims verification failed: missing claim %q", e.Claim)
	case ClaimsErrorParse:
		return fmt.Sprintf("claims verification failed: could not parse claims: %v", e.Err)
	default:
		if e.Msg != "" {
			return fmt.Sprintf("claims verification failed: %s: %s", e.Kind, e.Msg)
		}
		return fmt.Sprintf("claims verification failed: %s", e.Kind)
	}
}

func (e *ClaimsVerificationError) Unwrap() error { return e.Err }

func missingClaimError(claim string) *ClaimsVerificationError {
	return &ClaimsVerificationError{Kind: ClaimsErrorMissingClaim, Claim: claim}
}

func parseClaimsError(err error) *ClaimsVerificationError {
	return &ClaimsVerificationError{Kind: ClaimsErrorParse, Err: err}
}
