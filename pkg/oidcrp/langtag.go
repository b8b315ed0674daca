package oidcrp

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// languageTaggedFields lists the ClientMetadata struct fields that are
// encoded as "<field>" / "<field>#<tag>" on the wire.
var languageTaggedFields = []string{"client_name", "logo_uri", "client_uri", "policy_uri", "tos_uri"}

// splitLanguageTagKey splits a wire key like "client_name#fr-CA" into its
// base field name and tag ("client_name", "fr-CA"); a plain "client_name"
// splits into ("client_name", "").
func splitLanguageTagKey(key string) (field string, tag LanguageTag) {
	idx := strings.IndexByte(key, '#')
	if idx < 0 {
		return key, ""
	}
	return key[:idx], LanguageTag(key[idx+1:])
}

// validateLanguageTag returns an error if tag is non-empty and not a
// well-formed BCP-47 tag.
func validateLanguageTag(tag LanguageTag) error {
	if tag == "" {
		return nil
	}
	_, err := language.Parse(string(tag))
	return err
}

// MarshalJSON flattens the language-tagged maps into "<field>"/"<field>#<tag>"
// keys alongside the rest of ClientMetadata's fields.
func (c ClientMetadata) MarshalJSON() ([]byte, error) {
	type alias ClientMetadata
	base, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(base, &flat); err != nil {
		return nil, err
	}

	fields := map[string]map[LanguageTag]string{
		"client_name": c.ClientName,
		"logo_uri":    c.LogoURI,
		"client_uri":  c.ClientURI,
		"policy_uri":  c.PolicyURI,
		"tos_uri":     c.TosURI,
	}
	for field, values := range fields {
		for tag, value := range values {
			if err := validateLanguageTag(tag); err != nil {
				return nil, fmt.Errorf("%s#%s: %w", field, tag, err)
			}
			key := field
			if tag != "" {
				key = field + "#" + string(tag)
			}
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			flat[key] = raw
		}
	}

	return json.Marshal(flat)
}

// UnmarshalJSON reassembles the language-tagged maps from their flattened
// wire keys, leaving all other fields to ordinary struct-tag decoding.
func (c *ClientMetadata) UnmarshalJSON(data []byte) error {
	type alias ClientMetadata
	var base alias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*c = ClientMetadata(base)

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	targets := map[string]*map[LanguageTag]string{
		"client_name": &c.ClientName,
		"logo_uri":    &c.LogoURI,
		"client_uri":  &c.ClientURI,
		"policy_uri":  &c.PolicyURI,
		"tos_uri":     &c.TosURI,
	}

	for key, raw := range flat {
		field, tag := splitLanguageTagKey(key)
		target, ok := targets[field]
		if !ok {
			continue
		}
		if err := validateLanguageTag(tag); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		if *target == nil {
			*target = make(map[LanguageTag]string)
		}
		(*target)[tag] = value
	}

	return nil
}

// MarshalJSON and UnmarshalJSON are defined explicitly (rather than left to
// promotion from the embedded ClientMetadata) because a promoted
// json.Marshaler/Unmarshaler on an embedding struct replaces the whole
// struct's (de)serialization, which would silently drop ClientID,
// ClientSecret and the other fields declared directly on
// ClientRegistrationResponse.
func (r ClientRegistrationResponse) MarshalJSON() ([]byte, error) {
	metaJSON, err := r.ClientMetadata.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(metaJSON, &flat); err != nil {
		return nil, err
	}

	type outerFields struct {
		ClientID                string `json:"client_id"`
		ClientSecret            string `json:"client_secret,omitempty"`
		ClientIDIssuedAt        int64  `json:"client_id_issued_at,omitempty"`
		ClientSecretExpiresAt   int64  `json:"client_secret_expires_at"`
		RegistrationAccessToken string `json:"registration_access_token,omitempty"`
		RegistrationClientURI   string `json:"registration_client_uri,omitempty"`
	}
	outerJSON, err := json.Marshal(outerFields{
		ClientID:                r.ClientID,
		ClientSecret:            r.ClientSecret,
		ClientIDIssuedAt:        r.ClientIDIssuedAt,
		ClientSecretExpiresAt:   r.ClientSecretExpiresAt,
		RegistrationAccessToken: r.RegistrationAccessToken,
		RegistrationClientURI:   r.RegistrationClientURI,
	})
	if err != nil {
		return nil, err
	}
	var outerFlat map[string]json.RawMessage
	if err := json.Unmarshal(outerJSON, &outerFlat); err != nil {
		return nil, err
	}
	for k, v := range outerFlat {
		flat[k] = v
	}

	return json.Marshal(flat)
}

func (r *ClientRegistrationResponse) UnmarshalJSON(data []byte) error {
	if err := r.ClientMetadata.UnmarshalJSON(data); err != nil {
		return err
	}

	type outerFields struct {
		ClientID                string `json:"client_id"`
		ClientSecret            string `json:"client_secret,omitempty"`
		ClientIDIssuedAt        int64  `json:"client_id_issued_at,omitempty"`
		ClientSecretExpiresAt   int64  `json:"client_secret_expires_at"`
		RegistrationAccessToken string `json:"registration_access_token,omitempty"`
		RegistrationClientURI   string `json:"registration_client_uri,omitempty"`
	}
	var outer outerFields
	if err := json.Unmarshal(data, &outer); err != nil {
		return err
	}
	r.ClientID = outer.ClientID
	r.ClientSecret = outer.ClientSecret
	r.ClientIDIssuedAt = outer.ClientIDIssuedAt
	r.ClientSecretExpiresAt = outer.ClientSecretExpiresAt
	r.RegistrationAccessToken = outer.RegistrationAccessToken
	r.RegistrationClientURI = outer.RegistrationClientURI

	return nil
}
