// Package credential implements the W3C Verifiable Credential and
// Presentation data model together with its JWT claims mapping.
package credential

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BaseContext is the W3C credentials context every credential must carry
// first.
const BaseContext = "https://www.w3.org/2018/credentials/v1"

// BaseType is the type every credential must include.
const BaseType = "VerifiableCredential"

// Subject is one credentialSubject entry.
type Subject struct {
	ID           string                 // Subject identifier
	CustomFields map[string]interface{} // Additional subject data
}

// Status is one credentialStatus entry, pointing at revocation state.
type Status struct {
	ID                   string `json:"id,omitempty"`
	Type                 string `json:"type"`
	StatusPurpose        string `json:"statusPurpose,omitempty"`
	StatusListIndex      string `json:"statusListIndex,omitempty"`
	StatusListCredential string `json:"statusListCredential,omitempty"`
}

// Schema is one credentialSchema entry.
type Schema struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Credential is the structured form of a verifiable credential. The
// validator borrows it read-only; nothing here mutates after parsing.
type Credential struct {
	Context      []interface{}          // JSON-LD contexts
	ID           string                 // Credential identifier
	Types        []string               // Credential types
	Issuer       string                 // Issuer identifier
	ValidFrom    time.Time              // Issuance date
	ValidUntil   time.Time              // Expiration date
	Subject      []Subject              // Credential subjects
	Status       []Status               // Credential status entries
	Schemas      []Schema               // Credential schemas
	CustomFields map[string]interface{} // Properties outside the data model
}

// NewID returns a fresh urn:uuid credential identifier.
func NewID() string {
	return "urn:uuid:" + uuid.NewString()
}

// Parse decodes a credential from its JSON object form.
func Parse(data []byte) (*Credential, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return FromMap(m)
}

// FromMap builds a credential from a decoded JSON object.
func FromMap(m map[string]interface{}) (*Credential, error) {
	var c Credential

	for key, value := range m {
		var err error
		switch key {
		case "@context":
			err = parseContext(value, &c)
		case "id":
			c.ID, err = asString(value, "id")
		case "type":
			c.Types, err = asStringSlice(value, "type")
		case "issuer":
			err = parseIssuer(value, &c)
		case "validFrom", "issuanceDate":
			c.ValidFrom, err = parseDate(value, key)
		case "validUntil", "expirationDate":
			c.ValidUntil, err = parseDate(value, key)
		case "credentialSubject":
			err = parseSubjects(value, &c)
		case "credentialStatus":
			err = parseStatuses(value, &c)
		case "credentialSchema":
			err = parseSchemas(value, &c)
		default:
			if c.CustomFields == nil {
				c.CustomFields = make(map[string]interface{})
			}
			c.CustomFields[key] = value
		}
		if err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// ToMap serializes the credential back to its JSON object form.
func (c *Credential) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(c.CustomFields)+10)
	for k, v := range c.CustomFields {
		m[k] = v
	}
	if len(c.Context) > 0 {
		m["@context"] = c.Context
	}
	if c.ID != "" {
		m["id"] = c.ID
	}
	if len(c.Types) > 0 {
		m["type"] = toInterfaceSlice(c.Types)
	}
	if c.Issuer != "" {
		m["issuer"] = c.Issuer
	}
	if !c.ValidFrom.IsZero() {
		m["validFrom"] = c.ValidFrom.UTC().Format(time.RFC3339)
	}
	if !c.ValidUntil.IsZero() {
		m["validUntil"] = c.ValidUntil.UTC().Format(time.RFC3339)
	}
	if len(c.Subject) > 0 {
		m["credentialSubject"] = singleOrSlice(serializeSubjects(c.Subject))
	}
	if len(c.Status) > 0 {
		m["credentialStatus"] = singleOrSlice(serializeStatuses(c.Status))
	}
	if len(c.Schemas) > 0 {
		m["credentialSchema"] = singleOrSlice(serializeSchemas(c.Schemas))
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (c *Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Credential) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func parseContext(value interface{}, c *Credential) error {
	switch v := value.(type) {
	case string:
		c.Context = append(c.Context, v)
	case []interface{}:
		for _, ctx := range v {
			switch ctx.(type) {
			case string, map[string]interface{}:
				c.Context = append(c.Context, ctx)
			default:
				return fmt.Errorf("unsupported context type: %T", ctx)
			}
		}
	default:
		return fmt.Errorf("unsupported @context field: %T", value)
	}
	return nil
}

func parseIssuer(value interface{}, c *Credential) error {
	switch v := value.(type) {
	case string:
		c.Issuer = v
	case map[string]interface{}:
		id, ok := v["id"].(string)
		if !ok {
			return fmt.Errorf("issuer object has no id")
		}
		c.Issuer = id
	default:
		return fmt.Errorf("unsupported issuer field: %T", value)
	}
	return nil
}

func parseDate(value interface{}, field string) (time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%s must be a string", field)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func parseSubjects(value interface{}, c *Credential) error {
	entries, err := asObjectSlice(value, "credentialSubject")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		subject := Subject{CustomFields: make(map[string]interface{})}
		for k, v := range entry {
			if k == "id" {
				if id, ok := v.(string); ok {
					subject.ID = id
					continue
				}
			}
			subject.CustomFields[k] = v
		}
		c.Subject = append(c.Subject, subject)
	}
	return nil
}

func parseStatuses(value interface{}, c *Credential) error {
	entries, err := asObjectSlice(value, "credentialStatus")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		var status Status
		if err := remarshal(entry, &status); err != nil {
			return fmt.Errorf("invalid credentialStatus entry: %w", err)
		}
		c.Status = append(c.Status, status)
	}
	return nil
}

func parseSchemas(value interface{}, c *Credential) error {
	entries, err := asObjectSlice(value, "credentialSchema")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		var schema Schema
		if err := remarshal(entry, &schema); err != nil {
			return fmt.Errorf("invalid credentialSchema entry: %w", err)
		}
		c.Schemas = append(c.Schemas, schema)
	}
	return nil
}

func serializeSubjects(subjects []Subject) []interface{} {
	out := make([]interface{}, 0, len(subjects))
	for _, subject := range subjects {
		obj := make(map[string]interface{}, len(subject.CustomFields)+1)
		for k, v := range subject.CustomFields {
			obj[k] = v
		}
		if subject.ID != "" {
			obj["id"] = subject.ID
		}
		out = append(out, obj)
	}
	return out
}

func serializeStatuses(statuses []Status) []interface{} {
	out := make([]interface{}, 0, len(statuses))
	for _, status := range statuses {
		var m map[string]interface{}
		if err := remarshal(status, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func serializeSchemas(schemas []Schema) []interface{} {
	out := make([]interface{}, 0, len(schemas))
	for _, schema := range schemas {
		var m map[string]interface{}
		if err := remarshal(schema, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}
