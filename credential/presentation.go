package credential

import (
	"encoding/json"
	"fmt"
)

// BasePresentationType is the type every presentation must include.
const BasePresentationType = "VerifiablePresentation"

// Presentation is the structured form of a verifiable presentation. The
// embedded credentials stay in their original form: JWT strings or JSON
// objects.
type Presentation struct {
	Context      []interface{}
	ID           string
	Types        []string
	Holder       string
	Credentials  []interface{}
	CustomFields map[string]interface{}
}

// ParsePresentation decodes a presentation from its JSON object form.
func ParsePresentation(data []byte) (*Presentation, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presentation: %w", err)
	}
	return PresentationFromMap(m)
}

// PresentationFromMap builds a presentation from a decoded JSON object.
func PresentationFromMap(m map[string]interface{}) (*Presentation, error) {
	var p Presentation

	for key, value := range m {
		var err error
		switch key {
		case "@context":
			switch v := value.(type) {
			case string:
				p.Context = append(p.Context, v)
			case []interface{}:
				p.Context = append(p.Context, v...)
			default:
				err = fmt.Errorf("unsupported @context field: %T", value)
			}
		case "id":
			p.ID, err = asString(value, "id")
		case "type":
			p.Types, err = asStringSlice(value, "type")
		case "holder":
			p.Holder, err = asString(value, "holder")
		case "verifiableCredential":
			switch v := value.(type) {
			case []interface{}:
				p.Credentials = v
			case string, map[string]interface{}:
				p.Credentials = []interface{}{v}
			default:
				err = fmt.Errorf("unsupported verifiableCredential field: %T", value)
			}
		default:
			if p.CustomFields == nil {
				p.CustomFields = make(map[string]interface{})
			}
			p.CustomFields[key] = value
		}
		if err != nil {
			return nil, err
		}
	}

	return &p, nil
}

// ToMap serializes the presentation back to its JSON object form.
func (p *Presentation) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(p.CustomFields)+5)
	for k, v := range p.CustomFields {
		m[k] = v
	}
	if len(p.Context) > 0 {
		m["@context"] = p.Context
	}
	if p.ID != "" {
		m["id"] = p.ID
	}
	if len(p.Types) > 0 {
		m["type"] = toInterfaceSlice(p.Types)
	}
	if p.Holder != "" {
		m["holder"] = p.Holder
	}
	if len(p.Credentials) > 0 {
		m["verifiableCredential"] = p.Credentials
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (p *Presentation) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Presentation) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePresentation(data)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}
