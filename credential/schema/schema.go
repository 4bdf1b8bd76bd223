// Package schema validates credentials against their credentialSchema
// entries and canonicalizes documents for digest computation.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/attestia/go-identity-sdk/credential"
)

// JSONSchemaTypes are the credentialSchema types validated as JSON Schema.
var JSONSchemaTypes = map[string]bool{
	"JsonSchema":              true,
	"JsonSchemaValidator2018": true,
}

// Validate checks the credential against every JSON Schema its
// credentialSchema entries reference. Entries with other types are skipped.
func Validate(cred *credential.Credential) error {
	doc := cred.ToMap()
	for _, entry := range cred.Schemas {
		if !JSONSchemaTypes[entry.Type] {
			continue
		}
		if entry.ID == "" {
			return fmt.Errorf("credentialSchema.id must be a non-empty string")
		}

		schemaLoader := gojsonschema.NewReferenceLoader(entry.ID)
		credentialLoader := gojsonschema.NewGoLoader(doc)

		result, err := gojsonschema.Validate(schemaLoader, credentialLoader)
		if err != nil {
			return fmt.Errorf("failed to load schema %s: %w", entry.ID, err)
		}
		if !result.Valid() {
			return fmt.Errorf("credential does not satisfy schema %s: %v", entry.ID, result.Errors())
		}
	}
	return nil
}

// ValidateAgainst checks an arbitrary credential document against one schema
// document, both supplied as parsed JSON.
func ValidateAgainst(schemaDoc, credentialDoc map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schemaDoc),
		gojsonschema.NewGoLoader(credentialDoc),
	)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}
	if !result.Valid() {
		return fmt.Errorf("credential does not satisfy schema: %v", result.Errors())
	}
	return nil
}
