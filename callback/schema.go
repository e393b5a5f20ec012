package callback

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// requestSchema validates the wallet's POST body before it reaches the
// application handler. Unknown requestedInfo fields are allowed so new
// wallet capabilities do not break existing integrations.
var requestSchema = []byte(`{
	"type": "object",
	"required": ["requestedInfo"],
	"properties": {
		"version": {"type": "string"},
		"chainId": {"type": "string"},
		"calls": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["to"],
				"properties": {
					"to": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"},
					"data": {"type": "string"},
					"value": {"type": "string"}
				}
			}
		},
		"requestedInfo": {
			"type": "object",
			"properties": {
				"email": {"type": "string"},
				"phoneNumber": {"type": "string"},
				"name": {"type": "string"},
				"onchainAddress": {"type": "string"},
				"physicalAddress": {"type": "object"}
			}
		}
	}
}`)

// ValidateRequestBody checks a raw callback body against the request
// schema, returning a descriptive error listing every violation.
func ValidateRequestBody(body []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(requestSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("invalid callback body: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("invalid callback body: %s", strings.Join(violations, "; "))
}
