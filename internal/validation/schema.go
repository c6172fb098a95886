// Package validation checks render payloads against a template's optional
// JSON schema document.
package validation

import (
	"fmt"
	"strings"

	apperrors "docgen-service/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// ValidatePayload validates a payload against a JSON schema string. A
// payload that fails validation yields PAYLOAD_VALIDATION_FAILED with every
// violation listed; an unparseable schema is an internal error since the
// operator controls schema files.
func ValidatePayload(schemaJSON string, payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	payloadLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, payloadLoader)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("invalid template schema: %w", err))
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return apperrors.NewPayloadValidationFailedError(strings.Join(violations, "; "))
}
