package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed report.schema.json
var reportSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON schema that JSON reports conform to.
func Schema() string {
	return reportSchema
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("report.schema.json", reportSchema)
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks a JSON report against the report schema.
func ValidateJSON(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("report: failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("report: invalid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("report: schema violation: %w", err)
	}
	return nil
}
