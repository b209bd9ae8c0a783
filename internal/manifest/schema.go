package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var documentSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// SchemaError lists every violation found in a serialized document.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrSchemaValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaValidation
}

// ValidateDocument checks a serialized manifest against the embedded schema.
func ValidateDocument(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("manifest: decode document for validation: %w", err)
	}

	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &SchemaError{Issues: collectIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource("content.schema.json", bytes.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("manifest: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("content.schema.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("manifest: compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: node.InstanceLocation,
				Message:  node.Message,
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
