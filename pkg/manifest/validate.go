package manifest

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/arthur-debert/actionreg/pkg/errors"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		data, err := Schema()
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(SchemaID, bytes.NewReader(data)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile(SchemaID)
	})
	return compiled, compileErr
}

// validate checks a decoded document against the manifest schema
func validate(doc interface{}) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "manifest schema does not compile")
	}

	value, err := toJSONValue(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestInvalid, "manifest is not a plain document")
	}

	if err := schema.Validate(value); err != nil {
		validationErr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return errors.Wrap(err, errors.ErrManifestInvalid, "manifest validation failed")
		}
		var problems []string
		collectProblems(validationErr, &problems)
		return errors.Newf(errors.ErrManifestInvalid, "manifest does not match the schema: %d problem(s)", len(problems)).
			WithDetail("problems", problems)
	}
	return nil
}

// collectProblems flattens the leaves of a validation error tree
func collectProblems(err *jsonschema.ValidationError, problems *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*problems = append(*problems, fmt.Sprintf("%s: %s", location, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectProblems(cause, problems)
	}
}
