package recipe

import (
	"bytes"
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v6"

	bperrors "github.com/matzehuels/buildport/pkg/errors"
)

//go:embed schema.json
var schemaJSON []byte

var rootSchema *jsonschema.Schema

func init() {
	js, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	if err := compiler.AddResource("schema.json", js); err != nil {
		panic(err)
	}

	rootSchema, err = compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
}

// Schema returns the JSON Schema recipes are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// validate checks a JSON-encoded recipe against the schema.
func validate(doc []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "recipe is not valid JSON")
	}
	if err := rootSchema.Validate(inst); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "recipe does not match schema")
	}
	return nil
}
