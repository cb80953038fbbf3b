package manifest

import (
	"encoding/json"

	schemagen "github.com/invopop/jsonschema"
)

// SchemaID names the manifest schema resource
const SchemaID = "https://github.com/arthur-debert/actionreg/manifest.schema.json"

// Schema returns the JSON Schema manifests are validated against
func Schema() ([]byte, error) {
	r := &schemagen.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
	}

	schema := r.Reflect(&Manifest{})
	schema.ID = SchemaID
	schema.Title = "actionreg plugin manifest"
	schema.Description = "Groups and actions a plugin contributes to the action registry."

	return json.MarshalIndent(schema, "", "  ")
}
