package converter

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const payloadSchemaURL = "payload.schema.json"

// payloadSchema describes a rule-provider document: a single payload key
// holding a sequence of plain strings. An empty list decodes as null.
const payloadSchema = `{
  "type": "object",
  "required": ["payload"],
  "additionalProperties": false,
  "properties": {
    "payload": {
      "type": ["array", "null"],
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

var compiledPayloadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(payloadSchemaURL, strings.NewReader(payloadSchema)); err != nil {
		return nil, errors.Wrap(err, "add schema resource")
	}
	schema, err := compiler.Compile(payloadSchemaURL)
	if err != nil {
		return nil, errors.Wrap(err, "compile schema")
	}
	return schema, nil
})

// Verify decodes doc as YAML and validates it against the payload schema.
// Rule text that YAML reads as something other than a string, such as a
// "key: value" pair, is reported with its input line number.
func Verify(doc []byte) error {
	schema, err := compiledPayloadSchema()
	if err != nil {
		return err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return errors.Wrap(err, "decode payload yaml")
	}

	var decoded any
	if err := root.Decode(&decoded); err != nil {
		return errors.Wrap(err, "decode payload yaml")
	}
	value, err := jsonValue(decoded)
	if err != nil {
		if line := firstNonString(&root); line > 0 {
			return errors.Errorf("payload entry on input line %d is not a plain string", line)
		}
		return err
	}

	if err := schema.Validate(value); err != nil {
		if line := firstNonString(&root); line > 0 {
			return errors.Wrapf(err, "payload entry on input line %d is not a plain string", line)
		}
		return errors.Wrap(err, "payload schema")
	}
	return nil
}

// jsonValue converts a YAML-decoded value into the generic form produced by
// encoding/json, which is what the schema validator expects.
func jsonValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "payload is not json compatible")
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "payload is not json compatible")
	}
	return out, nil
}

// firstNonString returns the input line of the first payload entry that is
// not a string scalar, or 0. Document lines are one ahead of input lines
// because of the payload key.
func firstNonString(root *yaml.Node) int {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return 0
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return 0
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != PayloadKey {
			continue
		}
		seq := mapping.Content[i+1]
		if seq.Kind != yaml.SequenceNode {
			return 0
		}
		for _, item := range seq.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return item.Line - 1
			}
		}
	}
	return 0
}
