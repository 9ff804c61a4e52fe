package ai

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yildizm/go-promptfmt"
)

const verdictSchemaURL = "aidetect://verdict.schema.json"

// VerdictSchema is the JSON schema every provider reply must satisfy.
const VerdictSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["isAiGenerated"],
  "properties": {
    "isAiGenerated": {"type": "boolean"}
  }
}`

var (
	verdictSchemaOnce sync.Once
	verdictSchema     *jsonschema.Schema
	verdictSchemaErr  error
)

func compiledVerdictSchema() (*jsonschema.Schema, error) {
	verdictSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(verdictSchemaURL, strings.NewReader(VerdictSchema)); err != nil {
			verdictSchemaErr = err
			return
		}
		verdictSchema, verdictSchemaErr = compiler.Compile(verdictSchemaURL)
	})
	return verdictSchema, verdictSchemaErr
}

// ParseVerdict extracts the boolean verdict from a model reply.
// The JSON object may be fenced or surrounded by prose; it is checked
// against VerdictSchema. A bare yes/no or true/false answer is accepted as
// a fallback.
func ParseVerdict(provider, content string) (bool, error) {
	body := strings.TrimSpace(content)
	if body == "" {
		return false, NewProviderError(ErrTypeMalformedResponse, "the detection service returned an empty reply", provider)
	}

	var instance map[string]any
	if result := promptfmt.NewResponse(body).TryParseJSON(&instance); result.Success && instance != nil {
		return checkVerdict(provider, instance)
	}

	switch strings.ToLower(strings.Trim(body, " .!\"'\n\t`")) {
	case "true", "yes", "sí", "si":
		return true, nil
	case "false", "no":
		return false, nil
	}

	return false, NewProviderError(ErrTypeMalformedResponse,
		fmt.Sprintf("the detection service returned an unrecognized reply: %q", truncate(body, 80)), provider)
}

func checkVerdict(provider string, instance map[string]any) (bool, error) {
	schema, err := compiledVerdictSchema()
	if err != nil {
		return false, NewProviderErrorWithCause(ErrTypeInternal, "failed to compile verdict schema", provider, err)
	}

	if err := schema.Validate(instance); err != nil {
		return false, NewProviderErrorWithCause(ErrTypeMalformedResponse, "the detection service reply has no verdict", provider, err)
	}

	verdict, _ := instance["isAiGenerated"].(bool)
	return verdict, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
