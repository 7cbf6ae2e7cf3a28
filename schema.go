package typemap

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/davidroman0O/typemap/internal/anyvalue"
)

// Schema returns a JSON Schema description of the concrete type stored at
// key. This is a diagnostic view of the entry's type identity; the container
// itself never validates values against it.
func (m *Map[K]) Schema(key K) (map[string]any, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	if e.IsNil() {
		return nil, fmt.Errorf("%w: %v holds nil", ErrTypeMismatch, key)
	}
	return TypeToSchema(e.Type()), nil
}

// SchemaFor returns the JSON Schema description of type T.
func SchemaFor[T any]() map[string]any {
	return TypeToSchema(anyvalue.TypeOf[T]())
}

// TypeToSchema converts a reflect.Type to a JSON schema rendered as a plain
// map. References are expanded inline so the result stands alone.
func TypeToSchema(t reflect.Type) map[string]any {
	instance := reflect.New(t).Interface()
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(instance)

	fallback := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return fallback
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return fallback
	}

	if _, ok := out["type"]; !ok {
		out["type"] = "object"
	}
	if _, ok := out["properties"]; !ok {
		out["properties"] = map[string]any{}
	}
	return out
}
