package schema

// JSONSchema renders the schema as a plain JSON-Schema document
// (type/properties/required/items/enum) for consumption by a JSON-schema
// validator. The document is rebuilt on every call; nothing is cached.
//
// The compact prompt text produced by core/compact is advisory only; this
// document is the authoritative shape used for validation.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return map[string]any{}
	}

	doc := map[string]any{}
	if s.Description != "" {
		doc["description"] = s.Description
	}

	switch s.Kind {
	case KindObject:
		doc["type"] = "object"
		properties := map[string]any{}
		required := make([]string, 0, len(s.Properties))
		for _, prop := range s.Properties {
			properties[prop.Name] = prop.Schema.JSONSchema()
			if prop.Schema != nil && prop.Schema.Kind != KindOptional {
				required = append(required, prop.Name)
			}
		}
		doc["properties"] = properties
		if len(required) > 0 {
			doc["required"] = required
		}

	case KindArray:
		doc["type"] = "array"
		doc["items"] = s.Items.JSONSchema()

	case KindString:
		doc["type"] = "string"

	case KindNumber:
		doc["type"] = "number"

	case KindInteger:
		doc["type"] = "integer"

	case KindBoolean:
		doc["type"] = "boolean"

	case KindEnum:
		doc["type"] = "string"
		values := make([]any, len(s.Values))
		for i, v := range s.Values {
			values[i] = v
		}
		doc["enum"] = values

	case KindOptional:
		// Optionality is expressed through the parent object's required set;
		// the wrapped schema carries the actual constraints.
		elem := s.Elem.JSONSchema()
		if s.Description != "" {
			elem["description"] = s.Description
		}
		return elem

	default:
		// Unknown kinds validate as "anything": the schema stays usable for
		// prompting even when a node kind is not understood.
	}

	return doc
}
