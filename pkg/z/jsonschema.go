package z

import (
	"encoding/json"
	"math/big"
)

// JSONSchema exports the schema as a JSON Schema (draft 2020-12) document.
// Shared definitions such as JSON are emitted once under "$defs".
// Refinements and transforms have no JSON Schema equivalent and are
// omitted.
func (s *Schema) JSONSchema() map[string]any {
	defs := make(map[string]any)
	doc := s.jsonSchema(defs)
	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	if len(defs) > 0 {
		doc["$defs"] = defs
	}
	return doc
}

func (s *Schema) jsonSchema(defs map[string]any) map[string]any {
	var out map[string]any
	if s.ref != "" {
		if _, ok := defs[s.ref]; !ok {
			defs[s.ref] = map[string]any{} // placeholder stops recursion
			plain := s.clone()
			plain.ref = ""
			plain.nullable = false
			plain.optional = false
			defs[s.ref] = plain.jsonSchema(defs)
		}
		out = map[string]any{"$ref": "#/$defs/" + s.ref}
	} else {
		out = s.jsonSchemaBase(defs)
	}
	if s.nullable {
		return map[string]any{"anyOf": []any{out, map[string]any{"type": "null"}}}
	}
	return out
}

func (s *Schema) jsonSchemaBase(defs map[string]any) map[string]any {
	b := s.bounds
	out := map[string]any{}
	switch s.kind {
	case KindString:
		out["type"] = "string"
		if s.format == FormatUUID {
			out["format"] = "uuid"
		}
		setLengths(out, b, "minLength", "maxLength")
		switch len(b.Patterns) {
		case 0:
		case 1:
			out["pattern"] = b.Patterns[0].String()
		default:
			all := make([]any, len(b.Patterns))
			for i, re := range b.Patterns {
				all[i] = map[string]any{"pattern": re.String()}
			}
			out["allOf"] = all
		}
	case KindNumber:
		out["type"] = "number"
		if s.integer {
			out["type"] = "integer"
		}
		setFloat(out, "minimum", b.Min)
		setFloat(out, "maximum", b.Max)
		setFloat(out, "exclusiveMinimum", b.ExclusiveMin)
		setFloat(out, "exclusiveMaximum", b.ExclusiveMax)
	case KindBigInt:
		out["type"] = "integer"
		setBig(out, "minimum", b.BigMin)
		setBig(out, "maximum", b.BigMax)
		setBig(out, "exclusiveMinimum", b.BigExclusiveMin)
		setBig(out, "exclusiveMaximum", b.BigExclusiveMax)
	case KindBoolean:
		out["type"] = "boolean"
	case KindDate:
		out["type"] = "string"
		out["format"] = "date-time"
	case KindBytes:
		out["type"] = "string"
		out["contentEncoding"] = "base64"
	case KindNull:
		out["type"] = "null"
	case KindEnum:
		out["type"] = "string"
		values := make([]any, len(s.values))
		for i, v := range s.values {
			values[i] = v
		}
		out["enum"] = values
	case KindArray:
		out["type"] = "array"
		out["items"] = s.elem.jsonSchema(defs)
		setLengths(out, b, "minItems", "maxItems")
	case KindTuple:
		out["type"] = "array"
		items := make([]any, len(s.items))
		for i, item := range s.items {
			items[i] = item.jsonSchema(defs)
		}
		out["prefixItems"] = items
		out["items"] = false
		out["minItems"] = len(s.items)
		out["maxItems"] = len(s.items)
	case KindObject:
		out["type"] = "object"
		props := make(map[string]any, s.shape.Len())
		required := []any{}
		for key, field := range s.shape.All() {
			props[key] = field.jsonSchema(defs)
			if !field.optional {
				required = append(required, key)
			}
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	case KindRecord:
		out["type"] = "object"
		out["additionalProperties"] = s.elem.jsonSchema(defs)
	case KindUnion:
		anyOf := make([]any, len(s.options))
		for i, opt := range s.options {
			anyOf[i] = opt.jsonSchema(defs)
		}
		out["anyOf"] = anyOf
	}
	return out
}

func setLengths(out map[string]any, b Bounds, minKey, maxKey string) {
	if b.Len != nil {
		out[minKey] = *b.Len
		out[maxKey] = *b.Len
		return
	}
	if b.MinLen != nil {
		out[minKey] = *b.MinLen
	}
	if b.MaxLen != nil {
		out[maxKey] = *b.MaxLen
	}
}

func setFloat(out map[string]any, key string, v *float64) {
	if v != nil {
		out[key] = *v
	}
}

func setBig(out map[string]any, key string, v *big.Int) {
	if v == nil {
		return
	}
	if v.IsInt64() {
		out[key] = v.Int64()
		return
	}
	out[key] = json.Number(v.String())
}
