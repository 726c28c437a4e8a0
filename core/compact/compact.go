package compact

import (
	"strings"

	"github.com/leofalp/structo/schema"
)

// placeholder is rendered for node kinds the compactor does not understand.
// The compact text only feeds a prompt, so an unknown kind must degrade to
// something harmless instead of failing the whole call.
const placeholder = "any"

// Compact renders s as a minimal single-line type expression suitable for
// embedding in a prompt, e.g.
//
//	{ character: string, lines: string[], mood: 'happy' | 'sad' }
//
// Objects list their properties in declared order, arrays render as T[],
// enums as quoted literals joined by " | ". Numbers and integers both render
// as "float": the compact text carries no integer distinction, validation
// still checks the precise type. Optional properties are listed like any
// other; only full validation enforces required/optional.
//
// Compact is pure and deterministic: equal schemas always produce identical
// strings. It never fails for a structurally valid schema.
func Compact(s *schema.Schema) string {
	var b strings.Builder
	write(&b, s)
	return b.String()
}

func write(b *strings.Builder, s *schema.Schema) {
	if s == nil {
		b.WriteString(placeholder)
		return
	}

	switch s.Kind {
	case schema.KindObject:
		b.WriteString("{")
		for i, prop := range s.Properties {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(" ")
			b.WriteString(prop.Name)
			b.WriteString(": ")
			write(b, prop.Schema)
		}
		b.WriteString(" }")

	case schema.KindArray:
		write(b, s.Items)
		b.WriteString("[]")

	case schema.KindString:
		b.WriteString("string")

	case schema.KindNumber, schema.KindInteger:
		b.WriteString("float")

	case schema.KindBoolean:
		b.WriteString("boolean")

	case schema.KindEnum:
		for i, v := range s.Values {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("'")
			b.WriteString(v)
			b.WriteString("'")
		}
		if len(s.Values) == 0 {
			b.WriteString("string")
		}

	case schema.KindOptional:
		write(b, s.Elem)

	default:
		b.WriteString(placeholder)
	}
}
