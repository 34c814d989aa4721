package world

import "fmt"

// Value is a sealed interface over the types a fact may hold.
// Only EntityValue, StringValue, IntValue, and BoolValue implement it.
// No floats - fractional values would break deterministic export.
type Value interface {
	factValue() // Sealed - only these types implement it
}

// EntityValue wraps an entity reference. Relation facts (is_in, has,
// prev, ...) hold EntityValues and become edges in graph export.
type EntityValue struct {
	Entity *Entity
}

func (EntityValue) factValue() {}

// StringValue is a literal string value.
type StringValue string

func (StringValue) factValue() {}

// IntValue is an integer value. Always int64.
type IntValue int64

func (IntValue) factValue() {}

// BoolValue is a boolean value.
type BoolValue bool

func (BoolValue) factValue() {}

// Ref wraps an entity as a fact value.
func Ref(e *Entity) EntityValue {
	return EntityValue{Entity: e}
}

// Equal compares two fact values. Entity references compare by identity,
// scalars by value. Values of different concrete types are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case EntityValue:
		bv, ok := b.(EntityValue)
		return ok && av.Entity == bv.Entity
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	default:
		return false
	}
}

// Label renders a value for description output, expectation matching,
// and error messages. Entities render as their name.
func Label(v Value) string {
	switch val := v.(type) {
	case EntityValue:
		if val.Entity == nil {
			return "<nil>"
		}
		return val.Entity.Name
	case StringValue:
		return string(val)
	case IntValue:
		return fmt.Sprintf("%d", int64(val))
	case BoolValue:
		return fmt.Sprintf("%t", bool(val))
	default:
		return fmt.Sprintf("<%T>", v)
	}
}
