package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

// AmbiguousValueError reports a singular query against a property that
// currently holds more than one candidate fact. Either the action/rule
// logic produced conflicting facts an exclusivity declaration should
// have prevented, or the caller needs the plural accessor.
type AmbiguousValueError struct {
	Entity   string
	Property Property
	Values   []string
}

func (e *AmbiguousValueError) Error() string {
	return fmt.Sprintf("ambiguous value for %s.%s: [%s]",
		e.Entity, e.Property, strings.Join(e.Values, ", "))
}

// IsAmbiguous reports whether err is an AmbiguousValueError.
// Uses errors.As to handle wrapped errors.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousValueError
	return errors.As(err, &ae)
}
