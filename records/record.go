// Package records holds the unit of data passed between a host and a processor.
package records

// Relationship names the route a result takes out of a processor.
type Relationship string

const (
	RelationshipSuccess Relationship = "success"
)

// Record is one unit of data handed to a processor: an opaque payload and the
// string attributes that templated properties are resolved against.
type Record struct {
	Payload    []byte
	Attributes map[string]string
}

// NewRecord returns a record with a copy of attrs.
func NewRecord(payload []byte, attrs map[string]string) Record {
	return Record{Payload: payload, Attributes: copyAttributes(attrs)}
}

// Attribute returns the named attribute, or "" when absent.
func (r Record) Attribute(name string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[name]
}

// Result is what a processor returns for one record. Err carries a recoverable
// condition; the result is still routed.
type Result struct {
	Relationship Relationship
	Contents     []byte
	Attributes   map[string]string
	Err          error
}

func (r Result) GetAttributes() map[string]string {
	return r.Attributes
}

// AsResult accepts a Result by value or pointer.
func AsResult(event any) (Result, bool) {
	switch v := event.(type) {
	case Result:
		return v, true
	case *Result:
		if v != nil {
			return *v, true
		}
	}
	return Result{}, false
}

func copyAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
