package properties

import (
	"errors"
	"io"
	"strings"

	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/valyala/fasttemplate"
)

const (
	expressionStart = "${"
	expressionEnd   = "}"
)

// Value is an evaluated property. An empty evaluation counts as absent.
type Value struct {
	value string
}

func (v Value) String() string {
	return v.value
}

func (v Value) IsSet() bool {
	return v.value != ""
}

// Context holds the raw configured values of a processor's properties, keyed
// by descriptor name.
type Context struct {
	descriptors []Descriptor
	values      map[string]string
}

func NewContext(descriptors []Descriptor, values map[string]string) *Context {
	if values == nil {
		values = map[string]string{}
	}
	return &Context{descriptors: descriptors, values: values}
}

// Validate reports every descriptor whose configured value is missing or not
// allowed.
func (c *Context) Validate() error {
	var errs []error
	for _, d := range c.descriptors {
		raw, ok := c.values[d.Name]
		if err := d.validate(raw, ok); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Raw returns the configured value, falling back to the descriptor default.
func (c *Context) Raw(d Descriptor) string {
	if raw, ok := c.values[d.Name]; ok && raw != "" {
		return raw
	}
	return d.DefaultValue
}

// Evaluate resolves the property for one record. ${name} tags are replaced
// with the record attribute of that name; unknown attributes become "".
func (c *Context) Evaluate(d Descriptor, record records.Record) Value {
	raw := c.Raw(d)
	if d.ExpressionScope != ScopeRecordAttributes {
		return Value{value: raw}
	}
	return Value{value: Expand(raw, record.Attributes)}
}

// Expand replaces ${name} tags in template with values from attrs.
func Expand(template string, attrs map[string]string) string {
	if !strings.Contains(template, expressionStart) {
		return template
	}
	return fasttemplate.ExecuteFuncString(template, expressionStart, expressionEnd, func(w io.Writer, tag string) (int, error) {
		return w.Write([]byte(attrs[strings.TrimSpace(tag)]))
	})
}
