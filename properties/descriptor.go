// Package properties describes processor configuration and resolves
// attribute expressions against records.
package properties

import (
	"fmt"
	"slices"
)

// ExpressionScope controls whether a property value may reference record
// attributes.
type ExpressionScope int

const (
	ScopeNone ExpressionScope = iota
	ScopeRecordAttributes
)

type Descriptor struct {
	Name            string
	Description     string
	Required        bool
	Sensitive       bool
	DefaultValue    string
	AllowableValues []string
	ExpressionScope ExpressionScope
	// Validator replaces the AllowableValues check when set, for properties
	// that accept more spellings than they list.
	Validator func(string) error
}

// validate checks a raw configured value. Expression-scoped values are only
// known per record, so their allowable set is not checked here.
func (d Descriptor) validate(raw string, set bool) error {
	if !set || raw == "" {
		if d.Required && d.DefaultValue == "" {
			return fmt.Errorf("property %q is required", d.Name)
		}
		return nil
	}
	if d.ExpressionScope != ScopeNone {
		return nil
	}
	if d.Validator != nil {
		if err := d.Validator(raw); err != nil {
			return fmt.Errorf("property %q: %w", d.Name, err)
		}
		return nil
	}
	if len(d.AllowableValues) > 0 && !slices.Contains(d.AllowableValues, raw) {
		return fmt.Errorf("property %q: %q is not one of %v", d.Name, raw, d.AllowableValues)
	}
	return nil
}
