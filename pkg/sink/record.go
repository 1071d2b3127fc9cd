package sink

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Record is one document submitted to the sink.
type Record struct {
	Index string `json:"index"`
	Type  string `json:"type"`
	ID    string `json:"id"`
	Body  any    `json:"body"`
}

// ActionMeta is the action descriptor of one bulk entry.
type ActionMeta struct {
	Index string
	Type  string
	ID    string
}

// BulkAction pairs an action descriptor with the document it applies to.
type BulkAction struct {
	Meta ActionMeta
	Body any
}

var validate = validator.New()

// Validate checks index, type, id and body in that order and returns a
// *ValidationError naming the first one missing. The body is only checked
// for presence; its own fields and tags are never inspected.
func (r Record) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"index", r.Index},
		{"type", r.Type},
		{"id", r.ID},
	}
	for _, f := range fields {
		if err := validate.Var(f.value, "required"); err != nil {
			return &ValidationError{Field: f.name}
		}
	}

	if isNil(r.Body) {
		return &ValidationError{Field: "body"}
	}
	return nil
}

// isNil reports a missing body: untyped nil or a nil pointer, map, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// action converts the record into its bulk representation.
func (r Record) action() BulkAction {
	return BulkAction{
		Meta: ActionMeta{
			Index: r.Index,
			Type:  r.Type,
			ID:    r.ID,
		},
		Body: r.Body,
	}
}
