package forceconn

import (
	"context"

	"github.com/creastat/forceconn/schema"
)

// Field is a named value. Builders take fields in the order they should be
// assigned.
type Field struct {
	Name  string
	Value any
}

// Object is a remote object ready to be sent to the Driver.
// FieldsToNull lists fields to clear, which the remote service treats
// differently from fields that are simply omitted.
type Object struct {
	Type         string
	Fields       []Field
	FieldsToNull []string
}

// Get returns the value assigned to field name.
func (o *Object) Get(name string) (any, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set assigns value to field name, keeping the position of an earlier
// assignment.
func (o *Object) Set(name string, value any) {
	for i := range o.Fields {
		if o.Fields[i].Name == name {
			o.Fields[i].Value = value
			return
		}
	}
	o.Fields = append(o.Fields, Field{Name: name, Value: value})
}

// ObjectBuilder builds Objects from logical field names.
type ObjectBuilder struct {
	resolver *schema.Resolver
}

// NewObjectBuilder creates an ObjectBuilder resolving names with resolver.
func NewObjectBuilder(resolver *schema.Resolver) *ObjectBuilder {
	return &ObjectBuilder{resolver: resolver}
}

// Build resolves each logical name in values against typeName. Nil and
// empty string values are added to FieldsToNull instead of being assigned.
func (b *ObjectBuilder) Build(ctx context.Context, typeName string, values []Field) (*Object, error) {
	obj := &Object{Type: typeName}
	for _, v := range values {
		field, err := b.resolver.Resolve(ctx, typeName, v.Name)
		if err != nil {
			return nil, err
		}

		if isNull(v.Value) {
			obj.FieldsToNull = append(obj.FieldsToNull, field)
			continue
		}
		obj.Set(field, v.Value)
	}
	return obj, nil
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
