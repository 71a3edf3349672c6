package query

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/schema"
)

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindUUID
	KindOther
)

// Field is one column reachable from the query string by its json name.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// Schema is the allow-list of filterable, sortable and selectable fields of
// one model, derived from its gorm and json tags.
type Schema struct {
	fields      map[string]Field
	multi       map[string]bool
	defaultSort []Order
}

type Option func(*Schema)

// WithMultiValue lets repeated values of the field become an IN filter.
// Repeated values of any other field keep only the last one.
func WithMultiValue(names ...string) Option {
	return func(s *Schema) {
		for _, n := range names {
			s.multi[n] = true
		}
	}
}

func WithDefaultSort(raw string) Option {
	return func(s *Schema) {
		if orders, err := s.parseSort(raw); err == nil {
			s.defaultSort = orders
		}
	}
}

var schemaCache sync.Map

func NewSchema(model any, opts ...Option) (*Schema, error) {
	parsed, err := schema.Parse(model, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	s := &Schema{fields: map[string]Field{}, multi: map[string]bool{}}

	for _, f := range parsed.Fields {
		if f.DBName == "" || f.DataType == "" {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		s.fields[name] = Field{Name: name, Column: f.DBName, Kind: kindOf(f.FieldType)}
	}

	if _, ok := s.fields["createdAt"]; ok {
		s.defaultSort = []Order{{Column: s.fields["createdAt"].Column, Desc: true}}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func MustSchema(model any, opts ...Option) *Schema {
	s, err := NewSchema(model, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

func kindOf(t reflect.Type) Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == timeType:
		return KindTime
	case t == uuidType:
		return KindUUID
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	}
	return KindOther
}
