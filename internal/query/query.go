package query

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

var reserved = map[string]bool{"page": true, "sort": true, "limit": true, "fields": true}

var operatorKey = regexp.MustCompile(`^([A-Za-z0-9_]+)\[([a-z]+)\]$`)

type Filter struct {
	Column string
	Op     string // eq, in, gte, gt, lte, lt
	Values []any
}

type Order struct {
	Column string
	Desc   bool
}

// Query is a parsed request. Its four stages are gorm scopes that only read
// the parsed values, so they can be applied in any order.
type Query struct {
	Filters []Filter
	Sort    []Order
	Fields  []string
	Page    int
	Limit   int

	columns []string
	pageSet bool
}

// Parse validates params against the schema.
func (s *Schema) Parse(params url.Values) (*Query, error) {
	q := &Query{Page: DefaultPage, Limit: DefaultLimit}

	for key, values := range params {
		if reserved[key] || len(values) == 0 {
			continue
		}
		f, err := s.parseFilter(key, values)
		if err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, f)
	}

	if raw := params.Get("sort"); raw != "" {
		orders, err := s.parseSort(raw)
		if err != nil {
			return nil, err
		}
		q.Sort = orders
	} else {
		q.Sort = s.defaultSort
	}

	if raw := params.Get("fields"); raw != "" {
		if err := s.parseFields(q, raw); err != nil {
			return nil, err
		}
	}

	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, httperr.BadRequest("page must be a positive integer")
		}
		q.Page, q.pageSet = n, true
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLimit {
			return nil, httperr.BadRequest(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
		}
		q.Limit = n
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return nil, httperr.BadRequest("page is out of range")
	}

	return q, nil
}

func (s *Schema) parseFilter(key string, values []string) (Filter, error) {
	name, op := key, "eq"
	if m := operatorKey.FindStringSubmatch(key); m != nil {
		name, op = m[1], m[2]
		switch op {
		case "gte", "gt", "lte", "lt":
		default:
			return Filter{}, httperr.BadRequest(fmt.Sprintf("Unsupported operator %q on %s", op, name))
		}
	}

	field, ok := s.fields[name]
	if !ok || field.Kind == KindOther {
		return Filter{}, httperr.BadRequest(fmt.Sprintf("Invalid filter field: %s", name))
	}
	if op != "eq" && (field.Kind == KindBool || field.Kind == KindUUID) {
		return Filter{}, httperr.BadRequest(fmt.Sprintf("Range filters are not supported on %s", name))
	}

	if op == "eq" && s.multi[name] && len(values) > 1 {
		vals := make([]any, 0, len(values))
		for _, raw := range values {
			v, err := coerce(field, raw)
			if err != nil {
				return Filter{}, err
			}
			vals = append(vals, v)
		}
		return Filter{Column: field.Column, Op: "in", Values: vals}, nil
	}

	v, err := coerce(field, values[len(values)-1])
	if err != nil {
		return Filter{}, err
	}
	return Filter{Column: field.Column, Op: op, Values: []any{v}}, nil
}

func coerce(f Field, raw string) (any, error) {
	invalid := func() error {
		return httperr.BadRequest(fmt.Sprintf("Invalid value for %s: %s", f.Name, raw))
	}
	switch f.Kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, invalid()
		}
		return n, nil
	case KindFloat:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalid()
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid()
		}
		return b, nil
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, invalid()
		}
		return t, nil
	case KindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, httperr.InvalidID(raw, err)
		}
		return id, nil
	}
	return raw, nil
}

func (s *Schema) parseSort(raw string) ([]Order, error) {
	var orders []Order
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		field, ok := s.fields[name]
		if !ok || field.Kind == KindOther {
			return nil, httperr.BadRequest(fmt.Sprintf("Invalid sort field: %s", name))
		}
		orders = append(orders, Order{Column: field.Column, Desc: desc})
	}
	return orders, nil
}

func (s *Schema) parseFields(q *Query, raw string) error {
	q.Fields = []string{"id"}
	q.columns = []string{s.fields["id"].Column}
	seen := map[string]bool{"id": true}

	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		field, ok := s.fields[name]
		if !ok {
			return httperr.BadRequest(fmt.Sprintf("Invalid field: %s", name))
		}
		seen[name] = true
		q.Fields = append(q.Fields, name)
		q.columns = append(q.columns, field.Column)
	}
	return nil
}

// ======================================================
// SCOPES
// ======================================================

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func (q *Query) Filter(tx *gorm.DB) *gorm.DB {
	if len(q.Filters) == 0 {
		return tx
	}
	exprs := make([]clause.Expression, 0, len(q.Filters))
	for _, f := range q.Filters {
		col := column(f.Column)
		switch f.Op {
		case "in":
			exprs = append(exprs, clause.IN{Column: col, Values: f.Values})
		case "gte":
			exprs = append(exprs, clause.Gte{Column: col, Value: f.Values[0]})
		case "gt":
			exprs = append(exprs, clause.Gt{Column: col, Value: f.Values[0]})
		case "lte":
			exprs = append(exprs, clause.Lte{Column: col, Value: f.Values[0]})
		case "lt":
			exprs = append(exprs, clause.Lt{Column: col, Value: f.Values[0]})
		default:
			exprs = append(exprs, clause.Eq{Column: col, Value: f.Values[0]})
		}
	}
	return tx.Clauses(clause.Where{Exprs: exprs})
}

func (q *Query) Order(tx *gorm.DB) *gorm.DB {
	for _, o := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: column(o.Column), Desc: o.Desc})
	}
	return tx
}

func (q *Query) Select(tx *gorm.DB) *gorm.DB {
	if len(q.columns) == 0 {
		return tx
	}
	return tx.Select(q.columns)
}

func (q *Query) Paginate(tx *gorm.DB) *gorm.DB {
	return tx.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
}

// Apply runs every stage.
func (q *Query) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Scopes(q.Filter, q.Order, q.Select, q.Paginate)
}

// CheckPage fails with 404 when an explicitly requested page starts past
// the last matching row. base must carry the model and any fixed scopes.
func (q *Query) CheckPage(base *gorm.DB) error {
	skip := (q.Page - 1) * q.Limit
	if !q.pageSet || skip == 0 {
		return nil
	}
	var total int64
	if err := base.Scopes(q.Filter).Count(&total).Error; err != nil {
		return err
	}
	if int64(skip) >= total {
		return httperr.NotFound("This page does not exist")
	}
	return nil
}

// Project drops every json key that was not selected. Without a field
// selection items is returned unchanged.
func (q *Query) Project(items any) (any, error) {
	if len(q.Fields) == 0 {
		return items, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		for k := range doc {
			if !q.selected(k) {
				delete(doc, k)
			}
		}
	}
	return docs, nil
}

func (q *Query) selected(name string) bool {
	for _, f := range q.Fields {
		if f == name {
			return true
		}
	}
	return false
}
