// Package query translates untrusted query-string input into a safe,
// paginated, sortable, filterable fetch plan for the store.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"
)

// ErrInvalidQuery marks query-string input that cannot be compiled against
// the target model. Handlers translate it to a 400 response.
var ErrInvalidQuery = errors.New("invalid query")

// sqlOperators is the operator whitelist. Only these tokens are ever
// promoted to store-level comparison operators; anything else stays literal
// data no matter where it appears in the input.
var sqlOperators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"in":  "IN",
}

// reservedKeys are control parameters, stripped before filter extraction so
// they can never be interpreted as data filters.
var reservedKeys = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Condition is a single filter: exact match when Op is empty, otherwise one
// of the whitelisted comparison operators.
type Condition struct {
	Field string
	Op    string
	Value string
}

type FilterPlan []Condition

type SortField struct {
	Field string
	Desc  bool
}

// Options is the compiled fetch plan for one list request.
type Options struct {
	Filters FilterPlan
	Fields  []string
	Sort    []SortField
	Page    Page
}

// Parse builds an Options from raw query parameters. It never fails:
// malformed numeric input falls back to defaults, and field names are only
// checked later, against a concrete model, by Apply.
func Parse(values url.Values) *Options {
	opts := &Options{Page: ParsePage(values)}

	for key, raw := range values {
		if reservedKeys[key] || len(raw) == 0 {
			continue
		}
		field, op := parseFilterKey(key)
		opts.Filters = append(opts.Filters, Condition{Field: field, Op: op, Value: raw[0]})
	}

	if sel := values.Get("select"); sel != "" {
		for _, f := range strings.Split(sel, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Fields = append(opts.Fields, f)
			}
		}
	}

	if sort := values.Get("sort"); sort != "" {
		for _, f := range strings.Split(sort, ",") {
			if f = strings.TrimSpace(f); f == "" {
				continue
			}
			sf := SortField{Field: f}
			if strings.HasPrefix(f, "-") {
				sf = SortField{Field: f[1:], Desc: true}
			}
			opts.Sort = append(opts.Sort, sf)
		}
	}

	return opts
}

// parseFilterKey splits "field[op]" into its parts. A bracketed token that
// is not on the operator whitelist is kept as part of the field name, so it
// is treated as literal data and never becomes an operator.
func parseFilterKey(key string) (field, op string) {
	i := strings.IndexByte(key, '[')
	if i <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	token := key[i+1 : len(key)-1]
	if _, ok := sqlOperators[token]; !ok {
		return key, ""
	}
	return key[:i], token
}

// whereClause is one compiled filter ready to hand to the store. The
// expression only ever contains vetted column names and placeholders; user
// input travels exclusively through Args.
type whereClause struct {
	Expr string
	Args []interface{}
}

// compileFilters validates every filter field against the model's columns
// and renders placeholder-bound where clauses.
func (o *Options) compileFilters(model interface{}) ([]whereClause, error) {
	cols := columnsOf(model)
	clauses := make([]whereClause, 0, len(o.Filters))
	for _, c := range o.Filters {
		col, ok := cols[c.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown filter field %q", ErrInvalidQuery, c.Field)
		}
		switch c.Op {
		case "":
			clauses = append(clauses, whereClause{Expr: col + " = ?", Args: []interface{}{c.Value}})
		case "in":
			parts := strings.Split(c.Value, ",")
			clauses = append(clauses, whereClause{Expr: col + " IN ?", Args: []interface{}{parts}})
		default:
			clauses = append(clauses, whereClause{Expr: col + " " + sqlOperators[c.Op] + " ?", Args: []interface{}{c.Value}})
		}
	}
	return clauses, nil
}

// compileSort validates sort fields and renders ORDER BY terms. The default
// is newest first.
func (o *Options) compileSort(model interface{}) ([]string, error) {
	if len(o.Sort) == 0 {
		return []string{"created_at DESC"}, nil
	}
	cols := columnsOf(model)
	terms := make([]string, 0, len(o.Sort))
	for _, s := range o.Sort {
		col, ok := cols[s.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, s.Field)
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		terms = append(terms, col+dir)
	}
	return terms, nil
}

// compileSelect validates projected fields. The id column is always
// included so results stay addressable.
func (o *Options) compileSelect(model interface{}) ([]string, error) {
	if len(o.Fields) == 0 {
		return nil, nil
	}
	cols := columnsOf(model)
	selected := []string{"id"}
	for _, f := range o.Fields {
		col, ok := cols[f]
		if !ok {
			return nil, fmt.Errorf("%w: unknown select field %q", ErrInvalidQuery, f)
		}
		if col != "id" {
			selected = append(selected, col)
		}
	}
	return selected, nil
}

// ApplyFilters compiles the filter plan onto a store query. The returned
// query is suitable both for counting and, once sorted and windowed, for
// fetching.
func (o *Options) ApplyFilters(tx *gorm.DB, model interface{}) (*gorm.DB, error) {
	clauses, err := o.compileFilters(model)
	if err != nil {
		return nil, err
	}
	for _, c := range clauses {
		tx = tx.Where(c.Expr, c.Args...)
	}
	return tx, nil
}

// ApplyShape adds projection, ordering and the pagination window. It must
// run after ApplyFilters and after counting, so ordering stays stable
// across pages.
func (o *Options) ApplyShape(tx *gorm.DB, model interface{}) (*gorm.DB, error) {
	selected, err := o.compileSelect(model)
	if err != nil {
		return nil, err
	}
	if selected != nil {
		tx = tx.Select(selected)
	}

	terms, err := o.compileSort(model)
	if err != nil {
		return nil, err
	}
	for _, t := range terms {
		tx = tx.Order(t)
	}

	return o.Page.Window(tx), nil
}
