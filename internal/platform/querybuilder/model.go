package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel inserts every db-tagged field of model except those in skip.
func InsertModel(table string, model any, suffix string, skip ...string) (string, []any, error) {
	cols, vals, err := columnsAndValues(model, skip)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// UpdateModel sets every db-tagged field of model except those in skip.
func UpdateModel(table string, model any, where []Condition, skip ...string) (string, []any, error) {
	cols, vals, err := columnsAndValues(model, skip)
	if err != nil {
		return "", nil, err
	}
	b := Update(table)
	for i, col := range cols {
		b.Set(col, vals[i])
	}
	return b.Where(where...).ToSQL()
}

// Columns lists the db column names of model, in field order.
func Columns(model any) []string {
	cols, _, err := columnsAndValues(model, nil)
	if err != nil {
		return nil
	}
	return cols
}

func columnsAndValues(model any, skip []string) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, col := range skip {
		skipped[col] = struct{}{}
	}

	var cols []string
	var vals []any
	collectColumns(value, skipped, &cols, &vals)

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

// collectColumns walks db-tagged fields, descending into untagged embedded
// structs so a model can extend another one.
func collectColumns(value reflect.Value, skipped map[string]struct{}, cols *[]string, vals *[]any) {
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" && field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectColumns(value.Field(i), skipped, cols, vals)
			continue
		}
		if col == "" || col == "-" {
			continue
		}
		if _, ok := skipped[col]; ok {
			continue
		}
		*cols = append(*cols, col)
		*vals = append(*vals, value.Field(i).Interface())
	}
}
