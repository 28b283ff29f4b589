// Package fields turns view definitions into a flat field catalog.
package fields

import (
	"fmt"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// Kind classifies a field record.
type Kind string

// Field kinds.
const (
	KindDimension  Kind = "dimension"
	KindMeasure    Kind = "measure"
	KindUnresolved Kind = "unresolved"
)

// FieldRecord is one dimension or measure of a view, tagged with the table
// it was collected from.
type FieldRecord struct {
	Name           string `json:"name"`
	Kind           Kind   `json:"kind"`
	SQL            string `json:"sql"`
	Description    string `json:"description"`
	SourceTable    string `json:"source_table"`
	FullDefinition string `json:"full_definition"`
}

// Extract lists the dimensions and then the measures of view, each group in
// declared order. A view without either section yields no records.
func Extract(view *yamltree.Node, table string) ([]FieldRecord, error) {
	var records []FieldRecord

	for _, e := range view.Get("dimensions").Entries() {
		rec, err := newRecord(e, KindDimension, e.Value.StringValue("sql"), table)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	for _, e := range view.Get("measures").Entries() {
		rec, err := newRecord(e, KindMeasure, measureSQL(e.Value), table)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func newRecord(e yamltree.Entry, kind Kind, sql, table string) (FieldRecord, error) {
	def, err := yamltree.EncodeEntry(e.Key, e.Value)
	if err != nil {
		return FieldRecord{}, fmt.Errorf("field %s.%s: %w", table, e.Key, err)
	}
	return FieldRecord{
		Name:           e.Key,
		Kind:           kind,
		SQL:            sql,
		Description:    e.Value.StringValue("description"),
		SourceTable:    table,
		FullDefinition: def,
	}, nil
}

// measureSQL wraps the measure's expression in its aggregate, if any.
func measureSQL(def *yamltree.Node) string {
	sql := def.StringValue("sql")
	agg := def.StringValue("aggregate_type")
	switch {
	case agg != "" && sql != "":
		return agg + "(" + sql + ")"
	case agg != "":
		return agg
	default:
		return sql
	}
}
