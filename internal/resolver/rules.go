package resolver

import (
	"fmt"
	"strings"
)

// View file suffixes.
const (
	ViewSuffix      = ".view"
	QueryViewSuffix = ".query.view"
)

// DefaultSchema is the schema tried when a view's schema is not yet known.
const DefaultSchema = "PUBLIC"

// Backing says whether a view reads from a table or from a custom query.
type Backing int

// Backing values.
const (
	BackingUnknown Backing = iota
	BackingTable
	BackingQuery
)

// String returns the backing name.
func (b Backing) String() string {
	switch b {
	case BackingTable:
		return "table"
	case BackingQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Hint is what is known about a table's view before resolving it.
type Hint struct {
	Schema  string
	Backing Backing
}

// Rule generates zero or more candidate bundle keys for a table.
// defaultSchema stands in for hint.Schema when the schema is unknown.
type Rule struct {
	Name     string
	Generate func(table string, hint Hint, defaultSchema string) []string
}

// Rule names.
const (
	RuleQualifiedView  = "qualified-view"
	RuleView           = "view"
	RuleQualifiedQuery = "qualified-query"
	RuleQuery          = "query"
)

// DefaultRules returns the candidate rules in resolution order:
//
//	{schema}/{table}.view
//	{table}.view
//	{schema}/{table}.query.view
//	{table}.query.view
//
// Table-suffix rules are skipped for query-backed views and query-suffix
// rules for table-backed ones.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleQualifiedView, Generate: qualified(ViewSuffix, BackingQuery)},
		{Name: RuleView, Generate: bare(ViewSuffix, BackingQuery)},
		{Name: RuleQualifiedQuery, Generate: qualified(QueryViewSuffix, BackingTable)},
		{Name: RuleQuery, Generate: bare(QueryViewSuffix, BackingTable)},
	}
}

// RulesByName picks rules from DefaultRules by name, keeping the given order.
// An empty list returns DefaultRules.
func RulesByName(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return DefaultRules(), nil
	}

	byName := make(map[string]Rule)
	for _, r := range DefaultRules() {
		byName[r.Name] = r
	}

	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		r, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown resolver rule %q (available: %s, %s, %s, %s)",
				name, RuleQualifiedView, RuleView, RuleQualifiedQuery, RuleQuery)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func qualified(suffix string, skip Backing) func(string, Hint, string) []string {
	return func(table string, hint Hint, defaultSchema string) []string {
		if hint.Backing == skip {
			return nil
		}
		schema := hint.Schema
		if schema == "" {
			schema = defaultSchema
		}
		if schema == "" {
			return nil
		}
		return []string{schema + "/" + table + suffix}
	}
}

func bare(suffix string, skip Backing) func(string, Hint, string) []string {
	return func(table string, hint Hint, _ string) []string {
		if hint.Backing == skip {
			return nil
		}
		return []string{table + suffix}
	}
}
