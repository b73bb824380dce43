// Package config parses and validates comparison grid report documents.
// Validation is a single fail-fast pass producing domain.ConfigError values
// whose line numbers point back into the source YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
	"github.com/Ro-Data/compgrid/pkg/window"
)

// ColumnKind tags the closed set of column flavors.
type ColumnKind string

const (
	ColumnNumber    ColumnKind = "number"
	ColumnPctChange ColumnKind = "pctchange"
	ColumnSparkline ColumnKind = "sparkline"
)

// ColumnDefinition is one declared grid column. Value is meaningful for
// number and pctchange columns, Base only for pctchange, Days only for
// sparkline.
type ColumnDefinition struct {
	Kind  ColumnKind
	Name  string
	Value window.Spec
	Base  window.Spec
	Days  int
	Line  int
}

// RowDefinition is one declared grid row. Fields captures every row key
// verbatim for field goal lookups.
type RowDefinition struct {
	Name   string
	Query  string
	Type   domain.DisplayType
	Style  domain.Style
	Fields map[string]any
	Line   int
}

// Document is a validated report configuration. Meta holds the top-level
// scalar keys other than columns and rows (title, email, slack and any
// extras), with Title/Email/Slack exposed directly for convenience.
type Document struct {
	Name     string
	Title    string
	Email    string
	Slack    string
	Meta     map[string]string
	Columns  []ColumnDefinition
	Rows     []RowDefinition
	Dir      string
	Filename string
}

const defaultSparklineDays = 30

// Parse validates a raw document. filename is attached to any ConfigError
// for diagnostics; it may be empty for in-memory documents.
func Parse(data []byte, filename string) (*Document, error) {
	doc, err := parse(data)
	if err != nil {
		if cerr, ok := err.(*domain.ConfigError); ok && cerr.Filename == "" {
			cerr.Filename = filename
		}
		return nil, err
	}
	doc.Filename = filename
	return doc, nil
}

// Load reads and validates a document from disk, then resolves each row
// query: values ending in .sql are read from a file relative to the config
// directory, anything else is taken as inline SQL. The config directory is
// recorded for later field goal query resolution.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	doc.Dir = filepath.Dir(path)

	for i := range doc.Rows {
		query := doc.Rows[i].Query
		if !strings.HasSuffix(query, ".sql") {
			continue
		}
		queryPath := query
		if !filepath.IsAbs(queryPath) {
			queryPath = filepath.Join(doc.Dir, queryPath)
		}
		sql, err := os.ReadFile(queryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read row query %s: %w", queryPath, err)
		}
		doc.Rows[i].Query = string(sql)
	}

	return doc, nil
}

func parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &domain.ConfigError{Message: err.Error(), Line: 1}
	}

	top := documentMapping(&root)
	if top == nil || lookup(top, "name") == nil {
		return nil, &domain.ConfigError{Message: "missing toplevel name attribute", Line: 1}
	}

	columns := lookup(top, "columns")
	if columns == nil {
		return nil, &domain.ConfigError{Message: "missing toplevel columns attribute", Line: 1}
	}
	if columns.Kind != yaml.SequenceNode {
		return nil, &domain.ConfigError{Message: "columns must be a list", Line: 1}
	}

	doc := &Document{Meta: map[string]string{}}
	if err := parseToplevel(top, doc); err != nil {
		return nil, err
	}

	for _, node := range columns.Content {
		col, err := parseColumn(node)
		if err != nil {
			return nil, err
		}
		doc.Columns = append(doc.Columns, col)
	}

	if rows := lookup(top, "rows"); rows != nil {
		if rows.Kind != yaml.SequenceNode {
			return nil, &domain.ConfigError{Message: "rows must be a list", Line: 1}
		}
		for _, node := range rows.Content {
			row, err := parseRow(node)
			if err != nil {
				return nil, err
			}
			doc.Rows = append(doc.Rows, row)
		}
	}

	return doc, nil
}

func parseToplevel(top *yaml.Node, doc *Document) error {
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		if key.Value == "columns" || key.Value == "rows" {
			continue
		}
		if value.Kind != yaml.ScalarNode {
			continue
		}
		doc.Meta[key.Value] = value.Value
	}
	doc.Name = doc.Meta["name"]
	doc.Title = doc.Meta["title"]
	doc.Email = doc.Meta["email"]
	doc.Slack = doc.Meta["slack"]
	return nil
}

func parseColumn(node *yaml.Node) (ColumnDefinition, error) {
	line := node.Line

	typeNode := lookup(node, "type")
	if typeNode == nil {
		return ColumnDefinition{}, &domain.ConfigError{
			Message: "missing type attribute for column", Line: line,
		}
	}

	switch ColumnKind(typeNode.Value) {
	case ColumnNumber:
		name, value, err := requireNameValue(node, line)
		if err != nil {
			return ColumnDefinition{}, err
		}
		spec, err := window.Parse(value, line)
		if err != nil {
			return ColumnDefinition{}, err
		}
		return ColumnDefinition{Kind: ColumnNumber, Name: name, Value: spec, Line: line}, nil

	case ColumnPctChange:
		name, value, err := requireNameValue(node, line)
		if err != nil {
			return ColumnDefinition{}, err
		}
		baseNode := lookup(node, "base")
		if baseNode == nil {
			return ColumnDefinition{}, &domain.ConfigError{
				Message: "missing base attribute for column", Line: line,
			}
		}
		valueSpec, err := window.Parse(value, line)
		if err != nil {
			return ColumnDefinition{}, err
		}
		baseSpec, err := window.Parse(baseNode.Value, line)
		if err != nil {
			return ColumnDefinition{}, err
		}
		return ColumnDefinition{
			Kind: ColumnPctChange, Name: name, Value: valueSpec, Base: baseSpec, Line: line,
		}, nil

	case ColumnSparkline:
		col := ColumnDefinition{Kind: ColumnSparkline, Days: defaultSparklineDays, Line: line}
		if nameNode := lookup(node, "name"); nameNode != nil {
			col.Name = nameNode.Value
		}
		if daysNode := lookup(node, "days"); daysNode != nil {
			var days int
			if err := daysNode.Decode(&days); err == nil {
				col.Days = days
			}
		}
		return col, nil
	}

	return ColumnDefinition{}, &domain.ConfigError{
		Message: fmt.Sprintf("unknown column type '%s'", typeNode.Value), Line: line,
	}
}

func requireNameValue(node *yaml.Node, line int) (string, string, error) {
	nameNode := lookup(node, "name")
	if nameNode == nil {
		return "", "", &domain.ConfigError{Message: "missing name attribute for column", Line: line}
	}
	valueNode := lookup(node, "value")
	if valueNode == nil {
		return "", "", &domain.ConfigError{Message: "missing value attribute for column", Line: line}
	}
	return nameNode.Value, valueNode.Value, nil
}

func parseRow(node *yaml.Node) (RowDefinition, error) {
	line := node.Line

	nameNode := lookup(node, "name")
	if nameNode == nil {
		return RowDefinition{}, &domain.ConfigError{Message: "missing name attribute for row", Line: line}
	}
	queryNode := lookup(node, "query")
	if queryNode == nil {
		return RowDefinition{}, &domain.ConfigError{Message: "missing query attribute for row", Line: line}
	}

	displayType := domain.DisplayFloat
	if typeNode := lookup(node, "type"); typeNode != nil {
		displayType = domain.DisplayType(typeNode.Value)
		switch displayType {
		case domain.DisplayNumber, domain.DisplayFloat, domain.DisplayPercent, domain.DisplayCurrency:
		default:
			return RowDefinition{}, &domain.ConfigError{
				Message: fmt.Sprintf("unknown row type '%s'", typeNode.Value), Line: line,
			}
		}
	}

	style := domain.StylePositiveGreen
	if styleNode := lookup(node, "style"); styleNode != nil {
		style = domain.Style(styleNode.Value)
		if !domain.KnownStyle(style) {
			return RowDefinition{}, &domain.ConfigError{
				Message: fmt.Sprintf("unknown row style '%s'", styleNode.Value), Line: line,
			}
		}
	}

	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		fields = map[string]any{}
	}

	return RowDefinition{
		Name:   nameNode.Value,
		Query:  queryNode.Value,
		Type:   displayType,
		Style:  style,
		Fields: fields,
		Line:   line,
	}, nil
}

// documentMapping unwraps the document node down to its top-level mapping,
// returning nil when the document is empty or not a mapping.
func documentMapping(root *yaml.Node) *yaml.Node {
	node := root
	for node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func lookup(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
