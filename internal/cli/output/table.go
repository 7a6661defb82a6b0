package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/knadh/koanf/maps"
	"gopkg.in/yaml.v3"
)

// TableFormatter renders data as a KEY/VALUE table.
type TableFormatter struct {
	NoHeaders bool
}

// Format renders a *Table as is and flattens anything else.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := Flatten(data)
	if err != nil {
		return err
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

// Flatten converts data into a KEY/VALUE table sorted by key. Nested
// mappings become dotted keys built from yaml field names (server.bind).
func Flatten(data any) (*Table, error) {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("flatten: value is not a mapping: %w", err)
	}

	flat, _ := maps.Flatten(tree, nil, ".")
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	table := &Table{Headers: []string{"KEY", "VALUE"}}
	for _, k := range keys {
		table.AddRow(k, formatValue(flat[k]))
	}
	return table, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case []any:
		if len(val) == 0 {
			return "-"
		}
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table, optionally without headers.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
