package domain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field names a column of the inventory table
type Field string

const (
	FieldPosition Field = "position"
	FieldElement  Field = "Element"
	FieldSystem   Field = "System"
	FieldModel    Field = "Model"
)

// Fields lists the inventory columns in display order
var Fields = []Field{FieldPosition, FieldElement, FieldSystem, FieldModel}

// DefaultColumns is the header written when no header was ever loaded
var DefaultColumns = []string{
	string(FieldPosition), string(FieldElement), string(FieldSystem), string(FieldModel),
}

// ParseField resolves a column name case-insensitively
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(strings.TrimSpace(name), string(f)) {
			return f, true
		}
	}
	return "", false
}

// InventoryRow is one row of the component inventory
type InventoryRow struct {
	Position string // 1-based ordinal as text, e.g., "3"
	Element  string // e.g., "Mirror1"
	System   string // e.g., "Laser"
	Model    string // e.g., "M1"

	// Extra holds columns outside the four known fields so they survive a round trip
	Extra map[string]string
}

// Get returns the value of a field
func (r InventoryRow) Get(f Field) string {
	switch f {
	case FieldPosition:
		return r.Position
	case FieldElement:
		return r.Element
	case FieldSystem:
		return r.System
	case FieldModel:
		return r.Model
	}
	return ""
}

// Set updates a field in place
func (r *InventoryRow) Set(f Field, value string) {
	switch f {
	case FieldPosition:
		r.Position = value
	case FieldElement:
		r.Element = value
	case FieldSystem:
		r.System = value
	case FieldModel:
		r.Model = value
	}
}

// Clone returns a copy that shares no maps with r
func (r InventoryRow) Clone() InventoryRow {
	out := r
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Component returns the node payload for a row dropped on the canvas
func (r InventoryRow) Component() ComponentData {
	return ComponentData{
		Label:  r.Element,
		System: r.System,
		Model:  r.Model,
	}
}

// RowTable is a decoded inventory document: header order plus rows
type RowTable struct {
	Columns []string
	Rows    []InventoryRow
}

// DecodeRows parses delimited text with a header line. Empty lines are skipped
// but delimiter-only records are kept, short records are padded with empty
// values, and rows without a position get their 1-based index.
func DecodeRows(raw string) (RowTable, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return RowTable{Columns: append([]string(nil), DefaultColumns...)}, nil
	}
	if err != nil {
		return RowTable{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := RowTable{Columns: columns}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RowTable{}, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, decodeRecord(columns, record))
	}

	if !hasColumn(table.Columns, FieldPosition) {
		table.Columns = append(table.Columns, string(FieldPosition))
	}
	for i := range table.Rows {
		if table.Rows[i].Position == "" {
			table.Rows[i].Position = strconv.Itoa(i + 1)
		}
	}
	return table, nil
}

func decodeRecord(columns, record []string) InventoryRow {
	var row InventoryRow
	for i, col := range columns {
		value := ""
		if i < len(record) {
			value = record[i]
		}
		if f, ok := ParseField(col); ok {
			row.Set(f, value)
			continue
		}
		if col == "" {
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]string)
		}
		row.Extra[col] = value
	}
	return row
}

func hasColumn(columns []string, f Field) bool {
	for _, c := range columns {
		if strings.EqualFold(c, string(f)) {
			return true
		}
	}
	return false
}

// EncodeRows serializes rows under the given header so DecodeRows reproduces them
func EncodeRows(columns []string, rows []InventoryRow) (string, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			if f, ok := ParseField(col); ok {
				record[i] = row.Get(f)
			} else {
				record[i] = row.Extra[col]
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
