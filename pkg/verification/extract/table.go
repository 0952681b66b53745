package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Table is a parsed grid whose first row is the header
type Table struct {
	Name string
	Rows [][]string
}

// Clean trims every cell and drops rows whose cells are all empty
func (t Table) Clean() Table {
	out := Table{Name: t.Name, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		cleaned := make([]string, len(row))
		empty := true
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
			if cleaned[i] != "" {
				empty = false
			}
		}
		if !empty {
			out.Rows = append(out.Rows, cleaned)
		}
	}
	return out
}

// Render prints the table as aligned plain text
func (t Table) Render() string {
	if len(t.Rows) == 0 {
		return ""
	}
	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var buf bytes.Buffer
	if t.Name != "" {
		fmt.Fprintf(&buf, "Sheet: %s\n", t.Name)
	}
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, row := range t.Rows {
		cells := make([]string, width)
		copy(cells, row)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	return buf.String()
}

func renderTables(tables []Table) string {
	var parts []string
	for _, t := range tables {
		if rendered := t.Clean().Render(); rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n")
}

// ParseCSV reads every record, tolerating ragged rows and stray quotes
func ParseCSV(data []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return Table{Rows: rows}, nil
}

// CSVText parses, cleans and renders a CSV document
func CSVText(data []byte) (string, error) {
	table, err := ParseCSV(data)
	if err != nil {
		return "", err
	}
	return renderTables([]Table{table}), nil
}

// XLSXText renders every sheet of an xlsx workbook
func XLSXText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	var tables []Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		tables = append(tables, Table{Name: sheet, Rows: rows})
	}
	return renderTables(tables), nil
}

// XLSText renders every sheet of a legacy xls workbook
func XLSText(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xls: %w", err)
	}

	var tables []Table
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		var rows [][]string
		for _, row := range sheet.GetRows() {
			cols := row.GetCols()
			values := make([]string, 0, len(cols))
			for _, col := range cols {
				val := col.GetString()
				if val == "" {
					if num := col.GetFloat64(); num != 0 {
						val = strconv.FormatFloat(num, 'f', -1, 64)
					} else if in := col.GetInt64(); in != 0 {
						val = strconv.FormatInt(in, 10)
					}
				}
				values = append(values, val)
			}
			rows = append(rows, values)
		}
		tables = append(tables, Table{Name: sheet.GetName(), Rows: rows})
	}
	return renderTables(tables), nil
}
