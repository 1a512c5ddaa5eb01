package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/theme"
)

// Output formats of the data commands.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTOML  = "toml"
)

var outputFormats = []string{outputTable, outputJSON, outputYAML, outputTOML}

// renderRecords formats a list. The table format uses the list columns of
// the domain; the others print the raw records.
func (a *app) renderRecords(dom domain.Domain, recs []record.Record, format string) (string, error) {
	if recs == nil {
		recs = []record.Record{}
	}
	switch strings.ToLower(format) {
	case outputTable:
		cols := a.dispatcher.Catalog().ListConfig(dom, nil).Columns
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = c.Label
		}
		rows := make([][]string, len(recs))
		for i, r := range recs {
			row := make([]string, len(cols))
			for j, c := range cols {
				row[j] = c.Display(r)
			}
			rows[i] = row
		}
		return renderTable(a.styles, headers, rows) + fmt.Sprintf("%d %s\n", len(recs), dom), nil
	case outputTOML:
		// TOML documents are tables, so the list is keyed by its domain.
		return encode(format, map[string]any{dom.String(): recs})
	}
	return encode(format, recs)
}

// renderRecord formats one record. The table format lists the item fields
// of the domain.
func (a *app) renderRecord(dom domain.Domain, r record.Record, format string) (string, error) {
	if strings.ToLower(format) != outputTable {
		return encode(format, map[string]any(r))
	}
	fields := a.dispatcher.Catalog().ItemFields(dom)
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Label, f.Display(r)})
	}
	return renderTable(a.styles, []string{"Field", "Value"}, rows), nil
}

func encode(format string, v any) (string, error) {
	switch strings.ToLower(format) {
	case outputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(b) + "\n", nil
	case outputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return string(b), nil
	case outputTOML:
		b, err := toml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode toml: %w", err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(outputFormats, ", "))
}

func renderTable(styles theme.Styles, headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	border := lipgloss.NewStyle()
	if !styles.NoColor {
		header = header.Foreground(styles.Theme.HeaderFG)
		border = border.Foreground(styles.Theme.Border)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String() + "\n"
}
