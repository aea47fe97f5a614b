package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
)

// renderBody writes a JSON response body in the requested format. Bodies
// that are not JSON are written unchanged.
func renderBody(w io.Writer, body []byte, format string, columns []string) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var decoded interface{}

	err := json.Unmarshal(body, &decoded)
	if err != nil {
		_, err = w.Write(append(body, '\n'))

		return err
	}

	switch format {
	case constants.FormatJSON:
		var buf bytes.Buffer

		err = json.Indent(&buf, body, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}

		buf.WriteByte('\n')

		_, err = buf.WriteTo(w)

		return err
	case constants.FormatYAML:
		return yaml.NewEncoder(w).Encode(decoded)
	case constants.FormatTable, "":
		return renderTable(w, decoded, columns)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, format)
	}
}

func renderTable(w io.Writer, decoded interface{}, columns []string) error {
	switch typed := decoded.(type) {
	case map[string]interface{}:
		if list, ok := typed["list"].([]interface{}); ok {
			err := renderListTable(w, list, columns)
			if err != nil {
				return err
			}

			if total, ok := typed["total"]; ok {
				_, _ = fmt.Fprintf(w, "Total: %s\n", formatCell(total))
			}

			return nil
		}

		return renderRecordTable(w, typed)
	case []interface{}:
		return renderListTable(w, typed, columns)
	default:
		_, err := fmt.Fprintln(w, formatCell(typed))

		return err
	}
}

func renderListTable(w io.Writer, list []interface{}, columns []string) error {
	if len(columns) == 0 {
		columns = collectColumns(list)
	}

	header := make([]any, 0, len(columns))
	for _, column := range columns {
		header = append(header, column)
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)

	for _, item := range list {
		record, _ := item.(map[string]interface{})
		row := make([]string, 0, len(columns))

		for _, column := range columns {
			row = append(row, formatCell(record[column]))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderRecordTable(w io.Writer, record map[string]interface{}) error {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(w)
	table.Header("Attribute", "Value")

	for _, key := range keys {
		_ = table.Append([]string{key, formatCell(record[key])})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// collectColumns returns the union of record keys with "id" first.
func collectColumns(list []interface{}) []string {
	seen := make(map[string]bool)

	var columns []string

	for _, item := range list {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		for key := range record {
			if !seen[key] {
				seen[key] = true

				columns = append(columns, key)
			}
		}
	}

	sort.Slice(columns, func(i, j int) bool {
		if columns[i] == "id" || columns[j] == "id" {
			return columns[i] == "id"
		}

		return columns[i] < columns[j]
	})

	return columns
}

func formatCell(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(encoded)
	}
}
