package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Load reads a raw CSV or JSON payload, picks the decoder from the file
// extension and returns the normalized table.
func Load(filename string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return LoadCSV(bytes.NewReader(data))
	case ".json":
		return LoadJSON(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// LoadCSV parses a CSV stream into a normalized table. Input that is not
// valid UTF-8 is re-decoded as Latin-1 before parsing, matching the
// loader's encoding fallback.
func LoadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if !utf8.Valid(data) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode input: %w", decErr)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	header := records[0]
	t := &Table{Columns: append([]string(nil), header...)}
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			row[col] = coerceCell(record[i])
		}
		t.Rows = append(t.Rows, row)
	}

	return Normalize(t), nil
}

// LoadJSON parses an array of flat objects into a normalized table.
// JSON objects carry no key order, so column order is unspecified;
// role resolution works by name, not position.
func LoadJSON(r io.Reader) (*Table, error) {
	var objects []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	t := &Table{}
	seen := map[string]bool{}
	for _, obj := range objects {
		row := make(Row, len(obj))
		for col, v := range obj {
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
			switch val := v.(type) {
			case string:
				row[col] = coerceCell(val)
			case float64:
				row[col] = val
			case bool:
				row[col] = strconv.FormatBool(val)
			case nil:
				// missing
			default:
				// nested values are not tabular; keep their JSON form
				if b, err := json.Marshal(val); err == nil {
					row[col] = string(b)
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return Normalize(t), nil
}

func coerceCell(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}
