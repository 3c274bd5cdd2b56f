package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one split record with its 1-based line number in the source.
type Row struct {
	Line   int
	Fields []string
}

// SniffDelimiter picks the delimiter from the first non-blank line: ';' when
// it has semicolons but no commas, otherwise tab when present, otherwise ','.
// Characters inside quoted fields are not counted.
func SniffDelimiter(data []byte) rune {
	var (
		inQuotes                  bool
		content                   bool
		hasSemi, hasComma, hasTab bool
	)
	for _, b := range data {
		if inQuotes {
			if b == '"' {
				inQuotes = false
			}
			continue
		}
		switch b {
		case '"':
			inQuotes, content = true, true
		case '\n':
			if content {
				return pickDelimiter(hasSemi, hasComma, hasTab)
			}
			hasTab = false
		case ';':
			hasSemi, content = true, true
		case ',':
			hasComma, content = true, true
		case '\t':
			hasTab = true
		case ' ', '\r':
		default:
			content = true
		}
	}
	if !content {
		return ','
	}
	return pickDelimiter(hasSemi, hasComma, hasTab)
}

func pickDelimiter(hasSemi, hasComma, hasTab bool) rune {
	switch {
	case hasSemi && !hasComma:
		return ';'
	case hasTab:
		return '\t'
	default:
		return ','
	}
}

// SplitRows splits data into rows using delim. Quoted fields may contain the
// delimiter, newlines and doubled quotes. Blank lines are dropped.
func SplitRows(data []byte, delim rune) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, Row{Line: line, Fields: record})
	}
	return rows, nil
}

// CleanCell removes common spreadsheet artifacts from a cell: surrounding
// whitespace, an Excel formula wrapper (="...") and stray outer quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// cell returns the cleaned cell at pos, or "" when pos is absent.
func cell(fields []string, pos int) string {
	if pos < 0 || pos >= len(fields) {
		return ""
	}
	return CleanCell(fields[pos])
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
