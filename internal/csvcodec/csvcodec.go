package csvcodec

import "strings"

// Row maps a header name to the cell value for one CSV line
type Row map[string]string

// Parse parses raw delimited text into header order and row mappings.
// The first non-blank line is the header row. Malformed input never
// fails: ragged rows pad with empty strings and an unterminated quote
// consumes the remainder of its line as literal text.
func Parse(text string) ([]string, []Row) {
	lines := make([]string, 0)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	headers := splitLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.Trim(strings.TrimSpace(h), `"`)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := splitLine(line)
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// splitLine tokenizes one line on commas with quote awareness. A quote
// toggles the in-quote state; a doubled quote inside quoted content
// unescapes to a single literal quote.
func splitLine(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuote := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuote && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuote = !inQuote
			}
		case c == ',' && !inQuote:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

// Serialize renders rows back to delimited text. Headers are applied
// uniformly to every row; cells are quoted only when they contain a
// quote, comma or newline. No trailing newline is emitted.
func Serialize(headers []string, rows []Row) string {
	var sb strings.Builder
	writeLine := func(cells []string) {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		for i, cell := range cells {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escape(cell))
		}
	}

	writeLine(headers)
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, header := range headers {
			cells[i] = row[header]
		}
		writeLine(cells)
	}
	return sb.String()
}

// escape wraps a cell in quotes when it contains a delimiter, quote or
// newline, doubling any internal quotes
func escape(cell string) string {
	if strings.ContainsAny(cell, "\",\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}
