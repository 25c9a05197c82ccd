package format

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// EscapeCSV renders v as one CSV field. Fields containing a comma, a quote or a
// newline are quoted with inner quotes doubled; nil renders as "".
func EscapeCSV(v any) string {
	var s string
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		s = val
	case *string:
		if val == nil {
			return ""
		}
		s = *val
	case time.Time:
		if val.IsZero() {
			return ""
		}
		s = val.Format(time.RFC3339)
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		s = val.Format(time.RFC3339)
	case fmt.Stringer:
		s = val.String()
	default:
		s = fmt.Sprint(val)
	}

	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// CSV renders a header and rows, one line per record.
func CSV(header []string, rows [][]any) []byte {
	var buf bytes.Buffer
	writeRecord(&buf, len(header), func(i int) string { return EscapeCSV(header[i]) })
	for _, row := range rows {
		writeRecord(&buf, len(row), func(i int) string { return EscapeCSV(row[i]) })
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, n int, field func(int) string) {
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(field(i))
	}
	buf.WriteByte('\n')
}
