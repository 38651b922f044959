package filecsv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Style selects how special characters inside a field are protected.
type Style string

const (
	// StyleEscape never quotes: the delimiter, the quote character, the
	// backslash, CR and LF are each prefixed with a backslash.
	StyleEscape Style = "escape"
	// StyleQuote is RFC 4180 quoting.
	StyleQuote Style = "quote"
)

// ParseStyle accepts "escape", "quote" or "" (escape).
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case StyleEscape, "":
		return StyleEscape, nil
	case StyleQuote:
		return StyleQuote, nil
	}
	return "", fmt.Errorf("unknown export style %q", s)
}

// Writer writes delimited rows of store values.
type Writer struct {
	style   Style
	comma   rune
	escaper *strings.Replacer
	buf     *bufio.Writer
	quoted  *csv.Writer
}

func NewWriter(w io.Writer, style Style, comma rune) *Writer {
	if comma == 0 {
		comma = ','
	}
	out := &Writer{style: style, comma: comma}
	if style == StyleQuote {
		out.quoted = csv.NewWriter(w)
		out.quoted.Comma = comma
		return out
	}
	c := string(comma)
	out.buf = bufio.NewWriter(w)
	out.escaper = strings.NewReplacer(`\`, `\\`, c, `\`+c, `"`, `\"`, "\r", "\\\r", "\n", "\\\n")
	return out
}

// WriteRow writes one record. Values are string, int64, bool or nil as
// produced by the store; nil becomes an empty field and bools become 1 or 0.
func (w *Writer) WriteRow(values []any) error {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = FormatValue(v)
	}
	return w.Write(fields)
}

// Write writes one record of already formatted fields.
func (w *Writer) Write(fields []string) error {
	if w.quoted != nil {
		return w.quoted.Write(fields)
	}
	for i, f := range fields {
		if i > 0 {
			if _, err := w.buf.WriteRune(w.comma); err != nil {
				return err
			}
		}
		if _, err := w.buf.WriteString(w.escaper.Replace(f)); err != nil {
			return err
		}
	}
	return w.buf.WriteByte('\n')
}

func (w *Writer) Flush() error {
	if w.quoted != nil {
		w.quoted.Flush()
		return w.quoted.Error()
	}
	return w.buf.Flush()
}

func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "1"
		}
		return "0"
	}
	return fmt.Sprint(v)
}
