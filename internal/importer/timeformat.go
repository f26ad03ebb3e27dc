package importer

import (
	"fmt"
	"strings"
)

// strptimeToLayout converts an strptime-style datetime pattern (the format
// callers supply, e.g. "%d.%m.%Y %H:%M") into a Go reference layout.
// Unsupported directives are rejected so a typo fails the import up front
// instead of mis-parsing every row.
func strptimeToLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("datetime format ends with a bare %%")
		}
		switch format[i] {
		case 'd':
			b.WriteString("02")
		case 'm':
			b.WriteString("01")
		case 'y':
			b.WriteString("06")
		case 'Y':
			b.WriteString("2006")
		case 'H':
			b.WriteString("15")
		case 'I':
			b.WriteString("03")
		case 'M':
			b.WriteString("04")
		case 'S':
			b.WriteString("05")
		case 'f':
			b.WriteString("000000")
		case 'p':
			b.WriteString("PM")
		case 'b':
			b.WriteString("Jan")
		case 'B':
			b.WriteString("January")
		case 'a':
			b.WriteString("Mon")
		case 'A':
			b.WriteString("Monday")
		case 'z':
			b.WriteString("-0700")
		case 'Z':
			b.WriteString("MST")
		case '%':
			b.WriteByte('%')
		default:
			return "", fmt.Errorf("unsupported datetime directive %%%c", format[i])
		}
	}
	return b.String(), nil
}
