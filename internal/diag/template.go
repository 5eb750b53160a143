package diag

import (
	"fmt"
	"strings"
)

// Template is an immutable catalog entry: a stable code and a message with
// positional '$' slots.
type Template struct {
	Code   Code
	Format string
}

// Fill replaces each '$' with the next argument. "$$" yields a literal '$';
// slots without an argument stay as '$'. Extra arguments are ignored.
func (t Template) Fill(args ...any) string {
	return Format(t.Format, args...)
}

// Format is the pure slot-filling routine behind Template.Fill.
func Format(format string, args ...any) string {
	if !strings.Contains(format, "$") {
		return format
	}
	var b strings.Builder
	b.Grow(len(format) + 16)
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '$' {
			b.WriteByte('$')
			i++
			continue
		}
		if next < len(args) {
			fmt.Fprint(&b, args[next])
			next++
			continue
		}
		b.WriteByte('$')
	}
	return b.String()
}
