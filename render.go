package ldap

import "strings"

// RenderFilter produces the canonical RFC 2254 string for a filter tree.
// The text is not guaranteed byte-identical to whatever string the tree was
// parsed from, but it re-parses to an equal tree: assertion values are
// escaped on the way out so nothing collides with the grammar.
func RenderFilter(f Filter) string {
	return f.String()
}

func (f *And) String() string {
	return renderSet('&', f.Filters)
}

func (f *Or) String() string {
	return renderSet('|', f.Filters)
}

func (f *Not) String() string {
	return "(!" + f.Filter.String() + ")"
}

func (f *EqualityMatch) String() string {
	return "(" + f.Attribute + "=" + escapeValue(f.Value) + ")"
}

func (f *GreaterOrEqual) String() string {
	return "(" + f.Attribute + ">=" + escapeValue(f.Value) + ")"
}

func (f *LessOrEqual) String() string {
	return "(" + f.Attribute + "<=" + escapeValue(f.Value) + ")"
}

func (f *ApproxMatch) String() string {
	return "(" + f.Attribute + "~=" + escapeValue(f.Value) + ")"
}

func (f *Present) String() string {
	return "(" + f.Attribute + "=*)"
}

// String joins the substring parts with single stars: a missing initial
// leaves a leading star, a missing final a trailing one, and empty any
// segments collapse to adjacent stars.
func (f *Substrings) String() string {
	parts := make([]string, 0, len(f.Any)+2)
	parts = append(parts, escapeValue(f.Initial))
	for _, any := range f.Any {
		parts = append(parts, escapeValue(any))
	}
	parts = append(parts, escapeValue(f.Final))
	return "(" + f.Attribute + "=" + strings.Join(parts, "*") + ")"
}

func (f *ExtensibleMatch) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(f.AttributeType)
	if f.DNAttributes {
		b.WriteString(":dn")
	}
	if f.MatchingRule != "" {
		b.WriteByte(':')
		b.WriteString(f.MatchingRule)
	}
	b.WriteString(":=")
	b.WriteString(escapeValue(f.Value))
	b.WriteByte(')')
	return b.String()
}

func renderSet(operator byte, children []Filter) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteByte(operator)
	for _, child := range children {
		b.WriteString(child.String())
	}
	b.WriteByte(')')
	return b.String()
}

const hexchars = "0123456789abcdef"

// escapeValue renders assertion value bytes back to filter text, escaping
// the characters the grammar reserves. Bytes above 0x7f are raw UTF-8 and
// pass through.
func escapeValue(value []byte) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, c := range value {
		if mustEscape(c) {
			b.WriteByte('\\')
			b.WriteByte(hexchars[c>>4])
			b.WriteByte(hexchars[c&0xf])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func mustEscape(c byte) bool {
	return c == 0 || c == '(' || c == ')' || c == '*' || c == '\\'
}
