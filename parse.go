package ldap

import (
	"strings"
)

// ParseFilter compiles an RFC 2254 filter string into a Filter tree. A
// blank string means match everything; a string with neither a leading '('
// nor a trailing ')' is treated as a legacy bare filter and wrapped in one
// pair. LDAPv2 escapes (\*, \(, \), \\) are accepted and converted to their
// v3 hex form before parsing.
func ParseFilter(filter string) (Filter, error) {
	if strings.TrimSpace(filter) == "" {
		filter = "(objectclass=*)"
	}
	filter = convertV2Escapes(filter)
	if !strings.HasPrefix(filter, "(") && !strings.HasSuffix(filter, ")") {
		filter = "(" + filter + ")"
	}
	if err := checkParens(filter); err != nil {
		return nil, err
	}

	tok := &tokenizer{s: filter}
	f, err := parseFilter(tok)
	if err != nil {
		return nil, err
	}
	if tok.pos != len(filter) {
		return nil, errFilter(ErrMissingRightParen, "unexpected text after filter at position %d", tok.pos)
	}
	return f, nil
}

// convertV2Escapes rewrites the LDAPv2 escapes \* \( \) \\ anywhere in the
// string to their v3 hex-pair form. Any other character after a backslash
// is copied untouched for unescape to judge.
func convertV2Escapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '*':
			b.WriteString(`\2a`)
		case '(':
			b.WriteString(`\28`)
		case ')':
			b.WriteString(`\29`)
		case '\\':
			b.WriteString(`\5c`)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

// checkParens reports structural parenthesis failures before any
// tokenizing. After convertV2Escapes no escaped parenthesis remains, so a
// raw count is sound.
func checkParens(s string) error {
	if !strings.HasPrefix(s, "(") {
		return errFilter(ErrMissingLeftParen, "filter does not start with '('")
	}
	if !strings.HasSuffix(s, ")") {
		return errFilter(ErrMissingRightParen, "filter does not end with ')'")
	}
	opens, closes := strings.Count(s, "("), strings.Count(s, ")")
	if opens > closes {
		return errFilter(ErrMissingRightParen, "%d '(' but %d ')'", opens, closes)
	}
	if closes > opens {
		return errFilter(ErrMissingLeftParen, "%d ')' but %d '('", closes, opens)
	}
	return nil
}

func parseFilter(tok *tokenizer) (Filter, error) {
	if err := tok.expectLeftParen(); err != nil {
		return nil, err
	}
	operator, attr, err := tok.nextOperatorOrAttr()
	if err != nil {
		return nil, err
	}

	var f Filter
	switch operator {
	case '&', '|':
		var children []Filter
		for {
			c, ok := tok.peek()
			if !ok || c != '(' {
				break
			}
			child, err := parseFilter(tok)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if len(children) == 0 {
			return nil, errFilter(ErrMissingLeftParen, "'%c' filter needs at least one nested filter", operator)
		}
		if operator == '&' {
			f = &And{Filters: children}
		} else {
			f = &Or{Filters: children}
		}
	case '!':
		child, err := parseFilter(tok)
		if err != nil {
			return nil, err
		}
		f = &Not{Filter: child}
	default:
		f, err = parseLeaf(tok, attr)
		if err != nil {
			return nil, err
		}
	}

	if err := tok.expectRightParen(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseLeaf(tok *tokenizer, attr string) (Filter, error) {
	op, err := tok.nextFilterType()
	if err != nil {
		return nil, err
	}
	raw, err := tok.nextValue()
	if err != nil {
		return nil, err
	}

	switch op {
	case opEqual:
		if raw == "*" {
			return &Present{Attribute: attr}, nil
		}
		if strings.ContainsRune(raw, '*') {
			return parseSubstrings(attr, raw)
		}
		value, err := unescape(raw)
		if err != nil {
			return nil, err
		}
		return &EqualityMatch{Attribute: attr, Value: value}, nil
	case opExtensible:
		return parseExtensible(attr, raw)
	}

	value, err := unescape(raw)
	if err != nil {
		return nil, err
	}
	switch op {
	case opGreaterOrEqual:
		return &GreaterOrEqual{Attribute: attr, Value: value}, nil
	case opLessOrEqual:
		return &LessOrEqual{Attribute: attr, Value: value}, nil
	default:
		return &ApproxMatch{Attribute: attr, Value: value}, nil
	}
}

// parseSubstrings splits the raw value on '*'. The first and last split
// tokens become initial and final only when non-empty (a leading or
// trailing star means the segment is absent); interior empty tokens mean
// two adjacent stars and become empty any segments. Parts are unescaped
// after splitting, so an escaped star (\2a) never splits.
func parseSubstrings(attr, raw string) (Filter, error) {
	parts := strings.Split(raw, "*")
	f := &Substrings{Attribute: attr}
	for i, part := range parts {
		value, err := unescape(part)
		if err != nil {
			return nil, err
		}
		switch {
		case i == 0:
			if part != "" {
				f.Initial = value
			}
		case i == len(parts)-1:
			if part != "" {
				f.Final = value
			}
		default:
			f.Any = append(f.Any, value)
		}
	}
	return f, nil
}

// parseExtensible interprets attr as the matchingrule form: an optional
// leading attribute type, a "dn" segment setting the dn flag, and any
// other segment naming the matching rule.
func parseExtensible(attr, raw string) (Filter, error) {
	f := &ExtensibleMatch{}
	for i, segment := range strings.Split(attr, ":") {
		switch {
		case i == 0 && segment != "":
			f.AttributeType = segment
		case segment == "dn":
			f.DNAttributes = true
		case segment != "":
			f.MatchingRule = segment
		}
	}
	value, err := unescape(raw)
	if err != nil {
		return nil, err
	}
	f.Value = value
	return f, nil
}

// unescape decodes a raw assertion value to bytes. A backslash starts a
// two-hex-digit escape. Bytes in the printable-safe ranges and UTF-8
// continuation bytes pass through; anything else must have been escaped.
func unescape(raw string) ([]byte, error) {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\':
			if i+2 >= len(raw) {
				return nil, errFilter(ErrInvalidEscape, "incomplete escape at end of value")
			}
			hi, ok1 := hexDigit(raw[i+1])
			lo, ok2 := hexDigit(raw[i+2])
			if !ok1 || !ok2 {
				return nil, errFilter(ErrInvalidEscape, "invalid value in escape sequence %q", raw[i:i+3])
			}
			out = append(out, hi<<4|lo)
			i += 2
		case c >= 0x01 && c <= 0x27, c >= 0x2b && c <= 0x5b, c >= 0x5d && c <= 0x7f:
			out = append(out, c)
		case c >= 0x80:
			out = append(out, c)
		default:
			return nil, errFilter(ErrInvalidEscape, "character %q must be escaped as \\%02x", c, c)
		}
	}
	return out, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
