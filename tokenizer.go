package ldap

// compareOp is a filter comparison operator.
type compareOp int

const (
	opEqual compareOp = iota
	opGreaterOrEqual
	opLessOrEqual
	opApprox
	opExtensible
)

// tokenizer is a cursor over an immutable filter string. One instance
// serves exactly one parse.
type tokenizer struct {
	s   string
	pos int
}

func (t *tokenizer) peek() (byte, bool) {
	if t.pos >= len(t.s) {
		return 0, false
	}
	return t.s[t.pos], true
}

func (t *tokenizer) expectLeftParen() error {
	c, ok := t.peek()
	if !ok {
		return errFilter(ErrUnexpectedEnd, "expected '('")
	}
	if c != '(' {
		return errFilter(ErrMissingLeftParen, "expected '(' at position %d", t.pos)
	}
	t.pos++
	return nil
}

func (t *tokenizer) expectRightParen() error {
	c, ok := t.peek()
	if !ok {
		return errFilter(ErrUnexpectedEnd, "expected ')'")
	}
	if c != ')' {
		return errFilter(ErrMissingRightParen, "expected ')' at position %d", t.pos)
	}
	t.pos++
	return nil
}

// nextOperatorOrAttr returns one of the boolean operators '&', '|', '!' if
// the cursor sits on one, and otherwise consumes and validates an
// attribute-description token, stopping before the comparison operator.
// ':' stays inside the token unless it starts the ':=' operator, so
// extensible-match rule segments ride along with the attribute.
func (t *tokenizer) nextOperatorOrAttr() (operator byte, attr string, err error) {
	c, ok := t.peek()
	if !ok {
		return 0, "", errFilter(ErrUnexpectedEnd, "expected operator or attribute")
	}
	if c == '&' || c == '|' || c == '!' {
		t.pos++
		return c, "", nil
	}

	start := t.pos
scan:
	for t.pos < len(t.s) {
		switch t.s[t.pos] {
		case '=', '>', '<', '~', '(', ')':
			break scan
		case ':':
			if t.pos+1 < len(t.s) && t.s[t.pos+1] == '=' {
				break scan
			}
		}
		t.pos++
	}
	if t.pos == len(t.s) {
		return 0, "", errFilter(ErrUnexpectedEnd, "attribute description runs off the end")
	}
	attr = t.s[start:t.pos]
	if err := validateAttribute(attr); err != nil {
		return 0, "", err
	}
	return 0, attr, nil
}

// nextFilterType recognizes the comparison operators, preferring the
// two-character ones.
func (t *tokenizer) nextFilterType() (compareOp, error) {
	c, ok := t.peek()
	if !ok {
		return 0, errFilter(ErrUnexpectedEnd, "expected comparison operator")
	}
	twoChar := t.pos+1 < len(t.s) && t.s[t.pos+1] == '='
	switch {
	case c == '>' && twoChar:
		t.pos += 2
		return opGreaterOrEqual, nil
	case c == '<' && twoChar:
		t.pos += 2
		return opLessOrEqual, nil
	case c == '~' && twoChar:
		t.pos += 2
		return opApprox, nil
	case c == ':' && twoChar:
		t.pos += 2
		return opExtensible, nil
	case c == '=':
		t.pos++
		return opEqual, nil
	}
	return 0, errFilter(ErrInvalidOperator, "at position %d", t.pos)
}

// nextValue returns the raw text up to the next unescaped ')'. Escape
// sequences are left intact for unescape; a trailing backslash stays in the
// value so unescape reports it.
func (t *tokenizer) nextValue() (string, error) {
	if t.pos >= len(t.s) {
		return "", errFilter(ErrUnexpectedEnd, "expected assertion value")
	}
	start := t.pos
	for t.pos < len(t.s) {
		switch t.s[t.pos] {
		case '\\':
			t.pos += 2
			if t.pos > len(t.s) {
				t.pos = len(t.s)
			}
		case ')':
			return t.s[start:t.pos], nil
		default:
			t.pos++
		}
	}
	return "", errFilter(ErrUnexpectedEnd, "assertion value runs off the end")
}
