package ldap

import "fmt"

// FilterErrorKind classifies filter compilation and construction failures.
type FilterErrorKind int

const (
	// ErrUnexpectedEnd means the tokenizer ran out of input mid-token.
	ErrUnexpectedEnd FilterErrorKind = iota
	// ErrMissingLeftParen and ErrMissingRightParen are structural
	// parenthesis failures, detected before tokenizing.
	ErrMissingLeftParen
	ErrMissingRightParen
	// ErrInvalidAttribute means an attribute description is empty, has a
	// leading ';', a trailing empty option, or an illegal character.
	ErrInvalidAttribute
	// ErrInvalidOperator means none of >= <= ~= := = was found where a
	// comparison operator is required.
	ErrInvalidOperator
	// ErrInvalidEscape means a malformed escape sequence or an unescaped
	// character that must be escaped.
	ErrInvalidEscape
	// ErrBuilderViolation means a Builder call broke the construction
	// protocol (see Builder).
	ErrBuilderViolation
)

var filterErrorKinds = map[FilterErrorKind]string{
	ErrUnexpectedEnd:     "unexpected end of filter",
	ErrMissingLeftParen:  "missing left parenthesis",
	ErrMissingRightParen: "missing right parenthesis",
	ErrInvalidAttribute:  "invalid attribute description",
	ErrInvalidOperator:   "invalid comparison operator",
	ErrInvalidEscape:     "invalid escape sequence",
	ErrBuilderViolation:  "builder protocol violation",
}

type FilterError struct {
	Kind FilterErrorKind
	Msg  string
}

func (e *FilterError) Error() string {
	s := "ldap: " + filterErrorKinds[e.Kind]
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func errFilter(kind FilterErrorKind, format string, args ...interface{}) *FilterError {
	return &FilterError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// LDAPError reports protocol-shape violations and failed operations at the
// connection boundary. Result codes stay numeric; mapping them to text is
// the caller's concern.
type LDAPError struct {
	Msg string
}

func (e LDAPError) Error() string { return "LDAP error: " + e.Msg }
