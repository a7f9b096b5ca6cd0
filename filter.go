package ldap

import (
	"fmt"

	"github.com/ldapwire/ldap/asn1"
)

// Filter is the parsed form of an RFC 2254 search filter: one node of the
// filter CHOICE. Trees are produced by ParseFilter, Builder, or
// DecodeFilter, and are immutable once returned.
type Filter interface {
	fmt.Stringer
	encode() asn1.Value
}

// And matches entries that match every child filter. Must hold at least
// one child.
type And struct {
	Filters []Filter
}

// Or matches entries that match any child filter. Must hold at least one
// child.
type Or struct {
	Filters []Filter
}

// Not matches entries its single child does not.
type Not struct {
	Filter Filter
}

// EqualityMatch is attr=value.
type EqualityMatch struct {
	Attribute string
	Value     []byte
}

// GreaterOrEqual is attr>=value.
type GreaterOrEqual struct {
	Attribute string
	Value     []byte
}

// LessOrEqual is attr<=value.
type LessOrEqual struct {
	Attribute string
	Value     []byte
}

// ApproxMatch is attr~=value.
type ApproxMatch struct {
	Attribute string
	Value     []byte
}

// Present is attr=*.
type Present struct {
	Attribute string
}

// Substrings is attr=initial*any*...*final. At least one of Initial, Any,
// Final is set; Initial comes first and Final last, at most one of each.
// A nil Initial or Final means the segment is absent; empty Any segments
// are legal and mean two adjacent stars.
type Substrings struct {
	Attribute string
	Initial   []byte
	Any       [][]byte
	Final     []byte
}

// ExtensibleMatch is the attr:rule:=value form, with an optional matching
// rule, optional attribute type, and the :dn: flag.
type ExtensibleMatch struct {
	MatchingRule  string
	AttributeType string
	Value         []byte
	DNAttributes  bool
}

func contextTag(tag int, inner asn1.Value) asn1.Value {
	return asn1.Tagged{
		Identifier: asn1.Identifier{Class: asn1.ClassContextSpecific, Tag: tag},
		Inner:      inner,
	}
}

func avaValue(tag int, attr string, value []byte) asn1.Value {
	return contextTag(tag, asn1.Sequence{
		asn1.OctetString(attr),
		asn1.OctetString(value),
	})
}

func (f *And) encode() asn1.Value {
	children := make(asn1.SetOf, len(f.Filters))
	for i, child := range f.Filters {
		children[i] = child.encode()
	}
	return contextTag(filterAnd, children)
}

func (f *Or) encode() asn1.Value {
	children := make(asn1.SetOf, len(f.Filters))
	for i, child := range f.Filters {
		children[i] = child.encode()
	}
	return contextTag(filterOr, children)
}

func (f *Not) encode() asn1.Value {
	return asn1.Tagged{
		Identifier: asn1.Identifier{Class: asn1.ClassContextSpecific, Tag: filterNot},
		Explicit:   true,
		Inner:      f.Filter.encode(),
	}
}

func (f *EqualityMatch) encode() asn1.Value {
	return avaValue(filterEqualityMatch, f.Attribute, f.Value)
}

func (f *GreaterOrEqual) encode() asn1.Value {
	return avaValue(filterGreaterOrEqual, f.Attribute, f.Value)
}

func (f *LessOrEqual) encode() asn1.Value {
	return avaValue(filterLessOrEqual, f.Attribute, f.Value)
}

func (f *ApproxMatch) encode() asn1.Value {
	return avaValue(filterApproxMatch, f.Attribute, f.Value)
}

func (f *Present) encode() asn1.Value {
	return contextTag(filterPresent, asn1.OctetString(f.Attribute))
}

func (f *Substrings) encode() asn1.Value {
	var parts asn1.Sequence
	if f.Initial != nil {
		parts = append(parts, contextTag(substringInitial, asn1.OctetString(f.Initial)))
	}
	for _, any := range f.Any {
		parts = append(parts, contextTag(substringAny, asn1.OctetString(any)))
	}
	if f.Final != nil {
		parts = append(parts, contextTag(substringFinal, asn1.OctetString(f.Final)))
	}
	return contextTag(filterSubstrings, asn1.Sequence{
		asn1.OctetString(f.Attribute),
		parts,
	})
}

func (f *ExtensibleMatch) encode() asn1.Value {
	var components asn1.Sequence
	if f.MatchingRule != "" {
		components = append(components, contextTag(extensibleMatchingRule, asn1.OctetString(f.MatchingRule)))
	}
	if f.AttributeType != "" {
		components = append(components, contextTag(extensibleType, asn1.OctetString(f.AttributeType)))
	}
	components = append(components, contextTag(extensibleMatchValue, asn1.OctetString(f.Value)))
	if f.DNAttributes { // DEFAULT FALSE: omitted when false
		components = append(components, contextTag(extensibleDNAttributes, asn1.Boolean(true)))
	}
	return contextTag(filterExtensibleMatch, components)
}

// EncodeFilter produces the BER encoding of a filter tree, ready to drop
// into a SearchRequest.
func EncodeFilter(f Filter) ([]byte, error) {
	return asn1.Encode(f.encode())
}

// DecodeFilter decodes a complete filter element, identifier included.
func DecodeFilter(b []byte) (Filter, error) {
	v, n, err := asn1.Decode(b)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, LDAPError{fmt.Sprintf("%d octets after filter", len(b)-n)}
	}
	return filterFromValue(v)
}

// DecodeFilterChoice decodes the content octets of a received filter CHOICE
// whose identifier has already been stripped to its tag.
func DecodeFilterChoice(tag int, content []byte) (Filter, error) {
	constructed := tag != filterPresent
	v, err := asn1.DecodeWithIdentifier(
		asn1.Identifier{Class: asn1.ClassContextSpecific, Tag: tag, Constructed: constructed},
		content)
	if err != nil {
		return nil, err
	}
	return filterFromValue(v)
}

func filterFromValue(v asn1.Value) (Filter, error) {
	tagged, ok := v.(asn1.Tagged)
	if !ok || tagged.Identifier.Class != asn1.ClassContextSpecific {
		return nil, LDAPError{fmt.Sprintf("filter must be a context-specific value, got %#v", v)}
	}
	switch tagged.Identifier.Tag {
	case filterAnd, filterOr:
		children, err := childFilters(tagged.Inner)
		if err != nil {
			return nil, err
		}
		if tagged.Identifier.Tag == filterAnd {
			return &And{Filters: children}, nil
		}
		return &Or{Filters: children}, nil
	case filterNot:
		children, err := childFilters(tagged.Inner)
		if err != nil {
			return nil, err
		}
		if len(children) != 1 {
			return nil, LDAPError{fmt.Sprintf("not filter must have one child, got %d", len(children))}
		}
		return &Not{Filter: children[0]}, nil
	case filterEqualityMatch, filterGreaterOrEqual, filterLessOrEqual, filterApproxMatch:
		attr, value, err := avaComponents(tagged.Inner)
		if err != nil {
			return nil, err
		}
		switch tagged.Identifier.Tag {
		case filterEqualityMatch:
			return &EqualityMatch{attr, value}, nil
		case filterGreaterOrEqual:
			return &GreaterOrEqual{attr, value}, nil
		case filterLessOrEqual:
			return &LessOrEqual{attr, value}, nil
		default:
			return &ApproxMatch{attr, value}, nil
		}
	case filterSubstrings:
		return substringsFromValue(tagged.Inner)
	case filterPresent:
		attr, ok := tagged.Inner.(asn1.OctetString)
		if !ok {
			return nil, LDAPError{"present filter must carry the attribute octets"}
		}
		return &Present{Attribute: string(attr)}, nil
	case filterExtensibleMatch:
		return extensibleFromValue(tagged.Inner)
	default:
		return nil, LDAPError{fmt.Sprintf("unknown filter tag %d", tagged.Identifier.Tag)}
	}
}

func childFilters(v asn1.Value) ([]Filter, error) {
	seq, ok := v.(asn1.Sequence)
	if !ok {
		return nil, LDAPError{"filter set must be constructed"}
	}
	if len(seq) == 0 {
		return nil, LDAPError{"filter set must not be empty"}
	}
	children := make([]Filter, len(seq))
	for i, c := range seq {
		child, err := filterFromValue(c)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return children, nil
}

func avaComponents(v asn1.Value) (string, []byte, error) {
	seq, ok := v.(asn1.Sequence)
	if !ok || len(seq) != 2 {
		return "", nil, LDAPError{"attribute value assertion must hold two components"}
	}
	attr, ok1 := seq[0].(asn1.OctetString)
	value, ok2 := seq[1].(asn1.OctetString)
	if !ok1 || !ok2 {
		return "", nil, LDAPError{"attribute value assertion components must be octet strings"}
	}
	return string(attr), value, nil
}

func substringsFromValue(v asn1.Value) (*Substrings, error) {
	seq, ok := v.(asn1.Sequence)
	if !ok || len(seq) != 2 {
		return nil, LDAPError{"substrings filter must hold attribute and parts"}
	}
	attr, ok := seq[0].(asn1.OctetString)
	if !ok {
		return nil, LDAPError{"substrings attribute must be an octet string"}
	}
	parts, ok := seq[1].(asn1.Sequence)
	if !ok || len(parts) == 0 {
		return nil, LDAPError{"substrings filter must hold at least one part"}
	}
	f := &Substrings{Attribute: string(attr)}
	for i, p := range parts {
		part, ok := p.(asn1.Tagged)
		if !ok {
			return nil, LDAPError{"substring part must be context-specific"}
		}
		octets, ok := part.Inner.(asn1.OctetString)
		if !ok {
			return nil, LDAPError{"substring part must be primitive"}
		}
		switch part.Identifier.Tag {
		case substringInitial:
			if i != 0 {
				return nil, LDAPError{"initial substring must come first"}
			}
			f.Initial = octets
		case substringAny:
			f.Any = append(f.Any, octets)
		case substringFinal:
			if i != len(parts)-1 {
				return nil, LDAPError{"final substring must come last"}
			}
			f.Final = octets
		default:
			return nil, LDAPError{fmt.Sprintf("unknown substring part tag %d", part.Identifier.Tag)}
		}
	}
	return f, nil
}

func extensibleFromValue(v asn1.Value) (*ExtensibleMatch, error) {
	seq, ok := v.(asn1.Sequence)
	if !ok || len(seq) == 0 {
		return nil, LDAPError{"extensible match must hold at least the match value"}
	}
	f := &ExtensibleMatch{}
	seenValue := false
	for _, c := range seq {
		component, ok := c.(asn1.Tagged)
		if !ok {
			return nil, LDAPError{"extensible match component must be context-specific"}
		}
		octets, ok := component.Inner.(asn1.OctetString)
		if !ok {
			return nil, LDAPError{"extensible match component must be primitive"}
		}
		switch component.Identifier.Tag {
		case extensibleMatchingRule:
			f.MatchingRule = string(octets)
		case extensibleType:
			f.AttributeType = string(octets)
		case extensibleMatchValue:
			f.Value = octets
			seenValue = true
		case extensibleDNAttributes:
			dn, err := asn1.DecodeBool(octets)
			if err != nil {
				return nil, err
			}
			f.DNAttributes = dn
		default:
			return nil, LDAPError{fmt.Sprintf("unknown extensible match tag %d", component.Identifier.Tag)}
		}
	}
	if !seenValue {
		return nil, LDAPError{"extensible match without a match value"}
	}
	return f, nil
}

// validateAttribute enforces the attribute-description charset: non-empty,
// letters, digits, '-', '.', ';', ':' only, no leading ';', no trailing
// empty option, and '\' never.
func validateAttribute(attr string) error {
	if attr == "" {
		return errFilter(ErrInvalidAttribute, "empty attribute description")
	}
	if attr[0] == ';' {
		return errFilter(ErrInvalidAttribute, "attribute description starts with ';'")
	}
	if attr[len(attr)-1] == ';' {
		return errFilter(ErrInvalidAttribute, "trailing empty attribute option")
	}
	for i := 0; i < len(attr); i++ {
		c := attr[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '.' || c == ';' || c == ':':
		case c == '\\':
			return errFilter(ErrInvalidAttribute, "attribute description must not contain escapes")
		default:
			return errFilter(ErrInvalidAttribute, "illegal character %q", c)
		}
	}
	return nil
}
