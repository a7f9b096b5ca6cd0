package asn1

// Value is the closed set of ASN.1 shapes LDAP puts on the wire. Every
// variant knows the identifier it encodes under; a Tagged wrapper overrides
// the class and tag of the value it carries.
type Value interface {
	// ident reports the identifier the value encodes under. The method is
	// unexported so the set of variants is closed: Encode and Decode match
	// exhaustively over it.
	ident() Identifier
}

type Boolean bool

// Integer also carries ASN.1 ENUMERATED values when wrapped implicitly;
// Enumerated exists for the places the protocol uses the distinct tag.
type Integer int64

type Enumerated int64

type Null struct{}

type OctetString []byte

// Sequence is an ordered list of values; order is preserved on the wire.
type Sequence []Value

// SetOf is semantically unordered, but insertion order is preserved when
// encoding.
type SetOf []Value

// Tagged re-tags Inner under Identifier. When Explicit, the inner value's
// full encoding becomes the content of a new constructed wrapper; when
// implicit, only the identifier changes and the inner content octets are
// reused as-is.
type Tagged struct {
	Identifier Identifier
	Explicit   bool
	Inner      Value
}

func (Boolean) ident() Identifier     { return Identifier{ClassUniversal, TagBoolean, false} }
func (Integer) ident() Identifier     { return Identifier{ClassUniversal, TagInteger, false} }
func (Enumerated) ident() Identifier  { return Identifier{ClassUniversal, TagEnumerated, false} }
func (Null) ident() Identifier        { return Identifier{ClassUniversal, TagNull, false} }
func (OctetString) ident() Identifier { return Identifier{ClassUniversal, TagOctetString, false} }
func (Sequence) ident() Identifier    { return Identifier{ClassUniversal, TagSequence, true} }
func (SetOf) ident() Identifier       { return Identifier{ClassUniversal, TagSet, true} }

func (t Tagged) ident() Identifier {
	id := Identifier{Class: t.Identifier.Class, Tag: t.Identifier.Tag}
	if t.Explicit {
		id.Constructed = true
	} else {
		id.Constructed = t.Inner.ident().Constructed
	}
	return id
}
