// Package asn1 implements the subset of ASN.1 BER (as restricted by LDAP,
// "LBER") needed to put LDAP protocol values on the wire: definite-length
// encodings of booleans, integers, enumerateds, nulls, octet strings,
// sequences, sets, and explicitly or implicitly tagged values.
package asn1

const ( // ASN.1 Classes
	ClassUniversal       = 0 // 0b00
	ClassApplication     = 1 // 0b01
	ClassContextSpecific = 2 // 0b10
	ClassPrivate         = 3 // 0b11
)

const ( // ASN.1 Universal Tags
	// TagEndOfContent     = 0x00
	TagBoolean = 0x01
	TagInteger = 0x02
	// TagBitString        = 0x03
	TagOctetString = 0x04
	TagNull        = 0x05
	// TagObjectIdentifier = 0x06
	// TagObjectDescriptor = 0x07
	// TagExternal         = 0x08
	// TagReal             = 0x09
	TagEnumerated = 0x0a
	// TagEmbeddedPDV      = 0x0b
	// TagUTF8String       = 0x0c
	// TagRelativeOID      = 0x0d
	TagSequence = 0x10
	TagSet      = 0x11
	// TagNumericString    = 0x12
	// TagPrintableString  = 0x13
	// TagT61String        = 0x14
	// TagVideotexString   = 0x15
	// TagIA5String        = 0x16
	// TagUTCTime          = 0x17
	// TagGeneralizedTime  = 0x18
	// TagGraphicString    = 0x19
	// TagVisibleString    = 0x1a
	// TagGeneralString    = 0x1b
	// TagUniversalString  = 0x1c
	// TagCharacterString  = 0x1d
	// TagBMPString        = 0x1e
)

// Identifier is the tag half of a BER tag-length-value triple: a class, a
// constructed-vs-primitive flag, and a numeric tag. Tags below 30 fit in
// the first identifier octet; larger tags take the multi-byte form.
type Identifier struct {
	Class       int
	Tag         int
	Constructed bool
}

// DecodeErrorKind classifies why a byte stream failed to decode.
type DecodeErrorKind int

const (
	// Truncated means the stream ended in the middle of a tag, length,
	// or content field.
	Truncated DecodeErrorKind = iota
	// LengthExceedsInput means a declared length runs past the end of
	// the available input.
	LengthExceedsInput
	// NonCanonicalLength means a length field used a form the protocol
	// forbids: the indefinite form, or a long form where the short form
	// (or fewer octets) would do.
	NonCanonicalLength
	// InvalidContent means content octets do not form a legal value for
	// their tag, or a value's shape contradicts its identifier.
	InvalidContent
)

var decodeErrorKinds = map[DecodeErrorKind]string{
	Truncated:          "truncated",
	LengthExceedsInput: "length exceeds input",
	NonCanonicalLength: "non-canonical length",
	InvalidContent:     "invalid content",
}

type DecodeError struct {
	Kind DecodeErrorKind
	Msg  string
}

func (e *DecodeError) Error() string {
	return "asn1: " + decodeErrorKinds[e.Kind] + ": " + e.Msg
}

func errDecode(kind DecodeErrorKind, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Msg: msg}
}
