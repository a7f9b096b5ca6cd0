package asn1

import (
	"fmt"
	"io"
)

// Decode reads one complete element from the front of b, returning the
// decoded value and the number of octets consumed.
func Decode(b []byte) (Value, int, error) {
	id, idLen, err := DecodeIdentifier(b)
	if err != nil {
		return nil, 0, err
	}
	length, lenLen, err := DecodeLength(b[idLen:])
	if err != nil {
		return nil, 0, err
	}
	header := idLen + lenLen
	if length > len(b)-header {
		return nil, 0, errDecode(LengthExceedsInput,
			fmt.Sprintf("declared %d content octets, %d remain", length, len(b)-header))
	}
	v, err := DecodeWithIdentifier(id, b[header:header+length])
	if err != nil {
		return nil, 0, err
	}
	return v, header + length, nil
}

// DecodeWithIdentifier decodes content octets whose identifier has already
// been stripped. Universal tags decode to their typed variants. For other
// classes the schema is not known here, so constructed values come back as
// an implicit Tagged over a Sequence of children and primitives as a Tagged
// over the raw content octets.
func DecodeWithIdentifier(id Identifier, content []byte) (Value, error) {
	if id.Class != ClassUniversal {
		if !id.Constructed {
			return Tagged{Identifier: id, Inner: OctetString(content)}, nil
		}
		children, err := decodeChildren(content)
		if err != nil {
			return nil, err
		}
		return Tagged{Identifier: id, Inner: Sequence(children)}, nil
	}

	switch id.Tag {
	case TagBoolean:
		v, err := DecodeBool(content)
		if err != nil {
			return nil, err
		}
		return Boolean(v), nil
	case TagInteger:
		v, err := DecodeInt64(content)
		if err != nil {
			return nil, err
		}
		return Integer(v), nil
	case TagEnumerated:
		v, err := DecodeInt64(content)
		if err != nil {
			return nil, err
		}
		return Enumerated(v), nil
	case TagNull:
		if len(content) != 0 {
			return nil, errDecode(InvalidContent, "null with content octets")
		}
		return Null{}, nil
	case TagOctetString:
		if id.Constructed {
			return nil, errDecode(InvalidContent, "constructed octet string is forbidden")
		}
		return OctetString(content), nil
	case TagSequence, TagSet:
		if !id.Constructed {
			return nil, errDecode(InvalidContent, "primitive sequence or set")
		}
		children, err := decodeChildren(content)
		if err != nil {
			return nil, err
		}
		if id.Tag == TagSet {
			return SetOf(children), nil
		}
		return Sequence(children), nil
	default:
		return nil, errDecode(InvalidContent, fmt.Sprintf("unsupported universal tag %#x", id.Tag))
	}
}

// decodeChildren walks content left to right; each child must lie entirely
// within the declared bounds, and the children together must consume the
// content exactly.
func decodeChildren(content []byte) ([]Value, error) {
	var children []Value
	for off := 0; off < len(content); {
		child, n, err := Decode(content[off:])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		off += n
	}
	return children, nil
}

// ReadElement reads exactly one complete element (identifier, length,
// content) from r and returns its raw octets. It is the stream-facing
// entrance used by a connection loop feeding received messages to Decode.
func ReadElement(r io.Reader) ([]byte, error) {
	one := make([]byte, 1)
	readOctet := func() (byte, error) {
		if _, err := io.ReadFull(r, one); err != nil {
			return 0, err
		}
		return one[0], nil
	}

	first, err := readOctet()
	if err != nil {
		return nil, err
	}
	raw := []byte{first}
	if first&0x1f == 0x1f {
		for {
			o, err := readOctet()
			if err != nil {
				return nil, err
			}
			raw = append(raw, o)
			if o&0x80 == 0 {
				break
			}
		}
	}

	lenOctet, err := readOctet()
	if err != nil {
		return nil, err
	}
	raw = append(raw, lenOctet)
	length := int(lenOctet)
	if lenOctet&0x80 != 0 {
		n := int(lenOctet & 0x7f)
		if n == 0 {
			return nil, errDecode(NonCanonicalLength, "indefinite length is forbidden")
		}
		if n > 8 {
			return nil, errDecode(NonCanonicalLength, fmt.Sprintf("%d length octets", n))
		}
		long := make([]byte, n)
		if _, err := io.ReadFull(r, long); err != nil {
			return nil, err
		}
		raw = append(raw, long...)
		length = 0
		for _, o := range long {
			if length > (1<<55)-1 {
				return nil, errDecode(NonCanonicalLength, "length does not fit in int")
			}
			length = length<<8 | int(o)
		}
	}

	content := make([]byte, length)
	if _, err := io.ReadFull(r, content); err != nil {
		return nil, err
	}
	return append(raw, content...), nil
}
