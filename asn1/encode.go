package asn1

import "fmt"

// Encode produces the full BER encoding (identifier, length, content) of a
// value. Children of constructed values are encoded recursively into a
// scratch buffer so the definite length can be computed before the header
// is written.
func Encode(v Value) ([]byte, error) {
	content, err := encodeContent(v)
	if err != nil {
		return nil, err
	}
	out := EncodeIdentifier(v.ident())
	out = append(out, EncodeLength(len(content))...)
	return append(out, content...), nil
}

func encodeContent(v Value) ([]byte, error) {
	switch v := v.(type) {
	case Boolean:
		return EncodeBool(bool(v)), nil
	case Integer:
		return EncodeInt64(int64(v)), nil
	case Enumerated:
		return EncodeInt64(int64(v)), nil
	case Null:
		return nil, nil
	case OctetString:
		return v, nil
	case Sequence:
		return encodeChildren(v)
	case SetOf:
		return encodeChildren(v)
	case Tagged:
		if v.Inner == nil {
			return nil, fmt.Errorf("asn1: tagged value with nil inner value")
		}
		if v.Explicit {
			return Encode(v.Inner)
		}
		return encodeContent(v.Inner)
	case nil:
		return nil, fmt.Errorf("asn1: cannot encode nil value")
	default:
		return nil, fmt.Errorf("asn1: cannot encode %T", v)
	}
}

func encodeChildren(children []Value) ([]byte, error) {
	var buf []byte
	for _, child := range children {
		b, err := Encode(child)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}
