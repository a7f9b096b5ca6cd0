package asn1

import "fmt"

// EncodeIdentifier packs an Identifier into its BER octets. Class and the
// constructed flag occupy the top three bits of the first octet; tags below
// 30 fit in the remaining five bits, larger tags set those bits to 11111 and
// follow with base-128 groups, most significant first, high bit marking
// continuation.
func EncodeIdentifier(id Identifier) []byte {
	first := byte(id.Class << 6)
	if id.Constructed {
		first |= 0x20
	}
	if id.Tag < 0x1e {
		return []byte{first | byte(id.Tag)}
	}

	first |= 0x1f
	var groups []byte
	for t := id.Tag; ; t >>= 7 {
		groups = append(groups, byte(t&0x7f))
		if t < 0x80 {
			break
		}
	}
	out := []byte{first}
	for i := len(groups) - 1; i > 0; i-- {
		out = append(out, groups[i]|0x80)
	}
	return append(out, groups[0])
}

// DecodeIdentifier reads one identifier from the front of b, returning it
// and the number of octets consumed.
func DecodeIdentifier(b []byte) (Identifier, int, error) {
	if len(b) == 0 {
		return Identifier{}, 0, errDecode(Truncated, "missing identifier octet")
	}
	id := Identifier{
		Class:       int(b[0] >> 6),
		Constructed: b[0]&0x20 != 0,
	}
	if c := b[0] & 0x1f; c < 0x1f {
		id.Tag = int(c)
		return id, 1, nil
	}
	n := 1
	for {
		if n >= len(b) {
			return Identifier{}, 0, errDecode(Truncated, "identifier ends inside multi-byte tag")
		}
		id.Tag = id.Tag<<7 | int(b[n]&0x7f)
		n++
		if b[n-1]&0x80 == 0 {
			return id, n, nil
		}
	}
}

// EncodeLength produces the definite-length octets for a content length.
// Lengths below 128 use the single-octet short form; anything larger uses
// the long form: a length-of-length octet with the high bit set followed by
// the big-endian magnitude.
func EncodeLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var magnitude []byte
	for v := n; v > 0; v >>= 8 {
		magnitude = append(magnitude, byte(v))
	}
	out := []byte{0x80 | byte(len(magnitude))}
	for i := len(magnitude) - 1; i >= 0; i-- {
		out = append(out, magnitude[i])
	}
	return out
}

// DecodeLength reads one length field from the front of b, returning the
// length and the number of octets consumed. The indefinite form and
// non-minimal long forms are rejected; LDAP requires canonical lengths.
func DecodeLength(b []byte) (int, int, error) {
	if len(b) == 0 {
		return 0, 0, errDecode(Truncated, "missing length octet")
	}
	c := b[0]
	switch {
	case c < 0x80:
		return int(c), 1, nil
	case c == 0x80:
		return 0, 0, errDecode(NonCanonicalLength, "indefinite length is forbidden")
	case c == 0xff:
		return 0, 0, errDecode(NonCanonicalLength, "reserved length-of-length octet 0xff")
	}
	n := int(c & 0x7f)
	if n > 8 {
		return 0, 0, errDecode(NonCanonicalLength, fmt.Sprintf("%d length octets", n))
	}
	if len(b) < 1+n {
		return 0, 0, errDecode(Truncated, "length field ends inside long form")
	}
	if b[1] == 0 {
		return 0, 0, errDecode(NonCanonicalLength, "leading zero in long-form length")
	}
	length := 0
	for _, o := range b[1 : 1+n] {
		if length > (1<<55)-1 { // would overflow int on the next shift
			return 0, 0, errDecode(NonCanonicalLength, "length does not fit in int")
		}
		length = length<<8 | int(o)
	}
	if length < 0x80 {
		return 0, 0, errDecode(NonCanonicalLength, "long form used for short-form length")
	}
	return length, 1 + n, nil
}

// EncodeInt64 produces the minimal two's-complement content octets for an
// integer or enumerated value: octets are trimmed so long as the leading
// octet is pure sign extension of the one after it.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 7 {
		if out[i] == 0x00 && out[i+1]&0x80 == 0 {
			i++
		} else if out[i] == 0xff && out[i+1]&0x80 != 0 {
			i++
		} else {
			break
		}
	}
	return out[i:]
}

// DecodeInt64 interprets content octets as a two's-complement integer.
func DecodeInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errDecode(InvalidContent, "integer with no content octets")
	}
	if len(b) > 8 {
		return 0, errDecode(InvalidContent, "integer does not fit in 64 bits")
	}
	var v int64
	if b[0]&0x80 != 0 {
		v = -1
	}
	for _, o := range b {
		v = v<<8 | int64(o)
	}
	return v, nil
}

// EncodeBool produces the single content octet for a boolean: 0xff for
// true, 0x00 for false.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{0xff}
	}
	return []byte{0x00}
}

// DecodeBool interprets content octets as a boolean. Any non-zero octet is
// true; the content must be exactly one octet.
func DecodeBool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, errDecode(InvalidContent, fmt.Sprintf("boolean must be one octet, got %d", len(b)))
	}
	return b[0] != 0, nil
}
