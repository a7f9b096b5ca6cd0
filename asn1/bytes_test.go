package asn1

import (
	"bytes"
	"testing"
)

func TestEncodeIdentifier(t *testing.T) {
	tests := []struct {
		in  Identifier
		out []byte
	}{
		{Identifier{ClassUniversal, TagBoolean, false}, []byte{0x01}},
		{Identifier{ClassUniversal, TagOctetString, false}, []byte{0x04}},
		{Identifier{ClassUniversal, TagSequence, true}, []byte{0x30}},
		{Identifier{ClassContextSpecific, 0, true}, []byte{0xa0}},
		{Identifier{ClassContextSpecific, 7, false}, []byte{0x87}},
		{Identifier{ClassApplication, 3, true}, []byte{0x63}},
		{Identifier{ClassPrivate, 1, false}, []byte{0xc1}},
		// Tags at and past the multi-byte boundary.
		{Identifier{ClassUniversal, 30, false}, []byte{0x1f, 0x1e}},
		{Identifier{ClassContextSpecific, 31, false}, []byte{0x9f, 0x1f}},
		{Identifier{ClassContextSpecific, 201, true}, []byte{0xbf, 0x81, 0x49}},
		{Identifier{ClassUniversal, 1<<14 + 5, false}, []byte{0x1f, 0x81, 0x80, 0x05}},
	}
	for i, test := range tests {
		if actual := EncodeIdentifier(test.in); !bytes.Equal(actual, test.out) {
			t.Errorf("#%d: Bad result: %v (expected %v)", i, actual, test.out)
		}
		id, n, err := DecodeIdentifier(test.out)
		if err != nil {
			t.Errorf("#%d: Unexpected decode error: %v", i, err)
			continue
		}
		if id != test.in || n != len(test.out) {
			t.Errorf("#%d: Bad round trip: %v/%d (expected %v/%d)", i, id, n, test.in, len(test.out))
		}
	}
}

func TestDecodeIdentifierTruncated(t *testing.T) {
	for i, in := range [][]byte{{}, {0x1f}, {0x1f, 0x81}} {
		if _, _, err := DecodeIdentifier(in); err == nil {
			t.Errorf("#%d: expected error decoding %v", i, in)
		} else if err.(*DecodeError).Kind != Truncated {
			t.Errorf("#%d: wrong kind: %v", i, err)
		}
	}
}

func TestEncodeLength(t *testing.T) {
	tests := []struct {
		in  int
		out []byte
	}{
		{0, []byte{0x00}},
		{5, []byte{0x05}},
		{127, []byte{0x7f}},
		{128, []byte{0x81, 0x80}},
		{255, []byte{0x81, 0xff}},
		{256, []byte{0x82, 0x01, 0x00}},
		{0xffffff, []byte{0x83, 0xff, 0xff, 0xff}},
	}
	for i, test := range tests {
		if actual := EncodeLength(test.in); !bytes.Equal(actual, test.out) {
			t.Errorf("#%d: Bad result: %v (expected %v)", i, actual, test.out)
		}
	}
}

func TestLengthRoundTrip(t *testing.T) {
	lengths := []int{0, 1, 127, 128, 129, 255, 256, 4096, 65535, 65536, 1 << 24, 1<<32 - 1}
	for _, n := range lengths {
		enc := EncodeLength(n)
		dec, consumed, err := DecodeLength(enc)
		if err != nil {
			t.Errorf("length %d: unexpected error: %v", n, err)
			continue
		}
		if dec != n || consumed != len(enc) {
			t.Errorf("length %d: got %d/%d octets", n, dec, consumed)
		}
		if n < 128 && len(enc) != 1 {
			t.Errorf("length %d: short form must be one octet, got %d", n, len(enc))
		}
	}
}

func TestDecodeLengthErrors(t *testing.T) {
	tests := []struct {
		in   []byte
		kind DecodeErrorKind
	}{
		{[]byte{}, Truncated},
		{[]byte{0x81}, Truncated},
		{[]byte{0x80}, NonCanonicalLength}, // indefinite
		{[]byte{0xff}, NonCanonicalLength}, // reserved
		{[]byte{0x81, 0x05}, NonCanonicalLength}, // long form for short value
		{[]byte{0x82, 0x00, 0x80}, NonCanonicalLength}, // leading zero
		{[]byte{0x89, 1, 1, 1, 1, 1, 1, 1, 1, 1}, NonCanonicalLength},
	}
	for i, test := range tests {
		_, _, err := DecodeLength(test.in)
		if err == nil {
			t.Errorf("#%d: expected error decoding %v", i, test.in)
			continue
		}
		if err.(*DecodeError).Kind != test.kind {
			t.Errorf("#%d: wrong kind: %v", i, err)
		}
	}
}

func TestEncodeInt64Minimal(t *testing.T) {
	tests := []struct {
		in  int64
		out []byte
	}{
		{0, []byte{0x00}},
		{42, []byte{0x2a}},
		{127, []byte{0x7f}},
		{128, []byte{0x00, 0x80}},
		{256, []byte{0x01, 0x00}},
		{-1, []byte{0xff}},
		{-128, []byte{0x80}},
		{-129, []byte{0xff, 0x7f}},
		{0x100000001, []byte{0x01, 0x00, 0x00, 0x00, 0x01}},
		{-32769, []byte{0xff, 0x7f, 0xff}},
	}
	for i, test := range tests {
		actual := EncodeInt64(test.in)
		if !bytes.Equal(actual, test.out) {
			t.Errorf("#%d: Bad result: %v (expected %v)", i, actual, test.out)
		}
		dec, err := DecodeInt64(actual)
		if err != nil {
			t.Errorf("#%d: Unexpected decode error: %v", i, err)
		} else if dec != test.in {
			t.Errorf("#%d: Bad round trip: %d (expected %d)", i, dec, test.in)
		}
	}
}

func TestDecodeInt64Errors(t *testing.T) {
	if _, err := DecodeInt64(nil); err == nil {
		t.Error("expected error for empty integer")
	}
	if _, err := DecodeInt64(make([]byte, 9)); err == nil {
		t.Error("expected error for 9-octet integer")
	}
}

func TestBoolCodec(t *testing.T) {
	if actual := EncodeBool(true); !bytes.Equal(actual, []byte{0xff}) {
		t.Errorf("Bad result: %v", actual)
	}
	if actual := EncodeBool(false); !bytes.Equal(actual, []byte{0x00}) {
		t.Errorf("Bad result: %v", actual)
	}
	for i, test := range []struct {
		in  []byte
		out bool
	}{
		{[]byte{0x00}, false},
		{[]byte{0xff}, true},
		{[]byte{0x01}, true},
	} {
		v, err := DecodeBool(test.in)
		if err != nil || v != test.out {
			t.Errorf("#%d: got %v, %v", i, v, err)
		}
	}
	if _, err := DecodeBool([]byte{0x01, 0x02}); err == nil {
		t.Error("expected error for two-octet boolean")
	}
	if _, err := DecodeBool(nil); err == nil {
		t.Error("expected error for empty boolean")
	}
}
