package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderLeaves(t *testing.T) {
	tests := []struct {
		in  Filter
		out string
	}{
		{&EqualityMatch{Attribute: "cn", Value: []byte("John Smith")}, "(cn=John Smith)"},
		{&GreaterOrEqual{Attribute: "sn", Value: []byte("Smith")}, "(sn>=Smith)"},
		{&LessOrEqual{Attribute: "sn", Value: []byte("Smith")}, "(sn<=Smith)"},
		{&ApproxMatch{Attribute: "sn", Value: []byte("Smith")}, "(sn~=Smith)"},
		{&Present{Attribute: "objectclass"}, "(objectclass=*)"},
		{&EqualityMatch{Attribute: "cn", Value: []byte{}}, "(cn=)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.out, RenderFilter(test.in))
	}
}

func TestRenderEscapes(t *testing.T) {
	f := &EqualityMatch{Attribute: "cn", Value: []byte(`a*b(c)d\e` + "\x00")}
	assert.Equal(t, `(cn=a\2ab\28c\29d\5ce\00)`, RenderFilter(f))

	// Raw UTF-8 passes through unescaped.
	f = &EqualityMatch{Attribute: "cn", Value: []byte("José")}
	assert.Equal(t, "(cn=José)", RenderFilter(f))
}

func TestRenderSubstrings(t *testing.T) {
	tests := []struct {
		in  *Substrings
		out string
	}{
		{&Substrings{Attribute: "cn", Initial: []byte("Jo"), Any: [][]byte{[]byte("n")}, Final: []byte("th")},
			"(cn=Jo*n*th)"},
		{&Substrings{Attribute: "cn", Initial: []byte("Jo")}, "(cn=Jo*)"},
		{&Substrings{Attribute: "cn", Final: []byte("th")}, "(cn=*th)"},
		{&Substrings{Attribute: "cn", Any: [][]byte{[]byte("abc")}}, "(cn=*abc*)"},
		{&Substrings{Attribute: "cn", Any: [][]byte{{}}}, "(cn=**)"},
		{&Substrings{Attribute: "cn", Initial: []byte("a"), Any: [][]byte{{}}, Final: []byte("b")},
			"(cn=a**b)"},
		// Substring part content escapes its own stars.
		{&Substrings{Attribute: "cn", Initial: []byte("a*b")}, `(cn=a\2ab*)`},
	}
	for _, test := range tests {
		assert.Equal(t, test.out, RenderFilter(test.in))
	}
}

func TestRenderNested(t *testing.T) {
	f := &And{Filters: []Filter{
		&EqualityMatch{Attribute: "objectClass", Value: []byte("person")},
		&Or{Filters: []Filter{
			&EqualityMatch{Attribute: "sn", Value: []byte("Smith")},
			&Not{Filter: &Present{Attribute: "mail"}},
		}},
	}}
	assert.Equal(t, "(&(objectClass=person)(|(sn=Smith)(!(mail=*))))", RenderFilter(f))
}

func TestRenderExtensibleMatch(t *testing.T) {
	tests := []struct {
		in  *ExtensibleMatch
		out string
	}{
		{&ExtensibleMatch{MatchingRule: "caseExactMatch", AttributeType: "cn", Value: []byte("John")},
			"(cn:caseExactMatch:=John)"},
		{&ExtensibleMatch{AttributeType: "cn", Value: []byte("John")}, "(cn:=John)"},
		{&ExtensibleMatch{AttributeType: "cn", DNAttributes: true, Value: []byte("John")},
			"(cn:dn:=John)"},
		{&ExtensibleMatch{MatchingRule: "2.4.6", DNAttributes: true, Value: []byte("foo")},
			"(:dn:2.4.6:=foo)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.out, RenderFilter(test.in))
	}
}
