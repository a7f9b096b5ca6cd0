package ldap

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldapwire/ldap/asn1"
)

func TestBindRequestBytes(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConn(client)
	go func() {
		// The response is checked by Bind; errors surface there.
		raw, err := asn1.ReadElement(server)
		if err != nil {
			return
		}
		expected := []byte{
			0x30, 0x0e,
			0x02, 0x01, 0x01, // messageID 1
			0x60, 0x09, // [APPLICATION 0] BindRequest
			0x02, 0x01, 0x03, // version 3
			0x04, 0x01, 'u', // name
			0x80, 0x01, 'p', // simple authentication
		}
		assert.Equal(t, expected, raw)
		server.Write(mustEncodeMessage(t, 1, application(ldapBindResponse, asn1.Sequence{
			asn1.Enumerated(ldapSuccess),
			asn1.OctetString(""),
			asn1.OctetString(""),
		})))
	}()

	require.NoError(t, conn.Bind("u", "p"))
}

func TestBindFailureCarriesResultCode(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConn(client)
	go func() {
		if _, err := asn1.ReadElement(server); err != nil {
			return
		}
		server.Write(mustEncodeMessage(t, 1, application(ldapBindResponse, asn1.Sequence{
			asn1.Enumerated(49), // invalidCredentials, opaque to this layer
			asn1.OctetString(""),
			asn1.OctetString("invalid credentials"),
		})))
	}()

	err := conn.Bind("u", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "49")
}

func TestSearch(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConn(client)
	go func() {
		defer server.Close()
		raw, err := asn1.ReadElement(server)
		if err != nil {
			return
		}
		v, _, err := asn1.Decode(raw)
		if err != nil {
			return
		}
		msg := v.(asn1.Sequence)
		op := msg[1].(asn1.Tagged)
		assert.Equal(t, ldapSearchRequest, op.Identifier.Tag)
		components := op.Inner.(asn1.Sequence)
		assert.Equal(t, asn1.OctetString("dc=example,dc=org"), components[0])
		assert.Equal(t, asn1.Enumerated(ScopeWholeSubtree), components[1])
		// The compiled filter rides along inside the request.
		filter, err := filterFromValue(components[6])
		assert.NoError(t, err)
		assert.Equal(t, &EqualityMatch{Attribute: "cn", Value: []byte("John")}, filter)

		server.Write(mustEncodeMessage(t, 1, application(ldapSearchResultEntry, asn1.Sequence{
			asn1.OctetString("cn=John,dc=example,dc=org"),
			asn1.Sequence{
				asn1.Sequence{
					asn1.OctetString("cn"),
					asn1.SetOf{asn1.OctetString("John")},
				},
				asn1.Sequence{
					asn1.OctetString("mail"),
					asn1.SetOf{asn1.OctetString("john@example.org"), asn1.OctetString("js@example.org")},
				},
			},
		})))
		server.Write(mustEncodeMessage(t, 1, application(ldapSearchResultDone, asn1.Sequence{
			asn1.Enumerated(ldapSuccess),
			asn1.OctetString(""),
			asn1.OctetString(""),
		})))
	}()

	entries, err := conn.Search(&SearchRequest{
		BaseDN:     "dc=example,dc=org",
		Scope:      ScopeWholeSubtree,
		Filter:     "(cn=John)",
		Attributes: []string{"cn", "mail"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cn=John,dc=example,dc=org", entries[0].DN)
	assert.Equal(t, [][]byte{[]byte("John")}, entries[0].Attributes["cn"])
	assert.Len(t, entries[0].Attributes["mail"], 2)
}

func TestSearchRejectsBadFilterBeforeWriting(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConn(client)
	_, err := conn.Search(&SearchRequest{BaseDN: "dc=example,dc=org", Filter: "(cn=John"})
	require.Error(t, err)
	assert.Equal(t, ErrMissingRightParen, err.(*FilterError).Kind)
}

func TestUnbindClosesConnection(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	conn := NewConn(client)
	go func() {
		raw, err := asn1.ReadElement(server)
		if err != nil {
			return
		}
		assert.Equal(t, []byte{
			0x30, 0x05,
			0x02, 0x01, 0x01,
			0x42, 0x00, // [APPLICATION 2] UnbindRequest, NULL
		}, raw)
	}()

	require.NoError(t, conn.Unbind())
	_, err := conn.Write([]byte{0x00})
	assert.Error(t, err, "connection should be closed after unbind")
}

func mustEncodeMessage(t *testing.T, id int, op asn1.Value) []byte {
	t.Helper()
	b, err := asn1.Encode(asn1.Sequence{asn1.Integer(int64(id)), op})
	require.NoError(t, err)
	return b
}
