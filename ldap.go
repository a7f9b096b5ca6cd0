package ldap

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"sync"

	"github.com/ldapwire/ldap/asn1"
)

// Conn is an LDAP client connection. It carries no retry, referral, or
// timeout policy; deadlines belong to the caller via net.Conn.
type Conn interface {
	net.Conn
	Bind(user, password string) error
	Unbind() error
	Search(req *SearchRequest) ([]*Entry, error)
}

// Dial connects over plain TCP.
func Dial(addr string) (Conn, error) {
	tcp, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewConn(tcp), nil
}

// DialSSL connects over TLS from the first byte (ldaps).
func DialSSL(addr string, config *tls.Config) (Conn, error) {
	tlsConn, err := tls.Dial("tcp", addr, config)
	if err != nil {
		return nil, err
	}
	return NewConn(tlsConn), nil
}

// DialTLS connects over TCP and upgrades immediately.
func DialTLS(addr string, config *tls.Config) (Conn, error) {
	tcp, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	tlsConn := tls.Client(tcp, config)
	if err := tlsConn.Handshake(); err != nil {
		tcp.Close()
		return nil, err
	}
	return NewConn(tlsConn), nil
}

// NewConn wraps an established network connection. The transport is the
// caller's problem; everything past it is this package's codec.
func NewConn(transport net.Conn) Conn {
	return &conn{
		Conn:   transport,
		r:      bufio.NewReader(transport),
		nextID: 1,
	}
}

type conn struct {
	net.Conn
	r *bufio.Reader

	mu     sync.Mutex
	nextID int
}

func (l *conn) getNextID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	return id
}

func application(tag int, inner asn1.Value) asn1.Value {
	return asn1.Tagged{
		Identifier: asn1.Identifier{Class: asn1.ClassApplication, Tag: tag},
		Inner:      inner,
	}
}

// writeMessage sends one LDAPMessage: SEQUENCE { messageID, op } with the
// operation under its application tag. It returns the message ID used.
func (l *conn) writeMessage(op asn1.Value) (int, error) {
	id := l.getNextID()
	b, err := asn1.Encode(asn1.Sequence{asn1.Integer(id), op})
	if err != nil {
		return 0, err
	}
	_, err = l.Write(b)
	return id, err
}

// readMessage reads one LDAPMessage and returns its ID and operation. The
// operation comes back as an implicit Tagged over the decoded components.
func (l *conn) readMessage() (int, asn1.Tagged, error) {
	raw, err := asn1.ReadElement(l.r)
	if err != nil {
		return 0, asn1.Tagged{}, err
	}
	v, _, err := asn1.Decode(raw)
	if err != nil {
		return 0, asn1.Tagged{}, err
	}
	msg, ok := v.(asn1.Sequence)
	if !ok || len(msg) < 2 {
		return 0, asn1.Tagged{}, LDAPError{"message is not a sequence of ID and operation"}
	}
	id, ok := msg[0].(asn1.Integer)
	if !ok {
		return 0, asn1.Tagged{}, LDAPError{"message ID is not an integer"}
	}
	op, ok := msg[1].(asn1.Tagged)
	if !ok || op.Identifier.Class != asn1.ClassApplication {
		return 0, asn1.Tagged{}, LDAPError{"operation is not application-tagged"}
	}
	return int(id), op, nil
}

// Bind performs a simple bind.
func (l *conn) Bind(user, password string) error {
	_, err := l.writeMessage(application(ldapBindRequest, asn1.Sequence{
		asn1.Integer(ldapVersion),
		asn1.OctetString(user),
		asn1.Tagged{
			Identifier: asn1.Identifier{Class: asn1.ClassContextSpecific, Tag: 0},
			Inner:      asn1.OctetString(password),
		},
	}))
	if err != nil {
		return err
	}

	_, op, err := l.readMessage()
	if err != nil {
		return err
	}
	if op.Identifier.Tag != ldapBindResponse {
		return LDAPError{fmt.Sprintf("expected bind response, got tag %d", op.Identifier.Tag)}
	}
	return resultError(op)
}

// Unbind notifies the server and closes the connection. The unbind request
// carries no response.
func (l *conn) Unbind() error {
	_, err := l.writeMessage(application(ldapUnbindRequest, asn1.Null{}))
	if err != nil {
		return err
	}
	return l.Close()
}

// resultError inspects the leading components shared by every LDAPResult:
// resultCode, matchedDN, diagnosticMessage. A non-zero code fails with the
// numeric code; mapping codes to text belongs to the caller.
func resultError(op asn1.Tagged) error {
	components, ok := op.Inner.(asn1.Sequence)
	if !ok || len(components) < 3 {
		return LDAPError{"result without resultCode, matchedDN, diagnosticMessage"}
	}
	code, ok := components[0].(asn1.Enumerated)
	if !ok {
		return LDAPError{"resultCode is not an enumerated"}
	}
	if code != ldapSuccess {
		diagnostic, _ := components[2].(asn1.OctetString)
		return LDAPError{fmt.Sprintf("resultCode = %d %q", code, diagnostic)}
	}
	return nil
}
