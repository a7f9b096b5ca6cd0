package ldap

import (
	"fmt"

	"github.com/ldapwire/ldap/asn1"
)

// SearchRequest describes one search operation. Filter is the RFC 2254
// string form; it is compiled when the request is sent.
type SearchRequest struct {
	BaseDN       string
	Scope        int
	DerefAliases int
	SizeLimit    int
	TimeLimit    int
	TypesOnly    bool
	Filter       string
	Attributes   []string
}

// Entry is one search result.
type Entry struct {
	DN         string
	Attributes map[string][][]byte
}

func (req *SearchRequest) encode() (asn1.Value, error) {
	f, err := ParseFilter(req.Filter)
	if err != nil {
		return nil, err
	}
	attrs := make(asn1.Sequence, len(req.Attributes))
	for i, attr := range req.Attributes {
		attrs[i] = asn1.OctetString(attr)
	}
	return application(ldapSearchRequest, asn1.Sequence{
		asn1.OctetString(req.BaseDN),
		asn1.Enumerated(req.Scope),
		asn1.Enumerated(req.DerefAliases),
		asn1.Integer(req.SizeLimit),
		asn1.Integer(req.TimeLimit),
		asn1.Boolean(req.TypesOnly),
		f.encode(),
		attrs,
	}), nil
}

// Search sends the request and collects result entries until the server
// reports the search done. Referral messages are skipped; following them
// is the caller's policy.
func (l *conn) Search(req *SearchRequest) ([]*Entry, error) {
	op, err := req.encode()
	if err != nil {
		return nil, err
	}
	id, err := l.writeMessage(op)
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	for {
		msgID, op, err := l.readMessage()
		if err != nil {
			return nil, err
		}
		if msgID != id {
			return nil, LDAPError{fmt.Sprintf("response for message %d, expected %d", msgID, id)}
		}
		switch op.Identifier.Tag {
		case ldapSearchResultEntry:
			entry, err := entryFromValue(op.Inner)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		case ldapSearchResultReferral:
			continue
		case ldapSearchResultDone:
			if err := resultError(op); err != nil {
				return nil, err
			}
			return entries, nil
		default:
			return nil, LDAPError{fmt.Sprintf("unexpected operation tag %d during search", op.Identifier.Tag)}
		}
	}
}

// entryFromValue unpacks SearchResultEntry: the object name followed by a
// list of attribute/value-set pairs.
func entryFromValue(v asn1.Value) (*Entry, error) {
	components, ok := v.(asn1.Sequence)
	if !ok || len(components) != 2 {
		return nil, LDAPError{"entry must hold an object name and attributes"}
	}
	dn, ok := components[0].(asn1.OctetString)
	if !ok {
		return nil, LDAPError{"object name must be an octet string"}
	}
	attrList, ok := components[1].(asn1.Sequence)
	if !ok {
		return nil, LDAPError{"entry attributes must be a sequence"}
	}

	entry := &Entry{DN: string(dn), Attributes: make(map[string][][]byte, len(attrList))}
	for _, a := range attrList {
		pair, ok := a.(asn1.Sequence)
		if !ok || len(pair) != 2 {
			return nil, LDAPError{"attribute must hold a type and value set"}
		}
		name, ok := pair[0].(asn1.OctetString)
		if !ok {
			return nil, LDAPError{"attribute type must be an octet string"}
		}
		values, ok := pair[1].(asn1.SetOf)
		if !ok {
			return nil, LDAPError{"attribute values must be a set"}
		}
		for _, value := range values {
			octets, ok := value.(asn1.OctetString)
			if !ok {
				return nil, LDAPError{"attribute value must be an octet string"}
			}
			entry.Attributes[string(name)] = append(entry.Attributes[string(name)], octets)
		}
	}
	return entry, nil
}
