package ldap

const ldapVersion = 3

const ( // LDAP application tags
	ldapBindRequest          = 0
	ldapBindResponse         = 1
	ldapUnbindRequest        = 2
	ldapSearchRequest        = 3
	ldapSearchResultEntry    = 4
	ldapSearchResultDone     = 5
	ldapSearchResultReferral = 19
)

const ( // LDAP Response Codes
	ldapSuccess = 0
)

const ( // Filter CHOICE tags (RFC 2251 section 4.5.1)
	filterAnd             = 0
	filterOr              = 1
	filterNot             = 2
	filterEqualityMatch   = 3
	filterSubstrings      = 4
	filterGreaterOrEqual  = 5
	filterLessOrEqual     = 6
	filterPresent         = 7
	filterApproxMatch     = 8
	filterExtensibleMatch = 9
)

const ( // SubstringFilter part tags
	substringInitial = 0
	substringAny     = 1
	substringFinal   = 2
)

const ( // MatchingRuleAssertion component tags
	extensibleMatchingRule = 1
	extensibleType         = 2
	extensibleMatchValue   = 3
	extensibleDNAttributes = 4
)

// Search scopes.
const (
	ScopeBaseObject   = 0
	ScopeSingleLevel  = 1
	ScopeWholeSubtree = 2
)

// Alias dereferencing policies.
const (
	NeverDerefAliases   = 0
	DerefInSearching    = 1
	DerefFindingBaseObj = 2
	DerefAlways         = 3
)
