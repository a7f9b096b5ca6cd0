package ldap

// CompositeKind names the nested boolean filters a Builder can open.
type CompositeKind int

const (
	CompositeAnd CompositeKind = iota
	CompositeOr
	CompositeNot
)

var compositeKinds = map[CompositeKind]string{
	CompositeAnd: "and",
	CompositeOr:  "or",
	CompositeNot: "not",
}

// SubstringKind names the position of a substring part.
type SubstringKind int

const (
	SubstringInitial SubstringKind = iota
	SubstringAny
	SubstringFinal
)

// AssertionKind names the attribute-value-assertion leaves.
type AssertionKind int

const (
	AssertEquality AssertionKind = iota
	AssertGreaterOrEqual
	AssertLessOrEqual
	AssertApproxMatch
)

// A frame is either a nested boolean filter or a substrings block under
// construction. Keeping them as distinct types lets illegal transitions
// (say, AddSubstring while an and-filter is on top) fail on a type check
// rather than a cast.
type builderFrame interface {
	frame()
}

type nestedFrame struct {
	kind     CompositeKind
	children []Filter
}

type substringFrame struct {
	attr      string
	initial   []byte
	any       [][]byte
	final     []byte
	finalSeen bool
}

func (*nestedFrame) frame()    {}
func (*substringFrame) frame() {}

// Builder assembles a Filter tree incrementally, mirroring the filter
// grammar without a string. Calls must follow the grammar; violations fail
// immediately with a FilterError of kind ErrBuilderViolation and leave the
// builder unusable for anything but discarding. A Builder serves a single
// caller building a single filter.
type Builder struct {
	stack  []builderFrame
	result Filter
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) top() builderFrame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// complete attaches a finished node to the innermost open nested filter,
// or makes it the final result when nothing is open.
func (b *Builder) complete(f Filter) error {
	switch top := b.top().(type) {
	case nil:
		if b.result != nil {
			return errFilter(ErrBuilderViolation, "filter is already complete")
		}
		b.result = f
		return nil
	case *nestedFrame:
		if top.kind == CompositeNot && len(top.children) == 1 {
			return errFilter(ErrBuilderViolation, "not filter takes exactly one nested filter")
		}
		top.children = append(top.children, f)
		return nil
	default:
		return errFilter(ErrBuilderViolation, "substrings block is still open")
	}
}

// checkOpen rejects calls that start a new node while a substrings block
// is on top of the stack.
func (b *Builder) checkOpen() error {
	if _, open := b.top().(*substringFrame); open {
		return errFilter(ErrBuilderViolation, "substrings block is still open")
	}
	if len(b.stack) == 0 && b.result != nil {
		return errFilter(ErrBuilderViolation, "filter is already complete")
	}
	return nil
}

// StartNested opens an and, or, or not filter. Children added until the
// matching EndNested become its nested filters.
func (b *Builder) StartNested(kind CompositeKind) error {
	if _, known := compositeKinds[kind]; !known {
		return errFilter(ErrBuilderViolation, "unknown composite kind %d", kind)
	}
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.stack = append(b.stack, &nestedFrame{kind: kind})
	return nil
}

// EndNested closes the innermost open nested filter, which must be of the
// given kind and must have received its children: at least one for and/or,
// exactly one for not.
func (b *Builder) EndNested(kind CompositeKind) error {
	top, ok := b.top().(*nestedFrame)
	if !ok {
		return errFilter(ErrBuilderViolation, "no open %s filter", compositeKinds[kind])
	}
	if top.kind != kind {
		return errFilter(ErrBuilderViolation, "innermost open filter is %s, not %s",
			compositeKinds[top.kind], compositeKinds[kind])
	}
	switch {
	case top.kind == CompositeNot && len(top.children) != 1:
		return errFilter(ErrBuilderViolation, "not filter takes exactly one nested filter")
	case len(top.children) == 0:
		return errFilter(ErrBuilderViolation, "%s filter needs at least one nested filter",
			compositeKinds[top.kind])
	}
	b.stack = b.stack[:len(b.stack)-1]

	switch top.kind {
	case CompositeAnd:
		return b.complete(&And{Filters: top.children})
	case CompositeOr:
		return b.complete(&Or{Filters: top.children})
	default:
		return b.complete(&Not{Filter: top.children[0]})
	}
}

// StartSubstrings opens a substrings leaf for the given attribute.
func (b *Builder) StartSubstrings(attr string) error {
	if err := validateAttribute(attr); err != nil {
		return err
	}
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.stack = append(b.stack, &substringFrame{attr: attr})
	return nil
}

// AddSubstring appends one part to the open substrings block. An initial
// part is only legal as the first call after StartSubstrings; a final part
// must be the last call before EndSubstrings.
func (b *Builder) AddSubstring(kind SubstringKind, part []byte) error {
	top, ok := b.top().(*substringFrame)
	if !ok {
		return errFilter(ErrBuilderViolation, "no open substrings block")
	}
	if top.finalSeen {
		return errFilter(ErrBuilderViolation, "no substring may follow the final part")
	}
	if part == nil {
		part = []byte{}
	}
	switch kind {
	case SubstringInitial:
		if top.initial != nil || len(top.any) > 0 {
			return errFilter(ErrBuilderViolation, "initial part must come first")
		}
		top.initial = part
	case SubstringAny:
		top.any = append(top.any, part)
	case SubstringFinal:
		top.final = part
		top.finalSeen = true
	default:
		return errFilter(ErrBuilderViolation, "unknown substring kind %d", kind)
	}
	return nil
}

// EndSubstrings closes the open substrings block, which must hold at least
// one part.
func (b *Builder) EndSubstrings() error {
	top, ok := b.top().(*substringFrame)
	if !ok {
		return errFilter(ErrBuilderViolation, "no open substrings block")
	}
	if top.initial == nil && len(top.any) == 0 && !top.finalSeen {
		return errFilter(ErrBuilderViolation, "substrings block has no parts")
	}
	b.stack = b.stack[:len(b.stack)-1]
	return b.complete(&Substrings{
		Attribute: top.attr,
		Initial:   top.initial,
		Any:       top.any,
		Final:     top.final,
	})
}

// AddAssertion adds an attribute-value-assertion leaf.
func (b *Builder) AddAssertion(kind AssertionKind, attr string, value []byte) error {
	if err := validateAttribute(attr); err != nil {
		return err
	}
	if err := b.checkOpen(); err != nil {
		return err
	}
	switch kind {
	case AssertEquality:
		return b.complete(&EqualityMatch{Attribute: attr, Value: value})
	case AssertGreaterOrEqual:
		return b.complete(&GreaterOrEqual{Attribute: attr, Value: value})
	case AssertLessOrEqual:
		return b.complete(&LessOrEqual{Attribute: attr, Value: value})
	case AssertApproxMatch:
		return b.complete(&ApproxMatch{Attribute: attr, Value: value})
	default:
		return errFilter(ErrBuilderViolation, "unknown assertion kind %d", kind)
	}
}

// AddPresent adds an attr=* leaf.
func (b *Builder) AddPresent(attr string) error {
	if err := validateAttribute(attr); err != nil {
		return err
	}
	if err := b.checkOpen(); err != nil {
		return err
	}
	return b.complete(&Present{Attribute: attr})
}

// AddExtensibleMatch adds a matching-rule leaf. rule and attrType may each
// be empty, but not both.
func (b *Builder) AddExtensibleMatch(rule, attrType string, value []byte, dnAttributes bool) error {
	if rule == "" && attrType == "" {
		return errFilter(ErrBuilderViolation, "extensible match needs a matching rule or attribute type")
	}
	if attrType != "" {
		if err := validateAttribute(attrType); err != nil {
			return err
		}
	}
	if err := b.checkOpen(); err != nil {
		return err
	}
	return b.complete(&ExtensibleMatch{
		MatchingRule:  rule,
		AttributeType: attrType,
		Value:         value,
		DNAttributes:  dnAttributes,
	})
}

// Filter returns the completed tree. It fails while any nested filter or
// substrings block is still open, or when nothing was built.
func (b *Builder) Filter() (Filter, error) {
	if len(b.stack) != 0 {
		return nil, errFilter(ErrBuilderViolation, "%d filters still open", len(b.stack))
	}
	if b.result == nil {
		return nil, errFilter(ErrBuilderViolation, "no filter was built")
	}
	return b.result, nil
}
