package expr

import (
	"fmt"
	"strings"
)

// MemberKind distinguishes how a link is accessed. Storage classification
// (struct field vs getter method) happens later, against the declaring type.
type MemberKind int

const (
	// KindSimple is a plain member access: Name.
	KindSimple MemberKind = iota
	// KindIndexed is an indexed member access: Name[args].
	KindIndexed
)

// Link is one step in a property-access chain. Immutable once extracted.
type Link struct {
	// Name is the member name being accessed.
	Name string
	// Kind records whether the access carries index arguments.
	Kind MemberKind
	// Args are the literal index argument values, in order. Empty for
	// simple members.
	Args []any
	// Declaring is the symbolic name of the declaring type when the source
	// expression carried a conversion annotation, empty otherwise.
	Declaring string
}

func (l Link) String() string {
	if l.Kind != KindIndexed {
		return l.Name
	}
	parts := make([]string, len(l.Args))
	for i, a := range l.Args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return l.Name + "[" + strings.Join(parts, ",") + "]"
}

// Chain is an ordered sequence of links, root-to-leaf.
type Chain []Link

// String renders the chain as its source projection: links joined by dots,
// indexed links as Name[a,b]. An empty chain renders as the empty string.
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	return strings.Join(parts, ".")
}

// Valid reports whether the chain can back an observation: at least one
// link, every link named.
func (c Chain) Valid() bool {
	if len(c) == 0 {
		return false
	}
	for _, l := range c {
		if l.Name == "" {
			return false
		}
	}
	return true
}

// Rewrite simplifies an expression before chain extraction: nested
// conversion annotations collapse to the outermost one, and conversions
// that annotate nothing (no member between them) are folded together. All
// other nodes pass through untouched.
func Rewrite(e Expr) Expr {
	switch n := e.(type) {
	case *Convert:
		target := Rewrite(n.Target)
		if inner, ok := target.(*Convert); ok {
			// Outermost annotation wins.
			return &Convert{Target: inner.Target, TypeName: n.TypeName}
		}
		if n.TypeName == "" {
			return target
		}
		return &Convert{Target: target, TypeName: n.TypeName}
	case *Member:
		return &Member{Target: Rewrite(n.Target), Name: n.Name}
	case *Index:
		return &Index{Target: Rewrite(n.Target), Name: n.Name, Args: n.Args}
	default:
		return e
	}
}

// ExtractChain decomposes a property-access expression into its ordered
// link sequence, root-to-leaf. The expression is rewritten first. A bare
// root identifier yields an empty chain. Conversion annotations attach to
// the link that follows them as its declaring type. Any other node kind is
// an unsupported chain.
func ExtractChain(e Expr) (Chain, error) {
	var chain Chain
	node := Rewrite(e)
	// Walk bottom-up, innermost receiver first, collecting links in
	// reverse, then flip.
	for {
		switch n := node.(type) {
		case *Ident:
			reverse(chain)
			return chain, nil
		case *Member:
			link := Link{Name: n.Name, Kind: KindSimple}
			node = n.Target
			if conv, ok := node.(*Convert); ok {
				link.Declaring = conv.TypeName
				node = conv.Target
			}
			chain = append(chain, link)
		case *Index:
			link := Link{Name: n.Name, Kind: KindIndexed, Args: make([]any, len(n.Args))}
			for i, a := range n.Args {
				link.Args[i] = a.Value()
			}
			node = n.Target
			if conv, ok := node.(*Convert); ok {
				link.Declaring = conv.TypeName
				node = conv.Target
			}
			chain = append(chain, link)
		case *Convert:
			// A conversion with no enclosing member access annotates the
			// chain result itself; nothing to record.
			node = n.Target
		case nil:
			return nil, fmt.Errorf("%w: nil expression", ErrUnsupportedChain)
		default:
			return nil, fmt.Errorf("%w: cannot extract %T", ErrUnsupportedChain, n)
		}
	}
}

// MustExtract parses src and extracts its chain, panicking on malformed
// input. Intended for chain literals in tests and wiring code.
func MustExtract(src string) Chain {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	chain, err := ExtractChain(e)
	if err != nil {
		panic(err)
	}
	return chain
}

func reverse(c Chain) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}
