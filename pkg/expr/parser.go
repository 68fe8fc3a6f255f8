package expr

import (
	"fmt"
	"strconv"
)

// Parse reads a property-access expression such as "vm.Items[3].Name".
// The leading identifier names the root parameter; every following step is
// either a member access, an indexed access with literal arguments, or a
// conversion annotation written as .(TypeName). Index arguments must be
// int, string, or bool literals; anything else is an unsupported chain.
func Parse(src string) (Expr, error) {
	p := &parser{lex: newLexer(src)}
	p.next()
	p.next()
	return p.parse()
}

type parser struct {
	lex  *lexer
	cur  token
	peek token
}

func (p *parser) next() {
	p.cur = p.peek
	p.peek = p.lex.nextToken()
}

func (p *parser) parse() (Expr, error) {
	if p.cur.typ != tokIdent {
		return nil, fmt.Errorf("%w: expected root identifier, got %q at col %d",
			ErrUnsupportedChain, p.cur.literal, p.cur.col)
	}
	var node Expr = &Ident{Name: p.cur.literal}
	p.next()

	for p.cur.typ == tokDot {
		p.next()
		var err error
		node, err = p.parseTrailer(node)
		if err != nil {
			return nil, err
		}
	}

	if p.cur.typ != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at col %d",
			ErrUnsupportedChain, p.cur.literal, p.cur.col)
	}
	return node, nil
}

func (p *parser) parseTrailer(target Expr) (Expr, error) {
	// Conversion: .(TypeName)
	if p.cur.typ == tokLParen {
		p.next()
		if p.cur.typ != tokIdent {
			return nil, fmt.Errorf("%w: expected type name in conversion at col %d",
				ErrUnsupportedChain, p.cur.col)
		}
		name := p.cur.literal
		p.next()
		if p.cur.typ != tokRParen {
			return nil, fmt.Errorf("%w: unterminated conversion at col %d",
				ErrUnsupportedChain, p.cur.col)
		}
		p.next()
		return &Convert{Target: target, TypeName: name}, nil
	}

	if p.cur.typ != tokIdent {
		return nil, fmt.Errorf("%w: expected member name, got %q at col %d",
			ErrUnsupportedChain, p.cur.literal, p.cur.col)
	}
	name := p.cur.literal
	p.next()

	if p.cur.typ != tokLBracket {
		return &Member{Target: target, Name: name}, nil
	}

	// Indexed access: Name[lit, lit, ...]
	p.next()
	var args []Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		args = append(args, lit)
		if p.cur.typ == tokComma {
			p.next()
			continue
		}
		break
	}
	if p.cur.typ != tokRBracket {
		return nil, fmt.Errorf("%w: unterminated index at col %d",
			ErrUnsupportedChain, p.cur.col)
	}
	p.next()
	return &Index{Target: target, Name: name, Args: args}, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	switch p.cur.typ {
	case tokInt:
		v, err := strconv.Atoi(p.cur.literal)
		if err != nil {
			return nil, fmt.Errorf("%w: bad integer %q at col %d",
				ErrUnsupportedChain, p.cur.literal, p.cur.col)
		}
		p.next()
		return &IntLit{V: v}, nil
	case tokMinus:
		p.next()
		if p.cur.typ != tokInt {
			return nil, fmt.Errorf("%w: expected integer after '-' at col %d",
				ErrUnsupportedChain, p.cur.col)
		}
		v, err := strconv.Atoi(p.cur.literal)
		if err != nil {
			return nil, fmt.Errorf("%w: bad integer %q at col %d",
				ErrUnsupportedChain, p.cur.literal, p.cur.col)
		}
		p.next()
		return &IntLit{V: -v}, nil
	case tokString:
		v := p.cur.literal
		p.next()
		return &StringLit{V: v}, nil
	case tokTrue:
		p.next()
		return &BoolLit{V: true}, nil
	case tokFalse:
		p.next()
		return &BoolLit{V: false}, nil
	case tokIdent:
		return nil, fmt.Errorf("%w: index argument %q is not a constant at col %d",
			ErrUnsupportedChain, p.cur.literal, p.cur.col)
	default:
		return nil, fmt.Errorf("%w: expected index literal, got %q at col %d",
			ErrUnsupportedChain, p.cur.literal, p.cur.col)
	}
}
