package expr

import "strings"

type tokenType string

const (
	tokIllegal  tokenType = "ILLEGAL"
	tokEOF      tokenType = "EOF"
	tokIdent    tokenType = "IDENT"
	tokInt      tokenType = "INT"
	tokString   tokenType = "STRING"
	tokTrue     tokenType = "TRUE"
	tokFalse    tokenType = "FALSE"
	tokDot      tokenType = "."
	tokComma    tokenType = ","
	tokLBracket tokenType = "["
	tokRBracket tokenType = "]"
	tokLParen   tokenType = "("
	tokRParen   tokenType = ")"
	tokMinus    tokenType = "-"
)

type token struct {
	typ     tokenType
	literal string
	col     int // 1-based
}

type lexer struct {
	input string

	position     int // current position (points to current char)
	readPosition int // reading position (after current char)
	ch           byte
	col          int // 1-based column of current char
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) nextToken() token {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}

	if l.ch == 0 {
		return token{typ: tokEOF, col: l.col}
	}

	startCol := l.col

	switch l.ch {
	case '.':
		l.readChar()
		return token{typ: tokDot, literal: ".", col: startCol}
	case ',':
		l.readChar()
		return token{typ: tokComma, literal: ",", col: startCol}
	case '[':
		l.readChar()
		return token{typ: tokLBracket, literal: "[", col: startCol}
	case ']':
		l.readChar()
		return token{typ: tokRBracket, literal: "]", col: startCol}
	case '(':
		l.readChar()
		return token{typ: tokLParen, literal: "(", col: startCol}
	case ')':
		l.readChar()
		return token{typ: tokRParen, literal: ")", col: startCol}
	case '-':
		l.readChar()
		return token{typ: tokMinus, literal: "-", col: startCol}
	case '"', '\'':
		return l.readString(startCol)
	}

	if isLetter(l.ch) {
		lit := l.readIdentifier()
		switch lit {
		case "true":
			return token{typ: tokTrue, literal: lit, col: startCol}
		case "false":
			return token{typ: tokFalse, literal: lit, col: startCol}
		}
		return token{typ: tokIdent, literal: lit, col: startCol}
	}
	if isDigit(l.ch) {
		return token{typ: tokInt, literal: l.readNumber(), col: startCol}
	}

	lit := string(l.ch)
	l.readChar()
	return token{typ: tokIllegal, literal: lit, col: startCol}
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.col++
	} else {
		l.ch = l.input[l.readPosition]
		l.col++
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *lexer) readString(startCol int) token {
	quote := l.ch
	l.readChar()
	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 {
			return token{typ: tokIllegal, literal: sb.String(), col: startCol}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return token{typ: tokString, literal: sb.String(), col: startCol}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
