// Package parser implements a Pratt expression parser and statement parser
// over a token.Token stream, producing an ast.Program.
package parser

import (
	"strconv"

	"github.com/manishthatte/ManiT/internal/ast"
	"github.com/manishthatte/ManiT/internal/lexer"
	"github.com/manishthatte/ManiT/internal/token"
)

// Precedence levels, low to high. A pure function replaces the teacher's
// inline constants (spec DESIGN NOTES: "express the Pratt table as a pure
// precedence function").
type precedence int

const (
	LOWEST precedence = iota
	ASSIGN
	OR
	AND
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
)

var precedences = map[token.Type]precedence{
	token.EQUAL:               ASSIGN,
	token.PIPE_PIPE:           OR,
	token.AMPERSAND_AMPERSAND: AND,
	token.EQUAL_EQUAL:         EQUALS,
	token.BANG_EQUAL:          EQUALS,
	token.LESS:                LESSGREATER,
	token.LESS_EQUAL:          LESSGREATER,
	token.GREATER:             LESSGREATER,
	token.GREATER_EQUAL:       LESSGREATER,
	token.PLUS:                SUM,
	token.MINUS:               SUM,
	token.SLASH:               PRODUCT,
	token.STAR:                PRODUCT,
	token.PERCENT:             PRODUCT,
	token.LPAREN:              CALL,
	token.LBRACKET:            INDEX,
}

func precedenceOf(t token.Type) precedence {
	if p, ok := precedences[t]; ok {
		return p
	}
	return LOWEST
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a token.Token stream with two-token lookahead and produces
// an ast.Program. A failing sub-parse returns nil; ancestors propagate nil
// and the top-level loop still advances, guaranteeing progress (spec §4.2).
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New constructs a Parser over l, priming curToken/peekToken with two
// initial advances.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENTIFIER:      p.parseIdentifier,
		token.INTEGER_LITERAL: p.parseIntegerLiteral,
		token.TRUE:            p.parseBooleanLiteral,
		token.FALSE:           p.parseBooleanLiteral,
		token.LBRACKET:        p.parseArrayLiteral,
		token.BANG:            p.parsePrefixExpression,
		token.MINUS:           p.parsePrefixExpression,
		token.IF:              p.parseIfExpression,
		token.FN:              p.parseFunctionLiteral,
		token.WHILE:           p.parseWhileExpression,
		token.FOR:             p.parseForLoopExpression,
		token.LPAREN:          p.parseGroupedExpression,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:                p.parseInfixExpression,
		token.MINUS:               p.parseInfixExpression,
		token.SLASH:               p.parseInfixExpression,
		token.STAR:                p.parseInfixExpression,
		token.PERCENT:             p.parseInfixExpression,
		token.EQUAL_EQUAL:         p.parseInfixExpression,
		token.BANG_EQUAL:          p.parseInfixExpression,
		token.LESS:                p.parseInfixExpression,
		token.LESS_EQUAL:          p.parseInfixExpression,
		token.GREATER:             p.parseInfixExpression,
		token.GREATER_EQUAL:       p.parseInfixExpression,
		token.AMPERSAND_AMPERSAND: p.parseInfixExpression,
		token.PIPE_PIPE:           p.parseInfixExpression,
		token.LPAREN:              p.parseCallExpression,
		token.LBRACKET:            p.parseIndexExpression,
		token.EQUAL:               p.parseAssignmentExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics accumulated so far. Per spec §7 this is an
// accumulation the core does not require callers to consult: a nil return
// from any parse method is the authoritative failure signal.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

// expectPeek advances past peek if it matches t, otherwise records an error
// and leaves the cursor in place.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, "expected next token to be "+t.String()+", got "+p.peekToken.Type.String()+" instead")
	return false
}

func (p *Parser) peekPrecedence() precedence { return precedenceOf(p.peekToken.Type) }
func (p *Parser) curPrecedence() precedence  { return precedenceOf(p.curToken.Type) }

// ParseProgram consumes tokens up to EOF, returning a (possibly partial)
// Program. Statements that fail to parse are dropped; the top-level loop
// always advances.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.VAR:
		return p.parseVarStatement()
	case token.STRUCT:
		return p.parseStructDefinitionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENTIFIER) {
			return nil
		}
		stmt.Type = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(token.EQUAL) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENTIFIER) {
			return nil
		}
		stmt.Type = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(token.EQUAL) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseStructDefinitionStatement() ast.Statement {
	stmt := &ast.StructDefinitionStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	if !p.peekTokenIs(token.RBRACE) {
		field, ok := p.parseStructField()
		if !ok {
			return nil
		}
		stmt.Fields = append(stmt.Fields, field)

		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			field, ok := p.parseStructField()
			if !ok {
				return nil
			}
			stmt.Fields = append(stmt.Fields, field)
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseStructField() (ast.StructField, bool) {
	if !p.expectPeek(token.IDENTIFIER) {
		return ast.StructField{}, false
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.COLON) {
		return ast.StructField{}, false
	}
	if !p.expectPeek(token.IDENTIFIER) {
		return ast.StructField{}, false
	}
	typ := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	return ast.StructField{Name: name, Type: typ}, true
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken()

	if !p.curTokenIs(token.SEMICOLON) {
		stmt.Value = p.parseExpression(LOWEST)
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseExpression(prec precedence) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errors = append(p.errors, "no prefix parse function for "+p.curToken.Type.String()+" found")
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && prec < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errors = append(p.errors, "could not parse "+p.curToken.Literal+" as integer")
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(token.RBRACKET)
	return array
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errors = append(p.errors, "left-hand side of assignment must be an identifier")
		return nil
	}
	expr := &ast.AssignmentExpression{Token: p.curToken, Target: ident}
	prec := p.curPrecedence()
	p.nextToken()
	expr.Value = p.parseExpression(prec)
	if expr.Value == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Function: fn}
	expr.Arguments = p.parseExpressionList(token.RPAREN)
	return expr
}

// parseExpressionList parses a comma-separated expression sequence up to and
// including end. A nil return (as opposed to an empty non-nil slice) means a
// sub-expression failed to parse.
func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return []ast.Expression{}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next := p.parseExpression(LOWEST)
		if next == nil {
			return nil
		}
		list = append(list, next)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if expr.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Alternative = p.parseBlockStatement()
	}

	return expr
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expr := &ast.WhileExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if expr.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseForLoopExpression() ast.Expression {
	expr := &ast.ForLoopExpression{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	if !p.curTokenIs(token.SEMICOLON) {
		expr.Initializer = p.parseStatement()
	}
	if !p.curTokenIs(token.SEMICOLON) {
		return nil
	}
	p.nextToken()

	if !p.curTokenIs(token.SEMICOLON) {
		expr.Condition = p.parseExpression(LOWEST)
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	if !p.curTokenIs(token.RPAREN) {
		expr.Increment = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	fn.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	var params []*ast.Identifier

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	p.nextToken()
	params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}
