package lexer_test

import (
	"testing"

	"github.com/manishthatte/ManiT/internal/lexer"
	"github.com/manishthatte/ManiT/internal/token"
)

func TestNextTokenOperatorsAndPunctuation(t *testing.T) {
	input := `let five = 5;
let ten = 10;

let add = fn(x, y) {
  x + y;
};

let result = add(five, ten);
!-/*5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
a % b;
a && b || c;
arr[0];
"hi";
// a comment
x;
`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.LET, "let"},
		{token.IDENTIFIER, "five"},
		{token.EQUAL, "="},
		{token.INTEGER_LITERAL, "5"},
		{token.SEMICOLON, ";"},
		{token.LET, "let"},
		{token.IDENTIFIER, "ten"},
		{token.EQUAL, "="},
		{token.INTEGER_LITERAL, "10"},
		{token.SEMICOLON, ";"},
		{token.LET, "let"},
		{token.IDENTIFIER, "add"},
		{token.EQUAL, "="},
		{token.FN, "fn"},
		{token.LPAREN, "("},
		{token.IDENTIFIER, "x"},
		{token.COMMA, ","},
		{token.IDENTIFIER, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENTIFIER, "x"},
		{token.PLUS, "+"},
		{token.IDENTIFIER, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.LET, "let"},
		{token.IDENTIFIER, "result"},
		{token.EQUAL, "="},
		{token.IDENTIFIER, "add"},
		{token.LPAREN, "("},
		{token.IDENTIFIER, "five"},
		{token.COMMA, ","},
		{token.IDENTIFIER, "ten"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.BANG, "!"},
		{token.MINUS, "-"},
		{token.SLASH, "/"},
		{token.STAR, "*"},
		{token.INTEGER_LITERAL, "5"},
		{token.SEMICOLON, ";"},
		{token.INTEGER_LITERAL, "5"},
		{token.LESS, "<"},
		{token.INTEGER_LITERAL, "10"},
		{token.GREATER, ">"},
		{token.INTEGER_LITERAL, "5"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.INTEGER_LITERAL, "5"},
		{token.LESS, "<"},
		{token.INTEGER_LITERAL, "10"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.TRUE, "true"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.FALSE, "false"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.INTEGER_LITERAL, "10"},
		{token.EQUAL_EQUAL, "=="},
		{token.INTEGER_LITERAL, "10"},
		{token.SEMICOLON, ";"},
		{token.INTEGER_LITERAL, "10"},
		{token.BANG_EQUAL, "!="},
		{token.INTEGER_LITERAL, "9"},
		{token.SEMICOLON, ";"},
		{token.IDENTIFIER, "a"},
		{token.PERCENT, "%"},
		{token.IDENTIFIER, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENTIFIER, "a"},
		{token.AMPERSAND_AMPERSAND, "&&"},
		{token.IDENTIFIER, "b"},
		{token.PIPE_PIPE, "||"},
		{token.IDENTIFIER, "c"},
		{token.SEMICOLON, ";"},
		{token.IDENTIFIER, "arr"},
		{token.LBRACKET, "["},
		{token.INTEGER_LITERAL, "0"},
		{token.RBRACKET, "]"},
		{token.SEMICOLON, ";"},
		{token.STRING_LITERAL, "hi"},
		{token.SEMICOLON, ";"},
		{token.IDENTIFIER, "x"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := lexer.New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextTokenIllegalAmpersandAndPipe(t *testing.T) {
	l := lexer.New("& |")

	tok := l.NextToken()
	if tok.Type != token.ILLEGAL || tok.Literal != "&" {
		t.Fatalf("expected illegal &, got %v %q", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.ILLEGAL || tok.Literal != "|" {
		t.Fatalf("expected illegal |, got %v %q", tok.Type, tok.Literal)
	}
}

func TestNextTokenEOFIsSticky(t *testing.T) {
	l := lexer.New("x")
	l.NextToken()
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.EOF {
			t.Fatalf("call %d: expected repeated EOF, got %v", i, tok.Type)
		}
	}
}
