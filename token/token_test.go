package token

import "testing"

func TestKeywordsMapToExpectedTypes(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
	}{
		{"var", VAR},
		{"fun", FUN},
		{"up", UP},
		{"down", DOWN},
		{"move", MOVE},
		{"read", READ},
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"return", RETURN},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := Keywords[tt.word]
			if !ok {
				t.Fatalf("expected %q to be a keyword", tt.word)
			}
			if got != tt.want {
				t.Errorf("Keywords[%q] = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestNewIntCarriesLiteralAndLexeme(t *testing.T) {
	tok := NewInt("042", 42, 3, 7)
	if tok.Type != INT {
		t.Errorf("Type = %v, want INT", tok.Type)
	}
	if tok.Literal != 42 {
		t.Errorf("Literal = %v, want 42", tok.Literal)
	}
	if tok.Lexeme != "042" {
		t.Errorf("Lexeme = %q, want %q", tok.Lexeme, "042")
	}
	if tok.Line != 3 || tok.Column != 7 {
		t.Errorf("position = %d:%d, want 3:7", tok.Line, tok.Column)
	}
}

func TestStringIncludesTypeAndLexeme(t *testing.T) {
	tok := New(PLUS, "+", 1, 1)
	if s := tok.String(); s != `+("+")@1:1` {
		t.Fatalf("String() = %q, want %q", s, `+("+")@1:1`)
	}
}
