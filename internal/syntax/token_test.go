package syntax

import (
	"strings"
	"testing"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{_EOF, "EOF"},
		{_Name, "NAME"},
		{_Text, "TEXT"},
		{_Define, ":="},
		{_Eql, "="},
		{_EqlStrict, "=="},
		{_Neq, "!="},
		{_FloorDiv, "//"},
		{_Power, "**"},
		{_Arrow, "=>"},
		{_ForceExpr, "% "},
		{_Command, "COMMAND"},
		{_HotkeyMark, "HOTKEY_MARK"},
		{_ByRef, "byref"},
		{_KwNot, "not"},
		{_While, "while"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestTokenKindStringUnknown(t *testing.T) {
	got := TokenKind(999).String()
	if !strings.HasPrefix(got, "token(") {
		t.Errorf("unknown token string = %q, want prefix 'token('", got)
	}
}

func TestTokenKindNamesComplete(t *testing.T) {
	for k := TokenKind(0); k < tokenCount; k++ {
		if tokenNames[k] == "" {
			t.Errorf("TokenKind(%d) has no name", k)
		}
	}
}

func TestPrecedenceOrder(t *testing.T) {
	// Each operator binds tighter than the one before it.
	order := []TokenKind{
		_Define, _Question, _OrOr, _AndAnd, _Is, _Eql, _Lss, _RegEx,
		_Concat, _Or, _Xor, _And, _Shl, _Add, _Mul, _Power,
	}
	for i := 1; i < len(order); i++ {
		prev, cur := order[i-1], order[i]
		if prev.Precedence() >= cur.Precedence() {
			t.Errorf("%v (%d) should bind looser than %v (%d)",
				prev, prev.Precedence(), cur, cur.Precedence())
		}
	}

	for _, k := range []TokenKind{_EOF, _Name, _Lparen, _Comma, _Not, _KwNot, _Arrow} {
		if k.Precedence() != precNone {
			t.Errorf("%v.Precedence() = %d, want 0", k, k.Precedence())
		}
	}
}

func TestRightAssoc(t *testing.T) {
	tests := []struct {
		kind TokenKind
		d    Dialect
		want bool
	}{
		{_Define, V1, true},
		{_AddAssign, V2, true},
		{_Question, V2, true},
		{_Power, V1, false},
		{_Power, V2, true},
		{_Add, V2, false},
		{_Concat, V1, false},
	}

	for _, tt := range tests {
		if got := tt.kind.RightAssoc(tt.d); got != tt.want {
			t.Errorf("%v.RightAssoc(%v) = %v, want %v", tt.kind, tt.d, got, tt.want)
		}
	}
}

func TestTokenKindClasses(t *testing.T) {
	for _, k := range []TokenKind{_Define, _ConcatAssign, _UShrAssign} {
		if !k.IsAssign() {
			t.Errorf("%v.IsAssign() = false, want true", k)
		}
	}
	for _, k := range []TokenKind{_Eql, _Question, _Name} {
		if k.IsAssign() {
			t.Errorf("%v.IsAssign() = true, want false", k)
		}
	}

	for _, k := range []TokenKind{_Break, _If, _While, _ByRef} {
		if !k.IsKeyword() {
			t.Errorf("%v.IsKeyword() = false, want true", k)
		}
	}
	for _, k := range []TokenKind{_Name, _Command, _Define, _EOF} {
		if k.IsKeyword() {
			t.Errorf("%v.IsKeyword() = true, want false", k)
		}
	}

	for _, k := range []TokenKind{_HotkeyKey, _HotkeyMark, _HotstringOpen} {
		if !k.IsHotkey() {
			t.Errorf("%v.IsHotkey() = false, want true", k)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		d     Dialect
		want  TokenKind
	}{
		{"if", V1, _If},
		{"IF", V2, _If},
		{"Loop", V1, _Loop},
		{"and", V2, _AndAnd},
		{"OR", V1, _OrOr},
		{"not", V1, _KwNot},
		{"new", V1, _New},
		{"new", V2, _Name},
		{"ByRef", V1, _ByRef},
		{"ByRef", V2, _Name},
		{"contains", V1, _Name},
		{"contains", V2, _Contains},
		{"foo", V1, _Name},
	}

	for _, tt := range tests {
		if got := LookupKeyword(tt.ident, tt.d); got != tt.want {
			t.Errorf("LookupKeyword(%q, %v) = %v, want %v", tt.ident, tt.d, got, tt.want)
		}
	}
}

func TestTables(t *testing.T) {
	for _, name := range []string{"MsgBox", "msgbox", "FileAppend", "StringSplit"} {
		if !IsCommand(name) {
			t.Errorf("IsCommand(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"foo", "if", ""} {
		if IsCommand(name) {
			t.Errorf("IsCommand(%q) = true, want false", name)
		}
	}

	for _, name := range []string{"Include", "SingleInstance", "if"} {
		if !IsDirective(name) {
			t.Errorf("IsDirective(%q) = false, want true", name)
		}
	}
	if IsDirective("NoSuchDirective") {
		t.Error(`IsDirective("NoSuchDirective") = true, want false`)
	}

	for spelling, kind := range operators {
		if len(spelling) > maxOperatorLen {
			t.Errorf("operator %q is longer than maxOperatorLen", spelling)
		}
		if kind == _Invalid {
			t.Errorf("operator %q maps to INVALID", spelling)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: _Name, Text: "x"}, `NAME "x"`},
		{Token{Kind: _Rparen, Missing: true}, "missing )"},
		{Token{Kind: _EOL}, "EOL"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("Token.String() = %q, want %q", got, tt.want)
		}
	}
}
