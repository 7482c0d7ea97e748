// Package syntax implements lexical and syntactic analysis for AutoHotkey scripts.
package syntax

import "fmt"

// Dialect selects between the two versions of the language.
// It changes the operator set, command syntax and a few associativity rules.
type Dialect uint8

const (
	V1 Dialect = iota // AutoHotkey v1.1: legacy commands, `new`, left-assoc **
	V2                // AutoHotkey v2: function-call statements, right-assoc **
)

func (d Dialect) String() string {
	if d == V2 {
		return "v2"
	}
	return "v1"
}

// TokenKind represents the type of a lexical token.
type TokenKind uint

const (
	// Special tokens
	_EOF     TokenKind = iota // end of file
	_EOL                      // end of a logical line
	_Invalid                  // unrecognised character

	// Literals
	_Name   // identifier: foo, A_Index, MyClass
	_Number // 123, 0x1F, 1.5e3
	_String // "quoted" or multiline string
	_Text   // verbatim command, directive or hotstring text

	// Assignment operators (lowest precedence, right associative)
	_Define         // :=
	_AddAssign      // +=
	_SubAssign      // -=
	_MulAssign      // *=
	_DivAssign      // /=
	_FloorDivAssign // //=
	_ConcatAssign   // .=
	_OrAssign       // |=
	_AndAssign      // &=
	_XorAssign      // ^=
	_ShlAssign      // <<=
	_ShrAssign      // >>=
	_UShrAssign     // >>>=

	// Ternary
	_Question // ?

	// Logical operators
	_OrOr   // || or
	_AndAnd // && and

	// Comparison operators
	_Eql       // =
	_EqlStrict // ==
	_Neq       // <> !=
	_NeqStrict // !==
	_Lss       // <
	_Leq       // <=
	_Gtr       // >
	_Geq       // >=
	_RegEx     // ~=

	// Concatenation: " . " (a dot surrounded by whitespace)
	_Concat

	// Bitwise operators
	_Or   // |
	_Xor  // ^
	_And  // &
	_Shl  // <<
	_Shr  // >>
	_UShr // >>>

	// Arithmetic operators
	_Add      // +
	_Sub      // -
	_Mul      // *
	_Div      // /
	_FloorDiv // //
	_Power    // **

	// Unary operators
	_Not   // !
	_Tilde // ~
	_Inc   // ++
	_Dec   // --

	_Arrow // =>

	// Delimiters
	_Lparen    // (
	_Rparen    // )
	_Lbrack    // [
	_Rbrack    // ]
	_Lbrace    // {
	_Rbrace    // }
	_Comma     // ,
	_Colon     // :
	_Dot       // .
	_Percent   // % around a dereference
	_ForceExpr // "% " starting an expression argument of a command

	// Line constructs
	_Command        // legacy command name at start of statement
	_Directive      // #Include, #SingleInstance, ...
	_Label          // Name: at start of line (Text holds the name)
	_HotkeyModifier // #!^+<>*~$ prefix of a hotkey
	_HotkeyKey      // key name of a hotkey
	_HotkeyAnd      // & of a custom combination
	_HotkeyUp       // UP suffix
	_HotkeyMark     // :: closing a hotkey
	_HotstringOpen  // :options:
	_HotstringMark  // :: closing a hotstring trigger

	// Keywords
	_Break
	_ByRef
	_Case
	_Catch
	_Class
	_Contains
	_Continue
	_Default
	_Else
	_Extends
	_Finally
	_For
	_Global
	_Gosub
	_Goto
	_If
	_In
	_Is
	_Local
	_Loop
	_New
	_KwNot // not
	_Return
	_Static
	_Switch
	_Throw
	_Try
	_Until
	_While

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:     "EOF",
	_EOL:     "EOL",
	_Invalid: "INVALID",

	_Name:   "NAME",
	_Number: "NUMBER",
	_String: "STRING",
	_Text:   "TEXT",

	_Define:         ":=",
	_AddAssign:      "+=",
	_SubAssign:      "-=",
	_MulAssign:      "*=",
	_DivAssign:      "/=",
	_FloorDivAssign: "//=",
	_ConcatAssign:   ".=",
	_OrAssign:       "|=",
	_AndAssign:      "&=",
	_XorAssign:      "^=",
	_ShlAssign:      "<<=",
	_ShrAssign:      ">>=",
	_UShrAssign:     ">>>=",

	_Question: "?",

	_OrOr:   "||",
	_AndAnd: "&&",

	_Eql:       "=",
	_EqlStrict: "==",
	_Neq:       "!=",
	_NeqStrict: "!==",
	_Lss:       "<",
	_Leq:       "<=",
	_Gtr:       ">",
	_Geq:       ">=",
	_RegEx:     "~=",

	_Concat: " . ",

	_Or:   "|",
	_Xor:  "^",
	_And:  "&",
	_Shl:  "<<",
	_Shr:  ">>",
	_UShr: ">>>",

	_Add:      "+",
	_Sub:      "-",
	_Mul:      "*",
	_Div:      "/",
	_FloorDiv: "//",
	_Power:    "**",

	_Not:   "!",
	_Tilde: "~",
	_Inc:   "++",
	_Dec:   "--",

	_Arrow: "=>",

	_Lparen:    "(",
	_Rparen:    ")",
	_Lbrack:    "[",
	_Rbrack:    "]",
	_Lbrace:    "{",
	_Rbrace:    "}",
	_Comma:     ",",
	_Colon:     ":",
	_Dot:       ".",
	_Percent:   "%",
	_ForceExpr: "% ",

	_Command:        "COMMAND",
	_Directive:      "DIRECTIVE",
	_Label:          "LABEL",
	_HotkeyModifier: "HOTKEY_MODIFIER",
	_HotkeyKey:      "HOTKEY_KEY",
	_HotkeyAnd:      "HOTKEY_AND",
	_HotkeyUp:       "HOTKEY_UP",
	_HotkeyMark:     "HOTKEY_MARK",
	_HotstringOpen:  "HOTSTRING_OPEN",
	_HotstringMark:  "HOTSTRING_MARK",

	_Break:    "break",
	_ByRef:    "byref",
	_Case:     "case",
	_Catch:    "catch",
	_Class:    "class",
	_Contains: "contains",
	_Continue: "continue",
	_Default:  "default",
	_Else:     "else",
	_Extends:  "extends",
	_Finally:  "finally",
	_For:      "for",
	_Global:   "global",
	_Gosub:    "gosub",
	_Goto:     "goto",
	_If:       "if",
	_In:       "in",
	_Is:       "is",
	_Local:    "local",
	_Loop:     "loop",
	_New:      "new",
	_KwNot:    "not",
	_Return:   "return",
	_Static:   "static",
	_Switch:   "switch",
	_Throw:    "throw",
	_Try:      "try",
	_Until:    "until",
	_While:    "while",
}

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	if k < tokenCount {
		return tokenNames[k]
	}
	return fmt.Sprintf("token(%d)", k)
}

// Precedence levels for binary operators, lowest binding first.
// Zero means "not a binary operator".
const (
	precNone = iota
	precAssign
	precTernary
	precOr
	precAnd
	precNot
	precIs
	precEquality
	precRelational
	precRegEx
	precConcat
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPower
)

// precedence is indexed by token kind.
var precedence = [tokenCount]int8{
	_Define: precAssign, _AddAssign: precAssign, _SubAssign: precAssign,
	_MulAssign: precAssign, _DivAssign: precAssign, _FloorDivAssign: precAssign,
	_ConcatAssign: precAssign, _OrAssign: precAssign, _AndAssign: precAssign,
	_XorAssign: precAssign, _ShlAssign: precAssign, _ShrAssign: precAssign,
	_UShrAssign: precAssign,

	_Question: precTernary,

	_OrOr:   precOr,
	_AndAnd: precAnd,

	_Is: precIs, _In: precIs, _Contains: precIs,

	_Eql: precEquality, _EqlStrict: precEquality, _Neq: precEquality, _NeqStrict: precEquality,

	_Lss: precRelational, _Leq: precRelational, _Gtr: precRelational, _Geq: precRelational,

	_RegEx: precRegEx,

	_Concat: precConcat,

	_Or:  precBitOr,
	_Xor: precBitXor,
	_And: precBitAnd,

	_Shl: precShift, _Shr: precShift, _UShr: precShift,

	_Add: precAdditive, _Sub: precAdditive,

	_Mul: precMultiplicative, _Div: precMultiplicative, _FloorDiv: precMultiplicative,

	_Power: precPower,
}

// Precedence returns the binding power of k as a binary operator.
// Returns 0 for tokens that are not binary operators.
func (k TokenKind) Precedence() int {
	if k < tokenCount {
		return int(precedence[k])
	}
	return precNone
}

// RightAssoc reports whether binary operator k groups right to left.
// Assignments and the ternary always do; ** only does in v2.
func (k TokenKind) RightAssoc(d Dialect) bool {
	switch k.Precedence() {
	case precAssign, precTernary:
		return true
	case precPower:
		return d == V2
	}
	return false
}

// IsAssign reports whether k is one of the assignment operators.
func (k TokenKind) IsAssign() bool {
	return k >= _Define && k <= _UShrAssign
}

// IsKeyword reports whether k is a keyword token.
func (k TokenKind) IsKeyword() bool {
	return k >= _Break && k <= _While
}

// IsOperator reports whether k is an operator token.
func (k TokenKind) IsOperator() bool {
	return k >= _Define && k <= _Arrow
}

// IsBinaryOperator reports whether k can join two operands.
// The scanner uses this to fold continuation lines.
func (k TokenKind) IsBinaryOperator() bool {
	return k.Precedence() > precNone
}

// IsHotkey reports whether k belongs to a hotkey or hotstring header.
func (k TokenKind) IsHotkey() bool {
	return k >= _HotkeyModifier && k <= _HotstringMark
}

// IsEOF reports whether k is the EOF token.
func (k TokenKind) IsEOF() bool {
	return k == _EOF
}

// Exported token kinds for analyzer access
const (
	Define TokenKind = _Define // :=
	Assign TokenKind = _Eql    // = in a legacy assignment
	And    TokenKind = _And    // & (reference in v2)
	Mul    TokenKind = _Mul    // *
	Global TokenKind = _Global
	Local  TokenKind = _Local
	Static TokenKind = _Static
	Gosub  TokenKind = _Gosub
)

// Token is a lexical token with its source range.
// Tokens are immutable once the scanner has produced them.
type Token struct {
	Kind  TokenKind
	Text  string // source text; decoded content for strings lives in BasicLit
	Start Pos
	End   Pos

	Space   bool // preceded by whitespace on the same line
	Missing bool // inserted by the parser for a required but absent token
	Skipped bool // unexpected token kept inside a BadStmt
}

// Range returns the source range covered by the token.
func (t Token) Range() Range {
	return Range{Start: t.Start, End: t.End}
}

func (t Token) String() string {
	switch {
	case t.Missing:
		return fmt.Sprintf("missing %s", t.Kind)
	case t.Text != "":
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// Comment is a line or block comment collected by the scanner.
type Comment struct {
	Text  string // including the ; or /* */ markers
	Range Range
	Block bool
}

// TokenError is a token-level diagnostic: the scanner recorded it and
// carried on with the next character.
type TokenError struct {
	Range Range
	Text  string // offending source text
	Msg   string
}

func (e *TokenError) Error() string {
	return e.Range.Start.String() + ": " + e.Msg
}
