// Package symbols defines the symbol model and the scope table produced
// by semantic analysis of AutoHotkey scripts.
package symbols

import (
	"strings"

	"github.com/helsmy/vscode-autohotkey-sub000/internal/syntax"
)

// Kind identifies the variant of a Symbol.
type Kind uint8

const (
	VarKind Kind = iota
	ParamKind
	BuiltinVarKind
	FuncKind
	ClassKind
	PropertyKind
	HotkeyKind
	HotstringKind
	LabelKind
	BuiltinTypeKind
)

var kindNames = [...]string{
	VarKind:         "var",
	ParamKind:       "param",
	BuiltinVarKind:  "builtin var",
	FuncKind:        "func",
	ClassKind:       "class",
	PropertyKind:    "property",
	HotkeyKind:      "hotkey",
	HotstringKind:   "hotstring",
	LabelKind:       "label",
	BuiltinTypeKind: "builtin type",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "symbol"
}

// Symbol is a named entity recorded in a Scope.
type Symbol interface {
	Name() string        // name as written at the definition
	Kind() Kind          // variant
	URI() string         // document of the definition; empty for builtins
	Range() syntax.Range // range of the defining name
	Scope() ScopeID      // scope the symbol was inserted into
	Doc() string         // documentation comment, if any
	SetDoc(doc string)

	setScope(ScopeID)
	aSymbol() // marker method to restrict implementations
}

// Key returns the case-insensitive lookup key of a name.
func Key(name string) string {
	return strings.ToLower(name)
}

// object is the base struct for all symbols.
type object struct {
	name  string
	uri   string
	rng   syntax.Range
	scope ScopeID
	doc   string
}

func newObject(uri string, rng syntax.Range, name string) object {
	return object{name: name, uri: uri, rng: rng, scope: NoScope}
}

func (o *object) Name() string        { return o.name }
func (o *object) URI() string         { return o.uri }
func (o *object) Range() syntax.Range { return o.rng }
func (o *object) Scope() ScopeID      { return o.scope }
func (o *object) Doc() string         { return o.doc }
func (o *object) SetDoc(doc string)   { o.doc = doc }
func (o *object) setScope(id ScopeID) { o.scope = id }
func (*object) aSymbol()              {}

// typed is embedded by symbols that carry a best-effort type tag.
type typed struct {
	typ []string
}

// Type returns the type tag: a class path such as ["Outer", "Inner"],
// or nil when nothing is known.
func (t *typed) Type() []string { return t.typ }

// SetType replaces the type tag. The last assignment wins.
func (t *typed) SetType(path []string) { t.typ = path }

// Var is a variable.
type Var struct {
	object
	typed
	Static bool
}

// NewVar creates a variable defined at rng in uri.
func NewVar(uri string, rng syntax.Range, name string) *Var {
	return &Var{object: newObject(uri, rng, name)}
}

func (*Var) Kind() Kind { return VarKind }

// Param is a function parameter.
type Param struct {
	object
	typed
	ByRef    bool
	Spread   bool // x*
	Optional bool // has a default, is variadic or is marked x?
	Default  string
}

// NewParam creates a parameter defined at rng in uri.
func NewParam(uri string, rng syntax.Range, name string) *Param {
	return &Param{object: newObject(uri, rng, name)}
}

func (*Param) Kind() Kind { return ParamKind }

// BuiltinVar is a predefined variable such as A_Index.
type BuiltinVar struct {
	object
}

// NewBuiltinVar creates a builtin variable.
func NewBuiltinVar(name string) *BuiltinVar {
	return &BuiltinVar{object: newObject("", syntax.Range{}, name)}
}

func (*BuiltinVar) Kind() Kind { return BuiltinVarKind }

// Func is a function or method.
type Func struct {
	object
	Params  []*Param
	Static  bool
	Builtin bool
	Command bool // v1 command form: MsgBox, text
	Body    ScopeID
}

// NewFunc creates a function defined at rng in uri.
func NewFunc(uri string, rng syntax.Range, name string) *Func {
	return &Func{object: newObject(uri, rng, name), Body: NoScope}
}

func (*Func) Kind() Kind { return FuncKind }

// IsCommand reports whether the function is a v1 command.
func (f *Func) IsCommand() bool { return f.Command }

// MinArgs returns the number of required parameters.
func (f *Func) MinArgs() int {
	n := 0
	for _, p := range f.Params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// MaxArgs returns the maximum number of arguments, or -1 if the function
// is variadic.
func (f *Func) MaxArgs() int {
	for _, p := range f.Params {
		if p.Spread {
			return -1
		}
	}
	return len(f.Params)
}

// Signature returns the function as Name(a, b?, c*).
func (f *Func) Signature() string {
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.ByRef {
			b.WriteByte('&')
		}
		b.WriteString(p.name)
		switch {
		case p.Spread:
			b.WriteByte('*')
		case p.Optional:
			b.WriteByte('?')
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Class is a class declaration. Members holds its fields, methods,
// properties and nested classes.
type Class struct {
	object
	Extends []string // base class path; nil means the implicit Object base
	Builtin bool
	Members ScopeID

	members *Scope
}

// NewClass creates a class defined at rng in uri.
func NewClass(uri string, rng syntax.Range, name string) *Class {
	return &Class{object: newObject(uri, rng, name), Members: NoScope}
}

func (*Class) Kind() Kind { return ClassKind }

// MemberScope returns the scope holding the class members, or nil before
// the class body has been opened.
func (c *Class) MemberScope() *Scope { return c.members }

// Property is a class field or a dynamic property with accessors.
type Property struct {
	object
	typed
	Static bool
	Getter ScopeID // NoScope if absent
	Setter ScopeID // NoScope if absent
}

// NewProperty creates a property defined at rng in uri.
func NewProperty(uri string, rng syntax.Range, name string) *Property {
	return &Property{object: newObject(uri, rng, name), Getter: NoScope, Setter: NoScope}
}

func (*Property) Kind() Kind { return PropertyKind }

// IsDynamic reports whether the property has a getter or setter.
func (p *Property) IsDynamic() bool { return p.Getter != NoScope || p.Setter != NoScope }

// Hotkey is a hotkey definition such as ^j::.
type Hotkey struct {
	object
}

// NewHotkey creates a hotkey defined at rng in uri.
func NewHotkey(uri string, rng syntax.Range, name string) *Hotkey {
	return &Hotkey{object: newObject(uri, rng, name)}
}

func (*Hotkey) Kind() Kind { return HotkeyKind }

// Hotstring is a hotstring definition such as :*:btw::.
type Hotstring struct {
	object
	Options     string
	Replacement string
}

// NewHotstring creates a hotstring defined at rng in uri.
func NewHotstring(uri string, rng syntax.Range, name string) *Hotstring {
	return &Hotstring{object: newObject(uri, rng, name)}
}

func (*Hotstring) Kind() Kind { return HotstringKind }

// Label is a goto/gosub target.
type Label struct {
	object
}

// NewLabel creates a label defined at rng in uri.
func NewLabel(uri string, rng syntax.Range, name string) *Label {
	return &Label{object: newObject(uri, rng, name)}
}

func (*Label) Kind() Kind { return LabelKind }

// BuiltinType is a type name usable with "is", such as integer.
type BuiltinType struct {
	object
}

// NewBuiltinType creates a builtin type name.
func NewBuiltinType(name string) *BuiltinType {
	return &BuiltinType{object: newObject("", syntax.Range{}, name)}
}

func (*BuiltinType) Kind() Kind { return BuiltinTypeKind }
