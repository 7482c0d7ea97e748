package syntax

import "strings"

// keywords maps lower-cased keyword strings to their token kind.
// The word operators "and" and "or" share kinds with && and ||.
var keywords = map[string]TokenKind{
	"and":      _AndAnd,
	"or":       _OrOr,
	"break":    _Break,
	"byref":    _ByRef,
	"case":     _Case,
	"catch":    _Catch,
	"class":    _Class,
	"contains": _Contains,
	"continue": _Continue,
	"default":  _Default,
	"else":     _Else,
	"extends":  _Extends,
	"finally":  _Finally,
	"for":      _For,
	"global":   _Global,
	"gosub":    _Gosub,
	"goto":     _Goto,
	"if":       _If,
	"in":       _In,
	"is":       _Is,
	"local":    _Local,
	"loop":     _Loop,
	"new":      _New,
	"not":      _KwNot,
	"return":   _Return,
	"static":   _Static,
	"switch":   _Switch,
	"throw":    _Throw,
	"try":      _Try,
	"until":    _Until,
	"while":    _While,
}

// v2Only lists keywords that are plain identifiers in v1.
var v2Only = map[TokenKind]bool{
	_Contains: true,
}

// v1Only lists keywords that are plain identifiers in v2.
var v1Only = map[TokenKind]bool{
	_New:   true,
	_ByRef: true,
	_Gosub: true,
}

// LookupKeyword returns the token kind for the given identifier.
// Keywords are case-insensitive. Non-keywords return _Name.
func LookupKeyword(ident string, d Dialect) TokenKind {
	tok, ok := keywords[strings.ToLower(ident)]
	if !ok {
		return _Name
	}
	if d == V1 && v2Only[tok] || d == V2 && v1Only[tok] {
		return _Name
	}
	return tok
}

// operators maps operator spellings to token kinds. The scanner tries
// the longest spelling first.
var operators = map[string]TokenKind{
	">>>=": _UShrAssign,
	">>>":  _UShr,
	"//=":  _FloorDivAssign,
	"<<=":  _ShlAssign,
	">>=":  _ShrAssign,
	"!==":  _NeqStrict,
	":=":   _Define,
	"+=":   _AddAssign,
	"-=":   _SubAssign,
	"*=":   _MulAssign,
	"/=":   _DivAssign,
	".=":   _ConcatAssign,
	"|=":   _OrAssign,
	"&=":   _AndAssign,
	"^=":   _XorAssign,
	"||":   _OrOr,
	"&&":   _AndAnd,
	"==":   _EqlStrict,
	"<>":   _Neq,
	"!=":   _Neq,
	"<=":   _Leq,
	">=":   _Geq,
	"~=":   _RegEx,
	"<<":   _Shl,
	">>":   _Shr,
	"//":   _FloorDiv,
	"**":   _Power,
	"++":   _Inc,
	"--":   _Dec,
	"=>":   _Arrow,
	"?":    _Question,
	"=":    _Eql,
	"<":    _Lss,
	">":    _Gtr,
	"|":    _Or,
	"^":    _Xor,
	"&":    _And,
	"+":    _Add,
	"-":    _Sub,
	"*":    _Mul,
	"/":    _Div,
	"!":    _Not,
	"~":    _Tilde,
	"(":    _Lparen,
	")":    _Rparen,
	"[":    _Lbrack,
	"]":    _Rbrack,
	"{":    _Lbrace,
	"}":    _Rbrace,
	",":    _Comma,
	":":    _Colon,
	".":    _Dot,
	"%":    _Percent,
}

// maxOperatorLen is the length of the longest spelling in operators.
const maxOperatorLen = 4

// directives lists the known #directives (lower-cased, without '#').
// Unknown directives still scan as _Directive; the table lets tooling
// flag typos.
var directives = map[string]bool{
	"allowsamelinecomments": true,
	"clipboardtimeout":      true,
	"commentflag":           true,
	"dllload":               true,
	"errorstdout":           true,
	"escapechar":            true,
	"hotif":                 true,
	"hotiftimeout":          true,
	"hotkeyinterval":        true,
	"hotkeymodifiertimeout": true,
	"hotstring":             true,
	"if":                    true,
	"iftimeout":             true,
	"ifwinactive":           true,
	"ifwinexist":            true,
	"ifwinnotactive":        true,
	"ifwinnotexist":         true,
	"include":               true,
	"includeagain":          true,
	"inputlevel":            true,
	"installkeybdhook":      true,
	"installmousehook":      true,
	"keyhistory":            true,
	"maxhotkeysperinterval": true,
	"maxmem":                true,
	"maxthreads":            true,
	"maxthreadsbuffer":      true,
	"maxthreadsperhotkey":   true,
	"menumaskkey":           true,
	"noenv":                 true,
	"notrayicon":            true,
	"persistent":            true,
	"requires":              true,
	"singleinstance":        true,
	"suspendexempt":         true,
	"usehook":               true,
	"warn":                  true,
	"winactivateforce":      true,
}

// IsDirective reports whether name (with or without '#') is a known directive.
func IsDirective(name string) bool {
	return directives[strings.ToLower(strings.TrimPrefix(name, "#"))]
}

// expressionDirectives take an expression rather than literal text.
var expressionDirectives = map[string]bool{
	"if":    true,
	"hotif": true,
}

// commands lists the v1 command names (lower-cased) that switch the
// scanner into command-literal mode at the start of a statement.
var commands = map[string]bool{
	"autotrim": true, "blockinput": true, "click": true, "clipwait": true,
	"control": true, "controlclick": true, "controlfocus": true, "controlget": true,
	"controlgetfocus": true, "controlgetpos": true, "controlgettext": true,
	"controlmove": true, "controlsend": true, "controlsendraw": true,
	"controlsettext": true, "coordmode": true, "critical": true,
	"detecthiddentext": true, "detecthiddenwindows": true, "drive": true,
	"driveget": true, "drivespacefree": true, "edit": true, "envadd": true,
	"envdiv": true, "envget": true, "envmult": true, "envset": true, "envsub": true,
	"envupdate": true, "exit": true, "exitapp": true, "fileappend": true,
	"filecopy": true, "filecopydir": true, "filecreatedir": true,
	"filecreateshortcut": true, "filedelete": true, "fileencoding": true,
	"filegetattrib": true, "filegetshortcut": true, "filegetsize": true,
	"filegettime": true, "filegetversion": true, "fileinstall": true,
	"filemove": true, "filemovedir": true, "fileread": true, "filereadline": true,
	"filerecycle": true, "filerecycleempty": true, "fileremovedir": true,
	"fileselectfile": true, "fileselectfolder": true, "filesetattrib": true,
	"filesettime": true, "formattime": true, "getkeystate": true,
	"groupactivate": true, "groupadd": true, "groupclose": true,
	"groupdeactivate": true, "gui": true, "guicontrol": true,
	"guicontrolget": true, "hotkey": true, "ifequal": true, "ifexist": true,
	"ifgreater": true, "ifgreaterorequal": true, "ifinstring": true,
	"ifless": true, "iflessorequal": true, "ifmsgbox": true, "ifnotequal": true,
	"ifnotexist": true, "ifnotinstring": true, "ifwinactive": true,
	"ifwinexist": true, "ifwinnotactive": true, "ifwinnotexist": true,
	"imagesearch": true, "inidelete": true, "iniread": true, "iniwrite": true,
	"input": true, "inputbox": true, "keyhistory": true, "keywait": true,
	"listhotkeys": true, "listlines": true, "listvars": true, "menu": true,
	"mouseclick": true, "mouseclickdrag": true, "mouseget": true,
	"mousegetpos": true, "mousemove": true, "msgbox": true, "onexit": true,
	"outputdebug": true, "pause": true, "pixelgetcolor": true,
	"pixelsearch": true, "postmessage": true, "process": true,
	"progress": true, "random": true, "regdelete": true, "regread": true,
	"regwrite": true, "reload": true, "run": true, "runas": true,
	"runwait": true, "send": true, "sendevent": true, "sendinput": true,
	"sendlevel": true, "sendmessage": true, "sendmode": true, "sendplay": true,
	"sendraw": true, "setbatchlines": true, "setcapslockstate": true,
	"setcontroldelay": true, "setdefaultmousespeed": true, "setenv": true,
	"setformat": true, "setkeydelay": true, "setmousedelay": true,
	"setnumlockstate": true, "setregview": true, "setscrolllockstate": true,
	"setstorecapslockmode": true, "settimer": true, "settitlematchmode": true,
	"setwindelay": true, "setworkingdir": true, "shutdown": true, "sleep": true,
	"sort": true, "soundbeep": true, "soundget": true, "soundgetwavevolume": true,
	"soundplay": true, "soundset": true, "soundsetwavevolume": true,
	"splashimage": true, "splashtextoff": true, "splashtexton": true,
	"splitpath": true, "statusbargettext": true, "statusbarwait": true,
	"stringcasesense": true, "stringgetpos": true, "stringleft": true,
	"stringlen": true, "stringlower": true, "stringmid": true,
	"stringreplace": true, "stringright": true, "stringsplit": true,
	"stringtrimleft": true, "stringtrimright": true, "stringupper": true,
	"suspend": true, "sysget": true, "thread": true, "tooltip": true,
	"transform": true, "traytip": true, "urldownloadtofile": true,
	"winactivate": true, "winactivatebottom": true, "winclose": true,
	"winget": true, "wingetactivestats": true, "wingetactivetitle": true,
	"wingetclass": true, "wingetpos": true, "wingettext": true,
	"wingettitle": true, "winhide": true, "winkill": true, "winmaximize": true,
	"winmenuselectitem": true, "winminimize": true, "winminimizeall": true,
	"winminimizeallundo": true, "winmove": true, "winrestore": true,
	"winset": true, "winsettitle": true, "winshow": true, "winwait": true,
	"winwaitactive": true, "winwaitclose": true, "winwaitnotactive": true,
}

// IsCommand reports whether name is a legacy v1 command.
func IsCommand(name string) bool {
	return commands[strings.ToLower(name)]
}

// loopKinds are the words that select a special v1/v2 loop form.
var loopKinds = map[string]LoopKind{
	"parse": LoopParse,
	"read":  LoopRead,
	"files": LoopFiles,
	"reg":   LoopReg,
}

// hotkeyModifiers is the set of characters that may prefix a hotkey.
const hotkeyModifiers = "#!^+<>*~$"
