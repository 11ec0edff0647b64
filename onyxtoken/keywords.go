package onyxtoken

// bangable is the closed set of modifier keywords that accept a
// trailing "!" per §4.3.
var bangable = map[string]bool{
	"extern": true, "import": true, "as": true, "from": true,
	"export": true, "default": true, "builtin": true, "private": true,
	"static": true, "let": true, "final": true, "getter": true,
	"unsafe": true, "fragile": true, "threadsafe": true,
}

// actionWords are the superdeclaration-contributor action keywords.
var actionWords = map[string]bool{
	"decl": true, "redecl": true, "impl": true, "def": true,
	"reimpl": true, "extend": true,
}

// controlWords are statement/control-flow keywords.
var controlWords = map[string]bool{
	"if": true, "elif": true, "else": true, "while": true,
	"return": true, "switch": true, "case": true, "do": true,
	"end": true, "forall": true,
}

// typeWords introduce a TypeDef's category.
var typeWords = map[string]bool{
	"trait": true, "struct": true, "class": true, "enum": true,
	"unit": true, "annotation": true,
}

// keywords is the full closed set this lexer recognizes as a Keyword
// token rather than a Simple identifier.
var keywords = func() map[string]bool {
	all := map[string]bool{}

	for _, set := range []map[string]bool{bangable, actionWords, controlWords, typeWords} {
		for k := range set {
			all[k] = true
		}
	}

	return all
}()

// isKeyword reports whether word (without any trailing "!") is one of
// the closed keywords.
func isKeyword(word string) bool {
	return keywords[word]
}

// canBang reports whether word accepts the "!" modifier suffix.
func canBang(word string) bool {
	return bangable[word]
}
