package onyxcst

import (
	"io"

	"github.com/fancysoft-lang/onyxc/ccst"
	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxtoken"
	"github.com/fancysoft-lang/onyxc/source"
)

// Parser is the cooperative, one-token-lookahead Onyx CST builder from
// spec §4.4. Its current token lives in a single slot refilled by
// advance; on "extern" it delegates to a ccst.Parser over a freshly
// created source.BlockUnit sharing this unit's RuneStream.
type Parser struct {
	unit source.Unit
	lex  *onyxtoken.Lexer
	cur  *onyxtoken.Token

	pendingDoc []string
}

// NewParser creates a Parser over unit.
func NewParser(unit source.Unit) *Parser {
	return &Parser{unit: unit, lex: onyxtoken.NewLexer(unit)}
}

// ParseFile parses unit's full top-level item list into a CST File.
func (p *Parser) ParseFile() (*File, error) {
	start := p.lex.Unit().Stream().Pos()

	if err := p.advanceRaw(); err != nil {
		return nil, err
	}

	var items []Node

	for {
		if p.cur == nil {
			break
		}

		if p.cur.Kind == onyxtoken.Comment {
			p.pendingDoc = append(p.pendingDoc, p.cur.Text)

			if err := p.advanceRaw(); err != nil {
				return nil, err
			}

			continue
		}

		if p.cur.Kind == onyxtoken.Space {
			if err := p.advanceRaw(); err != nil {
				return nil, err
			}

			continue
		}

		if p.cur.Kind == onyxtoken.Newline {
			blank, err := p.consumeNewlinesCountingBlank()
			if err != nil {
				return nil, err
			}

			if blank && len(items) > 0 {
				items = append(items, &EmptyLine{base{p.here()}})
			}

			continue
		}

		item, err := p.parseTopLevelItem()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	p.unit.MarkParsed()

	return &File{base: base{p.spanFrom(start)}, Items: items}, nil
}

// consumeNewlinesCountingBlank consumes a run of Newline and
// interspersed Space tokens and reports whether the run contained at
// least two Newlines (i.e. a blank line).
func (p *Parser) consumeNewlinesCountingBlank() (bool, error) {
	n := 0

	for p.cur != nil && (p.cur.Kind == onyxtoken.Newline || p.cur.Kind == onyxtoken.Space) {
		if p.cur.Kind == onyxtoken.Newline {
			n++
		}

		if err := p.advanceRaw(); err != nil {
			return false, err
		}
	}

	return n >= 2, nil
}

// advanceRaw refills cur from the lexer without any token-class
// filtering — every kind, including Newline and Comment, is visible to
// the caller.
func (p *Parser) advanceRaw() error {
	tok, err := p.lex.Next()
	if err != nil {
		if err == io.EOF {
			if cause := p.lex.Err(); cause != nil {
				return cause
			}

			p.cur = nil

			return nil
		}

		return err
	}

	p.cur = tok

	return nil
}

// advance refills cur, skipping Comment tokens (accumulating them as
// pending doc lines) and Space tokens — neither carries syntactic
// weight for the parser, unlike Newline, since statement/blank-line
// structure depends on seeing it.
func (p *Parser) advance() error {
	for {
		if err := p.advanceRaw(); err != nil {
			return err
		}

		if p.cur == nil {
			return nil
		}

		if p.cur.Kind == onyxtoken.Comment {
			p.pendingDoc = append(p.pendingDoc, p.cur.Text)
			continue
		}

		if p.cur.Kind == onyxtoken.Space {
			continue
		}

		return nil
	}
}

// skipNewlines consumes any run of Newline tokens without regard to
// blank-line tracking, for use inside expression/argument contexts
// where line breaks are insignificant.
func (p *Parser) skipNewlines() error {
	for p.cur != nil && p.cur.Kind == onyxtoken.Newline {
		if err := p.advance(); err != nil {
			return err
		}
	}

	return nil
}

func (p *Parser) takeDoc() string {
	if len(p.pendingDoc) == 0 {
		return ""
	}

	doc := ""
	for i, l := range p.pendingDoc {
		if i > 0 {
			doc += "\n"
		}

		doc += l
	}

	p.pendingDoc = nil

	return doc
}

func (p *Parser) here() source.Placement {
	return source.NewPlacement(p.unit, source.Point(p.lex.Unit().Stream().Pos()))
}

func (p *Parser) startPos() source.Position {
	if p.cur == nil {
		return p.lex.Unit().Stream().Pos()
	}

	return p.cur.Placement.Location.Start
}

func (p *Parser) spanFrom(start source.Position) source.Placement {
	return source.NewPlacement(p.unit, source.NewLocation(start, p.lex.Unit().Stream().Pos()))
}

func (p *Parser) unexpected(what string) error {
	pl := p.here()
	if p.cur != nil {
		pl = p.cur.Placement
	}

	if p.cur == nil {
		return diag.NewCodedPanic(diag.UnexpectedEOF, "unexpected end of file"+suffix(what), pl)
	}

	return diag.NewPanic("unexpected token"+suffix(what), pl)
}

func suffix(what string) string {
	if what == "" {
		return ""
	}

	return ", expected " + what
}

func (p *Parser) isKeyword(word string) bool {
	return p.cur != nil && p.cur.Kind == onyxtoken.Keyword && p.cur.Keyword.Word == word
}

func (p *Parser) isPunct(text string) bool {
	return p.cur != nil && p.cur.Kind == onyxtoken.Punct && p.cur.Text == text
}

func (p *Parser) isOp(text string) bool {
	return p.cur != nil && p.cur.Kind == onyxtoken.Op && p.cur.Text == text
}

func (p *Parser) expectPunct(text string) (source.Placement, error) {
	if !p.isPunct(text) {
		return source.Placement{}, p.unexpected("'" + text + "'")
	}

	pl := p.cur.Placement

	return pl, p.advance()
}

func (p *Parser) expectKeyword(word string) (*onyxtoken.Token, error) {
	if !p.isKeyword(word) {
		return nil, p.unexpected("'" + word + "'")
	}

	tok := p.cur

	return tok, p.advance()
}

func (p *Parser) expectIdent() (string, source.Placement, error) {
	if p.cur == nil || p.cur.Kind != onyxtoken.Ident {
		return "", source.Placement{}, p.unexpected("an identifier")
	}

	name := p.cur.Ident.Name
	pl := p.cur.Placement

	// A label token ("x:") has already consumed the ':' of "x: T"; put
	// that ':' back as the current token so the caller sees it.
	if p.cur.Ident.Kind == onyxtoken.IdentLabel {
		p.cur = &onyxtoken.Token{Kind: onyxtoken.Punct, Text: ":", Placement: pl}
		return name, pl, nil
	}

	return name, pl, p.advance()
}

// ---- top-level items ----

func (p *Parser) parseTopLevelItem() (Node, error) {
	switch {
	case p.isKeyword("extern"):
		return p.parseExtern()
	case p.isKeyword("import"):
		return p.parseImport()
	case p.isKeyword("export"):
		return p.parseExport()
	default:
		return p.parseDeclOrStmt()
	}
}

func (p *Parser) parseDeclOrStmt() (Node, error) {
	doc := p.takeDoc()

	switch {
	case p.isKeyword("let") || p.isKeyword("final"):
		return p.parseVarDef(doc)
	case p.isActionKeyword():
		return p.parseFuncOrTypeDecl(doc)
	default:
		return p.parseStatement()
	}
}

func (p *Parser) isActionKeyword() bool {
	if p.cur == nil || p.cur.Kind != onyxtoken.Keyword {
		return false
	}

	switch p.cur.Keyword.Word {
	case "decl", "redecl", "impl", "def", "reimpl", "extend":
		return true
	default:
		return false
	}
}

func actionFor(word string) Action {
	switch word {
	case "decl", "redecl":
		return ActionDecl
	case "impl":
		return ActionImpl
	case "def":
		return ActionDef
	default: // reimpl, extend
		return ActionReimpl
	}
}

// parseFuncOrTypeDecl parses a "<action> [modifiers] <trait|struct|...|id-query> ..."
// contributor, dispatching on whether the category keyword that
// follows the action is one of the type keywords.
func (p *Parser) parseFuncOrTypeDecl(doc string) (Node, error) {
	start := p.startPos()
	actionWord := p.cur.Keyword.Word
	action := actionFor(actionWord)

	if err := p.advance(); err != nil {
		return nil, err
	}

	mods, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}

	if cat, catPlacement, ok := p.typeCategory(); ok {
		if err := p.advance(); err != nil {
			return nil, err
		}

		return p.parseTypeDef(start, action, cat, catPlacement, mods, doc)
	}

	return p.parseFuncDecl(start, action, mods, doc)
}

// typeCategory recognizes the type keywords that introduce a TypeDef,
// including "builtin" — spec.md §8's scenario S5 declares a type this
// way (`def builtin Foo`), mirroring the original's BuiltinTypeDecl,
// a TypeDecl variant alongside struct/trait/etc. rather than a
// modifier on some other kind of declaration. It also returns the
// keyword's own placement, for P0001's caret.
func (p *Parser) typeCategory() (string, source.Placement, bool) {
	if p.cur == nil || p.cur.Kind != onyxtoken.Keyword {
		return "", source.Placement{}, false
	}

	switch p.cur.Keyword.Word {
	case "trait", "struct", "class", "enum", "unit", "annotation", "builtin":
		return p.cur.Keyword.Word, p.cur.Placement, true
	default:
		return "", source.Placement{}, false
	}
}

func (p *Parser) parseModifiers() ([]Modifier, error) {
	var mods []Modifier

	for p.cur != nil && p.cur.Kind == onyxtoken.Keyword {
		var m Modifier

		switch p.cur.Keyword.Word {
		case "private":
			m = ModPrivate
		case "static":
			m = ModStatic
		case "final":
			m = ModFinal
		case "getter":
			m = ModGetter
		case "default":
			m = ModDefault
		default:
			return mods, nil
		}

		mods = append(mods, m)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return mods, nil
}

func (p *Parser) parseVarDef(doc string) (Node, error) {
	start := p.startPos()
	kwTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	alias := ""
	if p.isKeyword("as") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		a, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		alias = a
	}

	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var typ *IDQuery
	if p.isPunct(":") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		typ, err = p.parseIDQuery()
		if err != nil {
			return nil, err
		}
	}

	var value Expr
	if p.isOp("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	return &VarDef{
		base:       base{p.spanFrom(start)},
		Keyword:    kwTok.Keyword.Word,
		Bang:       kwTok.Keyword.Bang,
		Alias:      alias,
		Name:       name,
		Type:       typ,
		Value:      value,
		DocComment: doc,
	}, nil
}

func (p *Parser) parseFuncDecl(start source.Position, action Action, mods []Modifier, doc string) (*FuncDecl, error) {
	query, err := p.parseDeclQuery()
	if err != nil {
		return nil, err
	}

	tArgs, err := p.parseOptionalTemplateArgs()
	if err != nil {
		return nil, err
	}

	forall, err := p.parseOptionalForall()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	args, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	var ret *IDQuery
	if p.isPunct(":") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		ret, err = p.parseIDQuery()
		if err != nil {
			return nil, err
		}
	}

	var body *Block
	if action != ActionDecl {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}

		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &FuncDecl{
		base:         base{p.spanFrom(start)},
		Action:       action,
		Modifiers:    mods,
		Query:        query,
		TemplateArgs: tArgs,
		Forall:       forall,
		Args:         args,
		ReturnType:   ret,
		Body:         body,
		DocComment:   doc,
	}, nil
}

func (p *Parser) parseTypeDef(start source.Position, action Action, category string, categoryPlacement source.Placement, mods []Modifier, doc string) (*TypeDef, error) {
	query, err := p.parseDeclQuery()
	if err != nil {
		return nil, err
	}

	tArgs, err := p.parseOptionalTemplateArgs()
	if err != nil {
		return nil, err
	}

	forall, err := p.parseOptionalForall()
	if err != nil {
		return nil, err
	}

	var ancestors []*IDQuery
	if p.isPunct(":") {
		for {
			if err := p.advance(); err != nil {
				return nil, err
			}

			anc, err := p.parseIDQuery()
			if err != nil {
				return nil, err
			}

			ancestors = append(ancestors, anc)

			if !p.isPunct(",") {
				break
			}
		}
	}

	// A builtin type declaration's body, if any, is ignored by the
	// compiler (it names an opaque compiler-provided type), so unlike
	// the other categories it is optional even under a def/impl action.
	needsBody := action != ActionDecl
	if category == "builtin" {
		needsBody = needsBody && (p.isPunct("{") || p.isKeyword("do"))
	}

	var body *Block
	if needsBody {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}

		body, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &TypeDef{
		base:              base{p.spanFrom(start)},
		Action:            action,
		Category:          category,
		CategoryPlacement: categoryPlacement,
		Modifiers:         mods,
		Query:             query,
		TemplateArgs:      tArgs,
		Forall:            forall,
		Ancestors:         ancestors,
		Body:              body,
		DocComment:        doc,
	}, nil
}

func (p *Parser) parseOptionalTemplateArgs() ([]*TemplateArg, error) {
	if !p.isOp("<") {
		return nil, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var out []*TemplateArg

	for {
		arg, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}

		out = append(out, arg)

		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			continue
		}

		break
	}

	if !p.isOp(">") {
		return nil, p.unexpected("'>'")
	}

	return out, p.advance()
}

func (p *Parser) parseTemplateArg() (*TemplateArg, error) {
	start := p.startPos()

	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var restriction *IDQuery
	if p.isPunct(":") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		restriction, err = p.parseIDQuery()
		if err != nil {
			return nil, err
		}
	}

	var def *IDQuery
	if p.isOp("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		def, err = p.parseIDQuery()
		if err != nil {
			return nil, err
		}
	}

	return &TemplateArg{base: base{p.spanFrom(start)}, Name: name, Restriction: restriction, Default: def}, nil
}

func (p *Parser) parseOptionalForall() ([]*TemplateArg, error) {
	if !p.isKeyword("forall") {
		return nil, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var out []*TemplateArg

	for {
		arg, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}

		out = append(out, arg)

		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			continue
		}

		break
	}

	return out, nil
}

func (p *Parser) parseParams() ([]*Param, error) {
	var out []*Param

	if p.isPunct(")") {
		return out, nil
	}

	for {
		start := p.startPos()

		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		var typ *IDQuery
		if p.isPunct(":") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			typ, err = p.parseIDQuery()
			if err != nil {
				return nil, err
			}
		}

		var def Expr
		if p.isOp("=") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			def, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		out = append(out, &Param{base: base{p.spanFrom(start)}, Name: name, Type: typ, Default: def})

		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			continue
		}

		break
	}

	return out, nil
}

// ---- ID queries ----

// parseIDQuery parses a dotted/scoped/instance path such as "A::B.c:d",
// including any concrete generic arguments ("Array<Int32>") on each
// element — the type-reference grammar.
func (p *Parser) parseIDQuery() (*IDQuery, error) {
	return p.parseIDQueryOpt(true)
}

// parseDeclQuery parses the same path grammar but never consumes a
// trailing "<...>": on a declaration, that syntax belongs to the
// declaration's own template-arg-decl list (parseOptionalTemplateArgs),
// which is richer than a type reference's generic-argument list
// (it allows a restriction and a default).
func (p *Parser) parseDeclQuery() (*IDQuery, error) {
	return p.parseIDQueryOpt(false)
}

func (p *Parser) parseIDQueryOpt(allowArgs bool) (*IDQuery, error) {
	start := p.startPos()

	isC := p.cur != nil && p.cur.Kind == onyxtoken.Ident && p.cur.Ident.Kind == onyxtoken.IdentC
	isIntrinsic := p.cur != nil && p.cur.Kind == onyxtoken.Ident && p.cur.Ident.Kind == onyxtoken.IdentIntrinsic

	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var tArgs []*IDQuery
	if allowArgs {
		tArgs, err = p.parseOptionalTypeTemplateArgs()
		if err != nil {
			return nil, err
		}
	}

	elems := []*IDElement{{base: base{p.spanFrom(start)}, Access: AccessSelf, Name: name, IsC: isC, IsIntrinsic: isIntrinsic, TemplateArgs: tArgs}}

	for {
		access, ok := p.peekAccess()
		if !ok {
			break
		}

		elemStart := p.startPos()

		if err := p.advance(); err != nil {
			return nil, err
		}

		n, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		var ta []*IDQuery
		if allowArgs {
			ta, err = p.parseOptionalTypeTemplateArgs()
			if err != nil {
				return nil, err
			}
		}

		elems = append(elems, &IDElement{base: base{p.spanFrom(elemStart)}, Access: access, Name: n, TemplateArgs: ta})
	}

	return &IDQuery{base: base{p.spanFrom(start)}, Elements: elems}, nil
}

func (p *Parser) peekAccess() (Access, bool) {
	if p.cur == nil {
		return 0, false
	}

	switch {
	case p.cur.Kind == onyxtoken.Punct && p.cur.Text == "::":
		return AccessStatic, true
	case p.cur.Kind == onyxtoken.Punct && p.cur.Text == ".":
		return AccessMember, true
	case p.cur.Kind == onyxtoken.Punct && p.cur.Text == ":":
		return AccessInstance, true
	default:
		return 0, false
	}
}

// parseOptionalTypeTemplateArgs parses "<T, U>" in type-reference
// position (e.g. the "Int32" in "a : Array<Int32>"), distinct from a
// declaration's own template-arg-decl list (parseOptionalTemplateArgs).
func (p *Parser) parseOptionalTypeTemplateArgs() ([]*IDQuery, error) {
	if !p.isOp("<") {
		return nil, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var out []*IDQuery

	for {
		q, err := p.parseIDQuery()
		if err != nil {
			return nil, err
		}

		out = append(out, q)

		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			continue
		}

		break
	}

	if !p.isOp(">") {
		return nil, p.unexpected("'>'")
	}

	return out, p.advance()
}

// ---- directives ----

func (p *Parser) parseExtern() (*ExternBlock, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("extern"); err != nil {
		return nil, err
	}

	if p.cur == nil || p.cur.Kind != onyxtoken.StringLit {
		return nil, p.unexpected("a language tag string")
	}

	lang := p.cur.StrVal

	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	blockStart := p.startPos()

	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	// The Onyx lexer already consumed the opening '{' as a token that
	// belongs to our own grammar, not the C block's content. Rewind so
	// the C parser sees the block's first byte. Per §4.4 this is the
	// "rewind by one token" step: we've advanced past '{' in our own
	// lookahead, so back up exactly that one token before handing the
	// shared stream to ccst.
	p.lex.Rewind()
	p.cur = nil

	block := source.NewBlockUnit("extern", p.unit, blockStart)
	cParser := ccst.NewParser(block)

	var decls []interface{}

	for {
		if err := p.skipCWhitespace(block); err != nil {
			return nil, err
		}

		if p.atCBlockEnd(block) {
			break
		}

		decl, err := cParser.ParseSingleExpression()
		if err != nil {
			return nil, err
		}

		decls = append(decls, decl)
	}

	// Consume the closing '}' directly off the shared stream, then
	// resume the Onyx lexer right after it.
	if _, err := block.Stream().NextRune(); err != nil {
		return nil, diag.NewCodedPanic(diag.UnexpectedEOF, "unterminated extern block", p.here())
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	block.MarkParsed()

	return &ExternBlock{base: base{p.spanFrom(start)}, Lang: lang, Block: block, Decls: decls}, nil
}

func (p *Parser) skipCWhitespace(block *source.BlockUnit) error {
	for {
		mark := block.Stream().Mark()

		r, err := block.Stream().NextRune()
		if err != nil {
			return nil
		}

		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			continue
		}

		block.Stream().Reset(mark)

		return nil
	}
}

func (p *Parser) atCBlockEnd(block *source.BlockUnit) bool {
	mark := block.Stream().Mark()

	r, err := block.Stream().NextRune()
	block.Stream().Reset(mark)

	return err != nil || r == '}'
}

func (p *Parser) parseImport() (*Import, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("import"); err != nil {
		return nil, err
	}

	imp := &Import{}

	switch {
	case p.isOp("*"):
		if err := p.advance(); err != nil {
			return nil, err
		}

		if _, err := p.expectKeyword("as"); err != nil {
			return nil, err
		}

		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		imp.Star = true
		imp.StarAs = name
	case p.isPunct("{"):
		if err := p.advance(); err != nil {
			return nil, err
		}

		for {
			name, _, err := p.expectIdent()
			if err != nil {
				return nil, err
			}

			alias := ""
			if p.isKeyword("as") {
				if err := p.advance(); err != nil {
					return nil, err
				}

				alias, _, err = p.expectIdent()
				if err != nil {
					return nil, err
				}
			}

			imp.Elements = append(imp.Elements, &ImportElement{Name: name, Alias: alias})

			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}

				continue
			}

			break
		}

		if _, err := p.expectPunct("}"); err != nil {
			return nil, err
		}
	default:
		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		alias := ""
		if p.isKeyword("as") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			alias, _, err = p.expectIdent()
			if err != nil {
				return nil, err
			}
		}

		imp.Elements = append(imp.Elements, &ImportElement{Name: name, Alias: alias})
	}

	if _, err := p.expectKeyword("from"); err != nil {
		return nil, err
	}

	if p.cur == nil || p.cur.Kind != onyxtoken.StringLit {
		return nil, p.unexpected("a module path string")
	}

	imp.From = p.cur.StrVal
	imp.base = base{p.spanFrom(start)}

	return imp, p.advance()
}

func (p *Parser) parseExport() (*Export, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("export"); err != nil {
		return nil, err
	}

	decl, err := p.parseTopLevelItem()
	if err != nil {
		return nil, err
	}

	return &Export{base: base{p.spanFrom(start)}, Decl: decl}, nil
}
