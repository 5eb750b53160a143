package parser

import (
	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/source"
	"lazy/internal/token"
)

// withFnTypes runs fn with "fn(...)" typings allowed.
func (p *Parser) withFnTypes(fn func() bool) bool {
	saved := p.flags
	p.flags |= ctxAllowFnType
	defer func() { p.flags = saved }()
	return fn()
}

// parseDeclHead parses "Name [<G>]" after a declaration keyword.
func (p *Parser) parseDeclHead(kw token.Token) (name source.StringID, nameSpan source.Span, generics []ast.GenericParam, ok bool) {
	name, nameSpan, ok = p.parseIdent("after '" + kw.Text + "'")
	if !ok {
		return
	}
	if p.at(token.Lt) {
		generics, ok = p.parseGenericParams()
	}
	return
}

// struct Name<G> { field: Type, ... }
func (p *Parser) parseStructItem() (ast.StmtID, bool) {
	kw := p.advance()
	name, nameSpan, generics, ok := p.parseDeclHead(kw)
	if !ok {
		return ast.NoStmtID, false
	}
	var fields []ast.TypeField
	if !p.withFnTypes(func() bool {
		fields, ok = p.parseTypeFields()
		return ok
	}) {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewStruct(kw.Span.Cover(p.lastSpan), ast.StmtStructData{
		Name:     name,
		NameSpan: nameSpan,
		Generics: generics,
		Fields:   fields,
	}), true
}

// enum Name<G> { Variant, Variant: Type, ... }
func (p *Parser) parseEnumItem() (ast.StmtID, bool) {
	kw := p.advance()
	name, nameSpan, generics, ok := p.parseDeclHead(kw)
	if !ok {
		return ast.NoStmtID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'{' to start enum variants")
	if !ok {
		return ast.NoStmtID, false
	}
	var variants []ast.EnumVariant
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		vName, vSpan, ok := p.parseIdent("for enum variant")
		if !ok {
			return ast.NoStmtID, false
		}
		variant := ast.EnumVariant{Name: vName, Span: vSpan}
		if _, isPayload := p.eat(token.Colon); isPayload {
			if !p.withFnTypes(func() bool {
				variant.Payload, ok = p.parseType()
				return ok
			}) {
				return ast.NoStmtID, false
			}
			variant.Span = vSpan.Cover(p.typeSpan(variant.Payload))
		}
		variants = append(variants, variant)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open.Span, "enum"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewEnum(kw.Span.Cover(p.lastSpan), ast.StmtEnumData{
		Name:     name,
		NameSpan: nameSpan,
		Generics: generics,
		Variants: variants,
	}), true
}

// type Name<G> = Type;
func (p *Parser) parseTypeAliasItem() (ast.StmtID, bool) {
	kw := p.advance()
	name, nameSpan, generics, ok := p.parseDeclHead(kw)
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'=' in type alias"); !ok {
		return ast.NoStmtID, false
	}
	var target ast.TypeID
	if !p.withFnTypes(func() bool {
		target, ok = p.parseType()
		return ok
	}) {
		return ast.NoStmtID, false
	}
	sp := kw.Span.Cover(p.lastSpan)
	p.endItem("type alias")
	return p.arenas.Stmts.NewTypeAlias(sp, ast.StmtTypeAliasData{
		Name:     name,
		NameSpan: nameSpan,
		Generics: generics,
		Type:     target,
	}), true
}

// static name[: Type] [= value];
func (p *Parser) parseStaticItem() (ast.StmtID, bool) {
	kw := p.advance()
	name, nameSpan, ok := p.parseIdent("after 'static'")
	if !ok {
		return ast.NoStmtID, false
	}
	typ, ok := p.parseAnnotation(p.arenas.Name(name))
	if !ok {
		return ast.NoStmtID, false
	}
	value := ast.NoExprID
	if _, ok := p.eat(token.Assign); ok {
		if value, ok = p.parseNested(); !ok {
			return ast.NoStmtID, false
		}
	}
	sp := kw.Span.Cover(p.lastSpan)
	p.endItem("static declaration")
	return p.arenas.Stmts.NewStatic(sp, ast.StmtStaticData{
		Name:     name,
		NameSpan: nameSpan,
		Type:     typ,
		Value:    value,
	}), true
}

// main { ... } - one per file.
func (p *Parser) parseMainItem() (ast.StmtID, bool) {
	kw := p.advance()
	if p.hasMain {
		p.errorf(diag.SynTooManyEntryPoints, kw.Span).
			WithNote(p.mainSpan, "first main block is here").
			Emit()
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	id := p.arenas.Stmts.NewMain(kw.Span.Cover(p.lastSpan), body)
	if !p.hasMain {
		p.hasMain = true
		p.mainSpan = kw.Span
		p.arenas.Files.Get(p.file).Main = id
	}
	return id, true
}

// export <declaration>; main cannot be exported.
func (p *Parser) parseExportItem() (ast.StmtID, bool) {
	kw := p.advance()
	if p.at(token.KwMain) {
		p.errorf(diag.SynExportMain, kw.Span.Cover(p.lx.Peek().Span)).Emit()
		return p.parseMainItem()
	}
	if !isTopLevelStarter(p.lx.Peek().Kind) || p.at(token.KwExport) {
		p.errorf(diag.SynUnexpectedToken, p.diagSpan(), describe(p.lx.Peek()), "a declaration after 'export'").Emit()
		return ast.NoStmtID, false
	}
	inner, ok := p.parseItem()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExport(kw.Span.Cover(p.stmtSpan(inner)), inner), true
}

// impl Capability for Target { name: value, ... }
func (p *Parser) parseImplItem() (ast.StmtID, bool) {
	kw := p.advance()
	capability, ok := p.parseType()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwFor, diag.SynExpectFor); !ok {
		return ast.NoStmtID, false
	}
	var target ast.TypeID
	if !p.withFnTypes(func() bool {
		target, ok = p.parseType()
		return ok
	}) {
		return ast.NoStmtID, false
	}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, describe(p.lx.Peek()), "'{' to start impl body")
	if !ok {
		return ast.NoStmtID, false
	}
	fields, ok := p.parseFieldInits(open)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewImpl(kw.Span.Cover(p.lastSpan), ast.StmtImplData{
		Capability: capability,
		Target:     target,
		Fields:     fields,
	}), true
}

// #name(args) <statement>
func (p *Parser) parseAttrItem() (ast.StmtID, bool) {
	hash := p.advance()
	name, nameSpan, ok := p.parseIdent("after '#'")
	if !ok {
		return ast.NoStmtID, false
	}
	var args []ast.ExprID
	if open, isCall := p.eat(token.LParen); isCall {
		if args, ok = p.parseExprList(token.RParen); !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open.Span, "attribute arguments"); !ok {
			return ast.NoStmtID, false
		}
	}
	if !isTopLevelStarter(p.lx.Peek().Kind) {
		p.errorf(diag.SynUnexpectedToken, p.diagSpan(), describe(p.lx.Peek()), "a declaration after attribute").Emit()
		return ast.NoStmtID, false
	}
	inner, ok := p.parseItem()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewAttr(hash.Span.Cover(p.stmtSpan(inner)), ast.StmtAttrData{
		Name:     name,
		NameSpan: nameSpan,
		Args:     args,
		Inner:    inner,
	}), true
}

func (p *Parser) stmtSpan(id ast.StmtID) source.Span {
	if st := p.arenas.Stmts.Get(id); st != nil {
		return st.Span
	}
	return p.lastSpan
}
