package parser

import (
	"context"
	"strconv"

	"lazy/internal/ast"
	"lazy/internal/diag"
	"lazy/internal/lexer"
	"lazy/internal/source"
	"lazy/internal/token"
	"lazy/internal/trace"
)

type Options struct {
	Reporter      diag.Reporter
	MaxErrors     uint
	CurrentErrors uint
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// ctxFlags меняют грамматику во вложенных контекстах.
type ctxFlags uint8

const (
	// ctxStmtStart: the expression being parsed starts a block item.
	ctxStmtStart ctxFlags = 1 << iota
	// ctxAllowYield: inside a block expression.
	ctxAllowYield
	// ctxAllowFnType: "fn(...) -> T" typings are legal here.
	ctxAllowFnType
	// ctxInLoop: break/continue are legal here.
	ctxInLoop
)

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	flags    ctxFlags
	mainSpan source.Span
	hasMain  bool
}

// ParseFile - входная точка для разбора одного файла.
// Diagnostics go to opts.Reporter; the tree is always built, with
// ExprInvalid gaps where recovery happened.
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
	if f := lx.File(); f != nil {
		span.WithExtra("path", f.Path)
	}

	start := lx.Peek().Span.AtStart()
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(start),
		fs:       fs,
		opts:     opts,
		lastSpan: start,
	}
	p.parseItems()

	file := arenas.Files.Get(p.file)
	span.WithExtra("stmts", strconv.Itoa(len(file.Stmts)))
	span.End("")
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	k := p.lx.Peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// parseItems - основной цикл верхнего уровня: пока не EOF - parseItem.
func (p *Parser) parseItems() {
	file := p.arenas.Files.Get(p.file)
	startSpan := file.Span
	for !p.at(token.EOF) {
		before := p.lx.Peek().Span
		stmtID, ok := p.parseItem()
		if ok {
			p.arenas.PushStmt(p.file, stmtID)
			continue
		}
		p.resyncTop()
		if p.lx.Peek().Span == before && !p.at(token.EOF) {
			p.advance()
		}
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lastSpan)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwStruct:
		return p.parseStructItem()
	case token.KwEnum:
		return p.parseEnumItem()
	case token.KwType:
		return p.parseTypeAliasItem()
	case token.KwStatic:
		return p.parseStaticItem()
	case token.KwMain:
		return p.parseMainItem()
	case token.KwExport:
		return p.parseExportItem()
	case token.KwImport:
		return p.parseImportItem()
	case token.KwImpl:
		return p.parseImplItem()
	case token.Hash:
		return p.parseAttrItem()
	default:
		first := p.lx.Peek()
		skipped := p.skipLine()
		p.errorf(diag.SynUnexpectedTopLevel, skipped, describe(first)).Emit()
		return ast.NoStmtID, false
	}
}

// isTopLevelStarter - принадлежит ли токен стартерам item.
func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwStruct, token.KwEnum, token.KwType, token.KwStatic, token.KwMain,
		token.KwExport, token.KwImport, token.KwImpl, token.Hash:
		return true
	default:
		return false
	}
}

// resyncTop - восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) && !isTopLevelStarter(p.lx.Peek().Kind) {
		tok := p.advance()
		if tok.Kind == token.Semicolon {
			return
		}
	}
}

// skipLine consumes the current token and every following token that
// starts on the same source line. Returns the covered span.
func (p *Parser) skipLine() source.Span {
	first := p.advance()
	sp := first.Span
	for !p.at(token.EOF) && p.sameLine(sp, p.lx.Peek().Span) {
		sp = sp.Cover(p.advance().Span)
	}
	return sp
}

// parseIdent - утилита: ожидает Ident и интернирует его.
func (p *Parser) parseIdent(what string) (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.Strings.Intern(tok.Text), tok.Span, true
	}
	p.errorf(diag.SynExpectIdentifier, p.diagSpan(), what).Emit()
	return source.NoStringID, p.diagSpan(), false
}
