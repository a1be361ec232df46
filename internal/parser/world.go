package parser

import (
	"github.com/kairei-dsl/kairei/internal/ast"
	ck "github.com/kairei-dsl/kairei/internal/combinator"
	"github.com/kairei-dsl/kairei/internal/diagnostics"
	"github.com/kairei-dsl/kairei/internal/token"
)

type worldItem struct {
	Policy   *string
	Config   *ast.ConfigDef
	Events   *ast.EventsDef
	Handlers *ast.HandlersDef
}

func worldItemParser() ck.Parser[worldItem] {
	policyItem := ck.Map(policyParser(), func(s string) worldItem { return worldItem{Policy: &s} })
	configItem := ck.Map(configDefParser(), func(c *ast.ConfigDef) worldItem { return worldItem{Config: c} })
	eventsItem := ck.Map(eventsBlockParser(), func(e *ast.EventsDef) worldItem { return worldItem{Events: e} })
	handlersItem := ck.Map(handlersBlockParser(), func(h *ast.HandlersDef) worldItem { return worldItem{Handlers: h} })
	return ck.Choice(policyItem, configItem, eventsItem, handlersItem)
}

// parseWorld parses `world IDENT { world_item* }` (spec §6.3). Unlike the
// grammar-layer parsers elsewhere in this package, it is not itself a
// ck.Parser[O]: besides the AST it also surfaces DuplicateBlock warnings for
// repeated config/events/handlers blocks (spec §9's "rewrite may choose to
// emit a warning diagnostic instead" of the source's silent overwrite —
// DESIGN.md Open Question). Policies accumulate and never trigger the
// warning (spec §4.2 "World parsing": "Policies accumulate.").
func parseWorld(tokens []token.Token, pos int) (int, *ast.WorldDef, []*diagnostics.Diagnostic, *ck.ParseError) {
	afterKw, kwTok, err := keywordTok(token.KeywordWorld)(tokens, pos)
	if err != nil {
		return pos, nil, nil, err
	}
	afterName, nameTok, nerr := identifierTok()(tokens, afterKw)
	if nerr != nil {
		return afterName, nil, nil, ck.Fatalize(nerr)
	}
	afterBrace, _, operr := delimTok(token.DelimLBrace)(tokens, afterName)
	if operr != nil {
		return afterBrace, nil, nil, ck.Fatalize(operr)
	}
	afterItems, items, ierr := ck.Many(worldItemParser())(tokens, afterBrace)
	if ierr != nil {
		return afterItems, nil, nil, ierr
	}
	afterClose, _, cerr := delimTok(token.DelimRBrace)(tokens, afterItems)
	if cerr != nil {
		return afterClose, nil, nil, ck.Fatalize(cerr)
	}

	wd := &ast.WorldDef{Token: kwTok, Name: nameTok.Name}
	var diags []*diagnostics.Diagnostic
	haveConfig, haveEvents, haveHandlers := false, false, false
	for _, it := range items {
		switch {
		case it.Policy != nil:
			wd.Policies = append(wd.Policies, *it.Policy)
		case it.Config != nil:
			if haveConfig {
				diags = append(diags, diagnostics.Warning(diagnostics.KindDuplicateBlock, it.Config.Pos(), "duplicate 'config' block in world '"+nameTok.Name+"'; later block overwrites the earlier one"))
			}
			wd.Config = it.Config
			haveConfig = true
		case it.Events != nil:
			if haveEvents {
				diags = append(diags, diagnostics.Warning(diagnostics.KindDuplicateBlock, it.Events.Pos(), "duplicate 'events' block in world '"+nameTok.Name+"'; later block overwrites the earlier one"))
			}
			wd.Events = it.Events
			haveEvents = true
		case it.Handlers != nil:
			if haveHandlers {
				diags = append(diags, diagnostics.Warning(diagnostics.KindDuplicateBlock, it.Handlers.Pos(), "duplicate 'handlers' block in world '"+nameTok.Name+"'; later block overwrites the earlier one"))
			}
			wd.Handlers = it.Handlers
			haveHandlers = true
		}
	}
	return afterClose, wd, diags, nil
}
