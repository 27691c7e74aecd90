package compiler

// Context holds every piece of mutable state a single Compile invocation needs. A
// fresh Context is built per call (see Compile in driver.go) so that concurrent
// compiles never share state -- the reference tokenizer's process-wide globals are
// reorganized here into a per-call value, per the Go per-invocation context pattern.
type Context struct {
	source []byte

	elements   *ElementList
	symbols    *SymbolTable
	undef      *UndefSymbolTable
	directives directiveState

	nesting *nestingStack
	patches *patchList
	eeprom  *eeprom

	exprBuf   *exprBuffer
	exprStack *exprStack

	xref []SrcTokRef

	parseStamp      bool
	directivesOnly  bool
}

// SrcTokRef pairs a source byte offset with the element index it lexed to; it is the
// entry type of Result.Xref. No pass appends entries to Context.xref, so Result.Xref
// is always empty, and entries carry no EEPROM address.
type SrcTokRef struct {
	SourceOffset int
	ElementIndex int
}

func newContext() *Context {
	return &Context{
		elements:  newElementList(),
		symbols:   newSymbolTable(),
		undef:     newUndefSymbolTable(),
		nesting:   newNestingStack(),
		patches:   newPatchList(),
		eeprom:    newEEPROM(),
		exprBuf:   newExprBuffer(),
		exprStack: newExprStack(),
	}
}

// reset returns ctx to a freshly-constructed state so a single Context value can be
// reused across repeated Compile calls without reallocating its backing slices.
func (ctx *Context) reset(source []byte, parseStamp, directivesOnly bool) {
	ctx.source = source
	ctx.elements.reset()
	ctx.symbols.reset()
	ctx.undef.reset()
	ctx.directives = directiveState{}
	ctx.nesting.reset()
	ctx.patches.reset()
	ctx.eeprom.reset()
	ctx.exprBuf.reset()
	ctx.exprStack.reset()
	ctx.xref = ctx.xref[:0]
	ctx.parseStamp = parseStamp
	ctx.directivesOnly = directivesOnly
}

// sourceText returns the raw source slice an element was lexed from.
func (ctx *Context) sourceText(e Element) string {
	start := int(e.Start)
	end := start + int(e.Length)
	if start < 0 || end > len(ctx.source) || start > end {
		return ""
	}
	return string(ctx.source[start:end])
}

// installBuiltinSymbols populates a fresh SymbolTable with every unconditional
// reserved word (§4.2's bulk symbol load), ahead of lexing.
func (ctx *Context) installBuiltinSymbols() error {
	for _, s := range commonSymbols {
		if err := ctx.symbols.Insert(s.name, s.kind, s.value); err != nil {
			return err
		}
	}
	return nil
}

// installCustomSymbols admits the module/dialect-gated symbol set once the $STAMP and
// $PBASIC directives have been resolved (§9 design note: nonzero-overlap admission).
func (ctx *Context) installCustomSymbols() error {
	selection := ctx.directives.module.mask() | ctx.directives.dialect.mask()
	for _, s := range customSymbols {
		if s.mask&selection == 0 {
			continue
		}
		if err := ctx.symbols.Insert(s.name, s.kind, s.value); err != nil {
			return err
		}
	}
	return nil
}
