package compiler

import "strings"

// directiveType identifies one of the three source-level ($STAMP/$PORT/$PBASIC)
// directives recognized outside conditional-compile blocks (§4.3).
type directiveType int

const (
	dirStamp directiveType = iota
	dirPort
	dirPBasic
)

// ccDirectiveType identifies a conditional-compile (#IF/#SELECT family) directive,
// handled by the preprocessor pass ahead of declaration resolution (§4.4 step 1).
type ccDirectiveType int

const (
	ccIf ccDirectiveType = iota
	ccElse
	ccEndIf
	ccDefine
	ccError
	ccSelect
	ccCase
	ccEndSelect
)

// moduleNames maps the canonical $STAMP target names to their Module value.
var moduleNames = map[string]Module{
	"BS1":   ModuleBS1,
	"BS2":   ModuleBS2,
	"BS2E":  ModuleBS2e,
	"BS2SX": ModuleBS2sx,
	"BS2P":  ModuleBS2p,
	"BS2PE": ModuleBS2pe,
}

// directiveState tracks which of the three top-level directives have fired once per
// Context, since each may appear at most once per source (§4.3 edge cases).
type directiveState struct {
	stampSet   bool
	portSet    bool
	pbasicSet  bool
	module     Module
	port       byte
	dialect    Dialect
}

// compileStampDirective parses "$STAMP BS2, file1.bas, file2.bas" (module name
// required, project file list optional and capped at maxProjectFile entries).
func (ctx *Context) compileStampDirective(c *cursor, start int) error {
	if ctx.directives.stampSet {
		return newErr(codeStampAlreadySet, start, 0)
	}
	e := c.Next()
	name := strings.ToUpper(ctx.sourceText(e))
	module, ok := moduleNames[name]
	if !ok {
		return newErr(codeUnknownTargetModule, int(e.Start), int(e.Length))
	}
	ctx.directives.module = module
	ctx.directives.stampSet = true

	files := 0
	for c.Peek().Kind == KindComma {
		c.Next()
		fe := c.Next()
		// A project filename lexes as a bare identifier, optionally followed by a
		// ".ext" suffix (period + identifier); accept both shapes.
		if fe.Kind != KindUndef && fe.Kind != KindFileName {
			return newErr(codeUnexpectedCharacter, int(fe.Start), int(fe.Length))
		}
		if c.Peek().Kind == KindPeriod {
			c.Next()
			c.Next()
		}
		files++
		if files > maxProjectFile {
			return newErr(codeTooManyProjectFiles, int(fe.Start), int(fe.Length))
		}
	}
	ctx.symbols.ModifyValue("$STAMP", uint16(module))
	return nil
}

// compilePortDirective parses "$PORT <n>" designating the programming port; the value
// has no semantic effect on the compiled image, only recorded for the Result.
func (ctx *Context) compilePortDirective(c *cursor, start int) error {
	if ctx.directives.portSet {
		return newErr(codePortAlreadySet, start, 0)
	}
	e := c.Next()
	if e.Kind != KindConstant && e.Kind != KindPinNumber {
		return newErr(codeExpectedValue, int(e.Start), int(e.Length))
	}
	ctx.directives.port = byte(e.Value)
	ctx.directives.portSet = true
	ctx.symbols.ModifyValue("$PORT", e.Value)
	return nil
}

// compilePBasicDirective parses "$PBASIC 2.5" (or 2.0), setting the dialect used by
// the rest of the compile (custom-symbol admission, instruction availability).
func (ctx *Context) compilePBasicDirective(c *cursor, start int) error {
	if ctx.directives.pbasicSet {
		return newErr(codePBasicAlreadySet, start, 0)
	}
	e := c.Next()
	major := e.Value
	minor := uint16(0)
	if c.Peek().Kind == KindPeriod {
		c.Next()
		minorElem := c.Next()
		minor = minorElem.Value
	}
	var dialect Dialect
	switch {
	case major == 2 && minor == 0:
		dialect = Dialect20
	case major == 2 && minor == 5:
		dialect = Dialect25
	default:
		return newErr(codeInvalidPBasicVersion, int(e.Start), int(e.Length))
	}
	ctx.directives.dialect = dialect
	ctx.directives.pbasicSet = true
	ctx.symbols.ModifyValue("$PBASIC", uint16(dialect))
	return nil
}

// ccFrame is one entry of the conditional-compile nesting stack maintained while
// folding #IF/#SELECT blocks, kept separate from the statement-level nesting stack
// used later by the statement compiler (§4.4 step 1 runs to completion first).
type ccFrame struct {
	kind      ccDirectiveType
	satisfied bool // whether some branch of this #IF/#SELECT has already matched
	elseUsed  bool
	blockKeep int // element index of the opening #IF/#SELECT directive
}

// foldConditionalCompile is the preprocessor pass (§4.4 step 1): it walks the element
// list evaluating #IF/#SELECT expressions against already-known constants and
// cancels every element belonging to a branch that did not match, leaving exactly one
// live branch body (or none) per directive group. #DEFINE installs a CON symbol as a
// side effect; #ERROR raises a user diagnostic unconditionally when reached live.
func (ctx *Context) foldConditionalCompile() error {
	var stack []ccFrame
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		e := c.Peek()
		if e.Kind != KindCCDirective {
			c.Next()
			continue
		}
		start := c.Index()
		at := int(e.Start)
		dir := ccDirectiveType(e.Value)
		c.Next()

		switch dir {
		case ccIf:
			val, err := ctx.evalCCExpression(c)
			if err != nil {
				return err
			}
			stack = append(stack, ccFrame{kind: ccIf, satisfied: val != 0, blockKeep: start})
			if val == 0 {
				ctx.skipToNextCCMarker(c, &stack[len(stack)-1])
			}
		case ccElse:
			if len(stack) == 0 || stack[len(stack)-1].kind != ccIf {
				return newErr(codeNotNested, at, 0)
			}
			top := &stack[len(stack)-1]
			if top.elseUsed {
				return newErr(codeCCElseAlreadyUsed, at, 0)
			}
			top.elseUsed = true
			if top.satisfied {
				ctx.skipToNextCCMarker(c, top)
			} else {
				top.satisfied = true
			}
		case ccEndIf:
			if len(stack) == 0 || stack[len(stack)-1].kind != ccIf {
				return newErr(codeCCIfWithoutCCEndIf, at, 0)
			}
			stack = stack[:len(stack)-1]
		case ccSelect:
			stack = append(stack, ccFrame{kind: ccSelect, blockKeep: start})
			ctx.skipToNextCCMarker(c, &stack[len(stack)-1])
		case ccCase:
			if len(stack) == 0 || stack[len(stack)-1].kind != ccSelect {
				return newErr(codeNotNested, at, 0)
			}
			top := &stack[len(stack)-1]
			if top.satisfied {
				ctx.skipToNextCCMarker(c, top)
				continue
			}
			val, err := ctx.evalCCExpression(c)
			if err != nil {
				return err
			}
			if val != 0 {
				top.satisfied = true
			} else {
				ctx.skipToNextCCMarker(c, top)
			}
		case ccEndSelect:
			if len(stack) == 0 || stack[len(stack)-1].kind != ccSelect {
				return newErr(codeCCSelectWithoutCCEndSel, at, 0)
			}
			stack = stack[:len(stack)-1]
		case ccDefine:
			name := ctx.sourceText(c.Peek())
			c.Next()
			val, err := ctx.evalCCExpression(c)
			if err != nil {
				return err
			}
			if _, ok := ctx.symbols.Find(name); ok {
				return newErr(codeDuplicateSymbol, at, 0)
			}
			if err := ctx.symbols.Insert(name, KindCon, uint16(val)); err != nil {
				return err
			}
		case ccError:
			msg := ctx.sourceText(c.Peek())
			return newUserErr(msg, at, 0)
		}
	}
	if len(stack) != 0 {
		open := int(ctx.elements.At(stack[len(stack)-1].blockKeep).Start)
		if stack[len(stack)-1].kind == ccIf {
			return newErr(codeCCIfWithoutCCEndIf, open, 0)
		}
		return newErr(codeCCSelectWithoutCCEndSel, open, 0)
	}
	return nil
}

// skipToNextCCMarker cancels elements from the cursor's current position up to (but
// not including) the next #ELSE/#CASE/#ENDIF/#ENDSELECT belonging to the same frame,
// leaving that marker live so the outer loop processes it normally.
func (ctx *Context) skipToNextCCMarker(c *cursor, frame *ccFrame) {
	depth := 0
	from := c.Index()
	for !c.atEnd() {
		e := c.Peek()
		if e.Kind == KindCCDirective {
			d := ccDirectiveType(e.Value)
			switch d {
			case ccIf, ccSelect:
				depth++
			case ccEndIf, ccEndSelect:
				if depth == 0 {
					ctx.elements.Cancel(from, c.Index())
					return
				}
				depth--
			case ccElse, ccCase:
				if depth == 0 {
					ctx.elements.Cancel(from, c.Index())
					return
				}
			}
		}
		c.Next()
	}
	ctx.elements.Cancel(from, c.Index())
}
