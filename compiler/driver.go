package compiler

// Result collects everything a caller needs after a Compile call: the populated
// EEPROM image, its transmittable packets, the resolved target module/port/dialect,
// and (on failure) the single Diagnostic that stopped compilation. Compile always
// returns a non-nil *Result; Error is nil on success.
type Result struct {
	Module  Module
	Port    byte
	Dialect Dialect

	EEPROM  [eepromSize]byte
	Packets []packet

	Xref []SrcTokRef

	Error *Diagnostic
}

// Compile translates src into a Result, running the fixed pass order: lex, fold
// conditional-compile blocks, resolve declarations, compile statements, drain
// forward-reference patches, then packetize. A fresh Context is built for every call
// so concurrent Compile calls never share mutable state.
//
// If directivesOnly is true, compilation stops once $STAMP/$PORT/$PBASIC have been
// read and Result carries only Module/Port/Dialect (used by callers that only need to
// know which target a file declares, e.g. an IDE's project-file picker). If
// parseStamp is false the $STAMP directive's tokens are lexed but never interpreted --
// used when the caller supplies the target module out of band instead, via
// moduleOverride (ignored when parseStamp is true).
func Compile(src []byte, directivesOnly bool, parseStamp bool, moduleOverride Module) *Result {
	ctx := newContext()
	ctx.reset(src, parseStamp, directivesOnly)

	result := &Result{}
	if err := ctx.installBuiltinSymbols(); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}
	if err := ctx.lex(); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}
	if err := ctx.processDirectives(parseStamp); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}
	if !parseStamp {
		ctx.directives.module = moduleOverride
		ctx.directives.stampSet = moduleOverride != ModuleNone
	}
	result.Module = ctx.directives.module
	result.Port = ctx.directives.port
	result.Dialect = ctx.directives.dialect
	if !ctx.directives.stampSet {
		result.Error = asDiagnostic(newErr(codeStampNotSet, 0, 0))
		return result
	}
	if err := ctx.installCustomSymbols(); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}
	if directivesOnly {
		return result
	}

	if err := ctx.foldConditionalCompile(); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}
	if err := ctx.resolveDeclarations(); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}
	if err := ctx.compileStatements(); err != nil {
		result.Error = asDiagnostic(err)
		return result
	}

	result.EEPROM = ctx.eeprom.buffer
	result.Packets = ctx.eeprom.buildPackets()
	result.Xref = append([]SrcTokRef(nil), ctx.xref...)
	return result
}

// processDirectives scans the whole element list for the top-level
// $STAMP/$PORT/$PBASIC directives; their position relative to declarations and
// instructions is not checked.
func (ctx *Context) processDirectives(parseStamp bool) error {
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		e := c.Peek()
		if e.Kind != KindDirective {
			c.Next()
			continue
		}
		start := c.Index()
		at := int(e.Start)
		dir := directiveType(e.Value)
		c.Next()
		var err error
		switch dir {
		case dirStamp:
			if parseStamp {
				err = ctx.compileStampDirective(c, at)
			} else {
				end := c.Index()
				c.Next() // module name
				for c.Peek().Kind == KindComma {
					c.Next()
					c.Next()
					if c.Peek().Kind == KindPeriod {
						c.Next()
						c.Next()
					}
				}
				ctx.elements.Void(start, end)
				ctx.elements.Void(end, c.Index())
			}
		case dirPort:
			err = ctx.compilePortDirective(c, at)
		case dirPBasic:
			err = ctx.compilePBasicDirective(c, at)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// asDiagnostic adapts any error produced by a pass into a *Diagnostic; every pass in
// this package only ever returns *Diagnostic or nil, so this is always a safe
// assertion in practice and exists to keep pass signatures as plain `error`.
func asDiagnostic(err error) *Diagnostic {
	if err == nil {
		return nil
	}
	if d, ok := err.(*Diagnostic); ok {
		return d
	}
	return &Diagnostic{Code: codeUnknown, Message: err.Error()}
}
