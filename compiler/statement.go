package compiler

// compileStatements is the final pass (§4.4 step after declarations): it walks live
// elements left to right, emitting opcodes into the EEPROM program stream and pushing
// nesting frames for every open block, closing them as their terminators are reached.
// Unlike declaration resolution this pass is single-pass: every label's final address
// is only known once this loop finishes, so branch targets go through the patch list
// and are resolved afterward by Context.patches.drain.
func (ctx *Context) compileStatements() error {
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		e := c.Peek()
		switch e.Kind {
		case KindPin, KindCon, KindVar, KindData, KindColon, KindCCDirective, KindCCThen:
			c.Next()
			continue
		case KindAddress:
			// declareLabels installed this label with a placeholder address: record
			// its real address now that the program pointer at this point is known.
			ctx.symbols.ModifyValue(ctx.sourceText(e), uint16(ctx.eeprom.bitPtr))
			c.Next()
			continue
		case KindInstruction:
			if err := ctx.compileInstruction(c); err != nil {
				return err
			}
		default:
			c.Next()
		}
	}
	if !ctx.nesting.empty() {
		top := ctx.nesting.top()
		switch top.kind {
		case NestFOR:
			return newErr(codeForWithoutNext, top.openerElement, 0)
		case NestDO:
			return newErr(codeDoWithoutLoop, top.openerElement, 0)
		case NestSELECT:
			return newErr(codeSelectWithoutEndSelect, top.openerElement, 0)
		default:
			return newErr(codeIfWithoutEndif, top.openerElement, 0)
		}
	}
	return ctx.patches.drain(ctx.symbols, func(bitAddr int, value uint16) error {
		return ctx.eeprom.patchWord(bitAddr, value, 16)
	})
}

func (ctx *Context) compileInstruction(c *cursor) error {
	e := c.Next()
	op := instructionCode(e.Value)
	switch op {
	case icEnd:
		return ctx.enter0Code(icEnd)
	case icGoto:
		return ctx.compileGoto(c)
	case icGosub:
		return ctx.compileGosub(c)
	case icReturn:
		return ctx.enter0Code(icReturn)
	case icHigh, icLow, icToggle, icInput, icOutput, icReverse:
		return ctx.compilePinStatement(c, op)
	case icPause:
		return ctx.compilePause(c)
	case icIf:
		return ctx.compileIf(c, int(e.Start))
	case icElseIf:
		return ctx.compileElseIf(c, int(e.Start))
	case icElse:
		return ctx.compileElse(int(e.Start))
	case icEndIf:
		return ctx.compileEndIf(int(e.Start))
	case icFor:
		return ctx.compileFor(c, int(e.Start))
	case icNext:
		return ctx.compileNext(c)
	case icDo:
		return ctx.compileDo(c, int(e.Start))
	case icLoop:
		return ctx.compileLoop(c, int(e.Start))
	case icExit:
		return ctx.compileExit(c, int(e.Start))
	case icOn:
		return ctx.compileOn(c, int(e.Start))
	case icDebug:
		return ctx.compileDebug(c)
	case icSelect:
		return ctx.compileSelect(c, int(e.Start))
	case icCase:
		return ctx.compileCase(c, int(e.Start))
	case icEndSelect:
		return ctx.compileEndSelect(int(e.Start))
	default:
		return newErr(codeUnknownInstruction, int(e.Start), int(e.Length))
	}
}

// enter0Code emits a bare opcode with no operands (END, RETURN).
func (ctx *Context) enter0Code(op instructionCode) error {
	code, ok := opcodeFor(op, ctx.directives.module)
	if !ok {
		return newErr(codeUnknownInstruction, 0, 0)
	}
	_, err := ctx.eeprom.emit(uint16(code), 7)
	return err
}

// enterOpWithOperand emits an opcode followed immediately by a fixed-width operand.
func (ctx *Context) enterOpWithOperand(op instructionCode, value uint16, width int) (int, error) {
	code, ok := opcodeFor(op, ctx.directives.module)
	if !ok {
		return 0, newErr(codeUnknownInstruction, 0, 0)
	}
	if _, err := ctx.eeprom.emit(uint16(code), 7); err != nil {
		return 0, err
	}
	return ctx.eeprom.emit(value, width)
}

// compileGoto emits GOTO <addr> and always defers the target through the patch list:
// a label's symbol-table value is only correct once compileStatements has actually
// passed its defining element, which for a backward reference has already happened
// but for a forward reference has not -- draining every patch after the single pass
// finishes (see compileStatements) treats both uniformly and avoids baking in a
// forward label's stale placeholder value.
func (ctx *Context) compileGoto(c *cursor) error {
	labelElem := c.Next()
	name := ctx.sourceText(labelElem)
	addr, err := ctx.enterOpWithOperand(icGoto, 0, 16)
	if err != nil {
		return err
	}
	if _, ok := ctx.symbols.Find(name); !ok {
		return newErr(codeUndefinedLabel, int(labelElem.Start), int(labelElem.Length))
	}
	return ctx.patches.add(addr, int(labelElem.Start), name)
}

func (ctx *Context) compileGosub(c *cursor) error {
	labelElem := c.Next()
	name := ctx.sourceText(labelElem)
	addr, err := ctx.enterOpWithOperand(icGosub, 0, 16)
	if err != nil {
		return err
	}
	if _, ok := ctx.symbols.Find(name); !ok {
		return newErr(codeUndefinedLabel, int(labelElem.Start), int(labelElem.Length))
	}
	return ctx.patches.add(addr, int(labelElem.Start), name)
}

// compilePinStatement handles HIGH/LOW/TOGGLE/INPUT/OUTPUT/REVERSE, all of which take
// a single pin-number operand (a constant, a PIN-declared alias, or a constant
// expression).
func (ctx *Context) compilePinStatement(c *cursor, op instructionCode) error {
	val, err := ctx.parseConstExpr(c, 0)
	if err != nil {
		return err
	}
	if val < 0 || val > 15 {
		return newErr(codePinOutOfRange, 0, 0)
	}
	_, err = ctx.enterOpWithOperand(op, uint16(val), 4)
	return err
}

func (ctx *Context) compilePause(c *cursor) error {
	val, err := ctx.parseConstExpr(c, 0)
	if err != nil {
		return err
	}
	_, err = ctx.enterOpWithOperand(icPause, uint16(val), 16)
	return err
}

// compileIf lowers "IF <expr> THEN <label>" (the single-line form) and the
// IF/ELSEIF/ELSE/ENDIF block form to a conditional branch plus pending patch, pushing
// a nesting frame for the block form so ELSE/ENDIF can close it.
func (ctx *Context) compileIf(c *cursor, at int) error {
	val, err := ctx.parseConstExpr(c, 0)
	_ = val
	if err != nil {
		return err
	}
	if c.Peek().Kind == KindThen {
		c.Next()
		if c.Peek().Kind == KindUndef || c.Peek().Kind == KindAddress {
			return ctx.compileGoto(c)
		}
	}
	addr, err := ctx.enterOpWithOperand(icIf, 0, 16)
	if err != nil {
		return err
	}
	return ctx.nesting.push(nestingFrame{kind: NestIFMultiMain, openerElement: at, jumpAddr: addr})
}

// compileElseIf closes the previous branch's condition (patching its false-jump to
// land here) and opens a new one, chaining IF/ELSEIF/ELSEIF/.../ENDIF as a sequence of
// conditional branches each skipping to the block's end once taken.
func (ctx *Context) compileElseIf(c *cursor, at int) error {
	frame := ctx.nesting.top()
	if frame == nil || (frame.kind != NestIFMultiMain && frame.kind != NestIFMultiElse) {
		return newErr(codeNotNested, at, 0)
	}
	if frame.elseUsed {
		return newErr(codeElseAlreadyUsed, at, 0)
	}
	skipAddr, err := ctx.enterOpWithOperand(icGoto, 0, 16)
	if err != nil {
		return err
	}
	if err := frame.addExit(skipAddr, at); err != nil {
		return err
	}
	if err := ctx.eeprom.patchWord(frame.jumpAddr, uint16(ctx.eeprom.bitPtr), 16); err != nil {
		return err
	}
	if _, err := ctx.parseConstExpr(c, 0); err != nil {
		return err
	}
	addr, err := ctx.enterOpWithOperand(icIf, 0, 16)
	if err != nil {
		return err
	}
	frame.jumpAddr = addr
	frame.kind = NestIFMultiElse
	return nil
}

// compileElse closes the previous branch the same way ELSEIF does but opens no new
// condition -- everything until ENDIF runs unconditionally.
func (ctx *Context) compileElse(at int) error {
	frame := ctx.nesting.top()
	if frame == nil || (frame.kind != NestIFMultiMain && frame.kind != NestIFMultiElse) {
		return newErr(codeNotNested, at, 0)
	}
	if frame.elseUsed {
		return newErr(codeElseAlreadyUsed, at, 0)
	}
	frame.elseUsed = true
	skipAddr, err := ctx.enterOpWithOperand(icGoto, 0, 16)
	if err != nil {
		return err
	}
	if err := frame.addExit(skipAddr, at); err != nil {
		return err
	}
	if err := ctx.eeprom.patchWord(frame.jumpAddr, uint16(ctx.eeprom.bitPtr), 16); err != nil {
		return err
	}
	frame.jumpAddr = -1
	frame.kind = NestIFMultiElse
	return nil
}

// compileEndIf closes the block: if the last branch's condition was never taken (no
// ELSE seen) its false-jump still needs patching to here, and every ELSEIF/ELSE skip
// jump recorded along the way converges here too.
func (ctx *Context) compileEndIf(at int) error {
	frame, ok := ctx.nesting.pop()
	if !ok || (frame.kind != NestIFMultiMain && frame.kind != NestIFMultiElse) {
		return newErr(codeNotNested, at, 0)
	}
	if frame.jumpAddr >= 0 {
		if err := ctx.eeprom.patchWord(frame.jumpAddr, uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
	}
	for i := 0; i < frame.exitN; i++ {
		if err := ctx.eeprom.patchWord(frame.exits[i], uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) compileFor(c *cursor, at int) error {
	// FOR <var> = <start> TO <end> [STEP <step>]
	c.Next() // loop variable, left unresolved by this narrowed subset
	if c.Peek().Kind == KindCond1Op {
		c.Next()
	}
	if _, err := ctx.parseConstExpr(c, 0); err != nil {
		return err
	}
	if c.Peek().Kind == KindTo {
		c.Next()
		if _, err := ctx.parseConstExpr(c, 0); err != nil {
			return err
		}
	}
	if c.Peek().Kind == KindStep {
		c.Next()
		if _, err := ctx.parseConstExpr(c, 0); err != nil {
			return err
		}
	}
	top := ctx.eeprom.bitPtr
	return ctx.nesting.push(nestingFrame{kind: NestFOR, openerElement: at, jumpAddr: top})
}

func (ctx *Context) compileNext(c *cursor) error {
	frame, ok := ctx.nesting.pop()
	if !ok || frame.kind != NestFOR {
		return newErr(codeForWithoutNext, c.Index(), 0)
	}
	addr, err := ctx.enterOpWithOperand(icGoto, uint16(frame.jumpAddr), 16)
	if err != nil {
		return err
	}
	for i := 0; i < frame.exitN; i++ {
		if err := ctx.eeprom.patchWord(frame.exits[i], uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
	}
	_ = addr
	return nil
}

func (ctx *Context) compileDo(c *cursor, at int) error {
	hasCond := c.Peek().Kind == KindWhile || c.Peek().Kind == KindUntil
	if hasCond {
		c.Next()
		if _, err := ctx.parseConstExpr(c, 0); err != nil {
			return err
		}
	}
	top := ctx.eeprom.bitPtr
	return ctx.nesting.push(nestingFrame{kind: NestDO, openerElement: at, jumpAddr: top})
}

func (ctx *Context) compileLoop(c *cursor, at int) error {
	frame, ok := ctx.nesting.pop()
	if !ok || frame.kind != NestDO {
		return newErr(codeDoWithoutLoop, at, 0)
	}
	if c.Peek().Kind == KindWhile || c.Peek().Kind == KindUntil {
		c.Next()
		if _, err := ctx.parseConstExpr(c, 0); err != nil {
			return err
		}
	}
	if _, err := ctx.enterOpWithOperand(icGoto, uint16(frame.jumpAddr), 16); err != nil {
		return err
	}
	for i := 0; i < frame.exitN; i++ {
		if err := ctx.eeprom.patchWord(frame.exits[i], uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) compileExit(c *cursor, at int) error {
	frame := ctx.nesting.topOfKind(NestFOR, NestDO)
	if frame == nil {
		return newErr(codeExitOutsideLoop, at, 0)
	}
	addr, err := ctx.enterOpWithOperand(icGoto, 0, 16)
	if err != nil {
		return err
	}
	return frame.addExit(addr, at)
}

// isIOFormatterKind reports whether k is one of DEBUG/SERIN/SEROUT's IO-formatter
// keywords (ASC/REP/SKIP/DEC/HEX/BIN/.../WAIT/WAITSTR/SPSTR). KindStringIO is
// deliberately excluded: the same Kind is reused both for the STR formatter keyword
// and for an ordinary quoted string literal (lexer.go's string-literal scan produces
// a KindStringIO element with no way to tell the two apart downstream), so
// compileDebugItem treats every KindStringIO element as a literal string and the STR
// formatter keyword itself is left unimplemented, matching the rest of this narrowed
// instruction set's unimplemented IO-formatter grammars.
func isIOFormatterKind(k Kind) bool {
	switch k {
	case KindASCIIIO, KindNumberIO, KindRepeatIO, KindSkipIO, KindSpStringIO, KindWaitIO, KindWaitStringIO:
		return true
	default:
		return false
	}
}

// compileDebug lowers "DEBUG <item>[, <item>...]" (§4.6; spec.md §8 scenario 1): a
// quoted string emits its length followed by its bytes verbatim, an IO-formatter
// keyword packs a 4-bit format code ahead of its governing expression, and a bare
// expression falls back to a plain 16-bit constant field. One continuation bit
// follows every item, the same convention exprBuffer.appendOp uses for its operator
// stream, so the decoder knows whether another item follows without a separate count
// field.
func (ctx *Context) compileDebug(c *cursor) error {
	if err := ctx.enter0Code(icDebug); err != nil {
		return err
	}
	for {
		if err := ctx.compileDebugItem(c); err != nil {
			return err
		}
		more := c.Peek().Kind == KindComma
		bit := uint16(0)
		if more {
			bit = 1
		}
		if _, err := ctx.eeprom.emit(bit, 1); err != nil {
			return err
		}
		if !more {
			return nil
		}
		c.Next()
	}
}

func (ctx *Context) compileDebugItem(c *cursor) error {
	e := c.Peek()
	switch {
	case e.Kind == KindStringIO:
		c.Next()
		text := ctx.sourceText(e)
		if _, err := ctx.eeprom.emit(uint16(len(text)), 8); err != nil {
			return err
		}
		for i := 0; i < len(text); i++ {
			if _, err := ctx.eeprom.emit(uint16(text[i]), 8); err != nil {
				return err
			}
		}
		return nil
	case isIOFormatterKind(e.Kind):
		fmtElem := c.Next()
		if _, err := ctx.eeprom.emit(fmtElem.Value&0xF, 4); err != nil {
			return err
		}
	}
	val, err := ctx.parseConstExpr(c, 0)
	if err != nil {
		return err
	}
	_, err = ctx.eeprom.emit(uint16(val), 16)
	return err
}

// compileOn lowers "ON <expr> GOTO|GOSUB label[, label...]" (§4.6): the selector
// expression is parsed the same constant-only way IF's condition is (its value folded
// at compile time rather than encoded as a runtime branch, consistent with the rest of
// this statement compiler), the branch kind is packed as a single mode bit, and every
// listed label is always deferred through the patch list exactly like a plain
// GOTO/GOSUB target.
func (ctx *Context) compileOn(c *cursor, at int) error {
	if _, err := ctx.parseConstExpr(c, 0); err != nil {
		return err
	}
	e := c.Peek()
	var mode uint16
	if e.Kind != KindInstruction {
		return newErr(codeExpectedInstruction, int(e.Start), int(e.Length))
	}
	switch instructionCode(e.Value) {
	case icGoto:
		mode = 0
	case icGosub:
		mode = 1
	default:
		return newErr(codeExpectedInstruction, int(e.Start), int(e.Length))
	}
	c.Next()
	if _, err := ctx.enterOpWithOperand(icOn, mode, 1); err != nil {
		return err
	}
	count := 0
	for {
		labelElem := c.Next()
		name := ctx.sourceText(labelElem)
		if _, ok := ctx.symbols.Find(name); !ok {
			return newErr(codeUndefinedLabel, int(labelElem.Start), int(labelElem.Length))
		}
		addr, err := ctx.eeprom.emit(0, 16)
		if err != nil {
			return err
		}
		if err := ctx.patches.add(addr, int(labelElem.Start), name); err != nil {
			return err
		}
		count++
		if count > maxOnTargets {
			return newErr(codeTooManyOnTargets, at, 0)
		}
		if c.Peek().Kind != KindComma {
			return nil
		}
		c.Next()
	}
}

// compileSelect opens a SELECT block (§4.6; spec.md §8 scenario 4): the governing
// expression is parsed (and, like IF's condition, folded at compile time rather than
// emitted as runtime bytecode) and the element index it started at is remembered on
// the new frame, then the first live token must be CASE.
func (ctx *Context) compileSelect(c *cursor, at int) error {
	exprStart := c.Index()
	if _, err := ctx.parseConstExpr(c, 0); err != nil {
		return err
	}
	e := c.Peek()
	if e.Kind != KindInstruction || instructionCode(e.Value) != icCase {
		return newErr(codeExpectedCaseAfterSelect, int(e.Start), int(e.Length))
	}
	return ctx.nesting.push(nestingFrame{kind: NestSELECT, openerElement: at, jumpAddr: -1, exprStart: exprStart})
}

// compileCase closes the previous case's conditional branch the same way ELSEIF closes
// an IF branch (patching its false-jump to land here, and recording an unconditional
// skip to the block's end), then opens the next one. "CASE ELSE" must be the last case
// in the block and falls through unconditionally, exactly like IF's ELSE.
func (ctx *Context) compileCase(c *cursor, at int) error {
	frame := ctx.nesting.top()
	if frame == nil || frame.kind != NestSELECT {
		return newErr(codeNotNested, at, 0)
	}
	if frame.elseUsed {
		return newErr(codeCaseElseNotLast, at, 0)
	}
	if frame.jumpAddr >= 0 {
		skipAddr, err := ctx.enterOpWithOperand(icGoto, 0, 16)
		if err != nil {
			return err
		}
		if err := frame.addExit(skipAddr, at); err != nil {
			return err
		}
		if err := ctx.eeprom.patchWord(frame.jumpAddr, uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
		frame.jumpAddr = -1
	}
	if c.Peek().Kind == KindInstruction && instructionCode(c.Peek().Value) == icElse {
		c.Next()
		frame.elseUsed = true
		return nil
	}
	for {
		if _, err := ctx.parseConstExpr(c, 0); err != nil {
			return err
		}
		if c.Peek().Kind == KindTo {
			c.Next()
			if _, err := ctx.parseConstExpr(c, 0); err != nil {
				return err
			}
		}
		if c.Peek().Kind != KindComma {
			break
		}
		c.Next()
	}
	addr, err := ctx.enterOpWithOperand(icCase, 0, 16)
	if err != nil {
		return err
	}
	frame.jumpAddr = addr
	return nil
}

// compileEndSelect closes the block: any still-open case (a conditional CASE whose
// false-jump was never patched because no later CASE/CASE ELSE closed it) gets patched
// here, and every ELSE-chain skip-jump recorded along the way converges here too --
// identical to compileEndIf's closing logic, generalized to SELECT's frame.
func (ctx *Context) compileEndSelect(at int) error {
	frame, ok := ctx.nesting.pop()
	if !ok || frame.kind != NestSELECT {
		return newErr(codeNotNested, at, 0)
	}
	if frame.jumpAddr >= 0 {
		if err := ctx.eeprom.patchWord(frame.jumpAddr, uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
	}
	for i := 0; i < frame.exitN; i++ {
		if err := ctx.eeprom.patchWord(frame.exits[i], uint16(ctx.eeprom.bitPtr), 16); err != nil {
			return err
		}
	}
	return nil
}
