package compiler

// varAllocator tracks the BASIC Stamp's shared variable RAM pool, handed out to VAR
// declarations as consecutive bit ranges in declaration order (§4.4 step declarations,
// "VAR pool allocation"). No byte/nibble alignment is applied and declarations are not
// reordered by size.
type varAllocator struct {
	nextBit  int
	poolBits int
}

func newVarAllocator(poolBits int) *varAllocator {
	return &varAllocator{poolBits: poolBits}
}

func (a *varAllocator) alloc(bits int, at int) (int, error) {
	if a.nextBit+bits > a.poolBits {
		return 0, newErr(codeVarPoolOverflow, at, 0)
	}
	addr := a.nextBit
	a.nextBit += bits
	return addr, nil
}

// resolveDeclarations runs the multi-pass declaration pass (§4.4): PIN, then CON
// (constants may reference earlier CONs), then DATA (writes literal bytes straight
// into the EEPROM image), then VAR (allocates from the shared variable pool), then
// the GOSUB count (reserves the program's entry and return-address bits), and
// finally labels (colon-terminated bare identifiers), matching the fixed pass order
// the reference tokenizer uses so forward references between declaration kinds are
// tolerated without a full symbol-table fixpoint loop.
func (ctx *Context) resolveDeclarations() error {
	passes := []func() error{
		ctx.declarePins,
		ctx.declareConstants,
		ctx.declareData,
		ctx.declareVariables,
		ctx.countGosubs,
		ctx.declareLabels,
	}
	for _, pass := range passes {
		if err := pass(); err != nil {
			return err
		}
	}
	return nil
}

// declarePins resolves "Name PIN <0-15>" declarations (no "=" -- matches the
// reference grammar, which places the keyword between name and value for every
// declaration kind).
func (ctx *Context) declarePins() error {
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		nameIdx := c.Index()
		nameElem := c.Peek()
		if nameElem.Kind != KindUndef || c.PeekAhead(1).Kind != KindPin {
			c.Next()
			continue
		}
		c.Next() // name
		c.Next() // PIN
		name := ctx.sourceText(nameElem)
		pinElem := c.Next()
		if pinElem.Kind != KindConstant {
			return newErr(codeExpectedPin, int(pinElem.Start), int(pinElem.Length))
		}
		if pinElem.Value > 15 {
			return newErr(codePinOutOfRange, int(pinElem.Start), int(pinElem.Length))
		}
		if _, ok := ctx.symbols.Find(name); ok {
			return newErr(codeDuplicateSymbol, int(nameElem.Start), int(nameElem.Length))
		}
		if err := ctx.symbols.Insert(name, KindPinNumber, pinElem.Value); err != nil {
			return err
		}
		_ = nameIdx
	}
	return nil
}

// declareConstants resolves "Name CON <constExpr>" declarations.
func (ctx *Context) declareConstants() error {
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		nameIdx := c.Index()
		nameElem := c.Peek()
		if nameElem.Kind != KindUndef || c.PeekAhead(1).Kind != KindCon {
			c.Next()
			continue
		}
		c.Next() // name
		c.Next() // CON
		name := ctx.sourceText(nameElem)
		val, err := ctx.parseConstExpr(c, 0)
		if err != nil {
			return err
		}
		if _, ok := ctx.symbols.Find(name); ok {
			return newErr(codeDuplicateSymbol, int(nameElem.Start), int(nameElem.Length))
		}
		if err := ctx.symbols.Insert(name, KindCon, uint16(val)); err != nil {
			return err
		}
		ctx.elements.SetKind(nameIdx, KindCon)
	}
	return nil
}

// declareData resolves "[Name DATA] <byte>[,<byte>...]" declarations, writing each
// byte directly into the EEPROM image at sequential addresses starting from 0 and
// advancing across every DATA statement in source order; an optional leading label
// names the block's start address for later LOOKUP/LOOKDOWN/READ/WRITE indexing.
func (ctx *Context) declareData() error {
	c := newCursor(ctx.elements)
	addr := 0
	for !c.atEnd() {
		nameIdx := c.Index()
		nameElem := c.Peek()
		labeled := nameElem.Kind == KindUndef && c.PeekAhead(1).Kind == KindData
		if !labeled && nameElem.Kind != KindData {
			c.Next()
			continue
		}
		if labeled {
			c.Next() // name
			name := ctx.sourceText(nameElem)
			if _, ok := ctx.symbols.Find(name); ok {
				return newErr(codeDuplicateSymbol, int(nameElem.Start), int(nameElem.Length))
			}
			if err := ctx.symbols.Insert(name, KindAddress, uint16(addr)); err != nil {
				return err
			}
		}
		c.Next() // DATA
		_ = nameIdx

		for {
			val, err := ctx.parseConstExpr(c, 0)
			if err != nil {
				return err
			}
			if err := ctx.eeprom.writeData(addr, byte(val)); err != nil {
				return err
			}
			addr++
			if c.Peek().Kind != KindComma {
				break
			}
			c.Next()
		}
	}
	return nil
}

// declareVariables resolves "Name VAR [Bit|Nib|Byte|Word]" declarations (defaulting to
// Byte), allocating from the shared variable-RAM pool in declaration order.
func (ctx *Context) declareVariables() error {
	alloc := newVarAllocator(14 * 8) // 14 bytes of general-purpose variable RAM, per-module tables scale this in a full firmware
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		nameIdx := c.Index()
		nameElem := c.Peek()
		if nameElem.Kind != KindUndef || c.PeekAhead(1).Kind != KindVar {
			c.Next()
			continue
		}
		c.Next() // name
		c.Next() // VAR
		name := ctx.sourceText(nameElem)
		bits := 8
		if c.Peek().Kind == KindVariableAuto {
			bits = int(c.Peek().Value)
			c.Next()
		}
		addr, err := alloc.alloc(bits, int(nameElem.Start))
		if err != nil {
			return err
		}
		if _, ok := ctx.symbols.Find(name); ok {
			return newErr(codeDuplicateSymbol, int(nameElem.Start), int(nameElem.Length))
		}
		if err := ctx.symbols.Insert(name, KindVariable, uint16(addr)); err != nil {
			return err
		}
		ctx.elements.SetKind(nameIdx, KindVariable)
	}
	return nil
}

// countGosubs scans the whole source for GOSUB occurrences (§4.4 step 7) and reserves
// the program's entry point plus one 14-bit return-address slot per GOSUB at the base
// of the program's bit-address space before the statement compiler emits its first
// opcode, rejecting sources with more than 255 GOSUBs the way the reference firmware's
// fixed-width GOSUB return stack does.
func (ctx *Context) countGosubs() error {
	c := newCursor(ctx.elements)
	count := 0
	for !c.atEnd() {
		e := c.Next()
		if e.Kind != KindInstruction || instructionCode(e.Value) != icGosub {
			continue
		}
		count++
		if count > 255 {
			return newErr(codeTooManyGosubs, int(e.Start), int(e.Length))
		}
	}
	_, err := ctx.eeprom.reserve(14 * (count + 1))
	return err
}

// declareLabels scans for "IDENT :" sequences not already claimed by PIN/CON/DATA/VAR
// and installs them with a placeholder address; the statement compiler fixes up the
// real value once it reaches that point in the program stream.
func (ctx *Context) declareLabels() error {
	c := newCursor(ctx.elements)
	for !c.atEnd() {
		idx := c.Index()
		e := c.Next()
		if e.Kind != KindUndef {
			continue
		}
		if c.Peek().Kind != KindColon {
			continue
		}
		c.Next()
		name := ctx.sourceText(e)
		if _, ok := ctx.symbols.Find(name); ok {
			return newErr(codeDuplicateLabel, int(e.Start), int(e.Length))
		}
		if err := ctx.symbols.Insert(name, KindAddress, 0); err != nil {
			return err
		}
		ctx.elements.SetKind(idx, KindAddress)
	}
	return nil
}
