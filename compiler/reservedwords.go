package compiler

// builtinSymbol is one entry of the bulk-loaded common symbol set installed by
// installBuiltinSymbols into every fresh SymbolTable, independent of target module or dialect.
type builtinSymbol struct {
	name  string
	kind  Kind
	value uint16
}

// customSymbol additionally carries a module|dialect admission mask: the symbol is
// installed when mask & (selected module mask | selected dialect mask) != 0, i.e.
// when the selection shares at least one bit with the mask; neither the mask nor the
// selection is required to contain every bit of the other. This mirrors the reference's
// "Targets" bitmask on TCustomSymbolTable.
type customSymbol struct {
	builtinSymbol
	mask int
}

var commonSymbols = func() []builtinSymbol {
	syms := []builtinSymbol{
		{"CON", KindCon, 0},
		{"VAR", KindVar, 0},
		{"PIN", KindPin, 0},
		{"DATA", KindData, 0},
		{"STEP", KindStep, 0},
		{"TO", KindTo, 0},
		{"THEN", KindThen, 0},
		{"WHILE", KindWhile, 0},
		{"UNTIL", KindUntil, 0},

		{"BIT", KindVariableAuto, 1},
		{"NIB", KindVariableAuto, 4},
		{"BYTE", KindVariableAuto, 8},
		{"WORD", KindVariableAuto, 16},

		{"AND", KindCond2Op, uint16(OpAnd)},
		{"OR", KindCond2Op, uint16(OpOr)},
		{"XOR", KindCond2Op, uint16(OpXor)},
		{"NOT", KindCond3Op, uint16(OpNot)},

		{"SQR", KindUnaryOp, uint16(OpSqr)},
		{"ABS", KindUnaryOp, uint16(OpAbs)},
		{"DCD", KindUnaryOp, uint16(OpDcd)},
		{"NCD", KindUnaryOp, uint16(OpNcd)},
		{"COS", KindUnaryOp, uint16(OpCos)},
		{"SIN", KindUnaryOp, uint16(OpSin)},

		{"HYP", KindBinaryOp, uint16(OpHyp)},
		{"ATN", KindBinaryOp, uint16(OpAtn)},
		{"MIN", KindBinaryOp, uint16(OpMin)},
		{"MAX", KindBinaryOp, uint16(OpMax)},
		{"DIG", KindBinaryOp, uint16(OpDig)},
		{"REV", KindBinaryOp, uint16(OpRev)},

		{"ASC", KindASCIIIO, 0},
		{"REP", KindRepeatIO, 0},
		{"SKIP", KindSkipIO, 0},
		{"STR", KindStringIO, 0},
		{"WAIT", KindWaitIO, 0},
		{"WAITSTR", KindWaitStringIO, 0},
		{"DEC", KindNumberIO, 0},
		{"HEX", KindNumberIO, 1},
		{"BIN", KindNumberIO, 2},
		{"IDEC", KindNumberIO, 3},
		{"IHEX", KindNumberIO, 4},
		{"IBIN", KindNumberIO, 5},
		{"SDEC", KindNumberIO, 6},
		{"SHEX", KindNumberIO, 7},
		{"SBIN", KindNumberIO, 8},

		{"CR", KindConstant, 13},
		{"CLS", KindConstant, 12},

		{"$STAMP", KindDirective, uint16(dirStamp)},
		{"$PORT", KindDirective, uint16(dirPort)},
		{"$PBASIC", KindDirective, uint16(dirPBasic)},

		{"BS1", KindTargetModule, uint16(ModuleBS1)},
		{"BS2", KindTargetModule, uint16(ModuleBS2)},
		{"BS2E", KindTargetModule, uint16(ModuleBS2e)},
		{"BS2SX", KindTargetModule, uint16(ModuleBS2sx)},
		{"BS2P", KindTargetModule, uint16(ModuleBS2p)},
		{"BS2PE", KindTargetModule, uint16(ModuleBS2pe)},

		{"#IF", KindCCDirective, uint16(ccIf)},
		{"#ELSE", KindCCDirective, uint16(ccElse)},
		{"#ENDIF", KindCCDirective, uint16(ccEndIf)},
		{"#DEFINE", KindCCDirective, uint16(ccDefine)},
		{"#ERROR", KindCCDirective, uint16(ccError)},
		{"#SELECT", KindCCDirective, uint16(ccSelect)},
		{"#CASE", KindCCDirective, uint16(ccCase)},
		{"#ENDSELECT", KindCCDirective, uint16(ccEndSelect)},
		{"#THEN", KindCCThen, 0},
	}

	for name, code := range instructionTable {
		syms = append(syms, builtinSymbol{name, KindInstruction, uint16(code)})
	}
	for pin := 0; pin <= 15; pin++ {
		syms = append(syms, builtinSymbol{"IN" + itoa(pin), KindVariable, uint16(pin)})
		syms = append(syms, builtinSymbol{"OUT" + itoa(pin), KindVariable, uint16(pin)})
		syms = append(syms, builtinSymbol{"DIR" + itoa(pin), KindVariable, uint16(pin)})
	}
	for _, reg := range []string{"INA", "INB", "INC", "IND", "OUTA", "OUTB", "OUTC", "OUTD", "DIRA", "DIRB", "DIRC", "DIRD"} {
		syms = append(syms, builtinSymbol{reg, KindVariable, 0})
	}
	for _, modName := range []string{"LOWBYTE", "HIGHBYTE", "LOWNIB", "HIGHNIB"} {
		syms = append(syms, builtinSymbol{modName, KindVariableMod, 0})
	}
	for bitIdx := 0; bitIdx < 16; bitIdx++ {
		syms = append(syms, builtinSymbol{"BIT" + itoa(bitIdx), KindVariableMod, uint16(bitIdx)})
	}
	for nibIdx := 0; nibIdx < 4; nibIdx++ {
		syms = append(syms, builtinSymbol{"NIB" + itoa(nibIdx), KindVariableMod, uint16(nibIdx)})
	}
	return syms
}()

// customSymbols are admitted only for the module/dialect combinations their mask
// requires, installed by a second pass (installCustomSymbols) once the directives are known.
var customSymbols = []customSymbol{
	{builtinSymbol{"SPSTR", KindSpStringIO, 0}, ModuleBS2p.mask() | ModuleBS2pe.mask()},
	{builtinSymbol{"EXIT", KindInstruction, uint16(icExit)}, Dialect25.mask()},
}

// itoa is a tiny dependency-free integer formatter used only while building the
// builtin symbol tables above (avoids importing strconv purely for small positive
// integers known at init time).
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// resWordTypeID collapses related element kinds into the editor-facing category used
// by GetReservedWords (§6.2): IO formatters all report as AnyNumberIO, all three
// conditional-operator tiers report as Cond1Op, etc.
func resWordTypeID(k Kind) string {
	switch k {
	case KindASCIIIO, KindNumberIO, KindRepeatIO, KindSkipIO, KindSpStringIO, KindStringIO, KindWaitIO, KindWaitStringIO:
		return "AnyNumberIO"
	case KindCond1Op, KindCond2Op, KindCond3Op:
		return "Cond1Op"
	case KindVariableAuto:
		return "VariableType"
	case KindPin, KindVar:
		return "Declaration"
	case KindData, KindStep, KindTo, KindThen, KindWhile, KindUntil:
		return "Instruction"
	case KindCCThen:
		return "CCDirective"
	case KindQuestion:
		return "QuestionMark"
	case KindAt:
		return "AtSign"
	case KindLeft:
		return "Parentheses"
	case KindLeftBracket:
		return "Brackets"
	default:
		return kindName(k)
	}
}

func kindName(k Kind) string {
	names := map[Kind]string{
		KindDirective:    "Directive",
		KindTargetModule: "TargetModule",
		KindCCDirective:  "CCDirective",
		KindInstruction:  "Instruction",
		KindCon:          "Con",
		KindVariable:     "Variable",
		KindVariableMod:  "VariableMod",
		KindBinaryOp:     "BinaryOp",
		KindUnaryOp:      "UnaryOp",
		KindConstant:     "Constant",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "Unknown"
}

// GetReservedWords populates dst with "name\0 type_id" pairs terminated by an extra
// NUL, matching §6.2. It returns the number of bytes written. version must be exactly
// 200 or 250.
func GetReservedWords(module Module, version Dialect, dst []byte) (int, error) {
	if version != Dialect20 && version != Dialect25 {
		return 0, newErr(codeInvalidPBasicVersion, 0, 0)
	}
	n := 0
	write := func(name, typeID string) {
		n += copy(dst[n:], name)
		dst[n] = 0
		n++
		n += copy(dst[n:], typeID)
		dst[n] = 0
		n++
	}
	gated := make(map[string]bool, len(customSymbols))
	for _, s := range customSymbols {
		gated[s.name] = true
	}
	for _, s := range commonSymbols {
		if gated[s.name] {
			continue
		}
		write(s.name, resWordTypeID(s.kind))
	}
	selection := module.mask() | version.mask()
	for _, s := range customSymbols {
		if s.mask&selection == 0 {
			continue
		}
		write(s.name, resWordTypeID(s.kind))
	}
	dst[n] = 0
	n++
	return n, nil
}
