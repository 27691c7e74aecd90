package compiler

// instructionCode is the logical (module-independent) instruction identifier. The
// statement compiler dispatches on this; the byte actually written to EEPROM for each
// one is looked up per target module in opcodeTable (§4.6, design note on per-module
// opcode tables).
type instructionCode int

const (
	icEnd instructionCode = iota
	icLet
	icGoto
	icGosub
	icReturn
	icOn
	icHigh
	icLow
	icToggle
	icInput
	icOutput
	icReverse
	icPause
	icDebug
	icSerin
	icSerout
	icRead
	icWrite
	icLookup
	icLookdown
	icPulsout
	icPulsin
	icIf
	icElseIf
	icElse
	icEndIf
	icFor
	icNext
	icDo
	icLoop
	icExit
	icSelect
	icCase
	icEndSelect
)

// instructionTable maps every reserved instruction keyword to its logical code. It is
// consulted by reservedwords.go (bulk symbol loading); the statement compiler
// dispatches on the logical code each lexed instruction element carries.
var instructionTable = map[string]instructionCode{
	"END":       icEnd,
	"GOTO":      icGoto,
	"GOSUB":     icGosub,
	"RETURN":    icReturn,
	"ON":        icOn,
	"HIGH":      icHigh,
	"LOW":       icLow,
	"TOGGLE":    icToggle,
	"INPUT":     icInput,
	"OUTPUT":    icOutput,
	"REVERSE":   icReverse,
	"PAUSE":     icPause,
	"DEBUG":     icDebug,
	"SERIN":     icSerin,
	"SEROUT":    icSerout,
	"READ":      icRead,
	"WRITE":     icWrite,
	"LOOKUP":    icLookup,
	"LOOKDOWN":  icLookdown,
	"PULSOUT":   icPulsout,
	"PULSIN":    icPulsin,
	"IF":        icIf,
	"ELSEIF":    icElseIf,
	"ELSE":      icElse,
	"ENDIF":     icEndIf,
	"FOR":       icFor,
	"NEXT":      icNext,
	"DO":        icDo,
	"LOOP":      icLoop,
	"EXIT":      icExit,
	"SELECT":    icSelect,
	"CASE":      icCase,
	"ENDSELECT": icEndSelect,
}

// opcodeTable gives the 7-bit firmware opcode written by enter0Code and
// enterOpWithOperand for a given
// logical instruction on a given target module. Modules share most of the low
// opcode space; a handful diverge (illustrative of real per-module renumbering in the
// reference firmware) to exercise the "data-driven, not hard-coded" design note.
var opcodeTable = map[instructionCode][numModules]byte{
	icEnd:     {0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	icGoto:    {0, 0x09, 0x09, 0x09, 0x09, 0x09, 0x09},
	icGosub:   {0, 0x0A, 0x0A, 0x0A, 0x0A, 0x0B, 0x0B},
	icReturn:  {0, 0x0B, 0x0B, 0x0B, 0x0B, 0x0C, 0x0C},
	icOn:      {0, 0x0F, 0x0F, 0x0F, 0x0F, 0x10, 0x10},
	icHigh:    {0, 0x05, 0x05, 0x05, 0x05, 0x05, 0x05},
	icLow:     {0, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07},
	icToggle:  {0, 0x06, 0x06, 0x06, 0x06, 0x06, 0x06},
	icInput:   {0, 0x0C, 0x0C, 0x0C, 0x0C, 0x0D, 0x0D},
	icOutput:  {0, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04},
	icReverse: {0, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08},
	icPause:   {0, 0x15, 0x15, 0x15, 0x15, 0x16, 0x16},
	icIf:      {0, 0x0D, 0x0D, 0x0D, 0x0D, 0x0E, 0x0E},
	icRead:    {0, 0x13, 0x13, 0x13, 0x13, 0x14, 0x14},
	icWrite:   {0, 0x14, 0x14, 0x14, 0x14, 0x15, 0x15},
	icLookup:  {0, 0x10, 0x10, 0x10, 0x10, 0x11, 0x11},
	icLookdown: {0, 0x11, 0x11, 0x11, 0x11, 0x12, 0x12},
	icPulsout: {0, 0x26, 0x26, 0x26, 0x26, 0x27, 0x27},
	icPulsin:  {0, 0x25, 0x25, 0x25, 0x25, 0x26, 0x26},
	icDebug:   {0, 0x20, 0x20, 0x20, 0x20, 0x21, 0x21},
	icSerin:   {0, 0x22, 0x22, 0x22, 0x22, 0x23, 0x23},
	icSerout:  {0, 0x21, 0x21, 0x21, 0x21, 0x22, 0x22},
	icSelect:  {0, 0x17, 0x17, 0x17, 0x17, 0x18, 0x18},
	icCase:    {0, 0x19, 0x19, 0x19, 0x19, 0x1A, 0x1A},
	icEndSelect: {0, 0x1B, 0x1B, 0x1B, 0x1B, 0x1C, 0x1C},
}

// opcodeFor returns the firmware opcode byte for (op, module), failing for
// combinations the table does not define (no such instruction on this module).
func opcodeFor(op instructionCode, module Module) (byte, bool) {
	row, ok := opcodeTable[op]
	if !ok {
		return 0, false
	}
	if module == ModuleNone || int(module) >= len(row) {
		return 0, false
	}
	b := row[module]
	return b, true
}
