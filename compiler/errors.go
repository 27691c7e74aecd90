package compiler

import "fmt"

// Code is a stable numeric diagnostic identifier, formatted "NNN-<message>" per §7.
type Code int

const (
	codeUnknown                 Code = 0
	codeSourceTooLong           Code = 101
	codeUnterminatedString      Code = 102
	codeEmptyString             Code = 103
	codeInvalidBinaryDigit      Code = 104
	codeInvalidHexDigit         Code = 105
	codeInvalidDecimalDigit     Code = 106
	codeNumberOverflow          Code = 107
	codeTooManyDigits           Code = 108
	codeUnknownCCDirective      Code = 109
	codeUnexpectedCharacter     Code = 110
	codeUndefinedLabel          Code = 111
	codeDuplicateLabel          Code = 112
	codeSymbolTableFull         Code = 113
	codeUndefSymbolTableFull    Code = 114
	codeDuplicateSymbol         Code = 115
	codeExpectedEnd             Code = 116
	codeExpectedComma           Code = 117
	codeExpectedLeftParen       Code = 118
	codeExpectedRightParen      Code = 119
	codeExpectedLeftBracket     Code = 120
	codeExpectedRightBracket    Code = 121
	codeExpectedEqual           Code = 122
	codeExpectedTo              Code = 123
	codeDataProgramCollision    Code = 124
	codeExpectedValue           Code = 125
	codeExpressionTooComplex    Code = 126
	codeDivisionByZero          Code = 127
	codeExpectedVariable        Code = 128
	codeExpectedWritableVar     Code = 129
	codeIndexOutOfRange         Code = 130
	codeModifierOutOfRange      Code = 131
	codeVarPoolOverflow         Code = 132
	codeVarShrinkInvalid        Code = 133
	codePinOutOfRange           Code = 134
	codeStampAlreadySet         Code = 135
	codePortAlreadySet          Code = 136
	codePBasicAlreadySet        Code = 137
	codeInvalidPBasicVersion    Code = 138
	codeUnknownTargetModule     Code = 139
	codeTooManyProjectFiles     Code = 140
	codeStampNotSet             Code = 141
	codeCCIfWithoutCCEndIf      Code = 142
	codeCCSelectWithoutCCEndSel Code = 143
	codeCCElseAlreadyUsed       Code = 144
	codeTooManyGosubs           Code = 145
	codeEEPROMOverflow          Code = 146
	codeUnknownInstruction      Code = 147
	codeExitOutsideLoop         Code = 148
	codeConditionAtBothEnds     Code = 149
	codeElseAlreadyUsed         Code = 150
	codeCaseElseNotLast         Code = 151
	codeExpectedCaseAfterSelect Code = 152
	codeForWithoutNext          Code = 153
	codeDoWithoutLoop           Code = 154
	codeSelectWithoutEndSelect  Code = 155
	codeNestingStackFull        Code = 156
	codeNotNested               Code = 157
	codePatchListFull           Code = 158
	codeUndefinedSymbol         Code = 159
	codeExpectedInstruction     Code = 160
	codeLabelRequiresColon      Code = 161
	codeIllegalCCOperator       Code = 162
	codeExpectedPin             Code = 163
	codeOperatorNotAllowedHere  Code = 164
	codeTooManyExits            Code = 165
	codeExpectedOpenParen       Code = 166
	codeTooManyOnTargets        Code = 167
	codeIfWithoutEndif          Code = 168
	codeUserDefined             Code = 199
)

// Diagnostic is the error value produced by every compiler pass. It always fixes a
// (Start, Length) byte range into the source buffer, per §7's propagation policy.
type Diagnostic struct {
	Code    Code
	Message string
	Start   int
	Length  int
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%03d-%s", d.Code, d.Message)
}

var errorTemplates = map[Code]string{
	codeSourceTooLong:           "source exceeds maximum size",
	codeUnterminatedString:      "unterminated string",
	codeEmptyString:             "empty string",
	codeInvalidBinaryDigit:      "expected a binary digit",
	codeInvalidHexDigit:         "expected a hexadecimal digit",
	codeInvalidDecimalDigit:     "expected a decimal digit",
	codeNumberOverflow:          "number does not fit in 16 bits",
	codeTooManyDigits:           "too many digits",
	codeUnknownCCDirective:      "unknown conditional-compile directive",
	codeUnexpectedCharacter:     "unexpected character",
	codeUndefinedLabel:          "undefined label",
	codeDuplicateLabel:          "label already defined",
	codeSymbolTableFull:         "symbol table full",
	codeUndefSymbolTableFull:    "undefined symbol table full",
	codeDuplicateSymbol:         "symbol already defined",
	codeExpectedEnd:             "expected end of statement",
	codeExpectedComma:           "expected a comma",
	codeExpectedLeftParen:       "expected (",
	codeExpectedRightParen:      "expected )",
	codeExpectedLeftBracket:     "expected [",
	codeExpectedRightBracket:    "expected ]",
	codeExpectedEqual:           "expected =",
	codeExpectedTo:              "expected TO",
	codeDataProgramCollision:    "data occupies same location as program",
	codeExpectedValue:           "expected a value",
	codeExpressionTooComplex:    "expression too complex",
	codeDivisionByZero:          "division by zero in constant expression",
	codeExpectedVariable:        "expected a variable",
	codeExpectedWritableVar:     "variable is not writable",
	codeIndexOutOfRange:         "index out of range",
	codeModifierOutOfRange:      "variable modifier out of range",
	codeVarPoolOverflow:         "variable storage exhausted",
	codeVarShrinkInvalid:        "variable alias does not fit within its base variable",
	codePinOutOfRange:           "pin number out of range (0-15)",
	codeStampAlreadySet:         "$STAMP directive already given",
	codePortAlreadySet:          "$PORT directive already given",
	codePBasicAlreadySet:        "$PBASIC directive already given",
	codeInvalidPBasicVersion:    "expected PBASIC version 2.0 or 2.5",
	codeUnknownTargetModule:     "unrecognized target module",
	codeTooManyProjectFiles:     "too many project files on $STAMP directive",
	codeStampNotSet:             "$STAMP directive required",
	codeCCIfWithoutCCEndIf:      "#IF without #ENDIF",
	codeCCSelectWithoutCCEndSel: "#SELECT without #ENDSELECT",
	codeCCElseAlreadyUsed:       "#ELSE already used",
	codeTooManyGosubs:           "too many GOSUBs",
	codeEEPROMOverflow:          "EEPROM capacity exceeded",
	codeUnknownInstruction:      "unrecognized instruction",
	codeExitOutsideLoop:         "EXIT outside of FOR or DO loop",
	codeConditionAtBothEnds:     "DO/LOOP condition not allowed at both ends",
	codeElseAlreadyUsed:         "ELSE already used",
	codeCaseElseNotLast:         "CASE ELSE must be the last case",
	codeExpectedCaseAfterSelect: "expected CASE",
	codeForWithoutNext:          "FOR without NEXT",
	codeDoWithoutLoop:           "DO without LOOP",
	codeSelectWithoutEndSelect:  "SELECT without ENDSELECT",
	codeNestingStackFull:        "code nested too deeply",
	codeNotNested:               "unexpected block terminator",
	codePatchListFull:           "too many forward label references",
	codeUndefinedSymbol:         "undefined symbol",
	codeExpectedInstruction:     "expected an instruction",
	codeLabelRequiresColon:      "label must be followed by :",
	codeIllegalCCOperator:       "operator not allowed in a conditional-compile expression",
	codeExpectedPin:             "expected a pin number",
	codeOperatorNotAllowedHere:  "operator not allowed in this expression",
	codeTooManyExits:            "too many EXIT statements in one loop",
	codeExpectedOpenParen:       "expected (",
	codeTooManyOnTargets:        "too many ON targets",
	codeIfWithoutEndif:          "IF without ENDIF",
}

// newErr builds a Diagnostic for a fixed (start,length) source range.
func newErr(code Code, start, length int) *Diagnostic {
	return &Diagnostic{Code: code, Message: errorTemplates[code], Start: start, Length: length}
}

// newUserErr builds the single "user-defined error" kind emitted by #ERROR, prefixed
// 199- and carrying the caller-assembled message verbatim.
func newUserErr(message string, start, length int) *Diagnostic {
	return &Diagnostic{Code: codeUserDefined, Message: message, Start: start, Length: length}
}
