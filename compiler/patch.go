package compiler

// patchEntry pairs a pending forward reference's EEPROM bit-address (where a label's
// resolved address must be written once known) with the source byte offset of the
// label name, kept for error reporting if the label never resolves.
type patchEntry struct {
	bitAddr       int
	labelElement  int
	labelName     string
}

// patchList accumulates forward references (GOTO/GOSUB/IF branch targets/ON targets to
// labels not yet defined) during the statement compile pass and drains them once every
// label's address is known, matching the reference's two-pass label resolution without
// a second full source scan: the statement compiler always knows a label's final
// address by the time compilation finishes because labels are pure markers with no
// operands of their own.
type patchList struct {
	entries []patchEntry
}

func newPatchList() *patchList {
	return &patchList{entries: make([]patchEntry, 0, patchListSize)}
}

func (p *patchList) reset() { p.entries = p.entries[:0] }

func (p *patchList) add(bitAddr int, labelElement int, labelName string) error {
	if len(p.entries) >= patchListSize {
		return newErr(codePatchListFull, labelElement, 0)
	}
	p.entries = append(p.entries, patchEntry{bitAddr: bitAddr, labelElement: labelElement, labelName: labelName})
	return nil
}

// drain resolves every pending patch against the label symbol table, writing each
// target address into its recorded bit position via the supplied write function.
func (p *patchList) drain(labels *SymbolTable, writeAddr func(bitAddr int, value uint16) error) error {
	for _, e := range p.entries {
		sym, ok := labels.Find(e.labelName)
		if !ok {
			return newErr(codeUndefinedLabel, e.labelElement, 0)
		}
		if err := writeAddr(e.bitAddr, sym.Value); err != nil {
			return err
		}
	}
	return nil
}
