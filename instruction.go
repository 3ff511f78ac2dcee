package shaderforth

// slotTag distinguishes what a slot in an arena is carrying. Most slots are
// opcodes (tagHandler); four opcodes (number, jump_if, jump, eval_code) are
// followed by one immediate slot carrying the payload the handler needs.
type slotTag uint8

const (
	tagHandler slotTag = iota
	tagNumber
	tagPC
	tagCodeRef
)

// slot is one element of an arena: either an opcode, or the immediate that
// follows one.
type slot struct {
	tag     slotTag
	op      opcode
	number  float64
	pc      int
	coderef *arena
}

// arena is a flat instruction stream, built by appending (the peephole
// optimizer also rewrites and truncates the tail of the arena it is
// building, and patchPC fills in jump immediates). Every word (the
// program's top-level "main" word, and every user-defined word) compiles
// into its own arena; jump offsets are always relative to the opcode slot
// that carries them, so an arena can be copied, relocated, or spliced into
// another by adjusting only the slots whose tag is tagPC.
type arena struct {
	slots []slot
}

func (a *arena) len() int { return len(a.slots) }

func (a *arena) emitOp(op opcode) int {
	idx := len(a.slots)
	a.slots = append(a.slots, slot{tag: tagHandler, op: op})
	return idx
}

func (a *arena) emitNumber(n float64) {
	a.slots = append(a.slots, slot{tag: tagNumber, number: n})
}

// emitPC appends a placeholder jump-target immediate (patched later via
// patchPC) and returns its index.
func (a *arena) emitPC() int {
	idx := len(a.slots)
	a.slots = append(a.slots, slot{tag: tagPC})
	return idx
}

func (a *arena) emitCodeRef(ref *arena) {
	a.slots = append(a.slots, slot{tag: tagCodeRef, coderef: ref})
}

// patchPC sets the jump immediate at placeholderIdx to reach targetIdx,
// storing the offset relative to the opcode slot that owns the immediate
// (placeholderIdx-1), per the instruction layout convention.
func (a *arena) patchPC(placeholderIdx, targetIdx int) {
	opIdx := placeholderIdx - 1
	a.slots[placeholderIdx].pc = targetIdx - opIdx
}
