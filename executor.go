package shaderforth

// executor holds one Run call's mutable machine state: instruction
// pointer, both operand stacks, and the Vars being read from and written
// to. Since Go gives no tail-call guarantee, dispatch is an explicit loop
// indexed through opTable rather than recursive handler calls.
type executor struct {
	prog   *arena
	ip     int
	d      []float64
	r      []float64
	vars   *Vars
	rng    randSource
	halted bool
}

func (ex *executor) pushD(v float64) { ex.d = append(ex.d, v) }
func (ex *executor) popD() float64 {
	n := len(ex.d) - 1
	v := ex.d[n]
	ex.d = ex.d[:n]
	return v
}
func (ex *executor) pushR(v float64) { ex.r = append(ex.r, v) }
func (ex *executor) popR() float64 {
	n := len(ex.r) - 1
	v := ex.r[n]
	ex.r = ex.r[:n]
	return v
}

// top replaces the top of the data stack with f applied to it, for the
// in-place single-argument builtins (sin, negate, the private *2/pow2/div2
// reductions, ...).
func (ex *executor) top(f func(float64) float64) {
	n := len(ex.d) - 1
	ex.d[n] = f(ex.d[n])
}

// opTable is the opcode-indexed dispatch table, covering the fixed control
// opcodes as well as every builtinRegistry entry.
var opTable [numOpcodes]func(ex *executor)

func init() {
	opTable[opNumber] = execNumber
	opTable[opJumpIf] = execJumpIf
	opTable[opJump] = execJump
	opTable[opNop] = execNop
	opTable[opHalt] = execHalt
	opTable[opEvalCode] = execEvalCode

	for op := opBuiltinBase; op < numOpcodes; op++ {
		fn := builtinRegistry[op].fn
		if fn == nil {
			continue
		}
		opTable[op] = wrapBuiltin(fn)
	}
}

func wrapBuiltin(fn builtinFunc) func(ex *executor) {
	return func(ex *executor) {
		fn(ex)
		ex.ip++
	}
}

func execNumber(ex *executor) {
	ex.pushD(ex.prog.slots[ex.ip+1].number)
	ex.ip += 2
}

func execJumpIf(ex *executor) {
	cond := ex.popD()
	if cond == 0 {
		ex.ip += ex.prog.slots[ex.ip+1].pc
	} else {
		ex.ip += 2
	}
}

func execJump(ex *executor) {
	ex.ip += ex.prog.slots[ex.ip+1].pc
}

func execNop(ex *executor) {
	ex.ip++
}

func execHalt(ex *executor) {
	ex.vars.dResidue = append(ex.vars.dResidue[:0], ex.d...)
	ex.vars.rResidue = append(ex.vars.rResidue[:0], ex.r...)
	ex.halted = true
}

func execEvalCode(ex *executor) {
	panic(internalError("eval_code instruction reached the executor"))
}

// step runs one instruction.
func (ex *executor) step() {
	op := ex.prog.slots[ex.ip].op
	opTable[op](ex)
}

// run drives the executor to completion (opHalt is always reachable: the
// compiler appends exactly one at the end of the top-level arena, and the
// verifier has already proven every other instruction's stack effect is
// safe, so this loop is total for any arena that passed verify).
func (ex *executor) run() {
	for !ex.halted {
		ex.step()
	}
}
