package shaderforth

import "math"

// builtinFunc implements one ordinary or private built-in's runtime effect.
// It never touches the instruction pointer: the executor advances it by
// exactly one slot after calling fn, since no built-in (ordinary or
// private) carries an immediate of its own.
type builtinFunc func(ex *executor)

// builtin is one row of the static registry: name (empty for private,
// optimizer-only opcodes, so they can never be looked up from source), the
// runtime effect, and the declared stack arity the verifier checks against.
type builtin struct {
	name                       string
	fn                         builtinFunc
	dPush, dPop, rPush, rPop   int
}

// builtinRegistry is indexed directly by opcode, so dispatch and static
// verification both resolve a built-in's name and arity in constant time.
var builtinRegistry [numOpcodes]builtin

func init() {
	reg := func(op opcode, name string, dPush, dPop, rPush, rPop int, fn builtinFunc) {
		builtinRegistry[op] = builtin{name: name, fn: fn, dPush: dPush, dPop: dPop, rPush: rPush, rPop: rPop}
	}

	reg(opDup, "dup", 2, 1, 0, 0, func(ex *executor) {
		v := ex.popD()
		ex.pushD(v)
		ex.pushD(v)
	})
	reg(opDupDup, "", 4, 1, 0, 0, func(ex *executor) {
		v := ex.popD()
		ex.pushD(v)
		ex.pushD(v)
		ex.pushD(v)
		ex.pushD(v)
	})
	reg(opOver, "over", 3, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(a)
		ex.pushD(b)
		ex.pushD(a)
	})
	reg(op2Dup, "2dup", 4, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(a)
		ex.pushD(b)
		ex.pushD(a)
		ex.pushD(b)
	})
	reg(opDrop, "drop", 0, 1, 0, 0, func(ex *executor) { ex.popD() })
	reg(opSwap, "swap", 2, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(b)
		ex.pushD(a)
	})
	reg(opRot, "rot", 3, 3, 0, 0, func(ex *executor) {
		c := ex.popD()
		b := ex.popD()
		a := ex.popD()
		ex.pushD(b)
		ex.pushD(c)
		ex.pushD(a)
	})
	reg(opRRot, "-rot", 3, 3, 0, 0, func(ex *executor) {
		c := ex.popD()
		b := ex.popD()
		a := ex.popD()
		ex.pushD(c)
		ex.pushD(a)
		ex.pushD(b)
	})
	reg(opRRotSwap, "", 3, 3, 0, 0, func(ex *executor) {
		v1 := ex.popD()
		v2 := ex.popD()
		v3 := ex.popD()
		ex.pushD(v1)
		ex.pushD(v2)
		ex.pushD(v3)
	})

	reg(opDataPush, "push", 0, 1, 1, 0, func(ex *executor) { ex.pushR(ex.popD()) })
	reg(opDataPop, "pop", 1, 0, 0, 1, func(ex *executor) { ex.pushD(ex.popR()) })
	reg(opToR, ">r", 0, 1, 1, 0, func(ex *executor) { ex.pushR(ex.popD()) })
	reg(opRFrom, "r>", 1, 0, 0, 1, func(ex *executor) { ex.pushD(ex.popR()) })
	reg(opRFetch, "r@", 1, 0, 1, 1, func(ex *executor) {
		v := ex.popR()
		ex.pushR(v)
		ex.pushD(v)
	})

	reg(opFetch, "@", 1, 1, 0, 0, func(ex *executor) {
		slot := int64(ex.popD())
		ex.pushD(ex.vars.Memory[memIndex(slot, len(ex.vars.Memory))])
	})
	reg(opStore, "!", 0, 2, 0, 0, func(ex *executor) {
		v := ex.popD()
		slot := int64(ex.popD())
		ex.vars.Memory[memIndex(slot, len(ex.vars.Memory))] = v
	})

	reg(opEq, "=", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a == b))
	})
	reg(opNe, "<>", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a != b))
	})
	reg(opGt, ">", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a > b))
	})
	reg(opLt, "<", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a < b))
	})
	reg(opGe, ">=", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a >= b))
	})
	reg(opGESwap, "", 2, 3, 0, 0, func(ex *executor) {
		v1 := ex.popD()
		v2 := ex.popD()
		v3 := ex.popD()
		ex.pushD(boolFloat(v2 >= v1))
		ex.pushD(v3)
	})
	reg(opLe, "<=", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a <= b))
	})

	reg(opAdd, "+", 1, 2, 0, 0, func(ex *executor) { ex.pushD(ex.popD() + ex.popD()) })
	reg(opFMA, "", 1, 3, 0, 0, func(ex *executor) {
		m1 := ex.popD()
		m2 := ex.popD()
		a := ex.popD()
		ex.pushD(math.FMA(m1, m2, a))
	})
	reg(opSub, "-", 1, 2, 0, 0, func(ex *executor) {
		v := ex.popD()
		ex.pushD(ex.popD() - v)
	})
	reg(opMul, "*", 1, 2, 0, 0, func(ex *executor) { ex.pushD(ex.popD() * ex.popD()) })
	reg(opMultPi, "", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return v * math.Pi }) })
	reg(opMult2, "", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return v * 2 }) })
	reg(opMultHalfPi, "", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return v * (math.Pi / 2) }) })
	reg(opDiv, "/", 1, 2, 0, 0, func(ex *executor) {
		v := ex.popD()
		if v == 0 {
			ex.popD()
			ex.pushD(math.Inf(1))
			return
		}
		ex.pushD(ex.popD() / v)
	})
	reg(opDiv2, "", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return v / 2 }) })
	reg(opMod, "mod", 1, 2, 0, 0, func(ex *executor) {
		v := ex.popD()
		ex.pushD(math.Mod(ex.popD(), v))
	})
	reg(opPow, "pow", 1, 2, 0, 0, func(ex *executor) {
		v := ex.popD()
		ex.pushD(math.Pow(math.Abs(ex.popD()), v))
	})
	reg(opPowPow, "**", 1, 2, 0, 0, func(ex *executor) {
		v := ex.popD()
		ex.pushD(math.Pow(math.Abs(ex.popD()), v))
	})
	reg(opPow2, "", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return v * v }) })
	reg(opAtan2, "atan2", 1, 2, 0, 0, func(ex *executor) {
		x := ex.popD()
		y := ex.popD()
		ex.pushD(math.Atan2(y, x))
	})
	reg(opNegate, "negate", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return -v }) })
	reg(opMin, "min", 1, 2, 0, 0, func(ex *executor) { ex.pushD(math.Min(ex.popD(), ex.popD())) })
	reg(opMax, "max", 1, 2, 0, 0, func(ex *executor) { ex.pushD(math.Max(ex.popD(), ex.popD())) })
	reg(opAnd, "and", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a != 0 && b != 0))
	})
	reg(opOr, "or", 1, 2, 0, 0, func(ex *executor) {
		b := ex.popD()
		a := ex.popD()
		ex.pushD(boolFloat(a != 0 || b != 0))
	})
	reg(opNot, "not", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return boolFloat(v == 0) }) })

	reg(opZAdd, "z+", 2, 4, 0, 0, func(ex *executor) {
		bi := ex.popD()
		br := ex.popD()
		ai := ex.popD()
		ar := ex.popD()
		ex.pushD(ar + br)
		ex.pushD(ai + bi)
	})
	reg(opZMul, "z*", 2, 4, 0, 0, func(ex *executor) {
		bi := ex.popD()
		br := ex.popD()
		ai := ex.popD()
		ar := ex.popD()
		ex.pushD(ar*br - ai*bi)
		ex.pushD(ar*bi + ai*br)
	})

	reg(opSin, "sin", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Sin) })
	reg(opCos, "cos", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Cos) })
	reg(opTan, "tan", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Tan) })
	reg(opLog, "log", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return math.Log(math.Abs(v)) }) })
	reg(opExp, "exp", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Exp) })
	reg(opSqrt, "sqrt", 1, 1, 0, 0, func(ex *executor) { ex.top(func(v float64) float64 { return math.Sqrt(math.Abs(v)) }) })
	reg(opFloor, "floor", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Floor) })
	reg(opCeil, "ceil", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Ceil) })
	reg(opAbs, "abs", 1, 1, 0, 0, func(ex *executor) { ex.top(math.Abs) })
	reg(opPi, "pi", 1, 0, 0, 0, func(ex *executor) { ex.pushD(math.Pi) })
	reg(opRandom, "random", 1, 0, 0, 0, func(ex *executor) { ex.pushD(ex.rng.Float64()) })

	reg(opVarX, "x", 1, 0, 0, 0, func(ex *executor) { ex.pushD(ex.vars.X) })
	reg(opVarY, "y", 1, 0, 0, 0, func(ex *executor) { ex.pushD(ex.vars.Y) })
	reg(opVarT, "t", 1, 0, 0, 0, func(ex *executor) { ex.pushD(ex.vars.T) })
	reg(opVarDT, "dt", 1, 0, 0, 0, func(ex *executor) { ex.pushD(ex.vars.DT) })
	reg(opMx, "mx", 1, 0, 0, 0, func(ex *executor) { ex.pushD(0) })
	reg(opMy, "my", 1, 0, 0, 0, func(ex *executor) { ex.pushD(0) })
	reg(opButton, "button", 1, 1, 0, 0, func(ex *executor) {
		ex.popD()
		ex.pushD(0)
	})
	reg(opButtons, "buttons", 1, 0, 0, 0, func(ex *executor) { ex.pushD(0) })
	reg(opAudio, "audio", 0, 1, 0, 0, func(ex *executor) { ex.popD() })
	reg(opSample, "sample", 3, 2, 0, 0, func(ex *executor) {
		ex.popD()
		ex.popD()
		ex.pushD(0)
		ex.pushD(0)
		ex.pushD(0)
	})
	reg(opBWSample, "bwsample", 1, 2, 0, 0, func(ex *executor) {
		ex.popD()
		ex.popD()
		ex.pushD(0)
	})
}

// boolFloat renders a Go bool as the 0.0/1.0 the language's truthiness
// convention expects (jump_if treats exactly 0.0 as false).
func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// memIndex reduces a raw slot index into range [0, size) by modulus,
// treating negative slots as wrapping rather than truncating them through
// an unsigned cast.
func memIndex(slot int64, size int) int {
	idx := int(slot % int64(size))
	if idx < 0 {
		idx += size
	}
	return idx
}
