package shaderforth

import "math"

// maxPeepholePasses bounds peepholeOptimize to at most two passes over an
// arena: a second pass only runs if the first one changed anything, and a
// third pass never runs regardless of what the second one does.
const maxPeepholePasses = 2

// peepholeOptimize runs the fusion optimizer over main, writing each pass
// into a freshly allocated arena, stopping early if a pass reports no
// change.
func peepholeOptimize(main *arena) (*arena, error) {
	cur := main
	for pass := 0; pass < maxPeepholePasses; pass++ {
		next, changed, err := peepholeOnce(cur)
		if err != nil {
			return nil, err
		}
		cur = next
		if !changed {
			break
		}
	}
	return cur, nil
}

// peepholeOnce performs a single fusion pass over src, returning a fresh
// arena and whether anything changed.
func peepholeOnce(src *arena) (*arena, bool, error) {
	dst := &arena{}
	jr := &jumpRelocator{}
	changed := false
	n := len(src.slots)

	for i := 0; i < n; i++ {
		s := src.slots[i]
		if s.tag != tagHandler {
			return nil, false, internalError("unexpected immediate slot in peephole")
		}
		op := s.op

		switch op {
		case opEvalCode:
			return nil, false, internalError("eval_code survived inlining")
		case opNumber:
			dst.slots = append(dst.slots, s)
			i++
			dst.slots = append(dst.slots, src.slots[i])
			continue
		case opJumpIf:
			dst.slots = append(dst.slots, s)
			i++
			ph := len(dst.slots)
			dst.slots = append(dst.slots, slot{tag: tagPC})
			jr.pushJumpIf(ph)
			continue
		case opJump:
			dst.slots = append(dst.slots, s)
			i++
			ph := len(dst.slots)
			dst.slots = append(dst.slots, slot{tag: tagPC})
			if err := jr.pushJump(dst, ph); err != nil {
				return nil, false, err
			}
			continue
		case opNop:
			idx := len(dst.slots)
			dst.slots = append(dst.slots, s)
			if err := jr.patchNop(dst, idx); err != nil {
				return nil, false, err
			}
			continue
		}

		// Ordinary and private builtins are the only candidates for fusion.
		if len(dst.slots) > 1 && tryPeephole1(dst, op) {
			changed = true
			continue
		}
		if len(dst.slots) > 2 && tryPeepholeN(dst, op) {
			changed = true
			continue
		}
		dst.slots = append(dst.slots, s)
	}
	return dst, changed, nil
}

// tryPeephole1 fuses op with the single already-copied instruction at the
// tail of dst.
func tryPeephole1(dst *arena, op opcode) bool {
	n := len(dst.slots)
	last := dst.slots[n-1]
	if last.tag != tagHandler {
		return false
	}
	fuse := func(newOp opcode) bool {
		dst.slots[n-1].op = newOp
		return true
	}
	switch {
	case op == opAdd && last.op == opMul:
		return fuse(opFMA)
	case op == opMul && last.op == opPi:
		return fuse(opMultPi)
	case op == opDup && last.op == opDup:
		return fuse(opDupDup)
	case op == opSwap && last.op == opRRot:
		return fuse(opRRotSwap)
	case op == opSwap && last.op == opGe:
		return fuse(opGESwap)
	case op == opDiv2 && last.op == opMultPi:
		return fuse(opMultHalfPi)
	}
	return false
}

// isNumberAt reports whether dst.slots[idx:idx+2] is a (number-opcode,
// immediate) pair.
func isNumberAt(dst *arena, idx int) bool {
	return dst.slots[idx].tag == tagHandler && dst.slots[idx].op == opNumber &&
		dst.slots[idx+1].tag == tagNumber
}

// tryPeepholeN fuses op with one or two already-copied number instructions
// at the tail of dst: constant number reductions, and constant folding of two
// adjacent number literals (division by a literal zero folds to positive
// infinity rather than being left for the executor to discover at run time).
func tryPeepholeN(dst *arena, op opcode) bool {
	n := len(dst.slots)

	reduceByTwo := func(newOp opcode) bool {
		dst.slots[n-2].op = newOp
		dst.slots = dst.slots[:n-1]
		return true
	}
	isTwoConst := n >= 2 && isNumberAt(dst, n-2)
	isFourConst := n >= 4 && isNumberAt(dst, n-4) && isNumberAt(dst, n-2)

	switch op {
	case opMul:
		if isTwoConst && dst.slots[n-1].number == 2 {
			return reduceByTwo(opMult2)
		}
		if isFourConst {
			dst.slots[n-3].number *= dst.slots[n-1].number
			dst.slots = dst.slots[:n-2]
			return true
		}
	case opPowPow:
		if isTwoConst && dst.slots[n-1].number == 2 {
			return reduceByTwo(opPow2)
		}
	case opDiv:
		if isTwoConst && dst.slots[n-1].number == 2 {
			return reduceByTwo(opDiv2)
		}
		if isFourConst {
			divisor := dst.slots[n-1].number
			if divisor == 0 {
				dst.slots[n-3].number = math.Inf(1)
			} else {
				dst.slots[n-3].number /= divisor
			}
			dst.slots = dst.slots[:n-2]
			return true
		}
	case opAdd:
		if isFourConst {
			dst.slots[n-3].number += dst.slots[n-1].number
			dst.slots = dst.slots[:n-2]
			return true
		}
	case opSub:
		if isFourConst {
			dst.slots[n-3].number -= dst.slots[n-1].number
			dst.slots = dst.slots[:n-2]
			return true
		}
	case opMult2:
		if isTwoConst {
			dst.slots[n-1].number *= 2
			return true
		}
	}
	return false
}
