package shaderforth

// inlineCalls expands every eval_code instruction in main, recursively,
// into a single flat arena with no eval_code instructions left in it. A
// user word that calls itself never terminates this expansion, so depth is
// a hard nesting limit: hitting it is a compile-time error, not a runtime
// one, which is how self-recursive word definitions are rejected. (Mutual
// recursion cannot reach this point: a word may only refer to itself or to
// words defined before it, so a forward reference already fails to compile
// as an undefined word.)
func inlineCalls(main *arena, depthLimit int) (*arena, error) {
	dst := &arena{}
	jr := &jumpRelocator{}
	if err := inlineInto(dst, main, depthLimit, jr); err != nil {
		return nil, err
	}
	return dst, nil
}

func inlineInto(dst *arena, src *arena, depth int, jr *jumpRelocator) error {
	if depth <= 0 {
		return errRecursionLimit
	}
	n := len(src.slots)
	for i := 0; i < n; i++ {
		s := src.slots[i]
		if s.tag != tagHandler {
			return internalError("unexpected immediate slot while inlining")
		}
		switch s.op {
		case opEvalCode:
			i++
			ref := src.slots[i].coderef
			if err := inlineInto(dst, ref, depth-1, jr); err != nil {
				return err
			}
		case opNumber:
			dst.slots = append(dst.slots, s)
			i++
			dst.slots = append(dst.slots, src.slots[i])
		case opJumpIf:
			dst.slots = append(dst.slots, s)
			i++
			ph := len(dst.slots)
			dst.slots = append(dst.slots, slot{tag: tagPC})
			jr.pushJumpIf(ph)
		case opJump:
			dst.slots = append(dst.slots, s)
			i++
			ph := len(dst.slots)
			dst.slots = append(dst.slots, slot{tag: tagPC})
			if err := jr.pushJump(dst, ph); err != nil {
				return err
			}
		case opNop:
			idx := len(dst.slots)
			dst.slots = append(dst.slots, s)
			if err := jr.patchNop(dst, idx); err != nil {
				return err
			}
		default:
			dst.slots = append(dst.slots, s)
		}
	}
	return nil
}
