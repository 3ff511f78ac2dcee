package shaderforth

import (
	"fmt"
	"strings"
)

// dump renders an arena as one line per instruction, for failure
// diagnostics in tests.
func dump(a *arena) string {
	var sb strings.Builder
	for i := 0; i < len(a.slots); i++ {
		s := a.slots[i]
		fmt.Fprintf(&sb, "%3d: %s", i, s.op)
		switch s.op {
		case opNumber:
			i++
			fmt.Fprintf(&sb, " %g", a.slots[i].number)
		case opJumpIf, opJump:
			i++
			fmt.Fprintf(&sb, " -> %d", i-1+a.slots[i].pc)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
