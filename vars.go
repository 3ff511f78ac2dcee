package shaderforth

// DefaultMemorySize is the slot count a Vars gets when its owning Context
// was not built with WithMemorySize.
const DefaultMemorySize = 16

// Vars holds one evaluation's inputs and outputs: the per-pixel/per-frame
// values a host sets before calling Context.Run, the scratch memory a
// program's "@"/"!" words address, and the residual data-stack contents
// Run leaves behind.
//
// A Vars is not safe for concurrent use, and is meant to be reused across
// many Run calls against the same Context (one per pixel or frame) rather
// than allocated fresh each time.
type Vars struct {
	X, Y   float64
	T, DT  float64
	Memory []float64

	dResidue []float64
	rResidue []float64
}

// NewVars returns a Vars sized for c (its Memory slice has c's configured
// memory size, zero-filled).
func (c *Context) NewVars() *Vars {
	return &Vars{Memory: make([]float64, c.memSize)}
}

// DStackLen reports how many values Run left on the data stack.
func (c *Context) DStackLen(v *Vars) int {
	return len(v.dResidue)
}

// DStackPop pops and returns the top of the residual data stack Run left
// behind. It panics if the stack is empty; callers should check DStackLen
// first.
func (v *Vars) DStackPop() float64 {
	n := len(v.dResidue) - 1
	val := v.dResidue[n]
	v.dResidue = v.dResidue[:n]
	return val
}
