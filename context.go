package shaderforth

import "github.com/forthsalon/shaderforth/internal/panicerr"

// Context owns one compiled program: its dictionary, its two operand
// stacks, and the configuration Option values fixed at construction. A
// Context is meant to be built once, parsed once, and run many times, one
// Run call per pixel or frame; see doc.go for the full pipeline and the
// concurrency model.
type Context struct {
	dict     *dictionary
	mainWord *word
	main     *arena

	memSize     int
	inlineDepth int
	maxToken    int

	logf   func(format string, args ...interface{})
	seed   uint64
	seeded bool
	rng    randSource

	dBuf [maxStackDepth]float64
	rBuf [maxStackDepth]float64

	parsed bool
}

// New builds a Context, ready for exactly one Parse call.
func New(opts ...Option) *Context {
	c := &Context{
		memSize:     DefaultMemorySize,
		inlineDepth: 100,
		maxToken:    64,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	c.rng = newRandSource(c.seed, c.seeded)

	c.dict = newDictionary()
	c.dict.registerCompilerBuiltins()
	c.dict.registerOrdinaryBuiltins()
	// " " names the top-level program's implicit word, a token the
	// tokenizer can never itself produce; it is deliberately left out of
	// the dictionary rather than registered under a reserved name.
	c.mainWord = &word{name: " ", kind: wordUser, code: &arena{}}
	return c
}

// Parse compiles src (tokenize, inline, peephole-optimize, verify) into
// this Context's program. It may be called at most once per Context.
func (c *Context) Parse(src []byte) error {
	if c.parsed {
		return errAlreadyParsed
	}
	return panicerr.Recover("shaderforth.Parse", func() error {
		comp := &compiler{ctx: c, src: src, defining: c.mainWord}
		if err := comp.parse(); err != nil {
			return err
		}

		inlined, err := inlineCalls(c.mainWord.code, c.inlineDepth)
		if err != nil {
			return err
		}

		optimized, err := peepholeOptimize(inlined)
		if err != nil {
			return err
		}

		if err := verify(optimized); err != nil {
			return err
		}

		c.main = optimized
		c.parsed = true
		if c.logf != nil {
			c.logf("shaderforth: parsed %d source bytes into %d instructions", len(src), c.main.len())
		}
		return nil
	})
}

// Run executes this Context's compiled program once against v, leaving its
// data-stack residue in v for the caller to read with DStackLen/DStackPop.
// Run may be called any number of times, but not concurrently, and not
// concurrently with another Run or Parse call sharing the same Context.
func (c *Context) Run(v *Vars) error {
	if !c.parsed {
		return errNotParsed
	}
	return panicerr.Recover("shaderforth.Run", func() error {
		ex := &executor{
			prog: c.main,
			d:    c.dBuf[:0],
			r:    c.rBuf[:0],
			vars: v,
			rng:  c.rng,
		}
		ex.run()
		return nil
	})
}
