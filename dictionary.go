package shaderforth

// wordKind distinguishes the three shapes a dictionary entry can take.
type wordKind int

const (
	wordBuiltin wordKind = iota
	wordCompiler
	wordUser
)

// compilerFunc implements a compiler built-in (":", ";", "if", "else",
// "then", "\\", "("): it runs at compile time against the compiler's
// current source position and arena rather than emitting a single opcode.
type compilerFunc func(c *compiler) error

// word is a single dictionary entry: either one of the fixed control words,
// an ordinary built-in (by opcode), or a user-defined word (by its own
// arena, later inlined at every call site).
type word struct {
	name       string
	kind       wordKind
	op         opcode
	compilerFn compilerFunc
	code       *arena
}

// dictionary maps word names to entries. Insertion fails outright on a
// duplicate: redefining any existing word, built-in or user, is a
// compile-time error.
type dictionary struct {
	words map[string]*word
}

func newDictionary() *dictionary {
	return &dictionary{words: make(map[string]*word)}
}

func (d *dictionary) lookup(name string) (*word, bool) {
	w, ok := d.words[name]
	return w, ok
}

func (d *dictionary) define(w *word) error {
	if _, exists := d.words[w.name]; exists {
		return &redefinitionError{word: w.name}
	}
	d.words[w.name] = w
	return nil
}

// registerCompilerBuiltins and registerOrdinaryBuiltins populate a fresh
// dictionary with the fixed control words and the arity-declared built-ins
// from builtinRegistry. Private (optimizer-only) opcodes are deliberately
// never registered here, so they can never be looked up from source.
func (d *dictionary) registerCompilerBuiltins() {
	for name, fn := range compilerBuiltins {
		_ = d.define(&word{name: name, kind: wordCompiler, compilerFn: fn})
	}
}

func (d *dictionary) registerOrdinaryBuiltins() {
	for op := opBuiltinBase; op < opFirstPrivate; op++ {
		b := builtinRegistry[op]
		if b.fn == nil {
			continue
		}
		_ = d.define(&word{name: b.name, kind: wordBuiltin, op: op})
	}
}
