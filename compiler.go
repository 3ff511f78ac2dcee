package shaderforth

import (
	"bytes"
	"strconv"
)

const maxJumpDepth = 63

// compiler holds the mutable state of a single Parse call: the source
// being scanned, which word is currently receiving emitted instructions,
// and the compile-time jump stack if/else/then back-patching uses.
type compiler struct {
	ctx *Context
	src []byte
	pos int

	// defining tracks compile target: nil means "':' has been seen but the
	// new word's name has not"; ctx.mainWord means top-level code; any
	// other *word means we're compiling that user word's body.
	defining  *word
	jumpStack []int
}

// compilerBuiltins is the table of words that run at compile time instead
// of emitting an opcode: word definition, comments, and if/else/then.
var compilerBuiltins = map[string]compilerFunc{
	":":    (*compiler).compileColon,
	";":    (*compiler).compileSemi,
	"if":   (*compiler).compileIf,
	"else": (*compiler).compileElse,
	"then": (*compiler).compileThen,
	"\\":   (*compiler).compileBackslash,
	"(":    (*compiler).compileParen,
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isPrint(b byte) bool {
	return b >= 0x20 && b < 0x7f
}

func (c *compiler) arena() *arena { return c.defining.code }

// parse runs the full tokenizer/compile loop over c.src into c.ctx.mainWord.
func (c *compiler) parse() error {
	for {
		c.skipSpace()
		if c.pos >= len(c.src) {
			break
		}
		tok, err := c.nextToken()
		if err != nil {
			return err
		}
		if err := c.handleToken(tok); err != nil {
			return err
		}
	}
	if c.defining != c.ctx.mainWord {
		return errUnfinishedWord
	}
	c.arena().emitOp(opHalt)
	return nil
}

func (c *compiler) skipSpace() {
	for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
		c.pos++
	}
}

// nextToken scans one whitespace-delimited token starting at c.pos,
// erroring on a non-printable, non-whitespace byte or a token that exceeds
// the configured maximum length.
func (c *compiler) nextToken() (string, error) {
	start := c.pos
	for c.pos < len(c.src) {
		b := c.src[c.pos]
		if isSpace(b) {
			break
		}
		if !isPrint(b) {
			return "", &tokenError{kind: "non-printable byte in source", tok: string(b)}
		}
		c.pos++
	}
	tok := string(c.src[start:c.pos])
	if len(tok) > c.ctx.maxToken {
		return "", &tokenError{kind: "word too long", tok: tok}
	}
	return tok, nil
}

// handleToken dispatches one token: number literal, compiler built-in,
// ordinary built-in, user word call, or (only while a ":" name is
// pending) the name of a new user word.
func (c *compiler) handleToken(tok string) error {
	if n, ok := parseNumber(tok); ok {
		if c.defining == nil {
			return &numberRedefinitionError{tok: tok}
		}
		a := c.arena()
		a.emitOp(opNumber)
		a.emitNumber(n)
		return nil
	}

	w, found := c.ctx.dict.lookup(tok)

	if c.defining != nil {
		if !found {
			return &undefinedWordError{word: tok}
		}
		switch w.kind {
		case wordCompiler:
			return w.compilerFn(c)
		case wordBuiltin:
			c.arena().emitOp(w.op)
		case wordUser:
			a := c.arena()
			a.emitOp(opEvalCode)
			a.emitCodeRef(w.code)
		}
		return nil
	}

	// Pending-name state: the token names the word being opened by ':'.
	if found {
		return &redefinitionError{word: tok}
	}
	nw := &word{name: tok, kind: wordUser, code: &arena{}}
	if err := c.ctx.dict.define(nw); err != nil {
		return err
	}
	c.defining = nw
	return nil
}

// parseNumber accepts a token as a number literal only if the whole token
// is consumed, matching strtod's success semantics without its "consumed a
// prefix" ambiguity.
func parseNumber(tok string) (float64, bool) {
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *compiler) compileColon() error {
	if c.defining != c.ctx.mainWord {
		return errAlreadyDefining
	}
	c.defining = nil
	return nil
}

func (c *compiler) compileSemi() error {
	if len(c.jumpStack) != 0 {
		return errEmptyJumpStack
	}
	if c.defining == nil || c.defining == c.ctx.mainWord {
		return errNotDefining
	}
	c.defining = c.ctx.mainWord
	return nil
}

func (c *compiler) compileIf() error {
	if len(c.jumpStack) >= maxJumpDepth {
		return errJumpStackOverflow
	}
	a := c.arena()
	a.emitOp(opJumpIf)
	ph := a.emitPC()
	c.jumpStack = append(c.jumpStack, ph)
	return nil
}

func (c *compiler) compileElse() error { return c.compileElseOrThen(false) }
func (c *compiler) compileThen() error { return c.compileElseOrThen(true) }

// compileElseOrThen implements both "else" and "then", which share the
// same pop-and-patch shape: pop the pending placeholder pushed by the
// matching "if" (or, for a "then" closing an "else", by that "else"),
// then patch it to point at the newly established target.
func (c *compiler) compileElseOrThen(isThen bool) error {
	if len(c.jumpStack) == 0 {
		return errEmptyJumpStack
	}
	prev := c.jumpStack[len(c.jumpStack)-1]
	c.jumpStack = c.jumpStack[:len(c.jumpStack)-1]

	a := c.arena()
	var target int
	if isThen {
		target = a.emitOp(opNop)
	} else {
		a.emitOp(opJump)
		ph := a.emitPC()
		if len(c.jumpStack) >= maxJumpDepth {
			return errJumpStackOverflow
		}
		c.jumpStack = append(c.jumpStack, ph)
		target = ph + 1
	}
	a.patchPC(prev, target)
	return nil
}

func (c *compiler) compileBackslash() error {
	idx := bytes.IndexByte(c.src[c.pos:], '\n')
	if idx < 0 {
		return errUnclosedLineComm
	}
	c.pos += idx + 1
	return nil
}

func (c *compiler) compileParen() error {
	idx := bytes.IndexByte(c.src[c.pos:], ')')
	if idx < 0 {
		return errUnclosedComment
	}
	c.pos += idx + 1
	return nil
}
