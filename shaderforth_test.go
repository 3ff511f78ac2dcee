package shaderforth

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runProgram compiles src and runs it once against the given inputs,
// returning the residual data stack bottom-to-top. On any assertion
// failure in the calling test, it dumps the compiled arena to the test log
// to make the failure easier to diagnose.
func runProgram(t *testing.T, src string, x, y, tt, dt float64, opts ...Option) []float64 {
	t.Helper()
	ctx := New(opts...)
	require.NoError(t, ctx.Parse([]byte(src)))
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("compiled arena for %q:\n%s", src, dump(ctx.main))
		}
	})
	v := ctx.NewVars()
	v.X, v.Y, v.T, v.DT = x, y, tt, dt
	require.NoError(t, ctx.Run(v))
	out := make([]float64, ctx.DStackLen(v))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = v.DStackPop()
	}
	return out
}

type scenario struct {
	name string
	src  string
	x    float64
	want []float64
}

// scenarios mirrors the literal worked examples this dialect's test corpus
// is built around: a user-word-calling if/else program (evaluated at both
// branches), constant folding, and the private-opcode fusions the peephole
// optimizer is responsible for.
var scenarios = []scenario{
	{
		name: "if-else user words, false branch",
		src:  ": nice 60 5 4 + + ; : juanita 400 10 5 5 + + + ; x if nice else juanita then 2 * 4 / 2 *",
		x:    0,
		want: []float64{420},
	},
	{
		name: "if-else user words, true branch",
		src:  ": nice 60 5 4 + + ; : juanita 400 10 5 5 + + + ; x if nice else juanita then 2 * 4 / 2 *",
		x:    1,
		want: []float64{69},
	},
	{
		name: "constant folding across two numbers",
		src:  "5 3 +",
		x:    0,
		want: []float64{8},
	},
	{
		name: "division by zero folds to positive infinity",
		src:  "1 0 /",
		x:    0,
		want: []float64{math.Inf(1)},
	},
	{
		name: "runtime division by zero also yields positive infinity",
		src:  "x 0 /",
		x:    0,
		want: []float64{math.Inf(1)},
	},
	{
		name: "multiplying a literal 2 fuses into a doubling reduction",
		src:  "pi 2 *",
		x:    0,
		want: []float64{2 * math.Pi},
	},
	{
		name: "multiplying immediately after pi fuses through multpi",
		src:  "3 pi *",
		x:    0,
		want: []float64{3 * math.Pi},
	},
	{
		name: "dup dup fuses into a single quadruple",
		src:  "3 dup dup",
		x:    0,
		want: []float64{3, 3, 3, 3},
	},
	{
		name: "if-else with balanced branches, false side",
		src:  "x if 1 else 0 then 2",
		x:    0,
		want: []float64{0, 2},
	},
	{
		name: "if-else with balanced branches, true side",
		src:  "x if 1 else 0 then 2",
		x:    1,
		want: []float64{1, 2},
	},
}

func TestScenarios(t *testing.T) {
	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.name, func(t *testing.T) {
			got := runProgram(t, sc.src, sc.x, 0, 0, 0)
			assert.InDeltaSlice(t, sc.want, got, 1e-9)
		})
	}
}

func TestUserWordInlinedNotCalled(t *testing.T) {
	got := runProgram(t, ": double 2 * ; 21 double", 0, 0, 0, 0)
	assert.Equal(t, []float64{42}, got)
}

func TestNestedIfElseWithTwoUserWords(t *testing.T) {
	src := ": a 1 ; : b 2 ; x if y if a else b then else b then"
	got := runProgram(t, src, 1, 1, 0, 0)
	assert.Equal(t, []float64{1}, got)
	got = runProgram(t, src, 1, 0, 0, 0)
	assert.Equal(t, []float64{2}, got)
	got = runProgram(t, src, 0, 0, 0, 0)
	assert.Equal(t, []float64{2}, got)
}

func TestMemoryStoreFetch(t *testing.T) {
	got := runProgram(t, "0 5 ! 0 @", 0, 0, 0, 0)
	assert.Equal(t, []float64{5}, got)
}

func TestMemoryWrapsModuloSize(t *testing.T) {
	got := runProgram(t, "16 7 ! 0 @", 0, 0, 0, 0, WithMemorySize(16))
	assert.Equal(t, []float64{7}, got)
}

func TestDeterministicRandomWithSeed(t *testing.T) {
	a := runProgram(t, "random", 0, 0, 0, 0, WithSeed(42))
	b := runProgram(t, "random", 0, 0, 0, 0, WithSeed(42))
	assert.Equal(t, a, b)
}

func TestParseOnlyOnce(t *testing.T) {
	ctx := New()
	require.NoError(t, ctx.Parse([]byte("1 2 +")))
	err := ctx.Parse([]byte("3 4 +"))
	assert.ErrorIs(t, err, errAlreadyParsed)
}

func TestRunBeforeParse(t *testing.T) {
	ctx := New()
	err := ctx.Run(ctx.NewVars())
	assert.ErrorIs(t, err, errNotParsed)
}

// Negative tests: each of these must fail to Parse.

func TestUnclosedDefinition(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte(": foo 1 2 +"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnfinishedWord)
}

func TestThenWithoutIf(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte("1 then"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyJumpStack)
}

func TestElseWithoutIf(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte("1 else 2 then"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyJumpStack)
}

func TestSelfRecursiveWordHitsInlineDepthLimit(t *testing.T) {
	ctx := New(WithInlineDepth(8))
	err := ctx.Parse([]byte(": loop loop ; loop"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errRecursionLimit)
}

func TestUndefinedWord(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte("nonesuch"))
	require.Error(t, err)
	var uw *undefinedWordError
	assert.ErrorAs(t, err, &uw)
}

func TestRedefiningBuiltinRejected(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte(": dup 1 ;"))
	require.Error(t, err)
	var re *redefinitionError
	assert.ErrorAs(t, err, &re)
}

func TestRedefiningUserWordRejected(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte(": foo 1 ; : foo 2 ;"))
	require.Error(t, err)
	var re *redefinitionError
	assert.ErrorAs(t, err, &re)
}

func TestNumberCannotNameAWord(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte(": 5 1 ;"))
	require.Error(t, err)
	var ne *numberRedefinitionError
	assert.ErrorAs(t, err, &ne)
}

func TestTokenTooLongRejected(t *testing.T) {
	ctx := New()
	tok := make([]byte, 65)
	for i := range tok {
		tok[i] = 'a'
	}
	err := ctx.Parse(tok)
	require.Error(t, err)
	var te *tokenError
	assert.ErrorAs(t, err, &te)
}

func TestNonPrintableByteRejected(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte{'1', ' ', 0xff, ' ', '+'})
	require.Error(t, err)
	var te *tokenError
	assert.ErrorAs(t, err, &te)
}

func TestUnterminatedParenComment(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte("1 ( unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnclosedComment)
}

func TestUnterminatedLineComment(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte("1 \\ unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnclosedLineComm)
}

func TestStackUnderflowRejectedAtVerify(t *testing.T) {
	ctx := New()
	err := ctx.Parse([]byte("+"))
	require.Error(t, err)
	var se *stackEffectError
	assert.ErrorAs(t, err, &se)
}

func TestStackDepthReachingLimitRejected(t *testing.T) {
	ctx := New()
	src := strings.Repeat("1 ", maxStackDepth)
	err := ctx.Parse([]byte(src))
	require.Error(t, err)
	var se *stackEffectError
	assert.ErrorAs(t, err, &se)
}

func TestStackDepthJustBelowLimitAccepted(t *testing.T) {
	got := runProgram(t, strings.Repeat("1 ", maxStackDepth-1), 0, 0, 0, 0)
	assert.Len(t, got, maxStackDepth-1)
}

func TestBranchesMustAgreeOnDepth(t *testing.T) {
	// true branch leaves an extra value the false branch does not.
	ctx := New()
	err := ctx.Parse([]byte("x if 1 2 else 3 then"))
	require.Error(t, err)
	var se *stackEffectError
	assert.ErrorAs(t, err, &se)
}

func TestCommentsAreSkipped(t *testing.T) {
	got := runProgram(t, "1 \\ line comment\n2 ( paren comment ) +", 0, 0, 0, 0)
	assert.Equal(t, []float64{3}, got)
}
