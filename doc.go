/*
Package shaderforth implements a small, embeddable compiler and execution
engine for a stack-oriented, Forth-like expression language specialized for
per-pixel shader evaluation, compatible with the "Forth Salon" dialect
(https://forthsalon.appspot.com).

A host gives the package a source program as a byte string and, once per
invocation, a set of input variables (pixel coordinates, elapsed time, a
small memory scratchpad). The package parses the source, lowers it to a flat
instruction stream, runs two post-compilation passes over that stream (call
inlining, then a peephole rewriter), verifies the result will not over- or
underflow its stacks, and finally executes it to produce a data-stack
residue the host reads back out.

# Pipeline

	source []byte -> Context.Parse -> dictionary + arenas
	                               -> inline (main arena only)
	                               -> peephole (main arena, up to 2 passes)
	                               -> verify
	main arena     -> Context.Run  -> executes against *Vars, mutating it

Parse may be called once per Context. Run may be called many times
afterward, once per frame/pixel, each time against a fresh or reused *Vars.

# What this is not

This is not a general-purpose Forth: there is no interactive REPL, no I/O
words beyond stubs, no compile-time evaluation of user code, no file
inclusion, and no recursion of user-defined words. Every user word is
inlined into its call site up to a fixed nesting depth; a word that calls
itself (directly or through a cycle) is a compile-time error, not a feature
to support looping. That restriction is deliberate: the workload this
language serves is pure expression evaluation per pixel, and bounded
inlining is what makes the optimizer and verifier both total functions over
the arena.

# Concurrency

A Context is not safe for concurrent parsing, optimization, or execution —
its dictionary and its two operand stacks are mutable scratch space, not
synchronized. Separate Contexts have no shared state and may be
driven from separate goroutines freely; see concurrency_test.go for the
property this package guarantees.
*/
package shaderforth
