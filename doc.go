// Package taul is a grammar compiler and LL(1) runtime: it consumes a
// declarative description of lexer production rules (LPRs) and parser
// production rules (PPRs), validates it, computes FIRST/FOLLOW/PREFIX sets,
// builds a deterministic LL(1) parse table, and drives a two-level (lexical
// then syntactic) streaming recognizer that emits a typed parse tree with
// recoverable error handling.
//
// The textual grammar syntax, command-line drivers, and general encoding
// utilities are out of scope here; they're external collaborators. This
// package is the compiler core plus the runtime it produces.
package taul
