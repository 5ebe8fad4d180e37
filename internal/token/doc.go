// Package token defines lexical token kinds and trivia for Swift sources.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Whitespace and comments never appear in the main token stream; they are
//     attached as Leading trivia to the next significant token.
//   - The EOF token carries the trailing trivia of the file, so concatenating
//     Leading and Text of every token reproduces the file byte for byte.
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute kinds.
//   - Contextual keywords (mutating, override, get, set, willSet, some, ...)
//     are identifiers. The parser recognises them by text.
//   - '>' is always a single token; the parser joins '>' '>' into a shift.
package token
