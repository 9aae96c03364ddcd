// Package textutil provides the lexical primitives shared by evidence
// extraction and step matching.
//
// The primary use cases are:
//   - Tokenizing free text into lowercase terms
//   - Detecting quoted substrings and Capitalized label phrases
//   - Classifying tokens against the fixed action-verb and UI-noun
//     vocabularies
//
// Tokenization lowercases text, splits on whitespace, and strips leading and
// trailing punctuation from each term. No stemming or fuzzy matching happens
// here; everything downstream relies on exact token identity so results stay
// explainable.
package textutil
