// Package evidence turns per-frame captions into the observation timeline the
// matching engine scans.
//
// The Extractor pulls action phrases, UI-element phrases, and text snippets
// out of a frame's natural-language description using fixed keyword
// vocabularies, quoted-substring detection, and Capitalized-phrase detection.
// BuildTimeline filters out frames with no evidentiary signal and merges
// records from multiple sources into a single sequence ordered by ascending
// timestamp. Equal timestamps keep their per-source insertion order.
//
// The builder only filters and orders. It never fabricates timestamps,
// invents phrases, or deduplicates overlapping observations from different
// sources.
package evidence
