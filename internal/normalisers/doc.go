// Package normalisers turns raw corpus files into clean text plus the
// lightweight structure the engine needs (titles, key-value metadata,
// process steps). Full Markdown parsing is deliberately not attempted;
// pattern matching over lines is enough for the corpus conventions.
package normalisers
