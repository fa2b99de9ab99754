// Package catalog owns the books known to the library and answers title, author and genre lookups.
//
// Lookups return copies; the only way to change a catalog entry is SetAvailability.
// Comparisons are case-insensitive via Unicode case folding, so Cyrillic and Latin titles
// behave the same. The catalog is not safe for concurrent use.
package catalog
