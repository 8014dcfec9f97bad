// Package types defines the shared data model of cellar: column metadata,
// rows and the RowSource cursor contract, alias maps, themes, table
// descriptions, indexes, and the backend Config with its standard errors.
//
// Cells are plain Go values as produced by database/sql; see [Row].
package types
