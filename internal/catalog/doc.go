// Package catalog holds the course records and the storage they live in.
//
// The package has no I/O and no UI dependencies. Loading records from files
// or databases lives in package source; session state and output formatting
// live in package advisor.
//
// # Table
//
// [Table] is a hash table with separate chaining. The bucket count is fixed
// at construction and never resized:
//
//	t := catalog.NewTable(catalog.DefaultCapacity)
//	t.Insert(catalog.Course{ID: "CS200", Title: "Data Structures", Prerequisites: []string{"CS100"}})
//	c, ok := t.Find("CS200")
//
// Inserting an id that is already stored replaces the stored record. Every
// read ([Table.Find], [Table.All]) hands out copies, so callers can never
// mutate what the table owns.
//
// # Validation
//
// [CheckPrereqs] sweeps a snapshot and reports every prerequisite that points
// at the course itself or at an id that is not stored. [ValidateAllPrereqs]
// runs the same sweep over a table and writes one warning line per issue.
package catalog
