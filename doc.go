// Package txingest turns brokerage CSV exports into validated candidate
// transactions ready to be stored.
//
// The files brokers produce have no common schema, so ingestion runs in
// stages:
//   - Sheet loading: a CSV (or .xlsx) file is read whole into RawRows keyed
//     by header.
//   - Column detection: Detect proposes a ColumnMapping from the headers and
//     a preview of the data, using header patterns, content sniffing and
//     known broker layouts.
//   - Row parsing: a Parser turns every RawRow into a Candidate. Dates,
//     numbers, option symbols and JSON details are parsed leniently, and the
//     free text action is normalized to a TransactionType by a Standardizer
//     backed by the user's MappingStore of broker rules.
//   - Staging: a Grid holds the candidates for review. Every edit
//     revalidates the row, and only rows without errors are committed,
//     all at once, to a Repository.
//
// Problems with a single row never stop the pipeline: they are reported as
// Errors and Warnings on the Candidate. Only a StructuralError (missing file,
// unreadable CSV, mapping that does not fit the file) is fatal.
package txingest
