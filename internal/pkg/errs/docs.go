// Package errs provides the typed error family shared by the fleet domain,
// its application handlers and its adapters.
//
// Every type follows one pattern:
//   - a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ErrValueIsOutOfRange,
//     ErrValueIsRequired, ErrVersionIsInvalid) used with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without cause
//   - Error() with newline-free output and Unwrap() returning the sentinel
//
// Mapping to the fleet error taxonomy:
//   - invalid input (malformed grid, negative coordinates): ValueIsInvalid,
//     ValueIsOutOfRange, ValueIsRequired
//   - missing robot, order or layout: ObjectNotFound
//   - concurrent modification of a robot record: VersionIsInvalid
//
// Route-not-found and no-available-robot are ordinary outcomes and are not
// represented here.
package errs
