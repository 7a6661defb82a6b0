// Package prompt asks interactive questions on the diagnostic stream.
//
// Questions are written to stderr, never stdout, so scripts that pipe a
// command's standard output are unaffected. Answers are coerced with the
// strategies from package coerce.
package prompt
