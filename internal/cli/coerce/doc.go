// Package coerce converts loosely typed strings into typed values.
//
// A Strategy selects the target type at the call site:
//
//	n, err := coerce.Value("42", coerce.Int.WithDefault(10))   // 42
//	n, err  = coerce.Value("", coerce.Int.WithDefault(10))     // 10
//	b, err := coerce.Value("Yes", coerce.Bool)                 // true
//	s, err := coerce.Value("hack the planet", coerce.String)   // unchanged
//
// Conversion failures wrap domain.ErrInvalidValue. The same strategies back
// interactive prompts (package prompt) and custom flag types.
package coerce
