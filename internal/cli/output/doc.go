// Package output renders command results for the terminal.
//
// Three formats are supported: table (a flattened KEY/VALUE listing whose
// keys match the configuration file), json and yaml.
package output
