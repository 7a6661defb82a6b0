// Package confloader loads configuration with koanf.
//
// Sources (later override earlier):
//
//  1. Default values (the target struct as passed in)
//  2. Configuration file (YAML)
//  3. Environment variables (LEDGERMESH_SECTION_KEY)
//  4. Overrides (WithOverrides), e.g. command-line log levels
//
// Watcher reports changes to loaded files through fsnotify so long-running
// commands can reload.
package confloader
