// Package file provides file-based configuration adapters: a TOML config
// store for settings and credentials, and a YAML template store with
// embedded defaults for the content templates.
package file
