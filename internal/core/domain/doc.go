// Package domain contains the core business entities for the content
// pipeline: raw signals, candidate topics, embedding records, stage
// artifacts, templates, and runs. It has no dependencies on adapters.
package domain
