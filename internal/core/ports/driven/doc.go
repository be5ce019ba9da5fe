// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): source connectors, model and embedding
// services, stores, and delivery channels.
package driven
