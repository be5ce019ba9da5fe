// Package sqlite provides durable storage for embeddings, run records,
// and stage artifacts on a single SQLite database. The schema is managed
// through embedded migrations applied at open time.
package sqlite
