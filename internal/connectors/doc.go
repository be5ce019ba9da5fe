// Package connectors contains source connector implementations for the
// intel aggregation layer. Each connector adapts one external source
// (GitHub, Hacker News, Reddit, RSS feeds) to the driven.Connector port:
// it fetches raw items, normalises popularity into the item payload, and
// classifies every failure as domain.ErrSourceUnavailable so the
// aggregator can isolate it.
package connectors
