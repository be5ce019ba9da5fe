// Package services contains the core pipeline logic: intelligence
// aggregation, novelty filtering, template resolution, the six-stage
// generation orchestrator, delivery, and the background scheduler.
package services
