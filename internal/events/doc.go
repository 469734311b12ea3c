// Package events publishes learning events (concepts learned, case studies
// added, artifacts generated) to an in-process buffer, a Redis list or a
// RabbitMQ queue.
package events
