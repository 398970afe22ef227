// Package messaging publishes fleet events to external brokers: Kafka for
// the order-management and analytics side, MQTT for robots and kitchen
// displays, Redis pub/sub for dashboards. Every publisher encodes the event
// as JSON and keeps per-robot ordering where the broker allows it.
package messaging
