// Package infra contains technical adapters: solver backends, schedule
// sinks (Prometheus, InfluxDB, MQTT, PostgreSQL) and error reporting.
// These packages should depend only on the interfaces defined in the core
// packages.
package infra
