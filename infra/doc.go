// Package infra contains technical adapters such as the ledger CLI
// client, metrics exporters and the MQTT event mirror. These packages
// should depend only on the interfaces defined in the core packages.
package infra
