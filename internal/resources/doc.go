// Package resources provides MCP resources exposing read-only snapshots of
// the schedules: schedule://host for the host's full schedule and
// schedule://coaching for the generated coaching calendar.
package resources
