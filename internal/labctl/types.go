package labctl

import (
	"time"

	"otlabs.dev/labgate/internal/protocol"
)

// Status is the controller's belief about which simulator is running.
// At most one protocol is active platform-wide; the controller owns that
// invariant and the gateway only reports it. A nil Active means idle or
// unknown; the two are deliberately indistinguishable.
type Status struct {
	Active    *protocol.Protocol `json:"active"`
	Timestamp time.Time          `json:"timestamp"`
}

// SwitchOutcome is the result of asking the controller to make a
// protocol the active one. Failures are data, not errors.
type SwitchOutcome struct {
	Success  bool              `json:"success"`
	Protocol protocol.Protocol `json:"protocol"`
	HMIURL   string            `json:"hmiUrl,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Container is one entry in the controller's container fleet.
type Container struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Health string `json:"health"`
	Uptime string `json:"uptime,omitempty"`
}

// Diagnostics is a point-in-time view of the controller's containers.
type Diagnostics struct {
	Containers []Container `json:"containers"`
	Timestamp  time.Time   `json:"timestamp"`
}
