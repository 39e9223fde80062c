// Package protocol defines the closed set of industrial protocol
// identifiers the lab platform knows about, and the access policy
// deciding which of them a caller may start.
package protocol

import "fmt"

// Protocol identifies one of the lab's protocol simulators.
type Protocol string

const (
	Modbus Protocol = "modbus"
	OPCUA  Protocol = "opcua"
	CIP    Protocol = "cip"
	DNP3   Protocol = "dnp3"
	IEC104 Protocol = "iec104"
	MQTT   Protocol = "mqtt"
	S7     Protocol = "s7"
	BACnet Protocol = "bacnet"
)

// all is the closed set. Order is stable because it is what clients render.
var all = []Protocol{Modbus, OPCUA, CIP, DNP3, IEC104, MQTT, S7, BACnet}

// All returns the full closed set of protocol identifiers.
func All() []Protocol {
	out := make([]Protocol, len(all))
	copy(out, all)
	return out
}

// Valid reports whether s is a member of the closed set.
func Valid(s string) bool {
	for _, p := range all {
		if string(p) == s {
			return true
		}
	}
	return false
}

// Parse validates s against the closed set. Unknown values are rejected,
// never coerced.
func Parse(s string) (Protocol, error) {
	if !Valid(s) {
		return "", fmt.Errorf("unknown protocol %q", s)
	}
	return Protocol(s), nil
}

// Strings converts a protocol slice to plain strings for JSON payloads.
func Strings(ps []Protocol) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
