package labctl

import (
	"context"

	"otlabs.dev/labgate/internal/protocol"
)

// Client is the gateway's view of the external lab controller.
//
// None of the methods return an error: every failure mode (unreachable
// controller, timeout, non-2xx, missing configuration) is normalized
// into the returned value, so callers never have to distinguish "the
// controller said no" from "we could not ask". Status and diagnostics
// degrade to empty values because they are advisory/display-only.
type Client interface {
	// SwitchProtocol asks the controller to make p the active simulator.
	// It re-checks the access policy itself and fails closed even if the
	// caller forgot to authorize first.
	SwitchProtocol(ctx context.Context, p protocol.Protocol, isAuthenticated bool) SwitchOutcome

	// GetStatus reports the currently active protocol, or nil when the
	// controller is unreachable or idle.
	GetStatus(ctx context.Context) Status

	// GetDiagnostics returns the controller's container fleet snapshot,
	// or an empty snapshot on any failure.
	GetDiagnostics(ctx context.Context) Diagnostics

	// GetHMIURL resolves the operator UI URL for p, or "" when the
	// caller is not allowed to see it or the controller has none.
	GetHMIURL(ctx context.Context, p protocol.Protocol, isAuthenticated bool) string
}
