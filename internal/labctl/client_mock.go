package labctl

import (
	"context"

	"github.com/stretchr/testify/mock"

	"otlabs.dev/labgate/internal/protocol"
)

// MockClient is a mock implementation of Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) SwitchProtocol(ctx context.Context, p protocol.Protocol, isAuthenticated bool) SwitchOutcome {
	args := m.Called(ctx, p, isAuthenticated)
	return args.Get(0).(SwitchOutcome)
}

func (m *MockClient) GetStatus(ctx context.Context) Status {
	args := m.Called(ctx)
	return args.Get(0).(Status)
}

func (m *MockClient) GetDiagnostics(ctx context.Context) Diagnostics {
	args := m.Called(ctx)
	return args.Get(0).(Diagnostics)
}

func (m *MockClient) GetHMIURL(ctx context.Context, p protocol.Protocol, isAuthenticated bool) string {
	args := m.Called(ctx, p, isAuthenticated)
	return args.String(0)
}
