package youtube

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Taichi-iskw/yt-summary/internal/service/common"
)

// mockCmdRunner is a mock implementation of CmdRunner for testing
type mockCmdRunner struct {
	mock.Mock
}

func (m *mockCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	arguments := m.Called(ctx, name, args)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]byte), arguments.Error(1)
}

func (m *mockCmdRunner) Start(ctx context.Context, name string, args ...string) (common.Process, error) {
	arguments := m.Called(ctx, name, args)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(common.Process), arguments.Error(1)
}

// fastRetry keeps retry tests quick
var fastRetry = RetryConfig{
	Attempts:   3,
	Backoff:    time.Millisecond,
	MaxBackoff: 5 * time.Millisecond,
}
