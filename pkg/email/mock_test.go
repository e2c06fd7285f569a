package email_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"portfolio-backend/pkg/email"
)

type MockTransport struct {
	mock.Mock
	name string
}

func newMockTransport(name string) *MockTransport {
	return &MockTransport{name: name}
}

func (m *MockTransport) Name() string { return m.name }

func (m *MockTransport) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// blockingTransport waits for its context to end.
type blockingTransport struct{ name string }

func (b blockingTransport) Name() string { return b.name }

func (b blockingTransport) Send(ctx context.Context, msg email.Message) error {
	<-ctx.Done()
	return ctx.Err()
}
