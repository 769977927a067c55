package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

// MockProfileClient is a mock implementation of ports.ProfileClient
type MockProfileClient struct {
	FullNameFunc     func(ctx context.Context, access domain.APIAccess) (string, error)
	GivenNameFunc    func(ctx context.Context, access domain.APIAccess) (string, error)
	MobileNumberFunc func(ctx context.Context, access domain.APIAccess) (*domain.MobileNumber, error)

	mu    sync.Mutex
	calls map[string]int
	last  domain.APIAccess
}

func NewMockProfileClient() *MockProfileClient {
	return &MockProfileClient{calls: make(map[string]int)}
}

func (m *MockProfileClient) record(lookup string, access domain.APIAccess) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[lookup]++
	m.last = access
}

func (m *MockProfileClient) FullName(ctx context.Context, access domain.APIAccess) (string, error) {
	m.record("full_name", access)
	if m.FullNameFunc != nil {
		return m.FullNameFunc(ctx, access)
	}
	return "", nil
}

func (m *MockProfileClient) GivenName(ctx context.Context, access domain.APIAccess) (string, error) {
	m.record("given_name", access)
	if m.GivenNameFunc != nil {
		return m.GivenNameFunc(ctx, access)
	}
	return "", nil
}

func (m *MockProfileClient) MobileNumber(ctx context.Context, access domain.APIAccess) (*domain.MobileNumber, error) {
	m.record("mobile_number", access)
	if m.MobileNumberFunc != nil {
		return m.MobileNumberFunc(ctx, access)
	}
	return nil, nil
}

// Calls returns how many times lookup ("full_name", "given_name", "mobile_number") was called
func (m *MockProfileClient) Calls(lookup string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[lookup]
}

// TotalCalls returns the number of profile API calls across all lookups
func (m *MockProfileClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// LastAccess returns the API access passed to the most recent call
func (m *MockProfileClient) LastAccess() domain.APIAccess {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
