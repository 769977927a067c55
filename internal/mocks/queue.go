package mocks

import "sync"

// MockMessageQueue is a mock implementation of queue.MessageQueue
type MockMessageQueue struct {
	PublishFunc func(subject string, data []byte) error
	CloseFunc   func() error

	mu                sync.Mutex
	publishedMessages map[string][][]byte
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		publishedMessages: make(map[string][][]byte),
	}
}

func (m *MockMessageQueue) Publish(subject string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(subject, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedMessages[subject] = append(m.publishedMessages[subject], data)
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// GetPublishedMessages returns all messages published to a subject
func (m *MockMessageQueue) GetPublishedMessages(subject string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.publishedMessages[subject]...)
}
