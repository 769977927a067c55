package queue

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Close() error
}

// NoopQueue drops every message. Used when interaction events are disabled.
type NoopQueue struct{}

func (NoopQueue) Publish(subject string, data []byte) error {
	return nil
}

func (NoopQueue) Close() error {
	return nil
}
