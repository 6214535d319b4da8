package reply

// EventType enumerates reply outcomes.
type EventType string

const (
	EventSent      EventType = "reply_sent"
	EventFailed    EventType = "reply_failed"
	EventDiscarded EventType = "reply_discarded"
)

// Event carries the outcome of one reply.
type Event struct {
	Type    EventType
	To      string
	Subject string
	Err     error
}
