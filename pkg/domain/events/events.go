package events

// EventType represents the type of an event in the system.
type EventType string

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

const (
	// EventTypeTransactionCompleted is emitted after a transaction commits.
	EventTypeTransactionCompleted EventType = "Transaction.Completed"
)

// Event is implemented by everything the event bus carries.
type Event interface {
	Type() string
}

// EventTypes maps an event type to a constructor used when decoding
// events that travelled through an external broker.
var EventTypes = map[EventType]func() Event{
	EventTypeTransactionCompleted: func() Event { return &TransactionCompleted{} },
}
