// Package events describes the change notifications emitted after every
// successful mutation and fans them out to interested sinks.
package events

import "fmt"

const (
	EntityHouse       = "house"
	EntityMember      = "member"
	EntityVehicle     = "vehicle"
	EntityPayment     = "payment"
	EntityExpenditure = "expenditure"
	EntityBackup      = "backup"

	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionGenerated = "generated"
	ActionCompleted = "completed"
)

// Entities lists every entity a message can name.
var Entities = []string{EntityHouse, EntityMember, EntityVehicle, EntityPayment, EntityExpenditure, EntityBackup}

// Message is a change notification. ID is the affected record's identifier
// rendered as a string so houses (uuid) and payments (sequence) share a shape.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id string, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// RoutingKey is the dotted form used when the message leaves the process.
func (m Message) RoutingKey() string {
	return m.Entity + "." + m.Action
}

// Broadcaster accepts change notifications. Implementations must not block
// the caller for long; a slow sink drops messages rather than stalling writes.
type Broadcaster interface {
	Broadcast(Message)
}

// Multi delivers each message to every non-nil sink in order.
type Multi []Broadcaster

func (m Multi) Broadcast(msg Message) {
	for _, b := range m {
		if b != nil {
			b.Broadcast(msg)
		}
	}
}

// Discard drops every message.
type Discard struct{}

func (Discard) Broadcast(Message) {}
