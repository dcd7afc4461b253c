package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

type Entry struct {
	ID       string    `json:"id"`
	ActorID  string    `json:"actorId"`
	Action   Action    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entityId"`
	At       time.Time `json:"at"`
}

func NewEntry(actorID string, action Action, entity, entityID string) Entry {
	return Entry{
		ID:       uuid.NewString(),
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		At:       time.Now().UTC(),
	}
}
