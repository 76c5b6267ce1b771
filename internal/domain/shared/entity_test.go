package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseEntityTouch(t *testing.T) {
	entity := NewBaseEntity()
	entity.UpdatedAt = time.Now().Add(-time.Hour)
	before := entity.UpdatedAt

	entity.Touch()

	assert.True(t, entity.UpdatedAt.After(before))
	assert.NotEqual(t, uuid.Nil, entity.ID)
}

func TestBaseAggregateRootEvents(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Equal(t, 1, root.Version)
	assert.Empty(t, root.DomainEvents())

	root.AddDomainEvent(&testEvent{BaseDomainEvent: NewBaseDomainEvent("test.event", "Test", root.ID)})
	root.IncrementVersion()

	assert.Len(t, root.DomainEvents(), 1)
	assert.Equal(t, 2, root.Version)

	root.ClearDomainEvents()
	assert.Empty(t, root.DomainEvents())
}

type testEvent struct {
	BaseDomainEvent
}
