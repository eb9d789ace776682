package notifier

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampedAssignsID(t *testing.T) {
	msg := stamped(Notification{Kind: KindMemberRemoved, RecipientID: 42})

	require.NotEmpty(t, msg.ID)
	_, err := uuid.Parse(msg.ID)
	assert.NoError(t, err)

	// A caller-supplied ID survives, and two requests never share one
	assert.Equal(t, "fixed", stamped(Notification{ID: "fixed"}).ID)
	assert.NotEqual(t, msg.ID, stamped(Notification{Kind: KindMemberRemoved}).ID)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(zerolog.Nop())
	err := n.Notify(context.Background(), Notification{
		RecipientID: 42,
		Kind:        KindApplicationReceived,
		Title:       "New application",
		Priority:    PriorityNormal,
	})
	assert.NoError(t, err)
}
