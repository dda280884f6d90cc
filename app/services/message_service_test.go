package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
)

func TestMessageSendAndRead(t *testing.T) {
	setupDB(t)
	svc := services.NewMessageService()

	alice := mustUser(t, "alice@example.com", models.RoleUser, 0)
	bob := mustUser(t, "bob@example.com", models.RoleUser, 0)
	carol := mustUser(t, "carol@example.com", models.RoleUser, 0)

	msg, err := svc.Send(asActor(alice), services.MessageInput{
		ReceiverID: bob.ID,
		Content:    "Is the coat still available?",
	})
	require.NoError(t, err)
	assert.False(t, msg.Read)

	// Outsiders cannot see the message; the sender cannot mark it read.
	_, err = svc.MarkRead(asActor(carol), msg.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = svc.MarkRead(asActor(alice), msg.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	read, err := svc.MarkRead(asActor(bob), msg.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	// Both participants see it in their conversations.
	for _, u := range []models.User{alice, bob} {
		msgs, _, err := svc.List(asActor(u), 1, 10)
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	}
	msgs, _, err := svc.List(asActor(carol), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageGuards(t *testing.T) {
	setupDB(t)
	svc := services.NewMessageService()

	alice := mustUser(t, "alice@example.com", models.RoleUser, 0)

	_, err := svc.Send(asActor(alice), services.MessageInput{
		ReceiverID: alice.ID,
		Content:    "note to self",
	})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = svc.Send(asActor(alice), services.MessageInput{
		ReceiverID: 9999,
		Content:    "hello?",
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
