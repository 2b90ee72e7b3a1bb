package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub-backend/models"
)

// The read flag must not be stored under a bare "read" column: READ is a
// reserved keyword in MySQL and the raw conditions in MarkRead/UnreadCount
// would fail to parse there.
func TestMessageReadFlagColumnName(t *testing.T) {
	db := openTestDB(t)
	assert.True(t, db.Migrator().HasColumn(&models.Message{}, "is_read"))
	assert.False(t, db.Migrator().HasColumn(&models.Message{}, "read"))
}

func TestMessaging(t *testing.T) {
	db := openTestDB(t)
	svc := NewMessageService(db)

	alice := createUser(t, db, "alice", models.RoleGuest)
	bob := createUser(t, db, "bob", models.RoleHost)

	_, err := svc.Send(alice.ID, bob.ID, "hi", "   ")
	require.Error(t, err)
	assert.Equal(t, "empty_message", err.Error())

	_, err = svc.Send(alice.ID, alice.ID, "hi", "hello me")
	require.Error(t, err)
	assert.Equal(t, "self_message", err.Error())

	first, err := svc.Send(alice.ID, bob.ID, "Question", "Is the flat available in May?")
	require.NoError(t, err)
	assert.False(t, first.Read)

	_, err = svc.Send(bob.ID, alice.ID, "Re: Question", "Yes, it is.")
	require.NoError(t, err)

	inbox, err := svc.ForUser(bob.ID)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	conv, err := svc.Conversation(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, first.ID, conv[0].ID)

	count, err := svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Only the receiver may mark a message read.
	err = svc.MarkRead(first.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, "message_not_found", err.Error())

	require.NoError(t, svc.MarkRead(first.ID, bob.ID))
	count, err = svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
