package dashboard

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InitialState(t *testing.T) {
	s := New(nil)

	assert.Equal(t, 0, s.Counter)
	assert.False(t, s.IsDarkMode)
	assert.Empty(t, s.Name)
	assert.Empty(t, s.Email)
	require.Len(t, s.Notifications, 2)
	assert.Equal(t, int64(1), s.Notifications[0].ID)
	assert.Equal(t, KindSuccess, s.Notifications[0].Kind)
	assert.Equal(t, int64(2), s.Notifications[1].ID)
	assert.Equal(t, KindInfo, s.Notifications[1].Kind)
}

func TestNew_SeedsAreNotShared(t *testing.T) {
	a := New(nil)
	b := New(nil)

	a.DismissNotification(1)

	assert.Len(t, a.Notifications, 1)
	assert.Len(t, b.Notifications, 2)
	assert.Len(t, seedNotifications, 2)
}

func TestCounter_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for run := 0; run < 50; run++ {
		s := New(nil)
		var incs, decs int
		steps := rng.IntN(200)

		for i := 0; i < steps; i++ {
			before := len(s.Notifications)
			if rng.IntN(2) == 0 {
				s.Increment()
				incs++
				require.Len(t, s.Notifications, before+1)
				last := s.Notifications[len(s.Notifications)-1]
				assert.Equal(t, KindSuccess, last.Kind)
				assert.Equal(t, fmt.Sprintf("Counter increased to %d", s.Counter), last.Message)
			} else {
				s.Decrement()
				decs++
				require.Len(t, s.Notifications, before+1)
				last := s.Notifications[len(s.Notifications)-1]
				assert.Equal(t, KindWarning, last.Kind)
				assert.Equal(t, fmt.Sprintf("Counter decreased to %d", s.Counter), last.Message)
			}
		}

		assert.Equal(t, incs-decs, s.Counter)
	}
}

func TestDecrement_GoesNegative(t *testing.T) {
	s := New(nil)

	s.Decrement()
	s.Decrement()

	assert.Equal(t, -2, s.Counter)
	assert.Equal(t, "Counter decreased to -2", s.Notifications[len(s.Notifications)-1].Message)
}

func TestToggleDarkMode_TwiceRestores(t *testing.T) {
	s := New(nil)

	s.ToggleDarkMode()
	assert.True(t, s.IsDarkMode)
	s.ToggleDarkMode()
	assert.False(t, s.IsDarkMode)

	require.Len(t, s.Notifications, 4)
	assert.Equal(t, Notification{ID: 3, Message: "Dark mode enabled", Kind: KindInfo}, s.Notifications[2])
	assert.Equal(t, Notification{ID: 4, Message: "Light mode enabled", Kind: KindInfo}, s.Notifications[3])
}

func TestDismissNotification(t *testing.T) {
	t.Run("removes only the matching id and keeps order", func(t *testing.T) {
		s := New(nil)
		s.Increment()
		s.Decrement()
		s.ToggleDarkMode()
		ids := notificationIDs(s)
		require.Equal(t, []int64{1, 2, 3, 4, 5}, ids)

		s.DismissNotification(3)

		assert.Equal(t, []int64{1, 2, 4, 5}, notificationIDs(s))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := New(nil)
		s.Increment()
		before := append([]Notification(nil), s.Notifications...)

		s.DismissNotification(999)

		assert.Equal(t, before, s.Notifications)
	})

	t.Run("dismissing everything leaves an empty list", func(t *testing.T) {
		s := New(nil)
		s.DismissNotification(1)
		s.DismissNotification(2)
		assert.Empty(t, s.Notifications)
	})
}

func TestSave_MissingNameFails(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetField(FieldEmail, "x@y.com"))
	before := len(s.Notifications)

	err := s.Save()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	msg, ok := verr.Message(FieldName)
	assert.True(t, ok)
	assert.Equal(t, "The name field is required.", msg)
	_, emailFailed := verr.Message(FieldEmail)
	assert.False(t, emailFailed)

	assert.Equal(t, "", s.Name)
	assert.Equal(t, "x@y.com", s.Email)
	assert.Len(t, s.Notifications, before)
}

func TestSave_Success(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetField(FieldName, "Alice"))
	require.NoError(t, s.SetField(FieldEmail, "alice@example.com"))

	require.NoError(t, s.Save())

	last := s.Notifications[len(s.Notifications)-1]
	assert.Equal(t, KindSuccess, last.Kind)
	assert.Contains(t, last.Message, "Alice")
	assert.Equal(t, "User Alice saved successfully!", last.Message)
	assert.Empty(t, s.Name)
	assert.Empty(t, s.Email)
}

func TestSave_BothFieldsInvalid(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.SetField(FieldName, "Al"))
	require.NoError(t, s.SetField(FieldEmail, "not-an-email"))

	err := s.Save()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		FieldName:  "The name field must be at least 3 characters.",
		FieldEmail: "The email field must be a valid email address.",
	}, verr.Map())
	assert.Equal(t, "Al", s.Name)
	assert.Equal(t, "not-an-email", s.Email)
	assert.Len(t, s.Notifications, 2)
}

func TestSetField_Unknown(t *testing.T) {
	s := New(nil)
	err := s.SetField("password", "hunter2")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSnapshot_IsIndependent(t *testing.T) {
	s := New(nil)
	snap := s.Snapshot()

	s.Increment()
	s.DismissNotification(1)

	assert.Equal(t, 0, snap.Counter)
	assert.Len(t, snap.Notifications, 2)
	assert.Equal(t, int64(1), snap.Notifications[0].ID)
}

func notificationIDs(s *State) []int64 {
	ids := make([]int64, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		ids = append(ids, n.ID)
	}
	return ids
}
