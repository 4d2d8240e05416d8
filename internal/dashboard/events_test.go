package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue_ListsEventsInOrder(t *testing.T) {
	var names []EventName
	for _, d := range DefaultCatalogue().List() {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description, "event %s should be documented", d.Name)
	}

	assert.Equal(t, []EventName{
		EventIncrement,
		EventDecrement,
		EventToggleDarkMode,
		EventSave,
		EventDismissNotification,
		EventSetField,
	}, names)
}

func TestCatalogue_RegisterDuplicate(t *testing.T) {
	c := NewCatalogue()
	d := Descriptor{Name: "ping", apply: func(*State, Event) error { return nil }}

	require.NoError(t, c.Register(d))
	assert.ErrorIs(t, c.Register(d), ErrDuplicateEvent)
	assert.ErrorIs(t, c.Register(Descriptor{Name: "noop"}), ErrInvalidArgument)
}

func TestDispatch(t *testing.T) {
	c := DefaultCatalogue()

	t.Run("simple events", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, c.Dispatch(s, Event{Name: EventIncrement}))
		require.NoError(t, c.Dispatch(s, Event{Name: EventIncrement}))
		require.NoError(t, c.Dispatch(s, Event{Name: EventDecrement}))
		require.NoError(t, c.Dispatch(s, Event{Name: EventToggleDarkMode}))

		assert.Equal(t, 1, s.Counter)
		assert.True(t, s.IsDarkMode)
		assert.Len(t, s.Notifications, 6)
	})

	t.Run("dismiss parses the id", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, c.Dispatch(s, Event{Name: EventDismissNotification, Args: map[string]string{ArgID: "2"}}))
		assert.Equal(t, []int64{1}, notificationIDs(s))
	})

	t.Run("dismiss rejects a malformed id", func(t *testing.T) {
		s := New(nil)
		err := c.Dispatch(s, Event{Name: EventDismissNotification, Args: map[string]string{ArgID: "two"}})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Len(t, s.Notifications, 2)
	})

	t.Run("unknown event leaves state unchanged", func(t *testing.T) {
		s := New(nil)
		before := s.Snapshot()

		err := c.Dispatch(s, Event{Name: "reset"})

		assert.ErrorIs(t, err, ErrUnknownEvent)
		assert.Equal(t, before, s.Snapshot())
	})

	t.Run("setField binds inputs", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, c.Dispatch(s, Event{Name: EventSetField, Args: map[string]string{ArgField: FieldName, ArgValue: "Alice"}}))
		assert.Equal(t, "Alice", s.Name)

		err := c.Dispatch(s, Event{Name: EventSetField, Args: map[string]string{ArgField: "age", ArgValue: "3"}})
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("save binds submitted values before validating", func(t *testing.T) {
		s := New(nil)
		err := c.Dispatch(s, Event{Name: EventSave, Args: map[string]string{
			FieldName:  "Alice",
			FieldEmail: "alice@example.com",
		}})
		require.NoError(t, err)
		assert.Empty(t, s.Name)
		assert.Equal(t, "User Alice saved successfully!", s.Notifications[len(s.Notifications)-1].Message)
	})

	t.Run("save without values validates the bound fields", func(t *testing.T) {
		s := New(nil)
		s.Name = "Carol"
		err := c.Dispatch(s, Event{Name: EventSave})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{FieldEmail: "The email field is required."}, verr.Map())
		assert.Equal(t, "Carol", s.Name)
	})

	t.Run("failed save keeps only the bound inputs", func(t *testing.T) {
		s := New(nil)
		before := len(s.Notifications)
		err := c.Dispatch(s, Event{Name: EventSave, Args: map[string]string{
			FieldName:  "",
			FieldEmail: "x@y.com",
		}})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{FieldName: "The name field is required."}, verr.Map())
		assert.Empty(t, s.Name)
		assert.Equal(t, "x@y.com", s.Email)
		assert.Len(t, s.Notifications, before)
		assert.Equal(t, 0, s.Counter)
	})
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in      string
		want    Event
		wantErr bool
	}{
		{in: "increment", want: Event{Name: EventIncrement}},
		{in: "  toggleDarkMode ", want: Event{Name: EventToggleDarkMode}},
		{in: "dismissNotification:id=3", want: Event{Name: EventDismissNotification, Args: map[string]string{"id": "3"}}},
		{in: "setField:field=name,value=Alice", want: Event{Name: EventSetField, Args: map[string]string{"field": "name", "value": "Alice"}}},
		{in: "save:name=Alice,email=alice@example.com", want: Event{Name: EventSave, Args: map[string]string{"name": "Alice", "email": "alice@example.com"}}},
		{in: "", wantErr: true},
		{in: "setField:field", wantErr: true},
		{in: "setField:=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEvent(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
