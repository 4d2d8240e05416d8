package dashboard

import (
	"fmt"
	"slices"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notification is a dismissible message shown above the dashboard cards.
type Notification struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Seed notifications present on every new session. Generated ids start
// after them.
var seedNotifications = []Notification{
	{ID: 1, Message: "Welcome to Carmasy!", Kind: KindSuccess},
	{ID: 2, Message: "Go + Echo + gomponents + htmx", Kind: KindInfo},
}

const firstGeneratedID = 3

// State is the mutable UI state of one dashboard session. It is not safe for
// concurrent use; Store serializes access per session.
type State struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	IsDarkMode    bool           `json:"is_dark_mode"`
	Counter       int            `json:"counter"`
	Notifications []Notification `json:"notifications"`

	ids IDSource
}

// New returns the initial state of a session: two seed notifications, a zero
// counter and light mode. A nil ids uses a fresh sequence.
func New(ids IDSource) *State {
	if ids == nil {
		ids = NewSequenceIDs(firstGeneratedID)
	}
	return &State{
		Notifications: slices.Clone(seedNotifications),
		ids:           ids,
	}
}

// Increment adds one to the counter and reports the new value.
func (s *State) Increment() {
	s.Counter++
	s.notify(fmt.Sprintf("Counter increased to %d", s.Counter), KindSuccess)
}

// Decrement subtracts one from the counter. The counter has no floor.
func (s *State) Decrement() {
	s.Counter--
	s.notify(fmt.Sprintf("Counter decreased to %d", s.Counter), KindWarning)
}

// ToggleDarkMode flips the color scheme.
func (s *State) ToggleDarkMode() {
	s.IsDarkMode = !s.IsDarkMode
	if s.IsDarkMode {
		s.notify("Dark mode enabled", KindInfo)
	} else {
		s.notify("Light mode enabled", KindInfo)
	}
}

// Save validates the registration form. On failure it returns a
// *ValidationError and leaves the state untouched. On success it announces
// the user and clears both fields.
func (s *State) Save() error {
	form := RegistrationForm{Name: s.Name, Email: s.Email}
	if err := form.Validate(); err != nil {
		return err
	}
	s.notify(fmt.Sprintf("User %s saved successfully!", s.Name), KindSuccess)
	s.Name = ""
	s.Email = ""
	return nil
}

// DismissNotification removes the notification with the given id. Unknown
// ids are ignored.
func (s *State) DismissNotification(id int64) {
	s.Notifications = slices.DeleteFunc(s.Notifications, func(n Notification) bool {
		return n.ID == id
	})
}

// SetField binds a form input to the state without validating it.
func (s *State) SetField(field, value string) error {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Snapshot returns a copy that shares no memory with s.
func (s *State) Snapshot() State {
	return State{
		Name:          s.Name,
		Email:         s.Email,
		IsDarkMode:    s.IsDarkMode,
		Counter:       s.Counter,
		Notifications: slices.Clone(s.Notifications),
	}
}

func (s *State) notify(message string, kind Kind) {
	s.Notifications = append(s.Notifications, Notification{
		ID:      s.ids.NextID(),
		Message: message,
		Kind:    kind,
	})
}
