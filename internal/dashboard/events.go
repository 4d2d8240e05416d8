package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// EventName identifies a handler that a rendered control can dispatch.
type EventName string

const (
	EventIncrement           EventName = "increment"
	EventDecrement           EventName = "decrement"
	EventToggleDarkMode      EventName = "toggleDarkMode"
	EventSave                EventName = "save"
	EventDismissNotification EventName = "dismissNotification"
	EventSetField            EventName = "setField"
)

// Argument keys carried by events.
const (
	ArgID    = "id"
	ArgField = "field"
	ArgValue = "value"
)

// Event is one dispatched UI action with its string arguments.
type Event struct {
	Name EventName         `json:"event"`
	Args map[string]string `json:"args,omitempty"`
}

// Arg returns the named argument, or "" if absent.
func (e Event) Arg(key string) string {
	return e.Args[key]
}

// Descriptor documents an event and holds the function that applies it.
type Descriptor struct {
	Name        EventName
	Description string
	Args        []string

	apply func(s *State, ev Event) error
}

// Catalogue is the set of events a session accepts.
type Catalogue struct {
	mu      sync.RWMutex
	entries map[EventName]Descriptor
	order   []EventName
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{entries: make(map[EventName]Descriptor)}
}

// Register adds d to the catalogue. Names must be unique.
func (c *Catalogue) Register(d Descriptor) error {
	if d.Name == "" || d.apply == nil {
		return fmt.Errorf("%w: descriptor needs a name and a handler", ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, d.Name)
	}
	c.entries[d.Name] = d
	c.order = append(c.order, d.Name)
	return nil
}

// Lookup returns the descriptor registered under name.
func (c *Catalogue) Lookup(name EventName) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[name]
	return d, ok
}

// List returns the descriptors in registration order.
func (c *Catalogue) List() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name])
	}
	return out
}

// Dispatch applies ev to s. Unknown events and malformed arguments leave s
// unchanged.
func (c *Catalogue) Dispatch(s *State, ev Event) error {
	d, ok := c.Lookup(ev.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
	}
	return d.apply(s, ev)
}

var (
	defaultCatalogue     *Catalogue
	defaultCatalogueOnce sync.Once
)

// DefaultCatalogue returns the catalogue of the dashboard's six events.
func DefaultCatalogue() *Catalogue {
	defaultCatalogueOnce.Do(func() {
		c := NewCatalogue()
		for _, d := range builtinEvents() {
			if err := c.Register(d); err != nil {
				panic(err)
			}
		}
		defaultCatalogue = c
	})
	return defaultCatalogue
}

func builtinEvents() []Descriptor {
	return []Descriptor{
		{
			Name:        EventIncrement,
			Description: "Add one to the counter",
			apply: func(s *State, _ Event) error {
				s.Increment()
				return nil
			},
		},
		{
			Name:        EventDecrement,
			Description: "Subtract one from the counter",
			apply: func(s *State, _ Event) error {
				s.Decrement()
				return nil
			},
		},
		{
			Name:        EventToggleDarkMode,
			Description: "Switch between light and dark mode",
			apply: func(s *State, _ Event) error {
				s.ToggleDarkMode()
				return nil
			},
		},
		{
			Name:        EventSave,
			Description: "Validate and submit the registration form",
			Args:        []string{FieldName, FieldEmail},
			apply:       applySave,
		},
		{
			Name:        EventDismissNotification,
			Description: "Remove a notification from the list",
			Args:        []string{ArgID},
			apply: func(s *State, ev Event) error {
				id, err := strconv.ParseInt(ev.Arg(ArgID), 10, 64)
				if err != nil {
					return fmt.Errorf("%w: id %q", ErrInvalidArgument, ev.Arg(ArgID))
				}
				s.DismissNotification(id)
				return nil
			},
		},
		{
			Name:        EventSetField,
			Description: "Bind a form input value",
			Args:        []string{ArgField, ArgValue},
			apply: func(s *State, ev Event) error {
				return s.SetField(ev.Arg(ArgField), ev.Arg(ArgValue))
			},
		},
	}
}

// applySave binds any name/email values submitted with the form before
// validating, the same as a setField for each input.
func applySave(s *State, ev Event) error {
	for _, field := range []string{FieldName, FieldEmail} {
		if v, ok := ev.Args[field]; ok {
			if err := s.SetField(field, v); err != nil {
				return err
			}
		}
	}
	return s.Save()
}

// ParseEvent reads the command-line form of an event:
//
//	increment
//	dismissNotification:id=3
//	setField:field=name,value=Alice
func ParseEvent(raw string) (Event, error) {
	name, rawArgs, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if name == "" {
		return Event{}, fmt.Errorf("%w: empty event", ErrInvalidArgument)
	}
	ev := Event{Name: EventName(name)}
	if rawArgs == "" {
		return ev, nil
	}
	ev.Args = make(map[string]string)
	for _, pair := range strings.Split(rawArgs, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return Event{}, fmt.Errorf("%w: %q is not key=value", ErrInvalidArgument, pair)
		}
		ev.Args[k] = v
	}
	return ev, nil
}
