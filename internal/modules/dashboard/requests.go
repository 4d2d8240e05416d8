package dashboard

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	core "github.com/nfrund/carmasy/internal/dashboard"
)

// argKeys are the request fields that become event arguments. Anything else
// a client sends is ignored.
var argKeys = []string{core.ArgID, core.ArgField, core.ArgValue, core.FieldName, core.FieldEmail}

// eventFromForm builds the event posted by an htmx control. Values are
// trimmed before they reach the state.
func eventFromForm(name string, form url.Values) core.Event {
	ev := core.Event{Name: core.EventName(name), Args: make(map[string]string)}
	for _, key := range argKeys {
		if values, ok := form[key]; ok && len(values) > 0 {
			ev.Args[key] = strings.TrimSpace(values[0])
		}
	}

	// A bound input posts its own name=value pair along with field=name.
	if ev.Name == core.EventSetField {
		if _, ok := ev.Args[core.ArgValue]; !ok {
			if v, ok := ev.Args[ev.Args[core.ArgField]]; ok {
				ev.Args[core.ArgValue] = v
			}
		}
	}
	return ev
}

// argsFromJSON converts a JSON object into event arguments. Numbers and
// booleans are accepted so that clients can send {"id": 3}.
func argsFromJSON(obj map[string]any) (map[string]string, error) {
	args := make(map[string]string)
	for _, key := range argKeys {
		raw, ok := obj[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			args[key] = strings.TrimSpace(v)
		case float64:
			args[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			args[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("%w: %s must be a string or number", core.ErrInvalidArgument, key)
		}
	}
	return args, nil
}

// decodeFrame reads a client message from the live channel:
//
//	{"event": "dismissNotification", "id": 3}
func decodeFrame(payload []byte) (core.Event, error) {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return core.Event{}, fmt.Errorf("%w: malformed frame: %v", core.ErrInvalidArgument, err)
	}

	name, _ := obj["event"].(string)
	if name == "" {
		return core.Event{}, fmt.Errorf("%w: frame has no event", core.ErrInvalidArgument)
	}

	args, err := argsFromJSON(obj)
	if err != nil {
		return core.Event{}, err
	}
	return core.Event{Name: core.EventName(name), Args: args}, nil
}
