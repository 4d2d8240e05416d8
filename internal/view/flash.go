package view

import (
	"fmt"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	flashSessionName = "carmasy-flash"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
)

// FlashData holds the flash messages queued for the next full page render.
type FlashData struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0
}

func setFlash(c echo.Context, key, message string) error {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return fmt.Errorf("load flash session: %w", err)
	}
	sess.AddFlash(message, key)
	return sess.Save(c.Request(), c.Response())
}

// SetFlashSuccess queues a success message for the next page render.
func SetFlashSuccess(c echo.Context, message string) error {
	return setFlash(c, flashKeySuccess, message)
}

// SetFlashError queues an error message for the next page render.
func SetFlashError(c echo.Context, message string) error {
	return setFlash(c, flashKeyError, message)
}

// GetFlashData retrieves and clears the queued flash messages.
func GetFlashData(c echo.Context) FlashData {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return FlashData{}
	}

	data := FlashData{
		Success: toStrings(sess.Flashes(flashKeySuccess)),
		Error:   toStrings(sess.Flashes(flashKeyError)),
	}

	// Flashes() clears the values in memory only; persist the removal.
	if !data.Empty() {
		_ = sess.Save(c.Request(), c.Response())
	}
	return data
}

func toStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
