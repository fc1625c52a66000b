package shellnotify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunc(t *testing.T) {
	calls := 0
	var n Notifier = Func(func() { calls++ })
	n.AssociationsChanged()
	n.AssociationsChanged()
	assert.Equal(t, 2, calls)
}

func TestShell_LogsWithoutPanicking(t *testing.T) {
	var buf bytes.Buffer
	s := Shell{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	assert.NotPanics(t, s.AssociationsChanged)
	assert.NotEmpty(t, buf.String())

	assert.NotPanics(t, Shell{}.AssociationsChanged)
	assert.NotPanics(t, Nop{}.AssociationsChanged)
}
