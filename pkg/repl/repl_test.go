package repl

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddCommandAndDispatch(t *testing.T) {
	r := NewRepl()
	r.AddCommand("ping", func(payload string, replConfig *REPLConfig) error {
		io.WriteString(replConfig.GetWriter(), "pong\n")
		return nil
	}, "Reply with pong. usage: ping")

	var buf bytes.Buffer
	config := NewReplConfig(&buf, uuid.New())
	require.NoError(t, r.GetCommands()["ping"]("ping", config))
	require.Equal(t, "pong\n", buf.String())
}

func TestHelpStringIsSorted(t *testing.T) {
	r := NewRepl()
	noop := func(string, *REPLConfig) error { return nil }
	r.AddCommand("zeta", noop, "last")
	r.AddCommand("alpha", noop, "first")
	require.Equal(t, "alpha: first\nzeta: last\n", r.HelpString())
}

func TestReplConfigGetters(t *testing.T) {
	var buf bytes.Buffer
	id := uuid.New()
	config := NewReplConfig(&buf, id)
	require.Equal(t, &buf, config.GetWriter())
	require.Equal(t, id, config.GetAddr())
}
