//go:build e2e && unix

package main

import (
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuitKeyExits(t *testing.T) {
	t.Parallel()
	term := startDemo(t)
	term.Expect("quotedesk")

	term.Send(KeyQuit)
	require.NoError(t, term.WaitExit(2*time.Second), "q should end the program")
}

func TestCtrlCExitsFromFilterPrompt(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Send(KeyFilter)
	term.Expect("Filter:")
	term.Send(KeyCtrlC)
	require.NoError(t, term.WaitExit(2*time.Second), "ctrl+c should end the program from any mode")
}

func TestFlagHelp(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err, "help flag should exit cleanly")
	for _, flag := range []string{"-demo", "-api", "-config", "-debug"} {
		assert.Contains(t, string(out), flag)
	}
}
