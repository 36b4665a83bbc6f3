//go:build e2e && unix

package main

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

const (
	maxOutput     = 1 << 20
	keyPause      = 30 * time.Millisecond
	expectTimeout = 3 * time.Second
	pollInterval  = 25 * time.Millisecond
)

// Keys as the terminal sends them
const (
	KeyEnter  = "\r"
	KeyEsc    = "\x1b"
	KeyCtrlC  = "\x03"
	KeySpace  = " "
	KeyDown   = "j"
	KeyQuit   = "q"
	KeyFilter = "/"
)

var errExitTimeout = errors.New("process still running")

// Terminal runs the quotedesk binary on a pseudo terminal and keeps
// everything it draws. Each terminal gets its own $HOME.
type Terminal struct {
	t    *testing.T
	home string
	cmd  *exec.Cmd
	ptmx *os.File

	mu     sync.Mutex
	out    []byte
	exited chan error
}

func newTerminal(t *testing.T) *Terminal {
	t.Helper()
	term := &Terminal{t: t, home: t.TempDir()}
	t.Cleanup(term.close)
	return term
}

// Start launches the binary with args at 120x40 and waits for it to
// report that the UI is about to take over the screen.
func (term *Terminal) Start(args ...string) {
	term.t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LANG=C.UTF-8",
		"HOME="+term.home,
		"XDG_CONFIG_HOME="+term.home+"/.config",
		"QUOTEDESK_E2E_TEST=1",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 40, Cols: 120})
	require.NoError(term.t, err, "start quotedesk")
	term.cmd = cmd
	term.ptmx = ptmx
	term.exited = make(chan error, 1)

	go term.read()
	go func() { term.exited <- cmd.Wait() }()

	term.waitRaw("__READY__", 5*time.Second)
}

func (term *Terminal) read() {
	buf := make([]byte, 8192)
	for {
		n, err := term.ptmx.Read(buf)
		if n > 0 {
			term.mu.Lock()
			term.out = append(term.out, buf[:n]...)
			if len(term.out) > maxOutput {
				term.out = append([]byte(nil), term.out[len(term.out)-maxOutput/2:]...)
			}
			term.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes each key with a short pause so debounced input settles in
// the same order a person would type it.
func (term *Terminal) Send(keys ...string) {
	term.t.Helper()
	for _, k := range keys {
		_, err := term.ptmx.Write([]byte(k))
		require.NoError(term.t, err, "send %q", k)
		time.Sleep(keyPause)
	}
}

// Type sends text one rune at a time
func (term *Terminal) Type(text string) {
	term.t.Helper()
	for _, r := range text {
		term.Send(string(r))
	}
}

// Filter opens the filter prompt, types text and submits it
func (term *Terminal) Filter(text string) {
	term.t.Helper()
	term.Send(KeyFilter)
	term.Type(text)
	term.Send(KeyEnter)
}

// Plain returns the output so far without escape sequences
func (term *Terminal) Plain() string {
	term.mu.Lock()
	raw := string(term.out)
	term.mu.Unlock()
	return strings.ReplaceAll(ansi.Strip(raw), "\r", "")
}

// Expect fails the test unless text shows up on screen in time
func (term *Terminal) Expect(text string) {
	term.t.Helper()
	term.ExpectWithin(text, expectTimeout)
}

// ExpectWithin is Expect with an explicit timeout
func (term *Terminal) ExpectWithin(text string, timeout time.Duration) {
	term.t.Helper()
	if !poll(timeout, func() bool { return strings.Contains(term.Plain(), text) }) {
		term.t.Fatalf("waiting for %q\n--- screen tail ---\n%s", text, tail(term.Plain(), 4096))
	}
}

// ExpectAfter waits for text to appear in output drawn after mark
func (term *Terminal) ExpectAfter(mark int, text string) {
	term.t.Helper()
	ok := poll(expectTimeout, func() bool {
		s := term.Plain()
		return len(s) > mark && strings.Contains(s[mark:], text)
	})
	if !ok {
		term.t.Fatalf("waiting for %q after byte %d\n--- screen tail ---\n%s", text, mark, tail(term.Plain(), 4096))
	}
}

// Mark returns the current length of the plain output, for ExpectAfter
func (term *Terminal) Mark() int {
	return len(term.Plain())
}

func (term *Terminal) waitRaw(text string, timeout time.Duration) {
	term.t.Helper()
	ok := poll(timeout, func() bool {
		term.mu.Lock()
		defer term.mu.Unlock()
		return strings.Contains(string(term.out), text)
	})
	require.True(term.t, ok, "no %q from quotedesk\n%s", text, tail(term.Plain(), 2048))
}

// WaitExit waits for the process to end
func (term *Terminal) WaitExit(timeout time.Duration) error {
	select {
	case err := <-term.exited:
		term.cmd = nil
		return err
	case <-time.After(timeout):
		return errExitTimeout
	}
}

// close hangs up the terminal and reaps the process
func (term *Terminal) close() {
	if term.ptmx != nil {
		_ = term.ptmx.Close()
		term.ptmx = nil
	}
	if term.cmd != nil && term.cmd.Process != nil {
		_ = term.cmd.Process.Kill()
		<-term.exited
		term.cmd = nil
	}
}

func poll(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
	return true
}

func tail(s string, n int) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
