// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aibor/virtsh/internal/console"
	"github.com/google/uuid"
)

// Prompt is printed by the target shell whenever it is ready for input. It
// marks both boot completion and the end of a command's output.
const Prompt = "$ "

const listCommand = "ls"

var promptRE = regexp.MustCompile(regexp.QuoteMeta(Prompt))

// Session owns a single target process and the shell running in it.
//
// Operations are strictly request/response. Only one operation may be in
// flight at a time. The only exception is [Session.Stop], which may be called
// concurrently to abort a pending operation.
type Session struct {
	id  string
	cfg Config
	log *slog.Logger

	mu      sync.Mutex
	state   State
	child   *child
	console *console.Console
}

// New creates a new [Session] with the given [Config]. Nothing is spawned
// until [Session.Start] is called.
func New(cfg Config) *Session {
	cfg.setDefaults()

	id := uuid.NewString()

	return &Session{
		id:  id,
		cfg: cfg,
		log: cfg.Logger.With(slog.String("session", id)),
	}
}

// With starts a new [Session], calls fn with it and stops the session
// afterwards. The session is stopped on every exit path, including a failed
// start and a panic in fn.
func With(ctx context.Context, cfg Config, fn func(*Session) error) error {
	sess := New(cfg)
	defer sess.Stop() //nolint:errcheck

	err := sess.Start(ctx)
	if err != nil {
		return err
	}

	return fn(sess)
}

// ID returns the unique ID of the session. It is attached to all log records
// of the session.
func (s *Session) ID() string {
	return s.id
}

// State returns the current [State].
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Config returns the effective configuration with defaults applied.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

// Start spawns the target and blocks until the shell prompt shows up.
//
// Boot output is discarded. On failure, the session is [Stopped] and the
// target is terminated, unless [Config.KeepOnBootTimeout] is set and the boot
// timed out. In this case the session stays [Booting] and calling Start again
// resumes the wait for the prompt without spawning a new target.
//
// The returned error wraps one of [ErrConfiguration], [ErrSpawn],
// [ErrBootTimeout], [ErrPrematureExit], [ErrNotStarted] or the context error.
func (s *Session) Start(ctx context.Context) error {
	cons, err := s.spawn()
	if err != nil {
		return err
	}

	_, _, err = cons.Expect(ctx, promptRE, time.Now().Add(s.cfg.BootTimeout))
	if err != nil {
		return s.bootFailed(cons, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop may have been called while booting.
	if s.state != Booting {
		return s.error("start", "", notReady(s.state), "")
	}

	s.state = Ready
	s.trace("Boot completed")

	return nil
}

func (s *Session) spawn() (*console.Console, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Booting {
		s.trace("Resuming boot")
		return s.console, nil
	}

	if s.state != NotStarted {
		return nil, s.error("start", "", notReady(s.state), "")
	}

	err := s.cfg.validate()
	if err != nil {
		s.state = Stopped
		cause := fmt.Errorf("%w: %w", ErrConfiguration, err)

		return nil, s.error("start", "", cause, "")
	}

	cmd := exec.Command(s.cfg.Command[0], s.cfg.Command[1:]...)
	cmd.Dir = s.cfg.ProjectRoot
	cmd.Env = append(os.Environ(), s.cfg.Env...)

	proc, err := s.cfg.Spawner(cmd)
	if err != nil {
		s.state = Stopped
		cause := fmt.Errorf("%w: %w", ErrSpawn, err)

		return nil, s.error("start", "", cause, "")
	}

	s.child = newChild(s, proc)
	s.console = console.New(proc, s.cfg.Transcript)
	s.state = Booting

	s.trace("Spawned target",
		slog.String("command", cmd.String()),
		slog.Int("pid", proc.Pid()))

	return s.console, nil
}

func (s *Session) bootFailed(cons *console.Console, err error) error {
	var cause error

	switch {
	case errors.Is(err, console.ErrTimeout):
		cause = fmt.Errorf("%w after %s", ErrBootTimeout, s.cfg.BootTimeout)
		if s.cfg.KeepOnBootTimeout {
			s.trace("Keeping target after boot timeout")
			return s.failure("start", "", cause, err)
		}
	case errors.Is(err, console.ErrClosed):
		cause = closedError(cons, ErrPrematureExit)
	default:
		cause = errors.Unwrap(err)
	}

	s.release(Stopped)

	return s.failure("start", "", cause, err)
}

// Run sends the command to the shell and returns its output.
//
// The output is everything printed between sending the command and the next
// prompt. If the first line contains the command, it is considered an echo
// and removed. The result is trimmed of surrounding white space. An empty
// command is valid and results in empty output.
//
// The wait is bound by [Config.DefaultTimeout], or by the deadline of ctx, if
// it has one. A timeout returns [ErrCommandTimeout] and leaves the session
// [Ready]. The prompt of the timed out command is still pending then, and the
// next Run would return the rest of its output instead of its own. Wait for
// the pending prompt with [Session.WaitFor] and a pattern matching [Prompt]
// before the next Run. A ctx that is done already fails without sending the
// command.
//
// If the target exits, [ErrStreamClosed] is returned and the session is
// [Crashed]. Calls on a session that is not [Ready] fail with [ErrNotStarted]
// without any I/O.
func (s *Session) Run(ctx context.Context, command string) (string, error) {
	cons, err := s.acquire(ctx, "run", command, Ready)
	if err != nil {
		return "", err
	}

	s.trace("Sending command", slog.String("command", command))

	err = cons.Send(command)
	if err != nil {
		return "", s.waitFailed("run", command, cons, err)
	}

	raw, _, err := cons.Expect(ctx, promptRE, s.deadline(ctx))
	if err != nil {
		return "", s.waitFailed("run", command, cons, err)
	}

	output := stripEcho(raw, command)

	s.trace("Received output",
		slog.String("command", command),
		slog.String("output", output))

	return output, nil
}

// WaitFor blocks until re matches the output of the target and returns the
// matched text.
//
// Output before the match is discarded. Timeouts and failures behave like
// [Session.Run]. WaitFor is also allowed while [Booting], so a session kept
// after a boot timeout can be inspected further.
func (s *Session) WaitFor(ctx context.Context, re *regexp.Regexp) (string, error) {
	cons, err := s.acquire(ctx, "wait", re.String(), Ready, Booting)
	if err != nil {
		return "", err
	}

	_, match, err := cons.Expect(ctx, re, s.deadline(ctx))
	if err != nil {
		return "", s.waitFailed("wait", re.String(), cons, err)
	}

	s.trace("Matched pattern",
		slog.String("pattern", re.String()),
		slog.String("match", match))

	return match, nil
}

// HasFile returns true if a file with the given name is listed in the current
// directory of the target.
//
// It returns false as well if listing the directory failed. Use [Session.Run]
// directly to tell the two cases apart.
func (s *Session) HasFile(ctx context.Context, name string) bool {
	output, err := s.Run(ctx, listCommand)
	if err != nil {
		return false
	}

	return slices.Contains(strings.Fields(output), name)
}

// Stop terminates the target and waits until it is reaped.
//
// It always moves the session to [Stopped]. It is safe to call more than once
// and on a session that was never started, which has no effect. Teardown
// errors are logged in verbose mode and never returned.
func (s *Session) Stop() error {
	s.mu.Lock()

	if s.state == NotStarted {
		s.mu.Unlock()
		return nil
	}

	ch := s.child
	s.child = nil
	s.console = nil
	s.state = Stopped

	s.mu.Unlock()

	if ch == nil {
		return nil
	}

	s.trace("Stopping target", slog.Int("pid", ch.proc.Pid()))

	err := ch.release()
	if err != nil {
		s.trace("Failed to stop target", slog.Any("error", err))
	}

	return nil
}

// acquire returns the console if the session is in one of the allowed states
// and ctx is not done yet. Nothing is sent to the target otherwise, so the
// prompt framing stays intact.
func (s *Session) acquire(
	ctx context.Context,
	op, command string,
	allowed ...State,
) (*console.Console, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(allowed, s.state) {
		return nil, s.error(op, command, notReady(s.state), "")
	}

	err := ctx.Err()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrCommandTimeout
		}

		return nil, s.error(op, command, err, "")
	}

	return s.console, nil
}

func (s *Session) waitFailed(
	op, command string,
	cons *console.Console,
	err error,
) error {
	var cause error

	switch {
	case errors.Is(err, console.ErrTimeout):
		cause = ErrCommandTimeout
	case errors.Is(err, console.ErrClosed):
		cause = closedError(cons, ErrStreamClosed)
		s.release(Crashed)
	case errors.Is(err, &console.Error{}):
		cause = errors.Unwrap(err)
	default:
		cause = err
	}

	return s.failure(op, command, cause, err)
}

// release moves the session into the given final state, unless it is in a
// final state already, and reaps the target.
func (s *Session) release(final State) {
	s.mu.Lock()

	ch := s.child
	s.child = nil
	s.console = nil

	if !s.state.Final() {
		s.state = final
	}

	s.mu.Unlock()

	if ch == nil {
		return
	}

	err := ch.release()
	if err != nil {
		s.trace("Failed to release target", slog.Any("error", err))
	}
}

func (s *Session) deadline(ctx context.Context) time.Time {
	deadline, ok := ctx.Deadline()
	if ok {
		return deadline
	}

	return time.Now().Add(s.cfg.DefaultTimeout)
}

// failure creates an [Error] with the captured output of the console error
// err, if any, and logs it in verbose mode.
func (s *Session) failure(op, command string, cause, err error) error {
	var (
		captured string
		consErr  *console.Error
	)

	if errors.As(err, &consErr) {
		captured = consErr.Captured
	}

	sessErr := s.error(op, command, cause, captured)

	s.trace("Operation failed",
		slog.String("op", op),
		slog.String("state", s.State().String()),
		slog.String("captured", captured),
		slog.Any("error", cause))

	return sessErr
}

func (s *Session) error(op, command string, err error, captured string) error {
	return &Error{
		Op:       op,
		Command:  command,
		Captured: captured,
		Err:      err,
		verbose:  s.cfg.Verbose,
	}
}

// trace logs the given message if the session is verbose.
func (s *Session) trace(msg string, attrs ...slog.Attr) {
	if !s.cfg.Verbose {
		return
	}

	s.log.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

func notReady(state State) error {
	return fmt.Errorf("%w: %s", ErrNotStarted, state)
}

func closedError(cons *console.Console, err error) error {
	if cons.Panicked() {
		return fmt.Errorf("%w: %w", err, ErrGuestPanic)
	}

	return err
}
