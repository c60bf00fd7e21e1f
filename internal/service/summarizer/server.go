package summarizer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Taichi-iskw/yt-summary/internal/service/common"
)

// stopTimeout is how long StopServer waits for the server to exit before killing it
const stopTimeout = 5 * time.Second

// serverRequest is one line sent to the model server
type serverRequest struct {
	Text      string `json:"text"`
	MinLength int    `json:"min_length"`
	MaxLength int    `json:"max_length"`
}

// serverResponse is one line received from the model server
type serverResponse struct {
	SummaryText string `json:"summary_text"`
	Error       string `json:"error"`
}

// ServerModel runs a local summarization model as a long-lived process
// speaking one JSON document per line over stdin/stdout.
//
// The process reads requests like
//
//	{"text": "...", "min_length": 40, "max_length": 150}
//
// and answers each with {"summary_text": "..."} or {"error": "..."} on its own line.
// Requests are served one at a time; closing stdin asks the process to exit.
type ServerModel struct {
	cmdRunner common.CmdRunner
	command   string
	args      []string
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	process common.Process
	reader  *bufio.Reader
}

// NewServerModel creates a new model server wrapper. The process starts on first use.
// timeout bounds each request once it holds the server (0 means none).
func NewServerModel(cmdRunner common.CmdRunner, command string, args []string, timeout time.Duration, logger *slog.Logger) *ServerModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerModel{
		cmdRunner: cmdRunner,
		command:   command,
		args:      args,
		timeout:   timeout,
		logger:    logger,
	}
}

// StartServer starts the model server if not already running
func (s *ServerModel) StartServer(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx)
}

func (s *ServerModel) startLocked(ctx context.Context) error {
	if s.process != nil {
		return nil
	}

	// The server outlives the request that starts it
	process, err := s.cmdRunner.Start(context.WithoutCancel(ctx), s.command, s.args...)
	if err != nil {
		return fmt.Errorf("failed to start model server: %w", err)
	}

	s.logger.Info("model server started", slog.String("command", s.command))
	s.process = process
	s.reader = bufio.NewReader(process.Stdout())
	return nil
}

// StopServer stops the model server, killing it if it does not exit in time
func (s *ServerModel) StopServer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.process == nil {
		return nil
	}

	process := s.process
	s.process = nil
	s.reader = nil

	// Closing stdin tells the server to exit
	if err := process.Stdin().Close(); err != nil {
		s.logger.Debug("closing model server stdin", slog.Any("err", err))
	}

	done := make(chan error, 1)
	go func() { done <- process.Wait() }()

	select {
	case err := <-done:
		s.logger.Info("model server stopped")
		return err
	case <-time.After(stopTimeout):
		s.logger.Warn("model server did not exit, killing it")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill model server: %w", err)
		}
		<-done
		return nil
	}
}

// Close implements io.Closer
func (s *ServerModel) Close() error {
	return s.StopServer()
}

// Summarize sends text to the model server and waits for its summary
func (s *ServerModel) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.startLocked(ctx); err != nil {
		return "", err
	}

	// Time spent queued behind other requests or starting the server does not count
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(serverRequest{Text: text, MinLength: minLength, MaxLength: maxLength})
	if err != nil {
		return "", fmt.Errorf("failed to encode model request: %w", err)
	}
	if _, err := s.process.Stdin().Write(append(payload, '\n')); err != nil {
		s.resetLocked()
		return "", fmt.Errorf("failed to send model request: %w", err)
	}

	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	reader := s.reader
	go func() {
		line, err := reader.ReadBytes('\n')
		ch <- result{line: line, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		// The pending response would be read by the next request, so the server is discarded
		s.resetLocked()
		return "", ctx.Err()
	case r = <-ch:
	}

	if r.err != nil {
		s.resetLocked()
		if errors.Is(r.err, io.EOF) {
			return "", fmt.Errorf("model server %q exited without answering; it must speak the JSON lines protocol on stdin/stdout: %w", s.command, r.err)
		}
		return "", fmt.Errorf("failed to read model response: %w", r.err)
	}

	var resp serverResponse
	if err := json.Unmarshal(r.line, &resp); err != nil {
		return "", fmt.Errorf("invalid model response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("model server error: %s", resp.Error)
	}

	summary := strings.TrimSpace(resp.SummaryText)
	if summary == "" {
		return "", errors.New("empty response from model server")
	}
	return summary, nil
}

// resetLocked kills the current process so the next call starts a fresh one
func (s *ServerModel) resetLocked() {
	if s.process == nil {
		return
	}
	if err := s.process.Kill(); err != nil {
		s.logger.Debug("killing model server", slog.Any("err", err))
	}
	process := s.process
	go func() { _ = process.Wait() }()
	s.process = nil
	s.reader = nil
}
