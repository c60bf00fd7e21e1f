package summarizer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Taichi-iskw/yt-summary/internal/service/common"
)

var errKilled = errors.New("killed")

// mockCmdRunner implements common.CmdRunner for testing
type mockCmdRunner struct {
	RunFunc   func(ctx context.Context, name string, args ...string) ([]byte, error)
	StartFunc func(ctx context.Context, name string, args ...string) (common.Process, error)

	starts atomic.Int32
}

func (m *mockCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return nil, errors.New("unexpected Run call")
}

func (m *mockCmdRunner) Start(ctx context.Context, name string, args ...string) (common.Process, error) {
	m.starts.Add(1)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, name, args...)
	}
	return nil, errors.New("unexpected Start call")
}

// fakeProcess is an in-memory model server speaking the JSON lines protocol
type fakeProcess struct {
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	done   chan struct{}
	once   sync.Once
	killed atomic.Bool

	mu       sync.Mutex
	requests []serverRequest
}

func newFakeProcess(handle func(serverRequest) serverResponse) *fakeProcess {
	p := &fakeProcess{done: make(chan struct{})}
	p.stdinR, p.stdinW = io.Pipe()
	p.stdoutR, p.stdoutW = io.Pipe()
	go p.serve(handle)
	return p
}

func (p *fakeProcess) serve(handle func(serverRequest) serverResponse) {
	defer p.finish()

	scanner := bufio.NewScanner(p.stdinR)
	for scanner.Scan() {
		var req serverRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			return
		}
		p.mu.Lock()
		p.requests = append(p.requests, req)
		p.mu.Unlock()

		data, _ := json.Marshal(handle(req))
		if _, err := p.stdoutW.Write(append(data, '\n')); err != nil {
			return
		}
	}
}

func (p *fakeProcess) finish() {
	p.once.Do(func() {
		p.stdoutW.Close()
		close(p.done)
	})
}

func (p *fakeProcess) received() []serverRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]serverRequest(nil), p.requests...)
}

func (p *fakeProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *fakeProcess) Wait() error {
	<-p.done
	return nil
}

func (p *fakeProcess) Kill() error {
	p.killed.Store(true)
	p.stdinR.CloseWithError(errKilled)
	p.stdoutW.CloseWithError(errKilled)
	p.finish()
	return nil
}

func (p *fakeProcess) Stdin() io.WriteCloser {
	return p.stdinW
}

func (p *fakeProcess) Stdout() io.Reader {
	return p.stdoutR
}

// echoSummary answers every request with a fixed summary
func echoSummary(summary string) func(serverRequest) serverResponse {
	return func(serverRequest) serverResponse {
		return serverResponse{SummaryText: summary}
	}
}
