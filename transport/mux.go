package transport

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Mux routes commands to handlers in process. It is both an Invoker and an
// Endpoint, so a generated client can reach a host without a network, and
// it is the handler behind every server in this package.
type Mux struct {
	direct     map[string]Handler
	structured map[string]StructuredHandler
	inflight   sync.WaitGroup
	mu         sync.RWMutex
}

func NewMux() *Mux {
	return &Mux{
		direct:     make(map[string]Handler),
		structured: make(map[string]StructuredHandler),
	}
}

// Handle registers h for a direct path ("namespace/function"), replacing
// any earlier handler.
func (m *Mux) Handle(path string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.direct[path] = h
}

// HandleStructured registers h for a structured command
// ("namespace|function").
func (m *Mux) HandleStructured(command string, h StructuredHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.structured[command] = h
}

// Commands lists the registered commands and paths, sorted.
func (m *Mux) Commands() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.direct)+len(m.structured))
	for k := range m.direct {
		out = append(out, k)
	}
	for k := range m.structured {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Mux) Invoke(ctx context.Context, command string, args Args) ([]byte, error) {
	m.mu.RLock()
	h, ok := m.structured[command]
	m.mu.RUnlock()
	if !ok {
		return nil, noRoute(command)
	}
	debugf("invoke %s (%d args)", command, len(args))
	return h(ctx, args)
}

func (m *Mux) Call(ctx context.Context, path string, payload []byte) ([]byte, error) {
	h, err := m.route(path)
	if err != nil {
		return nil, err
	}
	debugf("call %s (%d bytes)", path, len(payload))
	return h(ctx, payload)
}

// Send runs the handler on its own goroutine and returns as soon as the
// path is known to be served. The handler's context is not cancelled with
// ctx; its response is dropped and a failure is only logged.
func (m *Mux) Send(ctx context.Context, path string, payload []byte) error {
	h, err := m.route(path)
	if err != nil {
		return err
	}
	debugf("send %s (%d bytes)", path, len(payload))
	p := append([]byte(nil), payload...)
	hctx := context.WithoutCancel(ctx)
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		if _, err := h(hctx, p); err != nil {
			Logger().Warn("fire-and-forget handler failed", zap.String("path", path), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every handler started by Send has returned.
func (m *Mux) Wait() {
	m.inflight.Wait()
}

func (m *Mux) route(path string) (Handler, error) {
	m.mu.RLock()
	h, ok := m.direct[path]
	m.mu.RUnlock()
	if !ok {
		return nil, noRoute(path)
	}
	return h, nil
}
