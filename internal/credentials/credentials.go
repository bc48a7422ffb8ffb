package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrSelectionCancelled is returned when the user declines to enter a key
var ErrSelectionCancelled = errors.New("key selection cancelled")

// Store holds the API key used by the gateway. It can be replaced at runtime.
type Store struct {
	mu  sync.RWMutex
	key string
}

func NewStore(key string) *Store {
	return &Store{key: key}
}

func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

func (s *Store) Set(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = strings.TrimSpace(key)
}

// TerminalBridge asks for an API key on a terminal when none is selected.
type TerminalBridge struct {
	store  *Store
	reader *bufio.Reader
	out    io.Writer

	mu sync.Mutex
	// pending is the line read still in flight; a cancelled prompt leaves it
	// for the next one.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewTerminalBridge returns a bridge that prompts on out and reads one line from in
func NewTerminalBridge(store *Store, in io.Reader, out io.Writer) *TerminalBridge {
	return &TerminalBridge{store: store, reader: bufio.NewReader(in), out: out}
}

// HasSelectedKey reports whether the store already holds a key
func (b *TerminalBridge) HasSelectedKey(ctx context.Context) (bool, error) {
	return b.store.APIKey() != "", nil
}

// SelectKey prompts for a key and stores it. An empty line cancels.
func (b *TerminalBridge) SelectKey(ctx context.Context) error {
	if _, err := fmt.Fprint(b.out, "Gemini API key required.\nAPI key (empty to skip): "); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-b.readLine():
		b.mu.Lock()
		b.pending = nil
		b.mu.Unlock()

		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return fmt.Errorf("failed to read key: %w", res.err)
		}
		key := strings.TrimSpace(res.line)
		if key == "" {
			return ErrSelectionCancelled
		}
		b.store.Set(key)
		return nil
	}
}

// readLine starts a read unless one is already in flight. Only one goroutine
// ever reads from the terminal at a time.
func (b *TerminalBridge) readLine() <-chan readResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		ch := make(chan readResult, 1)
		b.pending = ch
		go func() {
			line, err := b.reader.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
	}
	return b.pending
}
