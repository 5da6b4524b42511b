package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Fathima1123/mom-realtime/internal/service/transcribe"
)

// drainTimeout bounds how long a closing session waits for the engine to
// flush trailing results.
const drainTimeout = 5 * time.Second

// State of one transcription session.
type State int32

const (
	StateInitializing State = iota
	StateStreaming
	StateClosing
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ClientConn is the session's view of the client duplex channel.
type ClientConn interface {
	// ReadFrame returns the next audio frame from the client. io.EOF means
	// the client finished cleanly (close handshake or explicit stop).
	ReadFrame() ([]byte, error)

	// WriteTranscript pushes one finalized transcript message.
	WriteTranscript(text string) error

	// Close shuts the client connection. Must be idempotent.
	Close() error
}

// errEngineClosed marks the engine-side stream ending. During streaming that
// is an unrecoverable transport failure; during teardown it is the expected
// end of the drain.
var errEngineClosed = errors.New("session: engine stream closed")

// Engine runs transcription sessions: one audio uplink and one transcript
// downlink per client, joined by the session lifecycle.
type Engine struct {
	registry *Registry
	opener   transcribe.Opener
}

func NewEngine(registry *Registry, opener transcribe.Opener) *Engine {
	return &Engine{registry: registry, opener: opener}
}

// Registry exposes the engine's session table.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Run drives one session from accept to teardown and blocks until both
// pump directions have stopped. A nil return means the session closed
// cleanly; any error means it failed and the client saw a dropped
// connection. Either way the session is gone from the registry and no
// background work survives the call.
func (e *Engine) Run(ctx context.Context, client ClientConn) error {
	id := e.registry.Create()

	r := &run{id: id, client: client}
	r.setState(StateInitializing)
	log.Printf("[session] %s open (live=%d)", id, e.registry.Len())

	defer func() {
		transcript := e.registry.Remove(id)
		_ = client.Close()
		// The buffer is surrendered here; nothing retains it after the
		// session ends.
		log.Printf("[session] %s %s, %d fragment(s) discarded", id, r.state(), len(transcript))
	}()

	stream, err := e.opener.Open(ctx)
	if err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("session %s: open engine stream: %w", id, err)
	}

	r.setState(StateStreaming)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errc <- r.pumpAudio(ctx, stream)
	}()
	go func() {
		defer wg.Done()
		errc <- e.pumpTranscripts(ctx, r, stream)
	}()

	// The first direction to stop decides the transition.
	first := <-errc

	if first == nil {
		// Clean end of audio. Finish the engine side first and keep
		// draining so trailing finalized results still reach the client,
		// then let the deferred teardown close the client. The drain is
		// bounded so a wedged engine cannot hold the session open.
		r.setState(StateClosing)
		stream.Close()
		select {
		case second := <-errc:
			if second != nil && !errors.Is(second, errEngineClosed) {
				log.Printf("[session] %s drain: %v", id, second)
			}
		case <-time.After(drainTimeout):
			log.Printf("[session] %s drain timed out", id)
		}
		cancel()
		wg.Wait()
		r.setState(StateClosed)
		return nil
	}

	// Unrecoverable error on either channel: abrupt teardown of both sides.
	r.setState(StateFailed)
	cancel()
	stream.Close()
	_ = client.Close()
	wg.Wait()
	return fmt.Errorf("session %s: %w", id, first)
}

type run struct {
	id     string
	client ClientConn
	st     atomic.Int32
}

func (r *run) setState(s State) {
	r.st.Store(int32(s))
}

func (r *run) state() State {
	return State(r.st.Load())
}

// pumpAudio forwards client audio frames to the engine verbatim, in arrival
// order. Returns nil only on a clean client end of audio.
func (r *run) pumpAudio(ctx context.Context, stream transcribe.Stream) error {
	for {
		frame, err := r.client.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				// Teardown already in progress; the read was unblocked
				// by the connection being closed under us.
				return ctx.Err()
			}
			return fmt.Errorf("client read: %w", err)
		}
		if len(frame) == 0 {
			continue
		}
		if err := stream.Send(frame); err != nil {
			return fmt.Errorf("engine send: %w", err)
		}
	}
}

// pumpTranscripts forwards finalized engine fragments to the client in
// emission order. Interim fragments and whitespace-only finals are dropped.
func (e *Engine) pumpTranscripts(ctx context.Context, r *run, stream transcribe.Stream) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frag, ok := <-stream.Results():
			if !ok {
				return errEngineClosed
			}
			if !frag.IsFinal {
				continue
			}
			text := strings.TrimSpace(frag.Text)
			if text == "" {
				continue
			}
			if !e.registry.Append(r.id, text) {
				return fmt.Errorf("session %s no longer registered", r.id)
			}
			if err := r.client.WriteTranscript(text); err != nil {
				return fmt.Errorf("client write: %w", err)
			}
		}
	}
}
