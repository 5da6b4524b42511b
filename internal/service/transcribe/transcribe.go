// Package transcribe bridges raw audio frames to a remote streaming
// speech-recognition engine and normalizes its events into fragments.
package transcribe

import (
	"context"
	"errors"
)

// Fragment is one unit of recognized text emitted by the engine. Interim
// fragments carry provisional text that a later fragment supersedes; only
// fragments with IsFinal set are stable.
type Fragment struct {
	Text    string
	IsFinal bool
}

// Stream is a live duplex connection to a recognition engine. A Stream is
// owned by exactly one session and must not be reused after Close.
type Stream interface {
	// Send forwards one raw audio frame to the engine in call order.
	Send(data []byte) error

	// Results yields fragments for the life of the connection. The channel
	// is closed when the engine ends the stream, by either party's request
	// or by error.
	Results() <-chan Fragment

	// Close requests a graceful finish. Safe to call more than once and
	// after the connection already errored.
	Close()
}

// Opener dials a recognition engine with fixed audio configuration.
type Opener interface {
	Open(ctx context.Context) (Stream, error)
}

var (
	// ErrConnect reports that the engine connection could not be
	// established. Sessions treat it as fatal before streaming starts.
	ErrConnect = errors.New("transcribe: engine connection failed")

	// ErrStreamClosed reports a send on a stream that is no longer open.
	ErrStreamClosed = errors.New("transcribe: stream closed")
)
