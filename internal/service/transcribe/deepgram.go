package transcribe

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
)

// Audio format accepted from clients. These are service constants, never
// client-supplied: linear PCM, 16-bit signed samples, mono.
const (
	Encoding   = "linear16"
	Channels   = 1
	SampleRate = 16000
)

// releaseAfter bounds how long emits may keep blocking after Close. It must
// outlast the session drain window so flushed trailing finals still get
// through.
const releaseAfter = 10 * time.Second

// Config holds the fixed live-transcription parameters for Deepgram.
type Config struct {
	APIKey   string
	Model    string
	Language string
}

// Deepgram opens live transcription streams against the Deepgram API.
type Deepgram struct {
	cfg Config
}

func NewDeepgram(cfg Config) *Deepgram {
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	return &Deepgram{cfg: cfg}
}

// Open establishes the live websocket connection. The returned stream is
// ready to accept audio once Open returns without error.
func (d *Deepgram) Open(ctx context.Context) (Stream, error) {
	cOptions := &interfaces.ClientOptions{
		EnableKeepAlive: true,
	}
	tOptions := &interfaces.LiveTranscriptionOptions{
		Model:          d.cfg.Model,
		Language:       d.cfg.Language,
		Punctuate:      true,
		Encoding:       Encoding,
		Channels:       Channels,
		SampleRate:     SampleRate,
		SmartFormat:    true,
		InterimResults: true,
	}

	h := newDeepgramHandler()

	client, err := listen.NewWebSocket(ctx, d.cfg.APIKey, cOptions, tOptions, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	if !client.Connect() {
		return nil, fmt.Errorf("%w: websocket dial to deepgram rejected", ErrConnect)
	}

	return &deepgramStream{client: client, h: h}, nil
}

type deepgramStream struct {
	client *listen.WSCallback
	h      *deepgramHandler
	stop   sync.Once
}

func (s *deepgramStream) Send(data []byte) error {
	select {
	case <-s.h.done:
		return ErrStreamClosed
	default:
	}
	if err := s.client.WriteBinary(data); err != nil {
		return fmt.Errorf("%w: %v", ErrStreamClosed, err)
	}
	return nil
}

func (s *deepgramStream) Results() <-chan Fragment {
	return s.h.results
}

// Close asks Deepgram to finish the stream. Pending results are flushed by
// the remote before it closes, which ends the Results channel; the consumer
// must keep draining until then so no flushed final is lost. The handler is
// released only after the drain window, as a backstop for a remote that
// never acknowledges the finish.
func (s *deepgramStream) Close() {
	s.stop.Do(func() {
		closeStream(s.client.Stop, s.h)
	})
}

// closeStream orders the graceful finish: signal the remote first and keep
// the handler live so the flush can drain; release is only a delayed
// backstop.
func closeStream(stop func(), h *deepgramHandler) {
	stop()
	time.AfterFunc(releaseAfter, h.release)
}

// deepgramHandler receives SDK callbacks on the client's read goroutine and
// turns transcript events into fragments. The results channel is closed only
// from that goroutine (Close or Error callback), so sends never race the
// close.
type deepgramHandler struct {
	results chan Fragment
	done    chan struct{}

	releaseOnce sync.Once
	finishOnce  sync.Once
}

func newDeepgramHandler() *deepgramHandler {
	return &deepgramHandler{
		results: make(chan Fragment, 64),
		done:    make(chan struct{}),
	}
}

// release unblocks any pending emit once the consumer is gone.
func (h *deepgramHandler) release() {
	h.releaseOnce.Do(func() { close(h.done) })
}

func (h *deepgramHandler) finish() {
	h.finishOnce.Do(func() { close(h.results) })
}

func (h *deepgramHandler) emit(f Fragment) {
	select {
	case h.results <- f:
	case <-h.done:
	}
}

func (h *deepgramHandler) Open(or *api.OpenResponse) error {
	log.Printf("[deepgram] stream open")
	return nil
}

func (h *deepgramHandler) Message(mr *api.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	h.emit(Fragment{
		Text:    mr.Channel.Alternatives[0].Transcript,
		IsFinal: mr.IsFinal,
	})
	return nil
}

func (h *deepgramHandler) Metadata(md *api.MetadataResponse) error {
	return nil
}

func (h *deepgramHandler) SpeechStarted(ssr *api.SpeechStartedResponse) error {
	return nil
}

func (h *deepgramHandler) UtteranceEnd(ur *api.UtteranceEndResponse) error {
	return nil
}

func (h *deepgramHandler) Close(cr *api.CloseResponse) error {
	log.Printf("[deepgram] stream closed: %s", cr.Type)
	h.finish()
	return nil
}

func (h *deepgramHandler) Error(er *api.ErrorResponse) error {
	log.Printf("[deepgram] stream error: %s: %s", er.Type, er.Description)
	h.finish()
	return nil
}

func (h *deepgramHandler) UnhandledEvent(byData []byte) error {
	log.Printf("[deepgram] unhandled event: %s", string(byData))
	return nil
}
