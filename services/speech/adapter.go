package speech

import (
	"context"
	"errors"
	"io"
	"sync"

	"lokai/models"

	"go.uber.org/zap"
)

type State string

const (
	Idle      State = "idle"
	Listening State = "listening"
)

// Adapter drives one recognizer through Idle -> Listening -> Idle. Only a
// final result reaches onFinal; interim results update the transcript for
// display.
type Adapter struct {
	recognizer Recognizer
	logger     *zap.Logger
	onInterim  func(string)
	onNotice   func(error)

	mu         sync.Mutex
	state      State
	transcript string
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
	closed     bool
}

type Option func(*Adapter)

// WithInterimObserver receives every interim transcript.
func WithInterimObserver(fn func(string)) Option {
	return func(a *Adapter) { a.onInterim = fn }
}

// WithNoticeHandler receives permission failures.
func WithNoticeHandler(fn func(error)) Option {
	return func(a *Adapter) { a.onNotice = fn }
}

func NewAdapter(recognizer Recognizer, logger *zap.Logger, opts ...Option) *Adapter {
	if recognizer == nil {
		recognizer = Unsupported{}
	}
	a := &Adapter{
		recognizer: recognizer,
		logger:     logger.With(zap.String("component", "speech-adapter")),
		state:      Idle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) IsSupported() bool {
	return a.recognizer.Supported()
}

func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript
}

func (a *Adapter) ClearTranscript() {
	a.mu.Lock()
	a.transcript = ""
	a.mu.Unlock()
}

// StartListening begins recognition of audio in lang. A recognition
// already in progress is aborted first. onFinal runs at most once, with
// the definitive transcript.
func (a *Adapter) StartListening(ctx context.Context, lang models.LanguageCode, audio io.Reader, onFinal func(string)) error {
	if !a.recognizer.Supported() {
		return ErrUnsupported
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.abortLocked()
	a.generation++
	gen := a.generation
	rctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.state = Listening
	a.transcript = ""
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	go a.run(rctx, gen, lang, audio, onFinal, done)
	return nil
}

func (a *Adapter) run(ctx context.Context, gen uint64, lang models.LanguageCode, audio io.Reader, onFinal func(string), done chan struct{}) {
	defer close(done)

	stream, err := a.recognizer.Recognize(ctx, lang, audio)
	if err != nil {
		a.fail(gen, err)
		return
	}

	for {
		res, err := stream.Recv()
		if err != nil {
			a.fail(gen, err)
			return
		}

		a.mu.Lock()
		if gen != a.generation {
			a.mu.Unlock()
			return
		}
		a.transcript = res.Transcript
		if !res.Final {
			a.mu.Unlock()
			if a.onInterim != nil {
				a.onInterim(res.Transcript)
			}
			continue
		}
		a.state = Idle
		a.cancel()
		a.mu.Unlock()

		a.logger.Debug("final transcript", zap.String("lang", string(lang)), zap.String("transcript", res.Transcript))
		if onFinal != nil {
			onFinal(res.Transcript)
		}
		return
	}
}

// fail returns to Idle. Only permission problems are reported.
func (a *Adapter) fail(gen uint64, err error) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.state = Idle
	a.cancel()
	a.mu.Unlock()

	switch {
	case errors.Is(err, io.EOF):
		a.logger.Debug("recognition ended without a final result")
	case errors.Is(err, ErrPermissionDenied):
		a.logger.Warn("speech permission denied", zap.Error(err))
		if a.onNotice != nil {
			a.onNotice(err)
		}
	case errors.Is(err, context.Canceled):
	default:
		a.logger.Warn("speech recognition error", zap.Error(err))
	}
}

// StopListening aborts recognition. The last interim transcript stays
// readable but is never delivered to onFinal.
func (a *Adapter) StopListening() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortLocked()
}

func (a *Adapter) abortLocked() {
	if a.state != Listening {
		return
	}
	a.generation++
	a.state = Idle
	if a.cancel != nil {
		a.cancel()
	}
}

// Wait blocks until the current recognition goroutine has returned.
func (a *Adapter) Wait(ctx context.Context) error {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close aborts any recognition and rejects further use.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortLocked()
	a.closed = true
}
