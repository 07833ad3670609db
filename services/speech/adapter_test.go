package speech

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"lokai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type step struct {
	res Result
	err error
}

// scriptedRecognizer replays steps; each step waits for the test to feed it.
type scriptedRecognizer struct {
	steps chan step
	err   error
}

func newScripted() *scriptedRecognizer {
	return &scriptedRecognizer{steps: make(chan step, 16)}
}

func (s *scriptedRecognizer) Supported() bool { return true }

func (s *scriptedRecognizer) Recognize(ctx context.Context, _ models.LanguageCode, _ io.Reader) (ResultStream, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &scriptedStream{ctx: ctx, steps: s.steps}, nil
}

type scriptedStream struct {
	ctx   context.Context
	steps chan step
}

func (s *scriptedStream) Recv() (Result, error) {
	select {
	case st := <-s.steps:
		return st.res, st.err
	case <-s.ctx.Done():
		return Result{}, s.ctx.Err()
	}
}

type recorder struct {
	mu       sync.Mutex
	interims []string
	finals   []string
	notices  []error
}

func (r *recorder) interim(t string) { r.mu.Lock(); r.interims = append(r.interims, t); r.mu.Unlock() }
func (r *recorder) final(t string)   { r.mu.Lock(); r.finals = append(r.finals, t); r.mu.Unlock() }
func (r *recorder) notice(err error) { r.mu.Lock(); r.notices = append(r.notices, err); r.mu.Unlock() }

func newTestAdapter(rec Recognizer, r *recorder) *Adapter {
	return NewAdapter(rec, zap.NewNop(), WithInterimObserver(r.interim), WithNoticeHandler(r.notice))
}

func waitIdle(t *testing.T, a *Adapter) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Wait(ctx))
}

func TestAdapter_InterimThenFinal(t *testing.T) {
	rec := newScripted()
	r := &recorder{}
	a := newTestAdapter(rec, r)

	require.NoError(t, a.StartListening(context.Background(), models.LangHindi, strings.NewReader(""), r.final))
	assert.Equal(t, Listening, a.State())

	for _, partial := range []string{"प्ल", "प्लंब", "प्लंबर"} {
		rec.steps <- step{res: Result{Transcript: partial}}
	}
	rec.steps <- step{res: Result{Transcript: "प्लंबर", Final: true}}
	waitIdle(t, a)

	assert.Equal(t, Idle, a.State())
	assert.Equal(t, []string{"प्ल", "प्लंब", "प्लंबर"}, r.interims)
	assert.Equal(t, []string{"प्लंबर"}, r.finals)
	assert.Equal(t, "प्लंबर", a.Transcript())
}

func TestAdapter_StopDiscardsInterim(t *testing.T) {
	rec := newScripted()
	r := &recorder{}
	observed := make(chan struct{}, 1)
	a := NewAdapter(rec, zap.NewNop(), WithInterimObserver(func(s string) {
		r.interim(s)
		observed <- struct{}{}
	}))

	require.NoError(t, a.StartListening(context.Background(), models.LangEnglish, strings.NewReader(""), r.final))
	rec.steps <- step{res: Result{Transcript: "plum"}}
	<-observed

	a.StopListening()
	assert.Equal(t, Idle, a.State())
	waitIdle(t, a)

	assert.Empty(t, r.finals)
	assert.Equal(t, "plum", a.Transcript(), "interim text stays visible")

	a.ClearTranscript()
	assert.Empty(t, a.Transcript())
}

func TestAdapter_Unsupported(t *testing.T) {
	a := NewAdapter(Unsupported{}, zap.NewNop())
	assert.False(t, a.IsSupported())
	err := a.StartListening(context.Background(), models.LangEnglish, strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, Idle, a.State())
}

func TestAdapter_PermissionDenied(t *testing.T) {
	rec := newScripted()
	rec.err = ErrPermissionDenied
	r := &recorder{}
	a := newTestAdapter(rec, r)

	require.NoError(t, a.StartListening(context.Background(), models.LangEnglish, strings.NewReader(""), r.final))
	waitIdle(t, a)

	assert.Equal(t, Idle, a.State())
	require.Len(t, r.notices, 1)
	assert.ErrorIs(t, r.notices[0], ErrPermissionDenied)
	assert.Empty(t, r.finals)
}

func TestAdapter_EngineErrorIsSilent(t *testing.T) {
	rec := newScripted()
	r := &recorder{}
	a := newTestAdapter(rec, r)

	require.NoError(t, a.StartListening(context.Background(), models.LangEnglish, strings.NewReader(""), r.final))
	rec.steps <- step{err: errors.New("network")}
	waitIdle(t, a)

	assert.Equal(t, Idle, a.State())
	assert.Empty(t, r.notices)
	assert.Empty(t, r.finals)
}

func TestAdapter_CloseRejectsFurtherUse(t *testing.T) {
	rec := newScripted()
	r := &recorder{}
	a := newTestAdapter(rec, r)

	require.NoError(t, a.StartListening(context.Background(), models.LangEnglish, strings.NewReader(""), r.final))
	a.Close()
	waitIdle(t, a)
	rec.steps <- step{res: Result{Transcript: "late", Final: true}}

	assert.Empty(t, r.finals)
	assert.ErrorIs(t, a.StartListening(context.Background(), models.LangEnglish, strings.NewReader(""), r.final), ErrClosed)
}
