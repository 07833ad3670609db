// Package search composes the buyer-facing search pipeline: catalog fetch,
// localization, recommendations, query normalization and voice input, all
// owned by one Session per buyer.
package search

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"lokai/models"
	"lokai/services/geolocation"
	"lokai/services/speech"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseLoading     Phase = "loading"
	PhaseListening   Phase = "listening"
	PhaseTranslating Phase = "translating"
	PhaseReady       Phase = "ready"
)

var (
	ErrSuperseded    = errors.New("search superseded by a newer submission")
	ErrSessionClosed = errors.New("search session closed")
)

// Catalog is the approved-vendor source a session loads from.
type Catalog interface {
	FetchApproved(ctx context.Context) ([]models.VendorRecord, error)
}

// Dependencies are built once at startup and shared by every session.
type Dependencies struct {
	Catalog     Catalog
	Normalizer  *Normalizer
	Localizer   *Localizer
	Recommender *Recommender
	Recognizer  speech.Recognizer
	Logger      *zap.Logger
}

// Options are the per-session inputs.
type Options struct {
	Language models.LanguageCode
	// Locator acquires positions when the client does not report one.
	Locator geolocation.Locator
}

type Session struct {
	id     string
	deps   Dependencies
	logger *zap.Logger
	geo    *geolocation.Provider
	voice  *speech.Adapter

	// ctx ends when the session is closed; all background work derives
	// from it.
	ctx    context.Context
	cancel context.CancelFunc

	// submitSlot admits one normalization at a time.
	submitSlot chan struct{}

	mu              sync.Mutex
	phase           Phase
	lang            models.LanguageCode
	vendors         []models.VendorRecord
	localized       []models.VendorRecord
	recommendations *models.RecommendationSet
	recsStale       bool
	query           *models.SearchQuery
	results         []models.VendorRecord
	notices         []Notice
	pendingLoads    int
	pendingLocalize int
	pendingRecs     int
	localizeGen     uint64
	recsGen         uint64
	searchGen       uint64
	cancelSubmit    context.CancelFunc
	loadedAt        time.Time
	closed          bool
}

func NewSession(id string, deps Dependencies, opts Options) *Session {
	lang := opts.Language
	if lang == "" {
		lang = models.DefaultLanguage
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:         id,
		deps:       deps,
		logger:     deps.Logger.With(zap.String("component", "search-session"), zap.String("session", id)),
		geo:        geolocation.NewProvider(opts.Locator),
		ctx:        ctx,
		cancel:     cancel,
		submitSlot: make(chan struct{}, 1),
		phase:      PhaseIdle,
		lang:       lang,
		vendors:    []models.VendorRecord{},
		localized:  []models.VendorRecord{},
	}
	s.voice = speech.NewAdapter(deps.Recognizer, deps.Logger,
		speech.WithInterimObserver(func(t string) { s.logger.Debug("interim transcript", zap.String("transcript", t)) }),
		speech.WithNoticeHandler(func(error) { s.notify(MsgMicrophoneDenied) }),
	)
	return s
}

func (s *Session) ID() string { return s.id }

// bind ties ctx to the session lifetime.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Session) notify(key MessageKey) {
	s.mu.Lock()
	s.notices = append(s.notices, newNotice(s.lang, key))
	s.mu.Unlock()
}

// Load fetches the catalog and derives the localized list and the
// recommendations concurrently. A failed fetch keeps the previous list and
// leaves a notice.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.pendingLoads++
	if s.phase == PhaseIdle || s.phase == PhaseReady {
		s.phase = PhaseLoading
	}
	s.mu.Unlock()

	ctx, cancel := s.bind(ctx)
	defer cancel()

	vendors, err := s.deps.Catalog.FetchApproved(ctx)

	s.mu.Lock()
	s.pendingLoads--
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err != nil {
		s.notices = append(s.notices, newNotice(s.lang, MsgCatalogUnavailable))
		s.logger.Warn("catalog fetch failed, keeping previous list", zap.Error(err))
		if len(vendors) == 0 {
			s.finishLoadLocked()
			s.mu.Unlock()
			return nil
		}
	}
	if vendors == nil {
		vendors = []models.VendorRecord{}
	}
	s.vendors = vendors
	s.localized = models.CloneVendors(vendors)
	s.loadedAt = time.Now()
	s.refilterLocked()
	s.finishLoadLocked()
	s.mu.Unlock()

	s.derive(ctx, true)
	return nil
}

// settleLocked ends a translation or a capture, falling back to loading
// while a catalog fetch is still in flight.
func (s *Session) settleLocked() {
	if s.pendingLoads > 0 {
		s.phase = PhaseLoading
		return
	}
	s.phase = PhaseReady
}

// finishLoadLocked ends the loading phase once the last fetch is done. A
// translation or a capture started meanwhile keeps its phase.
func (s *Session) finishLoadLocked() {
	if s.phase == PhaseLoading && s.pendingLoads == 0 {
		s.phase = PhaseReady
	}
}

// Refresh re-issues the catalog fetch.
func (s *Session) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// derive recomputes the localized list and, when no search is active, the
// recommendations. Only the newest result of each kind is committed.
func (s *Session) derive(ctx context.Context, localize bool) {
	s.mu.Lock()
	vendors := s.vendors
	lang := s.lang
	position := s.geo.State().Point()

	var locGen, recGen uint64
	if localize {
		s.localizeGen++
		locGen = s.localizeGen
		s.pendingLocalize++
	}
	recommend := s.query == nil
	if recommend {
		s.recsGen++
		recGen = s.recsGen
		s.pendingRecs++
	} else {
		s.recsStale = true
	}
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	if localize {
		g.Go(func() error {
			out := s.deps.Localizer.Localize(gctx, vendors, lang)
			s.commitLocalized(gctx, locGen, out)
			return nil
		})
	}
	if recommend {
		g.Go(func() error {
			set := s.deps.Recommender.Recommend(gctx, vendors, position, lang)
			s.commitRecommendations(gctx, recGen, set)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Session) commitLocalized(ctx context.Context, gen uint64, out []models.VendorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingLocalize--
	if s.closed || gen != s.localizeGen || ctx.Err() != nil {
		return
	}
	s.localized = out
	s.refilterLocked()
}

func (s *Session) commitRecommendations(ctx context.Context, gen uint64, set *models.RecommendationSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingRecs--
	if s.closed || gen != s.recsGen || ctx.Err() != nil {
		return
	}
	s.recommendations = set
	s.recsStale = false
}

func (s *Session) refilterLocked() {
	if s.query == nil {
		s.results = nil
		return
	}
	s.results = Filter(s.localized, s.vendors, s.query.Normalized)
}

// Submit normalizes raw and filters the catalog with the result. A newer
// submission supersedes this one: its pending normalization is cancelled
// and Submit returns ErrSuperseded. An empty raw clears the search.
func (s *Session) Submit(ctx context.Context, raw string) error {
	s.mu.Lock()
	lang := s.lang
	s.mu.Unlock()
	return s.submit(ctx, raw, lang)
}

func (s *Session) submit(ctx context.Context, raw string, lang models.LanguageCode) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.searchGen++
	gen := s.searchGen
	if s.cancelSubmit != nil {
		s.cancelSubmit()
		s.cancelSubmit = nil
	}

	if strings.TrimSpace(raw) == "" {
		s.query = nil
		s.results = nil
		s.settleLocked()
		stale := s.recsStale || s.recommendations == nil
		s.mu.Unlock()
		if stale {
			ctx, cancel := s.bind(ctx)
			defer cancel()
			s.derive(ctx, false)
		}
		return nil
	}

	sctx, cancel := s.bind(ctx)
	s.cancelSubmit = cancel
	s.mu.Unlock()
	defer cancel()

	select {
	case s.submitSlot <- struct{}{}:
	case <-sctx.Done():
		return s.supersededOr(gen, sctx.Err())
	}
	defer func() { <-s.submitSlot }()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if gen != s.searchGen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.phase = PhaseTranslating
	s.mu.Unlock()

	q := s.deps.Normalizer.Normalize(sctx, raw, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if gen != s.searchGen {
		return ErrSuperseded
	}
	if sctx.Err() != nil {
		s.settleLocked()
		return sctx.Err()
	}
	s.query = &q
	s.refilterLocked()
	s.settleLocked()
	s.logger.Debug("search submitted",
		zap.String("raw", raw),
		zap.String("normalized", q.Normalized),
		zap.Int("results", len(s.results)),
	)
	return nil
}

func (s *Session) supersededOr(gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return ErrSessionClosed
	case gen != s.searchGen:
		return ErrSuperseded
	default:
		return err
	}
}

// Voice recognizes audio in lang and submits the final transcript. Interim
// transcripts are kept for display only. It returns speech.ErrUnsupported
// when no recognizer is available.
func (s *Session) Voice(ctx context.Context, audio []byte, lang models.LanguageCode) error {
	if !s.voice.IsSupported() {
		s.notify(MsgVoiceUnsupported)
		return speech.ErrUnsupported
	}
	if lang == "" {
		s.mu.Lock()
		lang = s.lang
		s.mu.Unlock()
	}

	final := make(chan string, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.phase = PhaseListening
	s.mu.Unlock()

	ctx, cancel := s.bind(ctx)
	defer cancel()

	var reader io.Reader = bytes.NewReader(audio)
	err := s.voice.StartListening(ctx, lang, reader, func(transcript string) {
		final <- transcript
	})
	if err != nil {
		s.leaveListening()
		return err
	}
	if err := s.voice.Wait(ctx); err != nil {
		s.voice.StopListening()
		s.leaveListening()
		return err
	}

	select {
	case transcript := <-final:
		return s.submit(ctx, transcript, lang)
	default:
		s.leaveListening()
		return nil
	}
}

// StopListening aborts voice capture; the interim transcript is not
// submitted.
func (s *Session) StopListening() {
	s.voice.StopListening()
	s.leaveListening()
}

func (s *Session) leaveListening() {
	s.mu.Lock()
	if s.phase == PhaseListening {
		s.settleLocked()
	}
	s.mu.Unlock()
}

// SetLanguage switches the display language and re-derives what depends
// on it.
func (s *Session) SetLanguage(ctx context.Context, lang models.LanguageCode) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if lang == s.lang {
		s.mu.Unlock()
		return nil
	}
	s.lang = lang
	s.mu.Unlock()

	ctx, cancel := s.bind(ctx)
	defer cancel()
	s.derive(ctx, true)
	return nil
}

// RequestLocation acquires a position through the session's locator.
func (s *Session) RequestLocation(ctx context.Context) (models.GeoPosition, error) {
	return s.locate(ctx, func(ctx context.Context) (models.GeoPosition, bool) {
		return s.geo.RequestLocation(ctx)
	})
}

// ReportLocation applies a fix reported by the client platform. An empty
// fix falls back to the session's locator.
func (s *Session) ReportLocation(ctx context.Context, fix geolocation.Fix) (models.GeoPosition, error) {
	if fix.Empty() {
		return s.RequestLocation(ctx)
	}
	return s.locate(ctx, func(ctx context.Context) (models.GeoPosition, bool) {
		return s.geo.Report(ctx, fix)
	})
}

func (s *Session) locate(ctx context.Context, acquire func(context.Context) (models.GeoPosition, bool)) (models.GeoPosition, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return models.GeoPosition{}, ErrSessionClosed
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()

	pos, first := acquire(ctx)
	switch pos.State {
	case models.GeoDenied:
		s.notify(MsgLocationDenied)
	case models.GeoFailed:
		s.notify(MsgLocationFailed)
	}
	if first {
		s.derive(ctx, false)
	}
	return pos, nil
}

// Close aborts voice capture and pending work. Results that complete later
// are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancelSubmit != nil {
		s.cancelSubmit()
	}
	s.mu.Unlock()

	s.voice.Close()
	s.cancel()
}

// Snapshot is the read model of a session.
type Snapshot struct {
	ID                string                    `json:"id"`
	Phase             Phase                     `json:"phase"`
	Language          models.LanguageCode       `json:"language"`
	LanguageName      string                    `json:"languageName"`
	Vendors           []models.VendorRecord     `json:"vendors"`
	TotalVendors      int                       `json:"totalVendors"`
	Query             *models.SearchQuery       `json:"query,omitempty"`
	Recommendations   *models.RecommendationSet `json:"recommendations,omitempty"`
	Location          models.GeoPosition        `json:"location"`
	LocationLoading   bool                      `json:"locationLoading"`
	PermissionDenied  bool                      `json:"permissionDenied"`
	Transcript        string                    `json:"transcript"`
	Listening         bool                      `json:"listening"`
	InputDisabled     bool                      `json:"inputDisabled"`
	VoiceSupported    bool                      `json:"voiceSupported"`
	LocationSupported bool                      `json:"locationSupported"`
	StatusMessage     string                    `json:"statusMessage,omitempty"`
	Notices           []Notice                  `json:"notices"`
	LoadedAt          time.Time                 `json:"loadedAt,omitzero"`
}

// Snapshot returns the current state and drains pending notices; each
// notice is delivered once.
func (s *Session) Snapshot() Snapshot {
	pos := s.geo.State()
	transcript := s.voice.Transcript()
	listening := s.voice.State() == speech.Listening

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:                s.id,
		Phase:             s.phase,
		Language:          s.lang,
		LanguageName:      s.lang.Name(),
		TotalVendors:      len(s.vendors),
		Location:          pos,
		LocationLoading:   pos.Loading(),
		PermissionDenied:  pos.PermissionDenied(),
		Transcript:        transcript,
		Listening:         listening,
		InputDisabled:     s.inputDisabledLocked(),
		VoiceSupported:    s.voice.IsSupported(),
		LocationSupported: s.geo.Supported(),
		Notices:           s.notices,
		LoadedAt:          s.loadedAt,
	}
	if snap.Notices == nil {
		snap.Notices = []Notice{}
	}
	s.notices = nil

	if s.query != nil {
		q := *s.query
		snap.Query = &q
		snap.Vendors = models.CloneVendors(s.results)
	} else {
		snap.Vendors = models.CloneVendors(s.localized)
		snap.Recommendations = s.recommendations
	}
	if snap.Vendors == nil {
		snap.Vendors = []models.VendorRecord{}
	}

	switch {
	case s.phase == PhaseLoading:
		snap.StatusMessage = Message(s.lang, MsgLoading)
	case s.phase == PhaseListening:
		snap.StatusMessage = Message(s.lang, MsgSpeakNow)
	case s.phase == PhaseTranslating:
		snap.StatusMessage = Message(s.lang, MsgSearching)
	case pos.Loading():
		snap.StatusMessage = Message(s.lang, MsgDetectingLocation)
	case s.phase == PhaseReady && len(snap.Vendors) == 0:
		snap.StatusMessage = Message(s.lang, MsgNoResults)
	}
	return snap
}

func (s *Session) inputDisabledLocked() bool {
	return s.phase == PhaseLoading || s.phase == PhaseTranslating ||
		s.pendingLoads > 0 || s.pendingLocalize > 0 || s.pendingRecs > 0
}
