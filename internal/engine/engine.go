// Package engine implements the conversational eligibility engine.
//
// The engine owns all session state. Each inbound utterance runs one turn:
// validate, extract profile facts, merge, re-score the whole catalog, advance
// the phase machine, and answer with the next question or the synthesis. The
// external store and the phrasing service are best-effort collaborators; a
// turn never fails because either of them is down.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alexandre220990/profitum-engine/internal/eligibility"
	"github.com/Alexandre220990/profitum-engine/internal/genai"
	"github.com/Alexandre220990/profitum-engine/internal/models"
	"github.com/Alexandre220990/profitum-engine/internal/profile"
	"github.com/Alexandre220990/profitum-engine/internal/store"
)

// Default session housekeeping configuration.
const (
	// DefaultInactivityTTL is how long a session survives without a new turn
	// before the janitor evicts it from memory.
	DefaultInactivityTTL = 24 * time.Hour
	// DefaultJanitorInterval is how often inactive sessions are swept.
	DefaultJanitorInterval = 10 * time.Minute
)

// Opts holds configuration options for the engine.
type Opts struct {
	Store           store.Store
	Phraser         genai.Phraser
	Products        []models.Product
	InactivityTTL   time.Duration
	JanitorInterval time.Duration
	Clock           func() time.Time
}

// Option defines a configuration option for the engine.
type Option func(*Opts)

// WithStore sets the persistence backend for snapshots and eligible-product
// records.
func WithStore(s store.Store) Option {
	return func(o *Opts) {
		o.Store = s
	}
}

// WithPhraser sets the completion service used to phrase replies.
func WithPhraser(p genai.Phraser) Option {
	return func(o *Opts) {
		o.Phraser = p
	}
}

// WithProducts sets the product catalog evaluated on every turn.
func WithProducts(products []models.Product) Option {
	return func(o *Opts) {
		o.Products = products
	}
}

// WithInactivityTTL overrides how long idle sessions are kept in memory.
func WithInactivityTTL(ttl time.Duration) Option {
	return func(o *Opts) {
		o.InactivityTTL = ttl
	}
}

// WithJanitorInterval overrides the sweep interval for idle sessions.
func WithJanitorInterval(d time.Duration) Option {
	return func(o *Opts) {
		o.JanitorInterval = d
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) {
		o.Clock = clock
	}
}

// sessionEntry pairs a session with its own lock so concurrent turns for the
// same session serialize without blocking other sessions. evicted marks an
// entry the janitor removed from the map; a caller that locked it after the
// fact must discard it and look up a fresh one.
type sessionEntry struct {
	mu          sync.Mutex
	initialized bool
	evicted     bool
	session     *models.ConversationSession
}

// Engine drives the multi-phase eligibility conversation.
type Engine struct {
	mu              sync.Mutex
	sessions        map[string]*sessionEntry
	products        []models.Product
	productsByID    map[string]models.Product
	phraser         genai.Phraser
	store           store.Store
	inactivityTTL   time.Duration
	janitorInterval time.Duration
	now             func() time.Time
}

// New creates an engine from the provided options. A nil store and a nil
// phraser are both valid: persistence is skipped and drafts are delivered
// verbatim.
func New(opts ...Option) *Engine {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.InactivityTTL <= 0 {
		cfg.InactivityTTL = DefaultInactivityTTL
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = DefaultJanitorInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	byID := make(map[string]models.Product, len(cfg.Products))
	for _, p := range cfg.Products {
		byID[p.ID] = p
	}

	slog.Debug("Engine.New: engine created", "products", len(cfg.Products), "store_set", cfg.Store != nil, "phraser_set", cfg.Phraser != nil)
	return &Engine{
		sessions:        make(map[string]*sessionEntry),
		products:        cfg.Products,
		productsByID:    byID,
		phraser:         cfg.Phraser,
		store:           cfg.Store,
		inactivityTTL:   cfg.InactivityTTL,
		janitorInterval: cfg.JanitorInterval,
		now:             cfg.Clock,
	}
}

// Products returns the catalog the engine evaluates.
func (e *Engine) Products() []models.Product {
	products := make([]models.Product, len(e.products))
	copy(products, e.products)
	return products
}

// ProcessMessage runs one conversational turn and returns the reply. The
// request is validated before any state mutation; invalid requests leave the
// session untouched.
func (e *Engine) ProcessMessage(ctx context.Context, req models.ProcessMessageRequest) (*models.EngineReply, error) {
	if err := req.Validate(); err != nil {
		slog.Warn("Engine.ProcessMessage: invalid request", "error", err, "session_id", req.SessionID)
		return nil, err
	}

	entry := e.lockEntry(req.SessionID)
	defer entry.mu.Unlock()

	if !entry.initialized {
		entry.session = e.newSession(req.SessionID, req.ClientID)
		e.restoreSession(ctx, entry.session)
		e.replayHistory(entry.session, req.PriorHistory)
		entry.initialized = true
	}
	sess := entry.session

	now := e.now()
	sess.History = append(sess.History, models.Message{Role: "user", Content: req.Utterance, Timestamp: now})

	// Completed is terminal: the profile, scores and snapshot are frozen and
	// every further turn gets the static closing reply.
	if sess.Phase == models.PhaseCompleted {
		text := e.phrase(ctx, sess, completedText)
		sess.History = append(sess.History, models.Message{Role: "assistant", Content: text, Timestamp: now})
		trimHistory(sess)
		sess.LastInteractionAt = now
		slog.Debug("Engine.ProcessMessage: turn after completion", "session_id", sess.SessionID)
		return buildReply(sess, text), nil
	}

	update := profile.Extract(req.Utterance)
	sess.Profile = profile.Merge(sess.Profile, update)
	sess.EligibilityResults = eligibility.ScoreAll(sess.Profile, e.products)
	sess.MissingInformation = eligibility.ComputeMissing(sess.EligibilityResults, sess.Profile)

	draft := e.nextDraft(ctx, sess, wantsResults(req.Utterance))
	text := e.phrase(ctx, sess, draft)

	sess.History = append(sess.History, models.Message{Role: "assistant", Content: text, Timestamp: now})
	trimHistory(sess)
	sess.LastInteractionAt = now

	e.saveSnapshot(ctx, sess)

	slog.Info("Engine.ProcessMessage: turn processed",
		"session_id", sess.SessionID, "phase", sess.Phase,
		"known_core_fields", sess.Profile.KnownCoreFieldCount())

	return buildReply(sess, text), nil
}

// buildReply assembles the turn outcome from the session state.
func buildReply(sess *models.ConversationSession, text string) *models.EngineReply {
	reply := &models.EngineReply{
		ResponseText:       text,
		Phase:              sess.Phase,
		Profile:            sess.Profile,
		EligibilityResults: sess.EligibilityResults,
		IsComplete:         sess.Phase == models.PhaseCompleted,
	}
	if reply.IsComplete && !hasEligible(sess.EligibilityResults) {
		reply.Recommendations = buildRecommendations(sess.EligibilityResults)
	}
	return reply
}

// GetSession returns a deep copy of the session state, or ErrSessionNotFound.
// The copy shares nothing mutable with the live session, so callers may read
// or marshal it without holding any engine lock.
func (e *Engine) GetSession(sessionID string) (*models.ConversationSession, error) {
	e.mu.Lock()
	entry, ok := e.sessions[sessionID]
	e.mu.Unlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.initialized || entry.evicted {
		return nil, models.ErrSessionNotFound
	}
	return copySession(entry.session), nil
}

// copySession deep-copies the maps and slices a turn mutates in place.
func copySession(sess *models.ConversationSession) *models.ConversationSession {
	copied := *sess
	copied.QuestionsAsked = make(map[string]bool, len(sess.QuestionsAsked))
	for k, v := range sess.QuestionsAsked {
		copied.QuestionsAsked[k] = v
	}
	copied.MissingInformation = make(map[string][]string, len(sess.MissingInformation))
	for k, v := range sess.MissingInformation {
		copied.MissingInformation[k] = append([]string(nil), v...)
	}
	copied.History = append([]models.Message(nil), sess.History...)
	copied.EligibilityResults = append([]models.EligibilityResult(nil), sess.EligibilityResults...)
	return &copied
}

// entryFor returns the session entry for the ID, creating it if needed.
func (e *Engine) entryFor(sessionID string) *sessionEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{}
		e.sessions[sessionID] = entry
	}
	return entry
}

// lockEntry returns the entry for the session locked for a turn. When the
// janitor evicted the entry between lookup and lock, the stale entry is
// discarded and the lookup repeats.
func (e *Engine) lockEntry(sessionID string) *sessionEntry {
	for {
		entry := e.entryFor(sessionID)
		entry.mu.Lock()
		if !entry.evicted {
			return entry
		}
		entry.mu.Unlock()
	}
}

func (e *Engine) newSession(sessionID, clientID string) *models.ConversationSession {
	now := e.now()
	return &models.ConversationSession{
		SessionID:         sessionID,
		ClientID:          clientID,
		Phase:             models.PhaseWelcome,
		QuestionsAsked:    make(map[string]bool),
		CreatedAt:         now,
		LastInteractionAt: now,
	}
}

// restoreSession loads a previously snapshotted phase and profile so a
// restarted service picks up mid-conversation. Failures only log; the session
// then starts fresh.
func (e *Engine) restoreSession(ctx context.Context, sess *models.ConversationSession) {
	if e.store == nil {
		return
	}
	snap, err := e.store.GetSessionSnapshot(ctx, sess.SessionID)
	if err != nil {
		slog.Warn("Engine.restoreSession: snapshot read failed", "error", err, "session_id", sess.SessionID)
		return
	}
	if snap == nil {
		return
	}
	if models.IsValidPhase(snap.Phase) && sess.Phase.Before(snap.Phase) {
		sess.Phase = snap.Phase
	}
	var p models.ClientProfile
	if err := json.Unmarshal([]byte(snap.ProfileJSON), &p); err != nil {
		slog.Warn("Engine.restoreSession: profile unmarshal failed", "error", err, "session_id", sess.SessionID)
	} else {
		sess.Profile = p
	}
	slog.Info("Engine.restoreSession: session restored from snapshot", "session_id", sess.SessionID, "phase", sess.Phase)
}

// replayHistory rebuilds profile state from a user-supplied transcript without
// generating any replies.
func (e *Engine) replayHistory(sess *models.ConversationSession, history []models.Message) {
	for _, msg := range history {
		sess.History = append(sess.History, msg)
		if msg.Role == "user" {
			sess.Profile = profile.Merge(sess.Profile, profile.Extract(msg.Content))
		}
	}
	if len(history) > 0 {
		slog.Debug("Engine.replayHistory: prior history replayed", "session_id", sess.SessionID, "messages", len(history))
	}
}

// phrase runs the draft through the completion service, falling back to the
// draft itself.
func (e *Engine) phrase(ctx context.Context, sess *models.ConversationSession, draft string) string {
	if e.phraser == nil {
		return draft
	}
	completion := e.phraser.Phrase(ctx, genai.PhraseRequest{
		SystemPrompt: phrasingSystemPrompt,
		History:      sess.History,
		Draft:        draft,
		Fallback:     draft,
	})
	return completion.Text
}

// saveSnapshot writes the durable session snapshot. Write failures only log;
// the turn still succeeds.
func (e *Engine) saveSnapshot(ctx context.Context, sess *models.ConversationSession) {
	if e.store == nil {
		return
	}
	profileJSON, err := json.Marshal(sess.Profile)
	if err != nil {
		slog.Warn("Engine.saveSnapshot: profile marshal failed", "error", err, "session_id", sess.SessionID)
		return
	}
	var eligible []models.EligibilityResult
	for _, res := range sess.EligibilityResults {
		if res.IsEligible {
			eligible = append(eligible, res)
		}
	}
	eligibleJSON, err := json.Marshal(eligible)
	if err != nil {
		slog.Warn("Engine.saveSnapshot: results marshal failed", "error", err, "session_id", sess.SessionID)
		return
	}
	snap := models.SessionSnapshot{
		SessionID:            sess.SessionID,
		ClientID:             sess.ClientID,
		Phase:                sess.Phase,
		ProfileJSON:          string(profileJSON),
		EligibleProductsJSON: string(eligibleJSON),
		LastProcessedAt:      sess.LastInteractionAt,
	}
	if err := e.store.SaveSessionSnapshot(ctx, snap); err != nil {
		slog.Warn("Engine.saveSnapshot: snapshot write failed", "error", err, "session_id", sess.SessionID)
	}
}

// persistEligibleProducts records one row per eligible product when a session
// reaches synthesis. Failures only log.
func (e *Engine) persistEligibleProducts(ctx context.Context, sess *models.ConversationSession, eligible []models.EligibilityResult) {
	if e.store == nil {
		return
	}
	now := e.now()
	for _, res := range eligible {
		rec := models.EligibleProductRecord{
			ID:            uuid.NewString(),
			SessionID:     sess.SessionID,
			ClientID:      sess.ClientID,
			ProductID:     res.Product.ID,
			Score:         res.Score,
			EstimatedGain: res.EstimatedGain,
			Reasons:       res.Reasons,
			CreatedAt:     now,
		}
		if err := e.store.SaveEligibleProduct(ctx, rec); err != nil {
			slog.Warn("Engine.persistEligibleProducts: record write failed", "error", err,
				"session_id", sess.SessionID, "product_id", res.Product.ID)
		}
	}
}

// trimHistory caps the in-memory transcript.
func trimHistory(sess *models.ConversationSession) {
	if len(sess.History) > models.MaxPriorHistoryMessages {
		sess.History = sess.History[len(sess.History)-models.MaxPriorHistoryMessages:]
	}
}

func hasEligible(results []models.EligibilityResult) bool {
	for _, res := range results {
		if res.IsEligible {
			return true
		}
	}
	return false
}
