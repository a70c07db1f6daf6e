// Package convo runs the slot-filling dialogue: one turn reads the caller's
// session, extracts the field the current step expects, applies the step's
// business rules and answers with the next prompt.
package convo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voicebot/internal/locale"
	"voicebot/internal/metrics"
	"voicebot/internal/repo"
	"voicebot/internal/sbi"
	"voicebot/internal/session"
)

// ErrRateLimited is returned when a session submits turns faster than allowed.
var ErrRateLimited = errors.New("too many turns for session")

// Extractor asks a language model for one field.
type Extractor interface {
	ExtractField(ctx context.Context, field, utterance, language string) (map[string]string, error)
}

// Backend is the insurer API used by the dialogue.
type Backend interface {
	LookupPolicies(ctx context.Context, mobile string) sbi.Result
	IntimateClaim(ctx context.Context, req sbi.ClaimRequest) sbi.Result
	SubmitPolicyEmail(ctx context.Context, policyNumber, email string) sbi.Result
	UpdateEmail(ctx context.Context, policyNumber, email string, otpVerified bool) sbi.Result
}

// Transcript persists turns and finished cases.
type Transcript interface {
	InsertMessage(ctx context.Context, rec repo.MessageRecord) error
	InsertCase(ctx context.Context, rec repo.CaseRecord) error
}

// RateLimiter admits at most limit events per window for a key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// Response is what a turn returns to the caller. NextField is nil once the
// dialogue has finished; State is nil while the language is being chosen.
type Response struct {
	Message   string            `json:"message"`
	NextField *string           `json:"next_field"`
	State     map[string]string `json:"state"`
}

// Options tunes business rules and collaborator timeouts.
type Options struct {
	// HealthPolicySuffix classifies policy numbers the lookup did not return.
	HealthPolicySuffix string
	ExtractTimeout     time.Duration
	BackendTimeout     time.Duration
	// TurnLimit is the number of turns allowed per session per minute; 0 disables the limit.
	TurnLimit int64
	// Locker serialises turns per session. nil means an in-process lock,
	// which is only safe with a single replica.
	Locker session.TurnLocker
}

// Engine coordinates the session store, extractor and backend.
type Engine struct {
	store      session.Store
	locks      session.TurnLocker
	extractor  Extractor
	backend    Backend
	transcript Transcript
	limiter    RateLimiter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	opts       Options
	steps      map[session.Step]stepHandler
}

// New creates a dialogue engine. transcript and limiter may be nil.
func New(store session.Store, extractor Extractor, backend Backend, transcript Transcript, limiter RateLimiter, m *metrics.Metrics, logger *slog.Logger, opts Options) *Engine {
	if opts.HealthPolicySuffix == "" {
		opts.HealthPolicySuffix = "4321"
	}
	if opts.Locker == nil {
		opts.Locker = session.NewLocker()
	}
	e := &Engine{
		store:      store,
		locks:      opts.Locker,
		extractor:  extractor,
		backend:    backend,
		transcript: transcript,
		limiter:    limiter,
		metrics:    m,
		logger:     logger.With("component", "convo"),
		opts:       opts,
	}
	e.steps = e.transitions()
	return e
}

// turn is the working set of one SubmitInput call.
type turn struct {
	sess *session.Session
	raw  string
	text string
	str  *locale.Strings
}

func (t *turn) setLanguage(lang locale.Language) {
	t.sess.Language = lang
	t.sess.TryCount = 0
	t.str = locale.For(lang)
}

// reply answers with the session's field snapshot.
func (t *turn) reply(message string, next string) Response {
	return Response{Message: message, NextField: fieldRef(next), State: t.sess.Fields.Snapshot()}
}

// advance moves to step and asks for next.
func (t *turn) advance(step session.Step, message string, next string) Response {
	t.sess.Step = step
	return t.reply(message, next)
}

func fieldRef(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

// StartFlow (re)initialises the session and returns the welcome prompt.
func (e *Engine) StartFlow(ctx context.Context, sessionID string) (Response, error) {
	unlock, err := e.locks.Lock(ctx, sessionID)
	if err != nil {
		return Response{}, err
	}
	defer unlock()

	sess, err := e.store.GetOrCreate(ctx, sessionID)
	if err == nil && !sess.Pristine() {
		sess, err = e.store.Reset(ctx, sessionID)
	}
	if err != nil {
		return Response{}, fmt.Errorf("start flow: %w", err)
	}
	resp := Response{Message: locale.For(sess.Language).Greeting(), NextField: fieldRef("language")}
	e.logger.Info("flow started", "session_id", sessionID)
	e.record(ctx, sessionID, "outgoing", sess.Step, resp.Message)
	return resp, nil
}

// SubmitInput runs one dialogue turn. Turns for the same session are
// serialised; an unknown session yields session.ErrSessionNotFound.
func (e *Engine) SubmitInput(ctx context.Context, sessionID, input string) (Response, error) {
	unlock, err := e.locks.Lock(ctx, sessionID)
	if err != nil {
		return Response{}, err
	}
	defer unlock()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return Response{}, err
	}
	if !e.allowTurn(ctx, sessionID) {
		return Response{}, ErrRateLimited
	}

	step := sess.Step
	e.record(ctx, sessionID, "incoming", step, input)
	e.logger.Debug("turn", "session_id", sessionID, "step", step, "language", sess.Language, "input", input)

	t := &turn{
		sess: sess,
		raw:  input,
		text: strings.ToLower(strings.TrimSpace(input)),
		str:  locale.For(sess.Language),
	}
	resp, err := e.dispatch(ctx, t)
	if err != nil {
		e.metrics.Turns.WithLabelValues(string(step), "error").Inc()
		e.metrics.Errors.WithLabelValues("convo").Inc()
		e.logger.Error("turn failed", "session_id", sessionID, "step", step, "error", err)
		return Response{}, err
	}
	if err := e.store.Save(ctx, t.sess); err != nil {
		return Response{}, fmt.Errorf("save session: %w", err)
	}

	e.metrics.Turns.WithLabelValues(string(step), turnOutcome(step, t.sess.Step, resp)).Inc()
	e.record(ctx, sessionID, "outgoing", t.sess.Step, resp.Message)
	return resp, nil
}

func turnOutcome(before, after session.Step, resp Response) string {
	switch {
	case after == session.StepLanguage && before != session.StepLanguage:
		return "reset"
	case after != before:
		return "advanced"
	case resp.NextField == nil:
		return "invalid"
	default:
		return "retry"
	}
}

func (e *Engine) allowTurn(ctx context.Context, sessionID string) bool {
	if e.limiter == nil || e.opts.TurnLimit <= 0 {
		return true
	}
	ok, err := e.limiter.Allow(ctx, "rl:turn:"+sessionID, e.opts.TurnLimit, time.Minute)
	if err != nil {
		e.logger.Warn("turn rate limit check failed", "error", err)
		return true
	}
	return ok
}

func (e *Engine) record(ctx context.Context, sessionID, direction string, step session.Step, content string) {
	if e.transcript == nil {
		return
	}
	if err := e.transcript.InsertMessage(ctx, repo.MessageRecord{
		SessionID: sessionID,
		Direction: direction,
		Step:      string(step),
		Content:   content,
	}); err != nil {
		e.logger.Warn("failed logging message", "direction", direction, "error", err)
	}
}

func (e *Engine) recordCase(ctx context.Context, sess *session.Session, outcome, reference string) {
	if e.transcript == nil {
		return
	}
	if err := e.transcript.InsertCase(ctx, repo.CaseRecord{
		SessionID: sess.ID,
		Flow:      string(sess.Flow),
		Language:  string(sess.Language),
		Outcome:   outcome,
		Reference: reference,
		Fields:    sess.Record(),
	}); err != nil {
		e.logger.Warn("failed storing case", "session_id", sess.ID, "error", err)
	}
}

func (e *Engine) backendCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.BackendTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.opts.BackendTimeout)
}

// isHealthPolicy prefers the type returned by the lookup and falls back to
// the reserved suffix for numbers the lookup did not list.
func (e *Engine) isHealthPolicy(sess *session.Session, number string) bool {
	if p, ok := sess.FindPolicy(number); ok && p.Type != "" {
		return strings.Contains(strings.ToLower(p.Type), "health")
	}
	return strings.HasSuffix(number, e.opts.HealthPolicySuffix)
}
