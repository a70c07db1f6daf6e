package convo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voicebot/internal/locale"
	"voicebot/internal/nlu"
	"voicebot/internal/normalize"
	"voicebot/internal/session"
)

// extraction is the result of running the field pipeline once.
type extraction struct {
	// done means the field is settled and the step may advance. The value
	// can still be the sentinel after a don't-know answer or a give-up.
	done bool
	// reset means retries ran out on a gating field and the session restarted.
	reset bool
	// rejected means a value was found but the step cannot use it.
	rejected bool
	resp  Response
	// llm holds the raw model answer when the model was consulted.
	llm map[string]string
}

var digitLengths = map[session.Field]int{
	session.FieldMobile: 10,
	session.FieldOTP:    6,
	session.FieldPolicy: 8,
}

// gatingFields restart the whole conversation when retries run out.
var gatingFields = map[session.Field]bool{
	session.FieldPolicy: true,
	session.FieldOTP:    true,
}

// candidate is the normalised form of text used by the deterministic checks.
func candidate(field session.Field, text string, lang locale.Language) string {
	switch {
	case digitLengths[field] > 0:
		return normalize.Digits(text, lang, normalize.Concat)
	case field == session.FieldEmail:
		return normalize.Email(text)
	default:
		return strings.TrimSpace(text)
	}
}

func quickAccept(field session.Field, cand string) bool {
	if n, ok := digitLengths[field]; ok {
		return len(cand) == n && normalize.DigitsOnly(cand) == cand
	}
	if field == session.FieldEmail {
		return normalize.ValidEmail(cand)
	}
	return false
}

// validator reports whether a step can use an extracted value. A rejected
// value counts as a miss.
type validator func(value string) bool

func (v validator) accepts(value string) bool {
	return v == nil || v(value)
}

func isEmptyValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "null":
		return true
	}
	return false
}

// extract settles field from the turn's input: local digits, don't-know
// phrases, an unchanged resubmission, the deterministic quick path, then the
// language model, and finally the retry policy. valid may be nil.
func (e *Engine) extract(ctx context.Context, t *turn, field session.Field, valid validator) (extraction, error) {
	sess := t.sess
	text := normalize.ASCIIDigits(t.raw)

	if locale.IsDontKnow(text) {
		sess.Fields.Set(field, session.Sentinel)
		sess.TryCount = 0
		e.settled(field, "dont_know", session.Sentinel)
		return extraction{done: true}, nil
	}

	cand := candidate(field, text, sess.Language)
	if sess.Fields.Satisfied(field) && strings.EqualFold(cand, sess.Fields.Get(field)) {
		e.settled(field, "unchanged", cand)
		return extraction{done: true}, nil
	}

	if quickAccept(field, cand) {
		if !valid.accepts(cand) {
			return e.reject(t, field, cand, nil), nil
		}
		sess.Fields.Set(field, cand)
		sess.TryCount = 0
		e.settled(field, "quick", cand)
		return extraction{done: true}, nil
	}

	utterance := text
	if cand != "" && (digitLengths[field] > 0 || field == session.FieldEmail) {
		utterance = cand
	}

	llm, err := e.ask(ctx, field, utterance, sess.Language)
	if err != nil {
		return extraction{}, err
	}
	if v := llm[string(field)]; !isEmptyValue(v) {
		v = strings.TrimSpace(v)
		if !valid.accepts(v) {
			return e.reject(t, field, v, llm), nil
		}
		sess.Fields.Set(field, v)
		sess.TryCount = 0
		e.settled(field, "llm", v)
		return extraction{done: true, llm: llm}, nil
	}
	x := e.miss(t, field)
	x.llm = llm
	return x, nil
}

// ask consults the model. Transport failures and timeouts are treated as a
// miss; an unreadable answer is fatal for the turn.
func (e *Engine) ask(ctx context.Context, field session.Field, utterance string, lang locale.Language) (map[string]string, error) {
	if e.extractor == nil {
		return nil, nil
	}
	if e.opts.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.ExtractTimeout)
		defer cancel()
	}
	res, err := e.extractor.ExtractField(ctx, string(field), utterance, string(lang))
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, nlu.ErrUnparseable):
		return nil, fmt.Errorf("extract %s: %w", field, err)
	default:
		e.metrics.Extractions.WithLabelValues(string(field), "llm_error").Inc()
		e.logger.Warn("llm extraction failed", "field", field, "error", err)
		return nil, nil
	}
}

// reject counts a value the step cannot use as a failed attempt.
func (e *Engine) reject(t *turn, field session.Field, value string, llm map[string]string) extraction {
	e.metrics.Extractions.WithLabelValues(string(field), "rejected").Inc()
	e.logger.Debug("value rejected", "session_id", t.sess.ID, "field", field, "value", value)
	x := e.miss(t, field)
	x.rejected = true
	x.llm = llm
	return x
}

// miss applies the retry policy after a failed attempt.
func (e *Engine) miss(t *turn, field session.Field) extraction {
	sess := t.sess
	sess.TryCount++

	if gatingFields[field] && sess.TryCount >= sess.MaxRetries {
		e.logger.Warn("retries exhausted, restarting", "session_id", sess.ID, "field", field, "attempts", sess.TryCount)
		greeting := t.str.Greeting()
		sess.Reset()
		t.str = locale.For(sess.Language)
		e.metrics.SessionResets.Inc()
		e.metrics.Extractions.WithLabelValues(string(field), "reset").Inc()
		return extraction{reset: true, resp: Response{Message: greeting, NextField: fieldRef("language")}}
	}

	if sess.TryCount > sess.MaxRetries {
		e.logger.Warn("giving up on field", "session_id", sess.ID, "field", field, "attempts", sess.TryCount)
		sess.Fields.Set(field, session.Sentinel)
		sess.TryCount = 0
		e.metrics.Extractions.WithLabelValues(string(field), "gave_up").Inc()
		return extraction{done: true}
	}

	e.metrics.Extractions.WithLabelValues(string(field), "miss").Inc()
	return extraction{resp: t.reply(t.str.Repeat(string(field)), string(field))}
}

func (e *Engine) settled(field session.Field, path, value string) {
	e.metrics.Extractions.WithLabelValues(string(field), path).Inc()
	e.logger.Debug("field extracted", "field", field, "path", path, "value", value)
}
