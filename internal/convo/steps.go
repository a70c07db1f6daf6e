package convo

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"voicebot/internal/locale"
	"voicebot/internal/normalize"
	"voicebot/internal/sbi"
	"voicebot/internal/session"
)

type stepHandler func(ctx context.Context, t *turn) (Response, error)

// flowOnly lists steps that belong to a single flow.
var flowOnly = map[session.Step]session.Flow{
	session.StepWhoDriver:    session.FlowClaim,
	session.StepEmail:        session.FlowPolicyPDF,
	session.StepConfirmEmail: session.FlowPolicyPDF,
	session.StepOTPEmail:     session.FlowPolicyPDF,
}

func (e *Engine) transitions() map[session.Step]stepHandler {
	return map[session.Step]stepHandler{
		session.StepLanguage:     e.stepLanguage,
		session.StepHowHelp:      e.stepHowHelp,
		session.StepMobile:       e.stepMobile,
		session.StepPolicy:       e.stepPolicy,
		session.StepOTP:          e.stepOTP,
		session.StepDate:         e.stepDate,
		session.StepTime:         e.stepTime,
		session.StepAMPM:         e.stepAMPM,
		session.StepCity:         e.stepCity,
		session.StepState:        e.stepState,
		session.StepWhoDriver:    e.stepWhoDriver,
		session.StepEmail:        e.stepEmail,
		session.StepConfirmEmail: e.stepConfirmEmail,
		session.StepOTPEmail:     e.stepOTPEmail,
		session.StepEnd:          e.stepEnd,
	}
}

func (e *Engine) dispatch(ctx context.Context, t *turn) (Response, error) {
	step := t.sess.Step
	handler, ok := e.steps[step]
	if !ok {
		e.logger.Warn("unexpected step", "session_id", t.sess.ID, "step", step)
		next := stepField(step)
		if next == "" {
			next = "language"
		}
		return t.reply(t.str.InvalidInput, next), nil
	}
	if want, guarded := flowOnly[step]; guarded && t.sess.Flow != want {
		e.logger.Warn("step reached in wrong flow", "session_id", t.sess.ID, "step", step, "flow", t.sess.Flow)
		return t.reply(t.str.InvalidInput, stepField(step)), nil
	}
	return handler(ctx, t)
}

// stepField is the field a step asks for, as reported in next_field.
func stepField(step session.Step) string {
	switch step {
	case session.StepLanguage:
		return "language"
	case session.StepHowHelp:
		return "intent"
	case session.StepConfirmEmail:
		return "confirm_email"
	case session.StepOTPEmail:
		return string(session.FieldOTP)
	}
	for _, f := range session.AllFields {
		if string(f) == string(step) {
			return string(f)
		}
	}
	return ""
}

// pending returns the response of an unsettled extraction.
func pending(x extraction) Response {
	return x.resp
}

func (e *Engine) stepLanguage(_ context.Context, t *turn) (Response, error) {
	lang, ok := locale.DetectLanguage(t.text)
	if !ok {
		return Response{Message: t.str.InvalidInput, NextField: fieldRef("language")}, nil
	}
	t.setLanguage(lang)
	t.sess.Step = session.StepHowHelp
	return Response{Message: t.str.ContinueLanguage + "\n" + t.str.HowHelp, NextField: fieldRef("intent")}, nil
}

func (e *Engine) stepHowHelp(_ context.Context, t *turn) (Response, error) {
	var flow session.Flow
	switch locale.DetectIntent(t.text, t.sess.Language) {
	case locale.IntentClaim:
		flow = session.FlowClaim
	case locale.IntentPolicyPDF:
		flow = session.FlowPolicyPDF
	default:
		return t.reply(t.str.InvalidInput+"\n"+t.str.ClaimPrompt, "intent"), nil
	}
	if t.sess.Flow == session.FlowUnset {
		t.sess.Flow = flow
	}
	e.logger.Info("flow selected", "session_id", t.sess.ID, "flow", t.sess.Flow)
	return t.advance(session.StepMobile, t.str.MobilePrompt, string(session.FieldMobile)), nil
}

func tenDigits(v string) bool {
	return len(normalize.DigitsOnly(normalize.ASCIIDigits(v))) == 10
}

func (e *Engine) stepMobile(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldMobile, tenDigits)
	if err != nil {
		return Response{}, err
	}
	if !x.done {
		if x.rejected {
			return t.reply(t.str.InvalidMobile, string(session.FieldMobile)), nil
		}
		return pending(x), nil
	}

	sess := t.sess
	if sess.Fields.Satisfied(session.FieldMobile) {
		mobile := normalize.DigitsOnly(normalize.ASCIIDigits(sess.Fields.Get(session.FieldMobile)))
		sess.Fields.Set(session.FieldMobile, mobile)
		e.lookup(ctx, sess, mobile)
	} else {
		sess.IsRegistered = false
		sess.Policies = nil
		sess.PolicyObjects = nil
	}

	var msg string
	if sess.IsRegistered {
		msg = t.str.MobileRegistered + "\n" + t.str.PolicyList(sess.Policies) + "\n" + t.str.PolicyPrompt
	} else {
		msg = t.str.MobileUnregistered + "\n" + t.str.PolicyNumberPrompt
	}
	return t.advance(session.StepPolicy, msg, string(session.FieldPolicy)), nil
}

// lookup marks the session registered when the backend knows the mobile.
// Any failure leaves it unregistered.
func (e *Engine) lookup(ctx context.Context, sess *session.Session, mobile string) {
	ctx, cancel := e.backendCtx(ctx)
	defer cancel()

	sess.IsRegistered = false
	sess.Policies = nil
	sess.PolicyObjects = nil

	res := e.backend.LookupPolicies(ctx, mobile)
	if !res.OK() {
		e.logger.Warn("policy lookup failed", "session_id", sess.ID, "message", res.Message)
		return
	}
	policies, err := res.Policies()
	if err != nil {
		e.logger.Warn("policy lookup unreadable", "session_id", sess.ID, "error", err)
		return
	}
	for _, p := range policies {
		if p.Number == "" {
			continue
		}
		sess.Policies = append(sess.Policies, p.Number)
		sess.PolicyObjects = append(sess.PolicyObjects, session.Policy{Number: p.Number, Type: p.Type, Email: p.Email})
	}
	sess.IsRegistered = len(sess.Policies) > 0
	e.logger.Info("policy lookup", "session_id", sess.ID, "registered", sess.IsRegistered, "policies", len(sess.Policies))
}

// listedPolicy accepts only the caller's own policies once the lookup found
// any, plus health policies so they can be redirected.
func (e *Engine) listedPolicy(sess *session.Session) validator {
	if !sess.IsRegistered {
		return nil
	}
	return func(number string) bool {
		_, known := sess.FindPolicy(number)
		return known || e.isHealthPolicy(sess, number)
	}
}

func (e *Engine) stepPolicy(ctx context.Context, t *turn) (Response, error) {
	sess := t.sess
	x, err := e.extract(ctx, t, session.FieldPolicy, e.listedPolicy(sess))
	if err != nil || x.reset {
		return pending(x), err
	}
	if !x.done {
		if x.rejected {
			return t.reply(t.str.InvalidInput+"\n"+t.str.PolicyList(sess.Policies)+"\n"+t.str.PolicyPrompt, string(session.FieldPolicy)), nil
		}
		return pending(x), nil
	}
	number := sess.Fields.Get(session.FieldPolicy)
	if sess.Fields.Satisfied(session.FieldPolicy) && e.isHealthPolicy(sess, number) {
		e.logger.Info("health policy redirected", "session_id", sess.ID, "policy", number)
		e.recordCase(ctx, sess, "health_redirect", "")
		return t.advance(session.StepEnd, t.str.HealthPolicyRedirect, ""), nil
	}

	if sess.Flow == session.FlowClaim && sess.IsRegistered {
		return t.advance(session.StepDate, t.str.FetchPolicy+"\n"+t.str.DatePrompt, string(session.FieldDate)), nil
	}
	otp := t.str.OTPUnregistered
	if sess.IsRegistered {
		otp = t.str.OTPRegistered
	}
	return t.advance(session.StepOTP, t.str.FetchPolicy+"\n"+otp, string(session.FieldOTP)), nil
}

func (e *Engine) stepOTP(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldOTP, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	if t.sess.Flow == session.FlowPolicyPDF {
		return t.advance(session.StepEmail, t.str.AskEmail, string(session.FieldEmail)), nil
	}
	return t.advance(session.StepDate, t.str.DatePrompt, string(session.FieldDate)), nil
}

func (e *Engine) stepDate(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldDate, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	return t.advance(session.StepTime, t.str.TimePrompt, string(session.FieldTime)), nil
}

var (
	hourOnly   = regexp.MustCompile(`^(\d{1,2})$`)
	hourMinute = regexp.MustCompile(`^(\d{1,2}) (\d{1,2})$`)
	clockValue = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?$`)
)

// clock renders hour and minute on a 12-hour dial together with the half of
// the day a 24-hour reading implies.
func clock(hour, minute int) (string, normalize.Meridiem) {
	switch {
	case hour == 0:
		return fmt.Sprintf("12:%02d:00", minute), normalize.AM
	case hour == 12:
		return fmt.Sprintf("12:%02d:00", minute), normalize.PM
	case hour > 12:
		return fmt.Sprintf("%02d:%02d:00", hour-12, minute), normalize.PM
	default:
		return fmt.Sprintf("%02d:%02d:00", hour, minute), normalize.Undetermined
	}
}

func (e *Engine) stepTime(ctx context.Context, t *turn) (Response, error) {
	sess := t.sess
	grouped := normalize.Digits(normalize.ASCIIDigits(t.raw), sess.Language, normalize.Grouped)

	hour, minute, deterministic := -1, 0, false
	if m := hourOnly.FindStringSubmatch(grouped); m != nil {
		hour, _ = strconv.Atoi(m[1])
		deterministic = true
	} else if m := hourMinute.FindStringSubmatch(grouped); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		deterministic = true
	}

	if deterministic {
		if hour > 23 || minute > 59 {
			if x := e.miss(t, session.FieldTime); !x.done {
				return t.reply(t.str.InvalidInput, string(session.FieldTime)), nil
			}
			return t.advance(session.StepCity, t.str.CityPrompt, string(session.FieldCity)), nil
		}
		value, meridiem := clock(hour, minute)
		sess.Fields.Set(session.FieldTime, value)
		sess.TryCount = 0
		e.settled(session.FieldTime, "quick", value)
		return e.settleMeridiem(t, meridiem, ""), nil
	}

	x, err := e.extract(ctx, t, session.FieldTime, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	if !sess.Fields.Satisfied(session.FieldTime) {
		return t.advance(session.StepCity, t.str.CityPrompt, string(session.FieldCity)), nil
	}

	meridiem := normalize.Undetermined
	if m := clockValue.FindStringSubmatch(sess.Fields.Get(session.FieldTime)); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h <= 23 && mm <= 59 {
			var value string
			value, meridiem = clock(h, mm)
			sess.Fields.Set(session.FieldTime, value)
		}
	}
	return e.settleMeridiem(t, meridiem, x.llm[string(session.FieldAMPM)]), nil
}

// settleMeridiem fills am_pm from the clock, the model's hint or the
// caller's words, and asks explicitly when none of them decide.
func (e *Engine) settleMeridiem(t *turn, fromClock normalize.Meridiem, hint string) Response {
	meridiem := fromClock
	if meridiem == normalize.Undetermined {
		switch strings.ToUpper(strings.TrimSpace(hint)) {
		case "AM":
			meridiem = normalize.AM
		case "PM":
			meridiem = normalize.PM
		}
	}
	if meridiem == normalize.Undetermined {
		meridiem = normalize.InferMeridiem(t.raw, t.sess.Language)
	}
	if meridiem == normalize.Undetermined {
		return t.advance(session.StepAMPM, t.str.AMPMClarify, string(session.FieldAMPM))
	}
	t.sess.Fields.Set(session.FieldAMPM, string(meridiem))
	return t.advance(session.StepCity, t.str.CityPrompt, string(session.FieldCity))
}

func (e *Engine) stepAMPM(ctx context.Context, t *turn) (Response, error) {
	sess := t.sess
	meridiem := normalize.Meridiem(strings.ToUpper(t.text))
	if meridiem != normalize.AM && meridiem != normalize.PM {
		meridiem = normalize.InferMeridiem(t.raw, sess.Language)
	}
	if meridiem != normalize.Undetermined {
		sess.Fields.Set(session.FieldAMPM, string(meridiem))
		sess.TryCount = 0
		e.settled(session.FieldAMPM, "quick", string(meridiem))
		return t.advance(session.StepCity, t.str.CityPrompt, string(session.FieldCity)), nil
	}

	x, err := e.extract(ctx, t, session.FieldAMPM, isMeridiem)
	if err != nil {
		return Response{}, err
	}
	if !x.done {
		return t.reply(t.str.AMPMInvalid, string(session.FieldAMPM)), nil
	}
	if sess.Fields.Satisfied(session.FieldAMPM) {
		sess.Fields.Set(session.FieldAMPM, strings.ToUpper(strings.TrimSpace(sess.Fields.Get(session.FieldAMPM))))
	}
	return t.advance(session.StepCity, t.str.CityPrompt, string(session.FieldCity)), nil
}

func isMeridiem(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "AM", "PM":
		return true
	}
	return false
}

func (e *Engine) stepCity(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldCity, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	return t.advance(session.StepState, t.str.StatePrompt, string(session.FieldState)), nil
}

func (e *Engine) stepState(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldState, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	if t.sess.Flow == session.FlowClaim {
		return t.advance(session.StepWhoDriver, t.str.DriverPrompt, string(session.FieldWhoDriver)), nil
	}
	e.recordCase(ctx, t.sess, "completed", "")
	return t.advance(session.StepEnd, t.str.FinalData+"\n"+finalRecord(t.sess), ""), nil
}

func (e *Engine) stepWhoDriver(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldWhoDriver, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	return e.finishClaim(ctx, t), nil
}

// finishClaim intimates the claim and reports the collected record.
func (e *Engine) finishClaim(ctx context.Context, t *turn) Response {
	sess := t.sess
	bctx, cancel := e.backendCtx(ctx)
	defer cancel()

	get := func(f session.Field) string {
		if v := sess.Fields.Get(f); v != session.Sentinel {
			return v
		}
		return ""
	}
	res := e.backend.IntimateClaim(bctx, sbi.ClaimRequest{
		PolicyNumber: get(session.FieldPolicy),
		Date:         get(session.FieldDate),
		Time:         get(session.FieldTime),
		Meridiem:     get(session.FieldAMPM),
		City:         get(session.FieldCity),
		State:        get(session.FieldState),
		Driver:       get(session.FieldWhoDriver),
	})

	var outcome, reference, status string
	if ack, err := res.Claim(); res.OK() && err == nil {
		outcome, reference = "claim_intimated", ack.ClaimNumber
		status = t.str.ClaimSuccess + "\n" + fmt.Sprintf(t.str.ClaimReference, ack.ClaimNumber)
	} else {
		outcome = "claim_failed"
		status = res.Message
		if status == "" && err != nil {
			status = err.Error()
		}
		e.logger.Warn("claim intimation failed", "session_id", sess.ID, "message", status)
	}
	e.recordCase(ctx, sess, outcome, reference)

	msg := status + "\n" + t.str.FinalData + "\n" + finalRecord(sess)
	return t.advance(session.StepEnd, msg, "")
}

func finalRecord(sess *session.Session) string {
	out, err := json.MarshalIndent(sess.Record(), "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

func (e *Engine) stepEmail(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldEmail, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	email := t.sess.Fields.Get(session.FieldEmail)
	if !t.sess.Fields.Satisfied(session.FieldEmail) {
		e.recordCase(ctx, t.sess, "no_email", "")
		return t.advance(session.StepEnd, t.str.NoEmailNoPDF+"\n"+t.str.EndFlow, ""), nil
	}
	return t.advance(session.StepConfirmEmail, t.str.ConfirmEmail(email), "confirm_email"), nil
}

func (e *Engine) stepConfirmEmail(ctx context.Context, t *turn) (Response, error) {
	if locale.IsAffirmative(t.text) {
		return t.advance(session.StepOTPEmail, t.str.OTPEmail, string(session.FieldOTP)), nil
	}
	e.recordCase(ctx, t.sess, "email_declined", "")
	return t.advance(session.StepEnd, t.str.NoEmailNoPDF+"\n"+t.str.EndFlow, ""), nil
}

// stepOTPEmail updates the email and dispatches the PDF whether or not the
// OTP could be read. Dispatch failures are reported, not retried.
func (e *Engine) stepOTPEmail(ctx context.Context, t *turn) (Response, error) {
	x, err := e.extract(ctx, t, session.FieldOTP, nil)
	if err != nil || !x.done {
		return pending(x), err
	}
	sess := t.sess
	otp := sess.Fields.Get(session.FieldOTP)
	verified := len(otp) == 6 && normalize.DigitsOnly(otp) == otp
	policy := sess.Fields.Get(session.FieldPolicy)
	email := sess.Fields.Get(session.FieldEmail)

	bctx, cancel := e.backendCtx(ctx)
	defer cancel()

	if upd := e.backend.UpdateEmail(bctx, policy, email, verified); !upd.OK() {
		e.logger.Warn("email update failed", "session_id", sess.ID, "message", upd.Message)
	}

	var lines []string
	if verified {
		lines = append(lines, t.str.OTPVerificationSuccess)
	} else {
		lines = append(lines, t.str.OTPVerificationFailed)
	}
	res := e.backend.SubmitPolicyEmail(bctx, policy, email)
	outcome := "pdf_sent"
	if res.OK() {
		lines = append(lines, t.str.PDFSent)
	} else {
		outcome = "pdf_failed"
		lines = append(lines, res.Message)
		e.logger.Warn("policy pdf dispatch failed", "session_id", sess.ID, "message", res.Message)
	}
	lines = append(lines, t.str.EndFlow)
	e.recordCase(ctx, sess, outcome, "")
	return t.advance(session.StepEnd, strings.Join(lines, "\n"), ""), nil
}

func (e *Engine) stepEnd(_ context.Context, t *turn) (Response, error) {
	return t.reply(t.str.EndFlow, ""), nil
}
