// Package session holds per-conversation dialogue state and the stores that
// keep it between turns.
package session

import (
	"errors"
	"time"

	"voicebot/internal/locale"
)

// ErrSessionNotFound is returned for ids that were never started or have expired.
var ErrSessionNotFound = errors.New("session not found")

// DefaultMaxRetries is the number of failed attempts allowed per field.
const DefaultMaxRetries = 3

// Sentinel marks a field that has no value yet.
const Sentinel = "none"

// Flow is the workflow chosen by the caller. It is set once.
type Flow string

const (
	FlowUnset     Flow = ""
	FlowClaim     Flow = "claim"
	FlowPolicyPDF Flow = "policy_pdf"
)

// Step is a state of the dialogue machine.
type Step string

const (
	StepLanguage     Step = "language_selection"
	StepHowHelp      Step = "how_help"
	StepMobile       Step = "mobile_number"
	StepPolicy       Step = "policy_number"
	StepOTP          Step = "otp"
	StepDate         Step = "date_of_accident"
	StepTime         Step = "time_of_accident"
	StepAMPM         Step = "am_pm"
	StepCity         Step = "city_of_accident"
	StepState        Step = "state_of_accident"
	StepWhoDriver    Step = "who_driver"
	StepEmail        Step = "email_id"
	StepConfirmEmail Step = "confirm_email"
	StepOTPEmail     Step = "otp_email"
	StepEnd          Step = "end"
)

// Field names a slot collected from the caller.
type Field string

const (
	FieldMobile    Field = "mobile_number"
	FieldPolicy    Field = "policy_number"
	FieldOTP       Field = "otp"
	FieldDate      Field = "date_of_accident"
	FieldTime      Field = "time_of_accident"
	FieldAMPM      Field = "am_pm"
	FieldState     Field = "state_of_accident"
	FieldCity      Field = "city_of_accident"
	FieldEmail     Field = "email_id"
	FieldWhoDriver Field = "who_driver"
)

// AllFields is the fixed slot set in display order.
var AllFields = []Field{
	FieldMobile, FieldPolicy, FieldOTP, FieldDate, FieldTime,
	FieldAMPM, FieldState, FieldCity, FieldEmail, FieldWhoDriver,
}

// FlowFields lists the slots that belong to the final record of flow.
func FlowFields(flow Flow) []Field {
	switch flow {
	case FlowClaim:
		return []Field{FieldMobile, FieldPolicy, FieldOTP, FieldDate, FieldTime, FieldAMPM, FieldCity, FieldState, FieldWhoDriver}
	case FlowPolicyPDF:
		return []Field{FieldMobile, FieldPolicy, FieldOTP, FieldEmail}
	default:
		return nil
	}
}

// Fields holds every slot value. Empty means not yet set and reads as Sentinel.
type Fields struct {
	Mobile    string `json:"mobile_number"`
	Policy    string `json:"policy_number"`
	OTP       string `json:"otp"`
	Date      string `json:"date_of_accident"`
	Time      string `json:"time_of_accident"`
	AMPM      string `json:"am_pm"`
	State     string `json:"state_of_accident"`
	City      string `json:"city_of_accident"`
	Email     string `json:"email_id"`
	WhoDriver string `json:"who_driver"`
}

func (f *Fields) slot(field Field) *string {
	switch field {
	case FieldMobile:
		return &f.Mobile
	case FieldPolicy:
		return &f.Policy
	case FieldOTP:
		return &f.OTP
	case FieldDate:
		return &f.Date
	case FieldTime:
		return &f.Time
	case FieldAMPM:
		return &f.AMPM
	case FieldState:
		return &f.State
	case FieldCity:
		return &f.City
	case FieldEmail:
		return &f.Email
	case FieldWhoDriver:
		return &f.WhoDriver
	}
	return nil
}

// Get returns the value of field or Sentinel.
func (f *Fields) Get(field Field) string {
	p := f.slot(field)
	if p == nil || *p == "" {
		return Sentinel
	}
	return *p
}

// Set stores value for field. Unknown fields are ignored.
func (f *Fields) Set(field Field, value string) {
	if p := f.slot(field); p != nil {
		if value == Sentinel {
			value = ""
		}
		*p = value
	}
}

// Satisfied reports whether field holds a real value.
func (f *Fields) Satisfied(field Field) bool {
	return f.Get(field) != Sentinel
}

// Snapshot renders every slot, unset ones as Sentinel.
func (f *Fields) Snapshot() map[string]string {
	out := make(map[string]string, len(AllFields))
	for _, field := range AllFields {
		out[string(field)] = f.Get(field)
	}
	return out
}

// Policy is a policy known from the registration lookup.
type Policy struct {
	Number string `json:"number"`
	Type   string `json:"type,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Session is the dialogue state of one caller.
type Session struct {
	ID            string          `json:"id"`
	Language      locale.Language `json:"language"`
	Flow          Flow            `json:"flow"`
	Step          Step            `json:"current_step"`
	Fields        Fields          `json:"fields"`
	TryCount      int             `json:"try_count"`
	MaxRetries    int             `json:"max_retries"`
	IsRegistered  bool            `json:"is_registered"`
	Policies      []string        `json:"policies,omitempty"`
	PolicyObjects []Policy        `json:"policy_objects,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// New returns a session at the start of the dialogue.
func New(id string, maxRetries int) *Session {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	now := time.Now()
	return &Session{
		ID:         id,
		Language:   locale.English,
		Step:       StepLanguage,
		MaxRetries: maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Reset puts s back at language selection with every slot cleared.
func (s *Session) Reset() {
	fresh := New(s.ID, s.MaxRetries)
	fresh.CreatedAt = s.CreatedAt
	*s = *fresh
}

// Pristine reports whether s is still at the start of the dialogue with
// nothing collected.
func (s *Session) Pristine() bool {
	return s.Step == StepLanguage && s.Flow == FlowUnset && s.TryCount == 0 &&
		s.Language == locale.English && !s.IsRegistered && len(s.Policies) == 0 && s.Fields == (Fields{})
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Policies = append([]string(nil), s.Policies...)
	c.PolicyObjects = append([]Policy(nil), s.PolicyObjects...)
	return &c
}

// FindPolicy returns the looked-up policy with number, if any.
func (s *Session) FindPolicy(number string) (Policy, bool) {
	for _, p := range s.PolicyObjects {
		if p.Number == number {
			return p, true
		}
	}
	return Policy{}, false
}

// Record returns the slots of the active flow for the final summary.
func (s *Session) Record() map[string]string {
	fields := FlowFields(s.Flow)
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[string(f)] = s.Fields.Get(f)
	}
	return out
}
