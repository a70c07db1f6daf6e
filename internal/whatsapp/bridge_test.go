package whatsapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"voicebot/internal/convo"
	"voicebot/internal/metrics"
	"voicebot/internal/session"
)

type sent struct {
	to   string
	text string
}

type fakeMessenger struct {
	sent     []sent
	audio    []byte
	mime     string
	fetchErr error
}

func (f *fakeMessenger) SendText(_ context.Context, to types.JID, text string) error {
	f.sent = append(f.sent, sent{to: to.User, text: text})
	return nil
}

func (f *fakeMessenger) DownloadMedia(_ context.Context, _ *waProto.Message) ([]byte, string, error) {
	return f.audio, f.mime, f.fetchErr
}

type fakeTranscriber struct {
	text string
	err  error
	mime string
}

func (f *fakeTranscriber) TranscribeAudio(_ context.Context, _ []byte, mime string) (string, error) {
	f.mime = mime
	return f.text, f.err
}

type fakeDialogue struct {
	known   map[string]bool
	started []string
	inputs  []string
	err     error
}

func (f *fakeDialogue) StartFlow(_ context.Context, id string) (convo.Response, error) {
	if f.known == nil {
		f.known = map[string]bool{}
	}
	f.known[id] = true
	f.started = append(f.started, id)
	next := "language"
	return convo.Response{Message: "greeting", NextField: &next}, nil
}

func (f *fakeDialogue) SubmitInput(_ context.Context, id, input string) (convo.Response, error) {
	if f.err != nil {
		return convo.Response{}, f.err
	}
	if !f.known[id] {
		return convo.Response{}, session.ErrSessionNotFound
	}
	f.inputs = append(f.inputs, input)
	return convo.Response{Message: "echo " + input}, nil
}

func textEvent(from, text string) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{MessageSource: types.MessageSource{
			Sender: types.NewJID(from, types.DefaultUserServer),
		}},
		Message: &waProto.Message{Conversation: proto.String(text)},
	}
}

func audioEvent(from string) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{MessageSource: types.MessageSource{
			Sender: types.NewJID(from, types.DefaultUserServer),
		}},
		Message: &waProto.Message{AudioMessage: &waProto.AudioMessage{Mimetype: proto.String("audio/ogg; codecs=opus")}},
	}
}

// incoming reads the inbound message counter for msgType.
func incoming(t *testing.T, reg *metrics.Metrics, msgType string) float64 {
	t.Helper()
	families, err := reg.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "wa_test_whatsapp_incoming_messages_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "type" && l.GetValue() == msgType {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func newBridge(d Dialogue, m *fakeMessenger, tr Transcriber) (*Bridge, *metrics.Metrics) {
	reg := metrics.New("wa_test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBridge(d, m, tr, reg, logger), reg
}

func TestFirstContactStartsFlow(t *testing.T) {
	d := &fakeDialogue{}
	m := &fakeMessenger{}
	b, reg := newBridge(d, m, nil)

	b.HandleMessage(context.Background(), textEvent("919812345678", "hi"))
	if len(d.started) != 1 || d.started[0] != "wa:919812345678" {
		t.Fatalf("started = %v", d.started)
	}
	if len(m.sent) != 1 || m.sent[0].text != "greeting" || m.sent[0].to != "919812345678" {
		t.Fatalf("sent = %v", m.sent)
	}

	b.HandleMessage(context.Background(), textEvent("919812345678", " English "))
	if len(d.inputs) != 1 || d.inputs[0] != "English" {
		t.Fatalf("inputs = %v", d.inputs)
	}
	if m.sent[1].text != "echo English" {
		t.Errorf("reply = %q", m.sent[1].text)
	}
	if got := incoming(t, reg, "text"); got != 2 {
		t.Errorf("text messages = %v", got)
	}
}

func TestFirstMessageIsAnswered(t *testing.T) {
	d := &fakeDialogue{}
	m := &fakeMessenger{}
	b, _ := newBridge(d, m, nil)

	b.HandleMessage(context.Background(), textEvent("1", "Hindi"))
	if len(d.started) != 1 || len(d.inputs) != 1 || d.inputs[0] != "Hindi" {
		t.Fatalf("started = %v inputs = %v", d.started, d.inputs)
	}
	if len(m.sent) != 2 || m.sent[0].text != "greeting" || m.sent[1].text != "echo Hindi" {
		t.Errorf("sent = %v", m.sent)
	}
}

func TestIsGreeting(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"hi", true},
		{"Hello!", true},
		{" namaste ", true},
		{"नमस्ते", true},
		{"hindi", false},
		{"9876543210", false},
		{"hi, I want to file a claim", false},
	}
	for _, tc := range cases {
		if got := isGreeting(tc.in); got != tc.want {
			t.Errorf("isGreeting(%q) = %v", tc.in, got)
		}
	}
}

func TestRestartCommand(t *testing.T) {
	d := &fakeDialogue{known: map[string]bool{"wa:1": true}}
	m := &fakeMessenger{}
	b, _ := newBridge(d, m, nil)

	b.HandleMessage(context.Background(), textEvent("1", "Restart"))
	if len(d.started) != 1 || len(d.inputs) != 0 {
		t.Errorf("started = %v inputs = %v", d.started, d.inputs)
	}
}

func TestIgnoresOwnAndGroupMessages(t *testing.T) {
	d := &fakeDialogue{}
	m := &fakeMessenger{}
	b, _ := newBridge(d, m, nil)

	own := textEvent("1", "hi")
	own.Info.IsFromMe = true
	group := textEvent("2", "hi")
	group.Info.IsGroup = true
	b.HandleMessage(context.Background(), own)
	b.HandleMessage(context.Background(), group)
	if len(m.sent) != 0 || len(d.started) != 0 {
		t.Errorf("sent = %v started = %v", m.sent, d.started)
	}
}

func TestVoiceNote(t *testing.T) {
	d := &fakeDialogue{known: map[string]bool{"wa:1": true}}
	m := &fakeMessenger{audio: []byte("ogg"), mime: "audio/ogg"}
	tr := &fakeTranscriber{text: "नौ आठ सात"}
	b, _ := newBridge(d, m, tr)

	b.HandleMessage(context.Background(), audioEvent("1"))
	if len(d.inputs) != 1 || d.inputs[0] != "नौ आठ सात" || tr.mime != "audio/ogg" {
		t.Fatalf("inputs = %v mime = %q", d.inputs, tr.mime)
	}
}

func TestVoiceNoteFailures(t *testing.T) {
	cases := []struct {
		name string
		m    *fakeMessenger
		tr   Transcriber
	}{
		{"no transcriber", &fakeMessenger{}, nil},
		{"download error", &fakeMessenger{fetchErr: errors.New("expired")}, &fakeTranscriber{text: "x"}},
		{"transcribe error", &fakeMessenger{}, &fakeTranscriber{err: errors.New("quota")}},
		{"empty transcript", &fakeMessenger{}, &fakeTranscriber{text: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &fakeDialogue{known: map[string]bool{"wa:1": true}}
			b, _ := newBridge(d, tc.m, tc.tr)
			b.HandleMessage(context.Background(), audioEvent("1"))
			if len(d.inputs) != 0 {
				t.Errorf("inputs = %v", d.inputs)
			}
			if len(tc.m.sent) != 1 || tc.m.sent[0].text != replyUnclear {
				t.Errorf("sent = %v", tc.m.sent)
			}
		})
	}
}

func TestNonTextMessage(t *testing.T) {
	m := &fakeMessenger{}
	b, reg := newBridge(&fakeDialogue{}, m, nil)
	evt := textEvent("1", "")
	evt.Message = &waProto.Message{ImageMessage: &waProto.ImageMessage{}}
	b.HandleMessage(context.Background(), evt)
	if len(m.sent) != 1 || m.sent[0].text != replyTypeText {
		t.Errorf("sent = %v", m.sent)
	}
	if got := incoming(t, reg, "image"); got != 1 {
		t.Errorf("image messages = %v", got)
	}
}

func TestDialogueErrors(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{convo.ErrRateLimited, replySlowDown},
		{errors.New("boom"), replyBusy},
	}
	for _, tc := range cases {
		m := &fakeMessenger{}
		b, _ := newBridge(&fakeDialogue{err: tc.err}, m, nil)
		b.HandleMessage(context.Background(), textEvent("1", "hello"))
		if len(m.sent) != 1 || m.sent[0].text != tc.want {
			t.Errorf("%v: sent = %v", tc.err, m.sent)
		}
	}
}

func TestSessionIDDropsDevice(t *testing.T) {
	jid := types.JID{User: "919812345678", Device: 3, Server: types.DefaultUserServer}
	if got := SessionID(jid); got != "wa:919812345678" {
		t.Errorf("SessionID = %q", got)
	}
}
