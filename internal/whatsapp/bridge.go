package whatsapp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"voicebot/internal/convo"
	"voicebot/internal/metrics"
	"voicebot/internal/session"
)

const (
	replyBusy      = "Sorry, the system is busy right now. Please try again."
	replySlowDown  = "You're sending messages too quickly. Please wait a moment."
	replyTypeText  = "Please send your answer as a text or voice message."
	replyUnclear   = "Sorry, I couldn't understand that voice note. Please type your answer."
	restartCommand = "restart"
)

// Messenger sends replies and fetches attachments.
type Messenger interface {
	SendText(ctx context.Context, to types.JID, text string) error
	DownloadMedia(ctx context.Context, msg *waProto.Message) ([]byte, string, error)
}

// Transcriber turns a voice note into text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Dialogue is the engine surface the bridge drives.
type Dialogue interface {
	StartFlow(ctx context.Context, sessionID string) (convo.Response, error)
	SubmitInput(ctx context.Context, sessionID, input string) (convo.Response, error)
}

// Bridge feeds inbound WhatsApp messages into the dialogue, one session per sender.
type Bridge struct {
	dialogue    Dialogue
	messenger   Messenger
	transcriber Transcriber
	metrics     *metrics.Metrics
	logger      *slog.Logger
	timeout     time.Duration
}

// NewBridge wires a bridge. transcriber may be nil, in which case voice notes are refused.
func NewBridge(dialogue Dialogue, messenger Messenger, transcriber Transcriber, m *metrics.Metrics, logger *slog.Logger) *Bridge {
	return &Bridge{
		dialogue:    dialogue,
		messenger:   messenger,
		transcriber: transcriber,
		metrics:     m,
		logger:      logger.With("component", "whatsapp_bridge"),
		timeout:     60 * time.Second,
	}
}

// SessionID is the dialogue session used for a sender.
func SessionID(sender types.JID) string {
	return "wa:" + sender.ToNonAD().User
}

// HandleMessage processes one inbound event and replies to the sender.
func (b *Bridge) HandleMessage(ctx context.Context, evt *events.Message) {
	if evt == nil || evt.Message == nil || evt.Info.IsFromMe || evt.Info.IsGroup {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	msgType := detectMessageType(evt)
	if b.metrics != nil {
		b.metrics.WAIncomingMessages.WithLabelValues(msgType).Inc()
	}
	sender := evt.Info.Sender

	text := extractText(evt)
	if text == "" {
		if msgType != "audio" {
			b.reply(ctx, sender, replyTypeText)
			return
		}
		var ok bool
		if text, ok = b.transcribe(ctx, evt); !ok {
			b.reply(ctx, sender, replyUnclear)
			return
		}
	}

	id := SessionID(sender)
	if strings.EqualFold(text, restartCommand) {
		b.start(ctx, sender, id)
		return
	}

	resp, err := b.dialogue.SubmitInput(ctx, id, text)
	if errors.Is(err, session.ErrSessionNotFound) {
		// first contact: greet, then treat anything but a greeting as the first answer
		if !b.start(ctx, sender, id) || isGreeting(text) {
			return
		}
		resp, err = b.dialogue.SubmitInput(ctx, id, text)
	}

	switch {
	case errors.Is(err, convo.ErrRateLimited):
		b.reply(ctx, sender, replySlowDown)
	case err != nil:
		b.logger.Error("submit input failed", "session_id", id, "error", err)
		b.countError()
		b.reply(ctx, sender, replyBusy)
	default:
		b.reply(ctx, sender, resp.Message)
		if resp.NextField == nil {
			b.logger.Info("dialogue finished", "session_id", id)
		}
	}
}

func (b *Bridge) start(ctx context.Context, to types.JID, id string) bool {
	resp, err := b.dialogue.StartFlow(ctx, id)
	if err != nil {
		b.logger.Error("start flow failed", "session_id", id, "error", err)
		b.countError()
		b.reply(ctx, to, replyBusy)
		return false
	}
	b.reply(ctx, to, resp.Message)
	return true
}

var greetings = map[string]bool{
	"hi": true, "hii": true, "hello": true, "hey": true, "hai": true,
	"namaste": true, "namaskar": true, "नमस्ते": true, "नमस्कार": true,
	"start": true, "good morning": true, "good afternoon": true, "good evening": true,
}

func isGreeting(text string) bool {
	return greetings[strings.Trim(strings.ToLower(strings.TrimSpace(text)), "!.,?")]
}

func (b *Bridge) transcribe(ctx context.Context, evt *events.Message) (string, bool) {
	if b.transcriber == nil {
		return "", false
	}
	data, mime, err := b.messenger.DownloadMedia(ctx, evt.Message)
	if err != nil {
		b.logger.Error("download audio failed", "error", err)
		return "", false
	}
	transcript, err := b.transcriber.TranscribeAudio(ctx, data, mime)
	if err != nil {
		b.logger.Error("transcribe audio failed", "error", err)
		b.countError()
		return "", false
	}
	transcript = strings.TrimSpace(transcript)
	return transcript, transcript != ""
}

func (b *Bridge) reply(ctx context.Context, to types.JID, text string) {
	if err := b.messenger.SendText(ctx, to, text); err != nil {
		b.logger.Warn("failed sending reply", "to", to.User, "error", err)
		b.countError()
	}
}

func (b *Bridge) countError() {
	if b.metrics != nil {
		b.metrics.Errors.WithLabelValues("whatsapp").Inc()
	}
}

func detectMessageType(evt *events.Message) string {
	msg := evt.Message
	switch {
	case msg.GetConversation() != "":
		return "text"
	case msg.ExtendedTextMessage != nil:
		return "extended_text"
	case msg.AudioMessage != nil:
		return "audio"
	case msg.ImageMessage != nil:
		return "image"
	case msg.DocumentMessage != nil:
		return "document"
	default:
		return "unknown"
	}
}

func extractText(evt *events.Message) string {
	msg := evt.Message
	switch {
	case msg.GetConversation() != "":
		return strings.TrimSpace(msg.GetConversation())
	case msg.ExtendedTextMessage != nil:
		return strings.TrimSpace(msg.GetExtendedTextMessage().GetText())
	default:
		return ""
	}
}
