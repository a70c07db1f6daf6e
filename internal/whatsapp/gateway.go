// Package whatsapp connects the dialogue engine to WhatsApp through whatsmeow.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

// GatewayConfig locates the device store.
type GatewayConfig struct {
	StorePath string
	LogLevel  string
}

// Gateway owns the whatsmeow client.
type Gateway struct {
	client *whatsmeow.Client
	logger *slog.Logger
}

// NewGateway opens the sqlite device store and prepares a client. Call
// Connect to log in.
func NewGateway(ctx context.Context, cfg GatewayConfig, logger *slog.Logger) (*Gateway, error) {
	if cfg.StorePath == "" {
		return nil, fmt.Errorf("whatsapp store path is empty")
	}
	if dir := filepath.Dir(cfg.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create whatsapp store dir: %w", err)
		}
	}
	level := strings.ToUpper(cfg.LogLevel)
	if level == "" {
		level = "INFO"
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.StorePath)
	container, err := sqlstore.New(ctx, "sqlite", dsn, waLog.Stdout("Database", level, true))
	if err != nil {
		return nil, fmt.Errorf("open whatsapp store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load whatsapp device: %w", err)
	}

	return &Gateway{
		client: whatsmeow.NewClient(device, waLog.Stdout("Client", level, true)),
		logger: logger.With("component", "whatsapp"),
	}, nil
}

// OnMessage registers fn for every inbound message event.
func (g *Gateway) OnMessage(fn func(*events.Message)) {
	g.client.AddEventHandler(func(evt any) {
		switch v := evt.(type) {
		case *events.Message:
			fn(v)
		case *events.Connected:
			g.logger.Info("whatsapp connected")
		case *events.LoggedOut:
			g.logger.Warn("whatsapp logged out", "reason", v.Reason)
		}
	})
}

// Connect logs in, printing a QR code to the terminal when the device is new.
func (g *Gateway) Connect(ctx context.Context) error {
	if g.client.Store.ID != nil {
		if err := g.client.Connect(); err != nil {
			return fmt.Errorf("connect whatsapp: %w", err)
		}
		return nil
	}

	qrChan, err := g.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("whatsapp qr channel: %w", err)
	}
	if err := g.client.Connect(); err != nil {
		return fmt.Errorf("connect whatsapp for login: %w", err)
	}
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			g.logger.Info("scan the QR code to link the voicebot")
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		case "success":
			g.logger.Info("whatsapp login succeeded")
			return nil
		default:
			g.logger.Warn("whatsapp login event", "event", evt.Event)
		}
	}
	if g.client.Store.ID == nil {
		return fmt.Errorf("whatsapp login did not complete")
	}
	return nil
}

// SendText sends a plain text message.
func (g *Gateway) SendText(ctx context.Context, to types.JID, text string) error {
	if text == "" {
		return nil
	}
	msg := &waProto.Message{Conversation: proto.String(text)}
	if _, err := g.client.SendMessage(ctx, to.ToNonAD(), msg); err != nil {
		return fmt.Errorf("send whatsapp message to %s: %w", to.User, err)
	}
	return nil
}

// DownloadMedia fetches the audio attachment of msg with its MIME type.
func (g *Gateway) DownloadMedia(ctx context.Context, msg *waProto.Message) ([]byte, string, error) {
	audio := msg.GetAudioMessage()
	if audio == nil {
		return nil, "", fmt.Errorf("message has no audio attachment")
	}
	data, err := g.client.Download(ctx, audio)
	if err != nil {
		return nil, "", fmt.Errorf("download audio: %w", err)
	}
	return data, audio.GetMimetype(), nil
}

// Close disconnects the client.
func (g *Gateway) Close() {
	g.client.Disconnect()
}
