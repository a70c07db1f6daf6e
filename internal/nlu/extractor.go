// Package nlu turns caller utterances into structured field values with an
// LLM. Providers implement Completer; Extractor owns prompts and parsing.
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable means the model answered with something that is not a JSON
// object. It is a contract violation, not a caller mistake.
var ErrUnparseable = errors.New("llm response is not a json object")

// Completer sends one prompt to a language model and returns its raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor asks a Completer for one field at a time.
type Extractor struct {
	completer Completer
	logger    *slog.Logger
	now       func() time.Time
}

// NewExtractor wraps completer.
func NewExtractor(completer Completer, logger *slog.Logger) *Extractor {
	return &Extractor{
		completer: completer,
		logger:    logger.With("component", "extractor"),
		now:       time.Now,
	}
}

// ExtractField returns the model's answer for field as a flat string map.
// JSON null becomes "". Transport errors are returned as-is; an answer that
// cannot be read as a JSON object yields ErrUnparseable.
func (x *Extractor) ExtractField(ctx context.Context, field, utterance, language string) (map[string]string, error) {
	prompt := BuildPrompt(field, x.now(), utterance, language)
	raw, err := x.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", field, err)
	}
	out, err := ParseObject(raw)
	if err != nil {
		x.logger.Error("unparseable extraction", "field", field, "snippet", snippet(raw))
		return nil, fmt.Errorf("extract %s: %w", field, err)
	}
	x.logger.Debug("extracted", "field", field, "result", out)
	return out, nil
}

// ParseObject reads the first JSON object in text, tolerating code fences and
// prose around it.
func ParseObject(text string) (map[string]string, error) {
	s := stripFences(text)
	if obj, ok := decodeObject(s); ok {
		return obj, nil
	}
	if candidate, found := firstBalancedObject(s); found {
		if obj, ok := decodeObject(candidate); ok {
			return obj, nil
		}
	}
	return nil, ErrUnparseable
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	if strings.HasPrefix(strings.ToLower(s), "json") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimSpace(s[len("json"):])
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// firstBalancedObject scans for the first {...} whose braces balance,
// ignoring braces inside string literals.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		depth := 0
		inString, escaped := false, false
		for i := start; i < len(s); i++ {
			ch := s[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case ch == '\\':
					escaped = true
				case ch == '"':
					inString = false
				}
				continue
			}
			switch ch {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func decodeObject(s string) (map[string]string, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, false
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = stringify(v)
	}
	return out, true
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(val)
		return strings.TrimSpace(buf.String())
	}
}

func snippet(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
