package repo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type recordingExecer struct {
	sql  []string
	args [][]any
	err  error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInsertMessage(t *testing.T) {
	db := &recordingExecer{}
	r := newWithExecer(db, discardLogger())

	err := r.InsertMessage(context.Background(), MessageRecord{SessionID: "s1", Direction: "incoming", Step: "otp", Content: "123456"})
	if err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}
	if len(db.sql) != 1 || !strings.Contains(db.sql[0], "dialogue_messages") {
		t.Fatalf("sql = %v", db.sql)
	}
	args := db.args[0]
	if args[1] != "s1" || args[2] != "incoming" || args[3] != "otp" || args[4] != "123456" {
		t.Errorf("args = %v", args)
	}

	if err := r.InsertMessage(context.Background(), MessageRecord{}); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestInsertCase(t *testing.T) {
	db := &recordingExecer{}
	r := newWithExecer(db, discardLogger())

	err := r.InsertCase(context.Background(), CaseRecord{
		SessionID: "s1",
		Flow:      "claim",
		Language:  "hindi",
		Outcome:   "claim_intimated",
		Reference: "1014",
		Fields:    map[string]string{"city_of_accident": "Pune"},
	})
	if err != nil {
		t.Fatalf("InsertCase: %v", err)
	}
	args := db.args[0]
	if ref, ok := args[5].(*string); !ok || *ref != "1014" {
		t.Errorf("reference = %v", args[5])
	}
	var fields map[string]string
	if err := json.Unmarshal(args[6].([]byte), &fields); err != nil || fields["city_of_accident"] != "Pune" {
		t.Errorf("fields = %s, %v", args[6], err)
	}

	_ = r.InsertCase(context.Background(), CaseRecord{SessionID: "s2"})
	if ref, ok := db.args[1][5].(*string); !ok || ref != nil {
		t.Errorf("empty reference should be NULL, got %v", db.args[1][5])
	}
}

func TestExecErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	r := newWithExecer(&recordingExecer{err: boom}, discardLogger())
	err := r.InsertMessage(context.Background(), MessageRecord{SessionID: "s1"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"dialogue_messages", "dialogue_cases"} {
		if !strings.Contains(schema, table) {
			t.Errorf("schema missing %s", table)
		}
	}
}
