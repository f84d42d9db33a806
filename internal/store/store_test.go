package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"documents", "llm_events", "sequences"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestDocuments_PutGetDelete(t *testing.T) {
	s := openTestStore(t)
	docs := s.Documents()
	ctx := context.Background()

	if _, ok, err := docs.Get(ctx, "interviewState_v1"); err != nil || ok {
		t.Fatalf("get (empty) = ok %v, err %v", ok, err)
	}

	if err := docs.Put(ctx, "interviewState_v1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := docs.Put(ctx, "interviewState_v1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := docs.Get(ctx, "interviewState_v1")
	if err != nil || !ok {
		t.Fatalf("get = ok %v, err %v", ok, err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("value = %s, want {\"a\":2}", got)
	}

	if err := docs.Delete(ctx, "interviewState_v1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := docs.Delete(ctx, "interviewState_v1"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := docs.Get(ctx, "interviewState_v1"); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	ctx := context.Background()

	rows := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question", LatencyMs: 300, ErrorMessage: "503"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "evaluate", InputTokens: 400, OutputTokens: 2, LatencyMs: 200, Success: true, ResponseBody: "82"},
	}
	for _, r := range rows {
		if err := events.AppendLLMRequest(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := events.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "evaluate" || all[0].Sequence <= all[1].Sequence {
		t.Errorf("expected newest first, got %+v", all[0])
	}

	limited, _ := events.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "question"})
	if len(limited) != 1 || limited[0].Success {
		t.Fatalf("expected the failed question event, got %+v", limited)
	}

	failed, _ := events.QueryLLMEvents(ctx, QueryOpts{FailedOnly: true})
	if len(failed) != 1 || failed[0].Success {
		t.Fatalf("expected one failed event, got %+v", failed)
	}

	e, err := events.GetLLMEvent(ctx, all[0].ID)
	if err != nil || e == nil {
		t.Fatalf("get: %v %v", e, err)
	}
	if e.ResponseBody != "82" || e.Timestamp.IsZero() {
		t.Errorf("unexpected event %+v", e)
	}

	missing, err := events.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("missing event = %v, %v", missing, err)
	}

	byPurpose, err := events.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "question" {
		t.Fatalf("unexpected usage %+v", byPurpose)
	}
	if byPurpose[0].Calls != 2 || byPurpose[0].Failures != 1 || byPurpose[0].AvgLatencyMs != 200 {
		t.Errorf("unexpected question usage %+v", byPurpose[0])
	}

	byModel, err := events.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 2 || byModel[0].InputTokens != 410 {
		t.Errorf("unexpected model usage %+v", byModel)
	}
}

func TestSequences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.seq.Next(ctx, "other"); err != nil {
		t.Fatalf("next other: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx, seqLLMEvents)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}

	other, err := s.seq.Next(ctx, "other")
	if err != nil || other != 2 {
		t.Fatalf("other = %d, %v; want 2", other, err)
	}
}
