package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenAndMigrate(t *testing.T) {
	s := openTestStore(t)

	err := s.InsertSessionRun(&SessionRun{
		ID:         "run-1",
		PluginPath: "/tmp/plugin.wasm",
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("InsertSessionRun: %v", err)
	}

	run, err := s.GetSessionRun("run-1")
	if err != nil {
		t.Fatalf("GetSessionRun: %v", err)
	}
	if run == nil {
		t.Fatal("expected session run, got nil")
	}
	if run.PluginPath != "/tmp/plugin.wasm" {
		t.Fatalf("PluginPath = %q, want /tmp/plugin.wasm", run.PluginPath)
	}
}

func TestGetSessionRunNotFound(t *testing.T) {
	s := openTestStore(t)

	run, err := s.GetSessionRun("missing")
	if err != nil {
		t.Fatalf("GetSessionRun: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil for non-existent run, got %+v", run)
	}
}

func TestFinishSessionRun(t *testing.T) {
	s := openTestStore(t)
	if err := s.InsertSessionRun(&SessionRun{ID: "run-1", PluginPath: "p.wasm", StartedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("InsertSessionRun: %v", err)
	}

	if err := s.FinishSessionRun("run-1", "2024-01-01T00:01:00Z", "ok"); err != nil {
		t.Fatalf("FinishSessionRun: %v", err)
	}

	run, err := s.GetSessionRun("run-1")
	if err != nil {
		t.Fatalf("GetSessionRun: %v", err)
	}
	if run.EndedAt == nil || *run.EndedAt != "2024-01-01T00:01:00Z" {
		t.Errorf("EndedAt = %v, want 2024-01-01T00:01:00Z", run.EndedAt)
	}
	if run.Outcome == nil || *run.Outcome != "ok" {
		t.Errorf("Outcome = %v, want ok", run.Outcome)
	}
}

func TestExportCallDescriptorLeaks(t *testing.T) {
	s := openTestStore(t)
	if err := s.InsertSessionRun(&SessionRun{ID: "run-1", PluginPath: "p.wasm", StartedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("InsertSessionRun: %v", err)
	}

	balanced := ExportCall{SessionRunID: "run-1", ExportName: "get_manga_list", DescriptorsAllocated: 2, DescriptorsFreed: 2, Outcome: "ok", DurationMS: 5}
	leaked := ExportCall{SessionRunID: "run-1", ExportName: "get_chapter_list", DescriptorsAllocated: 3, DescriptorsFreed: 2, Outcome: "ok", DurationMS: 7}
	if _, err := s.InsertExportCall(&balanced); err != nil {
		t.Fatalf("InsertExportCall: %v", err)
	}
	if _, err := s.InsertExportCall(&leaked); err != nil {
		t.Fatalf("InsertExportCall: %v", err)
	}

	all, err := s.ListExportCalls("run-1")
	if err != nil {
		t.Fatalf("ListExportCalls: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d export calls, want 2", len(all))
	}

	leaks, err := s.DescriptorLeaks("run-1")
	if err != nil {
		t.Fatalf("DescriptorLeaks: %v", err)
	}
	if len(leaks) != 1 || leaks[0].ExportName != "get_chapter_list" {
		t.Errorf("DescriptorLeaks = %+v, want exactly get_chapter_list", leaks)
	}
}

func TestHTTPRequestLogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	if err := s.InsertSessionRun(&SessionRun{ID: "run-1", PluginPath: "p.wasm", StartedAt: "2024-01-01T00:00:00Z"}); err != nil {
		t.Fatalf("InsertSessionRun: %v", err)
	}

	if _, err := s.InsertHTTPRequestLog(&HTTPRequestLog{SessionRunID: "run-1", Method: "GET", URL: "https://example.com", StatusCode: 200, BodyBytes: 128}); err != nil {
		t.Fatalf("InsertHTTPRequestLog: %v", err)
	}

	logs, err := s.ListHTTPRequestLog("run-1")
	if err != nil {
		t.Fatalf("ListHTTPRequestLog: %v", err)
	}
	if len(logs) != 1 || logs[0].StatusCode != 200 {
		t.Errorf("ListHTTPRequestLog = %+v", logs)
	}
}
