package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RishabhSinha02/chronologicon/config"
	"github.com/RishabhSinha02/chronologicon/core/store"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

const feedHeader = "event_id|event_name|start_date|end_date|parent_event_id|research_value|description"

func newTestService(t *testing.T) (*Service, store.EventsStore) {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: store.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := store.NewDB(cfg, utils.NewLogger())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, store.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	events := store.NewEventsStore(db, store.DriverSQLite)
	return NewService(events, NewRegistry(), utils.NewLogger()), events
}

func writeFeed(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.txt")
	content := feedHeader + "\n" + strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

// runJob processes the file on the caller's goroutine so assertions do not race
// the background worker.
func runJob(t *testing.T, svc *Service, path string) *Job {
	t.Helper()
	const jobID = "job-test"
	svc.registry.Create(jobID)
	svc.processFile(context.Background(), path, jobID)
	job, ok := svc.Job(jobID)
	if !ok {
		t.Fatalf("job %s missing from registry", jobID)
	}
	return job
}

func TestProcessFileCountsAndCompletes(t *testing.T) {
	svc, events := newTestService(t)
	path := writeFeed(t,
		"ev1|First|2024-01-01T10:00:00Z|2024-01-01T11:30:00Z|NULL|high|An opening move",
		"ev2|Second|2024-01-02T10:00:00Z|2024-01-02T12:00:00Z|ev1|low|A follow-up",
		"broken line without delimiters",
	)

	job := runJob(t, svc, path)
	if job.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", job.Status, StatusCompleted)
	}
	if job.ProcessedLines != 2 || job.ErrorLines != 1 {
		t.Fatalf("processed=%d errors=%d, want 2/1", job.ProcessedLines, job.ErrorLines)
	}

	got, err := events.GetByID(context.Background(), "ev1")
	if err != nil || got == nil {
		t.Fatalf("ev1 not stored: %v %v", got, err)
	}
	if got.DurationMinutes != 90 {
		t.Fatalf("duration = %v, want 90", got.DurationMinutes)
	}
	if got.Metadata.ResearchValue != "high" {
		t.Fatalf("research value lost: %+v", got.Metadata)
	}
}

func TestProcessFileErrorLineNumbers(t *testing.T) {
	svc, _ := newTestService(t)
	path := writeFeed(t,
		"ev1|Fine|2024-01-01T10:00:00Z|2024-01-01T11:00:00Z|NULL||ok",
		"too|few|fields",
		"ev3|Bad Date|not-a-date|2024-01-01T11:00:00Z|NULL||nope",
	)

	job := runJob(t, svc, path)
	if len(job.Errors) != 2 {
		t.Fatalf("errors = %v, want 2 entries", job.Errors)
	}
	// Line numbers count the header as line 1.
	if !strings.HasPrefix(job.Errors[0], "Line 3: malformed (not enough fields)") {
		t.Fatalf("unexpected malformed error: %q", job.Errors[0])
	}
	if !strings.HasPrefix(job.Errors[1], "Line 4: ") {
		t.Fatalf("unexpected date error: %q", job.Errors[1])
	}
}

func TestProcessFileDuplicateIDCountsAsProcessed(t *testing.T) {
	svc, events := newTestService(t)
	path := writeFeed(t,
		"dup|Original|2024-01-01T10:00:00Z|2024-01-01T11:00:00Z|NULL||first",
		"dup|Imitator|2024-02-01T10:00:00Z|2024-02-01T11:00:00Z|NULL||second",
	)

	job := runJob(t, svc, path)
	if job.ProcessedLines != 2 || job.ErrorLines != 0 {
		t.Fatalf("processed=%d errors=%d, want 2/0", job.ProcessedLines, job.ErrorLines)
	}
	got, err := events.GetByID(context.Background(), "dup")
	if err != nil || got == nil {
		t.Fatalf("dup missing: %v %v", got, err)
	}
	if got.EventName != "Original" {
		t.Fatalf("first write should win, got %q", got.EventName)
	}
}

func TestProcessFileNegativeDurationAccepted(t *testing.T) {
	svc, events := newTestService(t)
	path := writeFeed(t,
		"rev|Reversed|2024-01-01T12:00:00Z|2024-01-01T11:00:00Z|NULL||end before start",
	)

	job := runJob(t, svc, path)
	if job.ProcessedLines != 1 || job.ErrorLines != 0 {
		t.Fatalf("processed=%d errors=%d, want 1/0", job.ProcessedLines, job.ErrorLines)
	}
	got, _ := events.GetByID(context.Background(), "rev")
	if got == nil || got.DurationMinutes != -60 {
		t.Fatalf("expected duration -60, got %+v", got)
	}
}

func TestProcessFileReadErrorFailsJob(t *testing.T) {
	svc, _ := newTestService(t)
	job := runJob(t, svc, filepath.Join(t.TempDir(), "missing.txt"))
	if job.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", job.Status, StatusFailed)
	}
	if job.ProcessedLines != 0 || job.ErrorLines != 0 {
		t.Fatalf("counters should be untouched, got %d/%d", job.ProcessedLines, job.ErrorLines)
	}
	if len(job.Errors) != 1 || !strings.HasPrefix(job.Errors[0], "File read error: ") {
		t.Fatalf("unexpected errors: %v", job.Errors)
	}
}

func TestParentNullTokenIsCaseSensitive(t *testing.T) {
	svc, events := newTestService(t)
	path := writeFeed(t,
		"p1|No Parent|2024-01-01T10:00:00Z|2024-01-01T11:00:00Z|NULL||root",
		"p2|Lowercase Parent|2024-01-01T10:00:00Z|2024-01-01T11:00:00Z|null||literal",
	)

	runJob(t, svc, path)
	ctx := context.Background()
	p1, _ := events.GetByID(ctx, "p1")
	if p1 == nil || p1.ParentEventID != nil {
		t.Fatalf("NULL token should clear parent, got %+v", p1)
	}
	p2, _ := events.GetByID(ctx, "p2")
	if p2 == nil || p2.ParentEventID == nil || *p2.ParentEventID != "null" {
		t.Fatalf("lowercase null should be a literal parent id, got %+v", p2)
	}
}

func TestSubmitReturnsUniqueJobIDs(t *testing.T) {
	svc, _ := newTestService(t)
	path := writeFeed(t, "u1|One|2024-01-01T10:00:00Z|2024-01-01T11:00:00Z|NULL||x")

	ids := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		id := svc.Submit(path)
		if !strings.HasPrefix(id, "job-") {
			t.Fatalf("unexpected id %q", id)
		}
		if _, dup := ids[id]; dup {
			t.Fatalf("duplicate job id %q", id)
		}
		ids[id] = struct{}{}
	}
}

func TestSplitLinesHandlesCRLFAndBlank(t *testing.T) {
	lines := splitLines("a\r\nb\n\nc\n")
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}
