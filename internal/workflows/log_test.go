package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pentimento/pentimento/internal/audit"
	"github.com/pentimento/pentimento/internal/configs"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// setupAuditLog points the settings at a temp directory and writes the
// given JSONL lines as the audit log. A nil slice leaves the log absent.
func setupAuditLog(t *testing.T, lines []string) {
	t.Helper()

	tempDir := t.TempDir()
	original := configs.UserPentimentoSettings
	t.Cleanup(func() { configs.UserPentimentoSettings = original })
	configs.UserPentimentoSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "configs"),
		UserDataPath:    filepath.Join(tempDir, "data"),
		Username:        "testuser",
	}

	if lines == nil {
		return
	}
	if err := os.MkdirAll(configs.UserPentimentoSettings.UserDataPath, 0o700); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(configs.UserPentimentoSettings.AuditLogPath(), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write audit log: %v", err)
	}
}

func auditLine(ts, op, containerID string) string {
	return fmt.Sprintf(`{"ts":%q,"user":"testuser","op":%q,"container_id":%q}`, ts, op, containerID)
}

func TestAuditLogReadsAllEntries(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-02T10:00:00.000000Z", "reveal", "1111"),
		auditLine("2026-03-03T10:00:00.000000Z", "revoke", "1111"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if result.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", result.TotalEntries)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("Entries = %d, want 3", len(result.Entries))
	}
	if result.Entries[0].Operation != "hide" {
		t.Errorf("First entry op = %q, want hide", result.Entries[0].Operation)
	}
}

func TestAuditLogMissingLog(t *testing.T) {
	setupAuditLog(t, nil)

	result, err := AuditLog(context.Background(), AuditLogOptions{})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if result.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0", result.TotalEntries)
	}
	if len(result.Entries) != 0 {
		t.Errorf("Entries = %d, want 0", len(result.Entries))
	}
}

func TestAuditLogFilterByOperation(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-02T10:00:00.000000Z", "reveal", "1111"),
		auditLine("2026-03-03T10:00:00.000000Z", "revoke", "2222"),
		auditLine("2026-03-04T10:00:00.000000Z", "hide", "3333"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{Op: "hide"})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(result.Entries))
	}
	for _, e := range result.Entries {
		if e.Operation != "hide" {
			t.Errorf("Unexpected op %q in filtered entries", e.Operation)
		}
	}
	// Total reflects the unfiltered log.
	if result.TotalEntries != 4 {
		t.Errorf("TotalEntries = %d, want 4", result.TotalEntries)
	}
}

func TestAuditLogFilterByMultipleOperations(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-02T10:00:00.000000Z", "reveal", "1111"),
		auditLine("2026-03-03T10:00:00.000000Z", "revoke", "2222"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{Op: "hide, revoke"})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(result.Entries))
	}
	if result.Entries[0].Operation != "hide" || result.Entries[1].Operation != "revoke" {
		t.Errorf("Filtered ops = %q, %q", result.Entries[0].Operation, result.Entries[1].Operation)
	}
}

func TestAuditLogSinceFilter(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-05T10:00:00.000000Z", "reveal", "1111"),
		auditLine("2026-03-09T10:00:00.000000Z", "revoke", "1111"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{Since: "2026-03-05"})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(result.Entries))
	}
	if result.Entries[0].Operation != "reveal" {
		t.Errorf("First entry op = %q, want reveal", result.Entries[0].Operation)
	}
}

func TestAuditLogUntilIncludesWholeDay(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-05T23:59:59.000000Z", "reveal", "1111"),
		auditLine("2026-03-06T00:00:01.000000Z", "revoke", "1111"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{Until: "2026-03-05"})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(result.Entries))
	}
	if result.Entries[1].Operation != "reveal" {
		t.Errorf("Last entry op = %q, want reveal", result.Entries[1].Operation)
	}
}

func TestAuditLogInvalidDates(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
	})

	if _, err := AuditLog(context.Background(), AuditLogOptions{Since: "03/01/2026"}); !errors.Is(err, perrors.ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat for --since, got %v", err)
	}
	if _, err := AuditLog(context.Background(), AuditLogOptions{Until: "yesterday"}); !errors.Is(err, perrors.ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat for --until, got %v", err)
	}
}

func TestAuditLogLimitKeepsMostRecent(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-02T10:00:00.000000Z", "reveal", "2222"),
		auditLine("2026-03-03T10:00:00.000000Z", "revoke", "3333"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{Limit: 2})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(result.Entries))
	}
	if result.Entries[0].Operation != "reveal" || result.Entries[1].Operation != "revoke" {
		t.Errorf("Limit kept %q, %q; want reveal, revoke", result.Entries[0].Operation, result.Entries[1].Operation)
	}
}

func TestAuditLogReverse(t *testing.T) {
	setupAuditLog(t, []string{
		auditLine("2026-03-01T10:00:00.000000Z", "hide", "1111"),
		auditLine("2026-03-02T10:00:00.000000Z", "reveal", "2222"),
	})

	result, err := AuditLog(context.Background(), AuditLogOptions{Reverse: true})
	if err != nil {
		t.Fatalf("AuditLog failed: %v", err)
	}
	if result.Entries[0].Operation != "reveal" {
		t.Errorf("First entry op = %q, want reveal", result.Entries[0].Operation)
	}
	if result.Entries[1].Operation != "hide" {
		t.Errorf("Second entry op = %q, want hide", result.Entries[1].Operation)
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Microsecond format", "2026-03-01T10:20:30.123456Z", "2026-03-01 10:20:30"},
		{"RFC3339 fallback", "2026-03-01T10:20:30Z", "2026-03-01 10:20:30"},
		{"Unparseable long string", "2026-03-01X10:20:30.123456Z", "2026-03-01X10:20:30"},
		{"Unparseable short string", "garbage", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDateTime(tt.input); got != tt.expected {
				t.Errorf("FormatDateTime(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-03-01T10:20:30.123456Z"); got != "2026-03-01" {
		t.Errorf("FormatDate = %q, want 2026-03-01", got)
	}
	if got := FormatDate("bad"); got != "bad" {
		t.Errorf("FormatDate = %q, want bad", got)
	}
}

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		name     string
		entry    audit.Entry
		expected string
	}{
		{
			"Hide with label",
			audit.Entry{Operation: "hide", ContainerID: "abcd", Label: "tax-records", RequiredBytes: 4096},
			"abcd (tax-records, 4096 bytes)",
		},
		{
			"Hide without label",
			audit.Entry{Operation: "hide", ContainerID: "abcd", RequiredBytes: 4096},
			"abcd (4096 bytes)",
		},
		{
			"Reveal",
			audit.Entry{Operation: "reveal", ContainerID: "abcd"},
			"abcd",
		},
		{
			"Revoke",
			audit.Entry{Operation: "revoke", ContainerID: "abcd"},
			"abcd",
		},
		{
			"Purge",
			audit.Entry{Operation: "purge", RecordsCount: 7},
			"removed 7 records",
		},
		{
			"Init",
			audit.Entry{Operation: "init"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDetails(tt.entry); got != tt.expected {
				t.Errorf("FormatDetails = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatDetailsOneline(t *testing.T) {
	if got := FormatDetailsOneline(audit.Entry{Operation: "purge", RecordsCount: 3}); got != "3 records" {
		t.Errorf("FormatDetailsOneline = %q, want 3 records", got)
	}
	if got := FormatDetailsOneline(audit.Entry{Operation: "inspect", ContainerID: "abcd"}); got != "abcd" {
		t.Errorf("FormatDetailsOneline = %q, want abcd", got)
	}
	if got := FormatDetailsOneline(audit.Entry{Operation: "init"}); got != "" {
		t.Errorf("FormatDetailsOneline = %q, want empty", got)
	}
}
