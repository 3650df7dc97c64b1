package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pentimento/pentimento/internal/audit"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// AuditLogOptions configures the log workflow.
type AuditLogOptions struct {
	// Limit is the maximum number of entries to return, taken from the
	// most recent end. 0 means no limit.
	Limit int

	// Reverse returns the most recent entries first.
	Reverse bool

	// Op filters entries by operation types (comma-separated).
	Op string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// AuditLogResult contains the outcome of a log operation.
type AuditLogResult struct {
	// Entries are the filtered audit log entries, oldest first.
	Entries []audit.Entry

	// TotalEntries is the count of entries before filtering.
	TotalEntries int
}

// AuditLog reads and filters the local audit log.
//
// Returns ErrInvalidDateFormat if a date filter is malformed.
func AuditLog(ctx context.Context, opts AuditLogOptions) (*AuditLogResult, error) {
	entries, err := readAuditEntries()
	if err != nil {
		return nil, err
	}

	result := &AuditLogResult{
		TotalEntries: len(entries),
	}

	filtered := entries

	if opts.Op != "" {
		ops := strings.Split(opts.Op, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.Since != "" {
		sinceTime, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", perrors.ErrInvalidDateFormat)
		}
		filtered = filterSince(filtered, sinceTime)
	}

	if opts.Until != "" {
		untilTime, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", perrors.ErrInvalidDateFormat)
		}
		// Include the entire day by setting to end of day.
		untilTime = untilTime.Add(24*time.Hour - time.Nanosecond)
		filtered = filterUntil(filtered, untilTime)
	}

	// Limit takes the most recent entries.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[len(filtered)-opts.Limit:]
	}

	if opts.Reverse {
		reversed := make([]audit.Entry, len(filtered))
		for i, e := range filtered {
			reversed[len(filtered)-1-i] = e
		}
		filtered = reversed
	}

	result.Entries = filtered
	return result, nil
}

// readAuditEntries loads the audit log, treating a missing log as empty.
func readAuditEntries() ([]audit.Entry, error) {
	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	return entries, nil
}

// filterByOperations filters entries by operation types.
func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

// filterSince filters entries to only include those at or after the given time.
func filterSince(entries []audit.Entry, since time.Time) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, err := parseTimestamp(e.Timestamp)
		if err != nil {
			continue
		}
		if !t.Before(since) {
			result = append(result, e)
		}
	}
	return result
}

// filterUntil filters entries to only include those at or before the given time.
func filterUntil(entries []audit.Entry, until time.Time) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, err := parseTimestamp(e.Timestamp)
		if err != nil {
			continue
		}
		if !t.After(until) {
			result = append(result, e)
		}
	}
	return result
}

// parseTimestamp parses an audit log timestamp, accepting RFC3339 as a
// fallback for entries written by hand or by older builds.
func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.000000Z", ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDate formats a timestamp string to YYYY-MM-DD format.
func FormatDate(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format("2006-01-02")
}

// FormatDetailsOneline formats compact details for the oneline log format.
func FormatDetailsOneline(e audit.Entry) string {
	switch e.Operation {
	case "hide", "reveal", "inspect", "revoke":
		return e.ContainerID
	case "purge":
		return fmt.Sprintf("%d records", e.RecordsCount)
	default:
		return ""
	}
}

// FormatDetails formats the operation-specific details for a log entry.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case "hide":
		if e.Label != "" {
			return fmt.Sprintf("%s (%s, %d bytes)", e.ContainerID, e.Label, e.RequiredBytes)
		}
		return fmt.Sprintf("%s (%d bytes)", e.ContainerID, e.RequiredBytes)
	case "reveal", "inspect":
		return e.ContainerID
	case "revoke":
		return e.ContainerID
	case "purge":
		return fmt.Sprintf("removed %d records", e.RecordsCount)
	case "init":
		return ""
	default:
		return ""
	}
}
