package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyUnit       = "unit"
	KeyBatchID    = "batch_id"
	KeySection    = "section"
	KeyFile       = "file"
	KeyParser     = "parser"
	KeyDocPath    = "doc_path"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyConflicts  = "conflicts"
	KeyWarnings   = "warnings"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Unit(name string) slog.Attr        { return slog.String(KeyUnit, name) }
func BatchID(id string) slog.Attr       { return slog.String(KeyBatchID, id) }
func Section(id string) slog.Attr       { return slog.String(KeySection, id) }
func File(path string) slog.Attr        { return slog.String(KeyFile, path) }
func Parser(name string) slog.Attr      { return slog.String(KeyParser, name) }
func DocPath(path string) slog.Attr     { return slog.String(KeyDocPath, path) }
func Status(s string) slog.Attr         { return slog.String(KeyStatus, s) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Conflicts(n int) slog.Attr         { return slog.Int(KeyConflicts, n) }
func Warnings(n int) slog.Attr          { return slog.Int(KeyWarnings, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
