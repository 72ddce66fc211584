// Package logfields defines canonical slog attribute helpers so field names
// do not drift between the driver, the daemon, and the CLI.
package logfields

import "log/slog"

const (
	KeyCommand    = "command"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyWorkdir    = "workdir"
	KeyWorkspace  = "workspace"
	KeySchedule   = "schedule"
	KeySubject    = "subject"
	KeyURL        = "url"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

func Command(name string) slog.Attr    { return slog.String(KeyCommand, name) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Workdir(dir string) slog.Attr     { return slog.String(KeyWorkdir, dir) }
func Workspace(name string) slog.Attr  { return slog.String(KeyWorkspace, name) }
func Schedule(name string) slog.Attr   { return slog.String(KeySchedule, name) }
func Subject(subject string) slog.Attr { return slog.String(KeySubject, subject) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
