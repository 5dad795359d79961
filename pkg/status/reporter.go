package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/renamerc/pkg/engine"
	"github.com/walteh/renamerc/pkg/planner"
)

// 🖥️ ConsoleReporter implements engine.Reporter on an io.Writer. One
// reporter serves one invocation; the CLI constructs a fresh one per run
// and hands it to the engine.
type ConsoleReporter struct {
	console   io.Writer
	formatter FileFormatter
	zlog      zerolog.Logger
	mu        sync.Mutex
}

// NewConsoleReporter creates a reporter writing to console.
func NewConsoleReporter(console io.Writer, logger zerolog.Logger) *ConsoleReporter {
	return &ConsoleReporter{
		console:   console,
		formatter: NewDefaultFileFormatter(),
		zlog:      logger,
	}
}

// BatchStarted prints the batch header.
func (r *ConsoleReporter) BatchStarted(kind planner.Kind, total int, dryRun bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	header := fmt.Sprintf("[%s %d file(s)]", kind, total)
	if dryRun {
		header = fmt.Sprintf("[preview: %s %d file(s)]", kind, total)
	}
	fmt.Fprintln(r.console, color.New(color.FgCyan).Sprint(header))

	r.zlog.Info().
		Stringer("operation", kind).
		Int("total", total).
		Bool("dry_run", dryRun).
		Msg("batch started")
}

// FileDone prints one applied or previewed entry.
func (r *ConsoleReporter) FileDone(outcome engine.FileOutcome, kind planner.Kind, conflictResolved, dryRun bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.console, r.formatter.FormatOutcome(outcome, kind, conflictResolved, dryRun))

	r.zlog.Info().
		Str("source", outcome.Source).
		Str("target", outcome.Target).
		Bool("backed_up", outcome.BackedUp).
		Bool("conflict_resolved", conflictResolved).
		Bool("dry_run", dryRun).
		Msg("file done")
}

// FileFailed prints one skipped entry.
func (r *ConsoleReporter) FileFailed(failure engine.FileError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.console, r.formatter.FormatFailure(failure))

	r.zlog.Warn().
		Str("source", failure.Source).
		Str("reason", failure.Reason).
		Msg("file failed")
}

// BatchFinished prints the summary line.
func (r *ConsoleReporter) BatchFinished(result *engine.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result.Success {
		fmt.Fprintf(r.console, "%s %s\n", color.New(color.FgGreen).Sprint("✔"), result.Message)
	} else {
		fmt.Fprintf(r.console, "%s %s\n", color.New(color.FgRed).Sprint("✘"), result.Message)
	}

	r.zlog.Info().
		Bool("success", result.Success).
		Int("processed", result.ProcessedFiles).
		Int("errors", result.Errors).
		Msg(result.Message)
}
