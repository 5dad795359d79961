package status

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback outside the per-file
// stream: config warnings, init results, fatal setup failures.
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger.
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// Success reports a completed step.
func (u *UserLogger) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(msg)
	u.log.Info().Msg(msg)
}

// Info reports a neutral step.
func (u *UserLogger) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pterm.Info.WithPrefix(pterm.Prefix{Text: "ℹ️"}).Println(msg)
	u.log.Info().Msg(msg)
}

// Warning reports a recoverable problem, like a config layer that failed
// to parse and was treated as empty.
func (u *UserLogger) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(msg)
	u.log.Warn().Msg(msg)
}

// Error reports a failure the run cannot recover from.
func (u *UserLogger) Error(err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(msg)
	if err != nil {
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(msg)
		return
	}
	u.log.Error().Msg(msg)
}
