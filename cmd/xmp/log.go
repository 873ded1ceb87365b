package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/signadot/xmpdom/xmperr"
)

var (
	theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				if a.Value.String() == "INFO" {
					return slog.Attr{}
				}
			}
			return a
		},
	}))
)

// notifier logs every record. Warnings are recovered unless strict.
func notifier(strict bool) xmperr.Notifier {
	return xmperr.NotifierFunc(func(e *xmperr.Error) bool {
		ok := !strict && e.Severity == xmperr.SeverityWarning
		level := slog.LevelError
		if ok {
			level = slog.LevelWarn
		}
		attrs := []any{
			"domain", e.Domain.String(),
			"code", xmperr.CodeName(e.Domain, e.Code),
		}
		if e.Location != "" {
			attrs = append(attrs, "at", e.Location)
		}
		theLog.Log(context.Background(), level, e.Message, attrs...)
		return ok
	})
}
