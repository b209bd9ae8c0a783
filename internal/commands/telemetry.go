package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-contentjson/internal/logging"
	"github.com/goliatone/go-contentjson/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus classifies how an execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to telemetry callbacks once per execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	// Logger already carries Fields.
	Logger interfaces.Logger
}

// Telemetry is called after every execution, successful or not.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs one entry per execution. Cancelled and timed out runs
// are logged as warnings since the content itself was not at fault.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{
			"status", string(info.Status),
			"duration_ms", info.Duration.Milliseconds(),
		}
		if info.Error != nil {
			args = append(args, "error", info.Error)
		}

		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.completed", args...)
		case TelemetryStatusContextError:
			entry.Warn("command.interrupted", args...)
		default:
			entry.Error("command.failed", args...)
		}
	}
}
