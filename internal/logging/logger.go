// Package logging sets up the structured logger used by the network-facing
// layers (transport, session, the server command). The OT core in
// pkg/ot never imports this package: it must stay free of I/O side effects.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide structured logger.
var Log *zap.Logger

// Initialize builds Log at the given level ("debug", "info", "warn",
// "error"; default "info"). It writes a single console stream — there is
// no rotating log file to manage for a peer-to-peer editing process.
func Initialize(level string) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		parseLevel(level),
	)
	Log = zap.New(core, zap.AddCaller())
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries; call before process exit.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
