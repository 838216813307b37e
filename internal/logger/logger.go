package logger

import (
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the console logger shared by the command line tools. Everything
// goes to stderr: stdout is reserved for tool output such as generated XML.
// Each logger carries a run id so that lines from one invocation can be
// grouped when several runs append to the same log.
func New(verbose bool) *zap.Logger {
	globalLevel := zapcore.InfoLevel
	if verbose {
		globalLevel = zapcore.DebugLevel
	}

	ecfg := zap.NewDevelopmentEncoderConfig()
	ecfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ecfg), zapcore.Lock(os.Stderr), globalLevel)

	return zap.New(core).With(zap.String("run", uuid.NewString()))
}
