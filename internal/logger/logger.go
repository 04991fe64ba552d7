package logger

import (
	stdlog "log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured logger writing JSON lines
type Logger struct {
	*zap.SugaredLogger
}

// New creates a logger that writes errors to stderr and everything else to stdout
func New(loglevel zapcore.Level) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	stderrLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= loglevel && lvl >= zapcore.ErrorLevel
	})

	stdoutLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= loglevel && lvl < zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), stderrLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), stdoutLevel),
	)

	log := zap.New(core, zap.AddCaller())

	// Redirect stdlib log package to zap
	_, _ = zap.RedirectStdLogAt(log, zapcore.ErrorLevel)

	return &Logger{
		log.Sugar(),
	}
}

// With returns a child logger that adds the key value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

type httpErrorLog struct {
	log *Logger
}

func (h *httpErrorLog) Write(p []byte) (int, error) {
	m := strings.TrimSpace(string(p))

	// Aborted multipart uploads are the client's problem
	if strings.HasPrefix(m, "http: URL query contains semicolon") || strings.Contains(m, "multipart: NextPart: EOF") {
		h.log.Debug(m)
	} else {
		h.log.Error(m)
	}

	return len(p), nil
}

// NewHTTPErrorLog returns a stdlib logger for http.Server.ErrorLog
func NewHTTPErrorLog(logger *Logger) *stdlog.Logger {
	return stdlog.New(&httpErrorLog{logger}, "", 0)
}
