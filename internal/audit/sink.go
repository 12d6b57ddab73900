package audit

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink persists a batch of entries.
type Sink interface {
	Write(ctx context.Context, batch []Entry) error
}

// ZapSink writes entries as JSON lines through zap.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink writes JSON audit lines to w.
func NewZapSink(w io.Writer) *ZapSink {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "logged_at"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), zapcore.InfoLevel)
	return NewZapSinkFromLogger(zap.New(core))
}

// NewZapSinkFromLogger wraps an existing zap logger.
func NewZapSinkFromLogger(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.With(zap.String("stream", "audit"))}
}

func (s *ZapSink) Write(_ context.Context, batch []Entry) error {
	for _, e := range batch {
		fields := []zap.Field{
			zap.Time("timestamp", e.Timestamp),
			zap.String("action", e.Action),
			zap.String("method", e.Method),
			zap.String("path", e.Path),
			zap.Int("status_code", e.StatusCode),
			zap.Duration("duration", e.Duration),
		}
		if e.UserID != "" {
			fields = append(fields, zap.String("user_id", e.UserID), zap.String("role", e.Role))
		}
		if e.Target != "" {
			fields = append(fields, zap.String("target", e.Target))
		}
		if e.RequestID != "" {
			fields = append(fields, zap.String("request_id", e.RequestID))
		}
		if e.RemoteAddr != "" {
			fields = append(fields, zap.String("remote_addr", e.RemoteAddr))
		}

		if e.Succeeded() {
			s.logger.Info("audit", fields...)
		} else {
			s.logger.Warn("audit", fields...)
		}
	}
	return nil
}

// Sync flushes buffered output.
func (s *ZapSink) Sync() error {
	return s.logger.Sync()
}
