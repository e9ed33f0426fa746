package core

import (
	"go.uber.org/zap"
)

// LogSink writes user-facing lines through a zap logger.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("sink")}
}

func (s *LogSink) Info(msg string) {
	s.logger.Info(msg)
}

func (s *LogSink) Advice(msg string) {
	s.logger.Info(msg, zap.Bool("advice", true))
}

func (s *LogSink) Warning(msg string) {
	s.logger.Warn(msg)
}
