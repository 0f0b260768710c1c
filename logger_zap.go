// logger_zap.go: zap-backed Logger adapter
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "go.uber.org/zap"

// zapLogger adapts a zap.Logger to the container Logger interface. The
// container only logs slow events, so the sugared API is fine here.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps a zap.Logger for use as Config.Logger. A nil logger
// yields the no-op logger.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return &zapLogger{s: l.Sugar()}
}

func (z *zapLogger) Debug(msg string, keyvals ...interface{}) { z.s.Debugw(msg, keyvals...) }
func (z *zapLogger) Info(msg string, keyvals ...interface{})  { z.s.Infow(msg, keyvals...) }
func (z *zapLogger) Warn(msg string, keyvals ...interface{})  { z.s.Warnw(msg, keyvals...) }
func (z *zapLogger) Error(msg string, keyvals ...interface{}) { z.s.Errorw(msg, keyvals...) }
