package state

import (
	cosmoslog "cosmossdk.io/log"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

// iavl wants a cosmos logger; the rest of the node speaks cmtlog.
type treeLogger struct {
	logger cmtlog.Logger
}

func newTreeLogger(lg cmtlog.Logger) cosmoslog.Logger {
	return treeLogger{logger: lg}
}

func (l treeLogger) Info(msg string, keyVals ...any) {
	l.logger.Info(msg, keyVals...)
}

func (l treeLogger) Error(msg string, keyVals ...any) {
	l.logger.Error(msg, keyVals...)
}

func (l treeLogger) Debug(msg string, keyVals ...any) {
	l.logger.Debug(msg, keyVals...)
}

func (l treeLogger) Warn(msg string, keyVals ...any) {
	l.logger.Info(msg, keyVals...)
}

func (l treeLogger) With(keyVals ...any) cosmoslog.Logger {
	return treeLogger{l.logger.With(keyVals...)}
}

func (l treeLogger) Impl() any {
	return l.logger
}
