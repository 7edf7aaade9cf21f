package pebbledb

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// engineLogger routes pebble's printf-style logging into go-kit.
type engineLogger struct {
	logger log.Logger
}

func (l engineLogger) Infof(format string, args ...interface{}) {
	level.Debug(l.logger).Log("msg", fmt.Sprintf(format, args...))
}

func (l engineLogger) Errorf(format string, args ...interface{}) {
	level.Error(l.logger).Log("msg", fmt.Sprintf(format, args...))
}

// Fatalf reports an unrecoverable engine state. It panics instead of exiting so deferred cleanup
// and recover handlers still run.
func (l engineLogger) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	level.Error(l.logger).Log("msg", msg, "fatal", true)
	panic(msg)
}
