// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	DaemonAddr     string
}

var enabled bool

// xrayLoggerAdapter routes X-Ray SDK logs through the application logger.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.logger.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg.String())
	case xraylog.LogLevelError:
		l.logger.Error(msg.String())
	}
}

// Initialize configures AWS X-Ray. With Enabled false the tracing helpers
// become pass-throughs, so callers never need their own guard.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr:     cfg.DaemonAddr,
		ServiceVersion: cfg.ServiceVersion,
	}); err != nil {
		return fmt.Errorf("failed to configure X-Ray: %w", err)
	}
	enabled = true

	logger.WithFields(logrus.Fields{
		"daemon_addr":  cfg.DaemonAddr,
		"service_name": cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// WithSegment runs fn inside a new top-level segment. Background jobs have no
// incoming request to inherit a trace from, so they open their own.
func WithSegment(ctx context.Context, name string, fn func(context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}
	ctx, seg := xray.BeginSegment(ctx, name)
	err := fn(ctx)
	seg.Close(err)
	return err
}

// Capture runs fn inside a subsegment of the current trace.
func Capture(ctx context.Context, name string, fn func(context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}
	return xray.Capture(ctx, name, fn)
}

// AddAnnotation adds an indexed annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if !enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}

// AddError records an error on the current segment.
func AddError(ctx context.Context, err error) {
	if !enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddError(err)
	}
}
