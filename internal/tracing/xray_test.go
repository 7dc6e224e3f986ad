package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringerMsg string

func (m stringerMsg) String() string { return string(m) }

func TestInitializeDisabledIsNoOp(t *testing.T) {
	err := Initialize(Config{Enabled: false}, logrus.New())
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestWithSegmentDisabledPassesThrough(t *testing.T) {
	called := false
	err := WithSegment(context.Background(), "job", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = WithSegment(context.Background(), "job", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCaptureDisabledPassesThrough(t *testing.T) {
	called := false
	err := Capture(context.Background(), "step", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestAnnotationsDisabledDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		AddAnnotation(context.Background(), "key", "value")
		AddError(context.Background(), errors.New("boom"))
	})
}

func TestLoggerAdapterLevelMapping(t *testing.T) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetLevel(logrus.DebugLevel)

	adapter := &xrayLoggerAdapter{logger: log}
	adapter.Log(xraylog.LogLevelWarn, stringerMsg("daemon unreachable"))

	assert.Contains(t, buf.String(), "daemon unreachable")
	assert.Contains(t, buf.String(), "warn")
}
