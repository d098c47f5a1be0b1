package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/chartforms/internal/logger"
)

func TestNew(t *testing.T) {
	t.Run("text by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello", "machine", "signUp")
		log.Debug("hidden")

		out := buf.String()
		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, "msg=hello")
		assert.Contains(t, out, "machine=signUp")
		assert.NotContains(t, out, "hidden")
	})

	t.Run("json with level and attrs", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithFormat(logger.FormatJSON),
			logger.WithLevel(slog.LevelDebug),
			logger.WithAttr(slog.String("service", "chartforms")),
		)
		log.Debug("transition")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "DEBUG", entry["level"])
		assert.Equal(t, "transition", entry["msg"])
		assert.Equal(t, "chartforms", entry["service"])
	})

	t.Run("nil output ignored", func(t *testing.T) {
		assert.NotNil(t, logger.New(logger.WithOutput(nil)))
	})
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestError(t *testing.T) {
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.String())
}
