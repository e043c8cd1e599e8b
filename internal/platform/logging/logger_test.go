package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		_ = Configure("info", "text", nil)
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Configure("debug", "json", &buf))

		logrus.WithField("scenario", "split").Info("replay started")

		assert.Contains(t, buf.String(), `"scenario":"split"`)
		assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	})

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Configure("info", "text", &buf))

		logrus.WithField("scenario", "split").Info("replay started")

		assert.Contains(t, buf.String(), "scenario=split")
	})

	t.Run("rejects bad input", func(t *testing.T) {
		assert.Error(t, Configure("loud", "text", nil))
		assert.Error(t, Configure("info", "xml", nil))
	})
}
