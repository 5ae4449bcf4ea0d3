package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgrimault/webharvest/internal/config"
)

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "webharvest-test",
	}
}

func TestInitializeLogger_SetsGlobal(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	InitializeLogger(testLoggerConfig())

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(-1), "debug level should be enabled") // -1 == zap.DebugLevel
}

func TestInitialize_OnlyFirstCallWins(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	InitializeLogger(testLoggerConfig())
	first := GetLogger()

	second := config.LoggerConfig{Level: "error", Format: "console", ServiceName: "other"}
	InitializeLogger(second)

	assert.Same(t, first, GetLogger())
}

func TestGetLogger_FallbackBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger, "a usable logger must exist before Initialize")
}

func TestInitializeLogger_BadLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := testLoggerConfig()
	cfg.Level = "chatty"
	InitializeLogger(cfg)

	logger := GetLogger()
	assert.False(t, logger.Core().Enabled(-1), "debug must be disabled after fallback")
	assert.True(t, logger.Core().Enabled(0), "info must be enabled after fallback")
}

func TestSync_NoopWithoutLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	// Must not panic when no logger was ever initialized.
	Sync()
}
