package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	type TestCase struct {
		description string
		input       string
		expected    zerolog.Level
	}

	testCases := []TestCase{
		{description: "debug", input: "debug", expected: zerolog.DebugLevel},
		{description: "upper case warn", input: "WARN", expected: zerolog.WarnLevel},
		{description: "error", input: "error", expected: zerolog.ErrorLevel},
		{description: "empty is info", input: "", expected: zerolog.InfoLevel},
		{description: "unknown is info", input: "loud", expected: zerolog.InfoLevel},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expected, ParseLevel(testCase.input))
		})
	}
}

func TestSetupWriterFiltersLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer

	logger := SetupWriter(&buf, "warn", false)
	logger.Info().Msg("quiet")
	logger.Warn().Str("command", "roll").Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"command":"roll"`)
}
