package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Run("returns the set value with the right type", func(t *testing.T) {
		t.Setenv("PIPELINE_TEST_STRING", "staging-bucket")
		t.Setenv("PIPELINE_TEST_INT", "42")
		t.Setenv("PIPELINE_TEST_BOOL", "true")
		t.Setenv("PIPELINE_TEST_FLOAT", "0.75")

		assert.Equal(t, "staging-bucket", GetEnvString("PIPELINE_TEST_STRING", "fallback"))
		assert.Equal(t, 42, GetEnvInt("PIPELINE_TEST_INT", 0))
		assert.Equal(t, true, GetEnvBool("PIPELINE_TEST_BOOL", false))
		assert.Equal(t, 0.75, GetEnvFloat("PIPELINE_TEST_FLOAT", 0))
	})

	t.Run("falls back to the default when unset", func(t *testing.T) {
		assert.Equal(t, "fallback", GetEnvString("PIPELINE_TEST_UNSET", "fallback"))
		assert.Equal(t, 30, GetEnvInt("PIPELINE_TEST_UNSET", 30))
		assert.Equal(t, 0.5, GetEnvFloat("PIPELINE_TEST_UNSET", 0.5))
	})

	t.Run("falls back to the default when the value does not parse", func(t *testing.T) {
		t.Setenv("PIPELINE_TEST_BAD_INT", "not-a-number")
		t.Setenv("PIPELINE_TEST_BAD_FLOAT", "high")

		assert.Equal(t, 100, GetEnvInt("PIPELINE_TEST_BAD_INT", 100))
		assert.Equal(t, 0.5, GetEnvFloat("PIPELINE_TEST_BAD_FLOAT", 0.5))
	})
}
