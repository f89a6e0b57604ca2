package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefaultUsesEnv(t *testing.T) {
	os.Setenv("JUPITER_TEST_VAR", "from-env")
	defer os.Unsetenv("JUPITER_TEST_VAR")

	assert.Equal(t, "from-env", getEnvOrDefault("JUPITER_TEST_VAR", "fallback"))
}

func TestGetEnvOrDefaultFallsBack(t *testing.T) {
	os.Unsetenv("JUPITER_TEST_VAR_UNSET")
	assert.Equal(t, "fallback", getEnvOrDefault("JUPITER_TEST_VAR_UNSET", "fallback"))
}
