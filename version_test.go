package hconfig_test

import (
	"testing"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/stretchr/testify/require"
)

func TestVersion_DefaultValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dev", hconfig.Version)
	require.Equal(t, "none", hconfig.Commit)
	require.Equal(t, "unknown", hconfig.CompiledAt)
}
