package cliconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimalPatternInvocation(t *testing.T) {
	cfg, err := Parse([]string{"-n", "deadbeef", "-p", "A*C"})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", cfg.TargetSpec)
	assert.Equal(t, []string{"A*C"}, cfg.Patterns)
	assert.Equal(t, "default", cfg.Alphabet)
	assert.Equal(t, 1024, cfg.MaxResults)
}

func TestParseRepeatedPatternFlag(t *testing.T) {
	cfg, err := Parse([]string{"-n", "deadbeef", "-p", "A*", "-p", "*B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A*", "*B"}, cfg.Patterns)
}

func TestParseListfileSatisfiesPatternRequirement(t *testing.T) {
	cfg, err := Parse([]string{"-n", "deadbeef", "-l", "listfile.csv"})
	require.NoError(t, err)
	assert.Equal(t, "listfile.csv", cfg.ListfilePath)
}

func TestParseMissingTargetIsUsageError(t *testing.T) {
	_, err := Parse([]string{"-p", "A*C"})
	require.Error(t, err)
}

func TestParseMissingPatternsAndListfileIsUsageError(t *testing.T) {
	_, err := Parse([]string{"-n", "deadbeef"})
	require.Error(t, err)
}

func TestParseUnknownFlagIsUsageError(t *testing.T) {
	_, err := Parse([]string{"-n", "deadbeef", "-p", "A*C", "-bogus"})
	require.Error(t, err)
}

func TestParseThreadCapAboveHardwareParallelismIsUsageError(t *testing.T) {
	_, err := Parse([]string{"-n", "deadbeef", "-p", "A*C", "-c", "1000000"})
	require.Error(t, err)
}

func TestHelpBypassesValidation(t *testing.T) {
	cfg, err := Parse([]string{"-?"})
	require.NoError(t, err)
	assert.True(t, cfg.Help)
}

func TestResolvedThreadsFallsBackToHardwareParallelism(t *testing.T) {
	cfg, err := Parse([]string{"-n", "deadbeef", "-p", "A*C"})
	require.NoError(t, err)
	assert.Greater(t, cfg.ResolvedThreads(), 0)
}
