package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nubit-transcribe/backend/internal/crypto"
	"nubit-transcribe/backend/internal/llm"
)

const sample = "This is important. We must decide the budget today. Why is the launch late?"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--env-file", "testdata-missing.env"))
	err := root.Execute()
	return stdout.String(), err
}

func TestAnalyzeMarkdown(t *testing.T) {
	out, err := run(t, sample, "analyze")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "## Summary"))
	assert.Contains(t, out, "## Key Moments")
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := run(t, sample, "analyze", "-", "--format", "json")
	require.NoError(t, err)

	var outcome llm.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, llm.SourceLocal, outcome.Source)
	require.NotNil(t, outcome.Report)
	assert.Equal(t, 14, outcome.Report.Statistics.WordCount)
}

func TestAnalyzeYAML(t *testing.T) {
	out, err := run(t, sample, "analyze", "--format", "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "local", decoded["source"])
	assert.Contains(t, decoded, "report")
}

func TestAnalyzeRejectsBadFlags(t *testing.T) {
	_, err := run(t, sample, "analyze", "--mode", "psychic")
	assert.Error(t, err)

	_, err = run(t, sample, "analyze", "--format", "xml")
	assert.Error(t, err)
}

func TestTranscribeValidatesBeforeUpload(t *testing.T) {
	_, err := run(t, "", "transcribe", "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestProvidersStatusJSON(t *testing.T) {
	t.Setenv("LLM_PROVIDERS", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "your_anthropic_api_key_here")
	out, err := run(t, "", "providers", "status", "--format", "json")
	require.NoError(t, err)

	var statuses []llm.ProviderStatus
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, llm.StatusMissing, statuses[0].Key)
}

func TestProvidersSeal(t *testing.T) {
	t.Setenv("MASTER_KEY", strings.Repeat("k", 32))
	out, err := run(t, "", "providers", "seal", "sk-ant-secret")
	require.NoError(t, err)

	plain, err := crypto.Decrypt(strings.Repeat("k", 32), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-secret", plain)

	t.Setenv("MASTER_KEY", "short")
	_, err = run(t, "", "providers", "seal", "sk-ant-secret")
	assert.Error(t, err)
}
