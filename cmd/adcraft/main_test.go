package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikedutoitzs/floogleads/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ADCRAFT_CONFIG", "")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STATE_PATH", filepath.Join(dir, "state.json"))
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	exportOut = ""
	keywordType = string(models.KeywordGeneric)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInputAndShow(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "input", "https://acme.test", "London, UK")
	require.NoError(t, err)

	out, err := runCLI(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1/5: Setup")
	assert.Contains(t, out, "URL: https://acme.test")
	assert.Contains(t, out, "Location: London, UK")
}

func TestKeywordCommands(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "keyword", "add", "acme shoes", "--type", "brand")
	require.NoError(t, err)
	_, err = runCLI(t, "keyword", "add", "trainers")
	require.NoError(t, err)
	_, err = runCLI(t, "keyword", "toggle", "acme shoes")
	require.NoError(t, err)

	out, err := runCLI(t, "show", "--json")
	require.NoError(t, err)

	var st models.CampaignState
	require.NoError(t, json.Unmarshal([]byte(out), &st), out)
	require.Len(t, st.Keywords, 2)
	assert.Equal(t, "trainers", st.Keywords[0].Term)
	assert.Equal(t, models.KeywordBrand, st.Keywords[1].Type)
	assert.False(t, st.Keywords[1].Selected)

	_, err = runCLI(t, "keyword", "remove", "trainers")
	require.NoError(t, err)
	_, err = runCLI(t, "keyword", "remove", "trainers")
	assert.Error(t, err)

	_, err = runCLI(t, "keyword", "add", "x", "--type", "other")
	assert.Error(t, err)
}

func TestStepValidation(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "step", "9")
	assert.Error(t, err)
	_, err = runCLI(t, "step", "four")
	assert.Error(t, err)

	out, err := runCLI(t, "step", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 4/5: Assets")
}

func TestExportToFile(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(dir, "out.csv")

	_, err := runCLI(t, "export", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Campaign,Ad Group,Keyword,Type,"))
}

func TestLimitsAndReset(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "limits")
	require.NoError(t, err)
	assert.Contains(t, out, "All assets are within their limits.")

	_, err = runCLI(t, "input", "https://acme.test", "Leeds")
	require.NoError(t, err)
	out, err = runCLI(t, "reset")
	require.NoError(t, err)
	assert.NotContains(t, out, "acme.test")
}

func TestAICommandsNeedAPIKey(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "input", "https://acme.test", "Leeds")
	require.NoError(t, err)

	_, err = runCLI(t, "analyze")
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}
