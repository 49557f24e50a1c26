package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	catalog string
	logDir  string
	config  string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	clearEnv(t)

	dir := t.TempDir()
	return cliEnv{
		catalog: writeFile(t, dir, "protein_config.json", testCatalogJSON),
		logDir:  filepath.Join(dir, "logs"),
		config:  filepath.Join(dir, "config.yaml"),
	}
}

func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := SetupCommands()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(append([]string{"--config", e.config, "--catalog", e.catalog, "--log-dir", e.logDir}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_Foods(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "foods")
	require.NoError(t, err)
	assert.Equal(t, "31g/100g chicken breast\n1.1g/100g banana\n10g/100g Greek Yogurt\n13g/100g egg\n25g/100g peanut butter\n", out)

	out, err = env.run(t, "foods", "YOG")
	require.NoError(t, err)
	assert.Equal(t, "10g/100g Greek Yogurt\n", out)

	out, err = env.run(t, "foods", "tofu")
	require.NoError(t, err)
	assert.Contains(t, out, `No foods match "tofu"`)
}

func TestCLI_CalcAndShow(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "calc", "--target", "150", "--food", "banana=200")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Total Protein: 2.20g | Remaining: 147.80g")
	assert.Contains(t, out, "Saved to log.json")
	assert.FileExists(t, filepath.Join(env.logDir, "log.json"))

	out, err = env.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "banana")
	assert.Contains(t, out, "200g")
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "Target: 150.00g | Remaining: 147.80g")
}

func TestCLI_CalcSaveAndHistory(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "calc", "-t", "100", "-f", "chicken breast=150", "-f", "egg=60", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Protein: 54.30g | Remaining: 45.70g")
	assert.Contains(t, out, "📁 Saved as ")

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "File")
	assert.Contains(t, out, "100.00g")
	assert.Contains(t, out, "54.30g")
}

func TestCLI_CalcErrors(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "calc", "--target", "abc", "--food", "banana=200")
	var targetErr *InvalidTargetError
	assert.True(t, errors.As(err, &targetErr))

	_, err = env.run(t, "calc", "--target", "150", "--food", "banana=-5")
	var amountErr *InvalidAmountError
	require.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "banana", amountErr.Food)

	_, err = env.run(t, "calc", "--target", "150")
	assert.ErrorIs(t, err, ErrNoEntries)

	_, err = env.run(t, "calc", "--target", "150", "--food", "tofu=100")
	assert.ErrorIs(t, err, ErrUnknownFood)

	_, err = env.run(t, "calc", "--target", "150", "--food", "banana")
	assert.Error(t, err)

	assert.NoFileExists(t, filepath.Join(env.logDir, "log.json"))
}

func TestCLI_ShowWithoutLog(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No calculation logged yet")

	out, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved logs")
}

func TestCLI_MissingCatalogIsConfigError(t *testing.T) {
	env := newCLIEnv(t)
	env.catalog = filepath.Join(t.TempDir(), "missing.json")

	_, err := env.run(t, "foods")

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, env.catalog, cfgErr.Path)
}

func TestCLI_TrackEndsOnEmptyInput(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "track")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily Protein Target (g)")
}

func TestCLI_ConfigInit(t *testing.T) {
	env := newCLIEnv(t)
	// catalog is not read, so a missing one must not matter
	env.catalog = filepath.Join(t.TempDir(), "foods.yaml")

	out, err := env.run(t, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, "Wrote config to "+env.config+"\n", out)

	cfg, err := LoadConfig(env.config)
	require.NoError(t, err)

	want := DefaultConfig()
	want.CatalogPath = env.catalog
	want.LogDir = env.logDir
	assert.Equal(t, want, cfg)

	before, err := os.ReadFile(env.config)
	require.NoError(t, err)

	_, err = env.run(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	after, err := os.ReadFile(env.config)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	_, err = env.run(t, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestParseFoodArg(t *testing.T) {
	name, grams, err := parseFoodArg("chicken breast=150")
	require.NoError(t, err)
	assert.Equal(t, "chicken breast", name)
	assert.Equal(t, "150", grams)

	_, _, err = parseFoodArg("=150")
	assert.Error(t, err)

	_, _, err = parseFoodArg("banana")
	assert.Error(t, err)
}
