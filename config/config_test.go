package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\nstep_hz: 60\nworlds:\n  - name: main\nbogus_field: 1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "strict decoding should reject an unknown field")
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "good.yaml")
	body := "seed: 42\nstep_hz: 60\nworlds:\n  - name: main\n  - name: arena\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 42, cfg.Seed)
	assert.Len(t, cfg.Worlds, 2)
}

func TestValidateRejectsDuplicateWorldNames(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Worlds = []WorldSeed{{Name: "a"}, {Name: "a"}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroStepHz(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.StepHz = 0
	assert.Error(t, cfg.Validate())
}
