package mining

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"btcpulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetFor(t *testing.T) {
	assert.Equal(t, PresetAverage, PresetFor(DefaultSettings()))
	assert.Equal(t, PresetEfficient, PresetFor(domain.MiningSettings{ElectricityRate: 0.03, MinerEfficiency: 17.5, OverheadMultiplier: 1.2}))
	assert.Equal(t, PresetCustom, PresetFor(domain.MiningSettings{ElectricityRate: 0.04, MinerEfficiency: 25, OverheadMultiplier: 1.4}))
	assert.Equal(t, []string{PresetAverage, PresetEfficient, PresetExpensive}, PresetNames())
}

func TestValidate(t *testing.T) {
	for _, name := range PresetNames() {
		assert.NoError(t, Validate(Presets[name]), name)
	}

	err := Validate(domain.MiningSettings{ElectricityRate: -1, MinerEfficiency: 0, OverheadMultiplier: 0.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSettings))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "ElectricityRate", verr.Fields[0].Field)
	assert.Equal(t, "ERR_GTE", verr.Fields[0].Code)
	assert.Equal(t, "ERR_GT", verr.Fields[1].Code)
	assert.Contains(t, err.Error(), "OverheadMultiplier must be at least 1")
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "mining.json")
	store := NewFileStore(path)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got, "missing file loads defaults")

	custom := domain.MiningSettings{ElectricityRate: 0.065, MinerEfficiency: 21, OverheadMultiplier: 1.3}
	require.NoError(t, store.Save(ctx, custom))

	got, err = NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	assert.ErrorIs(t, store.Save(ctx, domain.MiningSettings{}), ErrInvalidSettings)
	got, _ = store.Load(ctx)
	assert.Equal(t, custom, got, "rejected save leaves file untouched")
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mining.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	got, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)

	require.NoError(t, store.Save(ctx, Presets[PresetExpensive]))
	got, _ = store.Load(ctx)
	assert.Equal(t, PresetExpensive, PresetFor(got))
	assert.Error(t, store.Save(ctx, domain.MiningSettings{MinerEfficiency: 10}))
}
