package main

import (
	"os"
	"path/filepath"
	"testing"

	"prokat/internal/config"
	"prokat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rentalConfig() config.RentalConfig {
	return config.RentalConfig{
		InventoryTypes:    []string{"Велосипед", "Лыжи"},
		InventoryStatuses: models.DefaultInventoryStatuses,
		NoSizeSentinel:    models.NoSizeSentinel,
	}
}

func TestLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	content := `
items:
  - type: "Велосипед"
    brand: "Stels"
    size: "-"
    price_per_hour: 150
  - type: "Лыжи"
    brand: "Fischer"
    size: "180"
    status: "maintenance"
    price_per_hour: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	items, err := loadInventory(path, rentalConfig())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Stels", items[0].Brand)
	assert.Empty(t, items[0].Size)
	assert.Equal(t, models.StatusAvailable, items[0].Status)
	assert.Equal(t, 150.0, items[0].PricePerHour)
	assert.Equal(t, models.StatusMaintenance, items[1].Status)
}

func TestLoadInventoryMissingFile(t *testing.T) {
	items, err := loadInventory(filepath.Join(t.TempDir(), "none.yaml"), rentalConfig())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoadInventoryInvalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("items: ["), 0o644))
	_, err := loadInventory(broken, rentalConfig())
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("items:\n  - type: \"Лодка\"\n    brand: \"X\"\n"), 0o644))
	_, err = loadInventory(unknown, rentalConfig())
	assert.Error(t, err)
}
