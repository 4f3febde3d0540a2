package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range []string{CategoryAccessory, CategoryPart, CategoryOil, CategoryCleaner} {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("tires"))
	assert.False(t, ValidCategory("Oil"))
}

func TestProductLowStock(t *testing.T) {
	assert.True(t, Product{Stock: 0}.LowStock())
	assert.True(t, Product{Stock: LowStockThreshold}.LowStock())
	assert.False(t, Product{Stock: LowStockThreshold + 1}.LowStock())
}
