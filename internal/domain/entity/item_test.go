package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_Available(t *testing.T) {
	item := &InventoryItem{
		PhysicalQty: decimal.NewFromInt(80),
		PendingQty:  decimal.NewFromInt(30),
	}
	assert.True(t, item.Available().Equal(decimal.NewFromInt(50)))
}

func TestInventoryItem_LowStock(t *testing.T) {
	item := &InventoryItem{
		PhysicalQty:  decimal.NewFromInt(20),
		ReorderPoint: decimal.NewFromInt(20),
	}
	assert.False(t, item.LowStock(), "exactly at the reorder point is not low")

	item.PendingQty = decimal.NewFromInt(1)
	assert.True(t, item.LowStock(), "one unit below the reorder point is low")

	item.ReorderPoint = decimal.Zero
	item.PendingQty = decimal.Zero
	assert.False(t, item.LowStock(), "zero reorder point never flags")
}
