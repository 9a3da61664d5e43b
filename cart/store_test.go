package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philately/models"
)

func checkAggregates(t *testing.T, s *Store) {
	t.Helper()
	var qty int
	var amount float64
	for _, l := range s.Lines() {
		qty += l.Quantity
		amount += l.UnitPrice * float64(l.Quantity)
	}
	assert.Equal(t, qty, s.TotalQuantity())
	assert.InDelta(t, amount, s.TotalAmount(), 1e-9)
}

var (
	gandhi  = Product{ID: "p1", Name: "Gandhi 150", Price: 100, Category: models.CategoryCommemorative}
	peacock = Product{ID: "p2", Name: "Peacock Definitive", Price: 5, Category: models.CategoryDefinitive}
)

func TestAddItemNewAndExistingLines(t *testing.T) {
	s := NewStore()

	s.AddItem(gandhi)
	s.AddItem(peacock)
	s.AddItem(gandhi)

	lines := s.Lines()
	require.Len(t, lines, 2)
	// insertion order preserved
	assert.Equal(t, "p1", lines[0].StampID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "p2", lines[1].StampID)
	assert.Equal(t, 1, lines[1].Quantity)

	assert.Equal(t, 3, s.TotalQuantity())
	assert.InDelta(t, 205, s.TotalAmount(), 1e-9)
	checkAggregates(t, s)
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	s := NewStore()
	s.AddItem(gandhi)
	s.AddItem(gandhi)

	s.RemoveItem("p1")

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.TotalQuantity())
	assert.Zero(t, s.TotalAmount())
}

func TestRemoveItemUnknownIsNoop(t *testing.T) {
	s := NewStore()
	s.AddItem(peacock)

	s.RemoveItem("missing")

	assert.Equal(t, 1, s.TotalQuantity())
	checkAggregates(t, s)
}

func TestSetQuantityAppliesDelta(t *testing.T) {
	s := NewStore()
	s.AddItem(gandhi)
	s.AddItem(peacock)

	s.SetQuantity("p2", 4)

	assert.Equal(t, 5, s.TotalQuantity())
	assert.InDelta(t, 120, s.TotalAmount(), 1e-9)
	checkAggregates(t, s)
}

func TestSetQuantityRejectsNonPositive(t *testing.T) {
	s := NewStore()
	s.AddItem(gandhi)

	s.SetQuantity("p1", 0)
	s.SetQuantity("p1", -3)

	assert.Equal(t, 1, s.TotalQuantity())
	assert.InDelta(t, 100, s.TotalAmount(), 1e-9)
}

func TestSetQuantityUnknownLineIgnored(t *testing.T) {
	s := NewStore()
	s.AddItem(gandhi)

	s.SetQuantity("missing", 7)

	assert.Equal(t, 1, s.TotalQuantity())
	checkAggregates(t, s)
}

func TestClearZeroesEverything(t *testing.T) {
	s := NewStore()
	s.AddItem(gandhi)
	s.AddItem(peacock)
	s.AddItem(peacock)

	s.Clear()

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.TotalQuantity())
	assert.Zero(t, s.TotalAmount())
}

// Aggregates stay consistent across an arbitrary operation sequence.
func TestAggregatesInvariantAcrossSequence(t *testing.T) {
	s := NewStore()
	products := []Product{gandhi, peacock,
		{ID: "p3", Name: "Himalaya Miniature Sheet", Price: 250, Category: models.CategoryMiniatureSheet},
	}

	ops := []func(){
		func() { s.AddItem(products[0]) },
		func() { s.AddItem(products[1]) },
		func() { s.AddItem(products[2]) },
		func() { s.AddItem(products[0]) },
		func() { s.SetQuantity("p3", 3) },
		func() { s.RemoveItem("p2") },
		func() { s.SetQuantity("p1", 10) },
		func() { s.AddItem(products[1]) },
		func() { s.SetQuantity("p2", 0) },
		func() { s.RemoveItem("nope") },
	}
	for _, op := range ops {
		op()
		checkAggregates(t, s)
	}
}

func TestFromDocRebuildsAggregates(t *testing.T) {
	doc := models.CartDoc{
		UserID: "u1",
		Lines: []models.CartLine{
			{StampID: "p1", Name: "Gandhi 150", UnitPrice: 100, Quantity: 2},
			{StampID: "p2", Name: "Peacock Definitive", UnitPrice: 5, Quantity: 3},
		},
		// stored aggregates deliberately wrong; rebuild must ignore them
		TotalQuantity: 99,
		TotalAmount:   9999,
	}

	s := FromDoc(doc)

	assert.Equal(t, 5, s.TotalQuantity())
	assert.InDelta(t, 215, s.TotalAmount(), 1e-9)
}
