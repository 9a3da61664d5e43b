package cart

import (
	"time"

	"philately/models"
)

// Product is the catalog view the store needs to open a line.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Category string
}

// Store is the cart state container. Lines keep insertion order and the two
// aggregates are adjusted incrementally by every operation, so they are
// correct by construction and never rescanned on read.
type Store struct {
	lines         []models.CartLine
	totalQuantity int
	totalAmount   float64
}

func NewStore() *Store {
	return &Store{}
}

// FromDoc rebuilds a store from its persisted document. Aggregates are
// recomputed once here so a hand-edited document cannot smuggle in drift.
func FromDoc(doc models.CartDoc) *Store {
	s := &Store{lines: make([]models.CartLine, len(doc.Lines))}
	copy(s.lines, doc.Lines)
	for _, l := range s.lines {
		s.totalQuantity += l.Quantity
		s.totalAmount += l.UnitPrice * float64(l.Quantity)
	}
	return s
}

// AddItem increments the quantity of an existing line by one, or appends a
// new line with quantity one. Quantity is not bounded by stock here; stock is
// enforced at order placement.
func (s *Store) AddItem(p Product) {
	for i := range s.lines {
		if s.lines[i].StampID == p.ID {
			s.lines[i].Quantity++
			s.totalQuantity++
			s.totalAmount += s.lines[i].UnitPrice
			return
		}
	}
	s.lines = append(s.lines, models.CartLine{
		StampID:   p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
		Category:  p.Category,
	})
	s.totalQuantity++
	s.totalAmount += p.Price
}

// RemoveItem drops the whole line regardless of its quantity. Unknown IDs
// are a no-op.
func (s *Store) RemoveItem(stampID string) {
	for i := range s.lines {
		if s.lines[i].StampID == stampID {
			s.totalQuantity -= s.lines[i].Quantity
			s.totalAmount -= s.lines[i].UnitPrice * float64(s.lines[i].Quantity)
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces a line's quantity. Quantities below one are ignored;
// callers route a 1→0 transition through RemoveItem instead.
func (s *Store) SetQuantity(stampID string, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range s.lines {
		if s.lines[i].StampID == stampID {
			delta := quantity - s.lines[i].Quantity
			s.lines[i].Quantity = quantity
			s.totalQuantity += delta
			s.totalAmount += s.lines[i].UnitPrice * float64(delta)
			return
		}
	}
}

// Clear empties the cart. Invoked once per successful checkout.
func (s *Store) Clear() {
	s.lines = nil
	s.totalQuantity = 0
	s.totalAmount = 0
}

func (s *Store) Lines() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) TotalQuantity() int { return s.totalQuantity }

func (s *Store) TotalAmount() float64 { return s.totalAmount }

func (s *Store) IsEmpty() bool { return len(s.lines) == 0 }

// Doc snapshots the store into its persisted form.
func (s *Store) Doc(userID string) models.CartDoc {
	return models.CartDoc{
		UserID:        userID,
		Lines:         s.Lines(),
		TotalQuantity: s.totalQuantity,
		TotalAmount:   s.totalAmount,
		UpdatedAt:     time.Now(),
	}
}
