package receipt

import (
	"fmt"
	"log/slog"
)

// Service handles receipt submission and points queries. It holds no
// receipt state of its own; the store owns every accepted receipt.
type Service struct {
	store Store
}

// NewService creates a new Service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ProcessReceipt validates a submitted receipt and, if accepted, stores
// it and returns its new id. A *ValidationError reports why a receipt
// was rejected; rejected receipts are never stored.
func (s *Service) ProcessReceipt(r Receipt) (string, error) {
	if err := Validate(r); err != nil {
		return "", err
	}

	id, err := s.store.Insert(r)
	if err != nil {
		return "", fmt.Errorf("storing receipt: %w", err)
	}

	slog.Info("Receipt accepted", "id", id, "retailer", r.Retailer)
	return id, nil
}

// GetPoints returns the points earned by a previously accepted receipt.
// ErrNotFound reports ids that were never issued. Scoring itself cannot
// fail: every stored receipt passed validation.
func (s *Service) GetPoints(id string) (int64, error) {
	stored, err := s.store.Lookup(id)
	if err != nil {
		return 0, err
	}
	return Points(stored.Receipt), nil
}
