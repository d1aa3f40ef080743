package services

import (
	"log"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/pkg/rabbitmq"
)

// BulkService executes multi-record mutations. Payloads are fully validated
// by the handler before any of these methods run, so a request either
// touches the store or is rejected whole, never half-validated.
//
// All three operations are scoped to the caller's owned records: an id
// belonging to someone else simply does not match.
type BulkService struct {
	repo repositories.ProductRepository
	mq   *rabbitmq.Client
}

// NewBulkService creates a new BulkService. mq may be nil.
func NewBulkService(repo repositories.ProductRepository, mq *rabbitmq.Client) *BulkService {
	return &BulkService{
		repo: repo,
		mq:   mq,
	}
}

// CreateMany inserts a batch of validated inputs for owner and returns the
// created records with their assigned ids.
func (s *BulkService) CreateMany(owner string, items []models.ProductInput) ([]models.Product, error) {
	products := make([]models.Product, 0, len(items))
	for _, in := range items {
		products = append(products, productFromInput(owner, in))
	}
	if err := s.repo.CreateMany(products); err != nil {
		return nil, err
	}
	s.publish("product.bulk_created", map[string]interface{}{
		"owner": owner,
		"count": len(products),
	})
	return products, nil
}

// UpdateStatus applies status to every owned record in the id list and
// reports how many ids matched and how many records actually changed. The
// two counts differ when some records already held the target status.
func (s *BulkService) UpdateStatus(owner string, ids []string, status string) (repositories.BulkResult, error) {
	result, err := s.repo.UpdateStatusByIDs(ids, owner, status)
	if err != nil {
		return repositories.BulkResult{}, err
	}
	s.publish("product.bulk_status", map[string]interface{}{
		"owner":    owner,
		"status":   status,
		"matched":  result.Matched,
		"modified": result.Modified,
	})
	return result, nil
}

// DeleteMany removes every owned record in the id list and reports the
// count that went away.
func (s *BulkService) DeleteMany(owner string, ids []string) (int64, error) {
	deleted, err := s.repo.DeleteByIDs(ids, owner)
	if err != nil {
		return 0, err
	}
	s.publish("product.bulk_deleted", map[string]interface{}{
		"owner":   owner,
		"deleted": deleted,
	})
	return deleted, nil
}

func (s *BulkService) publish(event string, payload map[string]interface{}) {
	if s.mq == nil {
		return
	}
	if err := s.mq.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
