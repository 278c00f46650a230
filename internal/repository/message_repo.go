package repository

import (
	"errors"

	"github.com/wiremail/wiremail-backend/internal/common"
	"github.com/wiremail/wiremail-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository data access for the shared mailbox collection.
// The collection is append + partial-update only.
type MessageRepository interface {
	Create(msg *domain.Message) error
	UpdateFields(id string, fields map[string]interface{}) error
	FindByID(id string) (*domain.Message, error)
	FindAll() ([]domain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a new message record
func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

// UpdateFields applies a partial update (read/starred flags) to one record
func (r *messageRepository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&domain.Message{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// FindByID returns a single record by identifier
func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.Where("id = ?", id).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// FindAll returns the whole collection ordered for display:
// created_at descending, insertion sequence breaking ties
func (r *messageRepository) FindAll() ([]domain.Message, error) {
	var msgs []domain.Message
	if err := r.db.Order("created_at DESC, seq ASC").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
