package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ImageList stores attachment URLs as a JSON text column.
// A NULL or empty column reads back as an empty list, never nil JSON.
type ImageList []string

// Scan implements sql.Scanner
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported image list type %T", value)
	}

	if len(data) == 0 {
		*l = ImageList{}
		return nil
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return fmt.Errorf("decode image list: %w", err)
	}
	if urls == nil {
		urls = []string{}
	}
	*l = urls
	return nil
}

// Value implements driver.Valuer
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Message is one record of the shared mailbox collection.
// Records are append + partial-update only; there is no delete path.
// Seq is the stream insertion order and only breaks created_at ties.
type Message struct {
	ID              string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Seq             int64     `gorm:"column:seq;autoIncrement;uniqueIndex" json:"-"`
	Sender          string    `gorm:"column:sender;size:64;index" json:"sender"`
	Recipient       string    `gorm:"column:recipient;size:64;index" json:"recipient"`
	Subject         string    `gorm:"column:subject;size:255" json:"subject"`
	Content         string    `gorm:"column:content;type:text" json:"content"`
	Images          ImageList `gorm:"column:images;type:text" json:"images"`
	Read            bool      `gorm:"column:is_read" json:"read"`
	Starred         bool      `gorm:"column:starred" json:"starred"`
	CreatedAt       time.Time `gorm:"column:created_at;index" json:"-"`
	ReplyTo         *string   `gorm:"column:reply_to;size:36" json:"reply_to,omitempty"`
	OriginalContent *string   `gorm:"column:original_content;type:text" json:"original_content,omitempty"`
}

func (Message) TableName() string {
	return "mailbox_messages"
}

// IsParty reports whether viewer is the sender or the recipient.
// This is the only visibility rule in the system.
func (m *Message) IsParty(viewer string) bool {
	return m.Sender == viewer || m.Recipient == viewer
}

// MessageResponse represents a message in API responses and
// WebSocket snapshots; created_at is ISO-8601.
type MessageResponse struct {
	ID              string   `json:"id"`
	Sender          string   `json:"sender"`
	Recipient       string   `json:"recipient"`
	Subject         string   `json:"subject"`
	Content         string   `json:"content"`
	Images          []string `json:"images"`
	Read            bool     `json:"read"`
	Starred         bool     `json:"starred"`
	CreatedAt       string   `json:"created_at"`
	ReplyTo         *string  `json:"reply_to,omitempty"`
	OriginalContent *string  `json:"original_content,omitempty"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse() *MessageResponse {
	images := m.Images
	if images == nil {
		images = ImageList{}
	}
	return &MessageResponse{
		ID:              m.ID,
		Sender:          m.Sender,
		Recipient:       m.Recipient,
		Subject:         m.Subject,
		Content:         m.Content,
		Images:          images,
		Read:            m.Read,
		Starred:         m.Starred,
		CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
		ReplyTo:         m.ReplyTo,
		OriginalContent: m.OriginalContent,
	}
}

// PendingAttachment is an attachment file queued on a draft,
// not yet uploaded anywhere.
type PendingAttachment struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ComposeDraft is the ephemeral compose state preceding a send.
// It is never persisted; a failed send leaves it intact for retry.
type ComposeDraft struct {
	To              string
	Subject         string
	Content         string
	ReplyTo         *string
	OriginalContent *string
	Attachments     []PendingAttachment
}

// ReplyPrefill is the compose prefill produced for a reply
type ReplyPrefill struct {
	To              string `json:"to"`
	Subject         string `json:"subject"`
	ReplyTo         string `json:"reply_to"`
	OriginalContent string `json:"original_content"`
}

// FlagRequest toggles a single mutable flag on a message
type FlagRequest struct {
	Value bool `json:"value"`
}
