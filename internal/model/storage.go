package model

import (
	"context"
	"io"
)

// Storage is object storage for uploaded documents.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Email is an outgoing message.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// DeliveryReceipt is returned by a mailer that accepted a message.
type DeliveryReceipt struct {
	MessageID string
}

// Mailer delivers email on a best-effort basis.
type Mailer interface {
	Send(ctx context.Context, email Email) (DeliveryReceipt, error)
}
