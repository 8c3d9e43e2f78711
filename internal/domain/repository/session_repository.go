package repository

import (
	"context"

	"medibook-server/internal/domain/entity"

	"github.com/google/uuid"
)

// FormSessionRepository stores form wizard sessions. Sessions are
// ephemeral; implementations apply a TTL and FindByID returns (nil, nil)
// when the session does not exist or has expired.
type FormSessionRepository interface {
	Save(ctx context.Context, session *entity.FormSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FormSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChatSessionRepository stores chat wizard sessions with the same
// not-found and TTL semantics as FormSessionRepository.
type ChatSessionRepository interface {
	Save(ctx context.Context, session *entity.ChatSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
