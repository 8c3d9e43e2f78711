package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medibook-server/internal/domain/entity"
	domainRepo "medibook-server/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	formSessionKeyPrefix = "form_session:"
	chatSessionKeyPrefix = "chat_session:"
)

type formSessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewFormSessionRepository(redisClient *redis.Client, ttl time.Duration) domainRepo.FormSessionRepository {
	return &formSessionRepository{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (r *formSessionRepository) Save(ctx context.Context, session *entity.FormSession) error {
	session.UpdatedAt = time.Now()
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal form session %s: %w", session.ID, err)
	}
	key := formSessionKeyPrefix + session.ID.String()
	return r.redisClient.Set(ctx, key, payload, r.ttl).Err()
}

func (r *formSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FormSession, error) {
	key := formSessionKeyPrefix + id.String()
	payload, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.FormSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal form session %s: %w", id, err)
	}
	return &session, nil
}

func (r *formSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.redisClient.Del(ctx, formSessionKeyPrefix+id.String()).Err()
}

type chatSessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewChatSessionRepository(redisClient *redis.Client, ttl time.Duration) domainRepo.ChatSessionRepository {
	return &chatSessionRepository{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (r *chatSessionRepository) Save(ctx context.Context, session *entity.ChatSession) error {
	session.UpdatedAt = time.Now()
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal chat session %s: %w", session.ID, err)
	}
	key := chatSessionKeyPrefix + session.ID.String()
	return r.redisClient.Set(ctx, key, payload, r.ttl).Err()
}

func (r *chatSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	key := chatSessionKeyPrefix + id.String()
	payload, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.ChatSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal chat session %s: %w", id, err)
	}
	return &session, nil
}

func (r *chatSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.redisClient.Del(ctx, chatSessionKeyPrefix+id.String()).Err()
}
