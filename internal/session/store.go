package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persiste sobres de sesión serializados. Get devuelve (nil, nil)
// cuando la sesión no existe; el TTL de Put es sólo retención (garbage
// collection), nunca la expiración lógica de la sesión. Esa vive dentro
// del sobre y la evalúa el gate.
type Store interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, payload []byte, retention time.Duration) error
	Delete(ctx context.Context, id string) error
}

const redisKeyPrefix = "simulacro:session:"

// RedisStore guarda los sobres en Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore crea un store respaldado por Redis.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, payload []byte, retention time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+id, payload, retention).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// MemoryStore es un store en memoria para pruebas y entornos sin Redis.
// Ignora la retención: los sobres viven hasta Delete.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore crea un store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	clone := make([]byte, len(payload))
	copy(clone, payload)
	return clone, nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, payload []byte, retention time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := make([]byte, len(payload))
	copy(clone, payload)
	s.data[id] = clone
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
