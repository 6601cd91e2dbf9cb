package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sakshamjn/intervue/internal/session"
	"github.com/sakshamjn/intervue/pkg"
)

// ErrNoSession means no snapshot exists for the key.
var ErrNoSession = errors.New("no session snapshot")

// Snapshots outlive the 24h staleness threshold so the gate can report
// "expired" instead of silently losing the session.
const snapshotTTL = 48 * time.Hour

// SessionCache persists session snapshots in Redis, one per session plus
// a latest-session pointer per candidate. Resume text is encrypted at
// rest.
type SessionCache struct {
	rdb    *redis.Client
	crypto *pkg.Crypto
}

func NewSessionCache(rdb *redis.Client, crypto *pkg.Crypto) *SessionCache {
	return &SessionCache{rdb: rdb, crypto: crypto}
}

func sessionKey(id string) string {
	return "intervue:session:" + id
}

func latestKey(candidateID uuid.UUID) string {
	return "intervue:candidate:" + candidateID.String() + ":session"
}

// Save writes the snapshot and the candidate's latest-session pointer.
func (c *SessionCache) Save(ctx context.Context, s *session.Session) error {
	enc, err := c.crypto.Encrypt(s.ResumeText)
	if err != nil {
		return fmt.Errorf("encrypt resume text: %w", err)
	}

	stored := *s
	stored.ResumeText = enc
	data, err := stored.Snapshot()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(s.ID), data, snapshotTTL)
	pipe.Set(ctx, latestKey(s.CandidateID), s.ID, snapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load restores a snapshot by session id.
func (c *SessionCache) Load(ctx context.Context, sessionID string) (*session.Session, error) {
	data, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	s, err := session.Restore(data)
	if err != nil {
		return nil, err
	}

	plain, err := c.crypto.Decrypt(s.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("%w: resume text: %v", session.ErrCorruptSession, err)
	}
	s.ResumeText = plain
	return s, nil
}

// LoadLatest restores the candidate's most recent snapshot.
func (c *SessionCache) LoadLatest(ctx context.Context, candidateID uuid.UUID) (*session.Session, error) {
	id, err := c.rdb.Get(ctx, latestKey(candidateID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load latest pointer: %w", err)
	}
	return c.Load(ctx, id)
}

// Delete discards a snapshot and its latest pointer.
func (c *SessionCache) Delete(ctx context.Context, sessionID string, candidateID uuid.UUID) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, latestKey(candidateID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
