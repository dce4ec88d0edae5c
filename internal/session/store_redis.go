package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"visitor-registration/internal/common/database"
	apperrors "visitor-registration/internal/common/errors"
	"visitor-registration/internal/models"
)

const (
	keyEmployeeID      = "employeeId"
	keyEmployeeProfile = "employeeProfile"
	keyDraft           = "draft"
	keyPass            = "pass"
	keyBusyPrefix      = "busy:"
)

// RedisStore keeps session data under "<prefix><sessionId>:<name>" keys that
// all expire together after ttl of inactivity.
type RedisStore struct {
	client *database.RedisClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID, name string) string {
	return s.prefix + sessionID + ":" + name
}

func (s *RedisStore) dataKeys(sessionID string) []string {
	return []string{
		s.key(sessionID, keyEmployeeID),
		s.key(sessionID, keyEmployeeProfile),
		s.key(sessionID, keyDraft),
		s.key(sessionID, keyPass),
	}
}

// touch slides the expiry of every key of the session.
func (s *RedisStore) touch(ctx context.Context, sessionID string) error {
	return s.client.Touch(ctx, s.ttl, s.dataKeys(sessionID)...)
}

func (s *RedisStore) SaveIdentity(ctx context.Context, sessionID string, identity *models.EmployeeIdentity) error {
	profile, err := json.Marshal(identity.Profile)
	if err != nil {
		return apperrors.NewSessionStoreFailureError("save identity", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID, keyEmployeeID), identity.EmployeeID, s.ttl); err != nil {
		return apperrors.NewSessionStoreFailureError("save identity", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID, keyEmployeeProfile), profile, s.ttl); err != nil {
		return apperrors.NewSessionStoreFailureError("save identity", err)
	}
	return s.touchOrFail(ctx, sessionID, "save identity")
}

func (s *RedisStore) LoadIdentity(ctx context.Context, sessionID string) (*models.EmployeeIdentity, error) {
	employeeID, err := s.client.Get(ctx, s.key(sessionID, keyEmployeeID))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewSessionStoreFailureError("load identity", err)
	}

	identity := &models.EmployeeIdentity{EmployeeID: employeeID}
	raw, err := s.client.Get(ctx, s.key(sessionID, keyEmployeeProfile))
	switch {
	case errors.Is(err, database.ErrNotFound), err == nil && raw == "null":
	case err != nil:
		return nil, apperrors.NewSessionStoreFailureError("load identity", err)
	default:
		var profile models.EmployeeProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return nil, apperrors.NewSessionStoreFailureError("load identity", fmt.Errorf("decode profile: %w", err))
		}
		identity.Profile = &profile
	}
	if n, ok := identity.ResolveNumericID(); ok {
		identity.NumericID = n
	}

	return identity, s.touchOrFail(ctx, sessionID, "load identity")
}

func (s *RedisStore) SaveDraft(ctx context.Context, sessionID string, draft *models.WizardState) error {
	return s.saveJSON(ctx, sessionID, keyDraft, draft)
}

func (s *RedisStore) LoadDraft(ctx context.Context, sessionID string) (*models.WizardState, error) {
	var draft models.WizardState
	found, err := s.loadJSON(ctx, sessionID, keyDraft, &draft)
	if err != nil || !found {
		return nil, err
	}
	return &draft, nil
}

func (s *RedisStore) SavePass(ctx context.Context, sessionID string, pass *models.Pass) error {
	return s.saveJSON(ctx, sessionID, keyPass, pass)
}

func (s *RedisStore) LoadPass(ctx context.Context, sessionID string) (*models.Pass, error) {
	var pass models.Pass
	found, err := s.loadJSON(ctx, sessionID, keyPass, &pass)
	if err != nil || !found {
		return nil, err
	}
	return &pass, nil
}

func (s *RedisStore) Acquire(ctx context.Context, sessionID, gate string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(sessionID, keyBusyPrefix+gate), "1", s.ttl)
	if err != nil {
		return false, apperrors.NewSessionStoreFailureError("acquire "+gate, err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, sessionID, gate string) error {
	if err := s.client.Del(ctx, s.key(sessionID, keyBusyPrefix+gate)); err != nil {
		return apperrors.NewSessionStoreFailureError("release "+gate, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID, keyDraft), s.key(sessionID, keyPass)); err != nil {
		return apperrors.NewSessionStoreFailureError("reset", err)
	}
	return s.touchOrFail(ctx, sessionID, "reset")
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) saveJSON(ctx context.Context, sessionID, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewSessionStoreFailureError("save "+name, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID, name), data, s.ttl); err != nil {
		return apperrors.NewSessionStoreFailureError("save "+name, err)
	}
	return s.touchOrFail(ctx, sessionID, "save "+name)
}

func (s *RedisStore) loadJSON(ctx context.Context, sessionID, name string, dest interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID, name))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewSessionStoreFailureError("load "+name, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, apperrors.NewSessionStoreFailureError("load "+name, fmt.Errorf("decode: %w", err))
	}
	return true, s.touchOrFail(ctx, sessionID, "load "+name)
}

func (s *RedisStore) touchOrFail(ctx context.Context, sessionID, op string) error {
	if err := s.touch(ctx, sessionID); err != nil {
		return apperrors.NewSessionStoreFailureError(op, err)
	}
	return nil
}
