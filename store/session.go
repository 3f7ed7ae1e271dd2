package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	apperrors "github.com/hrygo/designgenie/internal/errors"
)

const (
	// sessionKeyPrefix is the key convention allowing prefix-scan
	// enumeration of all sessions.
	sessionKeyPrefix = "session:"

	// sharedSessionKey is the legacy single-shared-session key,
	// superseded by the id-addressed documents.
	sharedSessionKey = "shared_woz_session"

	// sessionIDLength matches the public 7-char id shape.
	sessionIDLength = 7

	// createIDAttempts bounds the fresh-id collision retry loop.
	createIDAttempts = 5
)

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// newSessionID returns a short opaque identifier.
func newSessionID() string {
	return strings.ToLower(shortuuid.New())[:sessionIDLength]
}

// CreateSession builds and persists the initial session document for
// the submitted questionnaire and returns it.
func (s *Store) CreateSession(ctx context.Context, questionnaire map[string]string) (*Session, error) {
	if len(questionnaire) == 0 {
		return nil, apperrors.Validation("questionnaire is required")
	}

	var id string
	for attempt := 0; ; attempt++ {
		if attempt == createIDAttempts {
			return nil, apperrors.StoreFailure("could not allocate a fresh session id", nil)
		}
		id = newSessionID()
		exists, err := s.driver.Exists(ctx, sessionKey(id))
		if err != nil {
			return nil, apperrors.StoreFailure("failed to check session key", err)
		}
		if !exists {
			break
		}
		slog.Warn("session id collision, regenerating", "id", id)
	}

	session := &Session{
		ID:              id,
		CustomerProfile: nil,
		Questionnaire:   questionnaire,
		Recommendations: []Recommendation{},
		Feedback:        []Message{},
		Moodboards:      []Moodboard{},
		Timestamp:       time.Now().UnixMilli(),
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the session document for id.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	value, ok, err := s.driver.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, apperrors.StoreFailure("failed to load session", err)
	}
	if !ok {
		return nil, apperrors.NotFound("session not found: " + id)
	}

	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, apperrors.ParseFailure("failed to parse session "+id, err)
	}
	return &session, nil
}

// UpdateSession replaces the stored document wholesale. The path id is
// forced onto the document to prevent a body/path mismatch.
func (s *Store) UpdateSession(ctx context.Context, id string, session *Session) (*Session, error) {
	exists, err := s.driver.Exists(ctx, sessionKey(id))
	if err != nil {
		return nil, apperrors.StoreFailure("failed to check session key", err)
	}
	if !exists {
		return nil, apperrors.NotFound("session not found: " + id)
	}

	session.ID = id
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes the session document.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	count, err := s.driver.Delete(ctx, sessionKey(id))
	if err != nil {
		return apperrors.StoreFailure("failed to delete session", err)
	}
	if count == 0 {
		return apperrors.NotFound("session not found: " + id)
	}
	return nil
}

// ListSessions scans the whole session key space and returns every
// parseable document. Individually malformed entries and entries
// without an id are skipped rather than failing the batch.
func (s *Store) ListSessions(ctx context.Context) ([]*Session, error) {
	keys, err := s.driver.Keys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return nil, apperrors.StoreFailure("failed to scan session keys", err)
	}
	if len(keys) == 0 {
		return []*Session{}, nil
	}

	values, err := s.driver.MGet(ctx, keys...)
	if err != nil {
		return nil, apperrors.StoreFailure("failed to bulk-fetch sessions", err)
	}

	sessions := make([]*Session, 0, len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		var session Session
		if err := json.Unmarshal([]byte(*value), &session); err != nil {
			slog.Warn("skipping malformed session document", "key", keys[i], "error", err)
			continue
		}
		if session.ID == "" {
			continue
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

// GetSharedSession returns the legacy singleton session document. The
// boolean reports whether one has been stored.
func (s *Store) GetSharedSession(ctx context.Context) (*Session, bool, error) {
	value, ok, err := s.driver.Get(ctx, sharedSessionKey)
	if err != nil {
		return nil, false, apperrors.StoreFailure("failed to load shared session", err)
	}
	if !ok {
		return nil, false, nil
	}

	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, false, apperrors.ParseFailure("failed to parse shared session", err)
	}
	return &session, true, nil
}

// SetSharedSession overwrites the legacy singleton session document.
func (s *Store) SetSharedSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.ParseFailure("failed to marshal shared session", err)
	}
	if err := s.driver.Set(ctx, sharedSessionKey, string(data), s.sessionTTL()); err != nil {
		return apperrors.StoreFailure("failed to store shared session", err)
	}
	return nil
}

func (s *Store) saveSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.ParseFailure("failed to marshal session "+session.ID, err)
	}
	if err := s.driver.Set(ctx, sessionKey(session.ID), string(data), s.sessionTTL()); err != nil {
		return apperrors.StoreFailure("failed to store session "+session.ID, err)
	}
	return nil
}

func (s *Store) sessionTTL() time.Duration {
	if s.profile == nil {
		return 0
	}
	return s.profile.SessionTTL
}
