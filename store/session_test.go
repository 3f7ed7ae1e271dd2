package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hrygo/designgenie/internal/errors"
	"github.com/hrygo/designgenie/internal/profile"
	"github.com/hrygo/designgenie/store"
	"github.com/hrygo/designgenie/store/db/memory"
)

func newTestStore(t *testing.T) (*store.Store, store.Driver) {
	t.Helper()
	driver := memory.NewDB()
	return store.New(driver, &profile.Profile{Mode: "dev", Driver: "memory"}), driver
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	t.Run("RequiresQuestionnaire", func(t *testing.T) {
		_, err := s.CreateSession(ctx, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

		_, err = s.CreateSession(ctx, map[string]string{})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	})

	t.Run("InitialDocumentShape", func(t *testing.T) {
		questionnaire := map[string]string{"budget": "$10k-$30k", "tastes": "modern minimalist"}
		session, err := s.CreateSession(ctx, questionnaire)
		require.NoError(t, err)

		assert.Len(t, session.ID, 7)
		assert.Nil(t, session.CustomerProfile)
		assert.Equal(t, questionnaire, session.Questionnaire)
		assert.Empty(t, session.Recommendations)
		assert.NotNil(t, session.Recommendations)
		assert.Empty(t, session.Feedback)
		assert.Empty(t, session.Moodboards)
		assert.NotZero(t, session.Timestamp)
	})

	t.Run("ReadAfterCreate", func(t *testing.T) {
		questionnaire := map[string]string{"goals": "cozy reading corner"}
		created, err := s.CreateSession(ctx, questionnaire)
		require.NoError(t, err)

		loaded, err := s.GetSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, loaded.ID)
		assert.Equal(t, questionnaire, loaded.Questionnaire)
	})
}

// collidingDriver reports every key as taken, forcing the id
// allocation loop to exhaust itself.
type collidingDriver struct {
	store.Driver
	existsCalls int
}

func (d *collidingDriver) Exists(_ context.Context, _ string) (bool, error) {
	d.existsCalls++
	return true, nil
}

func TestCreateSessionIDAllocationBounded(t *testing.T) {
	driver := &collidingDriver{Driver: memory.NewDB()}
	s := store.New(driver, &profile.Profile{Mode: "dev", Driver: "memory"})

	_, err := s.CreateSession(context.Background(), map[string]string{"budget": "$5k"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStore))
	assert.Equal(t, 5, driver.existsCalls)
}

func TestGetSessionNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestGetSessionMalformed(t *testing.T) {
	ctx := context.Background()
	s, driver := newTestStore(t)
	require.NoError(t, driver.Set(ctx, "session:corrupt", "{not json", 0))

	_, err := s.GetSession(ctx, "corrupt")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeParse))
}

func TestUpdateSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.CreateSession(ctx, map[string]string{"needs": "storage"})
	require.NoError(t, err)

	t.Run("ForcesPathID", func(t *testing.T) {
		doc := *created
		doc.ID = "tampered"
		doc.Feedback = append(doc.Feedback, store.NewMessage("hello", true))

		updated, err := s.UpdateSession(ctx, created.ID, &doc)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		loaded, err := s.GetSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, loaded.ID)
		assert.Len(t, loaded.Feedback, 1)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := s.UpdateSession(ctx, "missing", created)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	})
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.CreateSession(ctx, map[string]string{"budget": "$5k"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(ctx, created.ID))

	_, err = s.GetSession(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	err = s.DeleteSession(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	s, driver := newTestStore(t)

	first, err := s.CreateSession(ctx, map[string]string{"budget": "$10k"})
	require.NoError(t, err)
	second, err := s.CreateSession(ctx, map[string]string{"budget": "$20k"})
	require.NoError(t, err)

	// One malformed entry and one id-less entry must be skipped, not
	// fail the batch.
	require.NoError(t, driver.Set(ctx, "session:broken", "not-json-at-all", 0))
	require.NoError(t, driver.Set(ctx, "session:anonymous", `{"feedback":[]}`, 0))

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestListSessionsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	sessions, err := s.ListSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestSharedSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, ok, err := s.GetSharedSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	doc := &store.Session{ID: "shared", Timestamp: time.Now().UnixMilli()}
	require.NoError(t, s.SetSharedSession(ctx, doc))

	loaded, ok, err := s.GetSharedSession(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "shared", loaded.ID)
}

func TestSessionTTL(t *testing.T) {
	ctx := context.Background()
	driver := memory.NewDB()
	s := store.New(driver, &profile.Profile{Mode: "dev", Driver: "memory", SessionTTL: 10 * time.Millisecond})

	created, err := s.CreateSession(ctx, map[string]string{"budget": "$1k"})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = s.GetSession(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}
