package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/designgenie/internal/observability"
	"github.com/hrygo/designgenie/store"
)

// persistTimeout bounds each asynchronous full-document persist.
const persistTimeout = 10 * time.Second

// Session is the client-side in-memory copy of one session document
// plus the optimistic local mutation API. Every mutator applies its
// change locally first, then hands a snapshot to the persist worker;
// persist failures are logged but never rolled back.
//
// Persists are serialized per Session: a single worker goroutine
// always writes the most recent snapshot, so a stale snapshot can
// never land after a newer one and shrink the stored document.
//
// The session id travels inside the document - there is no
// package-level session state.
type Session struct {
	client *Client

	mu  sync.Mutex
	doc *store.Session
	wg  sync.WaitGroup

	persistMu  sync.Mutex
	pending    *store.Session
	persisting bool
}

// NewSession wraps an already-loaded session document.
func NewSession(c *Client, doc *store.Session) *Session {
	return &Session{client: c, doc: doc}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ID
}

// Document returns a deep copy of the current local state.
func (s *Session) Document() *store.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.doc)
}

// Replace adopts the given document wholesale, discarding local state.
// Used by the watcher when a poll detects divergence.
func (s *Session) Replace(doc *store.Session) {
	s.mu.Lock()
	s.doc = copySession(doc)
	s.mu.Unlock()
}

// SetProfile sets the customer profile on the session and persists.
func (s *Session) SetProfile(text string) {
	s.mutate(func(doc *store.Session) {
		doc.CustomerProfile = &text
	})
}

// AddFeedback appends a feedback message and persists. The returned
// entry carries its generated id and timestamp.
func (s *Session) AddFeedback(content string, fromUser bool) store.Message {
	message := store.NewMessage(content, fromUser)
	s.mutate(func(doc *store.Session) {
		doc.Feedback = append(doc.Feedback, message)
	})
	return message
}

// MoodboardParams describes a moodboard to append.
type MoodboardParams struct {
	Title       string
	Description string
	Images      []string
	CreatedBy   store.CreatorType
}

// AddMoodboard appends a moodboard and persists.
func (s *Session) AddMoodboard(params MoodboardParams) store.Moodboard {
	moodboard := store.NewMoodboard(params.Title, params.Description, params.Images, params.CreatedBy)
	s.mutate(func(doc *store.Session) {
		doc.Moodboards = append(doc.Moodboards, moodboard)
	})
	return moodboard
}

// RecommendationParams describes a recommendation to append.
type RecommendationParams struct {
	Item        string
	Explanation string
}

// AddRecommendation appends a recommendation and persists.
func (s *Session) AddRecommendation(params RecommendationParams) store.Recommendation {
	recommendation := store.NewRecommendation(params.Item, params.Explanation)
	s.mutate(func(doc *store.Session) {
		doc.Recommendations = append(doc.Recommendations, recommendation)
	})
	return recommendation
}

// UpdateRecommendationImage attaches an image URL to the matching
// recommendation and persists. Reports whether the id was found.
func (s *Session) UpdateRecommendationImage(id, imageURL string) bool {
	found := false
	s.mutate(func(doc *store.Session) {
		for i := range doc.Recommendations {
			if doc.Recommendations[i].ID == id {
				doc.Recommendations[i].ImageURL = imageURL
				found = true
				return
			}
		}
	})
	return found
}

// Flush waits for all in-flight persists to finish.
func (s *Session) Flush() {
	s.wg.Wait()
}

// mutate applies fn under the lock and schedules an asynchronous
// persist of the whole document.
func (s *Session) mutate(fn func(doc *store.Session)) {
	s.mu.Lock()
	fn(s.doc)
	snapshot := copySession(s.doc)
	s.mu.Unlock()

	s.schedulePersist(snapshot)
}

// schedulePersist records the snapshot as the one to write and starts
// the persist worker if none is running. Snapshots superseded before
// the worker picks them up are coalesced away.
func (s *Session) schedulePersist(snapshot *store.Session) {
	s.persistMu.Lock()
	s.pending = snapshot
	if s.persisting {
		s.persistMu.Unlock()
		return
	}
	s.persisting = true
	s.persistMu.Unlock()

	s.wg.Add(1)
	go s.persistLoop()
}

// persistLoop writes pending snapshots one at a time until none is
// left. Only one loop runs per Session, so writes reach the server in
// snapshot order.
func (s *Session) persistLoop() {
	defer s.wg.Done()
	for {
		s.persistMu.Lock()
		snapshot := s.pending
		s.pending = nil
		if snapshot == nil {
			s.persisting = false
			s.persistMu.Unlock()
			return
		}
		s.persistMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err := s.client.UpdateSession(ctx, snapshot)
		cancel()
		if err != nil {
			slog.Warn("failed to persist session, keeping local state",
				observability.LogFieldSessionID, snapshot.ID, "error", err)
		}
	}
}

func copySession(doc *store.Session) *store.Session {
	out := *doc
	out.Recommendations = append([]store.Recommendation(nil), doc.Recommendations...)
	out.Feedback = append([]store.Message(nil), doc.Feedback...)
	out.Moodboards = append([]store.Moodboard(nil), doc.Moodboards...)
	if doc.Questionnaire != nil {
		out.Questionnaire = make(map[string]string, len(doc.Questionnaire))
		for k, v := range doc.Questionnaire {
			out.Questionnaire[k] = v
		}
	}
	if doc.CustomerProfile != nil {
		profile := *doc.CustomerProfile
		out.CustomerProfile = &profile
	}
	return &out
}
