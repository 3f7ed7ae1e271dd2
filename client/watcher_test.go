package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/designgenie/client"
	"github.com/hrygo/designgenie/store"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcherAdoptsGrowth(t *testing.T) {
	srv, st := newBackend(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, map[string]string{"budget": "$10k"})
	require.NoError(t, err)

	session := client.NewSession(c, created)
	updates := make(chan *store.Session, 8)
	watcher := client.NewWatcher(c, created.ID, session,
		client.WithInterval(10*time.Millisecond),
		client.WithOnUpdate(func(doc *store.Session) { updates <- doc }),
	)
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop()
	assert.Equal(t, client.StateReady, watcher.State())

	// Another actor appends feedback server-side.
	remote, err := st.GetSession(ctx, created.ID)
	require.NoError(t, err)
	remote.Feedback = append(remote.Feedback, store.NewMessage("from the wizard", false))
	_, err = st.UpdateSession(ctx, created.ID, remote)
	require.NoError(t, err)

	select {
	case adopted := <-updates:
		require.Len(t, adopted.Feedback, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never adopted the grown document")
	}
	assert.Len(t, session.Document().Feedback, 1)
}

func TestWatcherIdempotentUnderNoChange(t *testing.T) {
	srv, _ := newBackend(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, map[string]string{"budget": "$10k"})
	require.NoError(t, err)

	session := client.NewSession(c, created)
	updated := 0
	watcher := client.NewWatcher(c, created.ID, session,
		client.WithInterval(10*time.Millisecond),
		client.WithOnUpdate(func(*store.Session) { updated++ }),
	)
	require.NoError(t, watcher.Start(ctx))

	// Let several no-change polls pass.
	time.Sleep(100 * time.Millisecond)
	watcher.Stop()

	assert.Zero(t, updated)
	assert.Empty(t, session.Document().Feedback)
}

func TestWatcherIgnoresShrinkByDefault(t *testing.T) {
	srv, _ := newBackend(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, map[string]string{"budget": "$10k"})
	require.NoError(t, err)

	session := client.NewSession(c, created)
	watcher := client.NewWatcher(c, created.ID, session,
		client.WithInterval(10*time.Millisecond))
	require.NoError(t, watcher.Start(ctx))

	// Local state goes optimistically ahead of the server after the
	// initial load.
	local := session.Document()
	local.Feedback = append(local.Feedback, store.NewMessage("optimistic", true))
	session.Replace(local)

	time.Sleep(60 * time.Millisecond)
	watcher.Stop()

	// The server's shorter feedback list never overwrote local state.
	assert.Len(t, session.Document().Feedback, 1)
}

func TestWatcherStrictCompareAdoptsShrink(t *testing.T) {
	srv, _ := newBackend(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, map[string]string{"budget": "$10k"})
	require.NoError(t, err)

	session := client.NewSession(c, created)
	watcher := client.NewWatcher(c, created.ID, session,
		client.WithInterval(10*time.Millisecond),
		client.WithStrictCompare(),
	)
	require.NoError(t, watcher.Start(ctx))

	local := session.Document()
	local.Feedback = append(local.Feedback, store.NewMessage("optimistic", true))
	session.Replace(local)

	waitFor(t, 2*time.Second, func() bool {
		return len(session.Document().Feedback) == 0
	})
	watcher.Stop()
}

func TestWatcherInitialFetchFailure(t *testing.T) {
	srv, _ := newBackend(t)
	c := client.New(srv.URL)
	srv.Close()

	session := client.NewSession(c, &store.Session{ID: "gone"})
	watcher := client.NewWatcher(c, "gone", session)

	err := watcher.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, client.StateError, watcher.State())
}

func TestWatcherDegradesAfterConsecutiveFailures(t *testing.T) {
	srv, _ := newBackend(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, map[string]string{"budget": "$10k"})
	require.NoError(t, err)

	session := client.NewSession(c, created)
	watcher := client.NewWatcher(c, created.ID, session,
		client.WithInterval(10*time.Millisecond),
		client.WithFailureThreshold(3),
	)
	require.NoError(t, watcher.Start(ctx))
	require.Equal(t, client.StateReady, watcher.State())

	// A degraded store: every subsequent poll fails.
	srv.Close()

	select {
	case <-watcher.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never stopped polling")
	}
	assert.Equal(t, client.StateDegraded, watcher.State())
}

func TestWatcherStopIsIdempotentBeforeStart(t *testing.T) {
	c := client.New("http://localhost:1")
	watcher := client.NewWatcher(c, "x", client.NewSession(c, &store.Session{ID: "x"}))
	watcher.Stop() // must not block
	assert.Equal(t, client.StateIdle, watcher.State())
}
