package datamanager

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/client"
	"github.com/dmitrijs2005/portfolio/internal/client/repositories/cache"
	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultData(t *testing.T) {
	d := GetDefaultData()

	assert.NotEmpty(t, d.PersonalInfo.Name)
	assert.NotEmpty(t, d.TechnicalSkills)
	assert.NotEmpty(t, d.Projects)
	assert.NotEmpty(t, d.Experience)
	assert.NotEmpty(t, d.Education)
	assert.NotEmpty(t, d.Certifications)
	assert.NotEmpty(t, d.Achievements)
	assert.NotEmpty(t, d.QuickFacts)
	assert.NotEmpty(t, d.CurrentFocus)
	assert.NotNil(t, d.Resumes)
	assert.Empty(t, d.Resumes)
	assert.False(t, d.LastUpdated.IsZero())
	require.NoError(t, d.ValidateIdentifiers())
	require.NoError(t, validateBackup(mustJSON(t, d)))

	// fresh value on every call
	d.Projects[0].Title = "changed"
	d.QuickFacts["x"] = "y"
	again := GetDefaultData()
	assert.NotEqual(t, "changed", again.Projects[0].Title)
	assert.NotContains(t, again.QuickFacts, "x")
}

func TestGetPortfolioData_RemoteWinsAndIsMirrored(t *testing.T) {
	remoteDoc := defaultData(fixedNow)
	remoteDoc.PersonalInfo.Name = "Remote Name"
	remote := &fakeRemote{doc: remoteDoc}
	c := newMemCache()
	m, _ := newTestManager(t, remote, c)

	got := m.GetPortfolioData(context.Background())

	assert.Equal(t, "Remote Name", got.PersonalInfo.Name)
	assert.Equal(t, "Remote Name", c.doc(t).PersonalInfo.Name)
}

func TestGetPortfolioData_MirrorWaitsForSectionWrite(t *testing.T) {
	remoteDoc := defaultData(fixedNow)
	remoteDoc.PersonalInfo.Name = "Remote Name"
	c := newMemCache()
	m, _ := newTestManager(t, &fakeRemote{doc: remoteDoc}, c)

	m.cacheMu.Lock()
	done := make(chan *models.PortfolioData)
	go func() { done <- m.GetPortfolioData(context.Background()) }()

	select {
	case <-done:
		t.Fatal("cache mirror ran while a section write held the cache")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, c.has(CacheKey))

	m.cacheMu.Unlock()
	got := <-done
	assert.Equal(t, "Remote Name", got.PersonalInfo.Name)
	assert.Equal(t, "Remote Name", c.doc(t).PersonalInfo.Name)
}

func TestGetPortfolioData_FallsBackToCache(t *testing.T) {
	remote := &fakeRemote{fetchErr: client.ErrUnavailable}
	c := newMemCache()
	cached := defaultData(fixedNow)
	cached.PersonalInfo.Name = "Cached Name"
	c.m[CacheKey] = mustJSON(t, cached)
	m, logs := newTestManager(t, remote, c)

	got := m.GetPortfolioData(context.Background())

	assert.Equal(t, "Cached Name", got.PersonalInfo.Name)
	assert.Contains(t, logs.String(), "portfolio tier unavailable")
}

func TestGetPortfolioData_EmptyRemoteAndNoCacheGivesDefaults(t *testing.T) {
	remote := &fakeRemote{}
	m, logs := newTestManager(t, remote, newMemCache())

	got := m.GetPortfolioData(context.Background())

	want := defaultData(fixedNow)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, logs.String(), "using default portfolio data")
}

func TestGetPortfolioData_CorruptCacheGivesDefaults(t *testing.T) {
	remote := &fakeRemote{fetchErr: errors.New("boom")}
	c := newMemCache()
	c.m[CacheKey] = []byte("{not json")
	m, _ := newTestManager(t, remote, c)

	got := m.GetPortfolioData(context.Background())
	assert.Equal(t, defaultData(fixedNow).PersonalInfo, got.PersonalInfo)
}

func TestGetPortfolioData_CacheReadErrorGivesDefaults(t *testing.T) {
	remote := &fakeRemote{fetchErr: client.ErrUnavailable}
	c := newMemCache()
	c.getErr = errors.New("disk I/O error")
	m, _ := newTestManager(t, remote, c)

	got := m.GetPortfolioData(context.Background())
	assert.NotEmpty(t, got.Projects)
	assert.NotNil(t, got.Resumes)
}

func TestGetPortfolioDataSync_NeverCallsRemote(t *testing.T) {
	remote := &fakeRemote{doc: defaultData(fixedNow)}
	c := newMemCache()
	m, _ := newTestManager(t, remote, c)
	ctx := context.Background()

	// missing cache
	got := m.GetPortfolioDataSync(ctx)
	assert.Equal(t, defaultData(fixedNow).Projects, got.Projects)

	// corrupt cache
	c.m[CacheKey] = []byte(`["not", "an", "object"]`)
	got = m.GetPortfolioDataSync(ctx)
	assert.Equal(t, defaultData(fixedNow).Projects, got.Projects)

	// valid cache
	cached := defaultData(fixedNow)
	cached.QuickFacts = map[string]string{"k": "v"}
	c.m[CacheKey] = mustJSON(t, cached)
	got = m.GetPortfolioDataSync(ctx)
	assert.Equal(t, map[string]string{"k": "v"}, got.QuickFacts)

	assert.Zero(t, remote.fetchCalls)
}

func TestGetPortfolioDataSync_NormalizesLegacyResumes(t *testing.T) {
	c := newMemCache()
	c.m[CacheKey] = []byte(`{"personalInfo":{"name":"N","title":"T"},"resumes":{"resumes":[{"id":"r1","storageType":"local"}]}}`)
	m, _ := newTestManager(t, &fakeRemote{}, c)

	got := m.GetPortfolioDataSync(context.Background())
	require.Len(t, got.Resumes, 1)
	assert.Equal(t, "r1", got.Resumes[0].ID)

	c.m[CacheKey] = []byte(`{"personalInfo":{"name":"N","title":"T"},"resumes":"garbage"}`)
	got = m.GetPortfolioDataSync(context.Background())
	assert.NotNil(t, got.Resumes)
	assert.Empty(t, got.Resumes)
}

func TestUpdatePortfolioSection_RoundTrip(t *testing.T) {
	remote := &fakeRemote{doc: defaultData(fixedNow)}
	c := newMemCache()
	m, _ := newTestManager(t, remote, c)
	ctx := context.Background()

	var events []Event
	unsubscribe := m.Subscribe(func(e Event) { events = append(events, e) })
	defer unsubscribe()

	projects := []models.Project{{ID: 7, Title: "New", Technologies: []string{"Go"}}}
	require.True(t, m.UpdatePortfolioSection(ctx, models.SectionProjects, projects))

	got := m.GetPortfolioData(ctx)
	assert.Equal(t, projects, got.Projects)
	assert.Equal(t, projects, c.doc(t).Projects)

	require.Len(t, events, 1)
	assert.Equal(t, Event{Section: models.SectionProjects, Timestamp: fixedNow}, events[0])
}

func TestUpdatePortfolioSection_ReplacesNeverMerges(t *testing.T) {
	remote := &fakeRemote{doc: defaultData(fixedNow)}
	c := newMemCache()
	m, _ := newTestManager(t, remote, c)
	ctx := context.Background()

	projectA := models.Project{ID: 1, Title: "A", Description: "first", Technologies: []string{"Go"}}

	require.True(t, m.UpdatePortfolioSection(ctx, models.SectionProjects, []models.Project{}))
	require.True(t, m.UpdatePortfolioSection(ctx, models.SectionProjects, []models.Project{projectA}))

	assert.Equal(t, []models.Project{projectA}, m.GetPortfolioData(ctx).Projects)
	assert.Equal(t, []models.Project{projectA}, c.doc(t).Projects)

	// same outcome when only the cache is left
	remote.fetchErr = client.ErrUnavailable
	assert.Equal(t, []models.Project{projectA}, m.GetPortfolioData(ctx).Projects)
}

func TestUpdatePortfolioSection_CacheSeededWithDefaults(t *testing.T) {
	remote := &fakeRemote{}
	c := newMemCache()
	m, _ := newTestManager(t, remote, c)

	facts := map[string]string{"city": "Riga"}
	require.True(t, m.UpdatePortfolioSection(context.Background(), models.SectionQuickFacts, facts))

	doc := c.doc(t)
	assert.Equal(t, facts, doc.QuickFacts)
	assert.Equal(t, defaultData(fixedNow).PersonalInfo, doc.PersonalInfo)
	assert.True(t, doc.LastUpdated.Equal(fixedNow))
}

func TestUpdatePortfolioSection_RemoteFailureLeavesCacheAndSubscribers(t *testing.T) {
	remote := &fakeRemote{saveErr: client.ErrUnavailable}
	c := newMemCache()
	before := mustJSON(t, defaultData(fixedNow))
	c.m[CacheKey] = before
	m, logs := newTestManager(t, remote, c)

	called := false
	m.Subscribe(func(Event) { called = true })

	ok := m.UpdatePortfolioSection(context.Background(), models.SectionProjects, []models.Project{})

	assert.False(t, ok)
	assert.False(t, called)
	assert.Equal(t, before, c.m[CacheKey])
	assert.Contains(t, logs.String(), "failed to update section")
}

func TestUpdatePortfolioSection_UnknownSection(t *testing.T) {
	remote := &fakeRemote{}
	m, _ := newTestManager(t, remote, newMemCache())

	assert.False(t, m.UpdatePortfolioSection(context.Background(), models.Section("bogus"), 1))
	assert.Zero(t, remote.saveCalls)
}

func TestUpdatePortfolioSection_CacheFailureStillSucceeds(t *testing.T) {
	remote := &fakeRemote{}
	c := newMemCache()
	c.setErr = errors.New("read-only database")
	m, logs := newTestManager(t, remote, c)

	notified := 0
	m.Subscribe(func(Event) { notified++ })

	assert.True(t, m.UpdatePortfolioSection(context.Background(), models.SectionAchievements, []models.Achievement{{Title: "A"}}))
	assert.Equal(t, 1, notified)
	assert.Contains(t, logs.String(), "cache backup update failed")
}

func TestResetToDefaults_Idempotent(t *testing.T) {
	remoteDoc := defaultData(fixedNow)
	remoteDoc.Projects = nil
	remote := &fakeRemote{doc: remoteDoc}
	c := newMemCache()
	c.m[CacheKey] = mustJSON(t, remoteDoc)
	m, _ := newTestManager(t, remote, c)
	ctx := context.Background()

	require.True(t, m.ResetToDefaults(ctx))
	first := clone(t, remote.doc)
	assert.False(t, c.has(CacheKey))

	m.now = func() time.Time { return fixedNow.Add(time.Hour) }
	require.True(t, m.ResetToDefaults(ctx))
	second := clone(t, remote.doc)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(models.PortfolioData{}, "LastUpdated")); diff != "" {
		t.Fatalf("reset is not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, defaultData(fixedNow).Projects, second.Projects)
	assert.Equal(t, 2, remote.saveAllCalls)
}

func TestResetToDefaults_RemoteFailureKeepsCache(t *testing.T) {
	remote := &fakeRemote{saveErr: client.ErrUnavailable}
	c := newMemCache()
	c.m[CacheKey] = []byte(`{}`)
	m, _ := newTestManager(t, remote, c)

	assert.False(t, m.ResetToDefaults(context.Background()))
	assert.True(t, c.has(CacheKey))
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m, _ := newTestManager(t, &fakeRemote{}, newMemCache())

	var a, b int
	unsubA := m.Subscribe(func(Event) { a++ })
	m.Subscribe(func(Event) { b++ })

	m.notify(Event{Section: models.SectionProjects})
	unsubA()
	unsubA()
	m.notify(Event{Section: models.SectionProjects})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSubscribe_ConcurrentUse(t *testing.T) {
	m, _ := newTestManager(t, &fakeRemote{}, newMemCache())

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := m.Subscribe(func(Event) {
				mu.Lock()
				total++
				mu.Unlock()
			})
			m.UpdatePortfolioSection(context.Background(), models.SectionQuickFacts, map[string]string{})
			unsub()
		}()
	}
	wg.Wait()

	assert.Positive(t, total)
}

func TestManager_WithSQLiteCache(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	remote := &fakeRemote{}
	repo := cache.NewSQLiteRepository(db)
	m := NewManager(remote, repo, newDiscardLogger())

	skills := []models.SkillCategory{{Category: "Go", Skills: []string{"grpc", "chi"}}}
	require.True(t, m.UpdatePortfolioSection(ctx, models.SectionTechnicalSkills, skills))

	remote.fetchErr = common.ErrorInternal
	got := m.GetPortfolioData(ctx)
	assert.Equal(t, skills, got.TechnicalSkills)

	require.True(t, m.ResetToDefaults(ctx))
	raw, err := repo.Get(ctx, CacheKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}
