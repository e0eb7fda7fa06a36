package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/glue"
	glueTypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGlueClient tracks catalog state transitions in memory
type fakeGlueClient struct {
	hasDatabase bool
	hasCrawler  bool
	startErr    error

	// states served by successive GetCrawler polls after Start
	states     []glueTypes.CrawlerState
	stateIndex int

	created int
	updated int
}

func (f *fakeGlueClient) GetDatabase(_ context.Context, _ *glue.GetDatabaseInput, _ ...func(*glue.Options)) (*glue.GetDatabaseOutput, error) {
	if !f.hasDatabase {
		return nil, &glueTypes.EntityNotFoundException{}
	}
	return &glue.GetDatabaseOutput{}, nil
}

func (f *fakeGlueClient) CreateDatabase(_ context.Context, _ *glue.CreateDatabaseInput, _ ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error) {
	f.hasDatabase = true
	return &glue.CreateDatabaseOutput{}, nil
}

func (f *fakeGlueClient) GetCrawler(_ context.Context, _ *glue.GetCrawlerInput, _ ...func(*glue.Options)) (*glue.GetCrawlerOutput, error) {
	if !f.hasCrawler {
		return nil, &glueTypes.EntityNotFoundException{}
	}
	state := glueTypes.CrawlerStateReady
	if f.stateIndex < len(f.states) {
		state = f.states[f.stateIndex]
		f.stateIndex++
	}
	return &glue.GetCrawlerOutput{Crawler: &glueTypes.Crawler{State: state}}, nil
}

func (f *fakeGlueClient) CreateCrawler(_ context.Context, _ *glue.CreateCrawlerInput, _ ...func(*glue.Options)) (*glue.CreateCrawlerOutput, error) {
	f.hasCrawler = true
	f.created++
	return &glue.CreateCrawlerOutput{}, nil
}

func (f *fakeGlueClient) UpdateCrawler(_ context.Context, _ *glue.UpdateCrawlerInput, _ ...func(*glue.Options)) (*glue.UpdateCrawlerOutput, error) {
	f.updated++
	return &glue.UpdateCrawlerOutput{}, nil
}

func (f *fakeGlueClient) StartCrawler(_ context.Context, _ *glue.StartCrawlerInput, _ ...func(*glue.Options)) (*glue.StartCrawlerOutput, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &glue.StartCrawlerOutput{}, nil
}

func newTestCatalog(client GlueAPI) *CatalogManager {
	m := NewCatalogManager(client, "alerta_utec", "alerta-crawler", "arn:aws:iam::1:role/glue", "s3://analitica/analitica/ingesta", zap.NewNop())
	m.pollInterval = 0
	m.sleep = func(time.Duration) {}
	return m
}

func TestEnsureDatabaseCreatesOnce(t *testing.T) {
	client := &fakeGlueClient{}
	mgr := newTestCatalog(client)

	require.NoError(t, mgr.EnsureDatabase(context.Background()))
	assert.True(t, client.hasDatabase)

	// Second call finds the database and changes nothing.
	require.NoError(t, mgr.EnsureDatabase(context.Background()))
}

func TestEnsureCrawlerUpsertIsIdempotent(t *testing.T) {
	client := &fakeGlueClient{}
	mgr := newTestCatalog(client)

	require.NoError(t, mgr.EnsureCrawler(context.Background()))
	assert.Equal(t, 1, client.created)
	assert.Equal(t, 0, client.updated)

	require.NoError(t, mgr.EnsureCrawler(context.Background()))
	assert.Equal(t, 1, client.created)
	assert.Equal(t, 1, client.updated)
}

func TestStartAndWaitReachesReady(t *testing.T) {
	client := &fakeGlueClient{
		hasCrawler: true,
		states: []glueTypes.CrawlerState{
			glueTypes.CrawlerStateRunning,
			glueTypes.CrawlerStateStopping,
			glueTypes.CrawlerStateReady,
		},
	}
	mgr := newTestCatalog(client)

	status, err := mgr.StartAndWait(context.Background())
	require.NoError(t, err)
	assert.False(t, status.TimedOut)
	assert.Equal(t, string(glueTypes.CrawlerStateReady), status.Estado)
}

func TestStartAndWaitSleepsOncePerPoll(t *testing.T) {
	client := &fakeGlueClient{
		hasCrawler: true,
		states: []glueTypes.CrawlerState{
			glueTypes.CrawlerStateRunning,
			glueTypes.CrawlerStateRunning,
			glueTypes.CrawlerStateReady,
		},
	}
	mgr := newTestCatalog(client)
	sleeps := 0
	mgr.sleep = func(time.Duration) { sleeps++ }

	_, err := mgr.StartAndWait(context.Background())
	require.NoError(t, err)

	// One wait before each poll and nothing extra between them, so the
	// effective interval stays at pollInterval.
	assert.Equal(t, 3, client.stateIndex)
	assert.Equal(t, client.stateIndex, sleeps)
}

func TestStartAndWaitSwallowsAlreadyRunning(t *testing.T) {
	client := &fakeGlueClient{
		hasCrawler: true,
		startErr:   &glueTypes.CrawlerRunningException{},
		states:     []glueTypes.CrawlerState{glueTypes.CrawlerStateReady},
	}
	mgr := newTestCatalog(client)

	status, err := mgr.StartAndWait(context.Background())
	require.NoError(t, err)
	assert.False(t, status.TimedOut)
}

func TestStartAndWaitTimesOut(t *testing.T) {
	states := make([]glueTypes.CrawlerState, 50)
	for i := range states {
		states[i] = glueTypes.CrawlerStateRunning
	}
	client := &fakeGlueClient{hasCrawler: true, states: states}
	mgr := newTestCatalog(client)
	mgr.timeout = -time.Second

	status, err := mgr.StartAndWait(context.Background())
	require.NoError(t, err)
	assert.True(t, status.TimedOut)
	assert.Equal(t, string(glueTypes.CrawlerStateRunning), status.Estado)
}
