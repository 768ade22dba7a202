package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/dom/shift-monitor/internal/repository/postgres"
	"github.com/dom/shift-monitor/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRepository_Upsert(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewStatusRepository(testDB.DB)
	ctx := context.Background()

	supervisor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	operator, _ := testutil.NewUserBuilder().AsOperatorOf(supervisor).Build(t, testDB.DB)

	clockIn := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	change, err := domain.ChangeFor(domain.EventClockIn)
	require.NoError(t, err)

	created, err := repo.Upsert(ctx, operator.ID, change, clockIn)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Online)
	require.NotNil(t, created.ClockIn)
	assert.True(t, clockIn.Equal(*created.ClockIn))

	lunch := clockIn.Add(4 * time.Hour)
	change, err = domain.ChangeFor(domain.EventLunchStart)
	require.NoError(t, err)

	updated, err := repo.Upsert(ctx, operator.ID, change, lunch)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Online, "untouched columns keep their stored value")
	require.NotNil(t, updated.ClockIn)
	assert.True(t, clockIn.Equal(*updated.ClockIn))
	require.NotNil(t, updated.LunchStart)
	assert.True(t, lunch.Equal(*updated.LunchStart))
	require.NotNil(t, updated.LastActivity)
	assert.True(t, lunch.Equal(*updated.LastActivity))

	stored, err := repo.GetByOperatorID(ctx, operator.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, stored.ID)
	assert.True(t, lunch.Equal(*stored.LunchStart))
}

func TestStatusRepository_UpsertWithoutColumns(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewStatusRepository(testDB.DB)
	ctx := context.Background()

	supervisor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	operator, _ := testutil.NewUserBuilder().AsOperatorOf(supervisor).Build(t, testDB.DB)

	_, err := repo.Upsert(ctx, operator.ID, domain.DirectStatusChange(true), time.Now())
	require.NoError(t, err)

	record, err := repo.Upsert(ctx, operator.ID, domain.StatusChange{}, time.Now())
	require.NoError(t, err)
	assert.True(t, record.Online)
}

func TestStatusRepository_Init(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewStatusRepository(testDB.DB)
	ctx := context.Background()

	supervisor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	operator, _ := testutil.NewUserBuilder().AsOperatorOf(supervisor).Build(t, testDB.DB)

	require.NoError(t, repo.Init(ctx, operator.ID))

	record, err := repo.GetByOperatorID(ctx, operator.ID)
	require.NoError(t, err)
	assert.False(t, record.Online)

	// Init never overwrites an existing record
	_, err = repo.Upsert(ctx, operator.ID, domain.DirectStatusChange(true), time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Init(ctx, operator.ID))

	record, err = repo.GetByOperatorID(ctx, operator.ID)
	require.NoError(t, err)
	assert.True(t, record.Online)
}

func TestStatusRepository_GetByOperatorID_NotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewStatusRepository(testDB.DB)

	_, err := repo.GetByOperatorID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrStatusNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Ping(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)

	assert.NoError(t, repos.Store.Ping(context.Background()))
}
