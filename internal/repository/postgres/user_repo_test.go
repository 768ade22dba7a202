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

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Ana",
				Email:        "ana@example.com",
				PasswordHash: "hashedpassword",
				AccessLevel:  domain.AccessLevelSupervisor,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Outra Ana",
				Email:        "ana@example.com", // Same as above
				PasswordHash: "hashedpassword2",
				AccessLevel:  domain.AccessLevelSupervisor,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	supervisor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	operator, _ := testutil.NewUserBuilder().AsOperatorOf(supervisor).Build(t, testDB.DB)

	t.Run("existing operator", func(t *testing.T) {
		user, err := repo.GetByID(ctx, operator.ID)
		require.NoError(t, err)
		assert.Equal(t, operator.Email, user.Email)
		assert.Equal(t, domain.AccessLevelOperator, user.AccessLevel)
		require.NotNil(t, user.SupervisorID)
		assert.Equal(t, supervisor.ID, *user.SupervisorID)
		assert.True(t, user.IsSupervisedBy(supervisor.ID))
	})

	t.Run("non-existent user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	created, _ := testutil.NewUserBuilder().WithEmail("find@example.com").Build(t, testDB.DB)

	user, err := repo.GetByEmail(ctx, "find@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, user.PasswordHash)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	exists, err := repo.ExistsByEmail(ctx, "find@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_ListOperators(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	statusRepo := postgres.NewStatusRepository(testDB.DB)
	ctx := context.Background()

	supervisor, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	online, _ := testutil.NewUserBuilder().WithName("Carla").AsOperatorOf(supervisor).Build(t, testDB.DB)
	testutil.NewUserBuilder().WithName("Bruno").AsOperatorOf(supervisor).Build(t, testDB.DB)
	testutil.NewUserBuilder().WithName("Alheio").AsOperatorOf(other).Build(t, testDB.DB)

	_, err := statusRepo.Upsert(ctx, online.ID, domain.DirectStatusChange(true), time.Now())
	require.NoError(t, err)

	operators, err := repo.ListOperators(ctx, supervisor.ID)
	require.NoError(t, err)
	require.Len(t, operators, 2)

	assert.Equal(t, "Bruno", operators[0].Name)
	assert.False(t, operators[0].Online)
	assert.Equal(t, domain.AccessLevelOperator, operators[0].AccessLevel)
	assert.Equal(t, "Carla", operators[1].Name)
	assert.True(t, operators[1].Online)
}
