package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/persistence"
)

var migrationsDir = filepath.Join("..", "..", "migrations")

func TestTranslateMapsPostgresErrors(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)

	dup := translate(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})
	assert.ErrorIs(t, dup, ErrDuplicate)
	assert.Contains(t, dup.Error(), "accounts_email_key")

	badID := translate(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`})
	assert.ErrorIs(t, badID, ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

// setupPostgres starts a throwaway Postgres, applies the migrations and
// returns a pool. The test is skipped when no container runtime is reachable.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker/Podman not available, skipping integration tests")
	}
	_ = provider.Close()

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("hospital_test"),
		postgres.WithUsername("hospital"),
		postgres.WithPassword("hospital_test_password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, migrationsDir, zap.NewNop()))
	return pool
}

func TestAccountRepositoryPostgres(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := NewAccountRepository(pool)

	t.Run("migrations are applied once", func(t *testing.T) {
		require.NoError(t, persistence.RunMigrations(ctx, pool, migrationsDir, zap.NewNop()))

		var versions int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&versions))
		files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
		require.NoError(t, err)
		assert.Equal(t, len(files), versions)
	})

	birth := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)
	doctor := newAccount(uuid.NewString(), "doc@x.com", "D1", "P1", domain.RoleDoctor)
	doctor.BirthDate = &birth
	patient := newAccount(uuid.NewString(), "pat@x.com", "D2", "P2", domain.RolePatient)

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, doctor))
		require.NoError(t, repo.Create(ctx, patient))
		assert.False(t, doctor.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, doctor.Email, got.Email)
		assert.Equal(t, domain.RoleDoctor, got.Role)
		assert.Equal(t, doctor.PasswordHash, got.PasswordHash)
		require.NotNil(t, got.BirthDate)
		assert.True(t, birth.Equal(*got.BirthDate))

		byEmail, err := repo.GetByEmail(ctx, "pat@x.com")
		require.NoError(t, err)
		assert.Equal(t, patient.ID, byEmail.ID)
		assert.Nil(t, byEmail.BirthDate)
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), ErrNotFound)
	})

	t.Run("find by unique fields", func(t *testing.T) {
		got, err := repo.FindByUniqueFields(ctx, "other@x.com", "D2", "P9")
		require.NoError(t, err)
		assert.Equal(t, patient.ID, got.ID)

		_, err = repo.FindByUniqueFields(ctx, "other@x.com", "D9", "P9")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		clash := newAccount(uuid.NewString(), "doc@x.com", "D3", "P3", domain.RolePatient)
		err := repo.Create(ctx, clash)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.Contains(t, err.Error(), "accounts_email_key")

		patient.Phone = "P1"
		assert.ErrorIs(t, repo.Update(ctx, patient), ErrDuplicate)
		patient.Phone = "P2"
	})

	t.Run("list filters and pages", func(t *testing.T) {
		all, err := repo.List(ctx, AccountFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		role := domain.RolePatient
		patients, err := repo.List(ctx, AccountFilter{Role: &role})
		require.NoError(t, err)
		require.Len(t, patients, 1)
		assert.Equal(t, patient.ID, patients[0].ID)

		page, err := repo.List(ctx, AccountFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, patient.ID, page[0].ID)
	})

	t.Run("update and delete", func(t *testing.T) {
		patient.Name = "Lucía"
		require.NoError(t, repo.Update(ctx, patient))
		got, err := repo.GetByID(ctx, patient.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lucía", got.Name)

		require.NoError(t, repo.Delete(ctx, patient.ID))
		assert.ErrorIs(t, repo.Delete(ctx, patient.ID), ErrNotFound)
	})
}
