package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hospital-service/internal/domain"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned when a write would break a uniqueness constraint.
	ErrDuplicate = errors.New("account already exists")
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// AccountFilter narrows List results.
type AccountFilter struct {
	Role   *domain.Role
	Limit  int
	Offset int
}

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// FindByUniqueFields returns any account sharing the email, document or phone.
	FindByUniqueFields(ctx context.Context, email, document, phone string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, name, last_name, document, phone, email, birth_date, password_hash, role, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, name, last_name, document, phone, email, birth_date, password_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Name,
		account.LastName,
		account.Document,
		account.Phone,
		account.Email,
		account.BirthDate,
		account.PasswordHash,
		account.Role,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	return translate(err)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET name=$1, last_name=$2, document=$3, phone=$4, email=$5,
            birth_date=$6, password_hash=$7, role=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Name,
		account.LastName,
		account.Document,
		account.Phone,
		account.Email,
		account.BirthDate,
		account.PasswordHash,
		account.Role,
		account.ID,
	).Scan(&account.UpdatedAt)
	return translate(err)
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email=$1`, email)
}

func (r *accountRepository) FindByUniqueFields(ctx context.Context, email, document, phone string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts
        WHERE email=$1 OR document=$2 OR phone=$3
        ORDER BY created_at LIMIT 1`
	return r.getOne(ctx, query, email, document, phone)
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.Role != nil {
		query += fmt.Sprintf(" AND role=$%d", idx)
		args = append(args, *filter.Role)
		idx++
	}

	query += " ORDER BY created_at, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", idx)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.LastName,
		&account.Document,
		&account.Phone,
		&account.Email,
		&account.BirthDate,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case invalidTextRepresentation:
			// ids are UUIDs; a malformed one cannot name a stored account
			return ErrNotFound
		}
	}
	return err
}
