package sqlite

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/example/visitor-console/internal/persistence"
)

var (
	userColumns     = []string{"id", "name", "email", "role", "created_at_ms", "updated_at_ms"}
	identityColumns = []string{"user_id", "email", "password_hash", "disabled", "created_at_ms", "updated_at_ms"}
)

type userRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Role      string `db:"role"`
	CreatedAt int64  `db:"created_at_ms"`
	UpdatedAt int64  `db:"updated_at_ms"`
}

func (row userRow) toModel() persistence.User {
	return persistence.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      row.Role,
		CreatedAt: fromMillis(row.CreatedAt),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}
}

type identityRow struct {
	UserID       string `db:"user_id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Disabled     bool   `db:"disabled"`
	CreatedAt    int64  `db:"created_at_ms"`
	UpdatedAt    int64  `db:"updated_at_ms"`
}

func (row identityRow) toModel() persistence.Identity {
	return persistence.Identity{
		UserID:       row.UserID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Disabled:     row.Disabled,
		CreatedAt:    fromMillis(row.CreatedAt),
		UpdatedAt:    fromMillis(row.UpdatedAt),
	}
}

// UserRepository implements persistence.UserRepository using SQLite.
// Profiles live in users, sign-in accounts in identities.
type UserRepository struct {
	conn *Conn
}

// NewUserRepository creates a new SQLite user repository
func NewUserRepository(conn *Conn) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser inserts the identity and the profile in one transaction
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User, identity persistence.Identity) error {
	if user.ID == "" || identity.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	email := normalizeEmail(user.Email)
	identity.UserID = user.ID
	identity.Email = email

	insertIdentity := r.conn.builder.Insert("identities").
		Columns(identityColumns...).
		Values(identity.UserID, identity.Email, identity.PasswordHash, boolToInt(identity.Disabled),
			toMillis(identity.CreatedAt), toMillis(identity.UpdatedAt))
	insertUser := r.conn.builder.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Name, email, user.Role, toMillis(user.CreatedAt), toMillis(user.UpdatedAt))

	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := txExec(ctx, tx, insertIdentity); err != nil {
			return err
		}
		_, err := txExec(ctx, tx, insertUser)
		return err
	})
}

// UpdateUser overwrites the editable profile fields
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	update := r.conn.builder.Update("users").
		Set("name", user.Name).
		Set("role", user.Role).
		Set("updated_at_ms", toMillis(user.UpdatedAt)).
		Where(squirrel.Eq{"id": user.ID})

	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		affected, err := txExec(ctx, tx, update)
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// GetUser retrieves a profile by ID
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	var row userRow
	query := r.conn.builder.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id})
	if err := r.conn.get(ctx, &row, query); err != nil {
		return persistence.User{}, err
	}
	return row.toModel(), nil
}

// GetIdentityByEmail retrieves the sign-in account for an email address
func (r *UserRepository) GetIdentityByEmail(ctx context.Context, email string) (persistence.Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return persistence.Identity{}, persistence.ErrNotFound
	}

	var row identityRow
	query := r.conn.builder.Select(identityColumns...).From("identities").Where(squirrel.Eq{"email": email})
	if err := r.conn.get(ctx, &row, query); err != nil {
		return persistence.Identity{}, err
	}
	return row.toModel(), nil
}

// ListUsers returns profiles ordered by name together with the unpaged total
func (r *UserRepository) ListUsers(ctx context.Context, filter persistence.UserFilter, page persistence.Page) ([]persistence.User, int, error) {
	where := squirrel.And{}
	if name := strings.TrimSpace(filter.Name); name != "" {
		where = append(where, containsFold("name", name))
	}

	total, err := r.conn.count(ctx, r.conn.builder.Select("COUNT(*)").From("users").Where(where))
	if err != nil {
		return nil, 0, err
	}

	query := applyPage(
		r.conn.builder.Select(userColumns...).From("users").Where(where).OrderBy("name ASC", "id ASC"),
		page,
	)

	var rows []userRow
	if err := r.conn.selectAll(ctx, &rows, query); err != nil {
		return nil, 0, err
	}

	users := make([]persistence.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, total, nil
}

// DeleteUser removes the identity, its sessions and the profile together.
// Nothing is written when the identity does not exist.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.conn.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		affected, err := txExec(ctx, tx, r.conn.builder.Delete("identities").Where(squirrel.Eq{"user_id": id}))
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		if _, err := txExec(ctx, tx, r.conn.builder.Delete("sessions").Where(squirrel.Eq{"user_id": id})); err != nil {
			return err
		}
		_, err = txExec(ctx, tx, r.conn.builder.Delete("users").Where(squirrel.Eq{"id": id}))
		return err
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
