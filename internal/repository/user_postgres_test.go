package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinylvault/vinylvault/internal/domain"
	"github.com/vinylvault/vinylvault/internal/repository/testutil"
	"github.com/vinylvault/vinylvault/pkg/logger"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))
	hash := hashFor(t, "password123")
	creds := domain.Credentials{Email: "admin@vinylvault.test", Password: "password123"}

	// Test case 1: Admin login, admin row takes precedence
	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs(creds.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(1, "Store Admin", creds.Email, hash))
	mock.ExpectQuery(`SELECT department FROM admins WHERE user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"department"}).AddRow(domain.DepartmentIT))

	identity, err := repo.Authenticate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
	assert.Equal(t, domain.DepartmentIT, identity.RoleDetail)

	// Test case 2: Customer login falls through to the customers table
	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs(creds.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(2, "Demo Customer", creds.Email, hash))
	mock.ExpectQuery(`SELECT department FROM admins WHERE user_id = \$1`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT address FROM customers WHERE user_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"address"}).AddRow("1 Demo Street"))

	identity, err = repo.Authenticate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, identity.Role)
	assert.Equal(t, "1 Demo Street", identity.RoleDetail)

	// Test case 3: No role rows means role unknown
	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs(creds.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(3, "Orphan User", creds.Email, hash))
	mock.ExpectQuery(`SELECT department FROM admins WHERE user_id = \$1`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT address FROM customers WHERE user_id = \$1`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	identity, err = repo.Authenticate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUnknown, identity.Role)
	assert.Empty(t, identity.RoleDetail)

	// Test case 4: Wrong password and unknown email are indistinguishable
	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs(creds.Email).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(1, "Store Admin", creds.Email, hash))

	wrong := creds
	wrong.Password = "not-the-password"
	_, err = repo.Authenticate(context.Background(), wrong)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs("nobody@vinylvault.test").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Authenticate(context.Background(), domain.Credentials{
		Email:    "nobody@vinylvault.test",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestListUsers(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewPostgresStore(db, logger.NewLogger("disabled"))

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "department", "address"}).
		AddRow(1, "Store Admin", "admin@vinylvault.test", "admin", "IT", "").
		AddRow(2, "Demo Customer", "customer@vinylvault.test", "customer", "", "1 Demo Street")

	mock.ExpectQuery(`FROM users u JOIN admins a ON u.id = a.user_id UNION ALL`).
		WillReturnRows(rows)

	accounts, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.RoleAdmin, accounts[0].Role)
	assert.Equal(t, "IT", accounts[0].Department)
	assert.Equal(t, domain.RoleCustomer, accounts[1].Role)
	assert.Equal(t, "1 Demo Street", accounts[1].Address)
}
