package repository

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vinylvault/vinylvault/internal/domain"
)

func (r *postgresStore) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM users WHERE email = $1`,
		creds.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Password)
	if err == sql.ErrNoRows {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identity := &domain.Identity{
		UserID: user.ID,
		Name:   user.Name,
	}

	// Role by presence of the detail row, admin taking precedence.
	var department string
	err = r.db.QueryRowContext(ctx,
		`SELECT department FROM admins WHERE user_id = $1`, user.ID,
	).Scan(&department)
	switch {
	case err == nil:
		identity.Role = domain.RoleAdmin
		identity.RoleDetail = department
		return identity, nil
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("failed to look up admin detail: %w", err)
	}

	var address string
	err = r.db.QueryRowContext(ctx,
		`SELECT address FROM customers WHERE user_id = $1`, user.ID,
	).Scan(&address)
	switch {
	case err == nil:
		identity.Role = domain.RoleCustomer
		identity.RoleDetail = address
		return identity, nil
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("failed to look up customer detail: %w", err)
	}

	identity.Role = domain.RoleUnknown
	return identity, nil
}

func (r *postgresStore) ListUsers(ctx context.Context) ([]*domain.UserAccount, error) {
	query := `
		SELECT u.id, u.name, u.email, 'admin', a.department, ''
		FROM users u
		JOIN admins a ON u.id = a.user_id
		UNION ALL
		SELECT u.id, u.name, u.email, 'customer', '', c.address
		FROM users u
		JOIN customers c ON u.id = c.user_id
		ORDER BY 4, 1
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.UserAccount
	for rows.Next() {
		var account domain.UserAccount
		err := rows.Scan(
			&account.UserID,
			&account.Name,
			&account.Email,
			&account.Role,
			&account.Department,
			&account.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return accounts, nil
}
