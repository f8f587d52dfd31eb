package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementFor(t *testing.T, table string) string {
	t.Helper()
	for _, stmt := range createStatements {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			return stmt
		}
	}
	t.Fatalf("no create statement for table %s", table)
	return ""
}

func TestSchemaCoversEveryTable(t *testing.T) {
	require.Len(t, createStatements, len(tableNames))
	for _, table := range tableNames {
		statementFor(t, table)
	}
}

func TestSchemaOrdersBelongToCustomers(t *testing.T) {
	// Only accounts with a customer role can own orders, so the foreign key
	// targets the role table rather than the base users table.
	orders := statementFor(t, "orders")
	assert.Contains(t, orders, "REFERENCES customers(user_id)")
	assert.NotContains(t, orders, "REFERENCES users(id)")

	// customers must exist before orders for creation to succeed in order.
	customersAt, ordersAt := -1, -1
	for i, table := range tableNames {
		switch table {
		case "customers":
			customersAt = i
		case "orders":
			ordersAt = i
		}
	}
	require.NotEqual(t, -1, customersAt)
	require.NotEqual(t, -1, ordersAt)
	assert.Less(t, customersAt, ordersAt)
}
