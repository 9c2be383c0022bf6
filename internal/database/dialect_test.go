package database

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func TestPostgresRewriteQuery(t *testing.T) {
	dialect := NewPostgresDialect()

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "single placeholder",
			query:    "SELECT id FROM users WHERE email = ?",
			expected: "SELECT id FROM users WHERE email = $1",
		},
		{
			name:     "multiple placeholders numbered in order",
			query:    "INSERT INTO expressions (user_id, emotion, note) VALUES (?, ?, ?)",
			expected: "INSERT INTO expressions (user_id, emotion, note) VALUES ($1, $2, $3)",
		},
		{
			name:     "no placeholders untouched",
			query:    "SELECT COUNT(*) FROM activities",
			expected: "SELECT COUNT(*) FROM activities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery(%q) = %q, want %q", tt.query, result, tt.expected)
			}
		})
	}
}

func TestSQLiteRewriteQuery(t *testing.T) {
	dialect := NewSQLiteDialect()

	query := "SELECT id FROM users WHERE email = ? AND role = ?"
	if result := dialect.RewriteQuery(query); result != query {
		t.Errorf("RewriteQuery(%q) = %q, want unchanged", query, result)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		err      error
		expected bool
	}{
		{
			name:     "postgres fk code",
			dialect:  NewPostgresDialect(),
			err:      &pq.Error{Code: "23503"},
			expected: true,
		},
		{
			name:     "postgres unique violation is not fk",
			dialect:  NewPostgresDialect(),
			err:      &pq.Error{Code: "23505"},
			expected: false,
		},
		{
			name:     "postgres plain error",
			dialect:  NewPostgresDialect(),
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "mysql fk number",
			dialect:  NewMySQLDialect(),
			err:      &mysql.MySQLError{Number: 1452},
			expected: true,
		},
		{
			name:     "mysql duplicate entry is not fk",
			dialect:  NewMySQLDialect(),
			err:      &mysql.MySQLError{Number: 1062},
			expected: false,
		},
		{
			name:     "sqlite fk message",
			dialect:  NewSQLiteDialect(),
			err:      errors.New("FOREIGN KEY constraint failed"),
			expected: true,
		},
		{
			name:     "sqlite other constraint",
			dialect:  NewSQLiteDialect(),
			err:      errors.New("UNIQUE constraint failed: users.email"),
			expected: false,
		},
		{
			name:     "sqlite nil error",
			dialect:  NewSQLiteDialect(),
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.IsForeignKeyViolation(tt.err)
			if result != tt.expected {
				t.Errorf("IsForeignKeyViolation(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}
