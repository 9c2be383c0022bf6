package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// UserRepository handles account, profile, session and password
// reset token database operations.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new account row. Student accounts have no
// email; the empty string is stored as NULL so the unique index
// does not collide.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash string, role models.Role, oauthProvider, oauthSubject string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, role, oauth_provider, oauth_subject)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(ctx, query, nullableString(email), passwordHash, string(role), oauthProvider, oauthSubject)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(ctx, id)
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// GetUserByID retrieves an account by ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, role, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves an account by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, role, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE email = ?
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

// GetUserByOAuth retrieves an account by OAuth provider and subject.
func (r *UserRepository) GetUserByOAuth(ctx context.Context, provider, subject string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, role, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE oauth_provider = ? AND oauth_subject = ?
	`
	return r.scanUser(r.db.QueryRow(ctx, query, provider, subject))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var role string
	var email sql.NullString
	err := row.Scan(
		&user.ID,
		&email,
		&user.PasswordHash,
		&role,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	user.Role = models.Role(role)
	return user, nil
}

// ListUsersByRole retrieves all accounts with the given role.
func (r *UserRepository) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	query := `
		SELECT id, email, password_hash, role, oauth_provider, oauth_subject, created_at, updated_at
		FROM users
		WHERE role = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var roleStr string
		var email sql.NullString
		err := rows.Scan(
			&user.ID,
			&email,
			&user.PasswordHash,
			&roleStr,
			&user.OAuthProvider,
			&user.OAuthSubject,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		user.Email = email.String
		user.Role = models.Role(roleStr)
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdatePassword sets a new password hash for an account.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(ctx, query, passwordHash, userID)
	return err
}

// DeleteUser removes an account and, through cascades, its
// dependent rows.
func (r *UserRepository) DeleteUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = ?", userID)
	return err
}

// CreateProfile inserts the profile row for an account.
func (r *UserRepository) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, full_name, username, gender, age, address)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query,
		profile.UserID, profile.FullName, profile.Username,
		profile.Gender, profile.Age, profile.Address)
	return err
}

// GetProfile retrieves the profile for an account.
func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT user_id, full_name, username, gender, age, address, created_at, updated_at
		FROM user_profiles
		WHERE user_id = ?
	`
	return r.scanProfile(r.db.QueryRow(ctx, query, userID))
}

// GetProfileByUsername retrieves a profile by its login username.
func (r *UserRepository) GetProfileByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	query := `
		SELECT user_id, full_name, username, gender, age, address, created_at, updated_at
		FROM user_profiles
		WHERE username = ?
	`
	return r.scanProfile(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) scanProfile(row *sql.Row) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := row.Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.Username,
		&profile.Gender,
		&profile.Age,
		&profile.Address,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile updates the editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET full_name = ?, gender = ?, age = ?, address = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := r.db.Exec(ctx, query,
		profile.FullName, profile.Gender, profile.Age, profile.Address, profile.UserID)
	return err
}

// ListStudentProfiles retrieves the profiles of all student accounts.
func (r *UserRepository) ListStudentProfiles(ctx context.Context) ([]models.UserProfile, error) {
	query := `
		SELECT p.user_id, p.full_name, p.username, p.gender, p.age, p.address, p.created_at, p.updated_at
		FROM user_profiles p
		INNER JOIN users u ON u.id = p.user_id
		WHERE u.role = ?
		ORDER BY p.full_name ASC
	`

	rows, err := r.db.Query(ctx, query, string(models.RoleStudent))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var p models.UserProfile
		err := rows.Scan(&p.UserID, &p.FullName, &p.Username, &p.Gender, &p.Age, &p.Address, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// CountStudents returns the number of student accounts.
func (r *UserRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE role = ?", string(models.RoleStudent)).Scan(&count)
	return count, err
}

// CreateSession inserts a new session row.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query, session.ID, session.UserID, session.ExpiresAt)
	return err
}

// GetSession retrieves a session by ID.
func (r *UserRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`

	session := &models.Session{}
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session.
func (r *UserRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	return err
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, "DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateResetToken inserts a password reset token.
func (r *UserRepository) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token, user_id, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt)
	return err
}

// GetResetToken retrieves a password reset token.
func (r *UserRepository) GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token, user_id, expires_at, created_at, used
		FROM password_reset_tokens
		WHERE token = ?
	`

	t := &models.PasswordResetToken{}
	err := r.db.QueryRow(ctx, query, token).Scan(
		&t.Token, &t.UserID, &t.ExpiresAt, &t.CreatedAt, &t.Used)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// MarkResetTokenUsed marks a reset token as consumed.
func (r *UserRepository) MarkResetTokenUsed(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, "UPDATE password_reset_tokens SET used = ? WHERE token = ?", true, token)
	return err
}
