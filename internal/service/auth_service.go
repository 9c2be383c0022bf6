package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"brightsteps/internal/credentials"
	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/security"
	"brightsteps/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)

// ResetMailer sends the password reset email. Satisfied by the
// SES email service; nil disables the mail without disabling the
// flow.
type ResetMailer interface {
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

// AuthService handles accounts, profiles, sessions and student
// sign-in.
type AuthService struct {
	userRepo        *repository.UserRepository
	mailer          ResetMailer
	sessionDuration time.Duration
	tokenSecret     string
	tokenDuration   time.Duration

	// fkRetryable recognizes the store's foreign key violation,
	// which is how the commit race between the account insert and
	// the profile insert shows up.
	fkRetryable func(error) bool
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo *repository.UserRepository, mailer ResetMailer, sessionDuration time.Duration, tokenSecret string, tokenDuration time.Duration, fkRetryable func(error) bool) *AuthService {
	if fkRetryable == nil {
		fkRetryable = func(error) bool { return false }
	}
	return &AuthService{
		userRepo:        userRepo,
		mailer:          mailer,
		sessionDuration: sessionDuration,
		tokenSecret:     tokenSecret,
		tokenDuration:   tokenDuration,
		fkRetryable:     fkRetryable,
	}
}

// Register creates a parent or admin account with its profile and
// returns the account.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string, role models.Role) (*models.User, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := utils.ValidateName(fullName); err != nil {
		return nil, err
	}
	if role != models.RoleParent && role != models.RoleAdmin {
		return nil, utils.ValidationError{Field: "role", Message: "role must be parent or admin"}
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, string(hash), role, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	profile := &models.UserProfile{
		UserID:   user.ID,
		FullName: strings.TrimSpace(fullName),
		Username: email,
	}
	if err := s.createProfileWithRetry(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return user, nil
}

// StudentCredentials is what an admin hands to a new student:
// the generated username and the one-time-visible passcode.
type StudentCredentials struct {
	User     *models.User
	Profile  *models.UserProfile
	Passcode string
}

// RegisterStudent creates a student account with a generated
// username and passcode. Students have no email; they sign in
// with the passcode on classroom devices.
func (s *AuthService) RegisterStudent(ctx context.Context, fullName, gender string, age int) (*StudentCredentials, error) {
	if err := utils.ValidateName(fullName); err != nil {
		return nil, err
	}

	username, err := s.uniqueUsername(ctx)
	if err != nil {
		return nil, err
	}

	passcode, err := credentials.GeneratePasscode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate passcode: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash passcode: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, "", string(hash), models.RoleStudent, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to create student account: %w", err)
	}

	profile := &models.UserProfile{
		UserID:   user.ID,
		FullName: strings.TrimSpace(fullName),
		Username: username,
		Gender:   gender,
		Age:      age,
	}
	if err := s.createProfileWithRetry(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create student profile: %w", err)
	}

	return &StudentCredentials{User: user, Profile: profile, Passcode: passcode}, nil
}

// createProfileWithRetry absorbs the window where the account row
// is not yet visible to the profile insert's foreign key check.
func (s *AuthService) createProfileWithRetry(ctx context.Context, profile *models.UserProfile) error {
	return utils.Retry(ctx, 4, 100*time.Millisecond, s.fkRetryable, func() error {
		return s.userRepo.CreateProfile(ctx, profile)
	})
}

func (s *AuthService) uniqueUsername(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		username, err := credentials.GenerateUsername()
		if err != nil {
			return "", fmt.Errorf("failed to generate username: %w", err)
		}
		_, err = s.userRepo.GetProfileByUsername(ctx, username)
		if errors.Is(err, repository.ErrNotFound) {
			return username, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrUsernameTaken
}

// Login verifies email+password and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// OpenSessionFor opens a session for an already verified account
// (OAuth sign-in).
func (s *AuthService) OpenSessionFor(ctx context.Context, userID int64) (*models.Session, error) {
	return s.openSession(ctx, userID)
}

func (s *AuthService) openSession(ctx context.Context, userID int64) (*models.Session, error) {
	session := &models.Session{
		ID:        security.GenerateSessionID(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionDuration),
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession resolves a session cookie to its account.
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		if err := s.userRepo.DeleteSession(ctx, sessionID); err != nil {
			log.Printf("Failed to delete expired session: %v", err)
		}
		return nil, ErrSessionExpired
	}

	return s.userRepo.GetUserByID(ctx, session.UserID)
}

// Logout closes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.userRepo.DeleteSession(ctx, sessionID)
}

// CleanupExpiredSessions removes stale session rows.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.userRepo.DeleteExpiredSessions(ctx)
}

// StudentLogin verifies username+passcode and issues a signed
// student token.
func (s *AuthService) StudentLogin(ctx context.Context, username, passcode string) (*models.User, string, error) {
	profile, err := s.userRepo.GetProfileByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetUserByID(ctx, profile.UserID)
	if err != nil {
		return nil, "", err
	}
	if user.Role != models.RoleStudent {
		return nil, "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(passcode)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.IssueStudentToken(s.tokenSecret, user.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue student token: %w", err)
	}
	return user, token, nil
}

// ValidateStudentToken resolves a student token to its account.
func (s *AuthService) ValidateStudentToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := security.ParseStudentToken(s.tokenSecret, token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset creates a reset token and mails it. The
// response is identical whether or not the email exists, so the
// endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := &models.PasswordResetToken{
		Token:     security.GenerateSessionID(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.userRepo.CreateResetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordResetEmail(ctx, email, token.Token); err != nil {
			log.Printf("Failed to send reset email to %s: %v", email, err)
		}
	}

	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new
// password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.userRepo.GetResetToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrResetTokenInvalid
	}
	if err != nil {
		return err
	}
	if reset.Used || reset.IsExpired() {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, reset.UserID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.userRepo.MarkResetTokenUsed(ctx, token)
}

// FindOrCreateOAuthUser resolves an OAuth identity to an account,
// creating a parent account on first sign-in.
func (s *AuthService) FindOrCreateOAuthUser(ctx context.Context, provider, subject, email, name string) (*models.User, error) {
	user, err := s.userRepo.GetUserByOAuth(ctx, provider, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Fold into an existing password account with the same email.
	if email != "" {
		if existing, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(email)); err == nil {
			return existing, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	user, err = s.userRepo.CreateUser(ctx, strings.ToLower(email), "", models.RoleParent, provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth account: %w", err)
	}

	if name == "" {
		name = "Parent"
	}
	profile := &models.UserProfile{
		UserID:   user.ID,
		FullName: name,
		Username: strings.ToLower(email),
	}
	if err := s.createProfileWithRetry(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create oauth profile: %w", err)
	}

	return user, nil
}
