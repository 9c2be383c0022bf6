package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"brightsteps/internal/database"
)

// BackupData is the portable JSON snapshot of the database. IDs
// are preserved so a restore into an empty database keeps every
// cross-reference intact.
type BackupData struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`

	Users         []UserBackup         `json:"users"`
	Profiles      []ProfileBackup      `json:"profiles"`
	Categories    []CatalogBackup      `json:"categories"`
	Difficulties  []CatalogBackup      `json:"difficulties"`
	Activities    []ActivityBackup     `json:"activities"`
	Questions     []QuestionBackup     `json:"questions"`
	Choices       []ChoiceBackup       `json:"choices"`
	Progress      []ProgressBackup     `json:"progress"`
	Expressions   []ExpressionBackup   `json:"expressions"`
	Notifications []NotificationBackup `json:"notifications"`
	Badges        []BadgeBackup        `json:"badges"`
	StudentBadges []StudentBadgeBackup `json:"student_badges"`
	ParentLinks   []ParentLinkBackup   `json:"parent_links"`
}

type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Role          string    `json:"role"`
	OAuthProvider string    `json:"oauth_provider,omitempty"`
	OAuthSubject  string    `json:"oauth_subject,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProfileBackup struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Gender   string `json:"gender,omitempty"`
	Age      int    `json:"age,omitempty"`
	Address  string `json:"address,omitempty"`
}

type CatalogBackup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ActivityBackup struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	CategoryID      int64  `json:"category_id"`
	DifficultyID    int64  `json:"difficulty_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Points          int    `json:"points"`
	ImageURL        string `json:"image_url,omitempty"`
}

type QuestionBackup struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activity_id"`
	Text       string `json:"text"`
	MediaURL   string `json:"media_url,omitempty"`
	Position   int    `json:"position"`
}

type ChoiceBackup struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

type ProgressBackup struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ActivityID    int64     `json:"activity_id"`
	Score         *int      `json:"score"`
	Status        string    `json:"completion_status"`
	DateCompleted time.Time `json:"date_completed"`
}

type ExpressionBackup struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Emotion   string    `json:"emotion"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationBackup struct {
	ID           int64      `json:"id"`
	RecipientID  int64      `json:"recipient_id"`
	ExpressionID *int64     `json:"expression_id"`
	Message      string     `json:"message"`
	Type         string     `json:"type"`
	Priority     string     `json:"priority"`
	IsRead       bool       `json:"is_read"`
	CreatedAt    time.Time  `json:"created_at"`
	ReadAt       *time.Time `json:"read_at"`
}

type BadgeBackup struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type StudentBadgeBackup struct {
	UserID    int64     `json:"user_id"`
	BadgeID   int64     `json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
}

type ParentLinkBackup struct {
	ID       int64 `json:"id"`
	ParentID int64 `json:"parent_id"`
	ChildID  int64 `json:"child_id"`
}

// BackupService exports and restores the database as JSON.
// Sessions and reset tokens are deliberately left out; they are
// ephemeral.
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service.
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete snapshot to a file.
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.ExportToWriter(ctx, file)
}

// ExportToWriter writes a complete snapshot to w.
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *BackupData) error
	}{
		{"users", s.exportUsers},
		{"profiles", s.exportProfiles},
		{"catalogs", s.exportCatalogs},
		{"activities", s.exportActivities},
		{"questions", s.exportQuestions},
		{"progress", s.exportProgress},
		{"expressions", s.exportExpressions},
		{"notifications", s.exportNotifications},
		{"badges", s.exportBadges},
		{"parent links", s.exportParentLinks},
	}
	for _, step := range steps {
		if err := step.fn(ctx, backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d activities, %d progress rows, %d check-ins",
		len(backup.Users), len(backup.Activities), len(backup.Progress), len(backup.Expressions))
	return nil
}

// Import restores a snapshot from a file. Rows are inserted in
// dependency order with their original IDs.
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a snapshot from r.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	steps := []struct {
		name string
		fn   func(context.Context, *BackupData) error
	}{
		{"users", s.importUsers},
		{"profiles", s.importProfiles},
		{"catalogs", s.importCatalogs},
		{"activities", s.importActivities},
		{"questions", s.importQuestions},
		{"progress", s.importProgress},
		{"expressions", s.importExpressions},
		{"notifications", s.importNotifications},
		{"badges", s.importBadges},
		{"parent links", s.importParentLinks},
	}
	for _, step := range steps {
		if err := step.fn(ctx, &backup); err != nil {
			return fmt.Errorf("failed to import %s: %w", step.name, err)
		}
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, COALESCE(email, ''), password_hash, role, oauth_provider, oauth_subject, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportProfiles(ctx context.Context, backup *BackupData) error {
	query := "SELECT user_id, full_name, username, gender, age, address FROM user_profiles ORDER BY user_id"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProfileBackup
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Username, &p.Gender, &p.Age, &p.Address); err != nil {
			return err
		}
		backup.Profiles = append(backup.Profiles, p)
	}
	return rows.Err()
}

func (s *BackupService) exportCatalogs(ctx context.Context, backup *BackupData) error {
	var err error
	if backup.Categories, err = s.exportNameTable(ctx, "categories"); err != nil {
		return err
	}
	backup.Difficulties, err = s.exportNameTable(ctx, "difficulties")
	return err
}

func (s *BackupService) exportNameTable(ctx context.Context, table string) ([]CatalogBackup, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CatalogBackup
	for rows.Next() {
		var entry CatalogBackup
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *BackupService) exportActivities(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, title, description, category_id, difficulty_id, duration_minutes, points, image_url FROM activities ORDER BY id"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a ActivityBackup
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.CategoryID, &a.DifficultyID, &a.DurationMinutes, &a.Points, &a.ImageURL); err != nil {
			return err
		}
		backup.Activities = append(backup.Activities, a)
	}
	return rows.Err()
}

func (s *BackupService) exportQuestions(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, activity_id, text, media_url, position FROM questions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q QuestionBackup
		if err := rows.Scan(&q.ID, &q.ActivityID, &q.Text, &q.MediaURL, &q.Position); err != nil {
			return err
		}
		backup.Questions = append(backup.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	choiceRows, err := s.db.Query(ctx, "SELECT id, question_id, text, is_correct FROM choices ORDER BY id")
	if err != nil {
		return err
	}
	defer choiceRows.Close()

	for choiceRows.Next() {
		var c ChoiceBackup
		if err := choiceRows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.IsCorrect); err != nil {
			return err
		}
		backup.Choices = append(backup.Choices, c)
	}
	return choiceRows.Err()
}

func (s *BackupService) exportProgress(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, user_id, activity_id, score, completion_status, date_completed FROM user_activity_progress ORDER BY id"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProgressBackup
		if err := rows.Scan(&p.ID, &p.UserID, &p.ActivityID, &p.Score, &p.Status, &p.DateCompleted); err != nil {
			return err
		}
		backup.Progress = append(backup.Progress, p)
	}
	return rows.Err()
}

func (s *BackupService) exportExpressions(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, user_id, emotion, note, created_at FROM expressions ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e ExpressionBackup
		if err := rows.Scan(&e.ID, &e.UserID, &e.Emotion, &e.Note, &e.CreatedAt); err != nil {
			return err
		}
		backup.Expressions = append(backup.Expressions, e)
	}
	return rows.Err()
}

func (s *BackupService) exportNotifications(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, recipient_id, expression_id, message, type, priority, is_read, created_at, read_at FROM notifications ORDER BY id"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var n NotificationBackup
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ExpressionID, &n.Message, &n.Type, &n.Priority, &n.IsRead, &n.CreatedAt, &n.ReadAt); err != nil {
			return err
		}
		backup.Notifications = append(backup.Notifications, n)
	}
	return rows.Err()
}

func (s *BackupService) exportBadges(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, title, description, icon FROM badges ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b BadgeBackup
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Icon); err != nil {
			return err
		}
		backup.Badges = append(backup.Badges, b)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	awardRows, err := s.db.Query(ctx, "SELECT user_id, badge_id, awarded_at FROM student_badges ORDER BY user_id, badge_id")
	if err != nil {
		return err
	}
	defer awardRows.Close()

	for awardRows.Next() {
		var sb StudentBadgeBackup
		if err := awardRows.Scan(&sb.UserID, &sb.BadgeID, &sb.AwardedAt); err != nil {
			return err
		}
		backup.StudentBadges = append(backup.StudentBadges, sb)
	}
	return awardRows.Err()
}

func (s *BackupService) exportParentLinks(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.Query(ctx, "SELECT id, parent_id, child_id FROM parent_links ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var link ParentLinkBackup
		if err := rows.Scan(&link.ID, &link.ParentID, &link.ChildID); err != nil {
			return err
		}
		backup.ParentLinks = append(backup.ParentLinks, link)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(ctx context.Context, backup *BackupData) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, oauth_provider, oauth_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, u := range backup.Users {
		_, err := s.db.Exec(ctx, query, u.ID, nullIfEmpty(u.Email), u.PasswordHash, u.Role, u.OAuthProvider, u.OAuthSubject, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importProfiles(ctx context.Context, backup *BackupData) error {
	query := `
		INSERT INTO user_profiles (user_id, full_name, username, gender, age, address)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, p := range backup.Profiles {
		if _, err := s.db.Exec(ctx, query, p.UserID, p.FullName, p.Username, p.Gender, p.Age, p.Address); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importCatalogs(ctx context.Context, backup *BackupData) error {
	for _, c := range backup.Categories {
		if _, err := s.db.Exec(ctx, "INSERT INTO categories (id, name) VALUES (?, ?)", c.ID, c.Name); err != nil {
			return err
		}
	}
	for _, d := range backup.Difficulties {
		if _, err := s.db.Exec(ctx, "INSERT INTO difficulties (id, name) VALUES (?, ?)", d.ID, d.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importActivities(ctx context.Context, backup *BackupData) error {
	query := `
		INSERT INTO activities (id, title, description, category_id, difficulty_id, duration_minutes, points, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, a := range backup.Activities {
		_, err := s.db.Exec(ctx, query, a.ID, a.Title, a.Description, a.CategoryID, a.DifficultyID, a.DurationMinutes, a.Points, a.ImageURL)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importQuestions(ctx context.Context, backup *BackupData) error {
	for _, q := range backup.Questions {
		_, err := s.db.Exec(ctx, "INSERT INTO questions (id, activity_id, text, media_url, position) VALUES (?, ?, ?, ?, ?)",
			q.ID, q.ActivityID, q.Text, q.MediaURL, q.Position)
		if err != nil {
			return err
		}
	}
	for _, c := range backup.Choices {
		_, err := s.db.Exec(ctx, "INSERT INTO choices (id, question_id, text, is_correct) VALUES (?, ?, ?, ?)",
			c.ID, c.QuestionID, c.Text, c.IsCorrect)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importProgress(ctx context.Context, backup *BackupData) error {
	query := `
		INSERT INTO user_activity_progress (id, user_id, activity_id, score, completion_status, date_completed)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, p := range backup.Progress {
		if _, err := s.db.Exec(ctx, query, p.ID, p.UserID, p.ActivityID, p.Score, p.Status, p.DateCompleted); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importExpressions(ctx context.Context, backup *BackupData) error {
	for _, e := range backup.Expressions {
		_, err := s.db.Exec(ctx, "INSERT INTO expressions (id, user_id, emotion, note, created_at) VALUES (?, ?, ?, ?, ?)",
			e.ID, e.UserID, e.Emotion, e.Note, e.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importNotifications(ctx context.Context, backup *BackupData) error {
	query := `
		INSERT INTO notifications (id, recipient_id, expression_id, message, type, priority, is_read, created_at, read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, n := range backup.Notifications {
		_, err := s.db.Exec(ctx, query, n.ID, n.RecipientID, n.ExpressionID, n.Message, n.Type, n.Priority, n.IsRead, n.CreatedAt, n.ReadAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importBadges(ctx context.Context, backup *BackupData) error {
	for _, b := range backup.Badges {
		_, err := s.db.Exec(ctx, "INSERT INTO badges (id, title, description, icon) VALUES (?, ?, ?, ?)",
			b.ID, b.Title, b.Description, b.Icon)
		if err != nil {
			return err
		}
	}
	for _, sb := range backup.StudentBadges {
		_, err := s.db.Exec(ctx, "INSERT INTO student_badges (user_id, badge_id, awarded_at) VALUES (?, ?, ?)",
			sb.UserID, sb.BadgeID, sb.AwardedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) importParentLinks(ctx context.Context, backup *BackupData) error {
	for _, link := range backup.ParentLinks {
		_, err := s.db.Exec(ctx, "INSERT INTO parent_links (id, parent_id, child_id) VALUES (?, ?, ?)",
			link.ID, link.ParentID, link.ChildID)
		if err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
