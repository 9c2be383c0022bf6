package handlers

import (
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/service"
)

// JSON shapes of the API. Domain models stay tag-free; handlers
// translate at the boundary so storage changes never leak into
// response contracts.

type userView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type profileView struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Gender   string `json:"gender,omitempty"`
	Age      int    `json:"age,omitempty"`
	Address  string `json:"address,omitempty"`
}

func toProfileView(p *models.UserProfile) profileView {
	return profileView{
		UserID:   p.UserID,
		FullName: p.FullName,
		Username: p.Username,
		Gender:   p.Gender,
		Age:      p.Age,
		Address:  p.Address,
	}
}

type activityView struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	CategoryID      int64  `json:"category_id"`
	CategoryName    string `json:"category_name"`
	DifficultyID    int64  `json:"difficulty_id"`
	DifficultyName  string `json:"difficulty_name"`
	DurationMinutes int    `json:"duration_minutes"`
	Points          int    `json:"points"`
	ImageURL        string `json:"image_url,omitempty"`
}

func toActivityView(a models.ActivityWithDetails) activityView {
	return activityView{
		ID:              a.Activity.ID,
		Title:           a.Activity.Title,
		Description:     a.Activity.Description,
		CategoryID:      a.Activity.CategoryID,
		CategoryName:    a.CategoryName,
		DifficultyID:    a.Activity.DifficultyID,
		DifficultyName:  a.DifficultyName,
		DurationMinutes: a.Activity.DurationMinutes,
		Points:          a.Activity.Points,
		ImageURL:        a.Activity.ImageURL,
	}
}

type choiceView struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type questionView struct {
	ID       int64        `json:"id"`
	Text     string       `json:"text"`
	MediaURL string       `json:"media_url,omitempty"`
	Position int          `json:"position"`
	Choices  []choiceView `json:"choices"`
}

func toQuestionView(q models.QuestionWithChoices) questionView {
	view := questionView{
		ID:       q.Question.ID,
		Text:     q.Question.Text,
		MediaURL: q.Question.MediaURL,
		Position: q.Question.Position,
		Choices:  make([]choiceView, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		view.Choices = append(view.Choices, choiceView{ID: c.ID, Text: c.Text, IsCorrect: c.IsCorrect})
	}
	return view
}

type activityDetailView struct {
	activityView
	Questions []questionView `json:"questions"`
}

func toActivityDetailView(d *service.ActivityDetail) activityDetailView {
	view := activityDetailView{
		activityView: toActivityView(models.ActivityWithDetails{
			Activity:       d.Activity,
			CategoryName:   d.CategoryName,
			DifficultyName: d.DifficultyName,
		}),
		Questions: make([]questionView, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		view.Questions = append(view.Questions, toQuestionView(q))
	}
	return view
}

type progressView struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ActivityID    int64     `json:"activity_id"`
	Score         *int      `json:"score"`
	Status        string    `json:"completion_status"`
	DateCompleted time.Time `json:"date_completed"`
}

func toProgressView(p models.ProgressRecord) progressView {
	return progressView{
		ID:            p.ID,
		UserID:        p.UserID,
		ActivityID:    p.ActivityID,
		Score:         p.Score,
		Status:        string(p.Status),
		DateCompleted: p.DateCompleted,
	}
}

type statsView struct {
	TotalActivities     int `json:"total_activities"`
	CompletedActivities int `json:"completed_activities"`
	AverageScore        int `json:"average_score"`
	CompletionRate      int `json:"completion_rate"`
	RecentActivities    int `json:"recent_activities"`
	TotalPoints         int `json:"total_points"`
}

func toStatsView(s models.ProgressStats) statsView {
	return statsView(s)
}

type breakdownView struct {
	Bucket    string `json:"bucket"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

func toBreakdownViews(rows []models.BucketBreakdown) []breakdownView {
	views := make([]breakdownView, 0, len(rows))
	for _, row := range rows {
		views = append(views, breakdownView(row))
	}
	return views
}

type attemptsView struct {
	ActivityID int64        `json:"activity_id"`
	Attempts   int          `json:"attempts"`
	Latest     progressView `json:"latest"`
	BestScore  *int         `json:"best_score"`
}

type expressionView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Emotion   string    `json:"emotion"`
	Display   string    `json:"display_name"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toExpressionView(e models.Expression) expressionView {
	return expressionView{
		ID:        e.ID,
		UserID:    e.UserID,
		Emotion:   string(e.Emotion),
		Display:   e.Emotion.DisplayName(),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

type alertView struct {
	expressionView
	StudentName  string `json:"student_name"`
	HighPriority bool   `json:"high_priority"`
}

func toAlertView(a service.AlertView) alertView {
	return alertView{
		expressionView: toExpressionView(a.Expression),
		StudentName:    a.StudentName,
		HighPriority:   a.HighPriority,
	}
}

type notificationView struct {
	ID           int64      `json:"id"`
	ExpressionID *int64     `json:"expression_id"`
	Message      string     `json:"message"`
	Type         string     `json:"type"`
	Priority     string     `json:"priority"`
	IsRead       bool       `json:"is_read"`
	CreatedAt    time.Time  `json:"created_at"`
	ReadAt       *time.Time `json:"read_at"`
}

func toNotificationView(n models.Notification) notificationView {
	return notificationView{
		ID:           n.ID,
		ExpressionID: n.ExpressionID,
		Message:      n.Message,
		Type:         n.Type,
		Priority:     string(n.Priority),
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
		ReadAt:       n.ReadAt,
	}
}

type badgeView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Earned      bool   `json:"earned"`
}

type badgeSummaryView struct {
	badgeView
	HolderCount   int `json:"holder_count"`
	TotalStudents int `json:"total_students"`
}

type childOverviewView struct {
	Child           profileView     `json:"child"`
	Stats           statsView       `json:"stats"`
	LatestCheckin   *expressionView `json:"latest_checkin"`
	LatestEmotion   string          `json:"latest_emotion,omitempty"`
	UnreadHighAlert bool            `json:"unread_high_alert"`
}

func toChildOverviewView(o models.ChildOverview) childOverviewView {
	view := childOverviewView{
		Child:           toProfileView(&o.Child),
		Stats:           toStatsView(o.Stats),
		LatestEmotion:   o.LatestEmotion,
		UnreadHighAlert: o.UnreadHighAlert,
	}
	if o.LatestCheckin != nil {
		ev := toExpressionView(*o.LatestCheckin)
		view.LatestCheckin = &ev
	}
	return view
}
