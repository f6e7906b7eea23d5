package progress

import "time"

type StudentStreak struct {
	ID               string     `gorm:"column:id;primaryKey" json:"id"`
	StudentID        string     `gorm:"column:student_id;not null;uniqueIndex" json:"student_id"`
	CurrentStreak    int        `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastActivityDate *time.Time `gorm:"column:last_activity_date" json:"last_activity_date"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (StudentStreak) TableName() string { return "student_streaks" }

type DailyActivity struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	StudentID       string    `gorm:"column:student_id;not null;uniqueIndex:idx_daily_student_date" json:"student_id"`
	ActivityDate    time.Time `gorm:"column:activity_date;not null;uniqueIndex:idx_daily_student_date;index" json:"activity_date"`
	ActivitiesCount int       `gorm:"column:activities_count;not null;default:0" json:"activities_count"`
	PointsEarned    int       `gorm:"column:points_earned;not null;default:0" json:"points_earned"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DailyActivity) TableName() string { return "daily_activities" }

// Day truncates t to midnight UTC, the key daily activity rows are stored under.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type PointsEntry struct {
	StudentID   string `json:"student_id"`
	TotalPoints int64  `json:"total_points"`
	FullName    string `json:"full_name,omitempty"`
}

type StreakEntry struct {
	StudentID     string `json:"student_id"`
	LongestStreak int64  `json:"longest_streak"`
	FullName      string `json:"full_name,omitempty"`
}

type CountEntry struct {
	StudentID string `json:"student_id"`
	Count     int64  `json:"count"`
	FullName  string `json:"full_name,omitempty"`
}

type Leaderboards struct {
	TotalPoints   []PointsEntry `json:"totalPoints"`
	BestStreak    []StreakEntry `json:"bestStreak"`
	TodayQuizzes  []CountEntry  `json:"todayQuizzes"`
	WeeklyQuizzes []CountEntry  `json:"weeklyQuizzes"`
}

// Advance applies today's activity check to the streak. Activity exactly one
// day after the last one extends the run; a longer gap restarts it at 1.
// Without activity today the counters are kept.
func (s StudentStreak) Advance(today time.Time, active bool) StudentStreak {
	if !active {
		return s
	}
	d := Day(today)
	if s.LastActivityDate == nil {
		s.CurrentStreak = 1
	} else {
		switch gap := int(d.Sub(Day(*s.LastActivityDate)).Hours() / 24); {
		case gap == 1:
			s.CurrentStreak++
		case gap > 1:
			s.CurrentStreak = 1
		case s.CurrentStreak == 0:
			s.CurrentStreak = 1
		}
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = &d
	return s
}
