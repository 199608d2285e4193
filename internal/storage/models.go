package storage

import "time"

type User struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

type Attribute struct {
	ID          int64
	UserID      int64
	Name        string
	Description *string
	CurrentXP   int
}

type Subskill struct {
	ID          int64
	AttributeID int64
	Name        string
	CurrentXP   int
}

// Task dates are calendar days stored as "YYYY-MM-DD" strings; ordering and
// range scans rely on the lexicographic form matching chronological order.
type Task struct {
	ID                 int64
	UserID             int64
	Date               string
	Description        string
	TaskType           string
	AttributeID        *int64
	SubskillID         *int64
	XPGained           int
	StressEffect       int
	IsCompleted        bool
	IsSkipped          bool
	IsNegativeHabit    bool
	NegativeHabitDone  *bool
	NumericValue       *float64
	NumericUnit        *string
	LoggedNumericValue *float64
}

type RecurringTask struct {
	ID              int64
	UserID          int64
	Description     string
	AttributeID     *int64
	SubskillID      *int64
	XPValue         int
	StressEffect    int
	IsNegativeHabit bool
	StartDate       string
	LastAddedDate   *string
	IsActive        bool
	NumericValue    *float64
	NumericUnit     *string
}

type DailyStat struct {
	ID             int64
	UserID         int64
	Date           string
	StressLevel    int
	TasksCompleted int
	TotalXPGained  int
}

type NarrativeProgress struct {
	ID              int64
	UserID          int64
	CurrentLocation string
	MainQuest       string
	Companions      string
	RecentEvents    string
	StoryDay        int
	UpdatedAt       time.Time
}

type DailyNarrative struct {
	ID        int64
	UserID    int64
	Date      string
	Narrative string
}

type CharacterStat struct {
	ID       int64
	UserID   int64
	StatName string
	Value    int
}

type Milestone struct {
	ID              int64
	UserID          int64
	Date            string
	Title           string
	Description     string
	AttributeID     *int64
	AchievementType string
}

type Quest struct {
	ID             int64
	UserID         int64
	Title          string
	Description    string
	Difficulty     string
	XPReward       int
	AttributeFocus string
	StartDate      string
	DueDate        *string
	CompletedDate  *string
	Status         string
}

type QuestStep struct {
	ID          int64
	QuestID     int64
	Description string
	IsCompleted bool
}
