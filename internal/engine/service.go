package engine

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Laz627/life-rpg/internal/narrative"
	"github.com/Laz627/life-rpg/internal/storage"
)

// attributeCatalog is the fixed tree seeded per user at initialization.
// Each user gets an independent copy as rows; the catalog itself is never
// mutated at runtime.
var attributeCatalog = []struct {
	Name      string
	Subskills []string
}{
	{"Strength", []string{"Lifting", "Athletics", "Physical Labor", "Martial Arts", "Power"}},
	{"Dexterity", []string{"Coordination", "Agility", "Balance", "Speed", "Reflexes"}},
	{"Constitution", []string{"Endurance", "Health", "Vitality", "Recovery", "Resistance"}},
	{"Intelligence", []string{"Learning", "Problem-Solving", "Memory", "Analysis", "Technical Skills"}},
	{"Wisdom", []string{"Insight", "Intuition", "Perception", "Self-Awareness", "Decision-Making"}},
	{"Charisma", []string{"Communication", "Leadership", "Persuasion", "Social Skills", "Influence"}},
}

// AttributeNames returns the catalog attribute names in seed order.
func AttributeNames() []string {
	out := make([]string, len(attributeCatalog))
	for i := range attributeCatalog {
		out[i] = attributeCatalog[i].Name
	}
	return out
}

// Difficulty-to-XP table for task creation.
var difficultyXP = map[string]int{
	"easy":       10,
	"medium":     25,
	"hard":       50,
	"extra_hard": 100,
}

const (
	// DefaultTaskXP is the reward when no difficulty or explicit XP is given.
	DefaultTaskXP = 25
	// stressRelief is subtracted from the Stress stat when a negative habit
	// is successfully avoided.
	stressRelief = 5
)

const dateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service is the progression engine. All per-user mutations go through it,
// serialized by a per-user lock and executed inside one SQL transaction.
type Service struct {
	db     *sql.DB
	log    *zap.Logger
	now    func() time.Time
	users  *storage.UserRepo
	attrs  *storage.AttributeRepo
	tasks  *storage.TaskRepo
	recur  *storage.RecurringRepo
	stats  *storage.StatRepo
	chars  *storage.CharStatRepo
	narr   *storage.NarrativeRepo
	miles  *storage.MilestoneRepo
	quests *storage.QuestRepo

	gen        narrative.Generator
	genTimeout time.Duration

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:     db,
		log:    log,
		now:    time.Now,
		users:  storage.NewUserRepo(db),
		attrs:  storage.NewAttributeRepo(db),
		tasks:  storage.NewTaskRepo(db),
		recur:  storage.NewRecurringRepo(db),
		stats:  storage.NewStatRepo(db),
		chars:  storage.NewCharStatRepo(db),
		narr:   storage.NewNarrativeRepo(db),
		miles:  storage.NewMilestoneRepo(db),
		quests: storage.NewQuestRepo(db),

		locks: map[int64]*sync.Mutex{},
	}
}

// SetGenerator wires the narrative generator. Without one, story advancement
// and quest generation report an upstream error. A non-positive timeout
// defaults to 30 seconds.
func (s *Service) SetGenerator(g narrative.Generator, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s.gen = g
	s.genTimeout = timeout
}

// lockUser serializes mutations for one user. Concurrent completions or
// resets on the same user risk double-rewards and lost rollbacks.
func (s *Service) lockUser(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) today() string {
	return s.now().UTC().Format(dateLayout)
}

func validDate(date string) error {
	if !dateRe.MatchString(date) {
		return fmt.Errorf("date %q: %w", date, ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("date %q: %w", date, ErrInvalidInput)
	}
	return nil
}

// GetOrCreateDefaultUser returns the single local user, bootstrapping it on
// first run.
func (s *Service) GetOrCreateDefaultUser(ctx context.Context) (*storage.User, error) {
	u, err := s.users.GetByUsername(ctx, storage.DefaultUsername)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	id, err := s.InitUser(ctx, storage.DefaultUsername, storage.DefaultUsername+"@localhost")
	if err != nil {
		return nil, err
	}
	return s.users.Get(ctx, id)
}

// InitUser creates a user and seeds the attribute/subskill catalog, the
// narrative progress row, and the Stress stat in one transaction.
func (s *Service) InitUser(ctx context.Context, username, email string) (int64, error) {
	if username == "" || email == "" {
		return 0, fmt.Errorf("username and email are required: %w", ErrInvalidInput)
	}

	var userID int64
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		users := storage.NewUserRepo(tx)
		attrs := storage.NewAttributeRepo(tx)
		narr := storage.NewNarrativeRepo(tx)
		chars := storage.NewCharStatRepo(tx)

		id, err := users.Insert(ctx, username, email)
		if err != nil {
			return err
		}
		for _, entry := range attributeCatalog {
			desc := fmt.Sprintf("Your %s attribute", entry.Name)
			attrID, err := attrs.Insert(ctx, id, entry.Name, &desc)
			if err != nil {
				return err
			}
			for _, sub := range entry.Subskills {
				if _, err := attrs.InsertSubskill(ctx, attrID, sub); err != nil {
					return err
				}
			}
		}
		if err := narr.InsertProgress(ctx, id); err != nil {
			return err
		}
		if err := chars.Insert(ctx, id, storage.StressStat, 0); err != nil {
			return err
		}
		userID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("user initialized",
		zap.Int64("user_id", userID),
		zap.String("username", username))
	return userID, nil
}

// ownedTask loads a task and enforces ownership; missing and foreign tasks
// are indistinguishable to the caller.
func ownedTask(ctx context.Context, tasks *storage.TaskRepo, userID, taskID int64) (*storage.Task, error) {
	t, err := tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != userID {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return t, nil
}
