package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/Laz627/life-rpg/internal/narrative"
	"github.com/Laz627/life-rpg/internal/storage"
)

// Quest difficulty tiers, rewards, and deadline windows.
var (
	questDifficulties = []string{"Easy", "Medium", "Hard", "Epic"}
	questXP           = map[string]int{"Easy": 50, "Medium": 100, "Hard": 175, "Epic": 250}
	questDueDays      = map[string]int{"Easy": 3, "Medium": 7, "Hard": 14, "Epic": 21}
)

const defaultQuestXP = 100

type AddQuestInput struct {
	Title          string
	Description    string
	Difficulty     string // defaults to Medium
	XPReward       int    // defaults by difficulty
	AttributeFocus string
	DueDate        *string
}

// QuestView pairs a quest with its steps.
type QuestView struct {
	Quest storage.Quest
	Steps []storage.QuestStep
}

func (s *Service) AddQuest(ctx context.Context, userID int64, in AddQuestInput) (int64, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0, fmt.Errorf("quest title is required: %w", ErrInvalidInput)
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = "Medium"
	}
	xp := in.XPReward
	if xp <= 0 {
		var ok bool
		xp, ok = questXP[difficulty]
		if !ok {
			xp = defaultQuestXP
		}
	}
	if in.DueDate != nil {
		if err := validDate(*in.DueDate); err != nil {
			return 0, err
		}
	}

	defer s.lockUser(userID)()

	return s.quests.Insert(ctx, storage.QuestInsert{
		UserID:         userID,
		Title:          title,
		Description:    in.Description,
		Difficulty:     difficulty,
		XPReward:       xp,
		AttributeFocus: in.AttributeFocus,
		StartDate:      s.today(),
		DueDate:        in.DueDate,
	})
}

func (s *Service) ListQuests(ctx context.Context, userID int64) ([]QuestView, error) {
	quests, err := s.quests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]QuestView, 0, len(quests))
	for _, q := range quests {
		steps, err := s.quests.ListSteps(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, QuestView{Quest: q, Steps: steps})
	}
	return out, nil
}

type UpdateQuestInput struct {
	Title          *string
	Description    *string
	Difficulty     *string
	AttributeFocus *string
	DueDate        *string
}

func (s *Service) UpdateQuest(ctx context.Context, userID, questID int64, in UpdateQuestInput) error {
	defer s.lockUser(userID)()

	q, err := s.ownedQuest(ctx, s.quests, userID, questID)
	if err != nil {
		return err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		q.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		q.Description = *in.Description
	}
	if in.Difficulty != nil {
		q.Difficulty = *in.Difficulty
	}
	if in.AttributeFocus != nil {
		q.AttributeFocus = *in.AttributeFocus
	}
	if in.DueDate != nil {
		if err := validDate(*in.DueDate); err != nil {
			return err
		}
		q.DueDate = in.DueDate
	}
	return s.quests.Update(ctx, q)
}

// CompleteQuest marks a quest done, grants its XP reward to the focus
// attribute, and records a quest milestone. Completing twice is a Conflict.
func (s *Service) CompleteQuest(ctx context.Context, userID, questID int64) error {
	defer s.lockUser(userID)()

	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		quests := storage.NewQuestRepo(tx)
		attrs := storage.NewAttributeRepo(tx)
		miles := storage.NewMilestoneRepo(tx)

		q, err := s.ownedQuest(ctx, quests, userID, questID)
		if err != nil {
			return err
		}
		if q.Status == "Completed" {
			return fmt.Errorf("quest %d already completed: %w", questID, ErrConflict)
		}

		today := s.today()
		if err := quests.MarkCompleted(ctx, questID, today); err != nil {
			return err
		}
		if q.AttributeFocus != "" && q.XPReward > 0 {
			attr, err := attrs.GetByName(ctx, userID, q.AttributeFocus)
			if err != nil {
				return err
			}
			if attr != nil {
				if err := attrs.AddXP(ctx, attr.ID, q.XPReward); err != nil {
					return err
				}
			}
		}
		_, err = miles.Insert(ctx, storage.MilestoneInsert{
			UserID:          userID,
			Date:            today,
			Title:           fmt.Sprintf("Quest Completed: %s", q.Title),
			Description:     fmt.Sprintf("Successfully completed the quest %q and earned %d XP!", q.Title, q.XPReward),
			AchievementType: "quest",
		})
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("quest completed",
		zap.Int64("user_id", userID),
		zap.Int64("quest_id", questID))
	return nil
}

func (s *Service) AddQuestStep(ctx context.Context, userID, questID int64, description string) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, fmt.Errorf("step description is required: %w", ErrInvalidInput)
	}

	defer s.lockUser(userID)()

	if _, err := s.ownedQuest(ctx, s.quests, userID, questID); err != nil {
		return 0, err
	}
	return s.quests.InsertStep(ctx, questID, description)
}

// ToggleQuestStep flips a step's completion and returns the new state.
func (s *Service) ToggleQuestStep(ctx context.Context, userID, stepID int64) (bool, error) {
	defer s.lockUser(userID)()

	step, err := s.ownedStep(ctx, userID, stepID)
	if err != nil {
		return false, err
	}
	if err := s.quests.SetStepCompleted(ctx, stepID, !step.IsCompleted); err != nil {
		return false, err
	}
	return !step.IsCompleted, nil
}

func (s *Service) DeleteQuestStep(ctx context.Context, userID, stepID int64) error {
	defer s.lockUser(userID)()

	if _, err := s.ownedStep(ctx, userID, stepID); err != nil {
		return err
	}
	return s.quests.DeleteStep(ctx, stepID)
}

// GeneratedQuest is a quest proposal produced by the generator. It is not
// persisted until accepted through AddQuest.
type GeneratedQuest struct {
	Title          string
	Description    string
	Difficulty     string
	AttributeFocus string
	XPReward       int
	DueDate        string
}

// GenerateQuest asks the generator for a quest proposal. Empty attribute or
// difficulty picks one at random.
func (s *Service) GenerateQuest(ctx context.Context, attribute, difficulty string) (*GeneratedQuest, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("no generator configured: %w", ErrUpstream)
	}
	if attribute == "" {
		names := AttributeNames()
		attribute = names[rand.Intn(len(names))]
	}
	if difficulty == "" {
		difficulty = questDifficulties[rand.Intn(len(questDifficulties))]
	}

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	response, err := s.gen.Generate(genCtx, narrative.QuestSystemMessage, narrative.QuestPrompt(attribute, difficulty))
	if err != nil {
		return nil, fmt.Errorf("quest generation: %w: %v", ErrUpstream, err)
	}

	title := "New Quest"
	description := response
	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "Title:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "Description:"):
			description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}

	xp, ok := questXP[difficulty]
	if !ok {
		xp = defaultQuestXP
	}
	days, ok := questDueDays[difficulty]
	if !ok {
		days = 7
	}
	due := s.now().UTC().AddDate(0, 0, days).Format(dateLayout)

	return &GeneratedQuest{
		Title:          title,
		Description:    description,
		Difficulty:     difficulty,
		AttributeFocus: attribute,
		XPReward:       xp,
		DueDate:        due,
	}, nil
}

// EnhanceQuestDescription rewrites a plain goal as a short fantasy quest
// description.
func (s *Service) EnhanceQuestDescription(ctx context.Context, description string) (string, error) {
	if s.gen == nil {
		return "", fmt.Errorf("no generator configured: %w", ErrUpstream)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("description is required: %w", ErrInvalidInput)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	enhanced, err := s.gen.Generate(genCtx, narrative.EnhanceSystemMessage, narrative.EnhancePrompt(description))
	if err != nil {
		return "", fmt.Errorf("description enhancement: %w: %v", ErrUpstream, err)
	}
	return strings.TrimSpace(enhanced), nil
}

func (s *Service) ownedQuest(ctx context.Context, quests *storage.QuestRepo, userID, questID int64) (*storage.Quest, error) {
	q, err := quests.Get(ctx, questID)
	if err != nil {
		return nil, err
	}
	if q == nil || q.UserID != userID {
		return nil, fmt.Errorf("quest %d: %w", questID, ErrNotFound)
	}
	return q, nil
}

func (s *Service) ownedStep(ctx context.Context, userID, stepID int64) (*storage.QuestStep, error) {
	step, err := s.quests.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, fmt.Errorf("quest step %d: %w", stepID, ErrNotFound)
	}
	if _, err := s.ownedQuest(ctx, s.quests, userID, step.QuestID); err != nil {
		return nil, err
	}
	return step, nil
}
