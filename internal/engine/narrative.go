package engine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Laz627/life-rpg/internal/narrative"
	"github.com/Laz627/life-rpg/internal/storage"
)

// NarrativeResult is one generated story day. StoryDay is the day that was
// just narrated; the persisted counter has already moved past it.
type NarrativeResult struct {
	Date       string
	Narrative  string
	StoryDay   int
	Location   string
	Quest      string
	Chapter    int
	Phase      string
	Complexity string
}

// AdvanceNarrative generates the day's story entry and advances the state
// machine. The generator is called outside the transaction; if it fails,
// nothing is persisted and the story day does not move. The commit updates
// only the state fields whose tags appeared in the prose, bumps the story
// day, and caches the prose for the date. Regenerating a date replaces its
// cached prose but still advances the day.
func (s *Service) AdvanceNarrative(ctx context.Context, userID int64, date string) (*NarrativeResult, error) {
	if s.gen == nil {
		return nil, fmt.Errorf("no generator configured: %w", ErrUpstream)
	}
	if date == "" {
		date = s.today()
	}
	if err := validDate(date); err != nil {
		return nil, err
	}

	defer s.lockUser(userID)()

	progress, err := s.narr.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, fmt.Errorf("narrative progress for user %d: %w", userID, ErrNotFound)
	}

	st := narrative.State{
		Location:   progress.CurrentLocation,
		MainQuest:  progress.MainQuest,
		Companions: progress.Companions,
		Events:     progress.RecentEvents,
		StoryDay:   progress.StoryDay,
	}
	if latest, err := s.narr.LatestDaily(ctx, userID); err != nil {
		return nil, err
	} else if latest != nil {
		st.Yesterday = latest.Narrative
	}
	info := narrative.InfoForDay(progress.StoryDay)

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	text, err := s.gen.Generate(genCtx, narrative.SystemMessage, narrative.BuildPrompt(st))
	if err != nil {
		return nil, fmt.Errorf("narrative generation: %w: %v", ErrUpstream, err)
	}

	updates, prose := narrative.ParseTags(text)
	if updates.Location != "" {
		progress.CurrentLocation = updates.Location
	}
	if updates.Quest != "" {
		progress.MainQuest = updates.Quest
	}
	if updates.Companions != "" {
		progress.Companions = updates.Companions
	}
	if updates.Events != "" {
		progress.RecentEvents = updates.Events
	}
	progress.StoryDay++

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		narr := storage.NewNarrativeRepo(tx)
		if err := narr.UpdateProgress(ctx, progress); err != nil {
			return err
		}
		return narr.UpsertDaily(ctx, userID, date, prose)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("narrative advanced",
		zap.Int64("user_id", userID),
		zap.String("date", date),
		zap.Int("story_day", progress.StoryDay-1))

	return &NarrativeResult{
		Date:       date,
		Narrative:  prose,
		StoryDay:   progress.StoryDay - 1,
		Location:   progress.CurrentLocation,
		Quest:      progress.MainQuest,
		Chapter:    info.Chapter,
		Phase:      string(info.Phase),
		Complexity: info.Complexity,
	}, nil
}

// StoryProgress reads the current story state with its derived phase info.
type StoryProgress struct {
	State storage.NarrativeProgress
	Info  narrative.StoryInfo
}

func (s *Service) StoryProgress(ctx context.Context, userID int64) (*StoryProgress, error) {
	progress, err := s.narr.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, fmt.Errorf("narrative progress for user %d: %w", userID, ErrNotFound)
	}
	return &StoryProgress{
		State: *progress,
		Info:  narrative.InfoForDay(progress.StoryDay),
	}, nil
}

// Narrative returns the cached prose for a date, empty when none exists.
func (s *Service) Narrative(ctx context.Context, userID int64, date string) (string, error) {
	if date == "" {
		date = s.today()
	}
	if err := validDate(date); err != nil {
		return "", err
	}
	n, err := s.narr.GetDaily(ctx, userID, date)
	if err != nil {
		return "", err
	}
	if n == nil {
		return "", nil
	}
	return n.Narrative, nil
}

// ListNarratives pages through cached entries, newest first.
func (s *Service) ListNarratives(ctx context.Context, userID int64, limit, offset int) ([]storage.DailyNarrative, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.narr.ListDaily(ctx, userID, limit, offset)
}
