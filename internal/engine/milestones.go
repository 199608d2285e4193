package engine

import (
	"context"
	"fmt"

	"github.com/Laz627/life-rpg/internal/storage"
)

// MilestonePage is one page of the newest-first milestone feed.
type MilestonePage struct {
	Milestones []storage.Milestone
	Page       int
	Pages      int
	Total      int
}

const defaultMilestonesPerPage = 5

// ListMilestones pages through a user's milestones, newest first.
func (s *Service) ListMilestones(ctx context.Context, userID int64, page, perPage int) (*MilestonePage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultMilestonesPerPage
	}

	total, err := s.miles.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.miles.List(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	pages := (total + perPage - 1) / perPage
	return &MilestonePage{Milestones: items, Page: page, Pages: pages, Total: total}, nil
}

func (s *Service) DeleteMilestone(ctx context.Context, userID, milestoneID int64) error {
	defer s.lockUser(userID)()

	m, err := s.miles.Get(ctx, milestoneID)
	if err != nil {
		return err
	}
	if m == nil || m.UserID != userID {
		return fmt.Errorf("milestone %d: %w", milestoneID, ErrNotFound)
	}
	return s.miles.Delete(ctx, milestoneID)
}
