package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// PeriodStats aggregates logged values over one calendar window.
type PeriodStats struct {
	Total float64
	Avg   float64
}

// TrendWindow compares the current window against the previous one.
// Changes are percentages, sign-flipped for negative habits so that doing
// less of a bad habit reads as positive progress.
type TrendWindow struct {
	Current     PeriodStats
	Previous    PeriodStats
	TotalChange float64
	AvgChange   float64
}

type HabitReport struct {
	Description string
	Unit        string
	IsNegative  bool
	Week        TrendWindow
	Month       TrendWindow
}

// HabitProgress builds the week/month trend report for one numeric habit.
// Weeks start on Monday; months follow the calendar, not 30-day windows.
func (s *Service) HabitProgress(ctx context.Context, userID int64, description string) (*HabitReport, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("habit description is required: %w", ErrInvalidInput)
	}

	isNegative, unit, err := s.habitShape(ctx, userID, description)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	weekStart := startOfWeek(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthEnd := monthStart.AddDate(0, 0, -1)
	lastMonthStart := time.Date(lastMonthEnd.Year(), lastMonthEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	week, err := s.trendWindow(ctx, userID, description, isNegative,
		weekStart, weekStart.AddDate(0, 0, 6),
		weekStart.AddDate(0, 0, -7), weekStart.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	month, err := s.trendWindow(ctx, userID, description, isNegative,
		monthStart, monthEnd,
		lastMonthStart, lastMonthEnd)
	if err != nil {
		return nil, err
	}

	return &HabitReport{
		Description: description,
		Unit:        unit,
		IsNegative:  isNegative,
		Week:        *week,
		Month:       *month,
	}, nil
}

// habitShape recovers whether the habit is negative and its unit, preferring
// the recurring template and falling back to any task instance.
func (s *Service) habitShape(ctx context.Context, userID int64, description string) (bool, string, error) {
	rt, err := s.recur.FirstByDescription(ctx, userID, description)
	if err != nil {
		return false, "", err
	}
	if rt != nil {
		unit := ""
		if rt.NumericUnit != nil {
			unit = *rt.NumericUnit
		}
		return rt.IsNegativeHabit, unit, nil
	}
	t, err := s.tasks.FirstByDescription(ctx, userID, description)
	if err != nil {
		return false, "", err
	}
	if t != nil {
		unit := ""
		if t.NumericUnit != nil {
			unit = *t.NumericUnit
		}
		return t.IsNegativeHabit, unit, nil
	}
	return false, "", nil
}

func (s *Service) trendWindow(ctx context.Context, userID int64, description string, isNegative bool, curStart, curEnd, prevStart, prevEnd time.Time) (*TrendWindow, error) {
	curTotal, curAvg, err := s.tasks.NumericStats(ctx, userID, description,
		curStart.Format(dateLayout), curEnd.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	prevTotal, prevAvg, err := s.tasks.NumericStats(ctx, userID, description,
		prevStart.Format(dateLayout), prevEnd.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	return &TrendWindow{
		Current:     PeriodStats{Total: curTotal, Avg: curAvg},
		Previous:    PeriodStats{Total: prevTotal, Avg: prevAvg},
		TotalChange: percentChange(curTotal, prevTotal, isNegative),
		AvgChange:   percentChange(curAvg, prevAvg, isNegative),
	}, nil
}

// percentChange is (current-previous)/previous*100 rounded to one decimal,
// sign-flipped for negative habits. A zero previous period reports +100 (or
// -100 for a negative habit) when anything was logged, else 0.
func percentChange(current, previous float64, isNegative bool) float64 {
	if previous > 0 {
		change := (current - previous) / previous * 100
		if isNegative {
			change = -change
		}
		return math.Round(change*10) / 10
	}
	if current > 0 {
		if isNegative {
			return -100
		}
		return 100
	}
	return 0
}

// NumericHabits lists the descriptions eligible for trend reporting.
func (s *Service) NumericHabits(ctx context.Context, userID int64) ([]string, error) {
	return s.tasks.DistinctNumericDescriptions(ctx, userID)
}

// startOfWeek returns the Monday of the week containing d.
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
