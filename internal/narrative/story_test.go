package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoForDayPhaseBoundaries(t *testing.T) {
	cases := []struct {
		day   int
		phase Phase
	}{
		{1, PhaseOpening},
		{10, PhaseOpening},
		{11, PhaseRisingAction},
		{25, PhaseRisingAction},
		{26, PhaseClimaxBuilding},
		{40, PhaseClimaxBuilding},
		{41, PhaseClimax},
		{45, PhaseClimax},
		{46, PhaseResolution},
		{50, PhaseResolution},
	}
	for _, tc := range cases {
		info := InfoForDay(tc.day)
		assert.Equal(t, tc.phase, info.Phase, "day %d", tc.day)
		assert.Equal(t, 1, info.Chapter, "day %d", tc.day)
		assert.Equal(t, tc.day, info.DayInChapter, "day %d", tc.day)
	}
}

func TestInfoForDayChapterRollover(t *testing.T) {
	info := InfoForDay(51)
	assert.Equal(t, 2, info.Chapter)
	assert.Equal(t, 1, info.DayInChapter)
	assert.Equal(t, PhaseOpening, info.Phase)
	assert.Contains(t, info.Focus, "Chapter 2")

	info = InfoForDay(100)
	assert.Equal(t, 2, info.Chapter)
	assert.Equal(t, 50, info.DayInChapter)
	assert.Equal(t, PhaseResolution, info.Phase)
}

func TestInfoForDayPowerTiers(t *testing.T) {
	assert.Equal(t, "Local Hero", InfoForDay(1).Complexity)
	assert.Equal(t, "Local Hero", InfoForDay(50).Complexity)
	assert.Equal(t, "Regional Champion", InfoForDay(51).Complexity)
	assert.Equal(t, "Regional Champion", InfoForDay(100).Complexity)
	assert.Equal(t, "Continental Legend", InfoForDay(101).Complexity)
	assert.Equal(t, "Continental Legend", InfoForDay(200).Complexity)
	assert.Equal(t, "Mythic Figure", InfoForDay(201).Complexity)
	assert.Equal(t, "Mythic Figure", InfoForDay(1000).Complexity)
}

func TestSpecialInstructions(t *testing.T) {
	assert.Contains(t, specialInstructions(1, 2), "CHAPTER 2 OPENING")
	assert.Contains(t, specialInstructions(50, 1), "CHAPTER FINALE")
	assert.Contains(t, specialInstructions(45, 1), "CLIMAX SEQUENCE")
	assert.Contains(t, specialInstructions(49, 3), "CLIMAX SEQUENCE")
	assert.Contains(t, specialInstructions(1, 1), "natural story progression")
	assert.Contains(t, specialInstructions(20, 1), "natural story progression")
}
