package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagsExtractsAll(t *testing.T) {
	text := "The party crossed the river at dawn.\n" +
		"[LOCATION: Mistfall Village]\n" +
		"[QUEST: Recover the sunken bell]\n" +
		"[COMPANIONS: Aria the ranger]\n" +
		"[EVENTS: Crossed the Greywater]"

	up, clean := ParseTags(text)
	assert.Equal(t, "Mistfall Village", up.Location)
	assert.Equal(t, "Recover the sunken bell", up.Quest)
	assert.Equal(t, "Aria the ranger", up.Companions)
	assert.Equal(t, "Crossed the Greywater", up.Events)
	assert.Equal(t, "The party crossed the river at dawn.", clean)
}

func TestParseTagsPartial(t *testing.T) {
	up, clean := ParseTags("A quiet day of training.\n[EVENTS: Sparred until sunset]")
	assert.Empty(t, up.Location)
	assert.Empty(t, up.Quest)
	assert.Empty(t, up.Companions)
	assert.Equal(t, "Sparred until sunset", up.Events)
	assert.Equal(t, "A quiet day of training.", clean)
}

func TestParseTagsNone(t *testing.T) {
	up, clean := ParseTags("Nothing structured here.")
	assert.Equal(t, Updates{}, up)
	assert.Equal(t, "Nothing structured here.", clean)
}

func TestParseTagsInline(t *testing.T) {
	up, clean := ParseTags("They reached [LOCATION: the Sunken Gate] by nightfall.")
	assert.Equal(t, "the Sunken Gate", up.Location)
	assert.Equal(t, "They reached  by nightfall.", clean)
}
