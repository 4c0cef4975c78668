package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "[----------]", Bar(0, 10))
	assert.Equal(t, "[#####-----]", Bar(0.5, 10))
	assert.Equal(t, "[##########]", Bar(1.7, 10))
	assert.Equal(t, "[---]", Bar(-1, 1))
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, palettes["midnight"], PaletteFor("midnight"))
	assert.Equal(t, palettes["default"], PaletteFor("sunset"))
}

func TestMissionStatus(t *testing.T) {
	assert.Contains(t, MissionStatus(1, 3, false), "1/3")
	assert.Contains(t, MissionStatus(3, 3, false), "ready")
	assert.Contains(t, MissionStatus(3, 3, true), "claimed")
}
