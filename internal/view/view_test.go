package view

import (
	"testing"

	"praktikmaal_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGoals() []model.Goal {
	g1 := model.Goal{Title: "Lodning", Status: model.StatusGreen, Color: "#ffeb3b"}
	g1.ID = "g1"
	g2 := model.Goal{Title: "Fejlsøgning", Status: model.StatusRed, Color: "#1a237e", Description: "Systematisk fejlsøgning på print"}
	g2.ID = "g2"
	g3 := model.Goal{Title: "Dokumentation", Status: model.StatusYellow}
	g3.ID = "g3"
	return []model.Goal{g1, g2, g3}
}

func TestRenderEmpty(t *testing.T) {
	v := Render(nil, "")
	assert.True(t, v.Empty)
	assert.Equal(t, "Ingen mål endnu. Tilføj det første i formularen.", v.EmptyMessage)
	assert.Empty(t, v.Tabs)
	assert.Nil(t, v.Panel)
}

func TestRenderTabs(t *testing.T) {
	v := Render(sampleGoals(), "g2")

	require.Len(t, v.Tabs, 3)
	assert.False(t, v.Empty)

	assert.Equal(t, "Lodning", v.Tabs[0].Label)
	assert.False(t, v.Tabs[0].Active)
	assert.True(t, v.Tabs[1].Active)
	assert.Equal(t, "goal-panel-g2", v.Tabs[1].PanelID)

	// A light background gets dark text, a dark one gets light text.
	assert.Equal(t, "#0d0d0d", v.Tabs[0].TextColor)
	assert.Equal(t, "#f9f9f9", v.Tabs[1].TextColor)

	// Missing color falls back to the default green.
	assert.Equal(t, model.DefaultGoalColor, v.Tabs[2].Color)
}

func TestRenderActivePanel(t *testing.T) {
	v := Render(sampleGoals(), "g2")

	require.NotNil(t, v.Panel)
	assert.Equal(t, "g2", v.Panel.GoalID)
	assert.Equal(t, "goal-panel-g2", v.Panel.PanelID)
	assert.Equal(t, "Systematisk fejlsøgning på print", v.Panel.Description)
	assert.Equal(t, model.StatusRed, v.Panel.Status.Status)
	assert.Equal(t, "Rød", v.Panel.Status.Label)
	assert.False(t, v.Panel.Attachment.Present)
}

func TestRenderUnknownActiveFallsBackToFirst(t *testing.T) {
	v := Render(sampleGoals(), "missing")

	require.NotNil(t, v.Panel)
	assert.Equal(t, "g1", v.Panel.GoalID)
	assert.True(t, v.Tabs[0].Active)
}

func TestRenderEmptyDescriptionPlaceholder(t *testing.T) {
	v := Render(sampleGoals(), "g1")
	assert.Equal(t, "Ingen beskrivelse angivet.", v.Panel.Description)
}

func TestRenderUnknownStatusLabel(t *testing.T) {
	g := model.Goal{Title: "X", Status: "blue"}
	g.ID = "g1"
	v := Render([]model.Goal{g}, "g1")
	assert.Equal(t, "Ukendt", v.Panel.Status.Label)
}

func TestRenderAttachmentBlock(t *testing.T) {
	goals := sampleGoals()
	goals[0].SetAttachment(&model.Attachment{
		Name: "logbog.pdf",
		Size: 2048,
		Type: "application/pdf",
		Data: "aGVq",
	})

	v := Render(goals, "g1")

	require.True(t, v.Panel.Attachment.Present)
	assert.Equal(t, "logbog.pdf", v.Panel.Attachment.Name)
	assert.Equal(t, "2.00 KB", v.Panel.Attachment.SizeLabel)
	assert.Equal(t, "/api/goals/g1/attachment", v.Panel.Attachment.DownloadURL)
}
