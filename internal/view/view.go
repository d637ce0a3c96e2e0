// Package view projects the goal collection and the active selection into a
// declarative view description. It is a pure function of its inputs; the
// HTTP layer only serializes the result.
package view

import (
	"fmt"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"
)

const (
	darkText  = "#0d0d0d"
	lightText = "#f9f9f9"

	emptyStateMessage      = "Ingen mål endnu. Tilføj det første i formularen."
	descriptionPlaceholder = "Ingen beskrivelse angivet."
	unknownStatusLabel     = "Ukendt"
)

type Tab struct {
	GoalID    string `json:"goalId"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
	Active    bool   `json:"active"`
	PanelID   string `json:"panelId"`
}

type StatusChip struct {
	Status model.GoalStatus `json:"status"`
	Label  string           `json:"label"`
}

type AttachmentBlock struct {
	Present     bool   `json:"present"`
	Name        string `json:"name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	SizeLabel   string `json:"sizeLabel,omitempty"`
	Type        string `json:"type,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type Panel struct {
	GoalID      string          `json:"goalId"`
	PanelID     string          `json:"panelId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      StatusChip      `json:"status"`
	Reflection  string          `json:"reflection"`
	Attachment  AttachmentBlock `json:"attachment"`
	UpdatedAt   string          `json:"updatedAt"`
}

type View struct {
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
	Tabs         []Tab  `json:"tabs,omitempty"`
	Panel        *Panel `json:"panel,omitempty"`
}

// Render builds the view for (goals, activeID). Goals are assumed to be in
// display order (newest first). An activeID not present in goals falls back
// to the first goal, matching the selection rules of the goal session.
func Render(goals []model.Goal, activeID string) View {
	if len(goals) == 0 {
		return View{Empty: true, EmptyMessage: emptyStateMessage}
	}

	if !contains(goals, activeID) {
		activeID = goals[0].ID
	}

	v := View{Tabs: make([]Tab, 0, len(goals))}
	for _, g := range goals {
		color := g.Color
		if color == "" {
			color = model.DefaultGoalColor
		}
		v.Tabs = append(v.Tabs, Tab{
			GoalID:    g.ID,
			Label:     g.Title,
			Color:     color,
			TextColor: TextColorForBackground(color),
			Active:    g.ID == activeID,
			PanelID:   panelID(g.ID),
		})
	}

	for i := range goals {
		if goals[i].ID == activeID {
			v.Panel = renderPanel(&goals[i])
			break
		}
	}
	return v
}

func renderPanel(g *model.Goal) *Panel {
	description := g.Description
	if description == "" {
		description = descriptionPlaceholder
	}

	label, ok := model.StatusLabels[g.Status]
	if !ok {
		label = unknownStatusLabel
	}

	p := &Panel{
		GoalID:      g.ID,
		PanelID:     panelID(g.ID),
		Title:       g.Title,
		Description: description,
		Status:      StatusChip{Status: g.Status, Label: label},
		Reflection:  g.Reflection,
		UpdatedAt:   g.UpdatedAt.Format(util.TimeFormat),
	}

	if a := g.Attachment(); a != nil {
		p.Attachment = AttachmentBlock{
			Present:     true,
			Name:        a.Name,
			Size:        a.Size,
			SizeLabel:   util.FormatFileSize(a.Size),
			Type:        a.Type,
			DownloadURL: fmt.Sprintf("/api/goals/%s/attachment", g.ID),
		}
	}
	return p
}

func panelID(goalID string) string {
	return "goal-panel-" + goalID
}

func contains(goals []model.Goal, id string) bool {
	if id == "" {
		return false
	}
	for i := range goals {
		if goals[i].ID == id {
			return true
		}
	}
	return false
}
