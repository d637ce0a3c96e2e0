package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"
	"praktikmaal_backend/pkg/logger"

	"go.uber.org/zap"
)

// FileGoalStore keeps the full collection as one JSON document on disk,
// mirroring the single-key browser-storage variant: absent, corrupt or
// non-array content loads as an empty collection, and a failed save is
// warned about but never fails the mutation.
type FileGoalStore struct {
	Path string
}

func NewFileGoalStore(path string) *FileGoalStore {
	return &FileGoalStore{Path: path}
}

// storedGoal is the on-disk shape. model.Goal hides UserID and the Pdf*
// columns from API responses with json:"-", so marshalling the model
// directly would drop the owner and the attachment on every save.
type storedGoal struct {
	ID          string           `json:"id"`
	UserID      uint             `json:"userId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.GoalStatus `json:"status"`
	Reflection  string           `json:"reflection"`
	Color       string           `json:"color"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	PdfName     *string          `json:"pdfName,omitempty"`
	PdfData     *string          `json:"pdfData,omitempty"`
	PdfSize     *int64           `json:"pdfSize,omitempty"`
	PdfType     *string          `json:"pdfType,omitempty"`
}

func toStored(g model.Goal) storedGoal {
	return storedGoal{
		ID:          g.ID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		Status:      g.Status,
		Reflection:  g.Reflection,
		Color:       g.Color,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		PdfName:     g.PdfName,
		PdfData:     g.PdfData,
		PdfSize:     g.PdfSize,
		PdfType:     g.PdfType,
	}
}

func (sg storedGoal) goal() model.Goal {
	g := model.Goal{
		Title:       sg.Title,
		Description: sg.Description,
		Status:      sg.Status,
		Reflection:  sg.Reflection,
		Color:       sg.Color,
		PdfName:     sg.PdfName,
		PdfData:     sg.PdfData,
		PdfSize:     sg.PdfSize,
		PdfType:     sg.PdfType,
	}
	g.ID = sg.ID
	g.UserID = sg.UserID
	g.CreatedAt = sg.CreatedAt
	g.UpdatedAt = sg.UpdatedAt
	return g
}

func (s *FileGoalStore) load() []model.Goal {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return []model.Goal{}
	}
	var stored []storedGoal
	if err := json.Unmarshal(raw, &stored); err != nil {
		logger.Log.Warn("Kunne ikke indlæse data", zap.Error(err))
		return []model.Goal{}
	}
	goals := make([]model.Goal, 0, len(stored))
	for _, sg := range stored {
		goals = append(goals, sg.goal())
	}
	return goals
}

func (s *FileGoalStore) save(goals []model.Goal) {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Log.Warn("Kunne ikke gemme data", zap.Error(err))
		return
	}
	stored := make([]storedGoal, 0, len(goals))
	for _, g := range goals {
		stored = append(stored, toStored(g))
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		logger.Log.Warn("Kunne ikke gemme data", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.Path, raw, 0644); err != nil {
		logger.Log.Warn("Kunne ikke gemme data", zap.Error(err))
	}
}

func (s *FileGoalStore) List(ctx context.Context, userID uint) ([]model.Goal, error) {
	goals := s.load()
	out := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *FileGoalStore) Create(ctx context.Context, userID uint, fields model.Goal) (*model.Goal, error) {
	goal := fields
	goal.ID = model.GenerateUUID()
	goal.UserID = userID
	if goal.Status == "" {
		goal.Status = model.StatusRed
	}
	if goal.Color == "" {
		goal.Color = model.DefaultGoalColor
	}
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	goals := append([]model.Goal{goal}, s.load()...)
	s.save(goals)
	return &goal, nil
}

func (s *FileGoalStore) Update(ctx context.Context, userID uint, id string, changes model.GoalChanges) (*model.Goal, error) {
	goals := s.load()
	for i := range goals {
		if goals[i].ID != id || goals[i].UserID != userID {
			continue
		}
		applyChanges(&goals[i], changes)
		goals[i].UpdatedAt = time.Now()
		updated := goals[i]
		s.save(goals)
		return &updated, nil
	}
	return nil, util.ErrGoalNotFound
}

func (s *FileGoalStore) Delete(ctx context.Context, userID uint, id string) error {
	goals := s.load()
	kept := goals[:0]
	found := false
	for _, g := range goals {
		if g.ID == id && g.UserID == userID {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return util.ErrGoalNotFound
	}
	s.save(kept)
	return nil
}

func applyChanges(g *model.Goal, changes model.GoalChanges) {
	if changes.Title != nil {
		g.Title = *changes.Title
	}
	if changes.Description != nil {
		g.Description = *changes.Description
	}
	if changes.Status != nil {
		g.Status = *changes.Status
	}
	if changes.Reflection != nil {
		g.Reflection = *changes.Reflection
	}
	if changes.Color != nil {
		g.Color = *changes.Color
	}
	if changes.RemoveAttachment {
		g.SetAttachment(nil)
	} else if changes.Attachment != nil {
		g.SetAttachment(changes.Attachment)
	}
}
