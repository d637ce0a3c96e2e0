package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"

	"gorm.io/gorm"
)

// GoalRepository is the MySQL-backed GoalStore.

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) List(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return goals, nil
}

func (r *GoalRepository) Create(ctx context.Context, userID uint, fields model.Goal) (*model.Goal, error) {
	goal := fields
	goal.ID = ""
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

	if err := r.DB.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}
	return &goal, nil
}

func (r *GoalRepository) Update(ctx context.Context, userID uint, id string, changes model.GoalChanges) (*model.Goal, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.Status != nil {
		updates["status"] = *changes.Status
	}
	if changes.Reflection != nil {
		updates["reflection"] = *changes.Reflection
	}
	if changes.Color != nil {
		updates["color"] = *changes.Color
	}
	if changes.RemoveAttachment {
		updates["pdf_name"] = nil
		updates["pdf_data"] = nil
		updates["pdf_size"] = nil
		updates["pdf_type"] = nil
	} else if changes.Attachment != nil {
		updates["pdf_name"] = changes.Attachment.Name
		updates["pdf_data"] = changes.Attachment.Data
		updates["pdf_size"] = changes.Attachment.Size
		updates["pdf_type"] = changes.Attachment.Type
	}

	result := r.DB.WithContext(ctx).Model(&model.Goal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, util.ErrGoalNotFound
	}

	return r.findByIDAndUserID(ctx, id, userID)
}

func (r *GoalRepository) Delete(ctx context.Context, userID uint, id string) error {
	result := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Goal{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", util.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return util.ErrGoalNotFound
	}
	return nil
}

// ListAll returns every user's goals newest-first, for the supervisor view.
func (r *GoalRepository) ListAll(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return goals, nil
}

// FindByID looks a goal up without scoping to a user; supervisor use only.
func (r *GoalRepository) FindByID(ctx context.Context, id string) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}
	return &goal, nil
}

func (r *GoalRepository) findByIDAndUserID(ctx context.Context, id string, userID uint) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}
	return &goal, nil
}
