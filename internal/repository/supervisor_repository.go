package repository

import (
	"errors"
	"time"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"

	"gorm.io/gorm"
)

type SupervisorRepository struct {
	DB *gorm.DB
}

func NewSupervisorRepository(db *gorm.DB) *SupervisorRepository {
	return &SupervisorRepository{DB: db}
}

// RedeemCode marks an unused code as consumed by userID. The flip is a
// single conditional UPDATE, so of two concurrent redeems only one sees a
// row affected; the other gets the invalid-code error.
func (r *SupervisorRepository) RedeemCode(code string, userID uint) error {
	now := time.Now()
	res := r.DB.Model(&model.SupervisorCode{}).
		Where("code = ? AND used = ? AND disabled = ?", code, false, false).
		Updates(map[string]interface{}{
			"used":    true,
			"used_by": userID,
			"used_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrSupervisorCodeInvalid
	}
	return nil
}

// CreateSession replaces any existing grant for the user with a fresh one.
func (r *SupervisorRepository) CreateSession(userID uint, expiresAt time.Time) (*model.SupervisorSession, error) {
	session := &model.SupervisorSession{
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.SupervisorSession{}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FindActiveSession returns the user's unexpired grant, or nil.
func (r *SupervisorRepository) FindActiveSession(userID uint) (*model.SupervisorSession, error) {
	var session model.SupervisorSession
	err := r.DB.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SupervisorRepository) DeleteSession(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.SupervisorSession{}).Error
}
