package service

import (
	"context"
	"fmt"
	"time"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/repository"
	"praktikmaal_backend/internal/util"
	"praktikmaal_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SupervisorService manages the supervisor role: one-time codes are redeemed
// for a time-bounded session, and an active session unlocks a read-only
// overview of every user's goals. Active grants are cached in Redis so the
// per-request check rarely hits MySQL.
type SupervisorService struct {
	Supervisors  *repository.SupervisorRepository
	Goals        *repository.GoalRepository
	Users        *repository.UserRepository
	Redis        *redis.Client
	SessionHours int
}

func NewSupervisorService(supervisors *repository.SupervisorRepository, goals *repository.GoalRepository, users *repository.UserRepository, rdb *redis.Client, sessionHours int) *SupervisorService {
	if sessionHours <= 0 {
		sessionHours = 8
	}
	return &SupervisorService{
		Supervisors:  supervisors,
		Goals:        goals,
		Users:        users,
		Redis:        rdb,
		SessionHours: sessionHours,
	}
}

// OverviewGoal is one goal as shown to a supervisor. The attachment payload
// is omitted; only metadata is exposed, with the download going through a
// separate endpoint.
type OverviewGoal struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         model.GoalStatus `json:"status"`
	StatusLabel    string           `json:"statusLabel"`
	Reflection     string           `json:"reflection"`
	Color          string           `json:"color"`
	AttachmentName string           `json:"attachmentName,omitempty"`
	AttachmentSize string           `json:"attachmentSize,omitempty"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// OverviewEntry groups one user's goals.
type OverviewEntry struct {
	UserID uint           `json:"userId"`
	Email  string         `json:"email"`
	Name   string         `json:"name,omitempty"`
	Goals  []OverviewGoal `json:"goals"`
}

func supervisorCacheKey(userID uint) string {
	return fmt.Sprintf("supervisor:%d", userID)
}

// Grant redeems a one-time code and opens a supervisor session for the
// user. The session length comes from configuration.
func (s *SupervisorService) Grant(ctx context.Context, userID uint, code string) (*model.SupervisorSession, error) {
	if err := s.Supervisors.RedeemCode(code, userID); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(time.Duration(s.SessionHours) * time.Hour)
	session, err := s.Supervisors.CreateSession(userID, expiresAt)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		ttl := time.Until(expiresAt)
		if err := s.Redis.Set(ctx, supervisorCacheKey(userID), "1", ttl).Err(); err != nil {
			logger.Log.Warn("failed to cache supervisor grant", zap.Uint("user", userID), zap.Error(err))
		}
	}

	logger.Log.Info("supervisor session granted",
		zap.Uint("user", userID),
		zap.Time("expiresAt", expiresAt))
	return session, nil
}

// Check reports whether the user holds an unexpired supervisor session. The
// Redis cache is consulted first; a miss falls back to MySQL and refreshes
// the cache.
func (s *SupervisorService) Check(ctx context.Context, userID uint) (bool, error) {
	if s.Redis != nil {
		_, err := s.Redis.Get(ctx, supervisorCacheKey(userID)).Result()
		if err == nil {
			return true, nil
		}
		if err != redis.Nil {
			logger.Log.Warn("supervisor cache lookup failed", zap.Error(err))
		}
	}

	session, err := s.Supervisors.FindActiveSession(userID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, supervisorCacheKey(userID), "1", time.Until(session.ExpiresAt)).Err(); err != nil {
			logger.Log.Warn("failed to refresh supervisor cache", zap.Error(err))
		}
	}
	return true, nil
}

// Revoke ends the user's supervisor session immediately.
func (s *SupervisorService) Revoke(ctx context.Context, userID uint) error {
	if err := s.Supervisors.DeleteSession(userID); err != nil {
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, supervisorCacheKey(userID)).Err(); err != nil {
			logger.Log.Warn("failed to drop supervisor cache entry", zap.Error(err))
		}
	}
	return nil
}

// Overview returns every user's goals grouped by owner, newest goal first
// within each group. Users without goals are omitted.
func (s *SupervisorService) Overview(ctx context.Context) ([]OverviewEntry, error) {
	goals, err := s.Goals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	grouped := make(map[uint][]OverviewGoal)
	var order []uint
	for _, g := range goals {
		if _, seen := grouped[g.UserID]; !seen {
			order = append(order, g.UserID)
		}
		grouped[g.UserID] = append(grouped[g.UserID], toOverviewGoal(g))
	}

	entries := make([]OverviewEntry, 0, len(order))
	for _, userID := range order {
		entry := OverviewEntry{
			UserID: userID,
			Goals:  grouped[userID],
		}
		if u, ok := byID[userID]; ok {
			entry.Email = u.Email
			entry.Name = u.Name
		} else {
			entry.Email = fmt.Sprintf("Bruger %d", userID)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AttachmentFor resolves a goal's attachment for download, any owner.
func (s *SupervisorService) AttachmentFor(ctx context.Context, goalID string) (*model.Attachment, []byte, error) {
	goal, err := s.Goals.FindByID(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}
	attachment := goal.Attachment()
	if attachment == nil {
		return nil, nil, util.ErrNoAttachment
	}
	data, err := util.DecodeAttachment(attachment)
	if err != nil {
		return nil, nil, err
	}
	return attachment, data, nil
}

func toOverviewGoal(g model.Goal) OverviewGoal {
	out := OverviewGoal{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Status:      g.Status,
		StatusLabel: model.StatusLabels[g.Status],
		Reflection:  g.Reflection,
		Color:       g.Color,
		UpdatedAt:   g.UpdatedAt,
		CreatedAt:   g.CreatedAt,
	}
	if a := g.Attachment(); a != nil {
		out.AttachmentName = a.Name
		out.AttachmentSize = util.FormatFileSize(a.Size)
	}
	return out
}
