package service

import (
	"context"
	"io"
	"strings"
	"sync"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/repository"
	"praktikmaal_backend/internal/util"
	"praktikmaal_backend/pkg/logger"
	"praktikmaal_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// GoalService owns the per-user goal sessions: the ordered collection
// (newest first) plus the active selection. Every mutation goes through the
// GoalStore first; on completion the session is updated with the canonical
// record the store returned, never with the locally-built payload. Two
// in-flight mutations against the same goal race, and the last completed
// store response wins regardless of issue order.
type GoalService struct {
	Store   repository.GoalStore
	Storage *StorageService

	mu       sync.Mutex
	sessions map[uint]*goalSession
}

type goalSession struct {
	goals    []model.Goal
	activeID string
}

func NewGoalService(store repository.GoalStore, storage *StorageService) *GoalService {
	return &GoalService{
		Store:    store,
		Storage:  storage,
		sessions: make(map[uint]*goalSession),
	}
}

// AttachmentUpload carries an incoming file before encoding. Size is the
// declared size and is checked against the oversize cap before the reader
// is consumed.
type AttachmentUpload struct {
	Name     string
	MimeType string
	Size     int64
	Reader   io.Reader
}

// SubmitGoalRequest is the payload for creating a goal.
type SubmitGoalRequest struct {
	Title           string
	Description     string
	Color           string
	File            *AttachmentUpload
	ConfirmOversize bool
}

// EditGoalRequest is the payload for the full-edit operation. A nil File
// keeps the current attachment; RemoveAttachment clears it and wins over a
// supplied file.
type EditGoalRequest struct {
	Title            string
	Description      string
	Color            string
	File             *AttachmentUpload
	ConfirmOversize  bool
	RemoveAttachment bool
}

// Load fetches the user's goals from the store and resets the session to
// them. The previous active selection is kept when it still exists,
// otherwise the first goal becomes active.
func (s *GoalService) Load(ctx context.Context, userID uint) error {
	goals, err := s.Store.List(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session(userID)
	session.goals = goals
	session.activeID = normalizeActive(goals, session.activeID)
	return nil
}

// Snapshot returns a copy of the session's goals and the active id, loading
// the session from the store first when the user has none.
func (s *GoalService) Snapshot(ctx context.Context, userID uint) ([]model.Goal, string, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session(userID)
	goals := make([]model.Goal, len(session.goals))
	copy(goals, session.goals)
	return goals, session.activeID, nil
}

// DropSession forgets a user's in-memory state, for sign-out.
func (s *GoalService) DropSession(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// SubmitNewGoal validates, encodes the attachment if any, creates the goal
// through the store and prepends the canonical record as the new active
// goal. Any failure leaves the session untouched; there is no optimistic
// insert.
func (s *GoalService) SubmitNewGoal(ctx context.Context, userID uint, req SubmitGoalRequest) (*model.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, util.ErrTitleRequired
	}
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	attachment, err := s.encodeUpload(req.File, req.ConfirmOversize)
	if err != nil {
		return nil, err
	}

	fields := model.Goal{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Color:       req.Color,
	}
	fields.SetAttachment(attachment)

	goal, err := s.Store.Create(ctx, userID, fields)
	monitoring.ObserveGoalMutation("create", err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session := s.session(userID)
	session.goals = append([]model.Goal{*goal}, session.goals...)
	session.activeID = goal.ID
	s.mu.Unlock()

	s.Storage.MirrorAttachment(ctx, goal.ID, attachment)
	return goal, nil
}

// ChangeStatus flips the traffic light.
func (s *GoalService) ChangeStatus(ctx context.Context, userID uint, id string, status model.GoalStatus) (*model.Goal, error) {
	if !model.ValidStatus(status) {
		return nil, util.ErrInvalidStatus
	}
	return s.update(ctx, userID, id, "status", model.GoalChanges{Status: &status})
}

// EditReflection replaces the reflection text.
func (s *GoalService) EditReflection(ctx context.Context, userID uint, id, text string) (*model.Goal, error) {
	return s.update(ctx, userID, id, "reflection", model.GoalChanges{Reflection: &text})
}

// RemoveAttachment clears the goal's attachment.
func (s *GoalService) RemoveAttachment(ctx context.Context, userID uint, id string) (*model.Goal, error) {
	previous := s.attachmentOf(ctx, userID, id)
	goal, err := s.update(ctx, userID, id, "remove_attachment", model.GoalChanges{RemoveAttachment: true})
	if err != nil {
		return nil, err
	}
	s.Storage.RemoveMirror(ctx, id, previous)
	return goal, nil
}

// EditGoal updates title, description and color, and replaces the
// attachment only when a new file is supplied.
func (s *GoalService) EditGoal(ctx context.Context, userID uint, id string, req EditGoalRequest) (*model.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, util.ErrTitleRequired
	}

	var attachment *model.Attachment
	if !req.RemoveAttachment {
		encoded, err := s.encodeUpload(req.File, req.ConfirmOversize)
		if err != nil {
			return nil, err
		}
		attachment = encoded
	}

	description := strings.TrimSpace(req.Description)
	changes := model.GoalChanges{
		Title:            &title,
		Description:      &description,
		RemoveAttachment: req.RemoveAttachment,
	}
	if req.Color != "" {
		color := req.Color
		changes.Color = &color
	}
	if attachment != nil {
		changes.Attachment = attachment
	}

	var previous *model.Attachment
	if req.RemoveAttachment {
		previous = s.attachmentOf(ctx, userID, id)
	}

	goal, err := s.update(ctx, userID, id, "edit", changes)
	if err != nil {
		return nil, err
	}
	if req.RemoveAttachment {
		s.Storage.RemoveMirror(ctx, id, previous)
	} else if attachment != nil {
		s.Storage.MirrorAttachment(ctx, goal.ID, attachment)
	}
	return goal, nil
}

// DeleteGoal removes the goal. When the active goal is deleted the first
// remaining goal becomes active, or none.
func (s *GoalService) DeleteGoal(ctx context.Context, userID uint, id string) error {
	attachment := s.attachmentOf(ctx, userID, id)

	err := s.Store.Delete(ctx, userID, id)
	monitoring.ObserveGoalMutation("delete", err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	session := s.session(userID)
	kept := session.goals[:0]
	for _, g := range session.goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	session.goals = kept
	if session.activeID == id {
		if len(kept) > 0 {
			session.activeID = kept[0].ID
		} else {
			session.activeID = ""
		}
	}
	s.mu.Unlock()

	s.Storage.RemoveMirror(ctx, id, attachment)
	return nil
}

// ClearAll deletes every goal best-effort and then reconciles the session
// against the store, so memory matches the store even when some deletes
// fail. The first failure is reported after reconciliation.
func (s *GoalService) ClearAll(ctx context.Context, userID uint) error {
	goals, _, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, g := range goals {
		if err := s.Store.Delete(ctx, userID, g.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := s.Load(ctx, userID); err != nil {
		logger.Log.Error("clear-all reconciliation failed", zap.Uint("user", userID), zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Activate selects a goal as the active tab.
func (s *GoalService) Activate(ctx context.Context, userID uint, id string) error {
	if err := s.ensure(ctx, userID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session(userID)
	for _, g := range session.goals {
		if g.ID == id {
			session.activeID = id
			return nil
		}
	}
	return util.ErrGoalNotFound
}

// Goal returns the session's copy of one goal.
func (s *GoalService) Goal(ctx context.Context, userID uint, id string) (*model.Goal, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.session(userID)
	for i := range session.goals {
		if session.goals[i].ID == id {
			g := session.goals[i]
			return &g, nil
		}
	}
	return nil, util.ErrGoalNotFound
}

// update runs one partial update through the store and folds the canonical
// result back into the session.
func (s *GoalService) update(ctx context.Context, userID uint, id, operation string, changes model.GoalChanges) (*model.Goal, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	goal, err := s.Store.Update(ctx, userID, id, changes)
	monitoring.ObserveGoalMutation(operation, err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	session := s.session(userID)
	for i := range session.goals {
		if session.goals[i].ID == goal.ID {
			session.goals[i] = *goal
			break
		}
	}
	s.mu.Unlock()
	return goal, nil
}

func (s *GoalService) encodeUpload(file *AttachmentUpload, confirmed bool) (*model.Attachment, error) {
	if file == nil {
		return nil, nil
	}
	if file.Size > util.OversizeAttachmentBytes && !confirmed {
		return nil, util.ErrOversizeUnconfirmed
	}
	attachment, err := util.EncodeAttachment(file.Name, file.MimeType, file.Reader)
	if err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *GoalService) attachmentOf(ctx context.Context, userID uint, id string) *model.Attachment {
	goal, err := s.Goal(ctx, userID, id)
	if err != nil {
		return nil
	}
	return goal.Attachment()
}

// ensure loads the session from the store the first time a user shows up.
// The gate's sign-in callback is the usual entry, but a JWT outlives the
// process while gate state does not, so a request arriving after a restart
// must not run against an empty session.
func (s *GoalService) ensure(ctx context.Context, userID uint) error {
	s.mu.Lock()
	_, ok := s.sessions[userID]
	s.mu.Unlock()
	if ok {
		return nil
	}
	return s.Load(ctx, userID)
}

// session must be called with s.mu held.
func (s *GoalService) session(userID uint) *goalSession {
	session, ok := s.sessions[userID]
	if !ok {
		session = &goalSession{}
		s.sessions[userID] = session
	}
	return session
}

func normalizeActive(goals []model.Goal, activeID string) string {
	for _, g := range goals {
		if g.ID == activeID {
			return activeID
		}
	}
	if len(goals) > 0 {
		return goals[0].ID
	}
	return ""
}
