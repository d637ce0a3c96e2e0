package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory GoalStore that hands out canonical records the
// way the real adapters do: defaults filled in, timestamps stamped, the
// stored copy returned.
type fakeStore struct {
	goals       map[string]model.Goal
	order       []string
	nextID      int
	createCalls int
	updateCalls int
	deleteCalls int
	failDelete  map[string]error

	// updateStarted runs at the top of Update, before anything is applied,
	// so a test can hold one update open while another completes.
	updateStarted func(model.GoalChanges)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		goals:      make(map[string]model.Goal),
		failDelete: make(map[string]error),
	}
}

func (f *fakeStore) List(ctx context.Context, userID uint) ([]model.Goal, error) {
	out := make([]model.Goal, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if g := f.goals[f.order[i]]; g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, userID uint, fields model.Goal) (*model.Goal, error) {
	f.createCalls++
	goal := fields
	f.nextID++
	goal.ID = fmt.Sprintf("goal-%d", f.nextID)
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

	f.goals[goal.ID] = goal
	f.order = append(f.order, goal.ID)
	return &goal, nil
}

func (f *fakeStore) Update(ctx context.Context, userID uint, id string, changes model.GoalChanges) (*model.Goal, error) {
	if f.updateStarted != nil {
		f.updateStarted(changes)
	}
	f.updateCalls++
	goal, ok := f.goals[id]
	if !ok {
		return nil, util.ErrGoalNotFound
	}
	if changes.Title != nil {
		goal.Title = *changes.Title
	}
	if changes.Description != nil {
		goal.Description = *changes.Description
	}
	if changes.Status != nil {
		goal.Status = *changes.Status
	}
	if changes.Reflection != nil {
		goal.Reflection = *changes.Reflection
	}
	if changes.Color != nil {
		goal.Color = *changes.Color
	}
	if changes.RemoveAttachment {
		goal.SetAttachment(nil)
	} else if changes.Attachment != nil {
		goal.SetAttachment(changes.Attachment)
	}
	goal.UpdatedAt = time.Now()
	f.goals[id] = goal
	return &goal, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID uint, id string) error {
	f.deleteCalls++
	if err, ok := f.failDelete[id]; ok {
		return err
	}
	if _, ok := f.goals[id]; !ok {
		return util.ErrGoalNotFound
	}
	delete(f.goals, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

const testUserID uint = 7

func newTestService() (*GoalService, *fakeStore) {
	store := newFakeStore()
	return NewGoalService(store, nil), store
}

func submit(t *testing.T, s *GoalService, title string) *model.Goal {
	t.Helper()
	goal, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{Title: title})
	require.NoError(t, err)
	return goal
}

func snapshot(t *testing.T, s *GoalService, userID uint) ([]model.Goal, string) {
	t.Helper()
	goals, activeID, err := s.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	return goals, activeID
}

func TestSubmitNewGoal(t *testing.T) {
	s, _ := newTestService()

	goal, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{
		Title:       "  Lodning af SMD  ",
		Description: "Øve overflademontering",
	})
	require.NoError(t, err)

	assert.Equal(t, "Lodning af SMD", goal.Title)
	assert.Equal(t, model.StatusRed, goal.Status)
	assert.Equal(t, model.DefaultGoalColor, goal.Color)

	goals, activeID := snapshot(t, s, testUserID)
	require.Len(t, goals, 1)
	assert.Equal(t, goal.ID, activeID)
}

func TestSubmitNewGoalPrependsAndActivates(t *testing.T) {
	s, _ := newTestService()

	first := submit(t, s, "Første")
	second := submit(t, s, "Andet")

	goals, activeID := snapshot(t, s, testUserID)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, goals[0].ID)
	assert.Equal(t, first.ID, goals[1].ID)
	assert.Equal(t, second.ID, activeID)
}

func TestSubmitNewGoalEmptyTitle(t *testing.T) {
	s, store := newTestService()

	_, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{Title: "   "})
	assert.ErrorIs(t, err, util.ErrTitleRequired)
	assert.Zero(t, store.createCalls)

	goals, _ := snapshot(t, s, testUserID)
	assert.Empty(t, goals)
}

func TestSubmitNewGoalOversizeRequiresConfirmation(t *testing.T) {
	s, store := newTestService()

	big := strings.NewReader("payload")
	_, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{
		Title: "Med stor fil",
		File: &AttachmentUpload{
			Name:     "stor.pdf",
			MimeType: "application/pdf",
			Size:     util.OversizeAttachmentBytes + 1,
			Reader:   big,
		},
	})
	assert.ErrorIs(t, err, util.ErrOversizeUnconfirmed)
	assert.Zero(t, store.createCalls)
}

func TestSubmitNewGoalOversizeConfirmed(t *testing.T) {
	s, _ := newTestService()

	goal, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{
		Title: "Med stor fil",
		File: &AttachmentUpload{
			Name:     "stor.pdf",
			MimeType: "application/pdf",
			Size:     util.OversizeAttachmentBytes + 1,
			Reader:   strings.NewReader("indhold"),
		},
		ConfirmOversize: true,
	})
	require.NoError(t, err)

	attachment := goal.Attachment()
	require.NotNil(t, attachment)
	assert.Equal(t, "stor.pdf", attachment.Name)
}

func TestChangeStatus(t *testing.T) {
	s, _ := newTestService()
	goal := submit(t, s, "Mål")

	updated, err := s.ChangeStatus(context.Background(), testUserID, goal.ID, model.StatusGreen)
	require.NoError(t, err)
	assert.Equal(t, model.StatusGreen, updated.Status)

	goals, _ := snapshot(t, s, testUserID)
	assert.Equal(t, model.StatusGreen, goals[0].Status)
}

func TestChangeStatusInvalid(t *testing.T) {
	s, store := newTestService()
	goal := submit(t, s, "Mål")

	_, err := s.ChangeStatus(context.Background(), testUserID, goal.ID, "blue")
	assert.ErrorIs(t, err, util.ErrInvalidStatus)
	assert.Zero(t, store.updateCalls)
}

func TestChangeStatusUnknownGoal(t *testing.T) {
	s, _ := newTestService()
	submit(t, s, "Mål")

	_, err := s.ChangeStatus(context.Background(), testUserID, "missing", model.StatusGreen)
	assert.ErrorIs(t, err, util.ErrGoalNotFound)
}

func TestEditReflection(t *testing.T) {
	s, _ := newTestService()
	goal := submit(t, s, "Mål")

	updated, err := s.EditReflection(context.Background(), testUserID, goal.ID, "Det gik bedre i dag.")
	require.NoError(t, err)
	assert.Equal(t, "Det gik bedre i dag.", updated.Reflection)

	cleared, err := s.EditReflection(context.Background(), testUserID, goal.ID, "")
	require.NoError(t, err)
	assert.Empty(t, cleared.Reflection)
}

func TestSessionHoldsCanonicalRecords(t *testing.T) {
	s, store := newTestService()
	goal := submit(t, s, "Mål")

	_, err := s.EditReflection(context.Background(), testUserID, goal.ID, "note")
	require.NoError(t, err)

	goals, _ := snapshot(t, s, testUserID)
	assert.Equal(t, store.goals[goal.ID], goals[0])
}

func TestEditGoalReplacesAttachmentOnlyWithNewFile(t *testing.T) {
	s, _ := newTestService()

	goal, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{
		Title: "Mål",
		File: &AttachmentUpload{
			Name:     "gammel.pdf",
			MimeType: "application/pdf",
			Size:     3,
			Reader:   strings.NewReader("abc"),
		},
	})
	require.NoError(t, err)

	// Metadata-only edit keeps the attachment.
	updated, err := s.EditGoal(context.Background(), testUserID, goal.ID, EditGoalRequest{
		Title:       "Nyt navn",
		Description: "Ny beskrivelse",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Attachment())
	assert.Equal(t, "gammel.pdf", updated.Attachment().Name)

	// A new file replaces it.
	updated, err = s.EditGoal(context.Background(), testUserID, goal.ID, EditGoalRequest{
		Title: "Nyt navn",
		File: &AttachmentUpload{
			Name:     "ny.pdf",
			MimeType: "application/pdf",
			Size:     3,
			Reader:   strings.NewReader("xyz"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ny.pdf", updated.Attachment().Name)

	// Explicit removal clears it.
	updated, err = s.EditGoal(context.Background(), testUserID, goal.ID, EditGoalRequest{
		Title:            "Nyt navn",
		RemoveAttachment: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Attachment())
}

func TestRemoveAttachment(t *testing.T) {
	s, _ := newTestService()

	goal, err := s.SubmitNewGoal(context.Background(), testUserID, SubmitGoalRequest{
		Title: "Mål",
		File: &AttachmentUpload{
			Name:     "fil.pdf",
			MimeType: "application/pdf",
			Size:     3,
			Reader:   strings.NewReader("abc"),
		},
	})
	require.NoError(t, err)

	updated, err := s.RemoveAttachment(context.Background(), testUserID, goal.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.Attachment())
}

func TestDeleteGoalReassignsActive(t *testing.T) {
	s, _ := newTestService()

	submit(t, s, "Første")
	second := submit(t, s, "Andet")
	third := submit(t, s, "Tredje")

	// third is active; deleting it hands the selection to the first
	// remaining goal.
	require.NoError(t, s.DeleteGoal(context.Background(), testUserID, third.ID))

	goals, activeID := snapshot(t, s, testUserID)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, activeID)
}

func TestDeleteInactiveKeepsActive(t *testing.T) {
	s, _ := newTestService()

	first := submit(t, s, "Første")
	second := submit(t, s, "Andet")

	require.NoError(t, s.DeleteGoal(context.Background(), testUserID, first.ID))

	_, activeID := snapshot(t, s, testUserID)
	assert.Equal(t, second.ID, activeID)
}

func TestDeleteLastGoalClearsActive(t *testing.T) {
	s, _ := newTestService()
	goal := submit(t, s, "Eneste")

	require.NoError(t, s.DeleteGoal(context.Background(), testUserID, goal.ID))

	goals, activeID := snapshot(t, s, testUserID)
	assert.Empty(t, goals)
	assert.Empty(t, activeID)
}

func TestDeleteUnknownGoal(t *testing.T) {
	s, _ := newTestService()
	submit(t, s, "Mål")

	err := s.DeleteGoal(context.Background(), testUserID, "missing")
	assert.ErrorIs(t, err, util.ErrGoalNotFound)
}

func TestClearAll(t *testing.T) {
	s, store := newTestService()

	submit(t, s, "Første")
	submit(t, s, "Andet")

	require.NoError(t, s.ClearAll(context.Background(), testUserID))

	goals, activeID := snapshot(t, s, testUserID)
	assert.Empty(t, goals)
	assert.Empty(t, activeID)
	assert.Empty(t, store.goals)
}

func TestClearAllReconcilesOnPartialFailure(t *testing.T) {
	s, store := newTestService()

	stuck := submit(t, s, "Fastlåst")
	submit(t, s, "Andet")
	store.failDelete[stuck.ID] = util.ErrPersistence

	err := s.ClearAll(context.Background(), testUserID)
	assert.ErrorIs(t, err, util.ErrPersistence)

	// Memory matches the store: the stuck goal survives, the other is gone.
	goals, _ := snapshot(t, s, testUserID)
	require.Len(t, goals, 1)
	assert.Equal(t, stuck.ID, goals[0].ID)
}

func TestActivate(t *testing.T) {
	s, _ := newTestService()

	first := submit(t, s, "Første")
	submit(t, s, "Andet")

	require.NoError(t, s.Activate(context.Background(), testUserID, first.ID))
	_, activeID := snapshot(t, s, testUserID)
	assert.Equal(t, first.ID, activeID)

	assert.ErrorIs(t, s.Activate(context.Background(), testUserID, "missing"), util.ErrGoalNotFound)
}

func TestLoadKeepsExistingSelection(t *testing.T) {
	s, _ := newTestService()

	first := submit(t, s, "Første")
	submit(t, s, "Andet")
	require.NoError(t, s.Activate(context.Background(), testUserID, first.ID))

	require.NoError(t, s.Load(context.Background(), testUserID))

	_, activeID := snapshot(t, s, testUserID)
	assert.Equal(t, first.ID, activeID)
}

func TestDropSessionResetsSelection(t *testing.T) {
	s, _ := newTestService()

	first := submit(t, s, "Første")
	second := submit(t, s, "Andet")
	require.NoError(t, s.Activate(context.Background(), testUserID, first.ID))

	s.DropSession(testUserID)

	// The next touch reloads from the store; the old selection is gone and
	// the first goal is active again.
	goals, activeID := snapshot(t, s, testUserID)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, activeID)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	s, _ := newTestService()

	submit(t, s, "Mit mål")

	goals, _ := snapshot(t, s, testUserID+1)
	assert.Empty(t, goals)
}

func TestSnapshotLoadsExistingGoals(t *testing.T) {
	store := newFakeStore()
	_, err := store.Create(context.Background(), testUserID, model.Goal{Title: "Gammelt mål"})
	require.NoError(t, err)

	// A fresh service, as after a restart: the store has goals but no
	// sign-in callback has run for the user.
	s := NewGoalService(store, nil)

	goals, activeID := snapshot(t, s, testUserID)
	require.Len(t, goals, 1)
	assert.Equal(t, "Gammelt mål", goals[0].Title)
	assert.Equal(t, goals[0].ID, activeID)
}

func TestMutationWithoutSessionMatchesStore(t *testing.T) {
	store := newFakeStore()
	seeded, err := store.Create(context.Background(), testUserID, model.Goal{Title: "Mål"})
	require.NoError(t, err)

	s := NewGoalService(store, nil)

	updated, err := s.ChangeStatus(context.Background(), testUserID, seeded.ID, model.StatusGreen)
	require.NoError(t, err)
	assert.Equal(t, model.StatusGreen, updated.Status)

	goals, _ := snapshot(t, s, testUserID)
	require.Len(t, goals, 1)
	assert.Equal(t, store.goals[seeded.ID], goals[0])
}

func TestLastCompletedStatusUpdateWins(t *testing.T) {
	s, store := newTestService()
	goal := submit(t, s, "Mål")

	started := make(chan struct{})
	release := make(chan struct{})
	store.updateStarted = func(changes model.GoalChanges) {
		if changes.Status != nil && *changes.Status == model.StatusYellow {
			close(started)
			<-release
		}
	}

	// The yellow update is issued first but held open in the store while
	// the green one starts and completes.
	done := make(chan error, 1)
	go func() {
		_, err := s.ChangeStatus(context.Background(), testUserID, goal.ID, model.StatusYellow)
		done <- err
	}()
	<-started

	_, err := s.ChangeStatus(context.Background(), testUserID, goal.ID, model.StatusGreen)
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	// Yellow completed last, so both the store and the session hold yellow.
	goals, _ := snapshot(t, s, testUserID)
	assert.Equal(t, model.StatusYellow, goals[0].Status)
	assert.Equal(t, store.goals[goal.ID], goals[0])
}
