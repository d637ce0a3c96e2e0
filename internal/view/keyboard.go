package view

import "praktikmaal_backend/internal/model"

// Keys the tab strip responds to.
const (
	KeyEnter      = "Enter"
	KeySpace      = " "
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// HandleTabKey resolves a key press on the tab strip to the goal that should
// become active. Enter and Space activate the focused tab; the arrow keys
// move one tab left or right with circular wrap. The second return value is
// false when the key is not part of the tab strip contract or the focused
// goal no longer exists.
func HandleTabKey(goals []model.Goal, focusedID, key string) (string, bool) {
	if len(goals) == 0 {
		return "", false
	}

	idx := -1
	for i := range goals {
		if goals[i].ID == focusedID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", false
	}

	switch key {
	case KeyEnter, KeySpace:
		return goals[idx].ID, true
	case KeyArrowRight:
		return goals[(idx+1)%len(goals)].ID, true
	case KeyArrowLeft:
		return goals[(idx-1+len(goals))%len(goals)].ID, true
	}
	return "", false
}
