package model

type GoalStatus string

const (
	StatusRed    GoalStatus = "red"
	StatusYellow GoalStatus = "yellow"
	StatusGreen  GoalStatus = "green"
)

// DefaultGoalColor is the tab accent used when the user picks none.
const DefaultGoalColor = "#66BB6A"

// StatusLabels maps a status to its Danish display label.
var StatusLabels = map[GoalStatus]string{
	StatusRed:    "Rød",
	StatusYellow: "Gul",
	StatusGreen:  "Grøn",
}

// ValidStatus reports whether s is one of the three traffic-light values.
func ValidStatus(s GoalStatus) bool {
	_, ok := StatusLabels[s]
	return ok
}

// Attachment is the portable representation of a file attached to a goal.
// Data holds the raw bytes encoded as standard base64.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// Goal is a single praktikmål. The attachment is flattened into columns the
// same way the goals table stores it; use Attachment()/SetAttachment and
// never touch the Pdf* fields directly outside the repository layer.
type Goal struct {
	UUIDBase
	UserID      uint       `gorm:"index;type:bigint unsigned" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      GoalStatus `gorm:"type:enum('red','yellow','green');default:'red'" json:"status"`
	Reflection  string     `gorm:"type:text" json:"reflection"`
	Color       string     `gorm:"size:7;default:'#66BB6A'" json:"color"`

	PdfName *string `gorm:"size:255" json:"-"`
	PdfData *string `gorm:"type:longtext" json:"-"`
	PdfSize *int64  `json:"-"`
	PdfType *string `gorm:"size:100" json:"-"`
}

func (Goal) TableName() string {
	return "goals"
}

// Attachment assembles the flattened columns back into an Attachment record,
// or nil when the goal has none.
func (g *Goal) Attachment() *Attachment {
	if g.PdfData == nil || g.PdfName == nil {
		return nil
	}
	a := &Attachment{Name: *g.PdfName, Data: *g.PdfData}
	if g.PdfSize != nil {
		a.Size = *g.PdfSize
	}
	if g.PdfType != nil {
		a.Type = *g.PdfType
	}
	return a
}

// SetAttachment flattens a into the goal's columns; nil clears them all.
func (g *Goal) SetAttachment(a *Attachment) {
	if a == nil {
		g.PdfName = nil
		g.PdfData = nil
		g.PdfSize = nil
		g.PdfType = nil
		return
	}
	name, data, size, typ := a.Name, a.Data, a.Size, a.Type
	g.PdfName = &name
	g.PdfData = &data
	g.PdfSize = &size
	g.PdfType = &typ
}

// GoalChanges is a partial update: nil fields are left untouched.
// Attachment and RemoveAttachment are mutually exclusive; RemoveAttachment
// wins if both are set.
type GoalChanges struct {
	Title            *string
	Description      *string
	Status           *GoalStatus
	Reflection       *string
	Color            *string
	Attachment       *Attachment
	RemoveAttachment bool
}
