package model

import "time"

// SupervisorSession is a time-bounded grant that lets a user read every
// user's goals. Expired rows are treated as absent.
type SupervisorSession struct {
	BaseModel
	UserID    uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
}

func (SupervisorSession) TableName() string {
	return "supervisor_sessions"
}

// SupervisorCode is a one-time code that can be redeemed for a supervisor
// session. Used codes stay in the table for auditing.
type SupervisorCode struct {
	BaseModel
	Code     string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Used     bool       `gorm:"default:false" json:"used"`
	UsedBy   *uint      `gorm:"type:bigint unsigned" json:"usedBy,omitempty"`
	UsedAt   *time.Time `json:"usedAt,omitempty"`
	Disabled bool       `gorm:"default:false" json:"disabled"`
}

func (SupervisorCode) TableName() string {
	return "supervisor_codes"
}
