package models

import (
	"gorm.io/gorm"
)

// DefaultTeamName is the reserved name of the sentinel "no team" row. Workers
// without a team are attached to it and it never appears in team listings.
const DefaultTeamName = "No team"

type Team struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"uniqueIndex;size:65;not null" json:"name"`
	Workers  []Worker  `gorm:"foreignKey:TeamID" json:"workers,omitempty"`
	Projects []Project `gorm:"many2many:project_teams" json:"projects,omitempty"`
}

func (Team) TableName() string { return "teams" }

// defaultTeamID caches the sentinel row's primary key after bootstrap.
var defaultTeamID uint

// EnsureDefaultTeam gets or creates the sentinel team and caches its ID.
// It is idempotent and is called once at startup; the Worker save hook also
// calls it as a fallback so a worker can never end up teamless.
func EnsureDefaultTeam(db *gorm.DB) (*Team, error) {
	var team Team
	err := db.Where("name = ?", DefaultTeamName).First(&team).Error
	if err == nil {
		defaultTeamID = team.ID
		return &team, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	team = Team{Name: DefaultTeamName}
	if err := db.Create(&team).Error; err != nil {
		return nil, err
	}
	defaultTeamID = team.ID
	return &team, nil
}

// DefaultTeamID returns the cached sentinel team ID (0 before bootstrap).
func DefaultTeamID() uint {
	return defaultTeamID
}

// IsDefaultTeam reports whether id is the sentinel team.
func IsDefaultTeam(id uint) bool {
	return defaultTeamID != 0 && id == defaultTeamID
}
