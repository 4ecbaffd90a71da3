package models

// Project groups tasks and is worked on by one or more teams. The sentinel
// team is never attached to a project; the service layer rejects it.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:65;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Teams       []Team `gorm:"many2many:project_teams" json:"teams,omitempty"`
}

func (Project) TableName() string { return "projects" }
