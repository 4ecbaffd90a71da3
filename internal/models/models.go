package models

// Name-keyed lookup entities. Position, Tag and TaskType have no behavior
// beyond display; Team additionally carries the sentinel-team machinery in
// team.go.

type Position struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:65;not null" json:"name"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:65;not null" json:"name"`
}

type TaskType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:65;not null" json:"name"`
}

// TableName overrides
func (Position) TableName() string { return "positions" }
func (Tag) TableName() string      { return "tags" }
func (TaskType) TableName() string { return "task_types" }
