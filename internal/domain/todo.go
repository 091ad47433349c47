package domain

// Todo is a single task owned by exactly one user. Rows are hard-deleted.
type Todo struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Complete    bool   `gorm:"not null;default:false"`
	OwnerID     uint   `gorm:"not null;index"`
	Owner       *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (Todo) TableName() string { return "todos" }
