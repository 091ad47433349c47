package domain

// User is the account a Todo belongs to. The table is owned by the auth
// service; this module only reads it through foreign keys.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:320"`
	Username  string `gorm:"uniqueIndex;size:120;not null"`
	FirstName string `gorm:"size:120"`
	LastName  string `gorm:"size:120"`
	IsActive  bool   `gorm:"not null;default:true"`
}

func (User) TableName() string { return "users" }
