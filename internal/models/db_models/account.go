package db_models

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Nickname     string `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string `gorm:"not null"`
	ProfileImage string
	Bio          string
}
