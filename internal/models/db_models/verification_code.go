package db_models

// VerificationCode backs the keyed TTL store used for signup codes.
type VerificationCode struct {
	Subject   string `gorm:"primaryKey;size:255"`
	Value     string `gorm:"size:64;not null"`
	ExpiresAt int64  `gorm:"index;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}
