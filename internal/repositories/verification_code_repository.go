package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tabi/internal/infra"
	dbm "tabi/internal/models/db_models"
)

// VerificationCodeRepository is the table-backed keyed TTL store.
type VerificationCodeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db, now: time.Now}
}

func (r *VerificationCodeRepository) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	now := r.now()
	row := dbm.VerificationCode{
		Subject:   key,
		Value:     value,
		ExpiresAt: now.Add(ttl).Unix(),
		CreatedAt: now.Unix(),
	}
	return infra.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "created_at"}),
	}).Create(&row).Error
}

// GetAndConsume returns the stored value and deletes it. A value that is
// missing, expired, or consumed concurrently reports ok=false.
func (r *VerificationCodeRepository) GetAndConsume(ctx context.Context, key string) (string, bool, error) {
	var row dbm.VerificationCode
	err := infra.Conn(ctx, r.db).Where("subject = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	res := infra.Conn(ctx, r.db).
		Where("subject = ? AND value = ?", key, row.Value).
		Delete(&dbm.VerificationCode{})
	if res.Error != nil {
		return "", false, res.Error
	}
	if res.RowsAffected == 0 || r.now().Unix() > row.ExpiresAt {
		return "", false, nil
	}
	return row.Value, true, nil
}

// DeleteExpired purges codes that can no longer be consumed.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := infra.Conn(ctx, r.db).
		Where("expires_at < ?", r.now().Unix()).
		Delete(&dbm.VerificationCode{})
	return res.RowsAffected, res.Error
}
