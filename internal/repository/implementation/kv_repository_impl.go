package implementation

import (
	"context"
	"errors"

	"diacare-bot/internal/model"
	"diacare-bot/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kvRepository struct {
	db *gorm.DB
}

func NewKeyValueRepository(db *gorm.DB) contract.IKeyValueRepository {
	return &kvRepository{db: db}
}

func (r *kvRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var record model.KeyValueRecord
	err := r.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(record.Value), true, nil
}

func (r *kvRepository) Save(ctx context.Context, key string, value []byte) error {
	record := model.KeyValueRecord{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}
