package implementation

import (
	"context"
	"errors"

	"property-card-be/internal/entity"
	"property-card-be/internal/model"
	"property-card-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResidentRepositoryImpl struct {
	db *gorm.DB
}

func NewResidentRepository(db *gorm.DB) contract.ResidentRepository {
	return &ResidentRepositoryImpl{db: db}
}

func (r *ResidentRepositoryImpl) FindByUserAndUnit(ctx context.Context, userId uuid.UUID, unitId *uuid.UUID) (*entity.ResidentInfo, error) {
	var resident model.Resident
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if unitId != nil {
		query = query.Where("unit_id = ?", *unitId)
	}
	if err := query.First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	info := &entity.ResidentInfo{
		ResidentId: resident.Id,
		Email:      resident.Email,
	}

	lookupUnit := unitId
	if lookupUnit == nil {
		lookupUnit = resident.UnitId
	}
	if lookupUnit != nil {
		var unit model.Unit
		if err := r.db.WithContext(ctx).Where("id = ?", *lookupUnit).First(&unit).Error; err == nil {
			info.BuildingId = unit.BuildingId
			info.ApartmentNumber = unit.ApartmentNumber
			info.BuildingName = unit.BuildingName
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return info, nil
}
