package service

import (
	"context"
	"time"

	"property-card-be/internal/entity"
	"property-card-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// IResidentDirectory resolves (userId, unitId) to a resident and their unit's
// display names. Returns (nil, nil) when nothing matches.
type IResidentDirectory interface {
	Resolve(ctx context.Context, userId uuid.UUID, unitId *uuid.UUID) (*entity.ResidentInfo, error)
}

type residentDirectory struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewResidentDirectory(uowFactory unitofwork.RepositoryFactory) IResidentDirectory {
	return &residentDirectory{
		uowFactory: uowFactory,
		cache:      gocache.New(10*time.Minute, 15*time.Minute),
	}
}

func cacheKey(userId uuid.UUID, unitId *uuid.UUID) string {
	if unitId == nil {
		return userId.String() + "/-"
	}
	return userId.String() + "/" + unitId.String()
}

func (d *residentDirectory) Resolve(ctx context.Context, userId uuid.UUID, unitId *uuid.UUID) (*entity.ResidentInfo, error) {
	key := cacheKey(userId, unitId)
	if cached, found := d.cache.Get(key); found {
		info := cached.(entity.ResidentInfo)
		return &info, nil
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	info, err := uow.ResidentRepository().FindByUserAndUnit(ctx, userId, unitId)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}

	d.cache.Set(key, *info, gocache.DefaultExpiration)
	return info, nil
}
