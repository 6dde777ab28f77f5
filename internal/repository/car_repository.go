package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washdesk/internal/model"
)

// CarRepository handles CRUD for cars. Cars carry no provider column; tenant
// scope goes through the owning client.
type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

func (r *CarRepository) Create(ctx context.Context, car *model.Car) error {
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	return nil
}

// ListByClient returns every car owned by the client. The vehicle fanout of
// job generation: zero cars is a valid, empty result.
func (r *CarRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Car, error) {
	var cars []model.Car
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&cars).Error
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) FindByPlate(ctx context.Context, clientID uuid.UUID, plate string) (*model.Car, error) {
	var car model.Car
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND plate_number = ?", clientID, plate).
		First(&car).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

// FindByID loads a car together with its client and checks the provider scope.
func (r *CarRepository) FindByID(ctx context.Context, providerID, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	err := r.db.WithContext(ctx).
		Preload("Client").
		First(&car, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if car.Client == nil || car.Client.ProviderID != providerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &car, nil
}

// ListByProvider pages through all cars of a provider's clients, optionally
// narrowed to one client.
func (r *CarRepository) ListByProvider(ctx context.Context, providerID, clientID uuid.UUID, page, limit int) ([]model.Car, int64, error) {
	var (
		cars  []model.Car
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Car{}).
		Joins("JOIN clients ON clients.id = cars.client_id").
		Where("clients.provider_id = ?", providerID)
	if clientID != uuid.Nil {
		q = q.Where("cars.client_id = ?", clientID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count cars: %w", err)
	}
	err := q.Order("cars.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cars).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list cars: %w", err)
	}
	return cars, total, nil
}

func (r *CarRepository) Save(ctx context.Context, car *model.Car) error {
	if err := r.db.WithContext(ctx).Save(car).Error; err != nil {
		return fmt.Errorf("save car: %w", err)
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.Car{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return nil
}
