package services

import (
	"context"

	"github.com/rentfleet/apiserver/types"
)

// VehicleRepository defines persistence operations for cars.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle types.Vehicle) (types.Vehicle, error)
}

// VehicleService encapsulates fleet use-cases.
type VehicleService struct {
	repo   VehicleRepository
	events *Events
}

func NewVehicleService(repo VehicleRepository, events *Events) *VehicleService {
	return &VehicleService{repo: repo, events: events}
}

// Create stores a new car. Identical payloads produce distinct records.
func (s *VehicleService) Create(ctx context.Context, vehicle types.Vehicle) (types.Vehicle, error) {
	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return types.Vehicle{}, err
	}

	s.events.publish(ctx, ChannelVehicleCreated, vehicleCreatedEvent{
		ID:          created.ID,
		Category:    created.Category,
		Model:       created.Model,
		NumberPlate: created.NumberPlate,
		CurrentCity: created.CurrentCity,
		RentPerHour: created.RentPerHour,
	})
	return created, nil
}
