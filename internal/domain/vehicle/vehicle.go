// Package vehicle holds the vehicle aggregate records attach to.
package vehicle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidVehicle signals invalid vehicle parameters.
var ErrInvalidVehicle = errors.New("invalid vehicle")

// ErrNotFound signals that a vehicle does not exist or is soft-deleted.
var ErrNotFound = errors.New("vehicle not found")

// ID represents a vehicle identifier.
type ID = uuid.UUID

// Vehicle represents one registered vehicle owned by a single user.
type Vehicle struct {
	ID        ID
	OwnerID   uuid.UUID
	Make      string
	Model     string
	CreatedOn time.Time
	IsDeleted bool
	DeletedOn *time.Time
}

// Params holds the input values for registering a vehicle.
type Params struct {
	OwnerID uuid.UUID
	Make    string
	Model   string
}

// New creates a Vehicle after validating params.
func New(params Params) (*Vehicle, error) {
	if params.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidVehicle)
	}
	if strings.TrimSpace(params.Make) == "" {
		return nil, fmt.Errorf("%w: make is required", ErrInvalidVehicle)
	}
	if strings.TrimSpace(params.Model) == "" {
		return nil, fmt.Errorf("%w: model is required", ErrInvalidVehicle)
	}
	return &Vehicle{
		ID:      uuid.New(),
		OwnerID: params.OwnerID,
		Make:    strings.TrimSpace(params.Make),
		Model:   strings.TrimSpace(params.Model),
	}, nil
}
