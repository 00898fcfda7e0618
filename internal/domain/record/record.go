package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidRecord signals invalid record parameters.
var ErrInvalidRecord = errors.New("invalid record")

// ErrNotFound signals that a record does not exist or is soft-deleted.
var ErrNotFound = errors.New("record not found")

// ID represents a record identifier.
type ID = uuid.UUID

// costScale is the fixed number of fractional digits for money amounts.
const costScale = 2

// Deletable carries the shared soft-delete state. Records are never removed
// physically; read paths exclude rows where IsDeleted is set.
type Deletable struct {
	IsDeleted bool
	DeletedOn *time.Time
}

// TripRecord represents one logged trip. Cost is optional: it is derived at
// creation time from used fuel and fuel price when both are known and stays
// nil otherwise.
type TripRecord struct {
	ID               ID
	OwnerID          uuid.UUID
	VehicleID        uuid.UUID
	StartDestination string
	EndDestination   string
	MileageTravelled int64
	UsedFuel         *decimal.Decimal
	FuelPrice        *decimal.Decimal
	Cost             *decimal.Decimal
	VehicleMake      string
	VehicleModel     string
	CreatedOn        time.Time
	Deletable
}

// TripParams holds the input values for creating or editing a TripRecord.
type TripParams struct {
	OwnerID          uuid.UUID
	VehicleID        uuid.UUID
	StartDestination string
	EndDestination   string
	MileageTravelled int64
	UsedFuel         *decimal.Decimal
	FuelPrice        *decimal.Decimal
}

// NewTrip creates a TripRecord after validating params. The trip cost is
// fixed here; later fuel price changes do not rewrite history.
func NewTrip(params TripParams) (*TripRecord, error) {
	if err := validateTripParams(params); err != nil {
		return nil, err
	}
	return &TripRecord{
		ID:               uuid.New(),
		OwnerID:          params.OwnerID,
		VehicleID:        params.VehicleID,
		StartDestination: strings.TrimSpace(params.StartDestination),
		EndDestination:   strings.TrimSpace(params.EndDestination),
		MileageTravelled: params.MileageTravelled,
		UsedFuel:         params.UsedFuel,
		FuelPrice:        params.FuelPrice,
		Cost:             deriveTripCost(params.UsedFuel, params.FuelPrice),
	}, nil
}

// Update applies params to an existing trip, re-deriving the cost.
func (t *TripRecord) Update(params TripParams) error {
	if err := validateTripParams(params); err != nil {
		return err
	}
	t.VehicleID = params.VehicleID
	t.StartDestination = strings.TrimSpace(params.StartDestination)
	t.EndDestination = strings.TrimSpace(params.EndDestination)
	t.MileageTravelled = params.MileageTravelled
	t.UsedFuel = params.UsedFuel
	t.FuelPrice = params.FuelPrice
	t.Cost = deriveTripCost(params.UsedFuel, params.FuelPrice)
	return nil
}

func validateTripParams(params TripParams) error {
	if params.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", ErrInvalidRecord)
	}
	if params.VehicleID == uuid.Nil {
		return fmt.Errorf("%w: vehicle is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(params.StartDestination) == "" {
		return fmt.Errorf("%w: start destination is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(params.EndDestination) == "" {
		return fmt.Errorf("%w: end destination is required", ErrInvalidRecord)
	}
	if params.MileageTravelled < 0 {
		return fmt.Errorf("%w: mileage must be >= 0", ErrInvalidRecord)
	}
	if params.UsedFuel != nil && params.UsedFuel.IsNegative() {
		return fmt.Errorf("%w: used fuel must be >= 0", ErrInvalidRecord)
	}
	if params.FuelPrice != nil && params.FuelPrice.IsNegative() {
		return fmt.Errorf("%w: fuel price must be >= 0", ErrInvalidRecord)
	}
	return nil
}

func deriveTripCost(usedFuel, fuelPrice *decimal.Decimal) *decimal.Decimal {
	if usedFuel == nil || fuelPrice == nil {
		return nil
	}
	cost := usedFuel.Mul(*fuelPrice).Round(costScale)
	return &cost
}

// ServiceRecord represents one maintenance visit. Cost is mandatory.
type ServiceRecord struct {
	ID           ID
	OwnerID      uuid.UUID
	VehicleID    uuid.UUID
	Title        string
	PerformedOn  time.Time
	Mileage      int64
	Description  *string
	Cost         decimal.Decimal
	VehicleMake  string
	VehicleModel string
	CreatedOn    time.Time
	Deletable
}

// ServiceParams holds the input values for creating or editing a ServiceRecord.
type ServiceParams struct {
	OwnerID     uuid.UUID
	VehicleID   uuid.UUID
	Title       string
	PerformedOn time.Time
	Mileage     int64
	Description *string
	Cost        decimal.Decimal
}

// NewService creates a ServiceRecord after validating params.
func NewService(params ServiceParams) (*ServiceRecord, error) {
	if err := validateServiceParams(params); err != nil {
		return nil, err
	}
	return &ServiceRecord{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		VehicleID:   params.VehicleID,
		Title:       strings.TrimSpace(params.Title),
		PerformedOn: params.PerformedOn,
		Mileage:     params.Mileage,
		Description: trimOptional(params.Description),
		Cost:        params.Cost.Round(costScale),
	}, nil
}

// Update applies params to an existing service record.
func (s *ServiceRecord) Update(params ServiceParams) error {
	if err := validateServiceParams(params); err != nil {
		return err
	}
	s.VehicleID = params.VehicleID
	s.Title = strings.TrimSpace(params.Title)
	s.PerformedOn = params.PerformedOn
	s.Mileage = params.Mileage
	s.Description = trimOptional(params.Description)
	s.Cost = params.Cost.Round(costScale)
	return nil
}

func validateServiceParams(params ServiceParams) error {
	if params.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", ErrInvalidRecord)
	}
	if params.VehicleID == uuid.Nil {
		return fmt.Errorf("%w: vehicle is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(params.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecord)
	}
	if params.PerformedOn.IsZero() {
		return fmt.Errorf("%w: performed_on is required", ErrInvalidRecord)
	}
	if params.Mileage < 0 {
		return fmt.Errorf("%w: mileage must be >= 0", ErrInvalidRecord)
	}
	if params.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must be >= 0", ErrInvalidRecord)
	}
	return nil
}

// TaxRecord represents one tax payment with a validity window. Cost is
// mandatory.
type TaxRecord struct {
	ID           ID
	OwnerID      uuid.UUID
	VehicleID    uuid.UUID
	Title        string
	ValidFrom    time.Time
	ValidTo      time.Time
	Description  *string
	Cost         decimal.Decimal
	VehicleMake  string
	VehicleModel string
	CreatedOn    time.Time
	Deletable
}

// TaxParams holds the input values for creating or editing a TaxRecord.
type TaxParams struct {
	OwnerID     uuid.UUID
	VehicleID   uuid.UUID
	Title       string
	ValidFrom   time.Time
	ValidTo     time.Time
	Description *string
	Cost        decimal.Decimal
}

// NewTax creates a TaxRecord after validating params.
func NewTax(params TaxParams) (*TaxRecord, error) {
	if err := validateTaxParams(params); err != nil {
		return nil, err
	}
	return &TaxRecord{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		VehicleID:   params.VehicleID,
		Title:       strings.TrimSpace(params.Title),
		ValidFrom:   params.ValidFrom,
		ValidTo:     params.ValidTo,
		Description: trimOptional(params.Description),
		Cost:        params.Cost.Round(costScale),
	}, nil
}

// Update applies params to an existing tax record.
func (t *TaxRecord) Update(params TaxParams) error {
	if err := validateTaxParams(params); err != nil {
		return err
	}
	t.VehicleID = params.VehicleID
	t.Title = strings.TrimSpace(params.Title)
	t.ValidFrom = params.ValidFrom
	t.ValidTo = params.ValidTo
	t.Description = trimOptional(params.Description)
	t.Cost = params.Cost.Round(costScale)
	return nil
}

func validateTaxParams(params TaxParams) error {
	if params.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", ErrInvalidRecord)
	}
	if params.VehicleID == uuid.Nil {
		return fmt.Errorf("%w: vehicle is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(params.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecord)
	}
	if params.ValidFrom.IsZero() || params.ValidTo.IsZero() {
		return fmt.Errorf("%w: validity period is required", ErrInvalidRecord)
	}
	if !params.ValidTo.After(params.ValidFrom) {
		return fmt.Errorf("%w: valid_to must be after valid_from", ErrInvalidRecord)
	}
	if params.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must be >= 0", ErrInvalidRecord)
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
