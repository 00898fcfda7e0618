package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carcare/internal/domain/record"
	"carcare/internal/domain/vehicle"
	"carcare/internal/platform/server"
	usecaseRecords "carcare/internal/usecase/records"
	usecaseSearch "carcare/internal/usecase/search"
	usecaseStats "carcare/internal/usecase/stats"
	usecaseVehicles "carcare/internal/usecase/vehicles"
)

const testAPIBasePath = "/api/v1"

func apiPath(route string) string {
	return testAPIBasePath + route
}

// testAuth injects a fixed caller identity, standing in for the bearer-auth
// middleware.
func testAuth(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(server.ContextWithUserID(r.Context(), userID)))
		})
	}
}

// testServer wraps httptest.Server for handler testing.
type testServer struct {
	*httptest.Server
}

func newTestServer(cfg RouterConfig) *testServer {
	if cfg.APIBasePath == "" {
		cfg.APIBasePath = testAPIBasePath
	}
	return &testServer{Server: httptest.NewServer(NewRouter(cfg))}
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

func assertContentType(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	got := resp.Header.Get("Content-Type")
	if got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}

func assertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int) map[string]string {
	t.Helper()
	assertStatus(t, resp, expectedStatus)
	assertContentType(t, resp, "application/json")

	var result map[string]string
	decodeJSON(t, resp, &result)
	if _, ok := result["error"]; !ok {
		t.Error("error response missing 'error' field")
	}
	return result
}

// Mock repositories for isolated handler testing. Each keeps rows in memory
// and honors owner scoping and the soft-delete flag.

type mockTripRepository struct {
	rows      map[record.ID]*record.TripRecord
	searchErr error
}

func newMockTripRepository() *mockTripRepository {
	return &mockTripRepository{rows: map[record.ID]*record.TripRecord{}}
}

func (m *mockTripRepository) Create(ctx context.Context, trip *record.TripRecord) error {
	trip.CreatedOn = time.Now().UTC()
	m.rows[trip.ID] = trip
	return nil
}

func (m *mockTripRepository) Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TripRecord, error) {
	trip, ok := m.rows[id]
	if !ok || trip.OwnerID != ownerID || trip.IsDeleted {
		return nil, record.ErrNotFound
	}
	copied := *trip
	return &copied, nil
}

func (m *mockTripRepository) Update(ctx context.Context, trip *record.TripRecord) error {
	existing, ok := m.rows[trip.ID]
	if !ok || existing.OwnerID != trip.OwnerID || existing.IsDeleted {
		return record.ErrNotFound
	}
	m.rows[trip.ID] = trip
	return nil
}

func (m *mockTripRepository) SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error {
	trip, ok := m.rows[id]
	if !ok || trip.OwnerID != ownerID || trip.IsDeleted {
		return record.ErrNotFound
	}
	trip.IsDeleted = true
	trip.DeletedOn = &deletedOn
	return nil
}

func (m *mockTripRepository) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TripRecord, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	live := m.liveRows(filter.OwnerID)
	return sliceWindow(live, window), nil
}

func (m *mockTripRepository) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return int64(len(m.liveRows(filter.OwnerID))), nil
}

func (m *mockTripRepository) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, trip := range m.liveRows(ownerID) {
		if trip.Cost != nil {
			sum = sum.Add(*trip.Cost)
		}
	}
	return sum, nil
}

func (m *mockTripRepository) liveRows(ownerID uuid.UUID) []*record.TripRecord {
	var live []*record.TripRecord
	for _, trip := range m.rows {
		if trip.OwnerID == ownerID && !trip.IsDeleted {
			live = append(live, trip)
		}
	}
	return live
}

type mockTaxRepository struct {
	rows map[record.ID]*record.TaxRecord
}

func newMockTaxRepository() *mockTaxRepository {
	return &mockTaxRepository{rows: map[record.ID]*record.TaxRecord{}}
}

func (m *mockTaxRepository) Create(ctx context.Context, tax *record.TaxRecord) error {
	tax.CreatedOn = time.Now().UTC()
	m.rows[tax.ID] = tax
	return nil
}

func (m *mockTaxRepository) Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TaxRecord, error) {
	tax, ok := m.rows[id]
	if !ok || tax.OwnerID != ownerID || tax.IsDeleted {
		return nil, record.ErrNotFound
	}
	copied := *tax
	return &copied, nil
}

func (m *mockTaxRepository) Update(ctx context.Context, tax *record.TaxRecord) error {
	existing, ok := m.rows[tax.ID]
	if !ok || existing.OwnerID != tax.OwnerID || existing.IsDeleted {
		return record.ErrNotFound
	}
	m.rows[tax.ID] = tax
	return nil
}

func (m *mockTaxRepository) SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error {
	tax, ok := m.rows[id]
	if !ok || tax.OwnerID != ownerID || tax.IsDeleted {
		return record.ErrNotFound
	}
	tax.IsDeleted = true
	tax.DeletedOn = &deletedOn
	return nil
}

func (m *mockTaxRepository) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TaxRecord, error) {
	return sliceWindow(m.liveRows(filter.OwnerID), window), nil
}

func (m *mockTaxRepository) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return int64(len(m.liveRows(filter.OwnerID))), nil
}

func (m *mockTaxRepository) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tax := range m.liveRows(ownerID) {
		sum = sum.Add(tax.Cost)
	}
	return sum, nil
}

func (m *mockTaxRepository) liveRows(ownerID uuid.UUID) []*record.TaxRecord {
	var live []*record.TaxRecord
	for _, tax := range m.rows {
		if tax.OwnerID == ownerID && !tax.IsDeleted {
			live = append(live, tax)
		}
	}
	return live
}

type mockServiceRepository struct {
	rows map[record.ID]*record.ServiceRecord
}

func newMockServiceRepository() *mockServiceRepository {
	return &mockServiceRepository{rows: map[record.ID]*record.ServiceRecord{}}
}

func (m *mockServiceRepository) Create(ctx context.Context, svc *record.ServiceRecord) error {
	svc.CreatedOn = time.Now().UTC()
	m.rows[svc.ID] = svc
	return nil
}

func (m *mockServiceRepository) Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.ServiceRecord, error) {
	svc, ok := m.rows[id]
	if !ok || svc.OwnerID != ownerID || svc.IsDeleted {
		return nil, record.ErrNotFound
	}
	copied := *svc
	return &copied, nil
}

func (m *mockServiceRepository) Update(ctx context.Context, svc *record.ServiceRecord) error {
	existing, ok := m.rows[svc.ID]
	if !ok || existing.OwnerID != svc.OwnerID || existing.IsDeleted {
		return record.ErrNotFound
	}
	m.rows[svc.ID] = svc
	return nil
}

func (m *mockServiceRepository) SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error {
	svc, ok := m.rows[id]
	if !ok || svc.OwnerID != ownerID || svc.IsDeleted {
		return record.ErrNotFound
	}
	svc.IsDeleted = true
	svc.DeletedOn = &deletedOn
	return nil
}

func (m *mockServiceRepository) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.ServiceRecord, error) {
	return sliceWindow(m.liveRows(filter.OwnerID), window), nil
}

func (m *mockServiceRepository) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return int64(len(m.liveRows(filter.OwnerID))), nil
}

func (m *mockServiceRepository) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, svc := range m.liveRows(ownerID) {
		sum = sum.Add(svc.Cost)
	}
	return sum, nil
}

func (m *mockServiceRepository) liveRows(ownerID uuid.UUID) []*record.ServiceRecord {
	var live []*record.ServiceRecord
	for _, svc := range m.rows {
		if svc.OwnerID == ownerID && !svc.IsDeleted {
			live = append(live, svc)
		}
	}
	return live
}

func sliceWindow[T any](rows []T, window record.Window) []T {
	if window.Offset >= len(rows) {
		return nil
	}
	end := window.Offset + window.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[window.Offset:end]
}

type mockVehicleRepository struct {
	rows map[vehicle.ID]*vehicle.Vehicle
}

func newMockVehicleRepository() *mockVehicleRepository {
	return &mockVehicleRepository{rows: map[vehicle.ID]*vehicle.Vehicle{}}
}

func (m *mockVehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	v.CreatedOn = time.Now().UTC()
	m.rows[v.ID] = v
	return nil
}

func (m *mockVehicleRepository) Get(ctx context.Context, id vehicle.ID) (*vehicle.Vehicle, error) {
	v, ok := m.rows[id]
	if !ok || v.IsDeleted {
		return nil, vehicle.ErrNotFound
	}
	return v, nil
}

func (m *mockVehicleRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*vehicle.Vehicle, error) {
	var owned []*vehicle.Vehicle
	for _, v := range m.rows {
		if v.OwnerID == ownerID && !v.IsDeleted {
			owned = append(owned, v)
		}
	}
	return owned, nil
}

func (m *mockVehicleRepository) Owns(ctx context.Context, id vehicle.ID, ownerID uuid.UUID) (bool, error) {
	v, ok := m.rows[id]
	return ok && !v.IsDeleted && v.OwnerID == ownerID, nil
}

type mockHealthChecker struct {
	healthCheckFunc func(ctx context.Context) error
}

func (m *mockHealthChecker) HealthCheck(ctx context.Context) error {
	if m.healthCheckFunc != nil {
		return m.healthCheckFunc(ctx)
	}
	return nil
}

// Fixture bundling the usual services over fresh mocks.

type handlerFixture struct {
	trips    *mockTripRepository
	taxes    *mockTaxRepository
	services *mockServiceRepository
	vehicles *mockVehicleRepository
	owner    uuid.UUID
	vehicle  vehicle.ID
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		trips:    newMockTripRepository(),
		taxes:    newMockTaxRepository(),
		services: newMockServiceRepository(),
		vehicles: newMockVehicleRepository(),
		owner:    uuid.New(),
	}
	v := &vehicle.Vehicle{ID: uuid.New(), OwnerID: f.owner, Make: "Opel", Model: "Astra"}
	f.vehicles.rows[v.ID] = v
	f.vehicle = v.ID
	return f
}

func (f *handlerFixture) recordsService() *usecaseRecords.Service {
	return usecaseRecords.NewService(f.trips, f.taxes, f.services, f.vehicles, nil)
}

func (f *handlerFixture) searchService() *usecaseSearch.Service {
	return usecaseSearch.NewService(f.trips, f.taxes, f.services, nil, nil)
}

func (f *handlerFixture) statsService() *usecaseStats.Service {
	return usecaseStats.NewService(f.trips, f.taxes, f.services)
}

func (f *handlerFixture) vehiclesService() *usecaseVehicles.Service {
	return usecaseVehicles.NewService(f.vehicles)
}

func (f *handlerFixture) addTrip(t *testing.T, start, end string) *record.TripRecord {
	t.Helper()
	trip, err := record.NewTrip(record.TripParams{
		OwnerID:          f.owner,
		VehicleID:        f.vehicle,
		StartDestination: start,
		EndDestination:   end,
		MileageTravelled: 100,
	})
	if err != nil {
		t.Fatalf("build trip: %v", err)
	}
	if err := f.trips.Create(context.Background(), trip); err != nil {
		t.Fatalf("store trip: %v", err)
	}
	return trip
}

func (f *handlerFixture) addService(t *testing.T, title, cost string) *record.ServiceRecord {
	t.Helper()
	svc, err := record.NewService(record.ServiceParams{
		OwnerID:     f.owner,
		VehicleID:   f.vehicle,
		Title:       title,
		PerformedOn: time.Now().UTC(),
		Mileage:     120000,
		Cost:        decimal.RequireFromString(cost),
	})
	if err != nil {
		t.Fatalf("build service record: %v", err)
	}
	if err := f.services.Create(context.Background(), svc); err != nil {
		t.Fatalf("store service record: %v", err)
	}
	return svc
}

func (f *handlerFixture) addTax(t *testing.T, title, cost string) *record.TaxRecord {
	t.Helper()
	now := time.Now().UTC()
	tax, err := record.NewTax(record.TaxParams{
		OwnerID:   f.owner,
		VehicleID: f.vehicle,
		Title:     title,
		ValidFrom: now,
		ValidTo:   now.AddDate(1, 0, 0),
		Cost:      decimal.RequireFromString(cost),
	})
	if err != nil {
		t.Fatalf("build tax record: %v", err)
	}
	if err := f.taxes.Create(context.Background(), tax); err != nil {
		t.Fatalf("store tax record: %v", err)
	}
	return tax
}
