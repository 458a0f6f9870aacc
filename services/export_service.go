// services/export_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/repository"
)

// ExportService builds the admin earnings and payout statement workbook
type ExportService struct {
	store    *repository.Store
	profiles *ProfileService
}

// NewExportService creates a new export service
func NewExportService(store *repository.Store, profiles *ProfileService) *ExportService {
	return &ExportService{
		store:    store,
		profiles: profiles,
	}
}

// BuildPayoutStatement generates an Excel file with one sheet summarizing
// each driver's ledger and one listing every payout request. Both sheets are
// built from a single snapshot so the totals reconcile.
func (s *ExportService) BuildPayoutStatement() (*excelize.File, string, error) {
	trips, payouts := s.store.Snapshot()

	f := excelize.NewFile()

	if err := s.createDriverSummarySheet(f, trips, payouts); err != nil {
		return nil, "", fmt.Errorf("failed to create driver summary sheet: %v", err)
	}
	if err := s.createPayoutLedgerSheet(f, payouts); err != nil {
		return nil, "", fmt.Errorf("failed to create payout ledger sheet: %v", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("Payout_Statement_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, filename, nil
}

// createDriverSummarySheet creates Sheet 1: one row per driver
func (s *ExportService) createDriverSummarySheet(f *excelize.File, trips []models.TripRequest, payouts []models.PayoutRequest) error {
	sheetName := "Driver Summary"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"Driver", "Name", "Completed Trips", "Total Earned", "Reserved", "Available"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	drivers := s.collectDrivers(trips, payouts)
	for row, driver := range drivers {
		name := ""
		if profile, ok := s.profiles.Lookup(driver); ok {
			name = profile.FullName
		}

		var completed int
		for _, t := range trips {
			if t.Status == models.TripCompleted && t.Driver != nil && *t.Driver == driver {
				completed++
			}
		}
		earned := models.DriverLifetimeEarnings(trips, driver)
		available := models.DriverBalance(trips, payouts, driver)

		values := []interface{}{driver, name, completed, earned, earned - available, available}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

// createPayoutLedgerSheet creates Sheet 2: every payout request
func (s *ExportService) createPayoutLedgerSheet(f *excelize.File, payouts []models.PayoutRequest) error {
	sheetName := "Payout Ledger"
	f.NewSheet(sheetName)

	headers := []string{"ID", "Driver", "Amount", "Status", "Created At", "Processed At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	sort.Slice(payouts, func(i, j int) bool { return payouts[i].ID < payouts[j].ID })
	for row, p := range payouts {
		processed := ""
		if p.ProcessedAt != nil {
			processed = p.ProcessedAt.Format("2006-01-02 15:04")
		}

		values := []interface{}{p.ID, p.Driver, p.Amount, string(p.Status), p.CreatedAt.Format("2006-01-02 15:04"), processed}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}
	return nil
}

// collectDrivers gathers every driver that appears in the ledger or the
// driver directory, sorted for stable output
func (s *ExportService) collectDrivers(trips []models.TripRequest, payouts []models.PayoutRequest) []string {
	seen := make(map[string]bool)
	for _, t := range trips {
		if t.Driver != nil {
			seen[*t.Driver] = true
		}
	}
	for _, p := range payouts {
		seen[p.Driver] = true
	}
	for _, profile := range s.profiles.Drivers() {
		seen[profile.Principal] = true
	}

	drivers := make([]string, 0, len(seen))
	for driver := range seen {
		drivers = append(drivers, driver)
	}
	sort.Strings(drivers)
	return drivers
}
