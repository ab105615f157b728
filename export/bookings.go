package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"salon-booking/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{
	"ID", "User ID", "Full name", "Email", "Phone", "Service",
	"Date", "Time", "Notes", "Payment method", "Transaction ID",
}

// BookingSource lists every stored booking.
type BookingSource interface {
	ListAll(ctx context.Context) ([]models.Booking, error)
}

// WriteBookings exports all bookings to an .xlsx file at path and returns
// the number of rows written.
func WriteBookings(ctx context.Context, src BookingSource, path string) (int, error) {
	bookings, err := src.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error getting bookings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("error creating export directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return 0, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return 0, fmt.Errorf("error creating style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, b := range bookings {
		row := []interface{}{
			b.ID, b.UserID, b.Fullname, b.Email, b.Phone, b.Service,
			b.Date, b.Time, b.Notes, b.PaymentMethod, b.TransactionID,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 10)
	f.SetColWidth(sheetName, "C", "K", 20)

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("error saving export: %w", err)
	}
	return len(bookings), nil
}
