package export

import (
	"context"
	"path/filepath"
	"testing"

	"salon-booking/models"

	"github.com/xuri/excelize/v2"
)

type staticSource []models.Booking

func (s staticSource) ListAll(context.Context) ([]models.Booking, error) {
	return s, nil
}

func TestWriteBookings(t *testing.T) {
	src := staticSource{
		{ID: 1, UserID: 7, Fullname: "Alice", Email: "a@x.com", Service: "Haircut", Date: "2024-01-01", Time: "10:00", PaymentMethod: "cash"},
		{ID: 2, UserID: 8, Fullname: "Bob", Email: "b@x.com", Service: "Manicure", Date: "2024-01-02", Time: "11:00", PaymentMethod: "card", TransactionID: "tx-9"},
	}
	path := filepath.Join(t.TempDir(), "out", "bookings.xlsx")

	n, err := WriteBookings(context.Background(), src, path)
	if err != nil {
		t.Fatalf("WriteBookings failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][5] != "Haircut" || rows[2][10] != "tx-9" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
