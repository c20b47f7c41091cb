package pdf

import (
	"bytes"
	"fmt"

	"bus-booking-backend/internal/model"

	"github.com/phpdave11/gofpdf"
)

// BuildETicket 產生訂位電子車票 PDF。booking 需已載入 Trip 與 Passengers。
func BuildETicket(booking *model.Booking) ([]byte, error) {
	if booking.Trip == nil {
		return nil, fmt.Errorf("booking %s missing trip data", booking.BookingRef)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS E-TICKET")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(40, 8, "PNR")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, booking.BookingRef)
	pdf.Ln(10)

	trip := booking.Trip
	rows := [][2]string{
		{"Route", fmt.Sprintf("%s - %s", trip.Origin, trip.Destination)},
		{"Travel Date", trip.TravelDate.Format("2006-01-02")},
		{"Departure", trip.DepartureTime},
		{"Arrival", trip.ArrivalTime},
		{"Vehicle", trip.VehicleReg},
		{"Status", string(booking.Status)},
		{"Payment", string(booking.PaymentStatus)},
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(40, 7, row[0])
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, row[1])
		pdf.Ln(7)
	}
	pdf.Ln(5)

	// 乘客與座位表
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 8, "Passenger", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Gender", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Seat", "1", 0, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range booking.Passengers {
		pdf.CellFormat(70, 8, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, p.Gender, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, p.SeatCode, "1", 0, "C", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(40, 8, "Total Fare")
	pdf.Cell(0, 8, fmt.Sprintf("%.2f", booking.FareTotal))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, "Please arrive at the boarding point 15 minutes before departure. "+
		"This ticket is valid only with a government-issued photo ID matching the passenger name.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render e-ticket: %w", err)
	}

	return buf.Bytes(), nil
}
