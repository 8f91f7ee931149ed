// Package ticket renders a one-page PDF e-ticket for a confirmed booking.
package ticket

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/phpdave11/gofpdf"
)

func Render(c domain.Confirmation) ([]byte, error) {
	if c.Code == "" {
		return nil, errors.New("confirmation code is empty")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+c.Code, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Booking reference: "+c.Code)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Passenger    : " + c.PassengerName,
		"Flight       : " + c.FlightNo,
		"Departure    : " + formatTime(c),
		"Gate         : " + orDash(c.Gate),
		"Seat         : " + c.SeatNo,
		"Class        : " + string(c.FareClass),
		fmt.Sprintf("Baggage      : %d", c.BaggageCount),
		"Price        : " + FormatPrice(c.PriceCents),
		"Booked at    : " + c.BookedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger and one seat. Please present it at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatPrice prints cents as a decimal amount, e.g. 150000 -> "1500.00".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func formatTime(c domain.Confirmation) string {
	if c.DepartureTime.IsZero() {
		return "-"
	}
	return c.DepartureTime.Format("2006-01-02 15:04 MST")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
