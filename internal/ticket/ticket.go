// Package ticket renders booking tickets as PDF.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

type Ticket struct {
	BookingID   string
	TourName    string
	Summary     string
	StartDate   *time.Time
	DurationDay int
	Customer    string
	Email       string
	Price       float64
	Currency    string
	Paid        bool
	IssuedAt    time.Time
	// VerifyURL is encoded in the QR code.
	VerifyURL string
}

// Render returns a single page A4 ticket.
func Render(t Ticket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(40, 180, 135)
	pdf.Cell(0, 15, "NATOURS TOUR TICKET")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(18)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 55, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	line := func(format string, args ...any) {
		pdf.SetX(20)
		pdf.Cell(0, 8, tr(fmt.Sprintf(format, args...)))
		pdf.Ln(6)
	}
	line("Booking: %s", t.BookingID)
	line("Name: %s", t.Customer)
	line("Email: %s", t.Email)
	line("Total: %.2f %s", t.Price, t.Currency)
	if t.Paid {
		line("Status: PAID")
	} else {
		line("Status: PAYMENT PENDING")
	}

	if t.VerifyURL != "" {
		png, err := qrcode.Encode(t.VerifyURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "png"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("qr", 145, yStart+5, 45, 0, false, opts, 0, "")
	}

	pdf.SetY(yStart + 63)
	section(pdf, "TOUR")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(t.TourName))
	pdf.Ln(6)
	if t.StartDate != nil {
		pdf.Cell(0, 8, "Starts: "+t.StartDate.Format("January 2, 2006"))
		pdf.Ln(6)
	}
	if t.DurationDay > 0 {
		pdf.Cell(0, 8, fmt.Sprintf("Duration: %d days", t.DurationDay))
		pdf.Ln(6)
	}
	if t.Summary != "" {
		pdf.MultiCell(0, 7, tr(t.Summary), "", "", false)
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(288)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, "Issued "+t.IssuedAt.Format(time.RFC1123), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
}
