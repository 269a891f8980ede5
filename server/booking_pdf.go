package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/jrsteele09/go-cinema-booking/internal/utils"
	"github.com/jrsteele09/go-cinema-booking/model"
	"github.com/rs/zerolog/log"
)

const bookingPDFName = "booking-details.pdf"

// BookingPDFHandler downloads the confirmation of a booking as a PDF
func (s *Server) BookingPDFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := s.confirmedBooking(w, r)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := WriteBookingPDF(&buf, b, time.Now()); err != nil {
			log.Err(err).Int64("bookingId", b.BookingID).Msg("Failed to generate booking PDF")
			s.renderError(w, r, http.StatusInternalServerError, "Failed to generate the booking PDF.")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+bookingPDFName+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	}
}

// WriteBookingPDF renders the booking confirmation document.
func WriteBookingPDF(out io.Writer, b model.Booking, issued time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Confirmation", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Booking Confirmation", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Booking ID: %d", b.BookingID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Date: "+issued.Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string, rows [][2]string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, title, "B", 1, "L", false, 0, "")
		pdf.Ln(2)
		for _, row := range rows {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(55, 7, row[0]+":", "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	user := utils.Value(b.User)
	section("User Information", [][2]string{
		{"Name", user.FullName()},
		{"Email", user.EmailID},
		{"Phone", user.PhoneNumber},
	})

	show := utils.Value(b.Show)
	movie := utils.Value(show.Movie)
	screen := ""
	if show.Screen != nil {
		screen = strconv.FormatInt(show.Screen.ScreenID, 10)
	}
	section("Show Details", [][2]string{
		{"Movie", movie.Name},
		{"Genre", movie.Genre},
		{"Language", movie.Language},
		{"Date", show.ShowDate},
		{"Time", show.ShowTime.HourMinute()},
		{"Theatre", show.TheatreName()},
		{"Screen", screen},
		{"Seats Remaining (Gold)", strconv.Itoa(show.SeatsRemainingGold)},
		{"Seats Remaining (Silver)", strconv.Itoa(show.SeatsRemainingSilver)},
	})

	section("Payment Information", [][2]string{
		{"Tickets", strconv.Itoa(b.NoOfTickets)},
		{"Total Cost", fmt.Sprintf("%.2f", b.TotalCost)},
		{"Name on Card", b.NameOnCard},
	})

	return pdf.Output(out)
}
