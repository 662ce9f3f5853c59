// Package export renders schedules as iCalendar documents so staff can
// pull their day into an external calendar.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
)

const calendarProductID = "-//Praxis//Schedule//EN"

// WriteICS renders the bookings as one VEVENT each. Blocks export with
// their label as the summary; appointments with their type.
func WriteICS(w io.Writer, bookings []*domain.Booking) error {
	// The encoder refuses a VCALENDAR with no components, so an empty
	// day writes a minimal valid calendar directly.
	if len(bookings) == 0 {
		_, err := io.WriteString(w,
			"BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:"+calendarProductID+"\r\nEND:VCALENDAR\r\n")
		if err != nil {
			return fmt.Errorf("encode calendar: %w", err)
		}
		return nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProductID)

	for _, b := range bookings {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, b.ID().String()+"@praxis")
		event.Props.SetDateTime(ical.PropDateTimeStamp, b.UpdatedAt().UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, eventTime(b.Date(), b.Start().Minutes()))
		event.Props.SetDateTime(ical.PropDateTimeEnd, eventTime(b.Date(), b.End().Minutes()))
		event.Props.SetText(ical.PropSummary, summary(b))
		event.Props.SetText(ical.PropLocation, b.Location())
		if b.Note() != "" {
			event.Props.SetText(ical.PropDescription, b.Note())
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func summary(b *domain.Booking) string {
	if b.IsBlock() {
		return "Blocked: " + b.AppointmentType()
	}
	return b.AppointmentType()
}

func eventTime(day time.Time, minutes int) time.Time {
	return day.Add(time.Duration(minutes) * time.Minute)
}
