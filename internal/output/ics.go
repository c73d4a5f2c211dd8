package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emersion/go-ical"
)

// ICSFormatter exports one all-day event per placed bill, dated on the
// paycheck that pays it.
type ICSFormatter struct{}

func (i ICSFormatter) Name() string { return "ics" }

func (i ICSFormatter) Format(r *Report) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//billplan//Paycheck Schedule//EN")

	stamp := r.Generated.UTC()
	for _, p := range r.Paychecks {
		for _, b := range p.Lines {
			ev := ical.NewEvent()
			ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s@%s.billplan", b.InstanceID, p.PayDate))
			ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
			ev.Props.SetText(ical.PropSummary, fmt.Sprintf("Pay %s %s", b.Bill.Name, r.Money(b.Amount)))
			ev.Props.SetDate(ical.PropDateTimeStart, p.PayDate.Time)
			ev.Props.SetDate(ical.PropDateTimeEnd, p.PayDate.AddDays(1).Time)
			ev.Props.SetText(ical.PropDescription, describe(b.DueDate.String(), p.SourceName, b.DaysLate, b.IsCriticallyLate, b.IsUnderfunded))
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func describe(due, source string, daysLate int, critical, underfunded bool) string {
	parts := []string{"Due " + due, "from " + source + " paycheck"}
	if daysLate > 0 {
		parts = append(parts, fmt.Sprintf("%d days late", daysLate))
	}
	if critical {
		parts = append(parts, "beyond allowable lateness")
	}
	if underfunded {
		parts = append(parts, "paycheck is short")
	}
	return strings.Join(parts, "; ")
}
