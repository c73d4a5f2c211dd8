package calculation

import (
	"math"
	"sort"

	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/rgehrsitz/billplan/pkg/dateutil"
)

const (
	// WeeksPerMonth is the average number of weekly paychecks in a month.
	WeeksPerMonth = 4.345

	// BufferSlots is how many synthetic paychecks extend the merged timeline.
	BufferSlots = 2

	// DefaultPayPeriodDays applies when fewer than two paychecks exist.
	DefaultPayPeriodDays = 14
)

// GeneratePaychecks expands an income source's pay rule into ordered slots.
// A source without an anchor date yields no slots.
func GeneratePaychecks(source domain.IncomeSource, monthsToShow int) []domain.PaycheckSlot {
	if source.LastPayDate == nil || source.LastPayDate.IsZero() || monthsToShow <= 0 {
		return nil
	}
	anchor := *source.LastPayDate

	slot := func(d domain.Date) domain.PaycheckSlot {
		return domain.PaycheckSlot{
			Date:        d,
			SourceID:    source.ID,
			SourceName:  source.Name,
			GrossAmount: source.Amount,
		}
	}

	var slots []domain.PaycheckSlot
	switch source.Frequency {
	case domain.FrequencyWeekly:
		n := int(math.Round(WeeksPerMonth * float64(monthsToShow)))
		for i := 0; i < n; i++ {
			slots = append(slots, slot(anchor.AddDays(7*i)))
		}
	case domain.FrequencyBiweekly:
		for i := 0; i < 2*monthsToShow; i++ {
			slots = append(slots, slot(anchor.AddDays(14*i)))
		}
	case domain.FrequencyTwiceMonthly:
		first, second := source.PayDays()
		if first > second {
			first, second = second, first
		}
		for i := 0; i < monthsToShow; i++ {
			month := anchor.AddMonths(i)
			for _, day := range []int{first, second} {
				d := domain.DateOf(dateutil.ClampDay(month.Year(), month.Month(), day))
				// Only the first month may start after the anchor.
				if i > 0 || !d.Before(anchor) {
					slots = append(slots, slot(d))
				}
			}
		}
		sortSlots(slots)
	case domain.FrequencyMonthly:
		for i := 0; i < monthsToShow; i++ {
			slots = append(slots, slot(anchor.AddMonths(i)))
		}
	}
	return slots
}

// MergeTimeline generates every source's slots and sorts them into one timeline.
// Slots on the same date keep source order.
func MergeTimeline(sources []domain.IncomeSource, monthsToShow int) []domain.PaycheckSlot {
	var all []domain.PaycheckSlot
	for _, src := range sources {
		all = append(all, GeneratePaychecks(src, monthsToShow)...)
	}
	sortSlots(all)
	return all
}

// ExtendTimeline appends n buffer slots after the last slot, spaced by the
// distance between the first two slots and reusing the last slot's source.
// Timelines with fewer than two slots are returned unchanged.
func ExtendTimeline(slots []domain.PaycheckSlot, n int) []domain.PaycheckSlot {
	if len(slots) < 2 || n <= 0 {
		return slots
	}
	period := PayPeriodLength(slots)
	last := slots[len(slots)-1]
	out := make([]domain.PaycheckSlot, len(slots), len(slots)+n)
	copy(out, slots)
	next := last.Date
	for i := 0; i < n; i++ {
		next = next.AddDays(period)
		buf := last
		buf.Date = next
		buf.IsBuffer = true
		out = append(out, buf)
	}
	return out
}

// PayPeriodLength is the day distance between the first two slots. Two
// sources paying on the same first date fall back to the default.
func PayPeriodLength(slots []domain.PaycheckSlot) int {
	if len(slots) < 2 {
		return DefaultPayPeriodDays
	}
	if days := slots[0].Date.DaysUntil(slots[1].Date); days > 0 {
		return days
	}
	return DefaultPayPeriodDays
}

func sortSlots(slots []domain.PaycheckSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Date.Before(slots[j].Date)
	})
}
