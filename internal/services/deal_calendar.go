package services

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

// Business calendar for deal stage targets: Monday to Friday, minus
// fixed national holidays. Lunar-calendar holidays (the Eids, Ashura)
// shift yearly and are not modeled.
var pkBusiness = cal.NewBusinessCalendar()

var (
	pkKashmirDay = &cal.Holiday{
		Name:  "Kashmir Day",
		Month: time.February,
		Day:   5,
		Func:  cal.CalcDayOfMonth,
	}
	pkPakistanDay = &cal.Holiday{
		Name:  "Pakistan Day",
		Month: time.March,
		Day:   23,
		Func:  cal.CalcDayOfMonth,
	}
	pkLabourDay = &cal.Holiday{
		Name:  "Labour Day",
		Month: time.May,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}
	pkIndependenceDay = &cal.Holiday{
		Name:  "Independence Day",
		Month: time.August,
		Day:   14,
		Func:  cal.CalcDayOfMonth,
	}
	pkIqbalDay = &cal.Holiday{
		Name:  "Iqbal Day",
		Month: time.November,
		Day:   9,
		Func:  cal.CalcDayOfMonth,
	}
	pkQuaidDay = &cal.Holiday{
		Name:  "Quaid-e-Azam Day",
		Month: time.December,
		Day:   25,
		Func:  cal.CalcDayOfMonth,
	}
)

func init() {
	pkBusiness.AddHoliday(
		pkKashmirDay,
		pkPakistanDay,
		pkLabourDay,
		pkIndependenceDay,
		pkIqbalDay,
		pkQuaidDay,
	)
}

// AddBusinessDays returns the date the given number of workdays after
// start.
func AddBusinessDays(start time.Time, days int) time.Time {
	return pkBusiness.WorkdaysFrom(start, days)
}

// IsBusinessDay reports whether t is a workday on the deal calendar.
func IsBusinessDay(t time.Time) bool {
	return pkBusiness.IsWorkday(t)
}
