package services

import (
	"strings"
	"time"

	"github.com/jinzhu/now"

	"task-manager/internal/config"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// DefaultWeekStart is the first day of the week used by the "week" filter
// and the weekly statistics.
const DefaultWeekStart = time.Saturday

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	calendar       *now.Config
	clock          func() time.Time
	dateFormat     string
	dateTimeFormat string
}

// TimeOption configures a TimeService.
type TimeOption func(*timeServiceImpl)

// WithLocation sets the timezone days and weeks are computed in.
func WithLocation(loc *time.Location) TimeOption {
	return func(t *timeServiceImpl) {
		if loc != nil {
			t.calendar.TimeLocation = loc
		}
	}
}

// WithWeekStart sets the first day of the week.
func WithWeekStart(day time.Weekday) TimeOption {
	return func(t *timeServiceImpl) {
		t.calendar.WeekStartDay = day
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) TimeOption {
	return func(t *timeServiceImpl) {
		t.clock = clock
	}
}

// WithFormats sets the layouts used by FormatDate and FormatDateTime.
func WithFormats(date, dateTime string) TimeOption {
	return func(t *timeServiceImpl) {
		if date != "" {
			t.dateFormat = date
		}
		if dateTime != "" {
			t.dateTimeFormat = dateTime
		}
	}
}

// NewTimeService creates a new TimeService instance
func NewTimeService(opts ...TimeOption) TimeService {
	t := &timeServiceImpl{
		calendar: &now.Config{
			WeekStartDay: DefaultWeekStart,
			TimeLocation: time.Local,
			TimeFormats:  now.TimeFormats,
		},
		clock:          time.Now,
		dateFormat:     "Jan 2, 2006",
		dateTimeFormat: "2006-01-02 15:04",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTimeServiceFromConfig builds a TimeService from the calendar and
// display sections of cfg.
func NewTimeServiceFromConfig(cfg *config.Config, opts ...TimeOption) (TimeService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekStart, ok := cfg.WeekStartDay()
	if !ok {
		weekStart = DefaultWeekStart
	}
	base := []TimeOption{
		WithLocation(loc),
		WithWeekStart(weekStart),
		WithFormats(cfg.Display.DateFormat, cfg.Display.DateTimeFormat),
	}
	return NewTimeService(append(base, opts...)...), nil
}

// Now returns the current time in the calendar's location
func (t *timeServiceImpl) Now() time.Time {
	return t.clock().In(t.calendar.TimeLocation)
}

func (t *timeServiceImpl) Location() *time.Location {
	return t.calendar.TimeLocation
}

func (t *timeServiceImpl) WeekStart() time.Weekday {
	return t.calendar.WeekStartDay
}

func (t *timeServiceImpl) with(value time.Time) *now.Now {
	return t.calendar.With(value.In(t.calendar.TimeLocation))
}

// DayOf returns the calendar day containing value
func (t *timeServiceImpl) DayOf(value time.Time) TimeRange {
	start := t.with(value).BeginningOfDay()
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekOf returns the week containing value, starting on the configured weekday
func (t *timeServiceImpl) WeekOf(value time.Time) TimeRange {
	start := t.with(value).BeginningOfWeek()
	return TimeRange{Start: start, End: start.AddDate(0, 0, 7)}
}

func (t *timeServiceImpl) Today() TimeRange {
	return t.DayOf(t.Now())
}

func (t *timeServiceImpl) CurrentWeek() TimeRange {
	return t.WeekOf(t.Now())
}

// IsToday checks if a given time falls on today's date
func (t *timeServiceImpl) IsToday(value time.Time) bool {
	return t.Today().Contains(value)
}

// IsThisWeek checks if a given time falls in the current week
func (t *timeServiceImpl) IsThisWeek(value time.Time) bool {
	return t.CurrentWeek().Contains(value)
}

// IsOverdue reports whether an incomplete task's due date has passed
func (t *timeServiceImpl) IsOverdue(task *domain.Task) bool {
	return task != nil && task.IsOverdue(t.Now())
}

// DueLabel renders a due date relative to today
func (t *timeServiceImpl) DueLabel(due time.Time) string {
	today := t.Today()
	switch {
	case today.Contains(due):
		return "Today"
	case t.DayOf(today.End).Contains(due):
		return "Tomorrow"
	default:
		return t.FormatDate(due)
	}
}

// ParseDate reads a due date typed by the user. Besides "today" and
// "tomorrow" it accepts dates and times such as "2024-03-20" or
// "2024-03-20 17:00"; a missing time of day means midnight.
func (t *timeServiceImpl) ParseDate(value string) (time.Time, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "":
		return time.Time{}, errors.NewInvalidInputError("date", value, "cannot be empty")
	case "today":
		return t.Today().Start, nil
	case "tomorrow":
		return t.Today().End, nil
	}

	parsed, err := t.with(t.Now()).Parse(value)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("date", value, "expected YYYY-MM-DD, YYYY-MM-DD HH:MM, today or tomorrow")
	}
	return parsed, nil
}

func (t *timeServiceImpl) FormatDate(value time.Time) string {
	return value.In(t.calendar.TimeLocation).Format(t.dateFormat)
}

func (t *timeServiceImpl) FormatDateTime(value time.Time) string {
	return value.In(t.calendar.TimeLocation).Format(t.dateTimeFormat)
}
