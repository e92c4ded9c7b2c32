// internal/models/application_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func statusPtr(s ApplicationStatus) *ApplicationStatus {
	return &s
}

func TestApplyStatusDerivationsFirstSaveOpen(t *testing.T) {
	app := &Application{
		Status:      ApplicationStatusPending,
		DateCreated: date(2024, time.January, 1),
	}

	app.ApplyStatusDerivations(nil, 365, date(2024, time.January, 1))

	assert.Nil(t, app.DateClosed)
	assert.Nil(t, app.DaysOpen)
	assert.Nil(t, app.EarliestExpiryDate)
}

func TestApplyStatusDerivationsFirstSaveClosed(t *testing.T) {
	// Auto-approved at creation: closed on its creation date, zero days open.
	today := date(2024, time.March, 15)
	app := &Application{
		Status:      ApplicationStatusApproved,
		DateCreated: today,
	}

	app.ApplyStatusDerivations(nil, 90, today)

	if assert.NotNil(t, app.DateClosed) {
		assert.Equal(t, today, *app.DateClosed)
	}
	if assert.NotNil(t, app.DaysOpen) {
		assert.Equal(t, 0, *app.DaysOpen)
	}
	if assert.NotNil(t, app.EarliestExpiryDate) {
		assert.Equal(t, date(2024, time.June, 13), *app.EarliestExpiryDate)
	}
}

func TestApplyStatusDerivationsOpenToClosed(t *testing.T) {
	created := date(2024, time.January, 1)
	today := date(2024, time.February, 1)

	for _, prev := range []ApplicationStatus{ApplicationStatusPending, ApplicationStatusQuestion} {
		for _, current := range []ApplicationStatus{ApplicationStatusApproved, ApplicationStatusNotApproved} {
			app := &Application{
				Status:      current,
				DateCreated: created,
			}

			app.ApplyStatusDerivations(statusPtr(prev), 365, today)

			if assert.NotNil(t, app.DateClosed, "%s -> %s", prev, current) {
				assert.Equal(t, today, *app.DateClosed)
			}
			if assert.NotNil(t, app.DaysOpen, "%s -> %s", prev, current) {
				assert.Equal(t, 31, *app.DaysOpen)
			}
			if assert.NotNil(t, app.EarliestExpiryDate, "%s -> %s", prev, current) {
				assert.Equal(t, today.AddDate(0, 0, 365), *app.EarliestExpiryDate)
			}
		}
	}
}

func TestApplyStatusDerivationsStayingOpen(t *testing.T) {
	app := &Application{
		Status:      ApplicationStatusQuestion,
		DateCreated: date(2024, time.January, 1),
	}

	app.ApplyStatusDerivations(statusPtr(ApplicationStatusPending), 365, date(2024, time.February, 1))

	assert.Nil(t, app.DateClosed)
	assert.Nil(t, app.DaysOpen)
	assert.Nil(t, app.EarliestExpiryDate)
}

func TestApplyStatusDerivationsIdempotentOnClosedRecord(t *testing.T) {
	created := date(2024, time.January, 1)
	closed := date(2024, time.January, 20)
	daysOpen := 19
	expiry := closed.AddDate(0, 0, 365)

	app := &Application{
		Status:             ApplicationStatusApproved,
		DateCreated:        created,
		DateClosed:         &closed,
		DaysOpen:           &daysOpen,
		EarliestExpiryDate: &expiry,
	}

	// Saving again much later must not touch any derived field.
	app.ApplyStatusDerivations(statusPtr(ApplicationStatusApproved), 365, date(2024, time.June, 1))

	assert.Equal(t, closed, *app.DateClosed)
	assert.Equal(t, 19, *app.DaysOpen)
	assert.Equal(t, expiry, *app.EarliestExpiryDate)
}

func TestApplyStatusDerivationsReopenedThenReclosed(t *testing.T) {
	// An application that reopens after closure and closes again keeps its
	// original closure values. Deliberate write-once behavior.
	created := date(2024, time.January, 1)
	firstClosed := date(2024, time.January, 10)
	daysOpen := 9
	expiry := firstClosed.AddDate(0, 0, 180)

	app := &Application{
		Status:             ApplicationStatusPending, // reopened by a coordinator
		DateCreated:        created,
		DateClosed:         &firstClosed,
		DaysOpen:           &daysOpen,
		EarliestExpiryDate: &expiry,
	}

	// Reopening save: closed -> open.
	app.ApplyStatusDerivations(statusPtr(ApplicationStatusApproved), 180, date(2024, time.February, 1))
	assert.Equal(t, firstClosed, *app.DateClosed)

	// Second closure: open -> closed, but date_closed is already set.
	app.Status = ApplicationStatusNotApproved
	app.ApplyStatusDerivations(statusPtr(ApplicationStatusPending), 180, date(2024, time.March, 1))

	assert.Equal(t, firstClosed, *app.DateClosed)
	assert.Equal(t, 9, *app.DaysOpen)
	assert.Equal(t, expiry, *app.EarliestExpiryDate)
}

func TestApplyStatusDerivationsExpiryUsesTermAtClosure(t *testing.T) {
	created := date(2024, time.January, 1)
	today := date(2024, time.January, 31)

	app := &Application{
		Status:      ApplicationStatusApproved,
		DateCreated: created,
	}
	app.ApplyStatusDerivations(statusPtr(ApplicationStatusPending), 30, today)

	expiry := *app.EarliestExpiryDate
	assert.Equal(t, date(2024, time.March, 1), expiry)

	// A later save with a changed partner term must not move the expiry.
	app.ApplyStatusDerivations(statusPtr(ApplicationStatusApproved), 999, date(2024, time.April, 1))
	assert.Equal(t, expiry, *app.EarliestExpiryDate)
}

func TestApplyStatusDerivationsExpiryNotBeforeClosure(t *testing.T) {
	app := &Application{
		Status:      ApplicationStatusApproved,
		DateCreated: date(2024, time.January, 1),
	}
	app.ApplyStatusDerivations(nil, 1, date(2024, time.January, 1))

	assert.False(t, app.EarliestExpiryDate.Before(*app.DateClosed))
}

func TestApplyStatusDerivationsLifecycleScenario(t *testing.T) {
	// Submit pending on 2024-01-01, approve later: date_closed is the
	// review day, days_open counts from creation, expiry adds the term.
	created := date(2024, time.January, 1)
	app := &Application{
		Status:      ApplicationStatusPending,
		DateCreated: created,
	}

	app.ApplyStatusDerivations(nil, 365, created)
	assert.Nil(t, app.DateClosed)
	assert.Nil(t, app.DaysOpen)

	reviewDay := date(2024, time.April, 10)
	app.Status = ApplicationStatusApproved
	app.ApplyStatusDerivations(statusPtr(ApplicationStatusPending), 365, reviewDay)

	assert.Equal(t, reviewDay, *app.DateClosed)
	assert.Equal(t, 100, *app.DaysOpen)
	assert.Equal(t, reviewDay.AddDate(0, 0, 365), *app.EarliestExpiryDate)
}

func TestBootstrapClass(t *testing.T) {
	cases := map[ApplicationStatus]string{
		ApplicationStatusPending:     "-primary",
		ApplicationStatusQuestion:    "-warning",
		ApplicationStatusApproved:    "-success",
		ApplicationStatusNotApproved: "-danger",
		ApplicationStatus("bogus"):   "",
	}

	for status, expected := range cases {
		app := &Application{Status: status}
		assert.Equal(t, expected, app.BootstrapClass(), "status %q", status)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, ApplicationStatusPending.IsOpen())
	assert.True(t, ApplicationStatusQuestion.IsOpen())
	assert.False(t, ApplicationStatusApproved.IsOpen())

	assert.True(t, ApplicationStatusApproved.IsClosed())
	assert.True(t, ApplicationStatusNotApproved.IsClosed())
	assert.False(t, ApplicationStatusQuestion.IsClosed())

	assert.True(t, ApplicationStatusPending.IsValid())
	assert.False(t, ApplicationStatus("bogus").IsValid())
}

func TestNumDaysOpen(t *testing.T) {
	created := date(2024, time.January, 1)
	now := date(2024, time.January, 11)

	open := &Application{Status: ApplicationStatusQuestion, DateCreated: created}
	assert.Equal(t, 10, open.NumDaysOpen(now))

	closedDate := date(2024, time.January, 5)
	closed := &Application{
		Status:      ApplicationStatusNotApproved,
		DateCreated: created,
		DateClosed:  &closedDate,
	}
	assert.Equal(t, 4, closed.NumDaysOpen(now))
}

func TestNumDaysOpenPanicsOnUnknownStatus(t *testing.T) {
	app := &Application{
		Status:      ApplicationStatus("bogus"),
		DateCreated: date(2024, time.January, 1),
	}

	assert.Panics(t, func() {
		app.NumDaysOpen(date(2024, time.January, 2))
	})
}

func TestIsProbablyExpired(t *testing.T) {
	now := date(2024, time.June, 1)

	none := &Application{}
	assert.False(t, none.IsProbablyExpired(now))

	past := date(2024, time.May, 1)
	assert.True(t, (&Application{EarliestExpiryDate: &past}).IsProbablyExpired(now))

	today := date(2024, time.June, 1)
	assert.True(t, (&Application{EarliestExpiryDate: &today}).IsProbablyExpired(now))

	future := date(2024, time.July, 1)
	assert.False(t, (&Application{EarliestExpiryDate: &future}).IsProbablyExpired(now))
}

func TestNumDaysSinceExpiration(t *testing.T) {
	now := date(2024, time.June, 11)

	assert.Nil(t, (&Application{}).NumDaysSinceExpiration(now))

	future := date(2024, time.July, 1)
	assert.Nil(t, (&Application{EarliestExpiryDate: &future}).NumDaysSinceExpiration(now))

	past := date(2024, time.June, 1)
	days := (&Application{EarliestExpiryDate: &past}).NumDaysSinceExpiration(now)
	if assert.NotNil(t, days) {
		assert.Equal(t, 10, *days)
	}
}

func TestNumDaysUntilExpiration(t *testing.T) {
	now := date(2024, time.June, 1)

	assert.Nil(t, (&Application{}).NumDaysUntilExpiration(now))

	past := date(2024, time.May, 1)
	assert.Nil(t, (&Application{EarliestExpiryDate: &past}).NumDaysUntilExpiration(now))

	sameDay := date(2024, time.June, 1)
	assert.Nil(t, (&Application{EarliestExpiryDate: &sameDay}).NumDaysUntilExpiration(now))

	future := date(2024, time.June, 21)
	days := (&Application{EarliestExpiryDate: &future}).NumDaysUntilExpiration(now)
	if assert.NotNil(t, days) {
		assert.Equal(t, 20, *days)
	}
}

func TestDateHelpers(t *testing.T) {
	noon := time.Date(2024, time.March, 10, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2024, time.March, 10), DateOf(noon))

	assert.Equal(t, 0, DaysBetween(noon, noon))
	assert.Equal(t, 1, DaysBetween(date(2024, time.March, 10), date(2024, time.March, 11)))
	assert.Equal(t, -1, DaysBetween(date(2024, time.March, 11), date(2024, time.March, 10)))

	// Intraday differences collapse to whole-day boundaries.
	lateNight := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	earlyNext := time.Date(2024, time.March, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(lateNight, earlyNext))
}
