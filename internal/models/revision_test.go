// internal/models/revision_test.go
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotOfCapturesFields(t *testing.T) {
	closed := date(2024, time.February, 1)
	daysOpen := 31
	expiry := closed.AddDate(0, 0, 365)
	streamID := uuid.New()

	app := &Application{
		Status:                  ApplicationStatusApproved,
		DateCreated:             date(2024, time.January, 1),
		DateClosed:              &closed,
		DaysOpen:                &daysOpen,
		EarliestExpiryDate:      &expiry,
		EditorID:                uuid.New(),
		PartnerID:               uuid.New(),
		SpecificStreamID:        &streamID,
		Rationale:               "Citations for medical articles",
		SpecificTitle:           "The Lancet",
		AgreementWithTermsOfUse: true,
	}

	snapshot := SnapshotOf(app)

	assert.Equal(t, "approved", snapshot["status"])
	assert.Equal(t, "2024-01-01", snapshot["date_created"])
	assert.Equal(t, "2024-02-01", snapshot["date_closed"])
	assert.Equal(t, 31, snapshot["days_open"])
	assert.Equal(t, expiry.Format("2006-01-02"), snapshot["earliest_expiry_date"])
	assert.Equal(t, app.EditorID.String(), snapshot["editor_id"])
	assert.Equal(t, streamID.String(), snapshot["specific_stream_id"])
	assert.Equal(t, true, snapshot["agreement_with_terms_of_use"])
}

func TestSnapshotOfOmitsUnsetDerivedFields(t *testing.T) {
	app := &Application{
		Status:      ApplicationStatusPending,
		DateCreated: date(2024, time.January, 1),
		EditorID:    uuid.New(),
		PartnerID:   uuid.New(),
	}

	snapshot := SnapshotOf(app)

	assert.NotContains(t, snapshot, "date_closed")
	assert.NotContains(t, snapshot, "days_open")
	assert.NotContains(t, snapshot, "earliest_expiry_date")
	assert.NotContains(t, snapshot, "specific_stream_id")
}

func TestRevisionStatus(t *testing.T) {
	revision := &ApplicationRevision{
		Snapshot: JSONB{"status": "question"},
	}

	status, ok := revision.Status()
	assert.True(t, ok)
	assert.Equal(t, ApplicationStatusQuestion, status)
}

func TestRevisionStatusAbsent(t *testing.T) {
	revision := &ApplicationRevision{Snapshot: JSONB{}}

	_, ok := revision.Status()
	assert.False(t, ok)

	// Non-string status values are treated as absent, not as errors.
	revision.Snapshot = JSONB{"status": 2}
	_, ok = revision.Status()
	assert.False(t, ok)
}

func TestRevisionStatusSurvivesJSONBRoundTrip(t *testing.T) {
	app := &Application{
		Status:      ApplicationStatusNotApproved,
		DateCreated: date(2024, time.January, 1),
		EditorID:    uuid.New(),
		PartnerID:   uuid.New(),
	}

	value, err := SnapshotOf(app).Value()
	assert.NoError(t, err)

	var restored JSONB
	assert.NoError(t, restored.Scan(value.([]byte)))

	revision := &ApplicationRevision{Snapshot: restored}
	status, ok := revision.Status()
	assert.True(t, ok)
	assert.Equal(t, ApplicationStatusNotApproved, status)
}
