package validation

import (
	"testing"

	"servicelink/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func booking(ref string, venue *uuid.UUID, date, start, end, status string) BookingWindow {
	return BookingWindow{
		ReferenceNumber: ref,
		VenueID:         venue,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		Status:          status,
	}
}

func TestCheckVenueConflictHardBuffer(t *testing.T) {
	venue := uuid.New()
	existing := []BookingWindow{
		booking("VR-2024-00001", &venue, "2024-06-10", "09:00", "11:00", model.StatusApproved),
	}

	// 11:00 end + 60 minute buffer blocks a 11:30 start.
	res := CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "11:30", "13:00", model.StatusSubmitted))
	assert.True(t, res.Conflict)
	assert.Equal(t, ConflictHard, res.Type)
	assert.NotEmpty(t, res.Message)

	// 12:00 start is exactly at the buffered end and is allowed.
	res = CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "12:00", "14:00", model.StatusSubmitted))
	assert.False(t, res.Conflict)
}

func TestCheckVenueConflictNoonDoubleBuffer(t *testing.T) {
	// An approved booking ending exactly at 12:00 carries a compounded
	// 120-minute buffer: new requests before 14:00 are blocked.
	venue := uuid.New()
	existing := []BookingWindow{
		booking("VR-2024-00002", &venue, "2024-06-10", "10:00", "12:00", model.StatusApproved),
	}

	res := CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "13:30", "15:00", model.StatusSubmitted))
	assert.True(t, res.Conflict)
	assert.Equal(t, ConflictHard, res.Type)

	res = CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "14:00", "16:00", model.StatusSubmitted))
	assert.False(t, res.Conflict)
}

func TestCheckVenueConflictSoft(t *testing.T) {
	venue := uuid.New()
	existing := []BookingWindow{
		booking("VR-2024-00003", &venue, "2024-06-10", "09:00", "11:00", model.StatusPending),
	}

	// Exact overlap with a pending booking: soft, not hard, no buffer.
	res := CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "09:00", "11:00", model.StatusSubmitted))
	assert.True(t, res.Conflict)
	assert.Equal(t, ConflictSoft, res.Type)

	// Back-to-back with a pending booking is fine.
	res = CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "11:00", "12:30", model.StatusSubmitted))
	assert.False(t, res.Conflict)
}

func TestCheckVenueConflictHardCheckedFirst(t *testing.T) {
	venue := uuid.New()
	existing := []BookingWindow{
		booking("VR-2024-00004", &venue, "2024-06-10", "09:00", "11:00", model.StatusPending),
		booking("VR-2024-00005", &venue, "2024-06-10", "09:00", "11:00", model.StatusApproved),
	}

	res := CheckVenueConflict(existing, booking("", &venue, "2024-06-10", "10:00", "12:00", model.StatusSubmitted))
	assert.Equal(t, ConflictHard, res.Type)
}

func TestCheckVenueConflictSkipsArchivedSelfAndOtherSlots(t *testing.T) {
	venue := uuid.New()
	otherVenue := uuid.New()

	archived := booking("VR-2024-00006", &venue, "2024-06-10", "09:00", "11:00", model.StatusApproved)
	archived.Archived = true

	existing := []BookingWindow{
		archived,
		// Candidate's own prior record.
		booking("VR-2024-00007", &venue, "2024-06-10", "09:00", "11:00", model.StatusApproved),
		// Same time, different venue.
		booking("VR-2024-00008", &otherVenue, "2024-06-10", "09:00", "11:00", model.StatusApproved),
		// Same venue, different date.
		booking("VR-2024-00009", &venue, "2024-06-11", "09:00", "11:00", model.StatusApproved),
		// Rejected requests never conflict.
		booking("VR-2024-00010", &venue, "2024-06-10", "09:00", "11:00", model.StatusRejected),
	}

	candidate := booking("VR-2024-00007", &venue, "2024-06-10", "09:30", "11:30", model.StatusSubmitted)
	res := CheckVenueConflict(existing, candidate)
	assert.False(t, res.Conflict)
}
