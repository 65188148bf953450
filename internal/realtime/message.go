package realtime

import "github.com/google/uuid"

type Event string

const (
	EventCycleLogged          Event = "CycleLogged"
	EventHealthLogged         Event = "HealthLogged"
	EventAssessmentSaved      Event = "AssessmentSaved"
	EventMedicationLogged     Event = "MedicationLogged"
	EventAppointmentScheduled Event = "AppointmentScheduled"
	EventProfileUpdated       Event = "ProfileUpdated"
	EventCycleReminder        Event = "CycleReminder"
	EventSignedIn             Event = "SignedIn"
	EventSignedOut            Event = "SignedOut"

	// EventSnapshot carries a full, authoritative result set for a live
	// query; consumers replace prior state, never merge.
	EventSnapshot Event = "Snapshot"
)

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

// Collection channels carry record-change notifications scoped to one owner;
// live queries re-run against the store when their channel fires.
const (
	CollectionCycles       = "cycles"
	CollectionDailyHealth  = "dailyHealth"
	CollectionAssessments  = "assessments"
	CollectionMedications  = "medications"
	CollectionAppointments = "appointments"
	CollectionProfile      = "profile"
	CollectionAuth         = "auth"
)

func ChannelFor(collection string, ownerID uuid.UUID) string {
	return collection + ":" + ownerID.String()
}
