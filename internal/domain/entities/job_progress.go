package entities

import "time"

// JobProgress is the monotonically-filling timeline of a job.
//
// Every field is set at most once and never cleared; lifecycle functions are the
// only writers. FinalizedAt is set exactly when both completion confirmations
// are present.
type JobProgress struct {
	JobID     string    `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`

	MechanicDepartedAt         *time.Time `json:"mechanic_departed_at,omitempty"`
	MechanicArrivedAt          *time.Time `json:"mechanic_arrived_at,omitempty"`
	CustomerConfirmedArrivalAt *time.Time `json:"customer_confirmed_arrival_at,omitempty"`
	WorkStartedAt              *time.Time `json:"work_started_at,omitempty"`
	MechanicCompletedAt        *time.Time `json:"mechanic_completed_at,omitempty"`
	CustomerCompletedAt        *time.Time `json:"customer_completed_at,omitempty"`
	FinalizedAt                *time.Time `json:"finalized_at,omitempty"`

	DepartureLocation *GeoPoint  `json:"departure_location,omitempty"`
	ArrivalLocation   *GeoPoint  `json:"arrival_location,omitempty"`
	EstimatedArrival  *time.Time `json:"estimated_arrival_at,omitempty"`
	WorkSummary       string     `json:"work_summary,omitempty"`

	ActualWorkDurationMinutes *int `json:"actual_work_duration_minutes,omitempty"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Clone returns a deep copy so a command can mutate a working copy without
// touching the snapshot it was loaded from.
func (p JobProgress) Clone() JobProgress {
	out := p
	out.MechanicDepartedAt = cloneTime(p.MechanicDepartedAt)
	out.MechanicArrivedAt = cloneTime(p.MechanicArrivedAt)
	out.CustomerConfirmedArrivalAt = cloneTime(p.CustomerConfirmedArrivalAt)
	out.WorkStartedAt = cloneTime(p.WorkStartedAt)
	out.MechanicCompletedAt = cloneTime(p.MechanicCompletedAt)
	out.CustomerCompletedAt = cloneTime(p.CustomerCompletedAt)
	out.FinalizedAt = cloneTime(p.FinalizedAt)
	out.EstimatedArrival = cloneTime(p.EstimatedArrival)
	if p.DepartureLocation != nil {
		g := *p.DepartureLocation
		out.DepartureLocation = &g
	}
	if p.ArrivalLocation != nil {
		g := *p.ArrivalLocation
		out.ArrivalLocation = &g
	}
	if p.ActualWorkDurationMinutes != nil {
		m := *p.ActualWorkDurationMinutes
		out.ActualWorkDurationMinutes = &m
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// TimePtr is a small helper for building progress records.
func TimePtr(t time.Time) *time.Time {
	return &t
}
