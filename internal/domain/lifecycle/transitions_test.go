package lifecycle

import (
	"errors"
	"testing"
	"time"

	"mecanica_jobs/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func at(m int) time.Time { return t0.Add(time.Duration(m) * time.Minute) }

func readyToStart() entities.JobProgress {
	return entities.JobProgress{
		MechanicDepartedAt:         entities.TimePtr(at(5)),
		MechanicArrivedAt:          entities.TimePtr(at(20)),
		CustomerConfirmedArrivalAt: entities.TimePtr(at(22)),
	}
}

func working() entities.JobProgress {
	p := readyToStart()
	p.WorkStartedAt = entities.TimePtr(at(24))
	return p
}

func TestMarkDeparted(t *testing.T) {
	t.Run("sets timestamp and eta", func(t *testing.T) {
		p := entities.JobProgress{}
		eta := 15
		res, err := MarkDeparted(&p, entities.ContractStatusActive, at(5), DepartureDetails{EstimatedMinutes: &eta})
		require.NoError(t, err)
		assert.True(t, res.Changed)
		require.NotNil(t, p.MechanicDepartedAt)
		assert.True(t, p.MechanicDepartedAt.Equal(at(5)))
		require.NotNil(t, p.EstimatedArrival)
		assert.True(t, p.EstimatedArrival.Equal(at(20)))
	})

	t.Run("replay is a no-op", func(t *testing.T) {
		p := entities.JobProgress{MechanicDepartedAt: entities.TimePtr(at(5))}
		res, err := MarkDeparted(&p, entities.ContractStatusActive, at(9), DepartureDetails{})
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.True(t, p.MechanicDepartedAt.Equal(at(5)))
	})

	t.Run("cancelled job rejects", func(t *testing.T) {
		p := entities.JobProgress{}
		_, err := MarkDeparted(&p, entities.ContractStatusCancelled, at(5), DepartureDetails{})
		assert.True(t, errors.Is(err, entities.ErrInvalidTransition))
	})
}

func TestArrivalFlow(t *testing.T) {
	p := entities.JobProgress{}

	_, err := MarkArrived(&p, entities.ContractStatusActive, at(20), nil)
	assert.True(t, errors.Is(err, entities.ErrInvalidTransition), "arrive before depart")

	_, err = ConfirmArrival(&p, entities.ContractStatusActive, at(21))
	assert.True(t, errors.Is(err, entities.ErrInvalidTransition), "confirm before arrive")

	_, err = MarkDeparted(&p, entities.ContractStatusActive, at(5), DepartureDetails{})
	require.NoError(t, err)
	res, err := MarkArrived(&p, entities.ContractStatusActive, at(20), &entities.GeoPoint{Lat: 1, Lng: 2})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, PhaseAwaitingArrivalConfirmation, PhaseOf(p, entities.ContractStatusActive))

	res, err = ConfirmArrival(&p, entities.ContractStatusActive, at(22))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, PhaseReadyToStart, PhaseOf(p, entities.ContractStatusActive))

	res, err = ConfirmArrival(&p, entities.ContractStatusActive, at(30))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.True(t, p.CustomerConfirmedArrivalAt.Equal(at(22)))
}

func TestStartWorkGuards(t *testing.T) {
	cases := []struct {
		name  string
		guard StartWorkGuards
	}{
		{"no evidence, acknowledged", StartWorkGuards{MechanicAcknowledged: true, BeforeEvidenceCount: 0}},
		{"no evidence, not acknowledged", StartWorkGuards{MechanicAcknowledged: false, BeforeEvidenceCount: 0}},
		{"evidence, not acknowledged", StartWorkGuards{MechanicAcknowledged: false, BeforeEvidenceCount: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := readyToStart()
			_, err := StartWork(&p, entities.ContractStatusActive, at(24), tc.guard)
			assert.True(t, errors.Is(err, entities.ErrPreconditionFailed), "got %v", err)
			assert.Nil(t, p.WorkStartedAt)
		})
	}

	t.Run("not ready", func(t *testing.T) {
		p := entities.JobProgress{MechanicDepartedAt: entities.TimePtr(at(5)), MechanicArrivedAt: entities.TimePtr(at(20))}
		_, err := StartWork(&p, entities.ContractStatusActive, at(24), StartWorkGuards{MechanicAcknowledged: true, BeforeEvidenceCount: 1})
		assert.True(t, errors.Is(err, entities.ErrInvalidTransition))
	})

	t.Run("success", func(t *testing.T) {
		p := readyToStart()
		res, err := StartWork(&p, entities.ContractStatusActive, at(24), StartWorkGuards{MechanicAcknowledged: true, BeforeEvidenceCount: 1})
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, PhaseWorkInProgress, PhaseOf(p, entities.ContractStatusActive))
	})
}

func TestCompletion(t *testing.T) {
	t.Run("pending items block", func(t *testing.T) {
		p := working()
		_, err := MarkComplete(&p, entities.ContractStatusActive, at(60), CompleteGuards{PendingLineItems: 1, AfterEvidenceCount: 2}, "")
		assert.True(t, errors.Is(err, entities.ErrPreconditionFailed))
	})

	t.Run("after photo required", func(t *testing.T) {
		p := working()
		_, err := MarkComplete(&p, entities.ContractStatusActive, at(60), CompleteGuards{}, "")
		assert.True(t, errors.Is(err, entities.ErrPreconditionFailed))
	})

	t.Run("mechanic then customer finalizes on second", func(t *testing.T) {
		p := working()
		res, err := MarkComplete(&p, entities.ContractStatusActive, at(60), CompleteGuards{AfterEvidenceCount: 1}, "replaced pads")
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.Finalized)
		assert.Equal(t, PhaseAwaitingCompletion, PhaseOf(p, entities.ContractStatusActive))

		res, err = ConfirmComplete(&p, entities.ContractStatusActive, at(61))
		require.NoError(t, err)
		assert.True(t, res.Finalized)
		require.NotNil(t, p.FinalizedAt)
		assert.True(t, p.FinalizedAt.Equal(at(61)))
		require.NotNil(t, p.ActualWorkDurationMinutes)
		assert.Equal(t, 37, *p.ActualWorkDurationMinutes)
		assert.Equal(t, "replaced pads", p.WorkSummary)
	})

	t.Run("customer first then mechanic finalizes", func(t *testing.T) {
		p := working()
		res, err := ConfirmComplete(&p, entities.ContractStatusActive, at(58))
		require.NoError(t, err)
		assert.False(t, res.Finalized)

		res, err = MarkComplete(&p, entities.ContractStatusActive, at(60), CompleteGuards{AfterEvidenceCount: 1}, "")
		require.NoError(t, err)
		assert.True(t, res.Finalized)
		assert.True(t, p.FinalizedAt.Equal(at(60)))
	})

	t.Run("replay after finalization does not finalize again", func(t *testing.T) {
		p := working()
		_, _ = MarkComplete(&p, entities.ContractStatusActive, at(60), CompleteGuards{AfterEvidenceCount: 1}, "")
		_, _ = ConfirmComplete(&p, entities.ContractStatusActive, at(61))
		res, err := ConfirmComplete(&p, entities.ContractStatusCompleted, at(70))
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.False(t, res.Finalized)
		assert.True(t, p.FinalizedAt.Equal(at(61)))
	})

	t.Run("customer cannot confirm before work starts", func(t *testing.T) {
		p := readyToStart()
		_, err := ConfirmComplete(&p, entities.ContractStatusActive, at(30))
		assert.True(t, errors.Is(err, entities.ErrInvalidTransition))
	})
}

func TestCancelDisputeAndLineItemWindows(t *testing.T) {
	assert.NoError(t, CanCancel(readyToStart(), entities.ContractStatusActive))
	assert.True(t, errors.Is(CanCancel(working(), entities.ContractStatusActive), entities.ErrInvalidTransition))
	assert.True(t, errors.Is(CanCancel(entities.JobProgress{}, entities.ContractStatusCancelled), entities.ErrInvalidTransition))

	assert.NoError(t, CanDispute(working(), entities.ContractStatusActive))
	assert.True(t, errors.Is(CanDispute(working(), entities.ContractStatusCompleted), entities.ErrInvalidTransition))

	assert.True(t, errors.Is(CanAddLineItem(readyToStart(), entities.ContractStatusActive), entities.ErrInvalidTransition))
	assert.NoError(t, CanAddLineItem(working(), entities.ContractStatusActive))
	done := working()
	done.MechanicCompletedAt = entities.TimePtr(at(60))
	assert.True(t, errors.Is(CanAddLineItem(done, entities.ContractStatusActive), entities.ErrInvalidTransition))
	confirmed := working()
	confirmed.CustomerCompletedAt = entities.TimePtr(at(55))
	assert.True(t, errors.Is(CanAddLineItem(confirmed, entities.ContractStatusActive), entities.ErrInvalidTransition))
}

func TestCheckMonotonic(t *testing.T) {
	prev := readyToStart()
	next := prev.Clone()
	next.WorkStartedAt = entities.TimePtr(at(24))
	assert.NoError(t, CheckMonotonic(prev, next))

	cleared := prev.Clone()
	cleared.MechanicArrivedAt = nil
	assert.Error(t, CheckMonotonic(prev, cleared))

	moved := prev.Clone()
	moved.MechanicDepartedAt = entities.TimePtr(at(1))
	assert.Error(t, CheckMonotonic(prev, moved))
}
