package usecase

import (
	"context"

	"mecanica_jobs/internal/domain/acknowledgement"
	"mecanica_jobs/internal/domain/entities"
)

// AcceptAcknowledgement records the actor's acceptance of the disclosure for
// its role. Accepting the same job/role/version again returns the stored
// record.
func (u *JobUseCase) AcceptAcknowledgement(ctx context.Context, actor entities.Actor, jobID string, in AcknowledgementInput) (entities.Acknowledgement, error) {
	role := in.Role
	if role == "" {
		role = actor.Role
	}
	requested := in.Version
	if requested == "" {
		requested = u.policy.AcknowledgementVersion
	}

	var version string
	out, err := u.command(ctx, "accept-acknowledgement", actor, jobID, func(ctx context.Context, t *tx) error {
		v, text, err := acknowledgement.Normalize(actor.Role, role, requested, in.Text)
		if err != nil {
			return err
		}
		version = v
		if err := requireRole(t.state.Contract, actor, role, "accept this acknowledgement"); err != nil {
			return err
		}
		if _, ok := t.state.FindAcknowledgement(role, version); ok {
			return nil
		}
		if phase := t.phase(); phase.Terminal() {
			return entities.NewInvalidTransition("cannot acknowledge: job is %s", phase)
		}
		ack := entities.Acknowledgement{
			ID:         u.newID(),
			JobID:      t.state.Contract.JobID,
			UserID:     actor.UserID,
			Role:       role,
			Version:    version,
			Text:       text,
			AcceptedAt: t.now,
		}
		t.state.Acknowledgements = append(t.state.Acknowledgements, ack)
		t.change.Acknowledgement = &ack
		t.emit(entities.JobEvent{
			Type:        entities.EventAcknowledgementAccepted,
			Title:       "Acknowledgement accepted",
			Description: "The " + string(role) + " accepted " + version + ".",
			EntityType:  "acknowledgement",
			EntityID:    ack.ID,
		})
		return nil
	})
	if err != nil {
		return entities.Acknowledgement{}, err
	}
	ack, _ := out.state.FindAcknowledgement(role, version)
	return ack, nil
}

// CheckAcknowledgement reports whether userID accepted the disclosure for role
// on the job. An empty userID means the job's party for role.
func (u *JobUseCase) CheckAcknowledgement(ctx context.Context, actor entities.Actor, jobID string, userID string, role entities.Role) (bool, error) {
	var accepted bool
	err := u.observe(ctx, "check-acknowledgement", actor, jobID, func(ctx context.Context) error {
		if role != entities.RoleCustomer && role != entities.RoleMechanic {
			return entities.NewValidationError("role must be customer or mechanic")
		}
		state, _, err := u.load(ctx, actor, jobID)
		if err != nil {
			return err
		}
		if userID == "" {
			userID = state.Contract.PartyID(role)
		}
		accepted = state.HasAcknowledgement(userID, role)
		return nil
	})
	return accepted, err
}
