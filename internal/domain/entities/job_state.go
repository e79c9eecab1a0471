package entities

// JobState is a consistent snapshot of everything the coordination rules read
// for one job. Repositories load it in one read; commands mutate a copy and
// persist the difference as a JobChange.
type JobState struct {
	Contract         JobContract         `json:"contract"`
	Progress         JobProgress         `json:"progress"`
	LineItems        []InvoiceLineItem   `json:"line_items"`
	Cancellation     *CancellationRecord `json:"cancellation,omitempty"`
	Dispute          *DisputeRecord      `json:"dispute,omitempty"`
	Acknowledgements []Acknowledgement   `json:"acknowledgements"`
}

func (s JobState) Found() bool {
	return s.Contract.JobID != ""
}

func (s JobState) LineItem(id string) (InvoiceLineItem, bool) {
	for _, it := range s.LineItems {
		if it.ID == id {
			return it, true
		}
	}
	return InvoiceLineItem{}, false
}

func (s JobState) PendingItemCount() int {
	n := 0
	for _, it := range s.LineItems {
		if it.ApprovalStatus == ApprovalPending {
			n++
		}
	}
	return n
}

// HasAcknowledgement reports whether userID accepted the disclosure for role on
// this job, in any version.
func (s JobState) HasAcknowledgement(userID string, role Role) bool {
	for _, a := range s.Acknowledgements {
		if a.UserID == userID && a.Role == role {
			return true
		}
	}
	return false
}

func (s JobState) FindAcknowledgement(role Role, version string) (Acknowledgement, bool) {
	for _, a := range s.Acknowledgements {
		if a.Role == role && a.Version == version {
			return a, true
		}
	}
	return Acknowledgement{}, false
}

// LineItemWrite is one line item insert or status update inside a JobChange.
// ExpectedStatus is empty for inserts; for updates the write only applies
// while the stored item still has that status.
type LineItemWrite struct {
	Item           InvoiceLineItem
	ExpectedStatus ApprovalStatus
}

// JobChange is the atomic unit of work produced by a command. Either every
// part of it is persisted or none is.
//
// Concurrency contract for repositories:
//   - The contract is written only if the stored version equals
//     ExpectedVersion; Contract.Version must be ExpectedVersion+1.
//   - When ClaimFinalization is set, the progress row is written only if the
//     stored finalized_at is still null.
//   - Line item updates are conditional on ExpectedStatus.
//
// Any failed condition rejects the whole change with ErrVersionConflict. A
// change above the repository write limit is refused before anything is
// attempted.
type JobChange struct {
	JobID             string
	ExpectedVersion   int64
	Contract          JobContract
	Progress          *JobProgress
	ClaimFinalization bool
	LineItems         []LineItemWrite
	Cancellation      *CancellationRecord
	Dispute           *DisputeRecord
	Acknowledgement   *Acknowledgement
	Events            []JobEvent
}

// WriteCount is the number of storage writes the change needs. A new line
// item takes two (the item and its id index).
func (ch JobChange) WriteCount() int {
	n := 1 + len(ch.Events)
	if ch.Progress != nil {
		n++
	}
	for _, w := range ch.LineItems {
		if w.ExpectedStatus == "" {
			n += 2
		} else {
			n++
		}
	}
	if ch.Cancellation != nil {
		n++
	}
	if ch.Dispute != nil {
		n++
	}
	if ch.Acknowledgement != nil {
		n++
	}
	return n
}
