package repository

import (
	"errors"
	"testing"
	"time"

	"mecanica_jobs/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestFormatSortable_OrdersLexically(t *testing.T) {
	a := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	b := a.Add(500 * time.Millisecond)
	if !(formatSortable(a) < formatSortable(b)) {
		t.Fatalf("expected %s < %s", formatSortable(a), formatSortable(b))
	}
	if len(formatSortable(a)) != len(formatSortable(b)) {
		t.Fatalf("expected fixed width")
	}
}

func TestMarshalLineItem_DeadlineKeyOnlyWhilePending(t *testing.T) {
	deadline := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	it := entities.InvoiceLineItem{
		ID:               "item-1",
		JobID:            "job-1",
		ItemType:         entities.LineItemParts,
		ApprovalStatus:   entities.ApprovalPending,
		ApprovalDeadline: &deadline,
		TotalCents:       1200,
	}

	row, err := marshalLineItem("job-1", it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, ok := row["deadline_key"]; !ok {
		t.Fatalf("expected deadline_key on pending item")
	}
	if pk := row["pk"].(*types.AttributeValueMemberS).Value; pk != "JOB#job-1" {
		t.Fatalf("unexpected pk %q", pk)
	}

	it.ApprovalStatus = entities.ApprovalApproved
	row, err = marshalLineItem("job-1", it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, ok := row["deadline_key"]; ok {
		t.Fatalf("resolved item must leave the sweep")
	}
}

func TestDecodeStateRow_RoundTripsAggregate(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	contract := entities.JobContract{JobID: "job-1", CustomerID: "c", MechanicID: "m", Status: entities.ContractStatusActive, Version: 3, CreatedAt: now}
	ack := entities.Acknowledgement{ID: "a1", JobID: "job-1", UserID: "m", Role: entities.RoleMechanic, Version: "ACK_2026.01", AcceptedAt: now}

	var rows []map[string]types.AttributeValue
	for _, build := range []func() (map[string]types.AttributeValue, error){
		func() (map[string]types.AttributeValue, error) {
			return marshalRow(jobPK("job-1"), skContract, entityContract, contract)
		},
		func() (map[string]types.AttributeValue, error) {
			return marshalRow(jobPK("job-1"), skAckPrefix+ack.Key(), entityAck, ack)
		},
		func() (map[string]types.AttributeValue, error) {
			return marshalLineItem("job-1", entities.InvoiceLineItem{ID: "i2", JobID: "job-1", SortOrder: 2})
		},
		func() (map[string]types.AttributeValue, error) {
			return marshalLineItem("job-1", entities.InvoiceLineItem{ID: "i1", JobID: "job-1", SortOrder: 1})
		},
	} {
		row, err := build()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rows = append(rows, row)
	}

	var state entities.JobState
	for _, row := range rows {
		if err := decodeStateRow(row, &state); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	if state.Contract.Version != 3 || !state.Contract.CreatedAt.Equal(now) {
		t.Fatalf("unexpected contract %+v", state.Contract)
	}
	if len(state.LineItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(state.LineItems))
	}
	if _, ok := state.FindAcknowledgement(entities.RoleMechanic, "ACK_2026.01"); !ok {
		t.Fatalf("ack not decoded")
	}
}

func TestIsConditionFailure(t *testing.T) {
	if !isConditionFailure(&types.ConditionalCheckFailedException{}) {
		t.Fatalf("expected single-write condition failure")
	}
	tce := &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{
		{Code: aws.String("None")},
		{Code: aws.String("ConditionalCheckFailed")},
	}}
	if !isConditionFailure(tce) {
		t.Fatalf("expected transaction condition failure")
	}
	if isConditionFailure(errors.New("boom")) {
		t.Fatalf("plain error is not a condition failure")
	}
}
