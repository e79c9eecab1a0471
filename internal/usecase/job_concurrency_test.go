package usecase

import (
	"context"
	"fmt"
	"testing"

	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"

	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
)

func TestJobUseCase_CompletionRaceFinalizesOnce(t *testing.T) {
	for i := 0; i < 25; i++ {
		t.Run(fmt.Sprintf("round %d", i), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.allowNotifications()
			f.open(t, "job-1", 10000)
			f.toWorkInProgress(t, "job-1")

			f.evidence.EXPECT().CountEvidence(gomock.Any(), "job-1", entities.EvidenceAfter, mechanic.UserID).Return(1, nil).AnyTimes()
			f.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(interfaces.ChargeResult{ProviderPaymentID: "pay-1"}, nil).Times(1)

			var g errgroup.Group
			g.Go(func() error {
				_, err := f.uc.MarkComplete(ctx, mechanic, "job-1", CompleteInput{})
				return err
			})
			g.Go(func() error {
				_, err := f.uc.ConfirmComplete(ctx, customer, "job-1")
				return err
			})
			if err := g.Wait(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			events, err := f.uc.ListEvents(ctx, customer, "job-1")
			if err != nil {
				t.Fatalf("list events: %v", err)
			}
			if n := countEvents(events, entities.EventJobFinalized); n != 1 {
				t.Fatalf("expected one job_finalized event, got %d", n)
			}
			view := mustView(t)(f.uc.GetJobView(ctx, customer, "job-1"))
			if view.Progress.FinalizedAt == nil || view.Contract.PaymentReference != "pay-1" {
				t.Fatalf("unexpected final state %+v", view.Contract)
			}
		})
	}
}

func TestJobUseCase_ConcurrentApprovalsKeepEveryItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.allowNotifications()
	f.open(t, "job-1", 10000)
	f.toWorkInProgress(t, "job-1")

	var items []entities.InvoiceLineItem
	var want int64 = 10000
	for i := 0; i < 12; i++ {
		price := int64(1000 + i*100)
		items = append(items, addItem(t, f, "job-1", billing.NewLineItemInput{
			ItemType:       entities.LineItemParts,
			Description:    fmt.Sprintf("part %d", i),
			Quantity:       1,
			UnitPriceCents: price,
		}))
		want += price
	}

	var g errgroup.Group
	for _, it := range items {
		g.Go(func() error {
			_, err := f.uc.ApproveLineItem(ctx, customer, it.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("approve: %v", err)
	}

	view := mustView(t)(f.uc.GetJobView(ctx, customer, "job-1"))
	if view.Contract.SubtotalCents != want {
		t.Fatalf("lost update: subtotal %d, want %d", view.Contract.SubtotalCents, want)
	}
	if len(view.Invoice.ApprovedItems) != len(items)+1 {
		t.Fatalf("expected %d approved items, got %d", len(items)+1, len(view.Invoice.ApprovedItems))
	}
	if view.Version != int64(1+5+len(items)*2) {
		t.Fatalf("unexpected version %d", view.Version)
	}
}

func TestJobUseCase_ApproveRejectRaceHasOneWinner(t *testing.T) {
	for i := 0; i < 25; i++ {
		t.Run(fmt.Sprintf("round %d", i), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.allowNotifications()
			f.open(t, "job-1", 10000)
			f.toWorkInProgress(t, "job-1")
			item := addItem(t, f, "job-1", billing.NewLineItemInput{ItemType: entities.LineItemDiagnostic, Description: "scan", Quantity: 1, UnitPriceCents: 8000})

			errs := make([]error, 2)
			var g errgroup.Group
			g.Go(func() error {
				_, errs[0] = f.uc.ApproveLineItem(ctx, customer, item.ID)
				return nil
			})
			g.Go(func() error {
				_, errs[1] = f.uc.RejectLineItem(ctx, customer, item.ID, "no")
				return nil
			})
			_ = g.Wait()

			ok, conflicts := 0, 0
			for _, err := range errs {
				switch {
				case err == nil:
					ok++
				case entities.CodeOf(err) == entities.CodeConcurrencyConflict:
					conflicts++
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if ok != 1 || conflicts != 1 {
				t.Fatalf("expected one winner and one conflict, got %d/%d", ok, conflicts)
			}

			view := mustView(t)(f.uc.GetJobView(ctx, customer, "job-1"))
			switch {
			case errs[0] == nil && view.Contract.SubtotalCents != 18000:
				t.Fatalf("approval won but subtotal is %d", view.Contract.SubtotalCents)
			case errs[1] == nil && view.Contract.SubtotalCents != 10000:
				t.Fatalf("rejection won but subtotal is %d", view.Contract.SubtotalCents)
			}
		})
	}
}
