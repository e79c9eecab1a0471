package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultJobsTableName = "mecanica_jobs"

const (
	skContract     = "CONTRACT"
	skProgress     = "PROGRESS"
	skCancellation = "CANCELLATION"
	skDispute      = "DISPUTE"
	skItemPrefix   = "ITEM#"
	skAckPrefix    = "ACK#"
	skItemIndex    = "INDEX"

	entityContract     = "contract"
	entityProgress     = "progress"
	entityLineItem     = "line_item"
	entityItemIndex    = "line_item_index"
	entityCancellation = "cancellation"
	entityDispute      = "dispute"
	entityAck          = "acknowledgement"
	entityEvent        = "event"
)

// JobDynamoRepository persists the job aggregate in one DynamoDB table.
//
// Table requirements:
//   - PK: pk (string), SK: sk (string)
//
// Layout:
//   - JOB#<id>   / CONTRACT, PROGRESS, ITEM#<item>, CANCELLATION, DISPUTE, ACK#<role>#<version>
//   - LINEITEM#<item> / INDEX            (job_id of the item)
//   - EVENTS#<id> / <created_at>#<seq>#<event> (timeline, kept out of the state partition)
//
// Every commit is one TransactWriteItems call; the contract row carries the
// version condition.
type JobDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IJobRepository = (*JobDynamoRepository)(nil)

func NewJobDynamoRepository(ddb *dynamodb.Client, tableName string) *JobDynamoRepository {
	if tableName == "" {
		tableName = DefaultJobsTableName
	}
	return &JobDynamoRepository{ddb: ddb, tableName: tableName}
}

func jobPK(jobID string) string { return "JOB#" + jobID }

func eventsPK(jobID string) string { return "EVENTS#" + jobID }

func itemIndexPK(itemID string) string { return "LINEITEM#" + itemID }

// lineItemRow adds the sweep attribute to the stored item.
type lineItemRow struct {
	entities.InvoiceLineItem
	DeadlineKey string `json:"deadline_key,omitempty"`
}

type itemIndexRow struct {
	JobID string `json:"job_id"`
}

func (r *JobDynamoRepository) CreateContract(ctx context.Context, state entities.JobState, events []entities.JobEvent) error {
	jobID := state.Contract.JobID
	pk := jobPK(jobID)

	contract, err := marshalRow(pk, skContract, entityContract, state.Contract)
	if err != nil {
		return err
	}
	progress, err := marshalRow(pk, skProgress, entityProgress, state.Progress)
	if err != nil {
		return err
	}
	writes := []types.TransactWriteItem{
		r.putNew(contract),
		r.putNew(progress),
	}
	for _, it := range state.LineItems {
		w, err := r.lineItemInsert(jobID, it)
		if err != nil {
			return err
		}
		writes = append(writes, w...)
	}
	for i, ev := range events {
		w, err := r.eventPut(ev, i)
		if err != nil {
			return err
		}
		writes = append(writes, w)
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err != nil {
		if isConditionFailure(err) {
			return interfaces.ErrJobAlreadyExists
		}
		return err
	}
	return nil
}

func (r *JobDynamoRepository) GetState(ctx context.Context, jobID string) (entities.JobState, error) {
	var state entities.JobState
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": attrS(jobPK(jobID)),
		},
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return entities.JobState{}, err
		}
		for _, raw := range out.Items {
			if err := decodeStateRow(raw, &state); err != nil {
				return entities.JobState{}, err
			}
		}
	}
	if !state.Found() {
		return entities.JobState{}, nil
	}
	sort.SliceStable(state.LineItems, func(i, j int) bool { return state.LineItems[i].SortOrder < state.LineItems[j].SortOrder })
	return state, nil
}

func decodeStateRow(raw map[string]types.AttributeValue, state *entities.JobState) error {
	sk, _ := raw["sk"].(*types.AttributeValueMemberS)
	if sk == nil {
		return nil
	}
	switch {
	case sk.Value == skContract:
		return unmarshalRow(raw, &state.Contract)
	case sk.Value == skProgress:
		return unmarshalRow(raw, &state.Progress)
	case sk.Value == skCancellation:
		var c entities.CancellationRecord
		if err := unmarshalRow(raw, &c); err != nil {
			return err
		}
		state.Cancellation = &c
	case sk.Value == skDispute:
		var d entities.DisputeRecord
		if err := unmarshalRow(raw, &d); err != nil {
			return err
		}
		state.Dispute = &d
	case strings.HasPrefix(sk.Value, skItemPrefix):
		var row lineItemRow
		if err := unmarshalRow(raw, &row); err != nil {
			return err
		}
		state.LineItems = append(state.LineItems, row.InvoiceLineItem)
	case strings.HasPrefix(sk.Value, skAckPrefix):
		var a entities.Acknowledgement
		if err := unmarshalRow(raw, &a); err != nil {
			return err
		}
		state.Acknowledgements = append(state.Acknowledgements, a)
	}
	return nil
}

func (r *JobDynamoRepository) FindJobIDByLineItem(ctx context.Context, itemID string) (string, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"pk": attrS(itemIndexPK(itemID)),
			"sk": attrS(skItemIndex),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if len(out.Item) == 0 {
		return "", nil
	}
	var row itemIndexRow
	if err := unmarshalRow(out.Item, &row); err != nil {
		return "", err
	}
	return row.JobID, nil
}

func (r *JobDynamoRepository) Commit(ctx context.Context, ch entities.JobChange) error {
	if ch.Contract.Version != ch.ExpectedVersion+1 {
		return interfaces.ErrVersionConflict
	}
	if n := ch.WriteCount(); n > interfaces.MaxCommitWrites {
		return fmt.Errorf("commit job %s with %d writes: %w", ch.JobID, n, interfaces.ErrChangeTooLarge)
	}
	pk := jobPK(ch.JobID)

	contract, err := marshalRow(pk, skContract, entityContract, ch.Contract)
	if err != nil {
		return err
	}
	writes := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     contract,
			ConditionExpression:      aws.String("#version = :expected"),
			ExpressionAttributeNames: map[string]string{"#version": "version"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": attrN(strconv.FormatInt(ch.ExpectedVersion, 10)),
			},
		},
	}}

	if ch.Progress != nil {
		progress, err := marshalRow(pk, skProgress, entityProgress, *ch.Progress)
		if err != nil {
			return err
		}
		put := &types.Put{TableName: aws.String(r.tableName), Item: progress}
		if ch.ClaimFinalization {
			put.ConditionExpression = aws.String("attribute_not_exists(#finalized_at)")
			put.ExpressionAttributeNames = map[string]string{"#finalized_at": "finalized_at"}
		}
		writes = append(writes, types.TransactWriteItem{Put: put})
	}

	for _, w := range ch.LineItems {
		if w.ExpectedStatus == "" {
			ws, err := r.lineItemInsert(ch.JobID, w.Item)
			if err != nil {
				return err
			}
			writes = append(writes, ws...)
			continue
		}
		row, err := marshalLineItem(ch.JobID, w.Item)
		if err != nil {
			return err
		}
		writes = append(writes, types.TransactWriteItem{Put: &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     row,
			ConditionExpression:      aws.String("#approval_status = :expected"),
			ExpressionAttributeNames: map[string]string{"#approval_status": "approval_status"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": attrS(string(w.ExpectedStatus)),
			},
		}})
	}

	if ch.Cancellation != nil {
		row, err := marshalRow(pk, skCancellation, entityCancellation, *ch.Cancellation)
		if err != nil {
			return err
		}
		writes = append(writes, r.putNew(row))
	}
	if ch.Dispute != nil {
		row, err := marshalRow(pk, skDispute, entityDispute, *ch.Dispute)
		if err != nil {
			return err
		}
		writes = append(writes, r.putNew(row))
	}
	if a := ch.Acknowledgement; a != nil {
		row, err := marshalRow(pk, skAckPrefix+a.Key(), entityAck, *a)
		if err != nil {
			return err
		}
		writes = append(writes, r.putNew(row))
	}
	for i, ev := range ch.Events {
		w, err := r.eventPut(ev, i)
		if err != nil {
			return err
		}
		writes = append(writes, w)
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if err != nil {
		if isConditionFailure(err) {
			return interfaces.ErrVersionConflict
		}
		return fmt.Errorf("transact write job %s: %w", ch.JobID, err)
	}
	return nil
}

func (r *JobDynamoRepository) ListEvents(ctx context.Context, jobID string) ([]entities.JobEvent, error) {
	events := make([]entities.JobEvent, 0)
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": attrS(eventsPK(jobID)),
		},
		ScanIndexForward: aws.Bool(true),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var ev entities.JobEvent
			if err := unmarshalRow(raw, &ev); err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

// ListExpiredPendingLineItems scans for pending items past their deadline.
// The sweep runs at minute granularity so a filtered scan is acceptable at
// the expected table size.
func (r *JobDynamoRepository) ListExpiredPendingLineItems(ctx context.Context, now time.Time, limit int) ([]entities.InvoiceLineItem, error) {
	var items []entities.InvoiceLineItem
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#entity = :entity AND #approval_status = :pending AND #deadline_key <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#entity":          "entity",
			"#approval_status": "approval_status",
			"#deadline_key":    "deadline_key",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":entity":  attrS(entityLineItem),
			":pending": attrS(string(entities.ApprovalPending)),
			":now":     attrS(formatSortable(now)),
		},
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var row lineItemRow
			if err := unmarshalRow(raw, &row); err != nil {
				return nil, err
			}
			items = append(items, row.InvoiceLineItem)
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
		}
	}
	return items, nil
}

func (r *JobDynamoRepository) putNew(item map[string]types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{Put: &types.Put{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": "pk"},
	}}
}

func (r *JobDynamoRepository) lineItemInsert(jobID string, it entities.InvoiceLineItem) ([]types.TransactWriteItem, error) {
	row, err := marshalLineItem(jobID, it)
	if err != nil {
		return nil, err
	}
	index, err := marshalRow(itemIndexPK(it.ID), skItemIndex, entityItemIndex, itemIndexRow{JobID: jobID})
	if err != nil {
		return nil, err
	}
	return []types.TransactWriteItem{r.putNew(row), r.putNew(index)}, nil
}

func marshalLineItem(jobID string, it entities.InvoiceLineItem) (map[string]types.AttributeValue, error) {
	row := lineItemRow{InvoiceLineItem: it}
	if it.ApprovalStatus == entities.ApprovalPending && it.ApprovalDeadline != nil {
		row.DeadlineKey = formatSortable(*it.ApprovalDeadline)
	}
	return marshalRow(jobPK(jobID), skItemPrefix+it.ID, entityLineItem, row)
}

// eventPut keys events by time and position in the commit so the timeline
// keeps emission order.
func (r *JobDynamoRepository) eventPut(ev entities.JobEvent, seq int) (types.TransactWriteItem, error) {
	sk := fmt.Sprintf("%s#%03d#%s", formatSortable(ev.CreatedAt), seq, ev.ID)
	row, err := marshalRow(eventsPK(ev.JobID), sk, entityEvent, ev)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Put: &types.Put{TableName: aws.String(r.tableName), Item: row}}, nil
}
