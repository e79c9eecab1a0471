package repository

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// sortableTime has a fixed width so that string comparison in DynamoDB
// expressions orders instants correctly.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

func formatSortable(t time.Time) string {
	return t.UTC().Format(sortableTime)
}

func attrS(v string) *types.AttributeValueMemberS {
	return &types.AttributeValueMemberS{Value: v}
}

func attrN(v string) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: v}
}

// marshalRow encodes an entity using its json field names and adds the table
// keys.
func marshalRow(pk, sk, entity string, v any) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMapWithOptions(v, func(o *attributevalue.EncoderOptions) {
		o.TagKey = "json"
	})
	if err != nil {
		return nil, err
	}
	av["pk"] = attrS(pk)
	av["sk"] = attrS(sk)
	av["entity"] = attrS(entity)
	return av, nil
}

func unmarshalRow(av map[string]types.AttributeValue, out any) error {
	return attributevalue.UnmarshalMapWithOptions(av, out, func(o *attributevalue.DecoderOptions) {
		o.TagKey = "json"
	})
}

// isConditionFailure reports whether err is a failed condition on a single
// write or on any member of a transaction.
func isConditionFailure(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, r := range tce.CancellationReasons {
			if r.Code != nil && (*r.Code == "ConditionalCheckFailed" || *r.Code == "TransactionConflict") {
				return true
			}
		}
	}
	return false
}
