package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/elysian/account-api/internal/domain"
)

// CodeRepo manages pre-registration verification codes.
// PK: email — UpdateItem gives upsert semantics, so issuing a new code
// silently replaces any previous one for the same address.
type CodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCodeRepo(client *dynamodb.Client, tableName string) *CodeRepo {
	return &CodeRepo{client: client, tableName: tableName}
}

func (r *CodeRepo) Upsert(ctx context.Context, email, code string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{"code": code})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *CodeRepo) Get(ctx context.Context, email string) (*domain.VerificationCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification code not found: %w", domain.ErrNotFound)
	}
	var v domain.VerificationCode
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CodeRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	return err
}
