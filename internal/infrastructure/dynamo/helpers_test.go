package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	k := strKey("email", "a@b.com")
	require.Len(t, k, 1)
	s, ok := k["email"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", s.Value)
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"code": "042137"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "code"}, ue.Names)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	s, isStr := av.(*types.AttributeValueMemberS)
	require.True(t, isStr)
	assert.Equal(t, "042137", s.Value)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"name":        "Alice",
		"code":        "000042",
		"family_name": "Smith",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: code < family_name < name
	assert.Equal(t, "code", ue1.Names["#f0"])
	assert.Equal(t, "family_name", ue1.Names["#f1"])
	assert.Equal(t, "name", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}
