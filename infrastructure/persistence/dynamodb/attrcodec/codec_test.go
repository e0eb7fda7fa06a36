package attrcodec

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want interface{}
	}{
		{name: "integer", in: "3", want: int64(3)},
		{name: "negative integer", in: "-2", want: int64(-2)},
		{name: "zero", in: "0", want: int64(0)},
		{name: "float", in: "-12.045", want: -12.045},
		{name: "integral float form", in: "5.0", want: int64(5)},
		{name: "large integer", in: "9007199254740993", want: int64(9007199254740993)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTripIsIdempotent(t *testing.T) {
	record := map[string]interface{}{
		"piso":   3,
		"lat":    -12.045,
		"activo": true,
		"nota":   nil,
		"titulo": "Fuga de agua",
		"coordenadas": map[string]interface{}{
			"lat": -12.045,
			"lng": -77.0311,
		},
		"evidencias": []interface{}{"s3://bucket/evidencia_1", 7},
	}

	first, err := EncodeItem(record)
	require.NoError(t, err)

	decoded, err := DecodeItem(first)
	require.NoError(t, err)

	second, err := EncodeItem(decoded)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBooleansAndNullSurvive(t *testing.T) {
	item := map[string]types.AttributeValue{
		"activo": &types.AttributeValueMemberBOOL{Value: true},
		"nota":   &types.AttributeValueMemberNULL{Value: true},
	}

	decoded, err := DecodeItem(item)
	require.NoError(t, err)

	assert.Equal(t, true, decoded["activo"])
	assert.Nil(t, decoded["nota"])

	encoded, err := EncodeItem(decoded)
	require.NoError(t, err)

	_, isBool := encoded["activo"].(*types.AttributeValueMemberBOOL)
	assert.True(t, isBool, "boolean must not be coerced to a number")
	_, isNull := encoded["nota"].(*types.AttributeValueMemberNULL)
	assert.True(t, isNull)
}

func TestStringsPassThrough(t *testing.T) {
	decoded, err := Decode(&types.AttributeValueMemberS{Value: "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", decoded)

	encoded, err := Encode("42")
	require.NoError(t, err)
	s, ok := encoded.(*types.AttributeValueMemberS)
	require.True(t, ok, "string-typed numeric fields stay strings")
	assert.Equal(t, "42", s.Value)
}

func TestDecodeNestedLists(t *testing.T) {
	item := map[string]types.AttributeValue{
		"evidencias": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "s3://b/k"},
			&types.AttributeValueMemberN{Value: "10.5"},
		}},
	}

	decoded, err := DecodeItem(item)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"s3://b/k", 10.5}, decoded["evidencias"])
}
