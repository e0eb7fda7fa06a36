// Package attrcodec converts between DynamoDB attribute values and plain
// JSON-ready Go values. DynamoDB numbers travel as exact decimal strings;
// on the way out an integral number becomes int64 and anything else
// float64, so JSON output carries real numbers instead of quoted decimals.
// Booleans and nulls are never coerced to numbers in either direction.
package attrcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DecodeItem converts a full DynamoDB item into a JSON-serializable map
func DecodeItem(item map[string]types.AttributeValue) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(item))
	for name, av := range item {
		v, err := Decode(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// Decode converts one attribute value into a plain Go value
func Decode(av types.AttributeValue) (interface{}, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return decodeNumber(v.Value)
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberB:
		return v.Value, nil
	case *types.AttributeValueMemberSS:
		out := make([]interface{}, len(v.Value))
		for i, s := range v.Value {
			out[i] = s
		}
		return out, nil
	case *types.AttributeValueMemberNS:
		out := make([]interface{}, len(v.Value))
		for i, n := range v.Value {
			num, err := decodeNumber(n)
			if err != nil {
				return nil, err
			}
			out[i] = num
		}
		return out, nil
	case *types.AttributeValueMemberL:
		out := make([]interface{}, len(v.Value))
		for i, item := range v.Value {
			dv, err := Decode(item)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case *types.AttributeValueMemberM:
		return DecodeItem(v.Value)
	default:
		return nil, fmt.Errorf("unsupported attribute value type %T", av)
	}
}

// decodeNumber maps a decimal string to int64 when exactly integral,
// float64 otherwise.
func decodeNumber(s string) (interface{}, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if f == float64(int64(f)) && !strings.ContainsAny(s, "eE") {
		return int64(f), nil
	}
	return f, nil
}

// EncodeItem converts a plain map into a DynamoDB item
func EncodeItem(item map[string]interface{}) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(item))
	for name, v := range item {
		av, err := Encode(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = av
	}
	return out, nil
}

// Encode converts one plain Go value into an attribute value. Numeric types
// become exact decimal strings; a value that is already a decimal string
// number stays a string (strings pass through untouched).
func Encode(v interface{}) (types.AttributeValue, error) {
	switch val := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case bool:
		return &types.AttributeValueMemberBOOL{Value: val}, nil
	case string:
		return &types.AttributeValueMemberS{Value: val}, nil
	case []byte:
		return &types.AttributeValueMemberB{Value: val}, nil
	case int:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(val), 10)}, nil
	case int64:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(val, 10)}, nil
	case float64:
		// Shortest round-trip form keeps the value exact both ways.
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(val, 'f', -1, 64)}, nil
	case []interface{}:
		list := make([]types.AttributeValue, len(val))
		for i, item := range val {
			av, err := Encode(item)
			if err != nil {
				return nil, err
			}
			list[i] = av
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case map[string]interface{}:
		m, err := EncodeItem(val)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
