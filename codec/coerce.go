package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// CoerceArguments converts loosely typed values, as produced by JSON decoding or typed in a
// form, into the Go values go-ethereum packs for each type. Values that already have the
// right Go type are returned unchanged.
func CoerceArguments(types []abi.Type, values []any) ([]any, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(types), len(values))
	}

	out := make([]any, len(values))
	for i := range types {
		v, err := coerce(types[i], values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, types[i].String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func coerce(t abi.Type, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	if reflect.TypeOf(v) == t.GetType() {
		return v, nil
	}

	switch t.T {
	case abi.AddressTy:
		s, ok := v.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %v", v)
		}
		return common.HexToAddress(s), nil

	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)

	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, fmt.Errorf("invalid bool %v", v)

	case abi.StringTy:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("invalid string %v", v)

	case abi.BytesTy:
		bz, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		return bz, nil

	case abi.FixedBytesTy, abi.HashTy:
		bz, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		arr := reflect.New(t.GetType()).Elem()
		if len(bz) != arr.Len() {
			return nil, fmt.Errorf("expected %d bytes, got %d", arr.Len(), len(bz))
		}
		reflect.Copy(arr, reflect.ValueOf(bz))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items := reflect.ValueOf(v)
		if items.Kind() != reflect.Slice && items.Kind() != reflect.Array {
			return nil, fmt.Errorf("expected a list, got %T", v)
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), items.Len(), items.Len())
		} else {
			if items.Len() != t.Size {
				return nil, fmt.Errorf("expected %d elements, got %d", t.Size, items.Len())
			}
			out = reflect.New(t.GetType()).Elem()
		}
		for i := 0; i < items.Len(); i++ {
			item, err := coerce(*t.Elem, items.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(item))
		}
		return out.Interface(), nil

	case abi.TupleTy:
		return coerceTuple(t, v)
	}

	return nil, fmt.Errorf("unsupported type %s for value %T", t.String(), v)
}

// coerceTuple accepts either a positional list or an object keyed by component name.
func coerceTuple(t abi.Type, v any) (any, error) {
	out := reflect.New(t.TupleType).Elem()

	switch fields := v.(type) {
	case []any:
		if len(fields) != len(t.TupleElems) {
			return nil, fmt.Errorf("expected %d components, got %d", len(t.TupleElems), len(fields))
		}
		for i, elem := range t.TupleElems {
			item, err := coerce(*elem, fields[i])
			if err != nil {
				return nil, fmt.Errorf("component %d: %w", i, err)
			}
			out.Field(i).Set(reflect.ValueOf(item))
		}
	case map[string]any:
		for i, elem := range t.TupleElems {
			raw, ok := fields[t.TupleRawNames[i]]
			if !ok {
				raw, ok = fields[out.Type().Field(i).Name]
			}
			if !ok {
				return nil, fmt.Errorf("missing component %s", t.TupleRawNames[i])
			}
			item, err := coerce(*elem, raw)
			if err != nil {
				return nil, fmt.Errorf("component %s: %w", t.TupleRawNames[i], err)
			}
			out.Field(i).Set(reflect.ValueOf(item))
		}
	default:
		return nil, fmt.Errorf("expected a tuple, got %T", v)
	}

	return out.Interface(), nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return new(big.Int).Set(n), nil
	case string:
		s := strings.TrimSpace(n)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		i, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return i, nil
	case json.Number:
		return toBigInt(n.String())
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("invalid integer %v", n)
		}
		i, _ := big.NewFloat(n).Int(nil)
		return i, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}

	return nil, fmt.Errorf("invalid integer %v", v)
}

// fitInteger checks n against the bit size of t and converts it to the native Go integer
// go-ethereum uses for 8, 16, 32 and 64 bit types.
func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s overflows %s", n, t.String())
		}
	}

	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}

	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case hexutil.Bytes:
		return b, nil
	case string:
		if b == "" || b == "0x" {
			return []byte{}, nil
		}
		return hexutil.Decode(b)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		bz := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(bz), rv)
		return bz, nil
	}

	return nil, fmt.Errorf("invalid bytes %v", v)
}
