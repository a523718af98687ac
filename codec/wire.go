package codec

import (
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// marshalsAsIs reports whether encoding/json renders values of t in a form coerce accepts.
// Byte strings and uint8 lists marshal as base64 or number arrays and do not.
func marshalsAsIs(t abi.Type) bool {
	switch t.T {
	case abi.BytesTy, abi.FixedBytesTy, abi.HashTy:
		return false
	case abi.SliceTy, abi.ArrayTy:
		if t.Elem.T == abi.UintTy && t.Elem.Size == 8 {
			return false
		}
		return marshalsAsIs(*t.Elem)
	case abi.TupleTy:
		for _, elem := range t.TupleElems {
			if !marshalsAsIs(*elem) {
				return false
			}
		}
	}
	return true
}

// wireValue rewrites a decoded value of type t into its JSON friendly form: hexutil.Bytes for
// byte strings, []any for lists and positional []any for tuples that contain them.
func wireValue(t abi.Type, v any) any {
	if v == nil || marshalsAsIs(t) {
		return v
	}

	rv := reflect.ValueOf(v)
	switch t.T {
	case abi.BytesTy:
		if bz, ok := v.([]byte); ok {
			return hexutil.Bytes(bz)
		}
	case abi.FixedBytesTy, abi.HashTy:
		if rv.Kind() == reflect.Array {
			bz := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(bz), rv)
			return hexutil.Bytes(bz)
		}
	case abi.SliceTy, abi.ArrayTy:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = wireValue(*t.Elem, rv.Index(i).Interface())
		}
		return items
	case abi.TupleTy:
		if rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		fields := make([]any, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			fields[i] = wireValue(*elem, rv.Field(i).Interface())
		}
		return fields
	}
	return v
}
