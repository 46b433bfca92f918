package codec

// asUint64/asInt64/asFloat64/asBytes accept the idiomatic Go type for each
// primitive plus the canonical codec return type, so a value round-tripped
// through Decode can be fed straight back into Encode.
func asUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, encErr("expected non-negative integer, got %d", n)
		}
		return uint64(n), nil
	default:
		return 0, encErr("expected an unsigned integer, got %T", v)
	}
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, encErr("expected a signed integer, got %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, encErr("expected a float, got %T", v)
	}
}

func asBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, encErr("expected []byte, got %T", v)
	}
}
