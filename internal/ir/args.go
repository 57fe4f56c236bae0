package ir

import "sort"

// IntArg extracts the integer argument key from args on behalf of function.
// A missing or non-integer value is an INVALID_ARGUMENT error.
func IntArg(function string, args IRObject, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, NewInvalidArgument(function, key, "is required")
	}
	n, ok := v.(IRInt)
	if !ok {
		return 0, NewInvalidArgument(function, key, "must be an integer, got "+typeName(v))
	}
	return int64(n), nil
}

// CheckKnownArgs rejects any key of args not listed in allowed.
// Unknown keys are reported in sorted order so the error is stable.
func CheckKnownArgs(function string, args IRObject, allowed ...string) error {
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}
	var extra []string
	for k := range args {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return NewInvalidArgument(function, extra[0], "is not accepted")
}

// OperandArgs builds the {"a": a, "b": b} object every hook takes.
func OperandArgs(a, b int64) IRObject {
	return IRObject{"a": IRInt(a), "b": IRInt(b)}
}

func typeName(v IRValue) string {
	switch v.(type) {
	case IRString:
		return "string"
	case IRBool:
		return "bool"
	case IRArray:
		return "array"
	case IRObject:
		return "object"
	case IRInt:
		return "int"
	default:
		return "unknown"
	}
}
