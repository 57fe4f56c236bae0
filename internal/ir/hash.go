package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for changing the algorithm later.
const (
	DomainCall = "hooks/call/v1"
	DomainArgs = "hooks/args/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
// The null separator keeps domain and data from running together.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CallID computes the content-addressed ID of a call record.
// The same run, function, operands and seq always hash to the same ID.
func CallID(runToken, function string, a, b, seq int64) (string, error) {
	obj := IRObject{
		"run_token": IRString(runToken),
		"function":  IRString(function),
		"a":         IRInt(a),
		"b":         IRInt(b),
		"seq":       IRInt(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CallID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCall, canonical), nil
}

// ArgsHash hashes an argument object. Used to tag runs in logs so that
// identical inputs are easy to spot.
func ArgsHash(args IRObject) (string, error) {
	canonical, err := MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("ArgsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainArgs, canonical), nil
}

// MustCallID is like CallID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCallID(runToken, function string, a, b, seq int64) string {
	id, err := CallID(runToken, function, a, b, seq)
	if err != nil {
		panic(err)
	}
	return id
}
