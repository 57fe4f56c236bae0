// Package helper holds small formatting and arithmetic helpers.
package helper

import "golang.org/x/text/unicode/norm"

// CalculateSum is the registered function name of CalculateSum.
const CalculateSum = "calculateSum"

const banner = "=========="

// Sum returns a+b.
func Sum(a, b int64) int64 {
	return a + b
}

// FormatMessage frames message with banner rules:
//
//	========== message ==========
//
// The message is NFC normalized and otherwise kept as given, surrounding
// whitespace included.
func FormatMessage(message string) string {
	return banner + " " + norm.NFC.String(message) + " " + banner
}
