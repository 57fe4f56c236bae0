package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	assert.Equal(t, int64(30), Sum(10, 20))
	assert.Equal(t, int64(-1), Sum(1, -2))
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "========== hello ==========", FormatMessage("hello"))
	assert.Equal(t, "==========   hello\n ==========", FormatMessage("  hello\n"), "whitespace kept")
	assert.Equal(t, "==========  ==========", FormatMessage(""))
}

func TestFormatMessage_NormalizesNFC(t *testing.T) {
	decomposed := "cafe\u0301"
	assert.Equal(t, "========== caf\u00e9 ==========", FormatMessage(decomposed))
}
