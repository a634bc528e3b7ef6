package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusNotStarted.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusExpired.Valid())
	assert.False(t, TaskStatus("paused").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestCompareStatus(t *testing.T) {
	ranks := StatusRanks(StatusPrecedenceAsc)

	assert.Negative(t, CompareStatus(StatusCompleted, StatusInProgress, ranks))
	assert.Positive(t, CompareStatus(StatusExpired, StatusCompleted, ranks))
	assert.Zero(t, CompareStatus(StatusInProgress, StatusInProgress, ranks))
}

func TestCompareStatusUnknownAlwaysLast(t *testing.T) {
	// The rule is asymmetric: an unknown first operand sorts after anything,
	// even after another unknown status.
	ranks := StatusRanks(StatusPrecedenceAsc)
	unknown := TaskStatus("paused")

	assert.Equal(t, 1, CompareStatus(unknown, StatusExpired, ranks))
	assert.Equal(t, -1, CompareStatus(StatusExpired, unknown, ranks))
	assert.Equal(t, 1, CompareStatus(unknown, unknown, ranks))
}
