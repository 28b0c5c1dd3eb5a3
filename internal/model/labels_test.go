package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowLabels(t *testing.T) {
	expected := []string{
		"5", "4", "3", "2", "1",
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15",
	}
	assert.Equal(t, expected, RowLabels())
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "5", RowLabel(0))
	assert.Equal(t, "1", RowLabel(StartRow-1))
	assert.Equal(t, "1", RowLabel(StartRow))
	assert.Equal(t, "15", RowLabel(Rows-1))
	assert.Empty(t, RowLabel(-1))
	assert.Empty(t, RowLabel(Rows))
}

func TestRowLabelsReturnsCopy(t *testing.T) {
	labels := RowLabels()
	labels[0] = "changed"
	assert.Equal(t, "5", RowLabel(0))
}
