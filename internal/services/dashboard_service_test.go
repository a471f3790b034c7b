package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cmms-backend/internal/dto"
)

func TestFormatHours(t *testing.T) {
	testCases := []struct {
		hours    float64
		expected string
	}{
		{0.5, "30m"},
		{0.99, "59m"},
		{1, "1h"},
		{5.5, "5h"},
		{23.9, "23h"},
		{24, "1d 0h"},
		{52, "2d 4h"},
		{75.5, "3d 3h"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, formatHours(tc.hours), "hours=%v", tc.hours)
	}
}

func TestPriorityDistribution(t *testing.T) {
	dist := priorityDistribution(map[string]int{
		"Critical": 3,
		"High":     5,
		"Medium":   10,
		"Low":      2,
		"Urgent":   4, // нестандартное значение из старых данных
	})

	assert.Equal(t, dto.PriorityDistributionDTO{
		Critical: 3,
		High:     5,
		Medium:   10,
		Low:      2,
		Other:    4,
	}, dist)
}

func TestPriorityDistribution_Empty(t *testing.T) {
	dist := priorityDistribution(map[string]int{})
	assert.Equal(t, dto.PriorityDistributionDTO{}, dist)
}
