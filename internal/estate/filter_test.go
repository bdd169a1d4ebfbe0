// internal/estate/filter_test.go
package estate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAndSort(t *testing.T) {
	sample := []Transaction{
		{District: "강남구", Neighborhood: "역삼동", BuildingName: "역삼래미안", Date: "20240110"},
		{District: "송파구", Neighborhood: "잠실동", BuildingName: "잠실엘스", Date: "20240301"},
		{District: "강남구", Neighborhood: "대치동", BuildingName: "은마", Date: "20240215"},
		{District: "노원구", Neighborhood: "상계동", BuildingName: "상계주공", Date: "20231120"},
	}

	tests := []struct {
		name     string
		term     string
		expected []string // building names in result order
	}{
		{
			name:     "empty term yields empty result",
			term:     "",
			expected: []string{},
		},
		{
			name:     "whitespace-only term yields empty result",
			term:     "   ",
			expected: []string{},
		},
		{
			name:     "matches neighborhood",
			term:     "역삼동",
			expected: []string{"역삼래미안"},
		},
		{
			name:     "matches district, sorted by date descending",
			term:     "강남구",
			expected: []string{"은마", "역삼래미안"},
		},
		{
			name:     "matches building name",
			term:     "잠실엘스",
			expected: []string{"잠실엘스"},
		},
		{
			name:     "no match yields empty slice not nil",
			term:     "해운대구",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndSort(sample, tt.term)
			assert.NotNil(t, got)
			names := make([]string, 0, len(got))
			for _, tx := range got {
				names = append(names, tx.BuildingName)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFilterAndSort_StableOnEqualDates(t *testing.T) {
	sample := []Transaction{
		{Neighborhood: "역삼동", BuildingName: "first", Date: "20240110"},
		{Neighborhood: "역삼동", BuildingName: "second", Date: "20240110"},
		{Neighborhood: "역삼동", BuildingName: "third", Date: "20240110"},
	}

	got := FilterAndSort(sample, "역삼동")

	assert.Len(t, got, 3)
	assert.Equal(t, "first", got[0].BuildingName)
	assert.Equal(t, "second", got[1].BuildingName)
	assert.Equal(t, "third", got[2].BuildingName)
}
