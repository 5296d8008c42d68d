package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsToStrings(labels []Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.String())
	}
	return out
}

func TestGenerateExampleAirplane(t *testing.T) {
	// 8 business + 12 economy: business fills rows 1–2, economy starts
	// at row 3.
	labels, err := Generate(8, 12)
	require.NoError(t, err)
	require.Len(t, labels, 20)

	assert.Equal(t, []string{
		"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D",
		"3A", "3B", "3C", "3D", "3E", "3F",
		"4A", "4B", "4C", "4D", "4E", "4F",
	}, labelsToStrings(labels))

	for i, l := range labels {
		if i < 8 {
			assert.Equal(t, ClassBusiness, l.Class)
		} else {
			assert.Equal(t, ClassEconomy, l.Class)
		}
	}
}

func TestGenerateUniqueLabelsNoRowOverlap(t *testing.T) {
	cases := [][2]int{{0, 0}, {4, 0}, {0, 6}, {8, 12}, {16, 36}, {40, 180}}
	for _, tc := range cases {
		labels, err := Generate(tc[0], tc[1])
		require.NoError(t, err)
		require.Len(t, labels, tc[0]+tc[1])

		seen := make(map[string]struct{}, len(labels))
		maxBusinessRow := uint32(0)
		minEconomyRow := uint32(0)
		for _, l := range labels {
			_, dup := seen[l.String()]
			require.False(t, dup, "duplicate label %s for %v", l, tc)
			seen[l.String()] = struct{}{}
			if l.Class == ClassBusiness && l.Row > maxBusinessRow {
				maxBusinessRow = l.Row
			}
			if l.Class == ClassEconomy && (minEconomyRow == 0 || l.Row < minEconomyRow) {
				minEconomyRow = l.Row
			}
		}
		if tc[0] > 0 && tc[1] > 0 {
			assert.Greater(t, minEconomyRow, maxBusinessRow, "economy rows must follow business rows for %v", tc)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := Generate(16, 36)
	require.NoError(t, err)
	second, err := Generate(16, 36)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateRejectsInvalidCapacity(t *testing.T) {
	cases := [][2]int{{7, 12}, {8, 13}, {-4, 6}, {4, -6}, {1, 1}}
	for _, tc := range cases {
		_, err := Generate(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidCapacity, "capacity %v must be rejected", tc)
	}
}

func TestResizeGrowBusiness(t *testing.T) {
	// 8 -> 12 business seats adds exactly one new row continuing from
	// row 3; existing seats are untouched.
	business, economy, err := Resize(8, 12, 12, 12)
	require.NoError(t, err)
	assert.Zero(t, business.Remove)
	assert.Equal(t, []string{"3A", "3B", "3C", "3D"}, labelsToStrings(business.Add))
	assert.Empty(t, economy.Add)
	assert.Zero(t, economy.Remove)
}

func TestResizeShrinkBusiness(t *testing.T) {
	// 12 -> 8 removes exactly the 4 highest-numbered business seats.
	business, _, err := Resize(12, 12, 8, 12)
	require.NoError(t, err)
	assert.Empty(t, business.Add)
	assert.Equal(t, 4, business.Remove)
}

func TestResizeClassesIndependent(t *testing.T) {
	business, economy, err := Resize(8, 18, 12, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"3A", "3B", "3C", "3D"}, labelsToStrings(business.Add))
	assert.Equal(t, 6, economy.Remove)
	assert.Empty(t, economy.Add)
}

func TestResizeGrowEconomyContinuesNumbering(t *testing.T) {
	// With 8 business seats (2 rows), economy rows start at 3; growing
	// 12 -> 18 economy continues at row 5.
	_, economy, err := Resize(8, 12, 8, 18)
	require.NoError(t, err)
	assert.Equal(t, []string{"5A", "5B", "5C", "5D", "5E", "5F"}, labelsToStrings(economy.Add))
}

func TestResizeRejectsInvalidTarget(t *testing.T) {
	_, _, err := Resize(8, 12, 7, 12)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
