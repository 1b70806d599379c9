package rate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSilverRate(t *testing.T) {
	r, err := NewSilverRate(decimal.NewFromInt(85000), SourceManual)
	require.NoError(t, err)
	assert.Equal(t, SourceManual, r.Source)
	assert.True(t, r.Rate.Equal(decimal.NewFromInt(85000)))

	_, err = NewSilverRate(decimal.Zero, SourceManual)
	assert.Error(t, err)

	_, err = NewSilverRate(decimal.NewFromInt(-1), SourceAPI)
	assert.Error(t, err)

	_, err = NewSilverRate(decimal.NewFromInt(1), Source("Feed"))
	assert.Error(t, err)
}
