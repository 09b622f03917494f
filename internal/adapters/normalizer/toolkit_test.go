package normalizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/core/domain"
)

func TestConvertPrice(t *testing.T) {
	assert.Equal(t, int64(111), ConvertPrice(10000, 90))
	assert.Equal(t, int64(112), ConvertPrice(10050, 90))
	assert.Equal(t, int64(0), ConvertPrice(10000, 0))
}

func TestPreparePhone(t *testing.T) {
	assert.Equal(t, "79031234567, 84951112233", PreparePhone([]string{"+7 (903) 123-45-67", "", "8 495 111-22-33"}))
	assert.Empty(t, PreparePhone(nil))
}

func TestConcatAddress(t *testing.T) {
	row := &domain.RawRow{RegionName: "Тверская область", CityName: " ", Address: "ул. Мира, 7"}
	assert.Equal(t, "Тверская область, ул. Мира, 7", ConcatAddress(row))
}

func TestResolveAct(t *testing.T) {
	act, rej := ResolveAct(&domain.RawRow{Act: "rent", Price: 5000000}, false)
	require.Nil(t, rej)
	assert.Equal(t, "rent", act)

	act, rej = ResolveAct(&domain.RawRow{Price: 500000}, true)
	require.Nil(t, rej)
	assert.Equal(t, "rent", act)

	_, rej = ResolveAct(&domain.RawRow{Act: "want_rent"}, false)
	require.NotNil(t, rej)
	assert.True(t, rej.Exclusion)
}

func TestCommon_Dates(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created := now.Add(-48 * time.Hour)
	tk := NewToolkit(Deps{}).WithClock(func() time.Time { return now })

	c := tk.Common(&domain.RawRow{}, domain.Rates{}, domain.DealSale, 77)
	assert.True(t, c.DateAdded.IsZero())
	assert.True(t, c.DateRenew.IsZero())
	assert.Nil(t, c.DateDeleted)

	c = tk.Common(&domain.RawRow{CreatedAt: &created}, domain.Rates{}, domain.DealSale, 77)
	assert.Equal(t, created, c.DateAdded)
	assert.Equal(t, created, c.DateRenew)

	renewed := now.Add(-time.Hour)
	c = tk.Common(&domain.RawRow{UpdatedAt: &renewed}, domain.Rates{}, domain.DealSale, 77)
	assert.True(t, c.DateAdded.IsZero())
	assert.Equal(t, renewed, c.DateRenew)
}

func TestAddress_MetroRegionDistrictCleared(t *testing.T) {
	tk := NewToolkit(Deps{})
	l := &domain.Listing{
		PropertyType: domain.Cottages,
		Fields:       &domain.CottageFields{},
		Common:       domain.CommonFields{RegionID: 78},
	}
	rej, err := tk.Address(context.Background(), l, "", "Московская область, Одинцовский район, Одинцово, пос. Лесной")
	require.NoError(t, err)
	require.Nil(t, rej)
	assert.Empty(t, l.Common.District)
	assert.Equal(t, "пос. Лесной", l.Common.NasPunkt)
}

func TestApplyBreakdown(t *testing.T) {
	var c domain.CommonFields
	applyBreakdown(&c, domain.AddressBreakdown{
		RegionID:    69,
		Level6Name:  "Калининский район",
		Level8Name:  "Тверь",
		Locality:    "пгт Эммаус",
		Street:      "",
		District:    "микрорайон Южный",
		HouseNumber: "7",
	})
	assert.Equal(t, domain.CommonFields{
		District:    "Калининский район",
		Locality:    "Тверь",
		NasPunkt:    "пгт Эммаус",
		Street:      "микрорайон Южный",
		HouseNumber: "7",
	}, c)
}
