package cian

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/adapters/normalizer"
	"reconciliation-service/internal/adapters/normalizer/normalizertest"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func normalize(t *testing.T, deps normalizer.Deps, events *normalizertest.Events, row domain.RawRow, pt domain.PropertyType) (*domain.Listing, *domain.Rejection) {
	t.Helper()
	if events == nil {
		events = &normalizertest.Events{}
	}
	n := New(normalizer.NewToolkit(deps).WithClock(func() time.Time { return fixedNow }))
	env := port.NormalizeEnv{SourceID: 9, Rates: domain.Rates{USD: 90, EUR: 100}, Events: events}

	l, rej, err := n.Normalize(context.Background(), env, row, pt)
	require.NoError(t, err)
	return l, rej
}

func flatRow() domain.RawRow {
	return domain.RawRow{
		ID:       21,
		Type:     "apart",
		Act:      "sale",
		Price:    12000000,
		RegionID: 4,
		Address:  "Московская область, Балашиха, ул. Ленина, 5",
		Rooms:    " 3 ",
		Metro:    []string{"Новокосино"},
		Params: map[int]string{
			paramFloor:       "5 из 9",
			paramBuilding:    "вторичка, кирпичный",
			paramArea:        "65,5 м²",
			paramAreaLiving:  "40 м²",
			paramAreaKitchen: "12 м²",
			paramBalcony:     "1 балк. + 1 лодж.",
			paramPhone:       "да",
			paramWCComb:      "1",
			paramRepair:      "евроремонт",
			paramRentTerm:    "длительный",
			paramFurniture:   "есть",
			paramNewPhase:    "строящийся",
			paramDeadline:    "4 кв. 2027 г.",
		},
	}
}

func TestNormalize_Flat(t *testing.T) {
	metro := &normalizertest.MockMetro{}
	metro.On("StationID", mock.Anything, 50, "Новокосино").Return(311, nil)
	events := &normalizertest.Events{}

	l, rej := normalize(t, normalizer.Deps{Metro: metro}, events, flatRow(), domain.Flats)
	require.Nil(t, rej)
	require.NotNil(t, l)

	assert.Equal(t, 9, l.SourceID)
	assert.Equal(t, 50, l.Common.RegionID)
	assert.Equal(t, domain.DealSale, l.Common.Deal)
	assert.Equal(t, int64(133333), l.Common.PriceUSD)
	assert.Equal(t, int64(120000), l.Common.PriceEUR)
	assert.Equal(t, "Балашиха", l.Common.Locality)
	assert.Equal(t, "ул. Ленина", l.Common.Street)
	assert.Equal(t, "5", l.Common.HouseNumber)

	f, ok := l.Fields.(*domain.FlatFields)
	require.True(t, ok)
	assert.Equal(t, 311, f.Metro.ID)
	assert.Equal(t, 3, f.Rooms)
	assert.Equal(t, 5, f.Floor)
	assert.Equal(t, 9, f.Floors)
	assert.Equal(t, 120, f.HouseType)
	assert.Equal(t, 0, f.Type)
	assert.InDelta(t, 65.5, f.AreaTotal, 1e-9)
	assert.InDelta(t, 40, f.AreaLiving, 1e-9)
	assert.InDelta(t, 12, f.AreaKitchen, 1e-9)
	assert.Equal(t, 140, f.Balcony)
	assert.Equal(t, 1, f.PhoneOn)
	assert.Equal(t, 1, f.WCCombNum)
	assert.Equal(t, defaultWCCount, f.WCSepNum)
	assert.Equal(t, 60, f.RepairCondition)
	assert.Equal(t, 140, f.RentTerm)
	assert.Equal(t, 1, f.Furniture)
	assert.Equal(t, 10, f.NewPhase)
	assert.Equal(t, 4, f.NewQuarter)
	assert.Equal(t, 2027, f.NewYear)

	assert.Empty(t, events.Unknown())
	metro.AssertExpectations(t)
}

func TestNormalize_CaseSensitiveTables(t *testing.T) {
	testCases := []struct {
		name        string
		rentTerm    string
		wantTerm    int
		wantUnknown []string
	}{
		{name: "Exact token", rentTerm: "Посуточно", wantTerm: 110},
		{name: "Different case is unknown", rentTerm: "посуточно", wantTerm: 0, wantUnknown: []string{"rent_term:посуточно"}},
		{name: "Missing value", rentTerm: "", wantTerm: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := flatRow()
			row.Params[paramRentTerm] = tc.rentTerm
			events := &normalizertest.Events{}

			l, rej := normalize(t, normalizer.Deps{}, events, row, domain.Flats)
			require.Nil(t, rej)
			assert.Equal(t, tc.wantTerm, l.Fields.(*domain.FlatFields).RentTerm)
			assert.Equal(t, tc.wantUnknown, events.Unknown())
		})
	}
}

func TestNormalize_NewBuildingIsSilent(t *testing.T) {
	row := flatRow()
	row.Params[paramBuilding] = "новостройка"
	events := &normalizertest.Events{}

	l, rej := normalize(t, normalizer.Deps{}, events, row, domain.Flats)
	require.Nil(t, rej)
	f := l.Fields.(*domain.FlatFields)
	assert.Equal(t, domain.BuildingTypeNew, f.Type)
	assert.Equal(t, 0, f.HouseType)
	assert.Empty(t, events.Unknown())
}

func TestNormalize_FloorsPriority(t *testing.T) {
	row := flatRow()
	row.Params[paramFloorsAlt] = "12"
	l, _ := normalize(t, normalizer.Deps{}, nil, row, domain.Flats)
	assert.Equal(t, 12, l.Fields.(*domain.FlatFields).Floors)

	row.Params[paramFloors] = "17 этажей"
	l, _ = normalize(t, normalizer.Deps{}, nil, row, domain.Flats)
	assert.Equal(t, 17, l.Fields.(*domain.FlatFields).Floors)
}

func TestNormalize_UnknownDealToken(t *testing.T) {
	row := flatRow()
	row.Act = "barter"
	events := &normalizertest.Events{}

	l, rej := normalize(t, normalizer.Deps{}, events, row, domain.Flats)
	require.Nil(t, rej)
	assert.Equal(t, 0, l.Common.Deal)
	assert.Equal(t, []string{"deal:barter"}, events.Unknown())
}

func TestNormalize_DefaultDeal(t *testing.T) {
	testCases := []struct {
		name     string
		regionID int64
		address  string
		want     int
	}{
		{name: "Moscow", regionID: 1, address: "Москва, Москва, Тверской район, ул. Тверская, 12", want: domain.DealRent},
		{name: "Moscow region", regionID: 4, address: "Московская область, Балашиха, ул. Ленина, 5", want: domain.DealSale},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := flatRow()
			row.Act = ""
			row.Price = 900000
			row.RegionID = tc.regionID
			row.Address = tc.address

			l, rej := normalize(t, normalizer.Deps{}, nil, row, domain.Flats)
			require.Nil(t, rej)
			assert.Equal(t, tc.want, l.Common.Deal)
		})
	}
}

func TestNormalize_Exclusions(t *testing.T) {
	testCases := []struct {
		name string
		deps normalizer.Deps
		edit func(r *domain.RawRow)
		want string
	}{
		{name: "Demand", edit: func(r *domain.RawRow) { r.Name = "Покупатель" }, want: domain.ReasonDropDemand},
		{name: "Hotel", edit: func(r *domain.RawRow) { r.Subcategory = "Гостиница" }, want: domain.ReasonDropHospital},
		{name: "Crimea", deps: normalizer.Deps{ExcludeCrimea: true}, edit: func(r *domain.RawRow) { r.RegionID = 17 }, want: domain.ReasonRegionCrimea},
		{name: "Sevastopol", deps: normalizer.Deps{ExcludeCrimea: true}, edit: func(r *domain.RawRow) { r.RegionID = 13 }, want: domain.ReasonRegionCrimea},
		{name: "Unparseable address", edit: func(r *domain.RawRow) { r.Address = "Балашиха" }, want: domain.ReasonAddress},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := flatRow()
			tc.edit(&row)
			l, rej := normalize(t, tc.deps, nil, row, domain.Flats)
			assert.Nil(t, l)
			require.NotNil(t, rej)
			assert.Equal(t, tc.want, rej.Reason)
		})
	}
}

func TestNormalize_CrimeaFilterDisabled(t *testing.T) {
	row := flatRow()
	row.RegionID = 13
	l, rej := normalize(t, normalizer.Deps{}, nil, row, domain.Flats)
	require.Nil(t, rej)
	assert.Equal(t, 92, l.Common.RegionID)
}

func TestNormalize_GeoCacheUsesRawAddress(t *testing.T) {
	geo := &normalizertest.MockGeoCache{}
	geo.On("Lookup", mock.Anything, "Московская область, Балашиха, ул. Ленина, 5").Return(int64(44), true, nil)
	geo.On("Breakdown", mock.Anything, int64(44)).Return(domain.AddressBreakdown{
		RegionID:    50,
		Level6Name:  "городской округ Балашиха",
		Level8Name:  "Балашиха",
		Street:      "улица Ленина",
		HouseNumber: "5",
	}, nil)

	l, rej := normalize(t, normalizer.Deps{GeoCache: geo}, nil, flatRow(), domain.Flats)
	require.Nil(t, rej)
	assert.Equal(t, "городской округ Балашиха", l.Common.District)
	assert.Equal(t, "улица Ленина", l.Common.Street)
	geo.AssertExpectations(t)
}

func TestNormalize_Commercial(t *testing.T) {
	testCases := []struct {
		name        string
		subcategory string
		params      map[int]string
		wantSubtype int
		wantParking int
	}{
		{name: "Office with parking", subcategory: "Офис", params: map[int]string{paramParking: "есть"}, wantSubtype: 200, wantParking: 1},
		{name: "Free purpose", subcategory: "Свободного назначения", wantSubtype: 140, wantParking: -1},
		{name: "Fallback to parameter 47", params: map[int]string{paramObjectType: "склад", paramParkingAlt: "10 мест"}, wantSubtype: 280, wantParking: 1},
		{name: "Unknown type", subcategory: "Ангар", wantSubtype: 0, wantParking: -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := flatRow()
			row.Type = "commerce"
			row.Subcategory = tc.subcategory
			row.Params = map[int]string{paramArea: "20 – 150 м²", paramFloor: "1 из 3"}
			for k, v := range tc.params {
				row.Params[k] = v
			}

			l, rej := normalize(t, normalizer.Deps{}, nil, row, domain.Commercial)
			require.Nil(t, rej)
			assert.Equal(t, tc.wantSubtype, l.Service.ObjectSubtype)
			assert.Equal(t, 5, l.Service.SourceObjectTypeID)

			f := l.Fields.(*domain.CommercialFields)
			assert.Equal(t, tc.wantParking, f.Parking)
			assert.InDelta(t, 20, f.AreaMin, 1e-9)
			assert.InDelta(t, 150, f.AreaMax, 1e-9)
			assert.Equal(t, 1, f.Floor)
			assert.Equal(t, 3, f.Floors)
		})
	}
}

func TestNormalize_Cottage(t *testing.T) {
	row := flatRow()
	row.Type = "house"
	row.Address = "Московская область, Одинцовский район, Одинцово, пос. Лесной"
	row.Params = map[int]string{
		paramGas:       "есть",
		paramElectro:   "нет (подключение возможно)",
		paramWater:     "по границе участка",
		paramAreaPlot:  "15 сот.",
		paramAreaHouse: "120 м²",
	}

	for _, tc := range []struct {
		subcategory string
		want        int
	}{
		{subcategory: "Таунхаус", want: townhouseType},
		{subcategory: "Дом", want: defaultCottageType},
		{subcategory: "", want: defaultCottageType},
	} {
		row.Subcategory = tc.subcategory
		l, rej := normalize(t, normalizer.Deps{}, nil, row, domain.Cottages)
		require.Nil(t, rej)

		f := l.Fields.(*domain.CottageFields)
		assert.Equal(t, tc.want, f.ObjType, tc.subcategory)
		assert.Equal(t, 30, f.Gas)
		assert.Equal(t, 110, f.Electro)
		assert.Equal(t, 40, f.Water)
		assert.Equal(t, 10, f.Sewer)
		assert.Equal(t, 0, f.Guard)
		assert.Equal(t, 20, f.RepairCondition)
		assert.Equal(t, defaultWCCount, f.WCCombNum)
		assert.InDelta(t, 15, f.AreaPlot, 1e-9)
		assert.InDelta(t, 120, f.AreaHouse, 1e-9)
		assert.Equal(t, "пос. Лесной", l.Common.NasPunkt)
	}
}
