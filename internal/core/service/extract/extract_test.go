package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArea(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want float64
	}{
		{name: "Integer with unit", text: "54 м²", want: 54},
		{name: "Comma decimal", text: "45,5 м²", want: 45.5},
		{name: "Range takes first number", text: "от 12 до 30 м²", want: 12},
		{name: "Dot is not a decimal separator", text: "45.5", want: 45},
		{name: "No number", text: "нет данных", want: 0},
		{name: "Empty", text: "", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Area(tc.text), 1e-9)
		})
	}
}

func TestPlotArea(t *testing.T) {
	assert.InDelta(t, 15.0, PlotArea("15 сот."), 1e-9)
	assert.InDelta(t, 130.0, PlotArea("1,3 га"), 1e-9)
	assert.InDelta(t, 0.0, PlotArea(""), 1e-9)
}

func TestDecimal(t *testing.T) {
	assert.InDelta(t, 45.5, Decimal("45.5"), 1e-9)
	assert.InDelta(t, 45.5, Decimal(" 45,5 "), 1e-9)
	assert.InDelta(t, 30.0, Decimal("30 м²"), 1e-9)
	assert.InDelta(t, 0.0, Decimal(""), 1e-9)
}

func TestAreaRange(t *testing.T) {
	min, max, ok := AreaRange("20 – 150 м²")
	assert.True(t, ok)
	assert.InDelta(t, 20.0, min, 1e-9)
	assert.InDelta(t, 150.0, max, 1e-9)

	_, _, ok = AreaRange("150 м²")
	assert.False(t, ok)
}

func TestFloor(t *testing.T) {
	testCases := []struct {
		text       string
		wantFloor  int
		wantFloors int
	}{
		{text: "10", wantFloor: 10},
		{text: "5 из 9", wantFloor: 5, wantFloors: 9},
		{text: "-1 / 7", wantFloor: 1, wantFloors: 7},
		{text: "подвал", wantFloor: -1},
		{text: "полуподвал", wantFloor: -1},
		{text: "", wantFloor: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			floor, floors := Floor(tc.text)
			assert.Equal(t, tc.wantFloor, floor)
			assert.Equal(t, tc.wantFloors, floors)
		})
	}
}

func TestQuarterAndYear(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, Quarter("3 кв. 2027 г."))
	assert.Equal(t, 0, Quarter("сдан"))

	assert.Equal(t, 2027, Year("3 кв. 2027 г.", now))
	assert.Equal(t, 2028, Year("28 г.", now))
	assert.Equal(t, 0, Year("2 кв. 2019 г.", now), "past year is dropped")
	assert.Equal(t, 0, Year("сдан", now))
}

func TestIsPlausibleHouseNumber(t *testing.T) {
	testCases := []struct {
		name         string
		houseNumber  string
		buildingType int
		want         bool
	}{
		{name: "Number with building suffix", houseNumber: "12к2", want: true},
		{name: "Settlement name has no digits", houseNumber: "д. Иваново", want: false},
		{name: "Too long", houseNumber: strings.Repeat("1", 20), want: false},
		{name: "Descriptive words stripped", houseNumber: "дом 5 корпус 2", want: true},
		{name: "Short with low digit share", houseNumber: "5абв", want: true},
		{name: "Long with low digit share", houseNumber: "5абвгд", want: false},
		{name: "Zero is not a house", houseNumber: "0", want: false},
		{name: "Empty", houseNumber: "", want: false},
		{name: "New building plot number", houseNumber: "участок 14", buildingType: 30, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPlausibleHouseNumber(tc.houseNumber, tc.buildingType))
		})
	}
}
