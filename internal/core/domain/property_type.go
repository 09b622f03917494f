package domain

import "fmt"

// PropertyType - семейство таблиц назначения, к которому относится объявление.
type PropertyType string

const (
	Flats      PropertyType = "flats"
	Commercial PropertyType = "commercial"
	Parts      PropertyType = "parts"
	Parkings   PropertyType = "parkings"
	Rooms      PropertyType = "rooms"
	Cottages   PropertyType = "cottages"
	Business   PropertyType = "business"
)

// PropertyTypes задает порядок обхода типов во всех проходах сверки.
var PropertyTypes = []PropertyType{Flats, Commercial, Parts, Parkings, Rooms, Cottages, Business}

var typeIDs = map[PropertyType]int{
	Flats:      1,
	Business:   2,
	Rooms:      3,
	Parts:      4,
	Cottages:   5,
	Commercial: 6,
	Parkings:   7,
}

// TypeID возвращает идентификатор типа в каталоге назначения.
func (t PropertyType) TypeID() int {
	return typeIDs[t]
}

func (t PropertyType) Valid() bool {
	_, ok := typeIDs[t]
	return ok
}

// Residential - типы, для которых проверяются комнаты и этажи.
func (t PropertyType) Residential() bool {
	return t == Flats || t == Rooms || t == Parts
}

// HasSubtypes - типы с таблицей подтипов objects_<t>_types.
func (t PropertyType) HasSubtypes() bool {
	return t == Commercial || t == Business
}

func ParsePropertyType(s string) (PropertyType, error) {
	t := PropertyType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown property type %q", s)
	}
	return t, nil
}
