package domain

import "time"

// RawRow - строка объявления источника после разбора формата шлюза.
// Многозначные поля уже разложены в списки и карты.
type RawRow struct {
	ID          int64
	Type        string
	Name        string
	Act         string
	Subcategory string
	Category    string
	Price       float64
	CityID      int64
	CityName    string
	RegionID    int64
	RegionName  string
	Address     string
	Latitude    float64
	Longitude   float64
	Rooms       string
	RoomsInDeal string
	Description string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time

	Images []string
	Metro  []string
	// Params - нумерованные параметры источника: id параметра -> значение.
	Params map[int]string
	Phones []string
}

// Param возвращает значение параметра и признак его наличия.
func (r *RawRow) Param(id int) (string, bool) {
	v, ok := r.Params[id]
	return v, ok && v != ""
}

// ActiveSet - активные id источника по одному типу.
type ActiveSet struct {
	Keys []int64
	// Excluded - id, исключенные шлюзом, с причиной.
	Excluded map[int64]string
}
