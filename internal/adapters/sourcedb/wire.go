package sourcedb

import (
	"strconv"
	"strings"
	"time"

	"reconciliation-service/internal/core/domain"
)

const (
	listSeparator  = "##"
	paramSeparator = "~~"
)

// wireRow - строка выборки в том виде, в каком ее отдает база источника.
type wireRow struct {
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

	Images string
	Metro  string
	Params string
	Phones string
}

func (w wireRow) toDomain(decode func(string) string) domain.RawRow {
	return domain.RawRow{
		ID:          w.ID,
		Type:        w.Type,
		Name:        decode(w.Name),
		Act:         w.Act,
		Subcategory: decode(w.Subcategory),
		Category:    decode(w.Category),
		Price:       w.Price,
		CityID:      w.CityID,
		CityName:    decode(w.CityName),
		RegionID:    w.RegionID,
		RegionName:  decode(w.RegionName),
		Address:     decode(w.Address),
		Latitude:    w.Latitude,
		Longitude:   w.Longitude,
		Rooms:       decode(w.Rooms),
		RoomsInDeal: decode(w.RoomsInDeal),
		Description: decode(w.Description),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Images:      parseList(w.Images),
		Metro:       parseList(decode(w.Metro)),
		Params:      parseParams(decode(w.Params)),
		Phones:      parseList(w.Phones),
	}
}

// parseList разбирает "a##b##c"; пустые элементы пропускаются.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, listSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseParams разбирает "12~~значение##28~~1,5 га".
// Пары без числового id или с пустым значением пропускаются; при повторе id побеждает последний.
func parseParams(s string) map[int]string {
	items := parseList(s)
	if len(items) == 0 {
		return nil
	}
	out := make(map[int]string, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, paramSeparator)
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		out[id] = value
	}
	return out
}
