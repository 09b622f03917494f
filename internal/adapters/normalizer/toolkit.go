// Package normalizer содержит шаги нормализации, общие для всех источников:
// отсев спроса, тип сделки по умолчанию, общие поля, адрес и метро.
// Разметка параметров конкретного источника живет в его подпакете.
package normalizer

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	"reconciliation-service/internal/core/service/address"
	"reconciliation-service/internal/core/service/extract"
	"reconciliation-service/internal/core/service/valuemap"
)

const (
	demandName = "Покупатель"
	actWant    = "want_rent"
	actSale    = "sale"
	actRent    = "rent"

	highCostThreshold    = 1000000
	defaultCostThreshold = 200000
)

// Deps - внешние справочники. Любой из них может отсутствовать.
type Deps struct {
	GeoCache      port.GeoCachePort
	Metro         port.MetroDirectoryPort
	ExcludeCrimea bool
}

// Toolkit - общая часть нормализаторов, безопасна для конкурентного использования.
type Toolkit struct {
	geo           port.GeoCachePort
	metro         port.MetroDirectoryPort
	excludeCrimea bool
	now           func() time.Time
}

func NewToolkit(deps Deps) *Toolkit {
	return &Toolkit{
		geo:           deps.GeoCache,
		metro:         deps.Metro,
		excludeCrimea: deps.ExcludeCrimea,
		now:           time.Now,
	}
}

// WithClock подменяет часы для пустой даты создания.
func (tk *Toolkit) WithClock(now func() time.Time) *Toolkit {
	tk.now = now
	return tk
}

func (tk *Toolkit) Now() time.Time { return tk.now() }

// Unknown пишет промах словаря в журнал прогона как unknownIndex.
func Unknown(env port.NormalizeEnv, t domain.PropertyType, key int64) valuemap.UnknownFunc {
	return func(table, token string) {
		if env.Events == nil {
			return
		}
		env.Events.Emit(domain.Event{
			Name:         domain.EventUnknownIndex,
			PropertyType: t,
			SourceKey:    key,
			Value:        table + ":" + token,
		})
	}
}

// Crimea отклоняет строку из исключенных регионов, если фильтр включен.
func (tk *Toolkit) Crimea(row *domain.RawRow, regions ...int64) *domain.Rejection {
	if !tk.excludeCrimea {
		return nil
	}
	for _, r := range regions {
		if row.RegionID == r {
			return domain.Reject(domain.ReasonRegionCrimea, fmt.Sprintf("region %d", r))
		}
	}
	return nil
}

// ResolveAct отсеивает спрос и подставляет тип сделки, если источник его не указал.
// highCost - строка из города с повышенным порогом цены продажи.
func ResolveAct(row *domain.RawRow, highCost bool) (string, *domain.Rejection) {
	if row.Name == demandName || row.Act == actWant {
		return "", domain.Exclude(domain.ReasonDropDemand, fmt.Sprintf("id %d", row.ID))
	}
	if row.Act != "" {
		return row.Act, nil
	}
	return DefaultAct(row.Price, highCost), nil
}

func DefaultAct(price float64, highCost bool) string {
	threshold := float64(defaultCostThreshold)
	if highCost {
		threshold = highCostThreshold
	}
	if price > threshold {
		return actSale
	}
	return actRent
}

// ConvertPrice переводит цену в валюту по курсу с округлением до целого.
func ConvertPrice(price float64, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return int64(math.Round(price / rate))
}

// PreparePhone оставляет в номерах только цифры.
func PreparePhone(phones []string) string {
	out := make([]string, 0, len(phones))
	for _, p := range phones {
		if d := extract.Digits(p); d != "" {
			out = append(out, d)
		}
	}
	return strings.Join(out, ", ")
}

// Common заполняет общие поля, кроме адресных.
// Даты без значения в источнике остаются нулевыми, их заполняет валидатор.
func (tk *Toolkit) Common(row *domain.RawRow, rates domain.Rates, deal int, regionID int) domain.CommonFields {
	var added time.Time
	if row.CreatedAt != nil {
		added = *row.CreatedAt
	}
	renew := added
	if row.UpdatedAt != nil {
		renew = *row.UpdatedAt
	}

	return domain.CommonFields{
		DateAdded:      added,
		DateRenew:      renew,
		Deal:           deal,
		Status:         domain.StatusImported,
		Price:          int64(math.Round(row.Price)),
		PriceUSD:       ConvertPrice(row.Price, rates.USD),
		PriceEUR:       ConvertPrice(row.Price, rates.EUR),
		Currency:       domain.CurrencyRUB,
		Phone:          PreparePhone(row.Phones),
		Description:    html.EscapeString(row.Description),
		Longitude:      row.Longitude,
		Latitude:       row.Latitude,
		RegionID:       regionID,
		CoordsAccuracy: domain.CoordsAccuracyUnknown,
	}
}

// ConcatAddress - ключ кэша геокодера: регион, город и адрес через запятую.
func ConcatAddress(row *domain.RawRow) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{row.RegionName, row.CityName, row.Address} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Address заполняет адресные поля объявления. Сначала ищем разбор в кэше геокодера
// по cacheKey, при промахе разбираем строку parse сами. Неразобранный адрес отклоняет строку.
func (tk *Toolkit) Address(ctx context.Context, l *domain.Listing, cacheKey, parse string) (*domain.Rejection, error) {
	c := &l.Common

	if tk.geo != nil && cacheKey != "" {
		id, found, err := tk.geo.Lookup(ctx, cacheKey)
		if err != nil {
			return nil, fmt.Errorf("geocoder cache lookup: %w", err)
		}
		if found {
			b, err := tk.geo.Breakdown(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("address %d breakdown: %w", id, err)
			}
			applyBreakdown(c, b)
			return nil, nil
		}
	}

	parts, ok := address.Separate(parse, l.PropertyType, domain.BuildingType(l.Fields))
	if !ok {
		return domain.Reject(domain.ReasonAddress, parse), nil
	}
	c.District = parts.District
	c.Locality = parts.Locality
	c.NasPunkt = parts.NasPunkt
	c.Street = parts.Street
	c.HouseNumber = parts.HouseNumber
	if isMetroRegion(c.RegionID) {
		c.District = ""
	}
	return nil, nil
}

func applyBreakdown(c *domain.CommonFields, b domain.AddressBreakdown) {
	c.District = ""
	if !isMetroRegion(b.RegionID) {
		c.District = b.Level6Name
	}
	c.Locality = b.Level8Name
	c.NasPunkt = b.Locality
	c.Street = b.Street
	if c.Street == "" {
		c.Street = b.District
	}
	c.HouseNumber = b.HouseNumber
}

func isMetroRegion(regionID int) bool {
	return regionID == 77 || regionID == 78
}

// MetroID ищет первую станцию из списка в справочнике региона; не найдена - 0.
func (tk *Toolkit) MetroID(ctx context.Context, regionID int, names []string) (int, error) {
	if tk.metro == nil || len(names) == 0 || regionID == 0 {
		return 0, nil
	}
	id, err := tk.metro.StationID(ctx, regionID, strings.TrimSpace(names[0]))
	if err != nil {
		return 0, fmt.Errorf("metro station %q in region %d: %w", names[0], regionID, err)
	}
	return id, nil
}

// CleanList убирает пустые значения многозначного поля.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, v := range items {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
