// Package validation отсеивает нормализованные объявления по бизнес-правилам.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/service/changedetect"
	"reconciliation-service/internal/core/service/extract"
)

const (
	maxArea           = 200000
	maxNasPunktLen    = 75
	maxDistrictLen    = 128
	maxStreetLen      = 255
	maxHouseNumberLen = 32

	defaultPriceMin   = 100
	priceMax          = 2000000000
	metroFlatSaleMin  = 1000000
	flatSaleMin       = 100000
	otherSaleMin      = 50000
	bannedVendorToken = "циан"
)

var urlRe = regexp.MustCompile(`(http[^\s]*|www[^\s]*)`)

// Config - строгость проверок, задается на прогон.
type Config struct {
	HouseNumber bool
	Floor       bool
	Floors      bool
}

type Validator struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Validator {
	return &Validator{cfg: cfg, now: time.Now}
}

// WithClock подменяет часы, которыми заполняется пустая дата создания.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate проверяет объявление. Проверки идут по порядку, первая неудача отклоняет объявление.
// Валидатор нормализует площади, описание, дату создания и комнаты студий,
// поэтому хэши нужно считать после него.
func (v *Validator) Validate(l *domain.Listing) *domain.Rejection {
	if _, ok := changedetect.DataHash(l); !ok {
		return domain.Reject(domain.ReasonHashData, "data hash")
	}
	if _, ok := changedetect.AddressHash(l); !ok {
		return domain.Reject(domain.ReasonHashData, "address hash")
	}

	for _, a := range l.Fields.AreaRefs() {
		if *a.Value == 0 {
			continue
		}
		*a.Value = math.Round(*a.Value*100) / 100
		if int64(*a.Value) > maxArea {
			return domain.Reject(domain.ReasonLongArea, fmt.Sprintf("%s=%v", a.Name, *a.Value))
		}
	}

	c := &l.Common
	switch {
	case utf8.RuneCountInString(c.NasPunkt) > maxNasPunktLen:
		return domain.Reject(domain.ReasonLongNasPunkt, c.NasPunkt)
	case utf8.RuneCountInString(c.District) > maxDistrictLen:
		return domain.Reject(domain.ReasonLongDistrict, c.District)
	case utf8.RuneCountInString(c.Street) > maxStreetLen:
		return domain.Reject(domain.ReasonLongStreet, c.Street)
	case utf8.RuneCountInString(c.HouseNumber) > maxHouseNumberLen:
		return domain.Reject(domain.ReasonLongHouseNumber, c.HouseNumber)
	}

	if v.cfg.HouseNumber && (l.PropertyType == domain.Flats || l.PropertyType == domain.Rooms) {
		if !extract.IsPlausibleHouseNumber(c.HouseNumber, domain.BuildingType(l.Fields)) {
			return domain.Reject(domain.ReasonHouseNumber, c.HouseNumber)
		}
	}

	if c.Deal != domain.DealSale && c.Deal != domain.DealRent {
		return domain.Reject(domain.ReasonDealType, fmt.Sprint(c.Deal))
	}

	if !ValidatePrice(c.Price, l.PropertyType, c.Deal, c.RegionID) {
		return domain.Reject(domain.ReasonPrice, fmt.Sprint(c.Price))
	}

	c.Description = SanitizeDescription(c.Description)

	if c.RegionID == 0 {
		return domain.Reject(domain.ReasonRegion, "0")
	}

	// подставленное время не входит в хэш данных, иначе объявление менялось бы каждый прогон
	if c.DateAdded.IsZero() {
		c.DateAdded = v.now()
		l.Service.MarkDefaulted("date_added")
	}
	if c.DateRenew.IsZero() {
		c.DateRenew = c.DateAdded
		l.Service.MarkDefaulted("date_renew")
	}

	return v.checkDwelling(l)
}

// checkDwelling - комнаты и этажи жилых типов.
func (v *Validator) checkDwelling(l *domain.Listing) *domain.Rejection {
	if rf, ok := l.Fields.(*domain.RoomFields); ok && rf.RoomsDeal == 0 {
		return domain.Reject(domain.ReasonRoomsInDeal, "0")
	}

	dw, ok := l.Fields.(interface{ DwellingFields() *domain.Dwelling })
	if !ok {
		return nil
	}
	d := dw.DwellingFields()

	if d.Rooms == 0 {
		if l.PropertyType != domain.Flats {
			return domain.Reject(domain.ReasonRoomsInObject, "0")
		}
		d.Rooms = domain.RoomsStudio
	}
	if v.cfg.Floor && d.Floor == 0 {
		return domain.Reject(domain.ReasonFloor, "0")
	}
	if v.cfg.Floors && d.Floors == 0 {
		return domain.Reject(domain.ReasonBuildingFloors, "0")
	}
	if v.cfg.Floors && d.Floor > d.Floors {
		return domain.Reject(domain.ReasonMaxMinFloors, fmt.Sprintf("%d > %d", d.Floor, d.Floors))
	}
	return nil
}

// ValidatePrice проверяет цену по нижнему порогу типа/региона и общему потолку.
func ValidatePrice(price int64, t domain.PropertyType, deal int, regionID int) bool {
	minPrice := int64(defaultPriceMin)
	if deal == domain.DealSale {
		switch {
		case t == domain.Flats && (regionID == 77 || regionID == 78):
			minPrice = metroFlatSaleMin
		case t == domain.Flats:
			minPrice = flatSaleMin
		default:
			minPrice = otherSaleMin
		}
	}
	return price >= minPrice && price <= priceMax
}

// SanitizeDescription вырезает ссылки и упоминание площадки-источника.
func SanitizeDescription(s string) string {
	if s == "" {
		return s
	}
	for strings.Contains(s, "http") || strings.Contains(s, "www.") {
		cleaned := urlRe.ReplaceAllString(s, "")
		if cleaned == s {
			break
		}
		s = cleaned
	}
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, bannedVendorToken, "")
}
