package domain

import "time"

// Служебные значения каталога назначения.
const (
	DealSale = 10
	DealRent = 20

	StatusImported        = -1
	CoordsAccuracyUnknown = 32000
	RoomsStudio           = 100
	BuildingTypeNew       = 30
	CurrencyRUB           = 1
)

// Column - пара имя колонки/значение в порядке объявления полей.
// Порядок колонок определяет и SQL, и вход хэша данных.
type Column struct {
	Name  string
	Value interface{}
}

// Колонки адреса. Не входят в хэш данных и не трогаются при DATA_UPDATE.
var AddressColumns = []string{"region_id", "district", "locality", "nas_punkt", "street", "housenumber"}

// Listing - нормализованное объявление одного источника.
type Listing struct {
	SourceID     int
	SourceKey    int64
	PropertyType PropertyType

	Service ServiceFields
	Common  CommonFields
	Fields  TypeFields
}

// ServiceFields используются только для учета и не пишутся в таблицу объекта.
type ServiceFields struct {
	RawAddress         string
	Photos             []string
	SourceObjectTypeID int
	// ObjectSubtype - подтип коммерции/бизнеса для objects_<t>_types.
	ObjectSubtype int
	// Defaulted - колонки, заполненные значением по умолчанию, а не из источника.
	Defaulted []string
}

func (s *ServiceFields) MarkDefaulted(column string) {
	if !s.IsDefaulted(column) {
		s.Defaulted = append(s.Defaulted, column)
	}
}

func (s *ServiceFields) IsDefaulted(column string) bool {
	for _, c := range s.Defaulted {
		if c == column {
			return true
		}
	}
	return false
}

type CommonFields struct {
	DateAdded      time.Time
	DateRenew      time.Time
	DateDeleted    *time.Time
	Deal           int
	Status         int
	StatusAgency   int
	Price          int64
	PriceUSD       int64
	PriceEUR       int64
	PricesOld      string
	Currency       int
	Phone          string
	Description    string
	Longitude      float64
	Latitude       float64
	RegionID       int
	District       string
	Locality       string
	NasPunkt       string
	Street         string
	HouseNumber    string
	Note           *string
	CoordsAccuracy int
}

// Columns возвращает общие колонки, включая адресные.
func (c *CommonFields) Columns() []Column {
	return []Column{
		{"date_added", c.DateAdded},
		{"date_renew", c.DateRenew},
		{"date_deleted", c.DateDeleted},
		{"deal", c.Deal},
		{"status", c.Status},
		{"status_agency", c.StatusAgency},
		{"price", c.Price},
		{"price_usd", c.PriceUSD},
		{"price_eur", c.PriceEUR},
		{"prices_old", c.PricesOld},
		{"currency", c.Currency},
		{"phone", c.Phone},
		{"description", c.Description},
		{"longitude", c.Longitude},
		{"latitude", c.Latitude},
		{"region_id", c.RegionID},
		{"district", c.District},
		{"locality", c.Locality},
		{"nas_punkt", c.NasPunkt},
		{"street", c.Street},
		{"housenumber", c.HouseNumber},
		{"note", c.Note},
		{"coords_accuracy", c.CoordsAccuracy},
	}
}

// DataColumns - общие колонки без адресных.
func (c *CommonFields) DataColumns() []Column {
	all := c.Columns()
	out := make([]Column, 0, len(all))
	for _, col := range all {
		if !IsAddressColumn(col.Name) {
			out = append(out, col)
		}
	}
	return out
}

func IsAddressColumn(name string) bool {
	for _, a := range AddressColumns {
		if a == name {
			return true
		}
	}
	return false
}

// AddressParts - разбор адреса на компоненты.
type AddressParts struct {
	Region      string
	District    string
	Locality    string
	NasPunkt    string
	Street      string
	HouseNumber string
}

// AddressBreakdown - разбор адреса из кэша геокодера.
type AddressBreakdown struct {
	RegionID    int
	Level6Name  string
	Level8Name  string
	Locality    string
	Street      string
	District    string
	HouseNumber string
}

// Columns возвращает все колонки объекта: общие, затем колонки типа.
func (l *Listing) Columns() []Column {
	cols := l.Common.Columns()
	if l.Fields != nil {
		cols = append(cols, l.Fields.Columns()...)
	}
	return cols
}

// DataColumns - колонки для DATA_UPDATE.
func (l *Listing) DataColumns() []Column {
	cols := l.Common.DataColumns()
	if l.Fields != nil {
		cols = append(cols, l.Fields.Columns()...)
	}
	return cols
}
