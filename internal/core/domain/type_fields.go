package domain

// TypeFields - вариантная часть объявления, набор полей зависит от типа.
type TypeFields interface {
	PropertyType() PropertyType
	Columns() []Column
	// AreaRefs отдает указатели на площади для нормализации валидатором.
	AreaRefs() []AreaRef
}

type AreaRef struct {
	Name  string
	Value *float64
}

// Metro - ближайшая станция метро.
type Metro struct {
	ID                int
	DistanceWalk      int
	DistanceTransport int
}

func (m Metro) columns() []Column {
	return []Column{
		{"metro_id", m.ID},
		{"metro_distance_walk", m.DistanceWalk},
		{"metro_distance_transport", m.DistanceTransport},
	}
}

// Dwelling - поля, общие для квартир, комнат и долей.
type Dwelling struct {
	Type            int
	Rooms           int
	Metro           Metro
	Floor           int
	Floors          int
	HouseType       int
	AreaTotal       float64
	AreaLiving      float64
	AreaKitchen     float64
	Balcony         int
	PhoneOn         int
	WCCombNum       int
	WCSepNum        int
	RepairCondition int
}

func (d *Dwelling) DwellingFields() *Dwelling { return d }

func (d *Dwelling) areaRefs() []AreaRef {
	return []AreaRef{
		{"area_living", &d.AreaLiving},
		{"area_kitchen", &d.AreaKitchen},
		{"area_total", &d.AreaTotal},
	}
}

// Amenities - удобства и условия сделки квартир и комнат.
type Amenities struct {
	FloorType        int
	Hypothec         int
	Fridge           int
	Furniture        int
	TV               int
	WashMach         int
	CommissionAgency float64
	CommissionClient float64
	RentTerm         int
}

type FlatFields struct {
	Dwelling
	Amenities
	NewPhase   int
	NewQuarter int
	NewYear    int
}

func (f *FlatFields) PropertyType() PropertyType { return Flats }
func (f *FlatFields) AreaRefs() []AreaRef        { return f.areaRefs() }

func (f *FlatFields) Columns() []Column {
	cols := append([]Column{{"type", f.Type}, {"rooms", f.Rooms}}, f.Metro.columns()...)
	return append(cols,
		Column{"floor", f.Floor},
		Column{"floors", f.Floors},
		Column{"house_type", f.HouseType},
		Column{"floor_type", f.FloorType},
		Column{"area_total", f.AreaTotal},
		Column{"area_living", f.AreaLiving},
		Column{"area_kitchen", f.AreaKitchen},
		Column{"balcony", f.Balcony},
		Column{"phone_on", f.PhoneOn},
		Column{"wc_comb_num", f.WCCombNum},
		Column{"wc_sep_num", f.WCSepNum},
		Column{"hypothec", f.Hypothec},
		Column{"fridge", f.Fridge},
		Column{"furniture", f.Furniture},
		Column{"tv", f.TV},
		Column{"washmach", f.WashMach},
		Column{"commission_agency", f.CommissionAgency},
		Column{"commission_client", f.CommissionClient},
		Column{"rent_term", f.RentTerm},
		Column{"repair_condition", f.RepairCondition},
		Column{"new_phase", f.NewPhase},
		Column{"new_quarter", f.NewQuarter},
		Column{"new_year", f.NewYear},
	)
}

type RoomFields struct {
	Dwelling
	Amenities
	RoomsDeal int
}

func (f *RoomFields) PropertyType() PropertyType { return Rooms }
func (f *RoomFields) AreaRefs() []AreaRef        { return f.areaRefs() }

func (f *RoomFields) Columns() []Column {
	cols := append([]Column{{"type", f.Type}, {"rooms", f.Rooms}}, f.Metro.columns()...)
	return append(cols,
		Column{"floor", f.Floor},
		Column{"floors", f.Floors},
		Column{"house_type", f.HouseType},
		Column{"floor_type", f.FloorType},
		Column{"area_total", f.AreaTotal},
		Column{"area_living", f.AreaLiving},
		Column{"area_kitchen", f.AreaKitchen},
		Column{"balcony", f.Balcony},
		Column{"phone_on", f.PhoneOn},
		Column{"wc_comb_num", f.WCCombNum},
		Column{"wc_sep_num", f.WCSepNum},
		Column{"hypothec", f.Hypothec},
		Column{"fridge", f.Fridge},
		Column{"furniture", f.Furniture},
		Column{"tv", f.TV},
		Column{"washmach", f.WashMach},
		Column{"commission_agency", f.CommissionAgency},
		Column{"commission_client", f.CommissionClient},
		Column{"rent_term", f.RentTerm},
		Column{"rooms_deal", f.RoomsDeal},
		Column{"repair_condition", f.RepairCondition},
	)
}

// PartFields - доля в квартире.
type PartFields struct {
	Dwelling
	Price    int64
	Part     string
	AreaPart float64
}

func (f *PartFields) PropertyType() PropertyType { return Parts }

func (f *PartFields) AreaRefs() []AreaRef {
	return append(f.areaRefs(), AreaRef{"area_part", &f.AreaPart})
}

func (f *PartFields) Columns() []Column {
	cols := append([]Column{{"type", f.Type}, {"rooms", f.Rooms}}, f.Metro.columns()...)
	return append(cols,
		Column{"floor", f.Floor},
		Column{"floors", f.Floors},
		Column{"house_type", f.HouseType},
		Column{"area_total", f.AreaTotal},
		Column{"area_living", f.AreaLiving},
		Column{"area_kitchen", f.AreaKitchen},
		Column{"balcony", f.Balcony},
		Column{"phone_on", f.PhoneOn},
		Column{"wc_comb_num", f.WCCombNum},
		Column{"wc_sep_num", f.WCSepNum},
		Column{"price", f.Price},
		Column{"part", f.Part},
		Column{"area_part", f.AreaPart},
		Column{"repair_condition", f.RepairCondition},
	)
}

type CottageFields struct {
	ObjType         int
	Road            int
	MkadDistance    int
	AreaHouse       float64
	AreaPlot        float64
	Gas             int
	Water           int
	Electro         int
	Sewer           int
	Guard           int
	WCCombNum       int
	WCSepNum        int
	RepairCondition int
	RentTerm        int
}

func (f *CottageFields) PropertyType() PropertyType { return Cottages }

func (f *CottageFields) AreaRefs() []AreaRef {
	return []AreaRef{{"area_plot", &f.AreaPlot}, {"area_house", &f.AreaHouse}}
}

func (f *CottageFields) Columns() []Column {
	return []Column{
		{"obj_type", f.ObjType},
		{"road", f.Road},
		{"mkad_distance", f.MkadDistance},
		{"area_house", f.AreaHouse},
		{"area_plot", f.AreaPlot},
		{"gas", f.Gas},
		{"water", f.Water},
		{"electro", f.Electro},
		{"sewer", f.Sewer},
		{"guard", f.Guard},
		{"wc_comb_num", f.WCCombNum},
		{"wc_sep_num", f.WCSepNum},
		{"repair_condition", f.RepairCondition},
		{"rent_term", f.RentTerm},
	}
}

type CommercialFields struct {
	Metro   Metro
	Floor   int
	Floors  int
	AreaMin float64
	AreaMax float64
	Parking int
	Guard   int
}

func (f *CommercialFields) PropertyType() PropertyType { return Commercial }

func (f *CommercialFields) AreaRefs() []AreaRef {
	return []AreaRef{{"area_min", &f.AreaMin}, {"area_max", &f.AreaMax}}
}

func (f *CommercialFields) Columns() []Column {
	return append(f.Metro.columns(),
		Column{"floor", f.Floor},
		Column{"floors", f.Floors},
		Column{"area_min", f.AreaMin},
		Column{"area_max", f.AreaMax},
		Column{"parking", f.Parking},
		Column{"guard", f.Guard},
	)
}

type BusinessFields struct {
	Metro        Metro
	Profit       int64
	OrgLegalForm int
	Existence    int
	Part         string
	Proceeds     int64
	Receivables  int64
	Costs        int64
	Payables     int64
	TaxDebt      int64
	Fot          int64
}

func (f *BusinessFields) PropertyType() PropertyType { return Business }
func (f *BusinessFields) AreaRefs() []AreaRef        { return nil }

func (f *BusinessFields) Columns() []Column {
	return append(f.Metro.columns(),
		Column{"profit", f.Profit},
		Column{"org_legal_form", f.OrgLegalForm},
		Column{"existence", f.Existence},
		Column{"part", f.Part},
		Column{"proceeds", f.Proceeds},
		Column{"receivables", f.Receivables},
		Column{"costs", f.Costs},
		Column{"payables", f.Payables},
		Column{"tax_debt", f.TaxDebt},
		Column{"fot", f.Fot},
	)
}

type ParkingFields struct {
	Type          int
	Metro         Metro
	Floor         int
	AreaTotal     float64
	CeilingHeight float64
	RentTerm      int
}

func (f *ParkingFields) PropertyType() PropertyType { return Parkings }

func (f *ParkingFields) AreaRefs() []AreaRef {
	return []AreaRef{{"area_total", &f.AreaTotal}}
}

func (f *ParkingFields) Columns() []Column {
	cols := append([]Column{{"type", f.Type}}, f.Metro.columns()...)
	return append(cols,
		Column{"floor", f.Floor},
		Column{"area_total", f.AreaTotal},
		Column{"ceiling_height", f.CeilingHeight},
		Column{"rent_term", f.RentTerm},
	)
}

// NewTypeFields создает пустой вариант полей для типа.
func NewTypeFields(t PropertyType) TypeFields {
	switch t {
	case Flats:
		return &FlatFields{}
	case Rooms:
		return &RoomFields{}
	case Parts:
		return &PartFields{}
	case Cottages:
		return &CottageFields{}
	case Commercial:
		return &CommercialFields{}
	case Business:
		return &BusinessFields{}
	case Parkings:
		return &ParkingFields{}
	}
	return nil
}

// BuildingType возвращает код типа постройки (новостройка = 30), если он есть у варианта.
func BuildingType(f TypeFields) int {
	switch v := f.(type) {
	case interface{ DwellingFields() *Dwelling }:
		return v.DwellingFields().Type
	case *ParkingFields:
		return v.Type
	}
	return 0
}
