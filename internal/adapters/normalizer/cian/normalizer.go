// Package cian нормализует строки базы, собранной парсером cian.
// Словари cian сравниваются с учетом регистра.
package cian

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"reconciliation-service/internal/adapters/normalizer"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	"reconciliation-service/internal/core/service/extract"
	"reconciliation-service/internal/core/service/valuemap"
)

const (
	SourceName = "cian"

	defaultWCCount     = 10
	defaultCottageType = 10
	townhouseType      = 40
	townhouse          = "Таунхаус"
	hotelMarker        = "гостиниц"
)

// Номера параметров cian.
const (
	paramFloor       = 1
	paramBuilding    = 2
	paramCeiling     = 4
	paramArea        = 6
	paramAreaLiving  = 8
	paramAreaKitchen = 9
	paramBalcony     = 11
	paramParkingAlt  = 13
	paramRepairAlt   = 15
	paramRentTerm    = 18
	paramWCComb      = 23
	paramWCSep       = 25
	paramRepair      = 28
	paramNewPhase    = 32
	paramFurniture   = 37
	paramAreaHouse   = 41
	paramAreaPlot    = 42
	paramFloorsAlt   = 44
	paramObjectType  = 47
	paramElectro     = 50
	paramGas         = 53
	paramSewer       = 54
	paramWater       = 55
	paramPhone       = 58
	paramDeadline    = 60
	paramGuard       = 64
	paramFloors      = 65
	paramParking     = 78
	ParamPart        = 79
)

// Москва и Санкт-Петербург в справочнике регионов cian.
var highCostRegions = map[int64]bool{1: true, 3: true}

// Севастополь и Крым.
var crimeaRegions = []int64{13, 17}

var (
	deals       = valuemap.New("deal", dealTable)
	guards      = valuemap.New("guard", guardTable)
	phones      = valuemap.New("phone_on", phoneTable)
	furniture   = valuemap.New("furniture", furnitureTable)
	rentTerms   = valuemap.New("rent_term", rentTermTable)
	repairs     = valuemap.New("repair_condition", repairTable)
	newPhases   = valuemap.New("new_phase", newPhaseTable)
	gas         = valuemap.New("gas", gasTable)
	sewer       = valuemap.New("sewer", sewerTable)
	water       = valuemap.New("water", waterTable)
	electro     = valuemap.New("electro", electroTable)
	houseTypes  = valuemap.New("house_type", houseTypeTable, valuemap.Silent("вторичка", "новостройка"))
	balconies   = valuemap.New("balcony", balconyTable)
	regions     = valuemap.New("region_id", regionTable)
	objectTypes = valuemap.NewOrdered("object_type", objectTypeEntries)
)

type Normalizer struct {
	tk *normalizer.Toolkit
}

func New(tk *normalizer.Toolkit) *Normalizer {
	return &Normalizer{tk: tk}
}

func (n *Normalizer) Source() string { return SourceName }

func (n *Normalizer) Normalize(ctx context.Context, env port.NormalizeEnv, row domain.RawRow, t domain.PropertyType) (*domain.Listing, *domain.Rejection, error) {
	if rej := n.tk.Crimea(&row, crimeaRegions...); rej != nil {
		return nil, rej, nil
	}
	act, rej := normalizer.ResolveAct(&row, highCostRegions[row.RegionID])
	if rej != nil {
		return nil, rej, nil
	}
	if strings.Contains(strings.ToLower(row.Subcategory), hotelMarker) {
		return nil, domain.Exclude(domain.ReasonDropHospital, row.Subcategory), nil
	}

	unknown := normalizer.Unknown(env, t, row.ID)
	regionID := regions.Map(strconv.FormatInt(row.RegionID, 10), unknown)

	l := &domain.Listing{
		SourceID:     env.SourceID,
		SourceKey:    row.ID,
		PropertyType: t,
		Service: domain.ServiceFields{
			RawAddress:         row.Address,
			Photos:             normalizer.CleanList(row.Images),
			SourceObjectTypeID: sourceObjectTypes[row.Type],
		},
		Common: n.tk.Common(&row, env.Rates, deals.Map(act, unknown), regionID),
	}

	metroID := 0
	if t != domain.Business && t != domain.Cottages {
		var err error
		if metroID, err = n.tk.MetroID(ctx, regionID, row.Metro); err != nil {
			return nil, nil, fmt.Errorf("cian %d: %w", row.ID, err)
		}
	}
	fields, subtype := n.typeFields(&row, t, metroID, unknown)
	if fields == nil {
		return nil, nil, fmt.Errorf("cian %d: unsupported property type %q", row.ID, t)
	}
	l.Fields = fields
	l.Service.ObjectSubtype = subtype

	// адрес cian уже содержит регион и город, он же ключ кэша геокодера
	rej, err := n.tk.Address(ctx, l, row.Address, row.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("cian %d: %w", row.ID, err)
	}
	if rej != nil {
		return nil, rej, nil
	}
	return l, nil, nil
}

func (n *Normalizer) typeFields(row *domain.RawRow, t domain.PropertyType, metroID int, unknown valuemap.UnknownFunc) (domain.TypeFields, int) {
	metro := domain.Metro{ID: metroID}
	floor, _ := extract.Floor(paramText(row, paramFloor))

	switch t {
	case domain.Flats:
		deadline := paramText(row, paramDeadline)
		return &domain.FlatFields{
			Dwelling:   dwelling(row, metro, unknown),
			Amenities:  amenities(row, unknown),
			NewPhase:   newPhases.Map(paramText(row, paramNewPhase), unknown),
			NewQuarter: extract.Quarter(deadline),
			NewYear:    extract.Year(deadline, n.tk.Now()),
		}, 0
	case domain.Rooms:
		return &domain.RoomFields{
			Dwelling:  dwelling(row, metro, unknown),
			Amenities: amenities(row, unknown),
			RoomsDeal: extract.FirstInt(row.RoomsInDeal),
		}, 0
	case domain.Parts:
		return &domain.PartFields{
			Dwelling: dwelling(row, metro, unknown),
			Part:     paramText(row, ParamPart),
		}, 0
	case domain.Cottages:
		f := &domain.CottageFields{
			ObjType:         defaultCottageType,
			AreaHouse:       extract.Area(paramText(row, paramAreaHouse)),
			AreaPlot:        extract.PlotArea(paramText(row, paramAreaPlot)),
			Gas:             gas.Map(paramText(row, paramGas), unknown),
			Water:           water.Map(paramText(row, paramWater), unknown),
			Electro:         electro.Map(paramText(row, paramElectro), unknown),
			Sewer:           sewer.Map(paramText(row, paramSewer), unknown),
			Guard:           guards.Map(paramText(row, paramGuard), unknown),
			WCCombNum:       wcCount(row, paramWCComb),
			WCSepNum:        wcCount(row, paramWCSep),
			RepairCondition: repairCondition(row, unknown),
			RentTerm:        rentTerms.Map(paramText(row, paramRentTerm), unknown),
		}
		// подкатегория сравнивается как подстрока слова "Таунхаус"
		if row.Subcategory != "" && strings.Contains(townhouse, row.Subcategory) {
			f.ObjType = townhouseType
		}
		return f, 0
	case domain.Commercial:
		f := &domain.CommercialFields{
			Metro:   metro,
			Floor:   floor,
			Floors:  floors(row),
			Parking: -1,
			Guard:   guards.Map(paramText(row, paramGuard), unknown),
		}
		if paramText(row, paramParking) != "" || paramText(row, paramParkingAlt) != "" {
			f.Parking = 1
		}
		if lo, hi, ok := extract.AreaRange(paramText(row, paramArea)); ok {
			f.AreaMin, f.AreaMax = lo, hi
		}
		return f, objectType(row)
	case domain.Business:
		return &domain.BusinessFields{}, objectType(row)
	case domain.Parkings:
		return &domain.ParkingFields{
			Type:          buildingType(row),
			Metro:         metro,
			Floor:         floor,
			AreaTotal:     extract.Area(paramText(row, paramArea)),
			CeilingHeight: extract.Area(paramText(row, paramCeiling)),
			RentTerm:      rentTerms.Map(paramText(row, paramRentTerm), unknown),
		}, 0
	}
	return nil, 0
}

func dwelling(row *domain.RawRow, metro domain.Metro, unknown valuemap.UnknownFunc) domain.Dwelling {
	floor, _ := extract.Floor(paramText(row, paramFloor))
	return domain.Dwelling{
		Type:            buildingType(row),
		Rooms:           extract.FirstInt(strings.TrimSpace(row.Rooms)),
		Metro:           metro,
		Floor:           floor,
		Floors:          floors(row),
		HouseType:       houseType(row, unknown),
		AreaTotal:       extract.Area(paramText(row, paramArea)),
		AreaLiving:      extract.Area(paramText(row, paramAreaLiving)),
		AreaKitchen:     extract.Area(paramText(row, paramAreaKitchen)),
		Balcony:         balconies.Map(paramText(row, paramBalcony), unknown),
		PhoneOn:         phones.Map(paramText(row, paramPhone), unknown),
		WCCombNum:       wcCount(row, paramWCComb),
		WCSepNum:        wcCount(row, paramWCSep),
		RepairCondition: repairCondition(row, unknown),
	}
}

func amenities(row *domain.RawRow, unknown valuemap.UnknownFunc) domain.Amenities {
	return domain.Amenities{
		Furniture: furniture.Map(paramText(row, paramFurniture), unknown),
		RentTerm:  rentTerms.Map(paramText(row, paramRentTerm), unknown),
	}
}

func buildingType(row *domain.RawRow) int {
	if strings.Contains(strings.ToLower(paramText(row, paramBuilding)), "новостройка") {
		return domain.BuildingTypeNew
	}
	return 0
}

// floors: этажность из параметров 65 или 44, иначе из записи "5 из 9".
func floors(row *domain.RawRow) int {
	for _, id := range []int{paramFloors, paramFloorsAlt} {
		if v := paramText(row, id); v != "" {
			return extract.FirstInt(v)
		}
	}
	_, total := extract.Floor(paramText(row, paramFloor))
	return total
}

// houseType: "вторичка, кирпичный" -> "кирпичный".
func houseType(row *domain.RawRow, unknown valuemap.UnknownFunc) int {
	v := paramText(row, paramBuilding)
	if v == "" {
		return 0
	}
	parts := strings.Split(v, ",")
	token := parts[0]
	if len(parts) > 1 {
		token = parts[1]
	}
	return houseTypes.Map(strings.TrimSpace(token), unknown)
}

func repairCondition(row *domain.RawRow, unknown valuemap.UnknownFunc) int {
	v := paramText(row, paramRepair)
	if v == "" {
		v = paramText(row, paramRepairAlt)
	}
	return repairs.Map(v, unknown)
}

func wcCount(row *domain.RawRow, id int) int {
	if v := paramText(row, id); v != "" {
		return extract.FirstInt(v)
	}
	return defaultWCCount
}

func objectType(row *domain.RawRow) int {
	if code, ok := objectTypes.MatchWithin(row.Subcategory); ok {
		return code
	}
	code, _ := objectTypes.MatchWithin(paramText(row, paramObjectType))
	return code
}

func paramText(row *domain.RawRow, id int) string {
	v, _ := row.Param(id)
	return v
}
