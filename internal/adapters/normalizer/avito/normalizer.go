// Package avito нормализует строки базы, собранной парсером avito.
package avito

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
	SourceName = "avito"

	hotelCode    = -1
	crimeaRegion = 33

	defaultCottageType = 10
)

// Номера параметров avito.
const (
	paramObjectType      = 1
	paramRentTerm        = 3
	paramHouseType       = 4
	paramAreaKitchen     = 5
	paramAreaLiving      = 6
	paramAreaTotal       = 7
	paramMkadDistance    = 8
	paramObjectKind      = 12
	paramFloor           = 15
	paramCommissionAgent = 16
	paramCommissionDep   = 17
	paramAreaCommercial  = 18
	paramFloors          = 19
	paramAreaPlot        = 28
	paramDeposit         = 30
)

// Москва и Санкт-Петербург в справочнике городов avito.
var highCostCities = map[int64]bool{53: true, 3: true}

var (
	deals       = valuemap.New("deal", dealTable, valuemap.CaseInsensitive())
	rentTerms   = valuemap.New("rent_term", rentTermTable, valuemap.CaseInsensitive())
	objectTypes = valuemap.New("object_type", objectTypeTable, valuemap.CaseInsensitive())
	houseTypes  = valuemap.New("house_type", houseTypeTable, valuemap.CaseInsensitive())
	regions     = valuemap.New("region_id", regionTable)
)

type Normalizer struct {
	tk *normalizer.Toolkit
}

func New(tk *normalizer.Toolkit) *Normalizer {
	return &Normalizer{tk: tk}
}

func (n *Normalizer) Source() string { return SourceName }

func (n *Normalizer) Normalize(ctx context.Context, env port.NormalizeEnv, row domain.RawRow, t domain.PropertyType) (*domain.Listing, *domain.Rejection, error) {
	if rej := n.tk.Crimea(&row, crimeaRegion); rej != nil {
		return nil, rej, nil
	}
	act, rej := normalizer.ResolveAct(&row, highCostCities[row.CityID])
	if rej != nil {
		return nil, rej, nil
	}
	if row.Subcategory != "" {
		if code := objectType(row.Subcategory); code == hotelCode {
			return nil, domain.Exclude(domain.ReasonDropHospital, row.Subcategory), nil
		}
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

	metroID, err := n.tk.MetroID(ctx, regionID, row.Metro)
	if err != nil {
		return nil, nil, fmt.Errorf("avito %d: %w", row.ID, err)
	}
	fields, subtype := typeFields(&row, t, metroID, unknown)
	if fields == nil {
		return nil, nil, fmt.Errorf("avito %d: unsupported property type %q", row.ID, t)
	}
	l.Fields = fields
	l.Service.ObjectSubtype = subtype

	// адрес разбираем после полей типа: проверке номера дома нужен тип постройки
	concat := normalizer.ConcatAddress(&row)
	rej, err = n.tk.Address(ctx, l, concat, concat)
	if err != nil {
		return nil, nil, fmt.Errorf("avito %d: %w", row.ID, err)
	}
	if rej != nil {
		return nil, rej, nil
	}
	return l, nil, nil
}

func typeFields(row *domain.RawRow, t domain.PropertyType, metroID int, unknown valuemap.UnknownFunc) (domain.TypeFields, int) {
	metro := domain.Metro{ID: metroID}
	switch t {
	case domain.Flats:
		return &domain.FlatFields{
			Dwelling:  dwelling(row, metro, unknown),
			Amenities: amenities(row, unknown),
		}, 0
	case domain.Rooms:
		return &domain.RoomFields{
			Dwelling:  dwelling(row, metro, unknown),
			Amenities: amenities(row, unknown),
			RoomsDeal: extract.FirstInt(row.RoomsInDeal),
		}, 0
	case domain.Parts:
		return &domain.PartFields{Dwelling: dwelling(row, metro, unknown)}, 0
	case domain.Cottages:
		objType := objectTypeChain(row)
		if objType == 0 {
			objType = defaultCottageType
		}
		f := &domain.CottageFields{
			ObjType:   objType,
			AreaHouse: param(row, paramAreaTotal),
			AreaPlot:  extract.PlotArea(paramText(row, paramAreaPlot)),
			RentTerm:  rentTerms.Map(paramText(row, paramRentTerm), unknown),
		}
		if v, ok := row.Param(paramMkadDistance); ok && extract.IsNumeric(v) {
			f.MkadDistance = int(extract.Decimal(v))
		}
		return f, 0
	case domain.Commercial:
		f := &domain.CommercialFields{
			Metro:  metro,
			Floor:  extract.FirstInt(paramText(row, paramFloor)),
			Floors: extract.FirstInt(paramText(row, paramFloors)),
		}
		if v, ok := row.Param(paramAreaCommercial); ok && extract.IsNumeric(v) {
			if area := extract.Decimal(v); area > 0 {
				f.AreaMin, f.AreaMax = area, area
			}
		}
		return f, objectTypeChain(row)
	case domain.Business:
		return &domain.BusinessFields{Metro: metro}, objectTypeChain(row)
	case domain.Parkings:
		return &domain.ParkingFields{
			Type:      buildingType(row),
			Metro:     metro,
			Floor:     extract.FirstInt(paramText(row, paramFloor)),
			AreaTotal: param(row, paramAreaTotal),
			RentTerm:  rentTerms.Map(paramText(row, paramRentTerm), unknown),
		}, 0
	}
	return nil, 0
}

// dwelling - поля квартир, комнат и долей. Санузлы и ремонт avito не отдает.
func dwelling(row *domain.RawRow, metro domain.Metro, unknown valuemap.UnknownFunc) domain.Dwelling {
	return domain.Dwelling{
		Type:        buildingType(row),
		Rooms:       extract.FirstInt(row.Rooms),
		Metro:       metro,
		Floor:       extract.FirstInt(paramText(row, paramFloor)),
		Floors:      extract.FirstInt(paramText(row, paramFloors)),
		HouseType:   houseTypes.Map(paramText(row, paramHouseType), unknown),
		AreaTotal:   param(row, paramAreaTotal),
		AreaLiving:  param(row, paramAreaLiving),
		AreaKitchen: param(row, paramAreaKitchen),
	}
}

func amenities(row *domain.RawRow, unknown valuemap.UnknownFunc) domain.Amenities {
	a := domain.Amenities{
		CommissionAgency: param(row, paramCommissionAgent),
		RentTerm:         rentTerms.Map(paramText(row, paramRentTerm), unknown),
	}
	// в каталоге 1 = 100%
	if v := param(row, paramCommissionDep); v != 0 {
		a.CommissionClient = v * 100
	} else if v := param(row, paramDeposit); v != 0 {
		a.CommissionClient = v * 100
	}
	return a
}

func buildingType(row *domain.RawRow) int {
	if strings.Contains(strings.ToLower(row.Subcategory), "новостройка") {
		return domain.BuildingTypeNew
	}
	return 0
}

// objectTypeChain берет тип объекта из подкатегории, затем из параметров 12 и 1.
func objectTypeChain(row *domain.RawRow) int {
	for _, v := range []string{row.Subcategory, paramText(row, paramObjectKind), paramText(row, paramObjectType)} {
		if code := objectType(v); code != 0 {
			return code
		}
	}
	return 0
}

// objectType ищет без записи в unknownIndex: промах здесь означает "тип не указан".
func objectType(text string) int {
	if text == "" {
		return 0
	}
	code, _ := objectTypes.Lookup(text)
	return code
}

func paramText(row *domain.RawRow, id int) string {
	v, _ := row.Param(id)
	return v
}

func param(row *domain.RawRow, id int) float64 {
	return extract.Decimal(paramText(row, id))
}
