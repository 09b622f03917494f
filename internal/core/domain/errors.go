package domain

import "errors"

var (
	// ErrNoImportData - источник не вернул ни одного активного id, прогон прерывается без ошибки.
	ErrNoImportData   = errors.New("no import data")
	ErrUnknownSource  = errors.New("unknown source")
	ErrSourceInactive = errors.New("source is inactive")
	ErrRunInProgress  = errors.New("another reconciliation run is in progress")
	ErrInsertFailed   = errors.New("insert failed")
	ErrUpdateFailed   = errors.New("update failed")
)

// Rejection - причина, по которой строка источника отброшена.
// Это не ошибка: прогон продолжается, причина уходит в журнал событий.
type Rejection struct {
	Reason string
	Detail string
	// Exclusion отличает бизнес-исключения (DROP_*) от провалов валидации.
	Exclusion bool
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return r.Reason
	}
	return r.Reason + ": " + r.Detail
}

func Reject(reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}

func Exclude(reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail, Exclusion: true}
}

// Причины отклонения на этапе нормализации и валидации.
const (
	ReasonHashData        = "ERROR_HASH_DATA"
	ReasonLongArea        = "LONG_AREA"
	ReasonLongNasPunkt    = "LONG_NAS_PUNKT"
	ReasonLongDistrict    = "LONG_DISTRICT"
	ReasonLongStreet      = "LONG_STREET"
	ReasonLongHouseNumber = "LONG_HOUSENUMBER"
	ReasonHouseNumber     = "ERROR_HOUSE_NUMBER"
	ReasonDealType        = "ERROR_DEAL_TYPE"
	ReasonPrice           = "ERROR_PRICE"
	ReasonRegion          = "ERROR_REGION"
	ReasonRoomsInDeal     = "ERROR_ROOMS_IN_DEAL"
	ReasonRoomsInObject   = "ERROR_ROOMS_IN_OBJECT"
	ReasonFloor           = "ERROR_FLOOR"
	ReasonBuildingFloors  = "ERROR_BUILDING_FLOORS"
	ReasonMaxMinFloors    = "ERROR_MAX_MIN_FLOORS"
	ReasonAddress         = "ERROR_ADDRESS"
	ReasonExcludeParts    = "EXCLUDE_PARTS"
	ReasonRegionCrimea    = "ERROR_REGION_CRIMEA"

	ReasonDropDemand   = "DROP_DEMAND"
	ReasonDropHospital = "DROP_HOSPITAL"
)
