package domain

// DestinationRecord - то, что уже лежит в каталоге для (источник, тип, ключ).
type DestinationRecord struct {
	ObjectID    int64
	SourceKey   int64
	DataHash    string
	AddressHash string
	Active      bool
}

// DestinationState - записи каталога по типам и ключам источника.
type DestinationState map[PropertyType]map[int64]DestinationRecord

type ListFilter struct {
	ActiveOnly bool
	// Keys ограничивает выборку; nil означает без ограничения.
	Keys map[PropertyType][]int64
}

// SourceInfo - запись из othersources.
type SourceInfo struct {
	ID     int
	Name   string
	Active bool
}

type Classification int

const (
	ClassNew Classification = iota
	ClassDataUpdate
	ClassFullUpdate
	ClassNotUpdate
	ClassDeactivate
	ClassError
)

func (c Classification) String() string {
	switch c {
	case ClassNew:
		return "NEW"
	case ClassDataUpdate:
		return "DATA_UPDATE"
	case ClassFullUpdate:
		return "FULL_UPDATE"
	case ClassNotUpdate:
		return "NOT_UPDATE"
	case ClassDeactivate:
		return "DEACTIVATE"
	}
	return "ERROR"
}

// UpdateKind - вид обновления строки объекта.
type UpdateKind int

const (
	UpdateData UpdateKind = iota
	UpdateFull
)

// HashRow - строка таблицы objects_<t>__othersource_data.
type HashRow struct {
	ObjectID           int64
	TypeID             int
	SourceID           int
	SourceKey          int64
	SourceObjectTypeID int
	DataHash           string
	AddressHash        string
	GeoCell            string
}

// PhotoRow - строка objects_<t>_source_photos.
type PhotoRow struct {
	SourceID  int
	SourceKey int64
	ListOrder int
	URL       string
}

// ExistingPhoto - уже сохраненное фото объявления.
type ExistingPhoto struct {
	ID        int64
	SourceKey int64
	ListOrder int
	URL       string
}

// PhotoDeletion - удаление фото из source_photos и из фото каталога.
type PhotoDeletion struct {
	PhotoID   int64
	ObjectID  int64
	ListOrder int
}

type SubtypeRow struct {
	ObjectID  int64
	SubtypeID int
}

type RowUpdate struct {
	ObjectID int64
	Listing  *Listing
}

// Rates - курсы валют к рублю.
type Rates struct {
	USD float64
	EUR float64
}

// DeletedHashSentinel - md5("1"), хэш данных деактивированного объекта.
const DeletedHashSentinel = "c4ca4238a0b923820dcc509a6f75849b"

