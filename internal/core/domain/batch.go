package domain

// TypeBatch - накопленные операции записи одного типа.
type TypeBatch struct {
	// InsertData и InsertHashes идут параллельно: i-я строка хэша относится к i-му объекту.
	InsertData     []*Listing
	InsertHashes   []HashRow
	InsertSubtypes []SubtypeRow
	InsertPhotos   []PhotoRow

	FullUpdates  []RowUpdate
	DataUpdates  []RowUpdate
	UpdateHashes []HashRow
	// UpdatePhotos - кандидаты фото обновляемых объявлений по ключу источника.
	UpdatePhotos map[int64][]string
	// UpdateObjects связывает ключ источника с id объекта каталога.
	UpdateObjects map[int64]int64

	Deactivate []int64
}

func (b *TypeBatch) Empty() bool {
	return len(b.InsertData) == 0 && len(b.FullUpdates) == 0 && len(b.DataUpdates) == 0 &&
		len(b.UpdateHashes) == 0 && len(b.UpdatePhotos) == 0 && len(b.Deactivate) == 0
}

// OperationBatch - операции записи, разложенные по типу и виду операции.
type OperationBatch struct {
	types map[PropertyType]*TypeBatch
}

func NewOperationBatch() *OperationBatch {
	return &OperationBatch{types: make(map[PropertyType]*TypeBatch)}
}

// For возвращает (создавая) часть пачки для типа.
func (b *OperationBatch) For(t PropertyType) *TypeBatch {
	tb, ok := b.types[t]
	if !ok {
		tb = &TypeBatch{
			UpdatePhotos:  make(map[int64][]string),
			UpdateObjects: make(map[int64]int64),
		}
		b.types[t] = tb
	}
	return tb
}

// Each обходит непустые части пачки в порядке PropertyTypes.
func (b *OperationBatch) Each(fn func(t PropertyType, tb *TypeBatch) error) error {
	for _, t := range PropertyTypes {
		tb, ok := b.types[t]
		if !ok || tb.Empty() {
			continue
		}
		if err := fn(t, tb); err != nil {
			return err
		}
	}
	return nil
}

func (b *OperationBatch) Reset() {
	b.types = make(map[PropertyType]*TypeBatch)
}
