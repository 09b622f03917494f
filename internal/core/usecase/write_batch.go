package usecase

import (
	"regexp"

	"github.com/mmcloughlin/geohash"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	"reconciliation-service/internal/core/service/changedetect"
)

const geoCellPrecision = 7

var photoExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)

// batchBuilder раскладывает классифицированные объявления по пачке операций.
// SQL здесь не строится: пачку исполняет шлюз каталога.
type batchBuilder struct {
	batch    *domain.OperationBatch
	events   port.EventSinkPort
	sourceID int
}

func newBatchBuilder(sourceID int, events port.EventSinkPort) *batchBuilder {
	return &batchBuilder{
		batch:    domain.NewOperationBatch(),
		events:   events,
		sourceID: sourceID,
	}
}

func (b *batchBuilder) add(l *domain.Listing, d changedetect.Decision, rec *domain.DestinationRecord) {
	tb := b.batch.For(l.PropertyType)

	switch d.Class {
	case domain.ClassNew:
		idx := int64(len(tb.InsertData))
		tb.InsertData = append(tb.InsertData, l)
		tb.InsertHashes = append(tb.InsertHashes, b.hashRow(l, d, 0))
		if l.PropertyType.HasSubtypes() && l.Service.ObjectSubtype != 0 {
			// до вставки ObjectID хранит позицию объявления в InsertData
			tb.InsertSubtypes = append(tb.InsertSubtypes, domain.SubtypeRow{ObjectID: idx, SubtypeID: l.Service.ObjectSubtype})
		}
		tb.InsertPhotos = append(tb.InsertPhotos, b.photoRows(l.PropertyType, l.SourceKey, l.Service.Photos, 0)...)
		b.emit(domain.EventInsertObj, l)

	case domain.ClassFullUpdate, domain.ClassDataUpdate:
		row := domain.RowUpdate{ObjectID: rec.ObjectID, Listing: l}
		if d.Class == domain.ClassFullUpdate {
			tb.FullUpdates = append(tb.FullUpdates, row)
			b.emit(domain.EventFullUpdateObj, l)
		} else {
			tb.DataUpdates = append(tb.DataUpdates, row)
			b.emit(domain.EventDataUpdateObj, l)
		}
		tb.UpdateHashes = append(tb.UpdateHashes, b.hashRow(l, d, rec.ObjectID))
		b.trackPhotos(tb, l, rec)

	case domain.ClassNotUpdate:
		b.emit(domain.EventNotUpdateObj, l)
		b.trackPhotos(tb, l, rec)
	}
}

func (b *batchBuilder) deactivate(t domain.PropertyType, rec domain.DestinationRecord) {
	tb := b.batch.For(t)
	tb.Deactivate = append(tb.Deactivate, rec.ObjectID)
	b.events.Emit(domain.Event{Name: domain.EventDeleteObj, PropertyType: t, SourceKey: rec.SourceKey})
}

// trackPhotos запоминает фото существующего объявления для сверки по URL.
func (b *batchBuilder) trackPhotos(tb *domain.TypeBatch, l *domain.Listing, rec *domain.DestinationRecord) {
	tb.UpdatePhotos[l.SourceKey] = l.Service.Photos
	tb.UpdateObjects[l.SourceKey] = rec.ObjectID
}

func (b *batchBuilder) hashRow(l *domain.Listing, d changedetect.Decision, objectID int64) domain.HashRow {
	row := domain.HashRow{
		ObjectID:           objectID,
		TypeID:             l.PropertyType.TypeID(),
		SourceID:           b.sourceID,
		SourceKey:          l.SourceKey,
		SourceObjectTypeID: l.Service.SourceObjectTypeID,
		DataHash:           d.DataHash,
		AddressHash:        d.AddressHash,
	}
	if l.Common.Latitude != 0 || l.Common.Longitude != 0 {
		row.GeoCell = geohash.EncodeWithPrecision(l.Common.Latitude, l.Common.Longitude, geoCellPrecision)
	}
	return row
}

// photoRows отбирает картинки по расширению и нумерует их с start.
func (b *batchBuilder) photoRows(t domain.PropertyType, key int64, urls []string, start int) []domain.PhotoRow {
	var rows []domain.PhotoRow
	order := start
	for _, u := range urls {
		if u == "" {
			continue
		}
		if !photoExtRe.MatchString(u) {
			b.events.Emit(domain.Event{Name: domain.EventExcludeImg, PropertyType: t, SourceKey: key, Value: u})
			continue
		}
		rows = append(rows, domain.PhotoRow{SourceID: b.sourceID, SourceKey: key, ListOrder: order, URL: u})
		order++
		b.events.Emit(domain.Event{Name: domain.EventInsertImg, PropertyType: t, SourceKey: key, Value: u})
	}
	return rows
}

func (b *batchBuilder) emit(name string, l *domain.Listing) {
	b.events.Emit(domain.Event{Name: name, PropertyType: l.PropertyType, SourceKey: l.SourceKey})
}
