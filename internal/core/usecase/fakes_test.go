package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeSource - источник в памяти; строки каждого типа в порядке добавления.
type fakeSource struct {
	rows     map[domain.PropertyType][]domain.RawRow
	excluded map[domain.PropertyType]map[int64]string
	fetches  []fetchCall
}

type fetchCall struct {
	Type domain.PropertyType
	Keys []int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		rows:     make(map[domain.PropertyType][]domain.RawRow),
		excluded: make(map[domain.PropertyType]map[int64]string),
	}
}

func (s *fakeSource) put(t domain.PropertyType, row domain.RawRow) {
	for i, r := range s.rows[t] {
		if r.ID == row.ID {
			s.rows[t][i] = row
			return
		}
	}
	s.rows[t] = append(s.rows[t], row)
}

func (s *fakeSource) remove(t domain.PropertyType, id int64) {
	rows := s.rows[t][:0]
	for _, r := range s.rows[t] {
		if r.ID != id {
			rows = append(rows, r)
		}
	}
	s.rows[t] = rows
}

func (s *fakeSource) ListActiveIDs(_ context.Context, t domain.PropertyType) (domain.ActiveSet, error) {
	set := domain.ActiveSet{Excluded: s.excluded[t]}
	for _, r := range s.rows[t] {
		if _, skip := s.excluded[t][r.ID]; skip {
			continue
		}
		set.Keys = append(set.Keys, r.ID)
	}
	return set, nil
}

func (s *fakeSource) FetchRows(_ context.Context, t domain.PropertyType, keys []int64) ([]domain.RawRow, error) {
	s.fetches = append(s.fetches, fetchCall{Type: t, Keys: append([]int64(nil), keys...)})
	want := make(map[int64]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []domain.RawRow
	for _, r := range s.rows[t] {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeNormalizer строит объявление напрямую из полей строки.
// Name == "demand" имитирует объявление спроса.
type fakeNormalizer struct{}

func (fakeNormalizer) Source() string { return "avito" }

func (fakeNormalizer) Normalize(_ context.Context, env port.NormalizeEnv, row domain.RawRow, t domain.PropertyType) (*domain.Listing, *domain.Rejection, error) {
	if row.Name == "demand" {
		return nil, domain.Exclude(domain.ReasonDropDemand, row.Name), nil
	}
	l := &domain.Listing{
		SourceID:     env.SourceID,
		SourceKey:    row.ID,
		PropertyType: t,
		Service: domain.ServiceFields{
			RawAddress: row.Address,
			Photos:     row.Images,
		},
		Common: domain.CommonFields{
			Deal:        domain.DealSale,
			Status:      domain.StatusImported,
			Price:       int64(row.Price),
			Currency:    domain.CurrencyRUB,
			Description: row.Description,
			RegionID:    int(row.RegionID),
			Street:      row.Address,
			HouseNumber: "1",
		},
	}
	if row.CreatedAt != nil {
		l.Common.DateAdded = *row.CreatedAt
		l.Common.DateRenew = *row.CreatedAt
	}
	switch t {
	case domain.Rooms:
		l.Fields = &domain.RoomFields{Dwelling: domain.Dwelling{Rooms: 3}, RoomsDeal: 1}
	default:
		l.Fields = &domain.FlatFields{Dwelling: domain.Dwelling{Rooms: 2, Floor: 1, Floors: 5}}
	}
	return l, nil, nil
}

type storedObject struct {
	listing *domain.Listing
	deleted bool
}

// fakeDestination - каталог в памяти с учетом вызовов.
type fakeDestination struct {
	source  domain.SourceInfo
	nextID  int64
	nextPic int64

	objects map[domain.PropertyType]map[int64]*storedObject
	hashes  map[domain.PropertyType]map[int64]domain.HashRow
	photos  map[domain.PropertyType][]domain.ExistingPhoto

	subtypes []domain.SubtypeRow

	deactivated map[domain.PropertyType][]int64
	updates     map[domain.UpdateKind]int

	insertErr error
	updateErr error
}

func newFakeDestination() *fakeDestination {
	return &fakeDestination{
		source:      domain.SourceInfo{ID: 7, Name: "avito", Active: true},
		nextID:      100,
		nextPic:     1,
		objects:     make(map[domain.PropertyType]map[int64]*storedObject),
		hashes:      make(map[domain.PropertyType]map[int64]domain.HashRow),
		photos:      make(map[domain.PropertyType][]domain.ExistingPhoto),
		deactivated: make(map[domain.PropertyType][]int64),
		updates:     make(map[domain.UpdateKind]int),
	}
}

func (d *fakeDestination) Source(_ context.Context, name string) (domain.SourceInfo, error) {
	if name != d.source.Name {
		return domain.SourceInfo{}, errors.New("source not found")
	}
	return d.source, nil
}

func (d *fakeDestination) ListIDs(_ context.Context, sourceID int, filter domain.ListFilter) (domain.DestinationState, error) {
	state := make(domain.DestinationState)
	for t, rows := range d.hashes {
		var keys map[int64]bool
		if filter.Keys != nil {
			keys = make(map[int64]bool)
			for _, k := range filter.Keys[t] {
				keys[k] = true
			}
		}
		for key, h := range rows {
			if h.SourceID != sourceID {
				continue
			}
			obj := d.objects[t][h.ObjectID]
			active := obj != nil && !obj.deleted
			if filter.ActiveOnly && !active {
				continue
			}
			if keys != nil && !keys[key] {
				continue
			}
			if state[t] == nil {
				state[t] = make(map[int64]domain.DestinationRecord)
			}
			state[t][key] = domain.DestinationRecord{
				ObjectID:    h.ObjectID,
				SourceKey:   key,
				DataHash:    h.DataHash,
				AddressHash: h.AddressHash,
				Active:      active,
			}
		}
	}
	return state, nil
}

func (d *fakeDestination) Deactivate(_ context.Context, t domain.PropertyType, sourceID int, objectIDs []int64) error {
	ids := make(map[int64]bool, len(objectIDs))
	for _, id := range objectIDs {
		ids[id] = true
		if obj := d.objects[t][id]; obj != nil {
			obj.deleted = true
		}
	}
	for key, h := range d.hashes[t] {
		if ids[h.ObjectID] && h.SourceID == sourceID {
			h.DataHash = domain.DeletedHashSentinel
			d.hashes[t][key] = h
		}
	}
	d.deactivated[t] = append(d.deactivated[t], objectIDs...)
	return nil
}

func (d *fakeDestination) Insert(_ context.Context, t domain.PropertyType, listings []*domain.Listing) (int64, error) {
	if d.insertErr != nil {
		return 0, d.insertErr
	}
	if d.objects[t] == nil {
		d.objects[t] = make(map[int64]*storedObject)
	}
	first := d.nextID
	for _, l := range listings {
		d.objects[t][d.nextID] = &storedObject{listing: l}
		d.nextID++
	}
	return first, nil
}

func (d *fakeDestination) Update(_ context.Context, t domain.PropertyType, kind domain.UpdateKind, rows []domain.RowUpdate) error {
	if d.updateErr != nil {
		return d.updateErr
	}
	for _, r := range rows {
		d.objects[t][r.ObjectID] = &storedObject{listing: r.Listing}
	}
	d.updates[kind] += len(rows)
	return nil
}

func (d *fakeDestination) InsertSubtypes(_ context.Context, _ domain.PropertyType, rows []domain.SubtypeRow) error {
	d.subtypes = append(d.subtypes, rows...)
	return nil
}

func (d *fakeDestination) UpsertHash(_ context.Context, t domain.PropertyType, rows []domain.HashRow) error {
	if d.hashes[t] == nil {
		d.hashes[t] = make(map[int64]domain.HashRow)
	}
	for _, r := range rows {
		d.hashes[t][r.SourceKey] = r
	}
	return nil
}

func (d *fakeDestination) InsertPhotos(_ context.Context, t domain.PropertyType, rows []domain.PhotoRow) error {
	for _, r := range rows {
		d.photos[t] = append(d.photos[t], domain.ExistingPhoto{ID: d.nextPic, SourceKey: r.SourceKey, ListOrder: r.ListOrder, URL: r.URL})
		d.nextPic++
	}
	return nil
}

func (d *fakeDestination) DeletePhotos(_ context.Context, t domain.PropertyType, rows []domain.PhotoDeletion) error {
	drop := make(map[int64]bool, len(rows))
	for _, r := range rows {
		drop[r.PhotoID] = true
	}
	kept := d.photos[t][:0]
	for _, p := range d.photos[t] {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	d.photos[t] = kept
	return nil
}

func (d *fakeDestination) ExistingPhotos(_ context.Context, t domain.PropertyType, _ int, keys []int64) ([]domain.ExistingPhoto, error) {
	want := make(map[int64]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []domain.ExistingPhoto
	for _, p := range d.photos[t] {
		if want[p.SourceKey] {
			out = append(out, p)
		}
	}
	return out, nil
}

// photosOf возвращает фото объявления, упорядоченные по list_order.
func (d *fakeDestination) photosOf(t domain.PropertyType, key int64) []domain.ExistingPhoto {
	var out []domain.ExistingPhoto
	for _, p := range d.photos[t] {
		if p.SourceKey == key {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ListOrder < out[j].ListOrder })
	return out
}

type fakeRates struct{}

func (fakeRates) CurrentRates(context.Context) (domain.Rates, error) {
	return domain.Rates{USD: 90, EUR: 100}, nil
}

// MockRunReporter - мок публикации отчета
type MockRunReporter struct {
	mock.Mock
}

func (m *MockRunReporter) ReportRun(ctx context.Context, summary domain.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// MockRunJournal - мок журнала прогонов
type MockRunJournal struct {
	mock.Mock
}

func (m *MockRunJournal) Record(ctx context.Context, rec domain.RunRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRunJournal) Last(ctx context.Context, source string) (*domain.RunRecord, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunRecord), args.Error(1)
}

// blockingReconcile держит прогон, пока не закрыт release.
type blockingReconcile struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingReconcile) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return &domain.RunSummary{Source: req.Source}, nil
}
