package changedetect

import "reconciliation-service/internal/core/domain"

// Decision - классификация объявления и его актуальные хэши.
type Decision struct {
	Class       domain.Classification
	DataHash    string
	AddressHash string
}

// Classify сравнивает хэши объявления с записью каталога.
// rec == nil означает, что объявления в каталоге нет.
func Classify(l *domain.Listing, rec *domain.DestinationRecord) Decision {
	dataHash, okData := DataHash(l)
	addrHash, okAddr := AddressHash(l)
	d := Decision{DataHash: dataHash, AddressHash: addrHash}

	switch {
	case !okData || !okAddr:
		d.Class = domain.ClassError
	case rec == nil:
		d.Class = domain.ClassNew
	case rec.AddressHash != addrHash:
		d.Class = domain.ClassFullUpdate
	case rec.DataHash != dataHash:
		d.Class = domain.ClassDataUpdate
	default:
		d.Class = domain.ClassNotUpdate
	}
	return d
}
