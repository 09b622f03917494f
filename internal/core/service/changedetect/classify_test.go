package changedetect

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"reconciliation-service/internal/core/domain"
)

func TestClassify(t *testing.T) {
	l := fakeFlat(gofakeit.New(3))
	data, _ := DataHash(l)
	addr, _ := AddressHash(l)

	testCases := []struct {
		name string
		rec  *domain.DestinationRecord
		want domain.Classification
	}{
		{name: "Absent record", rec: nil, want: domain.ClassNew},
		{name: "Both hashes equal", rec: &domain.DestinationRecord{DataHash: data, AddressHash: addr}, want: domain.ClassNotUpdate},
		{name: "Address changed", rec: &domain.DestinationRecord{DataHash: data, AddressHash: "old"}, want: domain.ClassFullUpdate},
		{name: "Address and data changed", rec: &domain.DestinationRecord{DataHash: "old", AddressHash: "old"}, want: domain.ClassFullUpdate},
		{name: "Only data changed", rec: &domain.DestinationRecord{DataHash: "old", AddressHash: addr}, want: domain.ClassDataUpdate},
		{name: "Deactivated record is always changed", rec: &domain.DestinationRecord{DataHash: domain.DeletedHashSentinel, AddressHash: addr}, want: domain.ClassDataUpdate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Classify(l, tc.rec)
			assert.Equal(t, tc.want, d.Class)
			assert.Equal(t, data, d.DataHash)
			assert.Equal(t, addr, d.AddressHash)
		})
	}
}

func TestClassify_Totality(t *testing.T) {
	f := gofakeit.New(99)
	allowed := map[domain.Classification]bool{
		domain.ClassNew: true, domain.ClassDataUpdate: true, domain.ClassFullUpdate: true, domain.ClassNotUpdate: true,
	}
	for i := 0; i < 100; i++ {
		l := fakeFlat(f)
		var rec *domain.DestinationRecord
		if f.Bool() {
			rec = &domain.DestinationRecord{DataHash: f.LetterN(32), AddressHash: f.LetterN(32)}
		}
		d := Classify(l, rec)
		assert.True(t, allowed[d.Class], d.Class.String())
		if rec != nil {
			assert.Equal(t, d.Class == domain.ClassNotUpdate, rec.DataHash == d.DataHash && rec.AddressHash == d.AddressHash)
		}
	}
}
