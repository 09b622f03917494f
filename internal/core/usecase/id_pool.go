package usecase

import "reconciliation-service/internal/core/domain"

// idPool выдает ключи источника пачками: тип за типом в порядке PropertyTypes,
// внутри типа - в порядке поступления.
type idPool struct {
	order []domain.PropertyType
	keys  map[domain.PropertyType][]int64
}

func newIDPool(importIDs map[domain.PropertyType][]int64) *idPool {
	p := &idPool{keys: make(map[domain.PropertyType][]int64, len(importIDs))}
	for _, t := range domain.PropertyTypes {
		if len(importIDs[t]) == 0 {
			continue
		}
		p.order = append(p.order, t)
		p.keys[t] = append([]int64(nil), importIDs[t]...)
	}
	return p
}

// Next забирает до size ключей текущего типа. ok == false, когда пул пуст.
func (p *idPool) Next(size int) (domain.PropertyType, []int64, bool) {
	if size <= 0 {
		size = 1
	}
	for len(p.order) > 0 {
		t := p.order[0]
		rest := p.keys[t]
		if len(rest) == 0 {
			p.order = p.order[1:]
			delete(p.keys, t)
			continue
		}
		n := size
		if n > len(rest) {
			n = len(rest)
		}
		p.keys[t] = rest[n:]
		return t, rest[:n:n], true
	}
	return "", nil, false
}
