package address

// slot - поле, в которое попадает токен на своей позиции.
type slot uint8

const (
	skip slot = iota
	region
	district
	locality
	city
	street
	house
)

// rule - одна ветка разбора: условие и раскладка токенов по полям.
type rule struct {
	name   string
	when   func(t tokens) bool
	layout []slot
}

func always(tokens) bool { return true }

// decisionTable хранит правила по числу токенов. Правила проверяются
// сверху вниз, срабатывает первое. Таблица подобрана по реальным адресам
// источников и должна меняться только вместе с тестами.
var decisionTable = map[int][]rule{
	8: {
		{"8", always, []slot{region, district, skip, locality, skip, city, street, house}},
	},
	7: {
		{"7/house/district", func(t tokens) bool { return t.house(6) && t.district(1) },
			[]slot{region, district, skip, city, skip, street, house}},
		{"7/house", func(t tokens) bool { return t.house(6) },
			[]slot{region, skip, city, district, skip, street, house}},
		{"7/district", func(t tokens) bool { return t.district(1) },
			[]slot{region, district, skip, locality, skip, city, street}},
		{"7", always,
			[]slot{region, locality, skip, district, skip, city, street}},
	},
	6: {
		{"6/d2/house", func(t tokens) bool { return t.district(2) && t.house(5) },
			[]slot{region, locality, district, city, street, house}},
		{"6/d2/d1/nas", func(t tokens) bool { return t.district(2) && t.district(1) && t.nasPunkt(4) },
			[]slot{region, district, skip, locality, city, street}},
		{"6/d2/d1", func(t tokens) bool { return t.district(2) && t.district(1) },
			[]slot{region, district, skip, city, skip, street}},
		{"6/d2", func(t tokens) bool { return t.district(2) },
			[]slot{region, locality, skip, district, city, street}},
		{"6/complex", func(t tokens) bool { return t.has(5, "ЖК", "кп") },
			[]slot{region, district, skip, skip, city, skip}},
		{"6/nas", func(t tokens) bool { return t.nasPunkt(5) },
			[]slot{region, skip, skip, district, skip, city}},
		{"6/street", func(t tokens) bool { return t.street(5) },
			[]slot{region, locality, skip, district, city, street}},
		{"6/house/d3", func(t tokens) bool { return t.house(5) && t.district(3) },
			[]slot{region, locality, city, district, street, house}},
		{"6/house", func(t tokens) bool { return t.house(5) },
			[]slot{region, district, skip, city, street, house}},
		{"6/d1", func(t tokens) bool { return t.district(1) },
			[]slot{region, district, locality, city, skip, skip}},
		{"6", always,
			[]slot{region, locality, district, city, skip, skip}},
	},
	5: {
		{"5/metro/house", func(t tokens) bool { return t.metro() && t.house(4) },
			[]slot{region, city, district, street, house}},
		{"5/metro/district", func(t tokens) bool { return t.metro() && (t.has(2, "район") || t.has(1, "округ")) },
			[]slot{region, locality, district, city, skip}},
		{"5/metro/street", func(t tokens) bool { return t.metro() && t.street(4) },
			[]slot{region, locality, city, district, street}},
		{"5/metro", func(t tokens) bool { return t.metro() },
			[]slot{region, locality, city, district, skip}},
		{"5/d2/street", func(t tokens) bool { return t.district(2) && t.street(4) },
			[]slot{region, skip, district, city, street}},
		{"5/d2/nas4", func(t tokens) bool { return t.district(2) && t.nasPunkt(4) },
			[]slot{region, locality, district, skip, city}},
		{"5/d2/nas3", func(t tokens) bool { return t.district(2) && t.nasPunkt(3) },
			[]slot{region, skip, district, city, house}},
		{"5/d2/house", func(t tokens) bool { return t.district(2) && t.house(4) },
			[]slot{region, city, district, street, house}},
		{"5/d2/d1", func(t tokens) bool { return t.district(2) && t.district(1) },
			[]slot{region, district, locality, city, skip}},
		{"5/d2", func(t tokens) bool { return t.district(2) },
			[]slot{region, locality, district, city, skip}},
		{"5/street", func(t tokens) bool { return t.street(4) },
			[]slot{region, district, skip, city, street}},
		{"5/nas", func(t tokens) bool { return t.nasPunkt(4) },
			[]slot{region, district, skip, skip, city}},
		{"5/complex", func(t tokens) bool { return t.has(4, "кп", "ЖК") },
			[]slot{region, skip, city, district, skip}},
		{"5/house/nas3", func(t tokens) bool { return t.house(4) && t.nasPunkt(3) },
			[]slot{region, district, skip, city, house}},
		{"5/house", func(t tokens) bool { return t.house(4) },
			[]slot{region, district, city, street, house}},
		{"5/d1", func(t tokens) bool { return t.district(1) },
			[]slot{region, district, locality, city, skip}},
		{"5", always,
			[]slot{region, locality, district, city, skip}},
	},
	4: {
		{"4/metro/street", func(t tokens) bool { return t.metro() && t.street(3) },
			[]slot{region, city, district, street}},
		{"4/metro/nas", func(t tokens) bool { return t.metro() && t.nasPunkt(3) },
			[]slot{region, skip, district, city}},
		{"4/metro/d3", func(t tokens) bool { return t.metro() && t.district(3) },
			[]slot{region, skip, city, district}},
		{"4/metro/house", func(t tokens) bool { return t.metro() && t.house(3) },
			[]slot{region, district, street, house}},
		{"4/metro/d1", func(t tokens) bool { return t.metro() && t.district(1) },
			[]slot{region, district, city, skip}},
		{"4/metro", func(t tokens) bool { return t.metro() },
			[]slot{region, city, district, skip}},
		{"4/d1/nas", func(t tokens) bool { return t.district(1) && t.nasPunkt(3) },
			[]slot{region, district, skip, city}},
		{"4/d1/street", func(t tokens) bool { return t.district(1) && t.street(3) },
			[]slot{region, district, city, street}},
		{"4/d1/house", func(t tokens) bool { return t.district(1) && !t.has(3, "кп", "ЖК") && t.house(3) },
			[]slot{region, district, city, house}},
		{"4/d1", func(t tokens) bool { return t.district(1) },
			[]slot{region, district, city, skip}},
		{"4/street", func(t tokens) bool { return t.street(3) },
			[]slot{region, city, district, street}},
		{"4/nas", func(t tokens) bool { return t.nasPunkt(3) },
			[]slot{region, locality, district, city}},
		{"4/d3", func(t tokens) bool { return t.district(3) },
			[]slot{region, locality, city, district}},
		{"4/house", func(t tokens) bool { return t.house(3) },
			[]slot{region, city, street, house}},
		{"4", always,
			[]slot{region, city, district, skip}},
	},
	3: {
		{"3/d1/street", func(t tokens) bool { return t.district(1) && t.street(2) },
			[]slot{region, district, street}},
		{"3/d1", func(t tokens) bool { return t.district(1) },
			[]slot{region, district, city}},
		{"3/d2", func(t tokens) bool { return t.district(2) },
			[]slot{region, city, district}},
		{"3", always,
			[]slot{region, city, street}},
	},
}

// match возвращает первое сработавшее правило для набора токенов.
func match(t tokens) (rule, bool) {
	for _, r := range decisionTable[len(t.items)] {
		if r.when(t) {
			return r, true
		}
	}
	return rule{}, false
}
