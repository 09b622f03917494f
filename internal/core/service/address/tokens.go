package address

import (
	"strings"

	"reconciliation-service/internal/core/service/extract"
)

var (
	streetMarkers   = []string{"ул.", "пл.", "проезд", "бул.", "ш.", "пер.", "просп.", "наб."}
	nasPunktMarkers = []string{"пос.", "с/пос", "с/с", "пгт", "мкр", "поселение", "д.", "п.", "с.", "тер.", "городок"}
	metroCities     = []string{"москва", "санкт-петербург"}
)

// tokens - части адреса после разбиения по запятым.
type tokens struct {
	items        []string
	buildingType int
}

func (t tokens) at(i int) string {
	if i < 0 || i >= len(t.items) {
		return ""
	}
	return t.items[i]
}

// has - токен содержит одну из подстрок.
func (t tokens) has(i int, subs ...string) bool {
	return containsAny(t.at(i), subs...)
}

// district - признак района или округа.
func (t tokens) district(i int) bool { return t.has(i, "район", "округ") }
func (t tokens) street(i int) bool   { return IsStreet(t.at(i)) }
func (t tokens) nasPunkt(i int) bool { return IsNasPunkt(t.at(i)) }

func (t tokens) house(i int) bool {
	return extract.IsPlausibleHouseNumber(t.at(i), t.buildingType)
}

// metro - адрес начинается с Москвы или Санкт-Петербурга.
func (t tokens) metro() bool {
	first := strings.ToLower(t.at(0))
	for _, c := range metroCities {
		if first == c {
			return true
		}
	}
	return false
}

// IsStreet - токен похож на улицу.
func IsStreet(s string) bool {
	return containsAny(s, streetMarkers...)
}

// IsNasPunkt - токен похож на населенный пункт.
func IsNasPunkt(s string) bool {
	if strings.Contains(s, "просп.") {
		return false
	}
	return containsAny(s, nasPunktMarkers...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
