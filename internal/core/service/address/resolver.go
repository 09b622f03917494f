// Package address раскладывает строку адреса источника на компоненты каталога.
package address

import (
	"strings"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/service/extract"
)

const (
	minTokens = 3
	maxTokens = 8
)

// Separate раскладывает адрес по таблице правил.
// buildingType нужен проверке номера дома (у новостроек свой словарь).
// Второе значение false означает, что адрес разобрать нельзя.
func Separate(addr string, t domain.PropertyType, buildingType int) (domain.AddressParts, bool) {
	items := split(addr)
	if len(items) < minTokens || len(items) > maxTokens {
		return domain.AddressParts{}, false
	}

	tk := tokens{items: items, buildingType: buildingType}
	if len(items) == 3 && !tk.metro() {
		// "Пятигорск, зеленый переулок 1": номер дома не отделен запятой
		street, house, ok := splitHouseNumber(items[2], buildingType)
		switch {
		case ok:
			tk.items = []string{items[0], items[1], street, house}
		case t != domain.Cottages && t != domain.Commercial:
			return domain.AddressParts{}, false
		}
	}

	r, ok := match(tk)
	if !ok {
		return domain.AddressParts{}, false
	}
	return assign(tk, r), true
}

func assign(tk tokens, r rule) domain.AddressParts {
	var p domain.AddressParts
	var cityToken string
	for i, s := range r.layout {
		v := tk.at(i)
		switch s {
		case region:
			p.Region = v
		case district:
			p.District = v
		case locality:
			p.Locality = v
		case city:
			cityToken = v
		case street:
			p.Street = v
		case house:
			p.HouseNumber = v
		}
	}

	// город может оказаться поселком, ЖК или СНТ
	if p.Locality == "" {
		lowerCity := strings.ToLower(cityToken)
		if IsNasPunkt(lowerCity) || containsAny(lowerCity, "жк", "кп", "товарищество") {
			p.NasPunkt = cityToken
		} else {
			p.Locality = cityToken
		}
	} else {
		p.NasPunkt = cityToken
	}

	if IsNasPunkt(p.Street) {
		p.NasPunkt = p.Street
		p.Street = ""
	}

	if tk.metro() {
		p.District = ""
	}
	return p
}

// splitHouseNumber отделяет последний пробельный фрагмент, если он похож на номер дома.
func splitHouseNumber(token string, buildingType int) (string, string, bool) {
	parts := strings.Split(strings.TrimSpace(token), " ")
	if len(parts) < 2 {
		return "", "", false
	}
	last := parts[len(parts)-1]
	if !extract.IsPlausibleHouseNumber(last, buildingType) {
		return "", "", false
	}
	return strings.Join(parts[:len(parts)-1], " "), last, true
}

func split(addr string) []string {
	raw := strings.Split(addr, ",")
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
