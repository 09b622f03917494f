// Package extract разбирает числовые значения из свободного текста объявлений.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberRe    = regexp.MustCompile(`\d+,?\d?`)
	floorRe     = regexp.MustCompile(`(\d+)\D*(\d+)?`)
	intRe       = regexp.MustCompile(`\d+`)
	yearRe      = regexp.MustCompile(`(\d+) г`)
	areaRangeRe = regexp.MustCompile(`(\d+,?\d?)\s–\s(\d+,?\d?)`)
)

// Area возвращает первое число из текста, запятая считается десятичным разделителем.
// "45,5 м²" -> 45.5, "от 12 до 30" -> 12.
func Area(text string) float64 {
	m := numberRe.FindString(text)
	if m == "" {
		return 0
	}
	return parseDecimal(m)
}

// PlotArea - площадь участка в сотках; гектары переводятся умножением на 100.
func PlotArea(text string) float64 {
	area := Area(text)
	if strings.Contains(text, "га") {
		area *= 100
	}
	return area
}

// Decimal разбирает значение целиком ("45.5", "45,5"), иначе берет первое число.
func Decimal(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64); err == nil {
		return v
	}
	return Area(text)
}

// IsNumeric - строка целиком является числом.
func IsNumeric(text string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return err == nil
}

// AreaRange разбирает диапазон вида "20 – 150".
func AreaRange(text string) (min, max float64, ok bool) {
	m := areaRangeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	return parseDecimal(m[1]), parseDecimal(m[2]), true
}

// Floor разбирает "5 из 9", "-1 / 7", "подвал".
func Floor(text string) (floor, floors int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0
	}
	if text == "подвал" || text == "полуподвал" {
		return -1, 0
	}
	m := floorRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0
	}
	floor, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		floors, _ = strconv.Atoi(m[2])
	}
	return floor, floors
}

// FirstInt - первое целое число в тексте или 0.
func FirstInt(text string) int {
	v, _ := strconv.Atoi(intRe.FindString(text))
	return v
}

// Quarter - квартал сдачи из строки вида "3 кв. 2026 г.".
func Quarter(text string) int {
	for q := 1; q <= 4; q++ {
		if strings.Contains(text, strconv.Itoa(q)+" кв.") {
			return q
		}
	}
	return 0
}

// Year - год сдачи; двузначный год дополняется до 20xx, прошедший год дает 0.
func Year(text string, now time.Time) int {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	digits := m[1]
	if len(digits) == 2 {
		digits = "20" + digits
	}
	year, err := strconv.Atoi(digits)
	if err != nil || year < now.Year() {
		return 0
	}
	return year
}

// Digits оставляет только цифры.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}
