package extract

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxHouseNumberLen = 15
	newBuildingType   = 30
)

var houseNumberStopwords = []string{
	"домовладение", "сооружение", "строение", "владение", "подъезд", "участок", "позиция",
	"литера", "секция", "корпус", "объект", "здание", "номер", "блок", "корп.", "влад.",
	"соор.", "кв-л", "двлд", "кор.", "лит.", "лит", "соор", "стр.", "мкр.", "сек.", "поз.",
	"под.", "дом", "поз", "мкр", "вл.", "уч.", "вл", "гк", "уч", "д.", "/", "№",
}

var (
	defaultStopwords     = byLengthDesc(houseNumberStopwords)
	newBuildingStopwords = byLengthDesc(append(append([]string{}, houseNumberStopwords...), "участок", "уч.", "уч"))
)

// IsPlausibleHouseNumber проверяет, похожа ли строка на номер дома.
// Описательные слова вырезаются, затем смотрим на долю цифр: от 50%,
// либо от 25% для строк не длиннее 4 символов.
func IsPlausibleHouseNumber(houseNumber string, buildingType int) bool {
	if houseNumber == "" {
		return false
	}
	stopwords := defaultStopwords
	if buildingType == newBuildingType {
		stopwords = newBuildingStopwords
	}

	short := strings.ToLower(houseNumber)
	for _, w := range stopwords {
		short = strings.ReplaceAll(short, w, "")
	}
	short = strings.ReplaceAll(strings.TrimSpace(short), " ", "")

	digits := Digits(short)
	length := utf8.RuneCountInString(short)
	if digits == "" || digits == "0" || length > maxHouseNumberLen {
		return false
	}

	percent := utf8.RuneCountInString(digits) * 100 / length
	return percent >= 50 || (length <= 4 && percent >= 25)
}

func byLengthDesc(words []string) []string {
	out := append([]string{}, words...)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}
