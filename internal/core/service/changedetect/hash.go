// Package changedetect считает хэши объявления и решает, что делать с ним в каталоге.
package changedetect

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reconciliation-service/internal/core/domain"
)

const (
	// разделители не встречаются в данных объявлений
	fieldSep = "\x1f"
	pairSep  = "\x1e"

	timeLayout = "2006-01-02 15:04:05"

	// значение колонки, подставленное по умолчанию
	defaultedMarker = "\x00default"
)

// DataHash - дайджест общих полей и полей типа без адресных колонок.
// false, если у объявления нет типа.
func DataHash(l *domain.Listing) (string, bool) {
	if l == nil || l.PropertyType == "" || l.Fields == nil {
		return "", false
	}
	parts := make([]string, 0, 64)
	for _, col := range l.DataColumns() {
		value := formatValue(col.Value)
		if l.Service.IsDefaulted(col.Name) {
			value = defaultedMarker
		}
		parts = append(parts, col.Name+pairSep+value)
	}
	return digest(parts), true
}

// AddressHash - дайджест шести адресных колонок.
// false, если у объявления нет исходного адреса.
func AddressHash(l *domain.Listing) (string, bool) {
	if l == nil || l.Service.RawAddress == "" {
		return "", false
	}
	c := l.Common
	return digest([]string{
		strconv.Itoa(c.RegionID),
		c.District,
		c.Locality,
		c.NasPunkt,
		c.Street,
		c.HouseNumber,
	}), true
}

func digest(parts []string) string {
	sum := md5.Sum([]byte(strings.Join(parts, fieldSep)))
	return hex.EncodeToString(sum[:])
}

// formatValue приводит значение колонки к стабильной строке.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(timeLayout)
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		return val.Format(timeLayout)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
