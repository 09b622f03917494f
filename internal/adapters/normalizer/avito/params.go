package avito

import "reconciliation-service/internal/core/domain"

// Types - типы объявлений avito и семейства таблиц каталога.
var Types = map[string]domain.PropertyType{
	"apart":    domain.Flats,
	"land":     domain.Cottages,
	"house":    domain.Cottages,
	"room":     domain.Rooms,
	"commerce": domain.Commercial,
}

var sourceObjectTypes = map[string]int{
	"apart":    1,
	"land":     2,
	"house":    3,
	"room":     4,
	"commerce": 5,
}

var dealTable = map[string]int{
	"sale":      domain.DealSale,
	"rent":      domain.DealRent,
	"want_rent": 0,
}

var rentTermTable = map[string]int{
	"на длительный срок": 140,
	"посуточно":          110,
	"-":                  0,
}

// objectTypeTable: гостиница (-1) отбрасывается целиком.
var objectTypeTable = map[string]int{
	"вторичка":                        0,
	"гостиница":                       hotelCode,
	"дача":                            70,
	"дом":                             10,
	"коттедж":                         30,
	"таунхаус":                        40,
	"новостройка":                     30,
	"офисное помещение":               200,
	"помещение общественного питания": 150,
	"помещение свободного назначения": 140,
	"производственное помещение":      240,
	"складское помещение":             280,
	"торговое помещение":              300,
	"земельные участки":               110,
	"-":                               0,
}

var houseTypeTable = map[string]int{
	"блочный":    110,
	"деревянный": 180,
	"кирпичный":  120,
	"монолитный": 150,
	"панельный":  130,
	"-":          0,
}

// regionTable: id региона avito -> код региона каталога.
var regionTable = map[string]int{
	"1": 78, "2": 47, "3": 24, "4": 23, "5": 16, "6": 29, "7": 11,
	"8": 42, "9": 54, "10": 72, "11": 58, "12": 52, "13": 7, "14": 86,
	"15": 15, "16": 50, "17": 34, "18": 53, "19": 63, "20": 13, "21": 22,
	"22": 32, "23": 61, "24": 2, "25": 73, "26": 18, "27": 76, "28": 74,
	"29": 77, "30": 66, "31": 35, "32": 56, "33": 91, "34": 37, "35": 38,
	"36": 55, "37": 89, "38": 75, "39": 67, "40": 60, "41": 10, "42": 27,
	"43": 5, "44": 39, "45": 12, "46": 3, "47": 71, "48": 28, "49": 59,
	"50": 43, "51": 57, "52": 79, "53": 46, "54": 19, "55": 62, "56": 8,
	"57": 40, "58": 69, "59": 64, "60": 33, "61": 30, "62": 36, "63": 48,
	"64": 21, "65": 26, "66": 4, "67": 20, "68": 68, "69": 51, "70": 31,
	"71": 44, "72": 70, "73": 45, "74": 14, "75": 1, "76": 41, "77": 49,
	"78": 9, "79": 25, "80": 17, "81": 65, "82": 6, "83": 83, "84": 87,
}
