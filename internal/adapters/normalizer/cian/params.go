package cian

import (
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/service/valuemap"
)

// Types - типы объявлений cian и семейства таблиц каталога.
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
	"sale": 10,
	"rent": 20,
}

var guardTable = map[string]int{
	"есть": 1,
	"-":    0,
}

var phoneTable = map[string]int{
	"да":   1,
	"есть": 1,
	"нет":  -1,
	"–":    0,
	"-":    0,
}

var furnitureTable = map[string]int{
	"есть": 1,
	"нет":  -1,
	"–":    0,
	"-":    0,
}

// Регистр ключей важен: cian отдает "Посуточно" с заглавной.
var rentTermTable = map[string]int{
	"длительный":           140,
	"на несколько месяцев": 120,
	"Посуточно":            110,
	"–":                    0,
	"-":                    0,
}

var repairTable = map[string]int{
	"дизайнерский ремонт":            80,
	"дизайнерский":                   80,
	"евроремонт":                     60,
	"офисная отделка":                30,
	"под чистовую отделку":           50,
	"типовой ремонт":                 60,
	"требуется капитальный ремонт":   40,
	"требуется косметический ремонт": 40,
	"косметический":                  70,
	"отсутствует":                    40,
	"–":                              20,
	"-":                              20,
}

var newPhaseTable = map[string]int{
	"действующий": 30,
	"проект":      10,
	"строящийся":  10,
	"–":           0,
	"-":           0,
}

// objectTypeEntries: порядок важен, побеждает первая строка, содержащая текст.
var objectTypeEntries = []valuemap.Entry{
	{Token: "гараж", Code: 70},
	{Token: "здание", Code: 210},
	{Token: "земля", Code: 120},
	{Token: "офис", Code: 200},
	{Token: "здание в деловом центре", Code: 60},
	{Token: "здание в особняке", Code: 140},
	{Token: "здание в многофункциональном комплексе", Code: 60},
	{Token: "помещение под производство", Code: 240},
	{Token: "бизнес", Code: 110},
	{Token: "помещение свободного назначения", Code: 140},
	{Token: "свободного назначения", Code: 140},
	{Token: "производство", Code: 240},
	{Token: "склад", Code: 280},
	{Token: "торговая площадь", Code: 300},
}

// Коммуникации участка. Неуказанное значение считается отсутствием.
var gasTable = map[string]int{
	"есть":                                                    30,
	"на участке":                                              30,
	"на участке (давление высокое)":                           30,
	"на участке (давление низкое)":                            30,
	"на участке (давление среднее)":                           30,
	"на участке (емкость 121 м³/ч)":                           30,
	"на участке (емкость 20 м³/ч)":                            30,
	"на участке (емкость 250 м³/ч, давление среднее)":         30,
	"нет":                                                     10,
	"нет (подключение возможно)":                              10,
	"по границе участка":                                      150,
	"по границе участка (давление высокое)":                   150,
	"по границе участка (давление низкое)":                    150,
	"по границе участка (давление среднее)":                   150,
	"по границе участка (емкость 250 м³/ч, давление высокое)": 150,
	"по границе участка (емкость 600 м³/ч, давление среднее)": 150,
	"по границе участка (емкость 999 м³/ч, давление среднее)": 150,
	"–":                                                       10,
	"-":                                                       10,
}

var sewerTable = map[string]int{
	"есть":                                         30,
	"на участке":                                   30,
	"на участке (автономная)":                      30,
	"на участке (центральная)":                     120,
	"на участке (центральная, объем 500 м³/сутки)": 120,
	"нет":                                          10,
	"нет (подключение возможно)":                   10,
	"по границе участка":                           130,
	"по границе участка (автономная)":              130,
	"по границе участка (центральная)":             130,
	"–":                                            10,
	"-":                                            10,
}

var waterTable = map[string]int{
	"есть":                                                 30,
	"на участке":                                           30,
	"на участке (автономное)":                              30,
	"на участке (автономное, объем 100 м³/сутки)":          30,
	"на участке (центральное)":                             110,
	"на участке (центральное, объем 900 м³/сутки)":         110,
	"нет":                                                  10,
	"нет (подключение возможно)":                           10,
	"по границе участка":                                   40,
	"по границе участка (автономное)":                      110,
	"по границе участка (автономное, объем 800 м³/сутки)":  110,
	"по границе участка (центральное)":                     110,
	"по границе участка (центральное, объем 300 м³/сутки)": 110,
	"–":                                                    10,
	"-":                                                    10,
}

var electroTable = map[string]int{
	"есть":                                  30,
	"на участке":                            30,
	"на участке (мощность 10 кВт)":          140,
	"на участке (мощность 100 кВт)":         30,
	"на участке (мощность 110 кВт)":         30,
	"на участке (мощность 140 кВт)":         30,
	"на участке (мощность 15 кВт)":          30,
	"на участке (мощность 150 кВт)":         30,
	"на участке (мощность 16 кВт)":          30,
	"на участке (мощность 180 кВт)":         30,
	"на участке (мощность 20 кВт)":          30,
	"на участке (мощность 200 кВт)":         30,
	"на участке (мощность 220 кВт)":         30,
	"на участке (мощность 25 кВт)":          30,
	"на участке (мощность 250 кВт)":         30,
	"на участке (мощность 30 кВт)":          30,
	"на участке (мощность 300 кВт)":         30,
	"на участке (мощность 350 кВт)":         30,
	"на участке (мощность 400 кВт)":         30,
	"на участке (мощность 430 кВт)":         30,
	"на участке (мощность 50 кВт)":          30,
	"на участке (мощность 500 кВт)":         30,
	"на участке (мощность 630 кВт)":         30,
	"на участке (мощность 70 кВт)":          30,
	"на участке (мощность 80 кВт)":          30,
	"на участке (мощность 800 кВт)":         30,
	"на участке (мощность 900 кВт)":         30,
	"нет":                                   10,
	"нет (подключение возможно)":            110,
	"по границе участка":                    150,
	"по границе участка (мощность 100 кВт)": 150,
	"по границе участка (мощность 15 кВт)":  150,
	"по границе участка (мощность 150 кВт)": 150,
	"по границе участка (мощность 200 кВт)": 150,
	"по границе участка (мощность 220 кВт)": 150,
	"по границе участка (мощность 300 кВт)": 150,
	"по границе участка (мощность 350 кВт)": 150,
	"по границе участка (мощность 380 кВт)": 150,
	"по границе участка (мощность 500 кВт)": 150,
	"по границе участка (мощность 60 кВт)":  150,
	"по границе участка (мощность 700 кВт)": 150,
	"по границе участка (мощность 900 кВт)": 150,
	"по границе участка (мощность 999 кВт)": 150,
	"–":                                     10,
	"-":                                     10,
}

var houseTypeTable = map[string]int{
	"блочный":             110,
	"деревянный":          180,
	"кирпично-монолитный": 160,
	"кирпичный":           120,
	"монолитный":          150,
	"панельный дом":       130,
	"панельный":           130,
	"сталинский":          140,
	"щитовой":             180,
	"старый фонд":         210,
}

// balconyTable: "N балк. + M лодж." кодируются комбинацией.
var balconyTable = map[string]int{
	"есть балкон":               110,
	"1 балк.":                   110,
	"-1 балк.":                  110,
	"2 балк.":                   120,
	"3 балк.":                   130,
	"4 балк.":                   130,
	"5 балк.":                   130,
	"8 балк.":                   130,
	"18 балк.":                  130,
	"есть лоджия":               145,
	"1 лодж.":                   145,
	"-1 лодж.":                  145,
	"2 лодж.":                   180,
	"3 лодж.":                   190,
	"4 лодж.":                   200,
	"5 лодж.":                   200,
	"6 лодж.":                   200,
	"7 лодж.":                   200,
	"8 лодж.":                   200,
	"9 лодж.":                   200,
	"10 лодж.":                  200,
	"1 балк. + 1 лодж.":         140,
	"есть балкон / есть лоджия": 140,
	"1 балк. + 2 лодж.":         150,
	"1 балк. + 3 лодж.":         150,
	"-1 балк. + 3 лодж.":        150,
	"1 балк. + 4 лодж.":         150,
	"2 балк. + 1 лодж.":         170,
	"2 балк. + 2 лодж.":         160,
	"2 балк. + 3 лодж.":         160,
	"2 балк. + 4 лодж.":         160,
	"3 балк. + 1 лодж.":         170,
	"3 балк. + 2 лодж.":         160,
	"3 балк. + 3 лодж.":         160,
	"3 балк. + 4 лодж.":         160,
	"4 балк. + 1 лодж.":         170,
	"4 балк. + 2 лодж.":         160,
	"4 балк. + 3 лодж.":         160,
	"4 балк. + 4 лодж.":         160,
	"нет":                       10,
	"–":                         20,
	"-":                         20,
}

// regionTable: id региона cian -> код региона каталога.
var regionTable = map[string]int{
	"1": 77, "2": 74, "3": 78, "4": 50, "5": 52, "6": 2, "7": 71,
	"8": 61, "9": 47, "10": 54, "11": 60, "12": 40, "13": 92, "14": 23,
	"15": 16, "16": 58, "17": 91, "18": 13, "19": 33, "20": 63, "21": 26,
	"22": 24, "23": 62, "24": 31, "25": 21, "26": 66, "27": 64, "28": 69,
	"29": 44, "30": 37, "31": 73, "32": 22, "33": 28, "34": 59, "35": 42,
	"36": 5, "37": 48, "38": 76, "39": 55, "40": 1, "41": 39, "42": 36,
	"43": 67, "44": 30, "45": 34, "46": 10, "47": 53, "48": 38, "49": 56,
	"50": 51, "51": 57, "52": 89, "53": 72, "54": 32, "55": 43, "56": 46,
	"57": 35, "58": 18, "59": 27, "60": 86, "61": 4, "62": 70, "63": 11,
	"64": 68, "65": 20, "66": 19, "67": 12, "68": 25, "69": 45, "70": 15,
	"71": 3, "72": 29, "73": 75, "74": 49, "75": 17, "76": 65, "77": 7,
	"78": 9, "79": 14, "80": 8, "81": 41,
}
