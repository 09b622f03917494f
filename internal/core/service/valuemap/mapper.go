// Package valuemap переводит словарные значения источников в коды каталога.
package valuemap

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Missing - ключ, под которым ищется отсутствующее значение.
const Missing = "-"

// UnknownFunc получает имя таблицы и нераспознанный токен.
type UnknownFunc func(table, token string)

// Mapper - неизменяемая таблица соответствий токен -> код.
type Mapper struct {
	name     string
	table    map[string]int
	fold     bool
	fallback int
	silent   map[string]struct{}
}

type Option func(*Mapper)

// CaseInsensitive включает поиск без учета регистра.
func CaseInsensitive() Option {
	return func(m *Mapper) { m.fold = true }
}

// Default задает код для нераспознанного токена (по умолчанию 0).
func Default(code int) Option {
	return func(m *Mapper) { m.fallback = code }
}

// Silent перечисляет токены, промах по которым не попадает в unknownIndex.
func Silent(tokens ...string) Option {
	return func(m *Mapper) {
		for _, t := range tokens {
			m.silent[m.key(t)] = struct{}{}
		}
	}
}

func New(name string, table map[string]int, opts ...Option) *Mapper {
	m := &Mapper{name: name, silent: make(map[string]struct{})}
	// fold нужен до копирования ключей
	for _, opt := range opts {
		opt(m)
	}
	m.table = make(map[string]int, len(table))
	for k, v := range table {
		m.table[m.key(k)] = v
	}
	if m.fold {
		silent := make(map[string]struct{}, len(m.silent))
		for k := range m.silent {
			silent[m.key(k)] = struct{}{}
		}
		m.silent = silent
	}
	return m
}

func (m *Mapper) Name() string { return m.name }

func (m *Mapper) key(token string) string {
	if m.fold {
		return lower(token)
	}
	return token
}

// Lookup ищет токен без записи в журнал.
func (m *Mapper) Lookup(token string) (int, bool) {
	if token == "" {
		token = Missing
	}
	v, ok := m.table[m.key(token)]
	return v, ok
}

// Map возвращает код токена. Пустой токен ищется как Missing.
// Промах не является ошибкой: сообщаем в unknown и отдаем код по умолчанию.
func (m *Mapper) Map(token string, unknown UnknownFunc) int {
	if v, ok := m.Lookup(token); ok {
		return v
	}
	if token == "" {
		token = Missing
	}
	if _, quiet := m.silent[m.key(token)]; !quiet && unknown != nil {
		unknown(m.name, token)
	}
	return m.fallback
}

// Entry - строка упорядоченной таблицы.
type Entry struct {
	Token string
	Code  int
}

// Ordered - таблица, где важен порядок строк: побеждает первое совпадение.
type Ordered struct {
	name    string
	entries []Entry
}

func NewOrdered(name string, entries []Entry) *Ordered {
	cp := make([]Entry, len(entries))
	for i, e := range entries {
		cp[i] = Entry{Token: lower(e.Token), Code: e.Code}
	}
	return &Ordered{name: name, entries: cp}
}

// MatchWithin возвращает код первой строки, токен которой содержит text.
func (o *Ordered) MatchWithin(text string) (int, bool) {
	text = strings.TrimSpace(lower(text))
	if text == "" {
		return 0, false
	}
	for _, e := range o.entries {
		if strings.Contains(e.Token, text) {
			return e.Code, true
		}
	}
	return 0, false
}

func lower(s string) string {
	return cases.Lower(language.Russian).String(s)
}
