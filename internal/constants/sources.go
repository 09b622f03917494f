package constants

// Источники объявлений
const (
	SourceAvito = "avito"
	SourceCian  = "cian"
)

var Sources = []string{SourceAvito, SourceCian}

func IsKnownSource(name string) bool {
	for _, s := range Sources {
		if s == name {
			return true
		}
	}
	return false
}
