package domain

// Имена корзин журнала событий прогона.
const (
	EventUnknownIndex  = "unknownIndex"
	EventValidate      = "validate"
	EventInsertObj     = "insertObj"
	EventDeleteObj     = "deleteObj"
	EventNotUpdateObj  = "notUpdateObj"
	EventFullUpdateObj = "fullUpdateObj"
	EventDataUpdateObj = "dataUpdateObj"
	EventExcludeObj    = "excludeObj"
	EventInsertImg     = "insertImg"
	EventDeleteImg     = "deleteImg"
	EventExcludeImg    = "excludeImg"
)

// Event - одна запись в журнал событий прогона.
type Event struct {
	Name         string
	Reason       string
	PropertyType PropertyType
	SourceKey    int64
	Value        string
}

// Bucket - имя корзины, в которую попадает событие.
func (e Event) Bucket() string {
	if e.Name == EventValidate && e.Reason != "" {
		return EventValidate + "." + e.Reason
	}
	return e.Name
}
