package identity

// ActorKind тип аутентифицированного субъекта
type ActorKind string

const (
	ActorDoctor  ActorKind = "doctor"
	ActorPatient ActorKind = "patient"
)

// Actor аутентифицированный субъект запроса
type Actor struct {
	Kind ActorKind
	ID   int64
}

// IsDoctor возвращает true, если субъект - врач
func (a Actor) IsDoctor() bool {
	return a.Kind == ActorDoctor
}
