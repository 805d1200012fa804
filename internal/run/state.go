package run

// State tracks an initialization run through its lifecycle. A run either
// advances NotStarted -> SchemaReady -> Seeded, or drops to Failed at
// whichever step broke.
type State int

const (
	StateNotStarted State = iota
	StateSchemaReady
	StateSeeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateSchemaReady:
		return "SCHEMA_READY"
	case StateSeeded:
		return "SEEDED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Kind classifies why a run failed.
type Kind int

const (
	KindNone Kind = iota
	KindConnection
	KindSchema
	KindSeedIntegrity
	KindLogWrite
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConnection:
		return "connection"
	case KindSchema:
		return "schema"
	case KindSeedIntegrity:
		return "seed_integrity"
	case KindLogWrite:
		return "log_write"
	default:
		return "unknown"
	}
}
