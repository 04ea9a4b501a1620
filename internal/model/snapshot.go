package model

// Snapshot is the persisted unit exchanged with the host persistence store:
// the retained row sequence, passed through opaquely.
type Snapshot struct {
	Rows []*ViewRow `json:"rows"`
}
