package annotation

import (
	"encoding/json"
	"time"
)

// Actor identifies the principal performing a mutation. It is passed
// explicitly rather than read from request-scoped state so the engine can be
// driven by HTTP handlers and model-run imports alike.
type Actor struct {
	ID int64
}

// SystemActor is used for mutations not attributable to a human editor,
// such as model-result imports.
var SystemActor = Actor{ID: 0}

// Object is one annotation shape on a data item as handled by the
// reconciliation engine. A zero ID means the object has not been persisted
// yet. FrontID is the client's temporary reference; it is never stored but is
// echoed back on insert so the editor can rebind its local state to the
// server-assigned ID.
type Object struct {
	ID      int64
	FrontID int64

	DatasetID int64
	DataID    int64

	ClassID         *int64
	ClassAttributes json.RawMessage

	SourceType SourceType
	SourceID   *int64

	CreatedAt time.Time
	CreatedBy int64
	UpdatedAt time.Time
	UpdatedBy int64
}
