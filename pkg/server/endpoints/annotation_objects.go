package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/server"
)

// annotationObjectDTO is the wire shape of one annotation object.
type annotationObjectDTO struct {
	ID              *int64          `json:"id,omitempty"`
	FrontID         int64           `json:"frontId,omitempty"`
	DatasetID       int64           `json:"datasetId"`
	DataID          int64           `json:"dataId"`
	ClassID         *int64          `json:"classId,omitempty"`
	ClassAttributes json.RawMessage `json:"classAttributes,omitempty"`
	SourceType      string          `json:"sourceType,omitempty"`
	SourceID        *int64          `json:"sourceId,omitempty"`
}

type saveAnnotationObjectsRequest struct {
	Objects     []annotationObjectDTO `json:"objects"`
	WipeDataIDs []int64               `json:"wipeDataIds,omitempty"`
}

// insertedObjectDTO tells the editor which server ID its temporary FrontID
// resolved to.
type insertedObjectDTO struct {
	ID      int64 `json:"id"`
	FrontID int64 `json:"frontId"`
	DataID  int64 `json:"dataId"`
}

// RegisterAnnotationObjectEndpoints registers the annotation-object save,
// list, and edit-lock endpoints.
func RegisterAnnotationObjectEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/annotation-objects").Subrouter()

	// POST /annotation-objects/save - reconcile the desired set
	router.HandleFunc("/save", handleSaveAnnotationObjects(s)).Methods("POST")

	// GET /annotation-objects?dataIds=1,2 - list stored objects
	router.HandleFunc("", handleListAnnotationObjects(s)).Methods("GET").Queries("dataIds", "{dataIds}")

	locks := s.Router.PathPrefix("/data/{dataId}/lock").Subrouter()
	locks.HandleFunc("", handleAcquireEditLock(s)).Methods("POST")
	locks.HandleFunc("", handleReleaseEditLock(s)).Methods("DELETE")
}

func handleSaveAnnotationObjects(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveAnnotationObjectsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		desired := make([]annotation.Object, 0, len(req.Objects))
		for _, dto := range req.Objects {
			obj, err := objectFromDTO(dto)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			desired = append(desired, obj)
		}

		inserted, err := s.Reconciler.Reconcile(actorFrom(r), desired, req.WipeDataIDs)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		out := make([]insertedObjectDTO, 0, len(inserted))
		for _, obj := range inserted {
			out = append(out, insertedObjectDTO{ID: obj.ID, FrontID: obj.FrontID, DataID: obj.DataID})
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"objects": out})
	}
}

func handleListAnnotationObjects(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataIDs, err := parseIDList(r.URL.Query().Get("dataIds"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid dataIds parameter")
			return
		}
		if len(dataIDs) == 0 {
			respondWithError(w, http.StatusBadRequest, "dataIds parameter required")
			return
		}

		objects, err := s.AnnotationStore.FindByDataIDs(dataIDs)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		out := make([]annotationObjectDTO, 0, len(objects))
		for _, obj := range objects {
			out = append(out, objectToDTO(obj))
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"objects": out})
	}
}

func handleAcquireEditLock(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataID, err := parseID(mux.Vars(r)["dataId"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid dataId")
			return
		}
		if err := s.EditLocks.Acquire(dataID, actorFrom(r)); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReleaseEditLock(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataID, err := parseID(mux.Vars(r)["dataId"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid dataId")
			return
		}
		if err := s.EditLocks.Release(dataID, actorFrom(r)); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func objectFromDTO(dto annotationObjectDTO) (annotation.Object, error) {
	obj := annotation.Object{
		FrontID:         dto.FrontID,
		DatasetID:       dto.DatasetID,
		DataID:          dto.DataID,
		ClassID:         dto.ClassID,
		ClassAttributes: dto.ClassAttributes,
		SourceID:        dto.SourceID,
	}
	if dto.ID != nil {
		obj.ID = *dto.ID
	}
	if dto.SourceType != "" {
		sourceType, err := annotation.SourceTypeString(dto.SourceType)
		if err != nil {
			return annotation.Object{}, err
		}
		obj.SourceType = sourceType
	}
	return obj, nil
}

func objectToDTO(obj annotation.Object) annotationObjectDTO {
	id := obj.ID
	return annotationObjectDTO{
		ID:              &id,
		DatasetID:       obj.DatasetID,
		DataID:          obj.DataID,
		ClassID:         obj.ClassID,
		ClassAttributes: obj.ClassAttributes,
		SourceType:      obj.SourceType.String(),
		SourceID:        obj.SourceID,
	}
}
