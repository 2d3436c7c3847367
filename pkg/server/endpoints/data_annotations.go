package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/server"
)

type saveDataAnnotationsRequest struct {
	Values []annotation.ClassificationValue `json:"values"`
}

// RegisterDataAnnotationEndpoints registers the classification-answer
// endpoints. Saving replaces everything recorded on the data item.
func RegisterDataAnnotationEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/data-annotations").Subrouter()

	router.HandleFunc("/{dataId}/save", handleSaveDataAnnotations(s)).Methods("POST")
	router.HandleFunc("", handleListDataAnnotations(s)).Methods("GET").Queries("dataIds", "{dataIds}")
}

func handleSaveDataAnnotations(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataID, err := parseID(mux.Vars(r)["dataId"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid dataId")
			return
		}

		var req saveDataAnnotationsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := s.DataAnnotations.Replace(actorFrom(r), dataID, req.Values); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListDataAnnotations(s *server.Server) http.HandlerFunc {
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

		values, err := s.DataAnnotations.List(dataIDs)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"values": values})
	}
}
