package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/openlabel/openlabel/pkg/model"
	"github.com/openlabel/openlabel/pkg/server"
)

// datasetClassificationDTO is the wire shape of a dataset classification.
type datasetClassificationDTO struct {
	ID         int64           `json:"id,omitempty"`
	DatasetID  int64           `json:"datasetId"`
	Name       string          `json:"name"`
	InputType  string          `json:"inputType,omitempty"`
	IsRequired bool            `json:"isRequired,omitempty"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
}

// RegisterDatasetClassificationEndpoints registers dataset-classification
// CRUD endpoints. The surface mirrors dataset classes.
func RegisterDatasetClassificationEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/dataset-classifications").Subrouter()

	router.HandleFunc("/create", handleSaveDatasetClassification(s, 0)).Methods("POST")
	router.HandleFunc("/update/{id}", handleUpdateDatasetClassification(s)).Methods("POST")
	router.HandleFunc("/delete/{id}", handleDeleteDatasetClassification(s)).Methods("POST")
	router.HandleFunc("/info/{id}", handleDatasetClassificationInfo(s)).Methods("GET")
	router.HandleFunc("/find-by-page", handleFindDatasetClassificationsByPage(s)).Methods("GET")
	router.HandleFunc("/find-all/{datasetId}", handleFindAllDatasetClassifications(s)).Methods("GET")
	router.HandleFunc("/validate-name", handleValidateDatasetClassificationName(s)).Methods("GET")
}

func handleSaveDatasetClassification(s *server.Server, id int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto datasetClassificationDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		dc := classificationFromDTO(dto)
		dc.ID = id

		if err := s.Classifications.Save(actorFrom(r).ID, dc); err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, classificationToDTO(*dc))
	}
}

func handleUpdateDatasetClassification(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		handleSaveDatasetClassification(s, id)(w, r)
	}
}

func handleDeleteDatasetClassification(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := s.Classifications.Delete(id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDatasetClassificationInfo(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		dc, err := s.Classifications.FindByID(id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, classificationToDTO(*dc))
	}
}

func handleFindDatasetClassificationsByPage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNo, pageSize, q, err := pageQueryFrom(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := s.Classifications.FindByPage(pageNo, pageSize, q)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		out := make([]datasetClassificationDTO, 0, len(page.List))
		for _, dc := range page.List {
			out = append(out, classificationToDTO(dc))
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"list": out, "pageNo": page.PageNo, "pageSize": page.PageSize, "total": page.Total,
		})
	}
}

func handleFindAllDatasetClassifications(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datasetID, err := parseID(mux.Vars(r)["datasetId"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid datasetId")
			return
		}
		list, err := s.Classifications.FindAll(datasetID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		out := make([]datasetClassificationDTO, 0, len(list))
		for _, dc := range list {
			out = append(out, classificationToDTO(dc))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleValidateDatasetClassificationName(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datasetID, err := parseID(r.URL.Query().Get("datasetId"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "datasetId parameter required")
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			respondWithError(w, http.StatusBadRequest, "name parameter required")
			return
		}
		var excludeID int64
		if raw := r.URL.Query().Get("id"); raw != "" {
			if excludeID, err = parseID(raw); err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid id parameter")
				return
			}
		}

		exists, err := s.Classifications.NameExists(datasetID, name, excludeID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"exists": exists})
	}
}

func classificationFromDTO(dto datasetClassificationDTO) *model.DatasetClassification {
	return &model.DatasetClassification{
		ID:         dto.ID,
		DatasetID:  dto.DatasetID,
		Name:       dto.Name,
		InputType:  dto.InputType,
		IsRequired: dto.IsRequired,
		Attributes: datatypes.JSON(dto.Attributes),
	}
}

func classificationToDTO(dc model.DatasetClassification) datasetClassificationDTO {
	createdAt := dc.CreatedAt
	return datasetClassificationDTO{
		ID:         dc.ID,
		DatasetID:  dc.DatasetID,
		Name:       dc.Name,
		InputType:  dc.InputType,
		IsRequired: dc.IsRequired,
		Attributes: json.RawMessage(dc.Attributes),
		CreatedAt:  &createdAt,
	}
}
