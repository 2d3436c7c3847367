package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/openlabel/openlabel/pkg/class"
	"github.com/openlabel/openlabel/pkg/model"
	"github.com/openlabel/openlabel/pkg/server"
)

// datasetClassDTO is the wire shape of a dataset class.
type datasetClassDTO struct {
	ID         int64           `json:"id,omitempty"`
	DatasetID  int64           `json:"datasetId"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	ToolType   string          `json:"toolType,omitempty"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
}

// RegisterDatasetClassEndpoints registers dataset-class CRUD endpoints.
func RegisterDatasetClassEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/dataset-classes").Subrouter()

	router.HandleFunc("/create", handleSaveDatasetClass(s, 0)).Methods("POST")
	router.HandleFunc("/update/{id}", handleUpdateDatasetClass(s)).Methods("POST")
	router.HandleFunc("/delete/{id}", handleDeleteDatasetClass(s)).Methods("POST")
	router.HandleFunc("/info/{id}", handleDatasetClassInfo(s)).Methods("GET")
	router.HandleFunc("/find-by-page", handleFindDatasetClassesByPage(s)).Methods("GET")
	router.HandleFunc("/find-all/{datasetId}", handleFindAllDatasetClasses(s)).Methods("GET")
	router.HandleFunc("/validate-name", handleValidateDatasetClassName(s)).Methods("GET")
}

func handleSaveDatasetClass(s *server.Server, id int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto datasetClassDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		dc := classFromDTO(dto)
		dc.ID = id

		if err := s.Classes.Save(actorFrom(r).ID, dc); err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, classToDTO(*dc))
	}
}

func handleUpdateDatasetClass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		handleSaveDatasetClass(s, id)(w, r)
	}
}

func handleDeleteDatasetClass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := s.Classes.Delete(id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDatasetClassInfo(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		dc, err := s.Classes.FindByID(id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, classToDTO(*dc))
	}
}

func handleFindDatasetClassesByPage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNo, pageSize, q, err := pageQueryFrom(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		page, err := s.Classes.FindByPage(pageNo, pageSize, q)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		out := make([]datasetClassDTO, 0, len(page.List))
		for _, dc := range page.List {
			out = append(out, classToDTO(dc))
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"list": out, "pageNo": page.PageNo, "pageSize": page.PageSize, "total": page.Total,
		})
	}
}

func handleFindAllDatasetClasses(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datasetID, err := parseID(mux.Vars(r)["datasetId"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid datasetId")
			return
		}
		list, err := s.Classes.FindAll(datasetID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		out := make([]datasetClassDTO, 0, len(list))
		for _, dc := range list {
			out = append(out, classToDTO(dc))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleValidateDatasetClassName(s *server.Server) http.HandlerFunc {
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

		exists, err := s.Classes.NameExists(datasetID, name, excludeID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"exists": exists})
	}
}

func pageQueryFrom(r *http.Request) (pageNo, pageSize int, q class.Query, err error) {
	query := r.URL.Query()

	pageNo = 1
	if raw := query.Get("pageNo"); raw != "" {
		if n, perr := parseID(raw); perr == nil && n > 0 {
			pageNo = int(n)
		}
	}
	pageSize = 10
	if raw := query.Get("pageSize"); raw != "" {
		if n, perr := parseID(raw); perr == nil && n > 0 {
			pageSize = int(n)
		}
	}

	datasetID, err := parseID(query.Get("datasetId"))
	if err != nil {
		return 0, 0, class.Query{}, errInvalidDatasetID
	}
	q = class.Query{
		DatasetID: datasetID,
		ToolType:  query.Get("toolType"),
		Name:      query.Get("name"),
		SortBy:    query.Get("sortBy"),
		Desc:      query.Get("ascOrDesc") == "DESC",
	}
	if raw := query.Get("startTime"); raw != "" {
		if t, terr := time.Parse(time.RFC3339, raw); terr == nil {
			q.StartTime = &t
		}
	}
	if raw := query.Get("endTime"); raw != "" {
		if t, terr := time.Parse(time.RFC3339, raw); terr == nil {
			q.EndTime = &t
		}
	}
	return pageNo, pageSize, q, nil
}

func classFromDTO(dto datasetClassDTO) *model.DatasetClass {
	return &model.DatasetClass{
		ID:         dto.ID,
		DatasetID:  dto.DatasetID,
		Name:       dto.Name,
		Color:      dto.Color,
		ToolType:   dto.ToolType,
		Attributes: datatypes.JSON(dto.Attributes),
	}
}

func classToDTO(dc model.DatasetClass) datasetClassDTO {
	createdAt := dc.CreatedAt
	return datasetClassDTO{
		ID:         dc.ID,
		DatasetID:  dc.DatasetID,
		Name:       dc.Name,
		Color:      dc.Color,
		ToolType:   dc.ToolType,
		Attributes: json.RawMessage(dc.Attributes),
		CreatedAt:  &createdAt,
	}
}
