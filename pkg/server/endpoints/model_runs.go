package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openlabel/openlabel/pkg/detection"
	"github.com/openlabel/openlabel/pkg/server"
)

type runModelRequest struct {
	DatasetID int64             `json:"datasetId"`
	ModelName string            `json:"modelName"`
	Items     []runModelItem    `json:"items"`
	Filter    *detection.Filter `json:"filter,omitempty"`
	Params    map[string]any    `json:"params,omitempty"`
}

type runModelItem struct {
	DataID   int64  `json:"dataId"`
	ImageURL string `json:"imageUrl"`
}

type runModelItemResult struct {
	DataID   int64  `json:"dataId"`
	Imported int    `json:"imported"`
	Error    string `json:"error,omitempty"`
}

type runModelResponse struct {
	SerialNo string               `json:"serialNo"`
	Status   string               `json:"status"`
	Results  []runModelItemResult `json:"results"`
}

// RegisterModelRunEndpoints registers endpoints for invoking the external
// detection model and importing its results.
func RegisterModelRunEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/models").Subrouter()

	router.HandleFunc("/runs", handleRunModel(s)).Methods("POST")
	router.HandleFunc("/runs/{serialNo}", handleModelRunInfo(s)).Methods("GET")
}

// handleRunModel records a run, calls the model service for each data item
// and imports the surviving detections. A failure on one item does not stop
// the others; the run ends FAILED if any item failed.
func handleRunModel(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runModelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.DatasetID == 0 {
			respondWithError(w, http.StatusBadRequest, "datasetId is required")
			return
		}
		if len(req.Items) == 0 {
			respondWithError(w, http.StatusBadRequest, "items must not be empty")
			return
		}

		run, err := s.Runs.Create(req.DatasetID, req.ModelName, actorFrom(r).ID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		results := make([]runModelItemResult, 0, len(req.Items))
		failed := false
		for _, item := range req.Items {
			res := runModelItemResult{DataID: item.DataID}
			resp, err := s.ModelClient.Detect(r.Context(), detection.Request{
				DataID:   item.DataID,
				ImageURL: item.ImageURL,
				Params:   req.Params,
			})
			if err == nil {
				var inserted int
				inserted, err = importDetections(s, run.ID, req.DatasetID, item.DataID, resp, req.Filter)
				res.Imported = inserted
			}
			if err != nil {
				failed = true
				res.Error = err.Error()
			}
			results = append(results, res)
		}

		status := detection.RunStatusDone
		if failed {
			status = detection.RunStatusFailed
		}
		if err := s.Runs.SetStatus(run.ID, status); err != nil {
			respondWithServiceError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, runModelResponse{
			SerialNo: run.SerialNo,
			Status:   status,
			Results:  results,
		})
	}
}

func importDetections(s *server.Server, runID, datasetID, dataID int64, resp *detection.Response, filter *detection.Filter) (int, error) {
	inserted, err := s.Importer.Import(runID, datasetID, dataID, resp, filter)
	if err != nil {
		return 0, err
	}
	return len(inserted), nil
}

func handleModelRunInfo(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := s.Runs.FindBySerialNo(mux.Vars(r)["serialNo"])
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"serialNo":  run.SerialNo,
			"datasetId": run.DatasetID,
			"modelName": run.ModelName,
			"status":    run.Status,
			"createdAt": run.CreatedAt,
		})
	}
}
