package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/class"
	"github.com/openlabel/openlabel/pkg/detection"
)

var errInvalidDatasetID = errors.New("datasetId parameter required")

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithServiceError maps domain errors onto HTTP statuses.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *annotation.ValidationError
	var upstreamErr *detection.UpstreamError

	switch {
	case errors.Is(err, class.ErrNotFound), errors.Is(err, detection.ErrRunNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, class.ErrNameDuplicated):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, annotation.ErrDataLocked):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, class.ErrInvalidInput), errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstreamErr):
		respondWithError(w, http.StatusBadGateway, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// actorFrom reads the acting user from the X-User-ID header. Authentication
// is handled upstream of this service; an absent header maps to the system
// actor.
func actorFrom(r *http.Request) annotation.Actor {
	id, _ := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	return annotation.Actor{ID: id}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// parseIDList parses a comma-separated list of IDs, ignoring empty entries.
func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
