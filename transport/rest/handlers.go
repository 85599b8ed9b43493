package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type markRequest struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

type markResponse struct {
	entity.Snapshot
	Accepted bool `json:"accepted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleGetBoard(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.uSession.State())
}

func (that *Server) handlePlaceMark(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePlaceMark")

	var req markRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if req.Row == nil || req.Column == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and column are required"})
		return
	}

	coordinate := entity.Coordinate{Row: *req.Row, Column: *req.Column}

	snapshot, accepted, err := that.uSession.PlaceMark(r.Context(), coordinate)
	if errors.Is(err, apperror.ErrInvalidCoordinate) {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to place mark", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to place mark"})
		return
	}

	that.writeJSON(w, http.StatusOK, markResponse{Snapshot: snapshot, Accepted: accepted})
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uSession.Reset(r.Context())
	if err != nil {
		that.logger.Error("failed to reset game", "method", "handleReset", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to reset game"})
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
