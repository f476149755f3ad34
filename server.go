package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"i4.energy/across/tofterm/command"
)

// LineStats reports the traffic seen on the serial line.
type LineStats interface {
	FrameCount() uint64
	ErrorCount() uint64
}

// InterpreterStats reports the progress of the command loop.
type InterpreterStats interface {
	State() command.State
	LastMessage() string
	Dispatched() uint64
}

// Server answers HTTP status queries about the serial line and the command
// loop running on it
type Server struct {
	Logger      *slog.Logger
	Line        LineStats
	Interpreter InterpreterStats
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Frames        uint64 `json:"frames"`
	ReceiveErrors uint64 `json:"receive_errors"`
	Dispatched    uint64 `json:"dispatched"`
	State         string `json:"state"`
	LastMessage   string `json:"last_message"`
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleStatus reports the line counters and the last status line sent
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.Line == nil || s.Interpreter == nil {
		s.sendError(w, "command loop not running", http.StatusServiceUnavailable)
		return
	}

	resp := StatusResponse{
		Frames:        s.Line.FrameCount(),
		ReceiveErrors: s.Line.ErrorCount(),
		Dispatched:    s.Interpreter.Dispatched(),
		State:         s.Interpreter.State().String(),
		LastMessage:   s.Interpreter.LastMessage(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Logger.Error("Failed to write status", "error", err)
	}
}
