package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/CTAG07/Nomenclator/pkg/corpus"
	"github.com/CTAG07/Nomenclator/pkg/markov"
	"github.com/gin-gonic/gin"
)

// TrainResponse reports the outcome of a training request.
type TrainResponse struct {
	Trained int          `json:"trained"`
	Stats   StatsPayload `json:"stats"`
}

// GenerateResponse holds generated names.
type GenerateResponse struct {
	Names []string `json:"names"`
}

// StatsPayload mirrors markov.Stats for the wire.
type StatsPayload struct {
	Order        int `json:"order"`
	Windows      int `json:"windows"`
	Transitions  int `json:"transitions"`
	Observations int `json:"observations"`
	MaxFanOut    int `json:"max_fan_out"`
	KnownEntries int `json:"known_entries"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Trained bool   `json:"trained"`
}

func (s *Server) statsPayload() StatsPayload {
	st := s.chain.Stats()
	p := StatsPayload{
		Order:        st.Order,
		Windows:      st.Windows,
		Transitions:  st.Transitions,
		Observations: st.Observations,
		MaxFanOut:    st.MaxFanOut,
	}
	if s.index != nil {
		p.KnownEntries = s.index.Len()
	}
	return p
}

// handleTrain trains the chain on a newline-separated list of entries.
func (s *Server) handleTrain(c *gin.Context) {
	names, err := corpus.ReadNames(c.Request.Body, s.config.Corpus.FoldDiacritics)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(names) == 0 {
		respondWithError(c, http.StatusBadRequest, "No entries to train on")
		return
	}

	s.chain.TrainAll(names)
	if s.index != nil {
		for _, name := range names {
			s.index.Add(name)
		}
	}
	s.logger.Info("Trained via API",
		"request_id", c.GetString(keyRequestID),
		"entries", len(names),
	)
	respond(c, http.StatusOK, TrainResponse{Trained: len(names), Stats: s.statsPayload()})
}

// handleGenerate generates names, with query parameters overriding the
// configured count, length, temperature and top_k.
func (s *Server) handleGenerate(c *gin.Context) {
	gen := s.config.Generator

	limits := s.config.Server

	count, ok := queryInt(c, "count", gen.Count)
	if !ok || count < 0 || count > limits.MaxCount {
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("count must be an integer from 0 to %d", limits.MaxCount))
		return
	}
	length, ok := queryInt(c, "length", gen.Length)
	if !ok || length < 0 || length > limits.MaxLength {
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("length must be an integer from 0 to %d", limits.MaxLength))
		return
	}
	topK, ok := queryInt(c, "top_k", gen.TopK)
	if !ok || topK < 0 {
		respondWithError(c, http.StatusBadRequest, "top_k must be a non-negative integer")
		return
	}
	temperature := gen.Temperature
	if raw, present := c.GetQuery("temperature"); present {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
			respondWithError(c, http.StatusBadRequest, "temperature must be a finite number")
			return
		}
		temperature = t
	}
	opts := []markov.GenerateOption{markov.WithTemperature(temperature), markov.WithTopK(topK)}

	var names []string
	var err error
	if gen.NovelOnly && s.index != nil {
		names, err = corpus.GenerateNovel(s.chain, s.index, count, length, gen.MaxAttempts, opts...)
	} else {
		names, err = s.chain.GenerateN(count, length, opts...)
	}
	if err != nil {
		if errors.Is(err, markov.ErrUntrained) {
			respondWithError(c, http.StatusConflict, "Generator has not been trained")
			return
		}
		s.logger.Error("Failed to generate names", "request_id", c.GetString(keyRequestID), "error", err)
		respondWithError(c, http.StatusInternalServerError, "Generation failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	respond(c, http.StatusOK, GenerateResponse{Names: names})
}

// NamesResponse lists known corpus entries.
type NamesResponse struct {
	Prefix string   `json:"prefix"`
	Names  []string `json:"names"`
}

// handleNames lists the known corpus entries starting with the prefix query
// parameter, or every entry when it is absent.
func (s *Server) handleNames(c *gin.Context) {
	if s.index == nil {
		respondWithError(c, http.StatusNotFound, "No corpus index available")
		return
	}
	prefix := c.Query("prefix")
	names := s.index.WithPrefix(prefix)
	if names == nil {
		names = []string{}
	}
	respond(c, http.StatusOK, NamesResponse{Prefix: prefix, Names: names})
}

// handleStats returns statistics for the transition table.
func (s *Server) handleStats(c *gin.Context) {
	respond(c, http.StatusOK, s.statsPayload())
}

// handleHealth reports liveness and whether the chain has been trained.
func (s *Server) handleHealth(c *gin.Context) {
	respond(c, http.StatusOK, HealthResponse{Status: "ok", Trained: s.chain.Stats().Windows > 0})
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw, present := c.GetQuery(key)
	if !present {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
