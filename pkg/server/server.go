package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/logparts/partserve/pkg/catalog"
	"github.com/logparts/partserve/pkg/config"
	"github.com/logparts/partserve/pkg/match"
	"github.com/logparts/partserve/pkg/suggest"
)

// Server handles the IPC for part lookups and suggestions.
type Server struct {
	parts      []catalog.Part
	index      *match.CodeIndex
	aggregator *suggest.Aggregator
	cfg        *config.Config

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder

	lastSuggestSeq uint64
}

// NewServer creates a lookup server using stdin/stdout for IPC.
func NewServer(parts []catalog.Part, index *match.CodeIndex, aggregator *suggest.Aggregator, cfg *config.Config) *Server {
	return NewServerIO(parts, index, aggregator, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a lookup server over explicit streams.
func NewServerIO(parts []catalog.Part, index *match.CodeIndex, aggregator *suggest.Aggregator, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		parts:      parts,
		index:      index,
		aggregator: aggregator,
		cfg:        cfg,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil on clean EOF.
func (s *Server) Start() error {
	log.Debug("Starting lookup server.")

	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request.
func (s *Server) handleRequest(request Request) {
	switch request.Command {
	case "query":
		s.handleQuery(request)
	case "suggest":
		s.handleSuggest(request)
	case "save":
		s.handleSave(request)
	case "stats":
		s.handleStats(request)
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

// handleQuery ranks the full snapshot, then slices the requested page.
func (s *Server) handleQuery(request Request) {
	query := request.Query
	if query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Query is empty in request")
		return
	}
	if len(query) < s.cfg.Server.MinQuery {
		s.sendError(request.ID, fmt.Sprintf("Query must be at least %d characters", s.cfg.Server.MinQuery), 400)
		return
	}
	if len(query) > s.cfg.Server.MaxQuery {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Server.MaxQuery), 400)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.cfg.CLI.DefaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	queryType := match.DetectQueryType(query)
	ranking := match.Rank(s.parts, query)
	page := ranking.Page(request.Offset, limit)
	elapsed := time.Since(start)

	matches := make([]MatchPayload, len(page))
	for i, result := range page {
		matches[i] = MatchPayload{
			ID:      result.Part.ID,
			SKU:     result.Part.SKU,
			Title:   result.Part.Title,
			Score:   result.Score,
			Level:   string(result.Level),
			Type:    string(result.Type),
			Reasons: result.Reasons,
		}
	}

	s.send(QueryResponse{
		ID:      request.ID,
		Matches: matches,
		Stats: StatsPayload{
			Total:  ranking.Stats.Total,
			High:   ranking.Stats.High,
			Medium: ranking.Stats.Medium,
			Low:    ranking.Stats.Low,
		},
		Total:     ranking.Stats.Total,
		QueryType: string(queryType),
		TimeTaken: elapsed.Milliseconds(),
	})
}

// handleSuggest runs the suggestion pipeline unless the request is already
// superseded by a newer sequence number.
func (s *Server) handleSuggest(request Request) {
	if request.Seq != 0 {
		if request.Seq <= s.lastSuggestSeq {
			log.Debugf("Dropping superseded suggest request seq=%d (latest=%d)", request.Seq, s.lastSuggestSeq)
			s.send(SuggestResponse{ID: request.ID, Superseded: true})
			return
		}
		s.lastSuggestSeq = request.Seq
	}

	external := make([]suggest.Entry, 0, len(request.Extern))
	for _, ext := range request.Extern {
		external = append(external, suggest.Entry{
			Text:       ext.Text,
			Type:       suggest.TypePopular,
			Confidence: ext.Confidence,
			Count:      ext.Count,
		})
	}

	start := time.Now()
	entries := s.aggregator.Suggest(request.Query, external)
	elapsed := time.Since(start)

	suggestions := make([]SuggestionPayload, len(entries))
	for i, entry := range entries {
		suggestions[i] = SuggestionPayload{
			Text:       entry.Text,
			Type:       string(entry.Type),
			Confidence: entry.Confidence,
			Count:      entry.Count,
			Distance:   entry.Distance,
		}
	}

	s.send(SuggestResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Milliseconds(),
	})
}

// handleSave records a submitted search into history.
func (s *Server) handleSave(request Request) {
	if request.Query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		return
	}
	if err := s.aggregator.RecordSearch(request.Query); err != nil {
		log.Warnf("Recording search failed: %v", err)
		s.send(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.send(StatusResponse{ID: request.ID, Status: "ok"})
}

// handleStats reports snapshot and history sizes.
func (s *Server) handleStats(request Request) {
	historySize := 0
	if records, err := s.aggregator.History(); err == nil {
		historySize = len(records)
	}
	indexed := 0
	if s.index != nil {
		indexed = s.index.Len()
	}
	s.send(InfoResponse{
		ID:           request.ID,
		Parts:        len(s.parts),
		IndexedCodes: indexed,
		HistorySize:  historySize,
	})
}

// send encodes one response onto the output stream.
func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
