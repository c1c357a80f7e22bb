// Package cli handles cmd line input and ranked lookups for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/logparts/partserve/internal/logger"
	"github.com/logparts/partserve/pkg/catalog"
	"github.com/logparts/partserve/pkg/match"
	"github.com/logparts/partserve/pkg/suggest"
)

// InputHandler processes user queries from stdin, printing ranked catalog
// matches and, when nothing matches, suggestions for what the user may have
// meant.
type InputHandler struct {
	parts       []catalog.Part
	aggregator  *suggest.Aggregator
	limit       int
	showReasons bool
	out         *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(parts []catalog.Part, aggregator *suggest.Aggregator, limit int, showReasons bool) *InputHandler {
	return &InputHandler{
		parts:       parts,
		aggregator:  aggregator,
		limit:       limit,
		showReasons: showReasons,
		out:         logger.NewStdout(""),
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed query to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.out.Print("PartServe CLI")
	reader := bufio.NewReader(os.Stdin)
	h.out.Print("type a part code or description and press Enter (Ctrl+C to exit):")

	for {
		h.out.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// handleInput ranks the snapshot for a single query and prints the results.
func (h *InputHandler) handleInput(query string) {
	queryType := match.DetectQueryType(query)

	start := time.Now()
	ranking := match.Rank(h.parts, query)
	elapsed := time.Since(start)

	if len(ranking.Results) == 0 {
		h.out.Printf("No matches for %q (%s)", query, queryType)
		h.printSuggestions(query)
		return
	}

	h.out.Printf("%d matches for %q (%s) in %v | alto:%d medio:%d baixo:%d",
		ranking.Stats.Total, query, queryType, elapsed,
		ranking.Stats.High, ranking.Stats.Medium, ranking.Stats.Low)

	for i, result := range ranking.Page(0, h.limit) {
		line := fmt.Sprintf("%2d. %-16s %3dpts [%s] (%s) %s",
			i+1, result.Part.SKU, result.Score, result.Level, result.Type, result.Part.Title)
		h.out.Print(line)
		if h.showReasons {
			for _, reason := range result.Reasons {
				h.out.Printf("      - %s", reason)
			}
		}
	}

	if err := h.aggregator.RecordSearch(query); err != nil {
		log.Warnf("Could not record search: %v", err)
	}
}

// printSuggestions shows what the aggregator would offer for the query.
func (h *InputHandler) printSuggestions(query string) {
	entries := h.aggregator.Suggest(query, nil)
	if len(entries) == 0 {
		return
	}
	h.out.Print("did you mean:")
	for _, entry := range entries {
		h.out.Printf("      %-16s (%s, %.2f)", entry.Text, entry.Type, entry.Confidence)
	}
}
