package api

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/engine"
)

// idempotencyTTL bounds how long a cached report answers a repeated
// Idempotency-Key before the client is expected to re-submit.
const idempotencyTTL = 10 * time.Minute

var requiredColumns = []string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}

// Handler holds dependencies for API handlers.
type Handler struct {
	cache   domain.Cache
	bus     domain.EventBus
	engine  *engine.Engine
	version string
}

// NewHandler creates a new API handler.
func NewHandler(cache domain.Cache, bus domain.EventBus, eng *engine.Engine, version string) *Handler {
	return &Handler{
		cache:   cache,
		bus:     bus,
		engine:  eng,
		version: version,
	}
}

// AnalyzeCSV handles POST /analyze: a multipart CSV upload under the
// "file" field, mirroring the original FastAPI endpoint.
func (h *Handler) AnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field is required"})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		return
	}

	table, err := parseCSV(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.runAnalysis(w, r, body, table)
}

type analyzeJSONRequest struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// AnalyzeJSON handles POST /analyze/json: the same pipeline fed by a
// decoded JSON body instead of a CSV upload.
func (h *Handler) AnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}

	var req analyzeJSONRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON request body"})
		return
	}

	table := domain.TransactionTable{Rows: req.Transactions}
	h.runAnalysis(w, r, body, table)
}

// runAnalysis is shared by both entry points: check the idempotency
// cache, run the engine, store and return the report, then fire the
// completion events.
func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request, body []byte, table domain.TransactionTable) {
	ctx := r.Context()

	idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
	var cacheKey string
	if idempotencyKey != "" && h.cache != nil {
		cacheKey = fmt.Sprintf("idempotency-key:%s:%s", idempotencyKey, contentHash(body))
		if cached, err := h.cache.Get(ctx, cacheKey); err != nil {
			slog.ErrorContext(ctx, "idempotency cache get failed", "error", err)
		} else if cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	report, err := h.engine.Analyze(ctx, table)
	if err != nil {
		var analysisErr *domain.AnalysisError
		if errors.As(err, &analysisErr) && analysisErr.Kind == domain.KindInvalidInput {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": analysisErr.Message})
			return
		}
		slog.ErrorContext(ctx, "analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analysis failed"})
		return
	}

	respBody, err := json.Marshal(report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal report", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to marshal report"})
		return
	}

	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, respBody, idempotencyTTL); err != nil {
			slog.ErrorContext(ctx, "idempotency cache set failed", "error", err)
		}
	}

	h.publishCompletion(ctx, report)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(respBody)
}

// publishCompletion fires one analysis.completed event and one
// fraud_ring.detected event per ring. It never blocks or fails the
// response; publish errors are logged only.
func (h *Handler) publishCompletion(ctx context.Context, report *domain.Report) {
	if h.bus == nil {
		return
	}

	payload, err := json.Marshal(report.Summary)
	if err == nil {
		if err := h.bus.Publish(ctx, domain.TopicAnalysisCompleted, payload); err != nil {
			slog.ErrorContext(ctx, "failed to publish completion event", "error", err)
		}
	} else {
		slog.ErrorContext(ctx, "failed to marshal completion event", "error", err)
	}

	for _, ring := range report.FraudRings {
		ringPayload, err := json.Marshal(ring)
		if err != nil {
			slog.ErrorContext(ctx, "failed to marshal fraud ring event", "ring_id", ring.RingID, "error", err)
			continue
		}
		if err := h.bus.Publish(ctx, domain.TopicFraudRingDetected, ringPayload); err != nil {
			slog.ErrorContext(ctx, "failed to publish fraud ring event", "ring_id", ring.RingID, "error", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func contentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// parseCSV validates the required header columns and decodes rows in
// file order. A missing column is a 400 listing every column absent; a
// row with an unparseable amount is also rejected. A row with an
// unparseable timestamp is not rejected: it becomes time.Time{}, per the
// graph builder's documented handling of missing/unparseable timestamps.
func parseCSV(body []byte) (domain.TransactionTable, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	header, err := reader.Read()
	if err != nil {
		return domain.TransactionTable{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return domain.TransactionTable{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []domain.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.TransactionTable{}, fmt.Errorf("failed to read CSV row: %w", err)
		}

		amount, err := strconv.ParseFloat(record[colIndex["amount"]], 64)
		if err != nil {
			return domain.TransactionTable{}, fmt.Errorf("row with transaction_id %q has a malformed amount", record[colIndex["transaction_id"]])
		}

		ts, err := time.Parse(time.RFC3339, record[colIndex["timestamp"]])
		if err != nil {
			ts = time.Time{}
		}

		rows = append(rows, domain.Transaction{
			TransactionID: record[colIndex["transaction_id"]],
			SenderID:      record[colIndex["sender_id"]],
			ReceiverID:    record[colIndex["receiver_id"]],
			Amount:        amount,
			Timestamp:     ts,
		})
	}

	return domain.TransactionTable{Rows: rows}, nil
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}
	if h.bus != nil {
		if err := h.bus.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}
