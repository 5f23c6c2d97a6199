package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roamstay/walletledger/internal/adapter/http/dto"
	"github.com/roamstay/walletledger/internal/infrastructure/metrics"
	"github.com/roamstay/walletledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	ReconcileAll(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
	metrics          *metrics.Metrics
}

// NewReconciliationHandler creates a new ReconciliationHandler. m may
// be nil.
func NewReconciliationHandler(reconciliationUC ReconciliationService, m *metrics.Metrics) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC, metrics: m}
}

// Run reconciles every account against its transaction log.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ReconciliationRuns.Inc()
		h.metrics.ReconciliationDiscrepancies.Add(float64(len(report.Discrepancies)))
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}

// RunForAccount reconciles a single account.
func (h *ReconciliationHandler) RunForAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ReconciliationRuns.Inc()
		if !result.IsReconciled {
			h.metrics.ReconciliationDiscrepancies.Inc()
		}
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationResultFromUseCase(result))
}
