package proposal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saulo-duarte/proposals-lambda/internal/config"
	"github.com/saulo-duarte/proposals-lambda/internal/metrics"
)

type Handler struct {
	service ProposalService
	metrics *metrics.Recorder
}

func NewHandler(service ProposalService, recorder *metrics.Recorder) *Handler {
	return &Handler{service: service, metrics: recorder}
}

var errInvalidBody = errors.New("invalid request body")

type failure struct {
	status  int
	message string
	outcome string
}

func classify(err error) failure {
	switch {
	case errors.Is(err, errInvalidBody):
		return failure{http.StatusBadRequest, "Invalid request body", "invalid_body"}
	case errors.Is(err, ErrMissingFields):
		return failure{http.StatusBadRequest, "All fields are required", "missing_fields"}
	case errors.Is(err, ErrDuplicateTitle):
		return failure{http.StatusConflict, "Duplicate proposal title", "duplicate_title"}
	case errors.Is(err, ErrProposalNotFound):
		return failure{http.StatusBadRequest, "Proposal not found", "not_found"}
	case errors.Is(err, ErrInvalidProposalData):
		return failure{http.StatusBadRequest, "Invalid proposal data received", "invalid_data"}
	case errors.Is(err, ErrNoProposalsFound):
		return failure{http.StatusBadRequest, "No proposals found", "empty"}
	case errors.Is(err, ErrUnresolvedUser):
		return failure{http.StatusInternalServerError, "Proposal user could not be resolved", "unresolved_user"}
	default:
		return failure{http.StatusInternalServerError, "Internal server error", "error"}
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, start time.Time, err error) {
	f := classify(err)
	if op == "delete" && errors.Is(err, ErrMissingFields) {
		f.message = "Proposal ID required"
	}
	if f.status >= http.StatusInternalServerError {
		config.WithContext(r.Context()).WithError(err).Errorf("Proposal %s failed", op)
	}
	h.metrics.Observe(op, f.outcome, start)
	config.Message(w, f.status, f.message)
}

func decode(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// List godoc
// @Summary      List proposals
// @Description  Every proposal in ticket order, each with its owner's username.
// @Tags         proposals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ProposalResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /proposals [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	proposals, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "list", start, err)
		return
	}

	h.metrics.Observe("list", "success", start)
	config.JSON(w, http.StatusOK, proposals)
}

// Create godoc
// @Summary      Create a proposal
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        proposal  body      CreateProposalDTO  true  "New proposal"
// @Success      201       {object}  map[string]string
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /proposals [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var dto CreateProposalDTO
	if err := decode(r, &dto); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid create proposal body")
		h.fail(w, r, "create", start, err)
		return
	}

	if _, err := h.service.Create(r.Context(), dto); err != nil {
		h.fail(w, r, "create", start, err)
		return
	}

	h.metrics.Observe("create", "success", start)
	config.Message(w, http.StatusCreated, "New proposal created")
}

// Update answers success with a bare JSON string, unlike the error envelope.
// @Summary      Replace a proposal
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        proposal  body      UpdateProposalDTO  true  "Full proposal"
// @Success      200       {string}  string  "'<title>' updated"
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /proposals [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var dto UpdateProposalDTO
	if err := decode(r, &dto); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid update proposal body")
		h.fail(w, r, "update", start, err)
		return
	}

	updated, err := h.service.Update(r.Context(), dto)
	if err != nil {
		h.fail(w, r, "update", start, err)
		return
	}

	h.metrics.Observe("update", "success", start)
	config.JSON(w, http.StatusOK, fmt.Sprintf("'%s' updated", updated.Title))
}

// Delete godoc
// @Summary      Delete a proposal
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        proposal  body      DeleteProposalDTO  true  "Proposal id"
// @Success      200       {string}  string  "Proposal '<title>' with ID <id> deleted"
// @Failure      400       {object}  map[string]string
// @Router       /proposals [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var dto DeleteProposalDTO
	if err := decode(r, &dto); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid delete proposal body")
		h.fail(w, r, "delete", start, err)
		return
	}

	deleted, err := h.service.Delete(r.Context(), dto)
	if err != nil {
		h.fail(w, r, "delete", start, err)
		return
	}

	h.metrics.Observe("delete", "success", start)
	config.JSON(w, http.StatusOK, fmt.Sprintf("Proposal '%s' with ID %s deleted", deleted.Title, deleted.ID))
}
