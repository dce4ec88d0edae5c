package httptransport

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/common/validation"
	"visitor-registration/internal/models"
	"visitor-registration/internal/session"
	verifyemployee "visitor-registration/internal/steps/verify-employee"
	"visitor-registration/internal/wizard"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// stepRoutes is where a guard redirect points the client.
var stepRoutes = map[models.Step]string{
	models.StepIdentity:          apiPrefix + "/wizard",
	models.StepCategorySelect:    apiPrefix + "/categories",
	models.StepVisitorTypeSelect: apiPrefix + "/visitor-types",
	models.StepFormFill:          apiPrefix + "/form",
	models.StepPassIssued:        apiPrefix + "/pass",
}

type redirectBody struct {
	Step       models.Step `json:"step"`
	Redirected bool        `json:"redirected"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.Warn("Health check failed", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard.State(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard.Restart(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var input verifyemployee.Input
	if err := decodeBody(r, verifyemployee.GetInputSchema(), &input); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.Verify(r.Context(), h.scope(r), &input)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.wizard.Categories(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusOK, map[string]interface{}{"categories": categories}, err)
}

func (h *Handler) handleChooseCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
	}
	if err := decodeBody(r, categorySchema(), &body); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.ChooseCategory(r.Context(), h.scope(r), body.Category)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleVisitorTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.wizard.VisitorTypes(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusOK, map[string]interface{}{"visitorTypes": types}, err)
}

func (h *Handler) handleChooseVisitorType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VisitorType string `json:"visitorType"`
	}
	if err := decodeBody(r, visitorTypeSchema(), &body); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.ChooseVisitorType(r.Context(), h.scope(r), body.VisitorType)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard.Form(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleUpdateFields(w http.ResponseWriter, r *http.Request) {
	fields := map[string]string{}
	if err := decodeBody(r, formFieldsSchema(), &fields); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.UpdateFields(r.Context(), h.scope(r), fields)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleAddVisitor(w http.ResponseWriter, r *http.Request) {
	var record models.VisitorRecord
	if err := decodeBody(r, visitorSchema(), &record); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.AddVisitor(r.Context(), h.scope(r), record)
	h.respond(w, r, http.StatusCreated, view, err)
}

func (h *Handler) handleUpdateVisitor(w http.ResponseWriter, r *http.Request) {
	index, err := visitorIndex(r)
	if err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	var record models.VisitorRecord
	if err := decodeBody(r, visitorSchema(), &record); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.UpdateVisitor(r.Context(), h.scope(r), index, record)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleRemoveVisitor(w http.ResponseWriter, r *http.Request) {
	index, err := visitorIndex(r)
	if err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.RemoveVisitor(r.Context(), h.scope(r), index)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleAttachDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocumentRef string `json:"documentRef"`
	}
	if err := decodeBody(r, documentSchema(), &body); err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	view, err := h.wizard.AttachDocument(r.Context(), h.scope(r), body.DocumentRef)
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard.Submit(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusCreated, view, err)
}

func (h *Handler) handlePass(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizard.Pass(r.Context(), h.scope(r))
	h.respond(w, r, http.StatusOK, view, err)
}

func (h *Handler) scope(r *http.Request) *session.Scope {
	return h.wizard.Scope(SessionID(r.Context()))
}

// respond writes body on success, a 303 on a guard redirect and the error
// envelope otherwise.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body interface{}, err error) {
	if err == nil {
		writeJSON(w, status, body)
		return
	}

	var redirect *wizard.Redirect
	if stderrors.As(err, &redirect) {
		w.Header().Set("Location", stepRoutes[redirect.Step])
		writeJSON(w, http.StatusSeeOther, redirectBody{Step: redirect.Step, Redirected: true})
		return
	}

	h.errors.HandleRequestError(w, r, err)
}

// decodeBody checks the JSON body against schema and decodes it into out.
func decodeBody(r *http.Request, schema validation.JSONSchema, out interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.NewValidationFailedError("unreadable request body")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return errors.NewValidationFailedError("request body must be a JSON object")
	}
	if result := validation.ValidateInput(doc, schema); !result.Valid {
		return errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewValidationFailedError(err.Error())
	}
	return nil
}

func visitorIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, errors.NewValidationFailedError("visitor index must be an integer")
	}
	return index, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
