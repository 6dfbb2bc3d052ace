// Package httpapi is the HTTP transport layer: a chi router delegating to
// the user and civic services, keeping the public JSON contracts stable.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/logging"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/metrics"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/services"
)

// Handler wires the public endpoints to the services.
type Handler struct {
	users   *services.UserService
	civic   *services.CivicService
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewHandler(users *services.UserService, civic *services.CivicService, logger logging.Logger, m *metrics.Metrics) *Handler {
	return &Handler{users: users, civic: civic, logger: logger, metrics: m}
}

// NewRouter mounts all endpoints with request-ID and metrics middleware.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.observe)

	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Delete("/auth/delete_user", h.handleDeleteUser)

	r.Post("/utente/profilo", h.handleProfile)
	r.Put("/utente/modifica_profilo", h.handleModifyProfile)

	r.Post("/cittadino/dati", h.handleCivicData)
	r.Post("/cittadino/inserisci_dati", h.handleInsertCivicData)
	r.Post("/cittadino/inserisci_campo", h.handleInsertCivicField)
	r.Put("/cittadino/modifica_dati", h.handleModifyCivicData)
	r.Put("/cittadino/modifica_campo", h.handleModifyCivicField)
	r.Delete("/cittadino/cancella_campo", h.handleClearCivicField)

	r.Get("/ping", h.handlePing)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	user := &models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Password:     req.Password,
		FiscalCode:   req.FiscalCode,
		IDCardNumber: req.IDCardNumber,
	}
	if err := h.users.Register(r.Context(), user); err != nil {
		h.logger.Warn(r.Context(), "registration failed", "email", req.Email, "error", err)
		writeError(w, err, "Utente già registrato")
		return
	}
	h.metrics.IncrementUsersRegistered()
	success(w, "Registrazione completata")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.users.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err, "Credenziali non valide")
		return
	}
	success(w, "Login effettuato")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.users.Logout(r.Context(), req.Email); err != nil {
		writeError(w, err, "Utente non trovato")
		return
	}
	success(w, fmt.Sprintf("Logout effettuato per %s", req.Email))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.users.DeleteAccount(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err, "Utente non trovato o credenziali errate")
		return
	}
	success(w, fmt.Sprintf("Utente %s eliminato correttamente", req.Email))
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.users.Profile(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, "Credenziali non valide")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":           u.Name,
		"surname":        u.Surname,
		"email":          u.Email,
		"fiscal_code":    u.FiscalCode,
		"id_card_number": u.IDCardNumber,
	})
}

func (h *Handler) handleModifyProfile(w http.ResponseWriter, r *http.Request) {
	var req modifyProfileRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.users.UpdateProfileField(r.Context(), req.Email, req.Password, req.Field, req.NewValue); err != nil {
		writeError(w, err, "Utente non trovato o credenziali errate")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"field":     req.Field,
		"new_value": req.NewValue,
	})
}

func (h *Handler) handleCivicData(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	rec, err := h.civic.Fetch(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, "Dati utente non trovati")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"subscription_code": rec.SubscriptionCode,
		"pod_code":          rec.PODCode,
		"driver_license":    rec.DriverLicense,
	})
}

func (h *Handler) handleInsertCivicData(w http.ResponseWriter, r *http.Request) {
	var req civicRecordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.civic.InsertRecord(r.Context(), civicRecord(&req)); err != nil {
		writeError(w, err, "Dati già esistenti per questo utente")
		return
	}
	h.metrics.IncrementRecordsWritten()
	success(w, "Dati inseriti correttamente")
}

func (h *Handler) handleModifyCivicData(w http.ResponseWriter, r *http.Request) {
	var req civicRecordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.civic.UpsertRecord(r.Context(), civicRecord(&req)); err != nil {
		writeError(w, err, "Dati utente non trovati")
		return
	}
	h.metrics.IncrementRecordsWritten()
	success(w, "Dati aggiornati correttamente")
}

func (h *Handler) handleInsertCivicField(w http.ResponseWriter, r *http.Request) {
	var req civicFieldRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.civic.InsertField(r.Context(), req.Email, req.Field, req.NewValue); err != nil {
		writeError(w, err, "Campo già presente o non valido")
		return
	}
	h.metrics.IncrementRecordsWritten()
	success(w, "Campo inserito correttamente")
}

func (h *Handler) handleModifyCivicField(w http.ResponseWriter, r *http.Request) {
	var req civicFieldRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.civic.ModifyField(r.Context(), req.Email, req.Field, req.NewValue); err != nil {
		writeError(w, err, "Dati utente non trovati")
		return
	}
	h.metrics.IncrementRecordsWritten()
	success(w, "Campo aggiornato correttamente")
}

func (h *Handler) handleClearCivicField(w http.ResponseWriter, r *http.Request) {
	var req clearFieldRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.civic.ClearField(r.Context(), req.Email, req.Field); err != nil {
		writeError(w, err, "Campo non presente o già vuoto")
		return
	}
	h.metrics.IncrementRecordsWritten()
	success(w, "Campo cancellato correttamente")
}

func civicRecord(req *civicRecordRequest) *models.CivicRecord {
	return &models.CivicRecord{
		Email:            req.Email,
		SubscriptionCode: req.SubscriptionCode,
		PODCode:          req.PODCode,
		DriverLicense:    req.DriverLicense,
	}
}
