package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dan9191/pocket-property/internal/middleware"
	"github.com/Dan9191/pocket-property/internal/models"
	"github.com/Dan9191/pocket-property/internal/service"
	"github.com/Dan9191/pocket-property/internal/utils"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"sgd":      utils.FormatSGD,
	"sgdCents": utils.FormatSGDCents,
}

type Handler struct {
	svc   *service.Service
	log   *logrus.Logger
	pages map[string]*template.Template
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "resale", "history", "mortgage"} {
		pages[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return &Handler{svc: svc, log: log, pages: pages}
}

type page struct {
	Title  string
	Active string
	Data   interface{}
}

type mortgageForm struct {
	Principal string
	Rate      string
	Term      string
	Error     string
	Quote     *models.MortgageQuote
}

// render executes a page into a buffer first so template errors never
// produce a half-written response
func (h *Handler) render(w http.ResponseWriter, name string, p page) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		h.log.Errorf("Failed to render %s page: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

// Home renders the landing page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home", page{Title: "Home", Active: "home"})
}

// ResaleData renders the search form and current results
func (h *Handler) ResaleData(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.State(middleware.SessionID(r.Context()))
	h.render(w, "resale", page{Title: "HDB Resale Data", Active: "resale", Data: snap})
}

// SubmitSearch runs the submitted search and redirects back to the results
func (h *Handler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.svc.Search(r.Context(), middleware.SessionID(r.Context()), r.PostFormValue("search"))
	http.Redirect(w, r, "/hdb-resale-data", http.StatusSeeOther)
}

// SubmitStreet applies the street filter and redirects back to the results
func (h *Handler) SubmitStreet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	h.svc.SelectStreet(middleware.SessionID(r.Context()), r.PostFormValue("street"))
	http.Redirect(w, r, "/hdb-resale-data", http.StatusSeeOther)
}

// History renders the searches made in this session
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.History(middleware.SessionID(r.Context()))
	h.render(w, "history", page{Title: "HDB Search History", Active: "history", Data: entries})
}

// MortgageCalculator renders the calculator, with a quote when inputs are given
func (h *Handler) MortgageCalculator(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := mortgageForm{
		Principal: q.Get("principal"),
		Rate:      q.Get("rate"),
		Term:      q.Get("term"),
	}
	if form.Principal != "" || form.Rate != "" || form.Term != "" {
		quote, err := h.quote(r)
		if err != nil {
			form.Error = err.Error()
		} else {
			form.Quote = quote
		}
	}
	h.render(w, "mortgage", page{Title: "Mortgage Calculator", Active: "mortgage", Data: form})
}

// APISearch runs a search and returns the session state as JSON
func (h *Handler) APISearch(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Search(r.Context(), middleware.SessionID(r.Context()), r.URL.Query().Get("search"))
	h.writeJSON(w, http.StatusOK, snap)
}

// APIState returns the session state as JSON
func (h *Handler) APIState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.State(middleware.SessionID(r.Context())))
}

// APIStreet sets the street filter and returns the session state as JSON
func (h *Handler) APIStreet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	snap := h.svc.SelectStreet(middleware.SessionID(r.Context()), r.FormValue("street"))
	h.writeJSON(w, http.StatusOK, snap)
}

// APIHistory returns the session's search history as JSON
func (h *Handler) APIHistory(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.History(middleware.SessionID(r.Context())))
}

// APIMortgage returns a mortgage quote as JSON
func (h *Handler) APIMortgage(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quote(r)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMortgageInput) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		http.Error(w, fmt.Sprintf("Failed to compute mortgage: %v", err), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

// Health reports that the service is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) quote(r *http.Request) (*models.MortgageQuote, error) {
	in, err := parseMortgageInputs(r)
	if err != nil {
		return nil, err
	}
	return h.svc.MortgageQuote(in)
}

func parseMortgageInputs(r *http.Request) (models.MortgageInputs, error) {
	q := r.URL.Query()
	principal, err := strconv.ParseFloat(strings.TrimSpace(q.Get("principal")), 64)
	if err != nil {
		return models.MortgageInputs{}, fmt.Errorf("%w: loan amount must be a number", service.ErrInvalidMortgageInput)
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(q.Get("rate")), 64)
	if err != nil {
		return models.MortgageInputs{}, fmt.Errorf("%w: interest rate must be a number", service.ErrInvalidMortgageInput)
	}
	term, err := strconv.Atoi(strings.TrimSpace(q.Get("term")))
	if err != nil {
		return models.MortgageInputs{}, fmt.Errorf("%w: term must be a whole number of years", service.ErrInvalidMortgageInput)
	}
	return models.MortgageInputs{Principal: principal, AnnualRatePercent: rate, TermYears: term}, nil
}
