package handlers

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/antimalarial-dosage/catalog"
	"github.com/giygas/antimalarial-dosage/dosage"
	"github.com/giygas/antimalarial-dosage/interfaces"
	"github.com/giygas/antimalarial-dosage/logging"
	"github.com/giygas/antimalarial-dosage/metrics"
	"github.com/giygas/antimalarial-dosage/render"
)

// languageCookieMaxAge keeps the language preference for a year
const languageCookieMaxAge = 365 * 24 * 60 * 60

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.CatalogStore
	validator interfaces.CatalogValidator
	health    interfaces.HealthChecker
	localizer *render.Localizer
	router    chi.Router
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.CatalogStore, validator interfaces.CatalogValidator,
	health interfaces.HealthChecker, localizer *render.Localizer) interfaces.HTTPHandler {
	h := &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		health:    health,
		localizer: localizer,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, h)
	h.router = router

	return h
}

// ServeHTTP routes the request to the matching endpoint
func (h *HTTPHandlerImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// ListProducts returns a summary of every catalog product
func (h *HTTPHandlerImpl) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.GetCatalog().Products()

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, Summarize(p))
	}

	RespondWithJSON(w, http.StatusOK, summaries)
}

// GetProduct returns the full document of one product
func (h *HTTPHandlerImpl) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, status, err := h.lookupProduct(r)
	if err != nil {
		RespondWithError(w, status, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, catalog.ToDocument(p))
}

// ComputeDosage returns the JSON plan for ?weight= (and ?route=, ?clamp=)
func (h *HTTPHandlerImpl) ComputeDosage(w http.ResponseWriter, r *http.Request) {
	lang := h.localizer.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))

	p, plan, err := h.compute(r)
	if err != nil {
		h.respondWithDosageError(w, p, err, lang)
		return
	}

	RespondWithJSON(w, http.StatusOK, plan)
}

// ViewDosage renders the localized HTML page of a plan. The language comes
// from ?lang=, then the preference cookie, then Accept-Language.
func (h *HTTPHandlerImpl) ViewDosage(w http.ResponseWriter, r *http.Request) {
	lang := h.resolveLanguage(w, r)

	p, plan, err := h.compute(r)

	var view *render.View
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		view = h.localizer.ProblemView(p, err, lang)
	} else {
		view = h.localizer.PlanView(p, plan, lang)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", lang)
	w.Header().Set("Vary", "Accept-Language, Cookie")
	w.WriteHeader(status)

	if err := render.HTML(w, view); err != nil {
		logging.Error("Failed to render dosage view", "error", err, "product", view.ProductID)
	}
}

// HealthCheck returns service health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, data, httpStatus := h.health.HealthCheck()

	response := HealthResponse{
		Status: status,
		Data:   data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	}

	if start := h.store.GetServerStartTime(); !start.IsZero() {
		response.Uptime = formatUptimeHuman(time.Since(start))
	}

	RespondWithJSON(w, httpStatus, response)
}

// lookupProduct resolves the {id} URL parameter against the current catalog
func (h *HTTPHandlerImpl) lookupProduct(r *http.Request) (*catalog.Product, int, error) {
	raw := chi.URLParam(r, "id")

	id, err := h.validator.ValidateProductID(raw)
	if err != nil {
		logging.Warn("Unusual user input", "product", raw)
		return nil, http.StatusNotFound, &dosage.UnknownProductError{ID: catalog.ProductID(raw)}
	}

	p, err := h.store.GetCatalog().Get(id)
	if err != nil {
		return nil, http.StatusNotFound, &dosage.UnknownProductError{ID: id}
	}

	return p, http.StatusOK, nil
}

// compute parses the query and runs the engine against the current snapshot.
// The product is returned whenever it was found, even on error.
func (h *HTTPHandlerImpl) compute(r *http.Request) (*catalog.Product, *dosage.Plan, error) {
	raw := chi.URLParam(r, "id")

	id, err := h.validator.ValidateProductID(raw)
	if err != nil {
		logging.Warn("Unusual user input", "product", raw)
		metrics.RecordComputation(raw, metrics.OutcomeUnknown)
		return nil, nil, &dosage.UnknownProductError{ID: catalog.ProductID(raw)}
	}

	c := h.store.GetCatalog()
	p, _ := c.Get(id)

	// only catalog ids become label values
	label := metrics.UnknownProduct
	if p != nil {
		label = string(id)
	}

	query := r.URL.Query()

	weight, err := dosage.ParseWeight(query.Get("weight"))
	if err != nil {
		metrics.RecordComputation(label, metrics.OutcomeInvalidInput)
		return p, nil, err
	}

	route, err := dosage.ParseRoute(query.Get("route"))
	if err != nil {
		metrics.RecordComputation(label, metrics.OutcomeInvalidInput)
		return p, nil, err
	}

	if clamp, _ := strconv.ParseBool(query.Get("clamp")); clamp && p != nil {
		weight = render.ClampWeight(weight, p.Scheme)
	}

	plan, err := dosage.NewEngine(c).Compute(weight, id, route)
	metrics.RecordComputation(label, outcomeFor(err))
	if err != nil {
		return p, nil, err
	}

	return p, plan, nil
}

// respondWithDosageError writes the JSON error for a failed computation
func (h *HTTPHandlerImpl) respondWithDosageError(w http.ResponseWriter, p *catalog.Product, err error, lang string) {
	code := statusFor(err)
	problem := h.localizer.Problem(err, lang)

	response := ErrorResponse{
		Error:   http.StatusText(code),
		Message: problem.Message,
		Code:    code,
	}

	var outOfRange *dosage.OutOfRangeError
	if errors.As(err, &outOfRange) {
		response.MinWeight = &outOfRange.Min
		response.MaxWeight = &outOfRange.Max
	}

	if code == http.StatusInternalServerError {
		logging.Error("Dosage computation failed", "error", err)
	}

	RespondWithJSON(w, code, response)
}

// resolveLanguage picks the display language and remembers an explicit,
// supported ?lang= choice in the preference cookie
func (h *HTTPHandlerImpl) resolveLanguage(w http.ResponseWriter, r *http.Request) string {
	var explicit, saved string

	if raw := r.URL.Query().Get("lang"); raw != "" {
		lang, err := h.validator.ValidateLanguage(raw)
		if err != nil {
			logging.Debug("Ignoring unsupported language", "lang", raw)
		} else {
			explicit = lang
			http.SetCookie(w, &http.Cookie{
				Name:     LanguageCookie,
				Value:    lang,
				Path:     "/",
				MaxAge:   languageCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
	}

	if cookie, err := r.Cookie(LanguageCookie); err == nil {
		saved = cookie.Value
	}

	return h.localizer.Match(explicit, saved, r.Header.Get("Accept-Language"))
}

// statusFor maps a dosage error to its HTTP status
func statusFor(err error) int {
	var invalid *dosage.InvalidInputError
	var outOfRange *dosage.OutOfRangeError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, dosage.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.As(err, &outOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// outcomeFor maps an engine result to its metrics label
func outcomeFor(err error) string {
	var invalid *dosage.InvalidInputError
	var outOfRange *dosage.OutOfRangeError

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &invalid):
		return metrics.OutcomeInvalidInput
	case errors.Is(err, dosage.ErrUnknownProduct):
		return metrics.OutcomeUnknown
	case errors.As(err, &outOfRange):
		return metrics.OutcomeOutOfRange
	default:
		return metrics.OutcomeFailure
	}
}
