package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/gasfinder/gasfinder/internal/auth"
	"github.com/gasfinder/gasfinder/internal/chat"
	"github.com/gasfinder/gasfinder/internal/location"
	"github.com/gasfinder/gasfinder/internal/session"
	"github.com/gasfinder/gasfinder/internal/stations"
	"github.com/gasfinder/gasfinder/internal/stations/gasapi"
	"github.com/gasfinder/gasfinder/internal/viewstate"
)

// Seller registration messages shown inline in the modal.
const (
	sellerNetworkErrMsg = "A network error occurred. Please try again later."
	sellerGenericErrMsg = "Failed to register. Please try again."
)

// BreakerStatus reports a circuit breaker's current state.
type BreakerStatus interface {
	State() gobreaker.State
}

// Handler serves the page and its form actions. All state lives in the
// per-visitor session; handlers mutate it and redirect back to the page.
type Handler struct {
	sessions   *session.Store
	stations   *stations.Service
	auth       auth.Provider
	resolver   location.Resolver
	renderer   *Renderer
	geoBreaker BreakerStatus
	logger     zerolog.Logger
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Sessions *session.Store
	Stations *stations.Service
	Auth     auth.Provider
	Resolver location.Resolver
	Renderer *Renderer

	// GeoBreaker, when set, surfaces the geolocation circuit breaker in the
	// health payload.
	GeoBreaker BreakerStatus

	Logger zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		sessions:   cfg.Sessions,
		stations:   cfg.Stations,
		auth:       cfg.Auth,
		resolver:   cfg.Resolver,
		renderer:   cfg.Renderer,
		geoBreaker: cfg.GeoBreaker,
		logger:     cfg.Logger,
	}
}

// session returns the visitor's session, creating one and setting the
// cookie when none exists yet.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if sess, ok := h.sessions.Get(cookie.Value); ok {
			return sess
		}
	}

	sess := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// captureLocation resolves the visitor's position from their IP on the first
// page view. Failure is not an error state: the session just proceeds with
// the unfiltered list.
func (h *Handler) captureLocation(r *http.Request, coord *viewstate.Coordinator) {
	if coord.LocationAttempted() {
		return
	}

	ip := clientIP(r)
	pt, err := h.resolver.Resolve(r.Context(), ip)
	if err != nil {
		if !errors.Is(err, location.ErrUnresolvable) {
			h.logger.Warn().Err(err).Str("ip", ip).Msg("ip geolocation failed")
		}
		coord.SetLocation(nil)
		return
	}
	coord.SetLocation(pt)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Index handles GET /. The initial visit resolves the visitor's location and
// runs the load-time fetch; a ?query parameter runs a search instead.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	coord := sess.Coordinator

	h.captureLocation(r, coord)

	if r.URL.Query().Has("query") {
		coord.SubmitSearch(r.Context(), r.URL.Query().Get("query"))
	} else if !coord.HasFetched() {
		coord.Refresh(r.Context(), coord.InitialStrategy())
	}

	h.render(w, sess, PageData{Flash: coord.TakeFlash()})
}

// Retry handles POST /retry, re-issuing the last fetch after a failure.
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Coordinator.Retry(r.Context())
	redirectHome(w, r)
}

// JoinChat handles POST /stations/{id}/chat. Inactive or unknown stations
// are ignored; unauthenticated visitors get the sign-up modal instead.
func (h *Handler) JoinChat(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		redirectHome(w, r)
		return
	}

	station, ok := sess.Coordinator.StationByID(id)
	if !ok || !station.IsActive {
		redirectHome(w, r)
		return
	}

	sess.Coordinator.JoinChat(station)
	redirectHome(w, r)
}

// SignUp handles POST /signup from the sign-up modal.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	if err := r.ParseForm(); err != nil {
		redirectHome(w, r)
		return
	}

	creds := auth.Credentials{
		Username: r.PostFormValue("username"),
		Phone:    r.PostFormValue("phone"),
	}

	authSess, err := h.auth.SignUp(r.Context(), creds)
	if err != nil {
		var authErr *auth.Error
		msg := "Sign up failed. Please try again."
		if errors.As(err, &authErr) {
			msg = authErr.Message
		}
		h.render(w, sess, PageData{SignUpError: msg})
		return
	}

	// A sign-up only counts when the modal flow initiated it; a stray POST
	// must not leave the session half-authenticated.
	if sess.Coordinator.CompleteSignUp() {
		sess.SetAuth(authSess)
	}
	redirectHome(w, r)
}

// CloseModal handles POST /modal/close for every modal variant.
func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Coordinator.CloseModal()
	redirectHome(w, r)
}

// OpenSeller handles POST /seller/open from the navbar.
func (h *Handler) OpenSeller(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Coordinator.OpenSeller()
	redirectHome(w, r)
}

// RegisterSeller handles POST /seller. Validation and backend errors render
// inline in the modal with the submitted values intact.
func (h *Handler) RegisterSeller(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	if err := r.ParseForm(); err != nil {
		redirectHome(w, r)
		return
	}

	form := SellerForm{
		OwnerName:   strings.TrimSpace(r.PostFormValue("ownerName")),
		StationName: strings.TrimSpace(r.PostFormValue("stationName")),
		Address:     strings.TrimSpace(r.PostFormValue("address")),
		Phone:       strings.TrimSpace(r.PostFormValue("phone")),
		Latitude:    strings.TrimSpace(r.PostFormValue("latitude")),
		Longitude:   strings.TrimSpace(r.PostFormValue("longitude")),
		PricePerKg:  strings.TrimSpace(r.PostFormValue("pricePerKg")),
	}

	input, errMsg := form.validate()
	if errMsg != "" {
		h.render(w, sess, PageData{SellerError: errMsg, SellerForm: form})
		return
	}

	if _, err := h.stations.Register(r.Context(), input); err != nil {
		h.render(w, sess, PageData{SellerError: sellerErrorMessage(err), SellerForm: form})
		return
	}

	sess.Coordinator.SellerRegistered()
	redirectHome(w, r)
}

// validate checks the seller form and converts it into a registration input.
func (f SellerForm) validate() (stations.RegisterStationInput, string) {
	var in stations.RegisterStationInput

	if f.OwnerName == "" || f.StationName == "" || f.Address == "" ||
		f.Phone == "" || f.Latitude == "" || f.Longitude == "" || f.PricePerKg == "" {
		return in, "All fields are required."
	}

	lat, err := strconv.ParseFloat(f.Latitude, 64)
	if err != nil {
		return in, "Latitude must be a number."
	}
	lon, err := strconv.ParseFloat(f.Longitude, 64)
	if err != nil {
		return in, "Longitude must be a number."
	}
	price, err := strconv.ParseFloat(f.PricePerKg, 64)
	if err != nil {
		return in, "Price per kg must be a number."
	}

	in = stations.RegisterStationInput{
		OwnerName:   f.OwnerName,
		StationName: f.StationName,
		Address:     f.Address,
		Phone:       f.Phone,
		Latitude:    lat,
		Longitude:   lon,
		PriceKg:     price,
	}
	return in, ""
}

// sellerErrorMessage maps a registration failure to the inline modal text.
// Backend rejections surface the backend's own message when it has one.
func sellerErrorMessage(err error) string {
	var netErr *gasapi.NetworkError
	if errors.As(err, &netErr) {
		return sellerNetworkErrMsg
	}

	var statusErr *gasapi.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return sellerGenericErrMsg
}

// Healthz handles GET /healthz, reporting live session count and the
// geolocation breaker state.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Count(),
	}
	if h.geoBreaker != nil {
		payload["geoip_breaker"] = h.geoBreaker.State().String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

// render executes the page for the session's current view state.
func (h *Handler) render(w http.ResponseWriter, sess *session.Session, data PageData) {
	data.View = sess.Coordinator.Snapshot()

	if data.View.Modal.Kind == viewstate.ModalChat && data.View.Modal.Station != nil {
		transcript := chat.TranscriptFor(*data.View.Modal.Station)
		data.Transcript = &transcript
	}

	if err := h.renderer.Index(w, http.StatusOK, data); err != nil {
		h.logger.Error().Err(err).Msg("page render failed")
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
