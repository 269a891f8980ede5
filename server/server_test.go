package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/booking"
	"github.com/jrsteele09/go-cinema-booking/internal/config"
	apperrors "github.com/jrsteele09/go-cinema-booking/internal/errors"
	"github.com/jrsteele09/go-cinema-booking/model"
	"github.com/jrsteele09/go-cinema-booking/server"
	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/stretchr/testify/require"
)

var testShow = model.Show{
	ShowID:               42,
	ShowDate:             "2024-06-01",
	ShowTime:             "18:30:00",
	SeatsRemainingGold:   50,
	SeatsRemainingSilver: 80,
	ClassCostGold:        10,
	ClassCostSilver:      7.5,
	Movie:                &model.Movie{MovieID: 7, Name: "Inception", Genre: "Sci-Fi", Language: "English"},
	Screen:               &model.Screen{ScreenID: 3, Theatre: &model.Theatre{TheatreID: 1, NameOfTheatre: "Odeon"}},
}

var testUser = model.User{
	WebUserID:   5,
	FirstName:   "Jane",
	LastName:    "Doe",
	EmailID:     "jane@example.com",
	PhoneNumber: "0123456789",
	Username:    "jane",
	Role:        model.RoleUser,
}

// harness runs the web server against a fake REST backend.
type harness struct {
	t       *testing.T
	backend *httptest.Server
	api     *http.ServeMux
	app     *httptest.Server
	client  *http.Client
	tokens  *session.InMemoryTokenStore

	mu           sync.Mutex
	token        string
	failBookings bool
	requests     []string
	orders       []backend.BookingRequest
	created      []json.RawMessage
	updates      map[string]json.RawMessage
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("CSRF_KEY", "")

	h := &harness{
		t:       t,
		api:     http.NewServeMux(),
		tokens:  session.NewInMemoryTokenStore(),
		updates: make(map[string]json.RawMessage),
	}
	h.backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.requests = append(h.requests, r.Method+" "+r.URL.Path)
		h.mu.Unlock()
		h.api.ServeHTTP(w, r)
	}))
	t.Cleanup(h.backend.Close)
	h.routeBackend()

	c := config.New()
	api := backend.New(h.backend.URL+"/api", 5*time.Second)
	wizard := booking.NewService(api, booking.NewInMemoryDraftStore(time.Hour))
	srv, err := server.New(c, api, session.NewGate(h.tokens), wizard)
	require.NoError(t, err)

	h.app = httptest.NewServer(srv)
	t.Cleanup(h.app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	h.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return h
}

func (h *harness) routeBackend() {
	h.api.HandleFunc("POST /api/authenticate", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		require.NoError(h.t, json.NewDecoder(r.Body).Decode(&creds))
		h.mu.Lock()
		token := h.token
		h.mu.Unlock()
		if creds.Password != "secret123" || token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	})
	h.api.HandleFunc("GET /api/movies/getAll", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Movie{*testShow.Movie})
	})
	h.api.HandleFunc("GET /api/shows/shows/getByMovieId/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Show{testShow})
	})
	h.api.HandleFunc("GET /api/shows/42", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testShow)
	})
	h.api.HandleFunc("POST /api/bookings", func(w http.ResponseWriter, r *http.Request) {
		var req backend.BookingRequest
		require.NoError(h.t, json.NewDecoder(r.Body).Decode(&req))
		h.mu.Lock()
		fail := h.failBookings
		if !fail {
			h.orders = append(h.orders, req)
		}
		h.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, model.Booking{BookingID: 99, NoOfTickets: req.NoOfTickets, TotalCost: req.TotalCost})
	})
	h.api.HandleFunc("GET /api/bookings/99", func(w http.ResponseWriter, r *http.Request) {
		show := testShow
		writeJSON(w, http.StatusOK, model.Booking{
			BookingID:   99,
			NoOfTickets: 3,
			TotalCost:   30,
			CardNumber:  "4111111111111111",
			NameOnCard:  "Jane Doe",
			User:        &testUser,
			Show:        &show,
		})
	})
	h.api.HandleFunc("GET /api/users/getById/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUser)
	})
	h.api.HandleFunc("GET /api/theatres/getAll", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Theatre{{TheatreID: 1, NameOfTheatre: "Odeon", NoOfScreens: 5, Area: "Leicester Square"}})
	})
	h.api.HandleFunc("POST /api/theatres", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(h.t, err)
		h.mu.Lock()
		h.created = append(h.created, body)
		h.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})
	h.api.HandleFunc("GET /api/tickets/getAll", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(h.t, "10", r.URL.Query().Get("size"))
		writeJSON(w, http.StatusOK, model.Page[model.Ticket]{
			Content:       []model.Ticket{{TicketID: 11, TicketClass: "GOLD", Price: 10}},
			TotalElements: 25,
			Number:        1,
			Size:          10,
		})
	})
	h.api.HandleFunc("DELETE /api/movies/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h.api.HandleFunc("GET /api/movies/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testShow.Movie)
	})
	h.api.HandleFunc("PUT /api/movies/7", h.recordUpdate)
	h.api.HandleFunc("PUT /api/users/update/5", h.recordUpdate)
}

// recordUpdate keeps the PUT body by path and answers without content.
func (h *harness) recordUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(h.t, err)
	h.mu.Lock()
	h.updates[r.URL.Path] = body
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (h *harness) updated(path string) (json.RawMessage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	body, ok := h.updates[path]
	return body, ok
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":       "0123456789",
		"webUserId": 5,
		"role":      role,
		"exp":       exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Get(h.app.URL + path)
	require.NoError(h.t, err)
	return resp, readBody(h.t, resp)
}

func (h *harness) post(path string, form url.Values) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.PostForm(h.app.URL+path, form)
	require.NoError(h.t, err)
	return resp, readBody(h.t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (h *harness) issueToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

func (h *harness) loginAs(role string) {
	h.t.Helper()
	h.issueToken(signToken(h.t, role, time.Now().Add(time.Hour)))

	resp, _ := h.post("/login", url.Values{"phoneNumber": {"0123456789"}, "password": {"secret123"}})
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, "/", resp.Header.Get("Location"))
}

func (h *harness) browserID() string {
	h.t.Helper()
	u, err := url.Parse(h.app.URL)
	require.NoError(h.t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == "booking_browser_id" {
			return c.Value
		}
	}
	h.t.Fatal("no browser cookie")
	return ""
}

func (h *harness) bookingOrders() []backend.BookingRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]backend.BookingRequest(nil), h.orders...)
}

func (h *harness) backendRequests() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.requests...)
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	resp, body := h.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)
}

func TestStaticAssets(t *testing.T) {
	h := newHarness(t)
	resp, body := h.get("/css/app.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.Contains(t, body, ".navbar")

	resp, _ = h.get("/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGate_LoggedOut(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.get("/movieSelection")
	requireRedirect(t, resp, "/login")
	require.NotEmpty(t, h.browserID())

	resp, body := h.get("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `name="phoneNumber"`)

	resp, body = h.get("/register")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `name="emailId"`)
}

func TestGate_AdminTree(t *testing.T) {
	h := newHarness(t)
	h.loginAs("ADMIN")

	resp, _ := h.get("/")
	requireRedirect(t, resp, "/movieList")

	resp, body := h.get("/movieList")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Inception")
	require.Contains(t, body, "User ID: 5 (ADMIN)")

	resp, _ = h.get("/login")
	requireRedirect(t, resp, "/")
}

func TestGate_UserTree(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")

	resp, body := h.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "jane@example.com")
	require.Contains(t, body, "User ID: 5 (USER)")

	resp, _ = h.get("/movieList")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGate_UnknownRoleIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.loginAs("GUEST")

	for _, path := range []string{"/", "/movieSelection", "/movieList", "/userInfo"} {
		resp, body := h.get(path)
		require.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		require.Contains(t, body, "Unauthorized access", path)
	}

	resp, _ := h.post("/logout", nil)
	requireRedirect(t, resp, "/login")

	resp, _ = h.get("/")
	requireRedirect(t, resp, "/login")
}

func TestGate_ExpiredTokenIsErased(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")
	id := h.browserID()

	expired := signToken(t, "USER", time.Now().Add(-time.Minute))
	require.NoError(t, h.tokens.Set(context.Background(), id, expired, time.Now().Add(-time.Minute)))

	resp, _ := h.get("/movieSelection")
	requireRedirect(t, resp, "/login")

	_, err := h.tokens.Get(context.Background(), id)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestLogin(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		h := newHarness(t)
		h.issueToken(signToken(t, "USER", time.Now().Add(time.Hour)))

		resp, _ := h.post("/login", url.Values{"phoneNumber": {"0123456789"}, "password": {"nope"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?error="))

		resp, _ = h.get("/movieSelection")
		requireRedirect(t, resp, "/login")
	})

	t.Run("expired token from backend", func(t *testing.T) {
		h := newHarness(t)
		h.issueToken(signToken(t, "USER", time.Now().Add(-time.Hour)))

		resp, _ := h.post("/login", url.Values{"phoneNumber": {"0123456789"}, "password": {"secret123"}})
		require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?error="))

		_, err := h.tokens.Get(context.Background(), h.browserID())
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t)
		resp, body := h.post("/login", url.Values{"phoneNumber": {"0123456789"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "Password is required")
		require.NotContains(t, h.backendRequests(), "POST /api/authenticate")
	})

	t.Run("logout keeps the browser logged out", func(t *testing.T) {
		h := newHarness(t)
		h.loginAs("USER")

		resp, _ := h.get("/logout")
		requireRedirect(t, resp, "/login")

		resp, _ = h.get("/userInfo")
		requireRedirect(t, resp, "/login")
	})
}

func TestRegister(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		h := newHarness(t)
		resp, body := h.post("/register", url.Values{
			"firstName":   {"Jane"},
			"lastName":    {"Doe"},
			"emailId":     {"not-an-email"},
			"phoneNumber": {"12345"},
			"username":    {"jane"},
			"password":    {"short"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "Email must be a valid email address")
		require.Contains(t, body, "Phone number must be exactly 10 characters")
		require.Contains(t, body, "Password must be at least 8 characters")
		require.NotContains(t, h.backendRequests(), "POST /api/register")
	})

	t.Run("success", func(t *testing.T) {
		h := newHarness(t)
		var registered model.User
		h.api.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
			w.WriteHeader(http.StatusCreated)
		})

		resp, _ := h.post("/register", url.Values{
			"firstName":   {"Jane"},
			"lastName":    {"Doe"},
			"emailId":     {"jane@example.com"},
			"age":         {"30"},
			"phoneNumber": {"0123456789"},
			"username":    {"jane"},
			"password":    {"secret123"},
			"role":        {"ADMIN"},
		})
		requireRedirect(t, resp, "/login?success="+url.QueryEscape("User registered successfully!"))
		require.Equal(t, model.RoleUser, registered.Role)
		require.Equal(t, 30, registered.Age)
	})
}

func (h *harness) walkToPayment() {
	h.t.Helper()
	resp, body := h.get("/movieSelection")
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	require.Contains(h.t, body, "Inception")

	resp, _ = h.post("/movieSelection", url.Values{"movieId": {"7"}})
	requireRedirect(h.t, resp, "/showSelection/7")

	resp, body = h.get("/showSelection/7")
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	require.Contains(h.t, body, "18:30")

	resp, _ = h.post("/showSelection/7", url.Values{"showId": {"42"}})
	requireRedirect(h.t, resp, "/ticketSelection/42")

	resp, body = h.get("/ticketSelection/42")
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	require.Contains(h.t, body, "10.00")
	require.Contains(h.t, body, `max="50"`)

	resp, _ = h.post("/ticketSelection/42", url.Values{"noOfTickets": {"3"}})
	requireRedirect(h.t, resp, "/payment")
}

func TestBookingWizard_EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")
	h.walkToPayment()

	resp, body := h.get("/payment")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "30.00")

	resp, _ = h.post("/payment", url.Values{
		"cardNumber": {"4111 1111 1111 1111"},
		"nameOnCard": {"Jane Doe"},
		"expiryDate": {"12/30"},
		"cvv":        {"123"},
	})
	requireRedirect(t, resp, "/bookingSuccess/99")

	orders := h.bookingOrders()
	require.Len(t, orders, 1)
	order := orders[0]
	require.Equal(t, int64(7), order.MovieID)
	require.Equal(t, int64(42), order.ShowID)
	require.Equal(t, 3, order.NoOfTickets)
	require.Equal(t, 30.0, order.TotalCost)
	require.Equal(t, "4111111111111111", order.CardNumber)
	require.Equal(t, int64(5), order.User.WebUserID)
	require.Equal(t, int64(42), order.Show.ShowID)
	require.Empty(t, order.ExpiryDate)
	require.Empty(t, order.CVV)

	resp, body = h.get("/bookingSuccess/99")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "99")
	require.Contains(t, body, "Inception")

	resp, body = h.get("/bookingSuccess/99/pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "booking-details.pdf")
	require.True(t, strings.HasPrefix(body, "%PDF"))

	// The draft is gone once the booking is made
	resp, _ = h.get("/payment")
	requireRedirect(t, resp, "/movieSelection")
}

func TestBookingWizard_CannotSkipAhead(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")

	resp, _ := h.get("/ticketSelection/42")
	requireRedirect(t, resp, "/movieSelection")

	resp, _ = h.get("/payment")
	requireRedirect(t, resp, "/movieSelection")

	resp, _ = h.post("/movieSelection", url.Values{"movieId": {"7"}})
	requireRedirect(t, resp, "/showSelection/7")

	resp, _ = h.get("/showSelection/8")
	requireRedirect(t, resp, "/movieSelection")
}

func TestBookingWizard_InvalidTicketCount(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")
	h.walkToPayment()

	resp, _ := h.post("/ticketSelection/42", url.Values{"noOfTickets": {"0"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/ticketSelection/42?error="))
}

func TestPayment_InvalidCardIsNotSubmitted(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")
	h.walkToPayment()

	before := len(h.backendRequests())
	resp, body := h.post("/payment", url.Values{"cardNumber": {""}, "nameOnCard": {""}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "Please fill out all fields.")
	require.Empty(t, h.bookingOrders())
	// Only the show summary for the re-rendered page is fetched
	require.Equal(t, []string{"GET /api/shows/42"}, h.backendRequests()[before:])

	resp, body = h.post("/payment", url.Values{"cardNumber": {"4111111111111111"}, "nameOnCard": {"Jane"}, "expiryDate": {"13/30"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "Expiry date must be a valid MM/YY date")
	require.Empty(t, h.bookingOrders())
}

func TestPayment_BackendFailureKeepsDraft(t *testing.T) {
	h := newHarness(t)
	h.loginAs("USER")
	h.walkToPayment()

	h.mu.Lock()
	h.failBookings = true
	h.mu.Unlock()

	resp, body := h.post("/payment", url.Values{"cardNumber": {"4111111111111111"}, "nameOnCard": {"Jane Doe"}})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Contains(t, body, "Payment failed. Please try again.")
	require.Empty(t, h.bookingOrders())

	// The draft keeps the card holder so the payment can be retried
	resp, body = h.get("/payment")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `value="Jane Doe"`)
}

func TestAdmin_CRUD(t *testing.T) {
	h := newHarness(t)
	h.loginAs("ADMIN")

	t.Run("create theatre", func(t *testing.T) {
		resp, _ := h.post("/theatreList", url.Values{
			"nameOfTheatre": {"Odeon"},
			"noOfScreens":   {"5"},
			"area":          {"Leicester Square"},
		})
		requireRedirect(t, resp, "/theatreList?success="+url.QueryEscape("Theatre created."))

		h.mu.Lock()
		require.Len(t, h.created, 1)
		var theatre model.Theatre
		require.NoError(t, json.Unmarshal(h.created[0], &theatre))
		h.mu.Unlock()
		require.Equal(t, model.Theatre{NameOfTheatre: "Odeon", NoOfScreens: 5, Area: "Leicester Square"}, theatre)
	})

	t.Run("invalid theatre is not sent", func(t *testing.T) {
		resp, body := h.post("/theatreList", url.Values{"noOfScreens": {"five"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "must be a whole number")
		require.Contains(t, body, "is required")

		h.mu.Lock()
		require.Len(t, h.created, 1)
		h.mu.Unlock()
	})

	t.Run("delete movie", func(t *testing.T) {
		resp, _ := h.post("/movies/7/delete", nil)
		requireRedirect(t, resp, "/movieList?success="+url.QueryEscape("Movie deleted."))
		require.Contains(t, h.backendRequests(), "DELETE /api/movies/7")
	})

	t.Run("movie details", func(t *testing.T) {
		resp, body := h.get("/movies/7")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, `value="Inception"`)
		require.Contains(t, body, `action="/movies/7/delete"`)
	})

	t.Run("update movie", func(t *testing.T) {
		resp, _ := h.post("/movies/7", url.Values{
			"name":           {"Inception (IMAX)"},
			"language":       {"English"},
			"genre":          {"Sci-Fi"},
			"targetAudience": {"Adults"},
		})
		requireRedirect(t, resp, "/movies/7?success="+url.QueryEscape("Movie updated."))

		body, ok := h.updated("/api/movies/7")
		require.True(t, ok)
		var movie model.Movie
		require.NoError(t, json.Unmarshal(body, &movie))
		require.Equal(t, model.Movie{
			MovieID:        7,
			Name:           "Inception (IMAX)",
			Language:       "English",
			Genre:          "Sci-Fi",
			TargetAudience: "Adults",
		}, movie)
	})

	t.Run("invalid update is not sent", func(t *testing.T) {
		u := newHarness(t)
		u.loginAs("ADMIN")
		resp, body := u.post("/movies/7", url.Values{"language": {"English"}})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.Contains(t, body, "is required")
		require.NotContains(t, u.backendRequests(), "PUT /api/movies/7")
	})

	t.Run("user details and role change", func(t *testing.T) {
		resp, body := h.get("/users/5")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, `value="jane@example.com"`)
		require.Contains(t, body, `<option value="USER" selected>`)

		resp, _ = h.post("/users/5", url.Values{
			"firstName":   {"Jane"},
			"lastName":    {"Doe"},
			"emailId":     {"jane@example.com"},
			"age":         {"30"},
			"phoneNumber": {"0123456789"},
			"username":    {"jane"},
			"role":        {"ADMIN"},
		})
		requireRedirect(t, resp, "/users/5?success="+url.QueryEscape("User updated."))

		sent, ok := h.updated("/api/users/update/5")
		require.True(t, ok)
		var user model.User
		require.NoError(t, json.Unmarshal(sent, &user))
		require.Equal(t, int64(5), user.WebUserID)
		require.Equal(t, model.RoleAdmin, user.Role)
		require.Equal(t, 30, user.Age)
	})

	t.Run("create booking resolves user and show", func(t *testing.T) {
		before := len(h.bookingOrders())
		resp, _ := h.post("/bookingList", url.Values{
			"user.webUserId": {"5"},
			"show.showId":    {"42"},
			"noOfTickets":    {"2"},
			"cardNumber":     {"4111111111111111"},
			"nameOnCard":     {"Jane Doe"},
		})
		requireRedirect(t, resp, "/bookingList?success="+url.QueryEscape("Booking created."))

		orders := h.bookingOrders()
		require.Len(t, orders, before+1)
		order := orders[before]
		require.Equal(t, 2, order.NoOfTickets)
		require.Equal(t, 20.0, order.TotalCost)
		require.Equal(t, int64(5), order.User.WebUserID)
		require.Equal(t, "jane", order.User.Username)
		require.Equal(t, int64(42), order.Show.ShowID)
		require.Equal(t, "Inception", order.Show.MovieName())

		requests := h.backendRequests()
		require.Contains(t, requests, "GET /api/users/getById/5")
		require.Contains(t, requests, "GET /api/shows/42")
	})

	t.Run("tickets are paged", func(t *testing.T) {
		resp, body := h.get("/ticketList?page=1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Page 2 of 3")
		require.Contains(t, body, "/tickets/11")
		require.Contains(t, h.backendRequests(), "GET /api/tickets/getAll")
	})

	t.Run("user cannot reach admin pages", func(t *testing.T) {
		u := newHarness(t)
		u.loginAs("USER")
		resp, _ := u.post("/movies/7/delete", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotContains(t, u.backendRequests(), "DELETE /api/movies/7")
	})
}

func TestCSRF(t *testing.T) {
	h := newHarness(t)
	t.Setenv("CSRF_KEY", "0123456789abcdef0123456789abcdef")

	// CSRF protection is read when the server is built
	c := config.New()
	api := backend.New(h.backend.URL+"/api", 5*time.Second)
	srv, err := server.New(c, api, session.NewGate(session.NewInMemoryTokenStore()), booking.NewService(api, booking.NewInMemoryDraftStore(time.Hour)))
	require.NoError(t, err)
	app := httptest.NewServer(srv)
	t.Cleanup(app.Close)

	resp, err := h.client.Get(app.URL + "/login")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "gorilla.csrf.Token")

	resp, err = h.client.PostForm(app.URL+"/login", url.Values{"phoneNumber": {"0123456789"}, "password": {"secret123"}})
	require.NoError(t, err)
	_ = readBody(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotContains(t, h.backendRequests(), "POST /api/authenticate")
}
