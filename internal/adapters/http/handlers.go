package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gudlft/internal/adapters/http/middleware"
	"gudlft/internal/application/orchestrators"
	"gudlft/internal/application/projections"
	"gudlft/internal/domain/booking"
	"gudlft/internal/domain/club"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// User-facing messages that are not purchase rejections.
const (
	msgEmailNotFound  = "Sorry, that email wasn't found."
	msgSomethingWrong = "Something went wrong - please try again"
	msgBookingDone    = "Great - booking complete!"
	msgPlacesNotInt   = "Please enter a whole number of places."
	msgBookingChanged = "This competition changed while you were booking - please try again"
)

// indexPage is the data for index.html.
type indexPage struct {
	Messages []string
	Board    []projections.PointsBoardRow
}

// welcomePage is the data for welcome.html.
type welcomePage struct {
	Messages []string
	projections.GetSummaryResult
}

// bookingPage is the data for booking.html.
type bookingPage struct {
	Messages []string
	orchestrators.BookingFormResult
}

// errorPage is the data for error.html.
type errorPage struct {
	Status   int
	Message  string
	ClubName string // enables the link back to the summary
}

func pointsBoard(r *http.Request) ([]projections.PointsBoardRow, error) {
	res, err := projections.QueryGetPointsBoard(r.Context(), projections.GetPointsBoardDeps{
		ClubStore: stores.ClubStore,
	})
	return res.Clubs, err
}

func renderIndex(w http.ResponseWriter, r *http.Request, status int, messages ...string) {
	board, err := pointsBoard(r)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, status, "index.html", indexPage{Messages: messages, Board: board})
}

func renderWelcome(w http.ResponseWriter, r *http.Request, status int, clubName string, messages ...string) {
	summary, err := projections.QueryGetSummary(r.Context(), projections.GetSummaryQuery{ClubName: clubName},
		projections.GetSummaryDeps{
			ClubStore:        stores.ClubStore,
			CompetitionStore: stores.CompetitionStore,
			BookingStore:     stores.BookingStore,
			Now:              timeNow,
		})
	if errors.Is(err, club.ErrNotFound) {
		renderIndex(w, r, http.StatusNotFound, msgSomethingWrong)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, status, "welcome.html", welcomePage{Messages: messages, GetSummaryResult: summary})
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message, clubName string) {
	renderTemplate(w, r, status, "error.html", errorPage{Status: status, Message: message, ClubName: clubName})
}

// handleIndex handles GET / with the login form and points board
func handleIndex(w http.ResponseWriter, r *http.Request) {
	renderIndex(w, r, http.StatusOK)
}

// handleShowSummary handles POST /showSummary (email login)
func handleShowSummary(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	c, err := orchestrators.ExecuteShowSummary(r.Context(), orchestrators.ShowSummaryInput{
		Email: r.FormValue("email"),
	}, orchestrators.ShowSummaryDeps{ClubStore: stores.ClubStore})
	if errors.Is(err, orchestrators.ErrClubNotFound) {
		renderIndex(w, r, http.StatusNotFound, msgEmailNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	token, err := sessions.Create(c.Name, c.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	sess := middleware.Session{ClubName: c.Name, Email: c.Email, CreatedAt: timeNow()}
	r = r.WithContext(middleware.ContextWithSession(r.Context(), sess))
	renderWelcome(w, r, http.StatusOK, c.Name)
}

// handleSummaryPage handles GET /showSummary for a logged-in club
func handleSummaryPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	renderWelcome(w, r, http.StatusOK, sess.ClubName)
}

// handleBook handles GET /book/{competition}/{club}
func handleBook(w http.ResponseWriter, r *http.Request) {
	res, err := orchestrators.ExecuteGetBookingForm(r.Context(), orchestrators.BookingFormInput{
		CompetitionName: r.PathValue("competition"),
		ClubName:        r.PathValue("club"),
	}, orchestrators.BookingFormDeps{
		ClubStore:        stores.ClubStore,
		CompetitionStore: stores.CompetitionStore,
		Rules:            bookingRules,
		Now:              timeNow,
	})
	switch {
	case errors.Is(err, orchestrators.ErrUnknownClub):
		renderIndex(w, r, http.StatusNotFound, msgSomethingWrong)
	case errors.Is(err, orchestrators.ErrUnknownCompetition):
		renderWelcome(w, r, http.StatusOK, res.Club.Name, msgSomethingWrong)
	case err != nil:
		internalError(w, err)
	default:
		renderTemplate(w, r, http.StatusOK, "booking.html", bookingPage{BookingFormResult: res})
	}
}

// handlePurchasePlaces handles POST /purchasePlaces
func handlePurchasePlaces(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	clubName := r.FormValue("club")
	competitionName := r.FormValue("competition")

	places, err := strconv.Atoi(strings.TrimSpace(r.FormValue("places")))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, msgPlacesNotInt, clubName)
		return
	}

	res, err := orchestrators.ExecutePurchasePlaces(r.Context(), orchestrators.PurchasePlacesInput{
		ClubName:        clubName,
		CompetitionName: competitionName,
		Places:          places,
	}, orchestrators.PurchasePlacesDeps{
		ClubStore:        stores.ClubStore,
		CompetitionStore: stores.CompetitionStore,
		BookingStore:     stores.BookingStore,
		EmailSender:      emailSender,
		Rules:            bookingRules,
		GenerateID:       generateID,
		Now:              timeNow,
	})

	var rejection *booking.Rejection
	switch {
	case err == nil:
		renderWelcome(w, r, http.StatusOK, res.Club.Name, msgBookingDone)
	case errors.As(err, &rejection):
		renderError(w, r, rejectionStatus(rejection), rejection.Message(), clubName)
	case errors.Is(err, orchestrators.ErrUnknownClub):
		renderError(w, r, http.StatusNotFound, msgSomethingWrong, "")
	case errors.Is(err, orchestrators.ErrUnknownCompetition):
		renderError(w, r, http.StatusNotFound, msgSomethingWrong, clubName)
	case errors.Is(err, booking.ErrStalePurchase):
		renderError(w, r, http.StatusConflict, msgBookingChanged, clubName)
	default:
		internalError(w, err)
	}
}

// rejectionStatus maps a purchase rejection to its HTTP status.
func rejectionStatus(rej *booking.Rejection) int {
	if errors.Is(rej, booking.ErrPastCompetition) {
		return http.StatusBadRequest
	}
	return http.StatusForbidden
}

// handlePointsBoard handles GET /pointsBoard
func handlePointsBoard(w http.ResponseWriter, r *http.Request) {
	board, err := pointsBoard(r)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "points_board.html", indexPage{Board: board})
}

// handleLogout handles GET and POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePerf handles GET /debug/perf with the last hour of timings
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	snap := perfCollector.Snapshot(timeNow().Add(-time.Hour), 10)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		internalError(w, err)
	}
}
