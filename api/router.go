package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"collector/service"
)

// NewRouter builds the HTTP router for the collection API
func NewRouter(svc service.CollectionService, allowedOrigins []string) http.Handler {
	h := NewHandler(svc)

	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/session", h.OpenSession).Methods(http.MethodPost)
	r.HandleFunc("/session", h.GetSession).Methods(http.MethodGet)

	r.HandleFunc("/session/entries/{loanId}", h.UpdateEntry).Methods(http.MethodPut)
	r.HandleFunc("/session/entries/{loanId}/no-payment", h.ToggleNoPayment).Methods(http.MethodPost)
	r.HandleFunc("/session/entries/weekly-reset", h.ResetToWeekly).Methods(http.MethodPost)
	r.HandleFunc("/session/entries/clear", h.ClearEntries).Methods(http.MethodPost)
	r.HandleFunc("/session/commission", h.ApplyGlobalCommission).Methods(http.MethodPost)

	r.HandleFunc("/session/edits/{loanId}", h.StartEdit).Methods(http.MethodPost)
	r.HandleFunc("/session/edits/{loanId}", h.UpdateEdit).Methods(http.MethodPut)
	r.HandleFunc("/session/edits/{loanId}/delete", h.ToggleDelete).Methods(http.MethodPost)
	r.HandleFunc("/session/edits/{loanId}", h.CancelEdit).Methods(http.MethodDelete)

	r.HandleFunc("/session/adhoc", h.AddAdHoc).Methods(http.MethodPost)
	r.HandleFunc("/session/adhoc/{tempId}/loan", h.SetAdHocLoan).Methods(http.MethodPut)
	r.HandleFunc("/session/adhoc/{tempId}", h.UpdateAdHoc).Methods(http.MethodPut)
	r.HandleFunc("/session/adhoc/{tempId}", h.RemoveAdHoc).Methods(http.MethodDelete)
	r.HandleFunc("/session/adhoc/{tempId}/available-loans", h.AvailableLoans).Methods(http.MethodGet)

	r.HandleFunc("/session/distribution", h.SetDistribution).Methods(http.MethodPut)
	r.HandleFunc("/session/commit", h.Commit).Methods(http.MethodPost)

	r.HandleFunc("/days/{leadId}/{day}", h.GetDaySummary).Methods(http.MethodGet)
	r.HandleFunc("/fines", h.RecordFine).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return c.Handler(r)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("Handled request")
	})
}
