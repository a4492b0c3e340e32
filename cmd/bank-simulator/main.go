// Bank simulator stands in for the acquiring bank in local runs. It speaks
// the bank's wire contract and authorizes any card whose number ends in an
// odd digit; even endings are declined. Set BANK_SIM_FAIL=1 to make every
// call return 503, for exercising the gateway's unavailable path by hand.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paygate/payment-gateway/pkg/logging"
	"github.com/paygate/payment-gateway/pkg/shutdown"
)

type authorizeRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	Cvv        string `json:"cvv"`
}

type authorizeResponse struct {
	Authorized        bool    `json:"authorized"`
	AuthorizationCode *string `json:"authorization_code"`
}

func main() {
	log := logging.New()
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	addr := env("HTTP_ADDR", ":8090")
	forceFail := os.Getenv("BANK_SIM_FAIL") == "1"

	r := chi.NewRouter()
	r.Post("/payments", func(w http.ResponseWriter, req *http.Request) {
		if forceFail {
			http.Error(w, "simulated outage", http.StatusServiceUnavailable)
			return
		}

		var in authorizeRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil || in.CardNumber == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		out := authorizeResponse{}
		last := in.CardNumber[len(in.CardNumber)-1]
		if (last-'0')%2 == 1 {
			code := uuid.New().String()
			out.Authorized = true
			out.AuthorizationCode = &code
		}

		log.Info("authorization decided", "authorized", out.Authorized, "currency", in.Currency, "amount", in.Amount)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("bank simulator listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("bank simulator shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
