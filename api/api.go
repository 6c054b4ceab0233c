// Package api exposes the accounting engine over HTTP with chi. It is
// meant for host environments that terminate wallet signatures at a
// gateway: the gateway forwards the verified signer identities in an
// X-Signer header, and each handler runs the engine call with those
// identities as the authorized set. Construct the engine with an
// auth.FromContext oracle for this to take effect.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/eventpay-xyz/go-eventpay/auth"
	"github.com/eventpay-xyz/go-eventpay/ledger"
	"github.com/eventpay-xyz/go-eventpay/token"
)

// SignerHeader carries the comma-separated caller identities vouched
// for by the gateway.
const SignerHeader = "X-Signer"

// Server holds the HTTP handlers for the engine.
type Server struct {
	engine *ledger.Engine
}

// NewServer constructs a Server around an engine.
func NewServer(engine *ledger.Engine) *Server {
	return &Server{engine: engine}
}

// Router builds the chi router with the full API surface mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(signerContext)

	r.Get("/health", healthCheck)

	r.Route("/config", func(r chi.Router) {
		r.Post("/init", s.initialize)
		r.Get("/", s.getConfig)
		r.Put("/fee-rate", s.updateDefaultFeeRate)
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/", s.createEvent)
		r.Get("/", s.listEvents)
		r.Get("/by-name/{name}", s.getEventByName)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getEvent)
			r.Put("/status", s.setEventStatus)
			r.Get("/fees", s.getEventFees)
			r.Post("/withdraw", s.withdrawEventFees)
			r.Post("/allowance", s.increaseEventAllowance)
			r.Post("/payments", s.eventPayment)
			r.Route("/registrations/{wallet}", func(r chi.Router) {
				r.Put("/", s.registerWallet)
				r.Delete("/", s.unregisterWallet)
				r.Get("/", s.isWalletRegistered)
			})
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/third-party-fee", s.paymentWithThirdPartyFee)
		r.Post("/pre-authorized", s.paymentWithAuthFeePayer)
	})

	r.Route("/fee-authorizations/{feePayer}", func(r chi.Router) {
		r.Put("/", s.authorizeFeePayments)
		r.Delete("/", s.revokeFeeAuthorization)
		r.Get("/", s.getFeeAuthorization)
	})

	return r
}

// signerContext moves the gateway-verified identities from the
// X-Signer header into the request context, where the engine's
// auth.FromContext oracle reads them.
func signerContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(SignerHeader)
		if header != "" {
			var signers []string
			for _, s := range strings.Split(header, ",") {
				if s = strings.TrimSpace(s); s != "" {
					signers = append(signers, s)
				}
			}
			r = r.WithContext(auth.WithSigners(r.Context(), signers...))
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFor maps engine sentinels onto HTTP status codes. Unrecognized
// errors read as internal faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrNotAuthorized),
		errors.Is(err, ledger.ErrNotAdmin):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyInitialized),
		errors.Is(err, ledger.ErrEventExists),
		errors.Is(err, ledger.ErrWalletRegistered),
		errors.Is(err, ledger.ErrEventStillActive):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInsufficientAllowance),
		errors.Is(err, token.ErrInsufficientBalance),
		errors.Is(err, token.ErrInsufficientAllowance):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrNotInitialized),
		errors.Is(err, ledger.ErrFeeRateTooHigh),
		errors.Is(err, ledger.ErrEventNameTooLong),
		errors.Is(err, ledger.ErrEventNotActive),
		errors.Is(err, ledger.ErrWalletNotRegistered),
		errors.Is(err, ledger.ErrOrganizerCannotRegister),
		errors.Is(err, ledger.ErrAmountNotPositive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// eventID parses the {id} route parameter.
func eventID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

// firstSigner returns the first identity the gateway vouched for, for
// operations where the caller is implicit.
func firstSigner(r *http.Request) string {
	if signers := auth.Signers(r.Context()); len(signers) > 0 {
		return signers[0]
	}
	return ""
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
