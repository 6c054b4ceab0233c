package api

import (
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"

	"github.com/eventpay-xyz/go-eventpay/ledger"
)

type initializeRequest struct {
	Admin          string `json:"admin"`
	DefaultFeeRate uint32 `json:"default_fee_rate"`
	TokenAddress   string `json:"token_address"`
}

func (s *Server) initialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.Initialize(r.Context(), req.Admin, req.DefaultFeeRate, req.TokenAddress); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"admin": req.Admin})
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	config, err := s.engine.GetConfig(r.Context(), firstSigner(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

type feeRateRequest struct {
	NewRate uint32 `json:"new_rate"`
}

func (s *Server) updateDefaultFeeRate(w http.ResponseWriter, r *http.Request) {
	var req feeRateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.UpdateDefaultFeeRate(r.Context(), firstSigner(r), req.NewRate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint32{"default_fee_rate": req.NewRate})
}

type createEventRequest struct {
	Organizer string  `json:"organizer"`
	Name      string  `json:"name"`
	FeeRate   *uint32 `json:"fee_rate,omitempty"`
	// MaxAllowance, when set, also grants the engine a standing fee
	// allowance from the organizer.
	MaxAllowance *sdkmath.Int `json:"max_allowance,omitempty"`
}

type createEventResponse struct {
	EventID uint64 `json:"event_id"`
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	var (
		id  uint64
		err error
	)
	if req.MaxAllowance != nil {
		id, err = s.engine.CreateEventWithAllowance(r.Context(), req.Organizer, req.Name, req.FeeRate, *req.MaxAllowance)
	} else {
		id, err = s.engine.CreateEvent(r.Context(), req.Organizer, req.Name, req.FeeRate)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createEventResponse{EventID: id})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := uint64(50)
	if q := r.URL.Query().Get("limit"); q != "" {
		parsed, err := strconv.ParseUint(q, 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := s.engine.ListEvents(r.Context(), uint32(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []ledger.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	event, err := s.engine.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) getEventByName(w http.ResponseWriter, r *http.Request) {
	event, err := s.engine.GetEventByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type statusRequest struct {
	IsActive bool `json:"is_active"`
}

func (s *Server) setEventStatus(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.SetEventStatus(r.Context(), id, req.IsActive); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

func (s *Server) registerWallet(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	wallet := chi.URLParam(r, "wallet")
	if err := s.engine.RegisterWalletForEvent(r.Context(), id, wallet); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"wallet": wallet})
}

func (s *Server) unregisterWallet(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	wallet := chi.URLParam(r, "wallet")
	if err := s.engine.UnregisterWalletFromEvent(r.Context(), id, wallet); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"wallet": wallet})
}

func (s *Server) isWalletRegistered(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	registered, err := s.engine.IsWalletRegistered(r.Context(), id, chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

type eventPaymentRequest struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount sdkmath.Int `json:"amount"`
}

func (s *Server) eventPayment(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	var req eventPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.EventPayment(r.Context(), id, req.From, req.To, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"amount": req.Amount.String()})
}

type feePaymentRequest struct {
	From     string      `json:"from"`
	To       string      `json:"to"`
	FeePayer string      `json:"fee_payer"`
	Amount   sdkmath.Int `json:"amount"`
}

func (s *Server) paymentWithThirdPartyFee(w http.ResponseWriter, r *http.Request) {
	var req feePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.PaymentWithThirdPartyFee(r.Context(), req.From, req.To, req.FeePayer, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"amount": req.Amount.String()})
}

func (s *Server) paymentWithAuthFeePayer(w http.ResponseWriter, r *http.Request) {
	var req feePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.PaymentWithAuthFeePayer(r.Context(), req.From, req.To, req.FeePayer, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"amount": req.Amount.String()})
}

func (s *Server) getEventFees(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	fees, err := s.engine.GetEventFees(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fees": fees.String()})
}

func (s *Server) withdrawEventFees(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	withdrawn, err := s.engine.WithdrawEventFees(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"withdrawn": withdrawn.String()})
}

type allowanceRequest struct {
	Amount sdkmath.Int `json:"amount"`
}

func (s *Server) increaseEventAllowance(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}
	var req allowanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if err := s.engine.IncreaseEventAllowance(r.Context(), id, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"additional": req.Amount.String()})
}

func (s *Server) authorizeFeePayments(w http.ResponseWriter, r *http.Request) {
	var req allowanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	feePayer := chi.URLParam(r, "feePayer")
	if err := s.engine.AuthorizeFeePayments(r.Context(), feePayer, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"max_fee": req.Amount.String()})
}

func (s *Server) revokeFeeAuthorization(w http.ResponseWriter, r *http.Request) {
	feePayer := chi.URLParam(r, "feePayer")
	if err := s.engine.RevokeFeeAuthorization(r.Context(), feePayer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fee_payer": feePayer})
}

func (s *Server) getFeeAuthorization(w http.ResponseWriter, r *http.Request) {
	allowed, err := s.engine.GetFeeAuthorization(r.Context(), chi.URLParam(r, "feePayer"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"allowed": allowed.String()})
}
