package main

// appendixapi is a small JSON HTTP front end over the appendix codec,
// grounded on cmd/explorer/server.go's router-plus-handlers shape but built
// on chi instead of gorilla/mux (chi was already a direct dependency of the
// wider node but had no caller in this subsystem's scope).

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	core "synnergy-network/core"
	pkgconfig "synnergy-network/pkg/config"
)

var log = logrus.New()

type server struct {
	router  *chi.Mux
	crypto  core.Crypto
	metrics *core.Metrics
	chain   core.ChainConfig
}

func newServer() *server {
	reg := prometheus.NewRegistry()
	s := &server{
		router:  chi.NewRouter(),
		crypto:  core.DefaultCrypto{},
		metrics: core.NewMetrics(reg),
		chain:   loadChainConfig(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/appendices/decode", s.handleDecode)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

func loadChainConfig() core.ChainConfig {
	cfg, err := pkgconfig.Load(os.Getenv("SYNN_ENV"))
	if err != nil {
		log.WithError(err).Warn("falling back to default chain config")
		return core.DefaultChainConfig()
	}
	return core.ChainConfigFromAppConfig(*cfg)
}

func main() {
	s := newServer()
	addr := ":8088"
	log.WithField("addr", addr).Info("appendixapi listening")
	if err := http.ListenAndServe(addr, s.router); err != nil {
		log.WithError(err).Fatal("appendixapi stopped")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "requestId": middleware.GetReqID(r.Context())})
}

type decodeRequest struct {
	Kind      string `json:"kind"`
	Hex       string `json:"hex"`
	TxVersion int    `json:"txVersion"`
}

func (s *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	raw, err := hex.DecodeString(req.Hex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hex: " + err.Error()})
		return
	}
	buf := core.NewReadBuffer(raw)
	appendix, err := core.ParseAppendixBinary(buf, kind, req.TxVersion)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	fee, err := core.ComputeFee(appendix, demoTxContext{}, s.chain, 0)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       uuid.NewString(),
		"decoded":  appendix.ToJSON(),
		"size":     appendix.Size(),
		"fullSize": appendix.FullSize(),
		"fee":      fee,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseKind(s string) (core.Kind, error) {
	switch s {
	case "plain-message":
		return core.KindPlainMessage, nil
	case "public-key-announcement":
		return core.KindPublicKeyAnnouncement, nil
	case "encrypted-message":
		return core.KindEncryptedMessage, nil
	case "encrypt-to-self-message":
		return core.KindEncryptToSelfMessage, nil
	case "prunable-encrypted-message":
		return core.KindPrunableEncryptedMessage, nil
	default:
		return 0, errUnknownKind(s)
	}
}

type errUnknownKind string

func (e errUnknownKind) Error() string { return "unknown kind: " + string(e) }

// demoTxContext stands in for the enclosing transaction the real node would
// supply; this demo server only decodes and fee-rates a standalone
// appendix, it never validates one against live chain state.
type demoTxContext struct{}

func (demoTxContext) Version() int       { return 1 }
func (demoTxContext) ID() int64          { return 0 }
func (demoTxContext) RecipientID() int64 { return 0 }
func (demoTxContext) Timestamp() int32   { return int32(time.Now().Unix()) }
func (demoTxContext) Height() int32      { return 0 }
