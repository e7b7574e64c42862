package lnurl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/LightningTipBot/lnaddress/internal/intercept"
	"github.com/LightningTipBot/lnaddress/internal/lnbits"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Directory looks up the recipient behind a Lightning Address username.
type Directory interface {
	FindUser(username string) (*lnbits.User, error)
}

// InvoiceIssuer mints invoices on a recipient wallet. *lnbits.Client is one.
type InvoiceIssuer interface {
	Invoice(ctx context.Context, params lnbits.InvoiceParams, w lnbits.Wallet) (lnbits.BitInvoice, error)
}

type Config struct {
	// Addr is the listen address, host:port.
	Addr string
	// CallbackHostname is the public base URL of this server.
	CallbackHostname *url.URL
	// WebhookServer is passed to the issuer so paid invoices are reported back.
	WebhookServer string
	// MinSendable and MaxSendable bound the accepted amounts in msat.
	// Zero selects the defaults.
	MinSendable int64
	MaxSendable int64
	// OnPayment is called for every payment notification received.
	OnPayment func(lnbits.Webhook)
}

type Server struct {
	httpServer       *http.Server
	directory        Directory
	issuer           InvoiceIssuer
	callbackHostname *url.URL
	webhookServer    string
	minSendable      int64
	maxSendable      int64
	onPayment        func(lnbits.Webhook)
}

const (
	statusError     = "ERROR"
	statusOk        = "OK"
	payRequestTag   = "payRequest"
	lnurlEndpoint   = ".well-known/lnurlp"
	webhookEndpoint = "/lnbits/webhook"
	MinSendable     = 1000 // mSat
	MaxSendable     = 1000000000
)

func NewServer(cfg Config, directory Directory, issuer InvoiceIssuer) *Server {
	srv := &http.Server{
		Addr:         cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	apiServer := &Server{
		httpServer:       srv,
		directory:        directory,
		issuer:           issuer,
		callbackHostname: cfg.CallbackHostname,
		webhookServer:    cfg.WebhookServer,
		minSendable:      cfg.MinSendable,
		maxSendable:      cfg.MaxSendable,
		onPayment:        cfg.OnPayment,
	}
	if apiServer.minSendable <= 0 {
		apiServer.minSendable = MinSendable
	}
	if apiServer.maxSendable <= 0 {
		apiServer.maxSendable = MaxSendable
	}
	apiServer.httpServer.Handler = apiServer.newRouter()
	return apiServer
}

// Handler returns the router serving all endpoints.
func (w *Server) Handler() http.Handler {
	return w.httpServer.Handler
}

// Start serves in the background until Shutdown.
func (w *Server) Start() {
	go func() {
		if err := w.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("[LNURL] Server stopped: %v", err)
		}
	}()
	log.Infof("[LNURL] Server started at %s", w.httpServer.Addr)
}

func (w *Server) Shutdown(ctx context.Context) error {
	return w.httpServer.Shutdown(ctx)
}

func (w *Server) newRouter() *mux.Router {
	router := mux.NewRouter()
	lnurlHandler := intercept.HandlerWithRequest(w.handleLnUrl,
		intercept.WithBeforeRequest(w.loadUser),
		intercept.WithAfterRequest(logServed),
		intercept.WithErrorHandler(NotFoundHandler))
	router.HandleFunc("/.well-known/lnurlp/{username}", lnurlHandler).Methods(http.MethodGet)
	router.HandleFunc("/@{username}", lnurlHandler).Methods(http.MethodGet)
	router.Handle(webhookEndpoint, lnbits.WebhookHandler(w.onPayment)).Methods(http.MethodPost)
	return router
}

func NotFoundHandler(writer http.ResponseWriter, err error) {
	log.Errorln(err)
	// return 404 on any error
	http.Error(writer, "404 page not found", http.StatusNotFound)
}

func writeResponse(writer http.ResponseWriter, response interface{}) error {
	jsonResponse, err := json.Marshal(response)
	if err != nil {
		return err
	}
	writer.Header().Set("Content-Type", "application/json")
	_, err = writer.Write(jsonResponse)
	return err
}
