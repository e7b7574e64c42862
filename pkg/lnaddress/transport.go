package lnaddress

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LightningTipBot/lnaddress/pkg/lightning"
	"github.com/imroc/req"
	log "github.com/sirupsen/logrus"
)

// Option configures a Resolver or a Requester.
type Option func(*options)

// InvoiceDecoder parses and verifies a BOLT11 payment request.
type InvoiceDecoder func(paymentRequest string) (*lightning.Invoice, error)

type options struct {
	client *http.Client
	logger log.FieldLogger
	decode InvoiceDecoder
}

// WithHTTPClient sets the HTTP client used for discovery and callbacks.
// Proxies, TLS and redirects are the client's business.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInvoiceDecoder replaces the BOLT11 decoder, lightning.Decode by default.
func WithInvoiceDecoder(decode InvoiceDecoder) Option {
	return func(o *options) {
		o.decode = decode
	}
}

func newOptions(opts []Option) options {
	o := options{
		client: http.DefaultClient,
		logger: log.StandardLogger(),
		decode: lightning.Decode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// transport performs a single GET and hands back status and body.
type transport struct {
	r *req.Req
}

func newTransport(client *http.Client) transport {
	r := req.New()
	r.SetClient(client)
	return transport{r: r}
}

type response struct {
	status int
	body   []byte
}

func (t transport) get(ctx context.Context, url string) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := t.r.Get(url, req.Header{"Accept": "application/json"}, ctx)
	if err != nil {
		return nil, err
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return &response{status: resp.Response().StatusCode, body: body}, nil
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}
