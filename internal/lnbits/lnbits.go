package lnbits

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"
)

// NewClient returns a new lnbits api client. Pass the lnbits url here;
// wallet keys are sent per request.
func NewClient(url string, client *http.Client) *Client {
	c := &Client{
		r:   req.New(),
		url: strings.TrimRight(url, "/"),
		header: req.Header{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
	if client != nil {
		c.r.SetClient(client)
	}
	return c
}

func (c *Client) post(ctx context.Context, path, key string, body interface{}) (*req.Resp, error) {
	header := req.Header{"X-Api-Key": key}
	for k, v := range c.header {
		header[k] = v
	}
	return c.r.Post(c.url+path, header, req.BodyJSON(body), ctx)
}

// Invoice creates an incoming invoice on wallet w.
func (c *Client) Invoice(ctx context.Context, params InvoiceParams, w Wallet) (lntx BitInvoice, err error) {
	params.Out = false
	resp, err := c.post(ctx, "/api/v1/payments", w.Inkey, &params)
	if err != nil {
		return
	}

	if resp.Response().StatusCode >= 300 {
		var reqErr Error
		if jsonErr := resp.ToJSON(&reqErr); jsonErr != nil || reqErr.Error() == "" {
			reqErr.Message = fmt.Sprintf("lnbits returned status %d", resp.Response().StatusCode)
		}
		err = reqErr
		return
	}

	err = resp.ToJSON(&lntx)
	return
}
