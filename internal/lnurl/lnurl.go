package lnurl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/LightningTipBot/lnaddress/internal/lnbits"
	"github.com/fiatjaf/go-lnurl"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userKey contextKey = "user"

// loadUser puts the recipient named in the request path into the context.
func (w Server) loadUser(ctx context.Context, request *http.Request) (context.Context, error) {
	user, err := w.findUser(mux.Vars(request)["username"])
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, userKey, user), nil
}

func logServed(ctx context.Context, request *http.Request) (context.Context, error) {
	if user, ok := ctx.Value(userKey).(*lnbits.User); ok {
		log.Debugf("[LNURL] Served %s for %s", request.URL.Path, user.Name)
	}
	return ctx, nil
}

func (w Server) handleLnUrl(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
	var err error
	var response interface{}
	username := mux.Vars(request)["username"]
	user := ctx.Value(userKey).(*lnbits.User)
	if _, ok := request.URL.Query()["amount"]; !ok {
		response, err = w.serveLNURLpFirst(username)
	} else {
		stringAmount := request.FormValue("amount")
		amount, parseError := strconv.ParseInt(stringAmount, 10, 64)
		if parseError != nil {
			NotFoundHandler(writer, fmt.Errorf("[serveLNURLpSecond] Couldn't cast amount to int %v", parseError))
			return
		}
		response, err = w.serveLNURLpSecond(ctx, username, user, amount)
	}
	// check if error was returned from first or second handlers
	if err != nil {
		log.Errorf("[LNURL] %v", err)
		if response != nil {
			// there is a valid error response
			err = writeResponse(writer, response)
			if err != nil {
				NotFoundHandler(writer, err)
			}
			return
		}
		NotFoundHandler(writer, err)
		return
	}
	err = writeResponse(writer, response)
	if err != nil {
		NotFoundHandler(writer, err)
	}
}

// findUser returns the initialized recipient behind username.
func (w Server) findUser(username string) (*lnbits.User, error) {
	user, err := w.directory.FindUser(strings.ToLower(username))
	if err != nil {
		return nil, fmt.Errorf("[findUser] Couldn't fetch user %s: %v", username, err)
	}
	if user.Wallet == nil || !user.Initialized {
		return nil, fmt.Errorf("[findUser] invalid user data for %s", username)
	}
	return user, nil
}

// serveLNURLpFirst serves the first part of the LNURLp protocol with the endpoint
// to call and the metadata that matches the description hash of the second response
func (w Server) serveLNURLpFirst(username string) (*lnurl.LNURLPayResponse1, error) {
	log.Infof("[LNURL] Serving endpoint for user %s", username)
	callbackURL, err := url.Parse(fmt.Sprintf("%s/%s/%s", strings.TrimRight(w.callbackHostname.String(), "/"), lnurlEndpoint, username))
	if err != nil {
		return nil, err
	}
	jsonMeta, err := json.Marshal(w.metaData(username))
	if err != nil {
		return nil, err
	}

	return &lnurl.LNURLPayResponse1{
		LNURLResponse:   lnurl.LNURLResponse{Status: statusOk},
		Tag:             payRequestTag,
		Callback:        callbackURL.String(),
		CallbackURL:     callbackURL,
		MinSendable:     w.minSendable,
		MaxSendable:     w.maxSendable,
		EncodedMetadata: string(jsonMeta),
	}, nil
}

func errorResponse(reason string) *lnurl.LNURLPayResponse2 {
	return &lnurl.LNURLPayResponse2{
		LNURLResponse: lnurl.LNURLResponse{Status: statusError, Reason: reason},
	}
}

// serveLNURLpSecond serves the second LNURL response with the payment request with the correct description hash
func (w Server) serveLNURLpSecond(ctx context.Context, username string, user *lnbits.User, amount int64) (*lnurl.LNURLPayResponse2, error) {
	log.Infof("[LNURL] Serving invoice of %d msat for user %s", amount, username)
	if amount < w.minSendable || amount > w.maxSendable {
		return errorResponse(fmt.Sprintf("Amount out of bounds (min: %d mSat, max: %d mSat).", w.minSendable, w.maxSendable)),
			fmt.Errorf("amount out of bounds")
	}
	if amount%1000 != 0 {
		return errorResponse("Amount must be a whole number of satoshis."),
			fmt.Errorf("amount %d msat is not a whole number of satoshis", amount)
	}

	if user == nil || user.Wallet == nil {
		return errorResponse("Couldn't create invoice."),
			fmt.Errorf("[serveLNURLpSecond] no wallet for user %s", username)
	}

	// the same description_hash needs to be built in the second request
	descriptionHash, err := w.descriptionHash(w.metaData(username))
	if err != nil {
		return nil, err
	}
	invoice, err := w.issuer.Invoice(ctx,
		lnbits.InvoiceParams{
			Amount:          amount / 1000,
			Out:             false,
			DescriptionHash: descriptionHash,
			Webhook:         w.webhookServer},
		*user.Wallet)
	if err != nil {
		return errorResponse("Couldn't create invoice."),
			fmt.Errorf("[serveLNURLpSecond] Couldn't create invoice: %v", err)
	}
	return &lnurl.LNURLPayResponse2{
		LNURLResponse: lnurl.LNURLResponse{Status: statusOk},
		PR:            invoice.PaymentRequest,
		Routes:        make([][]lnurl.RouteInfo, 0),
		SuccessAction: &lnurl.SuccessAction{Message: "Payment received!", Tag: "message"},
	}, nil
}

// descriptionHash is the SHA256 hash of the metadata
func (w Server) descriptionHash(metadata lnurl.Metadata) (string, error) {
	jsonMeta, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(jsonMeta)
	return hex.EncodeToString(hash[:]), nil
}

// metaData returns the metadata that is sent in the first response
// and is used again in the second response to verify the description hash
func (w Server) metaData(username string) lnurl.Metadata {
	return lnurl.Metadata{
		{"text/identifier", fmt.Sprintf("%s@%s", username, w.callbackHostname.Host)},
		{"text/plain", fmt.Sprintf("Pay to %s@%s", username, w.callbackHostname.Host)}}
}
