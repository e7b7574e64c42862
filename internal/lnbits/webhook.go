package lnbits

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// WebhookHandler receives lnbits payment notifications and passes every
// well-formed one to onPayment.
func WebhookHandler(onPayment func(Webhook)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		depositEvent := Webhook{}
		err := json.NewDecoder(request.Body).Decode(&depositEvent)
		if err != nil || depositEvent.PaymentHash == "" {
			log.Warnf("[Webhook] Invalid payment notification: %v", err)
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		log.Infof("[Webhook] Wallet %s received %d msat (%s).", depositEvent.WalletID, depositEvent.Amount, depositEvent.PaymentHash)
		if onPayment != nil {
			onPayment(depositEvent)
		}
		writer.WriteHeader(http.StatusOK)
	}
}
