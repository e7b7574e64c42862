package lnaddress

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/LightningTipBot/lnaddress/pkg/lightning"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// BOLT11 reference vectors.
const (
	// 2500u, description "1 cup coffee"
	coffeeInvoice = "lnbc2500u1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdq5xysxxatsyp3k7enxv4jsxqzpuaztrnwngzn3kdzw5hydlzf03qdgm2hdq27cqv3agm2awhz5se903vruatfhq77w3ls4evs3ch9zw97j25emudupq63nyw24cg27h2rspfj9srp"
	// 20m, description hash of a long shopping list
	cakeInvoice = "lnbc20m1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqhp58yjmdan79s6qqdhdzgynm4zwqd5d7xmw5fk98klysy043l2ahrqscc6gd6ql3jrc5yzme8v4ntcewwz5cnw92tz0pc8qcuufvq7khhr8wpald05e92xw006sq94mg8v2ndf4sefvf9sygkshp5zfem29trqq2yxxz7"
	// no amount
	donationInvoice = "lnbc1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqypqdpl2pkx2ctnv5sxxmmwwd5kgetjypeh2ursdae8g6twvus8g6rfwvs8qun0dfjkxaq8rkx3yf5tcsyz3d73gafnh3cax9rn449d9p5uxz9ezhhypd0elx87sjle52x86fux2ypatgddc6k63n7erqz25le42c4u4ecky03ylcqca784w"

	coffeeAmountMsat = 250000000
	cakeAmountMsat   = 2000000000

	cakeDescription = "One piece of chocolate cake, one icecream cone, one pickle, one slice of swiss cheese, one slice of salami, one lollypop, one piece of cherry pie, one sausage, one cupcake, and one slice of watermelon"
)

const aliceMetadata = `[["text/plain","pay alice"]]`

func init() {
	log.SetLevel(log.DebugLevel)
}

type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// stubClient answers every request with the body registered for its URL
// (without query) and records the requested URLs.
type stubClient struct {
	mu     sync.Mutex
	urls   []string
	bodies map[string]string
}

func newStubClient(bodies map[string]string) *stubClient {
	return &stubClient{bodies: bodies}
}

func (s *stubClient) client() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		s.mu.Lock()
		s.urls = append(s.urls, r.URL.String())
		s.mu.Unlock()

		u := *r.URL
		u.RawQuery = ""
		body, ok := s.bodies[u.String()]
		status := http.StatusOK
		if !ok {
			status = http.StatusNotFound
			body = "not found"
		}
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	})}
}

func (s *stubClient) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

// rawJSON is written to the wire verbatim by peer.
type rawJSON string

// peer is a TLS test server speaking LNURL-pay.
type peer struct {
	*httptest.Server
	mu       sync.Mutex
	hits     int
	override http.Handler
	first    func(callback string) interface{}

	// second returns the raw callback body for an amount query.
	second func(amount string) string
}

func newPeer(t *testing.T) *peer {
	p := &peer{}
	p.first = func(callback string) interface{} {
		return map[string]interface{}{
			"tag":            "payRequest",
			"callback":       callback,
			"metadata":       aliceMetadata,
			"minSendable":    1000,
			"maxSendable":    int64(cakeAmountMsat),
			"commentAllowed": 0,
			"nostrPubkey":    "",
			"allowsNostr":    false,
		}
	}
	p.second = func(string) string {
		return `{"pr":"` + donationInvoice + `","routes":[]}`
	}

	router := mux.NewRouter()
	router.HandleFunc("/.well-known/lnurlp/{username}", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.hits++
		first := p.first
		p.mu.Unlock()
		v := first(p.URL + "/callback/" + mux.Vars(r)["username"] + "/")
		if raw, ok := v.(rawJSON); ok {
			_, _ = w.Write([]byte(raw))
			return
		}
		_ = json.NewEncoder(w).Encode(v)
	})
	router.HandleFunc("/callback/{username}", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.hits++
		second := p.second
		p.mu.Unlock()
		_, _ = w.Write([]byte(second(r.URL.Query().Get("amount"))))
	})
	p.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		override := p.override
		p.mu.Unlock()
		if override != nil {
			override.ServeHTTP(w, r)
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(p.Close)
	return p
}

func (p *peer) host() string {
	u, _ := url.Parse(p.URL)
	return u.Host
}

func (p *peer) address(user string) string {
	return user + "@" + p.host()
}

func (p *peer) hitCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits
}

func (p *peer) setFirst(f func(callback string) interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.first = f
}

func (p *peer) setSecond(f func(amount string) string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.second = f
}

func (p *peer) setHandler(h http.Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.override = h
}

func (p *peer) resolver() *Resolver {
	return NewResolver(WithHTTPClient(p.Client()))
}

func (p *peer) requester(opts ...Option) *Requester {
	return NewRequester(append([]Option{WithHTTPClient(p.Client())}, opts...)...)
}

func metadataHash(metadata string) string {
	hash := sha256.Sum256([]byte(metadata))
	return hex.EncodeToString(hash[:])
}

// fakeDecoder returns an invoice with the given amount and description hash
// for any payment request.
func fakeDecoder(amountMsat int64, descriptionHash string) InvoiceDecoder {
	return func(pr string) (*lightning.Invoice, error) {
		inv := &lightning.Invoice{PaymentRequest: pr}
		inv.MSatoshi = amountMsat
		inv.DescriptionHash = descriptionHash
		inv.PaymentHash = "00"
		return inv, nil
	}
}
