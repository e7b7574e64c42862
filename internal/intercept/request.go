package intercept

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type RequestFuncHandler func(ctx context.Context, writer http.ResponseWriter, request *http.Request)
type RequestFunc func(ctx context.Context, request *http.Request) (context.Context, error)

// ErrorHandler answers a request whose before chain failed.
type ErrorHandler func(writer http.ResponseWriter, err error)

type handlerRequestInterceptor struct {
	handler RequestFuncHandler
	onError ErrorHandler
	before  RequestChain
	after   RequestChain
}
type RequestChain []RequestFunc
type RequestInterceptOption func(*handlerRequestInterceptor)

func WithBeforeRequest(chain ...RequestFunc) RequestInterceptOption {
	return func(a *handlerRequestInterceptor) {
		a.before = chain
	}
}
func WithAfterRequest(chain ...RequestFunc) RequestInterceptOption {
	return func(a *handlerRequestInterceptor) {
		a.after = chain
	}
}

// WithErrorHandler replaces the default 500 response for a failed before chain.
func WithErrorHandler(onError ErrorHandler) RequestInterceptOption {
	return func(a *handlerRequestInterceptor) {
		a.onError = onError
	}
}

func interceptRequest(ctx context.Context, request *http.Request, hm RequestChain) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if hm != nil {
		var err error
		for _, m := range hm {
			ctx, err = m(ctx, request)
			if err != nil {
				return ctx, err
			}
		}
	}
	return ctx, nil
}

func defaultErrorHandler(writer http.ResponseWriter, err error) {
	http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// HandlerWithRequest runs the before chain, the handler and the after chain.
// The context returned by each step is passed to the next one. A failing
// before step stops the request; a failing after step is only logged.
func HandlerWithRequest(handler RequestFuncHandler, option ...RequestInterceptOption) http.HandlerFunc {
	hm := &handlerRequestInterceptor{handler: handler, onError: defaultErrorHandler}
	for _, opt := range option {
		opt(hm)
	}
	return func(writer http.ResponseWriter, request *http.Request) {
		ctx, err := interceptRequest(request.Context(), request, hm.before)
		if err != nil {
			log.Errorln(err)
			hm.onError(writer, err)
			return
		}
		hm.handler(ctx, writer, request)
		_, err = interceptRequest(ctx, request, hm.after)
		if err != nil {
			log.Errorln(err)
			return
		}
	}
}
