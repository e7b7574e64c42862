package lnaddress

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/fiatjaf/go-lnurl"
	"github.com/tidwall/gjson"
)

// remoteError turns an LNURL {"status":"ERROR"} body into an error.
func remoteError(j gjson.Result, rawurl string) error {
	if !strings.EqualFold(j.Get("status").String(), statusError) {
		return nil
	}
	resp := lnurl.LNURLErrorResponse{
		Reason: j.Get("reason").String(),
		Status: statusError,
	}
	// rawurl is the request URL; without it the error still carries the reason
	if parsed, err := url.Parse(rawurl); err == nil {
		resp.URL = parsed
	}
	return resp
}

func requireType(j gjson.Result, field string, typ gjson.Type) error {
	v := j.Get(field)
	if !v.Exists() {
		return fmt.Errorf("missing field %q", field)
	}
	if v.Type != typ {
		return fmt.Errorf("field %q must be %s", field, typeName(typ))
	}
	return nil
}

func optionalType(j gjson.Result, field string, types ...gjson.Type) error {
	v := j.Get(field)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	for _, typ := range types {
		if v.Type == typ {
			return nil
		}
	}
	return fmt.Errorf("field %q must be %s", field, typeName(types[0]))
}

func requireInteger(j gjson.Result, field string) error {
	if err := requireType(j, field, gjson.Number); err != nil {
		return err
	}
	n := j.Get(field).Num
	if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
		return fmt.Errorf("field %q must be an integer", field)
	}
	return nil
}

func typeName(typ gjson.Type) string {
	switch typ {
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	case gjson.JSON:
		return "an object"
	}
	return typ.String()
}

// parseWellKnown checks the discovery payload shape and decodes it.
func parseWellKnown(body []byte) (*WellKnownResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	j := gjson.ParseBytes(body)
	if !j.IsObject() {
		return nil, fmt.Errorf("body is not a JSON object")
	}
	for _, field := range []string{"tag", "callback", "metadata"} {
		if err := requireType(j, field, gjson.String); err != nil {
			return nil, err
		}
	}
	for _, field := range []string{"minSendable", "maxSendable"} {
		if err := requireInteger(j, field); err != nil {
			return nil, err
		}
	}
	if err := optionalType(j, "status", gjson.String); err != nil {
		return nil, err
	}
	if err := optionalType(j, "commentAllowed", gjson.Number); err != nil {
		return nil, err
	}
	if err := optionalType(j, "nostrPubkey", gjson.String); err != nil {
		return nil, err
	}
	if err := optionalType(j, "allowsNostr", gjson.True, gjson.False); err != nil {
		return nil, err
	}
	if err := optionalType(j, "payerData", gjson.JSON); err != nil {
		return nil, err
	}

	var resp WellKnownResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// parseCallback checks the callback payload shape and decodes it.
func parseCallback(body []byte) (*CallbackResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("body is not valid JSON")
	}
	j := gjson.ParseBytes(body)
	if !j.IsObject() {
		return nil, fmt.Errorf("body is not a JSON object")
	}
	if err := requireType(j, "pr", gjson.String); err != nil {
		return nil, err
	}
	if strings.TrimSpace(j.Get("pr").String()) == "" {
		return nil, fmt.Errorf("field %q is empty", "pr")
	}
	if err := optionalType(j, "successAction", gjson.JSON); err != nil {
		return nil, err
	}
	if err := optionalType(j, "verify", gjson.String); err != nil {
		return nil, err
	}
	if r := j.Get("routes"); r.Exists() && r.Type != gjson.Null && !r.IsArray() {
		return nil, fmt.Errorf("field %q must be an array", "routes")
	}

	var resp CallbackResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// normalizeCallback strips trailing slashes. It is idempotent.
func normalizeCallback(callback string) string {
	return strings.TrimRight(callback, "/")
}

// validateCallback requires an absolute https URL, or plain http towards an
// onion service.
func validateCallback(callback string) error {
	u, err := url.Parse(callback)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("callback %q is not absolute", callback)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return nil
	case "http":
		if strings.HasSuffix(strings.ToLower(u.Hostname()), ".onion") {
			return nil
		}
	}
	return fmt.Errorf("callback %q must use https", callback)
}

func validateMetadata(raw string) error {
	var metadata lnurl.Metadata
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return fmt.Errorf("metadata is not an LNURL metadata array: %w", err)
	}
	return nil
}

// parseLoose returns an empty result for bodies that are not JSON.
func parseLoose(body []byte) gjson.Result {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(body)
}
