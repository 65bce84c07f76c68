// Package apiclient talks to the remote rental REST API.
//
// Every call is a single attempt bounded by the caller's context. Responses use the
// envelope {"status", "message", "data"}; shapes inside data are read with gjson since
// the API does not publish a schema.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/metrics"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

// ErrEmailNotVerified is returned by Login when the account still needs OTP verification.
var ErrEmailNotVerified = errors.New("email address not verified")

type Client struct {
	BaseURL string
	HTTP    *http.Client

	// PlacesURL and PlacesKey configure the Google Places proxy.
	PlacesURL string
	PlacesKey string
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTP:      &http.Client{Timeout: timeout},
		PlacesURL: "https://maps.googleapis.com/maps/api/place/autocomplete/json",
	}
}

// File is a multipart upload part.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

type Request struct {
	Method string
	Path   string
	// Endpoint labels metrics; defaults to "METHOD path".
	Endpoint string
	Query    url.Values
	Body     any
	File     *File
	Token    string
}

type Response struct {
	Status int
	Body   []byte
}

// Data returns the envelope's data node, or the whole body when there is no envelope.
func (r Response) Data() gjson.Result {
	if d := gjson.GetBytes(r.Body, "data"); d.Exists() {
		return d
	}
	return gjson.ParseBytes(r.Body)
}

// Message is the envelope's human-readable message, if any.
func (r Response) Message() string {
	return messageOf(r.Body)
}

// Decode unmarshals the data node into dst.
func (r Response) Decode(dst any) error {
	return decodeResult(r.Data(), dst)
}

func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Method + " " + req.Path
	}
	start := time.Now()
	res, err := c.do(ctx, req)
	metrics.RecordUpstreamCall(endpoint, outcomeOf(err), time.Since(start))
	return res, err
}

func (c *Client) do(ctx context.Context, req Request) (Response, error) {
	u := c.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return Response{}, domain.InternalError{Msg: "could not encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return Response{}, domain.InternalError{Msg: "could not build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if rid := RequestIDFrom(ctx); rid != "" {
		httpReq.Header.Set("X-Request-ID", rid)
	}

	httpRes, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Response{}, domain.UpstreamError{Msg: "could not reach the rental service, please try again", Err: err}
	}
	defer httpRes.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpRes.Body, maxResponseBytes))
	if err != nil {
		return Response{}, domain.UpstreamError{Status: httpRes.StatusCode, Err: err}
	}
	res := Response{Status: httpRes.StatusCode, Body: raw}
	if httpRes.StatusCode >= 200 && httpRes.StatusCode < 300 {
		return res, nil
	}
	return res, classify(httpRes.StatusCode, raw)
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.File != nil {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		field := req.File.Field
		if field == "" {
			field = "file"
		}
		part, err := mw.CreatePart(fileHeader(field, req.File.Name, req.File.ContentType))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(req.File.Data); err != nil {
			return nil, "", err
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return &buf, mw.FormDataContentType(), nil
	}
	if req.Body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "application/json", nil
}

func fileHeader(field, name, contentType string) map[string][]string {
	name = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
	return map[string][]string{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, name)},
		"Content-Type":        {contentType},
	}
}

// classify maps a non-2xx response onto the domain error taxonomy.
func classify(status int, body []byte) error {
	msg := messageOf(body)
	code := strings.ToUpper(gjson.GetBytes(body, "code").String())

	switch {
	case code == "EMAIL_NOT_VERIFIED":
		return domain.UnauthorizedError{Msg: orDefault(msg, "please verify your email address"), Err: ErrEmailNotVerified}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: orDefault(msg, "the request was rejected")}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.UnauthorizedError{Msg: msg}
	case status == http.StatusNotFound:
		return domain.NotFoundError{Resource: orDefault(gjson.GetBytes(body, "resource").String(), "resource"), Err: errors.New(msg)}
	case status == http.StatusConflict:
		return domain.ConflictError{Msg: msg}
	default:
		return domain.UpstreamError{Status: status, Msg: msg}
	}
}

func messageOf(body []byte) string {
	for _, path := range []string{"message", "error", "errors.0.message", "errors.0"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "invalid"
	case domain.IsUnauthorized(err):
		return "unauthorized"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsConflict(err):
		return "conflict"
	default:
		return "error"
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func decodeResult(res gjson.Result, dst any) error {
	if !res.Exists() {
		return domain.UpstreamError{Msg: "the rental service returned an empty response"}
	}
	if err := json.Unmarshal([]byte(res.Raw), dst); err != nil {
		return domain.UpstreamError{Msg: "the rental service returned an unexpected response", Err: err}
	}
	return nil
}

// firstString returns the first non-empty string found at any of paths.
func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := res.Get(p); v.Exists() && strings.TrimSpace(v.String()) != "" {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

type requestIDKey struct{}

// WithRequestID tags ctx so outgoing calls carry X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
