package api_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	goimage "image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DMarby/photo-strip/internal/api"
	"github.com/DMarby/photo-strip/internal/cache/memory"
	fileDatabase "github.com/DMarby/photo-strip/internal/database/file"
	mockDatabase "github.com/DMarby/photo-strip/internal/database/mock"
	"github.com/DMarby/photo-strip/internal/health"
	"github.com/DMarby/photo-strip/internal/hmac"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/image/compositor"
	mockProcessor "github.com/DMarby/photo-strip/internal/image/mock"
	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/raster"
	mockStorage "github.com/DMarby/photo-strip/internal/storage/mock"
	"github.com/DMarby/photo-strip/internal/strip"
	"github.com/DMarby/photo-strip/internal/tracing/test"
	"go.uber.org/zap"
)

const rootURL = "https://strips.example.com"

type field struct {
	name, value string
}

func encodedPhoto(t *testing.T, c color.NRGBA) []byte {
	t.Helper()

	r, err := raster.New(40, 30)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(r.Pix); i += 4 {
		r.Pix[i], r.Pix[i+1], r.Pix[i+2], r.Pix[i+3] = c.R, c.G, c.B, c.A
	}

	data, err := r.EncodePNG()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func multipartRequest(t *testing.T, path string, photos [][]byte, fields ...field) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			t.Fatal(err)
		}
	}

	for i, photo := range photos {
		part, err := w.CreateFormFile("photo", fmt.Sprintf("photo%d.png", i))
		if err != nil {
			t.Fatal(err)
		}
		part.Write(photo)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodPost, path, body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func rgb(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 2 && d(a.G, b.G) <= 2 && d(a.B, b.B) <= 2
}

// errProcessor fails every render and filter with err
type errProcessor struct {
	err error
}

func (p *errProcessor) Render(ctx context.Context, task *image.Task) (*image.Rendered, error) {
	return nil, p.err
}

func (p *errProcessor) Filter(ctx context.Context, task *image.FilterTask) ([]byte, error) {
	return nil, p.err
}

func (p *errProcessor) Shutdown() {}

type testAPI struct {
	*api.API
	router http.Handler
}

func setup(t *testing.T) (*testAPI, *logger.Logger) {
	t.Helper()

	log := logger.New(zap.FatalLevel)
	tracer := test.Tracer(log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := fileDatabase.New(filepath.Join(t.TempDir(), "counter.json"))
	if err != nil {
		t.Fatal(err)
	}

	assets := image.NewAssets(image.NewCache(tracer, memory.New(0), mockStorage.New(nil)))
	processor := compositor.New(ctx, log, tracer, assets, compositor.Config{
		Workers: 2,
		Now: func() time.Time {
			return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
		},
	})
	t.Cleanup(processor.Shutdown)

	checker := &health.Checker{Ctx: ctx, Database: db, Log: log}
	checker.Run()

	a := &api.API{
		Processor:      processor,
		Strips:         memory.New(0),
		Database:       db,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		RootURL:        rootURL,
		HandlerTimeout: 30 * time.Second,
		HMAC:           &hmac.HMAC{Key: []byte("test")},
		MaxUploadSize:  1 << 20,
		MaxPhotoSize:   1 << 20,
	}

	return &testAPI{API: a, router: a.Router()}, log
}

func (a *testAPI) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func TestAPI(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	tests := []struct {
		Name             string
		Method           string
		URL              string
		Body             string
		ExpectedStatus   int
		ExpectedResponse []byte
		ExpectedHeaders  map[string]string
	}{
		{"health", "GET", "/health", "", http.StatusOK, []byte(`{"healthy":true,"database":"healthy"}`), map[string]string{"Content-Type": "application/json", "Cache-Control": "no-cache, no-store, must-revalidate"}},
		{"counter before any visit", "GET", "/v1/counter", "", http.StatusNotFound, []byte("counter does not exist\n"), map[string]string{"Content-Type": "text/plain; charset=utf-8", "Cache-Control": "no-cache, no-store, must-revalidate"}},
		{"record pageview", "POST", "/v1/counter", `{"type":"pageview"}`, http.StatusOK, []byte("{\"pageviews\":1,\"visits\":0}\n"), map[string]string{"Content-Type": "application/json"}},
		{"record visit", "POST", "/v1/counter", `{"type":"visit-pageview"}`, http.StatusOK, []byte("{\"pageviews\":2,\"visits\":1}\n"), map[string]string{"Content-Type": "application/json"}},
		{"counter", "GET", "/v1/counter", "", http.StatusOK, []byte("{\"pageviews\":2,\"visits\":1}\n"), map[string]string{"Content-Type": "application/json", "Cache-Control": "no-cache, no-store, must-revalidate"}},
		{"record missing type", "POST", "/v1/counter", `{}`, http.StatusBadRequest, []byte("missing visit type\n"), nil},
		{"record invalid type", "POST", "/v1/counter", `{"type":"click"}`, http.StatusBadRequest, []byte("invalid visit type: \"click\"\n"), nil},
		{"record invalid body", "POST", "/v1/counter", `type=pageview`, http.StatusBadRequest, []byte("invalid request body\n"), nil},
		{"404", "GET", "/asdf", "", http.StatusNotFound, []byte("page not found\n"), map[string]string{"Content-Type": "text/plain; charset=utf-8", "Cache-Control": "no-cache, no-store, must-revalidate"}},
		{"download bad key", "GET", "/v1/strips/abc.png", "", http.StatusNotFound, []byte("page not found\n"), nil},
		{"download missing hmac", "GET", "/v1/strips/0123456789abcdef0123456789abcdef.png", "", http.StatusUnauthorized, []byte("invalid signature\n"), nil},
		{"download wrong hmac", "GET", "/v1/strips/0123456789abcdef0123456789abcdef.png?hmac=abc", "", http.StatusUnauthorized, []byte("invalid signature\n"), nil},
	}

	for _, test := range tests {
		w := a.serve(httptest.NewRequest(test.Method, test.URL, strings.NewReader(test.Body)))
		if w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
			continue
		}

		for expectedHeader, expectedValue := range test.ExpectedHeaders {
			headerValue := w.Header().Get(expectedHeader)
			if headerValue != expectedValue {
				t.Errorf("%s: wrong header value for %s, %#v", test.Name, expectedHeader, headerValue)
			}
		}

		if !reflect.DeepEqual(w.Body.Bytes(), test.ExpectedResponse) {
			t.Errorf("%s: wrong response %#v", test.Name, w.Body.String())
		}
	}
}

func TestJSONErrors(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	r := httptest.NewRequest("GET", "/asdf", nil)
	r.Header.Set("Accept", "application/json")

	w := a.serve(r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("wrong response code, %#v", w.Code)
	}

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("wrong content type %s", got)
	}

	if got := w.Body.String(); got != "{\"error\":\"page not found\"}\n" {
		t.Errorf("wrong response %#v", got)
	}
}

var keyPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestRenderStrip(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	red := encodedPhoto(t, color.NRGBA{255, 0, 0, 255})
	blue := encodedPhoto(t, color.NRGBA{0, 0, 255, 255})

	w := a.serve(multipartRequest(t, "/v1/strips", [][]byte{red, blue},
		field{"background", "black"},
		field{"text", "hello"},
		field{"session", "booth-1"},
	))
	if w.Code != http.StatusOK {
		t.Fatalf("wrong response code, %#v: %s", w.Code, w.Body.String())
	}

	expectedHeaders := map[string]string{
		"Content-Type":        "image/png",
		"Content-Disposition": `attachment; filename="photostrip.png"`,
		"Cache-Control":       "no-cache, no-store, must-revalidate",
	}
	for header, expected := range expectedHeaders {
		if got := w.Header().Get(header); got != expected {
			t.Errorf("wrong header value for %s, %#v", header, got)
		}
	}

	if w.Header().Get(api.StripFailedPhotosHeader) != "" {
		t.Errorf("unexpected failed photos %s", w.Header().Get(api.StripFailedPhotosHeader))
	}

	key := w.Header().Get(api.StripKeyHeader)
	if !keyPattern.MatchString(key) {
		t.Fatalf("wrong strip key %#v", key)
	}

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	if got := img.Bounds(); got != goimage.Rect(0, 0, 480, 770) {
		t.Errorf("wrong strip bounds %v", got)
	}

	// Photo 0 is at 40, 40, photo 1 below it at 40, 360
	if got := rgb(img.At(240, 190)); !near(got, color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("wrong first photo color %v", got)
	}
	if got := rgb(img.At(240, 510)); !near(got, color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("wrong second photo color %v", got)
	}

	t.Run("download", func(t *testing.T) {
		signed := w.Header().Get(api.StripURLHeader)
		if !strings.HasPrefix(signed, rootURL+"/v1/strips/"+key+".png?hmac=") {
			t.Fatalf("wrong strip url %#v", signed)
		}

		u, err := url.Parse(signed)
		if err != nil {
			t.Fatal(err)
		}

		download := a.serve(httptest.NewRequest("GET", u.RequestURI(), nil))
		if download.Code != http.StatusOK {
			t.Fatalf("wrong response code, %#v", download.Code)
		}

		if got := download.Header().Get("Content-Type"); got != "image/png" {
			t.Errorf("wrong content type %s", got)
		}

		if !bytes.Equal(download.Body.Bytes(), w.Body.Bytes()) {
			t.Error("downloaded strip differs from the rendered one")
		}

		// A signature for the png is not valid for the jpg
		jpgURL := strings.Replace(u.RequestURI(), ".png?", ".jpg?", 1)
		if download := a.serve(httptest.NewRequest("GET", jpgURL, nil)); download.Code != http.StatusUnauthorized {
			t.Errorf("wrong response code for jpg, %#v", download.Code)
		}
	})

	t.Run("same request gets the same key", func(t *testing.T) {
		again := a.serve(multipartRequest(t, "/v1/strips", [][]byte{red, blue},
			field{"background", "black"},
			field{"text", "hello"},
			field{"session", "booth-2"},
		))
		if again.Code != http.StatusOK {
			t.Fatalf("wrong response code, %#v", again.Code)
		}

		if got := again.Header().Get(api.StripKeyHeader); got != key {
			t.Errorf("wrong strip key %#v, expected %#v", got, key)
		}
	})
}

func TestRenderStripEvicted(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	w := a.serve(multipartRequest(t, "/v1/strips", [][]byte{encodedPhoto(t, color.NRGBA{255, 0, 0, 255})}))
	if w.Code != http.StatusOK {
		t.Fatalf("wrong response code, %#v", w.Code)
	}

	u, err := url.Parse(w.Header().Get(api.StripURLHeader))
	if err != nil {
		t.Fatal(err)
	}

	a.Strips = memory.New(0)
	a.router = a.Router()

	if download := a.serve(httptest.NewRequest("GET", u.RequestURI(), nil)); download.Code != http.StatusNotFound {
		t.Errorf("wrong response code, %#v", download.Code)
	}
}

func TestRenderStripRequests(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	red := encodedPhoto(t, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		Name            string
		Photos          [][]byte
		Fields          []field
		ExpectedStatus  int
		ExpectedHeaders map[string]string
	}{
		{"jpeg", [][]byte{red}, []field{{"format", "jpg"}}, http.StatusOK, map[string]string{
			"Content-Type":        "image/jpeg",
			"Content-Disposition": `attachment; filename="photostrip.jpg"`,
		}},
		{"skipped photo", [][]byte{red, []byte("garbage"), red}, nil, http.StatusOK, map[string]string{
			api.StripFailedPhotosHeader: "1",
		}},
		{"filters and stickers", [][]byte{red, red}, []field{
			{"preset", "vintage"},
			{"photo.1.filter", "grayscale(100%)"},
			{"stickers", "panda"},
			{"decoration", "hearts"},
			{"duplicate", "true"},
			{"background", "film"},
		}, http.StatusOK, map[string]string{"Content-Type": "image/png"}},
		{"no photos", nil, nil, http.StatusBadRequest, nil},
		{"text too long", [][]byte{red}, []field{{"text", strings.Repeat("a", strip.MaxTextLength+1)}}, http.StatusBadRequest, nil},
		{"invalid background", [][]byte{red}, []field{{"background", "#12"}}, http.StatusBadRequest, nil},
		{"invalid format", [][]byte{red}, []field{{"format", "gif"}}, http.StatusBadRequest, nil},
		{"invalid session", [][]byte{red}, []field{{"session", "no spaces"}}, http.StatusBadRequest, nil},
	}

	for _, test := range tests {
		w := a.serve(multipartRequest(t, "/v1/strips", test.Photos, test.Fields...))
		if w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v: %s", test.Name, w.Code, w.Body.String())
			continue
		}

		for expectedHeader, expectedValue := range test.ExpectedHeaders {
			if got := w.Header().Get(expectedHeader); got != expectedValue {
				t.Errorf("%s: wrong header value for %s, %#v", test.Name, expectedHeader, got)
			}
		}
	}
}

func TestRenderErrors(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	red := encodedPhoto(t, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		Name           string
		Processor      image.Processor
		ExpectedStatus int
	}{
		{"superseded", &errProcessor{strip.ErrSuperseded}, http.StatusConflict},
		{"decode error", &errProcessor{&strip.DecodeError{Index: 0, Err: errors.New("bad data")}}, http.StatusUnprocessableEntity},
		{"processing error", &mockProcessor.Processor{}, http.StatusInternalServerError},
	}

	for _, test := range tests {
		a.Processor = test.Processor
		a.router = a.Router()

		w := a.serve(multipartRequest(t, "/v1/strips", [][]byte{red}))
		if w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
		}

		if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
			t.Errorf("%s: wrong cache control %#v", test.Name, got)
		}
	}
}

func TestFilter(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	red := encodedPhoto(t, color.NRGBA{255, 0, 0, 255})

	w := a.serve(multipartRequest(t, "/v1/filter", [][]byte{red}, field{"filter", "invert(100%)"}))
	if w.Code != http.StatusOK {
		t.Fatalf("wrong response code, %#v: %s", w.Code, w.Body.String())
	}

	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("wrong content type %s", got)
	}

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	if got := img.Bounds(); got != goimage.Rect(0, 0, 40, 30) {
		t.Errorf("wrong bounds %v", got)
	}

	if got := rgb(img.At(10, 10)); !near(got, color.NRGBA{0, 255, 255, 255}) {
		t.Errorf("wrong filtered color %v", got)
	}

	tests := []struct {
		Name           string
		Photos         [][]byte
		ExpectedStatus int
	}{
		{"garbage", [][]byte{[]byte("garbage")}, http.StatusUnprocessableEntity},
		{"oversized", [][]byte{oversizedPNG(t)}, http.StatusUnprocessableEntity},
		{"two photos", [][]byte{red, red}, http.StatusBadRequest},
		{"no photo", nil, http.StatusBadRequest},
	}

	for _, test := range tests {
		if w := a.serve(multipartRequest(t, "/v1/filter", test.Photos)); w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
		}
	}
}

func TestCatalog(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	w := a.serve(httptest.NewRequest("GET", "/v1/catalog", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("wrong response code, %#v", w.Code)
	}

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("wrong content type %s", got)
	}

	for _, expected := range []string{`"hearts"`, `"panda"`, `"vintage"`, `"film"`, `"max_text_length":20`, `"formats":["png","jpg"]`} {
		if !strings.Contains(w.Body.String(), expected) {
			t.Errorf("catalog is missing %s", expected)
		}
	}
}

func TestCatalogPresets(t *testing.T) {
	c := api.NewCatalog()

	seen := map[string]bool{}
	for _, p := range c.Presets {
		if seen[p.Slug] {
			t.Errorf("duplicate preset %s", p.Slug)
		}
		seen[p.Slug] = true
	}

	if len(c.Decorations) == 0 || c.Decorations[0] != "none" {
		t.Errorf("wrong decorations %v", c.Decorations)
	}
}

func TestCounterDatabaseError(t *testing.T) {
	a, log := setup(t)
	defer log.Sync()

	a.Database = &mockDatabase.Provider{}
	a.router = a.Router()

	tests := []struct {
		Name   string
		Method string
		Body   string
	}{
		{"get", "GET", ""},
		{"record", "POST", `{"type":"pageview"}`},
	}

	for _, test := range tests {
		w := a.serve(httptest.NewRequest(test.Method, "/v1/counter", strings.NewReader(test.Body)))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
		}
	}
}

// oversizedPNG is a one pixel png whose header claims 8000x8000 pixels
func oversizedPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, goimage.NewGray(goimage.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:], 8000)
	binary.BigEndian.PutUint32(data[20:], 8000)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))
	return data
}
