package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coenradina/splitbill/internal/extract"
	"github.com/coenradina/splitbill/internal/models"
	"github.com/coenradina/splitbill/internal/token"
)

var stateFieldRe = regexp.MustCompile(`name="state" value="([^"]+)"`)

func newTestRouter(t *testing.T) (*echo.Echo, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec([]byte("handler-test-secret"))
	require.NoError(t, err)
	e, err := NewRouter(Dependencies{
		Extractor: extract.NewStub(),
		Codec:     codec,
	})
	require.NoError(t, err)
	return e, codec
}

func postParse(t *testing.T, e *echo.Echo, names string, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("names", names))
	if image != nil {
		part, err := writer.CreateFormFile("bill", "bill.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/parse", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postResult(t *testing.T, e *echo.Echo, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/result", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleIndex(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/parse"`)
	assert.Contains(t, rec.Body.String(), `name="bill"`)
	assert.Contains(t, rec.Body.String(), `name="names"`)
}

func TestHandleParse(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := postParse(t, e, "Alice, Bob", []byte("pretend this is a photo"))
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()

	// One cell per (item, participant) pair: 3 items × 2 people.
	for _, input := range []string{
		"share_0_0", "share_0_1",
		"share_1_0", "share_1_1",
		"share_2_0", "share_2_1",
	} {
		assert.Contains(t, page, input)
	}
	assert.NotContains(t, page, "share_3_0")
	assert.Contains(t, page, `name="even_split"`)
	assert.Regexp(t, stateFieldRe, page)
	assert.Contains(t, page, "Burger")
}

func TestHandleParseWithoutImage(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := postParse(t, e, "Alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "share_0_0")
	assert.Contains(t, rec.Body.String(), "Soda")
}

func TestWorkflowEvenSplit(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := postParse(t, e, "Alice,Bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	match := stateFieldRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2)

	form := url.Values{
		"state":      {match[1]},
		"even_split": {"on"},
		// Present but ignored in even mode.
		"share_0_0": {"1"},
	}
	rec = postResult(t, e, form)
	require.Equal(t, http.StatusOK, rec.Code)

	// Sample bill totals 19.00, so 9.50 each.
	page := rec.Body.String()
	assert.Contains(t, page, "Alice")
	assert.Contains(t, page, "Bob")
	assert.Equal(t, 2, strings.Count(page, "9.50"))
}

func TestWorkflowProportionalSplit(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := postParse(t, e, "Alice,Bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	match := stateFieldRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2)

	// Burger fully Alice, Fries fully Bob, Soda split evenly.
	form := url.Values{
		"state":     {match[1]},
		"share_0_0": {"1"},
		"share_0_1": {"0"},
		"share_1_0": {"0"},
		"share_1_1": {"1"},
		"share_2_0": {"0.5"},
		"share_2_1": {"0.5"},
		// Typos degrade to zero shares instead of failing.
		"share_9_9": {"1"},
		"share_0_x": {"oops"},
	}
	rec = postResult(t, e, form)
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	assert.Contains(t, page, "13.00")
	assert.Contains(t, page, "6.00")
}

func TestWorkflowPreservesHTMLSpecialNames(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := postParse(t, e, `Bob & <Carol>, D"Ann`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "Bob &amp; &lt;Carol&gt;")
	assert.NotContains(t, page, "Bob & <Carol>")

	match := stateFieldRe.FindStringSubmatch(page)
	require.Len(t, match, 2)

	rec = postResult(t, e, url.Values{
		"state":      {match[1]},
		"even_split": {"on"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bob &amp; &lt;Carol&gt;")
	assert.Contains(t, rec.Body.String(), "9.50")
}

// failingExtractor reports every image as unreadable, the way a real
// extractor does on corrupt input.
type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, []byte, string) ([]models.LineItem, error) {
	return nil, fmt.Errorf("%w: unreadable image data", extract.ErrExtraction)
}

func (failingExtractor) Close() error { return nil }

func TestHandleParseExtractionFailure(t *testing.T) {
	codec, err := token.NewCodec([]byte("handler-test-secret"))
	require.NoError(t, err)
	e, err := NewRouter(Dependencies{
		Extractor: failingExtractor{},
		Codec:     codec,
	})
	require.NoError(t, err)

	rec := postParse(t, e, "Alice,Bob", []byte("corrupt image bytes"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "clearer photo")
}

func TestHandleResultRejectsBadToken(t *testing.T) {
	e, _ := newTestRouter(t)

	for _, state := range []string{"", "garbage", "a.b.c"} {
		rec := postResult(t, e, url.Values{"state": {state}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "upload")
	}
}

func TestHandleResultRejectsZeroParticipants(t *testing.T) {
	e, codec := newTestRouter(t)

	tok, err := codec.Encode(extract.SampleItems(), nil)
	require.NoError(t, err)

	rec := postResult(t, e, url.Values{
		"state":      {tok},
		"even_split": {"on"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "participant")
}

func TestUnknownPathIs404(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestHealthz(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
