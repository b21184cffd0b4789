// Package api is the workflow orchestrator: it sequences the three
// bill-splitting stages (upload, assign, result) over HTTP. The service
// is stateless between requests; everything a stage needs arrives in
// the request itself, carried through the signed state token.
package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coenradina/splitbill/internal/calculator"
	"github.com/coenradina/splitbill/internal/extract"
	"github.com/coenradina/splitbill/internal/models"
	"github.com/coenradina/splitbill/internal/token"
)

var (
	billsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbill_bills_parsed_total",
		Help: "Bills put through the upload stage.",
	})
	splitsCalculated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbill_splits_calculated_total",
		Help: "Completed split calculations, by mode.",
	}, []string{"mode"})
)

// Handler serves the three workflow stages. All collaborators are
// stateless or immutable, so a single Handler is shared across
// concurrent requests without locking.
type Handler struct {
	extractor extract.Extractor
	codec     *token.Codec
}

// NewHandler creates the workflow handler.
func NewHandler(extractor extract.Extractor, codec *token.Codec) *Handler {
	return &Handler{extractor: extractor, codec: codec}
}

type assignPage struct {
	Token        string
	Items        []models.LineItem
	Participants []string
}

type resultRow struct {
	Name   string
	Amount float64
}

type resultPage struct {
	Rows []resultRow
}

// HandleIndex renders the upload form.
func (h *Handler) HandleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

// HandleParse is the upload stage: it extracts line items from the
// uploaded image (if any), parses the participant names, and renders
// the assignment form with the encoded state token embedded.
//
// An empty participant list is deliberately not rejected here; the
// calculator reports it at the result stage.
func (h *Handler) HandleParse(c echo.Context) error {
	participants := models.ParseParticipants(c.FormValue("names"))

	var image []byte
	var contentType string
	if fh, err := c.FormFile("bill"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return fmt.Errorf("opening uploaded bill: %w", err)
		}
		defer src.Close()
		if image, err = io.ReadAll(src); err != nil {
			return fmt.Errorf("reading uploaded bill: %w", err)
		}
		contentType = fh.Header.Get("Content-Type")
	}

	items, err := h.extractor.Extract(c.Request().Context(), image, contentType)
	if err != nil {
		return err
	}

	tok, err := h.codec.Encode(items, participants)
	if err != nil {
		return fmt.Errorf("encoding workflow state: %w", err)
	}

	billsParsed.Inc()
	slog.Info("Bill parsed",
		"items", len(items),
		"participants", len(participants),
		"image_bytes", len(image),
	)

	return c.Render(http.StatusOK, "assign.html", assignPage{
		Token:        tok,
		Items:        items,
		Participants: participants,
	})
}

// HandleResult is the final stage: it decodes the state token and the
// flat share fields, runs the split calculation, and renders one row
// per participant with amounts at two decimal places.
func (h *Handler) HandleResult(c echo.Context) error {
	items, participants, err := h.codec.Decode(c.FormValue("state"))
	if err != nil {
		return err
	}

	mode := models.SplitProportional
	if c.FormValue("even_split") == "on" {
		mode = models.SplitEven
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form submission")
	}
	shares := token.DecodeShareMatrix(form, len(items), len(participants))

	totals, err := calculator.Totals(items, participants, mode, shares)
	if err != nil {
		return err
	}

	// Row order follows the participant list; duplicate names render
	// the same merged amount on each of their rows.
	rows := make([]resultRow, len(participants))
	for i, name := range participants {
		rows[i] = resultRow{Name: name, Amount: totals[name]}
	}

	splitsCalculated.WithLabelValues(mode.String()).Inc()
	slog.Info("Split calculated", "mode", mode.String(), "participants", len(participants))

	return c.Render(http.StatusOK, "result.html", resultPage{Rows: rows})
}

// HandleHealth is a liveness probe.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
