package http

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/config"
	"github.com/IgorGrieder/shortlinks/internal/constants"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/metrics"
	appvalidation "github.com/IgorGrieder/shortlinks/internal/infrastructure/validation"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"github.com/IgorGrieder/shortlinks/pkg/httputils"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type LinksHandler struct {
	cfg  *config.Config
	svc  *links.Service
	page *template.Template
}

func NewLinksHandler(cfg *config.Config, svc *links.Service) *LinksHandler {
	return &LinksHandler{
		cfg:  cfg,
		svc:  svc,
		page: indexTemplate,
	}
}

// indexPage is the form page model. Exactly one of ShortLink and Error is
// set after a submission.
type indexPage struct {
	AppName        string
	DefaultMinutes int

	URL       string
	ShortCode string
	Validity  string

	ShortLink string
	Error     string
}

func (h *LinksHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.newPage())
}

// ShortenForm handles the HTML form. It always answers 200 and reports
// failures in the page's error slot.
func (h *LinksHandler) ShortenForm(w http.ResponseWriter, r *http.Request) {
	page := h.newPage()

	if err := r.ParseForm(); err != nil {
		page.Error = constants.MsgInvalidRequestBody
		h.render(w, r, page)
		return
	}

	in := links.ShortenInput{
		URL:       r.PostFormValue("url"),
		ShortCode: r.PostFormValue("shortcode"),
		Validity:  r.PostFormValue("validity"),
	}

	link, err := h.svc.Shorten(r.Context(), in)
	if err != nil {
		page.URL, page.ShortCode, page.Validity = in.URL, in.ShortCode, in.Validity
		page.Error = h.apiError(err, "shorten").Message
		h.render(w, r, page)
		return
	}

	metrics.LinksCreated.Inc()
	page.ShortLink = h.shortLink(link.ShortCode)
	h.render(w, r, page)
}

func (h *LinksHandler) newPage() indexPage {
	return indexPage{
		AppName:        h.cfg.App.Name,
		DefaultMinutes: int(h.cfg.Shortener.DefaultValidity / time.Minute),
	}
}

func (h *LinksHandler) render(w http.ResponseWriter, r *http.Request, page indexPage) {
	w.Header().Set(httputils.CorrelationIDHeader, httputils.GetCorrelationID(r))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.page.Execute(w, page); err != nil {
		logger.Error("failed to render index page", zap.Error(err))
	}
}

type createLinkRequest struct {
	URL       string `json:"url" validate:"max=2048"`
	ShortCode string `json:"shortcode,omitempty" validate:"omitempty,shortcode"`
	Validity  *int   `json:"validity,omitempty" validate:"omitempty,gt=0"`
}

type createLinkResponse struct {
	ShortCode string    `json:"shortCode"`
	LongURL   string    `json:"longUrl"`
	ShortLink string    `json:"shortLink"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateAPI is the JSON counterpart of ShortenForm. URL presence and scheme
// are left to the service so both entry points report the same events.
func (h *LinksHandler) CreateAPI(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIError(w, r, createValidationError(err))
		return
	}

	in := links.ShortenInput{URL: req.URL, ShortCode: req.ShortCode}
	if req.Validity != nil {
		in.Validity = strconv.Itoa(*req.Validity)
	}

	link, err := h.svc.Shorten(r.Context(), in)
	if err != nil {
		httputils.WriteAPIError(w, r, h.apiError(err, "shorten"))
		return
	}

	metrics.LinksCreated.Inc()
	httputils.WriteAPISuccess(w, r, constants.SuccessLinkCreated, createLinkResponse{
		ShortCode: link.ShortCode,
		LongURL:   link.LongURL,
		ShortLink: h.shortLink(link.ShortCode),
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
	})
}

func createValidationError(err error) constants.APIError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return constants.ErrInvalidRequestBody
	}

	for _, e := range validationErrs {
		switch e.Field() {
		case "url":
			return constants.ErrInvalidURL
		case "shortcode":
			return constants.ErrInvalidShortCode
		case "validity":
			return constants.ErrInvalidValidity
		}
	}
	return constants.ErrInvalidRequestBody
}

// Redirect resolves a short code. Failures are plain-text bodies; the click
// is stored before the redirect is written.
func (h *LinksHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.svc.Resolve(r.Context(), links.VisitInput{
		ShortCode: code,
		Referrer:  r.Referer(),
	})
	metrics.Redirects.WithLabelValues(string(links.OutcomeOf(err))).Inc()
	if err != nil {
		httputils.WriteText(w, r, h.apiError(err, "resolve", zap.String("short_code", code)))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, link.LongURL, h.cfg.Shortener.RedirectStatus)
}

type statsResponse struct {
	ShortCode string             `json:"shortCode"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Total     int64              `json:"total"`
	Daily     []links.DailyCount `json:"daily"`
}

type statsQueryParams struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

// Stats returns per-day click counts from the rollups written by the click
// consumer. Days without clicks are reported as zero.
func (h *LinksHandler) Stats(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	params := statsQueryParams{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := appvalidation.Validate(params); err != nil {
		httputils.WriteAPIError(w, r, statsValidationError(err))
		return
	}

	// Validated above.
	from, _ := time.Parse(time.DateOnly, params.From)
	to, _ := time.Parse(time.DateOnly, params.To)

	daily, err := h.svc.GetStats(r.Context(), code, from, to)
	if err != nil {
		httputils.WriteAPIError(w, r, h.apiError(err, "stats", zap.String("short_code", code)))
		return
	}

	var total int64
	for _, d := range daily {
		total += d.Count
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessStatsFound, statsResponse{
		ShortCode: code,
		From:      params.From,
		To:        params.To,
		Total:     total,
		Daily:     daily,
	})
}

func statsValidationError(err error) constants.APIError {
	apiErr := constants.ErrInvalidRequestBody
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apiErr
	}
	for _, e := range validationErrs {
		if e.Tag() == "required" {
			return apiErr.WithMessage("from and to are required (YYYY-MM-DD)")
		}
		return apiErr.WithMessage(fmt.Sprintf("invalid %s (YYYY-MM-DD)", e.Field()))
	}
	return apiErr
}

// apiError maps a core error to its user-facing shape. Anything unexpected
// is logged here and reported as a generic server error.
func (h *LinksHandler) apiError(err error, op string, fields ...zap.Field) constants.APIError {
	switch {
	case errors.Is(err, links.ErrURLRequired):
		return constants.ErrURLRequired
	case errors.Is(err, links.ErrInvalidURL):
		return constants.ErrInvalidURL
	case errors.Is(err, links.ErrReservedShortCode):
		return constants.ErrInvalidShortCode.WithMessage(constants.MsgShortCodeReserved)
	case errors.Is(err, links.ErrInvalidShortCode):
		return constants.ErrInvalidShortCode
	case errors.Is(err, links.ErrValidityTooLong):
		maxMinutes := int64(links.EffectiveMaxValidity(h.cfg.Shortener.MaxValidity) / time.Minute)
		return constants.ErrInvalidValidity.WithMessage(fmt.Sprintf(constants.MsgValidityTooLong, maxMinutes))
	case errors.Is(err, links.ErrCodeTaken):
		return constants.ErrShortCodeTaken
	case errors.Is(err, links.ErrNotFound):
		return constants.ErrLinkNotFound
	case errors.Is(err, links.ErrExpired):
		return constants.ErrLinkExpired
	case errors.Is(err, links.ErrRangeTooLong):
		return constants.ErrInvalidRequestBody.WithMessage(fmt.Sprintf(constants.MsgStatsRangeTooLong, links.MaxStatsDays))
	case errors.Is(err, links.ErrInvalidRange):
		return constants.ErrInvalidRequestBody.WithMessage("from must be <= to")
	case errors.Is(err, links.ErrStatsDisabled):
		return constants.ErrStatsDisabled
	default:
		logger.Error("failed to "+op, append(fields, zap.Error(err))...)
		return constants.ErrInternalError
	}
}

func (h *LinksHandler) shortLink(code string) string {
	return h.cfg.Shortener.BaseURL + "/" + code
}
