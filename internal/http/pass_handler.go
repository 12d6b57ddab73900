package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/example/visitor-console/internal/application"
)

// maxScanUpload bounds uploaded QR images.
const maxScanUpload = 5 << 20

// PassMetrics counts pass activity.
type PassMetrics interface {
	PassIssued(kind string)
	Redemption(direction, outcome string)
}

type PassHandler struct {
	service   PassService
	metrics   PassMetrics
	responder responder
	logger    *slog.Logger
}

func NewPassHandler(service PassService, metrics PassMetrics, logger *slog.Logger) *PassHandler {
	base := orDefault(logger)
	return &PassHandler{service: service, metrics: metrics, responder: newResponder(base), logger: base}
}

func (h *PassHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "PassHandler", operation, attrs...)
}

func (h *PassHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

// IssueVisitor renders a visitor pass. Clients that accept image/png get
// the QR image directly; everyone else gets JSON with the PNG in base64.
func (h *PassHandler) IssueVisitor(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req visitorPassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "IssueVisitor")
	issued, err := h.service.IssueVisitorPass(r.Context(), req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "visitor pass issue failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.PassIssued("visitor")
	}
	logger.InfoContext(r.Context(), "visitor pass issued", "qr_id", issued.Payload.QRID)

	if acceptsPNG(r) {
		w.Header().Set("X-QR-ID", issued.Payload.QRID)
		h.responder.writeBytes(r.Context(), w, "image/png", "", issued.PNG)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, issuedPassResponse{
		Pass:    toPassDTO(issued.Payload),
		Content: issued.Content,
		PNG:     issued.PNG,
	})
}

// IssueHomeowner renders a homeowner code card.
func (h *PassHandler) IssueHomeowner(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req application.HomeownerPass
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	issued, err := h.service.IssueHomeownerPass(r.Context(), req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.PassIssued("homeowner")
	}

	if acceptsPNG(r) {
		h.responder.writeBytes(r.Context(), w, "image/png", "", issued.PNG)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, issuedHomeownerResponse{
		Name:    issued.Pass.Name,
		Code:    issued.Pass.Code,
		Content: issued.Content,
		PNG:     issued.PNG,
	})
}

// Scan decodes a pass and reports whether it can be recorded. Nothing is written.
func (h *PassHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	req, err := readScanRequest(w, r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	result, err := h.service.ScanPass(r.Context(), principal, req.ScanInput)
	if err != nil {
		h.log(r.Context(), "Scan", "state", result.State).WarnContext(r.Context(), "pass scan rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	directions := make([]string, 0, len(result.Directions))
	for _, d := range result.Directions {
		directions = append(directions, string(d))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scanResponse{
		State:      string(result.State),
		Pass:       toPassDTO(result.Pass),
		Directions: directions,
	})
}

// Redeem records the chosen direction for a pass.
func (h *PassHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	req, err := readScanRequest(w, r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Redeem", "direction", req.Direction)

	result, err := h.service.RedeemPass(r.Context(), principal, req)
	if err != nil {
		if h.metrics != nil {
			h.metrics.Redemption(directionLabel(req.Direction), application.ErrorKind(err))
		}
		logger.WarnContext(r.Context(), "pass redemption failed", "error", err, "error_kind", application.ErrorKind(err), "state", result.State)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.Redemption(string(result.Direction), string(result.State))
	}

	logger.InfoContext(r.Context(), "pass redeemed", "qr_id", result.Log.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, redeemResponse{
		State:     string(result.State),
		Direction: string(result.Direction),
		Log:       toVisitorLogDTO(result.Log),
	})
}

// readScanRequest accepts a JSON body, a multipart form with an "image"
// file, or a raw image body.
func readScanRequest(w http.ResponseWriter, r *http.Request) (application.RedeemInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScanUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxScanUpload); err != nil {
			return application.RedeemInput{}, fmt.Errorf("multipart form is malformed: %w", err)
		}
		input := application.RedeemInput{
			ScanInput: application.ScanInput{Payload: r.FormValue("payload")},
			Direction: r.FormValue("direction"),
		}
		file, _, err := r.FormFile("image")
		switch {
		case err == nil:
			defer file.Close()
			if input.Image, err = io.ReadAll(file); err != nil {
				return application.RedeemInput{}, fmt.Errorf("image upload failed: %w", err)
			}
		case !errors.Is(err, http.ErrMissingFile):
			return application.RedeemInput{}, fmt.Errorf("image upload failed: %w", err)
		}
		return input, nil
	case strings.HasPrefix(mediaType, "image/"):
		image, err := io.ReadAll(r.Body)
		if err != nil {
			return application.RedeemInput{}, fmt.Errorf("image upload failed: %w", err)
		}
		return application.RedeemInput{
			ScanInput: application.ScanInput{Image: image},
			Direction: r.URL.Query().Get("direction"),
		}, nil
	default:
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return application.RedeemInput{}, errBadRequestBody
		}
		return application.RedeemInput{
			ScanInput: application.ScanInput{Payload: req.Payload},
			Direction: req.Direction,
		}, nil
	}
}

func directionLabel(value string) string {
	if d, ok := application.ParseDirection(value); ok {
		return string(d)
	}
	return "INVALID"
}

func acceptsPNG(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "image/png" {
			return true
		}
	}
	return false
}

type visitorPassRequest struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	ContactNum       string `json:"contactNum"`
	ContactNumber    string `json:"contactNumber"`
	HomeOwnerToVisit string `json:"homeOwnerToVisit"`
	PurposeOfVisit   string `json:"purposeOfVisit"`
}

func (r visitorPassRequest) toInput() application.VisitorPassInput {
	contact := r.ContactNum
	if contact == "" {
		contact = r.ContactNumber
	}
	return application.VisitorPassInput{
		Name:             r.Name,
		Address:          r.Address,
		ContactNum:       contact,
		HomeOwnerToVisit: r.HomeOwnerToVisit,
		PurposeOfVisit:   r.PurposeOfVisit,
	}
}

type scanRequest struct {
	Payload   string `json:"payload"`
	Direction string `json:"direction"`
}

type passDTO struct {
	QRID             string `json:"qrId"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	ContactNum       string `json:"contactNum"`
	HomeOwnerToVisit string `json:"homeOwnerToVisit"`
	PurposeOfVisit   string `json:"purposeOfVisit"`
	ExpirationTime   int64  `json:"expirationTime"`
}

func toPassDTO(p application.PassPayload) passDTO {
	return passDTO{
		QRID:             p.QRID,
		Name:             p.Name,
		Address:          p.Address,
		ContactNum:       p.ContactNum,
		HomeOwnerToVisit: p.HomeOwnerToVisit,
		PurposeOfVisit:   p.PurposeOfVisit,
		ExpirationTime:   p.ExpirationTime,
	}
}

type issuedPassResponse struct {
	Pass    passDTO `json:"pass"`
	Content string  `json:"content"`
	PNG     []byte  `json:"png"`
}

type issuedHomeownerResponse struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Content string `json:"content"`
	PNG     []byte `json:"png"`
}

type scanResponse struct {
	State      string   `json:"state"`
	Pass       passDTO  `json:"pass"`
	Directions []string `json:"directions"`
}

type redeemResponse struct {
	State     string        `json:"state"`
	Direction string        `json:"direction"`
	Log       visitorLogDTO `json:"log"`
}
