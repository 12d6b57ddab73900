package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultPassTTL is how long a visitor pass stays valid.
	DefaultPassTTL = 5 * 24 * time.Hour
	// DefaultQRSize is the rendered QR edge in pixels.
	DefaultQRSize = 256
)

// QREncoder renders text as a PNG QR code.
type QREncoder interface {
	Encode(content string, size int) ([]byte, error)
}

// QRDecoder reads the text of the QR code in an image.
type QRDecoder interface {
	Decode(image []byte) (string, error)
}

// VisitorPassInput is what a visitor fills in to request a pass.
type VisitorPassInput struct {
	Name             string
	Address          string
	ContactNum       string
	HomeOwnerToVisit string
	PurposeOfVisit   string
}

// IssuedPass is the signed content and its QR rendering.
type IssuedPass struct {
	Payload PassPayload
	Content string
	PNG     []byte
}

// IssuedHomeownerPass is a homeowner code card.
type IssuedHomeownerPass struct {
	Pass    HomeownerPass
	Content string
	PNG     []byte
}

// ScanInput carries either the decoded QR text or the raw image.
type ScanInput struct {
	Payload string
	Image   []byte
}

// ScanResult reports where the flow stopped after decoding and the expiry check.
type ScanResult struct {
	State      RedemptionState
	Pass       PassPayload
	Directions []Direction
}

// RedeemInput repeats the scan and adds the guard's direction choice.
type RedeemInput struct {
	ScanInput
	Direction string
}

// RedeemResult holds the single record written by a redemption.
type RedeemResult struct {
	State     RedemptionState
	Direction Direction
	Log       VisitorLog
}

// PassService issues visitor passes and redeems them at the gate.
type PassService struct {
	logs        VisitorLogRepository
	signer      *PassSigner
	encoder     QREncoder
	decoder     QRDecoder
	idGenerator func() string
	now         func() time.Time
	passTTL     time.Duration
	logger      *slog.Logger
}

// NewPassService wires dependencies for the pass service.
func NewPassService(logs VisitorLogRepository, signer *PassSigner, encoder QREncoder, decoder QRDecoder, idGenerator func() string, now func() time.Time, passTTL time.Duration) *PassService {
	return NewPassServiceWithLogger(logs, signer, encoder, decoder, idGenerator, now, passTTL, nil)
}

// NewPassServiceWithLogger wires dependencies for the pass service with a logger.
func NewPassServiceWithLogger(logs VisitorLogRepository, signer *PassSigner, encoder QREncoder, decoder QRDecoder, idGenerator func() string, now func() time.Time, passTTL time.Duration, logger *slog.Logger) *PassService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if passTTL <= 0 {
		passTTL = DefaultPassTTL
	}
	return &PassService{
		logs:        logs,
		signer:      signer,
		encoder:     encoder,
		decoder:     decoder,
		idGenerator: idGenerator,
		now:         now,
		passTTL:     passTTL,
		logger:      defaultLogger(logger),
	}
}

func (s *PassService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PassService", operation, attrs...)
}

// IssueVisitorPass builds a signed pass that expires after the pass TTL and renders it as a QR code.
// Nothing is stored.
func (s *PassService) IssueVisitorPass(ctx context.Context, input VisitorPassInput) (issued IssuedPass, err error) {
	if s == nil {
		err = fmt.Errorf("PassService is nil")
		return
	}
	logger := s.loggerWith(ctx, "IssueVisitorPass")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to issue visitor pass", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "visitor pass issued", "qr_id", issued.Payload.QRID, "expires_at", issued.Payload.ExpiresAt())
	}()

	payload := PassPayload{
		Name:             strings.TrimSpace(input.Name),
		Address:          strings.TrimSpace(input.Address),
		ContactNum:       strings.TrimSpace(input.ContactNum),
		HomeOwnerToVisit: strings.TrimSpace(input.HomeOwnerToVisit),
		PurposeOfVisit:   strings.TrimSpace(input.PurposeOfVisit),
	}
	vErr := &ValidationError{}
	if payload.Name == "" {
		vErr.add("name", "name is required")
	}
	if payload.Address == "" {
		vErr.add("address", "address is required")
	}
	if payload.ContactNum == "" {
		vErr.add("contact_num", "contact number is required")
	}
	if payload.HomeOwnerToVisit == "" {
		vErr.add("home_owner_to_visit", "homeowner to visit is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	payload.ExpirationTime = s.now().Add(s.passTTL).UnixMilli()
	payload.QRID = s.idGenerator()
	if payload, err = s.signer.Sign(payload); err != nil {
		return
	}

	issued.Payload = payload
	issued.Content, issued.PNG, err = s.render(payload)
	return
}

// IssueHomeownerPass renders a resident's name and code as a QR code.
func (s *PassService) IssueHomeownerPass(ctx context.Context, pass HomeownerPass) (issued IssuedHomeownerPass, err error) {
	if s == nil {
		err = fmt.Errorf("PassService is nil")
		return
	}
	pass.Name = strings.TrimSpace(pass.Name)
	pass.Code = strings.TrimSpace(pass.Code)
	vErr := &ValidationError{}
	if pass.Name == "" {
		vErr.add("name", "name is required")
	}
	if pass.Code == "" {
		vErr.add("code", "code is required")
	}
	if vErr.HasErrors() {
		return IssuedHomeownerPass{}, vErr
	}

	issued.Pass = pass
	if issued.Content, issued.PNG, err = s.render(pass); err != nil {
		s.loggerWith(ctx, "IssueHomeownerPass").ErrorContext(ctx, "failed to render homeowner pass", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

func (s *PassService) render(value any) (string, []byte, error) {
	content, err := json.Marshal(value)
	if err != nil {
		return "", nil, fmt.Errorf("encode pass: %w", err)
	}
	if s.encoder == nil {
		return string(content), nil, nil
	}
	png, err := s.encoder.Encode(string(content), DefaultQRSize)
	if err != nil {
		return "", nil, fmt.Errorf("render qr: %w", err)
	}
	return string(content), png, nil
}

// ScanPass decodes a pass and checks its expiry without writing anything.
// An expired pass returns StateExpired together with ErrPassExpired.
func (s *PassService) ScanPass(ctx context.Context, principal Principal, input ScanInput) (result ScanResult, err error) {
	if s == nil {
		err = fmt.Errorf("PassService is nil")
		return
	}
	logger := s.loggerWith(ctx, "ScanPass", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "pass scan rejected", "error", err, "error_kind", ErrorKind(err), "state", result.State)
			return
		}
		logger.InfoContext(ctx, "pass scanned", "qr_id", result.Pass.QRID)
	}()

	var redemption *Redemption
	redemption, err = s.decode(principal, input)
	result = ScanResult{State: StateIdle}
	if redemption != nil {
		result.State = redemption.State()
		result.Pass = redemption.Pass()
	}
	if err != nil {
		return
	}
	result.Directions = Directions()
	return
}

// RedeemPass repeats the scan checks and performs exactly one write for the chosen direction.
// Time in overwrites any entry under the qrId. Time out needs an entry without a time out.
func (s *PassService) RedeemPass(ctx context.Context, principal Principal, input RedeemInput) (result RedeemResult, err error) {
	if s == nil {
		err = fmt.Errorf("PassService is nil")
		return
	}
	if s.logs == nil {
		err = fmt.Errorf("visitor log repository not configured")
		return
	}
	logger := s.loggerWith(ctx, "RedeemPass", "principal_id", principal.UserID, "direction", input.Direction)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "pass redemption failed", "error", err, "error_kind", ErrorKind(err), "state", result.State)
			return
		}
		logger.InfoContext(ctx, "pass redeemed", "qr_id", result.Log.ID)
	}()

	direction, ok := ParseDirection(input.Direction)
	if !ok {
		err = &ValidationError{FieldErrors: map[string]string{"direction": "direction must be TIME_IN or TIME_OUT"}}
		return
	}

	var redemption *Redemption
	redemption, err = s.decode(principal, input.ScanInput)
	if redemption != nil {
		result.State = redemption.State()
	}
	if err != nil {
		return
	}
	if err = redemption.Choose(direction); err != nil {
		return
	}

	pass := redemption.Pass()
	now := s.now()
	var entry VisitorLog
	switch direction {
	case DirectionTimeIn:
		entry, err = s.logs.PutVisitorLog(ctx, pass.VisitorLog(now))
	case DirectionTimeOut:
		entry, err = s.logs.MergeVisitorTimeOut(ctx, pass.QRID, now)
	}
	if err != nil {
		err = mapRepoError(err)
		if direction == DirectionTimeOut && errors.Is(err, ErrNotFound) {
			err = ErrLogNotFound
		}
		return
	}
	if err = redemption.MarkRecorded(); err != nil {
		return
	}

	result = RedeemResult{State: redemption.State(), Direction: direction, Log: entry}
	return
}

func (s *PassService) decode(principal Principal, input ScanInput) (*Redemption, error) {
	if !principal.CanRedeem() {
		return nil, ErrUnauthorized
	}

	raw := input.Payload
	if strings.TrimSpace(raw) == "" && len(input.Image) > 0 {
		if s.decoder == nil {
			return nil, fmt.Errorf("qr decoder not configured")
		}
		text, err := s.decoder.Decode(input.Image)
		if err != nil {
			return NewRedemption(), fmt.Errorf("%w: %v", ErrInvalidPass, err)
		}
		raw = text
	}

	redemption := NewRedemption()
	if err := redemption.StartScan(); err != nil {
		return redemption, err
	}
	if err := redemption.Decode(raw, s.signer); err != nil {
		return redemption, err
	}
	if err := redemption.CheckExpiry(s.now()); err != nil {
		return redemption, err
	}
	return redemption, nil
}
