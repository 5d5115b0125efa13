package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/repository"
	"wastewise-backend/utils/logger"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/tidwall/gjson"
)

const qrImageSize = 256

// VerificationService is the Verification Gate. It issues signed resident QR
// payloads and checks the payload a crew member scans at completion time.
type VerificationService struct {
	users   repository.UserRepositoryInterface
	pickups repository.PickupRepositoryInterface
	secret  []byte
	ttl     time.Duration
	strict  bool
	logger  logger.Logger
	now     func() time.Time
}

func NewVerificationService(users repository.UserRepositoryInterface, pickups repository.PickupRepositoryInterface, cfg *models.Config, log logger.Logger) *VerificationService {
	secret := cfg.QRSecret
	if secret == "" {
		secret = cfg.JWTSecret
	}
	return &VerificationService{
		users:   users,
		pickups: pickups,
		secret:  []byte(secret),
		ttl:     cfg.QRTokenTTL,
		strict:  cfg.StrictResidentMatch,
		logger:  log,
		now:     time.Now,
	}
}

// IssueQRCode signs the resident's identity and renders it as a PNG QR code
func (s *VerificationService) IssueQRCode(ctx context.Context, residentID string) (*models.QRCode, error) {
	payload, expiresAt, err := s.issuePayload(ctx, residentID)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	return &models.QRCode{
		Payload:   payload,
		PNGBase64: base64.StdEncoding.EncodeToString(png),
		ExpiresAt: expiresAt,
	}, nil
}

// QRCodePNG returns only the rendered image
func (s *VerificationService) QRCodePNG(ctx context.Context, residentID string) ([]byte, error) {
	payload, _, err := s.issuePayload(ctx, residentID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, qrImageSize)
}

func (s *VerificationService) issuePayload(ctx context.Context, residentID string) (string, time.Time, error) {
	user, err := s.users.GetUserByID(ctx, residentID)
	if err != nil {
		return "", time.Time{}, err
	}
	if user.Role != models.UserRoleResident {
		return "", time.Time{}, models.NewForbidden("only residents have a collection QR code")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	p := models.QRPayload{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Address:   user.Address,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	p.Signature = s.sign(p.ID, p.Name, p.Email, string(p.Role), p.Address, p.IssuedAt, p.ExpiresAt)

	body, err := json.Marshal(p)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encode QR payload: %w", err)
	}
	return string(body), time.Unix(p.ExpiresAt, 0).UTC(), nil
}

// Verify checks the scanned token for requestID. It returns a TokenMismatch
// or TokenExpired error for a rejected token; any other error is a lookup failure.
func (s *VerificationService) Verify(ctx context.Context, requestID, token string) (*models.VerificationResult, error) {
	result, err := s.verify(ctx, requestID, token)
	if err == nil || errors.Is(err, models.ErrTokenMismatch) || errors.Is(err, models.ErrTokenExpired) {
		recordVerification(err)
	}
	if err != nil {
		s.logger.Warnf("Verification for request %s failed: %v", requestID, err)
	}
	return result, err
}

func (s *VerificationService) verify(ctx context.Context, requestID, token string) (*models.VerificationResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, models.NewTokenMismatch("verification token is empty")
	}
	if !gjson.Valid(token) {
		return nil, models.NewTokenMismatch("verification token is not a valid payload")
	}

	if !gjson.Parse(token).IsObject() {
		return nil, models.NewTokenMismatch("verification token is not a valid payload")
	}

	fields := gjson.GetMany(token, "_id", "name", "email", "role", "address", "iat", "exp", "sig")
	id, name, email, role, address := fields[0].String(), fields[1].String(), fields[2].String(), fields[3].String(), fields[4].String()
	iat, exp, sig := fields[5].Int(), fields[6].Int(), fields[7].String()

	if id == "" || role != string(models.UserRoleResident) {
		return nil, models.NewTokenMismatch("verification token does not carry a resident identity")
	}
	expected := s.sign(id, name, email, role, address, iat, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return nil, models.NewTokenMismatch("verification token signature is invalid")
	}

	resident, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewTokenMismatch("verification token references an unknown resident")
	}
	if err != nil {
		return nil, err
	}
	if resident.Role != models.UserRoleResident {
		return nil, models.NewTokenMismatch("verification token references an unknown resident")
	}

	now := s.now().UTC()
	if exp <= 0 || now.After(time.Unix(exp, 0)) {
		return nil, models.NewTokenExpired("verification token has expired")
	}

	if s.strict {
		req, err := s.pickups.Get(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req.ResidentID != resident.ID {
			return nil, models.NewTokenMismatch("verification token belongs to a different resident")
		}
	}

	return &models.VerificationResult{
		RequestID:  requestID,
		ResidentID: resident.ID,
		Name:       resident.Name,
		VerifiedAt: now,
	}, nil
}

// sign computes the hex HMAC-SHA256 over the identity fields and validity window
func (s *VerificationService) sign(id, name, email, role, address string, iat, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strings.Join([]string{
		id, name, email, role, address,
		strconv.FormatInt(iat, 10),
		strconv.FormatInt(exp, 10),
	}, "\x1f")))
	return hex.EncodeToString(mac.Sum(nil))
}
