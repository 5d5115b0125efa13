package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wastewise-backend/models"

	"github.com/stretchr/testify/suite"
)

type VerificationServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

func (s *VerificationServiceTestSuite) SetupTest() {
	s.env = newTestEnv(testConfig())
	s.ctx = context.Background()
}

func (s *VerificationServiceTestSuite) TestIssueQRCode() {
	qr, err := s.env.verification.IssueQRCode(s.ctx, s.env.resident.ID)
	s.Require().NoError(err)

	var payload models.QRPayload
	s.Require().NoError(json.Unmarshal([]byte(qr.Payload), &payload))
	s.Equal(s.env.resident.ID, payload.ID)
	s.Equal(models.UserRoleResident, payload.Role)
	s.Equal("1 Test Street", payload.Address)
	s.NotEmpty(payload.Signature)
	s.True(qr.ExpiresAt.After(time.Now()))

	png, err := base64.StdEncoding.DecodeString(qr.PNGBase64)
	s.Require().NoError(err)
	s.Equal([]byte("\x89PNG"), png[:4])
}

func (s *VerificationServiceTestSuite) TestOnlyResidentsGetQRCode() {
	_, err := s.env.verification.IssueQRCode(s.ctx, s.env.crew1.ID)
	s.True(errors.Is(err, models.ErrForbidden))

	_, err = s.env.verification.QRCodePNG(s.ctx, "missing")
	s.True(errors.Is(err, models.ErrNotFound))
}

func (s *VerificationServiceTestSuite) TestVerifyValidToken() {
	result, err := s.env.verification.Verify(s.ctx, "p-1", s.env.token(s.env.resident.ID))

	s.Require().NoError(err)
	s.Equal("p-1", result.RequestID)
	s.Equal(s.env.resident.ID, result.ResidentID)
}

func (s *VerificationServiceTestSuite) TestVerifyRejectsMalformedTokens() {
	for _, token := range []string{"", "   ", "bad", "[1,2]", `"str"`, `{"_id":"x"}`} {
		_, err := s.env.verification.Verify(s.ctx, "p-1", token)
		s.True(errors.Is(err, models.ErrTokenMismatch), "token %q: %v", token, err)
	}
}

func (s *VerificationServiceTestSuite) TestVerifyRejectsTamperedPayload() {
	var payload map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(s.env.token(s.env.resident.ID)), &payload))

	payload["address"] = "99 Elsewhere"
	tampered, _ := json.Marshal(payload)

	_, err := s.env.verification.Verify(s.ctx, "p-1", string(tampered))
	s.True(errors.Is(err, models.ErrTokenMismatch))
}

func (s *VerificationServiceTestSuite) TestVerifyRejectsUnsignedMobilePayload() {
	unsigned, _ := json.Marshal(map[string]string{
		"_id":     s.env.resident.ID,
		"name":    s.env.resident.Name,
		"email":   s.env.resident.Email,
		"role":    string(models.UserRoleResident),
		"address": "1 Test Street",
	})

	_, err := s.env.verification.Verify(s.ctx, "p-1", string(unsigned))
	s.True(errors.Is(err, models.ErrTokenMismatch))
}

func (s *VerificationServiceTestSuite) TestVerifyDetectsExpiry() {
	token := s.env.token(s.env.resident.ID)
	s.env.verification.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := s.env.verification.Verify(s.ctx, "p-1", token)
	s.True(errors.Is(err, models.ErrTokenExpired))
}

func (s *VerificationServiceTestSuite) TestVerifyUnknownResident() {
	other := newTestEnv(testConfig())
	stranger := other.addUser("stranger@example.com", models.UserRoleResident)
	token := other.token(stranger.ID)

	_, err := s.env.verification.Verify(s.ctx, "p-1", token)
	s.True(errors.Is(err, models.ErrTokenMismatch))
}

func (s *VerificationServiceTestSuite) TestDifferentSecretDoesNotVerify() {
	cfg := testConfig()
	cfg.QRSecret = "another-secret"
	other := NewVerificationService(s.env.users, s.env.pickups, cfg, discardLogger())

	_, err := other.Verify(s.ctx, "p-1", s.env.token(s.env.resident.ID))
	s.True(errors.Is(err, models.ErrTokenMismatch))
}

func (s *VerificationServiceTestSuite) TestQRSecretFallsBackToJWTSecret() {
	cfg := testConfig()
	cfg.QRSecret = ""
	svc := NewVerificationService(s.env.users, s.env.pickups, cfg, discardLogger())

	s.Equal([]byte(cfg.JWTSecret), svc.secret)
}

func TestVerificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceTestSuite))
}
