package models

import "time"

// QRPayload is the JSON encoded into a resident's QR code.
// Identity fields follow the mobile client's format; iat/exp/sig are server-issued.
type QRPayload struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Address   string   `json:"address"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
	Signature string   `json:"sig"`
}

// QRCode is the response of GET /resident/qr-code
type QRCode struct {
	Payload   string    `json:"payload"`
	PNGBase64 string    `json:"pngBase64"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerificationResult is returned when a scanned token passes the gate
type VerificationResult struct {
	RequestID  string    `json:"requestId"`
	ResidentID string    `json:"residentId"`
	Name       string    `json:"name"`
	VerifiedAt time.Time `json:"verifiedAt"`
}
