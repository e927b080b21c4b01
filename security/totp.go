package security

import (
	"encoding/base64"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

const totpIssuer = "Research Repository"

// TOTPEnrollment is handed back once at admin creation so the secret can be
// added to an authenticator app
type TOTPEnrollment struct {
	Secret string `json:"secret"`
	// QRCode is a base64 PNG of the otpauth:// URL
	QRCode string `json:"qrCode"`
}

// GenerateTOTP creates a fresh TOTP secret for an admin account along with
// the QR code to scan
func GenerateTOTP(username string) (*TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: username,
	})
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	return &TOTPEnrollment{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// VerifyTOTP checks a 6-digit code against the stored secret
func VerifyTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
