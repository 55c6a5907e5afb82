package crypto

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/approver/internal/model"
)

const offlineDigits = 6

var _ model.OfflineCodeFetcher = (*OfflineCodes)(nil)

// OfflineCodes computes verification codes for offline codes locally.
type OfflineCodes struct {
	key []byte
}

// NewOfflineCodes creates an OfflineCodes keyed with key.
func NewOfflineCodes(key []byte) (*OfflineCodes, error) {
	if len(key) == 0 {
		return nil, errors.New("offline code key is empty")
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &OfflineCodes{key: k}, nil
}

// FetchOfflineVerificationCode returns the six digit code for rawCode.
func (o *OfflineCodes) FetchOfflineVerificationCode(ctx context.Context, rawCode string) (string, error) {
	rawCode = strings.TrimSpace(rawCode)
	if rawCode == "" {
		return "", model.ErrEmptyCode
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m := hmac.New(sha256.New, o.key)
	_, _ = m.Write([]byte(rawCode))
	sum := m.Sum(nil)

	// dynamic truncation, RFC 4226 section 5.3
	offset := int(sum[len(sum)-1] & 0x0f)
	bin := (int(sum[offset])&0x7f)<<24 | int(sum[offset+1])<<16 | int(sum[offset+2])<<8 | int(sum[offset+3])

	return fmt.Sprintf("%0*d", offlineDigits, bin%1_000_000), nil
}
