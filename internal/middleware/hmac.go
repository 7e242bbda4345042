package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/itsDrac/authgate/pkg/config"
	"github.com/itsDrac/authgate/pkg/signature"
)

const maxSignedBody = 1 << 20

// HMACVerifier checks the x-hmac-signature header against a signature of
// the timestamp, method, request URI and canonical body.
type HMACVerifier struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewHMACVerifier(secret string, ttl time.Duration) *HMACVerifier {
	return &HMACVerifier{secret: secret, ttl: ttl, now: time.Now}
}

func (h *HMACVerifier) Check(r *http.Request) (*http.Request, *AuthError) {
	if h.secret == "" {
		return nil, internal(errors.New("HMAC_SECRET_KEY is not configured"))
	}

	header := r.Header.Get(config.HMACSignatureHeader)
	if header == "" {
		return nil, unauthorized(MsgUnauthorized, errMissingSignature)
	}

	parts := strings.Split(header, "|")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, unauthorized(MsgUnauthorized, errSignatureFormat)
	}
	sig := parts[0]
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, unauthorized(MsgUnauthorized, errSignatureTimestamp)
	}

	// compared in ms; ts can be arbitrarily far from now
	now := h.now().UnixMilli()
	win := h.ttl.Milliseconds()
	if ts < now-win || ts > now+win {
		return nil, &AuthError{
			Kind:    KindSignatureExpired,
			Message: MsgUnauthorized,
			Err:     fmt.Errorf("%w: timestamp %d outside %s of %d", errSignatureExpired, ts, h.ttl, now),
		}
	}

	body, err := readAndRestoreBody(r)
	if errors.Is(err, errBodyTooLarge) {
		return nil, &AuthError{Kind: KindBodyTooLarge, Message: MsgBodyTooLarge, Err: err}
	}
	if err != nil {
		return nil, internal(fmt.Errorf("read request body: %w", err))
	}

	expected := signature.Sign(h.secret, signature.CanonicalRequest(ts, r.Method, r.URL.RequestURI(), body))
	if !signature.Equal(sig, expected) {
		return nil, unauthorized(MsgUnauthorized, errSignatureMismatch)
	}
	return r, nil
}

// readAndRestoreBody drains the body and puts an identical reader back
// so the terminal handler can decode it.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSignedBody+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(body) > maxSignedBody {
		return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxSignedBody)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
