package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

const (
	HeaderTimestamp = "X-Slack-Request-Timestamp"
	HeaderSignature = "X-Slack-Signature"
)

// VerifySignature checks the v0 HMAC-SHA256 scheme over
// "v0:{timestamp}:{rawBody}" in constant time and bounds the timestamp to
// the replay window (skipped when replayWindow <= 0).
func VerifySignature(secret, timestamp, signature string, body []byte, replayWindow time.Duration, now time.Time) error {
	if timestamp == "" || signature == "" {
		return apperrors.ErrBadSignature
	}

	if replayWindow > 0 {
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return apperrors.ErrBadSignature
		}
		age := now.Sub(time.Unix(ts, 0))
		if age > replayWindow || age < -replayWindow {
			return fmt.Errorf("%w: timestamp outside replay window", apperrors.ErrBadSignature)
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrBadSignature
	}
	return nil
}

type SignatureMiddleware struct {
	secret       string
	replayWindow time.Duration
	log          logger.Logger
}

func NewSignatureMiddleware(secret string, replayWindow time.Duration, log logger.Logger) *SignatureMiddleware {
	return &SignatureMiddleware{
		secret:       secret,
		replayWindow: replayWindow,
		log:          log,
	}
}

// Verify authenticates the raw request body before any parsing happens and
// restores it for downstream form handling.
func (m *SignatureMiddleware) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		timestamp := c.GetHeader(HeaderTimestamp)
		signature := c.GetHeader(HeaderSignature)

		if err := VerifySignature(m.secret, timestamp, signature, body, m.replayWindow, time.Now()); err != nil {
			m.log.Warn("Webhook signature rejected", "error", err, "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "bad_signature"})
			return
		}

		c.Next()
	}
}
