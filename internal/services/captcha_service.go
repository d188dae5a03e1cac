package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"inkwell/internal/kvstore"

	"github.com/google/uuid"
)

// VerificationResult is the discriminated outcome of a challenge check.
type VerificationResult int

const (
	VerifyOK VerificationResult = iota
	VerifyNotFound
	VerifyExpired
	VerifyIncorrect
)

// challengeRecord is what gets persisted per session id. Only the keyed hash
// of the answer is stored, never the answer itself.
type challengeRecord struct {
	AnswerHash string    `json:"answer_hash"`
	ExpiresAt  time.Time `json:"expires_at"`
	Verified   bool      `json:"verified"`
}

// CaptchaService issues and checks the small arithmetic challenges that gate
// anonymous comment submission. Records live in a TTL store keyed by an opaque
// session id handed to the client.
type CaptchaService struct {
	store  kvstore.Store
	secret []byte
	ttl    time.Duration
	rnd    *rand.Rand
	now    func() time.Time
}

func NewCaptchaService(store kvstore.Store, secret string, ttl time.Duration) (*CaptchaService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &CaptchaService{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}, nil
}

// Issue generates a math problem and a fresh session id. Only the question
// text and the id leave the server.
func (s *CaptchaService) Issue(ctx context.Context) (sessionID, question string, err error) {
	question, answer := s.generateMathProblem()

	record := challengeRecord{
		AnswerHash: s.hashAnswer(answer),
		ExpiresAt:  s.now().Add(s.ttl),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", "", err
	}

	sessionID = uuid.NewString()
	if err := s.store.Set(ctx, challengeKey(sessionID), payload, s.ttl); err != nil {
		return "", "", err
	}
	return sessionID, question, nil
}

// Verify checks a submitted answer. On success the record is marked verified
// and kept, so the later comment submission can consume it. On mismatch the
// record stays untouched; the caller is expected to reissue rather than retry
// against the same stored hash forever.
func (s *CaptchaService) Verify(ctx context.Context, sessionID string, answer int) VerificationResult {
	payload, err := s.store.Get(ctx, challengeKey(sessionID))
	if err != nil {
		return VerifyNotFound
	}

	var record challengeRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return VerifyNotFound
	}

	now := s.now()
	if now.After(record.ExpiresAt) {
		s.store.Delete(ctx, challengeKey(sessionID))
		return VerifyExpired
	}

	if !hmac.Equal([]byte(s.hashAnswer(answer)), []byte(record.AnswerHash)) {
		return VerifyIncorrect
	}

	record.Verified = true
	updated, err := json.Marshal(record)
	if err != nil {
		return VerifyNotFound
	}
	if err := s.store.Set(ctx, challengeKey(sessionID), updated, record.ExpiresAt.Sub(now)); err != nil {
		return VerifyNotFound
	}
	return VerifyOK
}

// Consume authorizes exactly one comment submission. The record is removed on
// every call, success or not, so a session id can never be replayed.
func (s *CaptchaService) Consume(ctx context.Context, sessionID string) bool {
	payload, err := s.store.GetDel(ctx, challengeKey(sessionID))
	if err != nil {
		return false
	}

	var record challengeRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return false
	}
	if s.now().After(record.ExpiresAt) {
		return false
	}
	return record.Verified
}

func (s *CaptchaService) hashAnswer(answer int) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strconv.Itoa(answer)))
	return hex.EncodeToString(mac.Sum(nil))
}

// generateMathProblem returns a display string (e.g. "3 + 5 = ?") and the
// integer answer. Operands stay small enough to be trivial for humans.
func (s *CaptchaService) generateMathProblem() (string, int) {
	switch s.rnd.Intn(3) {
	case 0:
		a, b := s.rnd.Intn(20)+1, s.rnd.Intn(20)+1
		return fmt.Sprintf("%d + %d = ?", a, b), a + b
	case 1:
		a, b := s.rnd.Intn(20)+1, s.rnd.Intn(20)+1
		// Ensure positive result for simplicity if subtraction
		if a < b {
			a, b = b, a
		}
		return fmt.Sprintf("%d - %d = ?", a, b), a - b
	default:
		a, b := s.rnd.Intn(8)+2, s.rnd.Intn(8)+2
		return fmt.Sprintf("%d × %d = ?", a, b), a * b
	}
}

func challengeKey(sessionID string) string {
	return "captcha:" + sessionID
}
