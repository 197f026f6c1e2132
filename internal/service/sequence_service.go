package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Document number prefixes
const (
	SaleNumberPrefix  = "SL"
	QuoteNumberPrefix = "QT"
	OrderNumberPrefix = "OR"
)

// sequenceTTL keeps daily counters around long enough to survive
// clock skew across app instances.
const sequenceTTL = 48 * time.Hour

// SequenceService issues human-readable document numbers
// (PREFIX-YYYYMMDD-NNNN) from an atomic daily Redis counter. When
// Redis is unavailable it falls back to a random suffix so document
// creation never blocks on the counter.
type SequenceService struct {
	log         *logrus.Logger
	redisClient *redis.Client
}

func NewSequenceService(log *logrus.Logger, redisClient *redis.Client) *SequenceService {
	return &SequenceService{
		log:         log,
		redisClient: redisClient,
	}
}

func (s *SequenceService) NextSaleNumber(ctx context.Context) string {
	return s.next(ctx, SaleNumberPrefix)
}

func (s *SequenceService) NextQuoteNumber(ctx context.Context) string {
	return s.next(ctx, QuoteNumberPrefix)
}

func (s *SequenceService) NextOrderNumber(ctx context.Context) string {
	return s.next(ctx, OrderNumberPrefix)
}

func (s *SequenceService) next(ctx context.Context, prefix string) string {
	dateStr := time.Now().Format("20060102")

	if s.redisClient != nil {
		key := fmt.Sprintf("docseq:%s:%s", prefix, dateStr)
		n, err := s.redisClient.Incr(ctx, key).Result()
		if err == nil {
			if n == 1 {
				if err := s.redisClient.Expire(ctx, key, sequenceTTL).Err(); err != nil {
					s.log.Warnf("Failed to set TTL on sequence key %s (non-fatal): %+v", key, err)
				}
			}
			return fmt.Sprintf("%s-%s-%04d", prefix, dateStr, n)
		}
		s.log.Warnf("Failed to reserve %s sequence from Redis, falling back to random: %+v", prefix, err)
	}

	return fmt.Sprintf("%s-%s-%s", prefix, dateStr, randomSuffix())
}

// randomSuffix generates a 6-hex-digit collision-resistant suffix
func randomSuffix() string {
	b := make([]byte, 3)
	rand.Read(b)
	return fmt.Sprintf("%06X", b)
}
