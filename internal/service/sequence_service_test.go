package service

import (
	"context"
	"regexp"
	"testing"
	"time"
)

func TestSequenceFallbackFormat(t *testing.T) {
	svc := NewSequenceService(newTestLogger(), nil)
	ctx := context.Background()
	today := time.Now().Format("20060102")

	pattern := regexp.MustCompile(`^(SL|QT|OR)-` + today + `-[0-9A-F]{6}$`)
	numbers := []string{
		svc.NextSaleNumber(ctx),
		svc.NextQuoteNumber(ctx),
		svc.NextOrderNumber(ctx),
	}
	for _, n := range numbers {
		if !pattern.MatchString(n) {
			t.Errorf("unexpected document number format: %q", n)
		}
	}

	if svc.NextSaleNumber(ctx) == svc.NextSaleNumber(ctx) {
		t.Error("consecutive fallback numbers must not collide")
	}
}
