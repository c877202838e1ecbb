package application

import (
	"context"
	"testing"
	"time"

	"governance-gateway/middleware/governance/infra"
)

func TestCapacity_AllowsWhenNoPool(t *testing.T) {
	svc := CapacityService{}
	release, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire to succeed without pool")
	}
	release()
}

func TestCapacity_BlocksWhenFullAndTimesOut(t *testing.T) {
	svc := CapacityService{
		Pool:           infra.NewChanPool(1),
		AcquireTimeout: 10 * time.Millisecond,
	}

	release, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}

	if _, ok := svc.Acquire(context.Background()); ok {
		t.Fatalf("expected second acquire to time out with pool full")
	}

	release()
	release2, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire to succeed after release")
	}
	release2()
}

func TestCapacity_RespectsContextCancel(t *testing.T) {
	svc := CapacityService{Pool: infra.NewChanPool(1)}

	release, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := svc.Acquire(ctx); ok {
		t.Fatalf("expected acquire to fail with cancelled context")
	}
}
