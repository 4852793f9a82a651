package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"
)

func TestQueryTimeoutBoundsContext(t *testing.T) {
	db := &DB{queryTimeout: 50 * time.Millisecond}

	ctx, cancel := db.QueryTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("derived context has no deadline")
	}
	if remaining := time.Until(deadline); remaining > 50*time.Millisecond {
		t.Errorf("deadline %v out, want at most 50ms", remaining)
	}
}

func TestQueryTimeoutKeepsTighterParentDeadline(t *testing.T) {
	db := &DB{queryTimeout: time.Hour}

	parent, parentCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer parentCancel()

	ctx, cancel := db.QueryTimeout(parent)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("derived context has no deadline")
	}
	if time.Until(deadline) > 10*time.Millisecond {
		t.Error("derived deadline looser than the parent's")
	}
}

func TestQueryTimeoutDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, defaultQueryTimeout},
		{-5, defaultQueryTimeout},
		{30, 30 * time.Second},
		{120, 2 * time.Minute},
	}

	for _, tt := range tests {
		if got := queryTimeoutDuration(tt.seconds); got != tt.want {
			t.Errorf("queryTimeoutDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"deadline", context.DeadlineExceeded, true},
		{"reset", errors.New("read tcp 10.0.0.1:5432: connection reset by peer"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"constraint", errors.New(`pq: duplicate key value violates unique constraint "orders_pkey"`), false},
		{"syntax", errors.New(`pq: syntax error at or near "FORM"`), false},
	}

	for _, tt := range tests {
		if got := isTransient(tt.err); got != tt.want {
			t.Errorf("%s: isTransient(%v) = %v, want %v", tt.name, tt.err, got, tt.want)
		}
	}
}
