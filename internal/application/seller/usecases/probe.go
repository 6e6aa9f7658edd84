package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/domain/seller"
)

// probeConnection validates conn against the platform and records the result on it.
// The platform rejecting the session, or being unreachable, expires it; anything
// unexpected puts it in error.
func probeConnection(ctx context.Context, checker SessionChecker, opener seller.Opener, conn *seller.SellerConnection, now time.Time) (status seller.ConnectionStatus) {
	defer func() {
		if r := recover(); r != nil {
			conn.MarkError(now, fmt.Sprintf("unexpected failure while probing session: %v", r))
			status = conn.Status()
		}
	}()

	sess, err := conn.OpenSession(opener)
	if err != nil {
		conn.MarkError(now, err.Error())
		return conn.Status()
	}

	ok, reason, err := checker.CheckSession(ctx, sess)
	switch {
	case err != nil:
		conn.MarkExpired(now, "settings page request failed: "+err.Error())
	case !ok:
		conn.MarkExpired(now, reason)
	default:
		conn.MarkActive(now)
	}
	return conn.Status()
}
