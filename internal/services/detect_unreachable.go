package services

import (
	"context"
	"fmt"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"strings"
)

// DetectUnreachable probes every consecutive stop pair for reachability,
// independently of path assembly. One probe per pair, no retry: this is a
// user-facing warning mechanism, not a critical path, so a provider error
// counts the same as "no route". The result annotates the display; it
// never alters the road path, which carries its own straight-line
// fallbacks for the same failure modes.
func DetectUnreachable(
	ctx context.Context,
	prober ports.ReachabilityProber,
	orderedStops []domain.Stop,
) []domain.SegmentPair {
	var pairs []domain.SegmentPair
	for i := 0; i+1 < len(orderedStops); i++ {
		from := orderedStops[i].Coordinates()
		to := orderedStops[i+1].Coordinates()
		if !prober.Reachable(ctx, from, to) {
			pairs = append(pairs, domain.SegmentPair{Origin: from, Destination: to})
		}
	}
	return pairs
}

// UnreachableWarning folds per-driver unreachable pairs into a single
// human-readable message, grouped by driver in ascending id order.
// Returns "" when every segment is reachable.
func UnreachableWarning(byDriver map[int][]domain.SegmentPair, ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		pairs := byDriver[id]
		if len(pairs) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "driver %d: %d unreachable segment(s) shown as straight lines", id, len(pairs))
	}
	if b.Len() == 0 {
		return ""
	}
	return "Some stops could not be connected by road. " + b.String()
}
