package domain

import "strings"

// StatusBucket is the closed taxonomy of order outcomes. Every free-text
// status string maps to exactly one bucket.
type StatusBucket int

const (
	StatusOther StatusBucket = iota
	StatusDelivered
	StatusRTO
	StatusRTS
	StatusNDR
	StatusDispatched
	StatusLost
	StatusCancelled
	StatusBooked
	StatusInTransit
	StatusManifested
	StatusPicked
	StatusPickupPending
)

var statusBucketLabels = map[StatusBucket]string{
	StatusOther:         "Other",
	StatusDelivered:     "Delivered",
	StatusRTO:           "RTO",
	StatusRTS:           "RTS",
	StatusNDR:           "NDR",
	StatusDispatched:    "Dispatched",
	StatusLost:          "Lost",
	StatusCancelled:     "Cancelled",
	StatusBooked:        "Booked",
	StatusInTransit:     "InTransit",
	StatusManifested:    "Manifested",
	StatusPicked:        "Picked",
	StatusPickupPending: "PickupPending",
}

func (b StatusBucket) String() string {
	if label, ok := statusBucketLabels[b]; ok {
		return label
	}

	return "Other"
}

type statusRule struct {
	bucket StatusBucket
	match  func(s string) bool
}

func exactly(v string) func(string) bool {
	return func(s string) bool { return s == v }
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// statusRules is evaluated in order; the first match wins. Exact rules come
// before substring rules, and the more specific RTO variants come before the
// plain "rto-i" rule so "RTO-IT" is never claimed by it. "rto dispatched"
// must also be claimed before the Dispatched substring rule gets a look.
var statusRules = []statusRule{
	{StatusDelivered, exactly("delivered")},
	{StatusRTS, exactly("rts")},
	{StatusRTO, exactly("rto")},
	{StatusBooked, exactly("booked")},
	{StatusLost, exactly("lost")},
	{StatusRTO, containsAny("rto-it", "rto it")},
	{StatusRTO, containsAny("rto-ii", "rto ii")},
	{StatusRTO, containsAny("rto-i", "rto i")},
	{StatusRTO, containsAny("rto-dispatched", "rto dispatched")},
	{StatusRTO, containsAny("rto pending", "rto-pending")},
	{StatusCancelled, containsAny("cancel")},
	{StatusPickupPending, containsAny("pickup pending", "pickup-pending")},
	{StatusPicked, exactly("picked")},
	{StatusManifested, containsAny("manifest")},
	{StatusInTransit, containsAny("in transit", "in-transit", "intransit")},
	{StatusNDR, containsAny("ndr")},
	{StatusDispatched, containsAny("dispatch")},
}

// ClassifyStatus maps a raw order-status string to its taxonomy bucket.
// Classification is stateless: the same input always yields the same bucket.
func ClassifyStatus(raw string) StatusBucket {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusOther
	}

	for _, rule := range statusRules {
		if rule.match(s) {
			return rule.bucket
		}
	}

	return StatusOther
}

// validOrderBuckets is the denominator for top-line totals and revenue:
// terminal-ish outcomes only.
var validOrderBuckets = map[StatusBucket]bool{
	StatusRTS:        true,
	StatusRTO:        true,
	StatusDelivered:  true,
	StatusLost:       true,
	StatusNDR:        true,
	StatusDispatched: true,
}

// deliveryRatioBuckets is the broader denominator used for partner/pincode
// delivery ratios. It adds in-flight and pre-delivery states on top of the
// valid-order set so pipeline volume is not understated. The asymmetry with
// validOrderBuckets is deliberate.
var deliveryRatioBuckets = map[StatusBucket]bool{
	StatusRTS:           true,
	StatusRTO:           true,
	StatusDelivered:     true,
	StatusLost:          true,
	StatusNDR:           true,
	StatusDispatched:    true,
	StatusBooked:        true,
	StatusInTransit:     true,
	StatusManifested:    true,
	StatusPicked:        true,
	StatusPickupPending: true,
}

// CountsAsValidOrder reports whether the bucket belongs to the valid-order
// denominator used for totals, revenue and average order value.
func (b StatusBucket) CountsAsValidOrder() bool {
	return validOrderBuckets[b]
}

// CountsTowardDeliveryRatio reports whether the bucket belongs to the
// delivery-ratio denominator.
func (b StatusBucket) CountsTowardDeliveryRatio() bool {
	return deliveryRatioBuckets[b]
}

// MatchesNDR is the loose match used by NDR-specific views: any status
// containing "ndr" qualifies, tolerating suffixes like "NDR - 2nd attempt".
func MatchesNDR(raw string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(raw)), "ndr")
}
