package domain

// SubscriptionKind distinguishes what a reader follows.
type SubscriptionKind string

const (
	SubscriptionPublisher  SubscriptionKind = "publisher"
	SubscriptionJournalist SubscriptionKind = "journalist"
)

// Subscriptions lists everything a reader follows.
type Subscriptions struct {
	ReaderID      string
	PublisherIDs  []string
	JournalistIDs []string
}
