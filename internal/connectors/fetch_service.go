package connectors

import (
	"cabquote/internal/storage"
)

// FetchService drives one intake pass: pull unseen mail from the connector
// and land each message in the raw store.
type FetchService struct {
	connector MailConnector
	store     *MailStoreService
}

// FetchResult distinguishes messages seen from messages new to the
// pipeline. A re-fetched message is not a new quote request, so only new
// ones count as Stored.
type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
	}
}

func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		_, stored, err := s.store.Store(msg)
		if err != nil {
			return result, err
		}
		if stored {
			result.Stored++
		}
	}

	return result, nil
}
