package connectors

import (
	"os"
	"path/filepath"
	"testing"

	"cabquote/internal"
	"cabquote/internal/storage"
)

type stubConnector struct {
	messages []internal.FetchedMailMessage
}

func (s *stubConnector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	if len(s.messages) > max {
		return s.messages[:max], nil
	}
	return s.messages, nil
}

func TestFetchAndStoreCountsNewOnly(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	msg := internal.FetchedMailMessage{
		Provider:   "imap",
		MessageID:  "<m1@example.com>",
		Subject:    "Quote request",
		From:       "builder@example.com",
		ReceivedAt: "2026-08-01T00:00:00Z",
		Raw:        []byte("Subject: Quote request\r\n\r\nB15 base cabinet\r\n"),
	}
	conn := &stubConnector{messages: []internal.FetchedMailMessage{msg}}
	rawDir := filepath.Join(tmp, "raw")
	svc := NewFetchService(db, rawDir, conn)

	first, err := svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if first.Fetched != 1 || first.Stored != 1 {
		t.Fatalf("first = %+v", first)
	}

	// Same message again: fetched but not stored.
	second, err := svc.FetchAndStore("INBOX", 10)
	if err != nil {
		t.Fatal(err)
	}
	if second.Fetched != 1 || second.Stored != 0 {
		t.Fatalf("second = %+v", second)
	}

	files, err := os.ReadDir(rawDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("raw files = %d", len(files))
	}

	// A processed email keeps its place in the pipeline on re-fetch.
	row, err := db.GetEmailByProviderMessageID("imap", "<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateEmailStatus(row.ID, "processed"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FetchAndStore("INBOX", 10); err != nil {
		t.Fatal(err)
	}
	row, err = db.GetEmailByProviderMessageID("imap", "<m1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row.Status != "processed" {
		t.Fatalf("status=%q", row.Status)
	}
}

func TestStoreChangedContentIsNew(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewMailStoreService(db, filepath.Join(tmp, "raw"))
	msg := internal.FetchedMailMessage{
		Provider:   "gmail",
		MessageID:  "<m2@example.com>",
		Subject:    "Quote request",
		From:       "builder@example.com",
		ReceivedAt: "2026-08-01T00:00:00Z",
		Raw:        []byte("revision A"),
	}

	if _, stored, err := store.Store(msg); err != nil || !stored {
		t.Fatalf("stored=%v err=%v", stored, err)
	}

	// A resent message with revised content replaces the raw reference.
	msg.Raw = []byte("revision B")
	row, stored, err := store.Store(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !stored {
		t.Fatal("revised content not treated as new")
	}
	if row.Hash == contentHash([]byte("revision A")) {
		t.Fatalf("hash not updated: %s", row.Hash)
	}
}
