package connectors

import "cabquote/internal"

// MailConnector pulls raw quote-request messages from a mailbox provider.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
