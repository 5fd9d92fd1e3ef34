// Package errnotifier reports background sync failures.
package errnotifier

import (
	"time"

	"github.com/bugsnag/bugsnag-go"
)

// Notifier reports an error that nobody is waiting on.
type Notifier interface {
	NotifySyncError(from, to time.Time, err error)
}

type BugsnagNotifier struct {
	apiKey  string
	envType string
}

func NewBugsnagNotifier(apiKey, envType string) *BugsnagNotifier {
	n := &BugsnagNotifier{apiKey: apiKey, envType: envType}

	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              n.apiKey,
		ReleaseStage:        n.envType,
		NotifyReleaseStages: []string{"production", "staging"},
	})
	return n
}

// NotifySyncError notifies bugsnag with the window of the failed sync.
func (n *BugsnagNotifier) NotifySyncError(from, to time.Time, err error) {
	_ = bugsnag.Notify(err, bugsnag.MetaData{
		"Sync": {
			"From": from.Format(time.RFC3339),
			"To":   to.Format(time.RFC3339),
		},
	})
}

// DummyNotifier drops every notification.
type DummyNotifier struct{}

func (DummyNotifier) NotifySyncError(from, to time.Time, err error) {}

// New returns a bugsnag notifier when apiKey is set and a DummyNotifier otherwise.
func New(apiKey, envType string) Notifier {
	if apiKey == "" {
		return DummyNotifier{}
	}
	return NewBugsnagNotifier(apiKey, envType)
}
