package manage

import (
	"context"

	"github.com/slack-go/slack"

	"wecom-bot/internal/stories/subscription"
)

// PostedMessage is one recorded PostEphemeral call with its rendered
// message options.
type PostedMessage struct {
	ChannelID string
	UserID    string
	Text      string
	Blocks    string
}

// MockGateway records outbound Slack calls for assertions.
type MockGateway struct {
	Posts      []PostedMessage
	Views      []slack.ModalViewRequest
	TriggerIDs []string

	PostErr error
	ViewErr error
}

func (m *MockGateway) PostEphemeral(_ context.Context, channelID, userID string, options ...slack.MsgOption) error {
	_, values, err := slack.UnsafeApplyMsgOptions("tok", channelID, "https://slack.example/api/", options...)
	if err != nil {
		return err
	}
	m.Posts = append(m.Posts, PostedMessage{
		ChannelID: channelID,
		UserID:    userID,
		Text:      values.Get("text"),
		Blocks:    values.Get("blocks"),
	})
	return m.PostErr
}

func (m *MockGateway) OpenView(_ context.Context, triggerID string, view slack.ModalViewRequest) error {
	m.TriggerIDs = append(m.TriggerIDs, triggerID)
	m.Views = append(m.Views, view)
	return m.ViewErr
}

// MockService returns canned snapshots and records executed actions.
type MockService struct {
	Snapshots   map[string]*subscription.Snapshot
	SnapshotErr error
	ExecuteErr  error

	Executed []subscription.PendingAction
}

func (m *MockService) Snapshot(_ context.Context, phoneNumber string) (*subscription.Snapshot, error) {
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	return m.Snapshots[phoneNumber], nil
}

func (m *MockService) Execute(_ context.Context, action subscription.PendingAction) error {
	m.Executed = append(m.Executed, action)
	return m.ExecuteErr
}
