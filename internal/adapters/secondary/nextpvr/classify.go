package nextpvr

import "github.com/githubixx/nextpvr-go/internal/domain"

const (
	allChannelsName = "All Channels"
	anyChannelOID   = "0"
	hdQuality       = "hdtv"
)

// statusRules is evaluated in order; anything unmatched is Scheduled.
var statusRules = []struct {
	value  string
	status domain.RecordingStatus
}{
	{"Completed", domain.StatusCompleted},
	{"In-Progress", domain.StatusInProgress},
	{"Failed", domain.StatusError},
	{"Conflict", domain.StatusConflictedNotOk},
	{"Deleted", domain.StatusCancelled},
}

// ParseStatus maps a NextPVR schedule status to a RecordingStatus. It never fails.
func ParseStatus(value string) domain.RecordingStatus {
	for _, rule := range statusRules {
		if equalFold(value, rule.value) {
			return rule.status
		}
	}
	return domain.StatusScheduled
}

func isHD(quality string) bool {
	return equalFold(quality, hdQuality)
}

// channelName returns the rule's channel name, or nil when the rule covers all
// channels or carries no rule document.
func channelName(rule *recurrenceRule) *string {
	fields := rule.fields()
	if fields == nil || equalFold(fields.ChannelName, allChannelsName) {
		return nil
	}
	name := fields.ChannelName
	return &name
}

// channelID returns the rule's channel id, or nil for the "0" sentinel.
func channelID(rule *recurrenceRule) *string {
	fields := rule.fields()
	if fields == nil || equalFold(fields.ChannelOID, anyChannelOID) {
		return nil
	}
	id := fields.ChannelOID
	return &id
}

func (r *recurrenceRule) fields() *ruleFields {
	if r == nil || r.RulesXMLDoc == nil {
		return nil
	}
	return r.RulesXMLDoc.Rules
}
