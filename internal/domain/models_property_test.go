package domain

import (
	"testing"
	"testing/quick"
)

// TestRecordingStatus_TextRoundTrip_PropertyBased checks that every known status
// survives MarshalText/UnmarshalText.
func TestRecordingStatus_TextRoundTrip_PropertyBased(t *testing.T) {
	f := func(n uint8) bool {
		status := RecordingStatus(int(n) % len(recordingStatusNames))

		b, err := status.MarshalText()
		if err != nil {
			return false
		}
		var got RecordingStatus
		if err := got.UnmarshalText(b); err != nil {
			return false
		}
		return got == status
	}

	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}
