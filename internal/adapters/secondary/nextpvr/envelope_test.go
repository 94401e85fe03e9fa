package nextpvr

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want flexInt
	}{
		{`123`, 123},
		{`"123"`, 123},
		{`-4`, -4},
		{`null`, 0},
		{`""`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v flexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, v)
		})
	}

	for _, in := range []string{`"abc"`, `1.5`, `true`} {
		var v flexInt
		assert.Error(t, json.Unmarshal([]byte(in), &v), in)
	}
}

func TestDecodeEnvelope_OptionalSections(t *testing.T) {
	body := `{"ManageResults": {"EPGEvents": [
		{"epgEventJSONObject": {"schd": {"OID": 1}, "recurr": null, "epgEvent": null, "rtn": null}},
		{"epgEventJSONObject": {"recurr": {"OID": 2, "RulesXmlDoc": null}}}
	]}}`

	env, err := decodeEnvelope(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, env.ManageResults.EPGEvents, 2)

	first := env.ManageResults.EPGEvents[0].Payload
	assert.True(t, first.hasSchedule())
	assert.False(t, first.hasRecurrence())

	second := env.ManageResults.EPGEvents[1].Payload
	assert.False(t, second.hasSchedule())
	assert.True(t, second.hasRecurrence())
	assert.Nil(t, second.Recurrence.fields())

	var missing *eventPayload
	assert.False(t, missing.hasSchedule())
	assert.False(t, missing.hasRecurrence())
}

func TestDecodeEnvelope_FieldNamesAreCaseInsensitive(t *testing.T) {
	body := `{"manageResults": {"epgEvents": [{"EpgEventJSONObject": {"Schd": {"oid": 9}}}]}}`

	env, err := decodeEnvelope(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, env.ManageResults.EPGEvents, 1)
	assert.Equal(t, flexInt(9), env.ManageResults.EPGEvents[0].Payload.Schedule.OID)
}

func TestEnvelope_ReturnErrors(t *testing.T) {
	body := `{"ManageResults": {"EPGEvents": [
		{"epgEventJSONObject": {"rtn": {"Error": true, "Message": "boom"}}},
		{"epgEventJSONObject": {"rtn": {"Error": false, "Message": "fine"}}},
		{"epgEventJSONObject": null}
	]}}`

	env, err := decodeEnvelope(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"boom"}, env.returnErrors())
}
