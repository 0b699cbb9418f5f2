package script

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeakerOpposite(t *testing.T) {
	assert.Equal(t, SpeakerB, SpeakerA.Opposite())
	assert.Equal(t, SpeakerA, SpeakerB.Opposite())
}

func TestSpeakerJSON(t *testing.T) {
	data, err := json.Marshal(Line{ID: "x", Speaker: SpeakerB, Text: "hey"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","speaker":"B","text":"hey"}`, string(data))

	var line Line
	require.NoError(t, json.Unmarshal([]byte(`{"id":"y","speaker":"a","text":"yo"}`), &line))
	assert.Equal(t, SpeakerA, line.Speaker)

	assert.Error(t, json.Unmarshal([]byte(`{"speaker":"C"}`), &line))
}

func TestCastValidate(t *testing.T) {
	cases := []struct {
		name string
		cast Cast
		ok   bool
	}{
		{name: "default", cast: DefaultCast, ok: true},
		{name: "missing", cast: Cast{A: "Rahul"}, ok: false},
		{name: "duplicate", cast: Cast{A: "rahul", B: "RAHUL"}, ok: false},
		{name: "colon", cast: Cast{A: "Dr:Who", B: "Amy"}, ok: false},
		{name: "space", cast: Cast{A: "Mary Ann", B: "Amy"}, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cast.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCastLookup(t *testing.T) {
	speaker, ok := DefaultCast.Lookup("pRiYa")
	assert.True(t, ok)
	assert.Equal(t, SpeakerB, speaker)

	_, ok = DefaultCast.Lookup("nobody")
	assert.False(t, ok)
}
