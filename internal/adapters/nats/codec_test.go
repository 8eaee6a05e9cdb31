package natsadapter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

func TestIdentificationSubject(t *testing.T) {
	assert.Equal(t, "butterfly.identified.blue-morpho", IdentificationSubject(domain.BlueMorpho))
	assert.Equal(t, "butterfly.identified.monarch", IdentificationSubject(domain.Monarch))
}

func TestStreamConfig(t *testing.T) {
	cfg := StreamConfig()
	assert.Equal(t, StreamIdentifications, cfg.Name)
	assert.Equal(t, []string{SubjectIdentifiedAll}, cfg.Subjects)
}

func TestDecodeIdentification(t *testing.T) {
	in := domain.Identification{
		ID:        "abc",
		Species:   domain.Peacock,
		Outcome:   domain.OutcomeMatched,
		Score:     2,
		Source:    domain.SourceUpload,
		Input:     "peacock.jpg",
		CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	got, err := DecodeIdentification(data)
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestDecodeIdentification_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"missing id":      `{"species":"Monarch"}`,
		"unknown species": `{"id":"x","species":"Unicorn"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeIdentification([]byte(payload))
			assert.Error(t, err)
		})
	}

	_, err := DecodeIdentification([]byte(`{"id":"x","species":"Unicorn"}`))
	assert.ErrorIs(t, err, domain.ErrUnknownSpecies)
}
