package interview

import (
	"crossexam/internal/models"
	"github.com/stretchr/testify/require"
	"testing"
)

const validTurnJSON = `{
  "reply": "I was in the office that whole week, as far as I remember.",
  "phase": "probing",
  "state": {"truthfulness": 65, "stress": 25, "defensiveness": 30, "cooperation": 75, "memory": 88, "exposure": 10, "legalRisk": 5.5}
}`

func TestParseTurnReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name: "valid reply",
			raw:  validTurnJSON,
		},
		{
			name:    "not json",
			raw:     "I refuse to answer.",
			wantErr: ErrMalformedReply,
		},
		{
			name:    "missing reply text",
			raw:     `{"phase":"probing","state":{"truthfulness":1,"stress":1,"defensiveness":1,"cooperation":1,"memory":1,"exposure":1,"legalRisk":1}}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "unknown phase",
			raw:     `{"reply":"hello","phase":"smalltalk","state":{"truthfulness":1,"stress":1,"defensiveness":1,"cooperation":1,"memory":1,"exposure":1,"legalRisk":1}}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "missing state",
			raw:     `{"reply":"hello","phase":"rapport"}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "missing state field",
			raw:     `{"reply":"hello","phase":"rapport","state":{"truthfulness":1,"stress":1,"defensiveness":1,"cooperation":1,"memory":1,"exposure":1}}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "state out of bounds",
			raw:     `{"reply":"hello","phase":"rapport","state":{"truthfulness":170,"stress":1,"defensiveness":1,"cooperation":1,"memory":1,"exposure":1,"legalRisk":1}}`,
			wantErr: ErrMalformedReply,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := parseTurnReply(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, models.PhaseProbing, reply.Phase)
			require.Equal(t, 65, reply.State.Truthfulness)
			require.InDelta(t, 5.5, reply.State.LegalRisk, 0.001)
		})
	}
}
